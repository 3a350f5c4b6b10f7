package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/hmoreau/netvalue"
	"github.com/hmoreau/netvalue/date"
)

// SummaryMarkdown renders the point-in-time summary: open positions, cash per
// account, totals and today's P/L.
func SummaryMarkdown(s *netvalue.Summary, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Portfolio Summary on %s", date.Today()))

	if len(s.Positions) > 0 {
		doc.H2("Positions")
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignLeft,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
			},
			Header: []string{"Symbol", "Name", "Shares", "Avg Cost", "Cost", "Price", "Value", "P/L", "P/L %", "Weight"},
			Rows:   [][]string{},
		}
		for _, p := range s.Positions {
			table.Rows = append(table.Rows, []string{
				p.Symbol,
				p.DisplayName,
				p.Shares.String(),
				money(p.AvgCost, currency),
				money(p.Cost, currency),
				moneyPtr(p.LatestPrice, currency),
				moneyPtr(p.MarketValue, currency),
				moneyPtr(p.UnrealizedPL, currency),
				pct(p.UnrealizedPLPct),
				pct(p.WeightPct),
			})
		}
		doc.Table(table)
	} else {
		doc.PlainText("No open positions.")
	}

	if len(s.AccountCash) > 0 {
		doc.H2("Cash")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
			Header:    []string{"Account", "Balance"},
			Rows:      [][]string{},
		}
		for _, ac := range s.AccountCash {
			table.Rows = append(table.Rows, []string{ac.Account, money(ac.Cash, currency)})
		}
		doc.Table(table)
	}

	doc.H2("Totals")
	totals := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"", "Amount"},
		Rows: [][]string{
			{"Cash", money(s.Cash, currency)},
			{"Holdings Cost", money(s.TotalCost, currency)},
			{"Market Value", money(s.TotalMarketValue, currency)},
			{"Today P/L", fmt.Sprintf("%s (%s)", netvalue.M(s.TodayPL, currency).SignedString(), pct(s.TodayPLPct))},
		},
	}
	doc.Table(totals)

	return doc.String()
}
