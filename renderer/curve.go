package renderer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	md "github.com/nao1215/markdown"

	"github.com/hmoreau/netvalue"
)

// CurveMarkdown renders a valuation curve as a markdown table, one row per
// calendar day.
func CurveMarkdown(c *netvalue.Curve, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Valuation Curve")
	doc.PlainText(fmt.Sprintf("Baseline: %s. Prices: %s.", c.BaselineLabel, c.PriceType))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignLeft,
			md.AlignLeft,
		},
		Header: []string{"Date", "Baseline", "Market Value", "P/L", "P/L %", "Trading", "Last Close"},
		Rows:   [][]string{},
	}
	for i := range c.Dates {
		var p *decimal.Decimal
		if c.ProfitLossPct[i] != nil {
			v := decimal.NewFromFloat(*c.ProfitLossPct[i])
			p = &v
		}
		trading := ""
		if c.IsTradingDay[i] {
			trading = "yes"
		}
		table.Rows = append(table.Rows, []string{
			c.Dates[i],
			money(decimal.NewFromFloat(c.Baseline[i]), currency),
			money(decimal.NewFromFloat(c.MarketValue[i]), currency),
			money(decimal.NewFromFloat(c.ProfitLoss[i]), currency),
			pct(p),
			trading,
			c.LastTradingDate[i],
		})
	}
	doc.Table(table)

	return doc.String()
}

// CurveCSV writes the curve to w, one row per day, columns matching the
// JSON arrays. The percentage cell is empty on days it is undefined.
func CurveCSV(c *netvalue.Curve, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "baseline", "market_value", "profit_loss", "profit_loss_pct", "is_trading_day", "last_trading_date"}); err != nil {
		return err
	}
	for i := range c.Dates {
		p := ""
		if c.ProfitLossPct[i] != nil {
			p = strconv.FormatFloat(*c.ProfitLossPct[i], 'f', 2, 64)
		}
		row := []string{
			c.Dates[i],
			strconv.FormatFloat(c.Baseline[i], 'f', 2, 64),
			strconv.FormatFloat(c.MarketValue[i], 'f', 2, 64),
			strconv.FormatFloat(c.ProfitLoss[i], 'f', 2, 64),
			p,
			strconv.FormatBool(c.IsTradingDay[i]),
			c.LastTradingDate[i],
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CurveJSON renders the curve in its wire shape, indented for the terminal.
func CurveJSON(c *netvalue.Curve) (string, error) {
	out, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
