package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/hmoreau/netvalue"
	"github.com/hmoreau/netvalue/date"
	"github.com/hmoreau/netvalue/renderer"
)

type curveCmd struct {
	accounts    string
	period      string
	start       string
	end         string
	includeCash bool
	refresh     bool
	format      string
}

func (*curveCmd) Name() string     { return "curve" }
func (*curveCmd) Synopsis() string { return "compute the day-by-day valuation of the ledger" }
func (*curveCmd) Usage() string {
	return `nvc curve [-a <accounts>] [-p <period> | -s <start>] [-e <end>] [-include-cash] [-refresh] [-format md|csv|json]

  Replays the ledger under average-cost accounting and values the open
  positions against daily closes, one row per calendar day. Missing closes
  are fetched from the configured provider and cached; days the market was
  shut carry the last known close forward.
`
}

func (p *curveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.accounts, "a", "", "Comma-separated accounts to replay. Defaults to all.")
	f.StringVar(&p.period, "p", "", "Start at the beginning of the period holding the end date (day, week, month, quarter, year).")
	f.StringVar(&p.start, "s", "", "First day of the curve (YYYY-MM-DD). Defaults to the first trade. Overrides -p.")
	f.StringVar(&p.end, "e", "", "Last day of the curve (YYYY-MM-DD). Defaults to today.")
	f.BoolVar(&p.includeCash, "include-cash", false, "Fold the cash balance into baseline and market value.")
	f.BoolVar(&p.refresh, "refresh", false, "Refetch the whole price range instead of only cache gaps.")
	f.StringVar(&p.format, "format", "md", "Output format: md, csv or json.")
}

// optionalDay parses a date flag, nil when unset.
func optionalDay(name, s string) (*date.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := date.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return &d, nil
}

func (p *curveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	switch p.format {
	case "md", "csv", "json":
	default:
		return usageError(fmt.Sprintf("unknown format %q, want md, csv or json", p.format))
	}

	req := netvalue.CurveRequest{
		Accounts:    splitList(p.accounts),
		IncludeCash: p.includeCash,
		Refresh:     p.refresh,
	}
	var err error
	if req.Start, err = optionalDay("-s", p.start); err != nil {
		return fail(err)
	}
	if req.End, err = optionalDay("-e", p.end); err != nil {
		return fail(err)
	}
	if p.period != "" && req.Start == nil {
		period, err := date.ParsePeriod(p.period)
		if err != nil {
			return fail(err)
		}
		end := date.Today()
		if req.End != nil {
			end = *req.End
		}
		start := end.StartOf(period)
		req.Start = &start
	}

	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	db, err := openStore(cfg)
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	prices, err := newPriceService(cfg, db)
	if err != nil {
		return fail(err)
	}
	curve, err := netvalue.NewEngine(db, prices).ComputeCurve(ctx, req)
	if err != nil {
		return fail(err)
	}

	switch p.format {
	case "csv":
		if err := renderer.CurveCSV(curve, os.Stdout); err != nil {
			return fail(err)
		}
	case "json":
		out, err := renderer.CurveJSON(curve)
		if err != nil {
			return fail(err)
		}
		fmt.Println(out)
	default:
		printMarkdown(renderer.CurveMarkdown(curve, cfg.Currency))
	}
	return subcommands.ExitSuccess
}
