package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/hmoreau/netvalue"
	"github.com/hmoreau/netvalue/marketdata"
	"github.com/hmoreau/netvalue/renderer"
)

type summaryCmd struct {
	accounts string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show the portfolio as of now, with live quotes" }
func (*summaryCmd) Usage() string {
	return `nvc summary [-a <accounts>]

  Shows the open positions, their live market value and unrealized P/L, cash
  per account, and today's P/L. Symbols the provider cannot quote right now
  show dashes instead of failing the whole report.
`
}

func (p *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.accounts, "a", "", "Comma-separated accounts to summarize. Defaults to all.")
}

func (p *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	db, err := openStore(cfg)
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	provider, err := marketdata.New(cfg.Provider, cfg.EODHDAPIKey)
	if err != nil {
		return fail(err)
	}
	quotes := marketdata.NewQuoteCache(provider, cfg.QuoteTTL(), cfg.FetchTimeout())

	s, err := netvalue.SummarizeLedger(ctx, db, quotes, splitList(p.accounts))
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.SummaryMarkdown(s, cfg.Currency))
	return subcommands.ExitSuccess
}
