package cmd

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/google/subcommands"
	"google.golang.org/genai"

	"github.com/hmoreau/netvalue"
	"github.com/hmoreau/netvalue/agent"
	"github.com/hmoreau/netvalue/marketdata"
)

type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "start an interactive session with the AI assistant" }
func (*assistCmd) Usage() string {
	return `nvc assist [<first prompt>]

  Starts an interactive session with the AI assistant. The assistant has
  read-only access to the ledger: it can compute valuation curves and
  summaries but never records transactions. Requires GEMINI_API_KEY.
`
}

func (*assistCmd) SetFlags(*flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	initialPrompt := ""
	if f.NArg() > 0 {
		initialPrompt = strings.Join(f.Args(), " ")
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
	provider, err := marketdata.New(cfg.Provider, cfg.EODHDAPIKey)
	if err != nil {
		return fail(err)
	}

	// The client reads GEMINI_API_KEY itself.
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return fail(err)
	}

	analyst := agent.NewAnalyst(&agent.Env{
		Engine:   netvalue.NewEngine(db, prices),
		Ledger:   db,
		Prices:   prices,
		Quotes:   marketdata.NewQuoteCache(provider, cfg.QuoteTTL(), cfg.FetchTimeout()),
		Currency: cfg.Currency,
	})
	a := agent.New(os.Stdout, os.Stdin, analyst)
	a.Render = renderMarkdown

	if initialPrompt != "" {
		err = a.Run(ctx, client, initialPrompt)
	} else {
		err = a.Run(ctx, client)
	}
	if err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
