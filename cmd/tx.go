package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/hmoreau/netvalue/date"
	"github.com/hmoreau/netvalue/renderer"
	"github.com/hmoreau/netvalue/store"
)

type txCmd struct {
	accounts string
	symbol   string
	period   string
	date     string
	deleted  bool
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions, or manage one by id" }
func (*txCmd) Usage() string {
	return `nvc tx [-a <accounts>] [-s <symbol>] [-p <period> [-d <date>]] [-deleted]
nvc tx rm <id>
nvc tx restore <id>
nvc tx log <id>

  Without an action, lists transactions newest first. "rm" soft-deletes a
  transaction so it no longer counts in curves and summaries, "restore"
  brings it back, and "log" shows its audit trail.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.accounts, "a", "", "Comma-separated accounts to list. Defaults to all.")
	f.StringVar(&p.symbol, "s", "", "List only transactions on this symbol.")
	f.StringVar(&p.period, "p", "", "List only the period (day, week, month, quarter, year) holding -d.")
	f.StringVar(&p.date, "d", "", "Date anchoring -p (YYYY-MM-DD). Defaults to today.")
	f.BoolVar(&p.deleted, "deleted", false, "Include soft-deleted transactions.")
}

func (p *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	db, err := openStore(cfg)
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	switch action := f.Arg(0); action {
	case "":
		listed, err := db.ListTransactions(store.TransactionFilter{
			Accounts:       splitList(p.accounts),
			Symbol:         p.symbol,
			IncludeDeleted: p.deleted,
		})
		if err != nil {
			return fail(err)
		}
		if p.period != "" {
			period, err := date.ParsePeriod(p.period)
			if err != nil {
				return fail(err)
			}
			anchor := date.Today()
			if p.date != "" {
				if anchor, err = date.Parse(p.date); err != nil {
					return fail(err)
				}
			}
			r := period.Range(anchor)
			kept := listed[:0]
			for _, row := range listed {
				if r.Contains(row.TradeDate()) {
					kept = append(kept, row)
				}
			}
			listed = kept
		}
		printMarkdown(renderer.TransactionsMarkdown(listed, cfg.Currency))

	case "rm":
		if f.NArg() != 2 {
			return usageError("usage: nvc tx rm <id>")
		}
		if err := db.DeleteTransaction(f.Arg(1)); err != nil {
			return fail(err)
		}
		fmt.Printf("Deleted transaction %s (restore with: nvc tx restore %s)\n", f.Arg(1), f.Arg(1))

	case "restore":
		if f.NArg() != 2 {
			return usageError("usage: nvc tx restore <id>")
		}
		if err := db.RestoreTransaction(f.Arg(1)); err != nil {
			return fail(err)
		}
		fmt.Printf("Restored transaction %s\n", f.Arg(1))

	case "log":
		if f.NArg() != 2 {
			return usageError("usage: nvc tx log <id>")
		}
		revs, err := db.Revisions(f.Arg(1))
		if err != nil {
			return fail(err)
		}
		printMarkdown(renderer.RevisionsMarkdown(f.Arg(1), revs))

	default:
		return usageError(fmt.Sprintf("unknown tx action %q, want rm, restore or log", action))
	}
	return subcommands.ExitSuccess
}
