package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/hmoreau/netvalue/renderer"
)

type accountCmd struct{}

func (*accountCmd) Name() string     { return "account" }
func (*accountCmd) Synopsis() string { return "manage the accounts transactions belong to" }
func (*accountCmd) Usage() string {
	return `nvc account [list]
nvc account add <name>
nvc account rename <old> <new>
nvc account rm <name>

  Manages the named accounts of the ledger. Every transaction belongs to an
  account; an account with transactions cannot be removed.
`
}

func (*accountCmd) SetFlags(*flag.FlagSet) {}

func (c *accountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	case "", "list":
		accounts, err := db.ListAccounts()
		if err != nil {
			return fail(err)
		}
		printMarkdown(renderer.AccountsMarkdown(accounts))

	case "add":
		if f.NArg() != 2 {
			return usageError("usage: nvc account add <name>")
		}
		a, err := db.CreateAccount(f.Arg(1))
		if err != nil {
			return fail(err)
		}
		fmt.Printf("Created account %q\n", a.Name)

	case "rename":
		if f.NArg() != 3 {
			return usageError("usage: nvc account rename <old> <new>")
		}
		if err := db.RenameAccount(f.Arg(1), f.Arg(2)); err != nil {
			return fail(err)
		}
		fmt.Printf("Renamed account %q to %q\n", f.Arg(1), f.Arg(2))

	case "rm":
		if f.NArg() != 2 {
			return usageError("usage: nvc account rm <name>")
		}
		if err := db.DeleteAccount(f.Arg(1)); err != nil {
			return fail(err)
		}
		fmt.Printf("Removed account %q\n", f.Arg(1))

	default:
		return usageError(fmt.Sprintf("unknown account action %q, want add, list, rename or rm", action))
	}
	return subcommands.ExitSuccess
}
