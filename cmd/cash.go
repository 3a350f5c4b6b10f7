package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/hmoreau/netvalue"
)

type depositCmd struct{ tradeFlags }

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "record a cash deposit" }
func (*depositCmd) Usage() string {
	return `nvc deposit [-a <account>] [-d <date>] [-fees <fees>] [-note <note>] <amount>

  Records a cash deposit into an account.
`
}

func (p *depositCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError("usage: nvc deposit <amount>")
	}
	amount, err := parseDecimal("amount", f.Arg(0))
	if err != nil {
		return fail(err)
	}
	fees, err := parseDecimal("fees", p.fees)
	if err != nil {
		return fail(err)
	}
	at, err := p.when()
	if err != nil {
		return fail(err)
	}
	return recordTransaction(netvalue.NewDeposit(p.account, at, amount, fees, p.note))
}

type withdrawCmd struct{ tradeFlags }

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "record a cash withdrawal" }
func (*withdrawCmd) Usage() string {
	return `nvc withdraw [-a <account>] [-d <date>] [-fees <fees>] [-note <note>] <amount>

  Records a cash withdrawal from an account.
`
}

func (p *withdrawCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError("usage: nvc withdraw <amount>")
	}
	amount, err := parseDecimal("amount", f.Arg(0))
	if err != nil {
		return fail(err)
	}
	fees, err := parseDecimal("fees", p.fees)
	if err != nil {
		return fail(err)
	}
	at, err := p.when()
	if err != nil {
		return fail(err)
	}
	return recordTransaction(netvalue.NewWithdraw(p.account, at, amount, fees, p.note))
}
