package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/hmoreau/netvalue"
	"github.com/hmoreau/netvalue/date"
)

// tradeFlags are the flags buy and sell share.
type tradeFlags struct {
	account string
	day     string
	fees    string
	note    string
}

func (p *tradeFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.account, "a", "main", "Account the transaction belongs to.")
	f.StringVar(&p.day, "d", "", "Trade date (YYYY-MM-DD). Defaults to today.")
	f.StringVar(&p.fees, "fees", "0", "Fees paid, in the ledger currency.")
	f.StringVar(&p.note, "note", "", "Free-form note attached to the transaction.")
}

// when turns the -d flag into a timestamp at market close (16:00 UTC).
func (p *tradeFlags) when() (time.Time, error) {
	d := date.Today()
	if p.day != "" {
		var err error
		if d, err = date.Parse(p.day); err != nil {
			return time.Time{}, fmt.Errorf("parsing -d: %w", err)
		}
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 16, 0, 0, 0, time.UTC), nil
}

func parseDecimal(name, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %q is not a number", name, s)
	}
	return d, nil
}

// recordTransaction validates and appends t, then echoes its id.
func recordTransaction(t netvalue.Transaction) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	db, err := openStore(cfg)
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	t, err = db.AddTransaction(t)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Recorded %s %s\n", t.Kind, t.ID)
	return subcommands.ExitSuccess
}

type buyCmd struct{ tradeFlags }

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a stock purchase" }
func (*buyCmd) Usage() string {
	return `nvc buy [-a <account>] [-d <date>] [-fees <fees>] [-note <note>] <symbol> <quantity> <price>

  Records a buy. The position's average cost absorbs the fees.
`
}

func (p *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		return usageError("usage: nvc buy <symbol> <quantity> <price>")
	}
	qty, err := parseDecimal("quantity", f.Arg(1))
	if err != nil {
		return fail(err)
	}
	price, err := parseDecimal("price", f.Arg(2))
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
	return recordTransaction(netvalue.NewBuy(p.account, at, f.Arg(0), qty, price, fees, p.note))
}

type sellCmd struct{ tradeFlags }

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a stock sale" }
func (*sellCmd) Usage() string {
	return `nvc sell [-a <account>] [-d <date>] [-fees <fees>] [-note <note>] <symbol> <quantity> <price>

  Records a sale. The average cost of the remaining shares does not change.
`
}

func (p *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		return usageError("usage: nvc sell <symbol> <quantity> <price>")
	}
	qty, err := parseDecimal("quantity", f.Arg(1))
	if err != nil {
		return fail(err)
	}
	price, err := parseDecimal("price", f.Arg(2))
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
	return recordTransaction(netvalue.NewSell(p.account, at, f.Arg(0), qty, price, fees, p.note))
}
