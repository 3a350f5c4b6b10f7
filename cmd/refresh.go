package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"
	"github.com/robfig/cron/v3"

	"github.com/hmoreau/netvalue"
	"github.com/hmoreau/netvalue/config"
	"github.com/hmoreau/netvalue/date"
)

type refreshCmd struct {
	daemon bool
}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "fill the price cache for every symbol in the ledger" }
func (*refreshCmd) Usage() string {
	return `nvc refresh [-daemon]

  Fetches the daily closes the cache is missing, for every symbol ever
  traded, from the oldest trade date through today. With -daemon, keeps
  running and refreshes on the refresh_cron schedule (default weekdays
  after US market close) until interrupted.
`
}

func (p *refreshCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.daemon, "daemon", false, "Keep running and refresh on the refresh_cron schedule.")
}

// refreshOnce fetches cache gaps for all traded symbols up to today.
func refreshOnce(ctx context.Context, cfg *config.Config) error {
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	txns, err := db.Transactions(nil)
	if err != nil {
		return err
	}
	symbols := netvalue.SymbolsTraded(txns)
	first, _, ok := netvalue.TradeBounds(txns)
	if !ok || len(symbols) == 0 {
		log.Println("nothing to refresh, the ledger has no trades")
		return nil
	}

	prices, err := newPriceService(cfg, db)
	if err != nil {
		return err
	}
	r := date.NewRange(first, date.Today())
	if _, err := prices.HistoricalSeries(ctx, symbols, r, false); err != nil {
		return err
	}
	log.Printf("refreshed %d symbols over %s", len(symbols), r)
	return nil
}

func (p *refreshCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}

	if !p.daemon {
		if err := refreshOnce(ctx, cfg); err != nil {
			return fail(err)
		}
		return subcommands.ExitSuccess
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(cfg.RefreshCron, func() {
		if err := refreshOnce(ctx, cfg); err != nil {
			log.Printf("warning, refresh: %v", err)
		}
	}); err != nil {
		return fail(fmt.Errorf("bad refresh_cron %q: %w", cfg.RefreshCron, err))
	}

	log.Printf("refresh daemon started, schedule %q", cfg.RefreshCron)
	c.Start()
	<-ctx.Done()

	// Let a refresh in flight finish before exiting.
	<-c.Stop().Done()
	log.Println("refresh daemon stopped")
	return subcommands.ExitSuccess
}
