// Package cmd implements the nvc command line application.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/hmoreau/netvalue"
	"github.com/hmoreau/netvalue/config"
	"github.com/hmoreau/netvalue/marketdata"
	"github.com/hmoreau/netvalue/store"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&accountCmd{}, "ledger")
	c.Register(&buyCmd{}, "ledger")
	c.Register(&sellCmd{}, "ledger")
	c.Register(&depositCmd{}, "ledger")
	c.Register(&withdrawCmd{}, "ledger")
	c.Register(&txCmd{}, "ledger")

	c.Register(&curveCmd{}, "valuation")
	c.Register(&summaryCmd{}, "valuation")
	c.Register(&refreshCmd{}, "valuation")

	c.Register(&topicCmd{}, "documentation")
	c.Register(&assistCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configPath = flag.String("config", config.DefaultPath(), "Path to the configuration file")
var dbPath = flag.String("db", "", "Path to the SQLite database (overrides the configuration)")

// loadConfig reads the configuration honoring the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	return cfg, nil
}

// openStore opens the SQLite store the configuration points at.
func openStore(cfg *config.Config) (*store.Store, error) {
	return store.Open(cfg.DBPath)
}

// newPriceService wires the configured market-data provider behind the price
// cache.
func newPriceService(cfg *config.Config, db *store.Store) (*netvalue.PriceService, error) {
	provider, err := marketdata.New(cfg.Provider, cfg.EODHDAPIKey)
	if err != nil {
		return nil, err
	}
	return netvalue.NewPriceService(db, provider, cfg.FetchTimeout()), nil
}

// renderMarkdown makes markdown printable on the terminal. The raw text is
// good enough when the terminal renderer fails.
func renderMarkdown(md string) string {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		return md
	}
	return out
}

func printMarkdown(md string) {
	fmt.Print(renderMarkdown(md))
}

// fail reports err on stderr and maps it to the failure exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}

// splitList turns a comma-separated flag value into its items, nil when blank.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func usageError(msg string) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, msg)
	return subcommands.ExitUsageError
}
