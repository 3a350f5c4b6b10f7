// Package marketdata provides the market-data sources feeding the valuation
// engine: Yahoo Finance and EODHD over HTTP, plus a deterministic offline
// stub. Every source serves daily closes through the netvalue.Provider
// contract and live quotes through QuoteFetcher.
package marketdata

import (
	"fmt"

	"github.com/hmoreau/netvalue"
)

// Provider is a full market-data source: daily closes for the price cache
// plus live quotes for the summary.
type Provider interface {
	netvalue.Provider
	QuoteFetcher
}

// New returns the provider registered under name. Only the EODHD provider
// needs an API key, the others ignore it.
func New(name, eodhdKey string) (Provider, error) {
	switch name {
	case "yahoo":
		return NewYahoo(), nil
	case "eodhd":
		if eodhdKey == "" {
			return nil, fmt.Errorf("provider eodhd needs an API key, set eodhd_api_key in the config or NETVALUE_EODHD_KEY")
		}
		return NewEODHD(eodhdKey), nil
	case "stub":
		return NewStub(), nil
	}
	return nil, fmt.Errorf("unknown provider %q, want yahoo, eodhd or stub", name)
}
