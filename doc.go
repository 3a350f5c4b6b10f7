// Package netvalue provides the core types and engines for tracking an
// investor's ledger of cash and security transactions and deriving historical
// portfolio valuations from it.
//
// The core functionalities include:
//   - Ledger Replay: a stateless engine that replays buy/sell/deposit/withdraw
//     transactions day by day under average-cost accounting and produces a
//     continuous daily curve of cost basis, market value, and profit/loss.
//   - Historical Prices: a gap-aware fetcher that detects missing days in the
//     local price cache, coalesces them into minimal date intervals, fetches
//     them in batch from a market-data provider, and persists the result.
//     Provider failures degrade to cached data and never fail a valuation.
//   - Forward-Fill Series: a builder that turns the sparse cache of trading-day
//     closes into a dense calendar-day series, carrying the last known close
//     and the date it was observed on.
//   - Point-in-time Summary: per-symbol positions, cash balance, and intraday
//     profit/loss from live quotes.
//
// This package serves as the foundational logic for the `nvc` command-line
// tool. Storage and market-data access live behind small interfaces (Ledger,
// PriceStore, Provider) implemented by the store and marketdata packages.
package netvalue
