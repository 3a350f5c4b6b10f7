package netvalue

import (
	"github.com/shopspring/decimal"

	"github.com/hmoreau/netvalue/date"
)

// missingRanges walks every calendar day of r and coalesces the days absent
// from cached into contiguous date ranges. cached maps YYYY-MM-DD to a close;
// a nil map means everything is missing.
func missingRanges(cached map[string]decimal.Decimal, r date.Range) []date.Range {
	var out []date.Range
	for d := range r.Days() {
		if _, ok := cached[d.String()]; ok {
			continue
		}
		if n := len(out); n > 0 && out[n-1].To == d.Add(-1) {
			out[n-1].To = d
			continue
		}
		out = append(out, date.NewRange(d, d))
	}
	return mergeRanges(out)
}

// mergeRanges coalesces sorted date ranges that are adjacent or separated by
// a single day. A cached day swallowed between two gaps is refetched with its
// neighbors.
func mergeRanges(ranges []date.Range) []date.Range {
	var merged []date.Range
	for _, r := range ranges {
		if n := len(merged); n > 0 && merged[n-1].To.DaysUntil(r.From) <= 2 {
			if r.To.After(merged[n-1].To) {
				merged[n-1].To = r.To
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}
