package netvalue

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/hmoreau/netvalue/date"
)

func TestBuildDailySeries(t *testing.T) {
	// Closes on Tuesday the 10th and Thursday the 12th; the range opens on
	// the Sunday before, so the first two days have no close to carry.
	byDate := map[string]decimal.Decimal{
		"2025-06-10": dec(100),
		"2025-06-12": dec(104),
	}
	r := date.NewRange(day("2025-06-08"), day("2025-06-14"))

	want := []struct {
		date    string
		close   float64
		hasData bool
		traded  string
	}{
		{"2025-06-08", 0, false, "2025-06-08"},
		{"2025-06-09", 0, false, "2025-06-09"},
		{"2025-06-10", 100, true, "2025-06-10"},
		{"2025-06-11", 100, true, "2025-06-10"},
		{"2025-06-12", 104, true, "2025-06-12"},
		{"2025-06-13", 104, true, "2025-06-12"},
		{"2025-06-14", 104, true, "2025-06-12"},
	}

	got := BuildDailySeries(byDate, r)
	if len(got) != len(want) {
		t.Fatalf("BuildDailySeries() has %d points, want %d", len(got), len(want))
	}
	for i, w := range want {
		pt := got[i]
		if pt.Date.String() != w.date {
			t.Errorf("point %d date = %s, want %s", i, pt.Date, w.date)
		}
		if w.hasData {
			if pt.Close == nil {
				t.Errorf("point %s close = nil, want %v", w.date, w.close)
			} else if !pt.Close.Equal(dec(w.close)) {
				t.Errorf("point %s close = %v, want %v", w.date, pt.Close, w.close)
			}
		} else if pt.Close != nil {
			t.Errorf("point %s close = %v, want nil", w.date, pt.Close)
		}
		if got, want := pt.LastTradingDate.String(), w.traded; got != want {
			t.Errorf("point %s last trading date = %s, want %s", w.date, got, want)
		}
	}
}

func TestBuildDailySeriesIgnoresOutsideCloses(t *testing.T) {
	// A close before the range must not seed the fill: the series always
	// starts empty at the beginning of the range.
	byDate := map[string]decimal.Decimal{
		"2025-06-05": dec(99),
		"2025-06-12": dec(104),
		"2025-06-20": dec(120),
	}
	got := BuildDailySeries(byDate, date.NewRange(day("2025-06-10"), day("2025-06-14")))

	if got[0].Close != nil || got[1].Close != nil {
		t.Errorf("days before the first in-range close should have nil close, got %v and %v", got[0].Close, got[1].Close)
	}
	for _, pt := range got[2:] {
		if pt.Close == nil || !pt.Close.Equal(dec(104)) {
			t.Errorf("point %s close = %v, want 104", pt.Date, pt.Close)
		}
		if got, want := pt.LastTradingDate, day("2025-06-12"); got != want {
			t.Errorf("point %s last trading date = %s, want %s", pt.Date, got, want)
		}
	}
}

func TestBuildDailySeriesNoData(t *testing.T) {
	r := date.NewRange(day("2025-06-10"), day("2025-06-12"))
	got := BuildDailySeries(nil, r)
	if len(got) != r.Len() {
		t.Fatalf("BuildDailySeries() has %d points, want %d", len(got), r.Len())
	}
	for _, pt := range got {
		if pt.Close != nil {
			t.Errorf("point %s close = %v, want nil", pt.Date, pt.Close)
		}
		if pt.LastTradingDate != pt.Date {
			t.Errorf("point %s last trading date = %s, want own date", pt.Date, pt.LastTradingDate)
		}
	}
}

func TestBuildDailySeriesSkipsBadKeys(t *testing.T) {
	byDate := map[string]decimal.Decimal{
		"not-a-date": dec(1),
		"2025-06-10": dec(100),
	}
	got := BuildDailySeries(byDate, date.NewRange(day("2025-06-10"), day("2025-06-10")))
	if len(got) != 1 || got[0].Close == nil || !got[0].Close.Equal(dec(100)) {
		t.Errorf("BuildDailySeries() = %v, want the single valid close", got)
	}
}
