package date

import "testing"

func TestAppend(t *testing.T) {
	h := new(History[string])
	d1, v1 := New(2025, 07, 01), "25 Jul 1"
	d2, v2 := New(2024, 07, 01), "24 Jul 1"

	// Test is about appending two values in reverse order and checking that everything is
	// as expected at every step of the way.

	if h.Len() != 0 {
		t.Errorf("History.Len() = %v want 0", h.Len())
	}

	h.Append(d1, v1)
	if h.Len() != 1 {
		t.Errorf("Append(d1, v1).Len() = %v want 1", h.Len())
	}

	h.Append(d2, v2)
	if h.Len() != 2 {
		t.Errorf("Append(d2, v2).Len() = %v want 2", h.Len())
	}

	if h.days[1] != d1 {
		t.Errorf("history[1].day = %v want %v", h.days[0], d1)
	}
	if h.days[0] != d2 {
		t.Errorf("history[0].day = %v want %v", h.days[1], d2)
	}
	if h.values[1] != v1 {
		t.Errorf("history[1].value = %v want %v", h.values[0], v1)
	}
	if h.values[0] != v2 {
		t.Errorf("history[0].value = %v want %v", h.values[1], v2)
	}

}

func TestLatestAsOf(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2025, 1, 6), 100.0)  // Monday
	h.Append(New(2025, 1, 7), 101.5)  // Tuesday
	h.Append(New(2025, 1, 10), 99.25) // Friday

	tests := []struct {
		day     Date
		wantDay Date
		wantVal float64
		wantOK  bool
	}{
		{New(2025, 1, 5), Date{}, 0, false},                // before any data
		{New(2025, 1, 6), New(2025, 1, 6), 100.0, true},    // exact hit
		{New(2025, 1, 8), New(2025, 1, 7), 101.5, true},    // gap carries Tuesday
		{New(2025, 1, 9), New(2025, 1, 7), 101.5, true},    // still Tuesday
		{New(2025, 1, 12), New(2025, 1, 10), 99.25, true},  // weekend carries Friday
	}
	for _, tc := range tests {
		day, val, ok := h.LatestAsOf(tc.day)
		if ok != tc.wantOK || day != tc.wantDay || val != tc.wantVal {
			t.Errorf("LatestAsOf(%s) = %s, %v, %v want %s, %v, %v",
				tc.day, day, val, ok, tc.wantDay, tc.wantVal, tc.wantOK)
		}
	}
}

func TestAppendOverwrites(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2025, 1, 6), 100.0)
	h.Append(New(2025, 1, 6), 102.0)
	if h.Len() != 1 {
		t.Fatalf("Len = %d want 1", h.Len())
	}
	if v, ok := h.Get(New(2025, 1, 6)); !ok || v != 102.0 {
		t.Errorf("Get = %v, %v want 102.0, true", v, ok)
	}
}
