package date

import "iter"

// Range represents an inclusive range of calendar dates.
type Range struct{ From, To Date }

// NewRange returns the inclusive range [from, to].
func NewRange(from, to Date) Range { return Range{From: from, To: to} }

// String formats the range as "from..to".
func (r Range) String() string { return r.From.String() + ".." + r.To.String() }

// Contains returns true when the date is included in the range (boundaries included).
func (r Range) Contains(d Date) bool { return !d.Before(r.From) && !d.After(r.To) }

// Empty reports whether the range covers no day at all.
func (r Range) Empty() bool { return r.From.After(r.To) }

// Len returns the number of calendar days in the range, boundaries included.
func (r Range) Len() int {
	if r.Empty() {
		return 0
	}
	return r.From.DaysUntil(r.To) + 1
}

// Days returns an iterator over every calendar day in the range, in order.
func (r Range) Days() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := r.From; !d.After(r.To); d = d.Add(1) {
			if !yield(d) {
				return
			}
		}
	}
}
