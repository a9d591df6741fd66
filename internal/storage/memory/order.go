package memory

import (
	"cmp"
	"time"
)

// desc orders newer timestamps first, then higher ids first.
func desc(a, b time.Time, aid, bid int64) int {
	if c := b.Compare(a); c != 0 {
		return c
	}
	return cmp.Compare(bid, aid)
}

// asc orders older timestamps first, then lower ids first.
func asc(a, b time.Time, aid, bid int64) int {
	if c := a.Compare(b); c != 0 {
		return c
	}
	return cmp.Compare(aid, bid)
}

// boolDesc puts true before false.
func boolDesc(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}

func stamp(t *time.Time, now time.Time) {
	if t.IsZero() {
		*t = now
	}
}
