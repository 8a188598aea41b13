package store

import "sync/atomic"

// Clock is the monotonic logical clock behind run sequence numbers.
// Every appended run is stamped with a strictly increasing seq, which
// is what "insertion order" means for listings. Wall-clock timestamps
// are recorded for display but never used for ordering.
//
// Thread-safety: safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// NewClockAt creates a clock resuming from a specific sequence number.
// The store seeds it with MAX(seq) at open so sequence numbers survive
// process restarts.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and advances the clock. Each
// call returns a unique, increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the clock's position without advancing it.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
