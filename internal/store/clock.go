package store

import (
	"context"
	"sync/atomic"
)

// Clock hands out cell seq numbers for one session. Each call to Next
// returns a strictly greater value, so cells sort by seq in the order
// they ran.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock for a new session. The first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock that continues after seq.
func NewClockAt(seq int64) *Clock {
	c := &Clock{}
	c.seq.Store(seq)
	return c
}

// ResumeClock creates a clock that continues a recorded session after its
// last cell.
func (s *Store) ResumeClock(ctx context.Context, sessionID string) (*Clock, error) {
	last, err := s.LastSeq(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return NewClockAt(last), nil
}

// Next returns the next seq.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last seq handed out, or the starting point.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
