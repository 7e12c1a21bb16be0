package domain

import "sync/atomic"

// SweepCounter counts the successful sweeps of the whole process. It is safe
// for concurrent use and has no reset.
type SweepCounter struct {
	value atomic.Int64
}

// Inc records one successful sweep and returns the new value.
func (c *SweepCounter) Inc() int64 {
	return c.value.Add(1)
}

// Value returns the number of sweeps recorded so far.
func (c *SweepCounter) Value() int64 {
	return c.value.Load()
}
