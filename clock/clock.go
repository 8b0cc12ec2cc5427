// Package clock provides the real-time clock used by timed waits.
// Timed waits measure wall-clock time, never scaled simulation time.
package clock

import (
	"sync"
	"time"
)

// Clock reports the current real time.
type Clock interface {
	Now() time.Time
}

// Real reads the system monotonic clock.
type Real struct{}

// NewReal creates a clock backed by time.Now.
func NewReal() *Real {
	return &Real{}
}

// Now returns the current time with monotonic clock reading.
func (r *Real) Now() time.Time {
	return time.Now()
}

// Manual is a clock that only moves when told to.
// Used by tests and headless runs that need deterministic timing.
type Manual struct {
	mu      sync.RWMutex
	current time.Time
}

// NewManual creates a manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{current: start}
}

// Now returns the current manual time.
func (m *Manual) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Set moves the clock to t.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = t
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
}

// Seconds converts a float second count into a time.Duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
