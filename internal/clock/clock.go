package clock

import "time"

// Clock abstracts wall time so SLA evaluation stays deterministic in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// System returns a Clock backed by time.Now.
func System() Clock {
	return systemClock{}
}

// Fixed is a Clock pinned to a settable instant.
type Fixed struct {
	Instant time.Time
}

// Now returns the pinned instant.
func (f *Fixed) Now() time.Time {
	return f.Instant
}

// Advance moves the pinned instant forward.
func (f *Fixed) Advance(d time.Duration) {
	f.Instant = f.Instant.Add(d)
}
