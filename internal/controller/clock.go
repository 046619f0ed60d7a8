package controller

import "time"

// Clock abstracts wall time and blocking sleeps so the settle delays, the
// publish pacing and the watchdog can be driven by tests.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// Sleep blocks the calling goroutine for the given duration.
	Sleep(d time.Duration)
}

// realClock is the production Clock backed by the time package.
type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
