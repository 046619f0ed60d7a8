package controller

import (
	"sync"
	"time"
)

// watchdog tracks the timestamp of the last feedback received from the hand.
// It is touched by feedback ingestion and read by the tick loop's timeout
// check; nothing else writes it.
type watchdog struct {
	// mu protects lastFeedback against tick/callback interleaving.
	mu sync.Mutex
	// lastFeedback is when the hand was last heard from. Monotonically
	// non-decreasing.
	lastFeedback time.Time
	// timeout is the tolerated feedback silence.
	timeout time.Duration
}

// newWatchdog starts the staleness clock at now so a freshly started
// controller gets a full timeout window before feedback must arrive.
func newWatchdog(now time.Time, timeout time.Duration) *watchdog {
	return &watchdog{
		lastFeedback: now,
		timeout:      timeout,
	}
}

// Touch records feedback receipt. Earlier timestamps never move the clock
// backwards.
func (w *watchdog) Touch(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if now.After(w.lastFeedback) {
		w.lastFeedback = now
	}
}

// Expired reports whether the feedback silence strictly exceeds the timeout.
// Exactly at the threshold the link is still considered alive.
func (w *watchdog) Expired(now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return now.Sub(w.lastFeedback) > w.timeout
}

// LastFeedback returns when the hand was last heard from.
func (w *watchdog) LastFeedback() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.lastFeedback
}
