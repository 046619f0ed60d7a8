package controller

import (
	"context"
	"time"

	"github.com/opengrasp/handctl/internal/logger"
)

const (
	// disableSettle lets in-flight protective commands stop before any
	// other action runs.
	disableSettle = 50 * time.Millisecond
	// enablePreDelay lets the preceding command take effect before the
	// constant protective commands resume.
	enablePreDelay = 70 * time.Millisecond
)

// TactileStopsEnabled reports whether the tactile-protective stop behavior
// is currently active.
func (c *Controller) TactileStopsEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.tactileStopsEnabled
}

// EnableTactileStops turns tactile-protective stops on. The call serializes
// with command handling and blocks through the settle delay.
func (c *Controller) EnableTactileStops(ctx context.Context) {
	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()

	c.enableTactileStops(ctx)
}

// DisableTactileStops turns tactile-protective stops off. The call serializes
// with command handling and blocks through the settle delay.
func (c *Controller) DisableTactileStops(ctx context.Context) {
	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()

	c.disableTactileStops(ctx)
}

// withTactileStopsPaused applies the safety-critical wrapping rule shared by
// every command handler: remember whether the interlock was on, switch it off,
// run the mutation, and switch it back on only if it was on before.
// Callers must hold cmdMu.
func (c *Controller) withTactileStopsPaused(ctx context.Context, mutate func()) {
	c.mu.Lock()
	wasEnabled := c.tactileStopsEnabled
	c.mu.Unlock()

	if wasEnabled {
		c.disableTactileStops(ctx)
	}

	c.mu.Lock()
	mutate()
	c.mu.Unlock()

	if wasEnabled {
		c.enableTactileStops(ctx)
	}
}

// disableTactileStops clears the interlock flag, suspends the protective
// behavior on every actuator and settles. Callers must hold cmdMu.
func (c *Controller) disableTactileStops(ctx context.Context) {
	c.mu.Lock()
	c.tactileStopsEnabled = false

	for _, m := range c.hand.Motors {
		m.TactileStopsEnabled = false
	}
	c.mu.Unlock()

	logger.Debug(ctx, "Tactile stops disabled, settling")

	// Lets protective commands stop before allowing any other action.
	c.clock.Sleep(disableSettle)
}

// enableTactileStops settles, then raises the interlock flag and resumes the
// protective behavior on every actuator. Callers must hold cmdMu.
func (c *Controller) enableTactileStops(ctx context.Context) {
	// Lets other actions happen before beginning constant commands.
	c.clock.Sleep(enablePreDelay)

	c.mu.Lock()
	c.tactileStopsEnabled = true

	for _, m := range c.hand.Motors {
		m.TactileStopsEnabled = true
	}
	c.mu.Unlock()

	logger.Debug(ctx, "Tactile stops enabled")
}
