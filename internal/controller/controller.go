package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/opengrasp/handctl/internal/config"
	hand "github.com/opengrasp/handctl/internal/domain/hand"
	"github.com/opengrasp/handctl/internal/logger"
)

// Driver is the outbound boundary to the hand driver. Implementations carry
// the wire format; the controller only decides what to send and when.
type Driver interface {
	SendSpeedAndPosition(ctx context.Context, speeds, positions [hand.NumMotors]float64) error
	SendPosition(ctx context.Context, positions [hand.NumMotors]float64) error
	SendTorque(ctx context.Context, torques [hand.NumMotors]float64) error
	SetSpeed(ctx context.Context, speeds [hand.NumMotors]float64) error
	CalibrateFingers(ctx context.Context) error
	CalibrateTactile(ctx context.Context) error
}

var (
	// ErrCommsTimeout is returned by Run when hand feedback went stale and
	// the controller fail-stopped.
	ErrCommsTimeout = errors.New("hand feedback timed out")
	// ErrBadCommandWidth is returned when a command vector does not carry
	// one value per actuator.
	ErrBadCommandWidth = errors.New("command width does not match actuator count")
)

// Params carries the timing configuration of the control loop.
type Params struct {
	// TickInterval is the control loop period.
	TickInterval time.Duration
	// CommsTimeout is the tolerated feedback silence before fail-stop.
	CommsTimeout time.Duration
	// DefaultMotorSpeed is restored when a command resets speeds.
	DefaultMotorSpeed float64
}

// Option configures controller behaviour.
type Option func(*Controller)

// WithClock replaces the wall clock, letting tests drive settle delays and
// the watchdog.
func WithClock(clk Clock) Option {
	return func(c *Controller) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithShutdownFunc installs the hook invoked exactly once, with a reason,
// when the watchdog fail-stops the controller.
func WithShutdownFunc(fn func(reason string)) Option {
	return func(c *Controller) {
		c.shutdownFn = fn
	}
}

// Controller owns the hand state, the tactile-stop interlock, the command
// arbiter and the comms watchdog, and runs the periodic control tick.
type Controller struct {
	hand   *hand.Hand
	driver Driver
	clock  Clock

	tickInterval time.Duration
	commsTimeout time.Duration
	defaultSpeed float64

	// cmdMu serializes inbound command handling end to end, including the
	// interlock settle delays. A second command or toggle queues behind the
	// running sequence instead of interleaving with it.
	cmdMu sync.Mutex

	// mu guards the actuators' commanded values and pending flags together
	// with the interlock flag against tick/callback interleaving.
	mu                  sync.Mutex
	tactileStopsEnabled bool

	watchdog *watchdog

	shutdownFn   func(reason string)
	shutdownOnce sync.Once
}

// New constructs a controller over a freshly built hand. Zero or negative
// timing parameters fall back to the configured defaults.
func New(params Params, driver Driver, opts ...Option) *Controller {
	if params.TickInterval <= 0 {
		params.TickInterval = config.DefaultTickInterval
	}

	if params.CommsTimeout <= 0 {
		params.CommsTimeout = config.DefaultCommsTimeout
	}

	if params.DefaultMotorSpeed <= 0 {
		params.DefaultMotorSpeed = config.DefaultMotorSpeed
	}

	c := &Controller{
		hand:         hand.New(),
		driver:       driver,
		clock:        realClock{},
		tickInterval: params.TickInterval,
		commsTimeout: params.CommsTimeout,
		defaultSpeed: params.DefaultMotorSpeed,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.watchdog = newWatchdog(c.clock.Now(), c.commsTimeout)

	return c
}

// Run executes the control loop until the context is canceled or the
// watchdog faults. A watchdog fault is fatal: the shutdown hook fires once
// and ErrCommsTimeout is returned; there is no in-process recovery.
func (c *Controller) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "controller")

	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()

	logger.InfoKV(ctx, "Control loop started",
		"tick_interval", c.tickInterval.String(),
		"comms_timeout", c.commsTimeout.String())

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, control loop exiting")
			return nil
		case <-ticker.C:
			if err := c.tick(ctx); err != nil {
				return err
			}
		}
	}
}

// tick publishes at most one pending command frame and then checks feedback
// staleness. Publish failures are the transport's problem and only logged;
// staleness is fatal.
func (c *Controller) tick(ctx context.Context) error {
	if err := c.publishPending(ctx); err != nil {
		logger.ErrorKV(ctx, "Publish motor command failed", "error", err)
	}

	now := c.clock.Now()
	if !c.watchdog.Expired(now) {
		return nil
	}

	age := now.Sub(c.watchdog.LastFeedback())
	logger.ErrorKV(ctx, "Hand going down, no feedback from driver",
		"age", age.String(), "timeout", c.commsTimeout.String())

	reason := fmt.Sprintf("no hand feedback for %s (timeout %s)",
		age.Truncate(time.Millisecond), c.commsTimeout)
	c.fireShutdown(reason)

	return ErrCommsTimeout
}

// fireShutdown invokes the shutdown hook at most once per controller life.
func (c *Controller) fireShutdown(reason string) {
	c.shutdownOnce.Do(func() {
		if c.shutdownFn != nil {
			c.shutdownFn(reason)
		}
	})
}

// HandleCombinedCommand applies a velocity-and-pose command to the whole
// group, sequenced around the interlock.
func (c *Controller) HandleCombinedCommand(ctx context.Context, velocities, positions []float64) error {
	vel, err := motorVector(velocities)
	if err != nil {
		return err
	}

	pos, err := motorVector(positions)
	if err != nil {
		return err
	}

	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()

	c.withTactileStopsPaused(ctx, func() {
		for i, m := range c.hand.Motors {
			m.SetSpeed(vel[i])
			m.SetPosition(pos[i])
		}
	})

	return nil
}

// HandleAngleCommand applies position setpoints to the whole group,
// restoring default speeds, sequenced around the interlock.
func (c *Controller) HandleAngleCommand(ctx context.Context, positions []float64) error {
	pos, err := motorVector(positions)
	if err != nil {
		return err
	}

	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()

	c.withTactileStopsPaused(ctx, func() {
		for i, m := range c.hand.Motors {
			m.ResetSpeed(c.defaultSpeed)
			m.SetPosition(pos[i])
		}
	})

	return nil
}

// HandleVelocityCommand applies speed setpoints to the whole group,
// sequenced around the interlock.
func (c *Controller) HandleVelocityCommand(ctx context.Context, velocities []float64) error {
	vel, err := motorVector(velocities)
	if err != nil {
		return err
	}

	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()

	c.withTactileStopsPaused(ctx, func() {
		for i, m := range c.hand.Motors {
			m.SetSpeed(vel[i])
		}
	})

	return nil
}

// HandleForceCommand applies torque setpoints to the whole group. Force
// commands are a safety override: they disable tactile stops and leave them
// disabled, since the requested torques already encode the limiting behavior.
func (c *Controller) HandleForceCommand(ctx context.Context, forces []float64) error {
	torques, err := motorVector(forces)
	if err != nil {
		return err
	}

	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()

	c.disableTactileStops(ctx)

	c.mu.Lock()
	for i, m := range c.hand.Motors {
		m.ResetSpeed(c.defaultSpeed)
		m.SetTorque(torques[i])
	}
	c.mu.Unlock()

	return nil
}

// ReceiveHandState ingests one combined feedback batch. The watchdog is
// touched before routing: a delivered frame proves the link is alive even
// when its shape is rejected.
func (c *Controller) ReceiveHandState(ctx context.Context, motors []hand.MotorStatus, fingers []hand.FingerStatus) error {
	c.watchdog.Touch(c.clock.Now())

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.hand.ApplyFeedback(motors, fingers); err != nil {
		logger.WarnKV(ctx, "Rejected hand feedback batch",
			"motors", len(motors), "fingers", len(fingers))
		return err
	}

	return nil
}

// RequestCalibrateFingers forwards a finger calibration request to the driver.
func (c *Controller) RequestCalibrateFingers(ctx context.Context) error {
	return c.driver.CalibrateFingers(ctx)
}

// RequestCalibrateTactile forwards a tactile calibration request to the driver.
func (c *Controller) RequestCalibrateTactile(ctx context.Context) error {
	return c.driver.CalibrateTactile(ctx)
}

// RequestSetSpeed forwards a direct speed request to the driver, bypassing
// arbitration. Mirrors the driver's standalone set-speed service.
func (c *Controller) RequestSetSpeed(ctx context.Context, speeds []float64) error {
	vec, err := motorVector(speeds)
	if err != nil {
		return err
	}

	return c.driver.SetSpeed(ctx, vec)
}

// MotorState is a read-only view of one actuator for status reporting.
type MotorState struct {
	ID                string           `json:"id"`
	CommandedSpeed    float64          `json:"commanded_speed"`
	CommandedPosition float64          `json:"commanded_position"`
	CommandedTorque   float64          `json:"commanded_torque"`
	Status            hand.MotorStatus `json:"status"`
}

// Snapshot is a consistent copy of the controller's observable state.
type Snapshot struct {
	TactileStopsEnabled bool                               `json:"tactile_stops_enabled"`
	LastFeedback        time.Time                          `json:"last_feedback"`
	Motors              [hand.NumMotors]MotorState         `json:"motors"`
	Fingers             [hand.NumFingers]hand.FingerStatus `json:"fingers"`
}

// State returns a consistent snapshot for status endpoints and diagnostics.
func (c *Controller) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := Snapshot{
		TactileStopsEnabled: c.tactileStopsEnabled,
		LastFeedback:        c.watchdog.LastFeedback(),
	}

	for i, m := range c.hand.Motors {
		snapshot.Motors[i] = MotorState{
			ID:                m.ID.String(),
			CommandedSpeed:    m.CommandedSpeed,
			CommandedPosition: m.CommandedPosition,
			CommandedTorque:   m.CommandedTorque,
			Status:            m.Status,
		}
	}

	for i, f := range c.hand.Fingers {
		snapshot.Fingers[i] = f.Status
	}

	return snapshot
}

// motorVector converts a command payload to the fixed group width.
func motorVector(values []float64) ([hand.NumMotors]float64, error) {
	var vec [hand.NumMotors]float64

	if len(values) != hand.NumMotors {
		return vec, fmt.Errorf("%w: got %d values, want %d",
			ErrBadCommandWidth, len(values), hand.NumMotors)
	}

	copy(vec[:], values)

	return vec, nil
}
