package controller

import (
	"context"
	"time"

	hand "github.com/opengrasp/handctl/internal/domain/hand"
)

// publishPacing spaces consecutive position and torque frames so the
// outbound command rate stays bounded independent of the tick rate.
const publishPacing = 10 * time.Millisecond

// commandClass is one of the three outbound command kinds the arbiter can
// service on a tick.
type commandClass int

const (
	classNone commandClass = iota
	classSpeed
	classPosition
	classTorque
)

// arbitrationOrder is the fixed priority table: speed strictly preempts
// position, position strictly preempts torque. Evaluated top to bottom,
// first dirty class wins.
var arbitrationOrder = []struct {
	class   commandClass
	pending func(*hand.Actuator) bool
}{
	{classSpeed, func(a *hand.Actuator) bool { return a.SpeedUpdatePending }},
	{classPosition, func(a *hand.Actuator) bool { return a.PositionUpdatePending }},
	{classTorque, func(a *hand.Actuator) bool { return a.TorqueUpdatePending }},
}

// pendingFrame is one captured outbound command covering the whole actuator
// group. Actuators without a pending update contribute their last commanded
// value; the emission unit is never a subset.
type pendingFrame struct {
	class     commandClass
	speeds    [hand.NumMotors]float64
	positions [hand.NumMotors]float64
	torques   [hand.NumMotors]float64
}

// capturePending picks the highest-priority pending class, snapshots the
// group payload and clears that class's flags in a single critical section.
// A setpoint written after the snapshot raises its flag again and is
// serviced next tick; nothing is dropped between check and emission.
func (c *Controller) capturePending() pendingFrame {
	c.mu.Lock()
	defer c.mu.Unlock()

	frame := pendingFrame{class: classNone}

	for _, entry := range arbitrationOrder {
		for _, m := range c.hand.Motors {
			if entry.pending(m) {
				frame.class = entry.class
				break
			}
		}

		if frame.class != classNone {
			break
		}
	}

	switch frame.class {
	case classNone:
		return frame
	case classSpeed:
		for i, m := range c.hand.Motors {
			frame.speeds[i] = m.CommandedSpeed
			frame.positions[i] = m.CommandedPosition
			m.SpeedUpdatePending = false
		}
	case classPosition:
		for i, m := range c.hand.Motors {
			frame.positions[i] = m.CommandedPosition
			m.PositionUpdatePending = false
		}
	case classTorque:
		for i, m := range c.hand.Motors {
			frame.torques[i] = m.CommandedTorque
			m.TorqueUpdatePending = false
		}
	}

	return frame
}

// publishPending emits at most one command frame for this tick. The speed
// class carries position targets as well, so a speed change never outruns
// the setpoints it was issued with.
func (c *Controller) publishPending(ctx context.Context) error {
	frame := c.capturePending()

	switch frame.class {
	case classSpeed:
		return c.driver.SendSpeedAndPosition(ctx, frame.speeds, frame.positions)
	case classPosition:
		err := c.driver.SendPosition(ctx, frame.positions)
		c.clock.Sleep(publishPacing)

		return err
	case classTorque:
		err := c.driver.SendTorque(ctx, frame.torques)
		c.clock.Sleep(publishPacing)

		return err
	case classNone:
	}

	// Unknown classes fall through without emission.
	return nil
}
