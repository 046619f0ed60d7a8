package hand

// MotorID identifies one of the hand's four actuators. The numeric values
// match the motor record positions in driver feedback and command frames.
type MotorID int

// Motor identifiers in driver protocol order.
const (
	MotorF1 MotorID = iota
	MotorF2
	MotorF3
	MotorPreshape
)

const (
	// NumMotors is the fixed actuator count of the hand.
	NumMotors = 4
	// NumFingers is the fixed finger count of the hand.
	NumFingers = 3
)

// String returns the protocol name of the motor.
func (id MotorID) String() string {
	switch id {
	case MotorF1:
		return "f1"
	case MotorF2:
		return "f2"
	case MotorF3:
		return "f3"
	case MotorPreshape:
		return "preshape"
	default:
		return "unknown"
	}
}

// Actuator mirrors the commanded state of a single motor together with
// pending-update flags telling the arbiter an unpublished setpoint exists.
type Actuator struct {
	// ID is the stable identity of the motor.
	ID MotorID
	// Finger is the gripping digit driven by this motor.
	// It is nil for the preshape actuator, which drives no finger.
	Finger *Finger

	// CommandedSpeed is the last requested speed setpoint.
	CommandedSpeed float64
	// CommandedPosition is the last requested position setpoint.
	CommandedPosition float64
	// CommandedTorque is the last requested torque setpoint.
	CommandedTorque float64

	// SpeedUpdatePending marks an unpublished speed setpoint change.
	SpeedUpdatePending bool
	// PositionUpdatePending marks an unpublished position setpoint change.
	PositionUpdatePending bool
	// TorqueUpdatePending marks an unpublished torque setpoint change.
	TorqueUpdatePending bool

	// TactileStopsEnabled tells whether the motor's tactile-protective
	// behavior is active. Toggled only through the interlock sequence.
	TactileStopsEnabled bool

	// Status is the last measured state received from the driver.
	Status MotorStatus
}

// SetSpeed stores a new speed setpoint and marks it pending.
func (a *Actuator) SetSpeed(v float64) {
	a.CommandedSpeed = v
	a.SpeedUpdatePending = true
}

// SetPosition stores a new position setpoint and marks it pending.
func (a *Actuator) SetPosition(v float64) {
	a.CommandedPosition = v
	a.PositionUpdatePending = true
}

// SetTorque stores a new torque setpoint and marks it pending.
func (a *Actuator) SetTorque(v float64) {
	a.CommandedTorque = v
	a.TorqueUpdatePending = true
}

// ResetSpeed restores the given default speed without raising the pending
// flag: a reset accompanies a position or torque command and must not make
// the speed class preempt it on the next tick. The restored value still
// travels with the next speed-and-position frame.
func (a *Actuator) ResetSpeed(defaultSpeed float64) {
	a.CommandedSpeed = defaultSpeed
}
