package hand

import (
	"errors"
	"fmt"
)

// ErrMalformedFeedback is returned when a feedback batch does not carry
// exactly NumMotors motor records and NumFingers finger records. The shape
// is a protocol contract; anything else is rejected rather than truncated.
var ErrMalformedFeedback = errors.New("malformed hand feedback batch")

// Hand owns the fixed actuator and finger sets. Entities are created once at
// construction and live for the process lifetime.
type Hand struct {
	// Motors holds the four actuators in driver protocol order.
	Motors [NumMotors]*Actuator
	// Fingers holds the three gripping digits in driver protocol order.
	Fingers [NumFingers]*Finger
}

// New builds a hand with its three finger motors wired to their fingers.
// The preshape actuator drives no finger.
func New() *Hand {
	h := &Hand{}

	for i := range h.Fingers {
		h.Fingers[i] = &Finger{}
	}

	for i := range h.Motors {
		h.Motors[i] = &Actuator{ID: MotorID(i)}
		if i < NumFingers {
			h.Motors[i].Finger = h.Fingers[i]
		}
	}

	return h
}

// ApplyFeedback routes one combined feedback batch to the actuators and
// fingers by fixed positional index: motors[0..2] are the gripping motors in
// ID order, motors[3] the preshape, fingers[0..2] the fingers in ID order.
func (h *Hand) ApplyFeedback(motors []MotorStatus, fingers []FingerStatus) error {
	if len(motors) != NumMotors || len(fingers) != NumFingers {
		return fmt.Errorf("%w: got %d motors and %d fingers, want %d and %d",
			ErrMalformedFeedback, len(motors), len(fingers), NumMotors, NumFingers)
	}

	for i, status := range motors {
		h.Motors[i].Status = status
	}

	for i, status := range fingers {
		h.Fingers[i].Status = status
	}

	return nil
}
