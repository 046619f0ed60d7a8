package hand

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNewWiresFingers verifies the fixed motor set and the motor-to-finger wiring.
func TestNewWiresFingers(t *testing.T) {
	t.Parallel()

	h := New()

	require.Len(t, h.Motors, NumMotors)
	require.Len(t, h.Fingers, NumFingers)

	for i := 0; i < 3; i++ {
		require.Same(t, h.Fingers[i], h.Motors[i].Finger)
		require.Equal(t, MotorID(i), h.Motors[i].ID)
	}

	// The preshape joint drives no finger.
	require.Nil(t, h.Motors[MotorPreshape].Finger)
}

// TestApplyFeedbackRouting ensures positional routing: motor record 3 lands
// on the preshape actuator and never on a finger motor.
func TestApplyFeedbackRouting(t *testing.T) {
	t.Parallel()

	h := New()

	motors := make([]MotorStatus, NumMotors)
	for i := range motors {
		motors[i].JointAngle = float64(i) + 0.5
	}

	fingers := make([]FingerStatus, NumFingers)
	for i := range fingers {
		fingers[i].Proximal = float64(i) * 0.1
		fingers[i].Pressure[0] = 100 + float64(i)
	}

	require.NoError(t, h.ApplyFeedback(motors, fingers))

	require.InEpsilon(t, 3.5, h.Motors[MotorPreshape].Status.JointAngle, 1e-9)

	for i := 0; i < 3; i++ {
		require.InEpsilon(t, float64(i)+0.5, h.Motors[i].Status.JointAngle, 1e-9)
		require.InEpsilon(t, 100+float64(i), h.Fingers[i].Status.Pressure[0], 1e-9)
	}
}

// TestApplyFeedbackRejectsBadShape ensures short and oversized batches fail
// loudly instead of being truncated.
func TestApplyFeedbackRejectsBadShape(t *testing.T) {
	t.Parallel()

	h := New()

	err := h.ApplyFeedback(make([]MotorStatus, 3), make([]FingerStatus, 3))
	require.ErrorIs(t, err, ErrMalformedFeedback)

	err = h.ApplyFeedback(make([]MotorStatus, 4), make([]FingerStatus, 4))
	require.ErrorIs(t, err, ErrMalformedFeedback)

	err = h.ApplyFeedback(nil, nil)
	require.ErrorIs(t, err, ErrMalformedFeedback)
}

// TestActuatorSettersRaisePendingFlags checks the flag semantics of setters
// and the reset path.
func TestActuatorSettersRaisePendingFlags(t *testing.T) {
	t.Parallel()

	a := &Actuator{ID: MotorF1}

	a.SetSpeed(1.5)
	require.InEpsilon(t, 1.5, a.CommandedSpeed, 1e-9)
	require.True(t, a.SpeedUpdatePending)
	require.False(t, a.PositionUpdatePending)
	require.False(t, a.TorqueUpdatePending)

	a.SetPosition(0.7)
	require.True(t, a.PositionUpdatePending)

	a.SetTorque(0.2)
	require.True(t, a.TorqueUpdatePending)

	// A reset restores the default speed without raising the speed flag.
	a.SpeedUpdatePending = false
	a.ResetSpeed(1.0)
	require.InEpsilon(t, 1.0, a.CommandedSpeed, 1e-9)
	require.False(t, a.SpeedUpdatePending)
}

// TestMotorIDString covers the protocol names.
func TestMotorIDString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "f1", MotorF1.String())
	require.Equal(t, "preshape", MotorPreshape.String())
	require.Equal(t, "unknown", MotorID(42).String())
}
