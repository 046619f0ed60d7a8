package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opengrasp/handctl/internal/controller"
	hand "github.com/opengrasp/handctl/internal/domain/hand"
)

// fakeController records the operations invoked through the gateway.
type fakeController struct {
	ops        []string
	velocities []float64
	positions  []float64
	forces     []float64
	speeds     []float64
	motors     []hand.MotorStatus
	fingers    []hand.FingerStatus
	err        error
}

func (f *fakeController) HandleCombinedCommand(_ context.Context, velocities, positions []float64) error {
	f.ops = append(f.ops, "combined")
	f.velocities, f.positions = velocities, positions

	return f.err
}

func (f *fakeController) HandleAngleCommand(_ context.Context, positions []float64) error {
	f.ops = append(f.ops, "angle")
	f.positions = positions

	return f.err
}

func (f *fakeController) HandleVelocityCommand(_ context.Context, velocities []float64) error {
	f.ops = append(f.ops, "velocity")
	f.velocities = velocities

	return f.err
}

func (f *fakeController) HandleForceCommand(_ context.Context, forces []float64) error {
	f.ops = append(f.ops, "force")
	f.forces = forces

	return f.err
}

func (f *fakeController) EnableTactileStops(context.Context) {
	f.ops = append(f.ops, "enable_stops")
}

func (f *fakeController) DisableTactileStops(context.Context) {
	f.ops = append(f.ops, "disable_stops")
}

func (f *fakeController) ReceiveHandState(_ context.Context, motors []hand.MotorStatus, fingers []hand.FingerStatus) error {
	f.ops = append(f.ops, "feedback")
	f.motors, f.fingers = motors, fingers

	if f.err != nil {
		return f.err
	}

	if len(motors) != hand.NumMotors || len(fingers) != hand.NumFingers {
		return hand.ErrMalformedFeedback
	}

	return nil
}

func (f *fakeController) RequestCalibrateFingers(context.Context) error {
	f.ops = append(f.ops, "calibrate_fingers")

	return f.err
}

func (f *fakeController) RequestCalibrateTactile(context.Context) error {
	f.ops = append(f.ops, "calibrate_tactile")

	return f.err
}

func (f *fakeController) RequestSetSpeed(_ context.Context, speeds []float64) error {
	f.ops = append(f.ops, "set_speed")
	f.speeds = speeds

	return f.err
}

func (f *fakeController) State() controller.Snapshot {
	f.ops = append(f.ops, "state")

	return controller.Snapshot{TactileStopsEnabled: true}
}

func postJSON(t *testing.T, s *Server, path, body string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App().Test(req)
	require.NoError(t, err)

	return resp
}

// TestCommandEndpoints checks routing, payload decoding and the empty
// acknowledgment contract.
func TestCommandEndpoints(t *testing.T) {
	t.Parallel()

	ctrl := &fakeController{}
	s := NewServer(ctrl)

	resp := postJSON(t, s, "/command", `{"velocity":[2,2,2,1],"position":[0.5,0.6,0.7,0]}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, []float64{2, 2, 2, 1}, ctrl.velocities)

	resp = postJSON(t, s, "/command/angle", `{"position":[0.1,0.2,0.3,0]}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, []float64{0.1, 0.2, 0.3, 0}, ctrl.positions)

	resp = postJSON(t, s, "/command/velocity", `{"velocity":[1,1,1,1]}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = postJSON(t, s, "/command/force", `{"force":[0.4,0.4,0.4,0.1]}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, []float64{0.4, 0.4, 0.4, 0.1}, ctrl.forces)

	resp = postJSON(t, s, "/speed", `{"speed":[3,3,3,2]}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, []float64{3, 3, 3, 2}, ctrl.speeds)

	require.Equal(t, []string{"combined", "angle", "velocity", "force", "set_speed"}, ctrl.ops)
}

// TestTactileStopAndCalibrationEndpoints covers the parameterless operations.
func TestTactileStopAndCalibrationEndpoints(t *testing.T) {
	t.Parallel()

	ctrl := &fakeController{}
	s := NewServer(ctrl)

	for _, path := range []string{
		"/tactile-stops/enable",
		"/tactile-stops/disable",
		"/calibrate/fingers",
		"/calibrate/tactile",
	} {
		resp := postJSON(t, s, path, "")
		require.Equal(t, http.StatusNoContent, resp.StatusCode, path)
	}

	require.Equal(t,
		[]string{"enable_stops", "disable_stops", "calibrate_fingers", "calibrate_tactile"},
		ctrl.ops)
}

// TestFeedbackEndpoint decodes a full batch and rejects a short one with 400.
func TestFeedbackEndpoint(t *testing.T) {
	t.Parallel()

	ctrl := &fakeController{}
	s := NewServer(ctrl)

	body := `{
		"motor": [
			{"joint_angle": 0.1}, {"joint_angle": 0.2},
			{"joint_angle": 0.3}, {"joint_angle": 1.25}
		],
		"finger": [
			{"proximal": 0.1, "pressure": [1,2,3,4,5,6,7,8,9]},
			{"proximal": 0.2},
			{"proximal": 0.3}
		]
	}`

	resp := postJSON(t, s, "/feedback", body)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Len(t, ctrl.motors, hand.NumMotors)
	require.InEpsilon(t, 1.25, ctrl.motors[3].JointAngle, 1e-9)
	require.InEpsilon(t, 9.0, ctrl.fingers[0].Pressure[8], 1e-9)

	// Shape violations fail loudly.
	resp = postJSON(t, s, "/feedback", `{"motor":[{}],"finger":[{},{},{}]}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// TestBadRequestMapping verifies body and contract errors map to 400.
func TestBadRequestMapping(t *testing.T) {
	t.Parallel()

	ctrl := &fakeController{err: controller.ErrBadCommandWidth}
	s := NewServer(ctrl)

	// Unparseable body.
	resp := postJSON(t, s, "/command/angle", `{"position": "nope"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Contract violation reported by the controller.
	resp = postJSON(t, s, "/command/angle", `{"position":[0.1]}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// TestStateEndpoint returns the controller snapshot as JSON.
func TestStateEndpoint(t *testing.T) {
	t.Parallel()

	s := NewServer(&fakeController{})

	req := httptest.NewRequest(http.MethodGet, "/state", nil)

	resp, err := s.App().Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "application/json")
}
