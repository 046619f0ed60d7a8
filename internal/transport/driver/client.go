package driver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/opengrasp/handctl/internal/controller"
	hand "github.com/opengrasp/handctl/internal/domain/hand"
)

// Frame type tags understood by the hand driver.
const (
	frameSpeedPosition    = "speed_position_command"
	framePosition         = "position_command"
	frameTorque           = "torque_command"
	frameSetSpeed         = "set_speed"
	frameCalibrateFingers = "calibrate_fingers"
	frameCalibrateTactile = "calibrate_tactile"
)

// defaultWriteTimeout bounds a single frame write.
const defaultWriteTimeout = 2 * time.Second

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// frame is one outbound message. Empty value slices are omitted so request
// frames stay minimal.
type frame struct {
	Type     string    `json:"type"`
	Speed    []float64 `json:"speed,omitempty"`
	Position []float64 `json:"position,omitempty"`
	Torque   []float64 `json:"torque,omitempty"`
}

// Client is a TCP connection to the hand driver. Writes are serialized so
// frames from the tick loop and service requests never interleave on the wire.
type Client struct {
	// mu serializes frame writes on the shared connection.
	mu sync.Mutex
	// conn is the underlying TCP connection.
	conn net.Conn
	// writeTimeout bounds each frame write.
	writeTimeout time.Duration
}

// Client must satisfy the controller's outbound boundary.
var _ controller.Driver = (*Client)(nil)

// Option configures client behaviour.
type Option func(*Client)

// WithWriteTimeout sets the per-frame write deadline.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.writeTimeout = timeout
		}
	}
}

// Dial connects to the hand driver.
func Dial(ctx context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	var dialer net.Dialer

	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial hand driver: %w", err)
	}

	client := &Client{
		conn:         conn,
		writeTimeout: defaultWriteTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// SendSpeedAndPosition emits one batched speed-and-position frame.
func (c *Client) SendSpeedAndPosition(ctx context.Context, speeds, positions [hand.NumMotors]float64) error {
	return c.send(ctx, frame{
		Type:     frameSpeedPosition,
		Speed:    speeds[:],
		Position: positions[:],
	})
}

// SendPosition emits one batched position frame.
func (c *Client) SendPosition(ctx context.Context, positions [hand.NumMotors]float64) error {
	return c.send(ctx, frame{
		Type:     framePosition,
		Position: positions[:],
	})
}

// SendTorque emits one batched torque frame.
func (c *Client) SendTorque(ctx context.Context, torques [hand.NumMotors]float64) error {
	return c.send(ctx, frame{
		Type:   frameTorque,
		Torque: torques[:],
	})
}

// SetSpeed issues a direct speed request outside arbitration.
func (c *Client) SetSpeed(ctx context.Context, speeds [hand.NumMotors]float64) error {
	return c.send(ctx, frame{
		Type:  frameSetSpeed,
		Speed: speeds[:],
	})
}

// CalibrateFingers requests a finger calibration run.
func (c *Client) CalibrateFingers(ctx context.Context) error {
	return c.send(ctx, frame{Type: frameCalibrateFingers})
}

// CalibrateTactile requests a tactile zeroing run.
func (c *Client) CalibrateTactile(ctx context.Context) error {
	return c.send(ctx, frame{Type: frameCalibrateTactile})
}

// send encodes one newline-delimited frame under the write deadline. The
// context deadline wins when it is sooner.
func (c *Client) send(ctx context.Context, f frame) error {
	payload, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal %s frame: %w", f.Type, err)
	}

	payload = append(payload, '\n')

	c.mu.Lock()
	defer c.mu.Unlock()

	deadline := time.Now().Add(c.writeTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}

	if _, err := c.conn.Write(payload); err != nil {
		return fmt.Errorf("write %s frame: %w", f.Type, err)
	}

	return nil
}
