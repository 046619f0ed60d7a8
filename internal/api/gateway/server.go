package gateway

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/opengrasp/handctl/internal/controller"
	hand "github.com/opengrasp/handctl/internal/domain/hand"
)

// Controller abstracts the operations the transport layer depends on.
type Controller interface {
	HandleCombinedCommand(ctx context.Context, velocities, positions []float64) error
	HandleAngleCommand(ctx context.Context, positions []float64) error
	HandleVelocityCommand(ctx context.Context, velocities []float64) error
	HandleForceCommand(ctx context.Context, forces []float64) error
	EnableTactileStops(ctx context.Context)
	DisableTactileStops(ctx context.Context)
	ReceiveHandState(ctx context.Context, motors []hand.MotorStatus, fingers []hand.FingerStatus) error
	RequestCalibrateFingers(ctx context.Context) error
	RequestCalibrateTactile(ctx context.Context) error
	RequestSetSpeed(ctx context.Context, speeds []float64) error
	State() controller.Snapshot
}

// Server hosts the HTTP command gateway.
type Server struct {
	app        *fiber.App
	controller Controller
}

// commandRequest carries a combined velocity-and-pose command.
type commandRequest struct {
	// Velocity holds one speed setpoint per actuator.
	Velocity []float64 `json:"velocity"`
	// Position holds one position setpoint per actuator.
	Position []float64 `json:"position"`
}

// forceRequest carries one torque setpoint per actuator.
type forceRequest struct {
	Force []float64 `json:"force"`
}

// speedRequest carries one speed setpoint per actuator.
type speedRequest struct {
	Speed []float64 `json:"speed"`
}

// feedbackRequest is one combined hand-state batch from the driver bridge.
type feedbackRequest struct {
	Motor  []hand.MotorStatus  `json:"motor"`
	Finger []hand.FingerStatus `json:"finger"`
}

// NewServer wires the provided controller into an HTTP handler.
func NewServer(ctrl Controller) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "handctl",
			DisableStartupMessage: true,
		}),
		controller: ctrl,
	}

	s.routes()

	return s
}

func (s *Server) routes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	s.app.Get("/state", s.handleState)

	s.app.Post("/command", s.handleCombinedCommand)
	s.app.Post("/command/angle", s.handleAngleCommand)
	s.app.Post("/command/velocity", s.handleVelocityCommand)
	s.app.Post("/command/force", s.handleForceCommand)

	s.app.Post("/feedback", s.handleFeedback)

	s.app.Post("/tactile-stops/enable", s.handleEnableTactileStops)
	s.app.Post("/tactile-stops/disable", s.handleDisableTactileStops)

	s.app.Post("/calibrate/fingers", s.handleCalibrateFingers)
	s.app.Post("/calibrate/tactile", s.handleCalibrateTactile)
	s.app.Post("/speed", s.handleSetSpeed)
}

// Listen serves the gateway on the given address until Shutdown is called.
func (s *Server) Listen(address string) error {
	return s.app.Listen(address)
}

// Shutdown gracefully stops the gateway.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the underlying fiber app for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) handleState(c *fiber.Ctx) error {
	return c.JSON(s.controller.State())
}

func (s *Server) handleCombinedCommand(c *fiber.Ctx) error {
	var req commandRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	if err := s.controller.HandleCombinedCommand(c.UserContext(), req.Velocity, req.Position); err != nil {
		return commandError(c, err)
	}

	return ack(c)
}

func (s *Server) handleAngleCommand(c *fiber.Ctx) error {
	var req commandRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	if err := s.controller.HandleAngleCommand(c.UserContext(), req.Position); err != nil {
		return commandError(c, err)
	}

	return ack(c)
}

func (s *Server) handleVelocityCommand(c *fiber.Ctx) error {
	var req commandRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	if err := s.controller.HandleVelocityCommand(c.UserContext(), req.Velocity); err != nil {
		return commandError(c, err)
	}

	return ack(c)
}

func (s *Server) handleForceCommand(c *fiber.Ctx) error {
	var req forceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	if err := s.controller.HandleForceCommand(c.UserContext(), req.Force); err != nil {
		return commandError(c, err)
	}

	return ack(c)
}

func (s *Server) handleFeedback(c *fiber.Ctx) error {
	var req feedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	if err := s.controller.ReceiveHandState(c.UserContext(), req.Motor, req.Finger); err != nil {
		return commandError(c, err)
	}

	return ack(c)
}

func (s *Server) handleEnableTactileStops(c *fiber.Ctx) error {
	s.controller.EnableTactileStops(c.UserContext())

	return ack(c)
}

func (s *Server) handleDisableTactileStops(c *fiber.Ctx) error {
	s.controller.DisableTactileStops(c.UserContext())

	return ack(c)
}

func (s *Server) handleCalibrateFingers(c *fiber.Ctx) error {
	if err := s.controller.RequestCalibrateFingers(c.UserContext()); err != nil {
		return commandError(c, err)
	}

	return ack(c)
}

func (s *Server) handleCalibrateTactile(c *fiber.Ctx) error {
	if err := s.controller.RequestCalibrateTactile(c.UserContext()); err != nil {
		return commandError(c, err)
	}

	return ack(c)
}

func (s *Server) handleSetSpeed(c *fiber.Ctx) error {
	var req speedRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	if err := s.controller.RequestSetSpeed(c.UserContext(), req.Speed); err != nil {
		return commandError(c, err)
	}

	return ack(c)
}

// ack returns the empty acknowledgment every inbound operation answers with.
func ack(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

// commandError maps protocol-contract violations to 400 and everything else
// to 502, since remaining failures come from the driver link.
func commandError(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadGateway
	if errors.Is(err, controller.ErrBadCommandWidth) || errors.Is(err, hand.ErrMalformedFeedback) {
		status = fiber.StatusBadRequest
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
