package handctl

import (
	"context"
	"fmt"

	"github.com/opengrasp/handctl/internal/api/gateway"
	"github.com/opengrasp/handctl/internal/config"
	"github.com/opengrasp/handctl/internal/controller"
	"github.com/opengrasp/handctl/internal/logger"
	"github.com/opengrasp/handctl/internal/transport/driver"
)

// Options controls the handctl process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional gateway listen address override.
	ListenAddress string
	// DriverAddress provides an optional hand driver address override.
	DriverAddress string
}

// Run starts the hand controller and blocks until the context is canceled,
// the gateway fails, or the comms watchdog fail-stops the control loop.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "handctl")

	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Command line arguments override config addresses.
	if opts.ListenAddress != "" {
		cfg.ListenAddress = opts.ListenAddress
	}

	if opts.DriverAddress != "" {
		cfg.DriverAddress = opts.DriverAddress
	}

	applyLogSettings(cfg)

	// Connect to the hand driver first: without it there is nothing to
	// control and failing early beats accepting commands we cannot emit.
	drv, err := driver.Dial(ctx, cfg.DriverAddress, driver.WithWriteTimeout(cfg.CommsTimeout))
	if err != nil {
		return fmt.Errorf("dial hand driver: %w", err)
	}

	defer func() {
		_ = drv.Close()
	}()

	ctrl := controller.New(controller.Params{
		TickInterval:      cfg.TickInterval,
		CommsTimeout:      cfg.CommsTimeout,
		DefaultMotorSpeed: cfg.DefaultMotorSpeed,
	}, drv, controller.WithShutdownFunc(func(reason string) {
		logger.ErrorKV(ctx, "Emergency shutdown", "reason", reason)
	}))

	gw := gateway.NewServer(ctrl)

	logger.InfoKV(ctx, "Hand controller starting",
		"listen_address", cfg.ListenAddress,
		"driver_address", cfg.DriverAddress)

	// Run gateway and control loop side by side; the first failure, or a
	// context cancellation seen by the loop, takes the process down.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	gatewayErr := make(chan error, 1)
	go func() {
		gatewayErr <- gw.Listen(cfg.ListenAddress)
	}()

	loopErr := make(chan error, 1)
	go func() {
		loopErr <- ctrl.Run(runCtx)
	}()

	select {
	case err := <-gatewayErr:
		cancel()
		<-loopErr

		if err != nil {
			return fmt.Errorf("gateway: %w", err)
		}

		return nil
	case err := <-loopErr:
		if shutdownErr := gw.Shutdown(); shutdownErr != nil {
			logger.WarnKV(ctx, "Gateway shutdown failed", "error", shutdownErr)
		}

		<-gatewayErr

		logger.Info(ctx, "Hand controller stopped")

		return err
	}
}

// applyLogSettings configures the global logger from settings.
func applyLogSettings(cfg *config.Config) {
	level := logger.Level()
	if parsed, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		level = parsed
	}

	if cfg.LogFile != "" {
		logger.SetLogger(logger.NewWithFile(nil, cfg.LogFile))
	}

	logger.SetLevel(level)
}
