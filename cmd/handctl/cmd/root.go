package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/opengrasp/handctl/internal/config"
	"github.com/opengrasp/handctl/internal/service/handctl"
	"github.com/opengrasp/handctl/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// listenAddress overrides the gateway listen address from config.
	listenAddress string
	// driverAddress overrides the hand driver address from config.
	driverAddress string

	// rootCmd represents the base command for running the hand controller.
	rootCmd = &cobra.Command{
		Use:   "handctl",
		Short: "Run the tactile hand control coordinator.",
		Long: `Starts the hand controller that arbitrates motion and force commands
for the tactile gripper.

Commands arrive on the HTTP gateway, feedback from the hand resets the comms
watchdog, and every control tick at most one command class (speed, position
or torque) is emitted to the hand driver. When feedback goes stale past the
configured timeout the controller shuts down rather than keep commanding a
hand it cannot observe.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &handctl.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				DriverAddress: driverAddress,
			}

			return handctl.Run(ctx, options)
		},
	}
)

// Execute runs the handctl CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&listenAddress, "listen", "l", "", "gateway listen address override")
	rootCmd.Flags().StringVarP(&driverAddress, "driver", "d", "", "hand driver address override")
}
