package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds connection and timing parameters for the hand controller.
type Config struct {
	// ListenAddress is the address the HTTP command gateway binds to.
	ListenAddress string `yaml:"listen_addr"`
	// DriverAddress is the TCP address of the hand driver accepting
	// outbound motor command frames.
	DriverAddress string `yaml:"driver_addr"`
	// TickInterval is the control loop period.
	TickInterval time.Duration `yaml:"tick_interval"`
	// CommsTimeout is how long the controller tolerates silence from the
	// hand before it shuts down.
	CommsTimeout time.Duration `yaml:"comms_timeout"`
	// DefaultMotorSpeed is the speed restored when a command resets speeds.
	DefaultMotorSpeed float64 `yaml:"default_motor_speed"`
	// LogLevel selects the minimum log level (debug, info, warn, error, fatal).
	LogLevel string `yaml:"log_level"`
	// LogFile, when set, mirrors log output to a size-rotated file.
	LogFile string `yaml:"log_file"`
}

const (
	// DefaultConfigFilename is the default filename for controller settings.
	DefaultConfigFilename = "handctl-settings.yaml"

	// DefaultTickInterval approximates the 30 Hz control rate of the hand.
	DefaultTickInterval = 33 * time.Millisecond

	// DefaultCommsTimeout is how long the hand may stay silent before the
	// controller treats the link as dead.
	DefaultCommsTimeout = 5 * time.Second

	// DefaultMotorSpeed is the factory speed setpoint in rad/s.
	DefaultMotorSpeed = 1.0

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errListenAddressRequired is returned when the gateway listen address is missing.
	errListenAddressRequired = errors.New("listen address must be provided")
	// errDriverAddressRequired is returned when the hand driver address is missing.
	errDriverAddressRequired = errors.New("driver address must be provided")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and applies
// defaults for the timing parameters.
func Validate(cfg *Config) error {
	if cfg.ListenAddress == "" {
		return errListenAddressRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.ListenAddress); err != nil {
		return fmt.Errorf("invalid listen address: %w", err)
	}

	if cfg.DriverAddress == "" {
		return errDriverAddressRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.DriverAddress); err != nil {
		return fmt.Errorf("invalid driver address: %w", err)
	}

	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}

	if cfg.CommsTimeout <= 0 {
		cfg.CommsTimeout = DefaultCommsTimeout
	}

	if cfg.DefaultMotorSpeed <= 0 {
		cfg.DefaultMotorSpeed = DefaultMotorSpeed
	}

	return nil
}
