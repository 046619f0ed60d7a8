package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields, format validations and default timing values.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing listen address.
	cfg := new(Config)

	err := Validate(cfg)
	require.Error(t, err)

	// Bad listen address.
	cfg = &Config{
		ListenAddress: "bad:address",
		DriverAddress: "127.0.0.1:11333",
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Missing driver address.
	cfg = &Config{
		ListenAddress: "127.0.0.1:0",
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Okay; timing defaults are filled in.
	cfg = &Config{
		ListenAddress: "127.0.0.1:0",
		DriverAddress: "127.0.0.1:11333",
	}

	err = Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, DefaultTickInterval, cfg.TickInterval)
	require.Equal(t, DefaultCommsTimeout, cfg.CommsTimeout)
	require.InEpsilon(t, DefaultMotorSpeed, cfg.DefaultMotorSpeed, 1e-9)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		ListenAddress: "127.0.0.1:8090",
		DriverAddress: "127.0.0.1:11333",
		TickInterval:  50 * time.Millisecond,
		CommsTimeout:  2 * time.Second,
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.ListenAddress, loaded.ListenAddress)
	require.Equal(t, cfg.DriverAddress, loaded.DriverAddress)
	require.Equal(t, cfg.TickInterval, loaded.TickInterval)
	require.Equal(t, cfg.CommsTimeout, loaded.CommsTimeout)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}
