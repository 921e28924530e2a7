// Package config loads simcore's tunables from a TOML file, falling back
// to documented defaults when absent. Grounded on the teacher's
// internal/daemon config loader: same "defaults, then overlay a TOML file
// if present" shape, repointed from daemon/model/network settings onto
// simulation server settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StoreConfig controls the snapshot store location.
type StoreConfig struct {
	Dir string `toml:"dir"`
}

// TelemetryConfig controls observability.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// SimulationDefaults holds the [simulation] table of the config file. It
// is loaded and saved with the rest of Config; neither the HTTP server nor
// the CLI reads it, and POST /start fills omitted fields from
// domain.Config.WithDefaults instead.
type SimulationDefaults struct {
	InitialUsers             int64   `toml:"initial_users"`
	InitialReleases          int64   `toml:"initial_releases"`
	SeedMoney                float64 `toml:"seed_money"`
	EnableAutonomousSystems  bool    `toml:"enable_autonomous_systems"`
	EnableSystemFailures     bool    `toml:"enable_system_failures"`
	EnableMarketFluctuations bool    `toml:"enable_market_fluctuations"`
	SnapshotIntervalDays     int     `toml:"snapshot_interval_days"`
	MaxSampleSize            int     `toml:"max_sample_size"`
}

// Config holds all simcore server configuration.
type Config struct {
	API        ServerConfig       `toml:"api"`
	Store      StoreConfig        `toml:"store"`
	Telemetry  TelemetryConfig    `toml:"telemetry"`
	Simulation SimulationDefaults `toml:"simulation"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	home := simcoreHome()
	return Config{
		API: ServerConfig{
			Host: "127.0.0.1",
			Port: 8420,
		},
		Store: StoreConfig{
			Dir: filepath.Join(home, "snapshots"),
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
		Simulation: SimulationDefaults{
			InitialUsers:             50_000,
			InitialReleases:          5_000,
			SeedMoney:                1_000_000,
			EnableAutonomousSystems:  true,
			EnableSystemFailures:     true,
			EnableMarketFluctuations: true,
			SnapshotIntervalDays:     30,
			MaxSampleSize:            5000,
		},
	}
}

// Load reads config from $SIMCORE_HOME/config.toml, falling back to
// defaults when the file does not exist.
func Load() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(simcoreHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to $SIMCORE_HOME/config.toml.
func Save(cfg Config) error {
	path := filepath.Join(simcoreHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

func simcoreHome() string {
	if env := os.Getenv("SIMCORE_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".simcore")
}

// Home is exported for use by other packages (store dir resolution, etc).
func Home() string {
	return simcoreHome()
}
