// Package config loads experiment.toml configuration files over built-in
// defaults. No CLI flag overrides an individual configuration key. See
// design doc Section 6.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Experiment is the top-level configuration for a cityflux run.
type Experiment struct {
	Seed            int64   `toml:"seed"`
	DurationS       float64 `toml:"duration_s"`
	AgentCount      int     `toml:"agent_count"`
	Speed           float64 `toml:"speed"`
	BaselineDir     string  `toml:"baseline_dir"`
	ExpOutDir       string  `toml:"exp_out_dir"`
	Bins            int     `toml:"bins"`
	OracleTimeoutS  float64 `toml:"oracle_timeout_s"`
	OracleBatchSize int     `toml:"oracle_batch_size"`
	OracleEndpoint  string  `toml:"oracle_endpoint,omitempty"`
	OracleAPIKeyEnv string  `toml:"oracle_api_key_env,omitempty"`
	WorkerLimit     int     `toml:"worker_limit"`
}

// Default returns the configuration defaults pinned in design doc Section 6.
func Default() Experiment {
	return Experiment{
		Seed:            12345,
		DurationS:       180.0,
		AgentCount:      50,
		Speed:           1.0,
		BaselineDir:     "out/baseline",
		ExpOutDir:       "out/experiments",
		Bins:            25,
		OracleTimeoutS:  5.0,
		OracleBatchSize: 8,
		OracleAPIKeyEnv: "CITYFLUX_ORACLE_API_KEY",
		WorkerLimit:     4,
	}
}

// Load reads and parses a TOML config file at path, starting from Default
// and overwriting whichever fields the file sets.
func Load(path string) (Experiment, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Experiment{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Experiment{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// OracleAPIKey resolves the oracle API key from the environment variable
// named by OracleAPIKeyEnv.
func (e Experiment) OracleAPIKey() string {
	return os.Getenv(e.OracleAPIKeyEnv)
}
