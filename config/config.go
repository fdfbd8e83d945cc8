package config

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Axio-Lab/verxioprotocol-sub000/crypto"
	"github.com/Axio-Lab/verxioprotocol-sub000/native/fees"
)

// Defaults applied when the corresponding field is unset.
const (
	DefaultService     = "verxio-engine"
	DefaultEnv         = "dev"
	DefaultDataDir     = "./data"
	DefaultSubmitRate  = 50
	DefaultSubmitBurst = 10
	DefaultNetwork     = "local"
)

// Config captures the engine's runtime configuration: where records are
// stored, how submissions are throttled and where protocol fees are routed.
type Config struct {
	Network    string           `toml:"network"`
	DataDir    string           `toml:"data_dir"`
	Logging    LoggingConfig    `toml:"logging"`
	Submission SubmissionConfig `toml:"submission"`
	Fees       FeesConfig       `toml:"fees"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Service string `toml:"service"`
	Env     string `toml:"env"`
}

// SubmissionConfig throttles ledger writes.
type SubmissionConfig struct {
	RatePerSecond int `toml:"rate_per_second"`
	Burst         int `toml:"burst"`
}

// FeesConfig routes protocol fees and optionally overrides the per-category
// schedule. Amounts are decimal strings in the smallest denomination.
type FeesConfig struct {
	Treasury  string            `toml:"treasury"`
	Overrides map[string]string `toml:"overrides"`
}

// Load reads the TOML configuration at path and applies defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills unset fields with module defaults. The method returns
// the receiver to allow chaining.
func (c *Config) ApplyDefaults() *Config {
	if c == nil {
		return nil
	}
	if strings.TrimSpace(c.Network) == "" {
		c.Network = DefaultNetwork
	}
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = DefaultDataDir
	}
	if strings.TrimSpace(c.Logging.Service) == "" {
		c.Logging.Service = DefaultService
	}
	if strings.TrimSpace(c.Logging.Env) == "" {
		c.Logging.Env = DefaultEnv
	}
	if c.Submission.RatePerSecond <= 0 {
		c.Submission.RatePerSecond = DefaultSubmitRate
	}
	if c.Submission.Burst <= 0 {
		c.Submission.Burst = DefaultSubmitBurst
	}
	return c
}

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}
	if c.Submission.RatePerSecond <= 0 {
		return fmt.Errorf("submission rate must be positive, got %d", c.Submission.RatePerSecond)
	}
	if c.Submission.Burst <= 0 {
		return fmt.Errorf("submission burst must be positive, got %d", c.Submission.Burst)
	}
	for category, amount := range c.Fees.Overrides {
		if strings.TrimSpace(category) == "" {
			return fmt.Errorf("fee override with empty category")
		}
		if strings.TrimSpace(amount) == "" {
			return fmt.Errorf("fee override for %q has no amount", category)
		}
	}
	return nil
}

// FeeSchedule builds the protocol fee schedule with the configured overrides
// applied and resolves the treasury address. An unset treasury yields the
// zero address.
func (c *Config) FeeSchedule() (*fees.Schedule, [20]byte, error) {
	schedule := fees.DefaultSchedule()
	for category, amount := range c.Fees.Overrides {
		parsed, ok := new(big.Int).SetString(strings.TrimSpace(amount), 10)
		if !ok {
			return nil, [20]byte{}, fmt.Errorf("fee override for %q is not a decimal amount: %q", category, amount)
		}
		schedule.Override(fees.NormalizeCategory(category), parsed)
	}
	var treasury [20]byte
	if trimmed := strings.TrimSpace(c.Fees.Treasury); trimmed != "" {
		addr, err := crypto.DecodeAddress(trimmed)
		if err != nil {
			return nil, [20]byte{}, fmt.Errorf("treasury address: %w", err)
		}
		treasury = addr.Array()
	}
	return schedule, treasury, nil
}
