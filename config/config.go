// Package config loads runtime configuration: compiled defaults, overridden
// by an optional YAML file, overridden by MARKETFLOW_-prefixed environment
// variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Budget BudgetConfig `yaml:"budget"`
	Retry  RetryConfig  `yaml:"retry"`
	Email  EmailConfig  `yaml:"email"`
	Text   TextConfig   `yaml:"text"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// BudgetConfig holds the per-tier authority caps and the default strategy
// budget used by the demo command.
type BudgetConfig struct {
	CMOCap      float64 `yaml:"cmo_cap"`
	VPCap       float64 `yaml:"vp_cap"`
	ManagerCap  float64 `yaml:"manager_cap"`
	TotalBudget float64 `yaml:"total_budget"`
}

// RetryConfig parameterizes the provider retry policy.
type RetryConfig struct {
	MaxRetries   int           `yaml:"max_retries"`
	InitialDelay time.Duration `yaml:"initial_delay"`
	MaxDelay     time.Duration `yaml:"max_delay"`
	Multiplier   float64       `yaml:"multiplier"`
	Jitter       bool          `yaml:"jitter"`
}

// EmailConfig configures the email specialist.
type EmailConfig struct {
	Sender string `yaml:"sender"`
}

// TextConfig configures the shared text provider, including the request rate
// limit applied in front of it.
type TextConfig struct {
	RateLimit float64 `yaml:"rate_limit"` // requests per second, 0 disables
	Burst     int     `yaml:"burst"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Budget: BudgetConfig{
			CMOCap:      100000,
			VPCap:       50000,
			ManagerCap:  10000,
			TotalBudget: 100000,
		},
		Retry: RetryConfig{
			MaxRetries:   3,
			InitialDelay: 1 * time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
			Jitter:       true,
		},
		Email: EmailConfig{Sender: "marketing@example.com"},
		Text:  TextConfig{RateLimit: 2, Burst: 4},
	}
}

// Load builds the configuration. An empty path skips the file layer; a named
// file that does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("MARKETFLOW_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("MARKETFLOW_EMAIL_SENDER"); v != "" {
		c.Email.Sender = v
	}
	for env, target := range map[string]*float64{
		"MARKETFLOW_BUDGET_CMO_CAP":     &c.Budget.CMOCap,
		"MARKETFLOW_BUDGET_VP_CAP":      &c.Budget.VPCap,
		"MARKETFLOW_BUDGET_MANAGER_CAP": &c.Budget.ManagerCap,
		"MARKETFLOW_BUDGET_TOTAL":       &c.Budget.TotalBudget,
	} {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", env, err)
		}
		*target = f
	}
	if v := os.Getenv("MARKETFLOW_RETRY_MAX"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MARKETFLOW_RETRY_MAX: %w", err)
		}
		c.Retry.MaxRetries = n
	}
	return nil
}

func (c *Config) validate() error {
	if c.Budget.CMOCap <= 0 || c.Budget.VPCap <= 0 || c.Budget.ManagerCap <= 0 {
		return fmt.Errorf("authority caps must be positive")
	}
	if c.Budget.ManagerCap > c.Budget.VPCap || c.Budget.VPCap > c.Budget.CMOCap {
		return fmt.Errorf("authority caps must not invert the hierarchy")
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must be >= 0")
	}
	return nil
}
