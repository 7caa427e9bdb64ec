// Package config handles configuration for the checker service, including
// defaults, JSON overlay, environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/n0t3b00k-checker/internal/logging"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/notebook"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/repositories/repomanager"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/wire"
)

// EnvPrefix prefixes every environment variable, e.g. CHECKER_LISTEN_ADDR.
const EnvPrefix = "CHECKER"

// Config holds runtime settings for the checker.
//
// Fields:
//   - ListenAddr: bind address of the host-facing HTTP API.
//   - ServicePort: TCP port of the notebook service on every team address.
//   - Framing: reply framing, "delimiter" or "line".
//   - DialTimeout: upper bound for establishing the TCP connection.
//   - TaskTimeout: budget of a task whose request carries no timeout.
//   - MaxTaskTimeout: cap applied to timeouts requested by the host.
//   - StoreBackend / DatabaseDSN: correlation store ("memory", "postgres" or
//     "sqlite") and its connection string.
//   - LogBackend / LogLevel / LogFormat: logger selection.
type Config struct {
	ListenAddr     string        `split_words:"true"`
	ServicePort    int           `split_words:"true"`
	Framing        string        `split_words:"true"`
	DialTimeout    time.Duration `split_words:"true"`
	TaskTimeout    time.Duration `split_words:"true"`
	MaxTaskTimeout time.Duration `split_words:"true"`
	StoreBackend   string        `split_words:"true"`
	DatabaseDSN    string        `split_words:"true"`
	LogBackend     string        `split_words:"true"`
	LogLevel       string        `split_words:"true"`
	LogFormat      string        `split_words:"true"`
}

// LoadDefaults populates Config with development defaults: in-memory store,
// JSON logs at info level.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":5499"
	c.ServicePort = notebook.DefaultPort
	c.Framing = string(wire.FramingDelimiter)
	c.DialTimeout = 5 * time.Second
	c.TaskTimeout = 10 * time.Second
	c.MaxTaskTimeout = 60 * time.Second
	c.StoreBackend = repomanager.BackendMemory
	c.DatabaseDSN = ""
	c.LogBackend = logging.BackendSlog
	c.LogLevel = "info"
	c.LogFormat = logging.FormatJSON
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if _, err := wire.ParseFraming(c.Framing); err != nil {
		return err
	}
	if c.ServicePort <= 0 || c.ServicePort > 65535 {
		return fmt.Errorf("service port %d out of range", c.ServicePort)
	}
	if c.DialTimeout <= 0 || c.TaskTimeout <= 0 || c.MaxTaskTimeout <= 0 {
		return errors.New("timeouts must be positive")
	}
	if c.TaskTimeout > c.MaxTaskTimeout {
		return fmt.Errorf("task timeout %s exceeds max task timeout %s", c.TaskTimeout, c.MaxTaskTimeout)
	}
	switch c.StoreBackend {
	case repomanager.BackendMemory:
	case repomanager.BackendPostgres, repomanager.BackendSQLite:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("store %q needs a database dsn", c.StoreBackend)
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line
// flags. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseEnv(cfg, args); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
