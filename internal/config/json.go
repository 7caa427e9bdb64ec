package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/n0t3b00k-checker/internal/flagx"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept both
// "1s" style strings and integer nanoseconds. Absent keys leave the current
// value untouched.
type JsonConfig struct {
	ListenAddr     *string         `json:"listen_addr"`
	ServicePort    *int            `json:"service_port"`
	Framing        *string         `json:"framing"`
	DialTimeout    *timex.Duration `json:"dial_timeout"`
	TaskTimeout    *timex.Duration `json:"task_timeout"`
	MaxTaskTimeout *timex.Duration `json:"max_task_timeout"`
	StoreBackend   *string         `json:"store_backend"`
	DatabaseDSN    *string         `json:"database_dsn"`
	LogBackend     *string         `json:"log_backend"`
	LogLevel       *string         `json:"log_level"`
	LogFormat      *string         `json:"log_format"`
}

// parseJson overlays the file named by -c or -config, if any.
func parseJson(config *Config, args []string) error {
	jsonConfigFile := flagx.ConfigFileFlag(args)

	// nothing to load
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	setString(&config.ListenAddr, c.ListenAddr)
	setString(&config.Framing, c.Framing)
	setString(&config.StoreBackend, c.StoreBackend)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.LogBackend, c.LogBackend)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	if c.ServicePort != nil {
		config.ServicePort = *c.ServicePort
	}
	setDuration(&config.DialTimeout, c.DialTimeout)
	setDuration(&config.TaskTimeout, c.TaskTimeout)
	setDuration(&config.MaxTaskTimeout, c.MaxTaskTimeout)

	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
