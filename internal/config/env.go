package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/dmitrijs2005/n0t3b00k-checker/internal/flagx"
)

// parseEnv exports the .env file named by -env (if any) and then overlays
// CHECKER_* variables. Unset variables keep the current value.
func parseEnv(config *Config, args []string) error {
	if path := strings.TrimSpace(flagx.EnvFileFlag(args)); path != "" {
		if err := exportEnvironment(path); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	}
	return envconfig.Process(EnvPrefix, config)
}

// exportEnvironment reads a .env file with viper and copies every key into
// the process environment, upper-cased.
func exportEnvironment(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	for k, val := range v.AllSettings() {
		if err := os.Setenv(strings.ToUpper(k), fmt.Sprint(val)); err != nil {
			return err
		}
	}
	return nil
}
