package db

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// ConfigFromEnv reads <prefix>_DSN, <prefix>_DRIVER and <prefix>_TIMEOUT
// (a time.ParseDuration string). The driver defaults to "odbc".
// Logger and hooks are left for the caller to set.
func ConfigFromEnv(prefix string) (Config, error) {
	prefix = strings.TrimSuffix(strings.ToUpper(prefix), "_")

	cfg := Config{
		DSN:        os.Getenv(prefix + "_DSN"),
		DriverName: os.Getenv(prefix + "_DRIVER"),
	}
	if cfg.DSN == "" {
		return Config{}, fmt.Errorf("ibmi/db: %s_DSN environment variable not set", prefix)
	}
	if cfg.DriverName == "" {
		cfg.DriverName = "odbc"
	}
	if v := os.Getenv(prefix + "_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("ibmi/db: %s_TIMEOUT: %w", prefix, err)
		}
		cfg.DefaultTimeout = d
	}
	return cfg, nil
}
