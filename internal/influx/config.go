package influx

import (
	"fmt"
	"os"
	"strings"
)

// Environment variables read by the uploader. These match what the benchmark
// CI jobs already export.
const (
	EnvHost     = "INFLUXDB_HOST"
	EnvToken    = "INFLUXDB_TOKEN"
	EnvOrg      = "INFLUXDB_ORG"
	EnvDatabase = "INFLUXDB_DATABASE"
)

// Config holds the connection parameters for the metrics database.
type Config struct {
	Host     string
	Token    string
	Org      string // optional on single-org deployments
	Database string
}

// ConfigFromEnv reads connection parameters from the process environment.
// Call Validate before using the result.
func ConfigFromEnv() Config {
	return Config{
		Host:     os.Getenv(EnvHost),
		Token:    os.Getenv(EnvToken),
		Org:      os.Getenv(EnvOrg),
		Database: os.Getenv(EnvDatabase),
	}
}

// ConfigError reports missing required connection parameters.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required environment variables: %s", strings.Join(e.Missing, ", "))
}

// Validate returns a *ConfigError naming every absent required variable.
// Org is optional.
func (c Config) Validate() error {
	var missing []string
	if c.Host == "" {
		missing = append(missing, EnvHost)
	}
	if c.Token == "" {
		missing = append(missing, EnvToken)
	}
	if c.Database == "" {
		missing = append(missing, EnvDatabase)
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}
