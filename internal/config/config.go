// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file
// when one is present), maps them into structured Go types and fills
// in literal defaults for anything unset or empty.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Resolve database settings to fixed defaults, never failing on them.
//   - Validate the logging block so a typo in LOG_LEVEL fails fast.
package config

import (
	"strconv"
	"strings"

	"github.com/deppfellow/ledger/internal/validation"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process environment before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// envKeys maps the environment variables this service understands onto
// koanf key paths. Anything not listed here is ignored.
var envKeys = map[string]string{
	"DB_HOST":     "database.host",
	"DB_PORT":     "database.port",
	"DB_USER":     "database.user",
	"DB_PWD":      "database.password",
	"DB_DATABASE": "database.name",
	"DB_SSLMODE":  "database.ssl_mode",
	"APP_ENV":     "primary.env",
	"LOG_LEVEL":   "observability.logging.level",
	"LOG_FORMAT":  "observability.logging.format",
}

// Config is the root configuration object.
//
// It is returned by value from Load; nothing in this package hands out
// pointers into it, so a loaded Config cannot change underneath its readers.
type Config struct {
	Primary       Primary             `koanf:"primary"`
	Database      DatabaseConfig      `koanf:"database"`
	Observability ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env"`
}

// DatabaseConfig contains the connection parameters for the ledger database.
//
// There are no validate tags here on purpose: every field has a default
// and an unusable value surfaces as a connection error, not a config error.
type DatabaseConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
	SSLMode  string `koanf:"ssl_mode"`
}

// Defaults returns the configuration used when the environment is empty.
func Defaults() Config {
	return Config{
		Primary: Primary{Env: "development"},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     3306,
			User:     "root",
			Password: "",
			Name:     "exampledb",
			SSLMode:  "prefer",
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// Load reads the environment into a Config.
//
// Behavior summary:
//   - Starts from Defaults()
//   - Reads only the variables listed in envKeys
//   - Skips variables that are set but empty, so they keep their default
//   - Skips a DB_PORT that is not a number
//   - Validates the observability block
//
// The database block never produces an error.
func Load() (Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue("", ".", mapEnv), nil)
	if err != nil {
		return Config{}, errors.Wrap(err, "could not load env variables")
	}

	// koanf only overwrites keys it actually holds, so anything missing from
	// the environment keeps the value from Defaults().
	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "could not unmarshal config")
	}

	cfg.Observability.ServiceName = ServiceName
	cfg.Observability.Environment = cfg.Primary.Env

	if err := validation.Struct(cfg.Observability); err != nil {
		return Config{}, errors.Wrap(err, "invalid observability config")
	}

	return cfg, nil
}

// mapEnv translates one environment variable into a koanf key and value.
// An empty key tells the provider to drop the variable.
func mapEnv(key, value string) (string, any) {
	path, ok := envKeys[key]
	if !ok {
		return "", nil
	}

	if value == "" {
		return "", nil
	}

	if key == "DB_PORT" {
		port, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || port <= 0 {
			return "", nil
		}
		return path, port
	}

	if strings.HasPrefix(path, "observability.logging.") {
		value = strings.ToLower(value)
	}

	return path, value
}

// Settings returns a copy of the database settings.
func (c Config) Settings() DatabaseConfig {
	return c.Database
}
