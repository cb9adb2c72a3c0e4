package config

// ServiceName identifies this service in every log line.
const ServiceName = "ledger"

// ObservabilityConfig groups the settings that control runtime visibility.
//
// Only logging lives here; the service ships no tracing or metrics.
type ObservabilityConfig struct {
	// ServiceName is forced to ServiceName by Load.
	ServiceName string `koanf:"service_name" validate:"required"`

	// Environment is copied from Primary.Env by Load.
	Environment string `koanf:"environment"`

	Logging LoggingConfig `koanf:"logging"`
}

// LoggingConfig holds application logging configuration.
type LoggingConfig struct {
	// Level is the verbosity threshold. Anything below it is dropped.
	Level string `koanf:"level" validate:"oneof=debug info warn error"`

	// Format selects "json" for log pipelines or "console" for humans.
	Format string `koanf:"format" validate:"oneof=json console"`
}

// DefaultObservabilityConfig provides the defaults used when no LOG_* variable is set.
func DefaultObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		ServiceName: ServiceName,
		Environment: "development",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// IsProduction reports whether the application is running in production mode.
func (c ObservabilityConfig) IsProduction() bool {
	return c.Environment == "production"
}
