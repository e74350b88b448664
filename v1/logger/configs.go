package logger

const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config controls level, service tagging and trace correlation.
type Config struct {
	// production -> info, development -> debug, anything else -> info
	Level string `yaml:"level" mapstructure:"level" envconfig:"ZAP_LOGGER_LEVEL"`

	ServiceName string `yaml:"service_name" mapstructure:"service_name" envconfig:"LOGGER_SERVICE_NAME"`

	// EnableTracing adds trace_id and span_id to entries logged through the
	// *WithContext methods.
	EnableTracing bool `yaml:"enable_tracing" mapstructure:"enable_tracing" envconfig:"LOGGER_ENABLE_TRACING"`

	// Encoding is "json" (default) or "console".
	Encoding string `yaml:"encoding" mapstructure:"encoding" envconfig:"LOGGER_ENCODING"`
}

func DefaultConfig() Config {
	return Config{
		Level:         Info,
		ServiceName:   "profilesearch",
		EnableTracing: true,
		Encoding:      "json",
	}
}
