package tracer

// Config controls OTLP export and the resource attributes attached to spans.
type Config struct {
	ServiceName string `yaml:"service_name" mapstructure:"service_name" envconfig:"TRACER_SERVICE_NAME"`
	AppEnv      string `yaml:"app_env" mapstructure:"app_env" envconfig:"APP_ENV"`

	// EnableExport turns on the OTLP/HTTP exporter. The exporter honours the
	// standard OTEL_EXPORTER_OTLP_* variables; Endpoint overrides them.
	EnableExport bool   `yaml:"enable_export" mapstructure:"enable_export" envconfig:"TRACER_ENABLE_EXPORT"`
	Endpoint     string `yaml:"endpoint" mapstructure:"endpoint" envconfig:"TRACER_ENDPOINT"`
	Insecure     bool   `yaml:"insecure" mapstructure:"insecure" envconfig:"TRACER_INSECURE"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "profilesearch",
		AppEnv:      "development",
	}
}
