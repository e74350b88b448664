package metrics

// DefaultMetricsAddress is used when Address is empty.
const DefaultMetricsAddress = ":9090"

// Config controls the Prometheus endpoint.
type Config struct {
	// Address is where the /metrics server listens, e.g. ":9090".
	Address string `yaml:"address" mapstructure:"address" envconfig:"METRICS_ADDRESS"`

	// EnableDefaultCollectors registers the Go runtime, process and build-info
	// collectors.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" mapstructure:"enable_default_collectors" envconfig:"METRICS_ENABLE_DEFAULT_COLLECTORS"`

	// Namespace prefixes every metric name.
	Namespace string `yaml:"namespace" mapstructure:"namespace" envconfig:"METRICS_NAMESPACE"`

	// ServiceName is attached as a constant "service" label.
	ServiceName string `yaml:"service_name" mapstructure:"service_name" envconfig:"METRICS_SERVICE_NAME"`
}

func DefaultConfig() Config {
	return Config{
		Address:                 DefaultMetricsAddress,
		EnableDefaultCollectors: true,
		Namespace:               "profilesearch",
		ServiceName:             "profilesearch",
	}
}
