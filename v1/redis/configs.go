package redis

import "time"

const (
	DefaultHost            = "localhost"
	DefaultPort            = 6379
	DefaultMaxRetries      = 3
	DefaultMinRetryBackoff = 8 * time.Millisecond
	DefaultMaxRetryBackoff = 512 * time.Millisecond
	DefaultDialTimeout     = 5 * time.Second
	DefaultReadTimeout     = 3 * time.Second
	DefaultIdleTimeout     = 5 * time.Minute
)

// Config configures the connection to a standalone Redis server.
type Config struct {
	// Enabled is read by the application wiring; the client itself ignores it.
	Enabled bool `yaml:"enabled" mapstructure:"enabled" envconfig:"REDIS_ENABLED"`

	Host     string `yaml:"host" mapstructure:"host" envconfig:"REDIS_HOST"`
	Port     int    `yaml:"port" mapstructure:"port" envconfig:"REDIS_PORT"`
	Username string `yaml:"username" mapstructure:"username" envconfig:"REDIS_USERNAME"`
	Password string `yaml:"password" mapstructure:"password" envconfig:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" mapstructure:"db" envconfig:"REDIS_DB"`

	// PoolSize is the maximum number of socket connections. Zero means
	// 10 per CPU.
	PoolSize int `yaml:"pool_size" mapstructure:"pool_size" envconfig:"REDIS_POOL_SIZE"`

	// MaxRetries before giving up. -1 disables retries.
	MaxRetries      int           `yaml:"max_retries" mapstructure:"max_retries" envconfig:"REDIS_MAX_RETRIES"`
	MinRetryBackoff time.Duration `yaml:"min_retry_backoff" mapstructure:"min_retry_backoff"`
	MaxRetryBackoff time.Duration `yaml:"max_retry_backoff" mapstructure:"max_retry_backoff"`

	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout" envconfig:"REDIS_DIAL_TIMEOUT"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout" envconfig:"REDIS_READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout" envconfig:"REDIS_WRITE_TIMEOUT"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`

	TLS TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// TLSConfig contains TLS/SSL configuration parameters.
type TLSConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// CACertPath is the CA certificate used to verify the server.
	CACertPath     string `yaml:"ca_cert_path" mapstructure:"ca_cert_path"`
	ClientCertPath string `yaml:"client_cert_path" mapstructure:"client_cert_path"`
	ClientKeyPath  string `yaml:"client_key_path" mapstructure:"client_key_path"`

	// InsecureSkipVerify must only be used in testing.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify" mapstructure:"insecure_skip_verify"`

	// ServerName defaults to Host.
	ServerName string `yaml:"server_name" mapstructure:"server_name"`
}

func DefaultConfig() Config {
	return Config{
		Host:            DefaultHost,
		Port:            DefaultPort,
		MaxRetries:      DefaultMaxRetries,
		MinRetryBackoff: DefaultMinRetryBackoff,
		MaxRetryBackoff: DefaultMaxRetryBackoff,
		DialTimeout:     DefaultDialTimeout,
		ReadTimeout:     DefaultReadTimeout,
		IdleTimeout:     DefaultIdleTimeout,
	}
}

// withDefaults fills zero values from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Host == "" {
		c.Host = d.Host
	}
	if c.Port == 0 {
		c.Port = d.Port
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = d.MaxRetries
	}
	if c.MinRetryBackoff == 0 {
		c.MinRetryBackoff = d.MinRetryBackoff
	}
	if c.MaxRetryBackoff == 0 {
		c.MaxRetryBackoff = d.MaxRetryBackoff
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = d.DialTimeout
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = d.IdleTimeout
	}
	return c
}
