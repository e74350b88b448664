package profile

import (
	"fmt"
	"strings"
)

// Environment is the deployment environment the process runs in.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// ParseEnvironment accepts the three known environments, case-insensitively.
func ParseEnvironment(s string) (Environment, error) {
	switch Environment(strings.ToLower(strings.TrimSpace(s))) {
	case Development:
		return Development, nil
	case Staging:
		return Staging, nil
	case Production:
		return Production, nil
	default:
		return "", fmt.Errorf("unknown environment %q", s)
	}
}

const defaultCloudFront = "https://d34thlcszyehjn.cloudfront.net"

var cdnBaseByEnv = map[Environment]string{
	Development: defaultCloudFront,
	Staging:     defaultCloudFront,
	Production:  defaultCloudFront,
}

// CDNConfig resolves photo keys to absolute URLs. It is built once at
// startup and never mutated.
type CDNConfig struct {
	env  Environment
	base string
}

// NewCDNConfig selects the CDN base for env. A non-empty override wins.
func NewCDNConfig(env Environment, override string) CDNConfig {
	base := cdnBaseByEnv[env]
	if override != "" {
		base = override
	}
	if base == "" {
		base = defaultCloudFront
	}
	return CDNConfig{env: env, base: strings.TrimRight(base, "/")}
}

func (c CDNConfig) Environment() Environment { return c.env }

func (c CDNConfig) BaseURL() string { return c.base }

// URL joins key onto the CDN base.
func (c CDNConfig) URL(key string) string {
	return c.base + "/" + strings.TrimLeft(key, "/")
}
