package ingest

import "fmt"

// VibePolicy selects when an existing profile gets a new vibe report.
type VibePolicy string

const (
	// VibeOnContentChange regenerates whenever a report input changed. This
	// is the default.
	VibeOnContentChange VibePolicy = "on_change"
	// VibeWhenMissing generates a report only for profiles that have none,
	// trading report freshness for fewer LLM calls.
	VibeWhenMissing VibePolicy = "missing"
)

func ParseVibePolicy(s string) (VibePolicy, error) {
	switch VibePolicy(s) {
	case "", VibeOnContentChange:
		return VibeOnContentChange, nil
	case VibeWhenMissing:
		return VibeWhenMissing, nil
	default:
		return "", fmt.Errorf("unknown vibe policy %q", s)
	}
}

type Config struct {
	VibePolicy VibePolicy `yaml:"vibe_policy" mapstructure:"vibe_policy"`

	// GenerateVibe turns report generation off entirely when false.
	GenerateVibe bool `yaml:"generate_vibe" mapstructure:"generate_vibe"`
}

func DefaultConfig() Config {
	return Config{
		VibePolicy:   VibeOnContentChange,
		GenerateVibe: true,
	}
}
