package search

import (
	"context"
	"errors"
	"strings"

	"github.com/verona-ai/profilesearch/v1/profile"
	"github.com/verona-ai/profilesearch/v1/vectordb"
)

// ErrUnsatisfiable is returned when a search has neither a usable query
// vector nor a filter.
var ErrUnsatisfiable = errors.New("unsatisfiable query: provide a semantic query or filters")

// Mode names how a search was executed.
type Mode string

const (
	ModeSemantic   Mode = "semantic"
	ModeFilterOnly Mode = "filter_only"
)

// ParsedQueries holds per-field sub-queries, one per named vector.
type ParsedQueries struct {
	EducationQuery  string `json:"education_query,omitempty" form:"education_query"`
	ProfessionQuery string `json:"profession_query,omitempty" form:"profession_query"`
	VibeReportQuery string `json:"vibe_report_query,omitempty" form:"vibe_report_query"`
}

// subQuery pairs a named vector with its query text.
type subQuery struct {
	vector string
	text   string
}

// subQueries returns the non-blank sub-queries in vector order.
func (p *ParsedQueries) subQueries() []subQuery {
	if p == nil {
		return nil
	}
	var out []subQuery
	for _, sq := range []subQuery{
		{profile.VectorEducation, p.EducationQuery},
		{profile.VectorProfession, p.ProfessionQuery},
		{profile.VectorVibeReport, p.VibeReportQuery},
	} {
		if text := strings.TrimSpace(sq.text); text != "" {
			out = append(out, subQuery{vector: sq.vector, text: text})
		}
	}
	return out
}

// IsEmpty reports whether no sub-query is set.
func (p *ParsedQueries) IsEmpty() bool {
	return len(p.subQueries()) == 0
}

// ParsedQuery is what a query parser extracts from free text.
type ParsedQuery struct {
	ParsedQueries
	Filters Filters `json:"filters"`
}

// QueryParser turns free text into sub-queries and a filter guess.
type QueryParser interface {
	Parse(ctx context.Context, query string) (*ParsedQuery, error)
}

// Request is one search.
type Request struct {
	// Query is free text, parsed when ParsedQueries is nil.
	Query         string
	ParsedQueries *ParsedQueries
	Filters       Filters

	Limit  int
	Offset int

	// ScoreThreshold overrides Config.ScoreThreshold when set.
	ScoreThreshold *float32

	// SkipIDs are external profile ids excluded from results and counts.
	SkipIDs []string

	IncludeNonCirculateable bool

	// IncludeFilterAnalysis overrides Config.FilterAnalysis when set.
	IncludeFilterAnalysis *bool
}

// Response is one page of ranked results plus diagnostics.
type Response struct {
	Results        []vectordb.SearchResult `json:"results"`
	TotalCount     int                     `json:"total_count"`
	QueryMode      Mode                    `json:"query_mode"`
	VectorsUsed    []string                `json:"vectors_used"`
	FiltersApplied map[string]any          `json:"filters_applied"`
	SearchTimeMs   float64                 `json:"search_time_ms"`
	EmbeddingModel string                  `json:"embedding_model"`
	ParsedQueries  *ParsedQueries          `json:"parsed_queries,omitempty"`
	FilterAnalysis *FilterAnalysis         `json:"filter_analysis,omitempty"`
}

// FilterImpact is how much one filter narrows the result set.
type FilterImpact struct {
	Filter           string  `json:"filter"`
	Value            any     `json:"value"`
	CountWith        int     `json:"count_with"`
	CountWithout     int     `json:"count_without"`
	RemovedCount     int     `json:"removed_count"`
	ImpactPercentage float64 `json:"impact_percentage"`
}

// FilterAnalysis is the advisory diagnostic attached to filtered searches.
type FilterAnalysis struct {
	Impacts             []FilterImpact `json:"impacts"`
	Recommendations     []string       `json:"recommendations"`
	TotalWithoutFilters int            `json:"total_without_filters"`
	CurrentCount        int            `json:"current_count"`
}

// Expansion proposes removing a filter to reach more results.
type Expansion struct {
	Action        string `json:"action"`
	Filter        string `json:"filter"`
	ExpectedCount int    `json:"expected_count"`
}
