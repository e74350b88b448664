package api

import (
	"strings"

	"github.com/verona-ai/profilesearch/v1/search"
)

// DefaultGetLimit is the page size of GET /api/v1/search when none is given.
const DefaultGetLimit = 50

type SearchRequest struct {
	Query         string                `json:"query" validate:"max=1000"`
	ParsedQueries *search.ParsedQueries `json:"parsed_queries"`
	Filters       search.Filters        `json:"filters"`

	Limit          int      `json:"limit" validate:"omitempty,gte=1,lte=200"`
	Offset         int      `json:"offset" validate:"gte=0"`
	ScoreThreshold *float32 `json:"score_threshold" validate:"omitempty,gte=0,lte=1"`
	SkipIDs        []string `json:"skip_ids" validate:"omitempty,dive,required"`

	IncludeNonCirculateable bool  `json:"include_non_circulateable"`
	IncludeFilterAnalysis   *bool `json:"include_filter_analysis"`
}

func (r SearchRequest) toSearch() search.Request {
	return search.Request{
		Query:                   strings.TrimSpace(r.Query),
		ParsedQueries:           r.ParsedQueries,
		Filters:                 r.Filters,
		Limit:                   r.Limit,
		Offset:                  r.Offset,
		ScoreThreshold:          r.ScoreThreshold,
		SkipIDs:                 r.SkipIDs,
		IncludeNonCirculateable: r.IncludeNonCirculateable,
		IncludeFilterAnalysis:   r.IncludeFilterAnalysis,
	}
}

// SearchQuery is the query-string form of a search. List filters repeat the
// key (?religions=HIN&religions=JAI) or use commas.
type SearchQuery struct {
	Q string `form:"q" validate:"max=1000"`
	search.ParsedQueries
	search.Filters

	Limit   *int     `form:"limit" validate:"omitempty,gte=1,lte=200"`
	Offset  int      `form:"offset" validate:"gte=0"`
	SkipIDs []string `form:"skip_ids"`

	IncludeNonCirculateable bool `form:"include_non_circulateable"`
}

func (q SearchQuery) toSearch() search.Request {
	limit := DefaultGetLimit
	if q.Limit != nil {
		limit = *q.Limit
	}

	req := search.Request{
		Query:                   strings.TrimSpace(q.Q),
		Filters:                 splitLists(q.Filters),
		Limit:                   limit,
		Offset:                  q.Offset,
		SkipIDs:                 splitValues(q.SkipIDs),
		IncludeNonCirculateable: q.IncludeNonCirculateable,
	}
	if parsed := q.ParsedQueries; !parsed.IsEmpty() {
		req.ParsedQueries = &parsed
	}
	return req
}

type ParseRequest struct {
	Query string `json:"query" validate:"required,max=1000"`
}

type FilterImpactRequest struct {
	Filters                 search.Filters `json:"filters"`
	SkipIDs                 []string       `json:"skip_ids"`
	IncludeNonCirculateable bool           `json:"include_non_circulateable"`

	// MinResults asks for expansion suggestions when positive.
	MinResults int `json:"min_results" validate:"gte=0"`
}

type FilterImpactResponse struct {
	Analysis    *search.FilterAnalysis `json:"filter_analysis"`
	Suggestions []search.Expansion     `json:"suggestions,omitempty"`
}

type HealthResponse struct {
	Status     string `json:"status"`
	Collection string `json:"collection,omitempty"`
	Error      string `json:"error,omitempty"`
}

func splitLists(f search.Filters) search.Filters {
	for _, list := range []*[]string{
		&f.Genders, &f.Religions, &f.Castes, &f.Locations, &f.MaritalStatuses,
		&f.FamilyTypes, &f.FoodHabits, &f.Smoking, &f.Drinking,
		&f.Religiosity, &f.Fitness, &f.Intent, &f.OpenToChildren,
	} {
		*list = splitValues(*list)
	}
	return f
}

func splitValues(values []string) []string {
	if len(values) == 0 {
		return values
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
