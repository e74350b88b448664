package search

import (
	"strings"
	"time"

	"github.com/verona-ai/profilesearch/v1/profile"
	"github.com/verona-ai/profilesearch/v1/vectordb"
)

// Filters is the structured filter object of a search request. Categorical
// fields accept a list of codes (OR within the field); distinct fields are
// ANDed. Range bounds are inclusive and independently optional.
type Filters struct {
	Genders         []string `json:"genders,omitempty" form:"genders"`
	Religions       []string `json:"religions,omitempty" form:"religions"`
	Castes          []string `json:"castes,omitempty" form:"castes"`
	Locations       []string `json:"locations,omitempty" form:"locations"`
	MaritalStatuses []string `json:"marital_statuses,omitempty" form:"marital_statuses"`
	FamilyTypes     []string `json:"family_types,omitempty" form:"family_types"`
	FoodHabits      []string `json:"food_habits,omitempty" form:"food_habits"`
	Smoking         []string `json:"smoking,omitempty" form:"smoking"`
	Drinking        []string `json:"drinking,omitempty" form:"drinking"`
	Religiosity     []string `json:"religiosity,omitempty" form:"religiosity"`
	Fitness         []string `json:"fitness,omitempty" form:"fitness"`
	Intent          []string `json:"intent,omitempty" form:"intent"`
	OpenToChildren  []string `json:"open_to_children,omitempty" form:"open_to_children"`

	MinAge    *int     `json:"min_age,omitempty" form:"min_age" validate:"omitempty,gte=18,lte=100"`
	MaxAge    *int     `json:"max_age,omitempty" form:"max_age" validate:"omitempty,gte=18,lte=100"`
	MinHeight *int     `json:"min_height,omitempty" form:"min_height" validate:"omitempty,gte=0"`
	MaxHeight *int     `json:"max_height,omitempty" form:"max_height" validate:"omitempty,gte=0"`
	MinIncome *float64 `json:"min_income,omitempty" form:"min_income" validate:"omitempty,gte=0"`
	MaxIncome *float64 `json:"max_income,omitempty" form:"max_income" validate:"omitempty,gte=0"`

	// ActiveSince keeps profiles whose last_active is at or after the instant.
	ActiveSince *time.Time `json:"active_since,omitempty" form:"active_since" time_format:"2006-01-02T15:04:05Z07:00"`
}

// ActiveFilter is one user-supplied constraint, keyed by its request name.
// Impact analysis removes filters one key at a time.
type ActiveFilter struct {
	Key       string
	Value     any
	Condition vectordb.FilterCondition
}

type categorical struct {
	key    string
	field  string
	values func(*Filters) []string
}

// Request key to payload field, in the order filters are reported.
var categoricals = []categorical{
	{"genders", "gender", func(f *Filters) []string { return f.Genders }},
	{"religions", "religion", func(f *Filters) []string { return f.Religions }},
	{"castes", "caste", func(f *Filters) []string { return f.Castes }},
	{"locations", "current_location", func(f *Filters) []string { return f.Locations }},
	{"marital_statuses", "marital_status", func(f *Filters) []string { return f.MaritalStatuses }},
	{"family_types", "family_type", func(f *Filters) []string { return f.FamilyTypes }},
	{"food_habits", "food_habits", func(f *Filters) []string { return f.FoodHabits }},
	{"smoking", "smoking", func(f *Filters) []string { return f.Smoking }},
	{"drinking", "drinking", func(f *Filters) []string { return f.Drinking }},
	{"religiosity", "religiosity", func(f *Filters) []string { return f.Religiosity }},
	{"fitness", "fitness", func(f *Filters) []string { return f.Fitness }},
	{"intent", "intent", func(f *Filters) []string { return f.Intent }},
	{"open_to_children", "open_to_children", func(f *Filters) []string { return f.OpenToChildren }},
}

// Active lists the constraints that are actually set. Empty strings inside a
// categorical list are ignored and a list that ends up empty is not a filter.
func (f Filters) Active() []ActiveFilter {
	var out []ActiveFilter

	for _, c := range categoricals {
		values := cleanCodes(c.values(&f))
		if len(values) == 0 {
			continue
		}
		anys := make([]any, len(values))
		for i, v := range values {
			anys[i] = v
		}
		out = append(out, ActiveFilter{
			Key:       c.key,
			Value:     values,
			Condition: vectordb.NewMatchAny(c.field, anys...),
		})
	}

	out = appendIntBound(out, "min_age", "age", f.MinAge, true)
	out = appendIntBound(out, "max_age", "age", f.MaxAge, false)
	out = appendIntBound(out, "min_height", "height", f.MinHeight, true)
	out = appendIntBound(out, "max_height", "height", f.MaxHeight, false)
	out = appendFloatBound(out, "min_income", "annual_income", f.MinIncome, true)
	out = appendFloatBound(out, "max_income", "annual_income", f.MaxIncome, false)

	if f.ActiveSince != nil {
		t := f.ActiveSince.UTC()
		out = append(out, ActiveFilter{
			Key:       "active_since",
			Value:     t.Format(time.RFC3339),
			Condition: vectordb.NewTimeRange("last_active", vectordb.TimeRange{Gte: &t}),
		})
	}
	return out
}

// IsEmpty reports whether no constraint is set.
func (f Filters) IsEmpty() bool {
	return len(f.Active()) == 0
}

// Applied returns the active filters as a key/value map for responses.
func (f Filters) Applied() map[string]any {
	out := map[string]any{}
	for _, a := range f.Active() {
		out[a.Key] = a.Value
	}
	return out
}

// Merge overlays explicit on top of parsed: every key set in explicit wins,
// the rest come from parsed.
func Merge(parsed, explicit Filters) Filters {
	out := parsed
	for _, c := range categoricals {
		if v := cleanCodes(c.values(&explicit)); len(v) > 0 {
			*categoricalPtr(&out, c.key) = v
		}
	}
	if explicit.MinAge != nil {
		out.MinAge = explicit.MinAge
	}
	if explicit.MaxAge != nil {
		out.MaxAge = explicit.MaxAge
	}
	if explicit.MinHeight != nil {
		out.MinHeight = explicit.MinHeight
	}
	if explicit.MaxHeight != nil {
		out.MaxHeight = explicit.MaxHeight
	}
	if explicit.MinIncome != nil {
		out.MinIncome = explicit.MinIncome
	}
	if explicit.MaxIncome != nil {
		out.MaxIncome = explicit.MaxIncome
	}
	if explicit.ActiveSince != nil {
		out.ActiveSince = explicit.ActiveSince
	}
	return out
}

func categoricalPtr(f *Filters, key string) *[]string {
	switch key {
	case "genders":
		return &f.Genders
	case "religions":
		return &f.Religions
	case "castes":
		return &f.Castes
	case "locations":
		return &f.Locations
	case "marital_statuses":
		return &f.MaritalStatuses
	case "family_types":
		return &f.FamilyTypes
	case "food_habits":
		return &f.FoodHabits
	case "smoking":
		return &f.Smoking
	case "drinking":
		return &f.Drinking
	case "religiosity":
		return &f.Religiosity
	case "fitness":
		return &f.Fitness
	case "intent":
		return &f.Intent
	case "open_to_children":
		return &f.OpenToChildren
	}
	panic("search: unknown categorical filter " + key)
}

func appendIntBound(out []ActiveFilter, key, field string, v *int, lower bool) []ActiveFilter {
	if v == nil {
		return out
	}
	return append(out, ActiveFilter{Key: key, Value: *v, Condition: bound(field, float64(*v), lower)})
}

func appendFloatBound(out []ActiveFilter, key, field string, v *float64, lower bool) []ActiveFilter {
	if v == nil {
		return out
	}
	return append(out, ActiveFilter{Key: key, Value: *v, Condition: bound(field, *v, lower)})
}

func bound(field string, v float64, lower bool) vectordb.FilterCondition {
	if lower {
		return vectordb.NewNumericRange(field, vectordb.NumericRange{Gte: &v})
	}
	return vectordb.NewNumericRange(field, vectordb.NumericRange{Lte: &v})
}

func cleanCodes(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ── Predicate ────────────────────────────────────────────────────────────────

// Predicate is the compiled hard constraint of a search: the eligibility
// gate, the user filters and the exclusion list.
type Predicate struct {
	// Eligibility restricts matches to is_circulateable == true.
	Eligibility bool
	Filters     []ActiveFilter
	// SkipIDs are external profile ids that must never match.
	SkipIDs []string
}

// BuildPredicate compiles filters and skipIDs with the eligibility gate on.
func BuildPredicate(f Filters, skipIDs []string) Predicate {
	return Predicate{
		Eligibility: true,
		Filters:     f.Active(),
		SkipIDs:     cleanCodes(skipIDs),
	}
}

// HasUserFilters reports whether any request filter is active. The gate and
// the exclusion list do not count.
func (p Predicate) HasUserFilters() bool {
	return len(p.Filters) > 0
}

// Without returns p with the filter named key removed.
func (p Predicate) Without(key string) Predicate {
	out := p
	out.Filters = make([]ActiveFilter, 0, len(p.Filters))
	for _, f := range p.Filters {
		if f.Key != key {
			out.Filters = append(out.Filters, f)
		}
	}
	return out
}

// Base returns p with every user filter removed.
func (p Predicate) Base() Predicate {
	out := p
	out.Filters = nil
	return out
}

// FilterSet renders the predicate for the store: the gate and every filter
// as must, skipped ids as must-not on the point id. Returns nil when the
// predicate matches everything.
func (p Predicate) FilterSet() *vectordb.FilterSet {
	var must []vectordb.FilterCondition
	if p.Eligibility {
		must = append(must, vectordb.NewMatch("is_circulateable", true))
	}
	for _, f := range p.Filters {
		must = append(must, f.Condition)
	}

	var clauses []func(*vectordb.FilterSet)
	if len(must) > 0 {
		clauses = append(clauses, vectordb.Must(must...))
	}
	if len(p.SkipIDs) > 0 {
		clauses = append(clauses, vectordb.MustNot(vectordb.NewHasID(profile.PointIDs(p.SkipIDs)...)))
	}
	if len(clauses) == 0 {
		return nil
	}
	return vectordb.NewFilterSet(clauses...)
}
