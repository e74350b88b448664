package vectordb

import "time"

// FilterCondition is implemented by every predicate the store adapters know
// how to translate into their native filter format.
type FilterCondition interface {
	IsFilterCondition()
}

// FilterSet supports Must (AND), Should (OR), and MustNot (NOT) clauses.
//
// Example:
//
//	filters := NewFilterSet(
//	    Must(NewMatchAny("gender", "female")),
//	    MustNot(NewHasID(skipped...)),
//	)
type FilterSet struct {
	Must    *ConditionSet
	Should  *ConditionSet
	MustNot *ConditionSet
}

// ConditionSet holds a group of conditions for a single clause.
type ConditionSet struct {
	Conditions []FilterCondition
}

// IsEmpty reports whether the set carries no condition in any clause.
func (f *FilterSet) IsEmpty() bool {
	if f == nil {
		return true
	}
	return f.Must.len() == 0 && f.Should.len() == 0 && f.MustNot.len() == 0
}

func (cs *ConditionSet) len() int {
	if cs == nil {
		return 0
	}
	return len(cs.Conditions)
}

// ── Match Conditions ─────────────────────────────────────────────────────────

// MatchCondition is an exact match (field = value).
// Supports string, bool and integer values.
type MatchCondition struct {
	Field string
	Value any
}

func (c *MatchCondition) IsFilterCondition() {}

// MatchAnyCondition matches when the field holds one of Values (IN).
type MatchAnyCondition struct {
	Field  string
	Values []any
}

func (c *MatchAnyCondition) IsFilterCondition() {}

// MatchExceptCondition matches when the field holds none of Values (NOT IN).
type MatchExceptCondition struct {
	Field  string
	Values []any
}

func (c *MatchExceptCondition) IsFilterCondition() {}

// HasIDCondition matches points by store point id.
type HasIDCondition struct {
	IDs []string
}

func (c *HasIDCondition) IsFilterCondition() {}

// ── Range Conditions ─────────────────────────────────────────────────────────

// NumericRange defines bounds for numeric filtering. Nil bounds are open.
type NumericRange struct {
	Gt  *float64
	Gte *float64
	Lt  *float64
	Lte *float64
}

// TimeRange defines bounds for datetime filtering. Nil bounds are open.
type TimeRange struct {
	Gt  *time.Time
	Gte *time.Time
	Lt  *time.Time
	Lte *time.Time
}

// NumericRangeCondition filters by numeric range.
type NumericRangeCondition struct {
	Field string
	Range NumericRange
}

func (c *NumericRangeCondition) IsFilterCondition() {}

// TimeRangeCondition filters by datetime range.
type TimeRangeCondition struct {
	Field string
	Range TimeRange
}

func (c *TimeRangeCondition) IsFilterCondition() {}

// ── Constructors ─────────────────────────────────────────────────────────────

// NewFilterSet builds a FilterSet from clause options.
func NewFilterSet(clauses ...func(*FilterSet)) *FilterSet {
	fs := &FilterSet{}
	for _, clause := range clauses {
		clause(fs)
	}
	return fs
}

// Must appends conditions to the AND clause.
func Must(conditions ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) {
		fs.Must = appendConditions(fs.Must, conditions)
	}
}

// Should appends conditions to the OR clause.
func Should(conditions ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) {
		fs.Should = appendConditions(fs.Should, conditions)
	}
}

// MustNot appends conditions to the NOT clause.
func MustNot(conditions ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) {
		fs.MustNot = appendConditions(fs.MustNot, conditions)
	}
}

func appendConditions(cs *ConditionSet, conditions []FilterCondition) *ConditionSet {
	if len(conditions) == 0 {
		return cs
	}
	if cs == nil {
		cs = &ConditionSet{}
	}
	cs.Conditions = append(cs.Conditions, conditions...)
	return cs
}

func NewMatch(field string, value any) *MatchCondition {
	return &MatchCondition{Field: field, Value: value}
}

func NewMatchAny(field string, values ...any) *MatchAnyCondition {
	return &MatchAnyCondition{Field: field, Values: values}
}

func NewMatchExcept(field string, values ...any) *MatchExceptCondition {
	return &MatchExceptCondition{Field: field, Values: values}
}

func NewHasID(ids ...string) *HasIDCondition {
	return &HasIDCondition{IDs: ids}
}

func NewNumericRange(field string, r NumericRange) *NumericRangeCondition {
	return &NumericRangeCondition{Field: field, Range: r}
}

func NewTimeRange(field string, t TimeRange) *TimeRangeCondition {
	return &TimeRangeCondition{Field: field, Range: t}
}
