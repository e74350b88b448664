package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verona-ai/profilesearch/v1/profile"
	"github.com/verona-ai/profilesearch/v1/vectordb"
)

func ptr[T any](v T) *T { return &v }

func TestActiveFilters(t *testing.T) {
	since := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	f := Filters{
		Genders:     []string{"female", " "},
		Locations:   []string{"IN_DEL"},
		Castes:      []string{""},
		MinAge:      ptr(25),
		MaxIncome:   ptr(2500000.0),
		ActiveSince: &since,
	}

	active := f.Active()
	keys := make([]string, 0, len(active))
	for _, a := range active {
		keys = append(keys, a.Key)
	}
	assert.Equal(t, []string{"genders", "locations", "min_age", "max_income", "active_since"}, keys)

	genders := active[0].Condition.(*vectordb.MatchAnyCondition)
	assert.Equal(t, "gender", genders.Field)
	assert.Equal(t, []any{"female"}, genders.Values)

	locations := active[1].Condition.(*vectordb.MatchAnyCondition)
	assert.Equal(t, "current_location", locations.Field)

	age := active[2].Condition.(*vectordb.NumericRangeCondition)
	assert.Equal(t, "age", age.Field)
	require.NotNil(t, age.Range.Gte)
	assert.Equal(t, 25.0, *age.Range.Gte)
	assert.Nil(t, age.Range.Lte)

	income := active[3].Condition.(*vectordb.NumericRangeCondition)
	assert.Equal(t, "annual_income", income.Field)
	assert.Equal(t, 2500000.0, *income.Range.Lte)

	lastActive := active[4].Condition.(*vectordb.TimeRangeCondition)
	assert.Equal(t, "last_active", lastActive.Field)
	assert.True(t, lastActive.Range.Gte.Equal(since))
}

func TestEmptyFilters(t *testing.T) {
	assert.True(t, Filters{}.IsEmpty())
	assert.True(t, Filters{Genders: []string{""}}.IsEmpty())
	assert.Empty(t, Filters{}.Applied())
}

func TestMergeExplicitWins(t *testing.T) {
	parsed := Filters{
		Genders:   []string{"male"},
		Religions: []string{"HI"},
		MinAge:    ptr(30),
		MaxAge:    ptr(35),
	}
	explicit := Filters{
		Genders: []string{"female"},
		MinAge:  ptr(25),
	}

	merged := Merge(parsed, explicit)

	assert.Equal(t, []string{"female"}, merged.Genders)
	assert.Equal(t, []string{"HI"}, merged.Religions)
	assert.Equal(t, 25, *merged.MinAge)
	assert.Equal(t, 35, *merged.MaxAge)
	assert.Equal(t, []string{"male"}, parsed.Genders, "parsed filters are not modified")
}

func TestPredicateFilterSet(t *testing.T) {
	pred := BuildPredicate(Filters{Genders: []string{"female"}}, []string{"U9", ""})

	fs := pred.FilterSet()
	require.NotNil(t, fs)
	require.NotNil(t, fs.Must)
	require.Len(t, fs.Must.Conditions, 2)

	gate := fs.Must.Conditions[0].(*vectordb.MatchCondition)
	assert.Equal(t, "is_circulateable", gate.Field)
	assert.Equal(t, true, gate.Value)

	require.NotNil(t, fs.MustNot)
	skip := fs.MustNot.Conditions[0].(*vectordb.HasIDCondition)
	assert.Equal(t, []string{profile.PointID("U9")}, skip.IDs)
}

func TestPredicateWithoutGate(t *testing.T) {
	pred := BuildPredicate(Filters{}, nil)
	require.NotNil(t, pred.FilterSet())

	pred.Eligibility = false
	assert.Nil(t, pred.FilterSet())
	assert.False(t, pred.HasUserFilters())
}

func TestPredicateWithout(t *testing.T) {
	pred := BuildPredicate(Filters{Genders: []string{"female"}, MinAge: ptr(25), MaxAge: ptr(30)}, nil)
	require.Len(t, pred.Filters, 3)

	without := pred.Without("min_age")
	require.Len(t, without.Filters, 2)
	assert.Equal(t, "genders", without.Filters[0].Key)
	assert.Equal(t, "max_age", without.Filters[1].Key)
	assert.Len(t, pred.Filters, 3)

	assert.Empty(t, pred.Base().Filters)
	assert.True(t, pred.Base().Eligibility)
}
