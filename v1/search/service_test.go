package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/verona-ai/profilesearch/v1/embedding"
	"github.com/verona-ai/profilesearch/v1/logger"
	"github.com/verona-ai/profilesearch/v1/observability"
	"github.com/verona-ai/profilesearch/v1/profile"
	"github.com/verona-ai/profilesearch/v1/vectordb"
)

var testSchema = profile.Schema("", vectordb.MultiVector)

type fakeParser struct {
	parsed *ParsedQuery
	err    error
	calls  int
}

func (p *fakeParser) Parse(_ context.Context, _ string) (*ParsedQuery, error) {
	p.calls++
	return p.parsed, p.err
}

func newService(t *testing.T, store vectordb.Store) (*Service, *embedding.MockGateway) {
	ctrl := gomock.NewController(t)
	gw := embedding.NewMockGateway(ctrl)
	return NewService(store, gw, testSchema, DefaultConfig(), logger.NewNop()), gw
}

func dense() vectordb.Vector { return vectordb.DenseOf([]float32{1, 0}) }

func TestSearchFilterOnlyPagination(t *testing.T) {
	store := newMemStore()
	for i := 0; i < 120; i++ {
		store.add(fmt.Sprintf("F%03d", i), 0, map[string]any{"gender": "female"})
	}
	for i := 0; i < 5; i++ {
		store.add(fmt.Sprintf("M%03d", i), 0, map[string]any{"gender": "male"})
	}
	svc, _ := newService(t, store)

	resp, err := svc.Search(context.Background(), Request{
		Filters: Filters{Genders: []string{"female"}},
		Limit:   50,
		Offset:  100,
	})

	require.NoError(t, err)
	assert.Equal(t, ModeFilterOnly, resp.QueryMode)
	assert.Len(t, resp.Results, 20)
	assert.Equal(t, 120, resp.TotalCount)
	assert.Empty(t, resp.VectorsUsed)
	assert.Equal(t, map[string]any{"genders": []string{"female"}}, resp.FiltersApplied)
	for _, r := range resp.Results {
		assert.Equal(t, float32(1), r.Score)
	}
}

func TestSearchSkipIDsDropsTopMatch(t *testing.T) {
	store := newMemStore()
	store.add("U9", 0.99, map[string]any{"gender": "female", "age": 27})
	store.add("U4", 0.90, map[string]any{"gender": "female", "age": 29})
	store.add("U5", 0.95, map[string]any{"gender": "female", "age": 31})
	store.add("U6", 0.97, map[string]any{"gender": "male", "age": 28})
	store.add("U7", 0.80, map[string]any{"gender": "female", "age": 25})
	svc, gw := newService(t, store)

	gw.EXPECT().Embed(gomock.Any(), gomock.Any(), "doctor").Return(dense(), nil)

	resp, err := svc.Search(context.Background(), Request{
		ParsedQueries: &ParsedQueries{ProfessionQuery: "doctor"},
		Filters:       Filters{Genders: []string{"female"}, MinAge: ptr(25), MaxAge: ptr(30)},
		SkipIDs:       []string{"U9"},
	})

	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "U4", resp.Results[0].Payload["id"])
	assert.Equal(t, "U7", resp.Results[1].Payload["id"])
	assert.Equal(t, 2, resp.TotalCount)
	assert.Equal(t, ModeSemantic, resp.QueryMode)
	assert.Equal(t, []string{profile.VectorProfession}, resp.VectorsUsed)

	require.Len(t, store.plans, 1)
	plan := store.plans[0]
	assert.Equal(t, vectordb.FusionDBSF, plan.Fusion)
	require.Len(t, plan.Prefetch, 1)
	assert.Equal(t, profile.VectorProfession, plan.Prefetch[0].Using)
	assert.Equal(t, DefaultPrefetchLimit, plan.Prefetch[0].Limit)
	assert.Equal(t, DefaultLimit, plan.Limit)
}

func TestSearchExcludesNonCirculateable(t *testing.T) {
	store := newMemStore()
	store.add("A", 0.9, map[string]any{"gender": "female"})
	store.add("B", 0.8, map[string]any{"gender": "female", "is_circulateable": false})
	svc, _ := newService(t, store)

	resp, err := svc.Search(context.Background(), Request{Filters: Filters{Genders: []string{"female"}}})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalCount)

	resp, err = svc.Search(context.Background(), Request{
		Filters:                 Filters{Genders: []string{"female"}},
		IncludeNonCirculateable: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalCount)
}

func TestSearchVectorKindPerSubQuery(t *testing.T) {
	store := newMemStore()
	store.add("A", 0.9, nil)
	svc, gw := newService(t, store)

	gw.EXPECT().Embed(gomock.Any(), vectordb.VectorSpec{Name: profile.VectorEducation, Kind: vectordb.Dense, Dim: profile.DenseDim}, "iit").
		Return(dense(), nil)
	gw.EXPECT().Embed(gomock.Any(), vectordb.VectorSpec{Name: profile.VectorVibeReport, Kind: vectordb.MultiVector, Dim: profile.MultiDim}, "loves hiking").
		Return(vectordb.MultiOf([][]float32{{1}}), nil)

	resp, err := svc.Search(context.Background(), Request{
		ParsedQueries: &ParsedQueries{EducationQuery: "iit", VibeReportQuery: "loves hiking"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{profile.VectorEducation, profile.VectorVibeReport}, resp.VectorsUsed)
	assert.Nil(t, resp.FilterAnalysis)
}

func TestSearchDropsFailedSubQuery(t *testing.T) {
	store := newMemStore()
	store.add("A", 0.9, nil)
	svc, gw := newService(t, store)

	gw.EXPECT().Embed(gomock.Any(), gomock.Any(), "iit").Return(vectordb.Vector{}, errors.New("rate limited"))
	gw.EXPECT().Embed(gomock.Any(), gomock.Any(), "doctor").Return(dense(), nil)

	resp, err := svc.Search(context.Background(), Request{
		ParsedQueries: &ParsedQueries{EducationQuery: "iit", ProfessionQuery: "doctor"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{profile.VectorProfession}, resp.VectorsUsed)
}

func TestSearchUnsatisfiable(t *testing.T) {
	t.Run("nothing given", func(t *testing.T) {
		svc, _ := newService(t, newMemStore())
		_, err := svc.Search(context.Background(), Request{})
		assert.ErrorIs(t, err, ErrUnsatisfiable)
	})

	t.Run("every embedding failed and no filters", func(t *testing.T) {
		svc, gw := newService(t, newMemStore())
		gw.EXPECT().Embed(gomock.Any(), gomock.Any(), gomock.Any()).Return(vectordb.Vector{}, errors.New("down"))

		_, err := svc.Search(context.Background(), Request{ParsedQueries: &ParsedQueries{ProfessionQuery: "doctor"}})
		assert.ErrorIs(t, err, ErrUnsatisfiable)
	})

	t.Run("failed embedding falls back to filters", func(t *testing.T) {
		store := newMemStore()
		store.add("A", 0, map[string]any{"gender": "female"})
		svc, gw := newService(t, store)
		gw.EXPECT().Embed(gomock.Any(), gomock.Any(), gomock.Any()).Return(vectordb.Vector{}, errors.New("down"))

		resp, err := svc.Search(context.Background(), Request{
			ParsedQueries: &ParsedQueries{ProfessionQuery: "doctor"},
			Filters:       Filters{Genders: []string{"female"}},
		})
		require.NoError(t, err)
		assert.Equal(t, ModeFilterOnly, resp.QueryMode)
	})
}

func TestSearchStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := vectordb.NewMockStore(ctrl)
	svc := NewService(store, embedding.NewMockGateway(ctrl), testSchema, DefaultConfig(), logger.NewNop())

	store.EXPECT().Scroll(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))
	store.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil).AnyTimes()

	_, err := svc.Search(context.Background(), Request{Filters: Filters{Genders: []string{"female"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.NotErrorIs(t, err, ErrUnsatisfiable)
}

func TestSearchClampsLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := vectordb.NewMockStore(ctrl)
	svc := NewService(store, embedding.NewMockGateway(ctrl), testSchema, DefaultConfig(), logger.NewNop())

	store.EXPECT().Scroll(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req vectordb.ScrollRequest) ([]vectordb.SearchResult, error) {
			assert.Equal(t, DefaultMaxLimit, req.Limit)
			assert.Equal(t, 0, req.Offset)
			return nil, nil
		})
	store.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)

	resp, err := svc.Search(context.Background(), Request{
		Filters:               Filters{Genders: []string{"female"}},
		Limit:                 1000,
		Offset:                -5,
		IncludeFilterAnalysis: ptr(false),
	})
	require.NoError(t, err)
	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)
}

func TestSearchAutoParse(t *testing.T) {
	store := newMemStore()
	store.add("A", 0.9, map[string]any{"gender": "female", "religion": "HI"})
	store.add("B", 0.8, map[string]any{"gender": "male", "religion": "HI"})
	svc, gw := newService(t, store)

	parser := &fakeParser{parsed: &ParsedQuery{
		ParsedQueries: ParsedQueries{ProfessionQuery: "doctor"},
		Filters:       Filters{Genders: []string{"male"}, Religions: []string{"HI"}},
	}}
	svc.WithParser(parser)
	gw.EXPECT().Embed(gomock.Any(), gomock.Any(), "doctor").Return(dense(), nil)

	resp, err := svc.Search(context.Background(), Request{
		Query:   "female hindu doctor",
		Filters: Filters{Genders: []string{"female"}},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, parser.calls)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "A", resp.Results[0].Payload["id"])
	require.NotNil(t, resp.ParsedQueries)
	assert.Equal(t, "doctor", resp.ParsedQueries.ProfessionQuery)
}

func TestSearchParserFailureDegrades(t *testing.T) {
	store := newMemStore()
	store.add("A", 0, map[string]any{"gender": "female"})
	svc, _ := newService(t, store)
	svc.WithParser(&fakeParser{err: errors.New("llm timeout")})

	resp, err := svc.Search(context.Background(), Request{
		Query:   "female doctor",
		Filters: Filters{Genders: []string{"female"}},
	})

	require.NoError(t, err)
	assert.Equal(t, ModeFilterOnly, resp.QueryMode)
	assert.Nil(t, resp.ParsedQueries)
}

func TestSearchSkipsParserWhenSubQueriesGiven(t *testing.T) {
	store := newMemStore()
	store.add("A", 0.5, nil)
	svc, gw := newService(t, store)
	parser := &fakeParser{}
	svc.WithParser(parser)
	gw.EXPECT().Embed(gomock.Any(), gomock.Any(), "doctor").Return(dense(), nil)

	_, err := svc.Search(context.Background(), Request{
		Query:         "anything",
		ParsedQueries: &ParsedQueries{ProfessionQuery: "doctor"},
	})
	require.NoError(t, err)
	assert.Zero(t, parser.calls)
}

func TestSearchObserved(t *testing.T) {
	store := newMemStore()
	store.add("A", 0, map[string]any{"gender": "female"})
	svc, _ := newService(t, store)

	var ops []observability.OperationContext
	svc.WithObserver(observability.ObserverFunc(func(op observability.OperationContext) {
		ops = append(ops, op)
	}))

	_, err := svc.Search(context.Background(), Request{Filters: Filters{Genders: []string{"female"}}})
	require.NoError(t, err)
	_, err = svc.Search(context.Background(), Request{})
	require.ErrorIs(t, err, ErrUnsatisfiable)

	require.Len(t, ops, 2)
	assert.Equal(t, "filter_only", ops[0].Operation)
	assert.EqualValues(t, 1, ops[0].Size)
	assert.Equal(t, "empty", ops[1].Operation)
	assert.ErrorIs(t, ops[1].Error, ErrUnsatisfiable)
}
