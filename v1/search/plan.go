package search

import "github.com/verona-ai/profilesearch/v1/vectordb"

// EmbeddedQuery is a sub-query after embedding.
type EmbeddedQuery struct {
	Vector string
	Value  vectordb.Vector
}

// BuildPlan runs one prefetch per embedded sub-query under the shared filter
// and fuses the rankings with distribution-based score fusion.
func BuildPlan(queries []EmbeddedQuery, filter *vectordb.FilterSet, limit, offset, prefetchLimit int, threshold float32) vectordb.QueryPlan {
	prefetch := make([]vectordb.SubQuery, 0, len(queries))
	for _, q := range queries {
		prefetch = append(prefetch, vectordb.SubQuery{
			Using:  q.Vector,
			Vector: q.Value,
			Limit:  prefetchLimit,
		})
	}
	return vectordb.QueryPlan{
		Prefetch:       prefetch,
		Fusion:         vectordb.FusionDBSF,
		Filter:         filter,
		Limit:          limit,
		Offset:         offset,
		ScoreThreshold: threshold,
	}
}
