// Package search implements hybrid profile search: it compiles request
// filters into a store predicate, embeds per-field sub-queries for the named
// vectors, fuses their rankings and explains how each filter narrows the
// result set.
//
// A search runs in one of two modes. With at least one embedded sub-query it
// is a fused multi-vector query (semantic); with filters only it pages
// through matching points with a constant score (filter_only). A request
// that ends up with neither fails with ErrUnsatisfiable.
//
// Basic usage:
//
//	svc := search.NewService(store, gateway, schema, search.DefaultConfig(), log)
//	resp, err := svc.Search(ctx, search.Request{
//		ParsedQueries: &search.ParsedQueries{ProfessionQuery: "software engineer"},
//		Filters:       search.Filters{Genders: []string{"female"}, MinAge: &minAge},
//		SkipIDs:       []string{"U9"},
//	})
//
// Every search is restricted to circulateable profiles unless the request
// sets IncludeNonCirculateable.
package search
