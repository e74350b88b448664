// Package vectordb defines the store-agnostic contract for the profile
// vector store: named vector schemas (dense or multivector), filter
// predicates, fused query plans and the Store interface.
//
// The Qdrant implementation lives in package qdrant. Ingestion and search
// only import this package, which keeps them testable against mocks.
//
// # Filters
//
// Filters are composed from conditions grouped in Must, Should and MustNot
// clauses:
//
//	fs := vectordb.NewFilterSet(
//	    vectordb.Must(
//	        vectordb.NewMatchAny("religion", "HI", "JA"),
//	        vectordb.NewNumericRange("age", vectordb.NumericRange{Gte: &min, Lte: &max}),
//	    ),
//	    vectordb.MustNot(vectordb.NewHasID(skip...)),
//	)
//
// # Vectors
//
// A Vector is either dense or multi. Schema.Validate rejects any vector whose
// kind or dimensionality differs from its declaration.
package vectordb
