// Package embedding produces the vectors stored for each named profile field.
//
// Two capabilities exist, selected by the declared kind of the target vector
// rather than by provider:
//
//   - DenseEmbedder returns one fixed-size vector per text. The default
//     implementation calls an OpenAI-compatible embeddings API through
//     langchaingo.
//   - MultiEmbedder returns one vector per token (late interaction). The
//     default implementation calls a BGE-M3 ColBERT inference service over
//     HTTP.
//
// Callers use the Gateway:
//
//	vec, err := gw.Embed(ctx, vectordb.VectorSpec{Name: "education", Kind: vectordb.Dense, Dim: 1536}, text)
//
// Empty or whitespace-only text fails with ErrEmptyText and never reaches a
// backend. Ingest and search skip blank fields instead of embedding them.
// Errors from a backend are returned unchanged in meaning and are not retried.
package embedding
