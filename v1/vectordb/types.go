package vectordb

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownVector is returned when a named vector is not part of the schema.
	ErrUnknownVector = errors.New("unknown named vector")

	// ErrDimensionMismatch is returned when a vector does not match its declared shape.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)

// VectorKind selects how a named vector is stored and compared.
type VectorKind int

const (
	// Dense is a single fixed-size vector compared by cosine similarity.
	Dense VectorKind = iota
	// MultiVector is a variable-length sequence of fixed-size vectors
	// compared by max-similarity (late interaction).
	MultiVector
)

func (k VectorKind) String() string {
	switch k {
	case Dense:
		return "dense"
	case MultiVector:
		return "multivector"
	default:
		return fmt.Sprintf("VectorKind(%d)", int(k))
	}
}

// ParseVectorKind accepts "dense" or "multivector".
func ParseVectorKind(s string) (VectorKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dense":
		return Dense, nil
	case "multivector", "multi", "colbert":
		return MultiVector, nil
	default:
		return Dense, fmt.Errorf("unknown vector kind %q", s)
	}
}

// VectorSpec declares one named vector of a collection.
type VectorSpec struct {
	Name string
	Kind VectorKind
	Dim  int
}

// IndexKind is the payload index type declared at collection creation.
type IndexKind int

const (
	KeywordIndex IndexKind = iota
	IntegerIndex
	FloatIndex
	BoolIndex
	DatetimeIndex
)

// PayloadIndex declares a filterable payload field.
type PayloadIndex struct {
	Field string
	Kind  IndexKind
}

// Schema is the full declaration of a collection: its named vectors and the
// payload indexes that must exist before any point is written.
type Schema struct {
	Collection string
	Vectors    []VectorSpec
	Indexes    []PayloadIndex
}

// Vector returns the spec for a named vector.
func (s Schema) Vector(name string) (VectorSpec, bool) {
	for _, v := range s.Vectors {
		if v.Name == name {
			return v, true
		}
	}
	return VectorSpec{}, false
}

// Validate checks every vector in vs against the schema.
func (s Schema) Validate(vs NamedVectors) error {
	for name, v := range vs {
		spec, ok := s.Vector(name)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownVector, name)
		}
		if err := v.Check(spec); err != nil {
			return err
		}
	}
	return nil
}

// Vector holds either a dense vector or a multivector, never both.
type Vector struct {
	Dense []float32
	Multi [][]float32
}

// DenseOf wraps a dense embedding.
func DenseOf(v []float32) Vector { return Vector{Dense: v} }

// MultiOf wraps a token-level embedding.
func MultiOf(m [][]float32) Vector { return Vector{Multi: m} }

func (v Vector) Kind() VectorKind {
	if v.Multi != nil {
		return MultiVector
	}
	return Dense
}

// IsZero reports whether the vector carries no data.
func (v Vector) IsZero() bool {
	return len(v.Dense) == 0 && len(v.Multi) == 0
}

// Check validates kind and dimensionality against spec.
func (v Vector) Check(spec VectorSpec) error {
	if v.Kind() != spec.Kind {
		return fmt.Errorf("%w: %s expects %s, got %s", ErrDimensionMismatch, spec.Name, spec.Kind, v.Kind())
	}
	switch spec.Kind {
	case Dense:
		if len(v.Dense) != spec.Dim {
			return fmt.Errorf("%w: %s expects %d, got %d", ErrDimensionMismatch, spec.Name, spec.Dim, len(v.Dense))
		}
	case MultiVector:
		if len(v.Multi) == 0 {
			return fmt.Errorf("%w: %s multivector is empty", ErrDimensionMismatch, spec.Name)
		}
		for i, row := range v.Multi {
			if len(row) != spec.Dim {
				return fmt.Errorf("%w: %s row %d expects %d, got %d", ErrDimensionMismatch, spec.Name, i, spec.Dim, len(row))
			}
		}
	}
	return nil
}

// NamedVectors maps vector names to their values.
type NamedVectors map[string]Vector

// Names returns the vector names in no particular order.
func (nv NamedVectors) Names() []string {
	out := make([]string, 0, len(nv))
	for k := range nv {
		out = append(out, k)
	}
	return out
}

// Point is a full store record: id, all vectors, full payload.
type Point struct {
	ID      string
	Vectors NamedVectors
	Payload map[string]any
}

// Record is a stored point read back without vectors.
type Record struct {
	ID      string
	Payload map[string]any
}

// SearchResult is a single ranked hit.
type SearchResult struct {
	ID      string         `json:"id"`
	Score   float32        `json:"score"`
	Payload map[string]any `json:"payload"`
}

// Fusion selects how per-vector rankings are combined.
type Fusion int

const (
	// FusionDBSF normalizes each ranking by its own score distribution
	// before summing.
	FusionDBSF Fusion = iota
	// FusionRRF combines by reciprocal rank.
	FusionRRF
)

// SubQuery is one named-vector retrieval inside a QueryPlan.
type SubQuery struct {
	Using  string
	Vector Vector
	Limit  int
}

// QueryPlan describes a multi-vector retrieval: every SubQuery runs under
// Filter, and their rankings are fused into one list.
type QueryPlan struct {
	Prefetch       []SubQuery
	Fusion         Fusion
	Filter         *FilterSet
	Limit          int
	Offset         int
	ScoreThreshold float32
}

// ScrollRequest pages through points matching Filter without scoring.
type ScrollRequest struct {
	Filter *FilterSet
	Limit  int
	Offset int
}

// CollectionInfo is a store-agnostic view of a collection.
type CollectionInfo struct {
	Name           string `json:"name"`
	Status         string `json:"status"`
	PointCount     uint64 `json:"points_count"`
	IndexedVectors uint64 `json:"vectors_count"`
}
