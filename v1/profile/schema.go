package profile

import "github.com/verona-ai/profilesearch/v1/vectordb"

// Named vectors of a profile point.
const (
	VectorEducation  = "education"
	VectorProfession = "profession"
	VectorVibeReport = "vibe_report"
)

const (
	DefaultCollection = "matrimonial_profiles"

	// OpenAI text-embedding-3-small.
	DenseDim = 1536
	// BGE-M3 ColBERT token vectors.
	MultiDim = 1024
)

// Schema declares the profile collection. The vibe report vector is a
// multivector by default; vibeKind lets it be stored dense instead.
func Schema(collection string, vibeKind vectordb.VectorKind) vectordb.Schema {
	if collection == "" {
		collection = DefaultCollection
	}
	vibeDim := MultiDim
	if vibeKind == vectordb.Dense {
		vibeDim = DenseDim
	}

	return vectordb.Schema{
		Collection: collection,
		Vectors: []vectordb.VectorSpec{
			{Name: VectorEducation, Kind: vectordb.Dense, Dim: DenseDim},
			{Name: VectorProfession, Kind: vectordb.Dense, Dim: DenseDim},
			{Name: VectorVibeReport, Kind: vibeKind, Dim: vibeDim},
		},
		Indexes: []vectordb.PayloadIndex{
			{Field: "id", Kind: vectordb.KeywordIndex},
			{Field: "is_circulateable", Kind: vectordb.BoolIndex},
			{Field: "last_active", Kind: vectordb.DatetimeIndex},
			{Field: "age", Kind: vectordb.IntegerIndex},
			{Field: "height", Kind: vectordb.IntegerIndex},
			{Field: "annual_income", Kind: vectordb.FloatIndex},
			{Field: "gender", Kind: vectordb.KeywordIndex},
			{Field: "religion", Kind: vectordb.KeywordIndex},
			{Field: "caste", Kind: vectordb.KeywordIndex},
			{Field: "current_location", Kind: vectordb.KeywordIndex},
			{Field: "marital_status", Kind: vectordb.KeywordIndex},
			{Field: "family_type", Kind: vectordb.KeywordIndex},
			{Field: "food_habits", Kind: vectordb.KeywordIndex},
			{Field: "smoking", Kind: vectordb.KeywordIndex},
			{Field: "drinking", Kind: vectordb.KeywordIndex},
			{Field: "religiosity", Kind: vectordb.KeywordIndex},
			{Field: "fitness", Kind: vectordb.KeywordIndex},
			{Field: "intent", Kind: vectordb.KeywordIndex},
			{Field: "open_to_children", Kind: vectordb.KeywordIndex},
		},
	}
}
