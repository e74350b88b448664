package qdrant

import (
	"fmt"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/verona-ai/profilesearch/v1/vectordb"
)

// ── Filter Conversion ────────────────────────────────────────────────────────

// convertFilterSet converts a vectordb.FilterSet to a Qdrant filter. An empty
// set converts to nil.
func convertFilterSet(filters *vectordb.FilterSet) *qdrant.Filter {
	if filters == nil {
		return nil
	}

	filter := &qdrant.Filter{
		Must:    convertConditionSet(filters.Must),
		Should:  convertConditionSet(filters.Should),
		MustNot: convertConditionSet(filters.MustNot),
	}

	if len(filter.Must) == 0 && len(filter.Should) == 0 && len(filter.MustNot) == 0 {
		return nil
	}
	return filter
}

func convertConditionSet(cs *vectordb.ConditionSet) []*qdrant.Condition {
	if cs == nil {
		return nil
	}

	var conditions []*qdrant.Condition
	for _, c := range cs.Conditions {
		if cond := convertCondition(c); cond != nil {
			conditions = append(conditions, cond)
		}
	}
	return conditions
}

func convertCondition(c vectordb.FilterCondition) *qdrant.Condition {
	switch cond := c.(type) {
	case *vectordb.MatchCondition:
		return convertMatch(cond)
	case *vectordb.MatchAnyCondition:
		return convertMatchAny(cond.Field, cond.Values, false)
	case *vectordb.MatchExceptCondition:
		return convertMatchAny(cond.Field, cond.Values, true)
	case *vectordb.HasIDCondition:
		return convertHasID(cond)
	case *vectordb.NumericRangeCondition:
		return convertNumericRange(cond)
	case *vectordb.TimeRangeCondition:
		return convertTimeRange(cond)
	default:
		return nil
	}
}

func convertMatch(c *vectordb.MatchCondition) *qdrant.Condition {
	switch v := c.Value.(type) {
	case string:
		return qdrant.NewMatch(c.Field, v)
	case bool:
		return qdrant.NewMatchBool(c.Field, v)
	case int:
		return qdrant.NewMatchInt(c.Field, int64(v))
	case int64:
		return qdrant.NewMatchInt(c.Field, v)
	case float64:
		return qdrant.NewMatchInt(c.Field, int64(v))
	default:
		return nil
	}
}

// convertMatchAny detects the value type from the first element.
func convertMatchAny(field string, values []any, except bool) *qdrant.Condition {
	if len(values) == 0 {
		return nil
	}

	switch values[0].(type) {
	case string:
		strs := make([]string, 0, len(values))
		for _, v := range values {
			if s, ok := v.(string); ok {
				strs = append(strs, s)
			}
		}
		if except {
			return qdrant.NewMatchExceptKeywords(field, strs...)
		}
		return qdrant.NewMatchKeywords(field, strs...)
	case int, int64, float64:
		ints := make([]int64, 0, len(values))
		for _, v := range values {
			switch n := v.(type) {
			case int:
				ints = append(ints, int64(n))
			case int64:
				ints = append(ints, n)
			case float64:
				ints = append(ints, int64(n))
			}
		}
		if except {
			return qdrant.NewMatchExceptInts(field, ints...)
		}
		return qdrant.NewMatchInts(field, ints...)
	}
	return nil
}

func convertHasID(c *vectordb.HasIDCondition) *qdrant.Condition {
	if len(c.IDs) == 0 {
		return nil
	}
	return qdrant.NewHasID(pointIDs(c.IDs)...)
}

func convertNumericRange(c *vectordb.NumericRangeCondition) *qdrant.Condition {
	r := &qdrant.Range{
		Gt:  c.Range.Gt,
		Gte: c.Range.Gte,
		Lt:  c.Range.Lt,
		Lte: c.Range.Lte,
	}
	if r.Gt == nil && r.Gte == nil && r.Lt == nil && r.Lte == nil {
		return nil
	}
	return qdrant.NewRange(c.Field, r)
}

func convertTimeRange(c *vectordb.TimeRangeCondition) *qdrant.Condition {
	r := &qdrant.DatetimeRange{
		Gt:  toTimestamp(c.Range.Gt),
		Gte: toTimestamp(c.Range.Gte),
		Lt:  toTimestamp(c.Range.Lt),
		Lte: toTimestamp(c.Range.Lte),
	}
	if r.Gt == nil && r.Gte == nil && r.Lt == nil && r.Lte == nil {
		return nil
	}
	return qdrant.NewDatetimeRange(c.Field, r)
}

func toTimestamp(t *time.Time) *timestamppb.Timestamp {
	if t == nil {
		return nil
	}
	return timestamppb.New(*t)
}

// ── Vector Conversion ────────────────────────────────────────────────────────

func convertVector(v vectordb.Vector) *qdrant.Vector {
	if v.Kind() == vectordb.MultiVector {
		return qdrant.NewVectorMulti(v.Multi)
	}
	return qdrant.NewVectorDense(v.Dense)
}

func convertNamedVectors(vs vectordb.NamedVectors) *qdrant.Vectors {
	m := make(map[string]*qdrant.Vector, len(vs))
	for name, v := range vs {
		m[name] = convertVector(v)
	}
	return qdrant.NewVectorsMap(m)
}

func convertQuery(v vectordb.Vector) *qdrant.Query {
	if v.Kind() == vectordb.MultiVector {
		return qdrant.NewQueryMulti(v.Multi)
	}
	return qdrant.NewQueryDense(v.Dense)
}

func convertFusion(f vectordb.Fusion) qdrant.Fusion {
	if f == vectordb.FusionRRF {
		return qdrant.Fusion_RRF
	}
	return qdrant.Fusion_DBSF
}

func vectorParams(spec vectordb.VectorSpec) *qdrant.VectorParams {
	params := &qdrant.VectorParams{
		Size:     uint64(spec.Dim),
		Distance: qdrant.Distance_Cosine,
	}
	if spec.Kind == vectordb.MultiVector {
		params.MultivectorConfig = &qdrant.MultiVectorConfig{
			Comparator: qdrant.MultiVectorComparator_MaxSim,
		}
	}
	return params
}

func fieldType(k vectordb.IndexKind) qdrant.FieldType {
	switch k {
	case vectordb.IntegerIndex:
		return qdrant.FieldType_FieldTypeInteger
	case vectordb.FloatIndex:
		return qdrant.FieldType_FieldTypeFloat
	case vectordb.BoolIndex:
		return qdrant.FieldType_FieldTypeBool
	case vectordb.DatetimeIndex:
		return qdrant.FieldType_FieldTypeDatetime
	default:
		return qdrant.FieldType_FieldTypeKeyword
	}
}

// ── Result Conversion ────────────────────────────────────────────────────────

func pointIDs(ids []string) []*qdrant.PointId {
	out := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		out = append(out, qdrant.NewID(id))
	}
	return out
}

func parseScoredPoints(resp []*qdrant.ScoredPoint) ([]vectordb.SearchResult, error) {
	results := make([]vectordb.SearchResult, 0, len(resp))
	for _, r := range resp {
		id, err := extractPointID(r.Id)
		if err != nil {
			return nil, err
		}
		results = append(results, vectordb.SearchResult{
			ID:      id,
			Score:   r.Score,
			Payload: convertPayload(r.Payload),
		})
	}
	return results, nil
}

// parseRetrievedPoints converts unscored points, assigning score.
func parseRetrievedPoints(resp []*qdrant.RetrievedPoint, score float32) ([]vectordb.SearchResult, error) {
	results := make([]vectordb.SearchResult, 0, len(resp))
	for _, r := range resp {
		id, err := extractPointID(r.Id)
		if err != nil {
			return nil, err
		}
		results = append(results, vectordb.SearchResult{
			ID:      id,
			Score:   score,
			Payload: convertPayload(r.Payload),
		})
	}
	return results, nil
}

func extractPointID(id *qdrant.PointId) (string, error) {
	if id == nil {
		return "", fmt.Errorf("nil point ID")
	}
	switch v := id.PointIdOptions.(type) {
	case *qdrant.PointId_Num:
		return fmt.Sprintf("%d", v.Num), nil
	case *qdrant.PointId_Uuid:
		return v.Uuid, nil
	default:
		return "", fmt.Errorf("unexpected PointId type: %T", v)
	}
}

// convertPayload converts Qdrant's protobuf payload to a generic map.
func convertPayload(payload map[string]*qdrant.Value) map[string]any {
	if payload == nil {
		return nil
	}
	result := make(map[string]any, len(payload))
	for k, v := range payload {
		result[k] = extractValue(v)
	}
	return result
}

func extractValue(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch val := v.Kind.(type) {
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_NullValue:
		return nil
	case *qdrant.Value_StructValue:
		if val.StructValue == nil {
			return nil
		}
		return convertPayload(val.StructValue.Fields)
	case *qdrant.Value_ListValue:
		if val.ListValue == nil {
			return nil
		}
		items := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			items[i] = extractValue(item)
		}
		return items
	default:
		return nil
	}
}

func derefUint64(v *uint64) uint64 {
	if v != nil {
		return *v
	}
	return 0
}
