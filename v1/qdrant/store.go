package qdrant

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/verona-ai/profilesearch/v1/observability"
	"github.com/verona-ai/profilesearch/v1/vectordb"
)

// ProfileStore implements vectordb.Store for one collection described by a
// vectordb.Schema. Point ids are UUID strings.
type ProfileStore struct {
	api      *qdrant.Client
	schema   vectordb.Schema
	observer observability.Observer
}

var _ vectordb.Store = (*ProfileStore)(nil)

// NewProfileStore binds the store to schema.Collection.
func NewProfileStore(client *QdrantClient, schema vectordb.Schema) *ProfileStore {
	return &ProfileStore{api: client.Client(), schema: schema}
}

// WithObserver sets the observer notified after each write.
func (s *ProfileStore) WithObserver(observer observability.Observer) *ProfileStore {
	s.observer = observer
	return s
}

// Schema returns the collection declaration the store was built with.
func (s *ProfileStore) Schema() vectordb.Schema {
	return s.schema
}

// EnsureSchema ──────────────────────────────────────────────────────────────
//
// EnsureSchema creates the collection with its named vectors, then declares
// every payload index. Existing collections are left as they are unless
// recreate is set.
func (s *ProfileStore) EnsureSchema(ctx context.Context, recreate bool) (bool, error) {
	name := s.schema.Collection
	if name == "" {
		return false, fmt.Errorf("collection name cannot be empty")
	}

	exists, err := s.api.CollectionExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("[Qdrant] failed to check collection '%s': %w", name, err)
	}

	if exists && !recreate {
		log.Printf("[Qdrant] Collection '%s' already exists", name)
		return false, nil
	}
	if exists {
		log.Printf("[Qdrant] Recreating collection '%s'", name)
		if err := s.api.DeleteCollection(ctx, name); err != nil {
			return false, fmt.Errorf("[Qdrant] failed to delete collection '%s': %w", name, err)
		}
	}

	vectors := make(map[string]*qdrant.VectorParams, len(s.schema.Vectors))
	for _, spec := range s.schema.Vectors {
		vectors[spec.Name] = vectorParams(spec)
	}

	if err := s.api.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig:  qdrant.NewVectorsConfigMap(vectors),
	}); err != nil {
		return false, fmt.Errorf("[Qdrant] failed to create collection '%s': %w", name, err)
	}

	wait := true
	for _, idx := range s.schema.Indexes {
		if _, err := s.api.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: name,
			FieldName:      idx.Field,
			FieldType:      fieldType(idx.Kind).Enum(),
			Wait:           &wait,
		}); err != nil {
			return false, fmt.Errorf("[Qdrant] failed to index '%s.%s': %w", name, idx.Field, err)
		}
	}

	log.Printf("[Qdrant] Created collection '%s' (%d vectors, %d indexes)", name, len(s.schema.Vectors), len(s.schema.Indexes))
	return true, nil
}

// UpsertFull writes a point with every vector and its full payload.
func (s *ProfileStore) UpsertFull(ctx context.Context, p vectordb.Point) error {
	if err := s.schema.Validate(p.Vectors); err != nil {
		return err
	}
	payload, err := qdrant.TryValueMap(p.Payload)
	if err != nil {
		return fmt.Errorf("[Qdrant] invalid payload for %s: %w", p.ID, err)
	}

	start := time.Now()
	wait := true
	_, err = s.api.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.schema.Collection,
		Points: []*qdrant.PointStruct{{
			Id:      qdrant.NewID(p.ID),
			Vectors: convertNamedVectors(p.Vectors),
			Payload: payload,
		}},
		Wait: &wait,
	})
	s.observe("upsert", start, err, int64(len(p.Vectors)))
	if err != nil {
		return fmt.Errorf("[Qdrant] upsert failed: %w", err)
	}
	return nil
}

// UpdateVectors replaces only the given named vectors.
func (s *ProfileStore) UpdateVectors(ctx context.Context, id string, vectors vectordb.NamedVectors) error {
	if len(vectors) == 0 {
		return nil
	}
	if err := s.schema.Validate(vectors); err != nil {
		return err
	}

	start := time.Now()
	wait := true
	_, err := s.api.UpdateVectors(ctx, &qdrant.UpdatePointVectors{
		CollectionName: s.schema.Collection,
		Points: []*qdrant.PointVectors{{
			Id:      qdrant.NewID(id),
			Vectors: convertNamedVectors(vectors),
		}},
		Wait: &wait,
	})
	s.observe("update_vectors", start, err, int64(len(vectors)))
	if err != nil {
		return fmt.Errorf("[Qdrant] update vectors failed: %w", err)
	}
	return nil
}

// DeleteVectors drops the named vectors of a point.
func (s *ProfileStore) DeleteVectors(ctx context.Context, id string, names []string) error {
	if len(names) == 0 {
		return nil
	}

	start := time.Now()
	wait := true
	_, err := s.api.DeleteVectors(ctx, &qdrant.DeletePointVectors{
		CollectionName: s.schema.Collection,
		PointsSelector: qdrant.NewPointsSelector(qdrant.NewID(id)),
		Vectors:        &qdrant.VectorsSelector{Names: names},
		Wait:           &wait,
	})
	s.observe("delete_vectors", start, err, int64(len(names)))
	if err != nil {
		return fmt.Errorf("[Qdrant] delete vectors failed: %w", err)
	}
	return nil
}

// SetPayload merges fields into the point's payload.
func (s *ProfileStore) SetPayload(ctx context.Context, id string, payload map[string]any) error {
	if len(payload) == 0 {
		return nil
	}
	values, err := qdrant.TryValueMap(payload)
	if err != nil {
		return fmt.Errorf("[Qdrant] invalid payload for %s: %w", id, err)
	}

	start := time.Now()
	wait := true
	_, err = s.api.SetPayload(ctx, &qdrant.SetPayloadPoints{
		CollectionName: s.schema.Collection,
		Payload:        values,
		PointsSelector: qdrant.NewPointsSelector(qdrant.NewID(id)),
		Wait:           &wait,
	})
	s.observe("set_payload", start, err, int64(len(payload)))
	if err != nil {
		return fmt.Errorf("[Qdrant] set payload failed: %w", err)
	}
	return nil
}

// ReplacePayload overwrites the point's payload with exactly payload.
func (s *ProfileStore) ReplacePayload(ctx context.Context, id string, payload map[string]any) error {
	values, err := qdrant.TryValueMap(payload)
	if err != nil {
		return fmt.Errorf("[Qdrant] invalid payload for %s: %w", id, err)
	}

	start := time.Now()
	wait := true
	_, err = s.api.OverwritePayload(ctx, &qdrant.SetPayloadPoints{
		CollectionName: s.schema.Collection,
		Payload:        values,
		PointsSelector: qdrant.NewPointsSelector(qdrant.NewID(id)),
		Wait:           &wait,
	})
	s.observe("replace_payload", start, err, int64(len(payload)))
	if err != nil {
		return fmt.Errorf("[Qdrant] overwrite payload failed: %w", err)
	}
	return nil
}

// Get returns the stored payload, or nil when the point does not exist.
func (s *ProfileStore) Get(ctx context.Context, id string) (*vectordb.Record, error) {
	points, err := s.api.Get(ctx, &qdrant.GetPoints{
		CollectionName: s.schema.Collection,
		Ids:            []*qdrant.PointId{qdrant.NewID(id)},
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] get failed: %w", err)
	}
	if len(points) == 0 {
		return nil, nil
	}

	pid, err := extractPointID(points[0].Id)
	if err != nil {
		return nil, err
	}
	return &vectordb.Record{ID: pid, Payload: convertPayload(points[0].Payload)}, nil
}

// Count returns the exact number of points matching filter.
func (s *ProfileStore) Count(ctx context.Context, filter *vectordb.FilterSet) (int, error) {
	exact := true
	n, err := s.api.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.schema.Collection,
		Filter:         convertFilterSet(filter),
		Exact:          &exact,
	})
	if err != nil {
		return 0, fmt.Errorf("[Qdrant] count failed: %w", err)
	}
	return int(n), nil
}

// Query ──────────────────────────────────────────────────────────────
//
// Query runs every SubQuery as a prefetch against its named vector under the
// plan filter, then fuses the rankings. Each prefetch fetches Limit+Offset
// candidates at least, so the fused page is complete.
func (s *ProfileStore) Query(ctx context.Context, plan vectordb.QueryPlan) ([]vectordb.SearchResult, error) {
	ctx, span := otel.Tracer("profilesearch/qdrant").Start(ctx, "qdrant.Query")
	defer span.End()
	span.SetAttributes(
		attribute.String("collection", s.schema.Collection),
		attribute.Int("prefetch", len(plan.Prefetch)),
		attribute.Int("limit", plan.Limit),
		attribute.Int("offset", plan.Offset),
	)

	req, err := s.buildQuery(plan)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	resp, err := s.api.Query(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("[Qdrant] query failed: %w", err)
	}

	results, err := parseScoredPoints(resp)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("results", len(results)))
	return results, nil
}

func (s *ProfileStore) buildQuery(plan vectordb.QueryPlan) (*qdrant.QueryPoints, error) {
	if len(plan.Prefetch) == 0 {
		return nil, errors.New("[Qdrant] query plan has no sub-queries")
	}
	if plan.Limit <= 0 {
		return nil, errors.New("[Qdrant] query limit must be greater than 0")
	}

	filter := convertFilterSet(plan.Filter)
	window := plan.Limit + plan.Offset

	prefetch := make([]*qdrant.PrefetchQuery, 0, len(plan.Prefetch))
	for _, sq := range plan.Prefetch {
		spec, ok := s.schema.Vector(sq.Using)
		if !ok {
			return nil, fmt.Errorf("%w: %s", vectordb.ErrUnknownVector, sq.Using)
		}
		if err := sq.Vector.Check(spec); err != nil {
			return nil, err
		}

		limit := sq.Limit
		if limit < window {
			limit = window
		}
		prefetch = append(prefetch, &qdrant.PrefetchQuery{
			Query:  convertQuery(sq.Vector),
			Using:  qdrant.PtrOf(sq.Using),
			Filter: filter,
			Limit:  qdrant.PtrOf(uint64(limit)),
		})
	}

	req := &qdrant.QueryPoints{
		CollectionName: s.schema.Collection,
		Prefetch:       prefetch,
		Query:          qdrant.NewQueryFusion(convertFusion(plan.Fusion)),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(plan.Limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if plan.Offset > 0 {
		req.Offset = qdrant.PtrOf(uint64(plan.Offset))
	}
	if plan.ScoreThreshold > 0 {
		req.ScoreThreshold = qdrant.PtrOf(plan.ScoreThreshold)
	}
	return req, nil
}

// Scroll returns filter-only matches in id order, each scored 1.0.
func (s *ProfileStore) Scroll(ctx context.Context, req vectordb.ScrollRequest) ([]vectordb.SearchResult, error) {
	if req.Limit <= 0 {
		return nil, errors.New("[Qdrant] scroll limit must be greater than 0")
	}

	points, err := s.api.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: s.schema.Collection,
		Filter:         convertFilterSet(req.Filter),
		Limit:          qdrant.PtrOf(uint32(req.Limit + req.Offset)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] scroll failed: %w", err)
	}

	if req.Offset >= len(points) {
		return []vectordb.SearchResult{}, nil
	}
	return parseRetrievedPoints(points[req.Offset:], 1.0)
}

// CollectionInfo reports collection status and sizes.
func (s *ProfileStore) CollectionInfo(ctx context.Context) (*vectordb.CollectionInfo, error) {
	info, err := s.api.GetCollectionInfo(ctx, s.schema.Collection)
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to get collection '%s': %w", s.schema.Collection, err)
	}

	return &vectordb.CollectionInfo{
		Name:           s.schema.Collection,
		Status:         info.Status.String(),
		PointCount:     derefUint64(info.PointsCount),
		IndexedVectors: derefUint64(info.IndexedVectorsCount),
	}, nil
}

func (s *ProfileStore) observe(op string, start time.Time, err error, size int64) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveOperation(observability.OperationContext{
		Component: "qdrant",
		Operation: op,
		Resource:  s.schema.Collection,
		Duration:  time.Since(start),
		Error:     err,
		Size:      size,
	})
}
