package ingest

import (
	"context"
	"errors"
	"sync"

	"github.com/verona-ai/profilesearch/v1/profile"
	"github.com/verona-ai/profilesearch/v1/vectordb"
	"github.com/verona-ai/profilesearch/v1/vibe"
)

type storedPoint struct {
	vectors vectordb.NamedVectors
	payload map[string]any
}

// fakeStore keeps points in memory and counts write calls.
type fakeStore struct {
	vectordb.Store

	mu     sync.Mutex
	points map[string]*storedPoint

	upserts         int
	vectorUpdates   []vectordb.NamedVectors
	vectorDeletes   [][]string
	payloadUpdates  []map[string]any
	payloadReplaces int

	getErr     error
	payloadErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{points: map[string]*storedPoint{}}
}

func (s *fakeStore) Get(_ context.Context, id string) (*vectordb.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	p, ok := s.points[id]
	if !ok {
		return nil, nil
	}
	return &vectordb.Record{ID: id, Payload: profile.Canonical(p.payload)}, nil
}

func (s *fakeStore) UpsertFull(_ context.Context, p vectordb.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts++
	vectors := vectordb.NamedVectors{}
	for k, v := range p.Vectors {
		vectors[k] = v
	}
	s.points[p.ID] = &storedPoint{vectors: vectors, payload: profile.Canonical(p.Payload)}
	return nil
}

func (s *fakeStore) UpdateVectors(_ context.Context, id string, vectors vectordb.NamedVectors) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.points[id]
	if !ok {
		return errors.New("point not found")
	}
	s.vectorUpdates = append(s.vectorUpdates, vectors)
	for k, v := range vectors {
		p.vectors[k] = v
	}
	return nil
}

func (s *fakeStore) SetPayload(_ context.Context, id string, payload map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.payloadErr != nil {
		return s.payloadErr
	}
	p, ok := s.points[id]
	if !ok {
		return errors.New("point not found")
	}
	s.payloadUpdates = append(s.payloadUpdates, payload)
	for k, v := range profile.Canonical(payload) {
		p.payload[k] = v
	}
	return nil
}

func (s *fakeStore) DeleteVectors(_ context.Context, id string, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.points[id]
	if !ok {
		return errors.New("point not found")
	}
	s.vectorDeletes = append(s.vectorDeletes, names)
	for _, name := range names {
		delete(p.vectors, name)
	}
	return nil
}

func (s *fakeStore) ReplacePayload(_ context.Context, id string, payload map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.payloadErr != nil {
		return s.payloadErr
	}
	p, ok := s.points[id]
	if !ok {
		return errors.New("point not found")
	}
	s.payloadReplaces++
	p.payload = profile.Canonical(payload)
	return nil
}

func (s *fakeStore) payload(id string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.points[profile.PointID(id)].payload
}

func (s *fakeStore) vectors(id string) vectordb.NamedVectors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.points[profile.PointID(id)].vectors
}

func (s *fakeStore) resetCounters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts = 0
	s.vectorUpdates = nil
	s.vectorDeletes = nil
	s.payloadUpdates = nil
	s.payloadReplaces = 0
}

// countingGateway returns a one-element vector per call and records the
// vector names it was asked for.
type countingGateway struct {
	mu    sync.Mutex
	calls map[string]int
	texts map[string]string
	fail  map[string]error
}

func newCountingGateway() *countingGateway {
	return &countingGateway{calls: map[string]int{}, texts: map[string]string{}, fail: map[string]error{}}
}

func (g *countingGateway) Embed(_ context.Context, spec vectordb.VectorSpec, text string) (vectordb.Vector, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls[spec.Name]++
	g.texts[spec.Name] = text
	if err := g.fail[spec.Name]; err != nil {
		return vectordb.Vector{}, err
	}
	if spec.Kind == vectordb.MultiVector {
		return vectordb.MultiOf([][]float32{{float32(len(text))}}), nil
	}
	return vectordb.DenseOf([]float32{float32(len(text))}), nil
}

func (g *countingGateway) total() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		n += c
	}
	return n
}

func (g *countingGateway) reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = map[string]int{}
	g.texts = map[string]string{}
	g.fail = map[string]error{}
}

type fakeGenerator struct {
	mu     sync.Mutex
	calls  int
	err    error
	report vibe.Report
}

func (g *fakeGenerator) Generate(_ context.Context, in vibe.Input) (*vibe.Report, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	r := g.report
	return &r, nil
}
