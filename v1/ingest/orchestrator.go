package ingest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/verona-ai/profilesearch/v1/embedding"
	"github.com/verona-ai/profilesearch/v1/logger"
	"github.com/verona-ai/profilesearch/v1/observability"
	"github.com/verona-ai/profilesearch/v1/profile"
	"github.com/verona-ai/profilesearch/v1/tracer"
	"github.com/verona-ai/profilesearch/v1/vectordb"
	"github.com/verona-ai/profilesearch/v1/vibe"
)

// Orchestrator ingests raw profiles into the store.
type Orchestrator struct {
	store      vectordb.Store
	gateway    embedding.Gateway
	generator  vibe.Generator
	normalizer *profile.Normalizer
	schema     vectordb.Schema
	cfg        Config
	logger     logger.Logger

	tracer   *tracer.Tracer
	observer observability.Observer
}

// NewOrchestrator wires the collaborators. generator may be nil, in which
// case no vibe reports are produced.
func NewOrchestrator(
	store vectordb.Store,
	gateway embedding.Gateway,
	generator vibe.Generator,
	normalizer *profile.Normalizer,
	schema vectordb.Schema,
	cfg Config,
	log logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		store:      store,
		gateway:    gateway,
		generator:  generator,
		normalizer: normalizer,
		schema:     schema,
		cfg:        cfg,
		logger:     log,
	}
}

func (o *Orchestrator) WithTracer(t *tracer.Tracer) *Orchestrator {
	o.tracer = t
	return o
}

func (o *Orchestrator) WithObserver(obs observability.Observer) *Orchestrator {
	o.observer = obs
	return o
}

// Ingest normalizes raw and applies the minimal writes for it. Malformed
// input fails with profile.ErrInvalidProfile before the store is touched.
func (o *Orchestrator) Ingest(ctx context.Context, raw *profile.RawProfile) (*Result, error) {
	start := time.Now()
	ctx, span := o.tracer.StartSpan(ctx, "ingest.Ingest")
	defer span.End()

	cur, err := o.normalizer.Normalize(raw)
	if err != nil {
		o.tracer.RecordErrorOnSpan(span, err)
		o.observe("invalid", "rejected", start, err)
		return nil, err
	}

	stored, err := o.load(ctx, cur.PointID())
	if err != nil {
		o.tracer.RecordErrorOnSpan(span, err)
		o.observe("unknown", "error", start, err)
		return nil, err
	}

	state := classify(stored, cur)
	var res *Result
	switch {
	case state == NoExistingRecord || raw.ForceUpdate:
		res, err = o.fullUpsert(ctx, cur, stored)
	case state == ExistingNotCirculateable:
		res, err = o.eligibilityUpdate(ctx, cur)
	default:
		res, err = o.partialUpdate(ctx, cur, stored)
	}
	if err != nil {
		o.tracer.RecordErrorOnSpan(span, err)
		o.observe(state.String(), "error", start, err)
		return nil, err
	}
	res.State = state.String()

	o.tracer.SetAttributes(span, map[string]interface{}{
		"profile.id":      cur.ID,
		"ingest.state":    state.String(),
		"ingest.outcome":  string(res.Outcome),
		"ingest.vectors":  res.VectorsWritten,
		"ingest.degraded": res.Degraded,
	})
	o.logger.InfoWithContext(ctx, "profile ingested", nil, map[string]interface{}{
		"id":       cur.ID,
		"state":    state.String(),
		"outcome":  string(res.Outcome),
		"vectors":  res.VectorsWritten,
		"fields":   len(res.PayloadFields),
		"degraded": res.Degraded,
	})
	o.observe(state.String(), string(res.Outcome), start, nil)
	return res, nil
}

func (o *Orchestrator) load(ctx context.Context, pointID string) (*profile.Profile, error) {
	rec, err := o.store.Get(ctx, pointID)
	if err != nil {
		return nil, fmt.Errorf("[Ingest] fetch stored profile: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	stored, err := profile.FromPayload(rec.Payload)
	if err != nil {
		return nil, fmt.Errorf("[Ingest] decode stored profile: %w", err)
	}
	return stored, nil
}

// ── Full path ────────────────────────────────────────────────────────────────

// fullUpsert embeds every text field and, for circulateable profiles, a new
// vibe report, then writes the whole point. stored is non-nil on a forced
// update; its report is kept when generation fails.
//
// A text field whose embedding fails is never written with a hash that does
// not match its vector. For a new point the field is stored empty, so the
// next ingest sees a change. For an existing point the stored text, hash and
// vector are kept and the write goes through rewrite instead of UpsertFull.
func (o *Orchestrator) fullUpsert(ctx context.Context, cur *profile.Profile, stored *profile.Profile) (*Result, error) {
	res := &Result{Profile: cur, Outcome: OutcomeFullUpsert, PayloadFields: []string{"*"}}
	vectors := vectordb.NamedVectors{}
	var mu sync.Mutex

	var report *vibe.Report
	var reportVec vectordb.Vector
	in := vibe.InputFromProfile(cur)
	inputHash := profile.ReportInputHash(cur)

	g, gctx := errgroup.WithContext(ctx)
	for _, field := range []struct {
		name string
		text string
	}{
		{profile.VectorEducation, cur.Education},
		{profile.VectorProfession, cur.Profession},
	} {
		if field.text == "" {
			continue
		}
		g.Go(func() error {
			v, err := o.embed(gctx, field.name, field.text)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Degraded = append(res.Degraded, field.name)
				o.logger.WarnWithContext(ctx, "embedding failed, keeping stored field", err, map[string]interface{}{
					"id": cur.ID, "vector": field.name,
				})
				return nil
			}
			vectors[field.name] = v
			return nil
		})
	}

	if o.shouldGenerate(cur) {
		g.Go(func() error {
			r, v, err := o.generateReport(gctx, cur.ID, in)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Degraded = append(res.Degraded, profile.VectorVibeReport)
				return nil
			}
			report, reportVec = r, v
			return nil
		})
	}
	_ = g.Wait()

	inPlace := false
	for _, name := range res.Degraded {
		if name == profile.VectorVibeReport {
			continue
		}
		if stored != nil {
			o.keepStored(cur, stored, name)
			inPlace = true
		} else {
			clearField(cur, name)
		}
	}

	switch {
	case report != nil:
		report.Apply(cur)
		cur.VibeReportHash = inputHash
		vectors[profile.VectorVibeReport] = reportVec
	case stored != nil && stored.VibeReport != "":
		if !o.carryReport(ctx, cur, stored, vectors) {
			inPlace = true
		}
	}

	if inPlace {
		removed, err := o.rewrite(ctx, cur, vectors)
		if err != nil {
			return nil, err
		}
		res.VectorsRemoved = removed
	} else {
		payload, err := cur.Payload()
		if err != nil {
			return nil, err
		}
		if err := o.store.UpsertFull(ctx, vectordb.Point{
			ID:      cur.PointID(),
			Vectors: vectors,
			Payload: payload,
		}); err != nil {
			return nil, fmt.Errorf("[Ingest] upsert: %w", err)
		}
	}

	res.VectorsWritten = sortedNames(vectors)
	sort.Strings(res.Degraded)
	return res, nil
}

// carryReport keeps the stored report on a forced rewrite. The vector is
// re-embedded from the stored text because a full upsert replaces all
// vectors. It returns false when that embedding fails; the caller must then
// leave the stored vector in place.
func (o *Orchestrator) carryReport(ctx context.Context, cur, stored *profile.Profile, vectors vectordb.NamedVectors) bool {
	cur.VibeReport = stored.VibeReport
	cur.VibeReportHash = stored.VibeReportHash
	cur.ProfileHook = stored.ProfileHook
	cur.LifeStyleTags = stored.LifeStyleTags

	v, err := o.embed(ctx, profile.VectorVibeReport, stored.VibeReport)
	if err != nil {
		o.logger.WarnWithContext(ctx, "re-embedding stored vibe report failed, keeping stored vector", err, map[string]interface{}{"id": cur.ID})
		return false
	}
	vectors[profile.VectorVibeReport] = v
	return true
}

// rewrite applies a forced update to an existing point field by field, so
// vectors that were not re-embedded survive. Vectors whose text is now empty
// are dropped and the payload is replaced as a whole.
func (o *Orchestrator) rewrite(ctx context.Context, cur *profile.Profile, vectors vectordb.NamedVectors) ([]string, error) {
	payload, err := cur.Payload()
	if err != nil {
		return nil, err
	}
	id := cur.PointID()

	if len(vectors) > 0 {
		if err := o.store.UpdateVectors(ctx, id, vectors); err != nil {
			return nil, fmt.Errorf("[Ingest] update vectors: %w", err)
		}
	}
	removed := emptyVectors(cur)
	if len(removed) > 0 {
		if err := o.store.DeleteVectors(ctx, id, removed); err != nil {
			return nil, fmt.Errorf("[Ingest] delete vectors: %w", err)
		}
	}
	if err := o.store.ReplacePayload(ctx, id, payload); err != nil {
		return nil, fmt.Errorf("[Ingest] replace payload: %w", err)
	}
	return removed, nil
}

// ── Eligibility path ─────────────────────────────────────────────────────────

func (o *Orchestrator) eligibilityUpdate(ctx context.Context, cur *profile.Profile) (*Result, error) {
	full, err := cur.Payload()
	if err != nil {
		return nil, err
	}
	payload := map[string]any{}
	for _, f := range profile.EligibilityFields {
		if v, ok := full[f]; ok {
			payload[f] = v
		}
	}
	if err := o.store.SetPayload(ctx, cur.PointID(), payload); err != nil {
		return nil, fmt.Errorf("[Ingest] set eligibility payload: %w", err)
	}
	return &Result{
		Profile:        cur,
		Outcome:        OutcomeEligibilityUpdate,
		VectorsWritten: []string{},
		PayloadFields:  sortedKeys(payload),
	}, nil
}

// ── Partial path ─────────────────────────────────────────────────────────────

// partialUpdate re-embeds only changed text fields and writes only changed
// payload fields.
func (o *Orchestrator) partialUpdate(ctx context.Context, cur, stored *profile.Profile) (*Result, error) {
	cs, err := profile.Diff(stored, cur)
	if err != nil {
		return nil, err
	}

	res := &Result{Profile: cur}
	vectors := vectordb.NamedVectors{}
	payload := map[string]any{}
	for k, v := range cs.Payload {
		payload[k] = v
	}
	var mu sync.Mutex

	var removed []string
	var report *vibe.Report
	var reportVec vectordb.Vector
	in := vibe.InputFromProfile(cur)

	g, gctx := errgroup.WithContext(ctx)
	for _, field := range []struct {
		name    string
		changed bool
		text    string
		hash    string
	}{
		{profile.VectorEducation, cs.Education, cur.Education, cur.EducationHash},
		{profile.VectorProfession, cs.Profession, cur.Profession, cur.ProfessionHash},
	} {
		if !field.changed {
			continue
		}
		g.Go(func() error {
			var v vectordb.Vector
			var err error
			if field.text != "" {
				v, err = o.embed(gctx, field.name, field.text)
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Degraded = append(res.Degraded, field.name)
				o.logger.WarnWithContext(ctx, "embedding failed, keeping stored field", err, map[string]interface{}{
					"id": cur.ID, "vector": field.name,
				})
				return nil
			}
			if field.text != "" {
				vectors[field.name] = v
			} else {
				removed = append(removed, field.name)
			}
			payload[field.name] = field.text
			payload[field.name+"_hash"] = field.hash
			return nil
		})
	}

	if o.shouldRegenerate(cs, cur, stored) {
		g.Go(func() error {
			r, v, err := o.generateReport(gctx, cur.ID, in)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Degraded = append(res.Degraded, profile.VectorVibeReport)
				return nil
			}
			report, reportVec = r, v
			return nil
		})
	}
	_ = g.Wait()

	if report != nil {
		report.Apply(cur)
		cur.VibeReportHash = cs.ReportInputHash
		vectors[profile.VectorVibeReport] = reportVec
		payload["vibe_report"] = cur.VibeReport
		payload["vibe_report_hash"] = cur.VibeReportHash
		payload["profile_hook"] = cur.ProfileHook
		payload["life_style_tags"] = cur.LifeStyleTags
	} else {
		cur.VibeReport = stored.VibeReport
		cur.VibeReportHash = stored.VibeReportHash
		cur.ProfileHook = stored.ProfileHook
		cur.LifeStyleTags = stored.LifeStyleTags
	}
	for _, name := range res.Degraded {
		o.keepStored(cur, stored, name)
	}

	if cs.UpdateLastActive(len(payload) > 0 || len(vectors) > 0) {
		full, err := cur.Payload()
		if err != nil {
			return nil, err
		}
		payload["last_active"] = full["last_active"]
	}

	// Vectors go first: if the payload write then fails, the old hashes stay
	// and the next ingest re-embeds.
	if len(vectors) > 0 {
		if err := o.store.UpdateVectors(ctx, cur.PointID(), vectors); err != nil {
			return nil, fmt.Errorf("[Ingest] update vectors: %w", err)
		}
	}
	sort.Strings(removed)
	if len(removed) > 0 {
		if err := o.store.DeleteVectors(ctx, cur.PointID(), removed); err != nil {
			return nil, fmt.Errorf("[Ingest] delete vectors: %w", err)
		}
	}
	if len(payload) > 0 {
		if err := o.store.SetPayload(ctx, cur.PointID(), profile.Canonical(payload)); err != nil {
			return nil, fmt.Errorf("[Ingest] set payload: %w", err)
		}
	}

	res.VectorsWritten = sortedNames(vectors)
	res.VectorsRemoved = removed
	res.PayloadFields = sortedKeys(payload)
	sort.Strings(res.Degraded)
	res.Outcome = OutcomePartialUpdate
	if len(vectors) == 0 && len(payload) == 0 {
		res.Outcome = OutcomeUnchanged
	}
	return res, nil
}

// keepStored restores a derived field whose regeneration failed so the
// returned profile matches what is stored.
func (o *Orchestrator) keepStored(cur, stored *profile.Profile, field string) {
	switch field {
	case profile.VectorEducation:
		cur.Education, cur.EducationHash = stored.Education, stored.EducationHash
	case profile.VectorProfession:
		cur.Profession, cur.ProfessionHash = stored.Profession, stored.ProfessionHash
	}
}

// clearField empties a text field and its hash together.
func clearField(cur *profile.Profile, field string) {
	switch field {
	case profile.VectorEducation:
		cur.Education, cur.EducationHash = "", ""
	case profile.VectorProfession:
		cur.Profession, cur.ProfessionHash = "", ""
	}
}

// emptyVectors names the text-backed vectors whose text is empty on cur.
func emptyVectors(cur *profile.Profile) []string {
	var out []string
	if cur.Education == "" {
		out = append(out, profile.VectorEducation)
	}
	if cur.Profession == "" {
		out = append(out, profile.VectorProfession)
	}
	if cur.VibeReport == "" {
		out = append(out, profile.VectorVibeReport)
	}
	return out
}

// ── Collaborators ────────────────────────────────────────────────────────────

func (o *Orchestrator) shouldGenerate(cur *profile.Profile) bool {
	return o.generator != nil && o.cfg.GenerateVibe && cur.IsCirculateable
}

func (o *Orchestrator) shouldRegenerate(cs profile.ChangeSet, cur, stored *profile.Profile) bool {
	if !o.shouldGenerate(cur) || !cs.ContentChangedForReport {
		return false
	}
	if stored.VibeReport == "" {
		return true
	}
	return o.cfg.VibePolicy == VibeOnContentChange
}

func (o *Orchestrator) embed(ctx context.Context, name, text string) (vectordb.Vector, error) {
	spec, ok := o.schema.Vector(name)
	if !ok {
		return vectordb.Vector{}, fmt.Errorf("%w: %s", vectordb.ErrUnknownVector, name)
	}
	return o.gateway.Embed(ctx, spec, text)
}

// generateReport produces a report and embeds its text. The embedding is
// sequenced after generation because it depends on the report text.
func (o *Orchestrator) generateReport(ctx context.Context, id string, in vibe.Input) (*vibe.Report, vectordb.Vector, error) {
	start := time.Now()
	report, err := o.generator.Generate(ctx, in)
	if err == nil && (report == nil || report.VibeReport == "") {
		err = vibe.ErrEmptyReport
	}
	o.observeVibe(start, err)
	if err != nil {
		o.logger.WarnWithContext(ctx, "vibe report generation failed, keeping stored report", err, map[string]interface{}{"id": id})
		return nil, vectordb.Vector{}, err
	}

	v, err := o.embed(ctx, profile.VectorVibeReport, report.VibeReport)
	if err != nil {
		o.logger.WarnWithContext(ctx, "vibe report embedding failed, keeping stored report", err, map[string]interface{}{"id": id})
		return nil, vectordb.Vector{}, err
	}
	return report, v, nil
}

func (o *Orchestrator) observe(state, outcome string, start time.Time, err error) {
	if o.observer == nil {
		return
	}
	o.observer.ObserveOperation(observability.OperationContext{
		Component: "ingest",
		Operation: state,
		Resource:  o.schema.Collection,
		Duration:  time.Since(start),
		Error:     err,
		Size:      1,
		Metadata:  map[string]interface{}{"outcome": outcome},
	})
}

func (o *Orchestrator) observeVibe(start time.Time, err error) {
	if o.observer == nil {
		return
	}
	o.observer.ObserveOperation(observability.OperationContext{
		Component: "vibe",
		Operation: "generate",
		Duration:  time.Since(start),
		Error:     err,
	})
}

// IsValidation reports whether err is an input validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, profile.ErrInvalidProfile)
}

func sortedNames(v vectordb.NamedVectors) []string {
	names := v.Names()
	sort.Strings(names)
	return names
}

func sortedKeys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
