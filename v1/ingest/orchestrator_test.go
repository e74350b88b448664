package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/verona-ai/profilesearch/v1/embedding"
	"github.com/verona-ai/profilesearch/v1/logger"
	"github.com/verona-ai/profilesearch/v1/observability"
	"github.com/verona-ai/profilesearch/v1/profile"
	"github.com/verona-ai/profilesearch/v1/vectordb"
	"github.com/verona-ai/profilesearch/v1/vibe"
)

var (
	fixedNow    = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	lastUpdated = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	testSchema  = profile.Schema("", vectordb.MultiVector)
)

func boolPtr(b bool) *bool { return &b }

func rawProfile() *profile.RawProfile {
	onboarded := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	updated := lastUpdated
	return &profile.RawProfile{
		ID:                "P1",
		FirstName:         "Asha",
		LastName:          "Rao",
		IsQL:              true,
		IsActive:          true,
		IsVerified:        true,
		OnboardedOn:       &onboarded,
		TestLead:          boolPtr(false),
		Gender:            "female",
		Height:            64,
		DOB:               "1997-08-20",
		CurrentLocation:   "IN_MB",
		Religion:          "HI",
		AppVersionDetails: &profile.AppVersionDetails{LastUpdatedOn: &updated},
		ProfessionalJourneyDetails: []profile.ProfessionalDetail{
			{ID: "a", Designation: "Analyst", Company: "X"},
			{ID: "b", Designation: "Director", Company: "Google"},
		},
		EducationDetails: []profile.EducationDetail{
			{Degree: "B.Tech", College: "IIT Bombay"},
		},
		SimilarInterestsV2: []string{"hiking", "jazz"},
		Blurb:              "Weekend trekker.",
		PhotoCollection: []profile.PhotoDoc{
			{ShowCaseID: "s1", Key: "photos/1.jpg"},
			{ShowCaseID: "s2", Key: "photos/2.jpg"},
		},
		ShowCaseProfileIDs: []string{"s1", "s2"},
	}
}

type harness struct {
	store     *fakeStore
	gateway   *countingGateway
	generator *fakeGenerator
	orch      *Orchestrator
}

func newHarness(cfg Config) *harness {
	h := &harness{
		store:   newFakeStore(),
		gateway: newCountingGateway(),
		generator: &fakeGenerator{report: vibe.Report{
			VibeReport: "Outdoorsy, curious, grounded.",
			Summary:    "Trekker who reads balance sheets.",
			ImageTags: []vibe.ImageTag{
				{PhotoID: "s1", Tags: []string{"hiking", "outdoors"}},
				{PhotoID: "s2", Tags: []string{"outdoors", "music"}},
			},
		}},
	}
	normalizer := profile.NewNormalizer(profile.NewCDNConfig(profile.Production, "")).
		WithClock(func() time.Time { return fixedNow })
	h.orch = NewOrchestrator(h.store, h.gateway, h.generator, normalizer, testSchema, cfg, logger.NewNop())
	return h
}

func whenMissing() Config {
	cfg := DefaultConfig()
	cfg.VibePolicy = VibeWhenMissing
	return cfg
}

// seeded returns a harness with P1 already ingested and counters cleared.
func seeded(t *testing.T, cfg Config) *harness {
	t.Helper()
	h := newHarness(cfg)
	_, err := h.orch.Ingest(context.Background(), rawProfile())
	require.NoError(t, err)
	h.store.resetCounters()
	h.gateway.reset()
	h.generator.calls = 0
	return h
}

func TestIngestNewProfile(t *testing.T) {
	h := newHarness(DefaultConfig())

	res, err := h.orch.Ingest(context.Background(), rawProfile())
	require.NoError(t, err)

	assert.Equal(t, NoExistingRecord.String(), res.State)
	assert.Equal(t, OutcomeFullUpsert, res.Outcome)
	assert.Equal(t, []string{"education", "profession", "vibe_report"}, res.VectorsWritten)
	assert.Equal(t, 1, h.store.upserts)
	assert.Equal(t, 1, h.generator.calls)
	assert.Equal(t, 3, h.gateway.total())
	assert.Equal(t, "Outdoorsy, curious, grounded.", h.gateway.texts[profile.VectorVibeReport])

	payload := h.store.payload("P1")
	assert.Equal(t, "Director at Google", payload["profession"])
	assert.Equal(t, "Outdoorsy, curious, grounded.", payload["vibe_report"])
	assert.Equal(t, "Trekker who reads balance sheets.", payload["profile_hook"])
	assert.Equal(t, []any{"hiking", "outdoors", "music"}, payload["life_style_tags"])
	assert.Equal(t, profile.ReportInputHash(res.Profile), payload["vibe_report_hash"])

	vectors := h.store.vectors("P1")
	assert.Equal(t, vectordb.MultiVector, vectors[profile.VectorVibeReport].Kind())
}

func TestIngestUnchangedIsNoop(t *testing.T) {
	h := seeded(t, DefaultConfig())

	res, err := h.orch.Ingest(context.Background(), rawProfile())
	require.NoError(t, err)

	assert.Equal(t, ExistingCirculateable.String(), res.State)
	assert.Equal(t, OutcomeUnchanged, res.Outcome)
	assert.Zero(t, h.gateway.total())
	assert.Zero(t, h.generator.calls)
	assert.Zero(t, h.store.upserts)
	assert.Empty(t, h.store.vectorUpdates)
	assert.Empty(t, h.store.payloadUpdates)
	assert.Equal(t, "Outdoorsy, curious, grounded.", res.Profile.VibeReport)
}

func TestIngestEducationOnlyChangeWhenMissingPolicy(t *testing.T) {
	h := seeded(t, whenMissing())
	before := h.store.payload("P1")

	raw := rawProfile()
	raw.EducationDetails = append(raw.EducationDetails, profile.EducationDetail{Degree: "MBA", College: "IIM Ahmedabad"})
	res, err := h.orch.Ingest(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, OutcomePartialUpdate, res.Outcome)
	assert.Equal(t, map[string]int{profile.VectorEducation: 1}, h.gateway.calls)
	assert.Zero(t, h.generator.calls)
	require.Len(t, h.store.vectorUpdates, 1)
	assert.Equal(t, []string{profile.VectorEducation}, h.store.vectorUpdates[0].Names())

	after := h.store.payload("P1")
	assert.Equal(t, "B.Tech from IIT Bombay; MBA from IIM Ahmedabad", after["education"])
	assert.NotEqual(t, before["education_hash"], after["education_hash"])
	assert.Equal(t, before["profession_hash"], after["profession_hash"])
	assert.Equal(t, before["vibe_report_hash"], after["vibe_report_hash"])
}

func TestIngestEducationChangeRegeneratesReport(t *testing.T) {
	h := seeded(t, DefaultConfig())
	before := h.store.payload("P1")

	raw := rawProfile()
	raw.EducationDetails[0].College = "IIT Delhi"
	_, err := h.orch.Ingest(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, 1, h.generator.calls)
	assert.Equal(t, 1, h.gateway.calls[profile.VectorEducation])
	assert.Equal(t, 1, h.gateway.calls[profile.VectorVibeReport])
	assert.NotEqual(t, before["vibe_report_hash"], h.store.payload("P1")["vibe_report_hash"])
}

func TestIngestReportInputChangeRegeneratesReportByDefault(t *testing.T) {
	h := seeded(t, DefaultConfig())
	before := h.store.payload("P1")

	raw := rawProfile()
	raw.Blurb = "Marathoner and amateur chef."
	res, err := h.orch.Ingest(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, 1, h.generator.calls)
	assert.Equal(t, []string{profile.VectorVibeReport}, res.VectorsWritten)
	after := h.store.payload("P1")
	assert.NotEqual(t, before["vibe_report_hash"], after["vibe_report_hash"])
	assert.Equal(t, profile.ReportInputHash(res.Profile), after["vibe_report_hash"])

	h.generator.calls = 0
	_, err = h.orch.Ingest(context.Background(), raw)
	require.NoError(t, err)
	assert.Zero(t, h.generator.calls, "hash is current after regeneration")
}

func TestIngestReportInputChangeWhenMissingPolicy(t *testing.T) {
	h := seeded(t, whenMissing())

	raw := rawProfile()
	raw.Blurb = "Marathoner and amateur chef."
	res, err := h.orch.Ingest(context.Background(), raw)
	require.NoError(t, err)

	assert.Zero(t, h.generator.calls)
	assert.Empty(t, res.VectorsWritten)
}

func TestIngestEmptiedEducationDropsVector(t *testing.T) {
	h := seeded(t, whenMissing())
	require.Contains(t, h.store.vectors("P1"), profile.VectorEducation)

	raw := rawProfile()
	raw.EducationDetails = nil
	res, err := h.orch.Ingest(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, OutcomePartialUpdate, res.Outcome)
	assert.Equal(t, []string{profile.VectorEducation}, res.VectorsRemoved)
	assert.Equal(t, [][]string{{profile.VectorEducation}}, h.store.vectorDeletes)
	assert.NotContains(t, h.store.vectors("P1"), profile.VectorEducation)
	assert.Contains(t, h.store.vectors("P1"), profile.VectorProfession)
	assert.Empty(t, h.store.payload("P1")["education"])
	assert.Zero(t, h.gateway.calls[profile.VectorEducation])
}

func TestIngestProfessionScenario(t *testing.T) {
	h := newHarness(whenMissing())

	res, err := h.orch.Ingest(context.Background(), rawProfile())
	require.NoError(t, err)
	assert.Equal(t, "Director at Google", res.Profile.Profession)
	firstHash := res.Profile.ProfessionHash

	h.gateway.reset()
	_, err = h.orch.Ingest(context.Background(), rawProfile())
	require.NoError(t, err)
	assert.Zero(t, h.gateway.calls[profile.VectorProfession])

	raw := rawProfile()
	raw.ProfessionalJourneyDetails[1].Company = "Meta"
	res, err = h.orch.Ingest(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "Director at Meta", res.Profile.Profession)
	assert.NotEqual(t, firstHash, res.Profile.ProfessionHash)
	assert.Equal(t, 1, h.gateway.total())
	assert.Equal(t, "Director at Meta", h.gateway.texts[profile.VectorProfession])
	assert.Equal(t, "Director at Meta", h.store.payload("P1")["profession"])
}

func TestIngestBecomesNotCirculateable(t *testing.T) {
	h := seeded(t, DefaultConfig())

	raw := rawProfile()
	raw.PauseDetails = &profile.PauseDetails{IsPaused: true}
	raw.Blurb = "changed while paused"
	res, err := h.orch.Ingest(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, ExistingNotCirculateable.String(), res.State)
	assert.Equal(t, OutcomeEligibilityUpdate, res.Outcome)
	assert.Zero(t, h.gateway.total())
	assert.Zero(t, h.generator.calls)
	assert.Empty(t, h.store.vectorUpdates)
	assert.Zero(t, h.store.upserts)
	require.Len(t, h.store.payloadUpdates, 1)
	assert.ElementsMatch(t, []string{"is_circulateable", "is_paused", "last_active"}, res.PayloadFields)

	payload := h.store.payload("P1")
	assert.Equal(t, false, payload["is_circulateable"])
	assert.Equal(t, true, payload["is_paused"])
	assert.Equal(t, "Weekend trekker.", payload["blurb"])
}

func TestIngestNewNotCirculateableSkipsReport(t *testing.T) {
	h := newHarness(DefaultConfig())
	raw := rawProfile()
	raw.IsVerified = false

	res, err := h.orch.Ingest(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, OutcomeFullUpsert, res.Outcome)
	assert.Zero(t, h.generator.calls)
	assert.Equal(t, []string{"education", "profession"}, res.VectorsWritten)
	assert.Equal(t, false, h.store.payload("P1")["is_circulateable"])
}

func TestIngestLastActive(t *testing.T) {
	t.Run("90 minutes alone is suppressed", func(t *testing.T) {
		h := seeded(t, DefaultConfig())
		raw := rawProfile()
		later := lastUpdated.Add(90 * time.Minute)
		raw.AppVersionDetails.LastUpdatedOn = &later

		res, err := h.orch.Ingest(context.Background(), raw)
		require.NoError(t, err)
		assert.Equal(t, OutcomeUnchanged, res.Outcome)
		assert.Empty(t, h.store.payloadUpdates)
	})

	t.Run("3 hours alone is written", func(t *testing.T) {
		h := seeded(t, DefaultConfig())
		raw := rawProfile()
		later := lastUpdated.Add(3 * time.Hour)
		raw.AppVersionDetails.LastUpdatedOn = &later

		res, err := h.orch.Ingest(context.Background(), raw)
		require.NoError(t, err)
		assert.Equal(t, OutcomePartialUpdate, res.Outcome)
		assert.Equal(t, []string{"last_active"}, res.PayloadFields)
		assert.Empty(t, h.store.vectorUpdates)
	})

	t.Run("small drift rides along with other changes", func(t *testing.T) {
		h := seeded(t, DefaultConfig())
		raw := rawProfile()
		later := lastUpdated.Add(10 * time.Minute)
		raw.AppVersionDetails.LastUpdatedOn = &later
		raw.Height = 65

		res, err := h.orch.Ingest(context.Background(), raw)
		require.NoError(t, err)
		assert.Equal(t, []string{"height", "last_active"}, res.PayloadFields)
		assert.Zero(t, h.gateway.total())
	})
}

func TestIngestEmbeddingFailureKeepsOtherFields(t *testing.T) {
	h := seeded(t, whenMissing())
	before := h.store.payload("P1")
	h.gateway.fail[profile.VectorEducation] = errors.New("rate limited")

	raw := rawProfile()
	raw.EducationDetails[0].College = "IIT Delhi"
	raw.ProfessionalJourneyDetails[1].Company = "Meta"
	raw.Religion = "CH"
	res, err := h.orch.Ingest(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, []string{profile.VectorEducation}, res.Degraded)
	assert.Equal(t, []string{profile.VectorProfession}, res.VectorsWritten)

	after := h.store.payload("P1")
	assert.Equal(t, before["education_hash"], after["education_hash"])
	assert.Equal(t, before["education"], after["education"])
	assert.Equal(t, "Director at Meta", after["profession"])
	assert.Equal(t, "CH", after["religion"])

	// the next ingest retries the education field only
	h.gateway.reset()
	_, err = h.orch.Ingest(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{profile.VectorEducation: 1}, h.gateway.calls)
}

func TestIngestVibeFailureKeepsStoredReport(t *testing.T) {
	h := seeded(t, DefaultConfig())
	before := h.store.payload("P1")
	h.generator.err = errors.New("vision model unavailable")

	raw := rawProfile()
	raw.Blurb = "Marathoner and amateur chef."
	res, err := h.orch.Ingest(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, 1, h.generator.calls)
	assert.Equal(t, []string{profile.VectorVibeReport}, res.Degraded)
	assert.Empty(t, h.store.vectorUpdates)

	after := h.store.payload("P1")
	assert.Equal(t, "Marathoner and amateur chef.", after["blurb"])
	assert.Equal(t, before["vibe_report"], after["vibe_report"])
	assert.Equal(t, before["vibe_report_hash"], after["vibe_report_hash"])
	assert.Equal(t, before["vibe_report"], res.Profile.VibeReport)
}

func TestIngestMissingReportIsGenerated(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.generator.err = errors.New("timeout")
	_, err := h.orch.Ingest(context.Background(), rawProfile())
	require.NoError(t, err)
	assert.Empty(t, h.store.payload("P1")["vibe_report_hash"])

	h.generator.err = nil
	h.gateway.reset()
	res, err := h.orch.Ingest(context.Background(), rawProfile())
	require.NoError(t, err)

	assert.Equal(t, []string{profile.VectorVibeReport}, res.VectorsWritten)
	assert.Equal(t, map[string]int{profile.VectorVibeReport: 1}, h.gateway.calls)
	assert.Equal(t, profile.ReportInputHash(res.Profile), h.store.payload("P1")["vibe_report_hash"])
}

func TestIngestForceUpdate(t *testing.T) {
	h := seeded(t, DefaultConfig())

	raw := rawProfile()
	raw.ForceUpdate = true
	res, err := h.orch.Ingest(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, OutcomeFullUpsert, res.Outcome)
	assert.Equal(t, ExistingCirculateable.String(), res.State)
	assert.Equal(t, 1, h.store.upserts)
	assert.Equal(t, 1, h.generator.calls)
	assert.Equal(t, 3, h.gateway.total())
}

func TestIngestForceUpdateKeepsReportOnFailure(t *testing.T) {
	h := seeded(t, DefaultConfig())
	h.generator.err = errors.New("down")

	raw := rawProfile()
	raw.ForceUpdate = true
	res, err := h.orch.Ingest(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "Outdoorsy, curious, grounded.", res.Profile.VibeReport)
	assert.Contains(t, h.store.vectors("P1"), profile.VectorVibeReport)
	assert.Equal(t, "Outdoorsy, curious, grounded.", h.store.payload("P1")["vibe_report"])
}

func TestIngestForceUpdateEmbeddingFailureKeepsStoredField(t *testing.T) {
	h := seeded(t, DefaultConfig())
	before := h.store.payload("P1")
	beforeVec := h.store.vectors("P1")[profile.VectorEducation]
	h.gateway.fail[profile.VectorEducation] = errors.New("rate limited")

	raw := rawProfile()
	raw.ForceUpdate = true
	raw.EducationDetails[0].College = "IIT Delhi"
	raw.ProfessionalJourneyDetails[1].Company = "Meta"
	res, err := h.orch.Ingest(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, OutcomeFullUpsert, res.Outcome)
	assert.Equal(t, []string{profile.VectorEducation}, res.Degraded)
	assert.Zero(t, h.store.upserts, "an upsert would drop the stored education vector")
	assert.Equal(t, 1, h.store.payloadReplaces)

	after := h.store.payload("P1")
	assert.Equal(t, "B.Tech from IIT Bombay", after["education"])
	assert.Equal(t, before["education_hash"], after["education_hash"])
	assert.Equal(t, "Director at Meta", after["profession"])
	assert.Equal(t, beforeVec, h.store.vectors("P1")[profile.VectorEducation])
	assert.Equal(t, "B.Tech from IIT Bombay", res.Profile.Education)

	// the stale hash makes the next ingest retry education only
	h.gateway.reset()
	raw.ForceUpdate = false
	_, err = h.orch.Ingest(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{profile.VectorEducation: 1}, h.gateway.calls)
	assert.Equal(t, "B.Tech from IIT Delhi", h.store.payload("P1")["education"])
}

func TestIngestNewProfileEmbeddingFailureStoresEmptyField(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.gateway.fail[profile.VectorEducation] = errors.New("rate limited")

	res, err := h.orch.Ingest(context.Background(), rawProfile())
	require.NoError(t, err)

	assert.Equal(t, []string{profile.VectorEducation}, res.Degraded)
	assert.Equal(t, 1, h.store.upserts)
	payload := h.store.payload("P1")
	assert.Empty(t, payload["education"])
	assert.Empty(t, payload["education_hash"])
	assert.NotContains(t, h.store.vectors("P1"), profile.VectorEducation)

	h.gateway.reset()
	h.generator.calls = 0
	_, err = h.orch.Ingest(context.Background(), rawProfile())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{profile.VectorEducation: 1}, h.gateway.calls)
	assert.Zero(t, h.generator.calls)
	assert.Equal(t, "B.Tech from IIT Bombay", h.store.payload("P1")["education"])
	assert.Contains(t, h.store.vectors("P1"), profile.VectorEducation)
}

func TestIngestForceUpdateKeepsReportVectorWhenReembedFails(t *testing.T) {
	h := seeded(t, DefaultConfig())
	before := h.store.payload("P1")
	beforeVec := h.store.vectors("P1")[profile.VectorVibeReport]
	h.generator.err = errors.New("down")
	h.gateway.fail[profile.VectorVibeReport] = errors.New("rate limited")

	raw := rawProfile()
	raw.ForceUpdate = true
	_, err := h.orch.Ingest(context.Background(), raw)
	require.NoError(t, err)

	assert.Zero(t, h.store.upserts)
	assert.Equal(t, beforeVec, h.store.vectors("P1")[profile.VectorVibeReport])
	after := h.store.payload("P1")
	assert.Equal(t, before["vibe_report"], after["vibe_report"])
	assert.Equal(t, before["vibe_report_hash"], after["vibe_report_hash"])
}

func TestIngestRejectsInvalidBeforeStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := vectordb.NewMockStore(ctrl)
	gateway := embedding.NewMockGateway(ctrl)
	normalizer := profile.NewNormalizer(profile.NewCDNConfig(profile.Production, ""))
	orch := NewOrchestrator(store, gateway, vibe.NewMockGenerator(ctrl), normalizer, testSchema, DefaultConfig(), logger.NewNop())

	raw := rawProfile()
	raw.Gender = ""
	_, err := orch.Ingest(context.Background(), raw)

	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestIngestStoreFailure(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.store.getErr = errors.New("connection refused")

	_, err := h.orch.Ingest(context.Background(), rawProfile())
	require.Error(t, err)
	assert.False(t, IsValidation(err))
	assert.Zero(t, h.gateway.total())
}

func TestIngestObserved(t *testing.T) {
	h := newHarness(DefaultConfig())
	var ops []observability.OperationContext
	h.orch.WithObserver(observability.ObserverFunc(func(op observability.OperationContext) {
		ops = append(ops, op)
	}))

	_, err := h.orch.Ingest(context.Background(), rawProfile())
	require.NoError(t, err)

	require.Len(t, ops, 2)
	assert.Equal(t, "vibe", ops[0].Component)
	assert.Equal(t, "ingest", ops[1].Component)
	assert.Equal(t, NoExistingRecord.String(), ops[1].Operation)
	assert.Equal(t, "full_upsert", ops[1].Metadata["outcome"])
}
