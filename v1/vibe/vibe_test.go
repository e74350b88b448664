package vibe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/verona-ai/profilesearch/v1/profile"
)

type fakeModel struct {
	answer   string
	err      error
	messages []llms.MessageContent
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.answer}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

const sampleAnswer = "```json\n" + `{
  "vibeReport": "A builder with a poet's ear.",
  "trumpAdamsSummary": "Spectacular. Truly rare.",
  "imageTags": [
    {"photoId": "s1", "tags": ["#TrailRunner", "#QuietConfidence"]},
    {"photoId": "s2", "tags": ["#QuietConfidence", "#LinenSeason", ""]}
  ]
}` + "\n```"

func sampleProfile() *profile.Profile {
	return &profile.Profile{
		Education:  "MBA from IIM Ahmedabad",
		Profession: "Director at Google",
		Blurb:      "Weekend trekker.",
		PhotoCollection: []profile.ProcessedPhoto{
			{ShowCaseID: "s1", URL: "https://cdn/1.jpg"},
			{ShowCaseID: "s2", URL: "https://cdn/2.jpg"},
		},
	}
}

func TestLLMGenerator_Generate(t *testing.T) {
	model := &fakeModel{answer: sampleAnswer}
	g := NewGeneratorWithModel(model, DefaultConfig())

	report, err := g.Generate(context.Background(), InputFromProfile(sampleProfile()))
	require.NoError(t, err)
	assert.Equal(t, "A builder with a poet's ear.", report.VibeReport)
	assert.Equal(t, []string{"#TrailRunner", "#QuietConfidence", "#LinenSeason"}, report.LifeStyleTags())

	require.Len(t, model.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.messages[0].Role)
	assert.Len(t, model.messages[1].Parts, 3, "text plus one image per photo")
}

func TestLLMGenerator_WithoutImages(t *testing.T) {
	model := &fakeModel{answer: sampleAnswer}
	cfg := DefaultConfig()
	cfg.IncludeImages = false

	_, err := NewGeneratorWithModel(model, cfg).Generate(context.Background(), InputFromProfile(sampleProfile()))
	require.NoError(t, err)
	assert.Len(t, model.messages[1].Parts, 1)
}

func TestLLMGenerator_ModelError(t *testing.T) {
	boom := errors.New("quota")
	_, err := NewGeneratorWithModel(&fakeModel{err: boom}, DefaultConfig()).Generate(context.Background(), Input{})
	assert.ErrorIs(t, err, boom)
}

func TestParseReport_RejectsEmptyAndMalformed(t *testing.T) {
	_, err := ParseReport(`{"vibeReport": "  "}`)
	assert.ErrorIs(t, err, ErrEmptyReport)

	_, err = ParseReport("not json")
	assert.Error(t, err)
}

func TestReportApply(t *testing.T) {
	r, err := ParseReport(sampleAnswer)
	require.NoError(t, err)

	p := sampleProfile()
	r.Apply(p)
	assert.Equal(t, "A builder with a poet's ear.", p.VibeReport)
	assert.Equal(t, "Spectacular. Truly rare.", p.ProfileHook)
	assert.Len(t, p.LifeStyleTags, 3)
}

func TestInputFromProfile_NilInterests(t *testing.T) {
	in := InputFromProfile(sampleProfile())
	assert.NotNil(t, in.Interests)
	assert.Equal(t, "s2", in.Photos[1].ID)
}
