package queryparse

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/verona-ai/profilesearch/v1/logger"
)

type fakeModel struct {
	answer   string
	err      error
	calls    int
	messages []llms.MessageContent
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.calls++
	f.messages = messages
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.answer}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

const iitAnswer = `{
  "filters": {
    "min_age": 25, "max_age": 32, "min_height": 59, "max_height": null,
    "min_income": null, "max_income": null,
    "genders": null, "religions": ["HI"], "locations": null,
    "marital_statuses": null, "family_types": null, "food_habits": null,
    "smoking": null, "drinking": null, "religiosity": null, "fitness": null, "intent": null
  },
  "education_query": "IIT graduate",
  "profession_query": " software engineer ",
  "vibe_report_query": "guitar hiking"
}`

func TestParse(t *testing.T) {
	model := &fakeModel{answer: iitAnswer}
	parser := NewParserWithModel(model, logger.NewNop())

	parsed, err := parser.Parse(context.Background(), "IIT graduate software engineer age 25-32 loves guitar and hiking height atleast 150")
	require.NoError(t, err)

	assert.Equal(t, "IIT graduate", parsed.EducationQuery)
	assert.Equal(t, "software engineer", parsed.ProfessionQuery)
	assert.Equal(t, "guitar hiking", parsed.VibeReportQuery)
	require.NotNil(t, parsed.Filters.MinAge)
	assert.Equal(t, 25, *parsed.Filters.MinAge)
	assert.Equal(t, 32, *parsed.Filters.MaxAge)
	assert.Equal(t, 59, *parsed.Filters.MinHeight)
	assert.Nil(t, parsed.Filters.MaxHeight)
	assert.Nil(t, parsed.Filters.Genders)
	assert.Equal(t, []string{"HI"}, parsed.Filters.Religions)

	require.Len(t, model.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.messages[0].Role)
	human := model.messages[1].Parts[0].(llms.TextContent).Text
	assert.True(t, strings.Contains(human, "IIT graduate software engineer"))
}

func TestParseBlankQuerySkipsModel(t *testing.T) {
	model := &fakeModel{answer: iitAnswer}
	parser := NewParserWithModel(model, nil)

	parsed, err := parser.Parse(context.Background(), "   ")
	require.NoError(t, err)
	assert.True(t, parsed.IsEmpty())
	assert.True(t, parsed.Filters.IsEmpty())
	assert.Zero(t, model.calls)
}

func TestParseFailures(t *testing.T) {
	t.Run("model error", func(t *testing.T) {
		parser := NewParserWithModel(&fakeModel{err: errors.New("rate limited")}, nil)
		_, err := parser.Parse(context.Background(), "doctor")
		assert.ErrorContains(t, err, "rate limited")
	})

	t.Run("malformed answer", func(t *testing.T) {
		parser := NewParserWithModel(&fakeModel{answer: "not json"}, nil)
		_, err := parser.Parse(context.Background(), "doctor")
		assert.ErrorContains(t, err, "decode answer")
	})
}

func TestDecodeToleratesFences(t *testing.T) {
	parsed, err := Decode("```json\n{\"filters\":{},\"education_query\":\"\",\"profession_query\":\"doctor\",\"vibe_report_query\":\"\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "doctor", parsed.ProfessionQuery)
	assert.True(t, parsed.Filters.IsEmpty())
}
