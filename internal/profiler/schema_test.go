package profiler

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileSchemaGenaiProjection(t *testing.T) {
	s := ProfileSchema.GenaiSchema()

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.ElementsMatch(t, []string{"role", "companySize", "painPoints", "goals"}, s.Required)
	require.Len(t, s.Properties, 7)

	assert.Equal(t, genai.TypeString, s.Properties["role"].Type)
	techStack := s.Properties["techStack"]
	assert.Equal(t, genai.TypeArray, techStack.Type)
	require.NotNil(t, techStack.Items)
	assert.Equal(t, genai.TypeString, techStack.Items.Type)
	assert.Equal(t, "Current tools they likely use", techStack.Description)
}

func TestFeedbackSchemaRequiresEverythingInRequest(t *testing.T) {
	s := FeedbackSchema.GenaiSchema()

	assert.ElementsMatch(t, []string{"score", "strengths", "weaknesses", "suggestions", "revisedContent"}, s.Required)
	assert.Equal(t, genai.TypeInteger, s.Properties["score"].Type)
}

func TestFeedbackSchemaToleratesMissingRevisionOnReceipt(t *testing.T) {
	required := FeedbackSchema.JSONSchema()["required"].([]interface{})
	assert.NotContains(t, required, "revisedContent")
	assert.Contains(t, required, "score")

	assert.NoError(t, FeedbackSchema.Validate([]byte(`{"score":70,"strengths":[],"weaknesses":[],"suggestions":[]}`)))
}

func TestSchemaValidateReportsViolations(t *testing.T) {
	err := ProfileSchema.Validate([]byte(`{"role":"","companySize":3}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, errSchemaViolation)
	assert.Contains(t, err.Error(), "profile")

	err = ProfileSchema.Validate([]byte(`not json`))
	assert.Error(t, err)
}
