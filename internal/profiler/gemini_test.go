package profiler

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseTextJoinsTextParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{
				genai.Text(`{"role":`),
				genai.Blob{MIMEType: "image/png"},
				genai.Text(`"CTO"}`),
			}},
		}},
	}
	assert.Equal(t, `{"role":"CTO"}`, responseText(resp))
}

func TestResponseTextWithoutCandidates(t *testing.T) {
	assert.Empty(t, responseText(nil))
	assert.Empty(t, responseText(&genai.GenerateContentResponse{}))
	assert.Empty(t, responseText(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}))
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient("", GeminiOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}
