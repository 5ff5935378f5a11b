package services

import (
	"context"
	"errors"
	"floodguard/models"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
)

// fakeChatCompleter returns a canned response or error for every call.
type fakeChatCompleter struct {
	content   string
	err       error
	noChoices bool

	lastRequest openai.ChatCompletionRequest
}

func (f *fakeChatCompleter) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastRequest = request

	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	if f.noChoices {
		return openai.ChatCompletionResponse{}, nil
	}

	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func TestRuleTriageOracle(t *testing.T) {
	oracle := NewRuleTriageOracle()
	ctx := context.Background()

	tests := []struct {
		name     string
		input    TriageInput
		expected string
	}{
		{
			name:     "bare report is low",
			input:    TriageInput{Latitude: 31.5204, Longitude: 74.3587},
			expected: models.RiskLow,
		},
		{
			name:     "photo raises the floor to medium",
			input:    TriageInput{Latitude: 31.5204, Longitude: 74.3587, HasPhoto: true},
			expected: models.RiskMedium,
		},
		{
			name:     "monsoon corridor is always high",
			input:    TriageInput{Latitude: 33.66, Longitude: 73.01},
			expected: models.RiskHigh,
		},
		{
			name:     "corridor boundary is exclusive",
			input:    TriageInput{Latitude: 33.65, Longitude: 73.00},
			expected: models.RiskLow,
		},
		{
			name:     "high latitude alone is not enough",
			input:    TriageInput{Latitude: 34.0, Longitude: 72.0},
			expected: models.RiskLow,
		},
		{
			name:     "distress keyword upgrades to high",
			input:    TriageInput{Latitude: 31.5, Longitude: 74.3, Description: "Family trapped on the roof"},
			expected: models.RiskHigh,
		},
		{
			name:     "water keyword upgrades to medium",
			input:    TriageInput{Latitude: 31.5, Longitude: 74.3, Description: "Street is flooded near the market"},
			expected: models.RiskMedium,
		},
		{
			name:     "keyword match is case insensitive",
			input:    TriageInput{Latitude: 31.5, Longitude: 74.3, Description: "WATER RISING FAST"},
			expected: models.RiskHigh,
		},
		{
			name:     "photo plus corridor stays high",
			input:    TriageInput{Latitude: 33.7, Longitude: 73.1, HasPhoto: true},
			expected: models.RiskHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := oracle.Assess(ctx, tt.input)
			assert.Equal(t, tt.expected, result.RiskScore)
			assert.NotEmpty(t, result.Reason)
		})
	}
}

func TestLLMTriageOracle_ParsesResponse(t *testing.T) {
	completer := &fakeChatCompleter{
		content: `{"riskScore": "High", "reason": "Rapidly rising water with people stranded"}`,
	}
	oracle := NewLLMTriageOracle(completer, "test-model")

	result := oracle.Assess(context.Background(), TriageInput{
		Latitude:    33.7,
		Longitude:   73.1,
		HasPhoto:    true,
		Description: "water everywhere",
	})

	assert.Equal(t, models.RiskHigh, result.RiskScore)
	assert.Equal(t, "Rapidly rising water with people stranded", result.Reason)
	assert.Equal(t, "test-model", completer.lastRequest.Model)
}

func TestLLMTriageOracle_FallsBackOnError(t *testing.T) {
	completer := &fakeChatCompleter{err: errors.New("connection refused")}
	oracle := NewLLMTriageOracle(completer, "test-model")

	result := oracle.Assess(context.Background(), TriageInput{Latitude: 1, Longitude: 1})

	assert.Equal(t, models.RiskLow, result.RiskScore)
	assert.Equal(t, TriageFallbackReason, result.Reason)
}

func TestLLMTriageOracle_FallsBackOnMalformedJSON(t *testing.T) {
	completer := &fakeChatCompleter{content: "I think this looks pretty bad"}
	oracle := NewLLMTriageOracle(completer, "test-model")

	result := oracle.Assess(context.Background(), TriageInput{Latitude: 1, Longitude: 1})

	assert.Equal(t, models.RiskLow, result.RiskScore)
	assert.Equal(t, TriageFallbackReason, result.Reason)
}

func TestLLMTriageOracle_FallsBackOnUnknownRisk(t *testing.T) {
	completer := &fakeChatCompleter{content: `{"riskScore": "Severe", "reason": "bad"}`}
	oracle := NewLLMTriageOracle(completer, "test-model")

	result := oracle.Assess(context.Background(), TriageInput{Latitude: 1, Longitude: 1})

	assert.Equal(t, models.RiskLow, result.RiskScore)
	assert.Equal(t, TriageFallbackReason, result.Reason)
}

func TestLLMTriageOracle_FallsBackOnEmptyChoices(t *testing.T) {
	completer := &fakeChatCompleter{noChoices: true}
	oracle := NewLLMTriageOracle(completer, "test-model")

	result := oracle.Assess(context.Background(), TriageInput{Latitude: 1, Longitude: 1})

	assert.Equal(t, models.RiskLow, result.RiskScore)
	assert.Equal(t, TriageFallbackReason, result.Reason)
}
