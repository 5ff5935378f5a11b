package services

import (
	"context"
	"encoding/json"
	"floodguard/models"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// Prediction fallback, returned verbatim whenever the model cannot be
// reached or answers with garbage. The dashboard renders the reason string
// as-is.
var predictionFallback = models.Prediction{
	Risk:   models.RiskLow,
	Score:  1,
	Reason: "Could not perform AI analysis. Defaulting to low risk.",
}

// PredictionService wraps the generative model behind the dashboard's risk
// card and the admin scenario tool.
type PredictionService struct {
	client ChatCompleter
	model  string
}

func NewPredictionService(client ChatCompleter, model string) *PredictionService {
	return &PredictionService{
		client: client,
		model:  model,
	}
}

const predictPrompt = `You are a flood risk analyst. Assess the current flood risk for the location below, using the news digest when one is provided.

Location: %s
Recent news digest:
%s

Respond with a JSON object only, no other text:
{"risk": "Low" | "Medium" | "High", "score": <integer 1-10>, "reason": "<one or two concise sentences>"}`

const scenarioPrompt = `You are a flood risk analyst running a hypothetical scenario for emergency planners.

Location: %s
Scenario: %s

Assess the flood risk if this scenario occurred. Respond with a JSON object only, no other text:
{"risk": "Low" | "Medium" | "High", "score": <integer 1-10>, "reason": "<one or two concise sentences>"}`

// Predict scores the live flood risk for a location. One model attempt; any
// failure returns the low-risk default rather than an error.
func (s *PredictionService) Predict(ctx context.Context, location, news string) models.Prediction {
	if news == "" {
		news = "(no recent news available)"
	}
	return s.complete(ctx, fmt.Sprintf(predictPrompt, location, news))
}

// Scenario scores a hypothetical situation ("what if the dam gate fails")
// for the admin planning view.
func (s *PredictionService) Scenario(ctx context.Context, location, scenario string) models.Prediction {
	return s.complete(ctx, fmt.Sprintf(scenarioPrompt, location, scenario))
}

func (s *PredictionService) complete(ctx context.Context, prompt string) models.Prediction {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		logrus.Warnf("Prediction oracle call failed: %v", err)
		return predictionFallback
	}

	if len(resp.Choices) == 0 {
		logrus.Warn("Prediction oracle returned no choices")
		return predictionFallback
	}

	var prediction models.Prediction
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &prediction); err != nil {
		logrus.Warnf("Prediction oracle returned malformed JSON: %v", err)
		return predictionFallback
	}

	switch prediction.Risk {
	case models.RiskLow, models.RiskMedium, models.RiskHigh:
	default:
		logrus.Warnf("Prediction oracle returned unknown risk %q", prediction.Risk)
		return predictionFallback
	}

	if prediction.Score < 1 {
		prediction.Score = 1
	}
	if prediction.Score > 10 {
		prediction.Score = 10
	}

	return prediction
}
