package services

import (
	"context"
	"errors"
	"floodguard/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredictionService_ParsesResponse(t *testing.T) {
	completer := &fakeChatCompleter{
		content: `{"risk": "High", "score": 8, "reason": "Monsoon rainfall and saturated catchments"}`,
	}
	service := NewPredictionService(completer, "test-model")

	prediction := service.Predict(context.Background(), "Lahore", "river levels rising")

	assert.Equal(t, models.RiskHigh, prediction.Risk)
	assert.Equal(t, 8, prediction.Score)
	assert.Equal(t, "Monsoon rainfall and saturated catchments", prediction.Reason)
}

func TestPredictionService_FallsBackOnError(t *testing.T) {
	completer := &fakeChatCompleter{err: errors.New("timeout")}
	service := NewPredictionService(completer, "test-model")

	prediction := service.Predict(context.Background(), "Lahore", "")

	assert.Equal(t, models.RiskLow, prediction.Risk)
	assert.Equal(t, 1, prediction.Score)
	assert.Equal(t, "Could not perform AI analysis. Defaulting to low risk.", prediction.Reason)
}

func TestPredictionService_FallsBackOnMalformedJSON(t *testing.T) {
	completer := &fakeChatCompleter{content: "the risk seems moderate"}
	service := NewPredictionService(completer, "test-model")

	prediction := service.Predict(context.Background(), "Lahore", "")

	assert.Equal(t, predictionFallback, prediction)
}

func TestPredictionService_FallsBackOnUnknownRisk(t *testing.T) {
	completer := &fakeChatCompleter{content: `{"risk": "Extreme", "score": 11, "reason": "x"}`}
	service := NewPredictionService(completer, "test-model")

	prediction := service.Predict(context.Background(), "Lahore", "")

	assert.Equal(t, predictionFallback, prediction)
}

func TestPredictionService_ClampsScore(t *testing.T) {
	completer := &fakeChatCompleter{content: `{"risk": "High", "score": 42, "reason": "off the chart"}`}
	service := NewPredictionService(completer, "test-model")

	prediction := service.Predict(context.Background(), "Lahore", "")
	assert.Equal(t, 10, prediction.Score)

	completer.content = `{"risk": "Low", "score": 0, "reason": "negligible"}`
	prediction = service.Predict(context.Background(), "Lahore", "")
	assert.Equal(t, 1, prediction.Score)
}

func TestPredictionService_Scenario(t *testing.T) {
	completer := &fakeChatCompleter{
		content: `{"risk": "Medium", "score": 5, "reason": "Spillway capacity would hold for 48 hours"}`,
	}
	service := NewPredictionService(completer, "test-model")

	prediction := service.Scenario(context.Background(), "Tarbela", "dam gate failure during peak inflow")

	assert.Equal(t, models.RiskMedium, prediction.Risk)
	assert.Equal(t, 5, prediction.Score)
	assert.Contains(t, completer.lastRequest.Messages[0].Content, "dam gate failure")
}
