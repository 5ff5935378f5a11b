package services

import (
	"context"
	"floodguard/models"

	openai "github.com/sashabaranov/go-openai"
)

// ChatCompleter is the slice of the OpenAI-compatible client the oracle
// adapters need. *openai.Client satisfies it.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// TriageInput describes a raw incident for severity scoring.
type TriageInput struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	HasPhoto    bool    `json:"hasPhoto"`
	Description string  `json:"description,omitempty"`
}

// TriageResult is the oracle's verdict.
type TriageResult struct {
	RiskScore string `json:"riskScore"` // Low, Medium, High
	Reason    string `json:"reason"`
}

// TriageOracle assigns a severity label to a raw incident. Implementations
// are non-deterministic and occasionally unavailable; they must never
// return an error. On failure they return the documented Low-risk default.
type TriageOracle interface {
	Assess(ctx context.Context, input TriageInput) TriageResult
}

// PredictionOracle produces a flood risk assessment for a free-text
// location, optionally informed by a news digest. Same failure contract as
// TriageOracle: a single attempt, safe default on any failure.
type PredictionOracle interface {
	Predict(ctx context.Context, location, news string) models.Prediction
}

// NewsOracle fetches up to four recent articles for a location. It never
// errors; on any failure it returns an empty, non-nil list.
type NewsOracle interface {
	FetchNews(ctx context.Context, location string) []models.NewsItem
}

// Geocoder resolves free-text addresses and coordinates. Reverse lookups
// fall back to the coordinate string; forward lookups surface a graceful
// error the caller turns into a user-facing message.
type Geocoder interface {
	Forward(ctx context.Context, address string) (*models.GeocodeResult, error)
	Reverse(ctx context.Context, lat, lon float64) (string, error)
}
