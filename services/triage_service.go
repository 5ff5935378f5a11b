package services

import (
	"context"
	"encoding/json"
	"floodguard/models"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// TriageFallbackReason is returned whenever the oracle cannot assess an
// incident. Callers rely on the exact string.
const TriageFallbackReason = "Could not assess severity. Defaulting to low risk."

// RuleTriageOracle is the deterministic rule-table implementation: a photo
// raises the floor to Medium, the monsoon corridor northeast of 33.65N
// 73.00E is always High, and distress keywords in the description upgrade
// the score.
type RuleTriageOracle struct{}

func NewRuleTriageOracle() *RuleTriageOracle {
	return &RuleTriageOracle{}
}

var highRiskKeywords = []string{
	"trapped", "drowning", "submerged", "evacuate", "collapsed", "rising fast",
}

var mediumRiskKeywords = []string{
	"flooded", "overflow", "waterlogged", "heavy rain", "rising",
}

func (o *RuleTriageOracle) Assess(ctx context.Context, input TriageInput) TriageResult {
	riskScore := models.RiskLow

	if input.HasPhoto {
		riskScore = models.RiskMedium
	}
	if input.Latitude > 33.65 && input.Longitude > 73.00 {
		riskScore = models.RiskHigh
	}

	description := strings.ToLower(input.Description)
	if riskScore != models.RiskHigh {
		for _, keyword := range highRiskKeywords {
			if strings.Contains(description, keyword) {
				riskScore = models.RiskHigh
				break
			}
		}
	}
	if riskScore == models.RiskLow {
		for _, keyword := range mediumRiskKeywords {
			if strings.Contains(description, keyword) {
				riskScore = models.RiskMedium
				break
			}
		}
	}

	return TriageResult{
		RiskScore: riskScore,
		Reason:    fmt.Sprintf("Rule-based triage scored this incident %s", riskScore),
	}
}

// LLMTriageOracle asks a generative model for the severity. One attempt,
// no retry; any failure, malformed answer included, yields the documented
// Low-risk default.
type LLMTriageOracle struct {
	client ChatCompleter
	model  string
}

func NewLLMTriageOracle(client ChatCompleter, model string) *LLMTriageOracle {
	return &LLMTriageOracle{
		client: client,
		model:  model,
	}
}

const triagePrompt = `You are a flood incident triage engine. Given an incident report, assign a severity.

Incident:
- Coordinates: %.5f, %.5f
- Photo attached: %t
- Description: %s

Respond with a JSON object only, no other text:
{"riskScore": "Low" | "Medium" | "High", "reason": "<one concise sentence>"}`

func (o *LLMTriageOracle) Assess(ctx context.Context, input TriageInput) TriageResult {
	fallback := TriageResult{
		RiskScore: models.RiskLow,
		Reason:    TriageFallbackReason,
	}

	description := input.Description
	if description == "" {
		description = "(none)"
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(triagePrompt, input.Latitude, input.Longitude, input.HasPhoto, description),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		logrus.Warnf("Triage oracle call failed: %v", err)
		return fallback
	}

	if len(resp.Choices) == 0 {
		logrus.Warn("Triage oracle returned no choices")
		return fallback
	}

	var result TriageResult
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &result); err != nil {
		logrus.Warnf("Triage oracle returned malformed JSON: %v", err)
		return fallback
	}

	switch result.RiskScore {
	case models.RiskLow, models.RiskMedium, models.RiskHigh:
	default:
		logrus.Warnf("Triage oracle returned unknown risk score %q", result.RiskScore)
		return fallback
	}

	if result.Reason == "" {
		result.Reason = "No reason given"
	}

	return result
}
