package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"rugshield/internal/analysis"
)

// OpenAI generates commentary through the chat completion API.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an OpenAI-backed commentator.
func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAI{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Commentary asks the model for a short plain-text read on the token.
func (a *OpenAI) Commentary(ctx context.Context, snap analysis.TokenSnapshot, assessment analysis.RiskAssessment) (string, error) {
	prompt := fmt.Sprintf(`Assess this token for a retail investor in at most four sentences of plain text:
Name: %s (%s)
Price: $%s
Market cap: $%s
24h volume: $%s
Holders: %d
Overall risk: %s
Risk factors: %s`,
		snap.Name, snap.Symbol,
		snap.Price.String(), snap.MarketCap.String(), snap.Volume24h.String(),
		snap.Holders,
		assessment.OverallRisk,
		strings.Join(assessment.RiskFactors, "; "))

	resp, err := a.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: a.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are a cryptocurrency risk analyst. Answer in plain text, no markdown.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

var _ Commentator = (*OpenAI)(nil)
