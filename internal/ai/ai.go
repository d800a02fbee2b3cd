// Package ai produces optional natural-language commentary on analysis
// results. The model is treated as a black box; when no API key is
// configured the disabled implementation returns empty commentary.
package ai

import (
	"context"

	"rugshield/internal/analysis"
)

// Commentator writes a short narrative for an analyzed token.
type Commentator interface {
	Commentary(ctx context.Context, snap analysis.TokenSnapshot, assessment analysis.RiskAssessment) (string, error)
}

// Disabled is the no-op commentator used when AI analysis is not
// configured.
type Disabled struct{}

// Commentary returns empty commentary.
func (Disabled) Commentary(ctx context.Context, snap analysis.TokenSnapshot, assessment analysis.RiskAssessment) (string, error) {
	return "", nil
}

var _ Commentator = Disabled{}
