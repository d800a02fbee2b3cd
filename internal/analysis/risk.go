package analysis

import "github.com/shopspring/decimal"

// RiskLevel is the ordinal overall risk, ordered from worst to best.
type RiskLevel string

const (
	RiskExtreme RiskLevel = "extreme"
	RiskHigh    RiskLevel = "high"
	RiskMedium  RiskLevel = "medium"
	RiskLow     RiskLevel = "low"
	RiskMinimal RiskLevel = "minimal"
	RiskUnknown RiskLevel = "unknown"
)

// Severity returns a comparable rank for a risk level; higher is worse.
// Unknown ranks above extreme so degraded assessments are never silently
// treated as safe.
func (l RiskLevel) Severity() int {
	switch l {
	case RiskMinimal:
		return 0
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	case RiskExtreme:
		return 4
	default:
		return 5
	}
}

var (
	thVeryLowCap = decimal.NewFromInt(100_000)
	thLowCap     = decimal.NewFromInt(1_000_000)
)

// RiskMetrics are four independently computed booleans. Their thresholds
// deliberately diverge from the factor-rule thresholds (the market-cap
// factor has a $100k tier, the boolean a single $1M boundary); both readings
// are kept because downstream consumers rely on each.
type RiskMetrics struct {
	MarketCapRisk bool `json:"market_cap_risk"`
	VolumeRisk    bool `json:"volume_risk"`
	HolderRisk    bool `json:"holder_risk"`
	LiquidityRisk bool `json:"liquidity_risk"`
}

// RiskAssessment accumulates triggered threshold rules. RiskFactors and
// Recommendations grow pairwise in evaluation order.
type RiskAssessment struct {
	OverallRisk     RiskLevel   `json:"overall_risk"`
	RiskFactors     []string    `json:"risk_factors"`
	Recommendations []string    `json:"recommendations"`
	RiskMetrics     RiskMetrics `json:"risk_metrics"`
}

// AssessRisk evaluates the fixed threshold rules against a snapshot. It is
// pure, deterministic, and total: any internal fault degrades to the unknown
// sentinel instead of propagating.
func AssessRisk(snap TokenSnapshot) (assessment RiskAssessment) {
	defer func() {
		if r := recover(); r != nil {
			assessment = RiskAssessment{
				OverallRisk:     RiskUnknown,
				RiskFactors:     []string{"Error in risk assessment"},
				Recommendations: []string{"Unable to generate recommendations"},
			}
		}
	}()

	assessment = RiskAssessment{
		RiskFactors:     make([]string, 0, 4),
		Recommendations: make([]string, 0, 4),
	}
	addFactor := func(factor, recommendation string) {
		assessment.RiskFactors = append(assessment.RiskFactors, factor)
		assessment.Recommendations = append(assessment.Recommendations, recommendation)
	}

	// Market-cap tier.
	switch {
	case snap.MarketCap.LessThan(thVeryLowCap):
		addFactor("Very low market cap", "Extreme caution required")
	case snap.MarketCap.LessThan(thLowCap):
		addFactor("Low market cap", "High risk investment")
	}

	// Volume tier.
	switch {
	case snap.Volume24h.IsZero():
		addFactor("No trading volume", "Avoid trading")
	case snap.Volume24h.LessThan(snap.MarketCap.Mul(ratioHundredth)):
		addFactor("Low trading volume", "Limited liquidity")
	}

	// Holder tier.
	switch {
	case snap.Holders < 100:
		addFactor("Very few holders", "High concentration risk")
	case snap.Holders < 1_000:
		addFactor("Limited holder base", "Monitor holder distribution")
	}

	// Liquidity tier, only when the ratio is defined.
	if snap.Volume24h.IsPositive() && snap.MarketCap.IsPositive() {
		ratio := snap.Volume24h.Div(snap.MarketCap)
		switch {
		case ratio.LessThan(ratioHundredth):
			addFactor("Low liquidity", "Check liquidity before trading")
		case ratio.LessThan(ratioTenth):
			addFactor("Moderate liquidity", "Monitor liquidity changes")
		}
	}

	assessment.OverallRisk = overallRisk(len(assessment.RiskFactors))
	assessment.RiskMetrics = RiskMetrics{
		MarketCapRisk: snap.MarketCap.LessThan(thLowCap),
		VolumeRisk:    snap.Volume24h.LessThan(snap.MarketCap.Mul(ratioHundredth)),
		HolderRisk:    snap.Holders < 1_000,
		// Unguarded division: positive volume against a zero market cap
		// panics and resolves through the unknown sentinel, matching the
		// original behaviour.
		LiquidityRisk: snap.Volume24h.IsPositive() && snap.Volume24h.Div(snap.MarketCap).LessThan(ratioTenth),
	}

	return assessment
}

func overallRisk(score int) RiskLevel {
	switch {
	case score >= 4:
		return RiskExtreme
	case score >= 3:
		return RiskHigh
	case score >= 2:
		return RiskMedium
	case score >= 1:
		return RiskLow
	default:
		return RiskMinimal
	}
}
