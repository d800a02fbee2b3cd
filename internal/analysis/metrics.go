package analysis

import "github.com/shopspring/decimal"

// PriceTrend buckets volume-relative price momentum.
type PriceTrend string

// VolumeLevel buckets 24h volume relative to market cap.
type VolumeLevel string

// HolderDistribution buckets the holder base size.
type HolderDistribution string

// LiquidityLevel buckets the volume/market-cap ratio.
type LiquidityLevel string

const (
	TrendBullish PriceTrend = "bullish"
	TrendBearish PriceTrend = "bearish"
	TrendNeutral PriceTrend = "neutral"

	VolumeHigh   VolumeLevel = "high"
	VolumeMedium VolumeLevel = "medium"
	VolumeLow    VolumeLevel = "low"

	HoldersDistributed  HolderDistribution = "distributed"
	HoldersModerate     HolderDistribution = "moderate"
	HoldersConcentrated HolderDistribution = "concentrated"

	LiquidityHigh         LiquidityLevel = "high"
	LiquidityMedium       LiquidityLevel = "medium"
	LiquidityInsufficient LiquidityLevel = "insufficient"
)

// Ratio thresholds shared by the metrics and risk rules.
var (
	ratioHundredth = decimal.NewFromFloat(0.01)
	ratioTenth     = decimal.NewFromFloat(0.1)
	ratioHalf      = decimal.NewFromFloat(0.5)
)

// MetricsClassification is a pure function of a TokenSnapshot mapping raw
// numerics into qualitative bands.
type MetricsClassification struct {
	PriceTrend         PriceTrend         `json:"price_trend"`
	VolumeLevel        VolumeLevel        `json:"volume_analysis"`
	HolderDistribution HolderDistribution `json:"holder_distribution"`
	LiquidityLevel     LiquidityLevel     `json:"liquidity_analysis"`
}

// ClassifyMetrics derives the qualitative bands for a snapshot. Branches are
// evaluated top to bottom with the first match winning; every division is
// guarded by a positivity check.
func ClassifyMetrics(snap TokenSnapshot) MetricsClassification {
	trend := TrendNeutral
	if snap.Price.IsPositive() {
		switch {
		case snap.Volume24h.GreaterThan(snap.MarketCap.Mul(ratioTenth)):
			trend = TrendBullish
		case snap.Volume24h.LessThan(snap.MarketCap.Mul(ratioHundredth)):
			trend = TrendBearish
		}
	}

	volume := VolumeLow
	if snap.Volume24h.IsPositive() {
		switch {
		case snap.Volume24h.GreaterThan(snap.MarketCap.Mul(ratioHalf)):
			volume = VolumeHigh
		case snap.Volume24h.GreaterThan(snap.MarketCap.Mul(ratioTenth)):
			volume = VolumeMedium
		}
	}

	holders := HoldersConcentrated
	if snap.Holders > 0 {
		switch {
		case snap.Holders > 10_000:
			holders = HoldersDistributed
		case snap.Holders > 1_000:
			holders = HoldersModerate
		}
	}

	liquidity := LiquidityInsufficient
	if snap.MarketCap.IsPositive() && snap.Volume24h.IsPositive() {
		ratio := snap.Volume24h.Div(snap.MarketCap)
		switch {
		case ratio.GreaterThan(ratioHalf):
			liquidity = LiquidityHigh
		case ratio.GreaterThan(ratioTenth):
			liquidity = LiquidityMedium
		}
	}

	return MetricsClassification{
		PriceTrend:         trend,
		VolumeLevel:        volume,
		HolderDistribution: holders,
		LiquidityLevel:     liquidity,
	}
}
