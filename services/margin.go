package services

// MarginBand is the presentation class of a profit percentage.
type MarginBand string

const (
	MarginNegative MarginBand = "negative"
	MarginLow      MarginBand = "low"
	MarginMedium   MarginBand = "medium"
	MarginHealthy  MarginBand = "healthy"
)

// Band thresholds in percent.
const (
	MediumMarginThreshold  = 15.0
	HealthyMarginThreshold = 30.0
)

// ClassifyMargin maps a profit percentage to its band. Lower bounds are
// inclusive: 0 is low, 15 is medium, 30 is healthy. NaN is treated as 0.
func ClassifyMargin(pct float64) MarginBand {
	switch {
	case pct < 0:
		return MarginNegative
	case pct >= HealthyMarginThreshold:
		return MarginHealthy
	case pct >= MediumMarginThreshold:
		return MarginMedium
	default:
		return MarginLow
	}
}

// DefaultTargetMargin is used by SuggestSellingPrice callers that have no
// configured target.
const DefaultTargetMargin = 30.0

// SuggestSellingPrice marks cost up by targetMarginPercent. A zero cost
// always suggests 0.
func SuggestSellingPrice(cost, targetMarginPercent float64) float64 {
	return cost * (1 + targetMarginPercent/100)
}
