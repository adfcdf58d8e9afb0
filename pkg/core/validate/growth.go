package validate

import (
	"math"

	"credit_engine/pkg/core/projection"
)

// CalculateYoY returns the percentage change between two values:
// (current - prior) / prior * 100.
func CalculateYoY(current, prior float64) float64 {
	if prior == 0 {
		if current == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return (current - prior) / prior * 100
}

// CalculateCAGR returns the compound annual growth rate in percent.
func CalculateCAGR(startValue, endValue float64, years int) float64 {
	if startValue <= 0 || years <= 0 {
		return 0
	}
	return (math.Pow(endValue/startValue, 1.0/float64(years)) - 1) * 100
}

// RevenueCAGR computes the revenue CAGR across a schedule, anchored on the
// baseline row when one is present and on the first forecast year otherwise.
func RevenueCAGR(years []projection.YearProjection) float64 {
	if len(years) < 2 {
		return 0
	}
	first := years[0]
	last := years[len(years)-1]
	span := last.Year - first.Year
	return CalculateCAGR(first.Revenue, last.Revenue, span)
}
