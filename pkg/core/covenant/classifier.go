// Package covenant classifies projected metrics against contractual
// thresholds. Classification is a pure function of (value, threshold,
// directionality) applied independently per period, shared across leverage,
// DSCR and interest coverage rather than duplicated per metric.
package covenant

import (
	"credit_engine/pkg/core/assumption"
	"credit_engine/pkg/core/projection"
)

// Direction states which side of the threshold is compliant.
type Direction string

const (
	LowerIsBetter  Direction = "LOWER_IS_BETTER"  // leverage
	HigherIsBetter Direction = "HIGHER_IS_BETTER" // DSCR, interest coverage
)

// Status is the compliance classification for one period.
type Status string

const (
	StatusBreach  Status = "BREACH"
	StatusTight   Status = "TIGHT"
	StatusWatch   Status = "WATCH"
	StatusHealthy Status = "HEALTHY"
)

// Headroom breakpoints (percent of threshold). Business policy, centralized.
const (
	TightHeadroomPct = 10.0
	WatchHeadroomPct = 15.0
)

// Assessment is the classification of a single period.
type Assessment struct {
	Status      Status  `json:"status"`
	HeadroomPct float64 `json:"headroom_pct"`
}

// Classify assigns a status and signed headroom for one metric value.
// Positive headroom always means compliance margin, regardless of direction.
// The threshold must be nonzero; EvaluateProjection enforces that upstream.
func Classify(value, threshold float64, dir Direction) Assessment {
	var headroom float64
	var breached bool
	switch dir {
	case LowerIsBetter:
		headroom = (threshold - value) / threshold * 100
		breached = value > threshold
	default:
		headroom = (value - threshold) / threshold * 100
		breached = value < threshold
	}

	status := StatusHealthy
	switch {
	case breached:
		status = StatusBreach
	case absFloat(headroom) < TightHeadroomPct:
		status = StatusTight
	case absFloat(headroom) < WatchHeadroomPct:
		status = StatusWatch
	}

	return Assessment{Status: status, HeadroomPct: headroom}
}

// ClassifySeries applies Classify to each value in order, with no lookahead
// or smoothing across periods.
func ClassifySeries(values []float64, threshold float64, dir Direction) []Assessment {
	out := make([]Assessment, len(values))
	for i, v := range values {
		out[i] = Classify(v, threshold, dir)
	}
	return out
}

// PeriodAssessment ties an assessment to its projection year.
type PeriodAssessment struct {
	Year       int        `json:"year"`
	Value      float64    `json:"value"`
	Assessment Assessment `json:"assessment"`
}

// MetricReport is the per-period classification of one covenant metric.
type MetricReport struct {
	Metric    string             `json:"metric"`
	Direction Direction          `json:"direction"`
	Threshold float64            `json:"threshold"`
	Periods   []PeriodAssessment `json:"periods"`
}

// EvaluateProjection classifies leverage, DSCR and interest coverage for
// every forecast year of a schedule. A year-0 baseline row carries no debt
// service and is not a tested period.
func EvaluateProjection(years []projection.YearProjection, th assumption.CovenantThresholds) ([]MetricReport, error) {
	if err := th.Validate(); err != nil {
		return nil, err
	}

	metrics := []struct {
		name      string
		dir       Direction
		threshold float64
		value     func(projection.YearProjection) float64
	}{
		{"leverage", LowerIsBetter, th.MaxLeverage, func(y projection.YearProjection) float64 { return y.Leverage }},
		{"dscr", HigherIsBetter, th.MinDSCR, func(y projection.YearProjection) float64 { return y.DSCR }},
		{"interest_coverage", HigherIsBetter, th.MinInterestCoverage, func(y projection.YearProjection) float64 { return y.InterestCoverage }},
	}

	reports := make([]MetricReport, 0, len(metrics))
	for _, m := range metrics {
		report := MetricReport{Metric: m.name, Direction: m.dir, Threshold: m.threshold}
		for _, y := range years {
			if y.Year == 0 {
				continue
			}
			v := m.value(y)
			report.Periods = append(report.Periods, PeriodAssessment{
				Year:       y.Year,
				Value:      v,
				Assessment: Classify(v, m.threshold, m.dir),
			})
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
