// Package scenario derives Upside and Downside assumption variants from a
// Base case and runs the projector once per scenario. Every run is an
// independent invocation on an immutable derived value, so repeated calls
// with the same Base are byte-identical and the three runs can be fanned out
// concurrently by the host without coordination.
package scenario

import (
	"credit_engine/pkg/core/assumption"
	"credit_engine/pkg/core/projection"
)

// Scenario perturbation policy. These encode business judgment, not math, and
// are centralized here so they cannot drift across call sites.
const (
	UpsideGrowthShiftPts   = 2.0
	UpsideMarginShiftPts   = 2.0
	DownsideGrowthShiftPts = -3.0
	DownsideMarginShiftPts = -3.0
	MarginFloorPct         = 5.0
	MarginCapPct           = 60.0
)

// Scenario names, used as ScenarioResult.Name and in comparison rows.
const (
	NameBase     = "Base"
	NameUpside   = "Upside"
	NameDownside = "Downside"
)

// ComparisonRow is one scenario's summary metrics for side-by-side use.
type ComparisonRow struct {
	Scenario     string  `json:"scenario"`
	ExitLeverage float64 `json:"exit_leverage"`
	PaydownPct   float64 `json:"paydown_pct"`
	AverageDSCR  float64 `json:"average_dscr"`
	TotalPaydown float64 `json:"total_paydown"`
}

// Analysis is the full three-scenario output plus the comparison table.
type Analysis struct {
	Base       *projection.ScenarioResult `json:"base"`
	Upside     *projection.ScenarioResult `json:"upside"`
	Downside   *projection.ScenarioResult `json:"downside"`
	Comparison []ComparisonRow            `json:"comparison"`
}

// Run projects Base, Upside and Downside from a simplified-shape base case.
func Run(base assumption.PaydownAssumptions) (*Analysis, error) {
	if err := base.Validate(); err != nil {
		return nil, err
	}
	up := base.Shifted(UpsideGrowthShiftPts, UpsideMarginShiftPts, MarginFloorPct, MarginCapPct)
	down := base.Shifted(DownsideGrowthShiftPts, DownsideMarginShiftPts, MarginFloorPct, MarginCapPct)
	return runThree(
		&projection.SimplifiedStrategy{Assumptions: base},
		&projection.SimplifiedStrategy{Assumptions: up},
		&projection.SimplifiedStrategy{Assumptions: down},
	)
}

// RunGranular projects the three scenarios from a granular-shape base case.
// Per-year growth and margin schedules are shifted entry-by-entry.
func RunGranular(base assumption.GranularAssumptions) (*Analysis, error) {
	if err := base.Validate(); err != nil {
		return nil, err
	}
	up := base.Shifted(UpsideGrowthShiftPts, UpsideMarginShiftPts, MarginFloorPct, MarginCapPct)
	down := base.Shifted(DownsideGrowthShiftPts, DownsideMarginShiftPts, MarginFloorPct, MarginCapPct)
	return runThree(
		&projection.GranularStrategy{Assumptions: base, IncludeBaseline: true},
		&projection.GranularStrategy{Assumptions: up, IncludeBaseline: true},
		&projection.GranularStrategy{Assumptions: down, IncludeBaseline: true},
	)
}

func runThree(baseS, upS, downS projection.Strategy) (*Analysis, error) {
	base, err := projection.Run(NameBase, baseS)
	if err != nil {
		return nil, err
	}
	up, err := projection.Run(NameUpside, upS)
	if err != nil {
		return nil, err
	}
	down, err := projection.Run(NameDownside, downS)
	if err != nil {
		return nil, err
	}

	results := []*projection.ScenarioResult{base, up, down}
	comparison := make([]ComparisonRow, 0, len(results))
	for _, r := range results {
		comparison = append(comparison, ComparisonRow{
			Scenario:     r.Name,
			ExitLeverage: r.Summary.ExitLeverage,
			PaydownPct:   r.Summary.PaydownPct,
			AverageDSCR:  r.Summary.AverageDSCR,
			TotalPaydown: r.Summary.TotalPaydown,
		})
	}

	return &Analysis{
		Base:       base,
		Upside:     up,
		Downside:   down,
		Comparison: comparison,
	}, nil
}
