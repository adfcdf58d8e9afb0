// Package validate checks the internal arithmetic ties of a computed
// projection schedule. The projector is deterministic, so a failed tie means
// a modeling bug, not bad input; callers surface the report rather than
// silently correcting rows.
package validate

import (
	"math"

	"credit_engine/pkg/core/projection"
)

// DefaultTolerance absorbs float64 accumulation noise across a schedule.
// Ties are exact expressions of the projector's own arithmetic, so anything
// beyond rounding error is a real break.
const DefaultTolerance = 1e-6

// ScheduleReport contains all tie checks for one projected year.
type ScheduleReport struct {
	Year         int            `json:"year"`
	DebtRoll     *DebtRollCheck `json:"debt_roll"`
	PaydownSplit *PaydownCheck  `json:"paydown_split"`
	BuildUp      *BuildUpCheck  `json:"build_up,omitempty"` // granular rows only
	AllPassed    bool           `json:"all_passed"`
	FailedChecks []string       `json:"failed_checks,omitempty"`
}

// DebtRollCheck validates EndingDebt == BeginningDebt - TotalPaydown and the
// chain into the prior year's ending balance.
type DebtRollCheck struct {
	BeginningDebt   float64 `json:"beginning_debt"`
	TotalPaydown    float64 `json:"total_paydown"`
	EndingDebt      float64 `json:"ending_debt"`
	Difference      float64 `json:"difference"`
	PriorEndingDebt float64 `json:"prior_ending_debt"`
	ChainDifference float64 `json:"chain_difference"`
	IsLinked        bool    `json:"is_linked"`
	Tolerance       float64 `json:"tolerance"`
}

// PaydownCheck validates TotalPaydown == MandatoryAmort + CashSweep. The tie
// only holds while debt stays positive; once the balance clamps to zero the
// recorded paydown is the smaller actual reduction.
type PaydownCheck struct {
	MandatoryAmort float64 `json:"mandatory_amort"`
	CashSweep      float64 `json:"cash_sweep"`
	TotalPaydown   float64 `json:"total_paydown"`
	Difference     float64 `json:"difference"`
	Clamped        bool    `json:"clamped"`
	IsLinked       bool    `json:"is_linked"`
	Tolerance      float64 `json:"tolerance"`
}

// BuildUpCheck validates the granular operating build-up:
// EBIT == AdjustedEBITDA - D&A and NetIncome == EBIT - Interest - Taxes.
type BuildUpCheck struct {
	AdjustedEBITDA float64 `json:"adjusted_ebitda"`
	DA             float64 `json:"da"`
	EBIT           float64 `json:"ebit"`
	EBITDifference float64 `json:"ebit_difference"`
	NetIncome      float64 `json:"net_income"`
	NIDifference   float64 `json:"ni_difference"`
	IsLinked       bool    `json:"is_linked"`
	Tolerance      float64 `json:"tolerance"`
}

// ValidateSchedule runs every tie check over a full schedule. A year-0
// baseline row carries no debt service and is skipped. Returns one report
// per forecast year, in schedule order.
func ValidateSchedule(years []projection.YearProjection, tolerance float64) []*ScheduleReport {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	var reports []*ScheduleReport
	priorEnding := math.NaN() // no chain check on the first row
	for _, y := range years {
		if y.Year == 0 {
			priorEnding = y.EndingDebt
			continue
		}

		r := &ScheduleReport{Year: y.Year, AllPassed: true}

		r.DebtRoll = checkDebtRoll(y, priorEnding, tolerance)
		if !r.DebtRoll.IsLinked {
			r.AllPassed = false
			r.FailedChecks = append(r.FailedChecks, "EndingDebt == BeginningDebt - TotalPaydown")
		}

		r.PaydownSplit = checkPaydownSplit(y, tolerance)
		if !r.PaydownSplit.IsLinked {
			r.AllPassed = false
			r.FailedChecks = append(r.FailedChecks, "TotalPaydown == MandatoryAmort + CashSweep")
		}

		// Simplified rows carry no operating build-up; their EBIT and
		// NetIncome fields stay zero.
		if y.EBIT != 0 || y.NetIncome != 0 || y.DA != 0 {
			r.BuildUp = checkBuildUp(y, tolerance)
			if !r.BuildUp.IsLinked {
				r.AllPassed = false
				r.FailedChecks = append(r.FailedChecks, "EBIT / NetIncome build-up")
			}
		}

		reports = append(reports, r)
		priorEnding = y.EndingDebt
	}
	return reports
}

// AllPassed reports whether every year in a set of reports tied out.
func AllPassed(reports []*ScheduleReport) bool {
	for _, r := range reports {
		if !r.AllPassed {
			return false
		}
	}
	return true
}

func checkDebtRoll(y projection.YearProjection, priorEnding, tolerance float64) *DebtRollCheck {
	diff := y.EndingDebt - (y.BeginningDebt - y.TotalPaydown)
	chainDiff := 0.0
	if !math.IsNaN(priorEnding) {
		chainDiff = y.BeginningDebt - priorEnding
	}
	return &DebtRollCheck{
		BeginningDebt:   y.BeginningDebt,
		TotalPaydown:    y.TotalPaydown,
		EndingDebt:      y.EndingDebt,
		Difference:      diff,
		PriorEndingDebt: priorEnding,
		ChainDifference: chainDiff,
		IsLinked:        math.Abs(diff) <= tolerance && math.Abs(chainDiff) <= tolerance,
		Tolerance:       tolerance,
	}
}

func checkPaydownSplit(y projection.YearProjection, tolerance float64) *PaydownCheck {
	clamped := y.EndingDebt == 0 && y.MandatoryAmort+y.CashSweep > y.TotalPaydown+tolerance
	diff := y.TotalPaydown - (y.MandatoryAmort + y.CashSweep)
	linked := math.Abs(diff) <= tolerance
	if clamped {
		// The clamp shortens the actual reduction; the split tie is waived
		// as long as it did not overshoot.
		linked = diff <= tolerance
	}
	return &PaydownCheck{
		MandatoryAmort: y.MandatoryAmort,
		CashSweep:      y.CashSweep,
		TotalPaydown:   y.TotalPaydown,
		Difference:     diff,
		Clamped:        clamped,
		IsLinked:       linked,
		Tolerance:      tolerance,
	}
}

func checkBuildUp(y projection.YearProjection, tolerance float64) *BuildUpCheck {
	ebitDiff := y.EBIT - (y.AdjustedEBITDA - y.DA)
	niDiff := y.NetIncome - (y.EBIT - y.Interest - y.Taxes)
	return &BuildUpCheck{
		AdjustedEBITDA: y.AdjustedEBITDA,
		DA:             y.DA,
		EBIT:           y.EBIT,
		EBITDifference: ebitDiff,
		NetIncome:      y.NetIncome,
		NIDifference:   niDiff,
		IsLinked:       math.Abs(ebitDiff) <= tolerance && math.Abs(niDiff) <= tolerance,
		Tolerance:      tolerance,
	}
}
