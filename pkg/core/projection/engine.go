package projection

import "math"

// mandatoryAmort is the scheduled repayment: a fixed share of the original
// principal, capped at whatever debt is still outstanding.
func mandatoryAmort(originalPrincipal, amortPct, beginningDebt float64) float64 {
	amort := originalPrincipal * amortPct / 100
	if amort > beginningDebt {
		amort = beginningDebt
	}
	return amort
}

// sweepAmount directs a share of positive free cash flow to extra repayment.
// Negative FCF sweeps nothing; it never adds debt back.
func sweepAmount(fcf, sweepPct float64) float64 {
	return math.Max(0, fcf) * sweepPct / 100
}

// clampDebt keeps ending debt at or above zero.
func clampDebt(debt float64) float64 {
	return math.Max(0, debt)
}

// leverageRatio is debt / EBITDA, defined as 0 when EBITDA is not positive.
func leverageRatio(debt, ebitda float64) float64 {
	if ebitda <= 0 {
		return 0
	}
	return debt / ebitda
}

// coverageRatio is EBITDA over a debt-service denominator, defined as 0 when
// there is no service due.
func coverageRatio(ebitda, service float64) float64 {
	if service <= 0 {
		return 0
	}
	return ebitda / service
}

// Run executes a strategy and wraps its schedule into a named ScenarioResult.
func Run(name string, s Strategy) (*ScenarioResult, error) {
	years, err := s.Project()
	if err != nil {
		return nil, err
	}
	return &ScenarioResult{
		Name:    name,
		Years:   years,
		Summary: Summarize(years),
	}, nil
}

// Summarize condenses a schedule. Forecast rows are the Year >= 1 entries; a
// year-0 baseline row only contributes its entry leverage. Entry leverage
// without a baseline row is initial debt over first-year adjusted EBITDA.
func Summarize(years []YearProjection) Summary {
	var s Summary
	forecast := years
	if len(years) > 0 && years[0].Year == 0 {
		s.EntryLeverage = years[0].Leverage
		forecast = years[1:]
	}
	if len(forecast) == 0 {
		return s
	}

	first := forecast[0]
	last := forecast[len(forecast)-1]
	if s.EntryLeverage == 0 {
		s.EntryLeverage = leverageRatio(first.BeginningDebt, first.AdjustedEBITDA)
	}
	s.ExitLeverage = last.Leverage

	var dscrSum float64
	for _, y := range forecast {
		s.TotalPaydown += y.TotalPaydown
		dscrSum += y.DSCR
	}
	s.AverageDSCR = dscrSum / float64(len(forecast))
	if first.BeginningDebt > 0 {
		s.PaydownPct = s.TotalPaydown / first.BeginningDebt * 100
	}
	return s
}
