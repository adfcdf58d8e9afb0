package projection

import (
	"math"

	"credit_engine/pkg/core/assumption"
)

// SimplifiedCapexTaxPct is the flat capex+tax haircut (as % of EBITDA) the
// simplified strategy applies in place of the explicit operating build-up.
const SimplifiedCapexTaxPct = 25.0

// Strategy is a selectable projection model. Implementations validate their
// assumptions before computing any period; a failed run never returns a
// partial schedule.
type Strategy interface {
	// Name returns the strategy identifier.
	Name() string

	// Project computes the full ordered schedule.
	Project() ([]YearProjection, error)
}

// =============================================================================
// SIMPLIFIED STRATEGY
// =============================================================================

// SimplifiedStrategy runs the paydown model on the simplified shape:
// FCF = EBITDA - interest - 25% of EBITDA, then the shared amortization /
// sweep / ending-debt logic.
type SimplifiedStrategy struct {
	Assumptions assumption.PaydownAssumptions
}

func (s *SimplifiedStrategy) Name() string { return "Simplified" }

func (s *SimplifiedStrategy) Project() ([]YearProjection, error) {
	a := s.Assumptions
	if err := a.Validate(); err != nil {
		return nil, err
	}

	years := make([]YearProjection, 0, a.HoldYears)
	revenue := a.BaseRevenue
	beginning := a.InitialDebt

	for t := 1; t <= a.HoldYears; t++ {
		revenue = revenue * (1 + a.RevenueGrowthPct/100)
		ebitda := revenue * a.EBITDAMarginPct / 100
		interest := beginning * a.InterestRatePct / 100
		fcf := ebitda - interest - (SimplifiedCapexTaxPct/100)*ebitda

		amort := mandatoryAmort(a.InitialDebt, a.MandatoryAmortPct, beginning)
		sweep := sweepAmount(fcf, a.CashSweepPct)
		ending := clampDebt(beginning - amort - sweep)

		years = append(years, YearProjection{
			Year:             t,
			Revenue:          revenue,
			GrossEBITDA:      ebitda,
			AdjustedEBITDA:   ebitda,
			Interest:         interest,
			FreeCashFlow:     fcf,
			MandatoryAmort:   amort,
			CashSweep:        sweep,
			TotalPaydown:     beginning - ending,
			BeginningDebt:    beginning,
			EndingDebt:       ending,
			Leverage:         leverageRatio(ending, ebitda),
			DSCR:             coverageRatio(ebitda, interest+amort),
			InterestCoverage: coverageRatio(ebitda, interest),
		})
		beginning = ending
	}
	return years, nil
}

// =============================================================================
// GRANULAR STRATEGY
// =============================================================================

// GranularStrategy runs the paydown model with the explicit tax / D&A / capex
// build-up. IncludeBaseline prepends a year-0 LTM row showing entry leverage
// before any paydown.
type GranularStrategy struct {
	Assumptions     assumption.GranularAssumptions
	IncludeBaseline bool
}

func (s *GranularStrategy) Name() string { return "Granular" }

func (s *GranularStrategy) Project() ([]YearProjection, error) {
	a := s.Assumptions
	if err := a.Validate(); err != nil {
		return nil, err
	}

	years := make([]YearProjection, 0, a.HoldYears+1)

	if s.IncludeBaseline {
		gross := a.LTMRevenue * assumption.ScheduleValue(a.EBITDAMarginPct, 0) / 100
		adj := gross + assumption.ScheduleValue(a.EBITDAAdjustments, 0)
		years = append(years, YearProjection{
			Year:           0,
			Revenue:        a.LTMRevenue,
			GrossEBITDA:    gross,
			AdjustedEBITDA: adj,
			BeginningDebt:  a.Debt.Principal,
			EndingDebt:     a.Debt.Principal,
			Leverage:       leverageRatio(a.Debt.Principal, adj),
		})
	}

	revenue := a.LTMRevenue
	beginning := a.Debt.Principal

	for i := 0; i < a.HoldYears; i++ {
		revenue = revenue * (1 + assumption.ScheduleValue(a.RevenueGrowthPct, i)/100)
		gross := revenue * assumption.ScheduleValue(a.EBITDAMarginPct, i) / 100
		adj := gross + assumption.ScheduleValue(a.EBITDAAdjustments, i)

		da := revenue * a.DAPctOfRevenue / 100
		ebit := adj - da
		interest := beginning * a.Debt.InterestRatePct / 100
		preTax := ebit - interest
		tax := math.Max(0, preTax*a.TaxRatePct/100)
		netIncome := preTax - tax
		capex := revenue * assumption.ScheduleValue(a.CapexPctOfRevenue, i) / 100

		amort := mandatoryAmort(a.Debt.Principal, a.Debt.MandatoryAmortPct, beginning)
		fcf := netIncome + da - capex - amort
		sweep := sweepAmount(fcf, a.CashSweepPct)
		ending := clampDebt(beginning - amort - sweep)

		years = append(years, YearProjection{
			Year:             i + 1,
			Revenue:          revenue,
			GrossEBITDA:      gross,
			AdjustedEBITDA:   adj,
			DA:               da,
			EBIT:             ebit,
			Interest:         interest,
			Taxes:            tax,
			NetIncome:        netIncome,
			Capex:            capex,
			FreeCashFlow:     fcf,
			MandatoryAmort:   amort,
			CashSweep:        sweep,
			TotalPaydown:     beginning - ending,
			BeginningDebt:    beginning,
			EndingDebt:       ending,
			Leverage:         leverageRatio(ending, adj),
			DSCR:             coverageRatio(adj, interest+amort),
			InterestCoverage: coverageRatio(adj, interest),
		})
		beginning = ending
	}
	return years, nil
}
