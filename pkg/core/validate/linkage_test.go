package validate_test

import (
	"math"
	"testing"

	"credit_engine/pkg/core/assumption"
	"credit_engine/pkg/core/projection"
	"credit_engine/pkg/core/validate"
)

func simplifiedSchedule(t *testing.T) []projection.YearProjection {
	t.Helper()
	s := &projection.SimplifiedStrategy{
		Assumptions: assumption.PaydownAssumptions{
			BaseRevenue:       72_000_000,
			RevenueGrowthPct:  5,
			EBITDAMarginPct:   25,
			InterestRatePct:   8,
			InitialDebt:       450_000_000,
			MandatoryAmortPct: 5,
			CashSweepPct:      50,
			HoldYears:         5,
		},
	}
	years, err := s.Project()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return years
}

func granularSchedule(t *testing.T) []projection.YearProjection {
	t.Helper()
	s := &projection.GranularStrategy{
		Assumptions: assumption.GranularAssumptions{
			LTMRevenue:        200_000_000,
			RevenueGrowthPct:  []float64{6, 5, 5, 4, 4},
			EBITDAMarginPct:   []float64{30},
			CapexPctOfRevenue: []float64{3},
			TaxRatePct:        21,
			DAPctOfRevenue:    4,
			Debt: assumption.DebtTranche{
				Principal:         300_000_000,
				InterestRatePct:   7,
				MandatoryAmortPct: 5,
			},
			CashSweepPct: 75,
			HoldYears:    5,
		},
		IncludeBaseline: true,
	}
	years, err := s.Project()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return years
}

func TestValidateSchedule_CleanSimplifiedRun(t *testing.T) {
	reports := validate.ValidateSchedule(simplifiedSchedule(t), 0)
	if len(reports) != 5 {
		t.Fatalf("expected 5 reports, got %d", len(reports))
	}
	if !validate.AllPassed(reports) {
		for _, r := range reports {
			if !r.AllPassed {
				t.Errorf("year %d failed: %v", r.Year, r.FailedChecks)
			}
		}
	}
	// Simplified rows carry no operating build-up to check.
	for _, r := range reports {
		if r.BuildUp != nil {
			t.Errorf("year %d: unexpected build-up check on a simplified row", r.Year)
		}
	}
}

func TestValidateSchedule_CleanGranularRun(t *testing.T) {
	reports := validate.ValidateSchedule(granularSchedule(t), 0)
	if len(reports) != 5 {
		t.Fatalf("baseline row should not produce a report; expected 5, got %d", len(reports))
	}
	if !validate.AllPassed(reports) {
		for _, r := range reports {
			if !r.AllPassed {
				t.Errorf("year %d failed: %v", r.Year, r.FailedChecks)
			}
		}
	}
	for _, r := range reports {
		if r.BuildUp == nil {
			t.Errorf("year %d: granular rows must carry the build-up check", r.Year)
		}
	}
}

func TestValidateSchedule_DetectsBrokenRoll(t *testing.T) {
	years := simplifiedSchedule(t)
	years[2].EndingDebt += 1_000 // corrupt one balance

	reports := validate.ValidateSchedule(years, 0)
	if validate.AllPassed(reports) {
		t.Fatal("a corrupted ending balance must fail validation")
	}
	// The break shows up twice: year 3's roll-forward and year 4's chain.
	if reports[2].AllPassed {
		t.Error("year 3 roll-forward should fail")
	}
	if reports[3].AllPassed {
		t.Error("year 4 chain into the corrupted balance should fail")
	}
	if !reports[0].AllPassed || !reports[1].AllPassed {
		t.Error("years before the corruption must still pass")
	}
}

func TestValidateSchedule_DetectsBrokenBuildUp(t *testing.T) {
	years := granularSchedule(t)
	years[3].EBIT += 500 // year 3 (after baseline row)

	reports := validate.ValidateSchedule(years, 0)
	found := false
	for _, r := range reports {
		if r.Year == 3 {
			found = true
			if r.BuildUp == nil || r.BuildUp.IsLinked {
				t.Error("corrupted EBIT should fail the build-up check")
			}
		}
	}
	if !found {
		t.Fatal("missing report for year 3")
	}
}

func TestValidateSchedule_ClampedFinalYearStillTies(t *testing.T) {
	// A sweep aggressive enough to retire the debt early triggers the zero
	// clamp; the waived split tie must not report a false break.
	s := &projection.SimplifiedStrategy{
		Assumptions: assumption.PaydownAssumptions{
			BaseRevenue:       500_000_000,
			RevenueGrowthPct:  5,
			EBITDAMarginPct:   40,
			InterestRatePct:   6,
			InitialDebt:       100_000_000,
			MandatoryAmortPct: 10,
			CashSweepPct:      100,
			HoldYears:         5,
		},
	}
	years, err := s.Project()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if years[len(years)-1].EndingDebt != 0 {
		t.Fatal("test setup should fully retire the debt")
	}

	reports := validate.ValidateSchedule(years, 0)
	if !validate.AllPassed(reports) {
		for _, r := range reports {
			if !r.AllPassed {
				t.Errorf("year %d failed: %v", r.Year, r.FailedChecks)
			}
		}
	}
	var sawClamp bool
	for _, r := range reports {
		if r.PaydownSplit.Clamped {
			sawClamp = true
		}
	}
	if !sawClamp {
		t.Error("expected at least one clamped paydown year")
	}
}

func TestCalculateYoY(t *testing.T) {
	if got := validate.CalculateYoY(110, 100); got != 10 {
		t.Errorf("expected 10%%, got %v", got)
	}
	if got := validate.CalculateYoY(90, 100); got != -10 {
		t.Errorf("expected -10%%, got %v", got)
	}
	if got := validate.CalculateYoY(0, 0); got != 0 {
		t.Errorf("0/0 should be 0, got %v", got)
	}
	if got := validate.CalculateYoY(5, 0); !math.IsInf(got, 1) {
		t.Errorf("growth from zero should be +Inf, got %v", got)
	}
}

func TestRevenueCAGR(t *testing.T) {
	// 100 -> 121 over 2 years is exactly 10%.
	years := []projection.YearProjection{
		{Year: 0, Revenue: 100},
		{Year: 1, Revenue: 110},
		{Year: 2, Revenue: 121},
	}
	if got := validate.RevenueCAGR(years); math.Abs(got-10) > 1e-9 {
		t.Errorf("expected 10%%, got %v", got)
	}
	if got := validate.RevenueCAGR(nil); got != 0 {
		t.Errorf("empty schedule: expected 0, got %v", got)
	}
}
