package projection_test

import (
	"math"
	"reflect"
	"testing"

	"credit_engine/pkg/core/projection"
)

func TestSummarize(t *testing.T) {
	s := &projection.SimplifiedStrategy{Assumptions: basePaydown()}
	result, err := projection.Run("Base", s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum := result.Summary
	years := result.Years

	var totalPaydown, dscrSum float64
	for _, y := range years {
		totalPaydown += y.TotalPaydown
		dscrSum += y.DSCR
	}
	if math.Abs(sum.TotalPaydown-totalPaydown) > 1e-6 {
		t.Errorf("total paydown: expected %f, got %f", totalPaydown, sum.TotalPaydown)
	}
	wantPct := totalPaydown / years[0].BeginningDebt * 100
	if math.Abs(sum.PaydownPct-wantPct) > 1e-9 {
		t.Errorf("paydown pct: expected %f, got %f", wantPct, sum.PaydownPct)
	}
	if math.Abs(sum.AverageDSCR-dscrSum/float64(len(years))) > 1e-9 {
		t.Errorf("average DSCR: expected %f, got %f", dscrSum/float64(len(years)), sum.AverageDSCR)
	}
	if sum.ExitLeverage != years[len(years)-1].Leverage {
		t.Errorf("exit leverage should be the final year's leverage")
	}
	wantEntry := years[0].BeginningDebt / years[0].AdjustedEBITDA
	if math.Abs(sum.EntryLeverage-wantEntry) > 1e-9 {
		t.Errorf("entry leverage: expected %f, got %f", wantEntry, sum.EntryLeverage)
	}
}

func TestSummarize_BaselineRowContributesEntryLeverageOnly(t *testing.T) {
	s := &projection.GranularStrategy{Assumptions: baseGranular(), IncludeBaseline: true}
	result, err := projection.Run("Base", s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	baseline := result.Years[0]
	if result.Summary.EntryLeverage != baseline.Leverage {
		t.Errorf("entry leverage should come from the baseline row")
	}

	// The baseline row must not dilute average DSCR or paydown totals.
	forecast := result.Years[1:]
	var dscrSum float64
	for _, y := range forecast {
		dscrSum += y.DSCR
	}
	want := dscrSum / float64(len(forecast))
	if math.Abs(result.Summary.AverageDSCR-want) > 1e-9 {
		t.Errorf("average DSCR should exclude the baseline row: expected %f, got %f",
			want, result.Summary.AverageDSCR)
	}
}

func TestRun_Deterministic(t *testing.T) {
	a := basePaydown()
	first, err := projection.Run("Base", &projection.SimplifiedStrategy{Assumptions: a})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := projection.Run("Base", &projection.SimplifiedStrategy{Assumptions: a})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical assumptions must produce identical results")
	}
}

func TestSummarize_Empty(t *testing.T) {
	sum := projection.Summarize(nil)
	if sum != (projection.Summary{}) {
		t.Errorf("empty schedule should summarize to zero values, got %+v", sum)
	}
}
