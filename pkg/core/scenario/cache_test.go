package scenario_test

import (
	"errors"
	"testing"

	"credit_engine/pkg/core/assumption"
	"credit_engine/pkg/core/scenario"
)

func TestCache_StructuralEqualityHits(t *testing.T) {
	cache := scenario.NewCache()

	// Two distinct values with identical content must share one entry.
	first, err := cache.Run(basePaydown())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := cache.Run(basePaydown())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cache.Len() != 1 {
		t.Errorf("expected 1 cached entry, got %d", cache.Len())
	}
	if first != second {
		t.Error("structurally equal inputs should return the cached analysis")
	}
}

func TestCache_DistinctInputsMiss(t *testing.T) {
	cache := scenario.NewCache()
	if _, err := cache.Run(basePaydown()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a := basePaydown()
	a.RevenueGrowthPct = 6
	if _, err := cache.Run(a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.Len() != 2 {
		t.Errorf("expected 2 cached entries, got %d", cache.Len())
	}
}

func TestCache_ShapesDoNotCollide(t *testing.T) {
	cache := scenario.NewCache()
	if _, err := cache.Run(basePaydown()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	granular := assumption.GranularAssumptions{
		LTMRevenue:        72_000_000,
		RevenueGrowthPct:  []float64{5},
		EBITDAMarginPct:   []float64{25},
		CapexPctOfRevenue: []float64{3},
		TaxRatePct:        25,
		DAPctOfRevenue:    3,
		Debt: assumption.DebtTranche{
			Principal:         450_000_000,
			InterestRatePct:   8,
			MandatoryAmortPct: 5,
		},
		CashSweepPct: 50,
		HoldYears:    5,
	}
	if _, err := cache.RunGranular(granular); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.Len() != 2 {
		t.Errorf("shapes must key separately, got %d entries", cache.Len())
	}
}

func TestCache_InvalidInputNotCached(t *testing.T) {
	cache := scenario.NewCache()
	bad := basePaydown()
	bad.HoldYears = 0
	if _, err := cache.Run(bad); !errors.Is(err, assumption.ErrInvalidAssumptions) {
		t.Fatalf("expected ErrInvalidAssumptions, got %v", err)
	}
	if cache.Len() != 0 {
		t.Errorf("failed runs must not be cached, got %d entries", cache.Len())
	}
}
