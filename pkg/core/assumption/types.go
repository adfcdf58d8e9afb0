// Package assumption implements the validated, immutable input sets for the
// credit modeling engine. An assumption value is created once per model run
// and never mutated afterwards; recomputation is the only update mechanism.
package assumption

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidAssumptions is wrapped by every validation failure so callers can
// test with errors.Is without matching message text.
var ErrInvalidAssumptions = errors.New("invalid assumptions")

// Shape identifies which projection model an assumption set feeds.
type Shape string

const (
	ShapeSimplified Shape = "SIMPLIFIED" // flat 25% capex+tax approximation
	ShapeGranular   Shape = "GRANULAR"   // explicit tax / D&A / capex build-up
)

// ForecastYears is the fixed projection horizon. The granular shape may add a
// year-0 LTM baseline row in front of these.
const ForecastYears = 5

// DebtTranche describes a single-tranche capital structure.
// Rates are percent figures (8.0 means 8%), consistent with how deal terms
// are quoted on the syndication desk.
type DebtTranche struct {
	Principal         float64 `json:"principal"`
	InterestRatePct   float64 `json:"interest_rate_pct"`
	MandatoryAmortPct float64 `json:"mandatory_amort_pct"` // % of original principal per year
}

// PaydownAssumptions is the simplified shape: one flat growth rate, one flat
// margin, and the 25% capex+tax approximation inside the projector.
type PaydownAssumptions struct {
	BaseRevenue       float64 `json:"base_revenue"`
	RevenueGrowthPct  float64 `json:"revenue_growth_pct"`
	EBITDAMarginPct   float64 `json:"ebitda_margin_pct"`
	InterestRatePct   float64 `json:"interest_rate_pct"`
	InitialDebt       float64 `json:"initial_debt"`
	MandatoryAmortPct float64 `json:"mandatory_amort_pct"` // % of initial debt per year
	CashSweepPct      float64 `json:"cash_sweep_pct"`
	HoldYears         int     `json:"hold_years"`
}

// GranularAssumptions is the detailed shape: per-year growth, margin, capex
// and adjustment schedules plus an explicit tax and D&A build-up.
// Per-year slices must either carry one entry per forecast year or a single
// entry that applies flat across the horizon.
type GranularAssumptions struct {
	LTMRevenue        float64     `json:"ltm_revenue"`
	RevenueGrowthPct  []float64   `json:"revenue_growth_pct"`
	EBITDAMarginPct   []float64   `json:"ebitda_margin_pct"`
	EBITDAAdjustments []float64   `json:"ebitda_adjustments,omitempty"` // absolute add-backs per year
	CapexPctOfRevenue []float64   `json:"capex_pct_of_revenue"`
	TaxRatePct        float64     `json:"tax_rate_pct"`
	DAPctOfRevenue    float64     `json:"da_pct_of_revenue"`
	Debt              DebtTranche `json:"debt"`
	CashSweepPct      float64     `json:"cash_sweep_pct"`
	HoldYears         int         `json:"hold_years"`
}

// ReturnsInput parameterizes the lender-side returns calculator.
// Spread is quoted in basis points; OID and fees in percent of face.
type ReturnsInput struct {
	PrincipalAmount       float64   `json:"principal_amount"`
	OIDPct                float64   `json:"oid_pct"`
	UpfrontFeePct         float64   `json:"upfront_fee_pct"`
	BaseRatePct           float64   `json:"base_rate_pct"`
	SpreadBps             float64   `json:"spread_bps"`
	HoldYears             int       `json:"hold_years"`
	MandatoryAmortPct     float64   `json:"mandatory_amort_pct"` // % of original principal per year
	PrepaymentPremiumsPct []float64 `json:"prepayment_premiums_pct,omitempty"`
}

// CovenantThresholds carries the contractual limits a projection is tested
// against. MaxLeverage is lower-is-better; the coverage metrics are
// higher-is-better.
type CovenantThresholds struct {
	MaxLeverage         float64 `json:"max_leverage"`
	MinDSCR             float64 `json:"min_dscr"`
	MinInterestCoverage float64 `json:"min_interest_coverage"`
}

// =============================================================================
// VALIDATION
// =============================================================================

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidAssumptions, fmt.Sprintf(format, args...))
}

func requireFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid("%s must be a finite number, got %v", name, v)
	}
	return nil
}

// Validate checks the simplified shape. Negative free cash flow, zero EBITDA
// and zero debt are valid data states and are not rejected here.
func (a PaydownAssumptions) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"base_revenue", a.BaseRevenue},
		{"revenue_growth_pct", a.RevenueGrowthPct},
		{"ebitda_margin_pct", a.EBITDAMarginPct},
		{"interest_rate_pct", a.InterestRatePct},
		{"initial_debt", a.InitialDebt},
		{"mandatory_amort_pct", a.MandatoryAmortPct},
		{"cash_sweep_pct", a.CashSweepPct},
	}
	for _, f := range fields {
		if err := requireFinite(f.name, f.v); err != nil {
			return err
		}
	}
	if a.BaseRevenue <= 0 {
		return invalid("base_revenue must be positive, got %v", a.BaseRevenue)
	}
	if a.InitialDebt < 0 {
		return invalid("initial_debt cannot be negative, got %v", a.InitialDebt)
	}
	if a.MandatoryAmortPct < 0 {
		return invalid("mandatory_amort_pct cannot be negative, got %v", a.MandatoryAmortPct)
	}
	if a.CashSweepPct < 0 || a.CashSweepPct > 100 {
		return invalid("cash_sweep_pct must be within [0,100], got %v", a.CashSweepPct)
	}
	if a.HoldYears <= 0 {
		return invalid("hold_years must be positive, got %d", a.HoldYears)
	}
	return nil
}

// Validate checks the granular shape, including schedule lengths. Per-year
// slices must have either HoldYears entries or exactly one flat entry.
func (a GranularAssumptions) Validate() error {
	if err := requireFinite("ltm_revenue", a.LTMRevenue); err != nil {
		return err
	}
	if a.LTMRevenue <= 0 {
		return invalid("ltm_revenue must be positive, got %v", a.LTMRevenue)
	}
	if a.HoldYears <= 0 {
		return invalid("hold_years must be positive, got %d", a.HoldYears)
	}
	if err := a.validateSchedule("revenue_growth_pct", a.RevenueGrowthPct, true); err != nil {
		return err
	}
	if err := a.validateSchedule("ebitda_margin_pct", a.EBITDAMarginPct, true); err != nil {
		return err
	}
	if err := a.validateSchedule("capex_pct_of_revenue", a.CapexPctOfRevenue, true); err != nil {
		return err
	}
	if err := a.validateSchedule("ebitda_adjustments", a.EBITDAAdjustments, false); err != nil {
		return err
	}
	if err := requireFinite("tax_rate_pct", a.TaxRatePct); err != nil {
		return err
	}
	if a.TaxRatePct < 0 || a.TaxRatePct > 100 {
		return invalid("tax_rate_pct must be within [0,100], got %v", a.TaxRatePct)
	}
	if err := requireFinite("da_pct_of_revenue", a.DAPctOfRevenue); err != nil {
		return err
	}
	if a.DAPctOfRevenue < 0 {
		return invalid("da_pct_of_revenue cannot be negative, got %v", a.DAPctOfRevenue)
	}
	if err := requireFinite("debt.principal", a.Debt.Principal); err != nil {
		return err
	}
	if a.Debt.Principal < 0 {
		return invalid("debt.principal cannot be negative, got %v", a.Debt.Principal)
	}
	if err := requireFinite("debt.interest_rate_pct", a.Debt.InterestRatePct); err != nil {
		return err
	}
	if a.Debt.MandatoryAmortPct < 0 {
		return invalid("debt.mandatory_amort_pct cannot be negative, got %v", a.Debt.MandatoryAmortPct)
	}
	if a.CashSweepPct < 0 || a.CashSweepPct > 100 {
		return invalid("cash_sweep_pct must be within [0,100], got %v", a.CashSweepPct)
	}
	return nil
}

// validateSchedule enforces the "HoldYears entries or one flat entry" rule.
// Optional schedules (required=false) may also be empty.
func (a GranularAssumptions) validateSchedule(name string, vals []float64, required bool) error {
	if len(vals) == 0 {
		if required {
			return invalid("%s is required", name)
		}
		return nil
	}
	if len(vals) != 1 && len(vals) != a.HoldYears {
		return invalid("%s must have 1 or %d entries, got %d", name, a.HoldYears, len(vals))
	}
	for i, v := range vals {
		if err := requireFinite(fmt.Sprintf("%s[%d]", name, i), v); err != nil {
			return err
		}
	}
	return nil
}

// ScheduleValue resolves a per-year schedule for a given zero-based forecast
// year, broadcasting single-entry schedules flat across the horizon.
func ScheduleValue(vals []float64, yearIdx int) float64 {
	if len(vals) == 0 {
		return 0
	}
	if len(vals) == 1 {
		return vals[0]
	}
	if yearIdx >= len(vals) {
		return vals[len(vals)-1]
	}
	return vals[yearIdx]
}

// Validate checks the returns calculator input.
func (r ReturnsInput) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"principal_amount", r.PrincipalAmount},
		{"oid_pct", r.OIDPct},
		{"upfront_fee_pct", r.UpfrontFeePct},
		{"base_rate_pct", r.BaseRatePct},
		{"spread_bps", r.SpreadBps},
		{"mandatory_amort_pct", r.MandatoryAmortPct},
	}
	for _, f := range fields {
		if err := requireFinite(f.name, f.v); err != nil {
			return err
		}
	}
	if r.PrincipalAmount <= 0 {
		return invalid("principal_amount must be positive, got %v", r.PrincipalAmount)
	}
	if r.HoldYears <= 0 {
		return invalid("hold_years must be positive, got %d", r.HoldYears)
	}
	if r.OIDPct < 0 || r.UpfrontFeePct < 0 {
		return invalid("oid_pct and upfront_fee_pct cannot be negative")
	}
	if r.OIDPct+r.UpfrontFeePct >= 100 {
		return invalid("oid_pct + upfront_fee_pct must leave a positive funded amount")
	}
	if r.MandatoryAmortPct < 0 {
		return invalid("mandatory_amort_pct cannot be negative, got %v", r.MandatoryAmortPct)
	}
	for i, p := range r.PrepaymentPremiumsPct {
		if err := requireFinite(fmt.Sprintf("prepayment_premiums_pct[%d]", i), p); err != nil {
			return err
		}
	}
	return nil
}

// Validate rejects non-positive thresholds; headroom is a percentage of the
// threshold, so a zero threshold has no defined headroom.
func (t CovenantThresholds) Validate() error {
	if t.MaxLeverage <= 0 {
		return invalid("max_leverage must be positive, got %v", t.MaxLeverage)
	}
	if t.MinDSCR <= 0 {
		return invalid("min_dscr must be positive, got %v", t.MinDSCR)
	}
	if t.MinInterestCoverage <= 0 {
		return invalid("min_interest_coverage must be positive, got %v", t.MinInterestCoverage)
	}
	return nil
}

// =============================================================================
// SCENARIO DERIVATION
// =============================================================================

func clampPct(v, floor, cap float64) float64 {
	if v < floor {
		return floor
	}
	if v > cap {
		return cap
	}
	return v
}

// Shifted returns a copy with growth and margin moved by the given percentage
// points, margin clamped to [marginFloor, marginCap]. The receiver is never
// modified.
func (a PaydownAssumptions) Shifted(growthPts, marginPts, marginFloor, marginCap float64) PaydownAssumptions {
	out := a
	out.RevenueGrowthPct = a.RevenueGrowthPct + growthPts
	out.EBITDAMarginPct = clampPct(a.EBITDAMarginPct+marginPts, marginFloor, marginCap)
	return out
}

// Shifted returns a deep copy with every per-year growth and margin entry
// moved by the given points, margins clamped to [marginFloor, marginCap].
func (a GranularAssumptions) Shifted(growthPts, marginPts, marginFloor, marginCap float64) GranularAssumptions {
	out := a
	out.RevenueGrowthPct = make([]float64, len(a.RevenueGrowthPct))
	for i, g := range a.RevenueGrowthPct {
		out.RevenueGrowthPct[i] = g + growthPts
	}
	out.EBITDAMarginPct = make([]float64, len(a.EBITDAMarginPct))
	for i, m := range a.EBITDAMarginPct {
		out.EBITDAMarginPct[i] = clampPct(m+marginPts, marginFloor, marginCap)
	}
	out.EBITDAAdjustments = append([]float64(nil), a.EBITDAAdjustments...)
	out.CapexPctOfRevenue = append([]float64(nil), a.CapexPctOfRevenue...)
	return out
}

// =============================================================================
// CONTENT FINGERPRINTS
// =============================================================================

// fingerprint hashes the canonical JSON encoding of v. encoding/json emits
// struct fields in declaration order, so structurally equal values always
// produce the same key regardless of object identity.
func fingerprint(shape Shape, v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	sum := sha256.Sum256(append([]byte(shape+":"), raw...))
	return hex.EncodeToString(sum[:]), nil
}

// Fingerprint returns a stable content-derived key for memoization.
func (a PaydownAssumptions) Fingerprint() (string, error) {
	return fingerprint(ShapeSimplified, a)
}

// Fingerprint returns a stable content-derived key for memoization.
func (a GranularAssumptions) Fingerprint() (string, error) {
	return fingerprint(ShapeGranular, a)
}
