// Package solver implements the iterative root-finding used for lender-side
// return metrics: Newton-Raphson IRR on annual cash flows, plus the exact
// MOIC division.
package solver

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput marks solver-level input failures: zero or negative initial
// investment, or an empty cash-flow sequence.
var ErrInvalidInput = errors.New("invalid solver input")

// DefaultGuess is the starting rate when the caller has no better estimate.
const DefaultGuess = 0.10

// Config exposes the convergence knobs as named parameters so behavior is
// tunable and testable without code changes.
type Config struct {
	// MaxIterations bounds the Newton-Raphson loop.
	MaxIterations int
	// Tolerance is the rate-step convergence criterion: iteration stops once
	// |rate_{n+1} - rate_n| < Tolerance.
	Tolerance float64
	// DerivativeFloor is the stability guard: if |dNPV/dRate| falls below it,
	// the solver stops immediately with the current rate rather than divide
	// by a near-zero derivative.
	DerivativeFloor float64
}

// DefaultConfig returns the production convergence parameters.
func DefaultConfig() Config {
	return Config{
		MaxIterations:   100,
		Tolerance:       0.0001,
		DerivativeFloor: 0.0001,
	}
}

// Result carries the solved rate in percent plus explicit convergence
// signaling, so a best-effort estimate is distinguishable from a converged
// answer.
type Result struct {
	// RatePct is the annualized rate as a percentage (8.0 means 8%).
	RatePct float64 `json:"rate_pct"`
	// Converged is false when the iteration budget ran out or the derivative
	// guard fired before the tolerance was met.
	Converged bool `json:"converged"`
	// Iterations is the number of Newton steps taken.
	Iterations int `json:"iterations"`
}

// SolveIRR solves NPV(rate) = -initialInvestment + sum cf_t/(1+rate)^t = 0
// with the default guess and config. Cash flows are annual, t starting at 1.
func SolveIRR(initialInvestment float64, cashFlows []float64) (Result, error) {
	return SolveIRRWithConfig(initialInvestment, cashFlows, DefaultGuess, DefaultConfig())
}

// SolveIRRWithConfig is SolveIRR with an explicit starting guess (as a
// fraction, e.g. 0.10) and convergence parameters.
func SolveIRRWithConfig(initialInvestment float64, cashFlows []float64, guess float64, cfg Config) (Result, error) {
	if initialInvestment <= 0 {
		return Result{}, fmt.Errorf("%w: initial investment must be positive, got %v", ErrInvalidInput, initialInvestment)
	}
	if len(cashFlows) == 0 {
		return Result{}, fmt.Errorf("%w: cash flow sequence is empty", ErrInvalidInput)
	}
	if cfg.MaxIterations <= 0 || cfg.Tolerance <= 0 || cfg.DerivativeFloor <= 0 {
		return Result{}, fmt.Errorf("%w: config values must be positive", ErrInvalidInput)
	}

	rate := guess
	for iter := 1; iter <= cfg.MaxIterations; iter++ {
		npv, deriv := npvAndDerivative(initialInvestment, cashFlows, rate)
		if math.Abs(deriv) < cfg.DerivativeFloor {
			// Flat derivative: a Newton step would blow up. Report the
			// current rate as a non-converged estimate.
			return Result{RatePct: rate * 100, Converged: false, Iterations: iter}, nil
		}

		next := rate - npv/deriv
		if math.Abs(next-rate) < cfg.Tolerance {
			return Result{RatePct: next * 100, Converged: true, Iterations: iter}, nil
		}
		rate = next
	}
	return Result{RatePct: rate * 100, Converged: false, Iterations: cfg.MaxIterations}, nil
}

// npvAndDerivative evaluates the discounted cash-flow sum and its analytic
// first derivative at the given rate:
//
//	NPV    = -I0 + sum CF_t / (1+r)^t
//	dNPV/dr =      sum -t * CF_t / (1+r)^(t+1)
func npvAndDerivative(initialInvestment float64, cashFlows []float64, rate float64) (float64, float64) {
	npv := -initialInvestment
	deriv := 0.0
	for i, cf := range cashFlows {
		t := float64(i + 1)
		npv += cf / math.Pow(1+rate, t)
		deriv += -t * cf / math.Pow(1+rate, t+1)
	}
	return npv, deriv
}

// MOIC is total cash received over initial investment, computed exactly with
// no solver approximation. A non-positive initial investment is invalid, not
// infinity.
func MOIC(initialInvestment float64, cashFlows []float64) (float64, error) {
	if initialInvestment <= 0 {
		return 0, fmt.Errorf("%w: initial investment must be positive, got %v", ErrInvalidInput, initialInvestment)
	}
	total := 0.0
	for _, cf := range cashFlows {
		total += cf
	}
	return total / initialInvestment, nil
}
