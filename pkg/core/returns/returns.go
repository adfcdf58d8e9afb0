// Package returns builds the lender-side cash-flow ledger for a syndicated
// tranche and derives IRR and MOIC from it. The funded amount is face
// principal less OID and upfront-fee deductions; the position exits at the
// end of the hold period via prepayment at the scheduled premium.
package returns

import (
	"credit_engine/pkg/core/assumption"
	"credit_engine/pkg/core/solver"
)

// LedgerRow is one year of lender cash flows.
type LedgerRow struct {
	Year               int     `json:"year"`
	BeginningPrincipal float64 `json:"beginning_principal"`
	Interest           float64 `json:"interest"`
	MandatoryAmort     float64 `json:"mandatory_amort"`
	Prepayment         float64 `json:"prepayment"`
	PrepaymentPremium  float64 `json:"prepayment_premium"`
	TotalCash          float64 `json:"total_cash"`
	EndingPrincipal    float64 `json:"ending_principal"`
	CumulativeCash     float64 `json:"cumulative_cash"`
}

// Result is the full returns computation: the ledger plus derived metrics.
type Result struct {
	InitialInvestment float64       `json:"initial_investment"`
	Ledger            []LedgerRow   `json:"ledger"`
	IRR               solver.Result `json:"irr"`
	MOIC              float64       `json:"moic"`
	TotalCash         float64       `json:"total_cash"`
	TotalInterest     float64       `json:"total_interest"`
	TotalPrincipal    float64       `json:"total_principal"`
	TotalFees         float64       `json:"total_fees"`
}

// Compute builds the ledger and solves for IRR/MOIC. Validation failures
// abort before any year is computed.
func Compute(in assumption.ReturnsInput) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	initialInvestment := in.PrincipalAmount * (1 - (in.OIDPct+in.UpfrontFeePct)/100)
	allInRatePct := in.BaseRatePct + in.SpreadBps/100

	ledger := make([]LedgerRow, 0, in.HoldYears)
	cashFlows := make([]float64, 0, in.HoldYears)
	beginning := in.PrincipalAmount
	cumulative := 0.0
	totalInterest := 0.0
	totalPrincipal := 0.0

	for t := 1; t <= in.HoldYears; t++ {
		interest := beginning * allInRatePct / 100

		amort := in.PrincipalAmount * in.MandatoryAmortPct / 100
		if amort > beginning {
			amort = beginning
		}
		ending := beginning - amort

		prepayment := 0.0
		premium := 0.0
		if t == in.HoldYears {
			// Exit: remaining balance is taken out at the scheduled premium.
			prepayment = ending
			premium = prepayment * (premiumPct(in.PrepaymentPremiumsPct, t) - 100) / 100
			ending = 0
		}

		totalCash := interest + amort + prepayment + premium
		cumulative += totalCash
		totalInterest += interest
		totalPrincipal += amort + prepayment

		ledger = append(ledger, LedgerRow{
			Year:               t,
			BeginningPrincipal: beginning,
			Interest:           interest,
			MandatoryAmort:     amort,
			Prepayment:         prepayment,
			PrepaymentPremium:  premium,
			TotalCash:          totalCash,
			EndingPrincipal:    ending,
			CumulativeCash:     cumulative,
		})
		cashFlows = append(cashFlows, totalCash)
		beginning = ending
	}

	irr, err := solver.SolveIRR(initialInvestment, cashFlows)
	if err != nil {
		return nil, err
	}
	moic, err := solver.MOIC(initialInvestment, cashFlows)
	if err != nil {
		return nil, err
	}

	return &Result{
		InitialInvestment: initialInvestment,
		Ledger:            ledger,
		IRR:               irr,
		MOIC:              moic,
		TotalCash:         cumulative,
		TotalInterest:     totalInterest,
		TotalPrincipal:    totalPrincipal,
		TotalFees:         in.PrincipalAmount * (in.OIDPct + in.UpfrontFeePct) / 100,
	}, nil
}

// premiumPct resolves the prepayment premium for a given year (1-based).
// Years beyond the schedule, or an empty schedule, prepay at par.
func premiumPct(schedule []float64, year int) float64 {
	if len(schedule) == 0 || year < 1 {
		return 100
	}
	if year > len(schedule) {
		return schedule[len(schedule)-1]
	}
	return schedule[year-1]
}
