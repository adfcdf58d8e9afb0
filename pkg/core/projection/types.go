// Package projection advances a validated assumption set year-by-year into a
// cash-flow and debt schedule. Two selectable strategies cover the simplified
// and granular assumption shapes; both are pure functions of their inputs.
package projection

// YearProjection is one simulated period of the debt schedule. The granular
// strategy populates the full operating build-up (D&A, EBIT, taxes, capex);
// the simplified strategy leaves those intermediate fields at zero.
type YearProjection struct {
	Year             int     `json:"year"`
	Revenue          float64 `json:"revenue"`
	GrossEBITDA      float64 `json:"gross_ebitda"`
	AdjustedEBITDA   float64 `json:"adjusted_ebitda"`
	DA               float64 `json:"da,omitempty"`
	EBIT             float64 `json:"ebit,omitempty"`
	Interest         float64 `json:"interest"`
	Taxes            float64 `json:"taxes,omitempty"`
	NetIncome        float64 `json:"net_income,omitempty"`
	Capex            float64 `json:"capex,omitempty"`
	FreeCashFlow     float64 `json:"free_cash_flow"`
	MandatoryAmort   float64 `json:"mandatory_amort"`
	CashSweep        float64 `json:"cash_sweep"`
	TotalPaydown     float64 `json:"total_paydown"`
	BeginningDebt    float64 `json:"beginning_debt"`
	EndingDebt       float64 `json:"ending_debt"`
	Leverage         float64 `json:"leverage"`
	DSCR             float64 `json:"dscr"`
	InterestCoverage float64 `json:"interest_coverage"`
}

// Summary condenses a schedule for side-by-side scenario comparison.
type Summary struct {
	EntryLeverage float64 `json:"entry_leverage"`
	ExitLeverage  float64 `json:"exit_leverage"`
	TotalPaydown  float64 `json:"total_paydown"`
	PaydownPct    float64 `json:"paydown_pct"`
	AverageDSCR   float64 `json:"average_dscr"`
}

// ScenarioResult is one full projector run: the ordered schedule plus its
// summary.
type ScenarioResult struct {
	Name    string           `json:"name"`
	Years   []YearProjection `json:"years"`
	Summary Summary          `json:"summary"`
}
