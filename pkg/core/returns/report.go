package returns

import "github.com/shopspring/decimal"

// RoundCents rounds a money amount to 2 decimal places through a decimal
// intermediate, avoiding float formatting artifacts at the cent boundary.
func RoundCents(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return out
}

// RoundedLedger returns a copy of the ledger with every money field rounded
// to cents, for reporting and persistence. The unrounded ledger stays the
// source of truth for IRR/MOIC.
func (r *Result) RoundedLedger() []LedgerRow {
	rows := make([]LedgerRow, len(r.Ledger))
	for i, row := range r.Ledger {
		rows[i] = LedgerRow{
			Year:               row.Year,
			BeginningPrincipal: RoundCents(row.BeginningPrincipal),
			Interest:           RoundCents(row.Interest),
			MandatoryAmort:     RoundCents(row.MandatoryAmort),
			Prepayment:         RoundCents(row.Prepayment),
			PrepaymentPremium:  RoundCents(row.PrepaymentPremium),
			TotalCash:          RoundCents(row.TotalCash),
			EndingPrincipal:    RoundCents(row.EndingPrincipal),
			CumulativeCash:     RoundCents(row.CumulativeCash),
		}
	}
	return rows
}
