// Package report renders a computed analysis into a Markdown deal memo and,
// for distribution, into HTML. Rendering is read-only over the analysis; the
// memo carries no numbers the engine did not already compute.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"credit_engine/pkg/core/covenant"
	"credit_engine/pkg/core/returns"
	"credit_engine/pkg/core/scenario"
	"credit_engine/pkg/core/validate"
)

// Markdown renders the deal memo. The covenants and ret sections are
// optional and omitted when nil.
func Markdown(name string, a *scenario.Analysis, covenants []covenant.MetricReport, ret *returns.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Credit Analysis: %s\n\n", name)

	b.WriteString("## Scenario Comparison\n\n")
	b.WriteString("| Scenario | Exit Leverage | Paydown % | Avg DSCR | Total Paydown |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, row := range a.Comparison {
		fmt.Fprintf(&b, "| %s | %.2fx | %.1f%% | %.2fx | %s |\n",
			row.Scenario, row.ExitLeverage, row.PaydownPct, row.AverageDSCR, money(row.TotalPaydown))
	}
	b.WriteString("\n")

	b.WriteString("## Base Case Schedule\n\n")
	fmt.Fprintf(&b, "Revenue CAGR over the hold: %.1f%%\n\n", validate.RevenueCAGR(a.Base.Years))
	b.WriteString("| Year | Revenue | EBITDA | Interest | Paydown | Ending Debt | Leverage |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, y := range a.Base.Years {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %.2fx |\n",
			y.Year, money(y.Revenue), money(y.AdjustedEBITDA), money(y.Interest),
			money(y.TotalPaydown), money(y.EndingDebt), y.Leverage)
	}
	b.WriteString("\n")

	if len(covenants) > 0 {
		b.WriteString("## Covenant Compliance (Base Case)\n\n")
		b.WriteString("| Metric | Threshold | Year | Value | Headroom | Status |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, rep := range covenants {
			for _, p := range rep.Periods {
				fmt.Fprintf(&b, "| %s | %.2f | %d | %.2f | %.1f%% | %s |\n",
					rep.Metric, rep.Threshold, p.Year, p.Value,
					p.Assessment.HeadroomPct, p.Assessment.Status)
			}
		}
		b.WriteString("\n")
	}

	if ret != nil {
		b.WriteString("## Lender Returns\n\n")
		fmt.Fprintf(&b, "- Initial investment: %s\n", money(ret.InitialInvestment))
		fmt.Fprintf(&b, "- Total cash received: %s\n", money(ret.TotalCash))
		fmt.Fprintf(&b, "- IRR: %.2f%%", ret.IRR.RatePct)
		if !ret.IRR.Converged {
			b.WriteString(" (estimate, solver did not converge)")
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "- MOIC: %.2fx\n\n", ret.MOIC)
	}

	return b.String()
}

var htmlRenderer = goldmark.New(goldmark.WithExtensions(extension.Table))

// HTML converts a rendered memo to HTML.
func HTML(markdown string) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlRenderer.Convert([]byte(markdown), &buf); err != nil {
		return nil, fmt.Errorf("render memo: %w", err)
	}
	return buf.Bytes(), nil
}

// money formats a dollar amount in millions with one decimal, the convention
// on term sheets.
func money(v float64) string {
	return fmt.Sprintf("$%.1fM", v/1e6)
}
