package report_test

import (
	"strings"
	"testing"

	"credit_engine/pkg/core/assumption"
	"credit_engine/pkg/core/covenant"
	"credit_engine/pkg/core/report"
	"credit_engine/pkg/core/returns"
	"credit_engine/pkg/core/scenario"
)

func sampleAnalysis(t *testing.T) *scenario.Analysis {
	t.Helper()
	a, err := scenario.Run(assumption.PaydownAssumptions{
		BaseRevenue:       72_000_000,
		RevenueGrowthPct:  5,
		EBITDAMarginPct:   25,
		InterestRatePct:   8,
		InitialDebt:       450_000_000,
		MandatoryAmortPct: 5,
		CashSweepPct:      50,
		HoldYears:         5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return a
}

func TestMarkdown_Sections(t *testing.T) {
	a := sampleAnalysis(t)
	cov, err := covenant.EvaluateProjection(a.Base.Years, assumption.CovenantThresholds{
		MaxLeverage: 30, MinDSCR: 0.5, MinInterestCoverage: 0.5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ret, err := returns.Compute(assumption.ReturnsInput{
		PrincipalAmount:   25_000_000,
		OIDPct:            2,
		UpfrontFeePct:     1,
		BaseRatePct:       5.25,
		SpreadBps:         500,
		HoldYears:         3,
		MandatoryAmortPct: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	md := report.Markdown("project-atlas", a, cov, ret)

	for _, want := range []string{
		"# Credit Analysis: project-atlas",
		"## Scenario Comparison",
		"| Base |",
		"| Upside |",
		"| Downside |",
		"## Base Case Schedule",
		"## Covenant Compliance (Base Case)",
		"## Lender Returns",
		"MOIC",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("memo missing %q", want)
		}
	}
}

func TestMarkdown_OptionalSectionsOmitted(t *testing.T) {
	md := report.Markdown("draft", sampleAnalysis(t), nil, nil)
	if strings.Contains(md, "Covenant Compliance") {
		t.Error("covenant section should be omitted without reports")
	}
	if strings.Contains(md, "Lender Returns") {
		t.Error("returns section should be omitted without a result")
	}
}

func TestMarkdown_Deterministic(t *testing.T) {
	a := sampleAnalysis(t)
	if report.Markdown("x", a, nil, nil) != report.Markdown("x", a, nil, nil) {
		t.Error("rendering the same analysis twice must be byte-identical")
	}
}

func TestHTML(t *testing.T) {
	md := report.Markdown("project-atlas", sampleAnalysis(t), nil, nil)
	html, err := report.HTML(md)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := string(html)
	if !strings.Contains(got, "<h1") || !strings.Contains(got, "project-atlas") {
		t.Error("expected rendered heading in HTML output")
	}
	if !strings.Contains(got, "<table") && !strings.Contains(got, "|") {
		t.Error("expected table content to survive conversion")
	}
}
