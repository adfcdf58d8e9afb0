// modelrun loads a model file (hjson, json or yaml), runs the scenario
// analysis, returns calculator and covenant report, and prints the results.
// With -save and DATABASE_URL set, the model record and computed analysis are
// persisted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"credit_engine/pkg/core/assumption"
	"credit_engine/pkg/core/covenant"
	"credit_engine/pkg/core/report"
	"credit_engine/pkg/core/returns"
	"credit_engine/pkg/core/scenario"
	"credit_engine/pkg/core/store"
	"credit_engine/pkg/core/validate"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	modelPath := flag.String("model", "", "path to model file (.hjson, .json, .yaml)")
	name := flag.String("name", "", "model name for persistence (defaults to the file's name field)")
	save := flag.Bool("save", false, "persist the model record and analysis (requires DATABASE_URL)")
	memoPath := flag.String("memo", "", "write an HTML deal memo to this path")
	flag.Parse()

	if *modelPath == "" {
		fmt.Println("usage: modelrun -model <file> [-name <name>] [-save]")
		os.Exit(2)
	}

	mf, err := assumption.LoadFile(*modelPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	analysis, fingerprint, err := runAnalysis(mf)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if ties := validate.ValidateSchedule(analysis.Base.Years, 0); !validate.AllPassed(ties) {
		for _, r := range ties {
			if !r.AllPassed {
				fmt.Printf("[WARNING] Year %d schedule ties failed: %s\n",
					r.Year, strings.Join(r.FailedChecks, "; "))
			}
		}
	}

	printSchedule(analysis)
	printComparison(analysis)

	var ret *returns.Result
	if mf.Returns != nil {
		ret, err = returns.Compute(*mf.Returns)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		printReturns(ret)
	}

	var covReports []covenant.MetricReport
	if mf.Covenants != nil {
		covReports, err = covenant.EvaluateProjection(analysis.Base.Years, *mf.Covenants)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		printCovenants(covReports)
	}

	if *memoPath != "" {
		memoName := *name
		if memoName == "" {
			memoName = mf.Name
		}
		if err := writeMemo(*memoPath, memoName, analysis, covReports, ret); err != nil {
			fmt.Printf("[WARNING] Memo failed: %v\n", err)
		}
	}

	if *save {
		if err := persist(mf, *name, fingerprint, analysis); err != nil {
			fmt.Printf("[WARNING] Persistence failed: %v\n", err)
		}
	}
}

func writeMemo(path, name string, analysis *scenario.Analysis, covReports []covenant.MetricReport, ret *returns.Result) error {
	md := report.Markdown(name, analysis, covReports, ret)
	html, err := report.HTML(md)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, html, 0644); err != nil {
		return err
	}
	fmt.Printf("[MEMO] wrote %s\n", path)
	return nil
}

func runAnalysis(mf *assumption.ModelFile) (*scenario.Analysis, string, error) {
	if mf.Granular != nil {
		fp, err := mf.Granular.Fingerprint()
		if err != nil {
			return nil, "", err
		}
		analysis, err := scenario.RunGranular(*mf.Granular)
		return analysis, fp, err
	}
	fp, err := mf.Paydown.Fingerprint()
	if err != nil {
		return nil, "", err
	}
	analysis, err := scenario.Run(*mf.Paydown)
	return analysis, fp, err
}

func printSchedule(a *scenario.Analysis) {
	fmt.Println("--- Base Case Schedule ---")
	fmt.Printf("%-4s %14s %14s %12s %12s %12s %14s %8s %6s\n",
		"Yr", "Revenue", "Adj EBITDA", "Interest", "Amort", "Sweep", "Ending Debt", "Lev", "DSCR")
	for _, y := range a.Base.Years {
		fmt.Printf("%-4d %14.0f %14.0f %12.0f %12.0f %12.0f %14.0f %7.2fx %6.2f\n",
			y.Year, y.Revenue, y.AdjustedEBITDA, y.Interest, y.MandatoryAmort,
			y.CashSweep, y.EndingDebt, y.Leverage, y.DSCR)
	}
	fmt.Println()
}

func printComparison(a *scenario.Analysis) {
	fmt.Println("--- Scenario Comparison ---")
	fmt.Printf("%-10s %10s %12s %10s %16s\n",
		"Scenario", "Exit Lev", "Paydown %", "Avg DSCR", "Total Paydown")
	for _, row := range a.Comparison {
		fmt.Printf("%-10s %9.2fx %11.1f%% %10.2f %16.0f\n",
			row.Scenario, row.ExitLeverage, row.PaydownPct, row.AverageDSCR, row.TotalPaydown)
	}
	fmt.Println()
}

func printReturns(r *returns.Result) {
	fmt.Println("--- Returns Calculator ---")
	fmt.Printf("Initial Investment: %.2f\n", returns.RoundCents(r.InitialInvestment))
	fmt.Printf("%-4s %16s %12s %12s %12s %10s %14s %16s\n",
		"Yr", "Begin Prin", "Interest", "Amort", "Prepay", "Premium", "Total Cash", "Cumulative")
	for _, row := range r.RoundedLedger() {
		fmt.Printf("%-4d %16.2f %12.2f %12.2f %12.2f %10.2f %14.2f %16.2f\n",
			row.Year, row.BeginningPrincipal, row.Interest, row.MandatoryAmort,
			row.Prepayment, row.PrepaymentPremium, row.TotalCash, row.CumulativeCash)
	}
	converged := "converged"
	if !r.IRR.Converged {
		converged = "NOT converged"
	}
	fmt.Printf("IRR: %.2f%% (%s in %d iterations)  MOIC: %.2fx\n",
		r.IRR.RatePct, converged, r.IRR.Iterations, r.MOIC)
	fmt.Printf("Total Interest: %.2f  Total Principal: %.2f  Total Fees: %.2f\n\n",
		returns.RoundCents(r.TotalInterest), returns.RoundCents(r.TotalPrincipal),
		returns.RoundCents(r.TotalFees))
}

func printCovenants(reports []covenant.MetricReport) {
	fmt.Println("--- Covenant Report ---")
	for _, rep := range reports {
		fmt.Printf("%s (threshold %.2f):\n", strings.ToUpper(rep.Metric), rep.Threshold)
		for _, p := range rep.Periods {
			fmt.Printf("  year %d: %-8s value=%.2f headroom=%.1f%%\n",
				p.Year, p.Assessment.Status, p.Value, p.Assessment.HeadroomPct)
		}
	}
	fmt.Println()
}

func persist(mf *assumption.ModelFile, name, fingerprint string, analysis *scenario.Analysis) error {
	ctx := context.Background()
	if err := store.InitDB(ctx); err != nil {
		return err
	}
	defer store.Close()

	if name == "" {
		name = mf.Name
	}
	rec, err := store.NewModelRecord(name, mf)
	if err != nil {
		return err
	}
	repo := store.NewModelRepo(store.GetPool())
	if err := repo.Save(ctx, rec); err != nil {
		return err
	}

	cache := store.NewAnalysisCache(store.GetPool(), "")
	if err := cache.Save(ctx, fingerprint, analysis); err != nil {
		return err
	}
	fmt.Printf("[SAVED] model %s (%s) id=%s\n", rec.Name, rec.Shape, rec.ID)
	return nil
}
