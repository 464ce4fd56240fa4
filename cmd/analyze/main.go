// Command analyze runs a one-shot valuation for a ticker and prints the
// markdown summary to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"pro_valuation/pkg/core/assumption"
	"pro_valuation/pkg/core/fundamentals"
	"pro_valuation/pkg/core/report"
	"pro_valuation/pkg/core/store"
	"pro_valuation/pkg/core/valuation"
	"pro_valuation/pkg/models"
)

func main() {
	godotenv.Load()

	ticker := flag.String("ticker", "", "stock symbol to value (e.g. UBER, NVDA)")
	years := flag.Int("years", 5, "forecast horizon in years (3-10)")
	terminalGrowth := flag.Float64("g", 0.025, "terminal growth rate (0.01-0.05)")
	manualWACC := flag.Float64("wacc", 0, "manual discount rate override (0.05-0.25, 0 = computed)")
	forceStartup := flag.Bool("startup", false, "force startup (revenue-multiple) mode")
	multiple := flag.Float64("multiple", 5.0, "Price/Sales multiple, honored only with -startup")
	timeout := flag.Duration("timeout", 30*time.Second, "fetch timeout")
	flag.Parse()

	if *ticker == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze -ticker SYMBOL [-years N] [-g RATE] [-wacc RATE] [-startup] [-multiple M]")
		os.Exit(2)
	}

	set := assumption.Standard()
	cache := store.NewFundamentalsCache(nil, 0)
	loader := fundamentals.NewLoader(fundamentals.NewYahooProvider(), cache, set)
	engine := valuation.NewEngine(set)

	params := models.ValuationParameters{
		ForecastYears:      *years,
		TerminalGrowthRate: *terminalGrowth,
		ForceStartupMode:   *forceStartup,
		SectorMultiple:     set.DefaultSectorMultiple,
	}
	if *forceStartup {
		params.SectorMultiple = *multiple
	}
	if *manualWACC != 0 {
		params.ManualDiscountRate = manualWACC
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	f, err := loader.Load(ctx, *ticker)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}

	result, err := engine.Analyze(f, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}

	fmt.Println(report.BuildMarkdown(result, f))
}
