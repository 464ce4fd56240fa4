package valuation

import (
	"math"

	"pro_valuation/pkg/core/assumption"
)

// DCFInput encapsulates all inputs required for a Discounted Cash Flow valuation
type DCFInput struct {
	Revenue           float64 // Millions, trailing
	EBITMargin        float64
	TaxRate           float64
	GrowthStart       float64
	Beta              float64
	SharesOutstanding float64 // Millions
	CurrentPrice      float64
	TotalDebt         float64 // Millions
	Cash              float64 // Millions

	ForecastYears  int
	TerminalGrowth float64 // e.g. 0.025

	// ManualDiscountRate overrides the computed WACC entirely when set.
	ManualDiscountRate *float64
}

// DCFResult holds the valuation outputs
type DCFResult struct {
	EnterpriseValue float64
	EquityValue     float64
	SharePrice      float64
	PV_FCF          float64
	PV_Terminal     float64

	DiscountRate float64   // Effective rate used (WACC or manual override)
	GrowthPath   []float64 // Per-period growth rates, len == ForecastYears
	FreeCashFlow []float64 // Per-period FCFF, len == ForecastYears
}

// GrowthPath interpolates the per-period revenue growth rate linearly from
// start down (or up) to the long-run rate, inclusive of both endpoints.
func GrowthPath(start, longRun float64, years int) []float64 {
	rates := make([]float64, years)
	if years == 1 {
		rates[0] = start
		return rates
	}
	step := (longRun - start) / float64(years-1)
	for i := range rates {
		rates[i] = start + step*float64(i)
	}
	// Pin the endpoint exactly, step accumulation can drift in the last ulp
	rates[years-1] = longRun
	return rates
}

// CalculateDCF performs a 2-stage FCFF valuation: explicit forecast with
// mid-year discounting, then a Gordon growth terminal value.
func CalculateDCF(input DCFInput, set assumption.Set) (DCFResult, error) {
	if input.SharesOutstanding <= 0 {
		return DCFResult{}, invalidAssumptions(ReasonNonPositiveShares,
			"shares outstanding must be positive, got %f", input.SharesOutstanding)
	}
	if input.ForecastYears < 1 {
		return DCFResult{}, invalidAssumptions(ReasonParamOutOfRange,
			"forecast horizon must be at least 1 year, got %d", input.ForecastYears)
	}

	// 1. Discount rate: a manual override skips the WACC derivation entirely,
	// so a degenerate capital structure only matters when we have to compute it
	var wacc float64
	if input.ManualDiscountRate != nil {
		wacc = *input.ManualDiscountRate
	} else {
		waccRes, err := CalculateWACC(WACCInput{
			Beta:              input.Beta,
			SharesOutstanding: input.SharesOutstanding,
			CurrentPrice:      input.CurrentPrice,
			TotalDebt:         input.TotalDebt,
			TaxRate:           input.TaxRate,
		}, set)
		if err != nil {
			return DCFResult{}, err
		}
		wacc = waccRes.WACC
	}

	// The Gordon growth capitalization is meaningless at WACC <= g
	if wacc <= input.TerminalGrowth {
		return DCFResult{}, invalidAssumptions(ReasonWACCBelowTerminalGrowth,
			"discount rate %.4f must exceed terminal growth %.4f", wacc, input.TerminalGrowth)
	}

	// 2. Explicit forecast: revenue-driven FCFF
	growthPath := GrowthPath(input.GrowthStart, set.LongRunGrowth, input.ForecastYears)

	fcffs := make([]float64, 0, input.ForecastYears)
	lastRev := input.Revenue
	for _, gr := range growthPath {
		rev := lastRev * (1 + gr)
		ebit := rev * input.EBITMargin
		nopat := ebit * (1 - input.TaxRate)
		reinvestment := nopat * set.ReinvestmentRate
		fcffs = append(fcffs, nopat-reinvestment)
		lastRev = rev
	}

	// 3. Present value of the explicit forecast, mid-year convention
	var pvFCF float64
	for y, fcff := range fcffs {
		discount := 1 / math.Pow(1+wacc, float64(y+1)-0.5)
		pvFCF += fcff * discount
	}

	// 4. Terminal value (Gordon growth), discounted end-of-horizon
	terminalVal := fcffs[len(fcffs)-1] * (1 + input.TerminalGrowth) / (wacc - input.TerminalGrowth)
	pvTerminal := terminalVal / math.Pow(1+wacc, float64(input.ForecastYears))

	// 5. Aggregation
	ev := pvFCF + pvTerminal
	eqVal := ev - input.TotalDebt + input.Cash
	sharePrice := eqVal / input.SharesOutstanding

	return DCFResult{
		EnterpriseValue: ev,
		EquityValue:     eqVal,
		SharePrice:      sharePrice,
		PV_FCF:          pvFCF,
		PV_Terminal:     pvTerminal,
		DiscountRate:    wacc,
		GrowthPath:      growthPath,
		FreeCashFlow:    fcffs,
	}, nil
}
