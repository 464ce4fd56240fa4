package valuation

import (
	"time"

	"github.com/google/uuid"

	"pro_valuation/pkg/core/assumption"
	"pro_valuation/pkg/models"
)

// Engine runs the full valuation suite on an already-loaded fundamentals
// snapshot. It is pure: no I/O, no shared state, safe for concurrent use.
type Engine struct {
	set assumption.Set
}

// NewEngine creates an engine with the given assumption set.
func NewEngine(set assumption.Set) *Engine {
	return &Engine{set: set}
}

// Analyze validates the parameters, selects the valuation mode, and computes
// the DCF value (always) and the multiple value (startup mode only).
//
// The DCF also runs in startup mode: the multiple is the headline there, but
// the projected cash flows and DCF value are still part of the result, per
// the calculator's original behavior.
func (e *Engine) Analyze(f *models.CompanyFundamentals, params models.ValuationParameters) (*models.ValuationResult, error) {
	if err := params.Validate(); err != nil {
		return nil, invalidAssumptions(ReasonParamOutOfRange, "%v", err)
	}
	if f.SharesOutstanding <= 0 {
		return nil, invalidAssumptions(ReasonNonPositiveShares,
			"fundamentals for %s carry no share count", f.Ticker)
	}

	decision := SelectMode(f, params, e.set)

	dcfRes, err := CalculateDCF(DCFInput{
		Revenue:            f.Revenue,
		EBITMargin:         f.EBITMargin,
		TaxRate:            f.TaxRate,
		GrowthStart:        f.GrowthStart,
		Beta:               f.Beta,
		SharesOutstanding:  f.SharesOutstanding,
		CurrentPrice:       f.CurrentPrice,
		TotalDebt:          f.TotalDebt,
		Cash:               f.Cash,
		ForecastYears:      params.ForecastYears,
		TerminalGrowth:     params.TerminalGrowthRate,
		ManualDiscountRate: params.ManualDiscountRate,
	}, e.set)
	if err != nil {
		return nil, err
	}

	result := &models.ValuationResult{
		ID:                    uuid.NewString(),
		Ticker:                f.Ticker,
		SelectedMode:          decision.Mode,
		Commentary:            decision.Commentary,
		FairValueDCF:          dcfRes.SharePrice,
		EffectiveDiscountRate: dcfRes.DiscountRate,
		ProjectedFCF:          dcfRes.FreeCashFlow,
		GrowthPath:            dcfRes.GrowthPath,
		CurrentPrice:          f.CurrentPrice,
		Currency:              f.Currency,
		GeneratedAt:           time.Now(),
	}

	if decision.Mode == models.ModeStartup {
		multVal, err := CalculateMultipleValue(MultipleInput{
			Revenue:           f.Revenue,
			SharesOutstanding: f.SharesOutstanding,
			Multiple:          params.SectorMultiple,
		})
		if err != nil {
			return nil, err
		}
		result.FairValueMultiple = &multVal
	}

	if f.CurrentPrice > 0 {
		result.UpsidePct = result.FairValue()/f.CurrentPrice - 1
	}

	return result, nil
}
