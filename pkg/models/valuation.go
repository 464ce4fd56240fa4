package models

import (
	"fmt"
	"time"
)

// CompanyFundamentals is the normalized dataset the valuation engine consumes.
// All monetary figures are in millions of the reporting currency.
type CompanyFundamentals struct {
	Ticker      string `json:"ticker"`
	DisplayName string `json:"display_name"`
	Currency    string `json:"currency"`
	Sector      string `json:"sector,omitempty"`

	CurrentPrice      float64 `json:"current_price"`
	SharesOutstanding float64 `json:"shares_outstanding"` // Millions
	Beta              float64 `json:"beta"`
	TotalDebt         float64 `json:"total_debt"` // Millions
	Cash              float64 `json:"cash"`       // Millions
	Revenue           float64 `json:"revenue"`    // Millions, trailing
	EBIT              float64 `json:"ebit"`       // Millions, may be negative

	EBITMargin  float64 `json:"ebit_margin"`
	TaxRate     float64 `json:"tax_rate"`
	GrowthStart float64 `json:"growth_start"`

	CompanyAgeYears int  `json:"company_age_years"`
	AgeEstimated    bool `json:"age_estimated"` // True when no first-trade date was available

	// EstimatedFields lists every field that was filled with a sector-typical
	// default instead of provider data. Defaults are policy, not errors, but
	// callers can use this as a confidence signal.
	EstimatedFields []string `json:"estimated_fields,omitempty"`

	FetchedAt time.Time `json:"fetched_at"`
}

// IsLossMaking reports whether trailing operating income is negative.
func (f *CompanyFundamentals) IsLossMaking() bool {
	return f.EBIT < 0
}

// MarketCap returns shares x price in millions.
func (f *CompanyFundamentals) MarketCap() float64 {
	return f.SharesOutstanding * f.CurrentPrice
}

// ValuationMode identifies which methodology produced the headline fair value.
type ValuationMode string

const (
	ModeStandard ValuationMode = "STANDARD"
	ModeStartup  ValuationMode = "STARTUP"
)

// CommentarySignal drives user-facing messaging. The core exposes the
// category as structured data; rendering is the caller's problem.
type CommentarySignal string

const (
	CommentaryStandard         CommentarySignal = "STANDARD"
	CommentaryOldAndMature     CommentarySignal = "OLD_AND_MATURE"
	CommentaryOldAndLossMaking CommentarySignal = "OLD_AND_LOSS_MAKING"
	CommentaryYoungStartup     CommentarySignal = "YOUNG_STARTUP_MODE"
)

// Parameter bounds, matching the interactive surface of the calculator.
const (
	MinForecastYears = 3
	MaxForecastYears = 10

	MinTerminalGrowth = 0.01
	MaxTerminalGrowth = 0.05

	MinManualDiscountRate = 0.05
	MaxManualDiscountRate = 0.25
)

// ValuationParameters are the user-tunable inputs for a single analysis.
// The value is immutable once handed to the engine: no hidden globals.
type ValuationParameters struct {
	ForecastYears      int      `json:"forecast_years"`
	TerminalGrowthRate float64  `json:"terminal_growth_rate"`
	ManualDiscountRate *float64 `json:"manual_discount_rate,omitempty"`
	ForceStartupMode   bool     `json:"force_startup_mode"`
	SectorMultiple     float64  `json:"sector_multiple"` // Price/Sales, used in startup mode
}

// DefaultParameters mirrors the calculator's slider defaults.
func DefaultParameters() ValuationParameters {
	return ValuationParameters{
		ForecastYears:      5,
		TerminalGrowthRate: 0.025,
		SectorMultiple:     5.0,
	}
}

// Validate enforces the parameter ranges of the interactive surface.
func (p ValuationParameters) Validate() error {
	if p.ForecastYears < MinForecastYears || p.ForecastYears > MaxForecastYears {
		return fmt.Errorf("forecast_years must be %d-%d, got %d", MinForecastYears, MaxForecastYears, p.ForecastYears)
	}
	if p.TerminalGrowthRate < MinTerminalGrowth || p.TerminalGrowthRate > MaxTerminalGrowth {
		return fmt.Errorf("terminal_growth_rate must be %.2f-%.2f, got %.4f", MinTerminalGrowth, MaxTerminalGrowth, p.TerminalGrowthRate)
	}
	if p.ManualDiscountRate != nil {
		if r := *p.ManualDiscountRate; r < MinManualDiscountRate || r > MaxManualDiscountRate {
			return fmt.Errorf("manual_discount_rate must be %.2f-%.2f, got %.4f", MinManualDiscountRate, MaxManualDiscountRate, r)
		}
	}
	if p.SectorMultiple <= 0 {
		return fmt.Errorf("sector_multiple must be positive, got %.2f", p.SectorMultiple)
	}
	return nil
}

// ValuationResult is the pure output of one engine run. It has no persisted
// identity beyond the request that produced it.
type ValuationResult struct {
	ID     string `json:"id"`
	Ticker string `json:"ticker"`

	SelectedMode ValuationMode    `json:"selected_mode"`
	Commentary   CommentarySignal `json:"commentary"`

	FairValueDCF      float64  `json:"fair_value_dcf"`
	FairValueMultiple *float64 `json:"fair_value_multiple,omitempty"` // Only in startup mode

	EffectiveDiscountRate float64   `json:"effective_discount_rate"`
	ProjectedFCF          []float64 `json:"projected_free_cash_flows"`
	GrowthPath            []float64 `json:"growth_path"`

	CurrentPrice float64 `json:"current_price"`
	Currency     string  `json:"currency"`
	UpsidePct    float64 `json:"upside_pct"`

	GeneratedAt time.Time `json:"generated_at"`
}

// FairValue returns the headline value for the selected mode: the multiple
// value in startup mode, the DCF value otherwise.
func (r *ValuationResult) FairValue() float64 {
	if r.SelectedMode == ModeStartup && r.FairValueMultiple != nil {
		return *r.FairValueMultiple
	}
	return r.FairValueDCF
}
