// Package assumption is the single authoritative source for the model's
// fixed assumptions and fallback defaults, so the loader and the valuation
// engine cannot drift apart on constants.
package assumption

// Set holds the fixed rates and policy defaults of the valuation model.
// These are deliberate modeling choices, not values derived from market data.
type Set struct {
	RiskFreeRate      float64 `json:"risk_free_rate"`
	EquityRiskPremium float64 `json:"equity_risk_premium"`
	PreTaxCostOfDebt  float64 `json:"pre_tax_cost_of_debt"`

	// ReinvestmentRate is the share of NOPAT assumed reinvested each period.
	ReinvestmentRate float64 `json:"reinvestment_rate"`

	// LongRunGrowth is the rate the explicit growth path converges to.
	LongRunGrowth float64 `json:"long_run_growth"`

	// Fallbacks applied when provider data is absent. Silent by policy;
	// the loader records each substitution on the fundamentals.
	DefaultBeta        float64 `json:"default_beta"`
	DefaultEBITMargin  float64 `json:"default_ebit_margin"`
	DefaultTaxRate     float64 `json:"default_tax_rate"`
	DefaultGrowthStart float64 `json:"default_growth_start"`
	DefaultCompanyAge  int     `json:"default_company_age"`

	// StartupAgeCutoff: above this listing age a loss-maker is treated as
	// distressed rather than growth-stage.
	StartupAgeCutoff int `json:"startup_age_cutoff"`

	DefaultSectorMultiple float64 `json:"default_sector_multiple"`
}

// Standard returns the model's baseline assumption set.
func Standard() Set {
	return Set{
		RiskFreeRate:      0.042,
		EquityRiskPremium: 0.05,
		PreTaxCostOfDebt:  0.045,
		ReinvestmentRate:  0.25,
		LongRunGrowth:     0.04,

		DefaultBeta:        1.0,
		DefaultEBITMargin:  0.20,
		DefaultTaxRate:     0.21,
		DefaultGrowthStart: 0.15,
		DefaultCompanyAge:  5,

		StartupAgeCutoff: 15,

		DefaultSectorMultiple: 5.0,
	}
}
