package valuation

import (
	"pro_valuation/pkg/core/assumption"
)

// WACCInput parameters for calculating the blended discount rate
type WACCInput struct {
	Beta              float64
	SharesOutstanding float64 // Millions
	CurrentPrice      float64
	TotalDebt         float64 // Millions
	TaxRate           float64
}

// WACCResult holds the calculated rates and weights
type WACCResult struct {
	CostOfEquity float64
	CostOfDebt   float64 // After-tax
	WACC         float64
	WeightDebt   float64
	WeightEquity float64
}

// CalculateWACC computes the Weighted Average Cost of Capital using CAPM for
// the equity leg and market-value capital weights.
func CalculateWACC(input WACCInput, set assumption.Set) (WACCResult, error) {
	// 1. Cost of Equity (CAPM)
	// Ke = Rf + Beta * ERP
	ke := set.RiskFreeRate + input.Beta*set.EquityRiskPremium

	// 2. Capital weights from market values
	// V = MarketCap + Debt; We = E/V; Wd = D/V
	marketCap := input.SharesOutstanding * input.CurrentPrice
	enterpriseBase := marketCap + input.TotalDebt
	if enterpriseBase == 0 {
		return WACCResult{}, invalidAssumptions(ReasonZeroEnterpriseBase,
			"market cap and total debt are both zero")
	}
	we := marketCap / enterpriseBase
	wd := input.TotalDebt / enterpriseBase

	// 3. Cost of Debt (After-tax)
	// Kd = PreTaxKd * (1 - t)
	kd := set.PreTaxCostOfDebt * (1 - input.TaxRate)

	// 4. WACC
	wacc := (we * ke) + (wd * kd)

	return WACCResult{
		CostOfEquity: ke,
		CostOfDebt:   kd,
		WACC:         wacc,
		WeightDebt:   wd,
		WeightEquity: we,
	}, nil
}
