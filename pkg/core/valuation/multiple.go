package valuation

// MultipleInput holds the inputs for a revenue-multiple valuation
type MultipleInput struct {
	Revenue           float64 // Millions, trailing
	SharesOutstanding float64 // Millions
	Multiple          float64 // Price/Sales
}

// CalculateMultipleValue derives a per-share fair value from a Price/Sales
// multiple. Used for early-stage or loss-making companies where earnings
// based models break down.
func CalculateMultipleValue(input MultipleInput) (float64, error) {
	if input.SharesOutstanding <= 0 {
		return 0, invalidAssumptions(ReasonNonPositiveShares,
			"shares outstanding must be positive, got %f", input.SharesOutstanding)
	}
	impliedCap := input.Revenue * input.Multiple
	return impliedCap / input.SharesOutstanding, nil
}
