package valuation

import "fmt"

// ValidationReason classifies why a valuation request was rejected.
type ValidationReason string

const (
	ReasonWACCBelowTerminalGrowth ValidationReason = "WACC_BELOW_TERMINAL_GROWTH"
	ReasonNonPositiveShares       ValidationReason = "NON_POSITIVE_SHARES"
	ReasonZeroEnterpriseBase      ValidationReason = "ZERO_ENTERPRISE_BASE"
	ReasonParamOutOfRange         ValidationReason = "PARAM_OUT_OF_RANGE"
)

// ValidationError marks assumptions under which the model would produce
// infinite or meaningless output. These are terminal for the request.
type ValidationError struct {
	Reason ValidationReason
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid assumptions (%s): %s", e.Reason, e.Detail)
}

func invalidAssumptions(reason ValidationReason, format string, args ...interface{}) error {
	return &ValidationError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}
