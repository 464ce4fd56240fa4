// Package fundamentals retrieves and normalizes the minimal financial
// dataset the valuation engine needs for a ticker.
package fundamentals

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies provider failures.
type ErrorKind string

const (
	// KindNotFound: the provider has no live price for the symbol.
	KindNotFound ErrorKind = "NOT_FOUND"
	// KindIncompleteStatements: balance-sheet or income-statement data is empty.
	KindIncompleteStatements ErrorKind = "INCOMPLETE_STATEMENTS"
)

// DataError is a terminal failure for the request; no partial result exists.
type DataError struct {
	Kind   ErrorKind
	Ticker string
	Err    error
}

func (e *DataError) Error() string {
	msg := fmt.Sprintf("data error (%s) for %s", e.Kind, e.Ticker)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a DataError of kind NotFound.
func IsNotFound(err error) bool {
	var de *DataError
	return errors.As(err, &de) && de.Kind == KindNotFound
}

// IsIncompleteStatements reports whether err is a DataError of kind
// IncompleteStatements.
func IsIncompleteStatements(err error) bool {
	var de *DataError
	return errors.As(err, &de) && de.Kind == KindIncompleteStatements
}

// RawFundamentals is the provider's view of a company before normalization.
// Monetary values are in absolute units of the reporting currency; nil
// pointers mean the provider had no data for that field.
type RawFundamentals struct {
	Ticker   string
	LongName string
	Currency string
	Sector   string

	CurrentPrice      *float64
	SharesOutstanding *float64
	Beta              *float64

	TotalDebt *float64
	Cash      *float64

	Revenue       *float64
	EBIT          *float64
	PretaxIncome  *float64
	TaxProvision  *float64
	RevenueGrowth *float64

	FirstTradeEpoch *int64 // Unix seconds of first trade

	HasBalanceSheet    bool
	HasIncomeStatement bool
}

// Provider fetches raw fundamentals for a ticker. Implementations make one
// or more network calls; fetches are idempotent, so concurrent duplicate
// fetches for the same ticker are wasteful but harmless.
type Provider interface {
	Fetch(ctx context.Context, ticker string) (*RawFundamentals, error)
}
