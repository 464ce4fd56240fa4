package valuation

import (
	"errors"
	"math"
	"testing"
)

func TestMultipleValueWorkedExample(t *testing.T) {
	// revenue 1000M * 5.0x = 5000M implied cap / 500M shares = 10.00/share
	val, err := CalculateMultipleValue(MultipleInput{Revenue: 1000, SharesOutstanding: 500, Multiple: 5.0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(val-10.0) > tol {
		t.Errorf("expected 10.00 per share, got %f", val)
	}
}

func TestMultipleValueLinearInMultiple(t *testing.T) {
	a, err := CalculateMultipleValue(MultipleInput{Revenue: 730, SharesOutstanding: 42, Multiple: 3.0})
	if err != nil {
		t.Fatal(err)
	}
	b, err := CalculateMultipleValue(MultipleInput{Revenue: 730, SharesOutstanding: 42, Multiple: 6.0})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(b-2*a) > tol {
		t.Errorf("doubling the multiple must double the value: %f vs %f", a, b)
	}
}

func TestMultipleValueRequiresShares(t *testing.T) {
	_, err := CalculateMultipleValue(MultipleInput{Revenue: 1000, SharesOutstanding: 0, Multiple: 5.0})

	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Reason != ReasonNonPositiveShares {
		t.Fatalf("expected NonPositiveShares validation error, got %v", err)
	}
}
