package fundamentals

import (
	"context"
	"math"
	"testing"
	"time"

	"pro_valuation/pkg/core/assumption"
	"pro_valuation/pkg/models"
)

// fakeProvider returns a canned response and counts calls.
type fakeProvider struct {
	raw   *RawFundamentals
	err   error
	calls int
}

func (p *fakeProvider) Fetch(ctx context.Context, ticker string) (*RawFundamentals, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.raw, nil
}

func fullRaw() *RawFundamentals {
	price := 20.0
	shares := 500e6
	beta := 1.2
	debt := 100e6
	cash := 50e6
	revenue := 1000e6
	ebit := -50e6
	pretax := -60e6
	tax := 5e6
	growth := 0.20
	// Listed 2019 relative to the injected clock below
	epoch := time.Date(2019, 5, 10, 0, 0, 0, 0, time.UTC).Unix()
	return &RawFundamentals{
		Ticker:             "UBER",
		LongName:           "Uber Technologies, Inc.",
		Currency:           "USD",
		Sector:             "Technology",
		CurrentPrice:       &price,
		SharesOutstanding:  &shares,
		Beta:               &beta,
		TotalDebt:          &debt,
		Cash:               &cash,
		Revenue:            &revenue,
		EBIT:               &ebit,
		PretaxIncome:       &pretax,
		TaxProvision:       &tax,
		RevenueGrowth:      &growth,
		FirstTradeEpoch:    &epoch,
		HasBalanceSheet:    true,
		HasIncomeStatement: true,
	}
}

func newTestLoader(p Provider, cache Cache) *Loader {
	l := NewLoader(p, cache, assumption.Standard())
	l.now = func() time.Time { return time.Date(2027, 3, 1, 12, 0, 0, 0, time.UTC) }
	return l
}

func TestLoadNormalizesToMillions(t *testing.T) {
	loader := newTestLoader(&fakeProvider{raw: fullRaw()}, nil)

	f, err := loader.Load(context.Background(), "uber ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.Ticker != "UBER" {
		t.Errorf("ticker must be uppercased and trimmed, got %q", f.Ticker)
	}
	if f.SharesOutstanding != 500 {
		t.Errorf("expected 500M shares, got %f", f.SharesOutstanding)
	}
	if f.Revenue != 1000 || f.TotalDebt != 100 || f.Cash != 50 || f.EBIT != -50 {
		t.Errorf("monetary figures not in millions: rev=%f debt=%f cash=%f ebit=%f",
			f.Revenue, f.TotalDebt, f.Cash, f.EBIT)
	}
	if math.Abs(f.EBITMargin-(-0.05)) > 1e-9 {
		t.Errorf("expected margin -0.05, got %f", f.EBITMargin)
	}
	// 2027 - 2019 = 8 years listed
	if f.CompanyAgeYears != 8 {
		t.Errorf("expected age 8, got %d", f.CompanyAgeYears)
	}
	if f.AgeEstimated {
		t.Error("age came from a real first-trade date, must not be flagged")
	}
	// Negative pretax income: the derived rate would be nonsense, so the
	// default applies and is flagged.
	if f.TaxRate != 0.21 {
		t.Errorf("expected default tax rate for negative pretax income, got %f", f.TaxRate)
	}
	if len(f.EstimatedFields) != 1 || f.EstimatedFields[0] != "tax_rate" {
		t.Errorf("expected only tax_rate estimated, got %v", f.EstimatedFields)
	}
}

func TestLoadAppliesSilentDefaults(t *testing.T) {
	raw := fullRaw()
	raw.Beta = nil
	raw.RevenueGrowth = nil
	raw.FirstTradeEpoch = nil
	raw.PretaxIncome = nil
	raw.Revenue = nil
	raw.EBIT = nil

	loader := newTestLoader(&fakeProvider{raw: raw}, nil)
	f, err := loader.Load(context.Background(), "UBER")
	if err != nil {
		t.Fatalf("defaults are policy, not errors: %v", err)
	}

	if f.Beta != 1.0 {
		t.Errorf("expected default beta 1.0, got %f", f.Beta)
	}
	if f.EBITMargin != 0.20 {
		t.Errorf("expected default margin 0.20, got %f", f.EBITMargin)
	}
	if f.TaxRate != 0.21 {
		t.Errorf("expected default tax rate 0.21, got %f", f.TaxRate)
	}
	if f.GrowthStart != 0.15 {
		t.Errorf("expected default growth 0.15, got %f", f.GrowthStart)
	}
	if f.CompanyAgeYears != 5 || !f.AgeEstimated {
		t.Errorf("expected estimated age 5, got %d (estimated=%v)", f.CompanyAgeYears, f.AgeEstimated)
	}

	want := map[string]bool{"beta": true, "ebit_margin": true, "tax_rate": true, "growth_start": true, "company_age_years": true}
	if len(f.EstimatedFields) != len(want) {
		t.Fatalf("expected %d estimated fields, got %v", len(want), f.EstimatedFields)
	}
	for _, field := range f.EstimatedFields {
		if !want[field] {
			t.Errorf("unexpected estimated field %q", field)
		}
	}
}

func TestLoadMissingPriceIsNotFound(t *testing.T) {
	raw := fullRaw()
	raw.CurrentPrice = nil

	loader := newTestLoader(&fakeProvider{raw: raw}, nil)
	_, err := loader.Load(context.Background(), "NOPE")
	if !IsNotFound(err) {
		t.Fatalf("expected NotFound data error, got %v", err)
	}
}

func TestLoadMissingStatementsIsIncomplete(t *testing.T) {
	raw := fullRaw()
	raw.HasBalanceSheet = false

	loader := newTestLoader(&fakeProvider{raw: raw}, nil)
	_, err := loader.Load(context.Background(), "UBER")
	if !IsIncompleteStatements(err) {
		t.Fatalf("expected IncompleteStatements data error, got %v", err)
	}
}

// memCache is a minimal Cache for wiring tests.
type memCache struct {
	entries map[string]*models.CompanyFundamentals
}

func (c *memCache) Get(ctx context.Context, ticker string) (*models.CompanyFundamentals, bool) {
	f, ok := c.entries[ticker]
	return f, ok
}

func (c *memCache) Put(ctx context.Context, ticker string, f *models.CompanyFundamentals) {
	c.entries[ticker] = f
}

func TestLoadUsesCache(t *testing.T) {
	provider := &fakeProvider{raw: fullRaw()}
	cache := &memCache{entries: make(map[string]*models.CompanyFundamentals)}
	loader := newTestLoader(provider, cache)

	first, err := loader.Load(context.Background(), "UBER")
	if err != nil {
		t.Fatal(err)
	}
	second, err := loader.Load(context.Background(), "UBER")
	if err != nil {
		t.Fatal(err)
	}

	if provider.calls != 1 {
		t.Errorf("expected a single provider fetch, got %d", provider.calls)
	}
	if first != second {
		t.Error("cache hit must return the stored snapshot")
	}
}
