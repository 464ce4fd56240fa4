package fundamentals

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pro_valuation/pkg/core/assumption"
	"pro_valuation/pkg/models"
)

// Cache is the loader's view of the fundamentals cache. Nil is a valid
// cache (every load fetches).
type Cache interface {
	Get(ctx context.Context, ticker string) (*models.CompanyFundamentals, bool)
	Put(ctx context.Context, ticker string, f *models.CompanyFundamentals)
}

// Loader turns raw provider output into the normalized dataset the engine
// consumes: monetary figures in millions, documented defaults for missing
// fields, listing age derived from the first trade date.
type Loader struct {
	provider Provider
	cache    Cache
	set      assumption.Set

	// now is injectable for age-derivation tests.
	now func() time.Time
}

// NewLoader creates a loader. cache may be nil.
func NewLoader(provider Provider, cache Cache, set assumption.Set) *Loader {
	return &Loader{
		provider: provider,
		cache:    cache,
		set:      set,
		now:      time.Now,
	}
}

// Load fetches and normalizes fundamentals for a ticker, consulting the
// cache first. Errors abort the pipeline: no valuation math runs on
// incomplete data.
func (l *Loader) Load(ctx context.Context, ticker string) (*models.CompanyFundamentals, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, &DataError{Kind: KindNotFound, Ticker: ticker, Err: fmt.Errorf("empty ticker")}
	}

	if l.cache != nil {
		if cached, ok := l.cache.Get(ctx, ticker); ok {
			fmt.Printf("[LOADER] Cache HIT for %s (fetched %s)\n", ticker, cached.FetchedAt.Format(time.RFC3339))
			return cached, nil
		}
	}

	raw, err := l.provider.Fetch(ctx, ticker)
	if err != nil {
		return nil, err
	}

	f, err := l.normalize(ticker, raw)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		l.cache.Put(ctx, ticker, f)
	}
	return f, nil
}

// normalize applies the fallback policy and unit scaling. Defaults are
// silent by design; each substitution is recorded in EstimatedFields.
func (l *Loader) normalize(ticker string, raw *RawFundamentals) (*models.CompanyFundamentals, error) {
	if raw.CurrentPrice == nil || *raw.CurrentPrice <= 0 {
		return nil, &DataError{Kind: KindNotFound, Ticker: ticker, Err: fmt.Errorf("no current price")}
	}
	if !raw.HasBalanceSheet || !raw.HasIncomeStatement {
		return nil, &DataError{Kind: KindIncompleteStatements, Ticker: ticker,
			Err: fmt.Errorf("balance sheet present: %v, income statement present: %v", raw.HasBalanceSheet, raw.HasIncomeStatement)}
	}

	f := &models.CompanyFundamentals{
		Ticker:       ticker,
		DisplayName:  raw.LongName,
		Currency:     raw.Currency,
		Sector:       raw.Sector,
		CurrentPrice: *raw.CurrentPrice,
		FetchedAt:    l.now(),
	}
	if f.DisplayName == "" {
		f.DisplayName = ticker
	}
	if f.Currency == "" {
		f.Currency = "USD"
	}

	var estimated []string

	// Monetary figures to millions
	f.SharesOutstanding = toMillions(raw.SharesOutstanding)
	f.TotalDebt = toMillions(raw.TotalDebt)
	f.Cash = toMillions(raw.Cash)
	f.Revenue = toMillions(raw.Revenue)
	f.EBIT = toMillions(raw.EBIT)

	if raw.Beta != nil {
		f.Beta = *raw.Beta
	} else {
		f.Beta = l.set.DefaultBeta
		estimated = append(estimated, "beta")
	}

	if f.Revenue > 0 {
		f.EBITMargin = f.EBIT / f.Revenue
	} else {
		f.EBITMargin = l.set.DefaultEBITMargin
		estimated = append(estimated, "ebit_margin")
	}

	if raw.PretaxIncome != nil && *raw.PretaxIncome > 0 && raw.TaxProvision != nil {
		f.TaxRate = *raw.TaxProvision / *raw.PretaxIncome
	} else {
		f.TaxRate = l.set.DefaultTaxRate
		estimated = append(estimated, "tax_rate")
	}

	if raw.RevenueGrowth != nil {
		f.GrowthStart = *raw.RevenueGrowth
	} else {
		f.GrowthStart = l.set.DefaultGrowthStart
		estimated = append(estimated, "growth_start")
	}

	if raw.FirstTradeEpoch != nil {
		ipoYear := time.Unix(*raw.FirstTradeEpoch, 0).Year()
		age := l.now().Year() - ipoYear
		if age < 0 {
			age = 0
		}
		f.CompanyAgeYears = age
	} else {
		// Without a listing date the company is assumed neither old nor
		// brand new; downstream age heuristics are unreliable here, so the
		// estimate is flagged.
		f.CompanyAgeYears = l.set.DefaultCompanyAge
		f.AgeEstimated = true
		estimated = append(estimated, "company_age_years")
	}

	f.EstimatedFields = estimated
	return f, nil
}

func toMillions(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v / 1e6
}
