package fundamentals

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	jsonrepair "github.com/RealAlexandreAI/json-repair"
)

const (
	defaultChartBaseURL        = "https://query1.finance.yahoo.com/v8/finance/chart"
	defaultQuoteSummaryBaseURL = "https://query2.finance.yahoo.com/v10/finance/quoteSummary"
	defaultStatsBaseURL        = "https://finance.yahoo.com/quote"

	// Browser-like UA; the bare Go default gets blocked.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	quoteSummaryModules = "price,assetProfile,defaultKeyStatistics,financialData,incomeStatementHistory,balanceSheetHistory"
)

// YahooProvider fetches fundamentals from Yahoo Finance: the chart API for
// price/currency/first-trade date, the quoteSummary API for statements and
// statistics, and the quote page itself as a scraping fallback when the
// quoteSummary API refuses the request.
type YahooProvider struct {
	httpClient          *http.Client
	chartBaseURL        string
	quoteSummaryBaseURL string
	statsBaseURL        string
}

// NewYahooProvider creates a provider with production endpoints.
func NewYahooProvider() *YahooProvider {
	return &YahooProvider{
		httpClient:          &http.Client{Timeout: 10 * time.Second},
		chartBaseURL:        defaultChartBaseURL,
		quoteSummaryBaseURL: defaultQuoteSummaryBaseURL,
		statsBaseURL:        defaultStatsBaseURL,
	}
}

// NewYahooProviderWithBaseURLs creates a provider pointed at custom
// endpoints. Used by tests against a local httptest server.
func NewYahooProviderWithBaseURLs(client *http.Client, chartURL, quoteSummaryURL, statsURL string) *YahooProvider {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &YahooProvider{
		httpClient:          client,
		chartBaseURL:        chartURL,
		quoteSummaryBaseURL: quoteSummaryURL,
		statsBaseURL:        statsURL,
	}
}

// --- Wire types ---

// yahooNum is Yahoo's {"raw": 123.4, "fmt": "123.40"} number wrapper.
type yahooNum struct {
	Raw *float64 `json:"raw"`
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
				FirstTradeDate     int64   `json:"firstTradeDate"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

type quoteSummaryResult struct {
	Price *struct {
		LongName           string   `json:"longName"`
		Currency           string   `json:"currency"`
		RegularMarketPrice yahooNum `json:"regularMarketPrice"`
	} `json:"price"`
	AssetProfile *struct {
		Sector string `json:"sector"`
	} `json:"assetProfile"`
	DefaultKeyStatistics *struct {
		SharesOutstanding yahooNum `json:"sharesOutstanding"`
		Beta              yahooNum `json:"beta"`
	} `json:"defaultKeyStatistics"`
	FinancialData *struct {
		TotalDebt     yahooNum `json:"totalDebt"`
		TotalCash     yahooNum `json:"totalCash"`
		TotalRevenue  yahooNum `json:"totalRevenue"`
		RevenueGrowth yahooNum `json:"revenueGrowth"`
	} `json:"financialData"`
	IncomeStatementHistory *struct {
		Statements []struct {
			TotalRevenue     yahooNum `json:"totalRevenue"`
			EBIT             yahooNum `json:"ebit"`
			IncomeBeforeTax  yahooNum `json:"incomeBeforeTax"`
			IncomeTaxExpense yahooNum `json:"incomeTaxExpense"`
		} `json:"incomeStatementHistory"`
	} `json:"incomeStatementHistory"`
	BalanceSheetHistory *struct {
		Statements []struct {
			Cash              yahooNum `json:"cash"`
			ShortLongTermDebt yahooNum `json:"shortLongTermDebt"`
			LongTermDebt      yahooNum `json:"longTermDebt"`
		} `json:"balanceSheetStatements"`
	} `json:"balanceSheetHistory"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  interface{}          `json:"error"`
	} `json:"quoteSummary"`
}

// Fetch retrieves raw fundamentals for a ticker. The chart call must
// succeed (it carries the live price); statement data degrades through the
// scraping fallback before giving up.
func (p *YahooProvider) Fetch(ctx context.Context, ticker string) (*RawFundamentals, error) {
	raw := &RawFundamentals{Ticker: ticker}

	if err := p.fetchChart(ctx, ticker, raw); err != nil {
		return nil, &DataError{Kind: KindNotFound, Ticker: ticker, Err: err}
	}

	summary, err := p.fetchQuoteSummary(ctx, ticker)
	if err != nil {
		fmt.Printf("[YAHOO] quoteSummary failed for %s: %v, trying page scrape\n", ticker, err)
		summary, err = p.scrapeQuoteSummary(ctx, ticker)
	}
	if err != nil {
		return nil, &DataError{Kind: KindIncompleteStatements, Ticker: ticker, Err: err}
	}

	applyQuoteSummary(summary, raw)
	return raw, nil
}

func (p *YahooProvider) fetchChart(ctx context.Context, ticker string, raw *RawFundamentals) error {
	body, err := p.getJSON(ctx, fmt.Sprintf("%s/%s", p.chartBaseURL, ticker))
	if err != nil {
		return err
	}

	var chartResp yahooChartResponse
	if err := json.Unmarshal(body, &chartResp); err != nil {
		return fmt.Errorf("failed to parse chart response: %w", err)
	}
	if len(chartResp.Chart.Result) == 0 {
		return fmt.Errorf("no chart data for ticker %s", ticker)
	}

	meta := chartResp.Chart.Result[0].Meta
	if meta.RegularMarketPrice <= 0 {
		return fmt.Errorf("no live price for ticker %s", ticker)
	}

	price := meta.RegularMarketPrice
	raw.CurrentPrice = &price
	raw.Currency = meta.Currency
	if meta.FirstTradeDate > 0 {
		ts := meta.FirstTradeDate
		raw.FirstTradeEpoch = &ts
	}
	return nil
}

func (p *YahooProvider) fetchQuoteSummary(ctx context.Context, ticker string) (*quoteSummaryResult, error) {
	url := fmt.Sprintf("%s/%s?modules=%s", p.quoteSummaryBaseURL, ticker, quoteSummaryModules)
	body, err := p.getJSON(ctx, url)
	if err != nil {
		return nil, err
	}

	var resp quoteSummaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse quoteSummary response: %w", err)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("empty quoteSummary for %s", ticker)
	}
	return &resp.QuoteSummary.Result[0], nil
}

// scrapeQuoteSummary pulls the quote page and digs the embedded
// QuoteSummaryStore JSON out of the bootstrap script. The blob is routinely
// truncated or sloppy (trailing commas, cut-off arrays), so it goes through
// json-repair before unmarshal.
func (p *YahooProvider) scrapeQuoteSummary(ctx context.Context, ticker string) (*quoteSummaryResult, error) {
	url := fmt.Sprintf("%s/%s/key-statistics", p.statsBaseURL, ticker)
	body, err := p.getJSON(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse stats page: %w", err)
	}

	var blob string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if idx := strings.Index(text, `"QuoteSummaryStore":`); idx >= 0 {
			blob = text[idx+len(`"QuoteSummaryStore":`):]
			return false
		}
		return true
	})
	if blob == "" {
		return nil, fmt.Errorf("no QuoteSummaryStore blob on stats page for %s", ticker)
	}

	// Take everything up to the next store key; the repair pass closes
	// whatever braces the cut left dangling.
	if end := strings.Index(blob, `,"FinanceConfigStore"`); end >= 0 {
		blob = blob[:end]
	}
	repaired, err := jsonrepair.RepairJSON(blob)
	if err != nil {
		return nil, fmt.Errorf("failed to repair scraped JSON: %w", err)
	}

	var result quoteSummaryResult
	if err := json.Unmarshal([]byte(repaired), &result); err != nil {
		return nil, fmt.Errorf("failed to parse scraped QuoteSummaryStore: %w", err)
	}
	return &result, nil
}

func applyQuoteSummary(s *quoteSummaryResult, raw *RawFundamentals) {
	if s.Price != nil {
		raw.LongName = s.Price.LongName
		if raw.Currency == "" {
			raw.Currency = s.Price.Currency
		}
		if raw.CurrentPrice == nil && s.Price.RegularMarketPrice.Raw != nil {
			raw.CurrentPrice = s.Price.RegularMarketPrice.Raw
		}
	}
	if s.AssetProfile != nil {
		raw.Sector = s.AssetProfile.Sector
	}
	if s.DefaultKeyStatistics != nil {
		raw.SharesOutstanding = s.DefaultKeyStatistics.SharesOutstanding.Raw
		raw.Beta = s.DefaultKeyStatistics.Beta.Raw
	}
	if s.FinancialData != nil {
		raw.TotalDebt = s.FinancialData.TotalDebt.Raw
		raw.Cash = s.FinancialData.TotalCash.Raw
		raw.Revenue = s.FinancialData.TotalRevenue.Raw
		raw.RevenueGrowth = s.FinancialData.RevenueGrowth.Raw
	}
	if s.IncomeStatementHistory != nil && len(s.IncomeStatementHistory.Statements) > 0 {
		raw.HasIncomeStatement = true
		latest := s.IncomeStatementHistory.Statements[0]
		if raw.Revenue == nil {
			raw.Revenue = latest.TotalRevenue.Raw
		}
		raw.EBIT = latest.EBIT.Raw
		raw.PretaxIncome = latest.IncomeBeforeTax.Raw
		raw.TaxProvision = latest.IncomeTaxExpense.Raw
	}
	if s.BalanceSheetHistory != nil && len(s.BalanceSheetHistory.Statements) > 0 {
		raw.HasBalanceSheet = true
		latest := s.BalanceSheetHistory.Statements[0]
		if raw.Cash == nil {
			raw.Cash = latest.Cash.Raw
		}
		if raw.TotalDebt == nil {
			var debt float64
			var have bool
			if latest.ShortLongTermDebt.Raw != nil {
				debt += *latest.ShortLongTermDebt.Raw
				have = true
			}
			if latest.LongTermDebt.Raw != nil {
				debt += *latest.LongTermDebt.Raw
				have = true
			}
			if have {
				raw.TotalDebt = &debt
			}
		}
	}
}

func (p *YahooProvider) getJSON(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, text/html")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo returned status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
