package benchfolio

import (
	"fmt"
	"time"
)

// TradeType is the direction of a ledger entry.
type TradeType string

const (
	TradeBuy  TradeType = "BUY"
	TradeSell TradeType = "SELL"
)

// RawRow is one trade ledger entry exactly as the upload layer hands it
// over: every field string-typed, nothing validated.
type RawRow struct {
	Symbol    string `json:"symbol"`
	TradeType string `json:"trade_type"`
	Quantity  string `json:"quantity"`
	Price     string `json:"price"`
	TradeDate string `json:"trade_date"`
}

// TransactionRow is a validated ledger entry. TradeDate is an ISO
// calendar date (YYYY-MM-DD); quantity may have been clamped by the
// cleaner.
type TransactionRow struct {
	Symbol    string    `json:"symbol"`
	TradeType TradeType `json:"trade_type"`
	Quantity  int64     `json:"quantity"`
	Price     Amount    `json:"price"`
	TradeDate string    `json:"trade_date"`
}

// PricePoint is one closing price on a calendar date.
type PricePoint struct {
	Date  string `json:"date"`
	Close Amount `json:"close"`
}

// PriceSeries is a date-ascending sequence of closing prices for one
// symbol. Empty means the fetch failed or the symbol is unknown.
type PriceSeries []PricePoint

// CloseOn returns the closing price recorded exactly on the given
// calendar date. Lookups are by calendar date, never by timestamp.
func (s PriceSeries) CloseOn(date string) (Amount, bool) {
	for _, p := range s {
		if p.Date == date {
			return p.Close, true
		}
		if p.Date > date {
			break
		}
	}
	return Amount{}, false
}

// MonthKey identifies a calendar month.
type MonthKey struct {
	Year  int
	Month time.Month
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Contains reports whether the ISO date falls inside the month.
func (k MonthKey) Contains(date string) bool {
	if len(date) < 7 {
		return false
	}
	return date[:7] == k.String()
}

// TradingCalendar maps months to their resolved last trading day.
// Months the reference series never traded in are simply absent.
type TradingCalendar map[MonthKey]string

// Months returns the calendar's keys in chronological order.
func (c TradingCalendar) Months() []MonthKey {
	keys := make([]MonthKey, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && beforeMonth(keys[j], keys[j-1]); j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}

func beforeMonth(a, b MonthKey) bool {
	if a.Year != b.Year {
		return a.Year < b.Year
	}
	return a.Month < b.Month
}

// ValuationPoint is one month-end comparison of the real portfolio
// against the cash-flow-matched benchmark position. GainPercent is nil
// (JSON null) when the benchmark value is zero, since the ratio is
// undefined for that month.
type ValuationPoint struct {
	Date           string  `json:"date"`
	PortfolioValue Amount  `json:"portfolio_value"`
	AlternateValue Amount  `json:"alternate_value"`
	GainPercent    *Amount `json:"gain_percent"`
}

// Diagnostic stages.
const (
	StageClean    = "clean"
	StageFetch    = "fetch"
	StageCalendar = "calendar"
	StageReplay   = "replay"
)

// Diagnostic codes. Data-quality events are recovered locally and
// recorded here so callers can assert on them instead of parsing logs.
const (
	DiagRowMissingField       = "row_missing_field"
	DiagRowBadQuantity        = "row_bad_quantity"
	DiagRowBadPrice           = "row_bad_price"
	DiagRowBadDate            = "row_bad_date"
	DiagRowUnknownTradeType   = "row_unknown_trade_type"
	DiagSellClamped           = "sell_clamped"
	DiagSellNoHoldings        = "sell_no_holdings"
	DiagFetchFailed           = "fetch_failed"
	DiagNoPriceDataset        = "no_price_dataset"
	DiagReferenceSeriesEmpty  = "reference_series_empty"
	DiagMonthNoTradingDay     = "month_no_trading_day"
	DiagBenchmarkPriceMissing = "benchmark_price_missing"
	DiagSymbolPriceMissing    = "symbol_price_missing"
	DiagGainUndefined         = "gain_undefined"
)

// Diagnostic is one recoverable data-quality or dependency event
// observed during a pipeline stage.
type Diagnostic struct {
	Stage  string `json:"stage"`
	Code   string `json:"code"`
	Symbol string `json:"symbol,omitempty"`
	Date   string `json:"date,omitempty"`
	Detail string `json:"detail"`
}

// ReportParams are the engine inputs for one run. Zero values fall back
// to the Core defaults, so concurrent runs with different parameters
// never share state.
type ReportParams struct {
	ReferenceSymbol string   `json:"reference_symbol"`
	BenchmarkSymbol string   `json:"benchmark_symbol"`
	Period          string   `json:"period"`
	Filter          string   `json:"filter"`
	Months          int      `json:"months"`
	IndexSymbols    []string `json:"index_symbols,omitempty"`
	AsOf            string   `json:"as_of,omitempty"`
}

// Report is one persisted valuation run.
type Report struct {
	ID          int64            `json:"id"`
	CreatedAt   string           `json:"created_at"`
	Params      ReportParams     `json:"params"`
	WindowStart string           `json:"window_start"`
	WindowEnd   string           `json:"window_end"`
	Points      []ValuationPoint `json:"points"`
	Diagnostics []Diagnostic     `json:"diagnostics"`
	Message     string           `json:"message,omitempty"`
	Insight     *string          `json:"insight,omitempty"`
}

// ReportSummary is a report header for listings.
type ReportSummary struct {
	ID              int64  `json:"id"`
	CreatedAt       string `json:"created_at"`
	ReferenceSymbol string `json:"reference_symbol"`
	BenchmarkSymbol string `json:"benchmark_symbol"`
	WindowStart     string `json:"window_start"`
	WindowEnd       string `json:"window_end"`
	PointCount      int    `json:"point_count"`
	Message         string `json:"message,omitempty"`
}
