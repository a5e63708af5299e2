package benchfolio

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Replay chronologically replays the cleaned ledger against the
// trading calendar, producing one ValuationPoint per resolved month.
//
// Two pieces of state accumulate across the whole run: per-symbol share
// holdings, and a normalized unit count in the benchmark instrument.
// Every trade's cash value is mirrored into benchmark units at that
// exact date's benchmark price, so the alternate series answers "what
// if this cash had bought the benchmark instead". The fold is
// continuous month to month, not a set of independent snapshots.
func Replay(rows []TransactionRow, calendar TradingCalendar, prices map[string]PriceSeries, benchmarkSymbol string) ([]ValuationPoint, []Diagnostic) {
	holdings := map[string]int64{}
	benchmarkUnits := decimal.Zero
	benchmark := prices[benchmarkSymbol]

	months := calendar.Months()
	points := make([]ValuationPoint, 0, len(months))
	var diags []Diagnostic

	for _, month := range months {
		monthStart := monthStartISO(month)
		monthEnd := calendar[month]

		for _, row := range rows {
			if row.TradeDate < monthStart || row.TradeDate > monthEnd {
				continue
			}
			switch row.TradeType {
			case TradeBuy:
				holdings[row.Symbol] += row.Quantity
			case TradeSell:
				holdings[row.Symbol] -= row.Quantity
			}

			benchmarkPrice, ok := benchmark.CloseOn(row.TradeDate)
			if !ok || benchmarkPrice.IsZero() {
				// No estimation: the adjustment is skipped outright when
				// the benchmark has no price on the trade date.
				diags = append(diags, Diagnostic{
					Stage:  StageReplay,
					Code:   DiagBenchmarkPriceMissing,
					Symbol: benchmarkSymbol,
					Date:   row.TradeDate,
					Detail: fmt.Sprintf("no %s price on %s; benchmark adjustment skipped for %s trade", benchmarkSymbol, row.TradeDate, row.Symbol),
				})
				continue
			}
			cash := row.Price.Mul(decimal.NewFromInt(row.Quantity))
			units := cash.Div(benchmarkPrice.Decimal)
			if row.TradeType == TradeBuy {
				benchmarkUnits = benchmarkUnits.Add(units)
			} else {
				benchmarkUnits = benchmarkUnits.Sub(units)
			}
		}

		portfolioValue := decimal.Zero
		for _, symbol := range sortedHeldSymbols(holdings) {
			price, ok := prices[symbol].CloseOn(monthEnd)
			if !ok {
				diags = append(diags, Diagnostic{
					Stage:  StageReplay,
					Code:   DiagSymbolPriceMissing,
					Symbol: symbol,
					Date:   monthEnd,
					Detail: fmt.Sprintf("no closing price for %s on %s; contributes 0", symbol, monthEnd),
				})
				continue
			}
			portfolioValue = portfolioValue.Add(price.Mul(decimal.NewFromInt(holdings[symbol])))
		}

		alternateValue := decimal.Zero
		if endPrice, ok := benchmark.CloseOn(monthEnd); ok {
			alternateValue = benchmarkUnits.Mul(endPrice.Decimal)
		} else {
			diags = append(diags, Diagnostic{
				Stage:  StageReplay,
				Code:   DiagBenchmarkPriceMissing,
				Symbol: benchmarkSymbol,
				Date:   monthEnd,
				Detail: fmt.Sprintf("no %s closing price on %s; alternate value unavailable", benchmarkSymbol, monthEnd),
			})
		}

		var gain *Amount
		if alternateValue.IsZero() {
			diags = append(diags, Diagnostic{
				Stage:  StageReplay,
				Code:   DiagGainUndefined,
				Date:   monthEnd,
				Detail: fmt.Sprintf("alternate value is zero on %s; gain percent undefined", monthEnd),
			})
		} else {
			gain = amountPtr(Amount{portfolioValue.Sub(alternateValue).Div(alternateValue).Mul(hundred)})
		}

		points = append(points, ValuationPoint{
			Date:           monthEnd,
			PortfolioValue: Amount{portfolioValue},
			AlternateValue: Amount{alternateValue},
			GainPercent:    gain,
		})
	}

	return points, diags
}

// sortedHeldSymbols returns symbols with nonzero holdings in a stable
// order so valuations and diagnostics are deterministic.
func sortedHeldSymbols(holdings map[string]int64) []string {
	symbols := make([]string, 0, len(holdings))
	for symbol, shares := range holdings {
		if shares != 0 {
			symbols = append(symbols, symbol)
		}
	}
	sort.Strings(symbols)
	return symbols
}
