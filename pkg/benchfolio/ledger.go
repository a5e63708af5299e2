package benchfolio

import (
	"fmt"
	"strconv"
	"strings"
)

// CleanLedger validates raw ledger rows against running per-symbol
// holdings and returns the retained transactions plus the data-quality
// diagnostics produced along the way.
//
// Rows are scanned in input order, which mirrors the export order of
// real broker ledgers and is deliberately not chronological. Retained
// rows keep their relative order. The window bounds are inclusive ISO
// dates; rows outside the window are skipped without a diagnostic.
//
// A SELL larger than the running holdings is clamped down to them (a
// partial position predating the window is assumed); a SELL with no
// holdings at all is dropped as noise. Holdings therefore never go
// negative.
func CleanLedger(rows []RawRow, windowStart, windowEnd string) ([]TransactionRow, []Diagnostic) {
	cleaned := make([]TransactionRow, 0, len(rows))
	var diags []Diagnostic
	holdings := map[string]int64{}

	for i, row := range rows {
		symbol := strings.ToUpper(strings.TrimSpace(row.Symbol))
		tradeType := strings.TrimSpace(row.TradeType)
		quantity := strings.TrimSpace(row.Quantity)

		if symbol == "" || tradeType == "" || quantity == "" {
			diags = append(diags, Diagnostic{
				Stage:  StageClean,
				Code:   DiagRowMissingField,
				Symbol: symbol,
				Detail: fmt.Sprintf("row %d: missing symbol, trade_type or quantity", i+1),
			})
			continue
		}

		date, ok := normalizeTradeDate(strings.TrimSpace(row.TradeDate))
		if !ok {
			diags = append(diags, Diagnostic{
				Stage:  StageClean,
				Code:   DiagRowBadDate,
				Symbol: symbol,
				Detail: fmt.Sprintf("row %d: unparseable trade_date %q", i+1, row.TradeDate),
			})
			continue
		}
		if date < windowStart || date > windowEnd {
			continue
		}

		qty, err := strconv.ParseInt(quantity, 10, 64)
		if err != nil || qty < 1 {
			diags = append(diags, Diagnostic{
				Stage:  StageClean,
				Code:   DiagRowBadQuantity,
				Symbol: symbol,
				Date:   date,
				Detail: fmt.Sprintf("row %d: quantity %q is not a positive integer", i+1, row.Quantity),
			})
			continue
		}

		price, err := ParseAmount(strings.TrimSpace(row.Price))
		if err != nil || price.IsNegative() {
			diags = append(diags, Diagnostic{
				Stage:  StageClean,
				Code:   DiagRowBadPrice,
				Symbol: symbol,
				Date:   date,
				Detail: fmt.Sprintf("row %d: price %q is not a non-negative decimal", i+1, row.Price),
			})
			continue
		}

		switch strings.ToUpper(tradeType) {
		case string(TradeBuy):
			holdings[symbol] += qty
			cleaned = append(cleaned, TransactionRow{
				Symbol: symbol, TradeType: TradeBuy, Quantity: qty, Price: price, TradeDate: date,
			})
		case string(TradeSell):
			held := holdings[symbol]
			switch {
			case held >= qty:
				holdings[symbol] = held - qty
				cleaned = append(cleaned, TransactionRow{
					Symbol: symbol, TradeType: TradeSell, Quantity: qty, Price: price, TradeDate: date,
				})
			case held > 0:
				// Oversell against a partially known position: keep the
				// row but liquidate only what the window accounts for.
				holdings[symbol] = 0
				cleaned = append(cleaned, TransactionRow{
					Symbol: symbol, TradeType: TradeSell, Quantity: held, Price: price, TradeDate: date,
				})
				diags = append(diags, Diagnostic{
					Stage:  StageClean,
					Code:   DiagSellClamped,
					Symbol: symbol,
					Date:   date,
					Detail: fmt.Sprintf("row %d: sell quantity %d clamped to %d", i+1, qty, held),
				})
			default:
				diags = append(diags, Diagnostic{
					Stage:  StageClean,
					Code:   DiagSellNoHoldings,
					Symbol: symbol,
					Date:   date,
					Detail: fmt.Sprintf("row %d: sell of %d with no holdings", i+1, qty),
				})
			}
		default:
			diags = append(diags, Diagnostic{
				Stage:  StageClean,
				Code:   DiagRowUnknownTradeType,
				Symbol: symbol,
				Date:   date,
				Detail: fmt.Sprintf("row %d: unknown trade_type %q", i+1, row.TradeType),
			})
		}
	}

	return cleaned, diags
}

// ledgerSymbols returns the distinct symbols of a cleaned ledger in
// first-seen order.
func ledgerSymbols(rows []TransactionRow) []string {
	seen := map[string]struct{}{}
	var symbols []string
	for _, row := range rows {
		if _, ok := seen[row.Symbol]; ok {
			continue
		}
		seen[row.Symbol] = struct{}{}
		symbols = append(symbols, row.Symbol)
	}
	return symbols
}
