package benchfolio

import "fmt"

// ResolveLastTradingDays derives the last trading day of each month
// from the reference symbol's price series. A month with no reference
// point is omitted from the calendar, not zero-filled; downstream
// treats absence as "no valuation for that month".
//
// An absent or empty reference series is a hard dependency failure for
// the whole run: the calendar comes back empty with a single
// reference_series_empty diagnostic.
func ResolveLastTradingDays(months []MonthKey, prices map[string]PriceSeries, referenceSymbol string) (TradingCalendar, []Diagnostic) {
	calendar := TradingCalendar{}

	reference := prices[referenceSymbol]
	if len(reference) == 0 {
		return calendar, []Diagnostic{{
			Stage:  StageCalendar,
			Code:   DiagReferenceSeriesEmpty,
			Symbol: referenceSymbol,
			Detail: fmt.Sprintf("no price history for reference symbol %s", referenceSymbol),
		}}
	}

	var diags []Diagnostic
	for _, month := range months {
		last := ""
		// The series is date-ascending with one point per date, so the
		// final in-month point is the maximum.
		for _, p := range reference {
			if month.Contains(p.Date) {
				last = p.Date
			}
		}
		if last == "" {
			diags = append(diags, Diagnostic{
				Stage:  StageCalendar,
				Code:   DiagMonthNoTradingDay,
				Symbol: referenceSymbol,
				Date:   monthStartISO(month),
				Detail: fmt.Sprintf("no trading day found in %s", month),
			})
			continue
		}
		calendar[month] = last
	}
	return calendar, diags
}
