package benchfolio

import (
	"time"
)

const isoDate = "2006-01-02"

const exchangeTimeZoneName = "Asia/Kolkata"

var exchangeLocation = loadExchangeLocation()

func loadExchangeLocation() *time.Location {
	location, err := time.LoadLocation(exchangeTimeZoneName)
	if err != nil {
		return time.FixedZone(exchangeTimeZoneName, 5*3600+1800)
	}
	return location
}

// NowAtExchange returns the current time in the exchange time zone.
func NowAtExchange() time.Time {
	return time.Now().In(exchangeLocation)
}

// TodayISO returns today's calendar date at the exchange as YYYY-MM-DD.
func TodayISO() string {
	return NowAtExchange().Format(isoDate)
}

// Trade-date formats accepted from ledger exports, tried in order.
var tradeDateLayouts = []string{
	isoDate,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02-01-2006",
	"02/01/2006",
}

// normalizeTradeDate parses a raw trade date string and reduces it to
// an ISO calendar date. Time-of-day and zone information is discarded
// so all downstream lookups compare calendar dates only.
func normalizeTradeDate(raw string) (string, bool) {
	for _, layout := range tradeDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(isoDate), true
		}
	}
	return "", false
}

func parseISODate(s string) (time.Time, error) {
	return time.ParseInLocation(isoDate, s, exchangeLocation)
}

func monthKeyOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// trailingMonths enumerates the n calendar months before the month of
// asOf, oldest first. The month containing asOf is excluded.
func trailingMonths(asOf time.Time, n int) []MonthKey {
	months := make([]MonthKey, 0, n)
	for i := n; i > 0; i-- {
		m := time.Date(asOf.Year(), asOf.Month()-time.Month(i), 1, 0, 0, 0, 0, asOf.Location())
		months = append(months, monthKeyOf(m))
	}
	return months
}

// ledgerWindow derives the inclusive trade-date window for cleaning:
// the first day of the month n months before asOf through the last day
// of the month before asOf.
func ledgerWindow(asOf time.Time, n int) (string, string) {
	start := time.Date(asOf.Year(), asOf.Month()-time.Month(n), 1, 0, 0, 0, 0, asOf.Location())
	end := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location()).AddDate(0, 0, -1)
	return start.Format(isoDate), end.Format(isoDate)
}

// monthStartISO returns the first day of the month as an ISO date.
func monthStartISO(k MonthKey) string {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC).Format(isoDate)
}
