package benchfolio

import (
	"context"
	"fmt"
)

// GenerateReportRequest carries the raw ledger plus optional parameter
// overrides for one valuation run.
type GenerateReportRequest struct {
	Rows   []RawRow
	Params ReportParams
}

// GenerateReport runs the full pipeline once: clean the ledger, fetch
// price histories, resolve the trading calendar, replay the
// transactions, and persist the result.
//
// All engine state (holdings, benchmark units) is local to the call,
// so concurrent runs with different parameters never interfere. Hard
// dependency failures (an unusable reference series) do not error the
// run; the report carries a user-facing message and whatever the
// pipeline could still compute.
func (c *Core) GenerateReport(ctx context.Context, req GenerateReportRequest) (*Report, error) {
	params := c.mergeParams(req.Params)
	if params.AsOf == "" {
		params.AsOf = TodayISO()
	}
	asOf, err := parseISODate(params.AsOf)
	if err != nil {
		return nil, WrapError(ErrCodeInvalidInput, fmt.Sprintf("invalid as_of date %q", params.AsOf), err)
	}

	windowStart, windowEnd := ledgerWindow(asOf, params.Months)
	c.logger.Info("generating report",
		"rows", len(req.Rows),
		"reference", params.ReferenceSymbol,
		"benchmark", params.BenchmarkSymbol,
		"window_start", windowStart,
		"window_end", windowEnd,
	)

	cleaned, diags := CleanLedger(req.Rows, windowStart, windowEnd)

	symbols := append(append([]string(nil), params.IndexSymbols...), ledgerSymbols(cleaned)...)
	symbols = append(symbols, params.ReferenceSymbol, params.BenchmarkSymbol)
	prices, fetchDiags := c.prices.FetchAll(ctx, symbols, params.Period, params.Filter)
	diags = append(diags, fetchDiags...)

	months := trailingMonths(asOf, params.Months)
	calendar, calendarDiags := ResolveLastTradingDays(months, prices, params.ReferenceSymbol)
	diags = append(diags, calendarDiags...)

	report := &Report{
		Params:      params,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
	}
	if len(calendar) == 0 {
		report.Message = fmt.Sprintf("no price history available for reference symbol %s; valuation could not be computed", params.ReferenceSymbol)
		report.Points = []ValuationPoint{}
		c.logger.Error("reference series unavailable", "symbol", params.ReferenceSymbol)
	} else {
		points, replayDiags := Replay(cleaned, calendar, prices, params.BenchmarkSymbol)
		diags = append(diags, replayDiags...)
		report.Points = points
	}
	report.Diagnostics = diags

	if err := c.saveReport(ctx, report); err != nil {
		return nil, WrapError(ErrCodeDatabase, "persist report", err)
	}
	c.logger.Info("report generated", "id", report.ID, "points", len(report.Points), "diagnostics", len(report.Diagnostics))
	return report, nil
}
