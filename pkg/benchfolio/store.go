package benchfolio

import (
	"context"
	"database/sql"
)

// saveReport persists a generated report with its points and
// diagnostics in one transaction and fills in the assigned ID and
// creation timestamp.
func (c *Core) saveReport(ctx context.Context, report *Report) error {
	return c.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			INSERT INTO reports (
				reference_symbol, benchmark_symbol, period, filter, months,
				as_of, window_start, window_end, message
			)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			report.Params.ReferenceSymbol, report.Params.BenchmarkSymbol,
			report.Params.Period, report.Params.Filter, report.Params.Months,
			report.Params.AsOf, report.WindowStart, report.WindowEnd,
			nullIfEmpty(report.Message),
		)
		if err != nil {
			return err
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		report.ID = id

		for i, p := range report.Points {
			var gain any
			if p.GainPercent != nil {
				gain = *p.GainPercent
			}
			if _, err := tx.Exec(`
				INSERT INTO report_points (report_id, position, date, portfolio_value, alternate_value, gain_percent)
				VALUES (?, ?, ?, ?, ?, ?)
			`, id, i, p.Date, p.PortfolioValue, p.AlternateValue, gain); err != nil {
				return err
			}
		}

		for i, d := range report.Diagnostics {
			if _, err := tx.Exec(`
				INSERT INTO report_diagnostics (report_id, position, stage, code, symbol, date, detail)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, id, i, d.Stage, d.Code, nullIfEmpty(d.Symbol), nullIfEmpty(d.Date), d.Detail); err != nil {
				return err
			}
		}

		return tx.QueryRow("SELECT created_at FROM reports WHERE id = ?", id).Scan(&report.CreatedAt)
	})
}

// GetReport loads one report with its points and diagnostics.
func (c *Core) GetReport(ctx context.Context, id int64) (*Report, error) {
	report := &Report{ID: id}
	var message, insight sql.NullString
	err := c.db.QueryRowContext(ctx, `
		SELECT created_at, reference_symbol, benchmark_symbol, period, filter, months,
		       as_of, window_start, window_end, message, insight
		FROM reports WHERE id = ?
	`, id).Scan(
		&report.CreatedAt,
		&report.Params.ReferenceSymbol, &report.Params.BenchmarkSymbol,
		&report.Params.Period, &report.Params.Filter, &report.Params.Months,
		&report.Params.AsOf, &report.WindowStart, &report.WindowEnd,
		&message, &insight,
	)
	if err == sql.ErrNoRows {
		return nil, NewError(ErrCodeNotFound, "report not found")
	}
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "load report", err)
	}
	report.Message = message.String
	if insight.Valid {
		report.Insight = &insight.String
	}

	points, err := c.loadReportPoints(ctx, id)
	if err != nil {
		return nil, err
	}
	report.Points = points

	diags, err := c.loadReportDiagnostics(ctx, id)
	if err != nil {
		return nil, err
	}
	report.Diagnostics = diags
	return report, nil
}

func (c *Core) loadReportPoints(ctx context.Context, id int64) ([]ValuationPoint, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT date, portfolio_value, alternate_value, gain_percent
		FROM report_points WHERE report_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "load report points", err)
	}
	defer rows.Close()

	points := []ValuationPoint{}
	for rows.Next() {
		var p ValuationPoint
		var gain any
		if err := rows.Scan(&p.Date, &p.PortfolioValue, &p.AlternateValue, &gain); err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan report point", err)
		}
		gainAmount, err := scanNullAmount(gain)
		if err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan report point", err)
		}
		p.GainPercent = gainAmount
		points = append(points, p)
	}
	return points, rows.Err()
}

func (c *Core) loadReportDiagnostics(ctx context.Context, id int64) ([]Diagnostic, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT stage, code, symbol, date, detail
		FROM report_diagnostics WHERE report_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "load report diagnostics", err)
	}
	defer rows.Close()

	diags := []Diagnostic{}
	for rows.Next() {
		var d Diagnostic
		var symbol, date sql.NullString
		if err := rows.Scan(&d.Stage, &d.Code, &symbol, &date, &d.Detail); err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan report diagnostic", err)
		}
		d.Symbol = symbol.String
		d.Date = date.String
		diags = append(diags, d)
	}
	return diags, rows.Err()
}

// GetReports lists recent report headers, newest first.
func (c *Core) GetReports(ctx context.Context, limit, offset int) ([]ReportSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := c.db.QueryContext(ctx, `
		SELECT r.id, r.created_at, r.reference_symbol, r.benchmark_symbol,
		       r.window_start, r.window_end, r.message,
		       (SELECT COUNT(*) FROM report_points p WHERE p.report_id = r.id)
		FROM reports r ORDER BY r.id DESC LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "list reports", err)
	}
	defer rows.Close()

	summaries := []ReportSummary{}
	for rows.Next() {
		var s ReportSummary
		var message sql.NullString
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.ReferenceSymbol, &s.BenchmarkSymbol,
			&s.WindowStart, &s.WindowEnd, &message, &s.PointCount); err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan report summary", err)
		}
		s.Message = message.String
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// setReportInsight stores generated insight text on a report.
func (c *Core) setReportInsight(ctx context.Context, id int64, text string) error {
	result, err := c.db.ExecContext(ctx, "UPDATE reports SET insight = ? WHERE id = ?", text, id)
	if err != nil {
		return WrapError(ErrCodeDatabase, "store insight", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return WrapError(ErrCodeDatabase, "store insight", err)
	}
	if affected == 0 {
		return NewError(ErrCodeNotFound, "report not found")
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
