package benchfolio

import (
	"context"
	"testing"
)

// reportTestPayload covers the February through July 2025 month ends
// plus a mid-March trade date, shared by every fetched symbol.
func reportTestPayload() string {
	return historicalPayload(
		[2]string{"2025-02-28", "100"},
		[2]string{"2025-03-10", "102"},
		[2]string{"2025-03-31", "105"},
		[2]string{"2025-04-30", "108"},
		[2]string{"2025-05-30", "110"},
		[2]string{"2025-06-30", "112"},
		[2]string{"2025-07-31", "115"},
	)
}

func testReportRequest() GenerateReportRequest {
	return GenerateReportRequest{
		Rows: []RawRow{
			rawBuy("RELIANCE", "10", "102", "2025-03-10"),
		},
		Params: ReportParams{AsOf: "2025-08-15"},
	}
}

func TestGenerateReportEndToEnd(t *testing.T) {
	core, cleanup := setupTestCore(t, &fakeDoer{fallback: reportTestPayload()})
	defer cleanup()

	report, err := core.GenerateReport(context.Background(), testReportRequest())
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if report.ID <= 0 || report.CreatedAt == "" {
		t.Fatalf("expected persisted report, got %+v", report)
	}
	if report.WindowStart != "2025-02-01" || report.WindowEnd != "2025-07-31" {
		t.Fatalf("unexpected window %s..%s", report.WindowStart, report.WindowEnd)
	}
	if len(report.Points) != 6 {
		t.Fatalf("expected 6 points, got %d", len(report.Points))
	}
	if report.Message != "" {
		t.Fatalf("expected no failure message, got %q", report.Message)
	}

	// February precedes the only trade: empty portfolio, undefined gain.
	feb := report.Points[0]
	if feb.Date != "2025-02-28" {
		t.Fatalf("expected first point on 2025-02-28, got %s", feb.Date)
	}
	assertAmountEquals(t, feb.PortfolioValue, 0)
	if feb.GainPercent != nil {
		t.Fatalf("expected undefined gain in February")
	}

	// March: 10 shares at 105; the same cash tracks the benchmark from
	// the trade date, landing on the same value.
	march := report.Points[1]
	assertAmountEquals(t, march.PortfolioValue, 1050)
	assertAmountEquals(t, march.AlternateValue, 1050)
	if march.GainPercent == nil {
		t.Fatalf("expected defined gain in March")
	}
	assertAmountEquals(t, *march.GainPercent, 0)
}

func TestGenerateReportInvalidAsOf(t *testing.T) {
	core, cleanup := setupTestCore(t, &fakeDoer{fallback: reportTestPayload()})
	defer cleanup()

	_, err := core.GenerateReport(context.Background(), GenerateReportRequest{
		Params: ReportParams{AsOf: "soon"},
	})
	if !IsErrorCode(err, ErrCodeInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestGenerateReportReferenceUnavailable(t *testing.T) {
	core, cleanup := setupTestCore(t, &fakeDoer{fallback: `{"error": "down"}`, status: 502})
	defer cleanup()

	report, err := core.GenerateReport(context.Background(), testReportRequest())
	if err != nil {
		t.Fatalf("expected degraded report, not error: %v", err)
	}
	if report.Message == "" {
		t.Fatalf("expected user-facing failure message")
	}
	if len(report.Points) != 0 {
		t.Fatalf("expected no points, got %d", len(report.Points))
	}
	if !hasDiag(report.Diagnostics, DiagFetchFailed) {
		t.Fatalf("expected fetch_failed diagnostics, got %v", report.Diagnostics)
	}
	if !hasDiag(report.Diagnostics, DiagReferenceSeriesEmpty) {
		t.Fatalf("expected reference_series_empty diagnostic, got %v", report.Diagnostics)
	}
}

func TestGetReportRoundTrip(t *testing.T) {
	core, cleanup := setupTestCore(t, &fakeDoer{fallback: reportTestPayload()})
	defer cleanup()
	ctx := context.Background()

	generated, err := core.GenerateReport(ctx, testReportRequest())
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}

	loaded, err := core.GetReport(ctx, generated.ID)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if loaded.WindowStart != generated.WindowStart || loaded.WindowEnd != generated.WindowEnd {
		t.Fatalf("window changed across persistence: %+v vs %+v", loaded, generated)
	}
	if len(loaded.Points) != len(generated.Points) {
		t.Fatalf("expected %d points, got %d", len(generated.Points), len(loaded.Points))
	}
	if len(loaded.Diagnostics) != len(generated.Diagnostics) {
		t.Fatalf("expected %d diagnostics, got %d", len(generated.Diagnostics), len(loaded.Diagnostics))
	}
	if loaded.Params.ReferenceSymbol != DefaultReferenceSymbol {
		t.Fatalf("expected default reference symbol, got %s", loaded.Params.ReferenceSymbol)
	}
	if loaded.Insight != nil {
		t.Fatalf("expected no insight yet, got %v", *loaded.Insight)
	}

	// Nullable gain survives the round trip.
	if loaded.Points[0].GainPercent != nil {
		t.Fatalf("expected February gain to stay undefined")
	}
	if loaded.Points[1].GainPercent == nil {
		t.Fatalf("expected March gain to stay defined")
	}
}

func TestGetReportNotFound(t *testing.T) {
	core, cleanup := setupTestCore(t, &fakeDoer{fallback: reportTestPayload()})
	defer cleanup()

	_, err := core.GetReport(context.Background(), 12345)
	if !IsErrorCode(err, ErrCodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestGetReports(t *testing.T) {
	core, cleanup := setupTestCore(t, &fakeDoer{fallback: reportTestPayload()})
	defer cleanup()
	ctx := context.Background()

	if _, err := core.GenerateReport(ctx, testReportRequest()); err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if _, err := core.GenerateReport(ctx, testReportRequest()); err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}

	summaries, err := core.GetReports(ctx, 10, 0)
	if err != nil {
		t.Fatalf("GetReports: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	for _, s := range summaries {
		if s.PointCount != 6 {
			t.Fatalf("expected point count 6, got %d", s.PointCount)
		}
		if s.ReferenceSymbol != DefaultReferenceSymbol {
			t.Fatalf("unexpected reference symbol %s", s.ReferenceSymbol)
		}
	}
}
