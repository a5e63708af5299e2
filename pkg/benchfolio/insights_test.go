package benchfolio

import (
	"context"
	"testing"
)

func TestGenerateInsightTooFewPoints(t *testing.T) {
	core, cleanup := setupTestCore(t, &fakeDoer{fallback: `{"error": "down"}`, status: 502})
	defer cleanup()
	ctx := context.Background()

	report, err := core.GenerateReport(ctx, testReportRequest())
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}

	_, err = core.GenerateInsight(ctx, report.ID)
	if !IsErrorCode(err, ErrCodeValidation) {
		t.Fatalf("expected validation error for pointless report, got %v", err)
	}
}

func TestGenerateInsightMissingCredential(t *testing.T) {
	core, cleanup := setupTestCore(t, &fakeDoer{fallback: reportTestPayload()})
	defer cleanup()
	ctx := context.Background()

	report, err := core.GenerateReport(ctx, testReportRequest())
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}

	_, err = core.GenerateInsight(ctx, report.ID)
	if !IsErrorCode(err, ErrCodeMissingCredential) {
		t.Fatalf("expected missing credential error, got %v", err)
	}
}

func TestGenerateInsightUnknownProvider(t *testing.T) {
	dbPath := t.TempDir() + "/test.db"
	core, err := OpenWithOptions(Options{
		DBPath:     dbPath,
		HTTPClient: &fakeDoer{fallback: reportTestPayload()},
		AI:         AIConfig{Provider: "oracle", APIKey: "key"},
	})
	if err != nil {
		t.Fatalf("OpenWithOptions: %v", err)
	}
	defer core.Close()
	ctx := context.Background()

	report, err := core.GenerateReport(ctx, testReportRequest())
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}

	_, err = core.GenerateInsight(ctx, report.ID)
	if !IsErrorCode(err, ErrCodeUnsupported) {
		t.Fatalf("expected unsupported provider error, got %v", err)
	}
}

func TestGenerateInsightUnknownReport(t *testing.T) {
	core, cleanup := setupTestCore(t, &fakeDoer{fallback: reportTestPayload()})
	defer cleanup()

	_, err := core.GenerateInsight(context.Background(), 999)
	if !IsErrorCode(err, ErrCodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}
