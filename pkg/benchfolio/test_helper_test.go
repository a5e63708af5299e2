package benchfolio

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// setupTestCore creates a temporary database for testing and returns a
// Core instance backed by the given fake HTTP client. The caller should
// defer cleanup() to remove the temp file.
func setupTestCore(t *testing.T, doer HTTPDoer) (*Core, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "benchfolio-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	core, err := OpenWithOptions(Options{DBPath: dbPath, HTTPClient: doer})
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to open test db: %v", err)
	}

	cleanup := func() {
		core.Close()
		os.RemoveAll(tmpDir)
	}

	return core, cleanup
}

// fakeDoer serves canned provider payloads keyed by stock_name. Symbols
// without an entry get the fallback payload.
type fakeDoer struct {
	mu        sync.Mutex
	responses map[string]string
	fallback  string
	status    int
	requests  []*http.Request
}

func (d *fakeDoer) Do(req *http.Request) (*http.Response, error) {
	d.mu.Lock()
	d.requests = append(d.requests, req)
	d.mu.Unlock()

	status := d.status
	if status == 0 {
		status = http.StatusOK
	}
	payload := d.fallback
	if body, ok := d.responses[req.URL.Query().Get("stock_name")]; ok {
		payload = body
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(payload)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}, nil
}

// historicalPayload renders a provider response with a single Price
// dataset built from date/close pairs.
func historicalPayload(pairs ...[2]string) string {
	values := make([]string, 0, len(pairs))
	for _, p := range pairs {
		values = append(values, fmt.Sprintf(`["%s", "%s"]`, p[0], p[1]))
	}
	return fmt.Sprintf(`{"datasets": [{"metric": "Price", "values": [%s]}]}`, strings.Join(values, ", "))
}

// seriesOf builds a PriceSeries from date/close pairs.
func seriesOf(t *testing.T, pairs ...[2]string) PriceSeries {
	t.Helper()
	series := make(PriceSeries, 0, len(pairs))
	for _, p := range pairs {
		closePrice, err := ParseAmount(p[1])
		if err != nil {
			t.Fatalf("bad test price %q: %v", p[1], err)
		}
		series = append(series, PricePoint{Date: p[0], Close: closePrice})
	}
	return series
}

func rawBuy(symbol, qty, price, date string) RawRow {
	return RawRow{Symbol: symbol, TradeType: "BUY", Quantity: qty, Price: price, TradeDate: date}
}

func rawSell(symbol, qty, price, date string) RawRow {
	return RawRow{Symbol: symbol, TradeType: "SELL", Quantity: qty, Price: price, TradeDate: date}
}

// assertAmountEquals compares an Amount against an expected float with
// a small tolerance.
func assertAmountEquals(t *testing.T, got Amount, want float64) {
	t.Helper()
	f, _ := got.Float64()
	diff := f - want
	if diff < 0 {
		diff = -diff
	}
	if diff > 1e-6 {
		t.Fatalf("expected %v, got %v", want, f)
	}
}

// hasDiag reports whether a diagnostic with the given code was recorded.
func hasDiag(diags []Diagnostic, code string) bool {
	for _, d := range diags {
		if d.Code == code {
			return true
		}
	}
	return false
}

func countDiags(diags []Diagnostic, code string) int {
	n := 0
	for _, d := range diags {
		if d.Code == code {
			n++
		}
	}
	return n
}
