package benchfolio

import (
	"encoding/json"
	"testing"
)

func TestAmountMarshalJSONNumber(t *testing.T) {
	a, err := ParseAmount("1234.56789")
	if err != nil {
		t.Fatalf("ParseAmount: %v", err)
	}
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	// Rounded to 4 places and emitted as a bare number, not a string.
	if string(data) != "1234.5679" {
		t.Fatalf("expected 1234.5679, got %s", data)
	}
}

func TestAmountUnmarshalJSON(t *testing.T) {
	var a Amount
	if err := json.Unmarshal([]byte(`42.5`), &a); err != nil {
		t.Fatalf("Unmarshal number: %v", err)
	}
	assertAmountEquals(t, a, 42.5)

	var b Amount
	if err := json.Unmarshal([]byte(`"17.25"`), &b); err != nil {
		t.Fatalf("Unmarshal string: %v", err)
	}
	assertAmountEquals(t, b, 17.25)
}

func TestAmountScan(t *testing.T) {
	var a Amount
	if err := a.Scan(float64(9.75)); err != nil {
		t.Fatalf("Scan float: %v", err)
	}
	assertAmountEquals(t, a, 9.75)

	var b Amount
	if err := b.Scan(int64(12)); err != nil {
		t.Fatalf("Scan int: %v", err)
	}
	assertAmountEquals(t, b, 12)

	var c Amount
	if err := c.Scan(nil); err != nil {
		t.Fatalf("Scan nil: %v", err)
	}
	assertAmountEquals(t, c, 0)
}

func TestScanNullAmount(t *testing.T) {
	got, err := scanNullAmount(nil)
	if err != nil || got != nil {
		t.Fatalf("expected nil for NULL, got %v / %v", got, err)
	}

	got, err = scanNullAmount(float64(3.5))
	if err != nil || got == nil {
		t.Fatalf("expected amount, got %v / %v", got, err)
	}
	assertAmountEquals(t, *got, 3.5)
}
