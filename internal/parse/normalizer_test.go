package parse

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

const sampleReceipt = `FRESH FOODS MARKET
123 Main Street
12/11/2025
Milk 2x 3.50
Bread 1 2.00
TAX: $1.16
TOTAL: $15.65
Thank you!`

func fixedNow() time.Time {
	return time.Date(2026, time.January, 15, 10, 30, 0, 0, time.UTC)
}

func TestNormalizeFullReceipt(t *testing.T) {
	data := Normalize(sampleReceipt, Options{BaseCurrency: "USD", Now: fixedNow})

	if want := date(2025, time.November, 12); !data.Date.Equal(want) {
		t.Errorf("date = %v, want %v", data.Date, want)
	}
	if data.Amount == nil {
		t.Fatal("expected an amount")
	}
	if want := decimal.RequireFromString("15.65"); !data.Amount.Equal(want) {
		t.Errorf("amount = %s, want %s", data.Amount, want)
	}
	if data.Currency != "USD" {
		t.Errorf("currency = %q, want USD", data.Currency)
	}
	if data.Merchant != "FRESH FOODS MARKET" {
		t.Errorf("merchant = %q, want FRESH FOODS MARKET", data.Merchant)
	}
	if data.Tax == nil {
		t.Fatal("expected a tax")
	}
	if want := decimal.RequireFromString("1.16"); !data.Tax.Equal(want) {
		t.Errorf("tax = %s, want %s", data.Tax, want)
	}
	if len(data.LineItems) != 2 {
		t.Errorf("got %d line items, want 2", len(data.LineItems))
	}
	if len(data.Defaulted) != 0 {
		t.Errorf("defaulted = %v, want none", data.Defaulted)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	data := Normalize("unreadable scan output", Options{BaseCurrency: "EUR", Now: fixedNow})

	if want := date(2026, time.January, 15); !data.Date.Equal(want) {
		t.Errorf("date = %v, want processing day %v", data.Date, want)
	}
	if data.Amount != nil {
		t.Errorf("amount = %s, want nil", data.Amount)
	}
	if data.Currency != "EUR" {
		t.Errorf("currency = %q, want base EUR", data.Currency)
	}
	if !data.UsedDefault(FieldDate) {
		t.Error("date should be marked defaulted")
	}
	if !data.UsedDefault(FieldCurrency) {
		t.Error("currency should be marked defaulted")
	}
}

func TestNormalizePartialNotes(t *testing.T) {
	// Date present, currency absent: only currency is marked defaulted.
	data := Normalize("12/11/2025\nTotal 10.00", Options{Now: fixedNow})
	if data.UsedDefault(FieldDate) {
		t.Error("date was extracted, must not be marked defaulted")
	}
	if !data.UsedDefault(FieldCurrency) {
		t.Error("currency should be marked defaulted")
	}
	if data.Currency != "USD" {
		t.Errorf("currency = %q, want fallback USD", data.Currency)
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	a := Normalize(sampleReceipt, Options{BaseCurrency: "USD", Now: fixedNow})
	b := Normalize(sampleReceipt, Options{BaseCurrency: "USD", Now: fixedNow})

	if !a.Date.Equal(b.Date) || a.Currency != b.Currency || a.Merchant != b.Merchant {
		t.Error("same input must normalize identically")
	}
	if (a.Amount == nil) != (b.Amount == nil) || (a.Amount != nil && !a.Amount.Equal(*b.Amount)) {
		t.Error("amount differs between runs")
	}
	if len(a.LineItems) != len(b.LineItems) {
		t.Error("line item count differs between runs")
	}
}
