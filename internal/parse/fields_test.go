package parse

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/expenso/docpipe/internal/entity"
)

func TestParseMerchant(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"first line", "FRESH FOODS MARKET\n12/11/2025\nTotal 15.65", "FRESH FOODS MARKET"},
		{"skips boilerplate", "RECEIPT\nINVOICE #42\nCorner Bakery\nTotal 8.00", "Corner Bakery"},
		{"skips numeric", "1234 5678\n#99-01\nAcme Hardware", "Acme Hardware"},
		{"skips short", "AB\nXYZ\nNorthside Pharmacy", "Northside Pharmacy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseMerchant(tt.text)
			if !got.OK {
				t.Fatalf("ParseMerchant(%q) not found", tt.text)
			}
			if got.Value != tt.want {
				t.Errorf("merchant = %q, want %q", got.Value, tt.want)
			}
		})
	}
}

func TestParseMerchantScanDepth(t *testing.T) {
	// A qualifying line past the scan window is never picked up.
	text := "12\n34\n56\n78\n90\nDeep Store Name"
	if got := ParseMerchant(text); got.OK {
		t.Errorf("merchant = %q, want absent", got.Value)
	}
}

func TestParseMerchantTruncates(t *testing.T) {
	long := strings.Repeat("A", entity.MerchantMaxLen+50)
	got := ParseMerchant(long)
	if !got.OK {
		t.Fatal("expected a merchant")
	}
	if len(got.Value) != entity.MerchantMaxLen {
		t.Errorf("len = %d, want %d", len(got.Value), entity.MerchantMaxLen)
	}
}

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"dollar", "Total: $10.00", "USD"},
		{"euro", "Gesamt: 10,00 €", "EUR"},
		{"pound", "Total: £9.99", "GBP"},
		{"ruble", "Итого: 500,00 ₽", "RUB"},
		{"iso code", "Amount 10.00 EUR", "EUR"},
		{"iso code lowercase", "total 12.50 gbp", "GBP"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCurrency(tt.text)
			if !got.OK {
				t.Fatalf("ParseCurrency(%q) not found", tt.text)
			}
			if got.Value != tt.want {
				t.Errorf("currency = %q, want %q", got.Value, tt.want)
			}
		})
	}
}

func TestParseCurrencySymbolBeatsCode(t *testing.T) {
	got := ParseCurrency("Prices in EUR, paid $20.00")
	if !got.OK || got.Value != "USD" {
		t.Errorf("currency = %v, want USD via symbol", got.Value)
	}
}

func TestParseCurrencyAbsent(t *testing.T) {
	if got := ParseCurrency("Total: 12.00"); got.OK {
		t.Errorf("currency = %q, want absent", got.Value)
	}
}

func TestParseTax(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"labeled", "TAX: $1.16", "1.16"},
		{"with rate", "Tax (8.875%): 2.40", "2.40"},
		{"vat", "VAT: 1.50", "1.50"},
		{"russian", "Налог: 120,00", "120.00"},
		{"space separator", "TAX 0.82", "0.82"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTax(tt.text)
			if !got.OK {
				t.Fatalf("ParseTax(%q) not found", tt.text)
			}
			if want := decimal.RequireFromString(tt.want); !got.Value.Equal(want) {
				t.Errorf("tax = %s, want %s", got.Value, want)
			}
		})
	}
}

func TestParseTaxAbsent(t *testing.T) {
	// Unlabeled numbers are never taxes.
	for _, text := range []string{"Total 9.99", "", "taxi fare 12.00 handled elsewhere"} {
		if got := ParseTax(text); got.OK {
			t.Errorf("ParseTax(%q) = %s, want absent", text, got.Value)
		}
	}
}

func TestParseLineItems(t *testing.T) {
	text := "CORNER GROCERY\nMilk 2x 3.50\nBread 1 2.00\nEggs 12 4.99\nTOTAL: 66.88"
	items := ParseLineItems(text)
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}

	wantDesc := []string{"Milk", "Bread", "Eggs"}
	for i, want := range wantDesc {
		if items[i].Description != want {
			t.Errorf("item[%d].Description = %q, want %q", i, items[i].Description, want)
		}
	}

	if !items[0].Quantity.Equal(decimal.NewFromInt(2)) {
		t.Errorf("milk qty = %s, want 2", items[0].Quantity)
	}
	if !items[0].UnitPrice.Equal(decimal.RequireFromString("3.50")) {
		t.Errorf("milk price = %s, want 3.50", items[0].UnitPrice)
	}
	if !items[0].Total.Equal(decimal.RequireFromString("7.00")) {
		t.Errorf("milk total = %s, want 7.00", items[0].Total)
	}
}

func TestParseLineItemsZeroQuantity(t *testing.T) {
	items := ParseLineItems("Bag 0 1.00")
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if !items[0].Quantity.Equal(decimal.NewFromInt(1)) {
		t.Errorf("qty = %s, want 1", items[0].Quantity)
	}
	if !items[0].Total.Equal(decimal.RequireFromString("1.00")) {
		t.Errorf("total = %s, want 1.00", items[0].Total)
	}
}

func TestParseLineItemsNone(t *testing.T) {
	if items := ParseLineItems("TOTAL: $15.65\n12/11/2025"); len(items) != 0 {
		t.Errorf("got %d items, want 0", len(items))
	}
}
