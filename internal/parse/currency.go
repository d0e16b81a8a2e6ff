package parse

import (
	"regexp"
	"strings"
)

// Symbol scan order is fixed so mixed-signal documents resolve
// deterministically.
var currencySymbols = []struct {
	symbol string
	code   string
}{
	{"$", "USD"},
	{"€", "EUR"},
	{"£", "GBP"},
	{"₽", "RUB"},
}

var reCurrencyCode = regexp.MustCompile(`(?i)\b(USD|EUR|GBP|RUB)\b`)

// ParseCurrency detects an explicit currency symbol or ISO 4217 code.
// Absence means the caller should fall back to the configured base
// currency.
func ParseCurrency(text string) Field[string] {
	for _, c := range currencySymbols {
		if strings.Contains(text, c.symbol) {
			return found(c.code, c.symbol, "currency-symbol")
		}
	}
	if m := reCurrencyCode.FindString(text); m != "" {
		return found(strings.ToUpper(m), m, "currency-code")
	}
	return absent[string]()
}
