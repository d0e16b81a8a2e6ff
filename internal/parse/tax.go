package parse

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// Labeled tax lines only: "Tax: 0.82", "TAX (8%): 2.40", "VAT: 1.50".
// The Russian label survives from the kinds of receipts the reference
// corpus contains.
var taxPatterns = []struct {
	re   *regexp.Regexp
	rule string
}{
	{regexp.MustCompile(`(?i)tax\s*(?:\([^)]*\))?\s*[:\s]\s*[$€£₽]?\s*(\d{1,3}(?:[.,\s]\d{3})*[.,]\d{2}|\d+[.,]\d{2})`), "tax-label"},
	{regexp.MustCompile(`(?i)vat\s*(?:\([^)]*\))?\s*[:\s]\s*[$€£₽]?\s*(\d{1,3}(?:[.,\s]\d{3})*[.,]\d{2}|\d+[.,]\d{2})`), "vat-label"},
	{regexp.MustCompile(`(?i)налог\s*(?:\([^)]*\))?\s*[:\s]\s*[$€£₽]?\s*(\d{1,3}(?:[.,\s]\d{3})*[.,]\d{2}|\d+[.,]\d{2})`), "tax-label-ru"},
}

// ParseTax extracts the amount from a labeled tax line, using the same
// numeric normalization as ParseAmount.
func ParseTax(text string) Field[decimal.Decimal] {
	for _, p := range taxPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := normalizeDecimal(m[1])
		if err != nil || v.Sign() < 0 {
			continue
		}
		return found(v.Round(2), m[1], p.rule)
	}
	return absent[decimal.Decimal]()
}
