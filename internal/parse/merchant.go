package parse

import (
	"regexp"
	"strings"

	"github.com/expenso/docpipe/internal/entity"
)

// merchantScanLines bounds how deep into the document the merchant name
// is looked for; store names sit at the top of a receipt.
const merchantScanLines = 5

// Lines containing receipt boilerplate are never merchant names.
var merchantBoilerplate = []string{"receipt", "invoice", "tax", "total", "date"}

var rePureNumeric = regexp.MustCompile(`^[\d\s#-]+$`)

// ParseMerchant takes the first qualifying line near the top of the
// text, truncated to the bounded merchant length.
func ParseMerchant(text string) Field[string] {
	lines := strings.Split(text, "\n")
	if len(lines) > merchantScanLines {
		lines = lines[:merchantScanLines]
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) <= 3 {
			continue
		}
		if rePureNumeric.MatchString(line) {
			continue
		}
		lower := strings.ToLower(line)
		if containsAny(lower, merchantBoilerplate) {
			continue
		}
		raw := line
		if len(line) > entity.MerchantMaxLen {
			line = line[:entity.MerchantMaxLen]
		}
		return found(line, raw, "merchant-top-line")
	}
	return absent[string]()
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
