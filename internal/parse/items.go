package parse

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/expenso/docpipe/internal/entity"
)

// Item-shaped lines: "Milk 2x 3.50", "Bread 1 2.00". Description, then a
// quantity with an optional x/* marker, then a unit price.
var reLineItem = regexp.MustCompile(`([A-Za-z][A-Za-z\s]*?)\s+(\d+)\s*(?:x|\*)?\s+(\d{1,3}(?:[.,\s]\d{3})*[.,]\d{2}|\d+[.,]\d{2})\b`)

// ParseLineItems extracts every well-formed item line, preserving source
// order. Scanning is per line so a description never swallows the line
// above it. No deduplication and no reconciliation against the detected
// total.
func ParseLineItems(text string) []entity.LineItem {
	var items []entity.LineItem
	for _, line := range strings.Split(text, "\n") {
		for _, m := range reLineItem.FindAllStringSubmatch(line, -1) {
			desc := strings.TrimSpace(m[1])
			if desc == "" {
				continue
			}
			if len(desc) > entity.MerchantMaxLen {
				desc = desc[:entity.MerchantMaxLen]
			}
			qty, err := decimal.NewFromString(m[2])
			if err != nil {
				continue
			}
			if qty.Sign() == 0 {
				qty = decimal.NewFromInt(1)
			}
			price, err := normalizeDecimal(m[3])
			if err != nil || price.Sign() < 0 {
				continue
			}
			total := qty.Mul(price).Round(2)
			items = append(items, entity.LineItem{
				Description: desc,
				Quantity:    qty,
				UnitPrice:   &price,
				Total:       &total,
			})
		}
	}
	return items
}
