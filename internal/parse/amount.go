package parse

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Candidate ranks. Keyword-adjacent candidates always beat currency-signed
// ones, which beat bare decimals; within a rank the maximum value wins.
const (
	rankBare = iota
	rankCurrency
	rankTotalKeyword
)

// Amounts at or above this are assumed to be receipt/reference numbers,
// not prices.
var maxPlausibleAmount = decimal.NewFromInt(1_000_000)

var (
	reCurrencyAmount = regexp.MustCompile(`[$€£₽]\s*(\d{1,3}(?:[.,\s]\d{3})*[.,]\d{2}|\d+[.,]\d{2})`)
	reBareAmount     = regexp.MustCompile(`\b\d{1,3}(?:[.,\s]\d{3})*[.,]\d{2}\b`)
)

// totalKeywords mark a line whose numbers are ranked above everything
// else. Matching is substring over the lowercased line, so "subtotal"
// and "grand total" are covered by their full forms listed first.
var totalKeywords = []string{
	"amount due",
	"balance due",
	"grand total",
	"subtotal",
	"total",
	"amount",
}

type amountCandidate struct {
	value decimal.Decimal
	rank  int
	raw   string
}

// ParseAmount extracts the most plausible grand total from the text.
//
// The fallback to the largest value found is a known source of false
// positives (line items, reference numbers); selectAmount is the single
// decision point to change if a stricter policy is ever wanted.
func ParseAmount(text string) Field[decimal.Decimal] {
	var candidates []amountCandidate
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		keyword := lineHasTotalKeyword(lower)

		for _, m := range reCurrencyAmount.FindAllStringSubmatch(line, -1) {
			candidates = appendCandidate(candidates, m[1], rankFor(keyword, rankCurrency))
		}
		for _, raw := range reBareAmount.FindAllString(line, -1) {
			candidates = appendCandidate(candidates, raw, rankFor(keyword, rankBare))
		}
	}
	return selectAmount(candidates)
}

func lineHasTotalKeyword(lower string) bool {
	for _, kw := range totalKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func rankFor(keywordLine bool, base int) int {
	if keywordLine {
		return rankTotalKeyword
	}
	return base
}

func appendCandidate(cs []amountCandidate, raw string, rank int) []amountCandidate {
	v, err := normalizeDecimal(raw)
	if err != nil {
		return cs
	}
	// filter out unreasonably large values (receipt numbers, not prices)
	if v.Sign() < 0 || v.GreaterThanOrEqual(maxPlausibleAmount) {
		return cs
	}
	return append(cs, amountCandidate{value: v, rank: rank, raw: raw})
}

// selectAmount holds the whole selection policy: highest rank first,
// maximum value within the rank.
func selectAmount(candidates []amountCandidate) Field[decimal.Decimal] {
	if len(candidates) == 0 {
		return absent[decimal.Decimal]()
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.rank > best.rank || (c.rank == best.rank && c.value.GreaterThan(best.value)) {
			best = c
		}
	}
	rule := "amount-bare-max"
	switch best.rank {
	case rankTotalKeyword:
		rule = "amount-total-keyword"
	case rankCurrency:
		rule = "amount-currency-max"
	}
	return found(best.value.Round(2), best.raw, rule)
}

// normalizeDecimal resolves both 1,234.56 and 1.234,56 separator styles:
// the last separator is decimal only when followed by exactly two digits;
// a separator followed by three digits is a thousands separator.
func normalizeDecimal(raw string) (decimal.Decimal, error) {
	s := strings.Map(func(r rune) rune {
		if r == ' ' || r == ' ' {
			return -1
		}
		return r
	}, raw)

	stripSeps := strings.NewReplacer(",", "", ".", "")
	last := strings.LastIndexAny(s, ".,")
	if last >= 0 {
		if len(s)-last-1 == 2 {
			s = stripSeps.Replace(s[:last]) + "." + s[last+1:]
		} else {
			s = stripSeps.Replace(s)
		}
	}
	return decimal.NewFromString(s)
}
