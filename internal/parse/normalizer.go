package parse

import (
	"sort"
	"time"

	"github.com/expenso/docpipe/internal/entity"
)

// Field names recorded in DocumentData.Defaulted when a fallback is used.
const (
	FieldDate     = "date"
	FieldCurrency = "currency"
)

// Options configures normalization fallbacks.
type Options struct {
	BaseCurrency string           // default currency when no signal is found
	Now          func() time.Time // injectable clock for the date fallback
}

// Normalize orchestrates the field parsers into one DocumentData. It
// never fails: missing fields get declared defaults (processing date,
// base currency) and the fallback is recorded in Defaulted so consumers
// can flag low-confidence data. Whether partial data still becomes a
// transaction is the caller's policy, not this function's.
func Normalize(text string, opts Options) entity.DocumentData {
	if opts.BaseCurrency == "" {
		opts.BaseCurrency = "USD"
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	var data entity.DocumentData

	if d := ParseDate(text); d.OK {
		data.Date = d.Value
	} else {
		t := now().UTC()
		data.Date = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		data.Defaulted = append(data.Defaulted, FieldDate)
	}

	if a := ParseAmount(text); a.OK && a.Value.Sign() >= 0 {
		v := a.Value.Round(2)
		data.Amount = &v
	}

	if c := ParseCurrency(text); c.OK {
		data.Currency = c.Value
	} else {
		data.Currency = opts.BaseCurrency
		data.Defaulted = append(data.Defaulted, FieldCurrency)
	}

	if m := ParseMerchant(text); m.OK {
		data.Merchant = m.Value
	}

	if t := ParseTax(text); t.OK {
		v := t.Value
		data.Tax = &v
	}

	data.LineItems = ParseLineItems(text)

	sort.Strings(data.Defaulted)
	return data
}
