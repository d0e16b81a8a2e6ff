// Package parse turns raw extracted text into structured document data.
// Each parser is a pure function over the text: independent,
// order-insensitive, and safe to run in any sequence. "Not found" is a
// valid outcome, never an error.
package parse

// Field is a single extracted value with extraction metadata.
type Field[T any] struct {
	Value    T
	OK       bool   // false = absent
	RawMatch string // the substring the value came from
	Rule     string // which extraction rule produced it
}

func found[T any](v T, raw, rule string) Field[T] {
	return Field[T]{Value: v, OK: true, RawMatch: raw, Rule: rule}
}

func absent[T any]() Field[T] {
	return Field[T]{}
}
