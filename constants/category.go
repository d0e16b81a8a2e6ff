package constants

import (
	"strings"
)

type Category string

const (
	Food          Category = "Food"
	Transport     Category = "Transport"
	Shopping      Category = "Shopping"
	Entertainment Category = "Entertainment"
	Utilities     Category = "Utilities"
	Health        Category = "Health"
	Rent          Category = "Rent"
	Insurance     Category = "Insurance"
	Other         Category = "Other"
)

var allCategories = []Category{
	Food,
	Transport,
	Shopping,
	Entertainment,
	Utilities,
	Health,
	Rent,
	Insurance,
	Other,
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

func Canonicalize(input string) (Category, bool) {
	if input == "" {
		return Other, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]Category{
		"groceries":      Food,
		"dining":         Food,
		"restaurant":     Food,
		"travel":         Transport,
		"transportation": Transport,
		"bills":          Utilities,
		"medical":        Health,
		"housing":        Rent,
	}

	if cat, ok := synonyms[normalized]; ok {
		return cat, true
	}

	// check if it matches any category string
	for _, cat := range allCategories {
		if normalized == strings.ToLower(string(cat)) {
			return cat, true
		}
	}

	return Other, false
}
