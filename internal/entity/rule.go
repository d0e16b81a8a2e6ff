package entity

import "github.com/google/uuid"

// Rule match fields.
const (
	RuleFieldMerchant    = "merchant"
	RuleFieldDescription = "description"
)

// CategoryRule is a user-owned pattern-to-category mapping, evaluated
// before built-in keyword categorization. Lower priority number means
// higher precedence; ties break by ID ascending.
type CategoryRule struct {
	ID       int64     `json:"id"`
	OwnerID  uuid.UUID `json:"owner_id"`
	Name     string    `json:"name"`
	Pattern  string    `json:"pattern"`
	Field    string    `json:"field"`
	Category string    `json:"category"`
	Priority int       `json:"priority"`
	Active   bool      `json:"active"`
}

// Categorization methods.
const (
	MethodRule    = "rule"
	MethodKeyword = "keyword"
	MethodNone    = "none"
)

// CategorizationResult reports which tier resolved the category, if any.
// An empty Category with MethodNone is a valid, non-error outcome.
type CategorizationResult struct {
	Category string `json:"category,omitempty"`
	Method   string `json:"method"`
}
