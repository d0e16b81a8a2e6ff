package categorize

import (
	"testing"

	"github.com/expenso/docpipe/internal/entity"
)

func rule(id int64, pattern, field, category string, priority int, active bool) entity.CategoryRule {
	return entity.CategoryRule{
		ID:       id,
		Name:     pattern,
		Pattern:  pattern,
		Field:    field,
		Category: category,
		Priority: priority,
		Active:   active,
	}
}

func TestResolveRuleBeatsKeyword(t *testing.T) {
	e := NewEngine(nil)
	rules := []entity.CategoryRule{
		rule(1, "walmart", entity.RuleFieldMerchant, "Groceries", 10, true),
	}

	// "store" would hit the Shopping keyword without the rule.
	got := e.Resolve("Walmart Store #1234", "receipt.pdf", rules)
	if got.Method != entity.MethodRule {
		t.Fatalf("method = %q, want rule", got.Method)
	}
	if got.Category != "Groceries" {
		t.Errorf("category = %q, want Groceries", got.Category)
	}
}

func TestResolvePriorityOrder(t *testing.T) {
	e := NewEngine(nil)
	rules := []entity.CategoryRule{
		rule(1, "market", entity.RuleFieldMerchant, "Later", 20, true),
		rule(2, "market", entity.RuleFieldMerchant, "First", 5, true),
	}

	// Lower priority number wins regardless of slice order.
	got := e.Resolve("Fish Market", "scan.jpg", rules)
	if got.Category != "First" {
		t.Errorf("category = %q, want First", got.Category)
	}

	// Same result when the input order is reversed.
	got = e.Resolve("Fish Market", "scan.jpg", []entity.CategoryRule{rules[1], rules[0]})
	if got.Category != "First" {
		t.Errorf("reversed: category = %q, want First", got.Category)
	}
}

func TestResolvePriorityTieByID(t *testing.T) {
	e := NewEngine(nil)
	rules := []entity.CategoryRule{
		rule(7, "cafe", entity.RuleFieldMerchant, "SecondByID", 10, true),
		rule(3, "cafe", entity.RuleFieldMerchant, "FirstByID", 10, true),
	}
	got := e.Resolve("Corner Cafe", "x.pdf", rules)
	if got.Category != "FirstByID" {
		t.Errorf("category = %q, want FirstByID", got.Category)
	}
}

func TestResolveInactiveRuleSkipped(t *testing.T) {
	e := NewEngine(nil)
	rules := []entity.CategoryRule{
		rule(1, "cinema", entity.RuleFieldMerchant, "Dates", 1, false),
	}
	got := e.Resolve("Grand Cinema", "ticket.pdf", rules)
	if got.Method != entity.MethodKeyword {
		t.Fatalf("method = %q, want keyword fallback", got.Method)
	}
	if got.Category != "Entertainment" {
		t.Errorf("category = %q, want Entertainment", got.Category)
	}
}

func TestResolveDescriptionField(t *testing.T) {
	e := NewEngine(nil)
	rules := []entity.CategoryRule{
		rule(1, "subscription", entity.RuleFieldDescription, "Subscriptions", 1, true),
	}
	got := e.Resolve("ACME Corp", "monthly-subscription.pdf", rules)
	if got.Method != entity.MethodRule || got.Category != "Subscriptions" {
		t.Errorf("got %+v, want rule Subscriptions", got)
	}
}

func TestResolveInvalidRegexFallsBackToSubstring(t *testing.T) {
	e := NewEngine(nil)
	rules := []entity.CategoryRule{
		rule(1, "store[", entity.RuleFieldMerchant, "Broken", 1, true),
	}
	got := e.Resolve("big store[ downtown", "x.pdf", rules)
	if got.Method != entity.MethodRule || got.Category != "Broken" {
		t.Errorf("got %+v, want substring match on unparseable pattern", got)
	}
}

func TestResolveKeywords(t *testing.T) {
	e := NewEngine(nil)
	tests := []struct {
		merchant string
		want     string
	}{
		{"FRESH FOODS MARKET", "Food"},
		{"City Taxi", "Transport"},
		{"Amazon.com", "Shopping"},
		{"Netflix.com", "Entertainment"},
		{"Northside Pharmacy", "Health"},
		{"Apartment Rent March", "Rent"},
		{"Allstate Insurance", "Insurance"},
	}
	for _, tt := range tests {
		got := e.Resolve(tt.merchant, "", nil)
		if got.Method != entity.MethodKeyword {
			t.Errorf("%q: method = %q, want keyword", tt.merchant, got.Method)
			continue
		}
		if got.Category != tt.want {
			t.Errorf("%q: category = %q, want %q", tt.merchant, got.Category, tt.want)
		}
	}
}

func TestResolveNoMatch(t *testing.T) {
	e := NewEngine(nil)
	got := e.Resolve("Zzyzx Holdings", "doc.pdf", nil)
	if got.Method != entity.MethodNone {
		t.Fatalf("method = %q, want none", got.Method)
	}
	if got.Category != "" {
		t.Errorf("category = %q, want empty", got.Category)
	}
}

func TestResolveDeterministic(t *testing.T) {
	e := NewEngine(nil)
	rules := []entity.CategoryRule{
		rule(2, "shop", entity.RuleFieldMerchant, "A", 10, true),
		rule(1, "shop", entity.RuleFieldMerchant, "B", 10, true),
	}
	first := e.Resolve("Gift Shop", "x.pdf", rules)
	for i := 0; i < 20; i++ {
		if got := e.Resolve("Gift Shop", "x.pdf", rules); got != first {
			t.Fatalf("run %d: got %+v, want %+v", i, got, first)
		}
	}
}

func TestKeywordTableLoads(t *testing.T) {
	if len(builtinTable) == 0 {
		t.Fatal("builtin keyword table is empty")
	}
	if builtinTable[0].Category != "Food" {
		t.Errorf("first group = %q, want Food (match order is significant)", builtinTable[0].Category)
	}
}

func TestLoadKeywordTableRejectsInvalid(t *testing.T) {
	for _, raw := range []string{
		`[]`,                                 // must have at least one group
		`[{"category": "Food"}]`,             // keywords required
		`[{"keywords": ["x"]}]`,              // category required
		`[{"category":"","keywords":["x"]}]`, // empty category
	} {
		if _, err := loadKeywordTable([]byte(raw)); err == nil {
			t.Errorf("loadKeywordTable(%s) succeeded, want error", raw)
		}
	}
}
