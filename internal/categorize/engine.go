// Package categorize resolves a spending category for a transaction
// draft: user-defined rules first, then the built-in keyword table.
package categorize

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/expenso/docpipe/internal/entity"
)

type Engine struct {
	logger *slog.Logger
	table  []KeywordGroup
}

func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger, table: builtinTable}
}

// Resolve applies the owner's active rules in ascending priority order
// (ties broken by rule ID), then falls back to keyword matching. A "no
// match" outcome is MethodNone, never an error. Given identical inputs
// and rule set the result is always identical.
func (e *Engine) Resolve(merchant, description string, rules []entity.CategoryRule) entity.CategorizationResult {
	if rule, ok := e.matchRules(merchant, description, rules); ok {
		e.logger.Debug("categorize.rule", "rule_id", rule.ID, "category", rule.Category)
		return entity.CategorizationResult{Category: rule.Category, Method: entity.MethodRule}
	}
	if category, ok := e.matchKeywords(merchant, description); ok {
		e.logger.Debug("categorize.keyword", "category", category)
		return entity.CategorizationResult{Category: category, Method: entity.MethodKeyword}
	}
	e.logger.Debug("categorize.none", "merchant", merchant)
	return entity.CategorizationResult{Method: entity.MethodNone}
}

func (e *Engine) matchRules(merchant, description string, rules []entity.CategoryRule) (entity.CategoryRule, bool) {
	ordered := make([]entity.CategoryRule, 0, len(rules))
	for _, r := range rules {
		if r.Active {
			ordered = append(ordered, r)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority < ordered[j].Priority
		}
		return ordered[i].ID < ordered[j].ID
	})

	for _, rule := range ordered {
		var value string
		switch rule.Field {
		case entity.RuleFieldMerchant:
			value = merchant
		case entity.RuleFieldDescription:
			value = description
		default:
			continue
		}
		if matchPattern(rule.Pattern, value) {
			return rule, true
		}
	}
	return entity.CategoryRule{}, false
}

// matchPattern is case-insensitive regex search; a pattern that fails to
// compile degrades to plain substring matching.
func matchPattern(pattern, value string) bool {
	pattern = strings.ToLower(pattern)
	value = strings.ToLower(value)

	re, err := regexp.Compile(pattern)
	if err != nil {
		return strings.Contains(value, pattern)
	}
	return re.MatchString(value)
}

func (e *Engine) matchKeywords(merchant, description string) (string, bool) {
	text := strings.ToLower(merchant + " " + description)
	for _, group := range e.table {
		for _, kw := range group.Keywords {
			if strings.Contains(text, kw) {
				return group.Category, true
			}
		}
	}
	return "", false
}
