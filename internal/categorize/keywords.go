package categorize

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed keywords.json
var keywordsJSON []byte

//go:embed keywords_schema.json
var keywordsSchemaJSON string

// KeywordGroup maps one category archetype to its keyword set. Groups
// are evaluated in declaration order, so the table stays deterministic.
type KeywordGroup struct {
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
}

// builtinTable is immutable process-wide static data, loaded and
// schema-validated once at startup. User rules are kept fully separate
// and always evaluated first.
var builtinTable = mustLoadKeywordTable()

func mustLoadKeywordTable() []KeywordGroup {
	table, err := loadKeywordTable(keywordsJSON)
	if err != nil {
		panic(fmt.Sprintf("categorize: invalid embedded keyword table: %v", err))
	}
	return table
}

func loadKeywordTable(raw []byte) ([]KeywordGroup, error) {
	sch, err := jsonschema.CompileString("keywords_schema.json", keywordsSchemaJSON)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	var table []KeywordGroup
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return table, nil
}
