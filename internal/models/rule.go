package models

import (
	"fmt"
	"strings"
)

// RuleKind names how a categorization rule matches.
type RuleKind string

const (
	// RuleMerchantEquals matches the merchant exactly, case included.
	RuleMerchantEquals RuleKind = "merchant_equals"
	// RuleNoteContains matches a substring of the note, ignoring case.
	RuleNoteContains RuleKind = "note_contains"
	// RuleNoteEquals matches the whole trimmed note, ignoring case.
	RuleNoteEquals RuleKind = "note_equals"
	// RuleStatementContains matches a substring of the original statement.
	RuleStatementContains RuleKind = "statement_contains"
)

// SourceAny scopes a rule to every export format.
const SourceAny Source = "any"

// CategoryRule maps records matching any of Patterns to Category.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Source   Source   `yaml:"source"`
	Kind     RuleKind `yaml:"kind"`
	Patterns []string `yaml:"patterns"`
	Category string   `yaml:"category"`
}

// CategoryRulesConfig is the layout of a rules file.
type CategoryRulesConfig struct {
	Rules []CategoryRule `yaml:"rules"`
}

// AppliesTo reports whether the rule is scoped to source. An empty scope
// means any source.
func (r CategoryRule) AppliesTo(source Source) bool {
	return r.Source == "" || r.Source == SourceAny || r.Source == source
}

// Validate checks that the rule can be evaluated.
func (r CategoryRule) Validate() error {
	switch r.Kind {
	case RuleMerchantEquals, RuleNoteContains, RuleNoteEquals, RuleStatementContains:
	default:
		return fmt.Errorf("rule %q: unknown kind %q", r.Name, r.Kind)
	}
	switch r.Source {
	case "", SourceAny, SourceVenmo, SourcePayPal:
	default:
		return fmt.Errorf("rule %q: unknown source %q", r.Name, r.Source)
	}
	if strings.TrimSpace(r.Category) == "" {
		return fmt.Errorf("rule %q: category is required", r.Name)
	}
	if len(r.Patterns) == 0 {
		return fmt.Errorf("rule %q: at least one pattern is required", r.Name)
	}
	return nil
}
