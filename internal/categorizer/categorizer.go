// Package categorizer infers a Monarch category for an entry from an ordered
// list of rules. The first matching rule wins; no match yields "".
package categorizer

import (
	"fmt"
	"strings"
	"sync"

	"fjacquet/monarch-csv/internal/logging"
	"fjacquet/monarch-csv/internal/models"
)

// Input carries the record fields rules can match on.
type Input struct {
	Source    models.Source
	Merchant  string
	Note      string
	Statement string
	Type      string
}

// Categorizer evaluates rules in order. It holds no mutable state after
// construction and is safe for concurrent use.
type Categorizer struct {
	rules  []Rule
	logger logging.Logger
}

// NewCategorizer creates a Categorizer over rules. Nil rules means the
// built-in defaults; every rule must validate.
func NewCategorizer(rules []Rule, logger logging.Logger) (*Categorizer, error) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if rules == nil {
		rules = DefaultRules()
	}
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("invalid categorization rule: %w", err)
		}
	}

	c := &Categorizer{
		rules:  append([]Rule(nil), rules...),
		logger: logger,
	}
	c.logger.Debug("Categorizer initialized",
		logging.Field{Key: logging.FieldCount, Value: len(c.rules)})
	return c, nil
}

// NewCategorizerFromStore loads rules from store. A store that has no rules
// yields the defaults.
func NewCategorizerFromStore(store RuleStoreInterface, logger logging.Logger) (*Categorizer, error) {
	if store == nil {
		return NewCategorizer(nil, logger)
	}
	rules, err := store.LoadRules()
	if err != nil {
		return nil, fmt.Errorf("error loading categorization rules: %w", err)
	}
	if len(rules) == 0 {
		rules = nil
	}
	return NewCategorizer(rules, logger)
}

// EntryCategorizer is what the converters need from a categorizer.
type EntryCategorizer interface {
	Categorize(in Input) string
}

var defaultCategorizer = sync.OnceValue(func() *Categorizer {
	c, err := NewCategorizer(nil, nil)
	if err != nil {
		panic(err)
	}
	return c
})

// Default returns the shared Categorizer over the built-in rules.
func Default() *Categorizer {
	return defaultCategorizer()
}

// Rules returns a copy of the rules in evaluation order.
func (c *Categorizer) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// Categorize returns the category of the first rule matching in, or "".
func (c *Categorizer) Categorize(in Input) string {
	rule, ok := c.Match(in)
	if !ok {
		return ""
	}
	return rule.Category
}

// Match returns the first rule matching in.
func (c *Categorizer) Match(in Input) (Rule, bool) {
	for _, r := range c.rules {
		if !r.AppliesTo(in.Source) {
			continue
		}
		if matches(r, in) {
			c.logger.Debug("Entry categorized",
				logging.Field{Key: "rule", Value: r.Name},
				logging.Field{Key: logging.FieldMerchant, Value: in.Merchant},
				logging.Field{Key: logging.FieldCategory, Value: r.Category})
			return r, true
		}
	}
	return Rule{}, false
}

func matches(r Rule, in Input) bool {
	switch r.Kind {
	case models.RuleMerchantEquals:
		for _, p := range r.Patterns {
			if in.Merchant == p {
				return true
			}
		}
	case models.RuleNoteContains:
		note := strings.ToLower(in.Note)
		for _, p := range r.Patterns {
			if strings.Contains(note, strings.ToLower(p)) {
				return true
			}
		}
	case models.RuleNoteEquals:
		note := strings.TrimSpace(in.Note)
		for _, p := range r.Patterns {
			if strings.EqualFold(note, strings.TrimSpace(p)) {
				return true
			}
		}
	case models.RuleStatementContains:
		for _, p := range r.Patterns {
			if strings.Contains(in.Statement, p) {
				return true
			}
		}
	}
	return false
}
