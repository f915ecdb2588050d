package store

import "fjacquet/monarch-csv/internal/models"

// MockRuleStore is an in-memory rule store for tests.
type MockRuleStore struct {
	Rules []models.CategoryRule

	LoadRulesError error
	SaveRulesError error
}

// LoadRules returns a copy of the mock rules.
func (m *MockRuleStore) LoadRules() ([]models.CategoryRule, error) {
	if m.LoadRulesError != nil {
		return nil, m.LoadRulesError
	}
	if m.Rules == nil {
		return nil, nil
	}
	return append([]models.CategoryRule(nil), m.Rules...), nil
}

// SaveRules replaces the mock rules.
func (m *MockRuleStore) SaveRules(rules []models.CategoryRule) error {
	if m.SaveRulesError != nil {
		return m.SaveRulesError
	}
	m.Rules = append([]models.CategoryRule(nil), rules...)
	return nil
}
