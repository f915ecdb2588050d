// Package store loads and saves categorization rules as YAML.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/monarch-csv/internal/logging"
	"fjacquet/monarch-csv/internal/models"

	"gopkg.in/yaml.v3"
)

// RuleStore manages the categorization rules file.
type RuleStore struct {
	RulesFile string
	logger    logging.Logger
}

// NewRuleStore creates a store for rulesFile. An empty name means no file
// and LoadRules returns nothing.
func NewRuleStore(rulesFile string, logger logging.Logger) *RuleStore {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &RuleStore{
		RulesFile: rulesFile,
		logger:    logger,
	}
}

// FindConfigFile looks for a configuration file in standard locations.
func (s *RuleStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join(".monarch-csv", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".monarch-csv", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadRules reads the rules file. A missing file is not an error and yields
// no rules, so callers fall back to the built-in set.
func (s *RuleStore) LoadRules() ([]models.CategoryRule, error) {
	if s.RulesFile == "" {
		return nil, nil
	}

	filePath, err := s.FindConfigFile(s.RulesFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Rules file not found, using built-in rules",
				logging.Field{Key: logging.FieldFile, Value: s.RulesFile})
			return nil, nil
		}
		return nil, fmt.Errorf("error resolving rules file: %w", err)
	}

	// #nosec G304 -- path comes from configuration
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading rules file: %w", err)
	}

	rules, err := parseRules(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing rules file %s: %w", filePath, err)
	}
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("error in rules file %s: %w", filePath, err)
		}
	}

	s.logger.Debug("Loaded categorization rules",
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(rules)})
	return rules, nil
}

// parseRules accepts either a top-level "rules:" key or a bare list.
func parseRules(data []byte) ([]models.CategoryRule, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	if doc.Content[0].Kind == yaml.SequenceNode {
		var rules []models.CategoryRule
		if err := doc.Decode(&rules); err != nil {
			return nil, err
		}
		return rules, nil
	}

	var cfg models.CategoryRulesConfig
	if err := doc.Decode(&cfg); err != nil {
		return nil, err
	}
	return cfg.Rules, nil
}

// SaveRules writes rules to the store's file, creating parent directories.
func (s *RuleStore) SaveRules(rules []models.CategoryRule) error {
	if s.RulesFile == "" {
		return fmt.Errorf("no rules file configured")
	}

	data, err := yaml.Marshal(models.CategoryRulesConfig{Rules: rules})
	if err != nil {
		return fmt.Errorf("error encoding rules: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.RulesFile), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating rules directory: %w", err)
	}
	if err := os.WriteFile(s.RulesFile, data, models.PermissionConfigFile); err != nil {
		return fmt.Errorf("error writing rules file: %w", err)
	}

	s.logger.Info("Saved categorization rules",
		logging.Field{Key: logging.FieldFile, Value: s.RulesFile},
		logging.Field{Key: logging.FieldCount, Value: len(rules)})
	return nil
}
