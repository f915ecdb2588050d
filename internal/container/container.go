// Package container provides dependency injection for the monarch-csv application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/monarch-csv/internal/categorizer"
	"fjacquet/monarch-csv/internal/common"
	"fjacquet/monarch-csv/internal/config"
	"fjacquet/monarch-csv/internal/logging"
	"fjacquet/monarch-csv/internal/metrics"
	"fjacquet/monarch-csv/internal/models"
	"fjacquet/monarch-csv/internal/parser"
	"fjacquet/monarch-csv/internal/paypalparser"
	"fjacquet/monarch-csv/internal/store"
	"fjacquet/monarch-csv/internal/venmoparser"
)

// detectionOrder fixes the order in which formats are tried by DetectSource.
var detectionOrder = []parser.ParserType{parser.Venmo, parser.PayPal}

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	categorizer *categorizer.Categorizer
	metrics     *metrics.Metrics

	parsers map[parser.ParserType]parser.FullParser
}

// NewContainer creates and wires all application dependencies, building the
// logger from the configuration.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, config.ConfigureLoggingFromConfig(cfg))
}

// NewContainerWithLogger wires all dependencies around an existing logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	ruleStore := store.NewRuleStore(cfg.Categorization.RulesFile, logger)
	cat, err := categorizer.NewCategorizerFromStore(ruleStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create categorizer: %w", err)
	}

	m := metrics.NewMetrics()
	writeOpts := common.WriteOptions{
		Delimiter:     cfg.DelimiterRune(),
		IncludeHeader: cfg.CSV.IncludeHeaders,
	}

	venmo := venmoparser.NewAdapter(venmoparser.Options{
		Account:         cfg.Venmo.Account,
		TrustSourceSign: cfg.Venmo.TrustSourceSign,
		Categorize:      cfg.Venmo.Categorize,
		Categorizer:     cat,
	}, logger)
	venmo.SetMetrics(m)
	venmo.SetWriteOptions(writeOpts)

	paypal := paypalparser.NewAdapter(paypalparser.Options{
		Account:     cfg.PayPal.Account,
		Categorizer: cat,
	}, logger)
	paypal.SetMetrics(m)
	paypal.SetWriteOptions(writeOpts)

	parsers := map[parser.ParserType]parser.FullParser{
		parser.Venmo:  venmo,
		parser.PayPal: paypal,
	}

	logger.Debug("Container initialized successfully",
		logging.Field{Key: "parsers_count", Value: len(parsers)},
		logging.Field{Key: "rules_count", Value: len(cat.Rules())})

	return &Container{
		logger:      logger,
		config:      cfg,
		categorizer: cat,
		metrics:     m,
		parsers:     parsers,
	}, nil
}

// GetParser returns a parser for the given type.
func (c *Container) GetParser(pt parser.ParserType) (parser.FullParser, error) {
	p, ok := c.parsers[pt]
	if !ok {
		return nil, fmt.Errorf("unknown parser type: %s", pt)
	}
	return p, nil
}

// DetectSource returns the export format of filePath by asking each parser
// whether it recognizes the file. Venmo is tried first.
func (c *Container) DetectSource(filePath string) (models.Source, bool) {
	for _, pt := range detectionOrder {
		p := c.parsers[pt]
		ok, err := p.ValidateFormat(filePath)
		if err != nil {
			c.logger.WithError(err).Debug("Format check failed",
				logging.Field{Key: logging.FieldFile, Value: filePath},
				logging.Field{Key: logging.FieldSource, Value: string(p.Source())})
			continue
		}
		if ok {
			return p.Source(), true
		}
	}
	return "", false
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetMetrics returns the stage counters shared by all parsers.
func (c *Container) GetMetrics() *metrics.Metrics {
	return c.metrics
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
