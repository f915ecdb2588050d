// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"fjacquet/monarch-csv/internal/logging"
	"fjacquet/monarch-csv/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every configuration key read from the environment.
const EnvPrefix = "MONARCH"

// LogConfig holds the logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// CSVConfig holds the output CSV settings.
type CSVConfig struct {
	Delimiter      string `mapstructure:"delimiter" yaml:"delimiter"`
	IncludeHeaders bool   `mapstructure:"include_headers" yaml:"include_headers"`
}

// VenmoConfig holds the Venmo conversion settings.
type VenmoConfig struct {
	Account         string `mapstructure:"account" yaml:"account"`
	TrustSourceSign bool   `mapstructure:"trust_source_sign" yaml:"trust_source_sign"`
	Categorize      bool   `mapstructure:"categorize" yaml:"categorize"`
}

// PayPalConfig holds the PayPal conversion settings.
type PayPalConfig struct {
	Account string `mapstructure:"account" yaml:"account"`
}

// CategorizationConfig points at an optional YAML rules file.
type CategorizationConfig struct {
	RulesFile string `mapstructure:"rules_file" yaml:"rules_file"`
}

// MetricsConfig toggles the end-of-run stage summary.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// Config represents the complete application configuration
type Config struct {
	Log            LogConfig            `mapstructure:"log" yaml:"log"`
	CSV            CSVConfig            `mapstructure:"csv" yaml:"csv"`
	Venmo          VenmoConfig          `mapstructure:"venmo" yaml:"venmo"`
	PayPal         PayPalConfig         `mapstructure:"paypal" yaml:"paypal"`
	Categorization CategorizationConfig `mapstructure:"categorization" yaml:"categorization"`
	Metrics        MetricsConfig        `mapstructure:"metrics" yaml:"metrics"`
}

// DelimiterRune returns the configured delimiter as a rune, or ',' when unset.
func (c *Config) DelimiterRune() rune {
	if c == nil || c.CSV.Delimiter == "" {
		return ','
	}
	return []rune(c.CSV.Delimiter)[0]
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.monarch-csv")
	v.AddConfigPath(".monarch-csv")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	// Defaults always decode.
	_ = v.Unmarshal(&config)
	return &config
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// CSV defaults; Monarch imports have no header row
	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.include_headers", false)

	// Source defaults
	v.SetDefault("venmo.account", models.AccountVenmo)
	v.SetDefault("venmo.trust_source_sign", true)
	v.SetDefault("venmo.categorize", true)
	v.SetDefault("paypal.account", models.AccountPayPal)

	v.SetDefault("categorization.rules_file", "")
	v.SetDefault("metrics.enabled", false)
}

// Validate checks the configuration after flags have overridden it.
func (c *Config) Validate() error {
	return validateConfig(c)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %q", config.CSV.Delimiter)
	}

	if strings.TrimSpace(config.Venmo.Account) == "" {
		return fmt.Errorf("venmo.account must not be empty")
	}
	if strings.TrimSpace(config.PayPal.Account) == "" {
		return fmt.Errorf("paypal.account must not be empty")
	}

	return nil
}

// ConfigureLoggingFromConfig builds the application logger from the Config struct
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	if config == nil {
		return logging.NewLogrusAdapter("info", "text")
	}
	return logging.NewLogrusAdapter(config.Log.Level, config.Log.Format)
}
