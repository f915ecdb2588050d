// Package root contains the root command for the application
package root

import (
	"fmt"
	"sync"

	cmdcommon "fjacquet/monarch-csv/cmd/common"
	"fjacquet/monarch-csv/internal/common"
	"fjacquet/monarch-csv/internal/config"
	"fjacquet/monarch-csv/internal/container"
	"fjacquet/monarch-csv/internal/fileutils"
	"fjacquet/monarch-csv/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Inputs   []string
	Output   string
	Validate bool
	Header   bool
	Stats    bool
}

// ConfigOverride adjusts the loaded configuration from the flags of the
// command being run.
type ConfigOverride func(cmd *cobra.Command, cfg *config.Config)

var (
	// Log is the shared logger instance for commands
	Log = logging.NewLogrusAdapter("info", "text")

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "monarch-csv",
		Short: "Convert Venmo and PayPal CSV exports into Monarch import files.",
		Long: `monarch-csv converts Venmo account statements and PayPal activity downloads
into the 8-column CSV layout accepted by Monarch's transaction upload.
Transactions are categorized with a small set of rules that can be replaced
by a YAML rules file.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to monarch-csv!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			Teardown(cmd)
		},
		SilenceUsage: true,
	}

	// SharedFlags holds the values of the persistent flags
	SharedFlags = CommonFlags{}

	appContainer *container.Container
	overrides    []ConfigOverride
	initOnce     sync.Once
)

// Init initializes the root command and all flags
func Init() {
	initOnce.Do(func() {
		flags := Cmd.PersistentFlags()
		flags.StringArrayVarP(&SharedFlags.Inputs, "input", "i", nil, "Input file or directory (repeatable)")
		flags.StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (directory for batch)")
		flags.BoolVarP(&SharedFlags.Validate, "validate", "v", false, "Validate file format before conversion")
		flags.BoolVar(&SharedFlags.Header, "header", false, "Write a header row in the output")
		flags.BoolVar(&SharedFlags.Stats, "stats", false, "Print per-source row counts when done")
	})
}

// AddConfigOverride registers a hook run on the configuration before the
// container is built.
func AddConfigOverride(o ConfigOverride) {
	overrides = append(overrides, o)
}

// Setup loads .env and configuration, applies flag overrides and builds the
// application container.
func Setup(cmd *cobra.Command) error {
	config.LoadEnv(nil)

	cfg, err := config.InitializeConfig()
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return err
	}
	Log = c.GetLogger()
	appContainer = c
	return nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if SharedFlags.Header {
		cfg.CSV.IncludeHeaders = true
	}
	if SharedFlags.Stats {
		cfg.Metrics.Enabled = true
	}
	for _, o := range overrides {
		o(cmd, cfg)
	}
}

// Teardown prints the stage summary when enabled and releases the container.
func Teardown(cmd *cobra.Command) {
	if appContainer == nil {
		return
	}
	if appContainer.GetConfig().Metrics.Enabled {
		if summary := appContainer.GetMetrics().Summary(); summary != "" {
			fmt.Fprint(cmd.OutOrStdout(), summary)
		}
	}
	if err := appContainer.Close(); err != nil {
		Log.WithError(err).Warn("Failed to close container")
	}
}

// GetContainer returns the container built for the running command, or nil
// before Setup.
func GetContainer() *container.Container {
	return appContainer
}

// GetConfig returns the effective configuration, or the defaults before Setup.
func GetConfig() *config.Config {
	if appContainer == nil {
		return config.DefaultConfig()
	}
	return appContainer.GetConfig()
}

// GetLogger returns the configured logger.
func GetLogger() logging.Logger {
	return Log
}

// WriteOptions returns the output options of the effective configuration.
func WriteOptions() common.WriteOptions {
	cfg := GetConfig()
	return common.WriteOptions{
		Delimiter:     cfg.DelimiterRune(),
		IncludeHeader: cfg.CSV.IncludeHeaders,
	}
}

// ProcessOptions returns the conversion options for the running command.
func ProcessOptions() cmdcommon.Options {
	opts := cmdcommon.Options{
		Validate: SharedFlags.Validate,
		Write:    WriteOptions(),
	}
	if appContainer != nil {
		opts.Metrics = appContainer.GetMetrics()
	}
	return opts
}

// InputFiles merges --input values with positional arguments and expands
// directories to the CSV files they hold.
func InputFiles(args []string) ([]string, error) {
	paths := append(append([]string(nil), SharedFlags.Inputs...), args...)
	if len(paths) == 0 {
		return nil, cmdcommon.ErrNoInput
	}
	return fileutils.ExpandInputs(paths)
}
