// Package categorize handles transaction categorization commands
package categorize

import (
	"fmt"
	"io"

	"fjacquet/monarch-csv/cmd/root"
	"fjacquet/monarch-csv/internal/categorizer"
	"fjacquet/monarch-csv/internal/models"
	"fjacquet/monarch-csv/internal/store"

	"github.com/spf13/cobra"
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Show the category the rules give to a transaction",
	Long: `Show the Monarch category the categorization rules assign to a merchant,
note or statement, and which rule matched.

With --export-rules the active rules are written to a YAML file that can be
edited and loaded back through categorization.rules_file.

Examples:
  monarch-csv categorize --merchant Lyft
  monarch-csv categorize --source venmo --note "wednesday pickup"
  monarch-csv categorize --export-rules rules.yaml`,
	Run: categorizeFunc,
}

// Flags of the categorize command.
type Flags struct {
	Source      string
	Merchant    string
	Note        string
	Statement   string
	ExportRules string
}

var flags Flags

func init() {
	Cmd.Flags().StringVarP(&flags.Source, "source", "s", string(models.SourceAny), "Export the transaction comes from: venmo, paypal or any")
	Cmd.Flags().StringVarP(&flags.Merchant, "merchant", "m", "", "Merchant or counterparty name")
	Cmd.Flags().StringVarP(&flags.Note, "note", "n", "", "Venmo note")
	Cmd.Flags().StringVar(&flags.Statement, "statement", "", "Original statement text")
	Cmd.Flags().StringVar(&flags.ExportRules, "export-rules", "", "Write the active rules to this YAML file")
}

func categorizeFunc(cmd *cobra.Command, args []string) {
	c := root.GetContainer()
	if c == nil {
		root.GetLogger().Fatal("Container not initialized")
	}
	if err := run(cmd.OutOrStdout(), c.GetCategorizer(), flags); err != nil {
		root.GetLogger().Fatalf("Error categorizing: %v", err)
	}
}

func run(out io.Writer, cat *categorizer.Categorizer, f Flags) error {
	if f.ExportRules != "" {
		ruleStore := store.NewRuleStore(f.ExportRules, root.GetLogger())
		if err := ruleStore.SaveRules(cat.Rules()); err != nil {
			return err
		}
		_, err := fmt.Fprintf(out, "Exported %d rules to %s\n", len(cat.Rules()), f.ExportRules)
		return err
	}

	if f.Merchant == "" && f.Note == "" && f.Statement == "" {
		return fmt.Errorf("one of --merchant, --note or --statement is required")
	}

	var sources []models.Source
	switch source := models.Source(f.Source); source {
	case models.SourceVenmo, models.SourcePayPal:
		sources = []models.Source{source}
	case models.SourceAny, "":
		sources = []models.Source{models.SourceVenmo, models.SourcePayPal}
	default:
		return fmt.Errorf("unknown source %q", f.Source)
	}

	for _, source := range sources {
		rule, ok := cat.Match(categorizer.Input{
			Source:    source,
			Merchant:  f.Merchant,
			Note:      f.Note,
			Statement: f.Statement,
		})
		if ok {
			_, err := fmt.Fprintf(out, "Category: %s (rule: %s)\n", rule.Category, rule.Name)
			return err
		}
	}
	_, err := fmt.Fprintln(out, "No category matched")
	return err
}
