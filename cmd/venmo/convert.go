// Package venmo handles Venmo statement conversion commands
package venmo

import (
	"fmt"

	"fjacquet/monarch-csv/cmd/common"
	"fjacquet/monarch-csv/cmd/root"
	"fjacquet/monarch-csv/internal/config"
	"fjacquet/monarch-csv/internal/parser"

	"github.com/spf13/cobra"
)

// Cmd represents the venmo command
var Cmd = &cobra.Command{
	Use:   "venmo [statement.csv...]",
	Short: "Convert Venmo statements to Monarch CSV",
	Long: `Convert one or more Venmo account statements into a single Monarch import file.

Statements are converted one by one, combined and sorted by date. Only payments
and charges are kept; transfers and balance rows are dropped.

Example:
  monarch-csv venmo -i july.csv -i august.csv -o venmo_monarch.csv`,
	Run: venmoFunc,
}

var (
	account      string
	signFromType bool
	noCategorize bool
)

func init() {
	Cmd.Flags().StringVar(&account, "account", "", "Account label written in the Account column (default from config)")
	Cmd.Flags().BoolVar(&signFromType, "sign-from-type", false, "Derive the amount sign from the transaction type instead of the export")
	Cmd.Flags().BoolVar(&noCategorize, "no-categorize", false, "Leave the Category column empty")

	root.AddConfigOverride(func(cmd *cobra.Command, cfg *config.Config) {
		if cmd != Cmd {
			return
		}
		if cmd.Flags().Changed("account") {
			cfg.Venmo.Account = account
		}
		if signFromType {
			cfg.Venmo.TrustSourceSign = false
		}
		if noCategorize {
			cfg.Venmo.Categorize = false
		}
	})
}

func venmoFunc(cmd *cobra.Command, args []string) {
	if err := run(args); err != nil {
		root.GetLogger().Fatalf("Error processing Venmo statements: %v", err)
	}
}

func run(args []string) error {
	logger := root.GetLogger()

	inputs, err := root.InputFiles(args)
	if err != nil {
		return err
	}

	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	p, err := c.GetParser(parser.Venmo)
	if err != nil {
		return err
	}

	_, err = common.ProcessFiles(p, inputs, root.SharedFlags.Output, root.ProcessOptions(), logger)
	return err
}
