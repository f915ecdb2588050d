// Package paypal handles PayPal activity download conversion commands
package paypal

import (
	"fmt"

	"fjacquet/monarch-csv/cmd/common"
	"fjacquet/monarch-csv/cmd/root"
	"fjacquet/monarch-csv/internal/config"
	"fjacquet/monarch-csv/internal/parser"

	"github.com/spf13/cobra"
)

// Cmd represents the paypal command
var Cmd = &cobra.Command{
	Use:   "paypal [Download.CSV...]",
	Short: "Convert PayPal activity downloads to Monarch CSV",
	Long: `Convert PayPal activity downloads into a Monarch import file.

Duplicate rows for the same purchase are collapsed, moves between your bank or
card and the PayPal balance are labelled as transfers, and fees become their
own entries.

Example:
  monarch-csv paypal -i Download.CSV -o paypal_monarch.csv --account "PayPal"`,
	Run: paypalFunc,
}

var account string

func init() {
	Cmd.Flags().StringVar(&account, "account", "", "Account label written in the Account column (default from config)")

	root.AddConfigOverride(func(cmd *cobra.Command, cfg *config.Config) {
		if cmd == Cmd && cmd.Flags().Changed("account") {
			cfg.PayPal.Account = account
		}
	})
}

func paypalFunc(cmd *cobra.Command, args []string) {
	if err := run(args); err != nil {
		root.GetLogger().Fatalf("Error processing PayPal downloads: %v", err)
	}
}

func run(args []string) error {
	inputs, err := root.InputFiles(args)
	if err != nil {
		return err
	}

	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	p, err := c.GetParser(parser.PayPal)
	if err != nil {
		return err
	}

	_, err = common.ProcessFiles(p, inputs, root.SharedFlags.Output, root.ProcessOptions(), root.GetLogger())
	return err
}
