package main

import (
	"fmt"
	"os"

	"fjacquet/monarch-csv/cmd/batch"
	"fjacquet/monarch-csv/cmd/categorize"
	"fjacquet/monarch-csv/cmd/paypal"
	"fjacquet/monarch-csv/cmd/root"
	"fjacquet/monarch-csv/cmd/venmo"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(venmo.Cmd)
	root.Cmd.AddCommand(paypal.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
