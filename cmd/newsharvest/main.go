// newsharvest is the CLI for paged retrieval of public news and newspaper
// search APIs, flattening JSON responses into one combined table.
//
// Usage:
//
//	newsharvest harvest --config sources.yml --source chronam --param andtext="gold rush" -o results.csv
//	newsharvest sources --config sources.yml
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "newsharvest",
	Short: "Harvest paged search APIs into flat tables",
	Long: "newsharvest walks every page of a configured search API at a fixed\n" +
		"request rate and flattens the JSON results into one CSV table.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(harvestCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
