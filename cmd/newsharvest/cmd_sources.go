package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"newsharvest/internal/config"
)

var sourcesFlags struct {
	configPath string
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the search sources in the catalog",
	RunE:  runSources,
}

func init() {
	f := sourcesCmd.Flags()
	f.StringVar(&sourcesFlags.configPath, "config", "sources.yml", "Source catalog file")
}

func runSources(cmd *cobra.Command, _ []string) error {
	catalog, err := config.NewCatalogFromFile(sourcesFlags.configPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, src := range catalog.Sources {
		fmt.Fprintf(out, "%s\n", src.Name)
		fmt.Fprintf(out, "  endpoint:  %s%s\n", src.Base, src.Endpoint)
		fmt.Fprintf(out, "  records:   %s\n", src.RecordsPath)
		fmt.Fprintf(out, "  total:     %s\n", src.TotalPath)
		if src.APIKeyEnv != "" {
			fmt.Fprintf(out, "  api key:   $%s\n", src.APIKeyEnv)
		}
	}

	return nil
}
