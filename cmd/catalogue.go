package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var catalogueCmd = &cobra.Command{
	Use:   "catalogue",
	Short: "List the loaded requirements and their weights",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return explain(err)
		}
		cat, err := loadCatalogue(cfg, log)
		if err != nil {
			return explain(err)
		}

		weights := cat.Weights()
		fmt.Printf("Catalogue: %s (partial credit %.0f%%)\n\n", cfg.CatalogueDir, weights.PartialMultiplier*100)
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCATEGORY\tWEIGHT\tRESOURCES\tTITLE")
		for _, r := range cat.Requirements() {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", r.ID, r.Category, weights.Weight(r.ID), len(cat.ResourcesFor(r.ID)), r.Title)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(catalogueCmd)
}
