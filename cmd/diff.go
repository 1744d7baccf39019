package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/user/regnav/pkg/report"
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare an evaluation against a saved baseline",
	Long: `Diff compares two snapshots (or report.json files) and lists the gaps
that are new, resolved or unchanged since the baseline.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		baselinePath, _ := cmd.Flags().GetString("baseline")
		currentPath, _ := cmd.Flags().GetString("current")
		asJSON, _ := cmd.Flags().GetBool("json")

		baseline, err := report.LoadSnapshot(baselinePath)
		if err != nil {
			return fmt.Errorf("load baseline: %w", err)
		}
		current, err := report.LoadSnapshot(currentPath)
		if err != nil {
			return fmt.Errorf("load current: %w", err)
		}

		diff := report.Compare(current, baseline)
		if asJSON {
			return report.WriteJSON(os.Stdout, diff)
		}
		fmt.Print(report.FormatDiff(diff, baselinePath))
		return nil
	},
}

func init() {
	diffCmd.Flags().String("baseline", report.DefaultSnapshotPath, "Baseline snapshot")
	diffCmd.Flags().String("current", "", "Current snapshot or report.json")
	diffCmd.Flags().Bool("json", false, "Print the diff as JSON")
	_ = diffCmd.MarkFlagRequired("current")
	rootCmd.AddCommand(diffCmd)
}
