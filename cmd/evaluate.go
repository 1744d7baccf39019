package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/regnav/pkg/engine"
	"github.com/user/regnav/pkg/ingest"
	"github.com/user/regnav/pkg/report"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a submission and print the readiness report",
	Long: `Evaluate reads the extracted text of the three submitted documents
(pages separated by form feeds, as written by pdftotext), asks the configured
provider for findings and prints the reconciled report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if format != "json" && format != "text" && format != "sarif" {
			return fmt.Errorf("unknown format %q (json, text, sarif)", format)
		}
		outDir, _ := cmd.Flags().GetString("out")
		metricsFile, _ := cmd.Flags().GetString("metrics-file")
		snapshotPath, _ := cmd.Flags().GetString("save-snapshot")

		paths := make(map[engine.Document]string, len(engine.Documents))
		for _, doc := range engine.Documents {
			paths[doc], _ = cmd.Flags().GetString(flagName(doc))
		}

		cfg, log, err := loadConfig()
		if err != nil {
			return explain(err)
		}

		sub, err := ingest.LoadSubmission(paths)
		if err != nil {
			return explain(err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		p, metrics, release, err := buildPipeline(ctx, cfg, log)
		if err != nil {
			return explain(err)
		}
		defer release()

		run, err := p.Run(ctx, sub)
		if metricsFile != "" {
			if werr := metrics.WriteTextfile(metricsFile); werr != nil {
				log.Warn("could not write metrics file", "path", metricsFile, "error", werr)
			}
		}
		if err != nil {
			return explain(err)
		}

		if err := writeReport(os.Stdout, format, run.Report, run); err != nil {
			return err
		}
		if outDir != "" {
			if err := writeOutDir(outDir, run.Report); err != nil {
				return err
			}
			log.Info("report files written", "dir", outDir)
		}
		if snapshotPath != "" {
			if err := report.SaveSnapshot(snapshotPath, run.Report); err != nil {
				return fmt.Errorf("save snapshot: %w", err)
			}
			log.Info("snapshot saved", "path", snapshotPath)
		}
		return nil
	},
}

// flagName maps business_plan to --business-plan
func flagName(doc engine.Document) string {
	return strings.ReplaceAll(string(doc), "_", "-")
}

func writeReport(w io.Writer, format string, rep *engine.EvaluationReport, envelope interface{}) error {
	switch format {
	case "text":
		_, err := io.WriteString(w, report.CategorySummary(rep))
		return err
	case "sarif":
		return report.WriteSARIF(w, rep)
	default:
		return report.WriteJSON(w, envelope)
	}
}

// writeOutDir writes the report, its renderings and one annotation file per
// document for the rendering layer
func writeOutDir(dir string, rep *engine.EvaluationReport) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	files := map[string]func(io.Writer) error{
		"report.json":  func(w io.Writer) error { return report.WriteJSON(w, rep) },
		"summary.txt":  func(w io.Writer) error { return writeReport(w, "text", rep, nil) },
		"report.sarif": func(w io.Writer) error { return report.WriteSARIF(w, rep) },
	}
	for _, ann := range rep.Documents {
		files[string(ann.Document)+".annotations.json"] = func(w io.Writer) error { return report.WriteJSON(w, ann) }
	}

	for name, write := range files {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if err := write(f); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	evaluateCmd.Flags().String("business-plan", "", "Extracted text of the business plan")
	evaluateCmd.Flags().String("compliance-policy", "", "Extracted text of the compliance policy")
	evaluateCmd.Flags().String("legal-structure", "", "Extracted text of the legal structure document")
	evaluateCmd.Flags().StringP("format", "f", "json", "Output format: json, text or sarif")
	evaluateCmd.Flags().StringP("out", "o", "", "Also write report files into this directory")
	evaluateCmd.Flags().String("metrics-file", "", "Write run metrics in prometheus textfile format")
	evaluateCmd.Flags().String("save-snapshot", "", "Save the findings as a baseline for 'regnav diff'")
	rootCmd.AddCommand(evaluateCmd)
}
