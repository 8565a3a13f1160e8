package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/strategy-profiler/internal/admin"
	"github.com/jonathan/strategy-profiler/internal/db"
)

const cliExportLimit = 100000

var (
	exportEmail string
	exportLimit int
	exportOut   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved results as CSV",
	Long: `Writes saved assessment results in the admin CSV format.
Use --out - to write to stdout.`,
	RunE: runExport,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print aggregate statistics over saved results as JSON",
	RunE:  runStats,
}

func init() {
	exportCmd.Flags().StringVar(&exportEmail, "email", "", "Only export results for this email")
	exportCmd.Flags().IntVar(&exportLimit, "limit", cliExportLimit, "Maximum number of rows")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", admin.ExportFilename, "Output file (- for stdout)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(statsCmd)
}

func loadResults(cmd *cobra.Command, filters db.ResultFilters) ([]db.AssessmentResult, error) {
	store, err := openStore(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to open results store: %w", err)
	}
	defer func() { _ = store.Close() }()

	results, err := store.ListAssessmentResults(cmd.Context(), filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}
	return results, nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	if exportLimit < 1 {
		return fmt.Errorf("--limit must be a positive integer, got %d", exportLimit)
	}
	results, err := loadResults(cmd, db.ResultFilters{Email: exportEmail, Limit: exportLimit})
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if exportOut != "-" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	if err := admin.WriteCSV(out, results); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	if exportOut != "-" {
		logger.Info("exported results", zap.Int("rows", len(results)), zap.String("path", exportOut))
	}
	return nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	results, err := loadResults(cmd, db.ResultFilters{Limit: cliExportLimit})
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(admin.Summarize(results, time.Now()))
}
