package admin

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jonathan/strategy-profiler/internal/db"
)

// ExportFilename is the suggested download name for the CSV export.
const ExportFilename = "divorce_assessment_data.csv"

// CSVHeader lists the export columns in order.
var CSVHeader = []string{
	"id", "email", "age", "divorce_stage", "overall_score", "dominant_strategy",
	"legal_score", "emotional_score", "financial_score", "children_score", "recovery_score",
	"created_at",
}

// WriteCSV writes results with a header row.
func WriteCSV(w io.Writer, results []db.AssessmentResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range results {
		record := []string{
			r.ID.String(),
			r.Email,
			r.Age,
			r.DivorceStage,
			formatScore(r.OverallScore),
			string(r.DominantStrategy),
			formatScore(r.LegalScore),
			formatScore(r.EmotionalScore),
			formatScore(r.FinancialScore),
			formatScore(r.ChildrenScore),
			formatScore(r.RecoveryScore),
			r.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
