package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/strategy-profiler/internal/observability"
	"github.com/jonathan/strategy-profiler/internal/pipeline"
	"github.com/jonathan/strategy-profiler/internal/schemas"
	"github.com/jonathan/strategy-profiler/internal/types"
	"github.com/jonathan/strategy-profiler/internal/validation"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a responses document and print the report summary",
	Long: `Reads a responses document ({"email": "...", "responses": {...}}), scores it
and prints the dominant strategy, feedback and suggestions.

With --submit the result is also saved and emailed exactly as the API does.`,
	RunE: runScore,
}

var (
	scoreResponses string
	scoreHTML      string
	scoreJSON      bool
	scoreSubmit    bool
	scoreEmail     string
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreResponses, "responses", "r", "", "Path to responses JSON document (required)")
	scoreCmd.Flags().StringVar(&scoreHTML, "html", "", "Write the rendered HTML report to this path")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Print the report as JSON instead of boxes")
	scoreCmd.Flags().BoolVar(&scoreSubmit, "submit", false, "Save and email the result")
	scoreCmd.Flags().StringVar(&scoreEmail, "email", "", "Recipient for --submit (overrides the document and responses email)")

	if err := scoreCmd.MarkFlagRequired("responses"); err != nil {
		panic(fmt.Sprintf("failed to mark responses flag as required: %v", err))
	}

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	if err := schemas.ValidateResponsesFile(scoreResponses); err != nil {
		return err
	}
	content, err := os.ReadFile(scoreResponses)
	if err != nil {
		return fmt.Errorf("failed to read responses file: %w", err)
	}

	var doc types.SubmitRequest
	if err := json.Unmarshal(content, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal responses JSON: %w", err)
	}

	c, err := buildCore(nil)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	responses, err := c.catalog.ParseResponses(doc.Responses)
	if err != nil {
		return err
	}

	var (
		report     *pipeline.Report
		submission *pipeline.Submission
	)
	if scoreSubmit {
		email, err := validation.SubmissionEmail(doc.Email, responses)
		if err != nil {
			return err
		}
		if scoreEmail != "" {
			email = scoreEmail
		}
		submission, err = submit(cmd, c, email, responses)
		if err != nil {
			return err
		}
		report = submission.Report
	} else {
		report, err = c.evaluator.Evaluate(responses)
		if err != nil {
			return err
		}
	}

	if scoreHTML != "" {
		if err := os.WriteFile(scoreHTML, []byte(report.HTML), 0o644); err != nil {
			return fmt.Errorf("failed to write HTML report: %w", err)
		}
		logger.Debug("wrote HTML report", zap.String("path", scoreHTML))
	}

	out := cmd.OutOrStdout()
	if scoreJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if submission != nil {
			return enc.Encode(submission)
		}
		return enc.Encode(report)
	}

	printer := observability.NewPrinter(out)
	printer.PrintScore(report.Score, c.reference)
	printer.PrintFeedback(report.Feedback)
	printer.PrintSuggestions(report.Suggestions)
	if submission != nil {
		printer.PrintDelivery(submission.Saved, submission.ResultID, string(submission.EmailStatus))
	}
	return nil
}

func submit(cmd *cobra.Command, c *core, email string, responses types.ResponseSet) (*pipeline.Submission, error) {
	store, err := openStore(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to open results store: %w", err)
	}
	defer func() { _ = store.Close() }()

	service := pipeline.NewService(c.evaluator, pipeline.ServiceOptions{
		Store:  store,
		Mailer: newMailer(),
		Logger: logger,
		OnProgress: func(e pipeline.ProgressEvent) {
			logger.Debug("submission progress", zap.String("step", e.Step), zap.String("message", e.Message))
		},
	})
	return service.Submit(cmd.Context(), email, responses)
}
