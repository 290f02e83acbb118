package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/caseconsulting/job-apply/internal/domain/application"
	"github.com/caseconsulting/job-apply/internal/domain/ats"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <submission.json>",
		Short: "Validate a submission locally without storing it",
		Long: `Run the intake validation rules against a submission file and show the
record that would be stored, along with the Workable job it routes to.

Examples:
  applyctl validate submission.json
  applyctl validate submission.json -o json`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func readSubmission(path string) (*application.Submission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read submission: %w", err)
	}
	var sub application.Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, fmt.Errorf("failed to parse submission: %w", err)
	}
	return &sub, nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	sub, err := readSubmission(args[0])
	if err != nil {
		return err
	}

	app, err := application.Validate(sub, time.Now())
	if err != nil {
		return fmt.Errorf("%s %w", failText("invalid:"), err)
	}
	rec := app.Record()
	shortcode := ats.ShortcodeFor(rec)

	out := cmd.OutOrStdout()
	if outputFmt == "json" {
		return printJSON(out, map[string]any{"record": rec, "shortcode": shortcode})
	}

	printRecord(out, "Record", rec)
	fmt.Fprintf(out, "%s shortcode %s\n", status(true, "valid"), shortcode)
	return nil
}
