package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/caseconsulting/job-apply/internal/app"
	"github.com/caseconsulting/job-apply/internal/config"
	"github.com/caseconsulting/job-apply/internal/domain"
	"github.com/caseconsulting/job-apply/pkg/logging"
)

var syncForce bool

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync <record.json>",
		Short: "Run one Workable synchronization attempt locally",
		Long: `Push a stored record to Workable using the environment configuration
(and .env, if present). Outside ENVIRONMENT=prod the attempt is skipped
unless --force is given.

Examples:
  applyctl sync record.json --force`,
		Args: cobra.ExactArgs(1),
		RunE: runSync,
	}

	cmd.Flags().BoolVar(&syncForce, "force", false, "Synchronize even outside the prod environment")

	return cmd
}

func readRecord(path string) (domain.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse record: %w", err)
	}
	rec := domain.CleanRecord(raw)
	if rec.ID() == "" {
		return nil, fmt.Errorf("record has no %s", domain.FieldID)
	}
	return rec, nil
}

func runSync(cmd *cobra.Command, args []string) error {
	rec, err := readRecord(args[0])
	if err != nil {
		return err
	}

	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if syncForce {
		cfg.Environment = config.ProdEnvironment
	}

	logger := logging.New(cfg.LogLevel, logging.WithConsole())
	defer func() { _ = logger.Sync() }()

	syncer, err := app.InitializeSynchronizer(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	res := syncer.Sync(cmd.Context(), rec)

	w := cmd.OutOrStdout()
	if outputFmt == "json" {
		out := map[string]string{
			"id":           rec.ID(),
			"state":        string(res.State),
			"failed_at":    string(res.FailedAt),
			"shortcode":    res.Shortcode,
			"candidate_id": res.CandidateID,
		}
		if res.Err != nil {
			out["error"] = res.Err.Error()
		}
		return printJSON(w, out)
	}

	fmt.Fprintln(w, status(res.OK(), string(res.State)))
	pairs := [][2]string{
		{"id", rec.ID()},
		{"shortcode", res.Shortcode},
		{"candidate", res.CandidateID},
		{"failed at", string(res.FailedAt)},
	}
	if res.Err != nil {
		pairs = append(pairs, [2]string{"error", res.Err.Error()})
	}
	printPairs(w, pairs)

	if !res.OK() {
		return fmt.Errorf("sync ended in state %s", res.State)
	}
	return nil
}
