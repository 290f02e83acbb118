package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type applyResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func applyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <submission.json>",
		Short: "Submit an application to a running intake service",
		Long: `POST a submission file to the /apply endpoint and print the assigned id.

Examples:
  applyctl apply submission.json --url https://apply.example.com`,
		Args: cobra.ExactArgs(1),
		RunE: runApply,
	}
}

func runApply(cmd *cobra.Command, args []string) error {
	sub, err := readSubmission(args[0])
	if err != nil {
		return err
	}
	body, err := json.Marshal(sub)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	endpoint := strings.TrimRight(serverURL, "/") + "/apply"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to submit: %w", err)
	}
	defer resp.Body.Close()

	var out applyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("unexpected response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s", failText(fmt.Sprintf("rejected (%d):", resp.StatusCode)), out.Message)
	}

	w := cmd.OutOrStdout()
	if outputFmt == "json" {
		return printJSON(w, out)
	}
	fmt.Fprintf(w, "%s %s\n", status(true, out.Message), out.ID)
	return nil
}
