package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/caseconsulting/job-apply/internal/domain/upload"
)

var uploadContentType string

func uploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <path>",
		Short: "Request a signed upload policy for a resume",
		Long: `Ask a running intake service for the form fields needed to POST a file
directly to storage under <path>.

Examples:
  applyctl upload 3f0c.../resume.pdf --content-type application/pdf`,
		Args: cobra.ExactArgs(1),
		RunE: runUpload,
	}

	cmd.Flags().StringVar(&uploadContentType, "content-type", "application/pdf", "Content type of the file to upload")

	return cmd
}

func runUpload(cmd *cobra.Command, args []string) error {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("contentType", uploadContentType); err != nil {
		return err
	}
	if err := form.Close(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	endpoint := strings.TrimRight(serverURL, "/") + "/upload/" + strings.TrimLeft(args[0], "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to request upload policy: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var msg applyResponse
		_ = json.NewDecoder(resp.Body).Decode(&msg)
		return fmt.Errorf("%s %s", failText(fmt.Sprintf("rejected (%d):", resp.StatusCode)), msg.Message)
	}

	var cred upload.Credential
	if err := json.NewDecoder(resp.Body).Decode(&cred); err != nil {
		return fmt.Errorf("unexpected response: %w", err)
	}

	w := cmd.OutOrStdout()
	if outputFmt == "json" {
		return printJSON(w, cred)
	}

	fmt.Fprintln(w, headText("POST "+cred.PostEndpoint))
	keys := make([]string, 0, len(cred.Signature))
	for k := range cred.Signature {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([][2]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, [2]string{k, cred.Signature[k]})
	}
	printPairs(w, pairs)
	return nil
}
