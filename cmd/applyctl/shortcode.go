package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caseconsulting/job-apply/internal/domain/ats"
)

var (
	shortcodeClearance string
	shortcodeTitles    []string
)

func shortcodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shortcode",
		Short: "Show the Workable job a clearance and title route to",
		Long: `Resolve the Workable job shortcode for a clearance and job titles.

Examples:
  applyctl shortcode --clearance FSP --title "Software Developer"
  applyctl shortcode --title "Software Developer Intern"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			code := ats.ResolveShortcode(shortcodeClearance, shortcodeTitles)
			w := cmd.OutOrStdout()
			if outputFmt == "json" {
				return printJSON(w, map[string]string{"shortcode": code})
			}
			fmt.Fprintln(w, code)
			return nil
		},
	}

	cmd.Flags().StringVar(&shortcodeClearance, "clearance", "", "Clearance level, e.g. FSP")
	cmd.Flags().StringSliceVar(&shortcodeTitles, "title", nil, "Job title (repeatable)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}
