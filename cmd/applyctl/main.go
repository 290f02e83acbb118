// applyctl is an operator CLI for the job application intake service.
//
// Usage:
//
//	applyctl validate submission.json
//	applyctl apply submission.json --url http://localhost:8080
//	applyctl upload 3f0c.../resume.pdf --content-type application/pdf
//	applyctl sync record.json --force
//	applyctl shortcode --clearance FSP --title "Software Developer"
//	applyctl get 3f0c... --url http://localhost:8080
//	applyctl resync 3f0c... --url http://localhost:8080
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	serverURL string
	outputFmt string
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "applyctl",
		Short:         "Validate, submit and resync job applications",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "url", "http://localhost:8080", "Base URL of the intake service")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "Output format: table, json")

	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(applyCmd())
	rootCmd.AddCommand(uploadCmd())
	rootCmd.AddCommand(syncCmd())
	rootCmd.AddCommand(shortcodeCmd())
	rootCmd.AddCommand(getCmd())
	rootCmd.AddCommand(resyncCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
