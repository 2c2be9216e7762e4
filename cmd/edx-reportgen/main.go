// ABOUTME: CLI entry point for edx-reportgen.
// ABOUTME: Registers the generate and serve commands.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "edx-reportgen",
		Short: "Submit report-generation requests to an Open edX LMS",
		Long: "Submit asynchronous report-generation requests for one or more courses\n" +
			"on an Open edX LMS. Requires an account with data_researcher permissions\n" +
			"inside each course.\n\n" +
			"Warning: repeated failed logins can lock the LMS account for 30 minutes.",
		SilenceUsage: true,
	}
	root.AddCommand(newGenerateCmd(), newServeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
