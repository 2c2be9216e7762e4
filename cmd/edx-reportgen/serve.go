// ABOUTME: The serve command: runs the HTTP service.
// ABOUTME: Loads service config and wires the batch runner into the server.

package main

import (
	"github.com/spf13/cobra"

	"github.com/nau-tools/edx-reportgen/internal/config"
	"github.com/nau-tools/edx-reportgen/internal/report"
	"github.com/nau-tools/edx-reportgen/internal/server"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the report-generation HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			log, err := server.NewLogger(cfg.Log)
			if err != nil {
				return err
			}
			defer log.Sync()

			return server.New(cfg.Server, log, report.NewRunner()).Run()
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to service config file (optional)")

	return cmd
}
