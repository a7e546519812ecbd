package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/ethanbaker/parlavoice/internal/api"
	"github.com/spf13/cobra"
)

var servePort string

// serveCmd starts the HTTP service
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the intake and trial pages and the JSON API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if servePort != "" {
			cfg.Set("API_PORT", servePort)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return api.Start(ctx, cfg, logger)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on (overrides API_PORT)")
}
