package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-prep/internal/config"
	"github.com/jonathan/interview-prep/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for session intake, pre-session research, prompt synthesis, and post-interview insights.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to PORT or 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	d, err := buildDeps(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to wire service: %w", err)
	}
	defer d.Close()

	srv := server.New(server.Config{Port: cfg.Port}, d.db, d.pipeline, d.analyzer)
	return srv.Start()
}
