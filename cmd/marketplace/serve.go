package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/config"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/server"
)

var (
	servePort   int
	serveConfig string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes quote, bundle and enrollment endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadCLIConfig(serveConfig, config.Config{
		Port:          servePort,
		BundleURL:     os.Getenv("CARRIER_BUNDLE_URL"),
		EnrollmentURL: os.Getenv("CARRIER_ENROLLMENT_URL"),
		QuoteURL:      os.Getenv("CARRIER_QUOTE_URL"),
	})
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.BundleURL == "" {
		return fmt.Errorf("bundle URL is required (config 'bundle_url' or CARRIER_BUNDLE_URL)")
	}
	if cfg.EnrollmentURL == "" {
		return fmt.Errorf("enrollment URL is required (config 'enrollment_url' or CARRIER_ENROLLMENT_URL)")
	}

	srv, err := server.New(*cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
