// Package main provides the entry point for the EpiCare Plans marketplace server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "marketplace",
	Short: "EpiCare Plans insurance marketplace",
	Long:  "Direct-to-consumer insurance marketplace: quotes plans across carriers, drives the dynamic eligibility questionnaire and submits enrollments.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
