// Package main provides the geo_prospector command: a Google Places
// prospecting job exposed over HTTP and as one-shot CLI commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "geo_prospector",
	Short: "Google Places prospecting job",
	Long: `geo_prospector searches Google Places for businesses by city and category,
enriches each hit with place details, scores its online visibility and stores
new prospects in Postgres.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (defaults to $GEO_PROSPECTOR_CONFIG)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
