package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the recorded status of the Places API key",
	Long:  `Prints the last recorded configuration or validation status of the API key as JSON. The key itself is never stored.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, database, err := openDatabase(cmd.Context())
	if err != nil {
		return err
	}
	defer database.Close()

	status, err := database.GetSecretStatus(cmd.Context(), cfg.Places.SecretName)
	if err != nil {
		return err
	}
	if status == nil {
		return fmt.Errorf("no status recorded for %s; run test-api first", cfg.Places.SecretName)
	}
	return writeJSON(cmd.OutOrStdout(), status)
}
