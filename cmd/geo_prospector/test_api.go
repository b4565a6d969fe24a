package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var testAPICmd = &cobra.Command{
	Use:   "test-api",
	Short: "Check the configured Places API key",
	Long:  `Runs a single probe search and prints the validation result as JSON. Exits non-zero when the key is missing or rejected.`,
	RunE:  runTestAPI,
}

func init() {
	rootCmd.AddCommand(testAPICmd)
}

func runTestAPI(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	result := a.orchestrator.TestAPI(cmd.Context())
	if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if !result.Valid {
		return fmt.Errorf("API key check failed: %s", result.Kind)
	}
	return nil
}
