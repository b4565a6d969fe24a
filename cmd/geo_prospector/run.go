package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/geo-prospector/internal/prospect"
	"github.com/spf13/cobra"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run one prospecting invocation and print the summary",
	Long: `Validates the API key, then searches every city and category, enriches each
hit and stores new businesses. The run summary is printed as JSON.

Omitted flags fall back to the configured defaults.`,
	RunE: runProspect,
}

var (
	runCities     []string
	runCategories []string
	runMaxResults int
	runTestMode   bool
)

func init() {
	runCommand.Flags().StringSliceVar(&runCities, "city", nil, "City to search (repeatable or comma-separated)")
	runCommand.Flags().StringSliceVar(&runCategories, "category", nil, "Business category such as dentiste; French phrases are translated for the search (repeatable or comma-separated)")
	runCommand.Flags().IntVar(&runMaxResults, "max-results", 0, "Maximum hits to process across the whole run")
	runCommand.Flags().BoolVar(&runTestMode, "test-mode", false, "Look up businesses without inserting them")
	rootCmd.AddCommand(runCommand)
}

func runProspect(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	summary, err := a.orchestrator.Run(ctx, prospect.Request{
		Cities:     runCities,
		Categories: runCategories,
		MaxResults: runMaxResults,
		TestMode:   runTestMode,
	})

	var abort *prospect.AbortError
	if errors.As(err, &abort) {
		if werr := writeJSON(cmd.OutOrStdout(), abort.Result); werr != nil {
			return werr
		}
		return fmt.Errorf("run aborted: %s", abort.Result.Error)
	}
	if summary != nil {
		if werr := writeJSON(cmd.OutOrStdout(), summary); werr != nil {
			return werr
		}
	}
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	return nil
}
