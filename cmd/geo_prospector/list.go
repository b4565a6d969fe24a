package main

import (
	"github.com/jonathan/geo-prospector/internal/db"
	"github.com/jonathan/geo-prospector/internal/types"
	"github.com/spf13/cobra"
)

var (
	listCity   string
	listSector string
	listLimit  int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored prospects, highest visibility score first",
	Long:  `Prints stored businesses as JSON. --city takes the canonical city name (Montréal, not Montreal); --sector takes the category as it was requested (dentiste).`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listCity, "city", "", "Only businesses in this city")
	listCmd.Flags().StringVar(&listSector, "sector", "", "Only businesses in this sector")
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "Maximum rows to print")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	_, database, err := openDatabase(cmd.Context())
	if err != nil {
		return err
	}
	defer database.Close()

	records, err := database.ListBusinesses(cmd.Context(), db.BusinessFilters{
		City:   listCity,
		Sector: listSector,
		Limit:  listLimit,
	})
	if err != nil {
		return err
	}
	if records == nil {
		records = []types.BusinessRecord{}
	}
	return writeJSON(cmd.OutOrStdout(), records)
}
