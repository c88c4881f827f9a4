package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-hoops-metrics/internal/export"
)

var (
	exportSeason bool
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export [<hash-or-name-prefix>]",
	Short: "Export a game's or the season's tables as CSV files",
	Long: `Write the tables of one stored game, or with --season the season rollup, as
CSV files into --out. Times are MM:SS, rates have two decimals and missing
rates are left blank.

Examples:
  hoopsmetrics export WPI --out ./csv
  hoopsmetrics export --season --out ./csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&exportSeason, "season", false, "export season totals instead of one game")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", ".", "output directory")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportSeason == (len(args) == 1) {
		return fmt.Errorf("give either a game prefix or --season")
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	var tables []export.Table
	if exportSeason {
		reports, s, err := loadSeason(db)
		if err != nil {
			return err
		}
		tables = export.SeasonTables(reports, s)
	} else {
		game, err := db.GetGameByPrefix(args[0])
		if err != nil {
			return fmt.Errorf("query game: %w", err)
		}
		if game == nil {
			return fmt.Errorf("no game found matching %q", args[0])
		}
		r, err := db.GetGameReport(game.Hash)
		if err != nil {
			return fmt.Errorf("load game: %w", err)
		}
		tables = export.GameTables(r)
	}

	written, err := export.WriteTables(exportOut, tables)
	if err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	for _, p := range written {
		fmt.Fprintln(os.Stdout, p)
	}
	log.WithField("files", len(written)).Info("export finished")
	return nil
}
