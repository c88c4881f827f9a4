package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-hoops-metrics/internal/model"
	"github.com/pable/go-hoops-metrics/internal/report"
	"github.com/pable/go-hoops-metrics/internal/roster"
	"github.com/pable/go-hoops-metrics/internal/season"
	"github.com/pable/go-hoops-metrics/internal/storage"
)

var seasonFocus string

var seasonCmd = &cobra.Command{
	Use:   "season",
	Short: "Show season totals across every stored game",
	Args:  cobra.NoArgs,
	RunE:  runSeason,
}

func init() {
	seasonCmd.Flags().StringVar(&seasonFocus, "player", "", "highlight a player in the tables")
}

func runSeason(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	_, s, err := loadSeason(db)
	if err != nil {
		return err
	}
	if len(s.Games) == 0 {
		fmt.Fprintln(os.Stdout, "No games stored yet.")
		return nil
	}
	report.PrintSeason(os.Stdout, s, seasonFocus)
	return nil
}

// loadSeason reads every stored report and rolls it up.
func loadSeason(db *storage.DB) ([]*model.GameReport, *model.Season, error) {
	reports, err := db.AllReports()
	if err != nil {
		return nil, nil, fmt.Errorf("load reports: %w", err)
	}
	resolver := roster.New(cfg.Roster, roster.TokenSortRatio)
	return reports, season.Build(reports, resolver, cfg.Thresholds.BoxScore), nil
}
