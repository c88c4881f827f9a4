package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-hoops-metrics/internal/report"
	"github.com/pable/go-hoops-metrics/internal/season"
)

var (
	searchMin int
	searchMax int
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search season lineups and player pairs by name",
}

var searchLineupCmd = &cobra.Command{
	Use:   "lineup <names>",
	Short: "Lineups containing every named player (up to five)",
	Long: `Find season lineups that contain every named player. Names are matched
by partial ratio, so a last name is usually enough. Separate names with commas,
or with semicolons when giving full "LAST,FIRST" names.

Examples:
  hoopsmetrics search lineup smith,pacheco
  hoopsmetrics search lineup "SMITH,HEAVEN; PACHECO,MIA" --min 0`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearchLineup,
}

var searchPairCmd = &cobra.Command{
	Use:   "pair <player> <player>",
	Short: "Season plus-minus of a two-player combination",
	Args:  cobra.ExactArgs(2),
	RunE:  runSearchPair,
}

func init() {
	searchLineupCmd.Flags().IntVar(&searchMin, "min", 0, "minimum plus-minus")
	searchLineupCmd.Flags().IntVar(&searchMax, "max", 0, "maximum plus-minus")
	searchCmd.AddCommand(searchLineupCmd)
	searchCmd.AddCommand(searchPairCmd)
}

func runSearchLineup(cmd *cobra.Command, args []string) error {
	q := season.LineupQuery{Players: season.SplitNames(strings.Join(args, ","))}
	if cmd.Flags().Changed("min") {
		q.MinPlusMinus = &searchMin
	}
	if cmd.Flags().Changed("max") {
		q.MaxPlusMinus = &searchMax
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	_, s, err := loadSeason(db)
	if err != nil {
		return err
	}
	found, err := season.SearchLineups(s.Lineups, q, cfg.Thresholds.Search)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		fmt.Fprintln(os.Stdout, "(no lineups)")
		return nil
	}
	report.PrintSeasonLineups(os.Stdout, found)
	return nil
}

func runSearchPair(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	_, s, err := loadSeason(db)
	if err != nil {
		return err
	}
	found := season.SearchPairs(s.Pairs, args[0], args[1], cfg.Thresholds.Search)
	if len(found) == 0 {
		fmt.Fprintln(os.Stdout, "(no pairs)")
		return nil
	}
	report.PrintPairTable(os.Stdout, found, "")
	return nil
}
