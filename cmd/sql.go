package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-hoops-metrics/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the metrics database",
	Long: `Run an arbitrary SQL query against the metrics database and print results as a table.

Schema overview:
  games(hash, name, match_date, home_name, visitor_name, tracked_is_home, final_lead,
    events, starters, warnings, run_id, parsed_at)
  player_plus_minus(game_hash, player, plus_minus)
  lineup_totals(game_hash, lineup, plus_minus, seconds, stints)
  lineup_stints(game_hash, seq, lineup, half, period, start_clock, end_clock,
    start_lead, end_lead, lead_delta, seconds, per_minute, per25)
  lineup_merged(game_hash, lineup, per_minute, per25, seconds, occurrences)
  pair_totals(game_hash, player1, player2, plus_minus)
  box_scores(game_hash, seq, team, number, player, minutes, fgm, fga, fg3m, fg3a,
    ftm, fta, oreb, dreb, reb, ast, stl, blk, turnovers, pf, pts)
  four_factors(game_hash, seq, team, player, oreb_pct, tov_pct, efg_pct, ftr)

Lineups are stored as five names joined by " / ". Missing rates are NULL.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}
	report.PrintRaw(os.Stdout, cols, rows)
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
