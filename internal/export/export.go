// Package export writes per-game and season tables as CSV files. Times are
// MM:SS, rates have two decimals and missing rates are left blank.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pable/go-hoops-metrics/internal/model"
)

// Table is one CSV file's worth of data.
type Table struct {
	Name   string // file name without directory
	Header []string
	Rows   [][]string
}

// GameTables returns every per-game table, named "<game>_<table>.csv".
func GameTables(r *model.GameReport) []Table {
	game := r.Summary.Name
	name := func(suffix string) string { return game + "_" + suffix + ".csv" }
	return []Table{
		{Name: name("plus_minus"), Header: plusMinusHeader, Rows: plusMinusRows(r.PlusMinus, game)},
		{Name: name("lineup_pm"), Header: lineupHeader, Rows: lineupRows(r.Lineups, game)},
		{Name: name("lineup_instances"), Header: instanceHeader, Rows: instanceRows(r.Rates, game)},
		{Name: name("result_metrics"), Header: resultHeader, Rows: resultRows(r.Rates, game)},
		{Name: name("merged_lineups"), Header: mergedHeader, Rows: mergedRows(r.Merged, game)},
		{Name: name("two_player_combinations"), Header: pairHeader, Rows: pairRows(r.Pairs, game)},
		{Name: name("boxscore"), Header: boxHeader, Rows: boxRows(r.BoxScore, game)},
		{Name: name("four_factors_summary"), Header: factorsHeader, Rows: factorsRows(r.FourFactors, game)},
	}
}

// SeasonTables returns the concatenated per-game tables plus the season totals.
func SeasonTables(reports []*model.GameReport, s *model.Season) []Table {
	var pm, lineups, merged, pairs, box, ff [][]string
	for _, r := range reports {
		game := r.Summary.Name
		pm = append(pm, plusMinusRows(r.PlusMinus, game)...)
		lineups = append(lineups, lineupRows(r.Lineups, game)...)
		merged = append(merged, mergedRows(r.Merged, game)...)
		pairs = append(pairs, pairRows(r.Pairs, game)...)
		box = append(box, boxRows(r.BoxScore, game)...)
		ff = append(ff, factorsRows(r.FourFactors, game)...)
	}

	var lineupTotals, mergedTotals [][]string
	for _, l := range s.Lineups {
		lineupTotals = append(lineupTotals, []string{
			l.Lineup.String(), strconv.Itoa(l.PlusMinus), model.FormatClock(l.Seconds), strings.Join(l.Games, ", "),
		})
	}
	for _, m := range s.Merged {
		mergedTotals = append(mergedTotals, []string{
			m.Lineup.String(), rate(m.Per25), rate(m.PerMinute), model.FormatClock(m.Seconds),
		})
	}
	var averages [][]string
	for _, f := range s.FourFactors {
		averages = append(averages, []string{f.Player, fixed(f.OREBPct), fixed(f.TOVPct), fixed(f.EFGPct), fixed(f.FTR)})
	}

	return []Table{
		{Name: "season_plus_minus.csv", Header: plusMinusHeader, Rows: pm},
		{Name: "season_plus_minus_totals.csv", Header: plusMinusHeader[:2], Rows: plusMinusRows(s.PlusMinus, "")},
		{Name: "season_boxscore.csv", Header: boxHeader, Rows: box},
		{Name: "season_boxscore_totals.csv", Header: boxHeader[:len(boxHeader)-1], Rows: boxRows(s.BoxScore, "")},
		{Name: "season_four_factors_summary.csv", Header: factorsHeader, Rows: ff},
		{Name: "season_four_factors_averages.csv", Header: factorsHeader[:len(factorsHeader)-1], Rows: averages},
		{Name: "season_lineup_pm.csv", Header: lineupHeader, Rows: lineups},
		{Name: "season_lineup_pm_totals.csv", Header: lineupHeader, Rows: lineupTotals},
		{Name: "season_merged_lineups.csv", Header: mergedHeader, Rows: merged},
		{Name: "season_merged_lineups_totals.csv", Header: mergedHeader[:len(mergedHeader)-1], Rows: mergedTotals},
		{Name: "season_two_player_combinations.csv", Header: pairHeader, Rows: pairs},
		{Name: "season_two_player_totals.csv", Header: pairHeader[:len(pairHeader)-1], Rows: pairRows(s.Pairs, "")},
	}
}

// WriteTables writes each table into dir, creating dir if needed, and returns
// the paths written.
func WriteTables(dir string, tables []Table) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		path := filepath.Join(dir, t.Name)
		if err := writeCSV(path, t); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCSV(path string, t Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

var (
	plusMinusHeader = []string{"Player", "Plus/Minus", "Game"}
	lineupHeader    = []string{"Lineup", "Plus/Minus", "Total Time", "Game"}
	instanceHeader  = []string{"Lineup", "Start Time", "End Time", "Plus/Minus", "Total Time", "Half",
		"Plus/Minus Per Minute", "Plus/Minus Per 25 Minutes", "Game"}
	resultHeader  = []string{"Lineup", "Plus/Minus Per 25 Minutes", "Plus/Minus Per Minute", "Total Time", "Game"}
	mergedHeader  = resultHeader
	pairHeader    = []string{"Player 1", "Player 2", "Plus/Minus", "Game"}
	boxHeader     = []string{"Team", "Player", "MIN", "FGM", "FGA", "FG%", "3PM", "3PA", "3P%", "FTM", "FTA", "FT%", "OREB", "DREB", "REB", "AST", "STL", "BLK", "TO", "PF", "PTS", "Game"}
	factorsHeader = []string{"Player", "OREB%", "TOV%", "EFG%", "FTR", "Game"}
)

// withGame appends the game column unless game is empty (season totals).
func withGame(row []string, game string) []string {
	if game == "" {
		return row
	}
	return append(row, game)
}

func plusMinusRows(rows []model.PlayerPlusMinus, game string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, withGame([]string{r.Player, strconv.Itoa(r.PlusMinus)}, game))
	}
	return out
}

func lineupRows(rows []model.LineupTotal, game string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, withGame([]string{r.Lineup.String(), strconv.Itoa(r.PlusMinus), model.FormatClock(r.Seconds)}, game))
	}
	return out
}

func instanceRows(rows []model.LineupRate, game string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, withGame([]string{
			r.Lineup.String(), r.StartClock, r.EndClock, strconv.Itoa(r.PlusMinus),
			model.FormatClock(r.Seconds), r.Half.String(), rate(r.PerMinute), rate(r.Per25),
		}, game))
	}
	return out
}

func resultRows(rows []model.LineupRate, game string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, withGame([]string{r.Lineup.String(), rate(r.Per25), rate(r.PerMinute), model.FormatClock(r.Seconds)}, game))
	}
	return out
}

func mergedRows(rows []model.MergedLineup, game string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, withGame([]string{r.Lineup.String(), rate(r.Per25), rate(r.PerMinute), model.FormatClock(r.Seconds)}, game))
	}
	return out
}

func pairRows(rows []model.PairTotal, game string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, withGame([]string{r.Player1, r.Player2, strconv.Itoa(r.PlusMinus)}, game))
	}
	return out
}

func boxRows(rows []model.BoxScoreRow, game string) [][]string {
	out := make([][]string, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		out = append(out, withGame([]string{
			r.Team, r.Player, strconv.Itoa(r.Minutes),
			strconv.Itoa(r.FGM), strconv.Itoa(r.FGA), fixed(r.FGPct()),
			strconv.Itoa(r.FG3M), strconv.Itoa(r.FG3A), fixed(r.FG3Pct()),
			strconv.Itoa(r.FTM), strconv.Itoa(r.FTA), fixed(r.FTPct()),
			strconv.Itoa(r.OREB), strconv.Itoa(r.DREB), strconv.Itoa(r.REB),
			strconv.Itoa(r.AST), strconv.Itoa(r.STL), strconv.Itoa(r.BLK),
			strconv.Itoa(r.TO), strconv.Itoa(r.PF), strconv.Itoa(r.PTS),
		}, game))
	}
	return out
}

func factorsRows(rows []model.FourFactors, game string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, withGame([]string{r.Player, fixed(r.OREBPct), fixed(r.TOVPct), fixed(r.EFGPct), fixed(r.FTR)}, game))
	}
	return out
}

func rate(v float64) string {
	if model.IsMissing(v) {
		return ""
	}
	return fixed(v)
}

func fixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
