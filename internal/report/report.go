package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-hoops-metrics/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// Missing marks a rate that has no value.
const Missing = "-"

// Rate renders a per-minute figure with two decimals, or Missing.
func Rate(v float64) string {
	if model.IsMissing(v) {
		return Missing
	}
	return fmt.Sprintf("%.2f", v)
}

func signed(n int) string {
	if n > 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func heading(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", title)
}

// PrintGameSummary prints a one-line header for the game.
func PrintGameSummary(w io.Writer, s model.GameSummary) {
	side := "away"
	if s.TrackedIsHome {
		side = "home"
	}
	hash := s.Hash
	if len(hash) > 12 {
		hash = hash[:12]
	}
	fmt.Fprintf(w, "\nGame: %s  |  Date: %s  |  %s vs %s (tracked %s)  |  Final lead: %s  |  Events: %d  |  Hash: %s\n",
		s.Name, s.Date, s.HomeName, s.VisitorName, side, signed(s.FinalLead), s.Events, hash)
}

// PrintGameReport prints every table of one game.
func PrintGameReport(w io.Writer, r *model.GameReport, focus string) {
	PrintGameSummary(w, r.Summary)
	if len(r.Starters) > 0 {
		fmt.Fprintf(w, "Starters: %s\n", strings.Join(r.Starters, model.LineupSep))
	}
	for _, msg := range r.Warnings {
		fmt.Fprintf(w, "warning: %s\n", msg)
	}
	PrintPlusMinusTable(w, r.PlusMinus, focus)
	PrintLineupTable(w, r.Lineups)
	PrintStintTable(w, r.Rates)
	PrintMergedTable(w, r.Merged)
	PrintPairTable(w, r.Pairs, focus)
	PrintBoxScoreTable(w, r.BoxScore)
	PrintFourFactorsTable(w, r.FourFactors, focus)
}

// PrintPlusMinusTable prints player plus-minus. If focus is non-empty, that
// player's row is marked with ">".
func PrintPlusMinusTable(w io.Writer, rows []model.PlayerPlusMinus, focus string) {
	heading(w, "PLAYER PLUS-MINUS")
	table := newTable(w)
	table.Header(" ", "PLAYER", "+/-")
	for _, r := range rows {
		table.Append(marker(r.Player, focus), r.Player, signed(r.PlusMinus))
	}
	table.Render()
}

// PrintLineupTable prints per-lineup totals.
func PrintLineupTable(w io.Writer, rows []model.LineupTotal) {
	heading(w, "LINEUP PLUS-MINUS")
	table := newTable(w)
	table.Header("LINEUP", "+/-", "TIME", "STINTS")
	for _, r := range rows {
		table.Append(r.Lineup.String(), signed(r.PlusMinus), model.FormatClock(r.Seconds), strconv.Itoa(r.Stints))
	}
	table.Render()
}

// PrintStintTable prints every stint with its rates.
func PrintStintTable(w io.Writer, rows []model.LineupRate) {
	heading(w, "LINEUP STINTS")
	table := newTable(w)
	table.Header("HALF", "LINEUP", "START", "END", "+/-", "TIME", "+/-/MIN", "+/-/25")
	for _, r := range rows {
		table.Append(r.Half.String(), r.Lineup.String(), r.StartClock, r.EndClock,
			signed(r.PlusMinus), model.FormatClock(r.Seconds), Rate(r.PerMinute), Rate(r.Per25))
	}
	table.Render()
}

// PrintMergedTable prints stint rates merged per lineup.
func PrintMergedTable(w io.Writer, rows []model.MergedLineup) {
	heading(w, "MERGED LINEUPS")
	table := newTable(w)
	table.Header("LINEUP", "+/-/25", "+/-/MIN", "TIME", "STINTS")
	for _, r := range rows {
		table.Append(r.Lineup.String(), Rate(r.Per25), Rate(r.PerMinute), model.FormatClock(r.Seconds), strconv.Itoa(r.Occurrences))
	}
	table.Render()
}

// PrintPairTable prints two-player combinations.
func PrintPairTable(w io.Writer, rows []model.PairTotal, focus string) {
	heading(w, "TWO-PLAYER COMBINATIONS")
	table := newTable(w)
	table.Header(" ", "PLAYER 1", "PLAYER 2", "+/-")
	for _, r := range rows {
		m := marker(r.Player1, focus)
		if m == " " {
			m = marker(r.Player2, focus)
		}
		table.Append(m, r.Player1, r.Player2, signed(r.PlusMinus))
	}
	table.Render()
}

// PrintBoxScoreTable prints counting stats with shooting percentages.
func PrintBoxScoreTable(w io.Writer, rows []model.BoxScoreRow) {
	if len(rows) == 0 {
		return
	}
	heading(w, "BOX SCORE")
	table := newTable(w)
	table.Header("TEAM", "PLAYER", "MIN", "FGM", "FGA", "FG%", "3PM", "3PA", "3P%", "FTM", "FTA", "FT%",
		"OREB", "DREB", "REB", "AST", "STL", "BLK", "TO", "PF", "PTS")
	for i := range rows {
		r := &rows[i]
		table.Append(r.Team, r.Player, strconv.Itoa(r.Minutes),
			strconv.Itoa(r.FGM), strconv.Itoa(r.FGA), fmt.Sprintf("%.1f", r.FGPct()),
			strconv.Itoa(r.FG3M), strconv.Itoa(r.FG3A), fmt.Sprintf("%.1f", r.FG3Pct()),
			strconv.Itoa(r.FTM), strconv.Itoa(r.FTA), fmt.Sprintf("%.1f", r.FTPct()),
			strconv.Itoa(r.OREB), strconv.Itoa(r.DREB), strconv.Itoa(r.REB),
			strconv.Itoa(r.AST), strconv.Itoa(r.STL), strconv.Itoa(r.BLK),
			strconv.Itoa(r.TO), strconv.Itoa(r.PF), strconv.Itoa(r.PTS),
		)
	}
	table.Render()
}

// PrintFourFactorsTable prints OREB%, TOV%, EFG% and FTR per player.
func PrintFourFactorsTable(w io.Writer, rows []model.FourFactors, focus string) {
	if len(rows) == 0 {
		return
	}
	heading(w, "FOUR FACTORS")
	table := newTable(w)
	table.Header(" ", "PLAYER", "OREB%", "TOV%", "EFG%", "FTR")
	for _, r := range rows {
		table.Append(marker(r.Player, focus), r.Player,
			fmt.Sprintf("%.2f", r.OREBPct), fmt.Sprintf("%.2f", r.TOVPct),
			fmt.Sprintf("%.2f", r.EFGPct), fmt.Sprintf("%.2f", r.FTR))
	}
	table.Render()
}

// PrintSeason prints the season rollup.
func PrintSeason(w io.Writer, s *model.Season, focus string) {
	fmt.Fprintf(w, "\nSeason: %d games (%s)\n", len(s.Games), strings.Join(s.Games, ", "))
	PrintPlusMinusTable(w, s.PlusMinus, focus)

	PrintSeasonLineups(w, s.Lineups)

	heading(w, "SEASON MERGED LINEUPS")
	table := newTable(w)
	table.Header("LINEUP", "+/-/25", "+/-/MIN", "TIME")
	for _, r := range s.Merged {
		table.Append(r.Lineup.String(), Rate(r.Per25), Rate(r.PerMinute), model.FormatClock(r.Seconds))
	}
	table.Render()

	PrintPairTable(w, s.Pairs, focus)
	PrintBoxScoreTable(w, s.BoxScore)
	PrintFourFactorsTable(w, s.FourFactors, focus)
}

// PrintSeasonLineups prints lineup totals summed over the season.
func PrintSeasonLineups(w io.Writer, rows []model.SeasonLineup) {
	heading(w, "SEASON LINEUP PLUS-MINUS")
	table := newTable(w)
	table.Header("LINEUP", "+/-", "TIME", "GAMES")
	for _, r := range rows {
		table.Append(r.Lineup.String(), signed(r.PlusMinus), model.FormatClock(r.Seconds), strings.Join(r.Games, ", "))
	}
	table.Render()
}

// PrintGameList prints one line per stored game.
func PrintGameList(w io.Writer, games []model.GameSummary) {
	table := newTable(w)
	table.Header("HASH", "GAME", "DATE", "HOME", "VISITOR", "LEAD", "EVENTS")
	for _, g := range games {
		hash := g.Hash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		table.Append(hash, g.Name, g.Date, g.HomeName, g.VisitorName, signed(g.FinalLead), strconv.Itoa(g.Events))
	}
	table.Render()
}

// PrintRaw prints an untyped result set, as returned by storage.QueryRaw.
func PrintRaw(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)
	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)
	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
}

func marker(name, focus string) string {
	if focus != "" && name == focus {
		return ">"
	}
	return " "
}
