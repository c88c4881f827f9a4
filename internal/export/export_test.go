package export

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-hoops-metrics/internal/model"
)

func sampleReport(t *testing.T) *model.GameReport {
	l, ok := model.NewLineup([]string{"A,A", "B,B", "C,C", "D,D", "E,E"})
	require.True(t, ok)
	return &model.GameReport{
		Summary:   model.GameSummary{Name: "WPI"},
		PlusMinus: []model.PlayerPlusMinus{{Player: "A,A", PlusMinus: 5}},
		Lineups:   []model.LineupTotal{{Lineup: l, PlusMinus: 3, Seconds: 4505}},
		Rates: []model.LineupRate{
			{Lineup: l, Half: model.HalfSecond, StartClock: "10:00", EndClock: "08:00", PlusMinus: 3, Seconds: 120, PerMinute: 1.5, Per25: 37.5},
			{Lineup: l, PerMinute: math.NaN(), Per25: math.NaN()},
		},
		Merged:   []model.MergedLineup{{Lineup: l, PerMinute: 1.5, Per25: 37.5, Seconds: 120}},
		Pairs:    []model.PairTotal{{Player1: "A,A", Player2: "B,B", PlusMinus: 3}},
		BoxScore: []model.BoxScoreRow{{Team: "Elms", Player: "A,A", FGM: 1, FGA: 3}},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return recs
}

func TestWriteGameTables(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := WriteTables(dir, GameTables(sampleReport(t)))
	require.NoError(t, err)
	require.Len(t, paths, 8)
	assert.Equal(t, filepath.Join(dir, "WPI_plus_minus.csv"), paths[0])

	pm := readCSV(t, filepath.Join(dir, "WPI_plus_minus.csv"))
	assert.Equal(t, [][]string{{"Player", "Plus/Minus", "Game"}, {"A,A", "5", "WPI"}}, pm)

	lineups := readCSV(t, filepath.Join(dir, "WPI_lineup_pm.csv"))
	assert.Equal(t, "A,A / B,B / C,C / D,D / E,E", lineups[1][0])
	assert.Equal(t, "75:05", lineups[1][2])

	inst := readCSV(t, filepath.Join(dir, "WPI_lineup_instances.csv"))
	require.Len(t, inst, 3)
	assert.Equal(t, "2nd Half", inst[1][5])
	assert.Equal(t, "1.50", inst[1][6])
	assert.Equal(t, "37.50", inst[1][7])
	assert.Equal(t, "", inst[2][6], "missing rate left blank")

	box := readCSV(t, filepath.Join(dir, "WPI_boxscore.csv"))
	assert.Equal(t, "33.33", box[1][5])

	ff := readCSV(t, filepath.Join(dir, "WPI_four_factors_summary.csv"))
	assert.Len(t, ff, 1, "header only")
}

func TestSeasonTables(t *testing.T) {
	r := sampleReport(t)
	season := &model.Season{
		Games:     []string{"WPI"},
		PlusMinus: []model.PlayerPlusMinus{{Player: "A,A", PlusMinus: 5}},
		Lineups:   []model.SeasonLineup{{Lineup: r.Lineups[0].Lineup, PlusMinus: 3, Seconds: 60, Games: []string{"Dean", "WPI"}}},
		Merged:    []model.SeasonMerged{{Lineup: r.Lineups[0].Lineup, PerMinute: math.NaN(), Per25: math.NaN()}},
	}
	tables := SeasonTables([]*model.GameReport{r}, season)

	byName := make(map[string]Table)
	for _, tb := range tables {
		byName[tb.Name] = tb
	}
	require.Contains(t, byName, "season_plus_minus.csv")
	assert.Equal(t, []string{"A,A", "5", "WPI"}, byName["season_plus_minus.csv"].Rows[0])
	assert.Equal(t, []string{"Player", "Plus/Minus"}, byName["season_plus_minus_totals.csv"].Header)
	assert.Equal(t, []string{"A,A", "5"}, byName["season_plus_minus_totals.csv"].Rows[0])

	totals := byName["season_lineup_pm_totals.csv"].Rows
	require.Len(t, totals, 1)
	assert.Equal(t, "Dean, WPI", totals[0][3])
	assert.Equal(t, "", byName["season_merged_lineups_totals.csv"].Rows[0][1])
}
