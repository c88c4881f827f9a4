package storage

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-hoops-metrics/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err, "open in-memory db")
	t.Cleanup(func() { db.Close() })
	return db
}

func mustLineup(t *testing.T, names ...string) model.Lineup {
	t.Helper()
	l, ok := model.NewLineup(names)
	require.True(t, ok)
	return l
}

// makeReport builds a small but complete report for one game.
func makeReport(t *testing.T, hash, name string) *model.GameReport {
	l1 := mustLineup(t, "A,A", "B,B", "C,C", "D,D", "E,E")
	l2 := mustLineup(t, "A,A", "C,C", "D,D", "E,E", "F,F")
	return &model.GameReport{
		Summary: model.GameSummary{
			Hash: hash, Name: name, Date: "01/04/2025",
			HomeName: "Elms College", VisitorName: name, TrackedIsHome: true,
			FinalLead: 5, Events: 8, RunID: "run-1",
		},
		Starters: []string{"A,A", "B,B", "C,C", "D,D", "E,E"},
		PlusMinus: []model.PlayerPlusMinus{
			{Game: name, Player: "A,A", PlusMinus: 5},
			{Game: name, Player: "B,B", PlusMinus: 3},
		},
		Lineups: []model.LineupTotal{
			{Game: name, Lineup: l1, PlusMinus: 3, Seconds: 120, Stints: 1},
			{Game: name, Lineup: l2, PlusMinus: 2, Seconds: 180, Stints: 1},
		},
		Stints: []model.Stint{
			{Lineup: l1, Half: model.HalfFirst, Period: 1, StartClock: "10:00", EndClock: "08:00", EndLead: 3, LeadDelta: 3, ElapsedSeconds: 120},
			{Lineup: l2, Half: model.HalfSecond, Period: 2, StartClock: "08:00", EndClock: "08:00", StartLead: 3, EndLead: 5, LeadDelta: 2},
		},
		Rates: []model.LineupRate{
			{Game: name, Lineup: l1, Half: model.HalfFirst, PlusMinus: 3, Seconds: 120, PerMinute: 1.5, Per25: 37.5},
			{Game: name, Lineup: l2, Half: model.HalfSecond, PlusMinus: 2, PerMinute: math.NaN(), Per25: math.NaN()},
		},
		Merged: []model.MergedLineup{
			{Game: name, Lineup: l1, PerMinute: 1.5, Per25: 37.5, Seconds: 120, Occurrences: 1},
			{Game: name, Lineup: l2, PerMinute: math.NaN(), Per25: math.NaN(), Occurrences: 1},
		},
		Pairs: []model.PairTotal{{Game: name, Player1: "A,A", Player2: "C,C", PlusMinus: 5}},
		BoxScore: []model.BoxScoreRow{
			{Team: "Elms College", Number: "12", Player: "A,A", Minutes: 30, FGM: 4, FGA: 8, TO: 2, PTS: 10},
		},
		FourFactors: []model.FourFactors{
			{Game: name, Team: "Elms College", Player: "A,A", OREBPct: 25, TOVPct: 10, EFGPct: 50, FTR: 12.5},
		},
		Warnings: []string{"fewer than five starters detected: found 4"},
	}
}

func TestGameInsertAndExists(t *testing.T) {
	db := openMemDB(t)
	require.NoError(t, db.InsertGame(makeReport(t, "abc123", "WPI")))

	exists, err := db.GameExists("abc123")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = db.GameExists("nonexistent")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestListGames(t *testing.T) {
	db := openMemDB(t)
	require.NoError(t, db.InsertGame(makeReport(t, "h2", "WPI")))
	require.NoError(t, db.InsertGame(makeReport(t, "h1", "Dean")))

	list, err := db.ListGames()
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Ordered by name.
	assert.Equal(t, "Dean", list[0].Name)
	assert.Equal(t, "run-1", list[0].RunID)
	assert.True(t, list[0].TrackedIsHome)
}

func TestGetGameByPrefix(t *testing.T) {
	db := openMemDB(t)
	require.NoError(t, db.InsertGame(makeReport(t, "deadbeef1234", "Anna_Maria")))

	s, err := db.GetGameByPrefix("deadb")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "deadbeef1234", s.Hash)

	s, err = db.GetGameByPrefix("Anna")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "Anna_Maria", s.Name)

	s, err = db.GetGameByPrefix("ffffffff")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestGetGameByPrefix_WildcardsAreLiteral(t *testing.T) {
	db := openMemDB(t)
	require.NoError(t, db.InsertGame(makeReport(t, "aaaa1111", "WPIA")))
	require.NoError(t, db.InsertGame(makeReport(t, "bbbb2222", "WPI_2")))

	s, err := db.GetGameByPrefix("WPI_")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "WPI_2", s.Name)

	for _, ref := range []string{"%", "_", "WPI%", `WPI\`} {
		s, err = db.GetGameByPrefix(ref)
		require.NoError(t, err)
		assert.Nil(t, s, "ref %q", ref)
	}
}

func TestGameReportRoundTrip(t *testing.T) {
	db := openMemDB(t)
	want := makeReport(t, "h1", "WPI")
	require.NoError(t, db.InsertGame(want))

	got, err := db.GetGameReport("h1")
	require.NoError(t, err)

	assert.Equal(t, want.Summary, got.Summary)
	assert.Equal(t, want.Starters, got.Starters)
	assert.Equal(t, want.Warnings, got.Warnings)
	assert.Equal(t, want.PlusMinus, got.PlusMinus)
	assert.Equal(t, want.Lineups, got.Lineups)
	assert.Equal(t, want.Stints, got.Stints)
	assert.Equal(t, want.Pairs, got.Pairs)
	assert.Equal(t, want.BoxScore, got.BoxScore)
	assert.Equal(t, want.FourFactors, got.FourFactors)

	// Missing rates survive as NULL.
	require.Len(t, got.Rates, 2)
	assert.Equal(t, 37.5, got.Rates[0].Per25)
	assert.True(t, model.IsMissing(got.Rates[1].PerMinute))
	require.Len(t, got.Merged, 2)
	assert.True(t, model.IsMissing(got.Merged[1].Per25))
}

func TestInsertIdempotency(t *testing.T) {
	db := openMemDB(t)
	r := makeReport(t, "idem1", "WPI")
	require.NoError(t, db.InsertGame(r))
	// Second insert replaces instead of failing on primary keys.
	require.NoError(t, db.InsertGame(r))

	got, err := db.GetGameReport("idem1")
	require.NoError(t, err)
	assert.Len(t, got.PlusMinus, 2)
	assert.Len(t, got.Stints, 2)
}

func TestDeleteGame(t *testing.T) {
	db := openMemDB(t)
	require.NoError(t, db.InsertGame(makeReport(t, "h1", "WPI")))
	require.NoError(t, db.DeleteGame("h1"))

	_, err := db.GetGameReport("h1")
	assert.ErrorIs(t, err, ErrGameNotFound)
	assert.ErrorIs(t, db.DeleteGame("h1"), ErrGameNotFound)

	_, rows, err := db.QueryRaw("SELECT * FROM lineup_stints")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAllReports(t *testing.T) {
	db := openMemDB(t)
	require.NoError(t, db.InsertGame(makeReport(t, "h1", "WPI")))
	require.NoError(t, db.InsertGame(makeReport(t, "h2", "Dean")))

	reports, err := db.AllReports()
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "Dean", reports[0].Summary.Name)
	assert.Equal(t, "Dean", reports[0].PlusMinus[0].Game)
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	require.NoError(t, db.InsertGame(makeReport(t, "h1", "WPI")))

	cols, rows, err := db.QueryRaw("SELECT lineup, per_minute FROM lineup_stints ORDER BY seq")
	require.NoError(t, err)
	assert.Equal(t, []string{"lineup", "per_minute"}, cols)
	require.Len(t, rows, 2)
	assert.Equal(t, "A,A / B,B / C,C / D,D / E,E", rows[0][0])
	assert.Equal(t, "1.5", rows[0][1])
	assert.Equal(t, "", rows[1][1])

	_, _, err = db.QueryRaw("SELECT nope FROM nowhere")
	assert.Error(t, err)
}
