package aggregator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-hoops-metrics/internal/model"
)

// Players on the tracked team.
const (
	pA = "ADAMS,ANN"
	pB = "BAKER,BEA"
	pC = "CLARK,CAT"
	pD = "DAVIS,DEE"
	pE = "EVANS,EVE"
	pF = "FOSTER,FAY"
)

var testRoster = []string{pA, pB, pC, pD, pE, pF}

func testConfig() model.EngineConfig {
	return model.EngineConfig{
		TeamKey:           "elms",
		Roster:            testRoster,
		IngestThreshold:   70,
		SubThreshold:      80,
		SearchThreshold:   80,
		BoxScoreThreshold: 80,
	}
}

// makeEvent creates a play by actor at clock with the given tracked-team lead.
func makeEvent(clock string, lead int, kind model.Kind, actor string) model.Event {
	return model.Event{Clock: clock, Lead: lead, Kind: kind, ActorRaw: actor, Actor: actor}
}

// makeGame wraps events in a home game for the tracked team.
func makeGame(events []model.Event) *model.Game {
	for i := range events {
		events[i].Seq = i
	}
	return &model.Game{
		Hash:          "testhash",
		Name:          "WPI",
		HomeName:      "Elms College",
		VisitorName:   "WPI",
		TrackedIsHome: true,
		Events:        events,
	}
}

// exampleGame: A-E start, B is replaced by F at 08:00 with the team up 3,
// the team is up 5 at 05:00.
func exampleGame() *model.Game {
	return makeGame([]model.Event{
		makeEvent("10:00", 0, model.KindOther, pA),
		makeEvent("09:30", 0, model.KindOther, pB),
		makeEvent("09:00", 0, model.KindOther, pC),
		makeEvent("08:30", 0, model.KindOther, pD),
		makeEvent("08:00", 3, model.KindOther, pE),
		makeEvent("08:00", 3, model.KindSubOut, pB),
		makeEvent("08:00", 3, model.KindSubIn, pF),
		makeEvent("05:00", 5, model.KindOther, pF),
	})
}

func lineupOf(t *testing.T, names ...string) model.Lineup {
	t.Helper()
	l, ok := model.NewLineup(names)
	require.True(t, ok)
	return l
}

func findPlayer(rows []model.PlayerPlusMinus, name string) (int, bool) {
	for _, r := range rows {
		if r.Player == name {
			return r.PlusMinus, true
		}
	}
	return 0, false
}

func findPair(rows []model.PairTotal, a, b string) (int, bool) {
	if b < a {
		a, b = b, a
	}
	for _, r := range rows {
		if r.Player1 == a && r.Player2 == b {
			return r.PlusMinus, true
		}
	}
	return 0, false
}

// ---- End-to-end example ----

func TestAggregate_Example(t *testing.T) {
	report, err := Aggregate(exampleGame(), testConfig())
	require.NoError(t, err)
	assert.Empty(t, report.Warnings)

	assert.Equal(t, []string{pA, pB, pC, pD, pE}, report.Starters)
	assert.Equal(t, 5, report.Summary.FinalLead)
	assert.Equal(t, 8, report.Summary.Events)

	require.Len(t, report.Stints, 2)
	assert.Equal(t, 3, report.Stints[0].LeadDelta)
	assert.Equal(t, 120, report.Stints[0].ElapsedSeconds)
	assert.Equal(t, 2, report.Stints[1].LeadDelta)
	assert.Equal(t, 180, report.Stints[1].ElapsedSeconds)

	for _, p := range []string{pA, pC, pD, pE} {
		pm, ok := findPlayer(report.PlusMinus, p)
		require.True(t, ok, p)
		assert.Equal(t, 5, pm, p)
	}
	pm, _ := findPlayer(report.PlusMinus, pB)
	assert.Equal(t, 3, pm)
	pm, _ = findPlayer(report.PlusMinus, pF)
	assert.Equal(t, 2, pm)

	pm, ok := findPair(report.Pairs, pA, pC)
	require.True(t, ok)
	assert.Equal(t, 5, pm)
	pm, _ = findPair(report.Pairs, pF, pA)
	assert.Equal(t, 2, pm)
	_, ok = findPair(report.Pairs, pB, pF)
	assert.False(t, ok, "B and F never shared the floor")

	require.Len(t, report.Rates, 2)
	assert.Equal(t, 1.5, report.Rates[0].PerMinute)
	assert.Equal(t, 37.5, report.Rates[0].Per25)
	assert.Equal(t, 0.67, report.Rates[1].PerMinute)
	assert.Equal(t, 16.75, report.Rates[1].Per25)
}

func TestAggregate_PlusMinusSumsToFiveTimesLeadChange(t *testing.T) {
	report, err := Aggregate(exampleGame(), testConfig())
	require.NoError(t, err)

	sum := 0
	for _, r := range report.PlusMinus {
		sum += r.PlusMinus
	}
	assert.Equal(t, 5*report.Summary.FinalLead, sum)
}

// A log picked up mid-game opens with the tracked team already ahead.
func TestAggregate_InitialLeadNotCredited(t *testing.T) {
	g := exampleGame()
	for i := range g.Events {
		g.Events[i].Lead += 7
	}
	report, err := Aggregate(g, testConfig())
	require.NoError(t, err)

	sum := 0
	for _, r := range report.PlusMinus {
		sum += r.PlusMinus
	}
	assert.Equal(t, 5*(12-7), sum)

	pm, ok := findPlayer(report.PlusMinus, pA)
	require.True(t, ok)
	assert.Equal(t, 5, pm)
	pm, ok = findPlayer(report.PlusMinus, pB)
	require.True(t, ok)
	assert.Equal(t, 3, pm)

	// Player totals agree with the stints they played in.
	lineupSum := 0
	for _, lt := range report.Lineups {
		lineupSum += lt.PlusMinus
	}
	assert.Equal(t, 5, lineupSum)
}

func TestPlayerPlusMinus_FirstEventHasNoChange(t *testing.T) {
	five := []string{pA, pB, pC, pD, pE}
	stamped := []model.StampedEvent{
		{Event: model.Event{Lead: 2}, OnCourt: five},
		{Event: model.Event{Lead: 5}, OnCourt: five},
	}
	rows := PlayerPlusMinus("g", stamped)
	require.Len(t, rows, 5)
	sum := 0
	for _, r := range rows {
		assert.Equal(t, 3, r.PlusMinus, r.Player)
		sum += r.PlusMinus
	}
	assert.Equal(t, 5*(5-2), sum)
	assert.Empty(t, PlayerPlusMinus("g", nil))
}

func TestAggregate_NoiseInNamesResolved(t *testing.T) {
	g := exampleGame()
	g.Events[0].ActorRaw = "Adams, Ann"
	g.Events[6].ActorRaw = "FOSTER,F"
	report, err := Aggregate(g, testConfig())
	require.NoError(t, err)
	assert.Contains(t, report.Starters, pA)
	require.Len(t, report.Stints, 2)
	assert.True(t, report.Stints[1].Lineup.Contains(pF))
}

func TestAggregate_Warnings(t *testing.T) {
	report, err := Aggregate(makeGame(nil), testConfig())
	require.NoError(t, err)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], ErrNoEvents.Error())
	assert.Empty(t, report.Stints)
	assert.Empty(t, report.PlusMinus)

	short := makeGame([]model.Event{
		makeEvent("20:00", 0, model.KindOther, pA),
		makeEvent("19:00", 2, model.KindOther, pB),
	})
	report, err = Aggregate(short, testConfig())
	require.NoError(t, err)
	require.Len(t, report.Warnings, 2)
	assert.Contains(t, report.Warnings[0], ErrShortStarters.Error())
	assert.Contains(t, report.Warnings[1], ErrNoCompleteLineup.Error())
	// Partial stamps still earn individual plus-minus.
	pm, ok := findPlayer(report.PlusMinus, pA)
	require.True(t, ok)
	assert.Equal(t, 2, pm)
}

func TestAggregate_Errors(t *testing.T) {
	_, err := Aggregate(nil, testConfig())
	assert.Error(t, err)

	cfg := testConfig()
	cfg.Roster = nil
	_, err = Aggregate(exampleGame(), cfg)
	assert.Error(t, err)
}

func TestAggregate_FourFactorsForTrackedTeam(t *testing.T) {
	g := exampleGame()
	g.BoxScore = []model.BoxScoreRow{
		{Team: "Elms College", Player: "Adams, Ann", FGM: 4, FGA: 8, OREB: 2},
		{Team: "WPI", Player: "OTHER,ONE", FGA: 10, DREB: 6},
	}
	report, err := Aggregate(g, testConfig())
	require.NoError(t, err)
	require.Len(t, report.FourFactors, 1)
	ff := report.FourFactors[0]
	assert.Equal(t, pA, ff.Player)
	assert.Equal(t, 25.0, ff.OREBPct)
	assert.Equal(t, 50.0, ff.EFGPct)
	assert.Len(t, report.BoxScore, 2)
}

// ---- Attribution tables ----

func TestLineupTotals_SumsRepeatedStints(t *testing.T) {
	l1 := lineupOf(t, pA, pB, pC, pD, pE)
	l2 := lineupOf(t, pA, pC, pD, pE, pF)
	stints := []model.Stint{
		{Lineup: l1, LeadDelta: 3, ElapsedSeconds: 120},
		{Lineup: l2, LeadDelta: -1, ElapsedSeconds: 60},
		{Lineup: l1, LeadDelta: 4, ElapsedSeconds: 30},
	}
	totals := LineupTotals("g", stints)
	require.Len(t, totals, 2)
	assert.Equal(t, l1, totals[0].Lineup)
	assert.Equal(t, 7, totals[0].PlusMinus)
	assert.Equal(t, 150, totals[0].Seconds)
	assert.Equal(t, 2, totals[0].Stints)
	assert.Equal(t, -1, totals[1].PlusMinus)
}

func TestLineupRates_ZeroElapsedIsMissing(t *testing.T) {
	l := lineupOf(t, pA, pB, pC, pD, pE)
	rates := LineupRates("g", []model.Stint{{Lineup: l, LeadDelta: 2, ElapsedSeconds: 0}})
	require.Len(t, rates, 1)
	assert.True(t, model.IsMissing(rates[0].PerMinute))
	assert.True(t, model.IsMissing(rates[0].Per25))
	assert.Equal(t, 2, rates[0].PlusMinus)
}

func TestMergeLineups_SumsRatesDirectly(t *testing.T) {
	l := lineupOf(t, pA, pB, pC, pD, pE)
	rates := []model.LineupRate{
		{Lineup: l, PerMinute: 1.5, Per25: 37.5, Seconds: 120},
		{Lineup: l, PerMinute: -1, Per25: -25, Seconds: 60},
		{Lineup: l, PerMinute: math.NaN(), Per25: math.NaN(), Seconds: 0},
	}
	merged := MergeLineups(rates)
	require.Len(t, merged, 1)
	assert.Equal(t, 0.5, merged[0].PerMinute)
	assert.Equal(t, 12.5, merged[0].Per25)
	assert.Equal(t, 180, merged[0].Seconds)
	assert.Equal(t, 3, merged[0].Occurrences)
}

func TestMergeLineups_AllMissingStaysMissing(t *testing.T) {
	l := lineupOf(t, pA, pB, pC, pD, pE)
	merged := MergeLineups([]model.LineupRate{{Lineup: l, PerMinute: math.NaN(), Per25: math.NaN()}})
	require.Len(t, merged, 1)
	assert.True(t, model.IsMissing(merged[0].PerMinute))
	assert.True(t, model.IsMissing(merged[0].Per25))
}

func TestMergeLineups_OrderIndependent(t *testing.T) {
	l1 := lineupOf(t, pA, pB, pC, pD, pE)
	l2 := lineupOf(t, pB, pC, pD, pE, pF)
	rates := []model.LineupRate{
		{Lineup: l2, PerMinute: 0.25, Per25: 6.25, Seconds: 240},
		{Lineup: l1, PerMinute: 1.5, Per25: 37.5, Seconds: 120},
		{Lineup: l2, PerMinute: -0.5, Per25: -12.5, Seconds: 120},
		{Lineup: l1, PerMinute: 2, Per25: 50, Seconds: 60},
	}
	reversed := make([]model.LineupRate, len(rates))
	for i, r := range rates {
		reversed[len(rates)-1-i] = r
	}
	assert.Equal(t, MergeLineups(rates), MergeLineups(reversed))
}

func TestPairTotals(t *testing.T) {
	l1 := lineupOf(t, pA, pB, pC, pD, pE)
	l2 := lineupOf(t, pA, pC, pD, pE, pF)
	pairs := PairTotals("g", []model.LineupTotal{
		{Lineup: l1, PlusMinus: 3},
		{Lineup: l2, PlusMinus: 2},
	})
	// 10 + 10 pairs, 6 shared between the lineups.
	assert.Len(t, pairs, 14)
	pm, _ := findPair(pairs, pC, pA)
	assert.Equal(t, 5, pm)
	assert.Equal(t, 5, pairs[0].PlusMinus)
	for _, p := range pairs {
		assert.Less(t, p.Player1, p.Player2)
	}
}

func TestPlayerPlusMinus_SortedDescending(t *testing.T) {
	stamped := []model.StampedEvent{
		{Event: model.Event{Lead: 0}, OnCourt: []string{pA, pB}},
		{Event: model.Event{Lead: 4}, OnCourt: []string{pA, pB}},
		{Event: model.Event{Lead: 1}, OnCourt: []string{pB, pC}},
	}
	rows := PlayerPlusMinus("g", stamped)
	require.Len(t, rows, 3)
	assert.Equal(t, pA, rows[0].Player)
	assert.Equal(t, 4, rows[0].PlusMinus)
	assert.Equal(t, pB, rows[1].Player)
	assert.Equal(t, 1, rows[1].PlusMinus)
	assert.Equal(t, -3, rows[2].PlusMinus)
}
