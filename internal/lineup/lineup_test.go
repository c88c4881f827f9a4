package lineup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-hoops-metrics/internal/model"
	"github.com/pable/go-hoops-metrics/internal/roster"
)

const (
	pA = "ADAMS,ANN"
	pB = "BAKER,BEA"
	pC = "CLARK,CAT"
	pD = "DAVIS,DEE"
	pE = "EVANS,EVE"
	pF = "FOSTER,FAY"
	pG = "GRANT,GIA"
)

var testRoster = []string{pA, pB, pC, pD, pE, pF, pG}

// makeEvent creates a play by actor at clock with the given tracked-team lead.
func makeEvent(clock string, lead int, kind model.Kind, actor string) model.Event {
	return model.Event{Clock: clock, Lead: lead, Kind: kind, Actor: actor, ActorRaw: actor}
}

func play(clock string, lead int) model.Event {
	return makeEvent(clock, lead, model.KindOther, "TEAM")
}

func newTracker() *Tracker {
	return NewTracker(roster.New(testRoster, roster.TokenSetRatio), 80)
}

func mustLineup(t *testing.T, names ...string) model.Lineup {
	t.Helper()
	l, ok := model.NewLineup(names)
	require.True(t, ok, "lineup %v", names)
	return l
}

// ---- Starter detection ----

func TestDetectStarters(t *testing.T) {
	events := []model.Event{
		makeEvent("20:00", 0, model.KindOther, pB),
		makeEvent("19:50", 0, model.KindSubIn, pA), // A came off the bench
		makeEvent("19:40", 0, model.KindOther, pC),
		makeEvent("19:30", 0, model.KindOther, pD),
		makeEvent("19:20", 0, model.KindSubOut, pE),
		makeEvent("19:10", 0, model.KindOther, pF),
		makeEvent("19:00", 0, model.KindOther, pG),
	}
	got := DetectStarters(events, testRoster)
	assert.Equal(t, []string{pB, pC, pD, pE, pF}, got)
}

func TestDetectStarters_ShortLog(t *testing.T) {
	events := []model.Event{
		makeEvent("20:00", 0, model.KindOther, pA),
		makeEvent("19:00", 0, model.KindOther, pB),
		makeEvent("18:00", 0, model.KindOther, "UNKNOWN,PLAYER"),
	}
	assert.Equal(t, []string{pA, pB}, DetectStarters(events, testRoster))
	assert.Empty(t, DetectStarters(nil, testRoster))
}

// ---- Tracker step function ----

func TestStep_StampsBeforeSubstitution(t *testing.T) {
	tr := newTracker()
	s := NewState([]string{pA, pB, pC, pD})

	next, stamped := tr.Step(s, makeEvent("10:00", 0, model.KindSubIn, pE))
	assert.Equal(t, []string{pA, pB, pC, pD}, stamped.OnCourt)
	assert.Equal(t, []string{pA, pB, pC, pD, pE}, next.OnCourt)
	// Input state untouched.
	assert.Len(t, s.OnCourt, 4)
}

func TestStep_FullCourtQueuesUntilSubOut(t *testing.T) {
	tr := newTracker()
	s := NewState([]string{pA, pB, pC, pD, pE})

	s, stamped := tr.Step(s, makeEvent("08:00", 3, model.KindSubIn, pF))
	assert.Len(t, stamped.OnCourt, 5)
	assert.Len(t, s.OnCourt, 5)
	assert.Equal(t, []string{pF}, s.Waiting)

	s, stamped = tr.Step(s, makeEvent("08:00", 3, model.KindSubOut, pB))
	assert.Equal(t, []string{pA, pB, pC, pD, pE}, stamped.OnCourt)
	assert.Equal(t, []string{pA, pC, pD, pE, pF}, s.OnCourt)
	assert.Empty(t, s.Waiting)
}

func TestStep_OutOfAbsentPlayerIsNoop(t *testing.T) {
	tr := newTracker()
	s := NewState([]string{pA, pB, pC, pD, pE})
	next, _ := tr.Step(s, makeEvent("07:00", 0, model.KindSubOut, pG))
	assert.Equal(t, s, next)
}

func TestStep_OutOfWaitingPlayerDropsThem(t *testing.T) {
	tr := newTracker()
	s := State{OnCourt: []string{pA, pB, pC, pD, pE}, Waiting: []string{pF}}
	next, _ := tr.Step(s, makeEvent("07:00", 0, model.KindSubOut, pF))
	assert.Empty(t, next.Waiting)
	assert.Len(t, next.OnCourt, 5)
}

func TestStep_UnresolvableActorIgnored(t *testing.T) {
	tr := newTracker()
	s := NewState([]string{pA, pB, pC, pD})
	next, _ := tr.Step(s, makeEvent("07:00", 0, model.KindSubIn, "VISITOR,OPPONENT"))
	assert.Equal(t, s, next)
}

func TestStep_ResolvesNoisySubName(t *testing.T) {
	tr := newTracker()
	s := NewState([]string{pA, pB, pC, pD})
	// Token subset of the canonical name.
	next, _ := tr.Step(s, makeEvent("07:00", 0, model.KindSubIn, "Evans"))
	assert.Contains(t, next.OnCourt, pE)
}

func TestStep_NonSubstitutionUnchanged(t *testing.T) {
	tr := newTracker()
	s := NewState([]string{pA, pB, pC, pD, pE})
	next, stamped := tr.Step(s, makeEvent("07:00", 2, model.KindOther, pF))
	assert.Equal(t, s, next)
	assert.Equal(t, s.OnCourt, stamped.OnCourt)
}

func TestTrack_StampsAreSubsetsOfRosterAndAtMostFive(t *testing.T) {
	events := []model.Event{
		play("20:00", 0),
		makeEvent("18:00", 0, model.KindSubIn, pF),
		makeEvent("18:00", 0, model.KindSubIn, pG),
		makeEvent("18:00", 0, model.KindSubOut, pA),
		makeEvent("18:00", 0, model.KindSubIn, "OPPONENT,X"),
		makeEvent("17:00", 0, model.KindSubOut, pB),
		makeEvent("16:00", 0, model.KindSubOut, pC),
		makeEvent("16:00", 0, model.KindSubOut, pD),
		makeEvent("15:00", 0, model.KindSubIn, pA),
		play("14:00", 2),
	}
	stamped := newTracker().Track(events, []string{pA, pB, pC, pD, pE})
	require.Len(t, stamped, len(events))

	rosterSet := make(map[string]bool)
	for _, n := range testRoster {
		rosterSet[n] = true
	}
	for i, ev := range stamped {
		assert.LessOrEqual(t, len(ev.OnCourt), CourtSize, "event %d", i)
		for _, n := range ev.OnCourt {
			assert.True(t, rosterSet[n], "event %d: %s not on roster", i, n)
		}
	}
	assert.ElementsMatch(t, []string{pE, pF, pG, pA}, stamped[len(stamped)-1].OnCourt)
}

// ---- Segmenter ----

func exampleEvents() []model.Event {
	return []model.Event{
		play("10:00", 0),
		play("08:00", 3),
		makeEvent("08:00", 3, model.KindSubOut, pB),
		makeEvent("08:00", 3, model.KindSubIn, pF),
		play("05:00", 5),
	}
}

func TestSegment_TwoStintExample(t *testing.T) {
	stamped := newTracker().Track(exampleEvents(), []string{pA, pB, pC, pD, pE})
	stints := Segment(stamped)
	require.Len(t, stints, 2)

	first, second := stints[0], stints[1]
	assert.Equal(t, mustLineup(t, pA, pB, pC, pD, pE), first.Lineup)
	assert.Equal(t, 3, first.LeadDelta)
	assert.Equal(t, 120, first.ElapsedSeconds)
	assert.Equal(t, "10:00", first.StartClock)
	assert.Equal(t, "08:00", first.EndClock)

	assert.Equal(t, mustLineup(t, pA, pC, pD, pE, pF), second.Lineup)
	assert.Equal(t, 2, second.LeadDelta)
	assert.Equal(t, 180, second.ElapsedSeconds)
	assert.Equal(t, model.HalfFirst, second.Half)
}

func TestSegment_HalfFlipOnClockReset(t *testing.T) {
	events := []model.Event{
		play("02:00", 0),
		play("00:00", 4),
		// Second half: clock jumps back up, new lineup takes the floor.
		makeEvent("20:00", 4, model.KindSubOut, pA),
		makeEvent("20:00", 4, model.KindSubIn, pG),
		play("15:00", 1),
	}
	stints := Segment(newTracker().Track(events, []string{pA, pB, pC, pD, pE}))
	require.Len(t, stints, 2)

	assert.Equal(t, model.HalfFirst, stints[0].Half)
	assert.Equal(t, 1, stints[0].Period)
	assert.Equal(t, 4, stints[0].LeadDelta)
	// Closed at the check-in just before the new lineup, whose clock already
	// reset: |20:00 - 02:00|.
	assert.Equal(t, 18*60, stints[0].ElapsedSeconds)

	assert.Equal(t, model.HalfSecond, stints[1].Half)
	assert.Equal(t, 2, stints[1].Period)
	assert.Equal(t, "20:00", stints[1].StartClock)
	assert.Equal(t, -3, stints[1].LeadDelta)
	assert.Equal(t, 300, stints[1].ElapsedSeconds)
}

func TestSegment_NewLineupRightAfterResetStartsAtCurrentEvent(t *testing.T) {
	tr := newTracker()
	state := NewState([]string{pA, pB, pC, pD, pE})
	var stamped []model.StampedEvent
	step := func(ev model.Event) {
		var s model.StampedEvent
		state, s = tr.Step(state, ev)
		stamped = append(stamped, s)
	}
	step(play("01:00", 0))
	step(play("00:00", 2))
	// Substitution during the break, then the first play of the new period.
	state = State{OnCourt: []string{pA, pB, pC, pD, pG}}
	step(play("20:00", 2))
	step(play("19:00", 4))

	stints := Segment(stamped)
	require.Len(t, stints, 2)
	assert.Equal(t, "00:00", stints[0].EndClock)
	assert.Equal(t, 60, stints[0].ElapsedSeconds)
	assert.Equal(t, "20:00", stints[1].StartClock)
	assert.Equal(t, 60, stints[1].ElapsedSeconds)
	assert.Equal(t, 2, stints[1].LeadDelta)
}

func TestSegment_MalformedClockCountsAsZero(t *testing.T) {
	events := []model.Event{
		play("bad", 0),
		play("05:00", 2),
	}
	stints := Segment(newTracker().Track(events, []string{pA, pB, pC, pD, pE}))
	require.Len(t, stints, 1)
	assert.Equal(t, 0, stints[0].ElapsedSeconds)
	assert.Equal(t, 2, stints[0].LeadDelta)
}

func TestSegment_PartialLineupsExcluded(t *testing.T) {
	events := []model.Event{
		play("20:00", 0),
		play("19:00", 2),
		makeEvent("18:00", 2, model.KindSubIn, pE),
		play("17:00", 5),
		play("16:00", 6),
	}
	// Only four starters known: the first stint starts once E checks in.
	stints := Segment(newTracker().Track(events, []string{pA, pB, pC, pD}))
	require.Len(t, stints, 1)
	assert.Equal(t, "17:00", stints[0].StartClock)
	assert.Equal(t, 1, stints[0].LeadDelta)
	assert.Equal(t, 60, stints[0].ElapsedSeconds)
}

func TestSegment_Empty(t *testing.T) {
	assert.Empty(t, Segment(nil))
	assert.Empty(t, Segment(newTracker().Track([]model.Event{play("10:00", 0)}, []string{pA})))
}

func TestSegment_HalfTimeNeverExceedsNominalDuration(t *testing.T) {
	events := []model.Event{play("20:00", 0)}
	subs := [][2]string{{pA, pF}, {pB, pG}, {pF, pA}, {pG, pB}}
	clock := 20 * 60
	for _, s := range subs {
		clock -= 240
		events = append(events,
			play(model.FormatClock(clock), 0),
			makeEvent(model.FormatClock(clock), 0, model.KindSubOut, s[0]),
			makeEvent(model.FormatClock(clock), 0, model.KindSubIn, s[1]),
		)
	}
	events = append(events, play("00:00", 0))

	stints := Segment(newTracker().Track(events, []string{pA, pB, pC, pD, pE}))
	total := 0
	for _, s := range stints {
		assert.Equal(t, model.HalfFirst, s.Half)
		total += s.ElapsedSeconds
	}
	assert.LessOrEqual(t, total, 20*60)
	assert.Equal(t, 20*60, total)
}
