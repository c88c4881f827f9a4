package aggregator

import (
	"math"
	"sort"

	"github.com/pable/go-hoops-metrics/internal/model"
)

// PlayerPlusMinus credits each event's lead change to every player stamped on
// it, whatever the size of the stamped set. The first event has no change: a
// log that opens with a score on the board credits nobody for it. Sorted by
// plus-minus descending, then name.
func PlayerPlusMinus(game string, stamped []model.StampedEvent) []model.PlayerPlusMinus {
	totals := make(map[string]int)
	prevLead := 0
	if len(stamped) > 0 {
		prevLead = stamped[0].Lead
	}
	for _, ev := range stamped {
		delta := ev.Lead - prevLead
		prevLead = ev.Lead
		for _, p := range ev.OnCourt {
			totals[p] += delta
		}
	}

	out := make([]model.PlayerPlusMinus, 0, len(totals))
	for p, pm := range totals {
		out = append(out, model.PlayerPlusMinus{Game: game, Player: p, PlusMinus: pm})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlusMinus != out[j].PlusMinus {
			return out[i].PlusMinus > out[j].PlusMinus
		}
		return out[i].Player < out[j].Player
	})
	return out
}

// LineupTotals sums lead delta and elapsed time over every stint of each lineup.
func LineupTotals(game string, stints []model.Stint) []model.LineupTotal {
	index := make(map[model.Lineup]int)
	var out []model.LineupTotal
	for _, s := range stints {
		i, ok := index[s.Lineup]
		if !ok {
			i = len(out)
			index[s.Lineup] = i
			out = append(out, model.LineupTotal{Game: game, Lineup: s.Lineup})
		}
		out[i].PlusMinus += s.LeadDelta
		out[i].Seconds += s.ElapsedSeconds
		out[i].Stints++
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PlusMinus != out[j].PlusMinus {
			return out[i].PlusMinus > out[j].PlusMinus
		}
		return out[i].Lineup.String() < out[j].Lineup.String()
	})
	return out
}

// LineupRates normalises every stint to plus-minus per minute and per 25
// minutes, both rounded to two decimals. A stint with no elapsed time has
// missing (NaN) rates.
func LineupRates(game string, stints []model.Stint) []model.LineupRate {
	out := make([]model.LineupRate, 0, len(stints))
	for _, s := range stints {
		r := model.LineupRate{
			Game:       game,
			Lineup:     s.Lineup,
			Half:       s.Half,
			StartClock: s.StartClock,
			EndClock:   s.EndClock,
			PlusMinus:  s.LeadDelta,
			Seconds:    s.ElapsedSeconds,
			PerMinute:  math.NaN(),
			Per25:      math.NaN(),
		}
		if s.ElapsedSeconds > 0 {
			minutes := float64(s.ElapsedSeconds) / 60
			r.PerMinute = round2(float64(s.LeadDelta) / minutes)
			r.Per25 = round2(r.PerMinute * 25)
		}
		out = append(out, r)
	}
	return out
}

// MergeLineups collapses rate rows of the same lineup. The per-minute and
// per-25 figures are summed as they are, not re-weighted by time; missing
// values are skipped and a lineup whose rates are all missing stays missing.
// Output is ordered by lineup so that input order does not matter.
func MergeLineups(rates []model.LineupRate) []model.MergedLineup {
	byLineup := make(map[model.Lineup]*model.MergedLineup)
	for _, r := range rates {
		m, ok := byLineup[r.Lineup]
		if !ok {
			m = &model.MergedLineup{Game: r.Game, Lineup: r.Lineup, PerMinute: math.NaN(), Per25: math.NaN()}
			byLineup[r.Lineup] = m
		}
		m.PerMinute = addRate(m.PerMinute, r.PerMinute)
		m.Per25 = addRate(m.Per25, r.Per25)
		m.Seconds += r.Seconds
		m.Occurrences++
	}

	out := make([]model.MergedLineup, 0, len(byLineup))
	for _, m := range byLineup {
		if !model.IsMissing(m.PerMinute) {
			m.PerMinute = round2(m.PerMinute)
		}
		if !model.IsMissing(m.Per25) {
			m.Per25 = round2(m.Per25)
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Lineup.String() < out[j].Lineup.String()
	})
	return out
}

func addRate(sum, v float64) float64 {
	if model.IsMissing(v) {
		return sum
	}
	if model.IsMissing(sum) {
		return v
	}
	return sum + v
}

// PairTotals spreads each lineup's plus-minus over its ten player pairs.
// Sorted by plus-minus descending, then by pair.
func PairTotals(game string, totals []model.LineupTotal) []model.PairTotal {
	sums := make(map[[2]string]int)
	for _, lt := range totals {
		for _, p := range lt.Lineup.Pairs() {
			sums[p] += lt.PlusMinus
		}
	}

	out := make([]model.PairTotal, 0, len(sums))
	for p, pm := range sums {
		out = append(out, model.PairTotal{Game: game, Player1: p[0], Player2: p[1], PlusMinus: pm})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlusMinus != out[j].PlusMinus {
			return out[i].PlusMinus > out[j].PlusMinus
		}
		if out[i].Player1 != out[j].Player1 {
			return out[i].Player1 < out[j].Player1
		}
		return out[i].Player2 < out[j].Player2
	})
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
