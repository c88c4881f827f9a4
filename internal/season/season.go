// Package season rolls stored per-game reports up into season tables.
package season

import (
	"math"
	"sort"
	"strings"

	"github.com/pable/go-hoops-metrics/internal/model"
	"github.com/pable/go-hoops-metrics/internal/roster"
)

// Build aggregates reports into a Season. Four-factor rows are averaged per
// roster player: box-score names are matched to resolver's roster at
// threshold and rows that do not match are dropped.
func Build(reports []*model.GameReport, resolver *roster.Resolver, threshold int) *model.Season {
	s := &model.Season{}
	for _, r := range reports {
		s.Games = append(s.Games, r.Summary.Name)
	}
	s.PlusMinus = playerTotals(reports)
	s.Lineups = lineupTotals(reports)
	s.Merged = mergedTotals(reports)
	s.Pairs = pairTotals(reports)
	s.BoxScore = boxScoreTotals(reports)
	s.FourFactors = fourFactorAverages(reports, resolver, threshold)
	return s
}

func playerTotals(reports []*model.GameReport) []model.PlayerPlusMinus {
	sums := make(map[string]int)
	for _, r := range reports {
		for _, p := range r.PlusMinus {
			sums[p.Player] += p.PlusMinus
		}
	}
	out := make([]model.PlayerPlusMinus, 0, len(sums))
	for name, pm := range sums {
		out = append(out, model.PlayerPlusMinus{Player: name, PlusMinus: pm})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlusMinus != out[j].PlusMinus {
			return out[i].PlusMinus > out[j].PlusMinus
		}
		return out[i].Player < out[j].Player
	})
	return out
}

func lineupTotals(reports []*model.GameReport) []model.SeasonLineup {
	byLineup := make(map[model.Lineup]*model.SeasonLineup)
	games := make(map[model.Lineup]map[string]bool)
	for _, r := range reports {
		for _, lt := range r.Lineups {
			sl, ok := byLineup[lt.Lineup]
			if !ok {
				sl = &model.SeasonLineup{Lineup: lt.Lineup}
				byLineup[lt.Lineup] = sl
				games[lt.Lineup] = make(map[string]bool)
			}
			sl.PlusMinus += lt.PlusMinus
			sl.Seconds += lt.Seconds
			games[lt.Lineup][r.Summary.Name] = true
		}
	}

	out := make([]model.SeasonLineup, 0, len(byLineup))
	for l, sl := range byLineup {
		for g := range games[l] {
			sl.Games = append(sl.Games, g)
		}
		sort.Strings(sl.Games)
		out = append(out, *sl)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlusMinus != out[j].PlusMinus {
			return out[i].PlusMinus > out[j].PlusMinus
		}
		return out[i].Lineup.String() < out[j].Lineup.String()
	})
	return out
}

func mergedTotals(reports []*model.GameReport) []model.SeasonMerged {
	byLineup := make(map[model.Lineup]*model.SeasonMerged)
	for _, r := range reports {
		for _, m := range r.Merged {
			sm, ok := byLineup[m.Lineup]
			if !ok {
				sm = &model.SeasonMerged{Lineup: m.Lineup, PerMinute: math.NaN(), Per25: math.NaN()}
				byLineup[m.Lineup] = sm
			}
			sm.PerMinute = addRate(sm.PerMinute, m.PerMinute)
			sm.Per25 = addRate(sm.Per25, m.Per25)
			sm.Seconds += m.Seconds
		}
	}

	out := make([]model.SeasonMerged, 0, len(byLineup))
	for _, sm := range byLineup {
		sm.PerMinute = round2(sm.PerMinute)
		sm.Per25 = round2(sm.Per25)
		out = append(out, *sm)
	}
	// Highest per-25 first; missing rates sink to the bottom.
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Per25, out[j].Per25
		switch {
		case model.IsMissing(a) != model.IsMissing(b):
			return !model.IsMissing(a)
		case !model.IsMissing(a) && a != b:
			return a > b
		}
		return out[i].Lineup.String() < out[j].Lineup.String()
	})
	return out
}

func pairTotals(reports []*model.GameReport) []model.PairTotal {
	sums := make(map[[2]string]int)
	for _, r := range reports {
		for _, p := range r.Pairs {
			sums[[2]string{p.Player1, p.Player2}] += p.PlusMinus
		}
	}
	out := make([]model.PairTotal, 0, len(sums))
	for k, pm := range sums {
		out = append(out, model.PairTotal{Player1: k[0], Player2: k[1], PlusMinus: pm})
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

func boxScoreTotals(reports []*model.GameReport) []model.BoxScoreRow {
	type key struct{ player, team string }
	byPlayer := make(map[key]*model.BoxScoreRow)
	for _, r := range reports {
		for _, b := range r.BoxScore {
			k := key{b.Player, b.Team}
			row, ok := byPlayer[k]
			if !ok {
				row = &model.BoxScoreRow{Player: b.Player, Team: b.Team, Number: b.Number}
				byPlayer[k] = row
			}
			row.Add(b)
		}
	}
	out := make([]model.BoxScoreRow, 0, len(byPlayer))
	for _, row := range byPlayer {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Player != out[j].Player {
			return out[i].Player < out[j].Player
		}
		return out[i].Team < out[j].Team
	})
	return out
}

func fourFactorAverages(reports []*model.GameReport, resolver *roster.Resolver, threshold int) []model.FourFactors {
	type acc struct {
		sum model.FourFactors
		n   int
	}
	byPlayer := make(map[string]*acc)
	for _, r := range reports {
		for _, f := range r.FourFactors {
			name, ok := resolver.Resolve(strings.ToUpper(strings.TrimSpace(f.Player)), threshold)
			if !ok {
				continue
			}
			a, seen := byPlayer[name]
			if !seen {
				a = &acc{sum: model.FourFactors{Player: name}}
				byPlayer[name] = a
			}
			a.sum.OREBPct += f.OREBPct
			a.sum.TOVPct += f.TOVPct
			a.sum.EFGPct += f.EFGPct
			a.sum.FTR += f.FTR
			a.n++
		}
	}

	out := make([]model.FourFactors, 0, len(byPlayer))
	for _, a := range byPlayer {
		n := float64(a.n)
		out = append(out, model.FourFactors{
			Player:  a.sum.Player,
			OREBPct: round2(a.sum.OREBPct / n),
			TOVPct:  round2(a.sum.TOVPct / n),
			EFGPct:  round2(a.sum.EFGPct / n),
			FTR:     round2(a.sum.FTR / n),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Player < out[j].Player })
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

// round2 leaves NaN untouched.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
