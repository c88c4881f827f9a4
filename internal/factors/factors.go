// Package factors computes box-score efficiency ratios ("four factors") per
// player. All ratios are percentages rounded to two decimals; a zero
// denominator yields 0.
package factors

import (
	"math"
	"strings"

	"github.com/pable/go-hoops-metrics/internal/model"
	"github.com/pable/go-hoops-metrics/internal/roster"
)

// OREBRate is offensive rebounds over available offensive rebounds.
func OREBRate(oreb, oppDREB int) float64 {
	return percent(float64(oreb), float64(oreb+oppDREB))
}

// TOVRate is turnovers per estimated possession used.
func TOVRate(to, fga, fta int) float64 {
	return percent(float64(to), float64(fga)+0.44*float64(fta)+float64(to))
}

// EFGPct weights made threes at one and a half field goals.
func EFGPct(fgm, fg3m, fga int) float64 {
	return percent(float64(fgm)+0.5*float64(fg3m), float64(fga))
}

// FTRate is free-throw attempts per field-goal attempt.
func FTRate(fta, fga int) float64 {
	return percent(float64(fta), float64(fga))
}

func percent(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return round2(num / den * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// TeamTotals sums player rows by team, in order of first appearance.
func TeamTotals(rows []model.BoxScoreRow) []model.BoxScoreRow {
	var out []model.BoxScoreRow
	index := make(map[string]int)
	for _, r := range rows {
		i, ok := index[r.Team]
		if !ok {
			i = len(out)
			index[r.Team] = i
			out = append(out, model.BoxScoreRow{Team: r.Team, Player: "TEAM"})
		}
		out[i].Add(r)
	}
	return out
}

// Compute derives four factors for every player row. The opponent's defensive
// rebounds come from the first team in totals that is not the player's own.
func Compute(game string, rows, totals []model.BoxScoreRow) []model.FourFactors {
	out := make([]model.FourFactors, 0, len(rows))
	for _, r := range rows {
		oppDREB := 0
		for _, t := range totals {
			if t.Team != r.Team {
				oppDREB = t.DREB
				break
			}
		}
		out = append(out, model.FourFactors{
			Game:    game,
			Team:    r.Team,
			Player:  r.Player,
			OREBPct: OREBRate(r.OREB, oppDREB),
			TOVPct:  TOVRate(r.TO, r.FGA, r.FTA),
			EFGPct:  EFGPct(r.FGM, r.FG3M, r.FGA),
			FTR:     FTRate(r.FTA, r.FGA),
		})
	}
	return out
}

// ForTeam keeps the rows whose team name contains teamKey (case-insensitive).
func ForTeam(rows []model.BoxScoreRow, teamKey string) []model.BoxScoreRow {
	key := strings.ToLower(teamKey)
	var out []model.BoxScoreRow
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Team), key) {
			out = append(out, r)
		}
	}
	return out
}

// ForRoster keeps the tracked team's factors and renames players to their
// canonical roster names. Rows that do not resolve keep their box-score name.
func ForRoster(ff []model.FourFactors, teamKey string, resolver *roster.Resolver, threshold int) []model.FourFactors {
	key := strings.ToLower(teamKey)
	var out []model.FourFactors
	for _, f := range ff {
		if !strings.Contains(strings.ToLower(f.Team), key) {
			continue
		}
		if name, ok := resolver.Resolve(f.Player, threshold); ok {
			f.Player = name
		}
		out = append(out, f)
	}
	return out
}
