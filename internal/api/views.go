package api

import (
	"github.com/pable/go-hoops-metrics/internal/model"
)

// JSON shapes. Rates that are missing (NaN) encode as null, which
// encoding/json cannot do for a bare float64.

type gameView struct {
	Hash          string `json:"hash"`
	Name          string `json:"name"`
	Date          string `json:"date"`
	Home          string `json:"home"`
	Visitor       string `json:"visitor"`
	TrackedIsHome bool   `json:"tracked_is_home"`
	FinalLead     int    `json:"final_lead"`
	Events        int    `json:"events"`
	RunID         string `json:"run_id,omitempty"`
}

type playerView struct {
	Player    string `json:"player"`
	PlusMinus int    `json:"plus_minus"`
}

type lineupView struct {
	Lineup    model.Lineup `json:"lineup"`
	PlusMinus int          `json:"plus_minus"`
	Seconds   int          `json:"seconds"`
	Stints    int          `json:"stints,omitempty"`
	Games     []string     `json:"games,omitempty"`
}

type rateView struct {
	Lineup     model.Lineup `json:"lineup"`
	Half       string       `json:"half,omitempty"`
	StartClock string       `json:"start_clock,omitempty"`
	EndClock   string       `json:"end_clock,omitempty"`
	PlusMinus  *int         `json:"plus_minus,omitempty"`
	Seconds    int          `json:"seconds"`
	PerMinute  *float64     `json:"per_minute"`
	Per25      *float64     `json:"per_25"`
}

type pairView struct {
	Player1   string `json:"player1"`
	Player2   string `json:"player2"`
	PlusMinus int    `json:"plus_minus"`
}

type factorsView struct {
	Team    string  `json:"team"`
	Player  string  `json:"player"`
	OREBPct float64 `json:"oreb_pct"`
	TOVPct  float64 `json:"tov_pct"`
	EFGPct  float64 `json:"efg_pct"`
	FTR     float64 `json:"ftr"`
}

type reportView struct {
	Game        gameView            `json:"game"`
	Starters    []string            `json:"starters"`
	PlusMinus   []playerView        `json:"plus_minus"`
	Lineups     []lineupView        `json:"lineups"`
	Stints      []rateView          `json:"stints"`
	Merged      []rateView          `json:"merged"`
	Pairs       []pairView          `json:"pairs"`
	FourFactors []factorsView       `json:"four_factors"`
	BoxScore    []model.BoxScoreRow `json:"box_score"`
	Warnings    []string            `json:"warnings,omitempty"`
}

type seasonView struct {
	Games       []string            `json:"games"`
	PlusMinus   []playerView        `json:"plus_minus"`
	Lineups     []lineupView        `json:"lineups"`
	Merged      []rateView          `json:"merged"`
	Pairs       []pairView          `json:"pairs"`
	FourFactors []factorsView       `json:"four_factors"`
	BoxScore    []model.BoxScoreRow `json:"box_score"`
}

func optRate(v float64) *float64 {
	if model.IsMissing(v) {
		return nil
	}
	return &v
}

func toGameView(s model.GameSummary) gameView {
	return gameView{
		Hash:          s.Hash,
		Name:          s.Name,
		Date:          s.Date,
		Home:          s.HomeName,
		Visitor:       s.VisitorName,
		TrackedIsHome: s.TrackedIsHome,
		FinalLead:     s.FinalLead,
		Events:        s.Events,
		RunID:         s.RunID,
	}
}

func toPlayerViews(rows []model.PlayerPlusMinus) []playerView {
	out := make([]playerView, 0, len(rows))
	for _, r := range rows {
		out = append(out, playerView{Player: r.Player, PlusMinus: r.PlusMinus})
	}
	return out
}

func toPairViews(rows []model.PairTotal) []pairView {
	out := make([]pairView, 0, len(rows))
	for _, r := range rows {
		out = append(out, pairView{Player1: r.Player1, Player2: r.Player2, PlusMinus: r.PlusMinus})
	}
	return out
}

func toFactorsViews(rows []model.FourFactors) []factorsView {
	out := make([]factorsView, 0, len(rows))
	for _, r := range rows {
		out = append(out, factorsView{Team: r.Team, Player: r.Player, OREBPct: r.OREBPct, TOVPct: r.TOVPct, EFGPct: r.EFGPct, FTR: r.FTR})
	}
	return out
}

func toSeasonLineupViews(rows []model.SeasonLineup) []lineupView {
	out := make([]lineupView, 0, len(rows))
	for _, r := range rows {
		out = append(out, lineupView{Lineup: r.Lineup, PlusMinus: r.PlusMinus, Seconds: r.Seconds, Games: r.Games})
	}
	return out
}

func toReportView(r *model.GameReport) reportView {
	v := reportView{
		Game:        toGameView(r.Summary),
		Starters:    r.Starters,
		PlusMinus:   toPlayerViews(r.PlusMinus),
		Lineups:     make([]lineupView, 0, len(r.Lineups)),
		Stints:      make([]rateView, 0, len(r.Rates)),
		Merged:      make([]rateView, 0, len(r.Merged)),
		Pairs:       toPairViews(r.Pairs),
		FourFactors: toFactorsViews(r.FourFactors),
		BoxScore:    r.BoxScore,
		Warnings:    r.Warnings,
	}
	for _, l := range r.Lineups {
		v.Lineups = append(v.Lineups, lineupView{Lineup: l.Lineup, PlusMinus: l.PlusMinus, Seconds: l.Seconds, Stints: l.Stints})
	}
	for _, s := range r.Rates {
		pm := s.PlusMinus
		v.Stints = append(v.Stints, rateView{
			Lineup:     s.Lineup,
			Half:       s.Half.String(),
			StartClock: s.StartClock,
			EndClock:   s.EndClock,
			PlusMinus:  &pm,
			Seconds:    s.Seconds,
			PerMinute:  optRate(s.PerMinute),
			Per25:      optRate(s.Per25),
		})
	}
	for _, m := range r.Merged {
		v.Merged = append(v.Merged, rateView{Lineup: m.Lineup, Seconds: m.Seconds, PerMinute: optRate(m.PerMinute), Per25: optRate(m.Per25)})
	}
	return v
}

func toSeasonView(s *model.Season) seasonView {
	v := seasonView{
		Games:       s.Games,
		PlusMinus:   toPlayerViews(s.PlusMinus),
		Lineups:     toSeasonLineupViews(s.Lineups),
		Merged:      make([]rateView, 0, len(s.Merged)),
		Pairs:       toPairViews(s.Pairs),
		FourFactors: toFactorsViews(s.FourFactors),
		BoxScore:    s.BoxScore,
	}
	for _, m := range s.Merged {
		v.Merged = append(v.Merged, rateView{Lineup: m.Lineup, Seconds: m.Seconds, PerMinute: optRate(m.PerMinute), Per25: optRate(m.Per25)})
	}
	return v
}
