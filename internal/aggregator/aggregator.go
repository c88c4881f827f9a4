// Package aggregator turns a parsed game into its attribution tables: player,
// lineup and pair plus-minus, per-stint rates and box-score four factors.
package aggregator

import (
	"errors"
	"fmt"

	"github.com/pable/go-hoops-metrics/internal/factors"
	"github.com/pable/go-hoops-metrics/internal/lineup"
	"github.com/pable/go-hoops-metrics/internal/model"
	"github.com/pable/go-hoops-metrics/internal/roster"
)

// Conditions reported as warnings on the GameReport. None of them stop the
// pipeline; the affected tables are simply empty or partial.
var (
	ErrNoEvents         = errors.New("no play-by-play events")
	ErrShortStarters    = errors.New("fewer than five starters detected")
	ErrNoCompleteLineup = errors.New("no complete five-man lineup")
)

// Aggregate runs the full per-game pipeline: roster resolution, starters,
// lineup tracking, stint segmentation, attribution and four factors.
func Aggregate(game *model.Game, cfg model.EngineConfig) (*model.GameReport, error) {
	if game == nil {
		return nil, fmt.Errorf("nil Game")
	}
	if len(cfg.Roster) == 0 {
		return nil, fmt.Errorf("aggregate %s: empty roster", game.Name)
	}

	report := &model.GameReport{
		Summary: model.GameSummary{
			Hash:          game.Hash,
			Name:          game.Name,
			Date:          game.Date,
			HomeName:      game.HomeName,
			VisitorName:   game.VisitorName,
			TrackedIsHome: game.TrackedIsHome,
			Events:        len(game.Events),
		},
		BoxScore: game.BoxScore,
	}
	warn := func(err error, format string, args ...any) {
		msg := err.Error()
		if format != "" {
			msg = fmt.Sprintf("%s: %s", msg, fmt.Sprintf(format, args...))
		}
		report.Warnings = append(report.Warnings, msg)
	}

	// ---- Pass 1: canonical names and starters. ----

	ingest := roster.New(cfg.Roster, roster.TokenSortRatio)
	events := ingest.ResolveEvents(game.Events, cfg.IngestThreshold)
	if len(events) == 0 {
		warn(ErrNoEvents, "")
	} else {
		report.Summary.FinalLead = events[len(events)-1].Lead
	}

	report.Starters = lineup.DetectStarters(events, cfg.Roster)
	if len(events) > 0 && len(report.Starters) < lineup.CourtSize {
		warn(ErrShortStarters, "found %d", len(report.Starters))
	}

	// ---- Pass 2: who was on court, and the stints they form. ----

	subs := roster.New(cfg.Roster, roster.TokenSetRatio)
	stamped := lineup.NewTracker(subs, cfg.SubThreshold).Track(events, report.Starters)
	report.Stints = lineup.Segment(stamped)
	if len(events) > 0 && len(report.Stints) == 0 {
		warn(ErrNoCompleteLineup, "")
	}

	// ---- Pass 3: attribution. ----

	report.PlusMinus = PlayerPlusMinus(game.Name, stamped)
	report.Lineups = LineupTotals(game.Name, report.Stints)
	report.Rates = LineupRates(game.Name, report.Stints)
	report.Merged = MergeLineups(report.Rates)
	report.Pairs = PairTotals(game.Name, report.Lineups)

	// ---- Pass 4: box-score efficiency for the tracked team. ----

	if len(game.BoxScore) > 0 {
		totals := factors.TeamTotals(game.BoxScore)
		all := factors.Compute(game.Name, game.BoxScore, totals)
		report.FourFactors = factors.ForRoster(all, cfg.TeamKey, ingest, cfg.BoxScoreThreshold)
	}

	return report, nil
}
