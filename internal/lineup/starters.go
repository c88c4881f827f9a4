// Package lineup replays substitutions to reconstruct who was on court for the
// tracked team and cuts the stamped event stream into five-man stints.
package lineup

import "github.com/pable/go-hoops-metrics/internal/model"

// CourtSize is the number of players a complete lineup has.
const CourtSize = 5

// DetectStarters walks the roster in order and takes every player whose first
// recorded event is not a substitution in, stopping at five. Players with no
// events are skipped. Fewer than five names means the log is short of data;
// the caller decides how to surface that.
func DetectStarters(events []model.Event, roster []string) []string {
	first := make(map[string]model.Kind, len(roster))
	for _, ev := range events {
		if _, seen := first[ev.Actor]; !seen {
			first[ev.Actor] = ev.Kind
		}
	}

	var starters []string
	for _, name := range roster {
		kind, ok := first[name]
		if !ok || kind == model.KindSubIn {
			continue
		}
		starters = append(starters, name)
		if len(starters) == CourtSize {
			break
		}
	}
	return starters
}
