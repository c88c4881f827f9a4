package season

import (
	"errors"
	"strings"

	"github.com/pable/go-hoops-metrics/internal/model"
	"github.com/pable/go-hoops-metrics/internal/roster"
)

// ErrTooManyPlayers is returned when a lineup query names more than five players.
var ErrTooManyPlayers = errors.New("a lineup has at most five players")

// LineupQuery filters season lineups. Every name in Players must match some
// member of the lineup; nil bounds are open.
type LineupQuery struct {
	Players      []string
	MinPlusMinus *int
	MaxPlusMinus *int
}

// SearchLineups returns the lineups matching q, in input order. Names match
// by partial ratio at threshold, so "SMITH" finds "SMITH,HEAVEN".
func SearchLineups(lineups []model.SeasonLineup, q LineupQuery, threshold int) ([]model.SeasonLineup, error) {
	parts := cleanNames(q.Players)
	if len(parts) > 5 {
		return nil, ErrTooManyPlayers
	}
	var out []model.SeasonLineup
	for _, l := range lineups {
		if q.MinPlusMinus != nil && l.PlusMinus < *q.MinPlusMinus {
			continue
		}
		if q.MaxPlusMinus != nil && l.PlusMinus > *q.MaxPlusMinus {
			continue
		}
		if containsAll(l.Lineup, parts, threshold) {
			out = append(out, l)
		}
	}
	return out, nil
}

func containsAll(l model.Lineup, parts []string, threshold int) bool {
	for _, part := range parts {
		found := false
		for _, member := range l {
			if roster.PartialRatio(part, member) >= threshold {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// SearchPairs returns the pairs made of a and b in either order.
func SearchPairs(pairs []model.PairTotal, a, b string, threshold int) []model.PairTotal {
	match := func(q, name string) bool { return roster.PartialRatio(q, name) >= threshold }
	var out []model.PairTotal
	for _, p := range pairs {
		if (match(a, p.Player1) && match(b, p.Player2)) || (match(a, p.Player2) && match(b, p.Player1)) {
			out = append(out, p)
		}
	}
	return out
}

// SplitNames splits a comma- or semicolon-separated query. A comma between
// a last and first name ("SMITH,HEAVEN") cannot be told apart from a list
// separator, so callers that need full names should use ";".
func SplitNames(s string) []string {
	sep := ","
	if strings.Contains(s, ";") {
		sep = ";"
	}
	return cleanNames(strings.Split(s, sep))
}

func cleanNames(names []string) []string {
	var out []string
	for _, n := range names {
		if n = strings.ToUpper(strings.TrimSpace(n)); n != "" {
			out = append(out, n)
		}
	}
	return out
}
