package roster

import "github.com/pable/go-hoops-metrics/internal/model"

// Resolver matches free text against a fixed, ordered list of canonical names.
// It never mutates the roster it was built from.
type Resolver struct {
	names  []string
	scorer Scorer
}

// New returns a Resolver over names scored with scorer (TokenSortRatio if nil).
func New(names []string, scorer Scorer) *Resolver {
	if scorer == nil {
		scorer = TokenSortRatio
	}
	return &Resolver{names: append([]string(nil), names...), scorer: scorer}
}

// Names returns a copy of the roster in its original order.
func (r *Resolver) Names() []string {
	return append([]string(nil), r.names...)
}

// Best returns the highest-scoring roster name for query. Ties keep the
// earliest roster entry. An empty roster returns ("", 0).
func (r *Resolver) Best(query string) (string, int) {
	bestName, bestScore := "", -1
	for _, n := range r.names {
		if s := r.scorer(query, n); s > bestScore {
			bestName, bestScore = n, s
		}
	}
	if bestScore < 0 {
		return "", 0
	}
	return bestName, bestScore
}

// Resolve returns the canonical name for query when its best score reaches threshold.
func (r *Resolver) Resolve(query string, threshold int) (string, bool) {
	name, score := r.Best(query)
	if name == "" || score < threshold {
		return "", false
	}
	return name, true
}

// ResolveEvents returns a copy of events with Actor rewritten to the canonical
// name wherever ActorRaw resolves at threshold. Unresolved actors keep their raw
// text and are later treated as untracked players.
func (r *Resolver) ResolveEvents(events []model.Event, threshold int) []model.Event {
	out := make([]model.Event, len(events))
	for i, ev := range events {
		ev.Actor = ev.ActorRaw
		if name, ok := r.Resolve(ev.ActorRaw, threshold); ok {
			ev.Actor = name
		}
		out[i] = ev
	}
	return out
}

// IsRostered reports whether name is exactly one of the canonical names.
func (r *Resolver) IsRostered(name string) bool {
	for _, n := range r.names {
		if n == name {
			return true
		}
	}
	return false
}
