package lineup

import (
	"github.com/pable/go-hoops-metrics/internal/model"
	"github.com/pable/go-hoops-metrics/internal/roster"
)

// State is the tracker's view of the court. OnCourt never exceeds five;
// players checked in while the court is full wait in Waiting (FIFO) until a
// substitution out frees a slot. States are values: Step never mutates its input.
type State struct {
	OnCourt []string
	Waiting []string
}

// NewState seeds the court with the starters.
func NewState(starters []string) State {
	s := State{}
	for _, name := range starters {
		if contains(s.OnCourt, name) {
			continue
		}
		if len(s.OnCourt) < CourtSize {
			s.OnCourt = append(s.OnCourt, name)
		} else {
			s.Waiting = append(s.Waiting, name)
		}
	}
	return s
}

// Tracker applies substitution events to a State.
type Tracker struct {
	resolver  *roster.Resolver
	threshold int
}

// NewTracker returns a Tracker that re-resolves substitution actors with
// resolver and accepts them at threshold.
func NewTracker(resolver *roster.Resolver, threshold int) *Tracker {
	return &Tracker{resolver: resolver, threshold: threshold}
}

// Step stamps ev with the players on court while it happened, then applies the
// event's own effect. The stamp is always taken before the substitution.
func (t *Tracker) Step(s State, ev model.Event) (State, model.StampedEvent) {
	stamped := model.StampedEvent{Event: ev, OnCourt: clone(s.OnCourt)}

	if ev.Kind != model.KindSubIn && ev.Kind != model.KindSubOut {
		return s, stamped
	}
	name, ok := t.resolver.Resolve(ev.Actor, t.threshold)
	if !ok {
		return s, stamped
	}

	next := State{OnCourt: clone(s.OnCourt), Waiting: clone(s.Waiting)}
	switch ev.Kind {
	case model.KindSubIn:
		if contains(next.OnCourt, name) || contains(next.Waiting, name) {
			return s, stamped
		}
		if len(next.OnCourt) < CourtSize {
			next.OnCourt = append(next.OnCourt, name)
		} else {
			next.Waiting = append(next.Waiting, name)
		}
	case model.KindSubOut:
		switch {
		case contains(next.OnCourt, name):
			next.OnCourt = remove(next.OnCourt, name)
		case contains(next.Waiting, name):
			next.Waiting = remove(next.Waiting, name)
		default:
			return s, stamped
		}
		for len(next.OnCourt) < CourtSize && len(next.Waiting) > 0 {
			next.OnCourt = append(next.OnCourt, next.Waiting[0])
			next.Waiting = next.Waiting[1:]
		}
	}
	return next, stamped
}

// Track folds Step over events starting from the starters.
func (t *Tracker) Track(events []model.Event, starters []string) []model.StampedEvent {
	state := NewState(starters)
	out := make([]model.StampedEvent, 0, len(events))
	for _, ev := range events {
		var stamped model.StampedEvent
		state, stamped = t.Step(state, ev)
		out = append(out, stamped)
	}
	return out
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func remove(names []string, name string) []string {
	out := names[:0]
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}

func clone(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	return append([]string(nil), names...)
}
