package lineup

import "github.com/pable/go-hoops-metrics/internal/model"

// Segment cuts the stamped stream into stints of complete five-man lineups.
//
// Only events stamped with exactly five players can open or close a stint.
// When a new lineup appears, the previous stint ends at the event immediately
// before it (the last play the old lineup was on court for) and the new stint
// starts there, unless a clock reset lies in between, in which case the new
// stint starts at the current event. The final open stint is closed at the
// last event of the stream.
//
// The game clock counts down, so a clock that moves up marks a new period: the
// period counter increments and the half becomes the second half.
func Segment(stamped []model.StampedEvent) []model.Stint {
	var (
		stints   []model.Stint
		open     *model.Stint
		half     = model.HalfFirst
		period   = 1
		prevSecs = -1
	)
	// Period of each event, used to keep stint starts inside one period.
	periods := make([]int, len(stamped))

	for i, ev := range stamped {
		if secs, err := model.ParseClock(ev.Clock); err == nil {
			if prevSecs >= 0 && secs > prevSecs {
				period++
				half = model.HalfSecond
			}
			prevSecs = secs
		}
		periods[i] = period

		lineup, ok := ev.Lineup()
		if !ok {
			continue
		}
		if open != nil && open.Lineup == lineup {
			continue
		}

		start := ev.Event
		if open != nil {
			prev := stamped[i-1].Event
			closeStint(open, prev)
			stints = append(stints, *open)
			if periods[i-1] == period {
				start = prev
			}
		}
		open = &model.Stint{
			Lineup:     lineup,
			Half:       half,
			Period:     period,
			StartClock: start.Clock,
			StartLead:  start.Lead,
		}
	}

	if open != nil {
		closeStint(open, stamped[len(stamped)-1].Event)
		stints = append(stints, *open)
	}
	return stints
}

func closeStint(s *model.Stint, end model.Event) {
	s.EndClock = end.Clock
	s.EndLead = end.Lead
	s.LeadDelta = s.EndLead - s.StartLead
	s.ElapsedSeconds = elapsed(s.StartClock, s.EndClock)
}

// elapsed is |end - start| in seconds; a malformed clock counts as no time.
func elapsed(start, end string) int {
	a, err := model.ParseClock(start)
	if err != nil {
		return 0
	}
	b, err := model.ParseClock(end)
	if err != nil {
		return 0
	}
	if b > a {
		return b - a
	}
	return a - b
}
