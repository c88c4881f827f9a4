package parser

import (
	"crypto/sha256"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pable/go-hoops-metrics/internal/model"
)

// ParseGame parses the play-by-play XML at path and returns a Game named after
// the file. teamKey identifies the tracked team inside the venue's home name.
func ParseGame(path, teamKey string) (*model.Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open game: %w", err)
	}
	defer f.Close()

	// Hash file for idempotency key.
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("hash game: %w", err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek game: %w", err)
	}

	game, err := Parse(f, teamKey)
	if err != nil {
		return nil, err
	}
	game.Hash = fmt.Sprintf("%x", h.Sum(nil))
	game.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return game, nil
}

// Parse reads a StatCrew-style document: every <play> element in document
// order, the <venue> home/visitor names and the per-team player <stats>.
// A document without plays yields a Game with no events, not an error.
func Parse(r io.Reader, teamKey string) (*model.Game, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false

	game := &model.Game{}
	var (
		curTeam   string
		curPlayer *model.BoxScoreRow
		hasStats  bool
		vScore    int
		hScore    int
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode xml: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "venue":
				game.HomeName = attr(el, "homename")
				game.VisitorName = attr(el, "visname")
				game.Date = attr(el, "date")
			case "team":
				curTeam = attr(el, "name")
			case "player":
				if curTeam == "" {
					continue
				}
				name := attr(el, "name")
				if name == "" {
					name = attr(el, "checkname")
				}
				curPlayer = &model.BoxScoreRow{Team: curTeam, Number: attr(el, "uni"), Player: name}
				hasStats = false
			case "stats":
				if curPlayer == nil {
					continue // team <totals> carry their own stats
				}
				fillStats(curPlayer, el)
				hasStats = true
			case "play":
				ev := model.Event{
					Seq:      len(game.Events),
					Team:     attr(el, "team"),
					ActorRaw: strings.TrimSpace(attr(el, "checkname")),
					Action:   attr(el, "action"),
					Subtype:  attr(el, "type"),
					Clock:    strings.TrimSpace(attr(el, "time")),
				}
				ev.Actor = ev.ActorRaw
				ev.Kind = Classify(ev.Action, ev.Subtype)
				// Scores are only present on scoring plays; hold the last value.
				vScore = carryForward(attr(el, "vscore"), vScore)
				hScore = carryForward(attr(el, "hscore"), hScore)
				ev.VisitorScore, ev.HomeScore = vScore, hScore
				game.Events = append(game.Events, ev)
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "player":
				if curPlayer != nil && hasStats {
					game.BoxScore = append(game.BoxScore, *curPlayer)
				}
				curPlayer = nil
			case "team":
				curTeam = ""
			}
		}
	}

	game.TrackedIsHome = IsTrackedHome(game.HomeName, teamKey)
	for i := range game.Events {
		game.Events[i].Lead = Lead(game.Events[i], game.TrackedIsHome)
	}
	return game, nil
}

// Classify maps an action/subtype pair to an event kind.
func Classify(action, subtype string) model.Kind {
	if !strings.Contains(strings.ToUpper(action), "SUB") {
		return model.KindOther
	}
	t := strings.ToUpper(strings.TrimSpace(subtype))
	switch {
	case strings.Contains(t, "OUT"):
		return model.KindSubOut
	case strings.Contains(t, "IN"):
		return model.KindSubIn
	default:
		return model.KindOther
	}
}

// IsTrackedHome reports whether teamKey names the home team (case-insensitive substring).
func IsTrackedHome(homeName, teamKey string) bool {
	key := strings.ToLower(strings.TrimSpace(teamKey))
	return key != "" && strings.Contains(strings.ToLower(homeName), key)
}

// Lead is the score differential from the tracked team's side.
func Lead(ev model.Event, trackedIsHome bool) int {
	if trackedIsHome {
		return ev.HomeScore - ev.VisitorScore
	}
	return ev.VisitorScore - ev.HomeScore
}

func carryForward(raw string, prev int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return prev
	}
	return n
}

func fillStats(row *model.BoxScoreRow, el xml.StartElement) {
	row.Minutes = atoi(attr(el, "min"))
	row.FGM = atoi(attr(el, "fgm"))
	row.FGA = atoi(attr(el, "fga"))
	row.FG3M = atoi(attr(el, "fgm3"))
	row.FG3A = atoi(attr(el, "fga3"))
	row.FTM = atoi(attr(el, "ftm"))
	row.FTA = atoi(attr(el, "fta"))
	row.OREB = atoi(attr(el, "oreb"))
	row.DREB = atoi(attr(el, "dreb"))
	row.REB = atoi(attr(el, "treb"))
	row.AST = atoi(attr(el, "ast"))
	row.STL = atoi(attr(el, "stl"))
	row.BLK = atoi(attr(el, "blk"))
	row.TO = atoi(attr(el, "to"))
	row.PF = atoi(attr(el, "pf"))
	row.PTS = atoi(attr(el, "tp"))
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
