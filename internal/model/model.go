package model

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind classifies a play once at load time.
type Kind int

const (
	KindOther  Kind = 0
	KindSubIn  Kind = 1
	KindSubOut Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindSubIn:
		return "SUB IN"
	case KindSubOut:
		return "SUB OUT"
	default:
		return "OTHER"
	}
}

// Half is the half a stint was played in. Halves are not labelled in the log;
// the segmenter infers the second half from the first clock reset.
type Half int

const (
	HalfFirst  Half = 1
	HalfSecond Half = 2
)

func (h Half) String() string {
	if h == HalfSecond {
		return "2nd Half"
	}
	return "1st Half"
}

// ParseHalf is the inverse of Half.String.
func ParseHalf(s string) Half {
	if strings.HasPrefix(s, "2") {
		return HalfSecond
	}
	return HalfFirst
}

// ---- Raw events emitted by the parser ----

// Event is one play from the log. Immutable once loaded, except that the roster
// resolver rewrites Actor to the canonical name.
type Event struct {
	Seq          int
	Team         string
	ActorRaw     string
	Actor        string
	Action       string
	Subtype      string
	Kind         Kind
	Clock        string // "MM:SS", counts down within a period
	VisitorScore int
	HomeScore    int
	Lead         int // tracked team's score minus opponent's
}

// StampedEvent is an event together with the players on court while it happened.
type StampedEvent struct {
	Event
	OnCourt []string // 0..5 canonical names
}

// Lineup returns the stamped set as a five-man lineup; ok is false for partial sets.
func (e StampedEvent) Lineup() (Lineup, bool) {
	return NewLineup(e.OnCourt)
}

// Lineup is an order-independent set of exactly five canonical names,
// stored sorted so that equal sets compare equal.
type Lineup [5]string

// NewLineup builds a Lineup from five distinct names in any order.
func NewLineup(names []string) (Lineup, bool) {
	var l Lineup
	if len(names) != 5 {
		return l, false
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return l, false
		}
	}
	copy(l[:], sorted)
	return l, true
}

// LineupSep separates lineup members in serialized form. Names contain commas.
const LineupSep = " / "

func (l Lineup) String() string {
	return strings.Join(l[:], LineupSep)
}

// ParseLineup reverses Lineup.String.
func ParseLineup(s string) (Lineup, error) {
	parts := strings.Split(s, LineupSep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	l, ok := NewLineup(parts)
	if !ok {
		return l, fmt.Errorf("parse lineup %q: want 5 distinct players, got %d", s, len(parts))
	}
	return l, nil
}

// Contains reports whether name is in the lineup.
func (l Lineup) Contains(name string) bool {
	for _, p := range l {
		if p == name {
			return true
		}
	}
	return false
}

// Pairs returns the 10 unordered two-player combinations, each sorted.
func (l Lineup) Pairs() [][2]string {
	out := make([][2]string, 0, 10)
	for i := 0; i < len(l); i++ {
		for j := i + 1; j < len(l); j++ {
			out = append(out, [2]string{l[i], l[j]})
		}
	}
	return out
}

// Game is the loader's output for one log file.
type Game struct {
	Hash          string
	Name          string
	Date          string
	HomeName      string
	VisitorName   string
	TrackedIsHome bool
	Events        []Event
	BoxScore      []BoxScoreRow
}

// ---- Derived tables ----

// Stint is a maximal run of events sharing one five-man lineup.
type Stint struct {
	Lineup         Lineup
	Half           Half
	Period         int
	StartClock     string
	EndClock       string
	StartLead      int
	EndLead        int
	LeadDelta      int
	ElapsedSeconds int
}

type PlayerPlusMinus struct {
	Game      string
	Player    string
	PlusMinus int
}

// LineupTotal is the per-game sum over every stint of one lineup.
type LineupTotal struct {
	Game      string
	Lineup    Lineup
	PlusMinus int
	Seconds   int
	Stints    int
}

// LineupRate is one stint with its per-minute normalisation. Rates are NaN when
// the stint has no elapsed time.
type LineupRate struct {
	Game       string
	Lineup     Lineup
	Half       Half
	StartClock string
	EndClock   string
	PlusMinus  int
	Seconds    int
	PerMinute  float64
	Per25      float64
}

// MergedLineup sums LineupRate rows of one lineup. The rate sums are a direct
// sum of already-normalised figures, not a time-weighted average.
type MergedLineup struct {
	Game        string
	Lineup      Lineup
	PerMinute   float64
	Per25       float64
	Seconds     int
	Occurrences int
}

type PairTotal struct {
	Game      string
	Player1   string
	Player2   string
	PlusMinus int
}

// BoxScoreRow holds one player's counting stats.
type BoxScoreRow struct {
	Team    string `json:"team"`
	Number  string `json:"number"`
	Player  string `json:"player"`
	Minutes int    `json:"minutes"`
	FGM     int    `json:"fgm"`
	FGA     int    `json:"fga"`
	FG3M    int    `json:"fg3m"`
	FG3A    int    `json:"fg3a"`
	FTM     int    `json:"ftm"`
	FTA     int    `json:"fta"`
	OREB    int    `json:"oreb"`
	DREB    int    `json:"dreb"`
	REB     int    `json:"reb"`
	AST     int    `json:"ast"`
	STL     int    `json:"stl"`
	BLK     int    `json:"blk"`
	TO      int    `json:"to"`
	PF      int    `json:"pf"`
	PTS     int    `json:"pts"`
}

func (r *BoxScoreRow) FGPct() float64 { return pct(r.FGM, r.FGA) }
func (r *BoxScoreRow) FG3Pct() float64 { return pct(r.FG3M, r.FG3A) }
func (r *BoxScoreRow) FTPct() float64 { return pct(r.FTM, r.FTA) }

// Add accumulates o's counting stats into r.
func (r *BoxScoreRow) Add(o BoxScoreRow) {
	r.Minutes += o.Minutes
	r.FGM += o.FGM
	r.FGA += o.FGA
	r.FG3M += o.FG3M
	r.FG3A += o.FG3A
	r.FTM += o.FTM
	r.FTA += o.FTA
	r.OREB += o.OREB
	r.DREB += o.DREB
	r.REB += o.REB
	r.AST += o.AST
	r.STL += o.STL
	r.BLK += o.BLK
	r.TO += o.TO
	r.PF += o.PF
	r.PTS += o.PTS
}

func pct(made, att int) float64 {
	if att == 0 {
		return 0
	}
	return float64(made) / float64(att) * 100
}

// FourFactors holds the box-score efficiency ratios for one player.
type FourFactors struct {
	Game    string
	Team    string
	Player  string
	OREBPct float64
	TOVPct  float64
	EFGPct  float64
	FTR     float64
}

// GameSummary is a lightweight record for list/show commands.
type GameSummary struct {
	Hash          string
	Name          string
	Date          string
	HomeName      string
	VisitorName   string
	TrackedIsHome bool
	FinalLead     int
	Events        int
	RunID         string
}

// GameReport is everything computed for one game.
type GameReport struct {
	Summary     GameSummary
	Starters    []string
	PlusMinus   []PlayerPlusMinus
	Lineups     []LineupTotal
	Stints      []Stint
	Rates       []LineupRate
	Merged      []MergedLineup
	Pairs       []PairTotal
	BoxScore    []BoxScoreRow
	FourFactors []FourFactors
	Warnings    []string
}

// ---- Season tables ----

// SeasonLineup is one lineup's plus-minus and time summed over the season.
type SeasonLineup struct {
	Lineup    Lineup
	PlusMinus int
	Seconds   int
	Games     []string // sorted, unique
}

// SeasonMerged sums a lineup's per-game merged rates over the season.
type SeasonMerged struct {
	Lineup    Lineup
	PerMinute float64
	Per25     float64
	Seconds   int
}

// Season is the cross-game rollup of every per-game table.
type Season struct {
	Games       []string
	PlusMinus   []PlayerPlusMinus
	Lineups     []SeasonLineup
	Merged      []SeasonMerged
	Pairs       []PairTotal
	BoxScore    []BoxScoreRow // summed per player and team
	FourFactors []FourFactors // averaged per roster player
}

// EngineConfig is injected into every pipeline stage.
type EngineConfig struct {
	TeamKey           string
	Roster            []string
	IngestThreshold   int
	SubThreshold      int
	SearchThreshold   int
	BoxScoreThreshold int
}

// ---- Clock helpers ----

// ParseClock converts "MM:SS" (or "H:MM:SS") to seconds.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("parse clock %q: want MM:SS", s)
	}
	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("parse clock %q: bad field %q", s, p)
		}
		total = total*60 + n
	}
	return total, nil
}

// FormatClock renders seconds as zero-padded "MM:SS"; minutes may exceed 59.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = -seconds
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// IsMissing reports whether a rate is undefined.
func IsMissing(v float64) bool { return math.IsNaN(v) }
