// Package config holds the engine and CLI settings: the tracked team, its
// roster, fuzzy-match thresholds, and storage and server options.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pable/go-hoops-metrics/internal/model"
)

// Thresholds are fuzzy-match acceptance scores on a 0-100 scale.
type Thresholds struct {
	// Ingest resolves play-by-play actor names (token-sort ratio).
	Ingest int `koanf:"ingest"`
	// Substitution re-resolves SUB IN / SUB OUT actors (token-set ratio).
	Substitution int `koanf:"substitution"`
	// Search matches query names against stored lineups (partial ratio).
	Search int `koanf:"search"`
	// BoxScore maps box-score names onto the roster.
	BoxScore int `koanf:"box_score"`
}

// HTTP configures the read-only API server.
type HTTP struct {
	Addr string `koanf:"addr"`
}

// Config contains process configuration.
type Config struct {
	// TeamKey is matched case-insensitively against team names to pick the
	// tracked team.
	TeamKey string `koanf:"team_key"`

	// Roster is the ordered list of canonical player names. Order matters for
	// starter detection.
	Roster []string `koanf:"roster"`

	Thresholds Thresholds `koanf:"thresholds"`

	DBPath   string `koanf:"db_path"`
	LogLevel string `koanf:"log_level"`

	// Workers bounds how many games are processed concurrently.
	Workers int `koanf:"workers"`

	HTTP HTTP `koanf:"http"`
}

// DefaultRoster is the roster used when no config file supplies one.
var DefaultRoster = []string{
	"SMITH,HEAVEN", "GUERRIER,PHONIA", "PACHECO,MIA", "TURCO,MARY", "WASIEWICZ,GABBY",
	"LEWIS,JADE", "URIBE,TALIA", "GORSKI,JENNY", "BARRON,SHEA", "LEBEL,KELLY", "ASFAW,SOLIYANA",
	"JOHNSTON,RAHMIA", "GRAHAM,PIPER", "ANDRADE,SOPHIA", "MILDNER,STEPHANIE",
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		TeamKey: "elms",
		Roster:  append([]string(nil), DefaultRoster...),
		Thresholds: Thresholds{
			Ingest:       70,
			Substitution: 80,
			Search:       80,
			BoxScore:     80,
		},
		DBPath:   filepath.Join(userHome(), ".hoopsmetrics", "metrics.db"),
		LogLevel: "info",
		Workers:  runtime.NumCPU(),
		HTTP:     HTTP{Addr: ":8080"},
	}
}

// Validate reports the first problem found, wrapped with ErrInvalid.
func (c *Config) Validate() error {
	if c.TeamKey == "" {
		return fmt.Errorf("%w: team_key must not be empty", ErrInvalid)
	}
	if len(c.Roster) == 0 {
		return fmt.Errorf("%w: roster must not be empty", ErrInvalid)
	}
	for name, v := range map[string]int{
		"ingest":       c.Thresholds.Ingest,
		"substitution": c.Thresholds.Substitution,
		"search":       c.Thresholds.Search,
		"box_score":    c.Thresholds.BoxScore,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("%w: thresholds.%s = %d, want 0..100", ErrInvalid, name, v)
		}
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalid)
	}
	return nil
}

// Engine returns the settings every pipeline stage receives.
func (c *Config) Engine() model.EngineConfig {
	return model.EngineConfig{
		TeamKey:           c.TeamKey,
		Roster:            append([]string(nil), c.Roster...),
		IngestThreshold:   c.Thresholds.Ingest,
		SubThreshold:      c.Thresholds.Substitution,
		SearchThreshold:   c.Thresholds.Search,
		BoxScoreThreshold: c.Thresholds.BoxScore,
	}
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
