package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pable/go-hoops-metrics/internal/aggregator"
	"github.com/pable/go-hoops-metrics/internal/model"
	"github.com/pable/go-hoops-metrics/internal/parser"
	"github.com/pable/go-hoops-metrics/internal/report"
	"github.com/pable/go-hoops-metrics/internal/storage"
)

var (
	parseWorkers int
	parseQuiet   bool
	parseForce   bool
	parseFocus   string
)

var parseCmd = &cobra.Command{
	Use:   "parse <game.xml>...",
	Short: "Parse play-by-play game logs and store metrics",
	Long: `Parse one or more play-by-play XML logs, compute every per-game table and
store them. Games already stored (same file hash) are shown from cache unless
--force is given. All games of one invocation share a run id.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().IntVar(&parseWorkers, "workers", 0, "games processed concurrently (default from config)")
	parseCmd.Flags().BoolVarP(&parseQuiet, "quiet", "q", false, "store only, do not print tables")
	parseCmd.Flags().BoolVar(&parseForce, "force", false, "re-process games already stored")
	parseCmd.Flags().StringVar(&parseFocus, "player", "", "highlight a player in the tables")
}

func runParse(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	workers := cfg.Workers
	if parseWorkers > 0 {
		workers = parseWorkers
	}
	engine := cfg.Engine()
	runID := uuid.NewString()
	log.WithFields(logrus.Fields{"run_id": runID, "games": len(args), "workers": workers}).Info("parse started")

	reports := make([]*model.GameReport, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(workers)
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := processGame(db, path, engine, runID)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.WithField("run_id", runID).Info("parse finished")

	if parseQuiet {
		return nil
	}
	for _, r := range reports {
		report.PrintGameReport(os.Stdout, r, parseFocus)
	}
	return nil
}

// processGame parses, aggregates and stores one file. A game already in the
// database is loaded back instead of recomputed.
func processGame(db *storage.DB, path string, engine model.EngineConfig, runID string) (*model.GameReport, error) {
	game, err := parser.ParseGame(path, engine.TeamKey)
	if err != nil {
		return nil, fmt.Errorf("parse game: %w", err)
	}
	entry := log.WithField("game", game.Name)

	if !parseForce {
		exists, err := db.GameExists(game.Hash)
		if err != nil {
			return nil, fmt.Errorf("check game: %w", err)
		}
		if exists {
			entry.WithField("hash", game.Hash[:12]).Info("already stored, using cached results")
			return db.GetGameReport(game.Hash)
		}
	}

	r, err := aggregator.Aggregate(game, engine)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	r.Summary.RunID = runID
	for _, w := range r.Warnings {
		entry.Warn(w)
	}

	if err := db.InsertGame(r); err != nil {
		return nil, fmt.Errorf("insert game: %w", err)
	}
	entry.WithFields(logrus.Fields{
		"events":  r.Summary.Events,
		"stints":  len(r.Stints),
		"lineups": len(r.Lineups),
	}).Info("stored")
	return r, nil
}

// openDB opens the configured database, creating its directory if needed.
func openDB() (*storage.DB, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}
