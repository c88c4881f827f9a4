// Package api serves stored games and season rollups as read-only JSON.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/pable/go-hoops-metrics/internal/model"
	"github.com/pable/go-hoops-metrics/internal/roster"
	"github.com/pable/go-hoops-metrics/internal/season"
	"github.com/pable/go-hoops-metrics/internal/storage"
)

// Store is the read side of storage.DB used by the handlers.
type Store interface {
	ListGames() ([]model.GameSummary, error)
	GetGameByPrefix(ref string) (*model.GameSummary, error)
	GetGameReport(hash string) (*model.GameReport, error)
	AllReports() ([]*model.GameReport, error)
}

type Server struct {
	store   Store
	cfg     model.EngineConfig
	log     *logrus.Logger
	metrics *Metrics
}

func NewServer(store Store, cfg model.EngineConfig, log *logrus.Logger) *Server {
	return &Server{store: store, cfg: cfg, log: log, metrics: NewMetrics()}
}

// Router builds the chi routing tree with the middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.log, s.metrics))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/games", s.handleListGames)
		r.Get("/games/{ref}", s.handleGetGame)
		r.Get("/season", s.handleSeason)
		r.Get("/search/lineups", s.handleSearchLineups)
		r.Get("/search/pairs", s.handleSearchPairs)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.store.ListGames()
	if err != nil {
		s.serverError(w, "failed to list games", err)
		return
	}
	out := make([]gameView, 0, len(games))
	for _, g := range games {
		out = append(out, toGameView(g))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	summary, err := s.store.GetGameByPrefix(ref)
	if err != nil {
		s.serverError(w, "failed to look up game", err)
		return
	}
	if summary == nil {
		respondError(w, http.StatusNotFound, "no game matching "+strconv.Quote(ref), nil)
		return
	}
	report, err := s.store.GetGameReport(summary.Hash)
	if errors.Is(err, storage.ErrGameNotFound) {
		respondError(w, http.StatusNotFound, "game not found", err)
		return
	}
	if err != nil {
		s.serverError(w, "failed to load game", err)
		return
	}
	respondJSON(w, http.StatusOK, toReportView(report))
}

func (s *Server) handleSeason(w http.ResponseWriter, r *http.Request) {
	sn, ok := s.season(w)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, toSeasonView(sn))
}

// handleSearchLineups takes players as a comma- or semicolon-separated list
// and optional min/max plus-minus bounds.
func (s *Server) handleSearchLineups(w http.ResponseWriter, r *http.Request) {
	q := season.LineupQuery{Players: season.SplitNames(r.URL.Query().Get("players"))}
	var err error
	if q.MinPlusMinus, err = intParam(r, "min"); err != nil {
		respondError(w, http.StatusBadRequest, "invalid min", err)
		return
	}
	if q.MaxPlusMinus, err = intParam(r, "max"); err != nil {
		respondError(w, http.StatusBadRequest, "invalid max", err)
		return
	}

	sn, ok := s.season(w)
	if !ok {
		return
	}
	found, err := season.SearchLineups(sn.Lineups, q, s.cfg.SearchThreshold)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid players", err)
		return
	}
	respondJSON(w, http.StatusOK, toSeasonLineupViews(found))
}

func (s *Server) handleSearchPairs(w http.ResponseWriter, r *http.Request) {
	p1, p2 := r.URL.Query().Get("p1"), r.URL.Query().Get("p2")
	if p1 == "" || p2 == "" {
		respondError(w, http.StatusBadRequest, "p1 and p2 are required", nil)
		return
	}
	sn, ok := s.season(w)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, toPairViews(season.SearchPairs(sn.Pairs, p1, p2, s.cfg.SearchThreshold)))
}

// season rebuilds the rollup from every stored report.
func (s *Server) season(w http.ResponseWriter) (*model.Season, bool) {
	reports, err := s.store.AllReports()
	if err != nil {
		s.serverError(w, "failed to load reports", err)
		return nil, false
	}
	resolver := roster.New(s.cfg.Roster, roster.TokenSortRatio)
	return season.Build(reports, resolver, s.cfg.BoxScoreThreshold), true
}

func (s *Server) serverError(w http.ResponseWriter, message string, err error) {
	s.log.WithError(err).Error(message)
	respondError(w, http.StatusInternalServerError, message, err)
}

func intParam(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	resp := errorResponse{Error: http.StatusText(status), Message: message, Code: status}
	if err != nil {
		resp.Message = message + ": " + err.Error()
	}
	respondJSON(w, status, resp)
}
