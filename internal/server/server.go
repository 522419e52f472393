// Package server exposes the engine over HTTP and websockets and records
// every game it plays.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hailam/fiveplay/internal/board"
	"github.com/hailam/fiveplay/internal/config"
	"github.com/hailam/fiveplay/internal/engine"
	"github.com/hailam/fiveplay/internal/storage"
)

// Server holds the engine, the game store and the worker limiter.
type Server struct {
	cfg     *config.Config
	store   *storage.Storage
	eng     *engine.Engine
	limiter *Limiter
}

// New creates a server using store for game records.
func New(cfg *config.Config, store *storage.Storage) *Server {
	return &Server{
		cfg:     cfg,
		store:   store,
		eng:     engine.NewEngineWithOptions(cfg.EngineOptions()),
		limiter: NewLimiter(cfg.Workers, time.Duration(cfg.DecisionTimeout)),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Route("/api/game", func(r chi.Router) {
		r.Post("/ai/games", s.handleCreateGame)
		r.Post("/ai/pieces", s.handlePieces)
		r.Get("/history", s.handleListGames)
		r.Get("/history/{id}", s.handleGetGame)
	})
	r.Get("/api/stats", s.handleStats)

	r.Get("/ws/ai", s.serveAI)

	return r
}

// decide runs one engine decision on a limited worker slot.
func (s *Server) decide(r *http.Request, b *board.Board, last board.Move, depth int) (engine.Decision, error) {
	var (
		decision engine.Decision
		err      error
	)
	if lerr := s.limiter.Do(r.Context(), func() {
		decision, err = s.eng.Decide(b, last, depth)
	}); lerr != nil {
		return engine.Decision{}, lerr
	}
	if err == nil && !decision.Move.IsNone() {
		log.Printf("[engine] %s at depth %d, searched %d nodes, pruned %d branches in %v",
			decision.Move, decision.Depth, decision.Stats.Nodes, decision.Stats.Cutoffs, decision.Elapsed)
	}
	return decision, err
}

// errorStatus maps domain errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, board.ErrInvalidBoard),
		errors.Is(err, board.ErrInvalidCoordinate),
		errors.Is(err, board.ErrCellNotOccupied),
		errors.Is(err, engine.ErrInvalidDepth):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrGameFinished):
		return http.StatusConflict
	case errors.Is(err, ErrBusy):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[server] internal error: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}
