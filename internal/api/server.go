// Package api serves running games over HTTP and WebSocket.
package api

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/vovakirdan/fusion2048/internal/engine"
	"github.com/vovakirdan/fusion2048/internal/session"
	"github.com/vovakirdan/fusion2048/internal/storage"
)

// Server is the REST API over a session manager.
type Server struct {
	sessions *session.Manager
	defaults engine.Config
	logger   *log.Logger
	router   *mux.Router
}

// NewServer creates the API. defaults fills fields a create request leaves
// out.
func NewServer(sessions *session.Manager, defaults engine.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		sessions: sessions,
		defaults: defaults,
		logger:   logger,
		router:   mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.logRequests)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/games", s.handleCreate).Methods(http.MethodPost)
	api.HandleFunc("/games", s.handleList).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", s.handleGet).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", s.handleDelete).Methods(http.MethodDelete)
	api.HandleFunc("/games/{id}/move", s.handleMove).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/reset", s.handleReset).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/moves", s.handlePossibleMoves).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/ws", s.handleWebSocket)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http", "method", r.Method, "path", r.URL.Path, "status", rec.status, "took", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack lets the WebSocket upgrader take over the connection.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("api: connection cannot be hijacked")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, storage.ErrSaveNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrInvalidDirection), errors.Is(err, engine.ErrInvalidConfiguration):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	respondError(w, status, err.Error())
}

// gameResponse is the body returned for a single game.
type gameResponse struct {
	ID     string            `json:"id"`
	GameID string            `json:"game_id"`
	State  *engine.GameState `json:"state"`
}

func newGameResponse(id string, state *engine.GameState) gameResponse {
	return gameResponse{ID: id, GameID: session.GameID(state.Mode), State: state}
}

type createRequest struct {
	Mode        string   `json:"mode,omitempty"`
	GridSize    int      `json:"grid_size,omitempty"`
	GoalValue   int      `json:"goal_value,omitempty"`
	Spawn4Prob  *float64 `json:"spawn4_prob,omitempty"`
	TimeLimitMs int64    `json:"time_limit_ms,omitempty"`
}

// config overlays the request on the server defaults.
func (req createRequest) config(defaults engine.Config) (engine.Config, error) {
	cfg := defaults
	if req.Mode != "" {
		mode, err := engine.ParseMode(req.Mode)
		if err != nil {
			return cfg, err
		}
		cfg.Mode = mode
	}
	if req.GridSize != 0 {
		cfg.GridSize = req.GridSize
	}
	if req.GoalValue != 0 {
		cfg.GoalValue = req.GoalValue
	}
	if req.Spawn4Prob != nil {
		cfg.Spawn4Prob = *req.Spawn4Prob
	}
	if req.TimeLimitMs != 0 {
		cfg.TimeLimit = time.Duration(req.TimeLimitMs) * time.Millisecond
	}
	return cfg, nil
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	cfg, err := req.config(s.defaults)
	if err != nil {
		s.fail(w, err)
		return
	}

	sess, err := s.sessions.Create(r.Context(), cfg)
	if err != nil {
		s.fail(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, newGameResponse(sess.ID, sess.State()))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	games := s.sessions.List()
	respondJSON(w, http.StatusOK, map[string]any{
		"count": len(games),
		"games": games,
	})
}

// handleGet reloads a saved game when it is not running yet.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	sess, err := s.sessions.Resume(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newGameResponse(sess.ID, sess.State()))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type moveRequest struct {
	Direction string `json:"direction"`
}

type moveResponse struct {
	gameResponse
	Moved bool `json:"moved"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dir, err := engine.ParseDirection(req.Direction)
	if err != nil {
		s.fail(w, err)
		return
	}

	sess, err := s.sessions.Resume(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	before := sess.State()

	state, err := s.sessions.Move(r.Context(), id, dir)
	if err != nil {
		s.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, moveResponse{
		gameResponse: newGameResponse(id, state),
		Moved:        state.MoveCount != before.MoveCount,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if _, err := s.sessions.Resume(r.Context(), id); err != nil {
		s.fail(w, err)
		return
	}
	state, err := s.sessions.Reset(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newGameResponse(id, state))
}

func (s *Server) handlePossibleMoves(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	sess, err := s.sessions.Resume(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	state := sess.State()
	moves := engine.PossibleMoves(state)
	if moves == nil {
		moves = []engine.Direction{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"moves":     moves,
		"game_over": engine.IsGameOver(state),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Count(),
	})
}
