// Package api exposes the pricing table over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/julianshen/ratiocalc/internal/pricing"
	"github.com/julianshen/ratiocalc/internal/store"
)

// Server serves one pricing table. Requests are handled one at a time.
type Server struct {
	mu    sync.Mutex
	table *pricing.Table
	kv    store.KV
	log   zerolog.Logger

	limiter *rateLimiter
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimit limits each client to rps requests per second with the
// given burst. A non-positive rps leaves requests unlimited.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps > 0 {
			s.limiter = newRateLimiter(rps, burst)
		}
	}
}

// NewServer returns a Server for an already loaded table backed by kv.
func NewServer(table *pricing.Table, kv store.KV, log zerolog.Logger, opts ...Option) *Server {
	s := &Server{table: table, kv: kv, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(chimiddleware.Recoverer)
	if s.limiter != nil {
		r.Use(s.limiter.middleware)
	}

	r.Get("/healthz", s.healthz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/rows", func(r chi.Router) {
			r.Get("/", s.listRows)
			r.Post("/", s.addRow)
			r.Patch("/{index}", s.editField)
			r.Delete("/{index}", s.deleteRow)
			r.Post("/{index}/toggle", s.toggleEdit)
			r.Post("/{index}/cancel", s.cancelEdit)
		})
		r.Post("/unit/toggle", s.toggleUnit)
		r.Post("/reset", s.reset)
	})

	return r
}

type tableResponse struct {
	Unit string        `json:"unit"`
	Rows []pricing.Row `json:"rows"`
}

type addResponse struct {
	Index int `json:"index"`
	tableResponse
}

type editRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.kv.(store.Pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listRows(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.snapshot())
}

func (s *Server) addRow(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.table.AddRow()
	writeJSON(w, http.StatusCreated, addResponse{Index: idx, tableResponse: s.snapshot()})
}

func (s *Server) editField(w http.ResponseWriter, r *http.Request) {
	idx, ok := indexParam(w, r)
	if !ok {
		return
	}
	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	field, err := pricing.ParseField(req.Field)
	if err != nil {
		s.fail(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.table.EditField(idx, field, req.Value); err != nil {
		s.fail(w, err)
		return
	}
	s.writeRow(w, idx)
}

func (s *Server) toggleEdit(w http.ResponseWriter, r *http.Request) {
	idx, ok := indexParam(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.table.ToggleEdit(r.Context(), idx); err != nil {
		s.fail(w, err)
		return
	}
	s.writeRow(w, idx)
}

func (s *Server) cancelEdit(w http.ResponseWriter, r *http.Request) {
	idx, ok := indexParam(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.table.CancelEdit(idx); err != nil {
		s.fail(w, err)
		return
	}
	// Cancelling an unsaved row removes it, so answer with the whole table.
	writeJSON(w, http.StatusOK, s.snapshot())
}

func (s *Server) deleteRow(w http.ResponseWriter, r *http.Request) {
	idx, ok := indexParam(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted, err := s.table.DeleteRow(r.Context(), idx, confirmParam(r))
	if err != nil {
		s.fail(w, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusConflict, "confirmation required: add ?confirm=true")
		return
	}
	writeJSON(w, http.StatusOK, s.snapshot())
}

func (s *Server) toggleUnit(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.table.ToggleUnit(r.Context()); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.snapshot())
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	done, err := s.table.ResetData(r.Context(), confirmParam(r))
	if err != nil {
		s.fail(w, err)
		return
	}
	if !done {
		writeError(w, http.StatusConflict, "confirmation required: add ?confirm=true")
		return
	}
	writeJSON(w, http.StatusOK, s.snapshot())
}

// snapshot must be called with mu held.
func (s *Server) snapshot() tableResponse {
	return tableResponse{Unit: s.table.Unit().String(), Rows: s.table.Rows()}
}

func (s *Server) writeRow(w http.ResponseWriter, idx int) {
	row, err := s.table.Row(idx)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pricing.ErrIndexOutOfRange):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, pricing.ErrUnknownField):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid row index")
		return 0, false
	}
	return idx, true
}

func confirmParam(r *http.Request) pricing.Confirmer {
	if ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm")); ok {
		return pricing.Always
	}
	return pricing.Never
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
