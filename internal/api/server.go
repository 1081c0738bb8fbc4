// Package api is the HTTP surface: prompt generation and day
// aggregation endpoints over the pipeline.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/soundscope/moodline/internal/aggregate"
	"github.com/soundscope/moodline/internal/pipeline"
	"github.com/soundscope/moodline/internal/timeslot"
)

// Runner is the pipeline surface the server drives.
type Runner interface {
	GenerateDayPrompt(ctx context.Context, deviceID, date string) (*pipeline.DayEnvelope, error)
	GenerateBlockPrompt(ctx context.Context, deviceID, date, timeBlock string) (*pipeline.BlockEnvelope, error)
	AggregateDay(ctx context.Context, deviceID, date string) (*pipeline.SummaryEnvelope, error)
	AnalyzeBlock(ctx context.Context, deviceID, date, timeBlock string) (*aggregate.BlockResult, error)
}

type Server struct {
	router *chi.Mux
	runner Runner
	port   int
}

func NewServer(port int, apiToken string, runner Runner) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{router: router, runner: runner, port: port}

	router.Get("/health", s.health)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/prompts/day", s.dayPrompt)
		r.Get("/prompts/block", s.blockPrompt)
		r.Group(func(r chi.Router) {
			r.Use(bearerAuth(apiToken))
			r.Post("/summaries/day", s.daySummary)
			r.Post("/analyses/block", s.blockAnalysis)
		})
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) dayPrompt(w http.ResponseWriter, r *http.Request) {
	env, err := s.runner.GenerateDayPrompt(r.Context(),
		r.URL.Query().Get("device_id"), r.URL.Query().Get("date"))
	s.respond(w, env, err)
}

func (s *Server) blockPrompt(w http.ResponseWriter, r *http.Request) {
	env, err := s.runner.GenerateBlockPrompt(r.Context(),
		r.URL.Query().Get("device_id"), r.URL.Query().Get("date"), r.URL.Query().Get("time_block"))
	s.respond(w, env, err)
}

type dayRequest struct {
	DeviceID  string `json:"device_id"`
	Date      string `json:"date"`
	TimeBlock string `json:"time_block,omitempty"`
}

func (s *Server) daySummary(w http.ResponseWriter, r *http.Request) {
	var req dayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	env, err := s.runner.AggregateDay(r.Context(), req.DeviceID, req.Date)
	s.respond(w, env, err)
}

func (s *Server) blockAnalysis(w http.ResponseWriter, r *http.Request) {
	var req dayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	res, err := s.runner.AnalyzeBlock(r.Context(), req.DeviceID, req.Date, req.TimeBlock)
	s.respond(w, res, err)
}

// respond maps pipeline errors onto the API contract. A sink failure
// still ships the computed payload so the caller can fall back to its
// own persistence.
func (s *Server) respond(w http.ResponseWriter, payload any, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, payload)
	case errors.Is(err, timeslot.ErrInvalidDate),
		errors.Is(err, timeslot.ErrInvalidLabel),
		errors.Is(err, pipeline.ErrInvalidDevice):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, pipeline.ErrSinkFailure):
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":  err.Error(),
			"result": payload,
		})
	case errors.Is(err, pipeline.ErrNoAnalyzer):
		writeError(w, http.StatusNotImplemented, err.Error())
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
