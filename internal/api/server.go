// Package api exposes the casino over HTTP: game listing, bet intake,
// round moves, balances, and the round journal.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/LachieKelly/casino/internal/bet"
	"github.com/LachieKelly/casino/internal/session"
	"github.com/LachieKelly/casino/internal/store"
)

// Server handles HTTP requests
type Server struct {
	registry  *session.Registry
	db        store.DB
	metrics   *Metrics
	log       *zap.Logger
	startTime time.Time
}

// NewServer creates a new API server. db may be nil to disable the
// journal endpoints.
func NewServer(registry *session.Registry, db store.DB, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		registry:  registry,
		db:        db,
		metrics:   NewMetrics(),
		log:       log,
		startTime: time.Now(),
	}
}

// Routes sets up the HTTP routes with proper middleware
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/games", s.handleListGames)
		r.Post("/select", s.handleSelect)
		r.Post("/play", s.handlePlay)
		r.Post("/move", s.handleMove)
		r.Get("/balance", s.handleBalance)
		r.Get("/rounds", s.handleListRounds)
		r.Get("/summary", s.handleSummary)
	})

	return r
}

// loggingMiddleware emits one structured line per request.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// writeJSON writes a JSON response with proper headers
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeError maps a domain error onto the structured envelope. Bet
// rejections carry their stable reason code in the context.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, errType := classify(err)
	var errCtx map[string]interface{}
	if reason := bet.Reason(err); reason != "" {
		errCtx = map[string]interface{}{"reason": reason}
	}
	if status >= 500 {
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	s.writeJSON(w, status, newAPIError(r, errType, err.Error(), errCtx))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"uptime":   time.Since(s.startTime).String(),
		"sessions": s.registry.Len(),
	})
}
