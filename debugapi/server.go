// Package debugapi serves an internal HTTP port for operators. It exposes
// health, the cached leaderboard and render targets, and hooks that drive
// accounts through activity, claims and games without a chat client.
package debugapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"clover/domain/interfaces"
	"clover/domain/services"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

// HealthCheck reports an error when a backing system is unavailable
type HealthCheck func(ctx context.Context) error

// Dependencies are the services the debug API reads and drives
type Dependencies struct {
	Health      map[string]HealthCheck
	Ledger      interfaces.LedgerService
	Leaderboard interfaces.LeaderboardService
	Voice       *services.VoiceTracker
	Gambling    interfaces.GamblingService
	Blackjack   interfaces.BlackjackService
	Claims      interfaces.ClaimService
}

// Server wraps the debug router in an http.Server
type Server struct {
	httpServer *http.Server
}

func NewServer(addr string, deps Dependencies) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(deps),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start listens in the background. Listener errors other than a clean
// shutdown are logged.
func (s *Server) Start() {
	go func() {
		log.WithField("addr", s.httpServer.Addr).Info("Debug API listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Debug API stopped")
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// NewRouter builds the debug routes
func NewRouter(deps Dependencies) *chi.Mux {
	h := &handlers{deps: deps}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger)

	r.Get("/health", h.health)

	r.Route("/leaderboard", func(r chi.Router) {
		r.Get("/", h.leaderboard)
		r.Post("/refresh", h.refreshLeaderboard)
		r.Get("/targets", h.renderTargets)
		r.Put("/targets", h.setRenderTargets)
		r.Delete("/targets", h.resetRenderTargets)
	})

	r.Route("/accounts/{account_id}", func(r chi.Router) {
		r.Get("/", h.account)
		r.Post("/", h.memberJoined)
		r.Delete("/", h.memberLeft)
		r.Get("/history", h.history)
		r.Post("/messages", h.recordMessage)
		r.Post("/voice/join", h.voiceJoin)
		r.Post("/voice/leave", h.voiceLeave)
		r.Post("/collect", h.collect)
		r.Post("/spin", h.spin)
		r.Post("/blackjack", h.startBlackjack)
		r.Post("/blackjack/{action}", h.blackjackAction)
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		log.WithFields(log.Fields{
			"request_id":  chimw.GetReqID(r.Context()),
			"method":      r.Method,
			"route":       route,
			"status":      ww.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Debug("Debug API request")
	})
}
