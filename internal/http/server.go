// Package http exposes the JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder-dipesh/equilo/internal/auth"
	"github.com/coder-dipesh/equilo/internal/config"
	"github.com/coder-dipesh/equilo/internal/log"
	"github.com/coder-dipesh/equilo/internal/middleware/metrics"
	"github.com/coder-dipesh/equilo/internal/middleware/ratelimit"
	"github.com/coder-dipesh/equilo/internal/middleware/trace"
	"github.com/coder-dipesh/equilo/internal/services"
	"github.com/coder-dipesh/equilo/internal/storage"
)

type Server struct {
	http.Server

	svc          *services.Service
	authn        *auth.PasswordAuthenticator
	jwt          *auth.JWTManager
	repo         *storage.SQLiteRepository
	limiter      *ratelimit.Limiter
	logger       *log.Logger
	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(cfg *config.Config, logger *log.Logger, repo *storage.SQLiteRepository, svc *services.Service,
	authn *auth.PasswordAuthenticator, jwtManager *auth.JWTManager) *Server {

	s := &Server{
		svc:     svc,
		authn:   authn,
		jwt:     jwtManager,
		repo:    repo,
		logger:  logger.WithComponent(log.ComponentHTTP),
		limiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	mux := s.routes()

	// Metrics must wrap the mux directly: the mux records the matched
	// pattern on the request it receives, and the tracing and logging
	// layers above hand their children a cloned request.
	handler := trace.Middleware(
		s.limiter.Middleware(
			log.Middleware(s.logger)(
				securityHeaders(
					metrics.Middleware(mux)))))

	s.Server = http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/token", s.handleToken)
	mux.HandleFunc("GET /api/auth/me", s.requireAuth(s.handleMe))

	mux.HandleFunc("GET /api/places", s.requireAuth(s.handleListPlaces))
	mux.HandleFunc("POST /api/places", s.requireAuth(s.handleCreatePlace))
	mux.HandleFunc("GET /api/places/{placeID}", s.requireAuth(s.handleGetPlace))
	mux.HandleFunc("PUT /api/places/{placeID}", s.requireAuth(s.handleRenamePlace))
	mux.HandleFunc("DELETE /api/places/{placeID}", s.requireAuth(s.handleDeletePlace))

	mux.HandleFunc("GET /api/places/{placeID}/members", s.requireAuth(s.handleListMembers))
	mux.HandleFunc("DELETE /api/places/{placeID}/members/{userID}", s.requireAuth(s.handleRemoveMember))

	mux.HandleFunc("GET /api/places/{placeID}/categories", s.requireAuth(s.handleListCategories))
	mux.HandleFunc("POST /api/places/{placeID}/categories", s.requireAuth(s.handleCreateCategory))
	mux.HandleFunc("GET /api/places/{placeID}/categories/{categoryID}", s.requireAuth(s.handleGetCategory))
	mux.HandleFunc("PUT /api/places/{placeID}/categories/{categoryID}", s.requireAuth(s.handleRenameCategory))
	mux.HandleFunc("DELETE /api/places/{placeID}/categories/{categoryID}", s.requireAuth(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/places/{placeID}/expenses", s.requireAuth(s.handleListExpenses))
	mux.HandleFunc("POST /api/places/{placeID}/expenses", s.requireAuth(s.handleCreateExpense))
	mux.HandleFunc("GET /api/places/{placeID}/expenses/{expenseID}", s.requireAuth(s.handleGetExpense))
	mux.HandleFunc("PUT /api/places/{placeID}/expenses/{expenseID}", s.requireAuth(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/places/{placeID}/expenses/{expenseID}", s.requireAuth(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/places/{placeID}/invites", s.requireAuth(s.handleListInvites))
	mux.HandleFunc("POST /api/places/{placeID}/invites", s.requireAuth(s.handleCreateInvite))
	mux.HandleFunc("DELETE /api/places/{placeID}/invites/{inviteID}", s.requireAuth(s.handleRevokeInvite))
	mux.HandleFunc("GET /api/invite/{token}", s.handleGetInvite)
	mux.HandleFunc("POST /api/join/{token}", s.requireAuth(s.handleJoin))

	mux.HandleFunc("GET /api/places/{placeID}/summary", s.requireAuth(s.handleSummary))

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Ping(); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Shutdown stops background goroutines and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
