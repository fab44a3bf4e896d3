// package server contains middleware & handlers for the public profile API
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/desertthunder/tonelink/internal/repositories"
	"github.com/desertthunder/tonelink/internal/services"
	"github.com/desertthunder/tonelink/internal/shared"
	"github.com/desertthunder/tonelink/internal/webguard"
)

// Server wires repositories and external services into the HTTP API.
type Server struct {
	config        *shared.Config
	logger        *log.Logger
	profiles      *repositories.ProfileRepository
	links         *repositories.LinkRepository
	subscriptions *repositories.SubscriptionRepository
	spotify       services.Service
	billing       *services.BillingService
}

// NewServer creates a Server backed by the given database handle.
//
// spotify and billing may be nil; the corresponding routes then answer 503.
func NewServer(cfg *shared.Config, db *sql.DB, logger *log.Logger, spotify services.Service, billing *services.BillingService) *Server {
	return &Server{
		config:        cfg,
		logger:        logger,
		profiles:      repositories.NewProfileRepository(db),
		links:         repositories.NewLinkRepository(db),
		subscriptions: repositories.NewSubscriptionRepository(db),
		spotify:       spotify,
		billing:       billing,
	}
}

// Routes builds the full route tree with middleware applied.
func (s *Server) Routes() *chi.Mux {
	r := chi.NewMux()
	r.Use(
		s.requestLogger,
		chimiddleware.Recoverer,
		webguard.Middleware(s.logger),
	)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/profiles/{username}", s.handlePublicProfile)
		r.Get("/link/{id}", s.handleLinkRedirect)
		r.Get("/sign/{id}", s.handleSignLink)
		r.Get("/spotify/search", s.handleSpotifySearch)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Post("/profiles", s.handleCreateProfile)
			r.Patch("/profiles/{id}", s.handleUpdateProfile)
			r.Get("/profiles/{id}/links", s.handleListLinks)
			r.Post("/profiles/{id}/links", s.handleCreateLink)
			r.Put("/profiles/{id}/links/order", s.handleReorderLinks)
			r.Patch("/links/{id}", s.handleUpdateLink)
			r.Delete("/links/{id}", s.handleDeleteLink)
			r.Post("/profiles/{id}/spotify/connect", s.handleSpotifyConnect)
			r.Get("/profiles/{id}/billing", s.handleBillingStatus)
		})
	})

	return r
}

// Serve starts the API server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.Info("starting API server", "addr", addr)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down API server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// requestLogger logs method, path, and duration for every request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
