// Package server exposes the stored items over a small JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/obaranov/birdfeed/pkg/domain"
	"github.com/obaranov/birdfeed/pkg/store"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/storage.go -pkg mocks -skip-ensure -fmt goimports . Storage
//go:generate moq -out mocks/refresher.go -pkg mocks -skip-ensure -fmt goimports . Refresher

// Server represents HTTP server instance
type Server struct {
	config    ConfigProvider
	store     Storage
	refresher Refresher
	version   string
	debug     bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Storage interface for server operations
type Storage interface {
	Items(ctx context.Context, table store.Table, limit, offset int) ([]domain.Item, error)
	ItemsByFeed(ctx context.Context, table store.Table, feedURL string, limit, offset int) ([]domain.Item, error)
	TableStats(ctx context.Context, table store.Table) (*store.Stats, error)
	LastPublished(ctx context.Context, table store.Table, feedURL string) (time.Time, error)
}

// Refresher interface for on-demand feed refresh
type Refresher interface {
	RefreshFeed(feedURL string) bool
	RefreshTable(table store.Table) bool
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
}

// New initializes a new server instance
func New(cfg ConfigProvider, storage Storage, refresher Refresher, version string, debug bool) *Server {
	s := &Server{
		config:    cfg,
		store:     storage,
		refresher: refresher,
		version:   version,
		debug:     debug,
		router:    routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:         listen,
		Handler:      s.router,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("birdfeed", "obaranov", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /tweets", s.tweetsHandler)
		r.HandleFunc("GET /rss", s.rssHandler)
		r.HandleFunc("GET /mix", s.mixHandler)
		r.HandleFunc("GET /content", s.contentHandler)
		r.HandleFunc("GET /stats", s.statsHandler)
		r.HandleFunc("POST /refresh/all", s.refreshAllHandler)
	})
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
