// Package server exposes the companion HTTP API consumed by the browser
// extension popup: profile and mapping management, page classification,
// fill planning, suggestions, remembered field values, application
// tracking and draft generation.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/manav-1/jobfill"
	"github.com/manav-1/jobfill/internal/ai"
	"github.com/manav-1/jobfill/internal/storage"
	"github.com/manav-1/jobfill/internal/watch"
)

// Deps carries the server's collaborators. Provider may be nil; draft
// endpoints then report that no provider is configured.
type Deps struct {
	Store    *storage.Store
	Provider ai.Provider
	Log      *zap.Logger
	// Token enables bearer authentication when non-empty.
	Token string
}

// Server is the companion API server.
type Server struct {
	deps Deps
	log  *zap.Logger

	mu     sync.RWMutex
	engine *jobfill.Engine

	serial watch.Serial

	saveMu sync.Mutex
	savers map[string]*watch.Debouncer
	// saveDelay is shortened by tests.
	saveDelay time.Duration
}

// New builds a Server. The classification mapping comes from the store,
// falling back to the built-in taxonomy.
func New(deps Deps) (*Server, error) {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}

	mapping, err := deps.Store.LoadMapping()
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("loading mapping: %w", err)
	}

	return &Server{
		deps:      deps,
		log:       deps.Log,
		engine:    jobfill.New(mapping),
		savers:    make(map[string]*watch.Debouncer),
		saveDelay: watch.SaveDelay,
	}, nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	if s.deps.Token != "" {
		r.Use(bearerAuth(s.deps.Token))
	}

	r.Get("/health", s.handleHealth)

	r.Get("/profile", s.handleGetProfile)
	r.Put("/profile", s.handlePutProfile)

	r.Get("/mapping", s.handleGetMapping)
	r.Put("/mapping", s.handlePutMapping)

	r.Post("/classify", s.handleClassify)
	r.Post("/fill-plan", s.handleFillPlan)
	r.Post("/fill", s.handleFill)
	r.Post("/fill-result", s.handleFillResult)
	r.Post("/suggestions", s.handleSuggestions)

	r.Post("/field-values", s.handleSaveFieldValue)
	r.Get("/field-values", s.handleListFieldValues)

	r.Get("/applications", s.handleListApplications)
	r.Post("/applications", s.handleCreateApplication)
	r.Get("/applications/stats", s.handleApplicationStats)
	r.Get("/applications/{id}", s.handleGetApplication)
	r.Patch("/applications/{id}/status", s.handleUpdateStatus)
	r.Delete("/applications/{id}", s.handleDeleteApplication)

	r.Post("/applications/{id}/cover-letter", s.handleCoverLetter)
	r.Post("/applications/{id}/questions", s.handleQuestions)

	return r
}

// Run serves the API on addr until the context is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("companion api listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) currentEngine() *jobfill.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) || subtle.ConstantTimeCompare([]byte(auth[len(prefix):]), []byte(token)) != 1 {
				httpError(w, http.StatusUnauthorized, "invalid or missing bearer token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, format string, args ...interface{}) {
	writeJSON(w, code, map[string]string{"error": fmt.Sprintf(format, args...)})
}
