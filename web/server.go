// Package web exposes the most recently parsed menu over HTTP.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/mensawerk/mensamail/menu"
)

// Store holds the latest build result for the read-only surfaces. Safe for
// concurrent use.
type Store struct {
	mu        sync.RWMutex
	week      menu.DishesByDay
	fetchedAt time.Time
}

// Set replaces the stored week.
func (s *Store) Set(week menu.DishesByDay, fetchedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.week = week
	s.fetchedAt = fetchedAt
}

// Snapshot returns the stored week and its fetch time. The week is nil until
// the first successful build.
func (s *Store) Snapshot() (menu.DishesByDay, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.week, s.fetchedAt
}

// NewRouter builds the HTTP surface. When passwordHash (bcrypt) is non-empty,
// /menu.json requires Basic Auth with any username and the matching password.
func NewRouter(store *Store, passwordHash string, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		if passwordHash != "" {
			r.Use(basicAuth(passwordHash, logger))
		}
		r.Get("/menu.json", func(w http.ResponseWriter, _ *http.Request) {
			week, fetchedAt := store.Snapshot()
			if week == nil {
				http.Error(w, "no menu parsed yet", http.StatusServiceUnavailable)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"fetched_at": fetchedAt,
				"dishes":     week,
			})
		})
	})

	return r
}

// basicAuth verifies the Basic Auth password against a bcrypt hash. The
// username is ignored; this is a single-operator surface.
func basicAuth(passwordHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, pass, ok := r.BasicAuth()
			if !ok || bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(pass)) != nil {
				logger.Warn("unauthorized menu request", "remote", r.RemoteAddr)
				w.Header().Set("WWW-Authenticate", `Basic realm="mensamail"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
