// Package scaffold is a microservice template: a mock data route and a bare
// health check. It carries no product logic and exists as a starting point
// for new services.
package scaffold

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sliceapp/authserver/config"
	"github.com/sliceapp/authserver/internal/handlers"
)

// ExampleItem is placeholder data served by the mock route.
type ExampleItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Server wraps the scaffold HTTP server.
type Server struct {
	httpServer *http.Server
}

// New constructs the scaffold service.
func New(cfg config.Config) *Server {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Logger,
	)
	router.Get("/healthz", handlers.Healthz)
	router.Get("/example", Example)

	port := cfg.ScaffoldPort
	if port == 0 {
		port = 3000
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Example returns a fixed list of mock items.
func Example(w http.ResponseWriter, r *http.Request) {
	items := []ExampleItem{
		{ID: "1", Name: "Example Item 1", Value: 100},
		{ID: "2", Name: "Example Item 2", Value: 200},
		{ID: "3", Name: "Example Item 3", Value: 300},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(items)
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown closes the HTTP server.
func (s *Server) Shutdown() error {
	return s.httpServer.Close()
}
