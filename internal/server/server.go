package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sliceapp/authserver/config"
	"github.com/sliceapp/authserver/internal/auth"
	"github.com/sliceapp/authserver/internal/db"
	"github.com/sliceapp/authserver/internal/events"
	"github.com/sliceapp/authserver/internal/handlers"
	"github.com/sliceapp/authserver/internal/mq"
	"github.com/sliceapp/authserver/internal/services"
	"github.com/sliceapp/authserver/internal/store"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	bus        *mq.MQ
}

// New constructs a Server with basic middleware and defaults. A missing
// signing secret or connection string fails construction; the process never
// serves degraded traffic.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("service", "auth")

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	bus, err := openBus(ctx, cfg, log)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	publisher := events.NewPublisher(bus, log)
	accounts := services.NewAccountService(userRepo, tokens, publisher, log)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	handlers.AuthRouter(router, accounts, tokens)

	port := cfg.ServerPort
	if port == 0 {
		port = 3001
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		bus:        bus,
	}, nil
}

// openBus picks the notification bus backend from config. With no broker
// configured the publisher degrades to logged drops.
func openBus(ctx context.Context, cfg config.Config, log *slog.Logger) (*mq.MQ, error) {
	switch {
	case cfg.RabbitMQ.URL != "":
		backend, err := mq.NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return mq.New(backend), nil
	case cfg.PubSub.ProjectID != "":
		backend, err := mq.NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return mq.New(backend), nil
	default:
		log.Warn("no notification bus configured, lifecycle events will be dropped")
		return nil, nil
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.bus != nil {
		_ = s.bus.Close()
	}
	return s.httpServer.Close()
}
