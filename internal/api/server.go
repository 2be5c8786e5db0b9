package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/nerrad567/gridstore-core/internal/auth"
	"github.com/nerrad567/gridstore-core/internal/infrastructure/config"
	"github.com/nerrad567/gridstore-core/internal/infrastructure/logging"
	"github.com/nerrad567/gridstore-core/internal/journal"
	"github.com/nerrad567/gridstore-core/internal/registry"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// HealthChecker is implemented by every infrastructure client the health
// route reports on.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HistoryReader reads the update journal.
type HistoryReader interface {
	History(ctx context.Context, componentID string, limit int) ([]journal.Entry, error)
}

// HTTPMetrics records request metrics and serves the exposition endpoint.
type HTTPMetrics interface {
	ObserveHTTP(route, method string, code int, elapsed time.Duration)
	Handler() http.Handler
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	WS       config.WebSocketConfig
	Security config.SecurityConfig
	Logger   *logging.Logger
	Engine   *registry.Engine
	History  HistoryReader            // optional: /history answers 404 without it
	Metrics  HTTPMetrics              // optional: /metrics answers 404 without it
	Checks   map[string]HealthChecker // optional: reported by /api/health
	Version  string
}

// Server is the HTTP API server.
//
// It owns the listener, routes and middleware. Streams are served from the
// engine's fan-out hub. The server is created with New() and started with Start().
type Server struct {
	cfg      config.APIConfig
	wsCfg    config.WebSocketConfig
	secCfg   config.SecurityConfig
	logger   *logging.Logger
	engine   *registry.Engine
	history  HistoryReader
	metrics  HTTPMetrics
	checks   map[string]HealthChecker
	verifier *auth.Verifier
	version  string
	started  time.Time

	routerOnce sync.Once
	router     http.Handler
	server     *http.Server
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Engine == nil {
		return nil, fmt.Errorf("engine is required")
	}

	s := &Server{
		cfg:     deps.Config,
		wsCfg:   deps.WS,
		secCfg:  deps.Security,
		logger:  deps.Logger,
		engine:  deps.Engine,
		history: deps.History,
		metrics: deps.Metrics,
		checks:  deps.Checks,
		version: deps.Version,
		started: time.Now(),
	}
	if deps.Security.AuthEnabled {
		s.verifier = auth.NewVerifier(deps.Security.JWT.Secret, deps.Security.JWT.Issuer, deps.Security.JWT.Audience)
	}
	return s, nil
}

// Handler returns the fully wired router. It is built once.
func (s *Server) Handler() http.Handler {
	s.routerOnce.Do(func() {
		s.router = s.buildRouter()
	})
	return s.router
}

// Start begins listening for HTTP connections in a background goroutine.
// The server can be stopped with Close().
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.Handler(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("API server starting", "address", s.server.Addr)
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// The engine's hub is closed first so open SSE and WebSocket streams return,
// then Shutdown waits up to 10 seconds for the remaining requests.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	s.engine.Hub().Close()

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
