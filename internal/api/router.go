package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gridstore-core/internal/auth"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.metricsMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)

	r.Get("/api/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)

	r.Route("/api/iidm", func(r chi.Router) {
		// Uploads carry whole networks and get their own, larger limit.
		r.With(s.bodyLimit(s.uploadLimit()), s.requirePermission(auth.PermNetworkUpload)).
			Post("/upload", s.handleUpload)

		r.Group(func(r chi.Router) {
			r.Use(s.bodyLimit(s.bodyLimitBytes()))

			r.With(s.requirePermission(auth.PermComponentUpdate)).
				Post("/update/{kind}", s.handleUpdate)

			r.Get("/components/{id}", s.handleComponent)
			r.Get("/kinds", s.handleKinds)
			r.Get("/schema/{kind}", s.handleSchema)
			r.Get("/history/{id}", s.handleHistory)
		})

		r.Get("/stream/{kind}/{id}", s.handleStream)
		r.Get("/ws/{kind}/{id}", s.handleWebSocket)
	})

	return r
}

// handleHealth reports the server status and every configured dependency.
// Any failing dependency degrades the status to 503.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	deps := make(map[string]string, len(s.checks))

	for name, c := range s.checks {
		if err := c.HealthCheck(r.Context()); err != nil {
			deps[name] = err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	writeJSON(w, code, map[string]any{
		"status":         status,
		"version":        s.version,
		"uptime_seconds": int64(time.Since(s.started).Seconds()),
		"records":        s.engine.Len(),
		"subscribers":    s.engine.Hub().Subscribers(),
		"dependencies":   deps,
	})
}

// handleMetrics serves the Prometheus exposition.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.metrics == nil {
		writeNotFound(w, "metrics are disabled")
		return
	}
	s.metrics.Handler().ServeHTTP(w, r)
}
