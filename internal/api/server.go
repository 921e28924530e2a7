// Package api provides the HTTP control plane for simcore: starting,
// inspecting, pausing, and reporting on simulations (§6). Grounded on the
// teacher's internal/api/server.go: a Server struct holding collaborators,
// a Handler() method building one chi.Router with standard middleware,
// optional /metrics mount, and writeJSON/writeError helpers.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stagelight/simcore/internal/domain"
	"github.com/stagelight/simcore/internal/registry"
)

// Server is the simcore HTTP API server.
type Server struct {
	reg            *registry.Registry
	store          domain.SnapshotStore
	metricsEnabled bool
}

// NewServer creates a new API server backed by the given simulation
// registry. store is optional (nil disables snapshot persistence for
// newly started simulations).
func NewServer(reg *registry.Registry, store domain.SnapshotStore) *Server {
	return &Server{reg: reg, store: store}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Minute))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/simulation", func(r chi.Router) {
		r.Get("/periods", s.handlePeriods)
		r.Get("/benchmarks", s.handleBenchmarks)
		r.Post("/start", s.handleStart)
		r.Post("/start-full", s.handleStartFull)
		r.Get("/status/{id}", s.handleStatus)
		r.Get("/metrics/{id}", s.handleMetrics)
		r.Get("/snapshots/{id}", s.handleSnapshots)
		r.Get("/events/{id}", s.handleEvents)
		r.Post("/pause/{id}", s.handlePause)
		r.Post("/resume/{id}", s.handleResume)
		r.Post("/stop/{id}", s.handleStop)
		r.Get("/results/{id}", s.handleResults)
		r.Get("/report/{id}", s.handleReport)
		r.Post("/generate-event", s.handleGenerateEvent)
		r.Get("/list", s.handleList)
		r.Delete("/{id}", s.handleDelete)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}
