package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stagelight/simcore/internal/domain"
	"github.com/stagelight/simcore/internal/engine"
	"github.com/stagelight/simcore/internal/infra/growth"
	"github.com/stagelight/simcore/internal/infra/simid"
)

// accelerationPercent and realSecondsPerDay are the documented constants
// surfaced alongside the period list (§6).
const (
	accelerationPercent = 98
	realSecondsPerDay   = 0.48
)

func (s *Server) handlePeriods(w http.ResponseWriter, r *http.Request) {
	type period struct {
		Name              string  `json:"name"`
		Days              int     `json:"days"`
		EstimatedRealTime string  `json:"estimated_real_time"`
		Description       string  `json:"description"`
	}

	presets := domain.Periods()
	out := make([]period, 0, len(presets))
	for _, p := range presets {
		seconds := float64(p.Days) * realSecondsPerDay
		out = append(out, period{
			Name:              p.Name,
			Days:              p.Days,
			EstimatedRealTime: formatDuration(seconds),
			Description:       fmt.Sprintf("%d simulated days", p.Days),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"periods":               out,
		"acceleration_percent":  accelerationPercent,
		"real_seconds_per_day":  realSecondsPerDay,
	})
}

func formatDuration(seconds float64) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%.0fs", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%.1fm", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%.1fh", seconds/3600)
	default:
		return fmt.Sprintf("%.1fd", seconds/86400)
	}
}

// handleBenchmarks serves the static industry-benchmark constants (§9
// glossary): figures that never drive computation, only reporting.
func (s *Server) handleBenchmarks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"total_addressable_market": growth.TAM,
		"monthly_price":            domain.TierMonthlyPrice(domain.TierMonthly),
		"yearly_price":             domain.TierMonthlyPrice(domain.TierYearly),
		"lifetime_price":           domain.TierMonthlyPrice(domain.TierLifetime),
		"streaming_rpm":            3.0,
		"target_monthly_churn":     5.0,
		"target_conversion_rate":   2.0,
	})
}

type startRequest struct {
	PeriodName               string  `json:"period_name"`
	InitialUsers             int64   `json:"initial_users"`
	InitialReleases          int64   `json:"initial_releases"`
	SeedMoney                float64 `json:"seed_money"`
	EnableAutonomousSystems  *bool   `json:"enable_autonomous_systems"`
	EnableSystemFailures     *bool   `json:"enable_system_failures"`
	EnableMarketFluctuations *bool   `json:"enable_market_fluctuations"`
}

func boolOrDefault(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cfg := domain.Config{
		PeriodName:               req.PeriodName,
		InitialUsers:             req.InitialUsers,
		InitialReleases:          req.InitialReleases,
		SeedMoney:                req.SeedMoney,
		EnableAutonomousSystems:  boolOrDefault(req.EnableAutonomousSystems, true),
		EnableSystemFailures:     boolOrDefault(req.EnableSystemFailures, true),
		EnableMarketFluctuations: boolOrDefault(req.EnableMarketFluctuations, true),
	}.WithDefaults()

	opts := []engine.Option{}
	if s.store != nil {
		opts = append(opts, engine.WithSnapshotStore(s.store))
	}

	id, err := s.reg.Start(cfg, opts...)
	if err != nil {
		writeErrorForErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"simulation_id":       id,
		"config":              cfg,
		"estimated_real_time": formatDuration(float64(cfg.DaysToSimulate) * realSecondsPerDay),
		"message":             "simulation started",
	})
}

// handleStartFull starts all 17 presets at once, each as its own
// registered simulation, and returns their ids with a new full-lifecycle
// id (§6 POST /start-full). The presets run concurrently, not one after
// another, and the full-lifecycle id is not registered or linked to them.
func (s *Server) handleStartFull(w http.ResponseWriter, r *http.Request) {
	presets := domain.Periods()
	ids := make([]string, 0, len(presets))
	totalSeconds := 0.0

	for _, p := range presets {
		cfg := domain.Config{PeriodName: p.Name, DaysToSimulate: p.Days}.WithDefaults()
		opts := []engine.Option{}
		if s.store != nil {
			opts = append(opts, engine.WithSnapshotStore(s.store))
		}
		id, err := s.reg.Start(cfg, opts...)
		if err != nil {
			writeErrorForErr(w, err)
			return
		}
		ids = append(ids, id)
		totalSeconds += float64(p.Days) * realSecondsPerDay
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"simulation_id":        simid.FullLifecycle(time.Now().UnixMilli()),
		"periods":              ids,
		"estimated_total_time": formatDuration(totalSeconds),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.reg.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"status": "not_found"})
		return
	}

	status := entry.Sim.Status()

	writeJSON(w, http.StatusOK, map[string]any{
		"status":           status.State,
		"current_day":      status.CurrentDay,
		"total_days":       status.TotalDays,
		"percent_complete": status.PercentComplete,
		"metrics":          status.Metrics,
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.reg.Get(chi.URLParam(r, "id"))
	if !ok {
		writeErrorForErr(w, domain.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, entry.Sim.Status().Metrics)
}

func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entry, ok := s.reg.Get(id)
	if !ok {
		writeErrorForErr(w, domain.ErrNotFound)
		return
	}
	if result, done := entry.Result(); done {
		writeJSON(w, http.StatusOK, result.Snapshots)
		return
	}
	writeJSON(w, http.StatusOK, []domain.SimulationSnapshot{})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entry, ok := s.reg.Get(id)
	if !ok {
		writeErrorForErr(w, domain.ErrNotFound)
		return
	}

	category := r.URL.Query().Get("category")
	impact := r.URL.Query().Get("impact")
	limit := 1000
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n < limit {
			limit = n
		}
	}

	result, done := entry.Result()
	if !done {
		writeJSON(w, http.StatusOK, []domain.SimulationEvent{})
		return
	}

	events := make([]domain.SimulationEvent, 0, limit)
	for _, ev := range result.Events {
		if category != "" && string(ev.Category) != category {
			continue
		}
		if impact != "" && string(ev.Impact) != impact {
			continue
		}
		events = append(events, ev)
		if len(events) >= limit {
			break
		}
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.controlAction(w, r, func(sim *engine.Simulation) error { return sim.Pause() })
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.controlAction(w, r, func(sim *engine.Simulation) error { return sim.Resume() })
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.controlAction(w, r, func(sim *engine.Simulation) error { return sim.Stop() })
}

func (s *Server) controlAction(w http.ResponseWriter, r *http.Request, action func(*engine.Simulation) error) {
	entry, ok := s.reg.Get(chi.URLParam(r, "id"))
	if !ok {
		writeErrorForErr(w, domain.ErrNotFound)
		return
	}
	if err := action(entry.Sim); err != nil {
		writeErrorForErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.reg.Get(chi.URLParam(r, "id"))
	if !ok {
		writeErrorForErr(w, domain.ErrNotFound)
		return
	}
	result, done := entry.Result()
	if !done {
		writeJSON(w, http.StatusOK, map[string]string{"status": "running"})
		return
	}
	result.Events = nil
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entry, ok := s.reg.Get(id)
	if !ok {
		writeErrorForErr(w, domain.ErrNotFound)
		return
	}
	result, done := entry.Result()
	if !done {
		writeErrorForErr(w, domain.ErrNotFound)
		return
	}

	report := engine.Report(id, result)
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="simulation_report_%s.md"`, id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(report))
}

type generateEventRequest struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"params"`
}

// handleGenerateEvent synthesizes a one-off event outside the normal day
// step loop for manual testing of observers/dashboards (§6).
func (s *Server) handleGenerateEvent(w http.ResponseWriter, r *http.Request) {
	var req generateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var category domain.EventCategory
	switch req.Type {
	case domain.EventUserSignup:
		category = domain.CategoryUser
	case domain.EventMarket:
		category = domain.CategoryMarket
	case domain.EventSystem:
		category = domain.CategorySystem
	default:
		writeError(w, http.StatusBadRequest, "unknown event type")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"type":     req.Type,
		"category": category,
		"params":   req.Params,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	running, completed, total := s.reg.Counts()
	writeJSON(w, http.StatusOK, map[string]any{
		"running":   running,
		"completed": completed,
		"total":     total,
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !s.reg.Remove(chi.URLParam(r, "id")) {
		writeErrorForErr(w, domain.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
