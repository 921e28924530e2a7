// Package registry tracks in-flight and completed simulations by id so
// the HTTP control plane can look one up without threading it through
// every handler call. Grounded on the teacher's registry.Manager
// (internal/infra/registry): a mutex-guarded map keyed by an opaque id,
// repointed from on-disk model metadata onto in-memory simulation
// handles.
package registry

import (
	"sync"
	"time"

	"github.com/stagelight/simcore/internal/domain"
	"github.com/stagelight/simcore/internal/engine"
)

// Entry is one tracked simulation: its live handle plus the terminal
// result once Run() returns.
type Entry struct {
	Sim       *engine.Simulation
	StartedAt time.Time

	mu     sync.RWMutex
	result *domain.SimulationResult
	err    error
}

func (e *Entry) setResult(r domain.SimulationResult, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.result = &r
	e.err = err
}

// Result returns the terminal result, if Run() has completed.
func (e *Entry) Result() (domain.SimulationResult, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.result == nil {
		return domain.SimulationResult{}, false
	}
	return *e.result, true
}

// Registry is a process-wide table of simulations in flight or completed.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// New constructs an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Start constructs a Simulation, registers it, and launches Run() in the
// background. It returns immediately with the new simulation's id.
func (r *Registry) Start(cfg domain.Config, opts ...engine.Option) (string, error) {
	sim, err := engine.New(cfg, opts...)
	if err != nil {
		return "", err
	}

	entry := &Entry{Sim: sim, StartedAt: time.Now()}

	r.mu.Lock()
	r.entries[sim.ID()] = entry
	r.mu.Unlock()

	go func() {
		result, err := sim.Run()
		entry.setResult(result, err)
	}()

	return sim.ID(), nil
}

// Get looks up a tracked simulation by id.
func (r *Registry) Get(id string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

// Remove deletes a tracked simulation's bookkeeping entry, stopping it
// first if still running.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	e, ok := r.entries[id]
	if ok {
		delete(r.entries, id)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	_ = e.Sim.Stop()
	return true
}

// Counts reports how many tracked simulations are running vs completed,
// for GET /list.
func (r *Registry) Counts() (running, completed, total int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		total++
		status := e.Sim.Status().State
		switch status {
		case domain.StateRunning, domain.StatePaused, domain.StateNotStarted:
			running++
		default:
			completed++
		}
	}
	return
}

// IDs returns all tracked simulation ids.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	return ids
}
