// Package metrics provides Prometheus instrumentation for the simulation
// engine — counters and gauges for running simulations, emitted events,
// day-step latency, and snapshot volume. Grounded on the teacher's
// observability package (same promauto/prometheus pattern, namespace
// swapped from "tutu" to "simcore" and the metric set repointed from
// compute-node telemetry to simulation telemetry).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SimulationsRunning tracks the number of simulations currently in the
// running state.
var SimulationsRunning = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "simcore",
	Name:      "simulations_running",
	Help:      "Number of simulations currently running.",
})

// SimulationsStarted tracks total simulations started, by mode.
var SimulationsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "simcore",
	Name:      "simulations_started_total",
	Help:      "Total simulations started, by mode.",
}, []string{"mode"})

// SimulationsCompleted tracks total simulations that reached completion,
// by final verdict.
var SimulationsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "simcore",
	Name:      "simulations_completed_total",
	Help:      "Total simulations completed, by verdict.",
}, []string{"verdict"})

// EventsEmitted tracks total simulated events generated, by category.
var EventsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "simcore",
	Name:      "events_emitted_total",
	Help:      "Total simulated events emitted, by category.",
}, []string{"category"})

// DayStepSeconds tracks wall-clock duration of a single simulated day
// step, by mode.
var DayStepSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "simcore",
	Name:      "day_step_seconds",
	Help:      "Wall-clock duration of one simulated day step.",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
}, []string{"mode"})

// SnapshotCount tracks total snapshots written, by destination
// (memory or store).
var SnapshotCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "simcore",
	Name:      "snapshot_count_total",
	Help:      "Total snapshots written, by destination.",
}, []string{"destination"})

// SamplePoolSize tracks the live sample-pool occupancy of the most
// recently stepped simulation.
var SamplePoolSize = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "simcore",
	Name:      "sample_pool_size",
	Help:      "Current sample pool occupancy (materialized users).",
})

// DayStepFailures counts the total day-step failures of each simulation;
// it never resets, so it does not track the consecutive-failure streak.
var DayStepFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "simcore",
	Name:      "day_step_failures_total",
	Help:      "Total day-step failures, by simulation id.",
}, []string{"simulation_id"})
