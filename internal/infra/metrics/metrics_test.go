package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func gatheredNames(t *testing.T) map[string]bool {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	return names
}

func TestSimulationGauges(t *testing.T) {
	SimulationsRunning.Set(3)
	SimulationsStarted.WithLabelValues("fast").Inc()
	SimulationsCompleted.WithLabelValues("✅ ALL TESTS PASSED").Inc()

	names := gatheredNames(t)
	for _, name := range []string{
		"simcore_simulations_running",
		"simcore_simulations_started_total",
		"simcore_simulations_completed_total",
	} {
		if !names[name] {
			t.Errorf("metric %q not found", name)
		}
	}
}

func TestEventAndStepMetrics(t *testing.T) {
	EventsEmitted.WithLabelValues("user").Add(10)
	DayStepSeconds.WithLabelValues("fast").Observe(0.002)
	SnapshotCount.WithLabelValues("memory").Inc()
	SamplePoolSize.Set(5000)
	DayStepFailures.WithLabelValues("sim_1_abcdef").Inc()

	names := gatheredNames(t)
	for _, name := range []string{
		"simcore_events_emitted_total",
		"simcore_day_step_seconds",
		"simcore_snapshot_count_total",
		"simcore_sample_pool_size",
		"simcore_day_step_failures_total",
	} {
		if !names[name] {
			t.Errorf("metric %q not found", name)
		}
	}
}

func TestAllMetricsGatherable(t *testing.T) {
	names := gatheredNames(t)
	simcoreMetrics := 0
	for name := range names {
		if len(name) > 8 && name[:8] == "simcore_" {
			simcoreMetrics++
		}
	}
	if simcoreMetrics < 7 {
		t.Errorf("expected at least 7 simcore_ metrics, got %d", simcoreMetrics)
	}
}
