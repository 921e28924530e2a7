package domain

import "time"

// maxRecentEvents bounds how many trailing events a snapshot carries
// (§4.8: "include last 100 events").
const maxRecentEvents = 100

// SimulationSnapshot is an immutable point-in-time capture (§3). Once
// appended, later engine state changes must never modify it (invariant:
// snapshot immutability) — every field here is either a value type or a
// freshly-sliced/cloned copy taken at snapshot time.
type SimulationSnapshot struct {
	Period       string
	Day          int
	SimDate      time.Time
	RealTime     time.Time
	Metrics      SystemMetrics
	Market       MarketConditions
	RecentEvents []SimulationEvent
	Autonomous   map[string]bool
}

// NewSnapshot builds an immutable snapshot from live engine state. It deep
// copies metrics and market conditions and takes a fresh slice of the last
// 100 events, so later mutation of the engine's own buffers cannot corrupt
// history (§9 Design Notes: "Deep copy of snapshots").
func NewSnapshot(period string, day int, simDate, realTime time.Time, metrics SystemMetrics, market MarketConditions, allEvents []SimulationEvent, autonomous map[string]bool) SimulationSnapshot {
	start := 0
	if len(allEvents) > maxRecentEvents {
		start = len(allEvents) - maxRecentEvents
	}
	recent := make([]SimulationEvent, len(allEvents)-start)
	copy(recent, allEvents[start:])

	autoCopy := make(map[string]bool, len(autonomous))
	for k, v := range autonomous {
		autoCopy[k] = v
	}

	return SimulationSnapshot{
		Period:       period,
		Day:          day,
		SimDate:      simDate,
		RealTime:     realTime,
		Metrics:      metrics.Clone(),
		Market:       market.Clone(),
		RecentEvents: recent,
		Autonomous:   autoCopy,
	}
}

// KPIBlock is the KPI derivation at run completion (§4.8).
type KPIBlock struct {
	UserGrowthRate       float64
	RevenueGrowthRate    float64
	ChurnRate            float64
	LTV                  float64
	CAC                  float64
	ViralCoefficient     float64
	NPS                  float64
	SystemUptime         float64
	AutonomousEfficiency float64
}

// SystemTestResult is a single pass/fail/warn check contributing to the
// system-test tally (§4.8).
type SystemTestResult struct {
	Name   string
	Passed bool
	Warn   bool
}

// SystemTestTally is the aggregated pass/fail/warning block (§3).
type SystemTestTally struct {
	Passed         int
	Failed         int
	Warnings       int
	CriticalIssues []string
}

// Verdict is the overall pass/fail status string surfaced in the report
// (§6).
type Verdict string

const (
	VerdictAllPassed Verdict = "✅ ALL TESTS PASSED"
	VerdictWarnings  Verdict = "⚠️ WARNINGS DETECTED"
	VerdictCritical  Verdict = "❌ CRITICAL ISSUES FOUND"
)

// Verdict derives the overall verdict string from the tally.
func (t SystemTestTally) Verdict() Verdict {
	if t.Failed > 0 || len(t.CriticalIssues) > 0 {
		return VerdictCritical
	}
	if t.Warnings > 0 {
		return VerdictWarnings
	}
	return VerdictAllPassed
}

// SimulationResult is the terminal value returned by run() (§3, §4.7).
type SimulationResult struct {
	Config Config

	RealStart time.Time
	RealEnd   time.Time

	RealDuration time.Duration
	SimDuration  time.Duration

	FinalMetrics SystemMetrics
	Snapshots    []SimulationSnapshot
	Events       []SimulationEvent

	KPIs            KPIBlock
	SystemTests     SystemTestTally
	Recommendations []string
}
