// Package engine implements the core Simulation lifecycle (§4.7): new,
// run, pause, resume, stop, status, plus the 15-step fast-mode day step.
// There is no detailed-mode step: Config.Mode is not consulted, and every
// run steps one simulated day at a time. It composes internal/infra/simclock,
// simrng, aggregate, market, growth, and events the way the teacher's
// daemon composes its own subsystems (internal/daemon/daemon.go wires
// scheduler + credit + engagement + flywheel behind one façade) — here
// one Simulation struct owns clock, rng, population, market, and growth
// behind a single cooperative, single-threaded run loop (§5).
package engine

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stagelight/simcore/internal/domain"
	"github.com/stagelight/simcore/internal/infra/aggregate"
	"github.com/stagelight/simcore/internal/infra/events"
	"github.com/stagelight/simcore/internal/infra/growth"
	"github.com/stagelight/simcore/internal/infra/market"
	"github.com/stagelight/simcore/internal/infra/simclock"
	"github.com/stagelight/simcore/internal/infra/simid"
	"github.com/stagelight/simcore/internal/infra/simrng"
)

// simEpoch anchors simulated calendar dates so that two runs with the
// same config produce identical simulated dates (§8 reproducibility),
// independent of wall-clock start time.
var simEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// batchSize is the day cadence at which run() yields to the host
// scheduler to observe pause/stop requests (§5).
const batchSize = 10

// maxConsecutiveDayStepFailures aborts the run per §7.
const maxConsecutiveDayStepFailures = 5

// Simulation is the engine's core stateful object.
type Simulation struct {
	mu sync.Mutex

	id  string
	cfg domain.Config

	state domain.RunState

	clock  *simclock.Clock
	rng    *simrng.Source
	market *market.Model
	pool   *aggregate.Pool
	events *events.Generator

	releases   []domain.SimulatedRelease
	metrics    domain.SystemMetrics
	snapshots  []domain.SimulationSnapshot
	eventLog   []domain.SimulationEvent
	autonomous map[string]bool

	consecutiveFailures int

	realStart time.Time

	logger    domain.Logger
	store     domain.SnapshotStore
	bus       domain.EventBus
	observers domain.Observers

	pauseRequested atomic.Bool
	stopRequested  atomic.Bool
}

// Option configures optional collaborators at construction.
type Option func(*Simulation)

// WithLogger supplies a Logger; defaults to domain.NopLogger.
func WithLogger(l domain.Logger) Option { return func(s *Simulation) { s.logger = l } }

// WithSnapshotStore supplies an optional persistent snapshot store.
func WithSnapshotStore(store domain.SnapshotStore) Option {
	return func(s *Simulation) { s.store = store }
}

// WithEventBus supplies an optional live event forwarder.
func WithEventBus(bus domain.EventBus) Option { return func(s *Simulation) { s.bus = bus } }

// WithObservers supplies the explicit observer callback set (§9 Design
// Notes: replaces an ambient event-emitter).
func WithObservers(obs domain.Observers) Option { return func(s *Simulation) { s.observers = obs } }

// New constructs a Simulation (§4.7 new(config)). Fails with
// ErrConfigInvalid if cfg doesn't validate.
func New(cfg domain.Config, opts ...Option) (*Simulation, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := simrng.New(cfg.Seed, cfg.HasSeed)
	s := &Simulation{
		cfg:        cfg,
		state:      domain.StateNotStarted,
		clock:      simclock.New(simEpoch),
		rng:        rng,
		market:     market.New(market.DefaultConfig()),
		pool:       aggregate.New(cfg.MaxSampleSize),
		events:     events.New(events.DefaultCurves()),
		metrics:    domain.NewSystemMetrics(),
		autonomous: make(map[string]bool),
		logger:     domain.NopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.id = simid.Simulation(simEpoch.UnixMilli(), rng.Raw())
	return s, nil
}

// ID returns the simulation's generated id.
func (s *Simulation) ID() string { return s.id }

// Status implements §4.7 status().
func (s *Simulation) Status() domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	pct := 0.0
	if s.cfg.DaysToSimulate > 0 {
		pct = float64(s.clock.CurrentDay()) / float64(s.cfg.DaysToSimulate) * 100
	}
	return domain.Status{
		State:           s.state,
		CurrentDay:      s.clock.CurrentDay(),
		TotalDays:       s.cfg.DaysToSimulate,
		PercentComplete: pct,
		Metrics:         s.metrics.Clone(),
	}
}

// Pause transitions running -> paused.
func (s *Simulation) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateRunning {
		return domain.ErrNotRunning
	}
	s.pauseRequested.Store(true)
	s.state = domain.StatePaused
	return nil
}

// Resume transitions paused -> running.
func (s *Simulation) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StatePaused {
		return domain.ErrNotPaused
	}
	s.pauseRequested.Store(false)
	s.state = domain.StateRunning
	return nil
}

// Stop requests termination; run() exits after the current day step.
func (s *Simulation) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateRunning && s.state != domain.StatePaused {
		return domain.ErrAlreadyStopped
	}
	s.stopRequested.Store(true)
	return nil
}

// Run implements §4.7 run(). Not safe to call concurrently with itself.
func (s *Simulation) Run() (domain.SimulationResult, error) {
	s.mu.Lock()
	if s.state != domain.StateNotStarted {
		s.mu.Unlock()
		return domain.SimulationResult{}, domain.ErrAlreadyRunning
	}
	s.state = domain.StateRunning
	s.realStart = time.Now()
	s.mu.Unlock()

	s.seedInitialPopulation()
	s.emitSnapshot()

	stopped := false
	for day := 1; day <= s.cfg.DaysToSimulate; day++ {
		if s.stopRequested.Load() {
			stopped = true
			break
		}
		for s.pauseRequested.Load() {
			time.Sleep(time.Millisecond)
			if s.stopRequested.Load() {
				stopped = true
				break
			}
		}
		if stopped {
			break
		}

		if err := s.safeDayStep(); err != nil {
			s.consecutiveFailures++
			s.recordSystemFailureEvent(err)
			if s.consecutiveFailures >= maxConsecutiveDayStepFailures {
				break
			}
			continue
		}
		s.consecutiveFailures = 0

		if day%s.cfg.SnapshotIntervalDays == 0 {
			s.emitSnapshot()
		}

		if day%batchSize == 0 {
			s.observers.NotifyProgress(s.Status())
		}
	}

	s.emitSnapshot()

	s.mu.Lock()
	aborted := s.consecutiveFailures >= maxConsecutiveDayStepFailures
	if stopped {
		s.state = domain.StateStopped
	} else {
		s.state = domain.StateCompleted
	}
	finalMetrics := s.metrics.Clone()
	snapshots := append([]domain.SimulationSnapshot(nil), s.snapshots...)
	eventLog := append([]domain.SimulationEvent(nil), s.eventLog...)
	cfg := s.cfg
	s.mu.Unlock()

	result := domain.SimulationResult{
		Config:       cfg,
		RealStart:    s.realStart,
		RealEnd:      time.Now(),
		SimDuration:  time.Duration(s.clock.CumulativeHours()) * time.Hour,
		FinalMetrics: finalMetrics,
		Snapshots:    snapshots,
		Events:       eventLog,
	}
	result.RealDuration = result.RealEnd.Sub(result.RealStart)
	result.KPIs = DeriveKPIs(cfg, finalMetrics, eventLog)
	result.SystemTests = RunSystemTests(cfg, finalMetrics)
	if aborted {
		result.SystemTests.CriticalIssues = append(result.SystemTests.CriticalIssues, "day step aborted")
		result.SystemTests.Failed++
	}
	result.Recommendations = Recommendations(result.KPIs, result.SystemTests)

	s.observers.NotifyComplete(result)
	return result, nil
}

// seedInitialPopulation implements the run() precondition effect:
// creates initial_users in the sample pool up to MAX_SAMPLE_SIZE,
// aggregate for the remainder; seeds initial_releases with uniformly
// random historic stream counts.
func (s *Simulation) seedInitialPopulation() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tierDist := domain.TierDistribution()
	archDist := normalizedWeights(domain.ArchetypeWeights())
	avgRevenue := domain.WeightedAvgMonthlyRevenue()

	if s.cfg.InitialUsers > 0 {
		s.pool.AddUsersAggregate(s.cfg.InitialUsers, tierDist, archDist, avgRevenue, 1000, 200)

		toMaterialize := s.cfg.InitialUsers
		if int64(s.cfg.MaxSampleSize) < toMaterialize {
			toMaterialize = int64(s.cfg.MaxSampleSize)
		}
		for i := int64(0); i < toMaterialize; i++ {
			arch := weightedArchetype(s.rng, archDist)
			tier := weightedTier(s.rng, tierDist)
			u := domain.SimulatedUser{
				ID:             simid.New(),
				Archetype:      arch,
				Tier:           tier,
				MonthlyRevenue: domain.TierMonthlyPrice(tier),
				TotalFollowers: int64(s.rng.Range(10, 5000)),
				EngagementRate: s.rng.Range(0.01, 0.2),
				LastActiveAt:   s.clock.CurrentDate(),
				CreatedAt:      s.clock.CurrentDate(),
			}
			s.pool.Materialize(u)
		}
	}

	s.metrics.Revenue.MRR += s.cfg.SeedMoney / 12

	for i := int64(0); i < s.cfg.InitialReleases; i++ {
		owner := ""
		if u, ok := s.pool.RandomSampleUser(s.rng); ok {
			owner = u.ID
		}
		historic := int64(s.rng.Range(0, 100_000))
		rel := domain.SimulatedRelease{
			ID:           simid.New(),
			OwnerUserID:  owner,
			Type:         domain.ReleaseSingle,
			ReleasedAt:   s.clock.CurrentDate().AddDate(0, 0, -s.rng.IntRange(1, 365)),
			TotalStreams: historic,
			PeakStreams:  historic,
			Platforms:    map[string]bool{"spotify": true},
		}
		s.releases = append(s.releases, rel)
		s.metrics.Streams.Total += historic
		s.metrics.Streams.ReleasesCount++
	}
	s.metrics.RecomputeStreamAvg()
	s.metrics.RecomputeRevenueIdentities()

	agg := s.pool.Aggregate()
	s.metrics.Users.Total = agg.Total
	s.metrics.Users.ByTier = cloneTierCounts(agg.ByTier)
	s.metrics.Users.ByArchetype = cloneArchetypeCounts(agg.ByArchetype)
}

func normalizedWeights[K comparable](weights map[K]float64) map[K]float64 {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	out := make(map[K]float64, len(weights))
	for k, w := range weights {
		out[k] = w / total
	}
	return out
}

func weightedArchetype(rng *simrng.Source, dist map[domain.Archetype]float64) domain.Archetype {
	keys := domain.AllArchetypes()
	k, ok := simrng.WeightedChoiceKeys(rng, keys, dist)
	if !ok {
		return domain.ArchetypeHobbyist
	}
	return k
}

func weightedTier(rng *simrng.Source, dist map[domain.Tier]float64) domain.Tier {
	keys := domain.AllTiers()
	k, ok := simrng.WeightedChoiceKeys(rng, keys, dist)
	if !ok {
		return domain.TierMonthly
	}
	return k
}

func (s *Simulation) recordSystemFailureEvent(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.CurrentDate()
	ev := domain.NewEvent(simid.New(), domain.EventSystem, domain.CategorySystem, time.Now(), now, domain.ImpactCritical)
	ev.Data = map[string]any{"error": err.Error(), "kind": "day_step_panic"}
	ev.Triggered = true
	s.appendEventLocked(ev)
	s.metrics.Autonomous.InterventionsRequired++
	s.logger.Error("day step failed", "day", s.clock.CurrentDay(), "error", err)
}

// safeDayStep recovers panics inside dayStep into an error, per §7's
// "any unrecovered panic inside a day step" -> Internal error kind.
func (s *Simulation) safeDayStep() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domain.ErrInternal, r)
		}
	}()
	s.dayStep()
	return nil
}

func (s *Simulation) appendEventLocked(ev domain.SimulationEvent) {
	s.eventLog = append(s.eventLog, ev)
	s.observers.NotifyEvent(ev)
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}

// emitSnapshot implements §4.8 snapshot emission.
func (s *Simulation) emitSnapshot() {
	s.mu.Lock()
	snap := domain.NewSnapshot(
		s.cfg.PeriodName,
		s.clock.CurrentDay(),
		s.clock.CurrentDate(),
		time.Now(),
		s.metrics,
		s.market.Current(),
		s.eventLog,
		s.autonomous,
	)
	s.snapshots = append(s.snapshots, snap)
	store := s.store
	id := s.id
	s.mu.Unlock()

	s.observers.NotifySnapshot(snap)

	if store != nil {
		path := fmt.Sprintf("%s/%010d", id, snap.Day)
		if err := store.Write(path, encodeSnapshotForStore(snap)); err != nil {
			s.logger.Warn("snapshot store write failed", "error", err, "path", path)
		}
	}
}

// encodeSnapshotForStore renders a snapshot into a compact, stable text
// form suitable for the optional blob store. Correctness never depends
// on being able to decode this back (§4.3) — it exists purely so a
// caller with a store configured can inspect historical runs out of
// memory.
func encodeSnapshotForStore(snap domain.SimulationSnapshot) []byte {
	return []byte(fmt.Sprintf(
		"day=%d mrr=%.2f users=%d uptime=%.3f",
		snap.Day, snap.Metrics.Revenue.MRR, snap.Metrics.Users.Total, snap.Metrics.Platform.Uptime,
	))
}
