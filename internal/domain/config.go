package domain

// PeriodPreset is one of the 17 closed-set horizon presets (§6).
type PeriodPreset struct {
	Name string
	Days int
}

// Periods returns the closed set of period presets, in ascending order.
func Periods() []PeriodPreset {
	return []PeriodPreset{
		{"1_month", 30},
		{"3_months", 90},
		{"6_months", 180},
		{"1_year", 365},
		{"3_years", 1095},
		{"6_years", 2190},
		{"10_years", 3650},
		{"14_years", 5110},
		{"18_years", 6570},
		{"22_years", 8030},
		{"26_years", 9490},
		{"30_years", 10950},
		{"34_years", 12410},
		{"38_years", 13870},
		{"42_years", 15330},
		{"46_years", 16790},
		{"50_years", 18250},
	}
}

// PeriodDays looks up a preset's day count by name.
func PeriodDays(name string) (int, bool) {
	for _, p := range Periods() {
		if p.Name == name {
			return p.Days, true
		}
	}
	return 0, false
}

// SimMode names fast (day-granularity) vs detailed (hour/minute) stepping.
// WithDefaults fills in ModeFast; the engine does not read the mode and
// always steps one simulated day at a time.
type SimMode string

const (
	ModeFast     SimMode = "fast"
	ModeDetailed SimMode = "detailed"
)

// Config is the immutable configuration a Simulation is constructed with
// (§4.7 `new(config)`).
type Config struct {
	PeriodName string
	DaysToSimulate int

	InitialUsers    int64
	InitialReleases int64
	SeedMoney       float64

	EnableAutonomousSystems  bool
	EnableSystemFailures     bool
	EnableMarketFluctuations bool
	EnableRealTimeTracking   bool

	SnapshotIntervalDays int
	Mode                 SimMode

	Seed      uint64
	HasSeed   bool

	MaxSampleSize int
}

// DefaultMaxSampleSize is the documented default bound on the in-memory
// sample pool (§4.3).
const DefaultMaxSampleSize = 5000

// Validate enforces §7 ConfigInvalid rules: unknown period name, negative
// counts, snapshot_interval_days < 1.
func (c Config) Validate() error {
	if c.PeriodName != "" {
		if days, ok := PeriodDays(c.PeriodName); !ok {
			return ErrConfigInvalid
		} else if c.DaysToSimulate != 0 && c.DaysToSimulate != days {
			return ErrConfigInvalid
		}
	}
	if c.DaysToSimulate <= 0 {
		return ErrConfigInvalid
	}
	if c.InitialUsers < 0 || c.InitialReleases < 0 || c.SeedMoney < 0 {
		return ErrConfigInvalid
	}
	if c.SnapshotIntervalDays < 1 {
		return ErrConfigInvalid
	}
	return nil
}

// WithDefaults fills zero-valued optional fields with documented defaults.
func (c Config) WithDefaults() Config {
	if c.DaysToSimulate == 0 {
		if days, ok := PeriodDays(c.PeriodName); ok {
			c.DaysToSimulate = days
		}
	}
	if c.SnapshotIntervalDays == 0 {
		c.SnapshotIntervalDays = 1
	}
	if c.MaxSampleSize == 0 {
		c.MaxSampleSize = DefaultMaxSampleSize
	}
	if c.Mode == "" {
		c.Mode = ModeFast
	}
	return c
}

// RunState is the simulation lifecycle state machine (§4.7).
type RunState string

const (
	StateNotStarted RunState = "not_started"
	StateRunning    RunState = "running"
	StatePaused     RunState = "paused"
	StateStopped    RunState = "stopped"
	StateCompleted  RunState = "completed"
)

// Status is the live control-plane view of a running simulation (§4.7
// `status()`, §6 GET /status/:id).
type Status struct {
	State           RunState
	CurrentDay      int
	TotalDays       int
	PercentComplete float64
	Metrics         SystemMetrics
}
