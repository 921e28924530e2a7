// Package growth implements the piecewise-exponential growth trajectory
// controller (§4.6): it computes the population target for the current
// simulated instant and tells the engine how many users to inject so the
// population stays on trajectory. It keeps no history of its own: every
// function is a pure computation over the elapsed time and the current
// population the caller passes in.
package growth

import (
	"math"

	"github.com/stagelight/simcore/internal/infra/simrng"
)

const (
	// InitialUsers is the documented phase-1 starting population.
	InitialUsers = 50_000
	// Year2Target is the phase-1 ending / phase-2 starting population.
	Year2Target = 500_000
	// Year3Target is the phase-2 ending population.
	Year3Target = 1_500_000
	// TAM is the total addressable market that phase 3 saturates toward.
	TAM = 80_000_000

	phase1EndDay = 730
	phase2EndDay = 1095

	phase1Rate = math.Ln10 / phase1EndDay         // ln(10)/730
	phase2Rate = 1.0986122886681098 / 365         // ln(3)/365

	// phase3Rate is the intrinsic logistic growth rate feeding the
	// saturation term; phase3SaturationCap is the "1 - min(0.9, penetration)"
	// ceiling on how much the saturation term can throttle growth (§4.6).
	phase3Rate          = 0.0008
	phase3SaturationCap = 0.9
	// phase3LinearDrift is the small additive drift added on top of the
	// saturating exponential (§4.6).
	phase3LinearDrift = 50.0
)

// JitterFraction is the ±3% multiplicative jitter applied to the target.
const JitterFraction = 0.03

// Controller computes per-step user targets and injection counts.
type Controller struct{}

// New returns a Controller. It is stateless; all state lives in the
// caller's aggregate pool (current population) and is passed in per call.
func New() *Controller { return &Controller{} }

// TargetAt returns the un-jittered population target for the given
// elapsed simulated days (cumulative_hours / 24), per the three-phase
// curve in §4.6.
func TargetAt(elapsedDays float64) float64 {
	switch {
	case elapsedDays <= phase1EndDay:
		return InitialUsers * math.Exp(phase1Rate*elapsedDays)
	case elapsedDays <= phase2EndDay:
		daysIntoPhase2 := elapsedDays - phase1EndDay
		return Year2Target * math.Exp(phase2Rate*daysIntoPhase2)
	default:
		daysIntoPhase3 := elapsedDays - phase2EndDay
		return phase3Target(daysIntoPhase3) + phase3LinearDrift*daysIntoPhase3
	}
}

// phase3Target solves the phase-3 saturation ODE
// dP/dt = phase3Rate * P * (1 - min(phase3SaturationCap, P/TAM)) in closed
// form, so the saturation term always reflects the population's *current*
// share of TAM rather than a one-time snapshot taken at phase-3 entry.
// While P/TAM stays below phase3SaturationCap this is ordinary logistic
// growth toward TAM; once the population crosses that share, the
// saturation term stops tightening further and growth continues as plain
// exponential at the residual rate.
func phase3Target(daysIntoPhase3 float64) float64 {
	a := float64(TAM-Year3Target) / Year3Target
	capShare := 1 / phase3SaturationCap
	tCap := -math.Log((capShare-1)/a) / phase3Rate

	if daysIntoPhase3 <= tCap {
		return TAM / (1 + a*math.Exp(-phase3Rate*daysIntoPhase3))
	}

	capTarget := phase3SaturationCap * TAM
	residualRate := phase3Rate * (1 - phase3SaturationCap)
	return capTarget * math.Exp(residualRate*(daysIntoPhase3-tCap))
}

// UsersNeeded computes how many new users must be injected at this step
// to keep the population on trajectory: the jittered target minus the
// current population, floored at zero and at the documented minimum
// growth floor (§4.6: max(3, ceil(0.0001 * current))), scaled to the
// step's fraction of a day (1.0 for a full day, 1/24 for an hour).
func UsersNeeded(rng *simrng.Source, elapsedDays float64, currentUsers int64, stepFractionOfDay float64) int64 {
	target := TargetAt(elapsedDays)
	jitter := 1 + rng.Range(-JitterFraction, JitterFraction)
	jittered := target * jitter

	needed := jittered - float64(currentUsers)
	if needed < 0 {
		needed = 0
	}

	floor := math.Max(3, math.Ceil(0.0001*float64(currentUsers)))
	floor *= stepFractionOfDay
	if needed < floor {
		needed = floor
	}

	return int64(math.Round(needed))
}

// ReplenishmentCount returns the number of users to immediately create
// in response to today's churn, so net growth never falls below the
// trajectory delta (§4.6 post-churn replenishment).
func ReplenishmentCount(churnedToday int64) int64 {
	if churnedToday < 0 {
		return 0
	}
	return churnedToday
}
