package growth

import (
	"math"
	"testing"

	"github.com/stagelight/simcore/internal/infra/simrng"
)

func TestTargetAtPhaseBoundaries(t *testing.T) {
	if got := TargetAt(0); math.Abs(got-InitialUsers) > 1 {
		t.Fatalf("day 0: expected ~%d, got %v", InitialUsers, got)
	}
	if got := TargetAt(phase1EndDay); math.Abs(got-Year2Target) > Year2Target*0.01 {
		t.Fatalf("day 730: expected ~%d, got %v", Year2Target, got)
	}
	if got := TargetAt(phase2EndDay); math.Abs(got-Year3Target) > Year3Target*0.01 {
		t.Fatalf("day 1095: expected ~%d, got %v", Year3Target, got)
	}
}

func TestTargetAtMonotonic(t *testing.T) {
	prev := 0.0
	for _, d := range []float64{0, 100, 400, 730, 900, 1095, 2000, 5000, 18250} {
		got := TargetAt(d)
		if got < prev {
			t.Fatalf("target not monotonic at day %v: %v < %v", d, got, prev)
		}
		prev = got
	}
}

func TestUsersNeededFloor(t *testing.T) {
	rng := simrng.New(1, true)
	// currentUsers already far above target: should still respect the
	// minimum growth floor per §4.6.
	needed := UsersNeeded(rng, 0, 10_000_000, 1.0)
	if needed < 3 {
		t.Fatalf("expected at least the minimum floor of 3, got %d", needed)
	}
}

func TestReplenishmentCount(t *testing.T) {
	if got := ReplenishmentCount(42); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if got := ReplenishmentCount(-5); got != 0 {
		t.Fatalf("expected 0 for negative input, got %d", got)
	}
}
