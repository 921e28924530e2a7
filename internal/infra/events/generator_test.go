package events

import (
	"testing"
	"time"

	"github.com/stagelight/simcore/internal/domain"
	"github.com/stagelight/simcore/internal/infra/simrng"
)

func TestUserSignupPopulatesExpectedFields(t *testing.T) {
	g := New(DefaultCurves())
	rng := simrng.New(1, true)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	ev := g.UserSignup(rng, now, now)
	if ev.Type != domain.EventUserSignup {
		t.Fatalf("expected type %q, got %q", domain.EventUserSignup, ev.Type)
	}
	if ev.Data["archetype"] == "" {
		t.Fatal("expected archetype to be set")
	}
	if ev.Data["expected_ltv"].(float64) <= 0 {
		t.Fatal("expected positive expected_ltv")
	}
}

func TestChurnProbabilityCapped(t *testing.T) {
	p := ChurnProbability(1000, 1000, domain.TierMonthly)
	if p != 0.5 {
		t.Fatalf("expected churn probability capped at 0.5, got %v", p)
	}
}

func TestChurnProbabilityTierDiscount(t *testing.T) {
	monthly := ChurnProbability(5, 1, domain.TierMonthly)
	lifetime := ChurnProbability(5, 1, domain.TierLifetime)
	if lifetime >= monthly {
		t.Fatalf("expected lifetime tier to churn less than monthly: %v >= %v", lifetime, monthly)
	}
}

func TestExpectedStreamsDecaysOverTime(t *testing.T) {
	genre := GenreMultiplier{Streams: 1.0}
	fresh := ExpectedStreamsPerMinute(10, 0, genre, false)
	old := ExpectedStreamsPerMinute(10, 60, genre, false)
	if old >= fresh {
		t.Fatalf("expected decay over time: fresh=%v old=%v", fresh, old)
	}
}

func TestExpectedStreamsViralBoost(t *testing.T) {
	genre := GenreMultiplier{Streams: 1.0}
	normal := ExpectedStreamsPerMinute(10, 5, genre, false)
	viral := ExpectedStreamsPerMinute(10, 5, genre, true)
	if viral <= normal {
		t.Fatalf("expected viral boost: viral=%v normal=%v", viral, normal)
	}
}

func TestSystemEventImpactThresholds(t *testing.T) {
	cases := []struct {
		severity float64
		want     domain.Impact
	}{
		{0.99, domain.ImpactCritical},
		{0.85, domain.ImpactHigh},
		{0.6, domain.ImpactMedium},
		{0.1, domain.ImpactLow},
	}
	for _, c := range cases {
		if got := impactFromSeverity(c.severity); got != c.want {
			t.Errorf("severity %v: expected %v, got %v", c.severity, c.want, got)
		}
	}
}
