package domain

import "time"

// Archetype categorizes a simulated user's scale and sophistication.
type Archetype string

const (
	ArchetypeHobbyist         Archetype = "hobbyist"
	ArchetypeEmergingArtist   Archetype = "emerging_artist"
	ArchetypeEstablishedArtist Archetype = "established_artist"
	ArchetypeLabel            Archetype = "label"
	ArchetypeEnterprise       Archetype = "enterprise"
)

// AllArchetypes returns every archetype in signup-weight order.
func AllArchetypes() []Archetype {
	return []Archetype{
		ArchetypeHobbyist, ArchetypeEmergingArtist, ArchetypeEstablishedArtist,
		ArchetypeLabel, ArchetypeEnterprise,
	}
}

// ArchetypeWeights is the fixed signup distribution (§4.4):
// hobbyist 50, emerging 25, established 15, label 7, enterprise 3.
func ArchetypeWeights() map[Archetype]float64 {
	return map[Archetype]float64{
		ArchetypeHobbyist:          50,
		ArchetypeEmergingArtist:    25,
		ArchetypeEstablishedArtist: 15,
		ArchetypeLabel:             7,
		ArchetypeEnterprise:        3,
	}
}

// Tier is a subscription tier. There is no free tier (invariant I3) — every
// SimulatedUser carries a positive monthly revenue attribution.
type Tier string

const (
	TierMonthly  Tier = "monthly"
	TierYearly   Tier = "yearly"
	TierLifetime Tier = "lifetime"
)

// AllTiers returns tiers in upgrade order: monthly → yearly → lifetime.
func AllTiers() []Tier {
	return []Tier{TierMonthly, TierYearly, TierLifetime}
}

// NextTier returns the next tier in the upgrade path, or ("", false) if t
// is already the terminal tier (lifetime).
func (t Tier) NextTier() (Tier, bool) {
	switch t {
	case TierMonthly:
		return TierYearly, true
	case TierYearly:
		return TierLifetime, true
	default:
		return "", false
	}
}

// TierMonthlyPrice is the amortized monthly revenue attribution per tier:
// monthly $49, yearly $39, lifetime $58.25 amortized (§4.6).
func TierMonthlyPrice(t Tier) float64 {
	switch t {
	case TierMonthly:
		return 49.0
	case TierYearly:
		return 39.0
	case TierLifetime:
		return 58.25
	default:
		return 0
	}
}

// TierDistribution is the fixed mix across tiers used when new users are
// allocated to the aggregate counters. Signup events use it as the default
// mix; the event generator replaces it with archetype-specific mixes for
// labels, enterprises and established artists.
func TierDistribution() map[Tier]float64 {
	return map[Tier]float64{
		TierMonthly:  0.65,
		TierYearly:   0.30,
		TierLifetime: 0.05,
	}
}

// WeightedAvgMonthlyRevenue returns the tier-mix-weighted average monthly
// revenue used when crediting bulk signups (§4.6).
func WeightedAvgMonthlyRevenue() float64 {
	var avg float64
	for tier, pct := range TierDistribution() {
		avg += pct * TierMonthlyPrice(tier)
	}
	return avg
}

// SimulatedUser is a fully materialized sample-pool member (§3). The
// aggregate-only population beyond MAX_SAMPLE_SIZE is represented purely
// by AggregateUsers counters, never by this struct.
type SimulatedUser struct {
	ID              string
	Archetype       Archetype
	Tier            Tier
	MonthlyRevenue  float64
	TotalStreams    int64
	TotalReleases   int64
	TotalFollowers  int64
	EngagementRate  float64
	ViralPotential  float64
	ChurnRisk       float64
	LastActiveAt    time.Time
	LifetimeValue   float64
	CreatedAt       time.Time
}

// IsActive reports whether the user was active within the last 7 days of
// simulated time, relative to `now`.
func (u SimulatedUser) IsActive(now time.Time) bool {
	return now.Sub(u.LastActiveAt) <= 7*24*time.Hour
}
