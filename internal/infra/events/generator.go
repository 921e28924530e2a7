// Package events samples the typed event stream (§4.4): signups, churn,
// streams, viral moments, payments, social posts, market events, and
// system events, each modulated by the seasonal/day-of-week/hour-of-day
// curves and genre/platform multipliers in curves.go. It is grounded on
// the teacher's engagement package (internal/app/engagement, streak and
// activity-event shaping) for the idea of probability-weighted event
// sampling driven by lookup tables, generalized here to the full event
// taxonomy the simulation needs.
package events

import (
	"math"
	"time"

	"github.com/stagelight/simcore/internal/domain"
	"github.com/stagelight/simcore/internal/infra/simid"
	"github.com/stagelight/simcore/internal/infra/simrng"
)

// Generator samples events for a single simulated instant.
type Generator struct {
	curves Curves
}

// New constructs a Generator with the given modulation curves.
func New(curves Curves) *Generator {
	return &Generator{curves: curves}
}

// Curves exposes the generator's modulation curves to callers (the
// engine consults Genres directly when shaping stream and
// viral-moment math outside the generator's own helper methods).
func (g *Generator) Curves() Curves { return g.curves }

// archetypeWeights is the fixed distribution from §4.4.
var archetypeWeights = domain.ArchetypeWeights()

var signupSources = map[string]float64{
	"organic":  0.45,
	"referral": 0.20,
	"paid_ad":  0.20,
	"social":   0.10,
	"press":    0.05,
}

var churnReasons = map[string]float64{
	"price":       0.25,
	"competition": 0.20,
	"features":    0.15,
	"inactivity":  0.25,
	"support":     0.08,
	"other":       0.07,
}

var paymentMethods = map[string]float64{
	"card":   0.60,
	"paypal": 0.20,
	"apple":  0.12,
	"google": 0.08,
}

var socialContentTypes = map[string]float64{
	"image": 0.35,
	"video": 0.25,
	"story": 0.20,
	"reel":  0.15,
	"text":  0.05,
}

// UserSignup samples a user_signup event (§4.4).
func (g *Generator) UserSignup(rng *simrng.Source, realTime, simTime time.Time) domain.SimulationEvent {
	arch := weightedKey(rng, archetypeWeights)
	tier := weightedTierForArchetype(rng, arch)
	source := weightedKey(rng, signupSources)
	ltv := domain.TierMonthlyPrice(tier) * 12

	ev := domain.NewEvent(simid.New(), domain.EventUserSignup, domain.CategoryUser, realTime, simTime, domain.ImpactLow)
	ev.Data = map[string]any{
		"archetype":    string(arch),
		"tier":         string(tier),
		"source":       source,
		"expected_ltv": ltv,
	}
	ev.Triggered = true
	return ev
}

func weightedTierForArchetype(rng *simrng.Source, arch domain.Archetype) domain.Tier {
	dist := domain.TierDistribution()
	switch arch {
	case domain.ArchetypeEnterprise, domain.ArchetypeLabel:
		dist = map[domain.Tier]float64{domain.TierYearly: 0.4, domain.TierLifetime: 0.6}
	case domain.ArchetypeEstablishedArtist:
		dist = map[domain.Tier]float64{domain.TierMonthly: 0.4, domain.TierYearly: 0.45, domain.TierLifetime: 0.15}
	}
	return weightedKey(rng, dist)
}

// ChurnProbability computes churn probability for a user (§4.4):
// (base monthly churn / 30) × risk multiplier × tier multiplier, capped
// at 0.5.
func ChurnProbability(baseMonthlyChurn, riskMultiplier float64, tier domain.Tier) float64 {
	tierMultiplier := 1.0
	switch tier {
	case domain.TierYearly:
		tierMultiplier = 0.6
	case domain.TierLifetime:
		tierMultiplier = 0.1
	}
	p := (baseMonthlyChurn / 30) * riskMultiplier * tierMultiplier
	return math.Min(p, 0.5)
}

// UserChurn samples a user_churn event for a user already selected for
// churn by the caller (the engine picks sampled users at random and does
// not draw against ChurnProbability; this just shapes the event).
func (g *Generator) UserChurn(rng *simrng.Source, realTime, simTime time.Time, u domain.SimulatedUser) domain.SimulationEvent {
	reason := weightedKey(rng, churnReasons)
	ev := domain.NewEvent(simid.New(), domain.EventUserChurn, domain.CategoryUser, realTime, simTime, domain.ImpactMedium)
	ev.Data = map[string]any{
		"user_id": u.ID,
		"tier":    string(u.Tier),
		"reason":  reason,
	}
	ev.Triggered = true
	return ev
}

// ExpectedStreamsPerMinute computes the decayed, possibly viral-boosted
// stream rate for a release (§4.4): exponential decay with ~30-day
// half-life, compounded by a viral multiplier when applicable.
func ExpectedStreamsPerMinute(baseRate, daysSinceRelease float64, genre GenreMultiplier, isViral bool) float64 {
	const halfLife = 30.0
	decay := math.Pow(0.5, daysSinceRelease/halfLife)
	rate := baseRate * decay * genre.Streams
	if isViral {
		rate *= 3.0
	}
	return rate
}

// StreamEvent samples a stream_event for a release on a given platform.
func (g *Generator) StreamEvent(rng *simrng.Source, realTime, simTime time.Time, release domain.SimulatedRelease, platform string) domain.SimulationEvent {
	genre := g.curves.Genres["pop"]
	platMult := g.curves.Platforms[platform]
	expected := ExpectedStreamsPerMinute(10, release.DaysSinceRelease(simTime), genre, release.IsViral) * platMult.StreamMultiplier

	streams := int64(rng.Range(expected*0.5, expected*1.5))
	if streams < 0 {
		streams = 0
	}

	ev := domain.NewEvent(simid.New(), domain.EventStream, domain.CategoryContent, realTime, simTime, domain.ImpactLow)
	ev.Data = map[string]any{
		"release_id": release.ID,
		"platform":   platform,
		"streams":    streams,
	}
	ev.Triggered = streams > 0
	return ev
}

// ViralMomentProbability scales by recent streams, recent social
// engagement and the genre's viral factor (§4.4).
func ViralMomentProbability(recentStreams float64, recentSocialEngagement float64, genre GenreMultiplier) float64 {
	base := math.Min(1.0, recentStreams/1_000_000) * 0.02
	base += math.Min(1.0, recentSocialEngagement/100_000) * 0.01
	return math.Min(0.1, base*genre.Viral)
}

// ViralMoment samples a viral_moment event, triggering it against the
// supplied probability.
func (g *Generator) ViralMoment(rng *simrng.Source, realTime, simTime time.Time, release domain.SimulatedRelease, probability float64) domain.SimulationEvent {
	triggered := rng.Bool(probability)
	ev := domain.NewEvent(simid.New(), domain.EventViralMoment, domain.CategoryContent, realTime, simTime, domain.ImpactHigh)
	ev.Data = map[string]any{
		"release_id": release.ID,
	}
	ev.Triggered = triggered
	ev.Probability = probability
	return ev
}

// PaymentEvent samples a payment_received or payment_failed event
// (failure rate ~2%, method weighted).
func (g *Generator) PaymentEvent(rng *simrng.Source, realTime, simTime time.Time, u domain.SimulatedUser, amount float64) domain.SimulationEvent {
	failed := rng.Bool(0.02)
	method := weightedKey(rng, paymentMethods)

	typ := domain.EventPaymentRecv
	impact := domain.ImpactLow
	if failed {
		typ = domain.EventPaymentFailed
		impact = domain.ImpactMedium
	}

	ev := domain.NewEvent(simid.New(), typ, domain.CategoryFinancial, realTime, simTime, impact)
	ev.Data = map[string]any{
		"user_id": u.ID,
		"amount":  amount,
		"method":  method,
	}
	ev.Triggered = true
	return ev
}

// SocialPostProbability scales a base per-user posting probability by
// the seasonal/day/hour social activity modifiers.
func (g *Generator) SocialPostProbability(base float64, month time.Month, weekday time.Weekday, hour int) float64 {
	return base *
		g.curves.SeasonalSocialActivity[int(month)-1] *
		g.curves.DOWSocialActivity[int(weekday)] *
		g.curves.HourSocialActivity[hour%24]
}

// SocialPost samples a social_post event for a user.
func (g *Generator) SocialPost(rng *simrng.Source, realTime, simTime time.Time, u domain.SimulatedUser, viralThreshold float64) domain.SimulationEvent {
	contentType := weightedKey(rng, socialContentTypes)
	estimatedEngagement := rng.Range(0, float64(u.TotalFollowers)*0.2+1)
	isViral := estimatedEngagement > viralThreshold

	ev := domain.NewEvent(simid.New(), domain.EventSocialPost, domain.CategorySocial, realTime, simTime, domain.ImpactLow)
	ev.Data = map[string]any{
		"user_id":      u.ID,
		"content_type": contentType,
		"is_viral":     isViral,
		"engagement":   estimatedEngagement,
	}
	ev.Triggered = true
	return ev
}

var marketEventBaseProbability = map[string]float64{
	"algorithm_change":  0.002,
	"competitor_launch": 0.001,
	"industry_trend":    0.003,
	"regulation":        0.0008,
	"economic":          0.0015,
}

// MarketEvent samples a market_event, drawing impact in [-0.20, 0.20]
// and duration in [7, 90] simulated days.
func (g *Generator) MarketEvent(rng *simrng.Source, realTime, simTime time.Time) (domain.SimulationEvent, bool) {
	kind := weightedKey(rng, marketEventBaseProbability)
	if !rng.Bool(marketEventBaseProbability[kind] * 100) {
		return domain.SimulationEvent{}, false
	}

	impact := rng.Range(-0.20, 0.20)
	duration := rng.IntRange(7, 91)

	ev := domain.NewEvent(simid.New(), domain.EventMarket, domain.CategoryMarket, realTime, simTime, impactFromMagnitude(math.Abs(impact)))
	ev.Data = map[string]any{
		"kind":            kind,
		"impact":          impact,
		"duration_days":   duration,
	}
	ev.Triggered = true
	return ev, true
}

var systemEventKinds = []string{
	"high_load", "database_slow", "queue_backlog", "memory_pressure",
	"api_error_spike", "third_party_outage", "security_alert",
}

// SystemEvent samples a system_event with a random severity; impact
// tier is derived from severity thresholds (§4.4).
func (g *Generator) SystemEvent(rng *simrng.Source, realTime, simTime time.Time) domain.SimulationEvent {
	kind := systemEventKinds[rng.IntRange(0, len(systemEventKinds))]
	severity := rng.Uniform()

	ev := domain.NewEvent(simid.New(), domain.EventSystem, domain.CategorySystem, realTime, simTime, impactFromSeverity(severity))
	ev.Data = map[string]any{
		"kind":     kind,
		"severity": severity,
	}
	ev.Triggered = true
	return ev
}

func impactFromSeverity(severity float64) domain.Impact {
	switch {
	case severity > 0.95:
		return domain.ImpactCritical
	case severity > 0.80:
		return domain.ImpactHigh
	case severity > 0.50:
		return domain.ImpactMedium
	default:
		return domain.ImpactLow
	}
}

func impactFromMagnitude(magnitude float64) domain.Impact {
	switch {
	case magnitude > 0.15:
		return domain.ImpactHigh
	case magnitude > 0.08:
		return domain.ImpactMedium
	default:
		return domain.ImpactLow
	}
}

// weightedKey draws a key from a map[string]float64 (or map[K]float64)
// of weights with a deterministic, sorted-key iteration so results don't
// depend on Go's randomized map order.
func weightedKey[K comparable](rng *simrng.Source, weights map[K]float64) K {
	keys := make([]K, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	sortKeysDeterministic(keys)
	k, _ := simrng.WeightedChoiceKeys(rng, keys, weights)
	return k
}
