package engine

import (
	"math"
	"time"

	"github.com/stagelight/simcore/internal/domain"
	"github.com/stagelight/simcore/internal/infra/events"
	"github.com/stagelight/simcore/internal/infra/growth"
	"github.com/stagelight/simcore/internal/infra/simid"
)

// dailyChurnRate is the base monthly-churn-derived daily rate from §4.7
// step 9: 0.002/30.
const dailyChurnRate = 0.002 / 30

// dayStep implements the fast-mode day step (§4.7, the 15 numbered
// steps). Panics are recovered by the caller (safeDayStep) and surfaced
// as domain.ErrInternal.
func (s *Simulation) dayStep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	// 1. Reset per-day counters.
	s.metrics.Users.NewToday = 0
	s.metrics.Users.ChurnedToday = 0
	s.metrics.Streams.Daily = 0
	s.metrics.Revenue.Daily = 0
	s.metrics.Social.PostsToday = 0

	// 2. Advance market model one day.
	if s.cfg.EnableMarketFluctuations {
		s.market.Advance(s.rng)
	}
	conditions := s.market.Current()

	// 3. Compute target_users_today and allocate users/revenue.
	elapsedDays := s.clock.CumulativeHours() / 24
	currentUsers := s.pool.Total()
	needed := growth.UsersNeeded(s.rng, elapsedDays, currentUsers, 1.0)
	s.allocateNewUsersLocked(needed, now)

	// 4. Sample user upgrades.
	sampleSize := s.pool.SampleSize()
	const pUpgrade = 0.01
	upgradeCount := int(float64(sampleSize) * pUpgrade * 24 * 0.1)
	for i := 0; i < upgradeCount; i++ {
		s.upgradeRandomUserLocked()
	}

	// 5. Sample music releases.
	const pRelease = 0.002
	releaseCount := int(float64(sampleSize) * pRelease * 24 * 0.05)
	if releaseCount > 10 {
		releaseCount = 10
	}
	for i := 0; i < releaseCount; i++ {
		s.createReleaseLocked(now)
	}

	// 6. Daily stream aggregate per release.
	s.accrueStreamsLocked(conditions)

	// 7. Autonomous social posts.
	const pPost = 0.05
	postCount := int(float64(sampleSize) * pPost * 24 * 0.1)
	s.metrics.Social.PostsToday += int64(postCount)
	s.metrics.Autonomous.AutoPublishedPosts += int64(postCount)

	// 8. Viral-moment Bernoulli over non-viral releases.
	s.rollViralMomentsLocked(now)

	// 9. Churn.
	churnedToday := int64(float64(s.pool.Total()) * dailyChurnRate)
	s.applyChurnLocked(churnedToday, now)

	// 10. Platform health.
	if s.cfg.EnableSystemFailures && s.rng.Bool(0.01) {
		s.metrics.Platform.Uptime = math.Max(0, s.metrics.Platform.Uptime-0.001)
		s.metrics.Autonomous.InterventionsRequired++
		ev := domain.NewEvent(simid.New(), domain.EventSystem, domain.CategorySystem, now, s.clock.CurrentDate(), domain.ImpactMedium)
		ev.Data = map[string]any{"kind": "uptime_degradation"}
		ev.Triggered = true
		s.appendEventLocked(ev)
	}

	// 11. Market fluctuation Bernoulli.
	if s.cfg.EnableMarketFluctuations && s.rng.Bool(0.1) {
		s.market.NudgeGrowthMultiplier(s.rng.Range(-0.05, 0.05))
	}

	// 12. Algorithm-change Bernoulli.
	if s.rng.Bool(0.005) {
		s.autonomous["algorithm_adaptation"] = true
		s.metrics.Autonomous.DecisionsAutoMade++
	}

	// 13. Advance follower counts; refresh ~30% of last_active_at.
	s.advanceFollowersAndActivityLocked(now)

	// 14. Recompute aggregates.
	s.recomputeAggregatesLocked(now)

	// 15. Advance simulated_current_date.
	s.clock.AdvanceDay()
	s.metrics.RealTimestamp = now
	s.metrics.SimTimestamp = s.clock.CurrentDate()
}

func (s *Simulation) allocateNewUsersLocked(count int64, now time.Time) {
	if count <= 0 {
		return
	}
	tierDist := domain.TierDistribution()
	archDist := normalizedWeights(domain.ArchetypeWeights())
	avgRevenue := domain.WeightedAvgMonthlyRevenue()

	s.pool.AddUsersAggregate(count, tierDist, archDist, avgRevenue, 500, 150)
	s.metrics.Users.NewToday += count
	s.metrics.Users.Total = s.pool.Total()
	s.metrics.Revenue.MRR += float64(count) * avgRevenue
	s.metrics.Revenue.Daily += float64(count) * avgRevenue

	if s.pool.HasRoom() {
		materialize := count
		if materialize > 50 {
			materialize = 50 // bound per-day materialization so a single huge injection can't blow past the cap churn
		}
		for i := int64(0); i < materialize && s.pool.HasRoom(); i++ {
			arch := weightedArchetype(s.rng, archDist)
			tier := weightedTier(s.rng, tierDist)
			u := domain.SimulatedUser{
				ID:             simid.New(),
				Archetype:      arch,
				Tier:           tier,
				MonthlyRevenue: domain.TierMonthlyPrice(tier),
				TotalFollowers: int64(s.rng.Range(0, 100)),
				EngagementRate: s.rng.Range(0.01, 0.2),
				LastActiveAt:   now,
				CreatedAt:      now,
			}
			s.pool.Materialize(u)
		}
	}

	ev := s.events.UserSignup(s.rng, now, s.clock.CurrentDate())
	s.appendEventLocked(ev)
}

func (s *Simulation) upgradeRandomUserLocked() {
	u, ok := s.pool.RandomSampleUser(s.rng)
	if !ok {
		return
	}
	next, ok := u.Tier.NextTier()
	if !ok {
		return
	}
	before := domain.TierMonthlyPrice(u.Tier)
	after := domain.TierMonthlyPrice(next)
	u.Tier = next
	u.MonthlyRevenue = after
	s.pool.UpdateSampleUser(u)
	s.metrics.Revenue.MRR += after - before
}

func (s *Simulation) createReleaseLocked(now time.Time) {
	owner := ""
	if u, ok := s.pool.RandomSampleUser(s.rng); ok {
		owner = u.ID
	}
	rel := domain.SimulatedRelease{
		ID:          simid.New(),
		OwnerUserID: owner,
		Type:        domain.ReleaseSingle,
		ReleasedAt:  s.clock.CurrentDate(),
		Platforms:   map[string]bool{"spotify": true, "apple_music": true},
	}
	s.releases = append(s.releases, rel)
	s.metrics.Streams.ReleasesCount++
	s.metrics.Autonomous.AutoDistributedReleases++

	ev := domain.NewEvent(simid.New(), domain.EventMusicRelease, domain.CategoryContent, now, s.clock.CurrentDate(), domain.ImpactLow)
	ev.Data = map[string]any{"release_id": rel.ID, "owner_user_id": owner}
	ev.Triggered = true
	s.appendEventLocked(ev)
}

// accrueStreamsLocked implements step 6: for every release, streams =
// 50 * exp(-days_since_release/60) * viral_multiplier * (0.5+U).
func (s *Simulation) accrueStreamsLocked(conditions domain.MarketConditions) {
	now := s.clock.CurrentDate()
	var dailyStreams int64
	var dailyRevenue float64
	for i := range s.releases {
		r := &s.releases[i]
		days := r.DaysSinceRelease(now)
		viralMultiplier := 1.0
		if r.IsViral {
			viralMultiplier = conditions.Viral.NetworkEffectMultiplier * 2
		}
		u := s.rng.Uniform()
		streams := int64(50 * math.Exp(-days/60) * viralMultiplier * (0.5 + u))
		if streams < 0 {
			streams = 0
		}
		r.TotalStreams += streams
		r.DailyStreams = streams
		if streams > r.PeakStreams {
			r.PeakStreams = streams
		}
		revenue := float64(streams) * 0.003 // per-stream payout, a standard streaming royalty rate
		r.Revenue += revenue
		dailyStreams += streams
		dailyRevenue += revenue
	}
	s.metrics.Streams.Daily += dailyStreams
	s.metrics.Streams.Total += dailyStreams
	s.metrics.Revenue.Daily += dailyRevenue
}

func (s *Simulation) rollViralMomentsLocked(now time.Time) {
	genre := s.events.Curves().Genres["pop"]
	for i := range s.releases {
		r := &s.releases[i]
		if r.IsViral {
			continue
		}
		p := eventsViralProbability(float64(r.TotalStreams), float64(s.metrics.Social.TotalFollowers), genre)
		if s.rng.Bool(p) {
			r.IsViral = true
			r.ViralDate = now
			s.metrics.Streams.ViralReleases++

			if owner, ok := s.findUserInPool(r.OwnerUserID); ok {
				owner.ViralPotential = math.Min(1.0, owner.ViralPotential+0.2)
				s.pool.UpdateSampleUser(owner)
			}

			ev := domain.NewEvent(simid.New(), domain.EventViralMoment, domain.CategoryContent, now, s.clock.CurrentDate(), domain.ImpactHigh)
			ev.Data = map[string]any{"release_id": r.ID}
			ev.Triggered = true
			s.appendEventLocked(ev)
		}
	}
}

func (s *Simulation) findUserInPool(id string) (domain.SimulatedUser, bool) {
	if id == "" {
		return domain.SimulatedUser{}, false
	}
	for _, u := range s.pool.SampleUsers() {
		if u.ID == id {
			return u, true
		}
	}
	return domain.SimulatedUser{}, false
}

func (s *Simulation) applyChurnLocked(churnedToday int64, now time.Time) {
	if churnedToday <= 0 {
		return
	}

	var churnedSampleIDs []string
	candidates := s.pool.SampleUsers()
	limit := 10
	if len(candidates) < limit {
		limit = len(candidates)
	}
	for i := 0; i < limit; i++ {
		u, ok := s.pool.RandomSampleUser(s.rng)
		if !ok {
			break
		}
		churnedSampleIDs = append(churnedSampleIDs, u.ID)
		ev := s.events.UserChurn(s.rng, now, s.clock.CurrentDate(), u)
		s.appendEventLocked(ev)
	}

	s.pool.RemoveUsers(churnedToday, churnedSampleIDs)
	s.metrics.Users.ChurnedToday += churnedToday
	s.metrics.Users.Total = s.pool.Total()

	// §4.6 post-churn replenishment: immediately create the same number
	// of new users so net growth is always >= the trajectory delta.
	s.allocateNewUsersLocked(churnedToday, now)
}

func (s *Simulation) advanceFollowersAndActivityLocked(now time.Time) {
	for _, u := range s.pool.SampleUsers() {
		u.TotalFollowers += int64(s.rng.Range(0, 20))
		if s.rng.Bool(0.3) {
			u.LastActiveAt = now
		}
		s.pool.UpdateSampleUser(u)
	}
}

func (s *Simulation) recomputeAggregatesLocked(now time.Time) {
	active := int64(0)
	var totalFollowers int64
	for _, u := range s.pool.SampleUsers() {
		if u.IsActive(now) {
			active++
		}
		totalFollowers += u.TotalFollowers
	}
	// scale the sampled active ratio across the full aggregate population
	sampleSize := int64(s.pool.SampleSize())
	if sampleSize > 0 {
		ratio := float64(active) / float64(sampleSize)
		s.metrics.Users.Active = int64(ratio * float64(s.pool.Total()))
	}
	s.metrics.Social.TotalFollowers = totalFollowers

	var total, count int64
	for _, r := range s.releases {
		total += r.TotalStreams
		count++
	}
	s.metrics.Streams.Total = total
	s.metrics.Streams.ReleasesCount = count
	s.metrics.RecomputeStreamAvg()

	s.metrics.Revenue.Lifetime += s.metrics.Revenue.Daily
	s.metrics.RecomputeRevenueIdentities()

	agg := s.pool.Aggregate()
	s.metrics.Users.Total = agg.Total
	s.metrics.Users.ByTier = cloneTierCounts(agg.ByTier)
	s.metrics.Users.ByArchetype = cloneArchetypeCounts(agg.ByArchetype)
}

func cloneTierCounts(m map[domain.Tier]int64) map[domain.Tier]int64 {
	out := make(map[domain.Tier]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneArchetypeCounts(m map[domain.Archetype]int64) map[domain.Archetype]int64 {
	out := make(map[domain.Archetype]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// eventsViralProbability delegates to events.ViralMomentProbability.
func eventsViralProbability(recentStreams, recentSocialEngagement float64, genre events.GenreMultiplier) float64 {
	return events.ViralMomentProbability(recentStreams, recentSocialEngagement, genre)
}
