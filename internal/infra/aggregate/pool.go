// Package aggregate implements bounded population storage (§4.3): a
// capped in-memory sample pool of full SimulatedUser objects plus cohort
// counters for everyone beyond the cap, so a population of millions can
// be represented in O(sample size) memory.
//
// The sample pool's capacity-bounded, LRU-flavored admission policy is
// grounded on the teacher's model pool (internal/infra/engine/pool.go):
// the same map-plus-doubly-linked-list shape, repointed from "evict the
// least-recently-used loaded model when memory is full" to "evict the
// least-recently-active user when the sample cap is full" — except here
// eviction demotes a user into the cohort counters rather than closing a
// resource, since the population itself never shrinks from the eviction.
package aggregate

import (
	"container/list"
	"sync"

	"github.com/stagelight/simcore/internal/domain"
	"github.com/stagelight/simcore/internal/infra/simrng"
)

// Pool holds the live sample of materialized users plus cohort counters
// representing the remainder of the population.
type Pool struct {
	mu sync.Mutex

	cap int

	sample map[string]*list.Element // user id -> lru element
	lru    *list.List               // front = most recently touched

	agg domain.AggregateUsers
}

// New constructs a Pool with the given sample-pool capacity.
func New(capacity int) *Pool {
	return &Pool{
		cap:    capacity,
		sample: make(map[string]*list.Element),
		lru:    list.New(),
		agg:    domain.NewAggregateUsers(),
	}
}

// SampleSize returns the number of fully materialized users currently
// held in the sample pool.
func (p *Pool) SampleSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lru.Len()
}

// Aggregate returns a deep copy of the cohort counters (invariant:
// these counters cover the full population, sample pool included).
func (p *Pool) Aggregate() domain.AggregateUsers {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.agg.Clone()
}

// Total returns the total population size across sample and aggregate.
func (p *Pool) Total() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.agg.Total
}

// Touch moves a sampled user to the front of the LRU list, marking it
// most-recently-active. No-op if the user isn't in the sample pool.
func (p *Pool) Touch(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if el, ok := p.sample[id]; ok {
		p.lru.MoveToFront(el)
	}
}

// Materialize admits a full SimulatedUser into the sample pool, evicting
// the least-recently-active sampled user (demoting them to aggregate-only
// representation) if the pool is at capacity. It does not touch the
// aggregate counters — callers that are materializing a brand-new signup
// must also call AddUsersAggregate for the cohort bookkeeping.
func (p *Pool) Materialize(u domain.SimulatedUser) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.materializeLocked(u)
}

func (p *Pool) materializeLocked(u domain.SimulatedUser) {
	if p.cap > 0 && p.lru.Len() >= p.cap {
		p.evictOneLocked()
	}
	el := p.lru.PushFront(u)
	p.sample[u.ID] = el
}

// evictOneLocked demotes the least-recently-active sampled user back to
// aggregate-only representation. Must be called with the lock held.
func (p *Pool) evictOneLocked() {
	back := p.lru.Back()
	if back == nil {
		return
	}
	u := back.Value.(domain.SimulatedUser)
	p.lru.Remove(back)
	delete(p.sample, u.ID)
}

// HasRoom reports whether the sample pool has spare capacity.
func (p *Pool) HasRoom() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cap <= 0 || p.lru.Len() < p.cap
}

// distributeExact splits total across dist's keys proportionally to their
// share, flooring each bucket, then credits the flooring remainder to the
// bucket with the largest share (ties broken by the smaller key, so the
// split is reproducible run over run) so the returned counts always sum to
// exactly total.
func distributeExact[K ~string](total int64, dist map[K]float64) map[K]int64 {
	out := make(map[K]int64, len(dist))
	if len(dist) == 0 {
		return out
	}

	var sum int64
	var bestKey K
	bestPct := -1.0
	haveBest := false
	for k, pct := range dist {
		n := int64(float64(total) * pct)
		out[k] = n
		sum += n
		if !haveBest || pct > bestPct || (pct == bestPct && k < bestKey) {
			bestKey, bestPct, haveBest = k, pct, true
		}
	}
	out[bestKey] += total - sum
	return out
}

// AddUsersAggregate implements §4.3 add_users_aggregate: increments total
// and per-tier/per-archetype counters by count*pct (exact, with the
// flooring remainder reconciled via distributeExact so the per-bucket sums
// never drift from Total), adds count*avgRevenue to total revenue, and
// refreshes the average fields. This function only updates counters; a
// caller that also wants some of the new users in the sample pool builds
// them as full SimulatedUser objects from the same distributions and adds
// them with Materialize, so the two stay consistent.
func (p *Pool) AddUsersAggregate(count int64, tierDist map[domain.Tier]float64, archDist map[domain.Archetype]float64, avgRevenue float64, avgStreams, avgFollowers float64) {
	if count <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.agg.Total += count
	for tier, n := range distributeExact(count, tierDist) {
		p.agg.ByTier[tier] += n
	}
	for arch, n := range distributeExact(count, archDist) {
		p.agg.ByArchetype[arch] += n
	}

	p.agg.TotalRevenue += float64(count) * avgRevenue
	p.agg.TotalStreams += int64(float64(count) * avgStreams)
	p.agg.TotalFollowers += int64(float64(count) * avgFollowers)
	p.refreshAveragesLocked()
}

// RemoveUsers implements §4.3 remove_users: distributes churn
// proportionally across tiers and archetypes based on the pre-churn
// share, clamped at zero, and evicts churned users from the sample pool
// by id when supplied.
func (p *Pool) RemoveUsers(count int64, churnedSampleIDs []string) {
	if count <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	preTotal := p.agg.Total
	if preTotal <= 0 {
		return
	}

	tierShares := make(map[domain.Tier]float64, len(p.agg.ByTier))
	for tier, n := range p.agg.ByTier {
		tierShares[tier] = float64(n) / float64(preTotal)
	}
	for tier, dec := range distributeExact(count, tierShares) {
		p.agg.ByTier[tier] = max0(p.agg.ByTier[tier] - dec)
	}

	archShares := make(map[domain.Archetype]float64, len(p.agg.ByArchetype))
	for arch, n := range p.agg.ByArchetype {
		archShares[arch] = float64(n) / float64(preTotal)
	}
	for arch, dec := range distributeExact(count, archShares) {
		p.agg.ByArchetype[arch] = max0(p.agg.ByArchetype[arch] - dec)
	}

	p.agg.Total = max0(preTotal - count)
	revenueShare := float64(count) / float64(preTotal)
	p.agg.TotalRevenue = maxf0(p.agg.TotalRevenue * (1 - revenueShare))
	p.agg.TotalStreams = max0(p.agg.TotalStreams - int64(float64(p.agg.TotalStreams)*revenueShare))
	p.agg.TotalFollowers = max0(p.agg.TotalFollowers - int64(float64(p.agg.TotalFollowers)*revenueShare))
	p.refreshAveragesLocked()

	for _, id := range churnedSampleIDs {
		if el, ok := p.sample[id]; ok {
			p.lru.Remove(el)
			delete(p.sample, id)
		}
	}
}

func (p *Pool) refreshAveragesLocked() {
	if p.agg.Total > 0 {
		p.agg.AvgRevenue = p.agg.TotalRevenue / float64(p.agg.Total)
		p.agg.AvgStreams = float64(p.agg.TotalStreams) / float64(p.agg.Total)
		p.agg.AvgFollowers = float64(p.agg.TotalFollowers) / float64(p.agg.Total)
	} else {
		p.agg.AvgRevenue, p.agg.AvgStreams, p.agg.AvgFollowers = 0, 0, 0
	}
}

// SampleUsers returns a snapshot slice of every materialized user,
// most-recently-active first.
func (p *Pool) SampleUsers() []domain.SimulatedUser {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.SimulatedUser, 0, p.lru.Len())
	for e := p.lru.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(domain.SimulatedUser))
	}
	return out
}

// RandomSampleUser returns a uniformly random materialized user, or false
// if the sample pool is empty. Used by operations that need a concrete
// user to mutate (e.g. tier upgrades).
func (p *Pool) RandomSampleUser(rng *simrng.Source) (domain.SimulatedUser, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := p.lru.Len()
	if n == 0 {
		return domain.SimulatedUser{}, false
	}
	idx := rng.IntRange(0, n)
	i := 0
	for e := p.lru.Front(); e != nil; e = e.Next() {
		if i == idx {
			return e.Value.(domain.SimulatedUser), true
		}
		i++
	}
	return domain.SimulatedUser{}, false
}

// UpdateSampleUser replaces a materialized user's stored value (e.g.
// after a tier upgrade) and moves it to the front of the LRU list.
func (p *Pool) UpdateSampleUser(u domain.SimulatedUser) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if el, ok := p.sample[u.ID]; ok {
		el.Value = u
		p.lru.MoveToFront(el)
	}
}

func max0(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

func maxf0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
