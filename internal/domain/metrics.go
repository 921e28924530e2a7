package domain

import "time"

// UserMetrics is the users section of SystemMetrics.
type UserMetrics struct {
	Total       int64
	Active      int64
	NewToday    int64
	ChurnedToday int64
	ByTier      map[Tier]int64
	ByArchetype map[Archetype]int64
}

func newUserMetrics() UserMetrics {
	return UserMetrics{
		ByTier:      make(map[Tier]int64),
		ByArchetype: make(map[Archetype]int64),
	}
}

func (u UserMetrics) clone() UserMetrics {
	out := u
	out.ByTier = make(map[Tier]int64, len(u.ByTier))
	for k, v := range u.ByTier {
		out.ByTier[k] = v
	}
	out.ByArchetype = make(map[Archetype]int64, len(u.ByArchetype))
	for k, v := range u.ByArchetype {
		out.ByArchetype[k] = v
	}
	return out
}

// RevenueMetrics is the revenue section of SystemMetrics.
type RevenueMetrics struct {
	Daily    float64
	Monthly  float64 // == MRR
	Yearly   float64 // == MRR * 12 (invariant I4)
	Lifetime float64
	MRR      float64
	ARR      float64
}

// StreamMetrics is the streams section of SystemMetrics.
type StreamMetrics struct {
	Daily         int64
	Monthly       int64
	Total         int64
	AvgPerRelease float64
	ViralReleases int64
	ReleasesCount int64
}

// SocialMetrics is the social section of SystemMetrics.
type SocialMetrics struct {
	PostsToday     int64
	EngagementRate float64
	TotalFollowers int64
	ViralPosts     int64
}

// PlatformMetrics is the platform-health section of SystemMetrics.
type PlatformMetrics struct {
	Uptime          float64 // percent, 0..100 (invariant I6)
	ResponseTimeMs  float64
	ErrorRate       float64 // 0..1 (invariant I6)
	ActiveWorkflows int64
	QueueBacklog    int64
}

// AutonomousMetrics tracks autopilot activity and how often a human had to
// step in.
type AutonomousMetrics struct {
	AutoPublishedPosts    int64
	AutoLaunchedCampaigns int64
	AutoDistributedReleases int64
	DecisionsAutoMade     int64
	InterventionsRequired int64
}

// SystemMetrics is the full per-step metrics block (§3).
type SystemMetrics struct {
	Users      UserMetrics
	Revenue    RevenueMetrics
	Streams    StreamMetrics
	Social     SocialMetrics
	Platform   PlatformMetrics
	Autonomous AutonomousMetrics

	RealTimestamp time.Time
	SimTimestamp  time.Time
}

// NewSystemMetrics returns a zeroed metrics block with platform uptime
// initialized to a healthy default.
func NewSystemMetrics() SystemMetrics {
	return SystemMetrics{
		Users:    newUserMetrics(),
		Platform: PlatformMetrics{Uptime: 100.0, ErrorRate: 0},
	}
}

// Clone returns a deep copy for snapshot immutability (invariant: snapshot
// immutability).
func (m SystemMetrics) Clone() SystemMetrics {
	out := m
	out.Users = m.Users.clone()
	return out
}

// RecomputeRevenueIdentities enforces invariant I4 (ARR == MRR*12) and
// keeps Monthly mirrored to MRR.
func (m *SystemMetrics) RecomputeRevenueIdentities() {
	m.Revenue.Monthly = m.Revenue.MRR
	m.Revenue.Yearly = m.Revenue.MRR * 12
	m.Revenue.ARR = m.Revenue.Yearly
}

// RecomputeStreamAvg enforces invariant I5: avg_per_release * count ==
// total when count > 0, else avg == 0.
func (m *SystemMetrics) RecomputeStreamAvg() {
	if m.Streams.ReleasesCount > 0 {
		m.Streams.AvgPerRelease = float64(m.Streams.Total) / float64(m.Streams.ReleasesCount)
	} else {
		m.Streams.AvgPerRelease = 0
	}
}
