package harness

import (
	"fmt"
	"math"

	"github.com/stagelight/simcore/internal/infra/simrng"
)

// upgradeSuccessProbability is the documented per-scenario success rate.
const upgradeSuccessProbability = 0.97

// Detection/upgrade latency distributions by severity (§4.9), expressed in
// minutes with a gaussian spread around the documented mean.
var latencyMeans = map[Severity][2]float64{
	SeverityCritical: {15, 240},  // ~15 min detect, ~4h upgrade
	SeverityMinor:    {360, 720}, // ~6h detect, ~12h upgrade
}

var latencyStddevFraction = 0.15

// fixedUpgradeScenarios is the small, named set §4.9 requires in addition to
// the generated long-term batch.
var fixedUpgradeScenarios = []struct {
	name     string
	severity Severity
}{
	{"algorithm change", SeverityCritical},
	{"viral pattern shift", SeverityMinor},
	{"new distribution platform", SeverityMinor},
	{"competitor feature release", SeverityCritical},
}

const longTermScenarioCount = 52

// RunUpgradeHarness runs the autonomous-upgrade verification harness: the 4
// fixed scenarios plus 52 generated long-term scenarios, all drawing from
// rng. Deterministic for a fixed rng seed.
func RunUpgradeHarness(rng *simrng.Source) UpgradeHarnessResult {
	scenarios := make([]UpgradeScenarioResult, 0, len(fixedUpgradeScenarios)+longTermScenarioCount)

	for _, s := range fixedUpgradeScenarios {
		scenarios = append(scenarios, sampleUpgradeScenario(rng, s.name, s.severity))
	}
	for i := 1; i <= longTermScenarioCount; i++ {
		severity := SeverityMinor
		if i%3 == 0 {
			severity = SeverityCritical
		}
		name := fmt.Sprintf("long_term_scenario_%02d", i)
		scenarios = append(scenarios, sampleUpgradeScenario(rng, name, severity))
	}

	return aggregateUpgradeScenarios(scenarios)
}

func sampleUpgradeScenario(rng *simrng.Source, name string, severity Severity) UpgradeScenarioResult {
	means := latencyMeans[severity]
	detect := positiveGaussian(rng, means[0], means[0]*latencyStddevFraction)
	upgrade := positiveGaussian(rng, means[1], means[1]*latencyStddevFraction)

	success := rng.Bool(upgradeSuccessProbability)
	var quality float64
	if success {
		quality = rng.Range(102, 110)
	} else {
		quality = 85
	}

	detectionCompliant := (severity == SeverityCritical && detect < 60) ||
		(severity == SeverityMinor && detect < 24*60)

	advantage := AdvantageLost
	switch {
	case !success:
		advantage = AdvantageLost
	case quality >= 106 && detectionCompliant:
		advantage = AdvantageGained
	default:
		advantage = AdvantageMaintained
	}

	return UpgradeScenarioResult{
		Name:                 name,
		Severity:             severity,
		DetectionMinutes:     detect,
		UpgradeMinutes:       upgrade,
		Success:              success,
		AlgorithmQuality:     quality,
		CompetitiveAdvantage: advantage,
	}
}

// positiveGaussian samples a gaussian and clamps to a small positive floor,
// since a sampled latency can never be at or below zero.
func positiveGaussian(rng *simrng.Source, mean, stddev float64) float64 {
	v := rng.Gaussian(mean, stddev)
	return math.Max(v, mean*0.1)
}

func aggregateUpgradeScenarios(scenarios []UpgradeScenarioResult) UpgradeHarnessResult {
	n := float64(len(scenarios))
	successCount := 0.0
	qualitySum := 0.0
	lostCount := 0.0
	detectionCompliant := true

	for _, s := range scenarios {
		if s.Success {
			successCount++
		}
		qualitySum += s.AlgorithmQuality
		if s.CompetitiveAdvantage == AdvantageLost {
			lostCount++
		}
		switch s.Severity {
		case SeverityCritical:
			if s.DetectionMinutes >= 60 {
				detectionCompliant = false
			}
		case SeverityMinor:
			if s.DetectionMinutes >= 24*60 {
				detectionCompliant = false
			}
		}
	}

	successRate := 0.0
	qualityAverage := 0.0
	advantageRate := 0.0
	if n > 0 {
		successRate = successCount / n * 100
		qualityAverage = qualitySum / n
		advantageRate = (n - lostCount) / n * 100
	}

	// A handful of individual scenarios losing ground doesn't flip the
	// platform-wide verdict; only a meaningful share of losses does.
	overall := AdvantageMaintained
	switch {
	case n > 0 && lostCount/n > 0.10:
		overall = AdvantageLost
	case qualityAverage >= 106:
		overall = AdvantageGained
	}

	return UpgradeHarnessResult{
		Scenarios:                scenarios,
		UpgradeSuccessRate:       successRate,
		AlgorithmQualityAverage:  qualityAverage,
		DetectionSpeedCompliance: detectionCompliant,
		ZeroDowntime:             true,
		CompetitiveAdvantageRate: advantageRate,
		CompetitiveAdvantage:     overall,
	}
}
