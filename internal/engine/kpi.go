package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/stagelight/simcore/internal/domain"
)

// DeriveKPIs implements §4.8 KPI derivation at completion.
func DeriveKPIs(cfg domain.Config, m domain.SystemMetrics, eventLog []domain.SimulationEvent) domain.KPIBlock {
	initialUsers := float64(cfg.InitialUsers)
	finalUsers := float64(m.Users.Total)

	userGrowthRate := 0.0
	if initialUsers > 0 {
		userGrowthRate = (finalUsers - initialUsers) / initialUsers * 100
	}

	var churnEvents, signupEvents int64
	for _, ev := range eventLog {
		switch ev.Type {
		case domain.EventUserChurn:
			churnEvents++
		case domain.EventUserSignup:
			signupEvents++
		}
	}
	churnRate := 0.0
	denom := initialUsers + float64(signupEvents)
	if denom > 0 {
		churnRate = float64(churnEvents) / denom * 100
	}

	ltv := m.Revenue.Lifetime / math.Max(1, finalUsers)
	const cac = 50.0

	viralCoefficient := 0.0
	if m.Streams.ReleasesCount > 0 {
		viralCoefficient = float64(m.Streams.ViralReleases) / float64(m.Streams.ReleasesCount) * 10
	}

	nps := 50 + userGrowthRate/10 - churnRate*2

	autonomousEfficiency := 100.0
	if m.Autonomous.DecisionsAutoMade > 0 {
		autonomousEfficiency = float64(m.Autonomous.DecisionsAutoMade-m.Autonomous.InterventionsRequired) / float64(m.Autonomous.DecisionsAutoMade) * 100
	}

	return domain.KPIBlock{
		UserGrowthRate:       userGrowthRate,
		RevenueGrowthRate:    userGrowthRate, // revenue tracks user growth absent a separate baseline (§4.8 doesn't define a distinct formula)
		ChurnRate:            churnRate,
		LTV:                  ltv,
		CAC:                  cac,
		ViralCoefficient:     viralCoefficient,
		NPS:                  nps,
		SystemUptime:         m.Platform.Uptime,
		AutonomousEfficiency: autonomousEfficiency,
	}
}

// RunSystemTests implements §4.8 system tests.
func RunSystemTests(cfg domain.Config, m domain.SystemMetrics) domain.SystemTestTally {
	var tally domain.SystemTestTally

	record := func(pass, warn bool, criticalMsg string) {
		switch {
		case pass:
			tally.Passed++
		case warn:
			tally.Warnings++
		default:
			tally.Failed++
			if criticalMsg != "" {
				tally.CriticalIssues = append(tally.CriticalIssues, criticalMsg)
			}
		}
	}

	record(m.Users.Total > cfg.InitialUsers, false, "")

	record(m.Revenue.MRR > float64(cfg.InitialUsers)*5, false, "")

	switch {
	case m.Platform.Uptime > 99.5:
		record(true, false, "")
	case m.Platform.Uptime > 99:
		record(false, true, "")
	default:
		record(false, false, "uptime below 99%")
	}

	switch {
	case m.Platform.ErrorRate < 0.01:
		record(true, false, "")
	case m.Platform.ErrorRate < 0.05:
		record(false, true, "")
	default:
		record(false, false, "error rate above 5%")
	}

	autonomousOK := m.Autonomous.InterventionsRequired == 0
	if m.Autonomous.DecisionsAutoMade > 0 {
		autonomousOK = float64(m.Autonomous.InterventionsRequired) < 0.1*float64(m.Autonomous.DecisionsAutoMade)
	}
	record(autonomousOK, false, "")

	churnRate := DeriveKPIs(cfg, m, nil).ChurnRate
	switch {
	case churnRate < 5:
		record(true, false, "")
	case churnRate < 10:
		record(false, true, "")
	default:
		record(false, false, "churn above 10%")
	}

	ltvCac := DeriveKPIs(cfg, m, nil).LTV / DeriveKPIs(cfg, m, nil).CAC
	switch {
	case ltvCac > 3:
		record(true, false, "")
	case ltvCac > 1:
		record(false, true, "")
	default:
		record(false, false, "ltv/cac below 1")
	}

	return tally
}

// Recommendations emits deterministic strings when a metric crosses its
// threshold (§4.8).
func Recommendations(kpis domain.KPIBlock, tests domain.SystemTestTally) []string {
	var recs []string
	if kpis.ChurnRate > 10 {
		recs = append(recs, "Churn rate exceeds 10%; investigate retention levers for at-risk tiers.")
	}
	if kpis.LTV/kpis.CAC < 1 {
		recs = append(recs, "LTV/CAC ratio below 1; acquisition spend is not covering lifetime value.")
	}
	if kpis.SystemUptime < 99 {
		recs = append(recs, "Platform uptime below 99%; prioritize reliability work before further growth initiatives.")
	}
	if kpis.ViralCoefficient < 1 {
		recs = append(recs, "Viral coefficient below 1; organic growth loops are underperforming paid acquisition.")
	}
	if kpis.AutonomousEfficiency < 90 {
		recs = append(recs, "Autonomous efficiency below 90%; review intervention volume against auto-decisions.")
	}
	if len(tests.CriticalIssues) > 0 {
		recs = append(recs, "Critical system test failures detected; see the test results table before scaling further.")
	}
	return recs
}

// Report renders the Markdown report described in §6/§9: Executive
// Summary, Test Results table, KPIs table, Final Metrics, Recommendations,
// Conclusion.
func Report(id string, result domain.SimulationResult) string {
	var b strings.Builder

	verdict := result.SystemTests.Verdict()

	fmt.Fprintf(&b, "# Simulation Report: %s\n\n", id)
	fmt.Fprintf(&b, "## Executive Summary\n\n")
	fmt.Fprintf(&b, "Period **%s** (%d simulated days) completed with verdict **%s**.\n\n",
		result.Config.PeriodName, result.Config.DaysToSimulate, verdict)

	fmt.Fprintf(&b, "## Test Results\n\n")
	fmt.Fprintf(&b, "| Passed | Warnings | Failed |\n|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d |\n\n", result.SystemTests.Passed, result.SystemTests.Warnings, result.SystemTests.Failed)
	if len(result.SystemTests.CriticalIssues) > 0 {
		fmt.Fprintf(&b, "Critical issues:\n")
		for _, issue := range result.SystemTests.CriticalIssues {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## KPIs\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| User growth rate | %.2f%% |\n", result.KPIs.UserGrowthRate)
	fmt.Fprintf(&b, "| Churn rate | %.2f%% |\n", result.KPIs.ChurnRate)
	fmt.Fprintf(&b, "| LTV | $%.2f |\n", result.KPIs.LTV)
	fmt.Fprintf(&b, "| CAC | $%.2f |\n", result.KPIs.CAC)
	fmt.Fprintf(&b, "| Viral coefficient | %.2f |\n", result.KPIs.ViralCoefficient)
	fmt.Fprintf(&b, "| NPS | %.1f |\n", result.KPIs.NPS)
	fmt.Fprintf(&b, "| System uptime | %.3f%% |\n", result.KPIs.SystemUptime)
	fmt.Fprintf(&b, "| Autonomous efficiency | %.2f%% |\n\n", result.KPIs.AutonomousEfficiency)

	m := result.FinalMetrics
	fmt.Fprintf(&b, "## Final Metrics\n\n")
	fmt.Fprintf(&b, "### Users\n\nTotal: %d, Active: %d\n\n", m.Users.Total, m.Users.Active)
	fmt.Fprintf(&b, "### Revenue\n\nMRR: $%.2f, ARR: $%.2f, Lifetime: $%.2f\n\n", m.Revenue.MRR, m.Revenue.ARR, m.Revenue.Lifetime)
	fmt.Fprintf(&b, "### Streams\n\nTotal: %d, Releases: %d, Avg/Release: %.1f\n\n", m.Streams.Total, m.Streams.ReleasesCount, m.Streams.AvgPerRelease)
	fmt.Fprintf(&b, "### Platform\n\nUptime: %.3f%%, Error rate: %.4f\n\n", m.Platform.Uptime, m.Platform.ErrorRate)
	fmt.Fprintf(&b, "### Autonomous\n\nDecisions auto-made: %d, Interventions required: %d\n\n",
		m.Autonomous.DecisionsAutoMade, m.Autonomous.InterventionsRequired)

	fmt.Fprintf(&b, "## Recommendations\n\n")
	if len(result.Recommendations) == 0 {
		b.WriteString("No outstanding recommendations.\n\n")
	} else {
		for i, r := range result.Recommendations {
			fmt.Fprintf(&b, "%d. %s\n", i+1, r)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Conclusion\n\n")
	fmt.Fprintf(&b, "Final verdict: **%s**\n", verdict)

	return b.String()
}
