package harness

import "testing"

func TestStandardAdScenariosCount(t *testing.T) {
	if got := len(StandardAdScenarios()); got != 8 {
		t.Fatalf("scenario count = %d, want 8", got)
	}
}

func TestRunAdBoosterHarnessThresholds(t *testing.T) {
	result := RunAdBoosterHarness()

	if result.MinAmplificationFactor < 2.0 {
		t.Errorf("min amplification factor = %.3f, want >= 2.0", result.MinAmplificationFactor)
	}
	if result.AverageAmplificationFactor < 2.5 {
		t.Errorf("average amplification factor = %.3f, want >= 2.5", result.AverageAmplificationFactor)
	}
	for _, sc := range result.Scenarios {
		if sc.AmplificationFactor < 2.0 {
			t.Errorf("%s: amplification factor = %.3f, want >= 2.0", sc.Scenario.CampaignType, sc.AmplificationFactor)
		}
		if sc.OrganicCost != 0 {
			t.Errorf("%s: organic cost = %.2f, want 0", sc.Scenario.CampaignType, sc.OrganicCost)
		}
	}
}

func TestRunAdBoosterHarnessShortTermLaunchSpend(t *testing.T) {
	result := RunAdBoosterHarness()

	var launch *AdScenarioResult
	for i := range result.Scenarios {
		if result.Scenarios[i].Scenario.CampaignType == "Short-term Product Launch" {
			launch = &result.Scenarios[i]
			break
		}
	}
	if launch == nil {
		t.Fatal("Short-term Product Launch scenario not found")
	}
	if launch.PaidAdvertising.TotalSpend != 300 {
		t.Errorf("total_spend = %.2f, want 300", launch.PaidAdvertising.TotalSpend)
	}
	if launch.AmplificationFactor < 2.0 {
		t.Errorf("amplification factor = %.3f, want >= 2.0", launch.AmplificationFactor)
	}
	if launch.OrganicCost != 0 {
		t.Errorf("organic cost = %.2f, want 0", launch.OrganicCost)
	}
}

func TestRunAdBoosterHarnessDeterministic(t *testing.T) {
	a := RunAdBoosterHarness()
	b := RunAdBoosterHarness()

	if a.AverageAmplificationFactor != b.AverageAmplificationFactor {
		t.Fatal("average amplification factor diverged between runs")
	}
	for i := range a.Scenarios {
		if a.Scenarios[i].AmplificationFactor != b.Scenarios[i].AmplificationFactor {
			t.Fatalf("scenario %d amplification factor diverged between runs", i)
		}
	}
}
