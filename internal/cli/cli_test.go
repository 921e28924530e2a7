package cli

import (
	"io"
	"os"
	"strings"
	"testing"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read pipe: %v", err)
	}
	return string(out)
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "periods", "serve"} {
		if !names[want] {
			t.Errorf("rootCmd missing subcommand %q, have %v", want, names)
		}
	}
}

func TestRunPeriodsPrintsAllPresets(t *testing.T) {
	out := captureStdout(t, func() {
		if err := runPeriods(periodsCmd, nil); err != nil {
			t.Fatalf("runPeriods: %v", err)
		}
	})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 17 {
		t.Fatalf("printed %d lines, want 17: %q", len(lines), out)
	}
	if !strings.Contains(out, "1_month") || !strings.Contains(out, "50_years") {
		t.Errorf("output missing expected presets: %q", out)
	}
}

func TestRunRejectsUnknownPeriod(t *testing.T) {
	if err := runRun(runCmd, []string{"not_a_real_period"}); err == nil {
		t.Fatal("expected an error for an unknown period")
	}
}

func TestRunCompletesAndPrintsReport(t *testing.T) {
	runInitialUsers = 100
	runInitialReleases = 10
	runSeedMoney = 1000
	runSeed = 42

	out := captureStdout(t, func() {
		if err := runRun(runCmd, []string{"1_month"}); err != nil {
			t.Fatalf("runRun: %v", err)
		}
	})

	if !strings.Contains(out, "Simulation Report") {
		t.Errorf("report output missing expected heading: %q", out)
	}
}
