package simrng

import "testing"

func TestDeterministicReproducibility(t *testing.T) {
	a := New(42, true)
	b := New(42, true)

	for i := 0; i < 100; i++ {
		av, bv := a.Uniform(), b.Uniform()
		if av != bv {
			t.Fatalf("draw %d diverged: %v != %v", i, av, bv)
		}
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := New(1, true)
	b := New(2, true)

	same := true
	for i := 0; i < 20; i++ {
		if a.Uniform() != b.Uniform() {
			same = false
		}
	}
	if same {
		t.Fatal("expected different seeds to diverge")
	}
}

func TestWeightedChoiceDistribution(t *testing.T) {
	s := New(7, true)
	weights := []float64{0, 1, 0}
	for i := 0; i < 50; i++ {
		if idx := s.WeightedChoice(weights); idx != 1 {
			t.Fatalf("expected index 1 for single positive weight, got %d", idx)
		}
	}
}

func TestWeightedChoiceAllZero(t *testing.T) {
	s := New(1, true)
	if idx := s.WeightedChoice([]float64{0, 0, 0}); idx != -1 {
		t.Fatalf("expected -1 for all-zero weights, got %d", idx)
	}
}

func TestWeightedChoiceKeys(t *testing.T) {
	s := New(3, true)
	keys := []string{"a", "b", "c"}
	weights := map[string]float64{"a": 1, "b": 0, "c": 0}
	for i := 0; i < 10; i++ {
		k, ok := WeightedChoiceKeys(s, keys, weights)
		if !ok || k != "a" {
			t.Fatalf("expected key 'a', got %q (ok=%v)", k, ok)
		}
	}
}
