package sim

import "testing"

func TestSamplerDeterministicForSameSeed(t *testing.T) {
	series := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	a := NewSampler(42)
	b := NewSampler(42)

	for i := 0; i < 200; i++ {
		if got, want := a.Demand(series), b.Demand(series); got != want {
			t.Fatalf("demand draw %d: %v != %v", i, got, want)
		}
		if got, want := a.LeadTimeDelay(series), b.LeadTimeDelay(series); got != want {
			t.Fatalf("delay draw %d: %v != %v", i, got, want)
		}
	}
}

func TestSamplerStreamsAreIndependent(t *testing.T) {
	demand := []float64{10, 20, 30, 40, 50}
	delays := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	a := NewSampler(7)
	b := NewSampler(7)

	// Advancing the demand stream must not shift the delay stream.
	for i := 0; i < 100; i++ {
		a.Demand(demand)
	}
	for i := 0; i < 50; i++ {
		if got, want := a.LeadTimeDelay(delays), b.LeadTimeDelay(delays); got != want {
			t.Fatalf("delay draw %d: %v != %v", i, got, want)
		}
	}
}

func TestSamplerDrawsMembersOfSeries(t *testing.T) {
	s := NewSampler(1)

	single := []float64{42}
	for i := 0; i < 10; i++ {
		if got := s.Demand(single); got != 42 {
			t.Fatalf("draw from single-value series = %v, want 42", got)
		}
	}

	multi := []float64{3, 17, 4}
	member := map[float64]bool{3: true, 17: true, 4: true}
	for i := 0; i < 500; i++ {
		if v := s.LeadTimeDelay(multi); !member[v] {
			t.Fatalf("draw %v is not a member of the series", v)
		}
	}
}

func TestSamplerDifferentSeedsDiverge(t *testing.T) {
	series := make([]float64, 64)
	for i := range series {
		series[i] = float64(i)
	}
	a := NewSampler(0)
	b := NewSampler(1)

	same := true
	for i := 0; i < 64; i++ {
		if a.Demand(series) != b.Demand(series) {
			same = false
			break
		}
	}
	if same {
		t.Error("seeds 0 and 1 produced identical draw sequences")
	}
}
