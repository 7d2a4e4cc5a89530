package sim

import (
	"context"
	"reflect"
	"testing"

	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/apperror"
)

func TestSeedRange(t *testing.T) {
	got := SeedRange(5, 3)
	want := []int64{5, 6, 7}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SeedRange(5, 3) = %v, want %v", got, want)
	}

	if got := SeedRange(0, 0); len(got) != 0 {
		t.Errorf("SeedRange(0, 0) = %v, want empty", got)
	}
}

func TestRunReplicationsMatchesSimulate(t *testing.T) {
	sc := sixNodeScenario(t, BackorderPolicy{})
	seeds := SeedRange(0, 4)

	results, err := RunReplications(context.Background(), sc, seeds, 1)
	if err != nil {
		t.Fatalf("RunReplications: %v", err)
	}
	if len(results) != len(seeds) {
		t.Fatalf("got %d replications, want %d", len(results), len(seeds))
	}

	for i, seed := range seeds {
		direct, err := Simulate(sc, seed)
		if err != nil {
			t.Fatalf("Simulate(seed=%d): %v", seed, err)
		}
		if !reflect.DeepEqual(results[i], direct) {
			t.Errorf("replication %d differs from direct run", i)
		}
	}
}

func TestRunReplicationsParallelEqualsSequential(t *testing.T) {
	sc := sixNodeScenario(t, LostSalesPolicy{})
	seeds := SeedRange(0, 8)

	sequential, err := RunReplications(context.Background(), sc, seeds, 1)
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	parallel, err := RunReplications(context.Background(), sc, seeds, 4)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}

	if !reflect.DeepEqual(sequential, parallel) {
		t.Error("parallel execution changed replication results")
	}
}

func TestRunReplicationsWorkerCap(t *testing.T) {
	sc := sixNodeScenario(t, BackorderPolicy{})
	seeds := SeedRange(0, 2)

	// More workers than seeds must not deadlock or drop work.
	results, err := RunReplications(context.Background(), sc, seeds, 16)
	if err != nil {
		t.Fatalf("RunReplications: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d replications, want 2", len(results))
	}
	for i, rep := range results {
		if len(rep) != 6 {
			t.Errorf("replication %d has %d node results, want 6", i, len(rep))
		}
	}
}

func TestRunReplicationsCancelledContext(t *testing.T) {
	sc := sixNodeScenario(t, BackorderPolicy{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		if _, err := RunReplications(ctx, sc, SeedRange(0, 4), workers); err != context.Canceled {
			t.Errorf("workers=%d: error = %v, want context.Canceled", workers, err)
		}
	}
}

func TestRunReplicationsInvalidScenario(t *testing.T) {
	sc := sixNodeScenario(t, BackorderPolicy{})
	sc.Policy = nil

	_, err := RunReplications(context.Background(), sc, SeedRange(0, 2), 1)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !apperror.Is(err, apperror.CodeInvalidScenario) {
		t.Errorf("error code = %v, want %v", apperror.Code(err), apperror.CodeInvalidScenario)
	}
}

func TestRunReplicationsNoSeeds(t *testing.T) {
	sc := sixNodeScenario(t, BackorderPolicy{})

	results, err := RunReplications(context.Background(), sc, nil, 1)
	if err != nil {
		t.Fatalf("RunReplications: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d replications, want 0", len(results))
	}
}
