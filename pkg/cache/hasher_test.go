package cache

import (
	"strings"
	"testing"
)

func TestObjectiveKey(t *testing.T) {
	scope := EvaluationScope{
		ScenarioHash: "abc123",
		Policy:       "backorder",
		SeedBase:     42,
		Replications: 20,
	}
	x := []float64{3000, 600, 900, 300, 600, 1000, 250, 200, 150, 200}

	t.Run("same point produces same key", func(t *testing.T) {
		key1 := ObjectiveKey(scope, x)
		key2 := ObjectiveKey(scope, x)
		if key1 != key2 {
			t.Errorf("same point should produce same key: %v != %v", key1, key2)
		}
	})

	t.Run("key carries scenario hash prefix", func(t *testing.T) {
		key := ObjectiveKey(scope, x)
		if !strings.HasPrefix(key, "objective:abc123:") {
			t.Errorf("unexpected key format: %v", key)
		}
	})

	t.Run("different vectors produce different keys", func(t *testing.T) {
		y := append([]float64(nil), x...)
		y[0] = 3001
		if ObjectiveKey(scope, x) == ObjectiveKey(scope, y) {
			t.Error("different vectors should produce different keys")
		}
	})

	t.Run("tiny perturbation changes key", func(t *testing.T) {
		y := append([]float64(nil), x...)
		y[3] += 1e-9
		if ObjectiveKey(scope, x) == ObjectiveKey(scope, y) {
			t.Error("perturbed vector should produce a different key")
		}
	})

	t.Run("scope fields affect key", func(t *testing.T) {
		base := ObjectiveKey(scope, x)

		altered := scope
		altered.Policy = "lost_sales"
		if ObjectiveKey(altered, x) == base {
			t.Error("policy should affect key")
		}

		altered = scope
		altered.SeedBase = 43
		if ObjectiveKey(altered, x) == base {
			t.Error("seed base should affect key")
		}

		altered = scope
		altered.Replications = 10
		if ObjectiveKey(altered, x) == base {
			t.Error("replication count should affect key")
		}
	})
}

func TestQuickHash(t *testing.T) {
	data := []byte("test data")
	hash := QuickHash(data)

	if len(hash) != 64 { // SHA256 hex = 64 chars
		t.Errorf("QuickHash length = %d, want 64", len(hash))
	}

	// Same data should produce same hash
	hash2 := QuickHash(data)
	if hash != hash2 {
		t.Error("same data should produce same hash")
	}
}

func TestShortHash(t *testing.T) {
	data := []byte("test data")
	hash := ShortHash(data)

	if len(hash) != 16 {
		t.Errorf("ShortHash length = %d, want 16", len(hash))
	}

	if ShortHash([]byte("other data")) == hash {
		t.Error("different data should produce different short hashes")
	}
}
