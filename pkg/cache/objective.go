package cache

import (
	"context"
	"encoding/json"
	"time"
)

// ObjectiveCache специализированный кэш для значений целевой функции
type ObjectiveCache struct {
	cache      Cache
	scope      EvaluationScope
	defaultTTL time.Duration
}

// CachedEvaluation кэшированное значение целевой функции в одной точке
type CachedEvaluation struct {
	Value         float64   `json:"value"`
	TotalOnHand   float64   `json:"total_on_hand"`
	Penalty       float64   `json:"penalty"`
	ServiceLevels []float64 `json:"service_levels"`
	AvgOnHand     []float64 `json:"avg_on_hand"`
	ComputedAt    time.Time `json:"computed_at"`
}

// NewObjectiveCache создаёт кэш значений целевой функции
func NewObjectiveCache(cache Cache, scope EvaluationScope, defaultTTL time.Duration) *ObjectiveCache {
	if defaultTTL <= 0 {
		defaultTTL = 30 * time.Minute
	}
	return &ObjectiveCache{
		cache:      cache,
		scope:      scope,
		defaultTTL: defaultTTL,
	}
}

// Get получает кэшированное значение для точки x
func (oc *ObjectiveCache) Get(ctx context.Context, x []float64) (*CachedEvaluation, bool, error) {
	key := ObjectiveKey(oc.scope, x)

	data, err := oc.cache.Get(ctx, key)
	if err != nil {
		if err == ErrKeyNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}

	var result CachedEvaluation
	if err := json.Unmarshal(data, &result); err != nil {
		// Повреждённый кэш — удаляем, ошибку удаления игнорируем намеренно
		_ = oc.cache.Delete(ctx, key) //nolint:errcheck // best effort cleanup
		return nil, false, nil
	}

	return &result, true, nil
}

// Set сохраняет значение для точки x
func (oc *ObjectiveCache) Set(ctx context.Context, x []float64, result *CachedEvaluation, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = oc.defaultTTL
	}

	key := ObjectiveKey(oc.scope, x)
	result.ComputedAt = time.Now()

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return oc.cache.Set(ctx, key, data, ttl)
}
