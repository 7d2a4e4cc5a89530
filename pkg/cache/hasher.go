package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
)

// EvaluationScope фиксированная часть ключа кэша. Одинаковые векторы
// параметров дают одинаковое значение целевой функции только внутри
// одного scope: при совпадении сценария, политики и набора репликаций.
type EvaluationScope struct {
	ScenarioHash string
	Policy       string
	SeedBase     int64
	Replications int
}

// ObjectiveKey вычисляет ключ кэша для точки целевой функции
func ObjectiveKey(scope EvaluationScope, x []float64) string {
	data := pointToCanonical(scope, x)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("objective:%s:%s", scope.ScenarioHash, hex.EncodeToString(hash[:8]))
}

// pointToCanonical создаёт детерминированное представление точки.
// Координаты кодируются кратчайшей round-trip записью float64, поэтому
// любые битово различные векторы получают разные ключи.
func pointToCanonical(scope EvaluationScope, x []float64) []byte {
	var result []byte

	result = append(result, []byte(fmt.Sprintf("p:%s;s:%d;r:%d;",
		scope.Policy, scope.SeedBase, scope.Replications))...)

	for _, v := range x {
		result = append(result, 'x', ':')
		result = strconv.AppendFloat(result, v, 'g', -1, 64)
		result = append(result, ';')
	}

	return result
}

// QuickHash быстрый хеш для произвольных данных
func QuickHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ShortHash короткий хеш (16 символов)
func ShortHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}
