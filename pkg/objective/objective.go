// Package objective реализует контракт целевой функции для безградиентных
// оптимизаторов: вектор параметров политики пополнения отображается в
// скаляр через фиксированную серию независимых репликаций симуляции.
//
// Значение функции складывается из суммарного среднего запаса по узлам и
// штрафа за недобор целевого уровня сервиса. Штрафной вес велик, поэтому
// нарушение сервисных целей доминирует над экономией запасов.
package objective

import (
	"fmt"

	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/apperror"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/domain"
)

// Mode параметризация вектора оптимизации
type Mode string

const (
	// ModeBaseStock - вектор [baseStock..., ROP...] по несточниковым узлам
	ModeBaseStock Mode = "basestock"
	// ModeExcess - вектор [excess..., ROP...], base stock = excess + ROP
	ModeExcess Mode = "excess"
)

// ModeFromName возвращает режим параметризации по имени из конфигурации
func ModeFromName(name string) (Mode, error) {
	switch Mode(name) {
	case ModeBaseStock:
		return ModeBaseStock, nil
	case ModeExcess:
		return ModeExcess, nil
	default:
		return "", apperror.New(apperror.CodeInvalidMode,
			fmt.Sprintf("unknown optimization mode %q", name))
	}
}

// VectorLen возвращает размерность вектора параметров для сети из nodes
// узлов: по паре (запас, ROP) на каждый несточниковый узел
func VectorLen(nodes int) int {
	return 2 * (nodes - 1)
}

// Settings неизменяемые параметры оценки
type Settings struct {
	Mode            Mode
	Policy          string
	DefaultLeadTime []float64
	ServiceTarget   []float64
	Horizon         float64
	ReorderMargin   float64
	Replications    int
	SeedBase        int64
	InitialFactor   float64
	PenaltyWeight   float64
	Workers         int
}

// withDefaults подставляет значения по умолчанию вместо нулевых
func (s Settings) withDefaults() Settings {
	if s.Replications <= 0 {
		s.Replications = domain.DefaultReplications
	}
	if s.InitialFactor <= 0 {
		s.InitialFactor = domain.DefaultInitialFactor
	}
	if s.PenaltyWeight <= 0 {
		s.PenaltyWeight = domain.DefaultPenaltyWeight
	}
	if s.Workers <= 0 {
		s.Workers = 1
	}
	return s
}
