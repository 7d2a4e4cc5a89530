package domain

import "math"

// Математические константы
const (
	Epsilon          = 1e-9
	Infinity         = math.MaxFloat64
	NegativeInfinity = -math.MaxFloat64
)

// DemandEpsilon добавляется в знаменатель при расчёте уровня сервиса,
// чтобы деление было определено при нулевом суммарном спросе.
const DemandEpsilon = 1e-5

// Параметры симуляции по умолчанию
const (
	DefaultHorizon       = 360.0
	DefaultReorderMargin = 1.05
	DefaultReplications  = 20
	DefaultPenaltyWeight = 1.0e6
	DefaultInitialFactor = 0.9
)

// SourceNodeID идентификатор узла-источника с бесконечным запасом
const SourceNodeID = 0

// Условные параметры политики узла-источника. Base stock источника
// выбран заведомо больше любого разумного заказа, ROP нулевой, поэтому
// источник никогда не размещает собственных заказов.
const (
	SourceBaseStock = 10000.0
	SourceROP       = 0.0
)

// FloatEquals сравнивает два float64 с учётом Epsilon
func FloatEquals(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// FloatLess проверяет a < b с учётом Epsilon
func FloatLess(a, b float64) bool {
	return a < b-Epsilon
}

// FloatGreater проверяет a > b с учётом Epsilon
func FloatGreater(a, b float64) bool {
	return a > b+Epsilon
}

// IsZero проверяет, равно ли значение нулю
func IsZero(v float64) bool {
	return math.Abs(v) < Epsilon
}

// IsPositive проверяет, положительно ли значение
func IsPositive(v float64) bool {
	return v > Epsilon
}

// Min возвращает минимум двух float64
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Max возвращает максимум двух float64
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
