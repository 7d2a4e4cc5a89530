package sim

import "math/rand"

// delaySeedOffset разводит потоки спроса и задержек по диапазону seed:
// при любых реалистичных номерах репликаций потоки не пересекаются.
const delaySeedOffset int64 = 1 << 32

// Sampler бутстрэп-сэмплер эмпирических распределений: значения
// тянутся равновероятно с возвращением из исторического ряда без
// каких-либо предположений о форме распределения. Спрос и задержки
// поставок используют независимые генераторы, поэтому порядок
// розыгрышей одного потока не влияет на другой.
type Sampler struct {
	demand *rand.Rand
	delay  *rand.Rand
}

// NewSampler создаёт сэмплер одной репликации. Генераторы передаются
// явно, без глобального состояния: репликации с одинаковым seed
// воспроизводимы бит в бит.
func NewSampler(seed int64) *Sampler {
	return &Sampler{
		demand: rand.New(rand.NewSource(seed)),
		delay:  rand.New(rand.NewSource(seed + delaySeedOffset)),
	}
}

// Demand возвращает один розыгрыш спроса из исторического ряда.
// Ряд должен быть непустым: это проверяется при валидации сценария.
func (s *Sampler) Demand(series []float64) float64 {
	return series[s.demand.Intn(len(series))]
}

// LeadTimeDelay возвращает один розыгрыш дополнительной задержки
// поставки из общего для всех узлов ряда.
func (s *Sampler) LeadTimeDelay(series []float64) float64 {
	return series[s.delay.Intn(len(series))]
}
