package sim

import (
	"fmt"

	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/apperror"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/domain"
)

// sourceSeriesLength длина нулевого ряда-заглушки источника
const sourceSeriesLength = 100

// Scenario полное описание одной симуляции сети. Все срезы
// индексируются номером узла (DemandHistory — номером узла минус
// один) и читаются только на чтение: один сценарий можно выполнять
// параллельно с разными seed.
type Scenario struct {
	Network *domain.Network

	InitialInv      []float64
	ROP             []float64
	BaseStock       []float64
	DefaultLeadTime []float64

	// DemandHistory[i] — исторический ряд спроса узла i+1
	DemandHistory [][]float64
	// LeadTimeDelay общий для всех узлов ряд дополнительных задержек
	LeadTimeDelay []float64

	Policy Policy

	// Horizon длительность репликации; 0 означает значение по умолчанию
	Horizon float64
	// ReorderMargin множитель точки перезаказа; 0 означает значение по умолчанию
	ReorderMargin float64
}

// Validate проверяет согласованность сценария перед запуском.
// Симуляция не стартует ни одной репликацией, пока сценарий
// не проходит все проверки.
func (sc *Scenario) Validate() *apperror.ValidationErrors {
	ve := apperror.NewValidationErrors()

	if sc.Network == nil {
		ve.Add(apperror.ErrNilNetwork)
		return ve
	}
	n := sc.Network.NodeCount()

	checkLen := func(name string, got int, want int) {
		if got != want {
			ve.AddErrorWithField(apperror.CodeLengthMismatch,
				fmt.Sprintf("%s has %d entries, expected %d", name, got, want), name)
		}
	}
	checkLen("initial_inv", len(sc.InitialInv), n)
	checkLen("rop", len(sc.ROP), n)
	checkLen("base_stock", len(sc.BaseStock), n)
	checkLen("default_lead_time", len(sc.DefaultLeadTime), n)
	checkLen("demand_history", len(sc.DemandHistory), n-1)

	for i, series := range sc.DemandHistory {
		if len(series) == 0 {
			ve.AddErrorWithField(apperror.CodeEmptySeries,
				fmt.Sprintf("demand history for node %d is empty", i+1), "demand_history")
		}
	}
	if len(sc.LeadTimeDelay) == 0 {
		ve.AddErrorWithField(apperror.CodeEmptySeries,
			"lead time delay series is empty", "lead_time_delay")
	}

	if sc.Policy == nil {
		ve.AddErrorWithField(apperror.CodeInvalidPolicy, "fulfillment policy is not set", "policy")
	}
	if sc.Horizon < 0 {
		ve.AddErrorWithField(apperror.CodeInvalidHorizon,
			fmt.Sprintf("horizon must not be negative, got %v", sc.Horizon), "horizon")
	}
	if sc.ReorderMargin != 0 && sc.ReorderMargin < 1.0 {
		ve.AddErrorWithField(apperror.CodeInvalidMargin,
			fmt.Sprintf("reorder margin must be at least 1.0, got %v", sc.ReorderMargin), "reorder_margin")
	}

	return ve
}

// horizon возвращает горизонт с подстановкой значения по умолчанию
func (sc *Scenario) horizon() float64 {
	if sc.Horizon > 0 {
		return sc.Horizon
	}
	return domain.DefaultHorizon
}

// reorderMargin возвращает множитель точки перезаказа с подстановкой
// значения по умолчанию
func (sc *Scenario) reorderMargin() float64 {
	if sc.ReorderMargin > 0 {
		return sc.ReorderMargin
	}
	return domain.DefaultReorderMargin
}

func scenarioError(ve *apperror.ValidationErrors) error {
	err := apperror.New(apperror.CodeInvalidScenario, "scenario validation failed")
	return err.WithDetails("errors", ve.ErrorMessages())
}

// Simulate выполняет одну репликацию сценария с заданным seed и
// возвращает уровень сервиса и средний запас каждого узла. Состояние
// симуляции не переживает вызов: каждая репликация независима.
func Simulate(scenario *Scenario, seed int64) ([]domain.NodeResult, error) {
	if ve := scenario.Validate(); !ve.IsValid() {
		return nil, scenarioError(ve)
	}

	sched := NewScheduler()
	sampler := NewSampler(seed)
	margin := scenario.reorderMargin()
	net := scenario.Network
	n := net.NodeCount()

	facilities := make([]*Facility, n)
	for i := 0; i < n; i++ {
		f := &Facility{
			Node:            i,
			IsSource:        net.IsSource(i),
			OnHand:          scenario.InitialInv[i],
			Position:        scenario.InitialInv[i],
			ROP:             scenario.ROP[i],
			BaseStock:       scenario.BaseStock[i],
			DefaultLeadTime: scenario.DefaultLeadTime[i],
			LeadTimeDelay:   scenario.LeadTimeDelay,
			sched:           sched,
			sampler:         sampler,
			policy:          scenario.Policy,
			margin:          margin,
		}
		if f.IsSource {
			// Нулевой ряд-заглушка: спрос источника всегда нулевой
			f.HistDemand = make([]float64, sourceSeriesLength)
		} else {
			f.HistDemand = scenario.DemandHistory[i-1]
		}
		facilities[i] = f
	}

	// Поставщики связываются вторым проходом: нумерация узлов не
	// обязана быть топологически упорядоченной
	for i := 1; i < n; i++ {
		facilities[i].Upstream = facilities[net.UpstreamOf(i)]
	}

	// Процессы регистрируются в порядке номеров узлов: при равном
	// модельном времени они выполняются в этом же порядке
	for _, f := range facilities {
		f.Start()
	}

	sched.Run(scenario.horizon())

	results := make([]domain.NodeResult, n)
	for i, f := range facilities {
		results[i] = domain.NodeResult{
			Node:         i,
			ServiceLevel: f.ServiceLevel(),
			AvgOnHand:    f.AvgOnHand(),
		}
	}
	return results, nil
}
