package objective

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/apperror"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/cache"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/domain"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/logger"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/metrics"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/sim"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/telemetry"
)

// Result результат одной оценки целевой функции
type Result struct {
	// Value = TotalOnHand + Penalty
	Value       float64
	TotalOnHand float64
	Penalty     float64

	// Поузловые средние по репликациям, индекс - номер узла
	ServiceLevels []float64
	AvgOnHand     []float64

	// Cached показывает, что значение взято из кэша без симуляции
	Cached bool
}

// Evaluator детерминированная целевая функция над фиксированным
// сценарием: одинаковый вектор параметров всегда даёт одно и то же
// значение, поскольку серия seed репликаций закреплена настройками.
// Evaluator безопасен для конкурентных вызовов.
type Evaluator struct {
	settings Settings
	network  *domain.Network
	demand   [][]float64
	delay    []float64
	policy   sim.Policy

	objCache     *cache.ObjectiveCache
	cacheBackend string

	evaluations atomic.Int64
}

// NewEvaluator создаёт целевую функцию для заданной сети и
// исторических рядов. Ошибки конфигурации обнаруживаются здесь,
// а не на первой оценке внутри оптимизатора.
func NewEvaluator(network *domain.Network, demand [][]float64, delay []float64, settings Settings) (*Evaluator, error) {
	if network == nil {
		return nil, apperror.ErrNilNetwork
	}
	if _, err := ModeFromName(string(settings.Mode)); err != nil {
		return nil, err
	}
	policy, err := sim.PolicyFromName(settings.Policy)
	if err != nil {
		return nil, err
	}

	n := network.NodeCount()
	if len(settings.DefaultLeadTime) != n {
		return nil, apperror.NewWithField(apperror.CodeLengthMismatch,
			fmt.Sprintf("default lead time has %d entries, expected %d", len(settings.DefaultLeadTime), n),
			"default_lead_time")
	}
	if len(settings.ServiceTarget) != n {
		return nil, apperror.NewWithField(apperror.CodeLengthMismatch,
			fmt.Sprintf("service target has %d entries, expected %d", len(settings.ServiceTarget), n),
			"service_target")
	}
	if len(demand) != n-1 {
		return nil, apperror.NewWithField(apperror.CodeLengthMismatch,
			fmt.Sprintf("demand history has %d series, expected %d", len(demand), n-1),
			"demand_history")
	}
	if len(delay) == 0 {
		return nil, apperror.ErrEmptySeries
	}

	return &Evaluator{
		settings: settings.withDefaults(),
		network:  network,
		demand:   demand,
		delay:    delay,
		policy:   policy,
	}, nil
}

// WithCache подключает кэш значений целевой функции. Вызывается до
// начала оптимизации; без кэша каждая оценка выполняет симуляцию.
func (e *Evaluator) WithCache(c cache.Cache, backend string, ttl time.Duration) *Evaluator {
	scope := cache.EvaluationScope{
		ScenarioHash: e.ScenarioHash(),
		Policy:       e.settings.Policy,
		SeedBase:     e.settings.SeedBase,
		Replications: e.settings.Replications,
	}
	e.objCache = cache.NewObjectiveCache(c, scope, ttl)
	e.cacheBackend = backend
	return e
}

// Settings возвращает действующие настройки оценки
func (e *Evaluator) Settings() Settings {
	return e.settings
}

// VectorLen возвращает ожидаемую размерность вектора параметров
func (e *Evaluator) VectorLen() int {
	return VectorLen(e.network.NodeCount())
}

// Evaluations возвращает количество выполненных симуляционных оценок
// (попадания в кэш не учитываются)
func (e *Evaluator) Evaluations() int64 {
	return e.evaluations.Load()
}

// ScenarioHash возвращает стабильный отпечаток сценария: топологии,
// рядов данных и параметров оценки. Используется как часть ключа кэша.
func (e *Evaluator) ScenarioHash() string {
	var data []byte
	for _, row := range e.network.Adjacency() {
		for _, v := range row {
			data = append(data, byte('0'+v))
		}
		data = append(data, '|')
	}
	data = appendSeries(data, e.delay)
	for _, series := range e.demand {
		data = appendSeries(data, series)
	}
	data = appendSeries(data, e.settings.DefaultLeadTime)
	data = appendSeries(data, e.settings.ServiceTarget)
	data = append(data, []byte(fmt.Sprintf("m:%s;h:%g;rm:%g;if:%g;pw:%g",
		e.settings.Mode, e.settings.Horizon, e.settings.ReorderMargin,
		e.settings.InitialFactor, e.settings.PenaltyWeight))...)
	return cache.ShortHash(data)
}

func appendSeries(data []byte, xs []float64) []byte {
	for _, x := range xs {
		data = append(data, []byte(fmt.Sprintf("%g,", x))...)
	}
	return append(data, ';')
}

// SplitVector раскладывает вектор оптимизатора на поузловые base stock
// и ROP, включая фиксированные параметры источника. Отрицательные
// координаты, которые безградиентный поиск может предлагать, перед
// симуляцией поднимаются до нуля.
func (e *Evaluator) SplitVector(x []float64) (baseStock, rop []float64, err error) {
	want := e.VectorLen()
	if len(x) != want {
		return nil, nil, apperror.New(apperror.CodeDimensionMismatch,
			fmt.Sprintf("parameter vector has %d entries, expected %d", len(x), want))
	}

	n := e.network.NodeCount()
	m := n - 1
	baseStock = make([]float64, n)
	rop = make([]float64, n)
	baseStock[domain.SourceNodeID] = domain.SourceBaseStock
	rop[domain.SourceNodeID] = domain.SourceROP

	for i := 0; i < m; i++ {
		first := domain.Max(x[i], 0)
		second := domain.Max(x[m+i], 0)
		switch e.settings.Mode {
		case ModeExcess:
			// Первая половина вектора - запас сверх точки перезаказа
			rop[i+1] = second
			baseStock[i+1] = first + second
		default:
			baseStock[i+1] = first
			rop[i+1] = second
		}
	}
	return baseStock, rop, nil
}

// scenario собирает сценарий симуляции для раскроенного вектора
func (e *Evaluator) scenario(baseStock, rop []float64) *sim.Scenario {
	n := e.network.NodeCount()
	initial := make([]float64, n)
	for i := range initial {
		initial[i] = e.settings.InitialFactor * baseStock[i]
	}

	return &sim.Scenario{
		Network:         e.network,
		InitialInv:      initial,
		ROP:             rop,
		BaseStock:       baseStock,
		DefaultLeadTime: e.settings.DefaultLeadTime,
		DemandHistory:   e.demand,
		LeadTimeDelay:   e.delay,
		Policy:          e.policy,
		Horizon:         e.settings.Horizon,
		ReorderMargin:   e.settings.ReorderMargin,
	}
}

// Evaluate вычисляет значение целевой функции в точке x: серия
// независимых репликаций с фиксированными seed, усреднение по узлам и
// штраф за недобор сервисных целей.
func (e *Evaluator) Evaluate(ctx context.Context, x []float64) (Result, error) {
	ctx, span := telemetry.StartSpan(ctx, "objective.Evaluate")
	defer span.End()

	start := time.Now()
	m := metrics.Get()

	if e.objCache != nil {
		cached, found, err := e.objCache.Get(ctx, x)
		if err != nil {
			logger.Warn("Objective cache lookup failed", "error", err)
		}
		m.RecordCacheLookup(e.cacheBackend, found)
		if found {
			telemetry.SetAttributes(ctx,
				telemetry.EvaluationAttributes(cached.Value, cached.Penalty, true)...)
			return Result{
				Value:         cached.Value,
				TotalOnHand:   cached.TotalOnHand,
				Penalty:       cached.Penalty,
				ServiceLevels: cached.ServiceLevels,
				AvgOnHand:     cached.AvgOnHand,
				Cached:        true,
			}, nil
		}
	}

	baseStock, rop, err := e.SplitVector(x)
	if err != nil {
		telemetry.SetError(ctx, err)
		m.RecordEvaluation(e.settings.Policy, "error", time.Since(start), 0, 0)
		return Result{}, err
	}

	scenario := e.scenario(baseStock, rop)
	seeds := sim.SeedRange(e.settings.SeedBase, e.settings.Replications)

	repStart := time.Now()
	replications, err := sim.RunReplications(ctx, scenario, seeds, e.settings.Workers)
	repDuration := time.Since(repStart)
	if err != nil {
		telemetry.SetError(ctx, err)
		m.RecordReplications(e.settings.Policy, len(seeds), false, 0)
		m.RecordEvaluation(e.settings.Policy, "error", time.Since(start), 0, 0)
		return Result{}, err
	}
	m.RecordReplications(e.settings.Policy, len(seeds), true, repDuration/time.Duration(len(seeds)))

	aggregates, err := domain.AggregateReplications(replications)
	if err != nil {
		telemetry.SetError(ctx, err)
		m.RecordEvaluation(e.settings.Policy, "error", time.Since(start), 0, 0)
		return Result{}, err
	}

	result := e.score(aggregates)
	e.evaluations.Add(1)

	m.RecordEvaluation(e.settings.Policy, "success", time.Since(start), result.Value, result.Penalty)
	m.RecordNodeResults(result.ServiceLevels, result.AvgOnHand)
	telemetry.SetAttributes(ctx,
		telemetry.EvaluationAttributes(result.Value, result.Penalty, false)...)

	if e.objCache != nil {
		entry := &cache.CachedEvaluation{
			Value:         result.Value,
			TotalOnHand:   result.TotalOnHand,
			Penalty:       result.Penalty,
			ServiceLevels: result.ServiceLevels,
			AvgOnHand:     result.AvgOnHand,
		}
		if err := e.objCache.Set(ctx, x, entry, 0); err != nil {
			logger.Warn("Objective cache store failed", "error", err)
		}
	}

	return result, nil
}

// score сворачивает поузловые агрегаты в скаляр
func (e *Evaluator) score(aggregates []domain.NodeAggregate) Result {
	n := len(aggregates)
	serviceLevels := make([]float64, n)
	avgOnHand := make([]float64, n)

	var shortfall float64
	for i, agg := range aggregates {
		serviceLevels[i] = agg.MeanServiceLevel
		avgOnHand[i] = agg.MeanOnHand
		shortfall += domain.Max(0, e.settings.ServiceTarget[i]-agg.MeanServiceLevel)
	}

	total := domain.TotalOnHand(aggregates)
	penalty := e.settings.PenaltyWeight * shortfall

	return Result{
		Value:         total + penalty,
		TotalOnHand:   total,
		Penalty:       penalty,
		ServiceLevels: serviceLevels,
		AvgOnHand:     avgOnHand,
	}
}

// Func адаптирует Evaluator под сигнатуру безградиентных оптимизаторов.
// Ошибка оценки превращается в +Inf: симплекс отступает от
// недопустимой точки, не прерывая поиск.
func (e *Evaluator) Func(ctx context.Context) func(x []float64) float64 {
	return func(x []float64) float64 {
		result, err := e.Evaluate(ctx, x)
		if err != nil {
			logger.Error("Objective evaluation failed", "error", err)
			return math.Inf(1)
		}
		return result.Value
	}
}
