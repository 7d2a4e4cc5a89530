package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Стандартные ключи атрибутов
const (
	// Сеть и сценарий
	AttrNetworkNodes = "network.nodes"
	AttrNetworkEdges = "network.edges"
	AttrPolicy       = "simulation.policy"
	AttrHorizon      = "simulation.horizon"
	AttrReplications = "simulation.replications"
	AttrSeedBase     = "simulation.seed_base"

	// Целевая функция
	AttrObjectiveValue   = "objective.value"
	AttrObjectivePenalty = "objective.penalty"
	AttrObjectiveCached  = "objective.cached"

	// Оптимизатор
	AttrOptimizerMode       = "optimizer.mode"
	AttrOptimizerCycle      = "optimizer.cycle"
	AttrOptimizerIterations = "optimizer.iterations"
	AttrOptimizerConverged  = "optimizer.converged"
)

// ScenarioAttributes возвращает атрибуты сценария симуляции
func ScenarioAttributes(nodes, edges int, policy string, horizon float64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrNetworkNodes, nodes),
		attribute.Int(AttrNetworkEdges, edges),
		attribute.String(AttrPolicy, policy),
		attribute.Float64(AttrHorizon, horizon),
	}
}

// EvaluationAttributes возвращает атрибуты оценки целевой функции
func EvaluationAttributes(value, penalty float64, cached bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Float64(AttrObjectiveValue, value),
		attribute.Float64(AttrObjectivePenalty, penalty),
		attribute.Bool(AttrObjectiveCached, cached),
	}
}

// OptimizerAttributes возвращает атрибуты прогона оптимизатора
func OptimizerAttributes(mode string, cycle, iterations int, converged bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrOptimizerMode, mode),
		attribute.Int(AttrOptimizerCycle, cycle),
		attribute.Int(AttrOptimizerIterations, iterations),
		attribute.Bool(AttrOptimizerConverged, converged),
	}
}
