// Package optimizer запускает безградиентный поиск Нелдера-Мида над
// целевой функцией симуляции. Метод локальный, поэтому поиск
// выполняется циклами: каждый следующий цикл стартует из лучшей
// найденной точки, и симплекс строится заново вокруг неё.
package optimizer

import (
	"context"
	"fmt"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/apperror"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/logger"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/metrics"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/objective"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/telemetry"
)

// Options параметры поиска
type Options struct {
	// MaxIterations бюджет итераций одного цикла
	MaxIterations int
	// Cycles количество перезапусков из лучшей точки
	Cycles int
}

// withDefaults подставляет значения по умолчанию вместо нулевых
func (o Options) withDefaults() Options {
	if o.MaxIterations <= 0 {
		o.MaxIterations = 200
	}
	if o.Cycles <= 0 {
		o.Cycles = 1
	}
	return o
}

// Result результат законченного поиска
type Result struct {
	// X лучшая найденная точка
	X []float64
	// F значение целевой функции в X
	F float64

	// Iterations суммарное количество итераций по всем циклам
	Iterations int
	// Evaluations суммарное количество вычислений целевой функции
	Evaluations int
	// Cycles количество выполненных циклов
	Cycles int
	// Converged true, если последний цикл остановился по сходимости,
	// а не по исчерпанию бюджета
	Converged bool

	Duration time.Duration
}

// Minimize ищет минимум целевой функции, стартуя из точки x0.
// Исчерпание бюджета итераций не считается ошибкой: поиск возвращает
// лучшую точку, достигнутую к этому моменту.
func Minimize(ctx context.Context, eval *objective.Evaluator, x0 []float64, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	mode := string(eval.Settings().Mode)

	ctx, span := telemetry.StartSpan(ctx, "optimizer.Minimize")
	defer span.End()

	if len(x0) != eval.VectorLen() {
		err := apperror.New(apperror.CodeDimensionMismatch,
			fmt.Sprintf("initial point has %d entries, expected %d", len(x0), eval.VectorLen()))
		telemetry.SetError(ctx, err)
		return nil, err
	}

	problem := optimize.Problem{Func: eval.Func(ctx)}
	settings := &optimize.Settings{MajorIterations: opts.MaxIterations}

	start := time.Now()
	best := &Result{X: append([]float64(nil), x0...)}

	first, err := eval.Evaluate(ctx, x0)
	if err != nil {
		telemetry.SetError(ctx, err)
		metrics.Get().RecordOptimizerRun(mode, false, 0, time.Since(start))
		return nil, err
	}
	best.F = first.Value

	for cycle := 1; cycle <= opts.Cycles; cycle++ {
		if err := ctx.Err(); err != nil {
			telemetry.SetError(ctx, err)
			metrics.Get().RecordOptimizerRun(mode, false, best.Iterations, time.Since(start))
			return nil, err
		}

		res, err := optimize.Minimize(problem, best.X, settings, &optimize.NelderMead{})
		if err != nil {
			telemetry.SetError(ctx, err)
			metrics.Get().RecordOptimizerRun(mode, false, best.Iterations, time.Since(start))
			return nil, apperror.Wrap(err, apperror.CodeOptimizerError,
				fmt.Sprintf("nelder-mead search failed on cycle %d", cycle))
		}

		best.Iterations += res.Stats.MajorIterations
		best.Evaluations += res.Stats.FuncEvaluations
		best.Cycles = cycle
		best.Converged = converged(res.Status)

		if res.F < best.F {
			best.F = res.F
			best.X = append(best.X[:0], res.X...)
		}

		logger.Info("Optimization cycle finished",
			"cycle", cycle,
			"status", res.Status.String(),
			"iterations", res.Stats.MajorIterations,
			"cycle_best", res.F,
			"overall_best", best.F,
		)
		telemetry.AddEvent(ctx, "cycle",
			telemetry.OptimizerAttributes(mode, cycle, res.Stats.MajorIterations, best.Converged)...)
	}

	best.Duration = time.Since(start)
	telemetry.SetAttributes(ctx,
		telemetry.OptimizerAttributes(mode, best.Cycles, best.Iterations, best.Converged)...)
	metrics.Get().RecordOptimizerRun(mode, true, best.Iterations, best.Duration)

	return best, nil
}

// converged различает остановку по сходимости и по бюджету
func converged(status optimize.Status) bool {
	switch status {
	case optimize.IterationLimit, optimize.FunctionEvaluationLimit, optimize.RuntimeLimit:
		return false
	}
	return true
}
