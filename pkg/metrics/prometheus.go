package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics глобальный контейнер метрик
type Metrics struct {
	// Метрики симуляции
	ReplicationsTotal   *prometheus.CounterVec
	ReplicationDuration *prometheus.HistogramVec

	// Метрики целевой функции
	EvaluationsTotal     *prometheus.CounterVec
	EvaluationDuration   *prometheus.HistogramVec
	EvaluationsInFlight  prometheus.Gauge
	ObjectiveValue       *prometheus.GaugeVec
	ObjectivePenalty     *prometheus.GaugeVec
	NodeServiceLevel     *prometheus.GaugeVec
	NodeAvgOnHand        *prometheus.GaugeVec

	// Метрики оптимизатора
	OptimizerRunsTotal       *prometheus.CounterVec
	OptimizerIterationsTotal *prometheus.CounterVec
	OptimizerDuration        *prometheus.HistogramVec

	// Кэш значений целевой функции
	CacheLookupsTotal *prometheus.CounterVec

	// Информация о сервисе
	ServiceInfo *prometheus.GaugeVec
}

var defaultMetrics *Metrics

// InitMetrics инициализирует метрики
func InitMetrics(namespace, subsystem string) *Metrics {
	m := &Metrics{
		// Метрики симуляции
		ReplicationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "replications_total",
				Help:      "Total number of simulation replications",
			},
			[]string{"policy", "status"},
		),

		ReplicationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "replication_duration_seconds",
				Help:      "Duration of a single simulation replication",
				Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"policy"},
		),

		// Метрики целевой функции
		EvaluationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "objective_evaluations_total",
				Help:      "Total number of objective function evaluations",
			},
			[]string{"policy", "outcome"},
		),

		EvaluationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "objective_evaluation_duration_seconds",
				Help:      "Duration of objective function evaluations",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"policy"},
		),

		EvaluationsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "objective_evaluations_in_flight",
				Help:      "Current number of objective evaluations being computed",
			},
		),

		ObjectiveValue: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "objective_last_value",
				Help:      "Last computed objective function value",
			},
			[]string{"policy"},
		),

		ObjectivePenalty: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "objective_last_penalty",
				Help:      "Service level penalty part of the last objective value",
			},
			[]string{"policy"},
		),

		NodeServiceLevel: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "node_service_level",
				Help:      "Mean service level per network node from the last evaluation",
			},
			[]string{"node"},
		),

		NodeAvgOnHand: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "node_avg_on_hand",
				Help:      "Mean on-hand inventory per network node from the last evaluation",
			},
			[]string{"node"},
		),

		// Метрики оптимизатора
		OptimizerRunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "optimizer_runs_total",
				Help:      "Total number of optimization runs",
			},
			[]string{"mode", "status"},
		),

		OptimizerIterationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "optimizer_iterations_total",
				Help:      "Total number of optimizer iterations",
			},
			[]string{"mode"},
		),

		OptimizerDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "optimizer_duration_seconds",
				Help:      "Duration of optimization runs",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
			},
			[]string{"mode"},
		),

		// Кэш значений целевой функции
		CacheLookupsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cache_lookups_total",
				Help:      "Total number of objective cache lookups",
			},
			[]string{"backend", "result"},
		),

		ServiceInfo: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "service_info",
				Help:      "Service information",
			},
			[]string{"version", "environment"},
		),
	}

	defaultMetrics = m
	return m
}

// Get возвращает глобальные метрики
func Get() *Metrics {
	if defaultMetrics == nil {
		return InitMetrics("meio", "")
	}
	return defaultMetrics
}

// RecordReplications записывает метрики пакета репликаций симуляции.
// avgDuration - среднее время одной репликации в пакете.
func (m *Metrics) RecordReplications(policy string, count int, success bool, avgDuration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}

	m.ReplicationsTotal.WithLabelValues(policy, status).Add(float64(count))
	if count > 0 {
		m.ReplicationDuration.WithLabelValues(policy).Observe(avgDuration.Seconds())
	}
}

// RecordEvaluation записывает метрики оценки целевой функции
func (m *Metrics) RecordEvaluation(policy, outcome string, duration time.Duration, value, penalty float64) {
	m.EvaluationsTotal.WithLabelValues(policy, outcome).Inc()
	m.EvaluationDuration.WithLabelValues(policy).Observe(duration.Seconds())
	m.ObjectiveValue.WithLabelValues(policy).Set(value)
	m.ObjectivePenalty.WithLabelValues(policy).Set(penalty)
}

// RecordNodeResults записывает поузловые метрики последней оценки
func (m *Metrics) RecordNodeResults(serviceLevels, avgOnHand []float64) {
	for i, sl := range serviceLevels {
		m.NodeServiceLevel.WithLabelValues(strconv.Itoa(i)).Set(sl)
	}
	for i, oh := range avgOnHand {
		m.NodeAvgOnHand.WithLabelValues(strconv.Itoa(i)).Set(oh)
	}
}

// RecordOptimizerRun записывает метрики прогона оптимизатора
func (m *Metrics) RecordOptimizerRun(mode string, success bool, iterations int, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}

	m.OptimizerRunsTotal.WithLabelValues(mode, status).Inc()
	m.OptimizerIterationsTotal.WithLabelValues(mode).Add(float64(iterations))
	m.OptimizerDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordCacheLookup записывает результат обращения к кэшу
func (m *Metrics) RecordCacheLookup(backend string, hit bool) {
	result := "hit"
	if !hit {
		result = "miss"
	}
	m.CacheLookupsTotal.WithLabelValues(backend, result).Inc()
}

// SetServiceInfo устанавливает информацию о сервисе
func (m *Metrics) SetServiceInfo(version, environment string) {
	m.ServiceInfo.WithLabelValues(version, environment).Set(1)
}

// Handler возвращает HTTP handler для /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}

// StartMetricsServer запускает HTTP сервер для метрик
func StartMetricsServer(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		// Игнорируем ошибку записи - response уже отправлен
		_, _ = w.Write([]byte("OK")) //nolint:errcheck // health endpoint, ошибка записи не критична
	})

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return server.ListenAndServe()
}
