package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/anshul-musing/multi-echelon-inventory-optimization/migrations"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/cache"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/config"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/database"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/dataset"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/domain"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/history"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/logger"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/metrics"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/objective"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/optimizer"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/report"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.InitWithConfig(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Телеметрия
	if cfg.Tracing.Enabled {
		tp, err := telemetry.Init(ctx, telemetry.Config{
			Enabled:     cfg.Tracing.Enabled,
			Endpoint:    cfg.Tracing.Endpoint,
			ServiceName: cfg.App.Name,
			Version:     cfg.App.Version,
			Environment: cfg.App.Environment,
			SampleRate:  cfg.Tracing.SampleRate,
		})
		if err != nil {
			logger.Warn("failed to init telemetry", "error", err)
		} else {
			defer func() {
				if err := tp.Shutdown(context.Background()); err != nil {
					logger.Warn("failed to shutdown telemetry", "error", err)
				}
			}()
			logger.Info("telemetry initialized", "endpoint", cfg.Tracing.Endpoint)
		}
	}

	// Метрики
	m := metrics.InitMetrics(cfg.Metrics.Namespace, cfg.Metrics.Subsystem)
	m.SetServiceInfo(cfg.App.Version, cfg.App.Environment)
	if cfg.Metrics.Enabled {
		prometheus.MustRegister(metrics.NewRuntimeCollector(cfg.Metrics.Namespace, cfg.Metrics.Subsystem))
		go func() {
			if err := metrics.StartMetricsServer(cfg.Metrics.Address()); err != nil {
				logger.Warn("metrics server stopped", "error", err)
			}
		}()
	}

	if err := run(ctx, cfg); err != nil {
		logger.Fatal("optimization run failed", "error", err)
	}
}

// run выполняет полный цикл: данные, оптимизация, отчёты, история
func run(ctx context.Context, cfg *config.Config) error {
	runID := uuid.New()
	runLog := logger.WithRunID(runID.String())
	start := time.Now()

	runLog.Info("starting optimization run",
		"mode", cfg.Optimizer.Mode,
		"policy", cfg.Simulation.Policy,
		"replications", cfg.Simulation.Replications,
		"horizon", cfg.Simulation.Horizon,
	)

	// Исторические данные и топология
	data, err := dataset.Load(cfg.Data.DemandFile, cfg.Data.DelayFile)
	if err != nil {
		return err
	}
	network, err := domain.NewNetwork(cfg.Network.Adjacency)
	if err != nil {
		return err
	}
	runLog.Info("scenario loaded",
		"nodes", network.NodeCount(),
		"demand_periods", len(data.Demand[0]),
		"delay_periods", len(data.Delay),
	)

	// Целевая функция
	eval, err := objective.NewEvaluator(network, data.Demand, data.Delay, objective.Settings{
		Mode:            objective.Mode(cfg.Optimizer.Mode),
		Policy:          cfg.Simulation.Policy,
		DefaultLeadTime: cfg.Network.DefaultLeadTime,
		ServiceTarget:   cfg.Network.ServiceTarget,
		Horizon:         cfg.Simulation.Horizon,
		ReorderMargin:   cfg.Simulation.ReorderMargin,
		Replications:    cfg.Simulation.Replications,
		SeedBase:        cfg.Simulation.Seed,
		InitialFactor:   cfg.Simulation.InitialFactor,
		PenaltyWeight:   cfg.Optimizer.PenaltyWeight,
		Workers:         cfg.Simulation.Workers,
	})
	if err != nil {
		return err
	}

	// Кэш оценок
	if cfg.Cache.Enabled {
		c, err := cache.New(cache.FromConfig(&cfg.Cache))
		if err != nil {
			runLog.Warn("cache unavailable, continuing without it", "error", err)
		} else {
			defer c.Close()
			eval.WithCache(c, cfg.Cache.Driver, cfg.Cache.DefaultTTL)
			runLog.Info("objective cache enabled", "driver", cfg.Cache.Driver)
		}
	}

	// История запусков
	var repo history.RunRepository
	if cfg.Database.Enabled {
		db, err := database.NewPostgresDB(ctx, &cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		if cfg.Database.AutoMigrate {
			if err := database.RunMigrations(ctx, db.Pool(), &cfg.Database,
				migrations.PostgresMigrations, "postgres"); err != nil {
				return err
			}
		}
		repo = history.NewPostgresRunRepository(db)
	}

	// Поиск
	result, err := optimizer.Minimize(ctx, eval, cfg.Optimizer.Initial, optimizer.Options{
		MaxIterations: cfg.Optimizer.MaxIterations,
		Cycles:        cfg.Optimizer.Cycles,
	})
	if err != nil {
		return err
	}

	// Итоговая оценка в лучшей точке: поузловые метрики для отчёта
	final, err := eval.Evaluate(ctx, result.X)
	if err != nil {
		return err
	}
	baseStock, rop, err := eval.SplitVector(result.X)
	if err != nil {
		return err
	}

	durationMs := float64(time.Since(start).Milliseconds())
	reportData := buildReport(runID, cfg, network, result, final, baseStock, rop, durationMs)

	runLog.Info("optimization finished",
		"objective_value", result.F,
		"total_on_hand", final.TotalOnHand,
		"penalty", final.Penalty,
		"iterations", result.Iterations,
		"evaluations", result.Evaluations,
		"converged", result.Converged,
		"duration", time.Since(start),
	)
	logNodeResults(runLog, reportData)

	// Отчёты
	if cfg.Report.Enabled {
		if err := writeReports(ctx, cfg, reportData); err != nil {
			return err
		}
	}

	// Запись в историю
	if repo != nil {
		record := &history.Run{
			ID:             runID,
			Mode:           cfg.Optimizer.Mode,
			Policy:         cfg.Simulation.Policy,
			ObjectiveValue: result.F,
			TotalOnHand:    final.TotalOnHand,
			Penalty:        final.Penalty,
			BaseStock:      baseStock,
			ReorderPoint:   rop,
			ServiceLevel:   final.ServiceLevels,
			ServiceTarget:  cfg.Network.ServiceTarget,
			AvgOnHand:      final.AvgOnHand,
			Replications:   cfg.Simulation.Replications,
			Evaluations:    result.Evaluations,
			DurationMs:     durationMs,
		}
		if err := repo.Create(ctx, record); err != nil {
			runLog.Warn("failed to persist run history", "error", err)
		} else {
			runLog.Info("run persisted", "run_id", runID)
		}
	}

	return nil
}

// buildReport собирает снимок результатов для генераторов отчётов
func buildReport(
	runID uuid.UUID,
	cfg *config.Config,
	network *domain.Network,
	result *optimizer.Result,
	final objective.Result,
	baseStock, rop []float64,
	durationMs float64,
) *report.RunReport {
	nodes := make([]report.NodeReport, network.NodeCount())
	for i := range nodes {
		nodes[i] = report.NodeReport{
			Node:          i,
			IsSource:      network.IsSource(i),
			BaseStock:     baseStock[i],
			ReorderPoint:  rop[i],
			ServiceLevel:  final.ServiceLevels[i],
			ServiceTarget: cfg.Network.ServiceTarget[i],
			AvgOnHand:     final.AvgOnHand[i],
		}
	}

	return &report.RunReport{
		RunID:          runID.String(),
		Mode:           cfg.Optimizer.Mode,
		Policy:         cfg.Simulation.Policy,
		ObjectiveValue: result.F,
		TotalOnHand:    final.TotalOnHand,
		Penalty:        final.Penalty,
		Nodes:          nodes,
		Iterations:     result.Iterations,
		Evaluations:    result.Evaluations,
		Cycles:         result.Cycles,
		Replications:   cfg.Simulation.Replications,
		Horizon:        cfg.Simulation.Horizon,
		DurationMs:     durationMs,
		GeneratedAt:    time.Now(),
	}
}

func logNodeResults(runLog *slog.Logger, data *report.RunReport) {
	for _, n := range data.Nodes {
		if n.IsSource {
			continue
		}
		runLog.Info("node result",
			"node", n.Node,
			"base_stock", n.BaseStock,
			"reorder_point", n.ReorderPoint,
			"service_level", n.ServiceLevel,
			"service_target", n.ServiceTarget,
			"target_met", n.TargetMet(),
			"avg_on_hand", n.AvgOnHand,
		)
	}
}

// writeReports генерирует и сохраняет отчёты во всех настроенных форматах
func writeReports(ctx context.Context, cfg *config.Config, data *report.RunReport) error {
	if err := os.MkdirAll(cfg.Report.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	for _, format := range cfg.Report.Formats {
		gen, err := report.New(format)
		if err != nil {
			return err
		}
		out, err := gen.Generate(ctx, data)
		if err != nil {
			return err
		}

		name := fmt.Sprintf("run_%s.%s", data.RunID, report.Extension(format))
		path := filepath.Join(cfg.Report.OutputDir, name)
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return fmt.Errorf("failed to write report %s: %w", path, err)
		}
		logger.Info("report written", "format", format, "path", path)
	}

	return nil
}
