// pkg/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/apperror"
)

// Config - главная структура конфигурации
type Config struct {
	App        AppConfig        `koanf:"app"`
	Log        LogConfig        `koanf:"log"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	Tracing    TracingConfig    `koanf:"tracing"`
	Data       DataConfig       `koanf:"data"`
	Network    NetworkConfig    `koanf:"network"`
	Simulation SimulationConfig `koanf:"simulation"`
	Optimizer  OptimizerConfig  `koanf:"optimizer"`
	Cache      CacheConfig      `koanf:"cache"`
	Database   DatabaseConfig   `koanf:"database"`
	Report     ReportConfig     `koanf:"report"`
}

// AppConfig - общие настройки приложения
type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"` // development, staging, production
	Debug       bool   `koanf:"debug"`
}

// LogConfig - настройки логирования
type LogConfig struct {
	Level      string `koanf:"level"`       // debug, info, warn, error
	Format     string `koanf:"format"`      // json, text
	Output     string `koanf:"output"`      // stdout, stderr, file
	FilePath   string `koanf:"file_path"`   // путь к файлу логов
	MaxSize    int    `koanf:"max_size"`    // MB
	MaxBackups int    `koanf:"max_backups"` // количество бэкапов
	MaxAge     int    `koanf:"max_age"`     // дней
	Compress   bool   `koanf:"compress"`
}

// MetricsConfig - настройки Prometheus метрик
type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Port      int    `koanf:"port"`
	Path      string `koanf:"path"`
	Namespace string `koanf:"namespace"`
	Subsystem string `koanf:"subsystem"`
}

// Address возвращает адрес HTTP сервера метрик
func (m MetricsConfig) Address() string {
	return fmt.Sprintf(":%d", m.Port)
}

// TracingConfig - настройки OpenTelemetry
type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// DataConfig - пути к файлам исторических данных
type DataConfig struct {
	DemandFile string `koanf:"demand_file"` // CSV спроса, колонка на узел
	DelayFile  string `koanf:"delay_file"`  // CSV задержек поставок
}

// NetworkConfig - топология сети поставок
type NetworkConfig struct {
	// Adjacency - матрица смежности; Adjacency[i][j] == 1 задаёт дугу i -> j
	Adjacency [][]int `koanf:"adjacency"`
	// DefaultLeadTime - штатный срок поставки до каждого узла
	DefaultLeadTime []float64 `koanf:"default_lead_time"`
	// ServiceTarget - целевой уровень сервиса каждого узла (0 - без цели)
	ServiceTarget []float64 `koanf:"service_target"`
}

// SimulationConfig - настройки симуляции
type SimulationConfig struct {
	Horizon       float64 `koanf:"horizon"`        // длительность репликации в периодах
	ReorderMargin float64 `koanf:"reorder_margin"` // множитель точки перезаказа, >= 1
	Replications  int     `koanf:"replications"`   // количество репликаций на оценку
	Seed          int64   `koanf:"seed"`           // базовый seed первой репликации
	Policy        string  `koanf:"policy"`         // backorder, lost_sales
	InitialFactor float64 `koanf:"initial_factor"` // доля базового уровня как стартовый запас
	Workers       int     `koanf:"workers"`        // ширина пула репликаций, 1 - последовательно
}

// OptimizerConfig - настройки оптимизатора
type OptimizerConfig struct {
	Mode          string    `koanf:"mode"`           // basestock, excess
	Initial       []float64 `koanf:"initial"`        // стартовая точка поиска
	MaxIterations int       `koanf:"max_iterations"` // бюджет итераций одного цикла
	Cycles        int       `koanf:"cycles"`         // количество перезапусков поиска
	PenaltyWeight float64   `koanf:"penalty_weight"` // вес штрафа за недобор сервиса
}

// CacheConfig - настройки кэширования оценок целевой функции
type CacheConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Driver     string        `koanf:"driver"` // redis, memory
	Host       string        `koanf:"host"`
	Port       int           `koanf:"port"`
	Password   string        `koanf:"password"`
	DB         int           `koanf:"db"`
	DefaultTTL time.Duration `koanf:"default_ttl"`
	MaxEntries int           `koanf:"max_entries"` // для in-memory
}

// Address возвращает адрес кэша
func (c CacheConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig - настройки базы истории запусков
type DatabaseConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Database        string        `koanf:"database"`
	Username        string        `koanf:"username"`
	Password        string        `koanf:"password"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

// DSN возвращает строку подключения
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.Username, d.Password, d.Database, d.SSLMode,
	)
}

// ReportConfig - настройки итоговых отчётов
type ReportConfig struct {
	Enabled   bool     `koanf:"enabled"`
	OutputDir string   `koanf:"output_dir"`
	Formats   []string `koanf:"formats"` // csv, json, markdown, excel, pdf
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

var validPolicies = map[string]bool{"backorder": true, "lost_sales": true}

var validModes = map[string]bool{"basestock": true, "excess": true}

var validCacheDrivers = map[string]bool{"memory": true, "redis": true}

var validReportFormats = map[string]bool{
	"csv": true, "json": true, "markdown": true, "excel": true, "pdf": true,
}

// Validate проверяет конфигурацию и собирает все проблемы разом
func (c *Config) Validate() error {
	ve := apperror.NewValidationErrors()

	if c.App.Name == "" {
		ve.AddErrorWithField(apperror.CodeInvalidArgument, "app.name is required", "app.name")
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		ve.AddErrorWithField(apperror.CodeInvalidArgument,
			fmt.Sprintf("log.level must be one of: debug, info, warn, error, got %s", c.Log.Level), "log.level")
	}

	if c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		ve.AddErrorWithField(apperror.CodeInvalidArgument,
			fmt.Sprintf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port), "metrics.port")
	}

	if c.Data.DemandFile == "" {
		ve.AddErrorWithField(apperror.CodeInvalidArgument, "data.demand_file is required", "data.demand_file")
	}
	if c.Data.DelayFile == "" {
		ve.AddErrorWithField(apperror.CodeInvalidArgument, "data.delay_file is required", "data.delay_file")
	}

	c.validateNetwork(ve)
	c.validateSimulation(ve)
	c.validateOptimizer(ve)

	if c.Cache.Enabled && !validCacheDrivers[c.Cache.Driver] {
		ve.AddErrorWithField(apperror.CodeInvalidArgument,
			fmt.Sprintf("cache.driver must be one of: memory, redis, got %s", c.Cache.Driver), "cache.driver")
	}

	if c.Database.Enabled {
		if c.Database.Host == "" {
			ve.AddErrorWithField(apperror.CodeInvalidArgument, "database.host is required", "database.host")
		}
		if c.Database.Database == "" {
			ve.AddErrorWithField(apperror.CodeInvalidArgument, "database.database is required", "database.database")
		}
		if c.Database.Username == "" {
			ve.AddErrorWithField(apperror.CodeInvalidArgument, "database.username is required", "database.username")
		}
	}

	if c.Report.Enabled {
		for _, f := range c.Report.Formats {
			if !validReportFormats[f] {
				ve.AddErrorWithField(apperror.CodeInvalidArgument,
					fmt.Sprintf("report.formats: unknown format %q", f), "report.formats")
			}
		}
	}

	if !ve.IsValid() {
		return apperror.New(apperror.CodeInvalidArgument,
			fmt.Sprintf("configuration validation failed: %s", strings.Join(ve.ErrorMessages(), "; "))).
			WithDetails("errors", ve.ErrorMessages())
	}
	return nil
}

func (c *Config) validateNetwork(ve *apperror.ValidationErrors) {
	n := len(c.Network.Adjacency)
	if n == 0 {
		ve.AddErrorWithField(apperror.CodeInvalidArgument, "network.adjacency is required", "network.adjacency")
		return
	}
	for i, row := range c.Network.Adjacency {
		if len(row) != n {
			ve.AddErrorWithField(apperror.CodeInvalidArgument,
				fmt.Sprintf("network.adjacency row %d has %d entries, expected %d", i, len(row), n),
				"network.adjacency")
		}
	}
	if len(c.Network.DefaultLeadTime) != n {
		ve.AddErrorWithField(apperror.CodeInvalidArgument,
			fmt.Sprintf("network.default_lead_time has %d entries, expected %d", len(c.Network.DefaultLeadTime), n),
			"network.default_lead_time")
	}
	if len(c.Network.ServiceTarget) != n {
		ve.AddErrorWithField(apperror.CodeInvalidArgument,
			fmt.Sprintf("network.service_target has %d entries, expected %d", len(c.Network.ServiceTarget), n),
			"network.service_target")
	}
	for i, target := range c.Network.ServiceTarget {
		if target < 0 || target > 1 {
			ve.AddErrorWithField(apperror.CodeInvalidArgument,
				fmt.Sprintf("network.service_target[%d] must be within [0, 1], got %v", i, target),
				"network.service_target")
		}
	}
}

func (c *Config) validateSimulation(ve *apperror.ValidationErrors) {
	if c.Simulation.Horizon <= 0 {
		ve.AddErrorWithField(apperror.CodeInvalidHorizon,
			fmt.Sprintf("simulation.horizon must be positive, got %v", c.Simulation.Horizon), "simulation.horizon")
	}
	if c.Simulation.ReorderMargin < 1.0 {
		ve.AddErrorWithField(apperror.CodeInvalidMargin,
			fmt.Sprintf("simulation.reorder_margin must be at least 1.0, got %v", c.Simulation.ReorderMargin),
			"simulation.reorder_margin")
	}
	if c.Simulation.Replications <= 0 {
		ve.AddErrorWithField(apperror.CodeInvalidArgument,
			fmt.Sprintf("simulation.replications must be positive, got %d", c.Simulation.Replications),
			"simulation.replications")
	}
	if !validPolicies[c.Simulation.Policy] {
		ve.AddErrorWithField(apperror.CodeInvalidPolicy,
			fmt.Sprintf("simulation.policy must be one of: backorder, lost_sales, got %s", c.Simulation.Policy),
			"simulation.policy")
	}
	if c.Simulation.InitialFactor <= 0 || c.Simulation.InitialFactor > 1 {
		ve.AddErrorWithField(apperror.CodeInvalidArgument,
			fmt.Sprintf("simulation.initial_factor must be within (0, 1], got %v", c.Simulation.InitialFactor),
			"simulation.initial_factor")
	}
	if c.Simulation.Workers < 1 {
		ve.AddErrorWithField(apperror.CodeInvalidArgument,
			fmt.Sprintf("simulation.workers must be at least 1, got %d", c.Simulation.Workers),
			"simulation.workers")
	}
}

func (c *Config) validateOptimizer(ve *apperror.ValidationErrors) {
	if !validModes[c.Optimizer.Mode] {
		ve.AddErrorWithField(apperror.CodeInvalidMode,
			fmt.Sprintf("optimizer.mode must be one of: basestock, excess, got %s", c.Optimizer.Mode),
			"optimizer.mode")
	}
	if n := len(c.Network.Adjacency); n > 1 && len(c.Optimizer.Initial) != 2*(n-1) {
		ve.AddErrorWithField(apperror.CodeDimensionMismatch,
			fmt.Sprintf("optimizer.initial has %d entries, expected %d (base stock and reorder point per non-source node)",
				len(c.Optimizer.Initial), 2*(n-1)),
			"optimizer.initial")
	}
	if c.Optimizer.MaxIterations <= 0 {
		ve.AddErrorWithField(apperror.CodeInvalidArgument,
			fmt.Sprintf("optimizer.max_iterations must be positive, got %d", c.Optimizer.MaxIterations),
			"optimizer.max_iterations")
	}
	if c.Optimizer.Cycles < 1 {
		ve.AddErrorWithField(apperror.CodeInvalidArgument,
			fmt.Sprintf("optimizer.cycles must be at least 1, got %d", c.Optimizer.Cycles),
			"optimizer.cycles")
	}
	if c.Optimizer.PenaltyWeight < 0 {
		ve.AddErrorWithField(apperror.CodeInvalidArgument,
			fmt.Sprintf("optimizer.penalty_weight must be non-negative, got %v", c.Optimizer.PenaltyWeight),
			"optimizer.penalty_weight")
	}
}

// IsDevelopment проверяет режим разработки
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "dev"
}

// IsProduction проверяет продакшн режим
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production" || c.App.Environment == "prod"
}
