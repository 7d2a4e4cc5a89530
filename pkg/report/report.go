// Package report формирует итоговые отчёты законченного запуска
// оптимизации в нескольких форматах. Все генераторы работают с одним
// снимком результатов RunReport и не обращаются к живым данным.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/apperror"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/domain"
)

// Имена форматов в конфигурации
const (
	FormatCSV      = "csv"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatExcel    = "excel"
	FormatPDF      = "pdf"
)

// NodeReport строка отчёта по одному узлу сети
type NodeReport struct {
	Node          int     `json:"node"`
	IsSource      bool    `json:"is_source"`
	BaseStock     float64 `json:"base_stock"`
	ReorderPoint  float64 `json:"reorder_point"`
	ServiceLevel  float64 `json:"service_level"`
	ServiceTarget float64 `json:"service_target"`
	AvgOnHand     float64 `json:"avg_on_hand"`
}

// TargetMet проверяет, достигнута ли сервисная цель узла
func (n NodeReport) TargetMet() bool {
	return n.ServiceLevel+domain.DemandEpsilon >= n.ServiceTarget
}

// RunReport снимок результатов одного запуска оптимизации
type RunReport struct {
	RunID  string `json:"run_id"`
	Mode   string `json:"mode"`
	Policy string `json:"policy"`

	ObjectiveValue float64 `json:"objective_value"`
	TotalOnHand    float64 `json:"total_on_hand"`
	Penalty        float64 `json:"penalty"`

	Nodes []NodeReport `json:"nodes"`

	Iterations   int     `json:"iterations"`
	Evaluations  int     `json:"evaluations"`
	Cycles       int     `json:"cycles"`
	Replications int     `json:"replications"`
	Horizon      float64 `json:"horizon"`
	DurationMs   float64 `json:"duration_ms"`

	GeneratedAt time.Time `json:"generated_at"`
}

// TargetsMet возвращает количество узлов с достигнутой сервисной целью
// и количество узлов, у которых цель задана
func (r *RunReport) TargetsMet() (met, total int) {
	for _, n := range r.Nodes {
		if n.ServiceTarget <= 0 {
			continue
		}
		total++
		if n.TargetMet() {
			met++
		}
	}
	return met, total
}

// Generator интерфейс генератора отчётов
type Generator interface {
	Generate(ctx context.Context, data *RunReport) ([]byte, error)
	Format() string
}

// New возвращает генератор по имени формата
func New(format string) (Generator, error) {
	switch format {
	case FormatCSV:
		return NewCSVGenerator(), nil
	case FormatJSON:
		return NewJSONGenerator(), nil
	case FormatMarkdown:
		return NewMarkdownGenerator(), nil
	case FormatExcel:
		return NewExcelGenerator(), nil
	case FormatPDF:
		return NewPDFGenerator(), nil
	default:
		return nil, apperror.New(apperror.CodeReportFailure,
			fmt.Sprintf("unknown report format %q", format))
	}
}

// Extension возвращает расширение файла для формата
func Extension(format string) string {
	switch format {
	case FormatExcel:
		return "xlsx"
	case FormatMarkdown:
		return "md"
	default:
		return format
	}
}

// BaseGenerator базовые утилиты для генераторов
type BaseGenerator struct{}

// FormatFloat форматирует число с заданной точностью
func (b *BaseGenerator) FormatFloat(v float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, v)
}

// FormatPercent форматирует долю как процент
func (b *BaseGenerator) FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

// FormatDuration форматирует длительность в миллисекундах
func (b *BaseGenerator) FormatDuration(ms float64) string {
	if ms < 1000 {
		return fmt.Sprintf("%.2f ms", ms)
	}
	return fmt.Sprintf("%.2f s", ms/1000)
}

// FormatTimestamp форматирует время
func (b *BaseGenerator) FormatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// cellAddr возвращает адрес ячейки Excel
func cellAddr(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
