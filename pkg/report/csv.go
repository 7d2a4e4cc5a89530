package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/apperror"
)

// CSVGenerator генератор CSV отчётов
type CSVGenerator struct {
	BaseGenerator
}

// NewCSVGenerator создаёт новый генератор
func NewCSVGenerator() *CSVGenerator {
	return &CSVGenerator{}
}

// Format возвращает формат генератора
func (g *CSVGenerator) Format() string {
	return FormatCSV
}

// csvWriter обёртка для отслеживания ошибок
type csvWriter struct {
	w   *csv.Writer
	err error
}

func (cw *csvWriter) Write(record []string) {
	if cw.err != nil {
		return
	}
	cw.err = cw.w.Write(record)
}

func (cw *csvWriter) Flush() {
	if cw.err != nil {
		return
	}
	cw.w.Flush()
	cw.err = cw.w.Error()
}

func (cw *csvWriter) Error() error {
	return cw.err
}

// Generate генерирует CSV отчёт
func (g *CSVGenerator) Generate(ctx context.Context, data *RunReport) ([]byte, error) {
	var buf bytes.Buffer
	cw := &csvWriter{w: csv.NewWriter(&buf)}

	cw.Write([]string{"# Inventory Optimization Report"})
	cw.Write([]string{""})

	cw.Write([]string{"Run Summary"})
	cw.Write([]string{"Run ID", data.RunID})
	cw.Write([]string{"Mode", data.Mode})
	cw.Write([]string{"Policy", data.Policy})
	cw.Write([]string{"Objective Value", g.FormatFloat(data.ObjectiveValue, 4)})
	cw.Write([]string{"Total On-Hand", g.FormatFloat(data.TotalOnHand, 4)})
	cw.Write([]string{"Penalty", g.FormatFloat(data.Penalty, 4)})
	cw.Write([]string{"Iterations", fmt.Sprintf("%d", data.Iterations)})
	cw.Write([]string{"Evaluations", fmt.Sprintf("%d", data.Evaluations)})
	cw.Write([]string{"Cycles", fmt.Sprintf("%d", data.Cycles)})
	cw.Write([]string{"Replications", fmt.Sprintf("%d", data.Replications)})
	cw.Write([]string{"Horizon", g.FormatFloat(data.Horizon, 0)})
	cw.Write([]string{"Wall Time", g.FormatDuration(data.DurationMs)})
	cw.Write([]string{"Generated At", g.FormatTimestamp(data.GeneratedAt)})
	cw.Write([]string{""})

	cw.Write([]string{"Node Results"})
	cw.Write([]string{"Node", "Base Stock", "Reorder Point", "Service Level", "Service Target", "Target Met", "Avg On-Hand"})
	for _, n := range data.Nodes {
		if n.IsSource {
			continue
		}
		cw.Write([]string{
			fmt.Sprintf("%d", n.Node),
			g.FormatFloat(n.BaseStock, 2),
			g.FormatFloat(n.ReorderPoint, 2),
			g.FormatPercent(n.ServiceLevel),
			g.FormatPercent(n.ServiceTarget),
			fmt.Sprintf("%v", n.TargetMet()),
			g.FormatFloat(n.AvgOnHand, 2),
		})
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeReportFailure, "csv write error")
	}

	return buf.Bytes(), nil
}
