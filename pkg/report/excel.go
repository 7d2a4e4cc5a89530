package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/apperror"
)

// ExcelGenerator генератор Excel отчётов
type ExcelGenerator struct {
	BaseGenerator
}

// NewExcelGenerator создаёт новый генератор
func NewExcelGenerator() *ExcelGenerator {
	return &ExcelGenerator{}
}

// Format возвращает формат генератора
func (g *ExcelGenerator) Format() string {
	return FormatExcel
}

// Generate генерирует книгу из двух листов: сводка запуска и
// поузловые результаты
func (g *ExcelGenerator) Generate(ctx context.Context, data *RunReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	g.writeSummarySheet(f, data, headerStyle)
	g.writeNodesSheet(f, data, headerStyle)

	f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeReportFailure, "excel write error")
	}

	return buf.Bytes(), nil
}

func (g *ExcelGenerator) writeSummarySheet(f *excelize.File, data *RunReport, headerStyle int) {
	sheetName := "Summary"
	f.NewSheet(sheetName)
	f.SetColWidth(sheetName, "A", "A", 24)
	f.SetColWidth(sheetName, "B", "B", 28)

	row := 1
	f.SetCellValue(sheetName, cellAddr("A", row), "Inventory Optimization Report")
	f.MergeCell(sheetName, cellAddr("A", row), cellAddr("B", row))
	row += 2

	f.SetCellValue(sheetName, cellAddr("A", row), "Run Summary")
	f.SetCellStyle(sheetName, cellAddr("A", row), cellAddr("B", row), headerStyle)
	row++

	entries := []struct {
		label string
		value any
	}{
		{"Run ID", data.RunID},
		{"Mode", data.Mode},
		{"Policy", data.Policy},
		{"Objective Value", data.ObjectiveValue},
		{"Total On-Hand", data.TotalOnHand},
		{"Penalty", data.Penalty},
		{"Iterations", data.Iterations},
		{"Evaluations", data.Evaluations},
		{"Cycles", data.Cycles},
		{"Replications", data.Replications},
		{"Horizon", data.Horizon},
		{"Wall Time", g.FormatDuration(data.DurationMs)},
		{"Generated At", g.FormatTimestamp(data.GeneratedAt)},
	}
	for _, e := range entries {
		f.SetCellValue(sheetName, cellAddr("A", row), e.label)
		f.SetCellValue(sheetName, cellAddr("B", row), e.value)
		row++
	}

	met, total := data.TargetsMet()
	row++
	f.SetCellValue(sheetName, cellAddr("A", row), "Service Targets Met")
	f.SetCellValue(sheetName, cellAddr("B", row), fmt.Sprintf("%d of %d", met, total))
}

func (g *ExcelGenerator) writeNodesSheet(f *excelize.File, data *RunReport, headerStyle int) {
	sheetName := "Nodes"
	f.NewSheet(sheetName)
	f.SetColWidth(sheetName, "A", "G", 16)

	headers := []string{"Node", "Base Stock", "Reorder Point", "Service Level", "Service Target", "Target Met", "Avg On-Hand"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cellAddr(string(rune('A'+i)), 1), h)
	}
	f.SetCellStyle(sheetName, cellAddr("A", 1), cellAddr("G", 1), headerStyle)

	row := 2
	for _, n := range data.Nodes {
		if n.IsSource {
			continue
		}
		f.SetCellValue(sheetName, cellAddr("A", row), n.Node)
		f.SetCellValue(sheetName, cellAddr("B", row), n.BaseStock)
		f.SetCellValue(sheetName, cellAddr("C", row), n.ReorderPoint)
		f.SetCellValue(sheetName, cellAddr("D", row), n.ServiceLevel)
		f.SetCellValue(sheetName, cellAddr("E", row), n.ServiceTarget)
		f.SetCellValue(sheetName, cellAddr("F", row), n.TargetMet())
		f.SetCellValue(sheetName, cellAddr("G", row), n.AvgOnHand)
		row++
	}
}
