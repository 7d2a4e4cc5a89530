package report

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/apperror"
)

func sampleReport() *RunReport {
	return &RunReport{
		RunID:          "7b7d2b1e-3f61-4a8e-9a34-1f2c5d6e7a8b",
		Mode:           "basestock",
		Policy:         "backorder",
		ObjectiveValue: 1234.5678,
		TotalOnHand:    1234.5678,
		Penalty:        0,
		Nodes: []NodeReport{
			{Node: 0, IsSource: true, BaseStock: 10000, ReorderPoint: 0, ServiceLevel: 1.0, ServiceTarget: 0, AvgOnHand: 0},
			{Node: 1, BaseStock: 620.5, ReorderPoint: 245.2, ServiceLevel: 0.971, ServiceTarget: 0.95, AvgOnHand: 410.3},
			{Node: 2, BaseStock: 305.0, ReorderPoint: 148.7, ServiceLevel: 0.932, ServiceTarget: 0.95, AvgOnHand: 180.6},
		},
		Iterations:   142,
		Evaluations:  198,
		Cycles:       2,
		Replications: 20,
		Horizon:      360,
		DurationMs:   4520.8,
		GeneratedAt:  time.Date(2024, 11, 5, 14, 30, 0, 0, time.UTC),
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{FormatCSV, "csv"},
		{FormatJSON, "json"},
		{FormatMarkdown, "markdown"},
		{FormatExcel, "excel"},
		{FormatPDF, "pdf"},
	}
	for _, tt := range tests {
		g, err := New(tt.format)
		require.NoError(t, err, tt.format)
		assert.Equal(t, tt.want, g.Format())
	}
}

func TestNewUnknownFormat(t *testing.T) {
	_, err := New("docx")
	require.Error(t, err)
	assert.Equal(t, apperror.CodeReportFailure, apperror.Code(err))
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "csv", Extension(FormatCSV))
	assert.Equal(t, "json", Extension(FormatJSON))
	assert.Equal(t, "md", Extension(FormatMarkdown))
	assert.Equal(t, "xlsx", Extension(FormatExcel))
	assert.Equal(t, "pdf", Extension(FormatPDF))
}

func TestNodeReportTargetMet(t *testing.T) {
	assert.True(t, NodeReport{ServiceLevel: 0.96, ServiceTarget: 0.95}.TargetMet())
	assert.True(t, NodeReport{ServiceLevel: 0.95, ServiceTarget: 0.95}.TargetMet())
	assert.False(t, NodeReport{ServiceLevel: 0.90, ServiceTarget: 0.95}.TargetMet())
}

func TestRunReportTargetsMet(t *testing.T) {
	data := sampleReport()
	met, total := data.TargetsMet()

	// Источник без цели не считается
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, met)
}

func TestBaseGeneratorFormatting(t *testing.T) {
	var b BaseGenerator

	assert.Equal(t, "1234.57", b.FormatFloat(1234.5678, 2))
	assert.Equal(t, "97.10%", b.FormatPercent(0.971))
	assert.Equal(t, "250.00 ms", b.FormatDuration(250))
	assert.Equal(t, "4.52 s", b.FormatDuration(4520.8))
	assert.Equal(t, "2024-11-05 14:30:00", b.FormatTimestamp(time.Date(2024, 11, 5, 14, 30, 0, 0, time.UTC)))
}

func TestCSVGeneratorGenerate(t *testing.T) {
	g := NewCSVGenerator()
	out, err := g.Generate(context.Background(), sampleReport())
	require.NoError(t, err)

	csv := string(out)
	assert.Contains(t, csv, "Inventory Optimization Report")
	assert.Contains(t, csv, "Run Summary")
	assert.Contains(t, csv, "basestock")
	assert.Contains(t, csv, "backorder")
	assert.Contains(t, csv, "1234.5678")
	assert.Contains(t, csv, "Node Results")
	assert.Contains(t, csv, "620.50")
	assert.Contains(t, csv, "97.10%")

	// Узел-источник в таблицу не попадает
	lines := strings.Split(csv, "\n")
	for _, line := range lines {
		assert.False(t, strings.HasPrefix(line, "0,"), "source row should be skipped: %s", line)
	}
}

func TestJSONGeneratorGenerate(t *testing.T) {
	g := NewJSONGenerator()
	data := sampleReport()
	out, err := g.Generate(context.Background(), data)
	require.NoError(t, err)

	var decoded RunReport
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, data.RunID, decoded.RunID)
	assert.Equal(t, data.ObjectiveValue, decoded.ObjectiveValue)
	assert.Len(t, decoded.Nodes, 3)
	assert.True(t, decoded.Nodes[0].IsSource)
	assert.True(t, bytes.HasSuffix(out, []byte("\n")))
}

func TestMarkdownGeneratorGenerate(t *testing.T) {
	g := NewMarkdownGenerator()
	out, err := g.Generate(context.Background(), sampleReport())
	require.NoError(t, err)

	md := string(out)
	assert.Contains(t, md, "# Inventory Optimization Report")
	assert.Contains(t, md, "## Summary")
	assert.Contains(t, md, "| Mode | basestock |")
	assert.Contains(t, md, "Service targets met: 1 of 2.")
	assert.Contains(t, md, "## Node Results")
	assert.Contains(t, md, "| 1 | 620.50 |")
	assert.NotContains(t, md, "| 0 | 10000.00 |")
}

func TestExcelGeneratorGenerate(t *testing.T) {
	g := NewExcelGenerator()
	out, err := g.Generate(context.Background(), sampleReport())
	require.NoError(t, err)
	require.NotEmpty(t, out)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "Nodes"}, f.GetSheetList())

	title, err := f.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Inventory Optimization Report", title)

	// Первая строка данных на листе Nodes — узел 1, источник пропущен
	node, err := f.GetCellValue("Nodes", "A2")
	require.NoError(t, err)
	assert.Equal(t, "1", node)
}

func TestPDFGeneratorGenerate(t *testing.T) {
	g := NewPDFGenerator()
	out, err := g.Generate(context.Background(), sampleReport())
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPDFGeneratorGenerateMissedTargets(t *testing.T) {
	g := NewPDFGenerator()
	data := sampleReport()
	data.Penalty = 55000
	data.ObjectiveValue = data.TotalOnHand + data.Penalty

	out, err := g.Generate(context.Background(), data)
	require.NoError(t, err)
	require.NotEmpty(t, out)
}

func TestGeneratorsFormat(t *testing.T) {
	assert.Equal(t, FormatCSV, NewCSVGenerator().Format())
	assert.Equal(t, FormatJSON, NewJSONGenerator().Format())
	assert.Equal(t, FormatMarkdown, NewMarkdownGenerator().Format())
	assert.Equal(t, FormatExcel, NewExcelGenerator().Format())
	assert.Equal(t, FormatPDF, NewPDFGenerator().Format())
}
