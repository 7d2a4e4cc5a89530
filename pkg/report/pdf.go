package report

import (
	"context"
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/apperror"
)

// PDFGenerator генератор PDF отчётов
type PDFGenerator struct {
	BaseGenerator
}

// NewPDFGenerator создаёт новый генератор
func NewPDFGenerator() *PDFGenerator {
	return &PDFGenerator{}
}

// Format возвращает формат генератора
func (g *PDFGenerator) Format() string {
	return FormatPDF
}

// Стили
var (
	// Цвета
	primaryColor   = &props.Color{Red: 52, Green: 152, Blue: 219}  // #3498db
	headerBgColor  = &props.Color{Red: 44, Green: 62, Blue: 80}    // #2c3e50
	successColor   = &props.Color{Red: 39, Green: 174, Blue: 96}   // #27ae60
	dangerColor    = &props.Color{Red: 231, Green: 76, Blue: 60}   // #e74c3c
	lightGrayColor = &props.Color{Red: 236, Green: 240, Blue: 241} // #ecf0f1
	darkGrayColor  = &props.Color{Red: 127, Green: 140, Blue: 141} // #7f8c8d

	// Стили текста
	titleStyle = props.Text{
		Size:  24,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: headerBgColor,
	}

	h2Style = props.Text{
		Size:  16,
		Style: fontstyle.Bold,
		Color: headerBgColor,
		Top:   5,
	}

	normalStyle = props.Text{
		Size: 10,
	}

	boldStyle = props.Text{
		Size:  10,
		Style: fontstyle.Bold,
	}

	smallStyle = props.Text{
		Size:  8,
		Color: darkGrayColor,
	}

	metricValueStyle = props.Text{
		Size:  20,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: primaryColor,
	}

	metricLabelStyle = props.Text{
		Size:  9,
		Align: align.Center,
		Color: darkGrayColor,
	}

	tableHeaderStyle = &props.Cell{
		BackgroundColor: primaryColor,
	}

	tableHeaderTextStyle = props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
		Align: align.Center,
	}

	tableCellStyle = &props.Cell{
		BorderType:  border.Bottom,
		BorderColor: lightGrayColor,
	}

	tableCellTextStyle = props.Text{
		Size:  9,
		Align: align.Center,
	}
)

// Generate генерирует PDF отчёт
func (g *PDFGenerator) Generate(ctx context.Context, data *RunReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	g.addHeader(m, data)
	g.addSummary(m, data)
	g.addNodeTable(m, data)
	g.addPenaltyBreakdown(m, data)
	g.addFooter(m)

	doc, err := m.Generate()
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeReportFailure, "failed to generate PDF")
	}

	return doc.GetBytes(), nil
}

func (g *PDFGenerator) addHeader(m core.Maroto, data *RunReport) {
	m.AddRow(15,
		text.NewCol(12, "Inventory Optimization Report", titleStyle),
	)

	m.AddRow(5,
		line.NewCol(12),
	)

	m.AddRow(6,
		text.NewCol(6, fmt.Sprintf("Run: %s", data.RunID), smallStyle),
		text.NewCol(6, fmt.Sprintf("Generated: %s", g.FormatTimestamp(data.GeneratedAt)),
			props.Text{Size: 8, Color: darkGrayColor, Align: align.Right}),
	)

	m.AddRow(8)
}

func (g *PDFGenerator) addSummary(m core.Maroto, data *RunReport) {
	g.addSection(m, "Run Summary")

	g.addMetricCards(m, []metricCard{
		{Label: "Objective Value", Value: g.FormatFloat(data.ObjectiveValue, 2), Highlight: true},
		{Label: "Total On-Hand", Value: g.FormatFloat(data.TotalOnHand, 2), Highlight: true},
		{Label: "Penalty", Value: g.FormatFloat(data.Penalty, 2)},
	})

	m.AddRow(5)
	g.addKeyValueTable(m, []keyValue{
		{"Mode", data.Mode},
		{"Policy", data.Policy},
		{"Iterations", fmt.Sprintf("%d", data.Iterations)},
		{"Evaluations", fmt.Sprintf("%d", data.Evaluations)},
		{"Cycles", fmt.Sprintf("%d", data.Cycles)},
		{"Replications", fmt.Sprintf("%d", data.Replications)},
		{"Horizon", g.FormatFloat(data.Horizon, 0)},
		{"Wall Time", g.FormatDuration(data.DurationMs)},
	})
}

func (g *PDFGenerator) addNodeTable(m core.Maroto, data *RunReport) {
	g.addSection(m, "Node Results")

	m.AddRow(8,
		text.NewCol(1, "Node", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(2, "Base Stock", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(2, "Reorder Pt", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(2, "Service", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(2, "Target", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(3, "Avg On-Hand", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
	)

	for _, n := range data.Nodes {
		if n.IsSource {
			continue
		}

		serviceStyle := tableCellTextStyle
		if n.ServiceTarget > 0 {
			if n.TargetMet() {
				serviceStyle.Color = successColor
			} else {
				serviceStyle.Color = dangerColor
			}
		}

		m.AddRow(6,
			text.NewCol(1, fmt.Sprintf("%d", n.Node), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(2, g.FormatFloat(n.BaseStock, 2), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(2, g.FormatFloat(n.ReorderPoint, 2), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(2, g.FormatPercent(n.ServiceLevel), serviceStyle).WithStyle(tableCellStyle),
			text.NewCol(2, g.FormatPercent(n.ServiceTarget), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(3, g.FormatFloat(n.AvgOnHand, 2), tableCellTextStyle).WithStyle(tableCellStyle),
		)
	}
}

func (g *PDFGenerator) addPenaltyBreakdown(m core.Maroto, data *RunReport) {
	g.addSection(m, "Service Targets")

	met, total := data.TargetsMet()
	status := fmt.Sprintf("Targets met: %d of %d", met, total)
	if data.Penalty > 0 {
		status += fmt.Sprintf(" | penalty contribution: %s", g.FormatFloat(data.Penalty, 2))
	}
	m.AddRow(8,
		text.NewCol(12, status, boldStyle),
	)

	for _, n := range data.Nodes {
		if n.IsSource || n.ServiceTarget <= 0 || n.TargetMet() {
			continue
		}
		m.AddRow(6,
			text.NewCol(12,
				fmt.Sprintf("Node %d is below target: %s of %s",
					n.Node, g.FormatPercent(n.ServiceLevel), g.FormatPercent(n.ServiceTarget)),
				props.Text{Size: 9, Color: dangerColor}),
		)
	}
}

// === Вспомогательные методы ===

type metricCard struct {
	Label     string
	Value     string
	Highlight bool
}

func (g *PDFGenerator) addMetricCards(m core.Maroto, cards []metricCard) {
	if len(cards) == 0 {
		return
	}

	colSize := 12 / len(cards)
	if colSize < 2 {
		colSize = 2
	}

	var cols []core.Col
	for _, card := range cards {
		valueStyle := metricValueStyle
		if !card.Highlight {
			valueStyle.Size = 14
		}

		cols = append(cols,
			col.New(colSize).Add(
				text.New(card.Value, valueStyle),
				text.New(card.Label, metricLabelStyle),
			),
		)
	}

	m.AddRow(20, cols...)
}

type keyValue struct {
	Key   string
	Value string
}

func (g *PDFGenerator) addKeyValueTable(m core.Maroto, items []keyValue) {
	for _, item := range items {
		m.AddRow(6,
			text.NewCol(6, item.Key, boldStyle),
			text.NewCol(6, item.Value, normalStyle),
		)
	}
}

func (g *PDFGenerator) addSection(m core.Maroto, title string) {
	m.AddRow(10,
		text.NewCol(12, title, h2Style),
	)
	m.AddRow(2,
		line.NewCol(12, props.Line{Color: primaryColor}),
	)
	m.AddRow(5)
}

func (g *PDFGenerator) addFooter(m core.Maroto) {
	m.AddRow(10)
	m.AddRow(2,
		line.NewCol(12, props.Line{Color: lightGrayColor}),
	)
	m.AddRow(6,
		text.NewCol(12,
			fmt.Sprintf("Generated by invopt | %s", time.Now().Format("2006-01-02 15:04:05")),
			props.Text{Size: 8, Color: darkGrayColor, Align: align.Center},
		),
	)
}
