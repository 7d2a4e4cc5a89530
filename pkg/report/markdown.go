package report

import (
	"bytes"
	"context"
	"fmt"
)

// MarkdownGenerator генератор Markdown отчётов
type MarkdownGenerator struct {
	BaseGenerator
}

// NewMarkdownGenerator создаёт новый генератор
func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

// Format возвращает формат генератора
func (g *MarkdownGenerator) Format() string {
	return FormatMarkdown
}

// Generate генерирует Markdown отчёт
func (g *MarkdownGenerator) Generate(ctx context.Context, data *RunReport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Inventory Optimization Report\n\n")
	fmt.Fprintf(&buf, "Run `%s`, generated %s.\n\n", data.RunID, g.FormatTimestamp(data.GeneratedAt))

	fmt.Fprintf(&buf, "## Summary\n\n")
	fmt.Fprintf(&buf, "| Metric | Value |\n")
	fmt.Fprintf(&buf, "|---|---|\n")
	fmt.Fprintf(&buf, "| Mode | %s |\n", data.Mode)
	fmt.Fprintf(&buf, "| Policy | %s |\n", data.Policy)
	fmt.Fprintf(&buf, "| Objective value | %s |\n", g.FormatFloat(data.ObjectiveValue, 4))
	fmt.Fprintf(&buf, "| Total on-hand | %s |\n", g.FormatFloat(data.TotalOnHand, 4))
	fmt.Fprintf(&buf, "| Penalty | %s |\n", g.FormatFloat(data.Penalty, 4))
	fmt.Fprintf(&buf, "| Iterations | %d |\n", data.Iterations)
	fmt.Fprintf(&buf, "| Evaluations | %d |\n", data.Evaluations)
	fmt.Fprintf(&buf, "| Cycles | %d |\n", data.Cycles)
	fmt.Fprintf(&buf, "| Replications | %d |\n", data.Replications)
	fmt.Fprintf(&buf, "| Horizon | %s |\n", g.FormatFloat(data.Horizon, 0))
	fmt.Fprintf(&buf, "| Wall time | %s |\n", g.FormatDuration(data.DurationMs))

	met, total := data.TargetsMet()
	fmt.Fprintf(&buf, "\nService targets met: %d of %d.\n\n", met, total)

	fmt.Fprintf(&buf, "## Node Results\n\n")
	fmt.Fprintf(&buf, "| Node | Base stock | Reorder point | Service level | Target | Met | Avg on-hand |\n")
	fmt.Fprintf(&buf, "|---|---|---|---|---|---|---|\n")
	for _, n := range data.Nodes {
		if n.IsSource {
			continue
		}
		fmt.Fprintf(&buf, "| %d | %s | %s | %s | %s | %v | %s |\n",
			n.Node,
			g.FormatFloat(n.BaseStock, 2),
			g.FormatFloat(n.ReorderPoint, 2),
			g.FormatPercent(n.ServiceLevel),
			g.FormatPercent(n.ServiceTarget),
			n.TargetMet(),
			g.FormatFloat(n.AvgOnHand, 2),
		)
	}

	return buf.Bytes(), nil
}
