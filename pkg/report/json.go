package report

import (
	"context"
	"encoding/json"

	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/apperror"
)

// JSONGenerator генератор JSON отчётов
type JSONGenerator struct {
	BaseGenerator
}

// NewJSONGenerator создаёт новый генератор
func NewJSONGenerator() *JSONGenerator {
	return &JSONGenerator{}
}

// Format возвращает формат генератора
func (g *JSONGenerator) Format() string {
	return FormatJSON
}

// Generate сериализует отчёт с отступами: файл предназначен и для
// машинной обработки, и для чтения глазами
func (g *JSONGenerator) Generate(ctx context.Context, data *RunReport) ([]byte, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeReportFailure, "json marshal error")
	}
	return append(out, '\n'), nil
}
