// Package dataset загружает исторические данные симуляции из CSV.
// Два входных файла: матрица спроса (строка на период, колонка на
// узел без источника, первая строка - заголовок) и беззаголовочный
// ряд дополнительных задержек поставки в целых периодах.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/apperror"
)

// Dataset - загруженные исторические ряды
type Dataset struct {
	// Demand[i] - ряд спроса узла i+1 (колонка i матрицы)
	Demand [][]float64
	// Delay - общий ряд дополнительных задержек поставки
	Delay []float64
}

// Load читает оба файла и возвращает готовый набор данных
func Load(demandFile, delayFile string) (*Dataset, error) {
	demand, err := LoadDemand(demandFile)
	if err != nil {
		return nil, err
	}
	delay, err := LoadDelay(delayFile)
	if err != nil {
		return nil, err
	}
	return &Dataset{Demand: demand, Delay: delay}, nil
}

// LoadDemand читает матрицу спроса и возвращает ряды по узлам:
// результат индексируется колонкой, Demand[i] - история узла i+1.
// Первая строка файла считается заголовком и пропускается.
func LoadDemand(path string) ([][]float64, error) {
	records, err := readAll(path)
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return nil, apperror.New(apperror.CodeDatasetShape,
			"demand file must have a header and at least one data row").
			WithDetails("file", path)
	}

	columns := len(records[0])
	if columns == 0 {
		return nil, apperror.New(apperror.CodeDatasetShape, "demand file has no columns").
			WithDetails("file", path)
	}

	rows := records[1:]
	series := make([][]float64, columns)
	for j := range series {
		series[j] = make([]float64, len(rows))
	}

	for i, record := range rows {
		for j, field := range record {
			value, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, parseError(path, i+2, j+1, fmt.Sprintf("invalid demand value %q", field))
			}
			if value < 0 {
				return nil, parseError(path, i+2, j+1, fmt.Sprintf("demand value %q must be non-negative", field))
			}
			series[j][i] = value
		}
	}

	return series, nil
}

// LoadDelay читает ряд задержек поставки. Файл без заголовка, значение
// берётся из первой колонки каждой строки и должно быть целым
// неотрицательным числом периодов.
func LoadDelay(path string) ([]float64, error) {
	records, err := readAll(path)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, apperror.New(apperror.CodeDatasetShape, "delay file is empty").
			WithDetails("file", path)
	}

	delays := make([]float64, len(records))
	for i, record := range records {
		field := strings.TrimSpace(record[0])
		value, err := strconv.Atoi(field)
		if err != nil {
			return nil, parseError(path, i+1, 1, fmt.Sprintf("invalid delay value %q", record[0]))
		}
		if value < 0 {
			return nil, parseError(path, i+1, 1, fmt.Sprintf("delay value %q must be non-negative", record[0]))
		}
		delays[i] = float64(value)
	}

	return delays, nil
}

func readAll(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeDatasetOpen,
			fmt.Sprintf("failed to open dataset file %s", path))
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeDatasetParse,
			fmt.Sprintf("failed to parse dataset file %s", path))
	}
	return records, nil
}

func parseError(path string, row, column int, message string) error {
	return apperror.New(apperror.CodeDatasetParse, message).
		WithDetails("file", path).
		WithDetails("row", row).
		WithDetails("column", column)
}
