package domain

import (
	"fmt"
	"math"

	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/apperror"
)

// NodeResult результат одной репликации для одного узла
type NodeResult struct {
	Node         int
	ServiceLevel float64
	AvgOnHand    float64
}

// NodeAggregate агрегированные по репликациям показатели узла
type NodeAggregate struct {
	Node             int
	MeanServiceLevel float64
	StdServiceLevel  float64
	MinServiceLevel  float64
	MaxServiceLevel  float64
	MeanOnHand       float64
	StdOnHand        float64
}

// AggregateReplications усредняет результаты независимых репликаций по узлам.
// Все репликации должны содержать одинаковое количество узлов.
func AggregateReplications(replications [][]NodeResult) ([]NodeAggregate, error) {
	if len(replications) == 0 {
		return nil, apperror.New(apperror.CodeInvalidArgument, "no replications to aggregate")
	}

	nodes := len(replications[0])
	for r, rep := range replications {
		if len(rep) != nodes {
			return nil, apperror.NewWithField(apperror.CodeLengthMismatch,
				fmt.Sprintf("replication %d has %d nodes, expected %d", r, len(rep), nodes),
				"replications")
		}
	}

	aggregates := make([]NodeAggregate, nodes)
	sl := make([]float64, len(replications))
	oh := make([]float64, len(replications))

	for i := 0; i < nodes; i++ {
		for r, rep := range replications {
			sl[r] = rep[i].ServiceLevel
			oh[r] = rep[i].AvgOnHand
		}

		minSL, maxSL := sl[0], sl[0]
		for _, v := range sl[1:] {
			minSL = Min(minSL, v)
			maxSL = Max(maxSL, v)
		}

		aggregates[i] = NodeAggregate{
			Node:             replications[0][i].Node,
			MeanServiceLevel: Mean(sl),
			StdServiceLevel:  StdDev(sl),
			MinServiceLevel:  minSL,
			MaxServiceLevel:  maxSL,
			MeanOnHand:       Mean(oh),
			StdOnHand:        StdDev(oh),
		}
	}

	return aggregates, nil
}

// TotalOnHand возвращает суммарный средний запас по всем узлам
func TotalOnHand(aggregates []NodeAggregate) float64 {
	var total float64
	for _, a := range aggregates {
		total += a.MeanOnHand
	}
	return total
}

// Mean возвращает среднее арифметическое; 0 для пустого среза
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// StdDev возвращает выборочное стандартное отклонение (n-1);
// 0 для срезов короче двух элементов
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := Mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
