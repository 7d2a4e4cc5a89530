package domain

import (
	"fmt"

	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/apperror"
)

// Network представляет многоэшелонную сеть поставок.
// Узел 0 — источник с бесконечным запасом; ребро (i→j) означает,
// что узел i пополняет запасы узла j. После конструирования сеть
// неизменяема и безопасна для одновременного чтения из нескольких
// репликаций.
type Network struct {
	adjacency [][]int
	upstream  []int   // upstream[i] — поставщик узла i, -1 для источника
	children  [][]int // children[i] — узлы, которые пополняет узел i
	depths    []int   // depths[i] — эшелон узла i (0 для источника)
}

// NewNetwork строит сеть из матрицы смежности и валидирует топологию.
// Матрица должна быть квадратной, adjacency[i][j] == 1 означает,
// что узел i является поставщиком узла j.
func NewNetwork(adjacency [][]int) (*Network, error) {
	if ve := ValidateAdjacency(adjacency); !ve.IsValid() {
		err := apperror.New(apperror.CodeInvalidNetwork, "network topology is invalid")
		return nil, err.WithDetails("errors", ve.ErrorMessages())
	}

	n := len(adjacency)
	net := &Network{
		adjacency: make([][]int, n),
		upstream:  make([]int, n),
		children:  make([][]int, n),
		depths:    make([]int, n),
	}

	for i := range adjacency {
		net.adjacency[i] = make([]int, n)
		copy(net.adjacency[i], adjacency[i])
		net.upstream[i] = -1
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if adjacency[i][j] == 1 {
				net.upstream[j] = i
				net.children[i] = append(net.children[i], j)
			}
		}
	}

	// Эшелон узла — длина пути до источника
	for i := 1; i < n; i++ {
		depth := 0
		for v := i; v != SourceNodeID; v = net.upstream[v] {
			depth++
		}
		net.depths[i] = depth
	}

	return net, nil
}

// ValidateAdjacency проверяет топологию сети поставок:
// квадратная матрица 0/1, без петель, у источника нет поставщика,
// у каждого остального узла ровно один поставщик и он достижим
// из источника.
func ValidateAdjacency(adjacency [][]int) *apperror.ValidationErrors {
	ve := apperror.NewValidationErrors()

	n := len(adjacency)
	if n == 0 {
		ve.Add(apperror.ErrEmptyNetwork)
		return ve
	}

	for i, row := range adjacency {
		if len(row) != n {
			ve.AddErrorWithField(apperror.CodeInvalidNetwork,
				fmt.Sprintf("row %d has %d columns, expected %d", i, len(row), n), "adjacency")
			return ve
		}
		for j, v := range row {
			if v != 0 && v != 1 {
				ve.AddErrorWithField(apperror.CodeInvalidNetwork,
					fmt.Sprintf("adjacency[%d][%d] = %d, expected 0 or 1", i, j, v), "adjacency")
			}
		}
		if row[i] == 1 {
			ve.AddError(apperror.CodeSelfLoop,
				fmt.Sprintf("node %d supplies itself", i))
		}
	}
	if ve.HasErrors() {
		return ve
	}

	// Количество поставщиков каждого узла
	parents := make([]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if adjacency[i][j] == 1 {
				parents[j]++
			}
		}
	}

	if parents[SourceNodeID] != 0 {
		ve.AddError(apperror.CodeInvalidNetwork,
			fmt.Sprintf("source node %d must not have an upstream supplier", SourceNodeID))
	}
	for i := 1; i < n; i++ {
		switch {
		case parents[i] == 0:
			ve.AddError(apperror.CodeNoUpstream,
				fmt.Sprintf("node %d has no upstream supplier", i))
		case parents[i] > 1:
			ve.AddError(apperror.CodeMultipleParents,
				fmt.Sprintf("node %d has %d upstream suppliers, expected exactly 1", i, parents[i]))
		}
	}
	if ve.HasErrors() {
		return ve
	}

	// Достижимость из источника по рёбрам поставок
	visited := make([]bool, n)
	visited[SourceNodeID] = true
	queue := []int{SourceNodeID}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for v := 0; v < n; v++ {
			if adjacency[u][v] == 1 && !visited[v] {
				visited[v] = true
				queue = append(queue, v)
			}
		}
	}
	for i := 1; i < n; i++ {
		if !visited[i] {
			ve.AddError(apperror.CodeUnreachableNode,
				fmt.Sprintf("node %d is not reachable from the source", i))
		}
	}

	return ve
}

// NodeCount возвращает количество узлов сети
func (n *Network) NodeCount() int {
	return len(n.upstream)
}

// IsSource проверяет, является ли узел источником
func (n *Network) IsSource(node int) bool {
	return node == SourceNodeID
}

// UpstreamOf возвращает поставщика узла; для источника возвращает -1
func (n *Network) UpstreamOf(node int) int {
	return n.upstream[node]
}

// ChildrenOf возвращает узлы, которые пополняет данный узел
func (n *Network) ChildrenOf(node int) []int {
	return n.children[node]
}

// DepthOf возвращает эшелон узла (0 — источник, 1 — его прямые потребители)
func (n *Network) DepthOf(node int) int {
	return n.depths[node]
}

// MaxDepth возвращает глубину самого дальнего эшелона
func (n *Network) MaxDepth() int {
	max := 0
	for _, d := range n.depths {
		if d > max {
			max = d
		}
	}
	return max
}

// HasEdge проверяет наличие ребра поставки i→j
func (n *Network) HasEdge(from, to int) bool {
	return n.adjacency[from][to] == 1
}

// EdgeCount возвращает количество рёбер поставок
func (n *Network) EdgeCount() int {
	count := 0
	for _, row := range n.adjacency {
		for _, v := range row {
			if v == 1 {
				count++
			}
		}
	}
	return count
}

// NonSourceCount возвращает количество узлов, хранящих запасы
func (n *Network) NonSourceCount() int {
	return n.NodeCount() - 1
}

// Adjacency возвращает копию матрицы смежности
func (n *Network) Adjacency() [][]int {
	out := make([][]int, len(n.adjacency))
	for i, row := range n.adjacency {
		out[i] = make([]int, len(row))
		copy(out[i], row)
	}
	return out
}
