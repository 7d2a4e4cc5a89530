package sim

import (
	"context"
	"sync"

	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/domain"
)

// SeedRange возвращает последовательные seed репликаций base..base+count-1
func SeedRange(base int64, count int) []int64 {
	seeds := make([]int64, count)
	for i := range seeds {
		seeds[i] = base + int64(i)
	}
	return seeds
}

// RunReplications выполняет независимые репликации сценария и
// возвращает результаты в порядке перечисления seed. Репликации не
// разделяют изменяемого состояния, поэтому workers > 1 меняет лишь
// время счёта, но не результат; workers <= 1 означает последовательный
// запуск. Контекст проверяется между репликациями; начатая репликация
// доводится до конца.
func RunReplications(ctx context.Context, scenario *Scenario, seeds []int64, workers int) ([][]domain.NodeResult, error) {
	if ve := scenario.Validate(); !ve.IsValid() {
		return nil, scenarioError(ve)
	}

	if workers <= 1 {
		results := make([][]domain.NodeResult, len(seeds))
		for i, seed := range seeds {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			rep, err := Simulate(scenario, seed)
			if err != nil {
				return nil, err
			}
			results[i] = rep
		}
		return results, nil
	}

	if workers > len(seeds) {
		workers = len(seeds)
	}

	results := make([][]domain.NodeResult, len(seeds))
	errs := make([]error, len(seeds))
	tasks := make(chan int, len(seeds))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tasks {
				select {
				case <-ctx.Done():
					errs[i] = ctx.Err()
					continue
				default:
				}
				results[i], errs[i] = Simulate(scenario, seeds[i])
			}
		}()
	}

	for i := range seeds {
		tasks <- i
	}
	close(tasks)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
