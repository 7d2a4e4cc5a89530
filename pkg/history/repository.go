// Package history хранит результаты законченных запусков оптимизации
// в PostgreSQL. Хранение опционально: без настроенной базы приложение
// работает, просто не оставляя следов между запусками.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Run сохранённый запуск оптимизации
type Run struct {
	ID     uuid.UUID
	Mode   string
	Policy string

	ObjectiveValue float64
	TotalOnHand    float64
	Penalty        float64

	// Поузловые векторы, индекс - номер узла сети
	BaseStock     []float64
	ReorderPoint  []float64
	ServiceLevel  []float64
	ServiceTarget []float64
	AvgOnHand     []float64

	Replications int
	Evaluations  int
	DurationMs   float64

	CreatedAt time.Time
}

// RunSummary краткая строка списка запусков
type RunSummary struct {
	ID             uuid.UUID
	Mode           string
	Policy         string
	ObjectiveValue float64
	Penalty        float64
	Evaluations    int
	CreatedAt      time.Time
}

// ListOptions параметры выборки списка запусков
type ListOptions struct {
	Limit  int
	Offset int

	// Policy и Mode фильтруют список; пустая строка - без фильтра
	Policy string
	Mode   string
}

// RunRepository интерфейс хранилища запусков
type RunRepository interface {
	// Create сохраняет запуск; CreatedAt заполняется базой
	Create(ctx context.Context, run *Run) error
	// GetByID возвращает запуск по идентификатору
	GetByID(ctx context.Context, id uuid.UUID) (*Run, error)
	// List возвращает страницу запусков, новые первыми, и общее количество
	List(ctx context.Context, opts *ListOptions) ([]*RunSummary, int64, error)
	// Best возвращает запуск с наименьшим значением целевой функции
	// среди удовлетворяющих фильтру
	Best(ctx context.Context, policy, mode string) (*Run, error)
	// Delete удаляет запуск
	Delete(ctx context.Context, id uuid.UUID) error
}
