package history

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/lib/pq"

	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/apperror"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/database"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/telemetry"
)

// PostgresRunRepository PostgreSQL реализация хранилища запусков
type PostgresRunRepository struct {
	db database.DB
}

// NewPostgresRunRepository создаёт новый репозиторий
func NewPostgresRunRepository(db database.DB) *PostgresRunRepository {
	return &PostgresRunRepository{db: db}
}

const runColumns = `
	id, mode, policy, objective_value, total_on_hand, penalty,
	base_stock, reorder_point, service_level, service_target, avg_on_hand,
	replications, evaluations, duration_ms, created_at
`

func (r *PostgresRunRepository) Create(ctx context.Context, run *Run) error {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRunRepository.Create")
	defer span.End()

	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	query := `
		INSERT INTO optimization_runs (
			id, mode, policy, objective_value, total_on_hand, penalty,
			base_stock, reorder_point, service_level, service_target, avg_on_hand,
			replications, evaluations, duration_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		run.ID,
		run.Mode,
		run.Policy,
		run.ObjectiveValue,
		run.TotalOnHand,
		run.Penalty,
		pq.Array(run.BaseStock),
		pq.Array(run.ReorderPoint),
		pq.Array(run.ServiceLevel),
		pq.Array(run.ServiceTarget),
		pq.Array(run.AvgOnHand),
		run.Replications,
		run.Evaluations,
		run.DurationMs,
	).Scan(&run.CreatedAt)

	if err != nil {
		return apperror.Wrap(err, apperror.CodeStorageError, "failed to create optimization run")
	}

	return nil
}

func (r *PostgresRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Run, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRunRepository.GetByID")
	defer span.End()

	query := fmt.Sprintf(`SELECT %s FROM optimization_runs WHERE id = $1`, runColumns)

	run, err := r.scanRun(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrRunNotFound
		}
		return nil, apperror.Wrap(err, apperror.CodeStorageError, "failed to get optimization run")
	}

	return run, nil
}

func (r *PostgresRunRepository) List(ctx context.Context, opts *ListOptions) ([]*RunSummary, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRunRepository.List")
	defer span.End()

	if opts == nil {
		opts = &ListOptions{}
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}

	where, args := buildWhereClause(opts.Policy, opts.Mode)

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM optimization_runs WHERE %s`, where)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.CodeStorageError, "failed to count optimization runs")
	}

	selectQuery := fmt.Sprintf(`
		SELECT id, mode, policy, objective_value, penalty, evaluations, created_at
		FROM optimization_runs
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	args = append(args, opts.Limit, opts.Offset)

	rows, err := r.db.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, apperror.Wrap(err, apperror.CodeStorageError, "failed to list optimization runs")
	}
	defer rows.Close()

	var results []*RunSummary
	for rows.Next() {
		summary := &RunSummary{}
		err := rows.Scan(
			&summary.ID,
			&summary.Mode,
			&summary.Policy,
			&summary.ObjectiveValue,
			&summary.Penalty,
			&summary.Evaluations,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, 0, apperror.Wrap(err, apperror.CodeStorageError, "failed to scan optimization run")
		}
		results = append(results, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.CodeStorageError, "rows iteration error")
	}

	return results, total, nil
}

func (r *PostgresRunRepository) Best(ctx context.Context, policy, mode string) (*Run, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRunRepository.Best")
	defer span.End()

	where, args := buildWhereClause(policy, mode)

	query := fmt.Sprintf(`
		SELECT %s FROM optimization_runs
		WHERE %s
		ORDER BY objective_value ASC, created_at DESC
		LIMIT 1
	`, runColumns, where)

	run, err := r.scanRun(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrRunNotFound
		}
		return nil, apperror.Wrap(err, apperror.CodeStorageError, "failed to get best optimization run")
	}

	return run, nil
}

func (r *PostgresRunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRunRepository.Delete")
	defer span.End()

	query := `DELETE FROM optimization_runs WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeStorageError, "failed to delete optimization run")
	}

	if result.RowsAffected() == 0 {
		return apperror.ErrRunNotFound
	}

	return nil
}

// scanRun читает полную строку запуска
func (r *PostgresRunRepository) scanRun(row pgx.Row) (*Run, error) {
	run := &Run{}
	var baseStock, reorderPoint, serviceLevel, serviceTarget, avgOnHand pgtype.Array[float64]

	err := row.Scan(
		&run.ID,
		&run.Mode,
		&run.Policy,
		&run.ObjectiveValue,
		&run.TotalOnHand,
		&run.Penalty,
		&baseStock,
		&reorderPoint,
		&serviceLevel,
		&serviceTarget,
		&avgOnHand,
		&run.Replications,
		&run.Evaluations,
		&run.DurationMs,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	run.BaseStock = baseStock.Elements
	run.ReorderPoint = reorderPoint.Elements
	run.ServiceLevel = serviceLevel.Elements
	run.ServiceTarget = serviceTarget.Elements
	run.AvgOnHand = avgOnHand.Elements

	return run, nil
}

func buildWhereClause(policy, mode string) (string, []any) {
	conditions := []string{"TRUE"}
	args := []any{}
	argNum := 1

	if policy != "" {
		conditions = append(conditions, fmt.Sprintf("policy = $%d", argNum))
		args = append(args, policy)
		argNum++
	}
	if mode != "" {
		conditions = append(conditions, fmt.Sprintf("mode = $%d", argNum))
		args = append(args, mode)
	}

	return strings.Join(conditions, " AND "), args
}
