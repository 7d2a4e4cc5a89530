package database

import (
	"context"
	"embed"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/apperror"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/config"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/logger"
)

// Migrator применяет goose-миграции схемы истории запусков
type Migrator struct {
	pool       *pgxpool.Pool
	migrations embed.FS
	dir        string
}

// NewMigrator создаёт новый мигратор
func NewMigrator(pool *pgxpool.Pool, migrations embed.FS, dir string) *Migrator {
	return &Migrator{
		pool:       pool,
		migrations: migrations,
		dir:        dir,
	}
}

// Up применяет все миграции
func (m *Migrator) Up(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(m.pool)
	defer db.Close()

	goose.SetBaseFS(m.migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return apperror.Wrap(err, apperror.CodeStorageError, "failed to set goose dialect")
	}

	if err := goose.UpContext(ctx, db, m.dir); err != nil {
		return apperror.Wrap(err, apperror.CodeStorageError, "failed to run migrations")
	}

	logger.Info("migrations applied")
	return nil
}

// Down откатывает последнюю миграцию
func (m *Migrator) Down(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(m.pool)
	defer db.Close()

	goose.SetBaseFS(m.migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return apperror.Wrap(err, apperror.CodeStorageError, "failed to set goose dialect")
	}

	if err := goose.DownContext(ctx, db, m.dir); err != nil {
		return apperror.Wrap(err, apperror.CodeStorageError, "failed to rollback migration")
	}

	logger.Info("migration rolled back")
	return nil
}

// Status показывает статус миграций
func (m *Migrator) Status(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(m.pool)
	defer db.Close()

	goose.SetBaseFS(m.migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return apperror.Wrap(err, apperror.CodeStorageError, "failed to set goose dialect")
	}

	return goose.StatusContext(ctx, db, m.dir)
}

// RunMigrations применяет миграции, если автомиграция включена
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, cfg *config.DatabaseConfig, migrations embed.FS, dir string) error {
	if !cfg.AutoMigrate {
		logger.Info("auto-migration is disabled")
		return nil
	}

	return NewMigrator(pool, migrations, dir).Up(ctx)
}
