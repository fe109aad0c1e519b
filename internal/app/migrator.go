package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// Migrator прокатывает goose-миграции схемы при старте сервера.
type Migrator struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// NewMigrator открывает *sql.DB поверх pgx-пула: goose умеет работать
// только с database/sql.
func NewMigrator(pool *pgxpool.Pool, path string, logger *zap.Logger) (*Migrator, error) {
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}

	return &Migrator{
		db:     stdlib.OpenDBFromPool(pool),
		path:   path,
		logger: logger,
	}, nil
}

// Run применяет все недокаченные миграции.
func (m *Migrator) Run(ctx context.Context) error {
	m.logger.Info("Applying database migrations", zap.String("path", m.path))

	if err := goose.UpContext(ctx, m.db, m.path); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, m.db)
	if err != nil {
		return fmt.Errorf("get migration version: %w", err)
	}
	m.logger.Info("Migrations applied", zap.Int64("version", version))
	return nil
}

// Close закрывает обёрточный sql.DB; сам пул остаётся за вызывающим.
func (m *Migrator) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
