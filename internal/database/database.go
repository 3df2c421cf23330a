// Пакет database — PostgreSQL для Pereval API: пул pgx, схема pereval_added
// (встроенные миграции golang-migrate) и readiness-проверка.
package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fstr/pereval-api/internal/config"
)

// perevalTable — таблица заявок, наличие которой означает, что схема развёрнута.
const perevalTable = "pereval_added"

// readyTimeout — предел одной readiness-проверки.
const readyTimeout = 3 * time.Second

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Connect открывает пул к базе заявок и убеждается, что она отвечает.
func Connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("некорректные параметры подключения к БД заявок: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать пул подключений: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("БД заявок %s недоступна: %w", cfg.DBName, err)
	}

	logger.Info("БД заявок подключена",
		slog.String("host", cfg.DBHost),
		slog.Int("port", cfg.DBPort),
		slog.String("database", cfg.DBName),
		slog.Int("max_conns", int(poolCfg.MaxConns)),
	)
	return pool, nil
}

// Migrate приводит схему pereval_added к последней версии.
// Отсутствие новых миграций не считается ошибкой.
func Migrate(cfg *config.Config, logger *slog.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("встроенные миграции недоступны: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, cfg.MigrateURL())
	if err != nil {
		return fmt.Errorf("не удалось подготовить миграции схемы заявок: %w", err)
	}
	defer m.Close()

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("миграция схемы заявок не применена: %w", upErr)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("не удалось прочитать версию схемы: %w", err)
	}
	if dirty {
		return fmt.Errorf("схема заявок в состоянии dirty (версия %d), нужна ручная правка", version)
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("Схема заявок актуальна", slog.Uint64("version", uint64(version)))
	} else {
		logger.Info("Схема заявок обновлена", slog.Uint64("version", uint64(version)))
	}
	return nil
}

// ReadinessChecker сообщает, готова ли БД принимать заявки:
// соединение живо и таблица pereval_added создана.
type ReadinessChecker struct {
	pool *pgxpool.Pool
}

// NewReadinessChecker создаёт readiness-проверку поверх пула.
func NewReadinessChecker(pool *pgxpool.Pool) *ReadinessChecker {
	return &ReadinessChecker{pool: pool}
}

// CheckReady возвращает "ok" или "fail" и пояснение для /health/ready.
func (c *ReadinessChecker) CheckReady() (status, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), readyTimeout)
	defer cancel()

	var exists bool
	err := c.pool.QueryRow(ctx, `SELECT to_regclass($1::text) IS NOT NULL`, perevalTable).Scan(&exists)
	if err != nil {
		return "fail", fmt.Sprintf("PostgreSQL недоступен: %v", err)
	}
	if !exists {
		return "fail", "таблица " + perevalTable + " не создана"
	}
	return "ok", "таблица " + perevalTable + " доступна"
}
