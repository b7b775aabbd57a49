// internal/infrastructure/persistence/postgres/migrator.go
package postgres

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"crypto-signal-bot/pkg/logger"

	"github.com/jmoiron/sqlx"
)

// Migration одна миграция схемы
type Migration struct {
	ID   int
	Name string
	SQL  string
}

// Checksum контрольная сумма текста миграции
func (m Migration) Checksum() string {
	sum := sha256.Sum256([]byte(m.SQL))
	return hex.EncodeToString(sum[:])
}

// Migrations схема журнала запросов
var Migrations = []Migration{
	{
		ID:   1,
		Name: "create_requests",
		SQL: `
		CREATE TABLE IF NOT EXISTS requests (
			id UUID PRIMARY KEY,
			chat_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL DEFAULT 0,
			username VARCHAR(64) NOT NULL DEFAULT '',
			kind VARCHAR(32) NOT NULL,
			subject VARCHAR(32) NOT NULL DEFAULT '',
			outcome VARCHAR(32) NOT NULL,
			duration_ms BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		);`,
	},
	{
		ID:   2,
		Name: "requests_indexes",
		SQL: `
		CREATE INDEX IF NOT EXISTS idx_requests_chat_id ON requests(chat_id, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_requests_kind_outcome ON requests(kind, outcome);`,
	},
}

// Migrator управляет миграциями базы данных
type Migrator struct {
	db         *sqlx.DB
	migrations []Migration
}

// NewMigrator создает новый мигратор
func NewMigrator(db *sqlx.DB, migrations []Migration) *Migrator {
	return &Migrator{db: db, migrations: migrations}
}

// Init инициализирует таблицу миграций
func (m *Migrator) Init(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		id INTEGER PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		checksum VARCHAR(64) NOT NULL,
		applied_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);`

	if _, err := m.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// Up применяет недостающие миграции, каждую в своей транзакции
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.Init(ctx); err != nil {
		return 0, err
	}

	var rows []struct {
		ID       int    `db:"id"`
		Checksum string `db:"checksum"`
	}
	if err := m.db.SelectContext(ctx, &rows, `SELECT id, checksum FROM schema_migrations`); err != nil {
		return 0, fmt.Errorf("failed to query migrations status: %w", err)
	}
	applied := make(map[int]string, len(rows))
	for _, r := range rows {
		applied[r.ID] = r.Checksum
	}

	pending, err := Pending(m.migrations, applied)
	if err != nil {
		return 0, err
	}

	for _, mig := range pending {
		if err := m.apply(ctx, mig); err != nil {
			return 0, err
		}
		logger.Info("✅ Миграция %03d_%s применена", mig.ID, mig.Name)
	}
	return len(pending), nil
}

func (m *Migrator) apply(ctx context.Context, mig Migration) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migration %d: begin: %w", mig.ID, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, mig.SQL); err != nil {
		return fmt.Errorf("migration %d (%s): %w", mig.ID, mig.Name, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (id, name, checksum) VALUES ($1, $2, $3)`,
		mig.ID, mig.Name, mig.Checksum()); err != nil {
		return fmt.Errorf("migration %d: record: %w", mig.ID, err)
	}
	return tx.Commit()
}

// Pending миграции, которых нет в applied, по возрастанию ID.
// Измененная примененная миграция - ошибка.
func Pending(migrations []Migration, applied map[int]string) ([]Migration, error) {
	var pending []Migration
	lastID := 0
	for _, mig := range migrations {
		if mig.ID <= lastID {
			return nil, fmt.Errorf("migration %d out of order", mig.ID)
		}
		lastID = mig.ID

		sum, ok := applied[mig.ID]
		if !ok {
			pending = append(pending, mig)
			continue
		}
		if sum != mig.Checksum() {
			return nil, fmt.Errorf("migration %d (%s): checksum mismatch", mig.ID, mig.Name)
		}
	}
	return pending, nil
}
