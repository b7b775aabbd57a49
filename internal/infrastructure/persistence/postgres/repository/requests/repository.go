// internal/infrastructure/persistence/postgres/repository/requests/repository.go
package requests

import (
	"context"
	"fmt"

	"crypto-signal-bot/internal/infrastructure/persistence/postgres/models"

	"github.com/jmoiron/sqlx"
)

const insertQuery = `
	INSERT INTO requests (
		id, chat_id, user_id, username, kind, subject, outcome, duration_ms, created_at
	) VALUES (
		:id, :chat_id, :user_id, :username, :kind, :subject, :outcome, :duration_ms, :created_at
	)`

// RequestRepository журнал запросов в PostgreSQL
type RequestRepository struct {
	db *sqlx.DB
}

// NewRequestRepository создает репозиторий
func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Save добавляет запись
func (r *RequestRepository) Save(ctx context.Context, rec *models.RequestRecord) error {
	if _, err := r.db.NamedExecContext(ctx, insertQuery, rec); err != nil {
		return fmt.Errorf("save request %s: %w", rec.ID, err)
	}
	return nil
}
