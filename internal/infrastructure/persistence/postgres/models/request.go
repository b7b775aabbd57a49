// internal/infrastructure/persistence/postgres/models/request.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// RequestRecord запись журнала запросов пользователей
type RequestRecord struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ChatID     int64     `db:"chat_id" json:"chat_id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	Username   string    `db:"username" json:"username,omitempty"`
	Kind       string    `db:"kind" json:"kind"`       // start, ticker, scan_long...
	Subject    string    `db:"subject" json:"subject"` // тикер или направление
	Outcome    string    `db:"outcome" json:"outcome"`
	DurationMs int64     `db:"duration_ms" json:"duration_ms"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// NewRequestRecord создает запись с новым ID
func NewRequestRecord(chatID, userID int64, username, kind, subject, outcome string, duration time.Duration) *RequestRecord {
	return &RequestRecord{
		ID:         uuid.New(),
		ChatID:     chatID,
		UserID:     userID,
		Username:   username,
		Kind:       kind,
		Subject:    subject,
		Outcome:    outcome,
		DurationMs: duration.Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
}
