// internal/delivery/telegram/app/bot/handlers/types.go
package handlers

import (
	"context"

	"crypto-signal-bot/internal/delivery/telegram/app/bot/message_sender"
)

// HandlerType тип хэндлера
type HandlerType string

const (
	TypeCommand HandlerType = "command" // /start
	TypeButton  HandlerType = "button"  // точный текст кнопки клавиатуры
	TypeMessage HandlerType = "message" // любой другой текст
)

// Handler интерфейс для всех хэндлеров
type Handler interface {
	Execute(ctx context.Context, params HandlerParams) (HandlerResult, error)
	GetName() string
	GetCommand() string // команда без / или текст кнопки
	GetType() HandlerType
}

// HandlerParams параметры вызова хэндлера
type HandlerParams struct {
	ChatID   int64
	UserID   int64
	Username string
	Text     string
	UpdateID int

	// Sender для сообщений статуса во время долгих операций
	Sender message_sender.MessageSender
}

// HandlerResult результат хэндлера. Message отправляется в Markdown с клавиатурой,
// при Plain без разметки.
type HandlerResult struct {
	Message  string
	Keyboard interface{}
	Plain    bool

	Kind    string // тип запроса для метрик и журнала
	Subject string // тикер или направление
	Outcome string // ok, not_found, no_data...
}
