// internal/delivery/telegram/app/bot/handlers/start/handler.go
package start

import (
	"context"

	"crypto-signal-bot/internal/delivery/telegram/app/bot/constants"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/handlers"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/handlers/base"
	"crypto-signal-bot/pkg/logger"
)

// startHandlerImpl обработчик команды /start
type startHandlerImpl struct {
	*base.BaseHandler
}

// NewHandler создает новый хэндлер команды /start
func NewHandler() handlers.Handler {
	return &startHandlerImpl{
		BaseHandler: &base.BaseHandler{
			Name:    "start_handler",
			Command: constants.CommandStart,
			Type:    handlers.TypeCommand,
		},
	}
}

// Execute отправляет приветствие и клавиатуру
func (h *startHandlerImpl) Execute(_ context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	logger.Debug("Обработка /start: чат %d, пользователь %d", params.ChatID, params.UserID)
	return h.Reply(constants.KindStart, constants.WelcomeMessage), nil
}
