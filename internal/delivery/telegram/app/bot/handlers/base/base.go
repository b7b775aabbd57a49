// internal/delivery/telegram/app/bot/handlers/base/base.go
package base

import (
	"crypto-signal-bot/internal/delivery/telegram/app/bot/constants"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/handlers"
)

// BaseHandler базовая структура для всех хэндлеров
type BaseHandler struct {
	Name    string
	Command string
	Type    handlers.HandlerType
}

// GetName возвращает имя хэндлера
func (h *BaseHandler) GetName() string {
	return h.Name
}

// GetCommand возвращает команду или текст кнопки
func (h *BaseHandler) GetCommand() string {
	return h.Command
}

// GetType возвращает тип хэндлера
func (h *BaseHandler) GetType() handlers.HandlerType {
	return h.Type
}

// Reply ответ с основной клавиатурой
func (h *BaseHandler) Reply(kind, message string) handlers.HandlerResult {
	return handlers.HandlerResult{
		Message:  message,
		Keyboard: constants.MainKeyboard(),
		Kind:     kind,
		Outcome:  "ok",
	}
}
