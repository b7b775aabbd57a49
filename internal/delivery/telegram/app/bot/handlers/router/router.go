// internal/delivery/telegram/app/bot/handlers/router/router.go
package router

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"crypto-signal-bot/internal/delivery/telegram/app/bot/handlers"
	"crypto-signal-bot/pkg/logger"
)

// Router маршрутизатор текстовых сообщений
type Router interface {
	RegisterHandler(handler handlers.Handler) // регистрация по GetType/GetCommand
	Handle(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error)
	Resolve(text string) (handlers.Handler, bool)
	GetCommands() []string
}

// routerImpl реализация Router
type routerImpl struct {
	commands map[string]handlers.Handler // ключ: команда с /
	buttons  map[string]handlers.Handler // ключ: точный текст кнопки
	fallback handlers.Handler
}

// NewRouter создает новый роутер
func NewRouter() Router {
	return &routerImpl{
		commands: make(map[string]handlers.Handler),
		buttons:  make(map[string]handlers.Handler),
	}
}

// RegisterHandler регистрирует хэндлер (использует GetCommand())
func (r *routerImpl) RegisterHandler(handler handlers.Handler) {
	command := handler.GetCommand()

	switch handler.GetType() {
	case handlers.TypeCommand:
		if !strings.HasPrefix(command, "/") {
			command = "/" + command
		}
		r.commands[command] = handler
	case handlers.TypeButton:
		r.buttons[command] = handler
	case handlers.TypeMessage:
		r.fallback = handler
		command = "*"
	}

	logger.Debug("Зарегистрирован хэндлер: %s для %s: %s",
		handler.GetName(), handler.GetType(), command)
}

// Resolve находит хэндлер для текста: команда, кнопка, иначе общий
func (r *routerImpl) Resolve(text string) (handlers.Handler, bool) {
	text = strings.TrimSpace(text)

	if command, ok := parseCommand(text); ok {
		if handler, exists := r.commands[command]; exists {
			return handler, true
		}
	}

	if handler, exists := r.buttons[text]; exists {
		return handler, true
	}

	if r.fallback != nil {
		return r.fallback, true
	}
	return nil, false
}

// Handle обрабатывает сообщение
func (r *routerImpl) Handle(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	handler, ok := r.Resolve(params.Text)
	if !ok {
		return handlers.HandlerResult{}, fmt.Errorf("хэндлер для '%s' не найден", params.Text)
	}
	return r.executeHandler(ctx, handler, params)
}

// executeHandler выполняет обработчик
func (r *routerImpl) executeHandler(ctx context.Context, handler handlers.Handler, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	logger.Debug("Вызов хэндлера: %s для чата %d", handler.GetName(), params.ChatID)

	result, err := handler.Execute(ctx, params)
	if err != nil {
		logger.Error("Ошибка в хэндлере %s: %v", handler.GetName(), err)
		return handlers.HandlerResult{}, err
	}
	return result, nil
}

// GetCommands возвращает список команд (с /) и кнопок
func (r *routerImpl) GetCommands() []string {
	commands := make([]string, 0, len(r.commands)+len(r.buttons))
	for cmd := range r.commands {
		commands = append(commands, cmd)
	}
	for button := range r.buttons {
		commands = append(commands, button)
	}
	sort.Strings(commands)
	return commands
}

// parseCommand первое слово сообщения без суффикса @bot
func parseCommand(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	command := strings.Fields(text)[0]
	if at := strings.IndexByte(command, '@'); at > 0 {
		command = command[:at]
	}
	return command, true
}

var _ Router = (*routerImpl)(nil)
