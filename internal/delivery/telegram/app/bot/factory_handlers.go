// internal/delivery/telegram/app/bot/factory_handlers.go
package bot

import (
	"crypto-signal-bot/internal/delivery/telegram"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/handlers"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/handlers/instruction"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/handlers/router"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/handlers/scan"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/handlers/start"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/handlers/ticker"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/status"
	"crypto-signal-bot/pkg/logger"
)

// Services сервисы, нужные хэндлерам
type Services struct {
	Analyzer ticker.Analyzer
	Scanner  scan.Scanner
}

// NewHandlerRouter регистрирует все хэндлеры бота
func NewHandlerRouter(services Services) router.Router {
	// один ограничитель правок статуса на все чаты
	limiter := telegram.NewRateLimiter(status.DefaultEditInterval)

	all := []handlers.Handler{
		start.NewHandler(),
		instruction.NewCommandHandler(),
		instruction.NewButtonHandler(),
		scan.NewLongHandler(services.Scanner, limiter),
		scan.NewShortHandler(services.Scanner, limiter),
		ticker.NewHandler(services.Analyzer, limiter),
	}

	r := router.NewRouter()
	for _, h := range all {
		r.RegisterHandler(h)
	}
	logger.Info("✅ Зарегистрировано хэндлеров: %d", len(all))
	return r
}
