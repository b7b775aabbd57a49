// internal/delivery/telegram/app/bot/polling.go
package bot

import (
	"context"
	"time"

	"crypto-signal-bot/internal/delivery/telegram"
	"crypto-signal-bot/pkg/logger"
)

// UpdateSource источник обновлений (long polling)
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset int) ([]telegram.Update, error)
}

// Poller цикл получения обновлений
type Poller struct {
	bot        *TelegramBot
	source     UpdateSource
	offset     int
	retryDelay time.Duration
}

// NewPoller создает новый polling клиент
func NewPoller(bot *TelegramBot, source UpdateSource) *Poller {
	return &Poller{
		bot:        bot,
		source:     source,
		retryDelay: 3 * time.Second,
	}
}

// Run получает обновления до отмены ctx, затем ждет запущенные обработчики
func (p *Poller) Run(ctx context.Context) error {
	if err := p.bot.SetMyCommands(ctx); err != nil {
		logger.Warn("Не удалось установить меню команд: %v", err)
		logger.Info("Бот будет работать, но меню команд в Telegram может не отображаться")
	}

	logger.Info("🔄 Запуск Telegram polling...")
	defer func() {
		p.bot.Wait()
		logger.Info("🛑 Telegram polling остановлен")
	}()

	for ctx.Err() == nil {
		updates, err := p.source.GetUpdates(ctx, p.offset)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			logger.Error("❌ Ошибка получения обновлений: %v", err)
			select {
			case <-time.After(p.retryDelay):
			case <-ctx.Done():
			}
			continue
		}

		for _, update := range updates {
			p.offset = update.UpdateID + 1
			logger.Debug("📩 Обновление ID=%d", update.UpdateID)
			if err := p.bot.Dispatch(ctx, update); err != nil {
				break
			}
		}
	}
	return nil
}

// Offset следующий ожидаемый update_id
func (p *Poller) Offset() int {
	return p.offset
}
