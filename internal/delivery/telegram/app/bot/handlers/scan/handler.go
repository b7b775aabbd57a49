// internal/delivery/telegram/app/bot/handlers/scan/handler.go
package scan

import (
	"context"

	"crypto-signal-bot/application/pipeline"
	"crypto-signal-bot/internal/core/domain/signals"
	"crypto-signal-bot/internal/delivery/telegram"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/constants"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/handlers"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/handlers/base"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/status"
	"crypto-signal-bot/pkg/logger"
)

// Scanner поиск лучших пар в направлении
type Scanner interface {
	Scan(ctx context.Context, direction signals.Direction, progress pipeline.ProgressFunc) (pipeline.ScanSummary, error)
}

// scanHandler обработчик кнопок "Лучшее в лонг/шорт"
type scanHandler struct {
	*base.BaseHandler
	scanner   Scanner
	direction signals.Direction
	kind      string
	square    string
	limiter   *telegram.RateLimiter
}

// NewLongHandler кнопка "📈 Лучшее в лонг"
func NewLongHandler(scanner Scanner, limiter *telegram.RateLimiter) handlers.Handler {
	return newHandler("scan_long_handler", constants.ButtonTexts.BestLong, signals.Long,
		constants.KindScanLong, pipeline.SquareLong, scanner, limiter)
}

// NewShortHandler кнопка "📉 Лучшее в шорт"
func NewShortHandler(scanner Scanner, limiter *telegram.RateLimiter) handlers.Handler {
	return newHandler("scan_short_handler", constants.ButtonTexts.BestShort, signals.Short,
		constants.KindScanShort, pipeline.SquareShort, scanner, limiter)
}

func newHandler(name, button string, direction signals.Direction, kind, square string,
	scanner Scanner, limiter *telegram.RateLimiter) handlers.Handler {
	return &scanHandler{
		BaseHandler: &base.BaseHandler{
			Name:    name,
			Command: button,
			Type:    handlers.TypeButton,
		},
		scanner:   scanner,
		direction: direction,
		kind:      kind,
		square:    square,
		limiter:   limiter,
	}
}

// Execute запускает поиск с сообщением статуса
func (h *scanHandler) Execute(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	logger.Info("🔍 Поиск лучших пар (%s) для чата %d", h.direction, params.ChatID)

	var st *status.Message
	if params.Sender != nil {
		var err error
		st, err = status.Start(ctx, params.Sender, params.ChatID, constants.StatusTexts.Scan, h.square, h.limiter)
		if err != nil {
			logger.Warn("⚠️ %v", err)
		}
	}

	summary, err := h.scanner.Scan(ctx, h.direction, st.Progress())
	st.Close()

	result := h.Reply(h.kind, "")
	result.Subject = string(h.direction)
	if err != nil {
		logger.Warn("❌ Поиск %s не выполнен: %v", h.direction, err)
		result.Message = pipeline.UserMessage(err)
		result.Outcome = pipeline.OutcomeOf(err)
		result.Plain = true
		return result, nil
	}

	result.Message = pipeline.FormatScanResult(summary, h.direction)
	if summary.Admitted == 0 {
		result.Outcome = "empty"
	}
	return result, nil
}
