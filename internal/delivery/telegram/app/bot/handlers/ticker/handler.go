// internal/delivery/telegram/app/bot/handlers/ticker/handler.go
package ticker

import (
	"context"
	"strings"

	"crypto-signal-bot/application/pipeline"
	"crypto-signal-bot/internal/delivery/telegram"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/constants"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/handlers"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/handlers/base"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/status"
	"crypto-signal-bot/pkg/logger"
)

// Analyzer анализ одного тикера
type Analyzer interface {
	Analyze(ctx context.Context, rawTicker string, progress pipeline.ProgressFunc) (string, error)
}

// tickerHandler любой текст, не совпавший с командой или кнопкой
type tickerHandler struct {
	*base.BaseHandler
	analyzer Analyzer
	limiter  *telegram.RateLimiter
}

// NewHandler создает обработчик тикеров
func NewHandler(analyzer Analyzer, limiter *telegram.RateLimiter) handlers.Handler {
	return &tickerHandler{
		BaseHandler: &base.BaseHandler{
			Name: "ticker_handler",
			Type: handlers.TypeMessage,
		},
		analyzer: analyzer,
		limiter:  limiter,
	}
}

// Execute анализирует тикер из текста сообщения
func (h *tickerHandler) Execute(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	text := strings.TrimSpace(params.Text)
	if isCommandWord(text) {
		return h.Reply(constants.KindPrompt, constants.Messages.EnterTicker), nil
	}

	subject, ok := pipeline.NormalizeTicker(text)
	if !ok {
		subject = text
	}
	logger.Info("📊 Анализ %s для чата %d", subject, params.ChatID)

	var st *status.Message
	if params.Sender != nil {
		var err error
		st, err = status.Start(ctx, params.Sender, params.ChatID, constants.StatusTexts.Analysis, pipeline.SquareAnalysis, h.limiter)
		if err != nil {
			logger.Warn("⚠️ %v", err)
		}
	}

	report, err := h.analyzer.Analyze(ctx, text, st.Progress())
	st.Close()

	result := h.Reply(constants.KindTicker, report)
	result.Subject = subject
	if err != nil {
		result.Message = pipeline.UserMessage(err)
		result.Outcome = pipeline.OutcomeOf(err)
		result.Plain = true
	}
	return result, nil
}

// isCommandWord команды в другом регистре ("/START") не анализируются как тикер
func isCommandWord(text string) bool {
	upper := strings.ToUpper(text)
	return upper == "/"+strings.ToUpper(constants.CommandStart) ||
		upper == "/"+strings.ToUpper(constants.CommandInstruction)
}
