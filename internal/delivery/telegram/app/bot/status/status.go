// internal/delivery/telegram/app/bot/status/status.go
package status

import (
	"context"
	"fmt"
	"sync"
	"time"

	"crypto-signal-bot/application/pipeline"
	"crypto-signal-bot/internal/delivery/telegram"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/message_sender"
	"crypto-signal-bot/pkg/logger"
)

// DefaultEditInterval минимальный интервал между правками внутри одного шага
const DefaultEditInterval = time.Second

const cleanupTimeout = 5 * time.Second

// Message сообщение с прогрессом, которое правится по шагам и удаляется в конце.
// Методы безопасны для nil.
type Message struct {
	ctx      context.Context
	sender   message_sender.MessageSender
	chatID   int64
	id       int64
	key      string
	limiter  *telegram.RateLimiter
	progress *pipeline.Progress

	mu       sync.Mutex
	lastStep int
}

// Start отправляет начальный текст статуса
func Start(ctx context.Context, sender message_sender.MessageSender, chatID int64, text, square string, limiter *telegram.RateLimiter) (*Message, error) {
	id, err := sender.SendPlainMessage(ctx, chatID, text)
	if err != nil {
		return nil, fmt.Errorf("статус для чата %d: %w", chatID, err)
	}
	if limiter == nil {
		limiter = telegram.NewRateLimiter(DefaultEditInterval)
	}
	return &Message{
		ctx:      ctx,
		sender:   sender,
		chatID:   chatID,
		id:       id,
		key:      fmt.Sprintf("%d:%d", chatID, id),
		limiter:  limiter,
		progress: pipeline.NewProgress(square),
	}, nil
}

// Update принимает шаг пайплайна. Смена шага и последний шаг правятся сразу,
// повторы внутри шага не чаще интервала ограничителя.
func (m *Message) Update(label string, step, total int) {
	if m == nil {
		return
	}

	m.mu.Lock()
	m.progress.Advance(label, step, total)
	stepChanged := step != m.lastStep
	m.lastStep = step
	text := m.progress.Render()
	m.mu.Unlock()

	allowed := m.limiter.CanSend(m.key)
	if !stepChanged && step != total && !allowed {
		return
	}

	if err := m.sender.EditMessageText(m.ctx, m.chatID, m.id, text); err != nil {
		logger.Debug("⚠️ Не удалось обновить статус %s: %v", m.key, err)
	}
}

// Progress функция для пайплайна
func (m *Message) Progress() pipeline.ProgressFunc {
	if m == nil {
		return nil
	}
	return m.Update
}

// Close удаляет сообщение статуса, даже если контекст запроса уже истек
func (m *Message) Close() {
	if m == nil {
		return
	}
	m.limiter.Forget(m.key)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(m.ctx), cleanupTimeout)
	defer cancel()
	if err := m.sender.DeleteMessage(ctx, m.chatID, m.id); err != nil {
		logger.Warn("⚠️ Не удалось удалить статус %s: %v", m.key, err)
	}
}

// ID идентификатор сообщения статуса
func (m *Message) ID() int64 {
	if m == nil {
		return 0
	}
	return m.id
}
