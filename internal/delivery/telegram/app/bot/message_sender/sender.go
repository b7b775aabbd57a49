// internal/delivery/telegram/app/bot/message_sender/sender.go
package message_sender

import (
	"context"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"crypto-signal-bot/internal/delivery/telegram"
	"crypto-signal-bot/pkg/logger"
)

// MaxMessageLength лимит длины сообщения Telegram в символах
const MaxMessageLength = 4096

// MessageSender интерфейс для отправки сообщений
type MessageSender interface {
	// SendTextMessage отправляет Markdown сообщение, возвращает ID последней части
	SendTextMessage(ctx context.Context, chatID int64, text string, keyboard interface{}) (int64, error)
	// SendPlainMessage отправляет сообщение без разметки (статус прогресса)
	SendPlainMessage(ctx context.Context, chatID int64, text string) (int64, error)
	EditMessageText(ctx context.Context, chatID, messageID int64, text string) error
	DeleteMessage(ctx context.Context, chatID, messageID int64) error
	IsTestMode() bool
}

// APIClient методы Telegram API, нужные отправителю
type APIClient interface {
	SendMessage(ctx context.Context, req telegram.SendMessageRequest) (telegram.Message, error)
	EditMessageText(ctx context.Context, req telegram.EditMessageTextRequest) error
	DeleteMessage(ctx context.Context, chatID, messageID int64) error
}

// MessageSenderImpl реализация MessageSender
type MessageSenderImpl struct {
	client   APIClient
	testMode bool
	testID   atomic.Int64
}

// NewMessageSender создает новый MessageSender. В тестовом режиме сообщения только логируются.
func NewMessageSender(client APIClient, testMode bool) *MessageSenderImpl {
	return &MessageSenderImpl{client: client, testMode: testMode}
}

// SendTextMessage отправляет текстовое сообщение. Длинный текст режется по строкам,
// клавиатура прикрепляется к последней части.
func (ms *MessageSenderImpl) SendTextMessage(ctx context.Context, chatID int64, text string, keyboard interface{}) (int64, error) {
	parts := SplitMessage(text, MaxMessageLength)

	var lastID int64
	for i, part := range parts {
		req := telegram.SendMessageRequest{
			ChatID:    chatID,
			Text:      part,
			ParseMode: telegram.ParseModeMarkdown,
		}
		if i == len(parts)-1 && keyboard != nil {
			req.ReplyMarkup = keyboard
		}

		id, err := ms.send(ctx, req)
		if err != nil {
			logger.Error("❌ Ошибка отправки сообщения в чат %d: %v", chatID, err)
			return lastID, err
		}
		lastID = id
	}
	return lastID, nil
}

// SendPlainMessage отправляет сообщение без parse_mode
func (ms *MessageSenderImpl) SendPlainMessage(ctx context.Context, chatID int64, text string) (int64, error) {
	return ms.send(ctx, telegram.SendMessageRequest{ChatID: chatID, Text: text})
}

func (ms *MessageSenderImpl) send(ctx context.Context, req telegram.SendMessageRequest) (int64, error) {
	if ms.testMode {
		logger.Info("[TEST] Send to %d: %s", req.ChatID, preview(req.Text))
		return ms.testID.Add(1), nil
	}

	msg, err := ms.client.SendMessage(ctx, req)
	if err != nil {
		return 0, err
	}
	return msg.MessageID, nil
}

// EditMessageText редактирует текст сообщения без разметки
func (ms *MessageSenderImpl) EditMessageText(ctx context.Context, chatID, messageID int64, text string) error {
	if ms.testMode {
		logger.Debug("[TEST] Edit message %d in chat %d: %s", messageID, chatID, preview(text))
		return nil
	}
	return ms.client.EditMessageText(ctx, telegram.EditMessageTextRequest{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	})
}

// DeleteMessage удаляет сообщение
func (ms *MessageSenderImpl) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	if ms.testMode {
		logger.Debug("[TEST] Delete message %d in chat %d", messageID, chatID)
		return nil
	}
	return ms.client.DeleteMessage(ctx, chatID, messageID)
}

// IsTestMode возвращает статус тестового режима
func (ms *MessageSenderImpl) IsTestMode() bool {
	return ms.testMode
}

// SplitMessage делит текст на части не длиннее limit символов, по возможности по переводу строки
func SplitMessage(text string, limit int) []string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var parts []string
	runes := []rune(text)
	for len(runes) > limit {
		cut := limit
		if nl := lastIndexRune(runes[:limit], '\n'); nl > 0 {
			cut = nl
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
		if len(runes) > 0 && runes[0] == '\n' {
			runes = runes[1:]
		}
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}

func lastIndexRune(runes []rune, r rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}

func preview(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	if utf8.RuneCountInString(text) <= 50 {
		return text
	}
	return string([]rune(text)[:50]) + "..."
}

var _ MessageSender = (*MessageSenderImpl)(nil)
