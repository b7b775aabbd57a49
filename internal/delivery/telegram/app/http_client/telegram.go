// internal/delivery/telegram/app/http_client/telegram.go
package http_client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"crypto-signal-bot/internal/delivery/telegram"
	"crypto-signal-bot/pkg/logger"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	maxRetryAfter     = 60 * time.Second
)

// TelegramClient клиент для работы с Telegram Bot API
type TelegramClient struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewTelegramClient создает новый клиент Telegram. apiURL без /bot<token>.
func NewTelegramClient(apiURL, token string, timeout time.Duration) *TelegramClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &TelegramClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    fmt.Sprintf("%s/bot%s/", strings.TrimRight(apiURL, "/"), token),
		maxRetries: defaultMaxRetries,
		sleep:      sleepContext,
	}
}

// Call вызывает метод API. При 429 ждет retry_after и повторяет.
func (c *TelegramClient) Call(ctx context.Context, method string, payload, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram %s: marshal: %w", method, err)
	}

	for attempt := 0; ; attempt++ {
		raw, err := c.post(ctx, method, body)
		if err != nil {
			return err
		}

		var resp telegram.APIResponse[json.RawMessage]
		if err := json.Unmarshal(raw, &resp); err != nil {
			return fmt.Errorf("telegram %s: decode: %w", method, err)
		}

		if resp.OK {
			if result == nil || len(resp.Result) == 0 {
				return nil
			}
			if err := json.Unmarshal(resp.Result, result); err != nil {
				return fmt.Errorf("telegram %s: decode result: %w", method, err)
			}
			return nil
		}

		apiErr := &telegram.APIError{Method: method, Code: resp.ErrorCode, Description: resp.Description}
		if resp.Parameters != nil {
			apiErr.RetryAfter = resp.Parameters.RetryAfter
		}

		if apiErr.Code != http.StatusTooManyRequests || attempt >= c.maxRetries {
			return apiErr
		}

		wait := time.Duration(apiErr.RetryAfter) * time.Second
		if wait <= 0 {
			wait = time.Second
		}
		if wait > maxRetryAfter {
			wait = maxRetryAfter
		}
		logger.Warn("⏳ Telegram %s: лимит запросов, повтор через %v", method, wait)
		if err := c.sleep(ctx, wait); err != nil {
			return fmt.Errorf("telegram %s: %w", method, err)
		}
	}
}

func (c *TelegramClient) post(ctx context.Context, method string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+method, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("telegram %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error содержит адрес с токеном
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("telegram %s: read body: %w", method, err)
	}
	return raw, nil
}

// SendMessage отправляет сообщение и возвращает его
func (c *TelegramClient) SendMessage(ctx context.Context, req telegram.SendMessageRequest) (telegram.Message, error) {
	var msg telegram.Message
	err := c.Call(ctx, "sendMessage", req, &msg)
	return msg, err
}

// EditMessageText меняет текст сообщения. "message is not modified" не ошибка.
func (c *TelegramClient) EditMessageText(ctx context.Context, req telegram.EditMessageTextRequest) error {
	err := c.Call(ctx, "editMessageText", req, nil)
	if IsNotModified(err) {
		return nil
	}
	return err
}

// DeleteMessage удаляет сообщение
func (c *TelegramClient) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	return c.Call(ctx, "deleteMessage", telegram.DeleteMessageRequest{ChatID: chatID, MessageID: messageID}, nil)
}

// SetMyCommands устанавливает меню команд
func (c *TelegramClient) SetMyCommands(ctx context.Context, commands []telegram.BotCommand) error {
	return c.Call(ctx, "setMyCommands", telegram.SetMyCommandsRequest{Commands: commands}, nil)
}

// SetTimeout устанавливает таймаут для клиента
func (c *TelegramClient) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}

// IsNotModified ошибка редактирования без изменений
func IsNotModified(err error) bool {
	var apiErr *telegram.APIError
	return errors.As(err, &apiErr) &&
		apiErr.Code == http.StatusBadRequest &&
		strings.Contains(apiErr.Description, "message is not modified")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
