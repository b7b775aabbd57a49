// internal/delivery/telegram/app/http_client/polling.go
package http_client

import (
	"context"
	"time"

	"crypto-signal-bot/internal/delivery/telegram"
)

// PollingClient клиент для long polling с увеличенным таймаутом
type PollingClient struct {
	client      *TelegramClient
	pollTimeout int
}

// NewPollingClient создает клиент getUpdates. HTTP таймаут больше pollTimeout на 5 секунд.
func NewPollingClient(apiURL, token string, pollTimeout int) *PollingClient {
	if pollTimeout <= 0 {
		pollTimeout = 30
	}
	return &PollingClient{
		client:      NewTelegramClient(apiURL, token, time.Duration(pollTimeout+5)*time.Second),
		pollTimeout: pollTimeout,
	}
}

// GetUpdates получает обновления начиная с offset
func (c *PollingClient) GetUpdates(ctx context.Context, offset int) ([]telegram.Update, error) {
	var updates []telegram.Update
	req := telegram.GetUpdatesRequest{
		Offset:         offset,
		Timeout:        c.pollTimeout,
		AllowedUpdates: []string{"message"},
	}
	if err := c.client.Call(ctx, "getUpdates", req, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}
