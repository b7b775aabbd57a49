// internal/infrastructure/api/requester.go
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"crypto-signal-bot/internal/core/domain/market"
	"crypto-signal-bot/pkg/logger"
)

// Requester выполняет публичные GET запросы к бирже с повторами
type Requester struct {
	httpClient *http.Client
	exchange   string
	baseURL    string
	policy     RetryPolicy
	observer   Observer

	mu          sync.Mutex
	lastRequest time.Time
	rateLimit   time.Duration
}

// RequesterOption настройка Requester
type RequesterOption func(*Requester)

// WithObserver подключает наблюдателя (метрики)
func WithObserver(o Observer) RequesterOption {
	return func(r *Requester) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithRateLimit минимальный интервал между запросами
func WithRateLimit(d time.Duration) RequesterOption {
	return func(r *Requester) { r.rateLimit = d }
}

// WithHTTPClient подменяет HTTP клиент
func WithHTTPClient(c *http.Client) RequesterOption {
	return func(r *Requester) { r.httpClient = c }
}

// NewRequester создает Requester для baseURL
func NewRequester(exchange, baseURL string, timeout time.Duration, policy RetryPolicy, opts ...RequesterOption) *Requester {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}

	r := &Requester{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		exchange: exchange,
		baseURL:  baseURL,
		policy:   policy,
		observer: nopObserver{},
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Exchange имя биржи
func (r *Requester) Exchange() string { return r.exchange }

// Get выполняет запрос с повторами. 429 и 5xx/транспортные ошибки повторяются,
// прочие 4xx возвращаются сразу. Все ошибки оборачивают market.ErrTransport.
func (r *Requester) Get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		if err := r.waitForRateLimit(ctx); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", market.ErrTransport, endpoint, err)
		}

		started := time.Now()
		body, status, err := r.do(ctx, endpoint, params)

		switch {
		case err != nil:
			r.observer.ObserveRequest(r.exchange, endpoint, OutcomeTransport, time.Since(started))
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %s: %v", market.ErrTransport, endpoint, ctx.Err())
			}
			lastErr = err

		case status == http.StatusOK:
			r.observer.ObserveRequest(r.exchange, endpoint, OutcomeOK, time.Since(started))
			return body, nil

		case status == http.StatusTooManyRequests:
			r.observer.ObserveRequest(r.exchange, endpoint, OutcomeRateLimited, time.Since(started))
			lastErr = &StatusError{StatusCode: status, Body: string(body)}
			if attempt < r.policy.MaxAttempts {
				wait := r.policy.RateLimitWait()
				logger.Warn("⏳ %s: лимит запросов на %s, повтор %d/%d через %v",
					r.exchange, endpoint, attempt+1, r.policy.MaxAttempts, wait)
				r.observer.ObserveRetry(r.exchange, OutcomeRateLimited)
				if err := sleepContext(ctx, wait); err != nil {
					return nil, fmt.Errorf("%w: %s: %v", market.ErrTransport, endpoint, err)
				}
			}
			continue

		case status >= http.StatusInternalServerError:
			r.observer.ObserveRequest(r.exchange, endpoint, OutcomeServerError, time.Since(started))
			lastErr = &StatusError{StatusCode: status, Body: string(body)}

		default:
			r.observer.ObserveRequest(r.exchange, endpoint, OutcomeClientError, time.Since(started))
			return nil, fmt.Errorf("%w: %s: %w", market.ErrTransport, endpoint,
				&StatusError{StatusCode: status, Body: string(body)})
		}

		if attempt < r.policy.MaxAttempts {
			wait := r.policy.ErrorWait()
			logger.Warn("⚠️ %s: ошибка запроса %s (%v), повтор %d/%d через %v",
				r.exchange, endpoint, lastErr, attempt+1, r.policy.MaxAttempts, wait)
			r.observer.ObserveRetry(r.exchange, "error")
			if err := sleepContext(ctx, wait); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", market.ErrTransport, endpoint, err)
			}
		}
	}

	return nil, fmt.Errorf("%w: %s после %d попыток: %w",
		market.ErrTransport, endpoint, r.policy.MaxAttempts, lastErr)
}

func (r *Requester) do(ctx context.Context, endpoint string, params url.Values) ([]byte, int, error) {
	apiURL := r.baseURL + endpoint
	if len(params) > 0 {
		apiURL = apiURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "CryptoSignalBot/1.0")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// waitForRateLimit выдерживает минимальный интервал между запросами
func (r *Requester) waitForRateLimit(ctx context.Context) error {
	if r.rateLimit <= 0 {
		return nil
	}

	r.mu.Lock()
	next := r.lastRequest.Add(r.rateLimit)
	now := time.Now()
	if next.Before(now) {
		next = now
	}
	r.lastRequest = next
	r.mu.Unlock()

	return sleepContext(ctx, time.Until(next))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsStatus проверяет, что ошибка вызвана HTTP статусом code
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
