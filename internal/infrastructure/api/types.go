// internal/infrastructure/api/types.go
package api

import (
	"fmt"
	"math/rand"
	"time"
)

// Observer получает события запросов к бирже (метрики)
type Observer interface {
	ObserveRequest(exchange, endpoint, outcome string, duration time.Duration)
	ObserveRetry(exchange, reason string)
}

// Исходы запроса
const (
	OutcomeOK          = "ok"
	OutcomeRateLimited = "rate_limited"
	OutcomeServerError = "server_error"
	OutcomeClientError = "client_error"
	OutcomeTransport   = "transport_error"
)

type nopObserver struct{}

func (nopObserver) ObserveRequest(string, string, string, time.Duration) {}
func (nopObserver) ObserveRetry(string, string)                          {}

// StatusError неуспешный HTTP статус от биржи
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("API returned status %d: %s", e.StatusCode, body)
}

// RetryPolicy политика повторов запросов
type RetryPolicy struct {
	MaxAttempts   int
	RateLimitWait func() time.Duration // пауза после 429
	ErrorWait     func() time.Duration // пауза после прочих ошибок
}

// DefaultRetryPolicy 429: 2-4s, прочие ошибки: 1-2s
func DefaultRetryPolicy(maxAttempts int) RetryPolicy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return RetryPolicy{
		MaxAttempts:   maxAttempts,
		RateLimitWait: JitterBetween(2*time.Second, 4*time.Second),
		ErrorWait:     JitterBetween(1*time.Second, 2*time.Second),
	}
}

// NoWaitRetryPolicy повторы без пауз
func NoWaitRetryPolicy(maxAttempts int) RetryPolicy {
	zero := func() time.Duration { return 0 }
	return RetryPolicy{MaxAttempts: maxAttempts, RateLimitWait: zero, ErrorWait: zero}
}

// JitterBetween случайная пауза в диапазоне [min, max)
func JitterBetween(min, max time.Duration) func() time.Duration {
	return func() time.Duration {
		if max <= min {
			return min
		}
		return min + time.Duration(rand.Int63n(int64(max-min)))
	}
}
