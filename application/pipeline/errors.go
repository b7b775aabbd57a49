// application/pipeline/errors.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("тикер не найден")
	ErrNoData              = errors.New("нет данных")
	ErrInsufficientHistory = errors.New("недостаточно истории")
	ErrLevelsUndetermined  = errors.New("уровни не определены")
	ErrRanking             = errors.New("не удалось получить список торговых пар")
)

// Error ошибка анализа конкретного тикера
type Error struct {
	Kind   error // одна из ErrNotFound, ErrNoData, ErrInsufficientHistory, ErrLevelsUndetermined
	Ticker string
	Err    error // исходная причина, может быть nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v: %v", e.Ticker, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Ticker, e.Kind)
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// UserMessage текст ошибки для пользователя
func (e *Error) UserMessage() string {
	switch e.Kind {
	case ErrNotFound:
		return fmt.Sprintf("❌ Ошибка: тикер %s не найден. Попробуйте другой, например, BTC или ETH.", e.Ticker)
	case ErrNoData:
		return fmt.Sprintf("❌ Ошибка: нет данных для %s. Попробуйте другую монету.", e.Ticker)
	case ErrInsufficientHistory:
		return fmt.Sprintf("❌ Ошибка: недостаточно данных для расчета тренда для %s.", e.Ticker)
	case ErrLevelsUndetermined:
		return fmt.Sprintf("❌ Ошибка: не удалось определить уровни для %s.", e.Ticker)
	default:
		return fmt.Sprintf("❌ Ошибка анализа %s. Попробуйте позже.", e.Ticker)
	}
}

// UserMessage переводит любую ошибку пайплайна в текст для пользователя
func UserMessage(err error) string {
	var pe *Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &pe):
		return pe.UserMessage()
	case errors.Is(err, ErrRanking):
		return "❌ Ошибка: не удалось получить список торговых пар."
	case errors.Is(err, context.DeadlineExceeded):
		return "⏱ Анализ занял слишком много времени. Попробуйте позже."
	default:
		return "❌ Произошла ошибка. Попробуйте позже."
	}
}

// OutcomeOf метка исхода для метрик и журнала
func OutcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNoData):
		return string(OutcomeNoData)
	case errors.Is(err, ErrInsufficientHistory):
		return string(OutcomeInsufficientHistory)
	case errors.Is(err, ErrLevelsUndetermined):
		return string(OutcomeLevelsUndetermined)
	case errors.Is(err, ErrRanking):
		return "ranking_failed"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "error"
	}
}

func newError(kind error, ticker string, cause error) *Error {
	return &Error{Kind: kind, Ticker: ticker, Err: cause}
}
