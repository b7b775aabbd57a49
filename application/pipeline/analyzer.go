// application/pipeline/analyzer.go
package pipeline

import (
	"context"
	"fmt"
	"time"

	"crypto-signal-bot/internal/core/domain/market"
	"crypto-signal-bot/internal/core/domain/signals"
	"crypto-signal-bot/pkg/logger"
)

// Analyzer строит торговый план по одному тикеру
type Analyzer struct {
	gateway  market.Gateway
	exchange string
	observer Observer
}

// NewAnalyzer создает анализатор. exchange используется в названии первого шага.
func NewAnalyzer(gateway market.Gateway, exchange string, observer Observer) *Analyzer {
	if observer == nil {
		observer = nopObserver{}
	}
	if exchange == "" {
		exchange = "Bybit"
	}
	return &Analyzer{gateway: gateway, exchange: exchange, observer: observer}
}

// AnalysisSteps названия шагов анализа
func AnalysisSteps(exchange string) []string {
	return []string{
		fmt.Sprintf("Подключение к %s API...", exchange),
		"Загрузка исторических данных...",
		"Расчет SMA50 и SMA200...",
		"Определение уровней входа...",
		"Расчет риск/прибыль...",
		"Сигнал готов!",
	}
}

// Analyze возвращает Markdown отчет по тикеру или *Error
func (a *Analyzer) Analyze(ctx context.Context, rawTicker string, progress ProgressFunc) (string, error) {
	started := time.Now()
	report, err := a.analyze(ctx, rawTicker, progress)
	a.observer.ObserveAnalysis(OutcomeOf(err), time.Since(started))
	return report, err
}

func (a *Analyzer) analyze(ctx context.Context, rawTicker string, progress ProgressFunc) (string, error) {
	ticker, ok := NormalizeTicker(rawTicker)
	if !ok {
		return "", newError(ErrNotFound, ticker, nil)
	}

	steps := AnalysisSteps(a.exchange)
	total := len(steps)

	// Validating
	if !a.gateway.ValidateSymbol(ctx, ticker) {
		if ctx.Err() != nil {
			return "", fmt.Errorf("проверка %s: %w", ticker, ctx.Err())
		}
		return "", newError(ErrNotFound, ticker, nil)
	}
	progress.emit(steps[0], 1, total)

	// FetchingData
	symbol := market.PairSymbol(ticker)
	snap, err := fetchSnapshot(ctx, a.gateway, symbol)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("загрузка %s: %w", symbol, ctx.Err())
		}
		logger.Warn("⚠️ Нет данных для %s: %v", symbol, err)
		return "", newError(ErrNoData, ticker, err)
	}
	progress.emit(steps[1], 2, total)

	// ComputingTrend
	fast, slow, ok := snap.trend()
	if !ok {
		return "", newError(ErrInsufficientHistory, ticker, nil)
	}
	progress.emit(steps[2], 3, total)

	// ComputingLevels
	direction := signals.DirectionFromTrend(fast, slow)
	levels, ok := snap.levels()
	if !ok {
		return "", newError(ErrLevelsUndetermined, ticker, nil)
	}
	progress.emit(steps[3], 4, total)

	// ComputingPlan
	plan := signals.BuildTradePlan(direction, levels.Support, levels.Resistance)
	progress.emit(steps[4], 5, total)
	logger.Plan(symbol, string(plan.Direction), plan.Entry, plan.StopLoss, plan.TakeProfit, plan.RiskReward)

	report := renderReport(symbol, snap, fast, slow, levels, plan, true)
	progress.emit(steps[5], 6, total)

	return report, nil
}
