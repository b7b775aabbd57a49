// application/pipeline/scanner.go
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crypto-signal-bot/internal/core/domain/market"
	"crypto-signal-bot/internal/core/domain/signals"
	"crypto-signal-bot/pkg/logger"
)

const scanTotalSteps = 4

// ScannerConfig ограничения сканирования
type ScannerConfig struct {
	TopPairs      int     // размер рейтинга
	MaxPairs      int     // сколько пар проверить
	MaxSignals    int     // сколько сигналов вернуть
	MinRiskReward float64 // порог допуска
}

// DefaultScannerConfig 50 пар в рейтинге, 30 проверок, 3 сигнала, R/R >= 2
func DefaultScannerConfig() ScannerConfig {
	return ScannerConfig{
		TopPairs:      market.DefaultTopPairsLimit,
		MaxPairs:      30,
		MaxSignals:    3,
		MinRiskReward: signals.MinRiskReward,
	}
}

// Scanner ищет лучшие пары в заданном направлении
type Scanner struct {
	gateway  market.Gateway
	cfg      ScannerConfig
	observer Observer
}

// NewScanner создает сканер. Нулевые поля cfg заменяются значениями по умолчанию.
func NewScanner(gateway market.Gateway, cfg ScannerConfig, observer Observer) *Scanner {
	def := DefaultScannerConfig()
	if cfg.TopPairs <= 0 {
		cfg.TopPairs = def.TopPairs
	}
	if cfg.MaxPairs <= 0 {
		cfg.MaxPairs = def.MaxPairs
	}
	if cfg.MaxSignals <= 0 {
		cfg.MaxSignals = def.MaxSignals
	}
	if cfg.MinRiskReward <= 0 {
		cfg.MinRiskReward = def.MinRiskReward
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Scanner{gateway: gateway, cfg: cfg, observer: observer}
}

// Config действующие ограничения
func (s *Scanner) Config() ScannerConfig {
	return s.cfg
}

// Scan проверяет пары по рейтингу, пока не наберет MaxSignals или не проверит MaxPairs
func (s *Scanner) Scan(ctx context.Context, direction signals.Direction, progress ProgressFunc) (ScanSummary, error) {
	started := time.Now()

	pairs, err := s.gateway.ListTopPairs(ctx, s.cfg.TopPairs)
	if err != nil {
		return ScanSummary{}, fmt.Errorf("%w: %v", ErrRanking, err)
	}
	if len(pairs) == 0 {
		return ScanSummary{}, fmt.Errorf("%w: пустой рейтинг", ErrRanking)
	}

	limit := s.cfg.MaxPairs
	if len(pairs) < limit {
		limit = len(pairs)
	}

	progress.emit(fmt.Sprintf("Сканирование топ-%d пар...", s.cfg.TopPairs), 1, scanTotalSteps)

	var summary ScanSummary
	for _, pair := range pairs {
		if summary.Examined >= s.cfg.MaxPairs || summary.Admitted >= s.cfg.MaxSignals {
			break
		}
		if ctx.Err() != nil {
			logger.Warn("⏱ Сканирование %s прервано после %d пар: %v", direction, summary.Examined, ctx.Err())
			break
		}

		summary.Examined++
		result := s.EvaluatePair(ctx, pair, direction)
		s.observer.ObservePairOutcome(string(result.Outcome))

		if result.Outcome == OutcomeAdmitted {
			summary.Reports = append(summary.Reports, result.Report)
			summary.Admitted++
		} else if result.Err != nil {
			logger.Debug("⏭ Пропущен %s (%s): %v", result.Symbol, result.Outcome, result.Err)
		} else {
			logger.Debug("⏭ Пропущен %s (%s)", result.Symbol, result.Outcome)
		}

		progress.emit(fmt.Sprintf("Проанализировано: %d/%d", summary.Examined, limit), 2, scanTotalSteps)
	}

	progress.emit(fmt.Sprintf("Найдено подходящих: %d", summary.Admitted), 3, scanTotalSteps)
	progress.emit("Отбор завершен!", 4, scanTotalSteps)

	s.observer.ObserveScan(string(direction), summary.Examined, summary.Admitted, time.Since(started))
	logger.Info("🔎 Сканирование %s: проверено %d, найдено %d за %v",
		direction, summary.Examined, summary.Admitted, time.Since(started).Round(time.Millisecond))

	return summary, nil
}

// EvaluatePair оценивает одну пару. Отчет формируется только для допущенных.
func (s *Scanner) EvaluatePair(ctx context.Context, pair market.TradingPair, direction signals.Direction) ScanResult {
	result := ScanResult{Symbol: pair.Symbol}

	snap, err := fetchSnapshot(ctx, s.gateway, pair.Symbol)
	if err != nil {
		result.Outcome = OutcomeNoData
		result.Err = err
		return result
	}

	fast, slow, ok := snap.trend()
	if !ok {
		result.Outcome = OutcomeInsufficientHistory
		return result
	}

	if signals.DirectionFromTrend(fast, slow) != direction {
		result.Outcome = OutcomeDirectionMismatch
		return result
	}

	levels, ok := snap.levels()
	if !ok {
		result.Outcome = OutcomeLevelsUndetermined
		return result
	}

	plan := signals.BuildTradePlan(direction, levels.Support, levels.Resistance)
	if plan.RiskReward < s.cfg.MinRiskReward {
		result.Outcome = OutcomeLowRiskReward
		return result
	}

	logger.Plan(pair.Symbol, string(plan.Direction), plan.Entry, plan.StopLoss, plan.TakeProfit, plan.RiskReward)
	result.Outcome = OutcomeAdmitted
	result.Report = renderReport(pair.Symbol, snap, fast, slow, levels, plan, false)
	return result
}

// scanSeparator линия перед первым отчетом
var scanSeparator = "\n" + strings.Repeat("=", 50)

// FormatScanResult текст ответа на сканирование
func FormatScanResult(summary ScanSummary, direction signals.Direction) string {
	if len(summary.Reports) == 0 {
		return fmt.Sprintf("❌ Подходящих пар не найдено. Попробуйте позже или выберите 'Лучшее в %s'.",
			direction.Opposite().Label())
	}
	return scanSeparator + strings.Join(summary.Reports, "\n")
}
