// application/pipeline/snapshot.go
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	"crypto-signal-bot/internal/core/domain/indicators"
	"crypto-signal-bot/internal/core/domain/market"
	"crypto-signal-bot/internal/core/domain/signals"
)

// snapshot свечи трех таймфреймов одной пары
type snapshot struct {
	daily []market.Candle
	h4    []market.Candle
	h1    []market.Candle
}

// fetchSnapshot загружает 1d, 4h и 1h параллельно. Пустой ответ считается ошибкой.
func fetchSnapshot(ctx context.Context, gateway market.Gateway, symbol string) (snapshot, error) {
	var snap snapshot
	g, gctx := errgroup.WithContext(ctx)

	load := func(tf market.Timeframe, limit int, dst *[]market.Candle) {
		g.Go(func() error {
			candles, err := gateway.GetCandles(gctx, symbol, tf, limit)
			if err != nil {
				return err
			}
			if len(candles) == 0 {
				return fmt.Errorf("%w: %s %s", market.ErrNoData, symbol, tf)
			}
			*dst = candles
			return nil
		})
	}

	load(market.Timeframe1d, DailyCandles, &snap.daily)
	load(market.Timeframe4h, H4Candles, &snap.h4)
	load(market.Timeframe1h, H1Candles, &snap.h1)

	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}
	return snap, nil
}

// trend быстрая и медленная SMA по дневным свечам
func (s snapshot) trend() (fast, slow float64, ok bool) {
	fast, okFast := indicators.SMA(s.daily, indicators.TrendFastPeriod)
	slow, okSlow := indicators.SMA(s.daily, indicators.TrendSlowPeriod)
	return fast, slow, okFast && okSlow
}

// currentPrice последнее закрытие часовой свечи
func (s snapshot) currentPrice() float64 {
	price, _ := indicators.LastClose(s.h1)
	return price
}

func (s snapshot) levels() (indicators.PriceLevels, bool) {
	return indicators.SupportResistance(s.h4, s.h1)
}

func renderReport(symbol string, snap snapshot, fast, slow float64, levels indicators.PriceLevels, plan signals.TradePlan, warn bool) string {
	return signals.RenderReport(signals.ReportInput{
		Symbol:         symbol,
		CurrentPrice:   snap.currentPrice(),
		SMAFast:        fast,
		SMASlow:        slow,
		Support:        levels.Support,
		Resistance:     levels.Resistance,
		Plan:           plan,
		IncludeWarning: warn,
	})
}

const maxTickerLength = 20

// NormalizeTicker приводит ввод пользователя к тикеру: верхний регистр,
// без пробелов и суффикса USDT. false, если тикер недопустим.
func NormalizeTicker(raw string) (string, bool) {
	ticker := strings.ToUpper(strings.TrimSpace(raw))
	if base := strings.TrimSuffix(ticker, market.QuoteAsset); base != "" {
		ticker = base
	}

	if ticker == "" || len(ticker) > maxTickerLength {
		return ticker, false
	}
	for _, r := range ticker {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return ticker, false
		}
	}
	return ticker, true
}
