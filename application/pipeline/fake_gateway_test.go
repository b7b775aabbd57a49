// application/pipeline/fake_gateway_test.go
package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"crypto-signal-bot/internal/core/domain/market"
)

// fakeGateway отдает заранее заготовленные свечи
type fakeGateway struct {
	mu       sync.Mutex
	symbols  map[string]bool
	candles  map[string]map[market.Timeframe][]market.Candle
	fail     map[string]error
	pairs    []market.TradingPair
	pairsErr error
	requests map[string]int // symbol -> количество запросов свечей
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		symbols:  make(map[string]bool),
		candles:  make(map[string]map[market.Timeframe][]market.Candle),
		fail:     make(map[string]error),
		requests: make(map[string]int),
	}
}

func (g *fakeGateway) add(symbol string, daily, h4, h1 []market.Candle) {
	g.symbols[market.BaseTicker(symbol)] = true
	g.candles[symbol] = map[market.Timeframe][]market.Candle{
		market.Timeframe1d: daily,
		market.Timeframe4h: h4,
		market.Timeframe1h: h1,
	}
	g.pairs = append(g.pairs, market.TradingPair{Symbol: symbol})
}

func (g *fakeGateway) ValidateSymbol(_ context.Context, ticker string) bool {
	return g.symbols[ticker]
}

func (g *fakeGateway) GetCandles(ctx context.Context, symbol string, tf market.Timeframe, limit int) ([]market.Candle, error) {
	g.mu.Lock()
	g.requests[symbol]++
	g.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := g.fail[symbol]; ok {
		return nil, err
	}
	byTf, ok := g.candles[symbol]
	if !ok {
		return nil, market.ErrNoData
	}
	candles := byTf[tf]
	if len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	return candles, nil
}

func (g *fakeGateway) ListTopPairs(_ context.Context, limit int) ([]market.TradingPair, error) {
	if g.pairsErr != nil {
		return nil, g.pairsErr
	}
	if limit > 0 && len(g.pairs) > limit {
		return g.pairs[:limit], nil
	}
	return g.pairs, nil
}

func (g *fakeGateway) requested(symbol string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.requests[symbol]
}

var errExchangeDown = errors.New("exchange down")

// trendCandles n дневных свечей с ростом (up) или падением цены
func trendCandles(n int, up bool) []market.Candle {
	candles := make([]market.Candle, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range candles {
		price := float64(i + 1)
		if !up {
			price = float64(n - i)
		}
		candles[i] = market.Candle{
			OpenTime: start.Add(time.Duration(i) * 24 * time.Hour).UnixMilli(),
			Open:     price,
			High:     price,
			Low:      price,
			Close:    price,
			Volume:   1,
		}
	}
	return candles
}

// rangeCandles n свечей в диапазоне [low, high] с закрытием close
func rangeCandles(n int, low, high, close float64) []market.Candle {
	candles := make([]market.Candle, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range candles {
		candles[i] = market.Candle{
			OpenTime: start.Add(time.Duration(i) * time.Hour).UnixMilli(),
			Open:     close,
			High:     high,
			Low:      low,
			Close:    close,
			Volume:   1,
		}
	}
	return candles
}

// addLong пара с растущим трендом и уровнями 100/high
func (g *fakeGateway) addLong(symbol string, high float64) {
	g.add(symbol, trendCandles(DailyCandles, true), rangeCandles(H4Candles, 100, high, 105), rangeCandles(H1Candles, 100, high, 105))
}

// addShort пара с падающим трендом и уровнями 100/110
func (g *fakeGateway) addShort(symbol string) {
	g.add(symbol, trendCandles(DailyCandles, false), rangeCandles(H4Candles, 100, 110, 105), rangeCandles(H1Candles, 100, 110, 105))
}
