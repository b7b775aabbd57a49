// internal/infrastructure/cache/redis/market_cache.go
package redis

import (
	"context"
	"fmt"
	"time"

	"crypto-signal-bot/internal/core/domain/market"
	"crypto-signal-bot/pkg/logger"
)

const (
	pairsTTL         = 10 * time.Minute
	validSymbolTTL   = time.Hour
	defaultCandleTTL = time.Minute
)

// CacheObserver получает события попаданий в кэш
type CacheObserver interface {
	ObserveCache(kind string, hit bool)
}

type nopCacheObserver struct{}

func (nopCacheObserver) ObserveCache(string, bool) {}

// CachedGateway кэширует ответы биржи в Redis.
// Ошибки Redis логируются и обходятся.
type CachedGateway struct {
	next     market.Gateway
	cache    *Cache
	observer CacheObserver
}

// NewCachedGateway оборачивает next кэшем
func NewCachedGateway(next market.Gateway, cache *Cache, observer CacheObserver) *CachedGateway {
	if observer == nil {
		observer = nopCacheObserver{}
	}
	return &CachedGateway{next: next, cache: cache, observer: observer}
}

// candleTTL время жизни свечей в зависимости от таймфрейма
func candleTTL(tf market.Timeframe) time.Duration {
	switch tf {
	case market.Timeframe1h:
		return 1 * time.Minute
	case market.Timeframe4h:
		return 5 * time.Minute
	case market.Timeframe1d:
		return 30 * time.Minute
	default:
		return defaultCandleTTL
	}
}

func candlesKey(symbol string, tf market.Timeframe, limit int) string {
	return fmt.Sprintf("candles:%s:%s:%d", symbol, tf, limit)
}

func pairsKey(limit int) string {
	return fmt.Sprintf("pairs:%d", limit)
}

func symbolKey(ticker string) string {
	return "symbols:" + ticker
}

// ValidateSymbol кэширует только положительные ответы
func (g *CachedGateway) ValidateSymbol(ctx context.Context, ticker string) bool {
	key := symbolKey(ticker)

	var valid bool
	if err := g.cache.Get(ctx, key, &valid); err == nil && valid {
		g.observer.ObserveCache("symbol", true)
		return true
	} else if err != nil && !IsMiss(err) {
		logger.Warn("⚠️ Redis: чтение %s: %v", key, err)
	}
	g.observer.ObserveCache("symbol", false)

	if !g.next.ValidateSymbol(ctx, ticker) {
		return false
	}

	if err := g.cache.Set(ctx, key, true, validSymbolTTL); err != nil {
		logger.Warn("⚠️ Redis: запись %s: %v", key, err)
	}
	return true
}

// GetCandles отдает свечи из кэша или загружает и кэширует их
func (g *CachedGateway) GetCandles(ctx context.Context, symbol string, tf market.Timeframe, limit int) ([]market.Candle, error) {
	key := candlesKey(symbol, tf, limit)

	var cached []market.Candle
	err := g.cache.Get(ctx, key, &cached)
	switch {
	case err == nil && len(cached) > 0:
		g.observer.ObserveCache("candles", true)
		return cached, nil
	case err != nil && !IsMiss(err):
		logger.Warn("⚠️ Redis: чтение %s: %v", key, err)
	}
	g.observer.ObserveCache("candles", false)

	candles, err := g.next.GetCandles(ctx, symbol, tf, limit)
	if err != nil {
		return nil, err
	}

	if err := g.cache.Set(ctx, key, candles, candleTTL(tf)); err != nil {
		logger.Warn("⚠️ Redis: запись %s: %v", key, err)
	}
	return candles, nil
}

// ListTopPairs кэширует рейтинг. Запасной список не кэшируется.
func (g *CachedGateway) ListTopPairs(ctx context.Context, limit int) ([]market.TradingPair, error) {
	key := pairsKey(limit)

	var cached []market.TradingPair
	err := g.cache.Get(ctx, key, &cached)
	switch {
	case err == nil && len(cached) > 0:
		g.observer.ObserveCache("pairs", true)
		return cached, nil
	case err != nil && !IsMiss(err):
		logger.Warn("⚠️ Redis: чтение %s: %v", key, err)
	}
	g.observer.ObserveCache("pairs", false)

	ranker, ok := g.next.(market.PairRanker)
	if !ok {
		return g.next.ListTopPairs(ctx, limit)
	}

	pairs, err := ranker.FetchTopPairs(ctx, limit)
	if err != nil {
		logger.Warn("⚠️ Не удалось получить рейтинг пар (%v), используем запасной список", err)
		return market.FallbackPairs(limit), nil
	}

	if err := g.cache.Set(ctx, key, pairs, pairsTTL); err != nil {
		logger.Warn("⚠️ Redis: запись %s: %v", key, err)
	}
	return pairs, nil
}

// RefreshTopPairs загружает рейтинг с биржи и перезаписывает кэш
func (g *CachedGateway) RefreshTopPairs(ctx context.Context, limit int) (int, error) {
	ranker, ok := g.next.(market.PairRanker)
	if !ok {
		return 0, fmt.Errorf("источник данных не поддерживает рейтинг без запасного списка")
	}

	pairs, err := ranker.FetchTopPairs(ctx, limit)
	if err != nil {
		return 0, err
	}

	if err := g.cache.Set(ctx, pairsKey(limit), pairs, pairsTTL); err != nil {
		return len(pairs), fmt.Errorf("запись рейтинга в Redis: %w", err)
	}
	return len(pairs), nil
}
