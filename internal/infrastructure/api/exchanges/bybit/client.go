// internal/infrastructure/api/exchanges/bybit/client.go
package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"crypto-signal-bot/internal/core/domain/market"
	"crypto-signal-bot/internal/infrastructure/api"
	"crypto-signal-bot/internal/infrastructure/config"
	"crypto-signal-bot/pkg/logger"
)

// BYBIT CLIENT
// ============================================

// BybitClient - источник рыночных данных Bybit v5
type BybitClient struct {
	requester *api.Requester
	category  string
}

// NewBybitClient создает клиент по конфигурации
func NewBybitClient(cfg *config.Config, observer api.Observer) *BybitClient {
	requester := api.NewRequester(
		ExchangeName,
		cfg.BybitApiUrl,
		cfg.HTTPTimeout,
		api.DefaultRetryPolicy(cfg.ExchangeMaxAttempts),
		api.WithObserver(observer),
		api.WithRateLimit(cfg.RateLimitDelay),
	)
	return NewBybitClientWithRequester(requester, cfg.BybitCategory)
}

// NewBybitClientWithRequester создает клиент поверх готового Requester
func NewBybitClientWithRequester(requester *api.Requester, category string) *BybitClient {
	if category == "" {
		category = CategorySpot
	}
	return &BybitClient{requester: requester, category: category}
}

// Category возвращает категорию рынка
func (c *BybitClient) Category() string {
	return c.category
}

// ValidateSymbol проверяет, что {ticker}USDT торгуется
func (c *BybitClient) ValidateSymbol(ctx context.Context, ticker string) bool {
	symbol := market.PairSymbol(ticker)

	params := url.Values{}
	params.Set("category", c.category)
	params.Set("symbol", symbol)

	body, err := c.requester.Get(ctx, endpointInstruments, params)
	if err != nil {
		logger.Debug("🔍 Bybit: проверка %s не удалась: %v", symbol, err)
		return false
	}

	var resp InstrumentsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		logger.Debug("🔍 Bybit: некорректный ответ instruments-info для %s: %v", symbol, err)
		return false
	}
	if resp.RetCode != 0 {
		return false
	}

	for _, inst := range resp.Result.List {
		if inst.Symbol == symbol {
			return true
		}
	}
	return false
}

// GetCandles загружает свечи и возвращает их от старых к новым
func (c *BybitClient) GetCandles(ctx context.Context, symbol string, tf market.Timeframe, limit int) ([]market.Candle, error) {
	interval, ok := intervals[tf]
	if !ok {
		return nil, fmt.Errorf("%w: %q", market.ErrInvalidTimeframe, tf)
	}

	params := url.Values{}
	params.Set("category", c.category)
	params.Set("symbol", symbol)
	params.Set("interval", interval)
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.requester.Get(ctx, endpointKline, params)
	if err != nil {
		return nil, fmt.Errorf("свечи %s %s: %w", symbol, tf, err)
	}

	var resp KlineResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: свечи %s %s: %v", market.ErrMalformed, symbol, tf, err)
	}
	if resp.RetCode != 0 {
		return nil, fmt.Errorf("%w: свечи %s %s: API error %d: %s",
			market.ErrMalformed, symbol, tf, resp.RetCode, resp.RetMsg)
	}
	if len(resp.Result.List) == 0 {
		return nil, fmt.Errorf("%w: свечи %s %s", market.ErrNoData, symbol, tf)
	}

	candles := make([]market.Candle, 0, len(resp.Result.List))
	for _, row := range resp.Result.List {
		candle, err := parseKlineRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: свечи %s %s: %v", market.ErrMalformed, symbol, tf, err)
		}
		candles = append(candles, candle)
	}

	// Bybit отдает от новых к старым
	market.SortOldestFirst(candles)
	return candles, nil
}

// ListTopPairs возвращает USDT пары по убыванию оборота.
// При недоступности API возвращает запасной список.
func (c *BybitClient) ListTopPairs(ctx context.Context, limit int) ([]market.TradingPair, error) {
	pairs, err := c.FetchTopPairs(ctx, limit)
	if err != nil {
		logger.Warn("⚠️ Bybit: не удалось получить тикеры (%v), используем запасной список", err)
		return market.FallbackPairs(limit), nil
	}
	return pairs, nil
}

// FetchTopPairs рейтинг пар без запасного списка
func (c *BybitClient) FetchTopPairs(ctx context.Context, limit int) ([]market.TradingPair, error) {
	pairs, err := c.fetchTickers(ctx)
	if err != nil {
		return nil, err
	}
	return market.RankPairs(pairs, limit), nil
}

// fetchTickers загружает статистику за 24 часа по всем USDT парам
func (c *BybitClient) fetchTickers(ctx context.Context) ([]market.TradingPair, error) {
	params := url.Values{}
	params.Set("category", c.category)

	body, err := c.requester.Get(ctx, endpointTickers, params)
	if err != nil {
		return nil, err
	}

	var resp TickerResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: тикеры: %v", market.ErrMalformed, err)
	}
	if resp.RetCode != 0 {
		return nil, fmt.Errorf("%w: тикеры: API error %d: %s", market.ErrMalformed, resp.RetCode, resp.RetMsg)
	}

	pairs := make([]market.TradingPair, 0, len(resp.Result.List))
	for _, t := range resp.Result.List {
		if !market.IsQuotePair(t.Symbol) {
			continue
		}
		volume, errV := decimal.NewFromString(t.Volume24h)
		price, errP := decimal.NewFromString(t.LastPrice)
		if errV != nil || errP != nil {
			logger.Debug("🔍 Bybit: пропускаем тикер %s с некорректными числами", t.Symbol)
			continue
		}
		pairs = append(pairs, market.TradingPair{Symbol: t.Symbol, Volume24h: volume, LastPrice: price})
	}

	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: пустой список тикеров", market.ErrNoData)
	}
	return pairs, nil
}

func parseKlineRow(row []string) (market.Candle, error) {
	if len(row) < 6 {
		return market.Candle{}, fmt.Errorf("строка свечи из %d полей", len(row))
	}

	openTime, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return market.Candle{}, fmt.Errorf("время открытия %q: %w", row[0], err)
	}

	var values [5]float64
	for i := range values {
		v, err := strconv.ParseFloat(row[i+1], 64)
		if err != nil {
			return market.Candle{}, fmt.Errorf("поле %d %q: %w", i+1, row[i+1], err)
		}
		values[i] = v
	}

	return market.Candle{
		OpenTime: openTime,
		Open:     values[0],
		High:     values[1],
		Low:      values[2],
		Close:    values[3],
		Volume:   values[4],
	}, nil
}
