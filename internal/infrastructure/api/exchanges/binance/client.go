// internal/infrastructure/api/exchanges/binance/client.go
package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"crypto-signal-bot/internal/core/domain/market"
	"crypto-signal-bot/internal/infrastructure/api"
	"crypto-signal-bot/internal/infrastructure/config"
	"crypto-signal-bot/pkg/logger"
)

const (
	ExchangeName = "binance"

	endpointExchangeInfo = "/api/v3/exchangeInfo"
	endpointKlines       = "/api/v3/klines"
	endpointTicker24h    = "/api/v3/ticker/24hr"
)

// intervals коды интервалов Binance совпадают с нашими
var intervals = map[market.Timeframe]string{
	market.Timeframe1h: "1h",
	market.Timeframe4h: "4h",
	market.Timeframe1d: "1d",
}

// BinanceTickerResponse - статистика пары за 24 часа
type BinanceTickerResponse struct {
	Symbol             string `json:"symbol"`
	PriceChangePercent string `json:"priceChangePercent"`
	LastPrice          string `json:"lastPrice"`
	Volume             string `json:"volume"`
	QuoteVolume        string `json:"quoteVolume"`
}

// exchangeInfoResponse - усеченный ответ exchangeInfo
type exchangeInfoResponse struct {
	Symbols []struct {
		Symbol string `json:"symbol"`
		Status string `json:"status"`
	} `json:"symbols"`
}

// BinanceClient - источник рыночных данных Binance Spot
type BinanceClient struct {
	requester *api.Requester
}

// NewBinanceClient создает клиент по конфигурации
func NewBinanceClient(cfg *config.Config, observer api.Observer) *BinanceClient {
	requester := api.NewRequester(
		ExchangeName,
		cfg.BinanceApiUrl,
		cfg.HTTPTimeout,
		api.DefaultRetryPolicy(cfg.ExchangeMaxAttempts),
		api.WithObserver(observer),
		api.WithRateLimit(cfg.RateLimitDelay),
	)
	return NewBinanceClientWithRequester(requester)
}

// NewBinanceClientWithRequester создает клиент поверх готового Requester
func NewBinanceClientWithRequester(requester *api.Requester) *BinanceClient {
	return &BinanceClient{requester: requester}
}

// Category возвращает категорию рынка
func (c *BinanceClient) Category() string {
	return "spot"
}

// ValidateSymbol проверяет, что {ticker}USDT торгуется
func (c *BinanceClient) ValidateSymbol(ctx context.Context, ticker string) bool {
	symbol := market.PairSymbol(ticker)

	params := url.Values{}
	params.Set("symbol", symbol)

	body, err := c.requester.Get(ctx, endpointExchangeInfo, params)
	if err != nil {
		// неизвестный символ Binance отдает как 400
		logger.Debug("🔍 Binance: проверка %s не удалась: %v", symbol, err)
		return false
	}

	var info exchangeInfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		logger.Debug("🔍 Binance: некорректный ответ exchangeInfo для %s: %v", symbol, err)
		return false
	}

	for _, s := range info.Symbols {
		if s.Symbol == symbol {
			return true
		}
	}
	return false
}

// GetCandles загружает свечи и возвращает их от старых к новым
func (c *BinanceClient) GetCandles(ctx context.Context, symbol string, tf market.Timeframe, limit int) ([]market.Candle, error) {
	interval, ok := intervals[tf]
	if !ok {
		return nil, fmt.Errorf("%w: %q", market.ErrInvalidTimeframe, tf)
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", interval)
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.requester.Get(ctx, endpointKlines, params)
	if err != nil {
		return nil, fmt.Errorf("свечи %s %s: %w", symbol, tf, err)
	}

	candles, err := parseKlines(body)
	if err != nil {
		return nil, fmt.Errorf("свечи %s %s: %w", symbol, tf, err)
	}

	market.SortOldestFirst(candles)
	return candles, nil
}

// ListTopPairs возвращает USDT пары по убыванию оборота.
// При недоступности API возвращает запасной список.
func (c *BinanceClient) ListTopPairs(ctx context.Context, limit int) ([]market.TradingPair, error) {
	pairs, err := c.FetchTopPairs(ctx, limit)
	if err != nil {
		logger.Warn("⚠️ Binance: не удалось получить тикеры (%v), используем запасной список", err)
		return market.FallbackPairs(limit), nil
	}
	return pairs, nil
}

// FetchTopPairs рейтинг пар без запасного списка
func (c *BinanceClient) FetchTopPairs(ctx context.Context, limit int) ([]market.TradingPair, error) {
	body, err := c.requester.Get(ctx, endpointTicker24h, nil)
	if err != nil {
		return nil, err
	}

	var tickers []BinanceTickerResponse
	if err := json.Unmarshal(body, &tickers); err != nil {
		return nil, fmt.Errorf("%w: тикеры: %v", market.ErrMalformed, err)
	}

	pairs := make([]market.TradingPair, 0, len(tickers))
	for _, t := range tickers {
		if !market.IsQuotePair(t.Symbol) {
			continue
		}
		volume, errV := decimal.NewFromString(t.Volume)
		price, errP := decimal.NewFromString(t.LastPrice)
		if errV != nil || errP != nil {
			continue
		}
		pairs = append(pairs, market.TradingPair{Symbol: t.Symbol, Volume24h: volume, LastPrice: price})
	}

	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: пустой список тикеров", market.ErrNoData)
	}
	return market.RankPairs(pairs, limit), nil
}

// parseKlines разбирает массив массивов смешанных типов:
// [openTime, "open", "high", "low", "close", "volume", closeTime, ...]
func parseKlines(body []byte) ([]market.Candle, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: невалидный JSON", market.ErrMalformed)
	}

	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: ожидался массив свечей", market.ErrMalformed)
	}

	rows := root.Array()
	if len(rows) == 0 {
		return nil, market.ErrNoData
	}

	candles := make([]market.Candle, 0, len(rows))
	for i, row := range rows {
		fields := row.Array()
		if !row.IsArray() || len(fields) < 6 {
			return nil, fmt.Errorf("%w: строка %d: ожидалось не меньше 6 полей", market.ErrMalformed, i)
		}
		if fields[0].Type != gjson.Number {
			return nil, fmt.Errorf("%w: строка %d: время открытия %q", market.ErrMalformed, i, fields[0].Raw)
		}

		var values [5]float64
		for j := range values {
			v, err := strconv.ParseFloat(fields[j+1].String(), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: строка %d поле %d: %v", market.ErrMalformed, i, j+1, err)
			}
			values[j] = v
		}

		candles = append(candles, market.Candle{
			OpenTime: fields[0].Int(),
			Open:     values[0],
			High:     values[1],
			Low:      values[2],
			Close:    values[3],
			Volume:   values[4],
		})
	}
	return candles, nil
}
