// internal/core/domain/market/types.go
package market

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// QuoteAsset котируемый актив всех анализируемых пар
const QuoteAsset = "USDT"

// DefaultTopPairsLimit размер вселенной для сканирования по умолчанию
const DefaultTopPairsLimit = 50

var (
	ErrNoData           = errors.New("нет рыночных данных")
	ErrTransport        = errors.New("ошибка транспорта биржи")
	ErrMalformed        = errors.New("некорректный ответ биржи")
	ErrInvalidTimeframe = errors.New("неподдерживаемый таймфрейм")
)

// Candle одна OHLCV свеча
type Candle struct {
	OpenTime int64 // миллисекунды
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
}

// Timeframe длительность свечи
type Timeframe string

const (
	Timeframe1h Timeframe = "1h"
	Timeframe4h Timeframe = "4h"
	Timeframe1d Timeframe = "1d"
)

// ParseTimeframe разбирает строку таймфрейма
func ParseTimeframe(s string) (Timeframe, error) {
	switch tf := Timeframe(strings.ToLower(strings.TrimSpace(s))); tf {
	case Timeframe1h, Timeframe4h, Timeframe1d:
		return tf, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeframe, s)
	}
}

// Duration возвращает длительность свечи
func (tf Timeframe) Duration() time.Duration {
	switch tf {
	case Timeframe1h:
		return time.Hour
	case Timeframe4h:
		return 4 * time.Hour
	case Timeframe1d:
		return 24 * time.Hour
	default:
		return 0
	}
}

func (tf Timeframe) String() string { return string(tf) }

// TradingPair торговая пара со статистикой за 24 часа
type TradingPair struct {
	Symbol    string
	Volume24h decimal.Decimal
	LastPrice decimal.Decimal
}

// Notional оборот пары в котируемой валюте
func (p TradingPair) Notional() decimal.Decimal {
	return p.Volume24h.Mul(p.LastPrice)
}

// Gateway источник рыночных данных
type Gateway interface {
	// ValidateSymbol сообщает, торгуется ли {ticker}USDT. Любая ошибка дает false.
	ValidateSymbol(ctx context.Context, ticker string) bool
	// GetCandles возвращает свечи от старых к новым
	GetCandles(ctx context.Context, symbol string, tf Timeframe, limit int) ([]Candle, error)
	// ListTopPairs возвращает USDT пары по убыванию оборота
	ListTopPairs(ctx context.Context, limit int) ([]TradingPair, error)
}

// PairRanker рейтинг пар без подстановки запасного списка.
// Ошибка означает, что рейтинг получить не удалось.
type PairRanker interface {
	FetchTopPairs(ctx context.Context, limit int) ([]TradingPair, error)
}

// PairSymbol собирает символ пары из тикера
func PairSymbol(ticker string) string {
	return ticker + QuoteAsset
}

// IsQuotePair проверяет, что пара котируется в USDT
func IsQuotePair(symbol string) bool {
	return len(symbol) > len(QuoteAsset) && strings.HasSuffix(symbol, QuoteAsset)
}

// BaseTicker отрезает котируемый актив от символа
func BaseTicker(symbol string) string {
	if IsQuotePair(symbol) {
		return strings.TrimSuffix(symbol, QuoteAsset)
	}
	return symbol
}

// RankPairs сортирует пары по убыванию оборота и обрезает до limit
func RankPairs(pairs []TradingPair, limit int) []TradingPair {
	ranked := make([]TradingPair, len(pairs))
	copy(ranked, pairs)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Notional().GreaterThan(ranked[j].Notional())
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// SortOldestFirst упорядочивает свечи по времени открытия
func SortOldestFirst(candles []Candle) {
	sort.SliceStable(candles, func(i, j int) bool {
		return candles[i].OpenTime < candles[j].OpenTime
	})
}
