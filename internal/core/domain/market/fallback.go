// internal/core/domain/market/fallback.go
package market

import "github.com/shopspring/decimal"

// fallbackUniverse известные ликвидные пары на случай недоступности биржи.
// Объемы и цены ориентировочные, важен только порядок.
var fallbackUniverse = []struct {
	symbol string
	volume string
	price  string
}{
	{"BTCUSDT", "25000", "60000"},
	{"ETHUSDT", "400000", "3000"},
	{"SOLUSDT", "4000000", "150"},
	{"XRPUSDT", "700000000", "0.6"},
	{"BNBUSDT", "600000", "580"},
	{"DOGEUSDT", "2500000000", "0.12"},
	{"ADAUSDT", "450000000", "0.45"},
	{"TRXUSDT", "900000000", "0.13"},
	{"LINKUSDT", "9000000", "14"},
	{"AVAXUSDT", "3500000", "28"},
	{"TONUSDT", "12000000", "6"},
	{"SUIUSDT", "60000000", "1.1"},
	{"LTCUSDT", "800000", "75"},
	{"DOTUSDT", "8000000", "6"},
	{"NEARUSDT", "9000000", "5"},
	{"APTUSDT", "5000000", "8"},
	{"ARBUSDT", "50000000", "0.8"},
	{"OPUSDT", "20000000", "1.8"},
	{"ATOMUSDT", "4000000", "7"},
	{"FILUSDT", "5000000", "4.5"},
}

// FallbackPairs возвращает запасной список пар, ранжированный и обрезанный до limit
func FallbackPairs(limit int) []TradingPair {
	pairs := make([]TradingPair, 0, len(fallbackUniverse))
	for _, p := range fallbackUniverse {
		pairs = append(pairs, TradingPair{
			Symbol:    p.symbol,
			Volume24h: decimal.RequireFromString(p.volume),
			LastPrice: decimal.RequireFromString(p.price),
		})
	}
	return RankPairs(pairs, limit)
}
