// internal/infrastructure/api/exchanges/bybit/types.go
package bybit

import "crypto-signal-bot/internal/core/domain/market"

const (
	ExchangeName = "bybit"

	CategorySpot   = "spot"
	CategoryLinear = "linear" // USDT-M фьючерсы

	// Ошибки API
	ErrCodeInvalidParams  = 10001
	ErrCodeRateLimit      = 10006
	ErrCodeSymbolNotFound = 30001

	endpointInstruments = "/v5/market/instruments-info"
	endpointKline       = "/v5/market/kline"
	endpointTickers     = "/v5/market/tickers"
)

// intervals коды интервалов Bybit
var intervals = map[market.Timeframe]string{
	market.Timeframe1h: "60",
	market.Timeframe4h: "240",
	market.Timeframe1d: "D",
}

// APIResponse - общий конверт ответа API Bybit
type APIResponse struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Time    int64  `json:"time"`
}

// KlineResponse - ответ для свечных данных.
// list: [startTime, open, high, low, close, volume, turnover], от новых к старым
type KlineResponse struct {
	APIResponse
	Result struct {
		Category string     `json:"category"`
		Symbol   string     `json:"symbol"`
		List     [][]string `json:"list"`
	} `json:"result"`
}

// InstrumentInfo - информация об инструменте
type InstrumentInfo struct {
	Symbol     string `json:"symbol"`
	BaseCoin   string `json:"baseCoin"`
	QuoteCoin  string `json:"quoteCoin"`
	Status     string `json:"status"`
	Innovation string `json:"innovation,omitempty"`
}

// InstrumentsResponse - ответ instruments-info
type InstrumentsResponse struct {
	APIResponse
	Result struct {
		Category string           `json:"category"`
		List     []InstrumentInfo `json:"list"`
	} `json:"result"`
}

// Ticker - тикер за 24 часа
type Ticker struct {
	Symbol       string `json:"symbol"`
	LastPrice    string `json:"lastPrice"`
	Volume24h    string `json:"volume24h"`
	Turnover24h  string `json:"turnover24h,omitempty"`
	Price24hPcnt string `json:"price24hPcnt,omitempty"`
}

// TickerResponse - ответ от API с тикерами
type TickerResponse struct {
	APIResponse
	Result struct {
		Category string   `json:"category"`
		List     []Ticker `json:"list"`
	} `json:"result"`
}
