// application/bootstrap/builder.go
package bootstrap

import (
	"fmt"

	"crypto-signal-bot/internal/core/domain/market"
	"crypto-signal-bot/internal/infrastructure/api/exchanges/binance"
	"crypto-signal-bot/internal/infrastructure/api/exchanges/bybit"
	"crypto-signal-bot/internal/infrastructure/config"
	"crypto-signal-bot/internal/infrastructure/metrics"
)

// AppBuilder строит приложение
type AppBuilder struct {
	config   *config.Config
	testMode bool
	gateway  market.Gateway
}

// NewAppBuilder создает построитель
func NewAppBuilder() *AppBuilder {
	return &AppBuilder{}
}

// WithConfig задает конфигурацию
func (b *AppBuilder) WithConfig(cfg *config.Config) *AppBuilder {
	b.config = cfg
	return b
}

// WithTestMode включает тестовый режим Telegram (сообщения только в лог)
func (b *AppBuilder) WithTestMode(testMode bool) *AppBuilder {
	b.testMode = testMode
	return b
}

// WithGateway подменяет источник рыночных данных
func (b *AppBuilder) WithGateway(gateway market.Gateway) *AppBuilder {
	b.gateway = gateway
	return b
}

// Build проверяет конфигурацию и создает приложение. Подключения
// к Redis и PostgreSQL открываются в Initialize.
func (b *AppBuilder) Build() (*Application, error) {
	if b.config == nil {
		return nil, fmt.Errorf("конфигурация не задана")
	}
	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	if b.testMode {
		b.config.Telegram.TestMode = true
	}

	m := metrics.New()

	gateway := b.gateway
	exchange := ExchangeTitle(b.config.Exchange)
	if gateway == nil {
		var err error
		gateway, err = newExchangeGateway(b.config, m)
		if err != nil {
			return nil, err
		}
	}

	return &Application{
		config:   b.config,
		metrics:  m,
		exchange: exchange,
		source:   gateway,
		health:   metrics.NewHealth(),
	}, nil
}

// newExchangeGateway клиент выбранной биржи
func newExchangeGateway(cfg *config.Config, m *metrics.Metrics) (market.Gateway, error) {
	switch cfg.Exchange {
	case bybit.ExchangeName:
		return bybit.NewBybitClient(cfg, m), nil
	case binance.ExchangeName:
		return binance.NewBinanceClient(cfg, m), nil
	default:
		return nil, fmt.Errorf("неизвестная биржа: %s", cfg.Exchange)
	}
}

// ExchangeTitle название биржи для пользователя
func ExchangeTitle(exchange string) string {
	switch exchange {
	case binance.ExchangeName:
		return "Binance"
	default:
		return "Bybit"
	}
}
