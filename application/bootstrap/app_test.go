// application/bootstrap/app_test.go
package bootstrap

import (
	"context"
	"testing"
	"time"

	"crypto-signal-bot/internal/core/domain/market"
	"crypto-signal-bot/internal/infrastructure/config"
)

type stubGateway struct{}

func (stubGateway) ValidateSymbol(context.Context, string) bool { return false }
func (stubGateway) GetCandles(context.Context, string, market.Timeframe, int) ([]market.Candle, error) {
	return nil, nil
}
func (stubGateway) ListTopPairs(context.Context, int) ([]market.TradingPair, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:         "test",
		Exchange:            "bybit",
		HTTPTimeout:         time.Second,
		ExchangeMaxAttempts: 1,
		Telegram: config.TelegramConfig{
			Enabled:       true,
			BotToken:      "TOKEN",
			APIURL:        "http://127.0.0.1:1",
			MaxConcurrent: 2,
			PollTimeout:   1,
		},
		Analysis: config.AnalysisConfig{
			RequestTimeout: time.Minute,
			TopPairsLimit:  50,
			ScanMaxPairs:   30,
			ScanMaxSignals: 3,
			MinRiskReward:  2,
		},
		Scheduler: config.SchedulerConfig{UniverseWarmupCron: "0 */10 * * * *"},
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Exchange = "kraken"
	if _, err := NewAppBuilder().WithConfig(cfg).Build(); err == nil {
		t.Error("ожидалась ошибка конфигурации")
	}
	if _, err := NewAppBuilder().Build(); err == nil {
		t.Error("ожидалась ошибка без конфигурации")
	}
}

func TestInitializeWiresComponents(t *testing.T) {
	app, err := NewAppBuilder().
		WithConfig(testConfig()).
		WithTestMode(true).
		WithGateway(stubGateway{}).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := app.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if app.Analyzer() == nil || app.Scanner() == nil {
		t.Fatal("пайплайн не собран")
	}
	if got := app.Scanner().Config(); got.MaxPairs != 30 || got.MaxSignals != 3 {
		t.Errorf("scanner config = %+v", got)
	}
	if app.Router() == nil {
		t.Fatal("роутер не собран")
	}
	h, ok := app.Router().Resolve("📈 Лучшее в лонг")
	if !ok || h.GetName() != "scan_long_handler" {
		t.Errorf("кнопка лонга: %v", h)
	}
	// без Redis прогревать нечего
	if app.scheduler != nil {
		t.Error("планировщик создан без кэша")
	}
	if !app.config.Telegram.TestMode {
		t.Error("тестовый режим не передан в конфигурацию")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Telegram.Enabled = false
	app, err := NewAppBuilder().WithConfig(cfg).WithGateway(stubGateway{}).Build()
	if err != nil {
		t.Fatal(err)
	}
	if err := app.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for !app.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run не завершился после отмены")
	}
	if app.IsRunning() {
		t.Error("приложение все еще запущено")
	}
}

func TestExchangeTitle(t *testing.T) {
	if ExchangeTitle("binance") != "Binance" || ExchangeTitle("bybit") != "Bybit" {
		t.Error("неверные названия бирж")
	}
}
