// application/bootstrap/app.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"crypto-signal-bot/application/pipeline"
	"crypto-signal-bot/application/scheduler"
	"crypto-signal-bot/internal/core/domain/market"
	"crypto-signal-bot/internal/delivery/telegram/app/bot"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/handlers/router"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/message_sender"
	telegram_http "crypto-signal-bot/internal/delivery/telegram/app/http_client"
	"crypto-signal-bot/internal/infrastructure/cache/redis"
	"crypto-signal-bot/internal/infrastructure/config"
	"crypto-signal-bot/internal/infrastructure/metrics"
	"crypto-signal-bot/internal/infrastructure/persistence/postgres/database"
	"crypto-signal-bot/internal/infrastructure/persistence/postgres/repository/requests"
	"crypto-signal-bot/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

// Application основное приложение
type Application struct {
	config   *config.Config
	metrics  *metrics.Metrics
	health   *metrics.Health
	exchange string
	source   market.Gateway

	redis         *redis.RedisService
	db            *database.DatabaseService
	metricsServer *metrics.Server
	scheduler     *scheduler.Scheduler

	gateway  market.Gateway
	analyzer *pipeline.Analyzer
	scanner  *pipeline.Scanner
	router   router.Router
	bot      *bot.TelegramBot
	poller   *bot.Poller

	mu        sync.Mutex
	running   bool
	startTime time.Time
}

// Initialize подключает Redis и PostgreSQL и собирает компоненты.
// Недоступные Redis и PostgreSQL отключаются с предупреждением.
func (app *Application) Initialize(ctx context.Context) error {
	cfg := app.config
	app.gateway = app.source

	if cfg.Redis.Enabled {
		rs := redis.NewRedisService(cfg.Redis)
		if err := rs.Start(ctx); err != nil {
			logger.Warn("⚠️ Redis недоступен, работаем без кэша: %v", err)
		} else {
			app.redis = rs
			app.gateway = redis.NewCachedGateway(app.source, rs.GetCache(), app.metrics)
			app.health.AddCheck("redis", boolCheck("redis", rs.HealthCheck))
		}
	}

	if cfg.Database.Enabled {
		ds := database.NewDatabaseService(cfg.Database)
		if err := ds.Start(ctx); err != nil {
			logger.Warn("⚠️ PostgreSQL недоступен, журнал запросов выключен: %v", err)
		} else {
			app.db = ds
			app.health.AddCheck("postgres", boolCheck("postgres", ds.HealthCheck))
		}
	}

	app.analyzer = pipeline.NewAnalyzer(app.gateway, app.exchange, app.metrics)
	app.scanner = pipeline.NewScanner(app.gateway, pipeline.ScannerConfig{
		TopPairs:      cfg.Analysis.TopPairsLimit,
		MaxPairs:      cfg.Analysis.ScanMaxPairs,
		MaxSignals:    cfg.Analysis.ScanMaxSignals,
		MinRiskReward: cfg.Analysis.MinRiskReward,
	}, app.metrics)

	if cfg.Telegram.Enabled {
		app.initTelegram()
	}

	if err := app.initScheduler(); err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		app.metricsServer = metrics.NewServer(cfg.Metrics.Port, app.metrics, app.health)
	}

	logger.Info("✅ Приложение инициализировано (биржа %s)", app.exchange)
	return nil
}

func (app *Application) initTelegram() {
	cfg := app.config.Telegram

	client := telegram_http.NewTelegramClient(cfg.APIURL, cfg.BotToken, 0)
	sender := message_sender.NewMessageSender(client, cfg.TestMode)
	app.router = bot.NewHandlerRouter(bot.Services{
		Analyzer: app.analyzer,
		Scanner:  app.scanner,
	})

	deps := bot.Dependencies{
		Router:   app.router,
		Sender:   sender,
		Commands: client,
		Observer: app.metrics,
	}
	if app.redis != nil {
		deps.Limiter = app.redis.GetCache()
	}
	if app.db != nil {
		deps.Journal = requests.NewRequestRepository(app.db.GetDB())
	}

	app.bot = bot.NewTelegramBot(bot.Options{
		MaxConcurrent:  cfg.MaxConcurrent,
		RequestTimeout: app.config.Analysis.RequestTimeout,
		UserRateLimit:  cfg.UserRateLimit,
	}, deps)
	app.poller = bot.NewPoller(app.bot, telegram_http.NewPollingClient(cfg.APIURL, cfg.BotToken, cfg.PollTimeout))
}

// initScheduler прогрев рейтинга нужен только с кэшем
func (app *Application) initScheduler() error {
	spec := app.config.Scheduler.UniverseWarmupCron
	refresher, ok := app.gateway.(scheduler.TopPairsRefresher)
	if spec == "" || !ok {
		return nil
	}

	app.scheduler = scheduler.New()
	job := scheduler.NewUniverseWarmupJob(spec, refresher, app.config.Analysis.TopPairsLimit)
	if err := app.scheduler.Register(job); err != nil {
		return fmt.Errorf("планировщик: %w", err)
	}
	return nil
}

// Run запускает фоновые сервисы и polling до отмены ctx
func (app *Application) Run(ctx context.Context) error {
	app.mu.Lock()
	if app.running {
		app.mu.Unlock()
		return errors.New("приложение уже запущено")
	}
	app.running = true
	app.startTime = time.Now()
	app.mu.Unlock()

	defer app.shutdown()

	if app.metricsServer != nil {
		app.metricsServer.Start()
	}
	if app.scheduler != nil {
		app.scheduler.Start()
	}

	logger.Info("✅ Приложение запущено и работает")

	if app.poller == nil {
		logger.Warn("⚠️ Telegram выключен, ожидание сигнала остановки")
		<-ctx.Done()
		return nil
	}
	return app.poller.Run(ctx)
}

// shutdown останавливает сервисы в обратном порядке
func (app *Application) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("🛑 Останавливаем приложение...")

	if app.scheduler != nil {
		app.scheduler.Stop(ctx)
	}
	if app.metricsServer != nil {
		if err := app.metricsServer.Stop(ctx); err != nil {
			logger.Warn("⚠️ Ошибка остановки сервера метрик: %v", err)
		}
	}
	if app.db != nil {
		if err := app.db.Stop(); err != nil {
			logger.Warn("⚠️ Ошибка остановки PostgreSQL: %v", err)
		}
	}
	if app.redis != nil {
		if err := app.redis.Stop(); err != nil {
			logger.Warn("⚠️ Ошибка остановки Redis: %v", err)
		}
	}

	app.mu.Lock()
	app.running = false
	uptime := time.Since(app.startTime)
	app.mu.Unlock()

	logger.Info("✅ Приложение остановлено. Время работы: %v", uptime.Round(time.Second))
}

// IsRunning проверяет работает ли приложение
func (app *Application) IsRunning() bool {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.running
}

// Analyzer анализатор тикеров
func (app *Application) Analyzer() *pipeline.Analyzer {
	return app.analyzer
}

// Scanner сканер лучших пар
func (app *Application) Scanner() *pipeline.Scanner {
	return app.scanner
}

// Router маршрутизатор хэндлеров, nil без Telegram
func (app *Application) Router() router.Router {
	return app.router
}

func boolCheck(name string, check func(ctx context.Context) bool) metrics.HealthCheck {
	return func(ctx context.Context) error {
		if !check(ctx) {
			return fmt.Errorf("%s недоступен", name)
		}
		return nil
	}
}
