// /internal/infrastructure/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// ============================================
// КОНФИГУРАЦИЯ БАЗЫ ДАННЫХ
// ============================================

// DatabaseConfig - конфигурация журнала запросов в PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string

	Enabled bool

	// Настройки пула соединений
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration

	EnableAutoMigrate bool
}

// RedisConfig конфигурация Redis
type RedisConfig struct {
	Host     string // localhost
	Port     int    // 6379
	Password string
	DB       int // 0

	Enabled bool

	// Настройки пула соединений
	PoolSize     int           // 10
	MinIdleConns int           // 2
	MaxRetries   int           // 3
	DialTimeout  time.Duration // 5s
	ReadTimeout  time.Duration // 3s
	WriteTimeout time.Duration // 3s

	KeyPrefix string // signalbot:
}

// ============================================
// КОНФИГУРАЦИЯ TELEGRAM
// ============================================

type TelegramConfig struct {
	Enabled       bool
	BotToken      string
	APIURL        string
	MaxConcurrent int // одновременно обрабатываемых запросов
	PollTimeout   int // секунды long polling
	TestMode      bool
	UserRateLimit int // запросов в минуту на чат, 0 - без ограничения (нужен Redis)
}

// ============================================
// КОНФИГУРАЦИЯ АНАЛИЗА
// ============================================

type AnalysisConfig struct {
	RequestTimeout time.Duration
	TopPairsLimit  int
	ScanMaxPairs   int
	ScanMaxSignals int
	MinRiskReward  float64
}

type MetricsConfig struct {
	Enabled bool
	Port    int
}

type SchedulerConfig struct {
	UniverseWarmupCron string // пусто - задача выключена
}

type Config struct {
	Environment string
	Version     string

	LogLevel string
	LogFile  string

	// Биржа
	Exchange            string // bybit | binance
	BybitApiUrl         string
	BybitCategory       string
	BinanceApiUrl       string
	HTTPTimeout         time.Duration
	ExchangeMaxAttempts int
	RateLimitDelay      time.Duration

	Telegram  TelegramConfig
	Analysis  AnalysisConfig
	Redis     RedisConfig
	Database  DatabaseConfig
	Metrics   MetricsConfig
	Scheduler SchedulerConfig
}

func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil {
		fmt.Printf("⚠️  Config file not found, using environment variables\n")
	}

	cfg := &Config{}

	// ======================
	// ОСНОВНЫЕ НАСТРОЙКИ
	// ======================
	cfg.Environment = getEnv("ENVIRONMENT", "production")
	cfg.Version = getEnv("VERSION", "1.0.0")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFile = getEnv("LOG_FILE", "logs/signal-bot.log")

	// ======================
	// БИРЖА
	// ======================
	cfg.Exchange = strings.ToLower(getEnv("EXCHANGE", "bybit"))
	cfg.BybitApiUrl = getEnv("BYBIT_API_URL", "https://api.bybit.com")
	cfg.BybitCategory = getEnv("BYBIT_CATEGORY", "spot")
	cfg.BinanceApiUrl = getEnv("BINANCE_API_URL", "https://api.binance.com")
	cfg.HTTPTimeout = getEnvDuration("HTTP_TIMEOUT", 10*time.Second)
	cfg.ExchangeMaxAttempts = getEnvInt("EXCHANGE_MAX_ATTEMPTS", 3)
	cfg.RateLimitDelay = getEnvDuration("RATE_LIMIT_DELAY", 50*time.Millisecond)

	// ======================
	// TELEGRAM
	// ======================
	cfg.Telegram.Enabled = getEnvBool("TELEGRAM_ENABLED", true)
	cfg.Telegram.BotToken = getEnv("TG_API_KEY", "")
	cfg.Telegram.APIURL = getEnv("TELEGRAM_API_URL", "https://api.telegram.org")
	cfg.Telegram.MaxConcurrent = getEnvInt("TELEGRAM_MAX_CONCURRENT", 8)
	cfg.Telegram.PollTimeout = getEnvInt("TELEGRAM_POLL_TIMEOUT", 30)
	cfg.Telegram.TestMode = getEnvBool("TELEGRAM_TEST_MODE", false)
	cfg.Telegram.UserRateLimit = getEnvInt("USER_RATE_LIMIT", 10)

	// ======================
	// АНАЛИЗ
	// ======================
	cfg.Analysis.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", 3*time.Minute)
	cfg.Analysis.TopPairsLimit = getEnvInt("TOP_PAIRS_LIMIT", 50)
	cfg.Analysis.ScanMaxPairs = getEnvInt("SCAN_MAX_PAIRS", 30)
	cfg.Analysis.ScanMaxSignals = getEnvInt("SCAN_MAX_SIGNALS", 3)
	cfg.Analysis.MinRiskReward = getEnvFloat("MIN_RISK_REWARD", 2.0)

	// ======================
	// REDIS
	// ======================
	cfg.Redis.Enabled = getEnvBool("REDIS_ENABLED", false)
	cfg.Redis.Host = getEnv("REDIS_HOST", "localhost")
	cfg.Redis.Port = getEnvInt("REDIS_PORT", 6379)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)
	cfg.Redis.PoolSize = getEnvInt("REDIS_POOL_SIZE", 10)
	cfg.Redis.MinIdleConns = getEnvInt("REDIS_MIN_IDLE_CONNS", 2)
	cfg.Redis.MaxRetries = getEnvInt("REDIS_MAX_RETRIES", 3)
	cfg.Redis.DialTimeout = getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.Redis.ReadTimeout = getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.Redis.WriteTimeout = getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.Redis.KeyPrefix = getEnv("REDIS_KEY_PREFIX", "signalbot:")

	// ======================
	// БАЗА ДАННЫХ
	// ======================
	cfg.Database.Enabled = getEnvBool("DB_ENABLED", false)
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "")
	cfg.Database.Password = getEnv("DB_PASSWORD", "")
	cfg.Database.Name = getEnv("DB_NAME", "")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	cfg.Database.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 5)
	cfg.Database.MaxConnLifetime = getEnvDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute)
	cfg.Database.MaxConnIdleTime = getEnvDuration("DB_MAX_CONN_IDLE_TIME", 10*time.Minute)
	cfg.Database.EnableAutoMigrate = getEnvBool("DB_ENABLE_AUTO_MIGRATE", true)

	// ======================
	// МЕТРИКИ И ПЛАНИРОВЩИК
	// ======================
	cfg.Metrics.Enabled = getEnvBool("METRICS_ENABLED", true)
	cfg.Metrics.Port = getEnvInt("METRICS_PORT", 9090)
	cfg.Scheduler.UniverseWarmupCron = getEnv("UNIVERSE_WARMUP_CRON", "0 */10 * * * *")

	return cfg, nil
}

func (c *Config) validate() error {
	var validationErrors []string

	if c.Exchange != "bybit" && c.Exchange != "binance" {
		validationErrors = append(validationErrors, "EXCHANGE должен быть 'bybit' или 'binance'")
	}
	if c.HTTPTimeout <= 0 {
		validationErrors = append(validationErrors, "HTTP_TIMEOUT must be positive")
	}
	if c.ExchangeMaxAttempts < 1 {
		validationErrors = append(validationErrors, "EXCHANGE_MAX_ATTEMPTS must be at least 1")
	}

	// Проверка Telegram если включен
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			validationErrors = append(validationErrors, "TG_API_KEY is required when Telegram is enabled")
		}
		if c.Telegram.MaxConcurrent < 1 {
			validationErrors = append(validationErrors, "TELEGRAM_MAX_CONCURRENT must be positive")
		}
		if c.Telegram.UserRateLimit < 0 {
			validationErrors = append(validationErrors, "USER_RATE_LIMIT must not be negative")
		}
	}

	if c.Analysis.RequestTimeout <= 0 {
		validationErrors = append(validationErrors, "REQUEST_TIMEOUT must be positive")
	}
	if c.Analysis.TopPairsLimit < 1 {
		validationErrors = append(validationErrors, "TOP_PAIRS_LIMIT must be positive")
	}
	if c.Analysis.ScanMaxPairs < 1 {
		validationErrors = append(validationErrors, "SCAN_MAX_PAIRS must be positive")
	}
	if c.Analysis.ScanMaxSignals < 1 {
		validationErrors = append(validationErrors, "SCAN_MAX_SIGNALS must be positive")
	}
	if c.Analysis.MinRiskReward <= 0 {
		validationErrors = append(validationErrors, "MIN_RISK_REWARD must be positive")
	}

	// Проверка настроек базы данных
	if c.Database.Enabled {
		if c.Database.Host == "" {
			validationErrors = append(validationErrors, "DB_HOST is required")
		}
		if c.Database.Port <= 0 {
			validationErrors = append(validationErrors, "DB_PORT must be positive")
		}
		if c.Database.User == "" {
			validationErrors = append(validationErrors, "DB_USER is required")
		}
		if c.Database.Name == "" {
			validationErrors = append(validationErrors, "DB_NAME is required")
		}
	}

	if c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		validationErrors = append(validationErrors, "METRICS_PORT должен быть в диапазоне 1-65535")
	}

	if spec := c.Scheduler.UniverseWarmupCron; spec != "" {
		parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		if _, err := parser.Parse(spec); err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("UNIVERSE_WARMUP_CRON некорректен: %v", err))
		}
	}

	if len(validationErrors) > 0 {
		errMsg := strings.Join(validationErrors, "; ")
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

// ============================================
// ВСПОМОГАТЕЛЬНЫЕ МЕТОДЫ
// ============================================

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	return c.validate()
}

// GetRedisAddress возвращает адрес Redis
func (c *Config) GetRedisAddress() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// ExchangeAPIURL базовый URL выбранной биржи
func (c *Config) ExchangeAPIURL() string {
	if c.Exchange == "binance" {
		return c.BinanceApiUrl
	}
	return c.BybitApiUrl
}

// IsDev возвращает true если текущее окружение dev
func (c *Config) IsDev() bool {
	return c.Environment == "dev"
}

// SummaryKeys порядок ключей для Summary
var SummaryKeys = []string{
	"Окружение", "Биржа", "Логирование", "Telegram", "Топ пар",
	"Сканирование", "Мин. R/R", "Redis", "PostgreSQL", "Метрики", "Прогрев",
}

// Summary сводка конфигурации для logger.Status
func (c *Config) Summary() map[string]string {
	enabled := func(on bool, detail string) string {
		if !on {
			return "выключен"
		}
		return detail
	}

	return map[string]string{
		"Окружение":    c.Environment,
		"Биржа":        fmt.Sprintf("%s (%s)", strings.ToUpper(c.Exchange), c.ExchangeAPIURL()),
		"Логирование":  c.LogLevel,
		"Telegram":     enabled(c.Telegram.Enabled, fmt.Sprintf("до %d запросов", c.Telegram.MaxConcurrent)),
		"Топ пар":      strconv.Itoa(c.Analysis.TopPairsLimit),
		"Сканирование": fmt.Sprintf("%d пар / %d сигнала", c.Analysis.ScanMaxPairs, c.Analysis.ScanMaxSignals),
		"Мин. R/R":     fmt.Sprintf("%.1f", c.Analysis.MinRiskReward),
		"Redis":        enabled(c.Redis.Enabled, c.GetRedisAddress()),
		"PostgreSQL":   enabled(c.Database.Enabled, fmt.Sprintf("%s:%d/%s", c.Database.Host, c.Database.Port, c.Database.Name)),
		"Метрики":      enabled(c.Metrics.Enabled, fmt.Sprintf(":%d", c.Metrics.Port)),
		"Прогрев":      enabled(c.Scheduler.UniverseWarmupCron != "", c.Scheduler.UniverseWarmupCron),
	}
}

// ============================================
// ВСПОМОГАТЕЛЬНЫЕ ФУНКЦИИ
// ============================================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
