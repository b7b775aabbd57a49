// application/cmd/bot/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"crypto-signal-bot/application/bootstrap"
	"crypto-signal-bot/internal/infrastructure/config"
	"crypto-signal-bot/pkg/logger"
)

var (
	version   = "1.0.0"
	buildTime = "неизвестно"
)

func main() {
	var (
		env         string
		cfgPath     string
		logLevel    string
		testMode    bool
		showVersion bool
	)

	flag.StringVar(&env, "env", "", "Окружение (dev/prod), переопределяет ENVIRONMENT")
	flag.StringVar(&cfgPath, "config", "", "Путь к файлу конфигурации (переопределяет env)")
	flag.StringVar(&logLevel, "log-level", "", "Уровень логирования: debug, info, warn, error (переопределяет .env)")
	flag.BoolVar(&testMode, "test", false, "Тестовый режим: ответы Telegram только в лог")
	flag.BoolVar(&showVersion, "version", false, "Показать версию")
	flag.Parse()

	if showVersion {
		fmt.Printf("📈 Crypto Signal Bot v%s (сборка: %s)\n", version, buildTime)
		return
	}

	configFile := resolveConfigFile(env, cfgPath)

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		fmt.Printf("❌ Не удалось загрузить конфигурацию: %v\n", err)
		os.Exit(1)
	}
	if env != "" {
		cfg.Environment = env
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	if err := initLogger(cfg); err != nil {
		fmt.Printf("❌ Не удалось инициализировать логгер: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Info("🚀 Запуск Crypto Signal Bot v%s", version)
	logger.Info("📁 Конфигурация: %s", configFile)
	logger.Status(config.SummaryKeys, cfg.Summary())
	if testMode {
		logger.Info("🧪 ЗАПУСК В ТЕСТОВОМ РЕЖИМЕ: сообщения Telegram не отправляются")
	}

	app, err := bootstrap.NewAppBuilder().
		WithConfig(cfg).
		WithTestMode(testMode).
		Build()
	if err != nil {
		logger.Error("❌ Не удалось собрать приложение: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := app.Initialize(ctx); err != nil {
		logger.Error("❌ Не удалось инициализировать приложение: %v", err)
		os.Exit(1)
	}

	logger.Info("🛑 Нажмите Ctrl+C для остановки")
	if err := app.Run(ctx); err != nil {
		logger.Error("❌ Ошибка работы приложения: %v", err)
		os.Exit(1)
	}
}

// resolveConfigFile явный путь, затем configs/<env>/.env, затем .env
func resolveConfigFile(env, explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidates := []string{".env"}
	if env != "" {
		candidates = append([]string{filepath.Join("configs", env, ".env")}, candidates...)
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	// без файла настройки берутся из переменных окружения
	return candidates[0]
}

func initLogger(cfg *config.Config) error {
	logPath := cfg.LogFile
	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			fmt.Printf("⚠️ Не удалось создать директорию логов: %v, пишем только в консоль\n", err)
			logPath = ""
		}
	}
	if err := logger.InitGlobal(logPath, cfg.LogLevel, cfg.IsDev()); err != nil {
		return logger.InitGlobal("", cfg.LogLevel, cfg.IsDev())
	}
	return nil
}
