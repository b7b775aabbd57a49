// internal/delivery/telegram/app/bot/bot.go
package bot

import (
	"context"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"

	"crypto-signal-bot/internal/delivery/telegram"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/constants"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/handlers"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/handlers/router"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/message_sender"
	"crypto-signal-bot/internal/infrastructure/persistence/postgres/models"
	"crypto-signal-bot/pkg/logger"
)

const (
	replyTimeout    = 15 * time.Second
	rateLimitWindow = time.Minute
)

// CommandSetter установка меню команд
type CommandSetter interface {
	SetMyCommands(ctx context.Context, commands []telegram.BotCommand) error
}

// ChatLimiter счетчик запросов чата (Redis)
type ChatLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error)
}

// Journal журнал обработанных запросов
type Journal interface {
	Save(ctx context.Context, record *models.RequestRecord) error
}

// Observer метрики обработки обновлений
type Observer interface {
	ObserveUpdate(kind string)
	RequestStarted()
	RequestFinished()
	ObserveRateLimited()
}

type nopObserver struct{}

func (nopObserver) ObserveUpdate(string) {}
func (nopObserver) RequestStarted()      {}
func (nopObserver) RequestFinished()     {}
func (nopObserver) ObserveRateLimited()  {}

// Options настройки обработки
type Options struct {
	MaxConcurrent  int           // одновременно обрабатываемых обновлений
	RequestTimeout time.Duration // на один запрос пользователя
	UserRateLimit  int           // запросов в минуту на чат, 0 - без ограничения
}

// Dependencies зависимости для TelegramBot. Limiter, Journal и Observer необязательны.
type Dependencies struct {
	Router   router.Router
	Sender   message_sender.MessageSender
	Commands CommandSetter
	Limiter  ChatLimiter
	Journal  Journal
	Observer Observer
}

// TelegramBot обработчик входящих сообщений
type TelegramBot struct {
	opts     Options
	router   router.Router
	sender   message_sender.MessageSender
	commands CommandSetter
	limiter  ChatLimiter
	journal  Journal
	observer Observer

	sem chan struct{}
	wg  sync.WaitGroup
}

// NewTelegramBot создает новый экземпляр TelegramBot
func NewTelegramBot(opts Options, deps Dependencies) *TelegramBot {
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 1
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 3 * time.Minute
	}
	observer := deps.Observer
	if observer == nil {
		observer = nopObserver{}
	}

	return &TelegramBot{
		opts:     opts,
		router:   deps.Router,
		sender:   deps.Sender,
		commands: deps.Commands,
		limiter:  deps.Limiter,
		journal:  deps.Journal,
		observer: observer,
		sem:      make(chan struct{}, opts.MaxConcurrent),
	}
}

// SetMyCommands устанавливает меню команд в Telegram
func (b *TelegramBot) SetMyCommands(ctx context.Context) error {
	if b.commands == nil || b.sender.IsTestMode() {
		return nil
	}
	commands := constants.BotCommands()
	if err := b.commands.SetMyCommands(ctx, commands); err != nil {
		return fmt.Errorf("ошибка настройки меню команд: %w", err)
	}
	logger.Info("Меню команд отправлено в Telegram API (%d)", len(commands))
	return nil
}

// Dispatch обрабатывает обновление в отдельной горутине. Блокируется,
// пока заняты все MaxConcurrent слотов.
func (b *TelegramBot) Dispatch(ctx context.Context, update telegram.Update) error {
	select {
	case b.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	b.wg.Add(1)
	go func() {
		defer func() {
			<-b.sem
			b.wg.Done()
		}()
		b.HandleUpdate(ctx, update)
	}()
	return nil
}

// Wait ждет завершения запущенных обработчиков
func (b *TelegramBot) Wait() {
	b.wg.Wait()
}

// HandleUpdate обрабатывает одно обновление синхронно
func (b *TelegramBot) HandleUpdate(ctx context.Context, update telegram.Update) {
	msg := update.Message
	if msg == nil || strings.TrimSpace(msg.Text) == "" {
		b.observer.ObserveUpdate("ignored")
		return
	}

	params := handlers.HandlerParams{
		ChatID:   msg.Chat.ID,
		Text:     msg.Text,
		UpdateID: update.UpdateID,
		Sender:   b.sender,
	}
	if msg.From != nil {
		params.UserID = msg.From.ID
		params.Username = msg.From.Username
	}

	b.observer.RequestStarted()
	defer b.observer.RequestFinished()

	ctx, cancel := context.WithTimeout(ctx, b.opts.RequestTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("💥 Паника при обработке обновления %d: %v\n%s", update.UpdateID, r, debug.Stack())
			b.observer.ObserveUpdate("panic")
			b.reply(ctx, params.ChatID, handlers.HandlerResult{Message: constants.Messages.InternalError, Plain: true})
		}
	}()

	if !b.allow(ctx, params.ChatID) {
		b.observer.ObserveRateLimited()
		b.observer.ObserveUpdate("rate_limited")
		b.reply(ctx, params.ChatID, handlers.HandlerResult{Message: constants.Messages.RateLimited, Plain: true})
		return
	}

	start := time.Now()
	result, err := b.router.Handle(ctx, params)
	if err != nil {
		logger.Error("❌ Ошибка обработки обновления %d: %v", update.UpdateID, err)
		result = handlers.HandlerResult{
			Message: constants.Messages.InternalError,
			Plain:   true,
			Kind:    "unknown",
			Outcome: "error",
		}
	}
	duration := time.Since(start)

	b.observer.ObserveUpdate(result.Kind)
	b.reply(ctx, params.ChatID, result)
	b.record(ctx, params, result, duration)
}

// allow проверка лимита запросов чата. Ошибка Redis не блокирует пользователя.
func (b *TelegramBot) allow(ctx context.Context, chatID int64) bool {
	if b.limiter == nil || b.opts.UserRateLimit <= 0 {
		return true
	}
	allowed, count, err := b.limiter.CheckRateLimit(ctx, "chat:"+strconv.FormatInt(chatID, 10), b.opts.UserRateLimit, rateLimitWindow)
	if err != nil {
		logger.Warn("⚠️ Не удалось проверить лимит для чата %d: %v", chatID, err)
		return true
	}
	if !allowed {
		logger.Info("⏳ Чат %d превысил лимит: %d/%d за минуту", chatID, count, b.opts.UserRateLimit)
	}
	return allowed
}

// reply отправляет результат. Работает и после истечения таймаута запроса.
func (b *TelegramBot) reply(ctx context.Context, chatID int64, result handlers.HandlerResult) {
	if result.Message == "" {
		return
	}
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), replyTimeout)
	defer cancel()

	var err error
	if result.Plain {
		_, err = b.sender.SendPlainMessage(sendCtx, chatID, result.Message)
	} else {
		_, err = b.sender.SendTextMessage(sendCtx, chatID, result.Message, result.Keyboard)
	}
	if err != nil {
		logger.Error("❌ Не удалось отправить ответ в чат %d: %v", chatID, err)
	}
}

// record сохраняет запрос в журнал
func (b *TelegramBot) record(ctx context.Context, params handlers.HandlerParams, result handlers.HandlerResult, duration time.Duration) {
	if b.journal == nil || result.Kind == "" {
		return
	}
	rec := models.NewRequestRecord(params.ChatID, params.UserID, params.Username,
		result.Kind, result.Subject, result.Outcome, duration)

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), replyTimeout)
	defer cancel()
	if err := b.journal.Save(saveCtx, rec); err != nil {
		logger.Warn("⚠️ Не удалось сохранить запрос %s в журнал: %v", rec.ID, err)
	}
}
