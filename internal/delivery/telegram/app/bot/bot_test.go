// internal/delivery/telegram/app/bot/bot_test.go
package bot

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"crypto-signal-bot/internal/delivery/telegram"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/constants"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/handlers"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/handlers/router"
	"crypto-signal-bot/internal/infrastructure/persistence/postgres/models"
)

type sentMessage struct {
	chatID   int64
	text     string
	keyboard interface{}
	plain    bool
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (s *fakeSender) SendTextMessage(_ context.Context, chatID int64, text string, keyboard interface{}) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMessage{chatID: chatID, text: text, keyboard: keyboard})
	return int64(len(s.sent)), nil
}

func (s *fakeSender) SendPlainMessage(_ context.Context, chatID int64, text string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMessage{chatID: chatID, text: text, plain: true})
	return int64(len(s.sent)), nil
}

func (s *fakeSender) EditMessageText(context.Context, int64, int64, string) error { return nil }
func (s *fakeSender) DeleteMessage(context.Context, int64, int64) error           { return nil }
func (s *fakeSender) IsTestMode() bool                                           { return false }

func (s *fakeSender) messages() []sentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentMessage(nil), s.sent...)
}

type funcHandler struct {
	typ     handlers.HandlerType
	command string
	fn      func(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error)
}

func (h *funcHandler) Execute(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	return h.fn(ctx, params)
}
func (h *funcHandler) GetName() string               { return "func_" + string(h.typ) }
func (h *funcHandler) GetCommand() string            { return h.command }
func (h *funcHandler) GetType() handlers.HandlerType { return h.typ }

func echoRouter(fn func(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error)) router.Router {
	r := router.NewRouter()
	r.RegisterHandler(&funcHandler{typ: handlers.TypeMessage, fn: fn})
	return r
}

type fakeJournal struct {
	mu      sync.Mutex
	records []*models.RequestRecord
}

func (j *fakeJournal) Save(_ context.Context, rec *models.RequestRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, rec)
	return nil
}

type fakeLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (l *fakeLimiter) CheckRateLimit(_ context.Context, key string, limit int, _ time.Duration) (bool, int, error) {
	l.keys = append(l.keys, key)
	return l.allowed, limit + 1, l.err
}

type countingObserver struct {
	mu          sync.Mutex
	kinds       []string
	started     int
	finished    int
	rateLimited int
}

func (o *countingObserver) ObserveUpdate(kind string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.kinds = append(o.kinds, kind)
}
func (o *countingObserver) RequestStarted()     { o.mu.Lock(); o.started++; o.mu.Unlock() }
func (o *countingObserver) RequestFinished()    { o.mu.Lock(); o.finished++; o.mu.Unlock() }
func (o *countingObserver) ObserveRateLimited() { o.mu.Lock(); o.rateLimited++; o.mu.Unlock() }

func textUpdate(id int, chatID int64, text string) telegram.Update {
	return telegram.Update{
		UpdateID: id,
		Message: &telegram.Message{
			MessageID: int64(id),
			From:      &telegram.User{ID: chatID, Username: "trader"},
			Chat:      telegram.Chat{ID: chatID},
			Text:      text,
		},
	}
}

func TestHandleUpdateRepliesAndRecords(t *testing.T) {
	sender := &fakeSender{}
	journal := &fakeJournal{}
	observer := &countingObserver{}
	r := echoRouter(func(_ context.Context, p handlers.HandlerParams) (handlers.HandlerResult, error) {
		if p.Sender == nil || p.UserID != 5 || p.Username != "trader" {
			t.Errorf("params = %+v", p)
		}
		return handlers.HandlerResult{
			Message:  "*report*",
			Keyboard: constants.MainKeyboard(),
			Kind:     constants.KindTicker,
			Subject:  "BTC",
			Outcome:  "ok",
		}, nil
	})
	b := NewTelegramBot(Options{MaxConcurrent: 2}, Dependencies{
		Router: r, Sender: sender, Journal: journal, Observer: observer,
	})

	b.HandleUpdate(context.Background(), textUpdate(1, 5, "BTC"))

	msgs := sender.messages()
	if len(msgs) != 1 || msgs[0].text != "*report*" || msgs[0].plain || msgs[0].keyboard == nil {
		t.Fatalf("sent = %+v", msgs)
	}
	if len(journal.records) != 1 {
		t.Fatalf("records = %d", len(journal.records))
	}
	rec := journal.records[0]
	if rec.ChatID != 5 || rec.Kind != "ticker" || rec.Subject != "BTC" || rec.Outcome != "ok" || rec.Username != "trader" {
		t.Errorf("record = %+v", rec)
	}
	if observer.started != 1 || observer.finished != 1 || len(observer.kinds) != 1 || observer.kinds[0] != "ticker" {
		t.Errorf("observer = %+v", observer)
	}
}

func TestHandleUpdateIgnoresEmpty(t *testing.T) {
	sender := &fakeSender{}
	observer := &countingObserver{}
	b := NewTelegramBot(Options{}, Dependencies{
		Router:   echoRouter(nil),
		Sender:   sender,
		Observer: observer,
	})

	b.HandleUpdate(context.Background(), telegram.Update{UpdateID: 1})
	b.HandleUpdate(context.Background(), textUpdate(2, 1, "   "))

	if len(sender.messages()) != 0 {
		t.Error("ответ на пустое обновление")
	}
	if len(observer.kinds) != 2 || observer.kinds[0] != "ignored" {
		t.Errorf("kinds = %v", observer.kinds)
	}
}

func TestHandleUpdateRateLimited(t *testing.T) {
	sender := &fakeSender{}
	limiter := &fakeLimiter{allowed: false}
	observer := &countingObserver{}
	called := false
	r := echoRouter(func(context.Context, handlers.HandlerParams) (handlers.HandlerResult, error) {
		called = true
		return handlers.HandlerResult{}, nil
	})
	b := NewTelegramBot(Options{UserRateLimit: 10}, Dependencies{
		Router: r, Sender: sender, Limiter: limiter, Observer: observer,
	})

	b.HandleUpdate(context.Background(), textUpdate(1, 77, "BTC"))

	if called {
		t.Error("хэндлер вызван при превышении лимита")
	}
	msgs := sender.messages()
	if len(msgs) != 1 || msgs[0].text != constants.Messages.RateLimited || !msgs[0].plain {
		t.Errorf("sent = %+v", msgs)
	}
	if len(limiter.keys) != 1 || limiter.keys[0] != "chat:77" {
		t.Errorf("keys = %v", limiter.keys)
	}
	if observer.rateLimited != 1 {
		t.Errorf("rateLimited = %d", observer.rateLimited)
	}
}

func TestRateLimitDisabledOrFailing(t *testing.T) {
	for name, tc := range map[string]struct {
		limit   int
		limiter *fakeLimiter
	}{
		"disabled":    {limit: 0, limiter: &fakeLimiter{allowed: false}},
		"redis error": {limit: 10, limiter: &fakeLimiter{err: errors.New("connection refused")}},
	} {
		t.Run(name, func(t *testing.T) {
			sender := &fakeSender{}
			r := echoRouter(func(context.Context, handlers.HandlerParams) (handlers.HandlerResult, error) {
				return handlers.HandlerResult{Message: "ok", Kind: "ticker"}, nil
			})
			b := NewTelegramBot(Options{UserRateLimit: tc.limit}, Dependencies{Router: r, Sender: sender, Limiter: tc.limiter})

			b.HandleUpdate(context.Background(), textUpdate(1, 1, "BTC"))
			if msgs := sender.messages(); len(msgs) != 1 || msgs[0].text != "ok" {
				t.Errorf("sent = %+v", msgs)
			}
		})
	}
}

func TestHandleUpdateRecoversPanic(t *testing.T) {
	sender := &fakeSender{}
	observer := &countingObserver{}
	r := echoRouter(func(context.Context, handlers.HandlerParams) (handlers.HandlerResult, error) {
		panic("nil map")
	})
	b := NewTelegramBot(Options{}, Dependencies{Router: r, Sender: sender, Observer: observer})

	b.HandleUpdate(context.Background(), textUpdate(1, 1, "BTC"))

	msgs := sender.messages()
	if len(msgs) != 1 || msgs[0].text != constants.Messages.InternalError {
		t.Errorf("sent = %+v", msgs)
	}
	if observer.finished != 1 {
		t.Error("RequestFinished не вызван после паники")
	}
}

func TestHandleUpdateRouterError(t *testing.T) {
	sender := &fakeSender{}
	journal := &fakeJournal{}
	r := echoRouter(func(context.Context, handlers.HandlerParams) (handlers.HandlerResult, error) {
		return handlers.HandlerResult{}, errors.New("boom")
	})
	b := NewTelegramBot(Options{}, Dependencies{Router: r, Sender: sender, Journal: journal})

	b.HandleUpdate(context.Background(), textUpdate(1, 1, "BTC"))

	if msgs := sender.messages(); len(msgs) != 1 || msgs[0].text != constants.Messages.InternalError {
		t.Errorf("sent = %+v", msgs)
	}
	if len(journal.records) != 1 || journal.records[0].Outcome != "error" {
		t.Errorf("records = %+v", journal.records)
	}
}

func TestReplyAfterRequestTimeout(t *testing.T) {
	sender := &fakeSender{}
	r := echoRouter(func(ctx context.Context, _ handlers.HandlerParams) (handlers.HandlerResult, error) {
		<-ctx.Done()
		return handlers.HandlerResult{Message: "⏱ timeout", Plain: true, Kind: "ticker"}, nil
	})
	b := NewTelegramBot(Options{RequestTimeout: 10 * time.Millisecond}, Dependencies{Router: r, Sender: sender})

	b.HandleUpdate(context.Background(), textUpdate(1, 1, "BTC"))
	if msgs := sender.messages(); len(msgs) != 1 || msgs[0].text != "⏱ timeout" {
		t.Errorf("sent = %+v", msgs)
	}
}

type fakeCommands struct {
	got []telegram.BotCommand
}

func (c *fakeCommands) SetMyCommands(_ context.Context, commands []telegram.BotCommand) error {
	c.got = commands
	return nil
}

type fakeSource struct {
	mu      sync.Mutex
	batches [][]telegram.Update
	offsets []int
}

func (s *fakeSource) GetUpdates(ctx context.Context, offset int) ([]telegram.Update, error) {
	s.mu.Lock()
	s.offsets = append(s.offsets, offset)
	if len(s.batches) > 0 {
		batch := s.batches[0]
		s.batches = s.batches[1:]
		s.mu.Unlock()
		return batch, nil
	}
	s.mu.Unlock()
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestPollerDispatchesWithConcurrencyLimit(t *testing.T) {
	sender := &fakeSender{}
	commands := &fakeCommands{}

	var inflight, peak, handled atomic.Int32
	allDone := make(chan struct{})
	r := echoRouter(func(context.Context, handlers.HandlerParams) (handlers.HandlerResult, error) {
		n := inflight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		inflight.Add(-1)
		if handled.Add(1) == 5 {
			close(allDone)
		}
		return handlers.HandlerResult{Message: "ok", Kind: "ticker"}, nil
	})
	b := NewTelegramBot(Options{MaxConcurrent: 2}, Dependencies{Router: r, Sender: sender, Commands: commands})

	source := &fakeSource{batches: [][]telegram.Update{
		{textUpdate(10, 1, "A"), textUpdate(11, 2, "B"), textUpdate(12, 3, "C")},
		{textUpdate(13, 4, "D"), textUpdate(14, 5, "E")},
	}}
	poller := NewPoller(b, source)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- poller.Run(ctx) }()

	select {
	case <-allDone:
	case <-time.After(5 * time.Second):
		t.Fatal("обновления не обработаны")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}

	if peak.Load() > 2 {
		t.Errorf("одновременно обработано %d, лимит 2", peak.Load())
	}
	if len(sender.messages()) != 5 {
		t.Errorf("sent = %d, want 5", len(sender.messages()))
	}
	if poller.Offset() != 15 {
		t.Errorf("offset = %d, want 15", poller.Offset())
	}
	source.mu.Lock()
	if source.offsets[0] != 0 || source.offsets[1] != 13 {
		t.Errorf("offsets = %v", source.offsets)
	}
	source.mu.Unlock()
	if len(commands.got) != 2 {
		t.Errorf("commands = %+v", commands.got)
	}
}
