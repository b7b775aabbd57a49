// internal/delivery/telegram/app/bot/handlers/ticker/handler_test.go
package ticker

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"crypto-signal-bot/application/pipeline"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/constants"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/handlers"
)

type fakeAnalyzer struct {
	report string
	err    error
	calls  []string
}

func (a *fakeAnalyzer) Analyze(_ context.Context, rawTicker string, progress pipeline.ProgressFunc) (string, error) {
	a.calls = append(a.calls, rawTicker)
	if progress != nil {
		progress("Подключение к Bybit API...", 1, 6)
	}
	return a.report, a.err
}

type fakeSender struct {
	plain   []string
	edits   []string
	deleted int
}

func (s *fakeSender) SendTextMessage(context.Context, int64, string, interface{}) (int64, error) {
	return 1, nil
}

func (s *fakeSender) SendPlainMessage(_ context.Context, _ int64, text string) (int64, error) {
	s.plain = append(s.plain, text)
	return 3, nil
}

func (s *fakeSender) EditMessageText(_ context.Context, _, _ int64, text string) error {
	s.edits = append(s.edits, text)
	return nil
}

func (s *fakeSender) DeleteMessage(context.Context, int64, int64) error {
	s.deleted++
	return nil
}

func (s *fakeSender) IsTestMode() bool { return false }

func TestAnalyzeTicker(t *testing.T) {
	analyzer := &fakeAnalyzer{report: "📊 *BTCUSDT*"}
	sender := &fakeSender{}
	h := NewHandler(analyzer, nil)

	res, err := h.Execute(context.Background(), handlers.HandlerParams{ChatID: 1, Text: " btc ", Sender: sender})
	if err != nil {
		t.Fatal(err)
	}
	if res.Message != "📊 *BTCUSDT*" || res.Plain {
		t.Errorf("result = %+v", res)
	}
	if res.Kind != constants.KindTicker || res.Subject != "BTC" || res.Outcome != "ok" {
		t.Errorf("result = %+v", res)
	}
	if len(analyzer.calls) != 1 || analyzer.calls[0] != "btc" {
		t.Errorf("calls = %q", analyzer.calls)
	}
	if len(sender.plain) != 1 || sender.plain[0] != constants.StatusTexts.Analysis {
		t.Errorf("status = %q", sender.plain)
	}
	if len(sender.edits) != 1 || !strings.HasPrefix(sender.edits[0], "🟦⏳⏳⏳⏳⏳ 16%") {
		t.Errorf("edits = %q", sender.edits)
	}
	if sender.deleted != 1 {
		t.Errorf("deleted = %d", sender.deleted)
	}
}

func TestAnalyzeTickerError(t *testing.T) {
	analyzer := &fakeAnalyzer{err: &pipeline.Error{Kind: pipeline.ErrNotFound, Ticker: "DOGE_X"}}
	sender := &fakeSender{}
	h := NewHandler(analyzer, nil)

	res, _ := h.Execute(context.Background(), handlers.HandlerParams{ChatID: 1, Text: "doge_x", Sender: sender})
	if !res.Plain || res.Outcome != "not_found" {
		t.Errorf("result = %+v", res)
	}
	if res.Message != pipeline.UserMessage(analyzer.err) {
		t.Errorf("message = %q", res.Message)
	}
	if res.Subject != "doge_x" {
		t.Errorf("subject = %q", res.Subject)
	}
	if sender.deleted != 1 {
		t.Error("статус не удален после ошибки")
	}
}

func TestAnalyzeTickerTimeout(t *testing.T) {
	analyzer := &fakeAnalyzer{err: fmt.Errorf("ETH: %w", context.DeadlineExceeded)}
	res, _ := NewHandler(analyzer, nil).Execute(context.Background(), handlers.HandlerParams{ChatID: 1, Text: "ETH"})
	if res.Outcome != "timeout" || !strings.HasPrefix(res.Message, "⏱") {
		t.Errorf("result = %+v", res)
	}
}

func TestCommandInOtherCase(t *testing.T) {
	for _, text := range []string{"/START", "/Instruction", "/iNsTrUcTiOn"} {
		analyzer := &fakeAnalyzer{}
		sender := &fakeSender{}
		res, _ := NewHandler(analyzer, nil).Execute(context.Background(), handlers.HandlerParams{ChatID: 1, Text: text, Sender: sender})

		if res.Message != constants.Messages.EnterTicker || res.Kind != constants.KindPrompt {
			t.Errorf("%s: result = %+v", text, res)
		}
		if len(analyzer.calls) != 0 || len(sender.plain) != 0 {
			t.Errorf("%s: анализ не должен запускаться", text)
		}
	}
}
