// internal/delivery/telegram/app/bot/handlers/router/router_test.go
package router

import (
	"context"
	"errors"
	"testing"

	"crypto-signal-bot/internal/delivery/telegram/app/bot/constants"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/handlers"
)

type stubHandler struct {
	name    string
	command string
	typ     handlers.HandlerType
	err     error
}

func (h *stubHandler) Execute(context.Context, handlers.HandlerParams) (handlers.HandlerResult, error) {
	return handlers.HandlerResult{Message: h.name, Kind: h.name}, h.err
}
func (h *stubHandler) GetName() string               { return h.name }
func (h *stubHandler) GetCommand() string            { return h.command }
func (h *stubHandler) GetType() handlers.HandlerType { return h.typ }

func newTestRouter() Router {
	r := NewRouter()
	r.RegisterHandler(&stubHandler{name: "start", command: constants.CommandStart, typ: handlers.TypeCommand})
	r.RegisterHandler(&stubHandler{name: "instruction", command: constants.CommandInstruction, typ: handlers.TypeCommand})
	r.RegisterHandler(&stubHandler{name: "instruction_button", command: constants.ButtonTexts.Instruction, typ: handlers.TypeButton})
	r.RegisterHandler(&stubHandler{name: "long", command: constants.ButtonTexts.BestLong, typ: handlers.TypeButton})
	r.RegisterHandler(&stubHandler{name: "short", command: constants.ButtonTexts.BestShort, typ: handlers.TypeButton})
	r.RegisterHandler(&stubHandler{name: "ticker", typ: handlers.TypeMessage})
	return r
}

func TestResolve(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		text string
		want string
	}{
		{"/start", "start"},
		{"/start@signal_bot", "start"},
		{"  /instruction  ", "instruction"},
		{"/instruction extra", "instruction"},
		{"📋 Инструкция", "instruction_button"},
		{"📈 Лучшее в лонг", "long"},
		{"📉 Лучшее в шорт", "short"},
		{"BTC", "ticker"},
		{"/START", "ticker"},
		{"/help", "ticker"},
		{"📈 лучшее в лонг", "ticker"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			h, ok := r.Resolve(tt.text)
			if !ok {
				t.Fatal("хэндлер не найден")
			}
			if h.GetName() != tt.want {
				t.Errorf("Resolve(%q) = %s, want %s", tt.text, h.GetName(), tt.want)
			}
		})
	}
}

func TestHandleWithoutFallback(t *testing.T) {
	r := NewRouter()
	r.RegisterHandler(&stubHandler{name: "start", command: "/start", typ: handlers.TypeCommand})

	if _, err := r.Handle(context.Background(), handlers.HandlerParams{Text: "ETH"}); err == nil {
		t.Error("ожидалась ошибка без общего хэндлера")
	}
	res, err := r.Handle(context.Background(), handlers.HandlerParams{Text: "/start"})
	if err != nil || res.Kind != "start" {
		t.Errorf("res = %+v, err = %v", res, err)
	}
}

func TestHandlePropagatesError(t *testing.T) {
	boom := errors.New("boom")
	r := NewRouter()
	r.RegisterHandler(&stubHandler{name: "ticker", typ: handlers.TypeMessage, err: boom})

	if _, err := r.Handle(context.Background(), handlers.HandlerParams{Text: "BTC"}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestGetCommands(t *testing.T) {
	got := newTestRouter().GetCommands()
	if len(got) != 5 {
		t.Fatalf("commands = %v", got)
	}
	if got[0] != "/instruction" || got[1] != "/start" {
		t.Errorf("commands = %v", got)
	}
}
