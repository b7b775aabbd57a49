package telegram

import (
	"testing"
	"time"
)

func TestRateLimiterPerKey(t *testing.T) {
	rl := NewRateLimiter(time.Hour)

	if !rl.CanSend("1:10") {
		t.Fatal("first send must be allowed")
	}
	if rl.CanSend("1:10") {
		t.Error("second send within interval must be blocked")
	}
	if !rl.CanSend("2:20") {
		t.Error("other key must not be affected")
	}

	rl.Forget("1:10")
	if !rl.CanSend("1:10") {
		t.Error("forgotten key must be allowed again")
	}
}

func TestRateLimiterZeroDelay(t *testing.T) {
	rl := NewRateLimiter(0)
	for i := 0; i < 3; i++ {
		if !rl.CanSend("k") {
			t.Fatalf("send %d blocked with zero delay", i)
		}
	}
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{Method: "sendMessage", Code: 400, Description: "Bad Request"}
	if got, want := err.Error(), "telegram sendMessage: 400 Bad Request"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
