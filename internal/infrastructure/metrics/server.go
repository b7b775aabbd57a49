// internal/infrastructure/metrics/server.go
package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"crypto-signal-bot/pkg/logger"
)

const healthCheckTimeout = 3 * time.Second

// HealthCheck проверка зависимости, nil - здорова
type HealthCheck func(ctx context.Context) error

// Health состояние зависимостей для /healthz
type Health struct {
	mu        sync.RWMutex
	checks    map[string]HealthCheck
	startedAt time.Time
}

// NewHealth создает пустой набор проверок
func NewHealth() *Health {
	return &Health{
		checks:    make(map[string]HealthCheck),
		startedAt: time.Now(),
	}
}

// AddCheck регистрирует проверку под именем
func (h *Health) AddCheck(name string, check HealthCheck) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

type healthResponse struct {
	Status string          `json:"status"`
	Uptime string          `json:"uptime"`
	Checks map[string]bool `json:"checks"`
	Errors []string        `json:"errors,omitempty"`
}

// ServeHTTP отдает JSON с флагами проверок. 503, если хоть одна не прошла.
func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	checks := make(map[string]HealthCheck, len(h.checks))
	for name, check := range h.checks {
		checks[name] = check
	}
	h.mu.RUnlock()
	sort.Strings(names)

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := healthResponse{
		Status: "healthy",
		Uptime: time.Since(h.startedAt).Round(time.Second).String(),
		Checks: make(map[string]bool, len(names)),
	}
	for _, name := range names {
		err := checks[name](ctx)
		resp.Checks[name] = err == nil
		if err != nil {
			resp.Status = "degraded"
			resp.Errors = append(resp.Errors, fmt.Sprintf("%s: %v", name, err))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if resp.Status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// Server HTTP сервер /metrics и /healthz
type Server struct {
	addr string
	srv  *http.Server
}

// NewServer создает сервер метрик на порту port
func NewServer(port int, m *Metrics, health *Health) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.Handle("/healthz", health)

	addr := fmt.Sprintf(":%d", port)
	return &Server{
		addr: addr,
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler маршрутизатор сервера
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start запускает сервер в горутине
func (s *Server) Start() {
	go func() {
		logger.Info("📊 Сервер метрик слушает %s", s.addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("❌ Ошибка сервера метрик: %v", err)
		}
	}()
}

// Stop останавливает сервер
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
