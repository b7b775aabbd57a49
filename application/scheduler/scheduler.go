// application/scheduler/scheduler.go
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"crypto-signal-bot/pkg/logger"

	"github.com/robfig/cron/v3"
)

const defaultJobTimeout = 5 * time.Minute

// Parser разбирает расписания с необязательным полем секунд:
// "0 */10 * * * *", "*/5 * * * *", "@every 10m"
var Parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Job описывает одну планируемую задачу
type Job struct {
	Name        string
	Description string
	Spec        string // cron-выражение
	Timeout     time.Duration
	Handler     func(ctx context.Context) error

	mu      sync.Mutex
	entryID cron.EntryID
	lastRun time.Time
	lastErr error
	runs    int
}

// JobStatus снапшот состояния задачи
type JobStatus struct {
	Name        string
	Description string
	NextRun     time.Time
	LastRun     time.Time
	LastErr     error
	Runs        int
}

// Scheduler управляет всеми cron-задачами приложения
type Scheduler struct {
	cron *cron.Cron
	mu   sync.RWMutex
	jobs []*Job
}

// New создает новый планировщик (время UTC)
func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(Parser),
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
	}
}

// Register добавляет задачу в планировщик
func (s *Scheduler) Register(job *Job) error {
	if job.Handler == nil {
		return fmt.Errorf("задача %q без обработчика", job.Name)
	}

	id, err := s.cron.AddFunc(job.Spec, func() { s.run(job) })
	if err != nil {
		return fmt.Errorf("задача %q: неверное расписание %q: %w", job.Name, job.Spec, err)
	}

	job.mu.Lock()
	job.entryID = id
	job.mu.Unlock()

	s.mu.Lock()
	s.jobs = append(s.jobs, job)
	s.mu.Unlock()

	logger.Info("📋 [Scheduler] Зарегистрирована задача %q (%s)", job.Name, job.Spec)
	return nil
}

// Start запускает планировщик в фоновой горутине
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("✅ [Scheduler] Запущен (%d задач)", len(s.Jobs()))
}

// Stop останавливает планировщик и ждёт завершения текущих задач
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
		logger.Info("🛑 [Scheduler] Остановлен")
	case <-ctx.Done():
		logger.Warn("⚠️ [Scheduler] Остановлен, не дождавшись задач: %v", ctx.Err())
	}
}

// Jobs возвращает статус всех задач
func (s *Scheduler) Jobs() []JobStatus {
	s.mu.RLock()
	jobs := make([]*Job, len(s.jobs))
	copy(jobs, s.jobs)
	s.mu.RUnlock()

	statuses := make([]JobStatus, len(jobs))
	for i, j := range jobs {
		j.mu.Lock()
		statuses[i] = JobStatus{
			Name:        j.Name,
			Description: j.Description,
			NextRun:     s.cron.Entry(j.entryID).Next,
			LastRun:     j.lastRun,
			LastErr:     j.lastErr,
			Runs:        j.runs,
		}
		j.mu.Unlock()
	}
	return statuses
}

// run выполняет одну задачу и обновляет её состояние
func (s *Scheduler) run(job *Job) {
	timeout := job.Timeout
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Debug("▶️  [Scheduler] Запуск задачи %q", job.Name)
	start := time.Now()

	err := job.Handler(ctx)
	elapsed := time.Since(start)

	job.mu.Lock()
	job.lastRun = start
	job.lastErr = err
	job.runs++
	job.mu.Unlock()

	if err != nil {
		logger.Error("❌ [Scheduler] Задача %q завершилась с ошибкой за %v: %v", job.Name, elapsed, err)
		return
	}
	logger.Debug("✅ [Scheduler] Задача %q выполнена за %v", job.Name, elapsed)
}
