// internal/infrastructure/metrics/metrics.go
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "signalbot"

// Metrics набор метрик бота. Реализует наблюдателей api, pipeline и redis кэша.
type Metrics struct {
	registry *prometheus.Registry

	// Биржа
	ExchangeRequests *prometheus.CounterVec   // exchange, endpoint, outcome
	ExchangeLatency  *prometheus.HistogramVec // exchange, endpoint
	ExchangeRetries  *prometheus.CounterVec   // exchange, reason

	// Кэш
	CacheLookups *prometheus.CounterVec // kind, result

	// Анализ
	Analyses        *prometheus.CounterVec // outcome
	AnalysisLatency prometheus.Histogram
	Scans           *prometheus.CounterVec // direction
	ScanLatency     prometheus.Histogram
	ScanExamined    prometheus.Histogram
	PairOutcomes    *prometheus.CounterVec // outcome
	SignalsFound    *prometheus.CounterVec // direction

	// Telegram
	TelegramUpdates  *prometheus.CounterVec // kind
	TelegramInflight prometheus.Gauge
	RateLimited      prometheus.Counter
}

// New создает метрики в собственном реестре
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		ExchangeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exchange_requests_total",
			Help:      "Запросы к REST API биржи",
		}, []string{"exchange", "endpoint", "outcome"}),
		ExchangeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "exchange_request_duration_seconds",
			Help:      "Длительность запросов к бирже",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"exchange", "endpoint"}),
		ExchangeRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exchange_retries_total",
			Help:      "Повторы запросов к бирже",
		}, []string{"exchange", "reason"}),

		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Обращения к Redis кэшу рыночных данных",
		}, []string{"kind", "result"}),

		Analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Анализы отдельных тикеров по исходу",
		}, []string{"outcome"}),
		AnalysisLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Длительность анализа тикера",
			Buckets:   prometheus.DefBuckets,
		}),
		Scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Сканирования рынка по направлению",
		}, []string{"direction"}),
		ScanLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Длительность сканирования",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 60, 120, 180},
		}),
		ScanExamined: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_examined_pairs",
			Help:      "Количество проверенных пар за сканирование",
			Buckets:   []float64{1, 3, 5, 10, 20, 30, 50},
		}),
		PairOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_pair_outcomes_total",
			Help:      "Исходы оценки пар при сканировании",
		}, []string{"outcome"}),
		SignalsFound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_signals_total",
			Help:      "Найденные сигналы по направлению",
		}, []string{"direction"}),

		TelegramUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telegram_updates_total",
			Help:      "Обработанные обновления Telegram",
		}, []string{"kind"}),
		TelegramInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "telegram_inflight_requests",
			Help:      "Запросы пользователей в работе",
		}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telegram_rate_limited_total",
			Help:      "Запросы, отклоненные лимитом на чат",
		}),
	}

	m.registry.MustRegister(
		m.ExchangeRequests,
		m.ExchangeLatency,
		m.ExchangeRetries,
		m.CacheLookups,
		m.Analyses,
		m.AnalysisLatency,
		m.Scans,
		m.ScanLatency,
		m.ScanExamined,
		m.PairOutcomes,
		m.SignalsFound,
		m.TelegramUpdates,
		m.TelegramInflight,
		m.RateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler HTTP обработчик /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		Registry:      m.registry,
		ErrorHandling: promhttp.ContinueOnError,
	})
}

// ObserveRequest запрос к бирже (api.Observer)
func (m *Metrics) ObserveRequest(exchange, endpoint, outcome string, d time.Duration) {
	m.ExchangeRequests.WithLabelValues(exchange, endpoint, outcome).Inc()
	m.ExchangeLatency.WithLabelValues(exchange, endpoint).Observe(d.Seconds())
}

// ObserveRetry повтор запроса (api.Observer)
func (m *Metrics) ObserveRetry(exchange, reason string) {
	m.ExchangeRetries.WithLabelValues(exchange, reason).Inc()
}

// ObserveCache попадание или промах кэша (redis.CacheObserver)
func (m *Metrics) ObserveCache(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(kind, result).Inc()
}

// ObserveAnalysis итог анализа тикера (pipeline.Observer)
func (m *Metrics) ObserveAnalysis(outcome string, d time.Duration) {
	m.Analyses.WithLabelValues(outcome).Inc()
	m.AnalysisLatency.Observe(d.Seconds())
}

// ObserveScan итог сканирования (pipeline.Observer)
func (m *Metrics) ObserveScan(direction string, examined, admitted int, d time.Duration) {
	m.Scans.WithLabelValues(direction).Inc()
	m.ScanLatency.Observe(d.Seconds())
	m.ScanExamined.Observe(float64(examined))
	m.SignalsFound.WithLabelValues(direction).Add(float64(admitted))
}

// ObservePairOutcome исход оценки пары (pipeline.Observer)
func (m *Metrics) ObservePairOutcome(outcome string) {
	m.PairOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveUpdate входящее обновление Telegram по типу команды
func (m *Metrics) ObserveUpdate(kind string) {
	m.TelegramUpdates.WithLabelValues(kind).Inc()
}

// RequestStarted/RequestFinished счетчик запросов в работе
func (m *Metrics) RequestStarted()  { m.TelegramInflight.Inc() }
func (m *Metrics) RequestFinished() { m.TelegramInflight.Dec() }

// ObserveRateLimited запрос отклонен лимитом
func (m *Metrics) ObserveRateLimited() {
	m.RateLimited.Inc()
}
