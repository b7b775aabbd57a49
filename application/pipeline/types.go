// application/pipeline/types.go
package pipeline

import "time"

// Глубина истории для анализа
const (
	DailyCandles = 200
	H4Candles    = 100
	H1Candles    = 50
)

// ProgressFunc получает (название шага, номер шага с 1, всего шагов)
type ProgressFunc func(label string, step, total int)

func (f ProgressFunc) emit(label string, step, total int) {
	if f != nil {
		f(label, step, total)
	}
}

// Observer получает итоги анализа и сканирования (метрики)
type Observer interface {
	ObserveAnalysis(outcome string, duration time.Duration)
	ObserveScan(direction string, examined, admitted int, duration time.Duration)
	ObservePairOutcome(outcome string)
}

type nopObserver struct{}

func (nopObserver) ObserveAnalysis(string, time.Duration)       {}
func (nopObserver) ObserveScan(string, int, int, time.Duration) {}
func (nopObserver) ObservePairOutcome(string)                   {}

// Outcome исход оценки одной пары при сканировании
type Outcome string

const (
	OutcomeAdmitted            Outcome = "admitted"
	OutcomeNoData              Outcome = "no_data"
	OutcomeInsufficientHistory Outcome = "insufficient_history"
	OutcomeDirectionMismatch   Outcome = "direction_mismatch"
	OutcomeLevelsUndetermined  Outcome = "levels_undetermined"
	OutcomeLowRiskReward       Outcome = "low_risk_reward"
)

// ScanResult результат оценки пары
type ScanResult struct {
	Symbol  string
	Outcome Outcome
	Err     error  // причина для NoData
	Report  string // только для Admitted
}

// ScanSummary итог сканирования
type ScanSummary struct {
	Reports  []string
	Examined int
	Admitted int
}
