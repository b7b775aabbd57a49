// internal/core/domain/signals/plan.go
package signals

import "math"

// Множители уровней плана
const (
	longEntryFactor   = 1.005
	longStopFactor    = 0.98
	longCancelFactor  = 0.99
	shortEntryFactor  = 0.995
	shortStopFactor   = 1.02
	shortCancelFactor = 1.01
)

// BuildTradePlan строит план от поддержки (Long) или сопротивления (Short)
func BuildTradePlan(direction Direction, support, resistance float64) TradePlan {
	plan := TradePlan{Direction: direction}

	if direction == Long {
		plan.Entry = support * longEntryFactor
		plan.StopLoss = support * longStopFactor
		plan.TakeProfit = resistance
		plan.CancelPrice = support * longCancelFactor
	} else {
		plan.Entry = resistance * shortEntryFactor
		plan.StopLoss = resistance * shortStopFactor
		plan.TakeProfit = support
		plan.CancelPrice = resistance * shortCancelFactor
	}

	plan.RiskReward = RiskReward(plan.Entry, plan.StopLoss, plan.TakeProfit)
	plan.StopLossPct = percentFrom(plan.Entry, plan.StopLoss)
	plan.TakeProfitPct = percentFrom(plan.Entry, plan.TakeProfit)

	return plan
}

// RiskReward |target-entry| / |entry-stop|, 0 при нулевом риске
func RiskReward(entry, stop, target float64) float64 {
	risk := math.Abs(entry - stop)
	if risk == 0 {
		return 0
	}
	return math.Abs(target-entry) / risk
}

// DisplayPercents проценты для показа: стоп всегда <= 0, цель всегда >= 0
func (p TradePlan) DisplayPercents() (stopPct, targetPct float64) {
	return -math.Abs(p.StopLossPct), math.Abs(p.TakeProfitPct)
}

func percentFrom(entry, price float64) float64 {
	if entry == 0 {
		return 0
	}
	return (price - entry) / entry * 100
}
