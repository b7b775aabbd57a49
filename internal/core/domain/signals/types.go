// internal/core/domain/signals/types.go
package signals

import (
	"fmt"
	"strings"
)

// MinRiskReward порог соотношения риск/прибыль
const MinRiskReward = 2.0

// Direction направление сделки
type Direction string

const (
	Long  Direction = "Long"
	Short Direction = "Short"
)

// DirectionFromTrend Long, если быстрая SMA выше медленной
func DirectionFromTrend(smaFast, smaSlow float64) Direction {
	if smaFast > smaSlow {
		return Long
	}
	return Short
}

// ParseDirection разбирает "long"/"short" без учета регистра
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "long":
		return Long, nil
	case "short":
		return Short, nil
	default:
		return "", fmt.Errorf("неизвестное направление: %q", s)
	}
}

// Opposite противоположное направление
func (d Direction) Opposite() Direction {
	if d == Long {
		return Short
	}
	return Long
}

// Emoji иконка направления
func (d Direction) Emoji() string {
	if d == Long {
		return "📈"
	}
	return "📉"
}

// Label название направления для пользователя ("лонг"/"шорт")
func (d Direction) Label() string {
	if d == Long {
		return "лонг"
	}
	return "шорт"
}

func (d Direction) String() string { return string(d) }

// TradePlan торговый план по уровням
type TradePlan struct {
	Direction     Direction
	Entry         float64
	StopLoss      float64
	TakeProfit    float64
	CancelPrice   float64
	RiskReward    float64
	StopLossPct   float64 // сырое значение относительно входа
	TakeProfitPct float64 // сырое значение относительно входа
}

// HasLowRiskReward план ниже порога MinRiskReward
func (p TradePlan) HasLowRiskReward() bool {
	return p.RiskReward < MinRiskReward
}
