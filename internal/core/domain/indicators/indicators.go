// internal/core/domain/indicators/indicators.go
package indicators

import (
	"math"

	"crypto-signal-bot/internal/core/domain/market"
)

// Периоды и окна индикаторов
const (
	TrendFastPeriod  = 50
	TrendSlowPeriod  = 200
	Levels4hWindow   = 30
	Levels1hWindow   = 50
	Levels1hRecent   = 20
	DefaultRSIPeriod = 14
)

// PriceLevels уровни поддержки и сопротивления
type PriceLevels struct {
	Support    float64
	Resistance float64
}

// SMA средняя цена закрытия последних period свечей
func SMA(candles []market.Candle, period int) (float64, bool) {
	if period <= 0 || len(candles) < period {
		return 0, false
	}

	sum := 0.0
	for _, c := range candles[len(candles)-period:] {
		sum += c.Close
	}
	return sum / float64(period), true
}

// RSI индекс относительной силы по первым period свечам последовательности,
// а не по скользящему окну в конце ряда.
// Суммируются изменения на индексах 1..period-1, делитель равен period.
func RSI(candles []market.Candle, period int) (float64, bool) {
	if period <= 0 || len(candles) < period {
		return 0, false
	}

	window := candles[:period]
	gains, losses := 0.0, 0.0
	for i := 1; i < period; i++ {
		delta := window[i].Close - window[i-1].Close
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		return 100, true
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

// SupportResistance уровни по 4h окну и свежим 1h свечам
func SupportResistance(candles4h, candles1h []market.Candle) (PriceLevels, bool) {
	if len(candles4h) == 0 || len(candles1h) == 0 {
		return PriceLevels{}, false
	}

	window4h := tail(candles4h, Levels4hWindow)
	recent1h := tail(tail(candles1h, Levels1hWindow), Levels1hRecent)

	support := math.Min(minLow(window4h), minLow(recent1h))
	resistance := math.Max(maxHigh(window4h), maxHigh(recent1h))

	return PriceLevels{Support: support, Resistance: resistance}, true
}

// LastClose цена закрытия последней свечи
func LastClose(candles []market.Candle) (float64, bool) {
	if len(candles) == 0 {
		return 0, false
	}
	return candles[len(candles)-1].Close, true
}

func tail(candles []market.Candle, n int) []market.Candle {
	if len(candles) > n {
		return candles[len(candles)-n:]
	}
	return candles
}

func minLow(candles []market.Candle) float64 {
	low := math.Inf(1)
	for _, c := range candles {
		low = math.Min(low, c.Low)
	}
	return low
}

func maxHigh(candles []market.Candle) float64 {
	high := math.Inf(-1)
	for _, c := range candles {
		high = math.Max(high, c.High)
	}
	return high
}
