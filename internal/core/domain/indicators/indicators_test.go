package indicators

import (
	"math"
	"testing"

	"crypto-signal-bot/internal/core/domain/market"
)

func assertClose(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %.8f, want %.8f (tol %.8f)", label, got, want, tol)
	}
}

func closes(values ...float64) []market.Candle {
	out := make([]market.Candle, len(values))
	for i, v := range values {
		out[i] = market.Candle{OpenTime: int64(i), Open: v, High: v, Low: v, Close: v}
	}
	return out
}

func TestSMA(t *testing.T) {
	candles := closes(1, 2, 3, 4, 5)

	got, ok := SMA(candles, 3)
	if !ok {
		t.Fatal("SMA(3) should be computable")
	}
	assertClose(t, "SMA(3)", got, 4, 1e-12)

	got, ok = SMA(candles, 5)
	if !ok {
		t.Fatal("SMA(5) should be computable")
	}
	assertClose(t, "SMA(5)", got, 3, 1e-12)
}

func TestSMANotEnoughCandles(t *testing.T) {
	if _, ok := SMA(closes(1, 2), 3); ok {
		t.Fatal("SMA must fail when fewer candles than period")
	}
	if _, ok := SMA(closes(1, 2), 0); ok {
		t.Fatal("SMA must fail on non-positive period")
	}
}

func TestSMATrendPeriods(t *testing.T) {
	values := make([]float64, 199)
	for i := range values {
		values[i] = float64(i + 1)
	}
	candles := closes(values...)

	if _, ok := SMA(candles, TrendSlowPeriod); ok {
		t.Fatal("199 daily candles are not enough for SMA200")
	}
	fast, ok := SMA(candles, TrendFastPeriod)
	if !ok {
		t.Fatal("SMA50 should be computable")
	}
	// среднее 150..199
	assertClose(t, "SMA50", fast, 174.5, 1e-9)
}

func TestRSIAllGains(t *testing.T) {
	got, ok := RSI(closes(1, 2, 3, 4, 5), 5)
	if !ok {
		t.Fatal("RSI should be computable")
	}
	assertClose(t, "RSI all gains", got, 100, 1e-12)
}

func TestRSIWindowing(t *testing.T) {
	// окно 4 с начала ряда: 50 10 12 11 -> изменения -40 +2 -1, 14 не входит
	got, ok := RSI(closes(50, 10, 12, 11, 14), 4)
	if !ok {
		t.Fatal("RSI should be computable")
	}
	// avgGain = 2/4, avgLoss = 41/4, rs = 2/41
	assertClose(t, "RSI", got, 100-100/(1+2.0/41), 1e-9)
}

func TestRSIIgnoresTailAfterPeriod(t *testing.T) {
	base, _ := RSI(closes(10, 11, 12, 13), 4)
	extended, ok := RSI(closes(10, 11, 12, 13, 1, 2, 0.5), 4)
	if !ok {
		t.Fatal("RSI should be computable")
	}
	assertClose(t, "RSI with tail", extended, base, 1e-12)
	assertClose(t, "RSI all gains", extended, 100, 1e-12)
}

func TestRSINotEnoughCandles(t *testing.T) {
	if _, ok := RSI(closes(1, 2, 3), DefaultRSIPeriod); ok {
		t.Fatal("RSI must fail when fewer candles than period")
	}
}

func TestSupportResistance(t *testing.T) {
	c4h := make([]market.Candle, 0, 40)
	for i := 0; i < 40; i++ {
		c4h = append(c4h, market.Candle{Low: 100, High: 110, Close: 105})
	}
	// вне окна последних 30 свечей
	c4h[0].Low = 1
	c4h[0].High = 1000

	c1h := make([]market.Candle, 0, 50)
	for i := 0; i < 50; i++ {
		c1h = append(c1h, market.Candle{Low: 102, High: 108, Close: 105})
	}
	// внутри последних 50, но вне последних 20
	c1h[10].Low = 50
	c1h[10].High = 500
	// внутри последних 20
	c1h[45].Low = 99
	c1h[40].High = 112

	levels, ok := SupportResistance(c4h, c1h)
	if !ok {
		t.Fatal("levels should be determined")
	}
	assertClose(t, "support", levels.Support, 99, 1e-12)
	assertClose(t, "resistance", levels.Resistance, 112, 1e-12)
}

func TestSupportResistanceEmpty(t *testing.T) {
	if _, ok := SupportResistance(nil, closes(1)); ok {
		t.Fatal("empty 4h input must fail")
	}
	if _, ok := SupportResistance(closes(1), nil); ok {
		t.Fatal("empty 1h input must fail")
	}
}

func TestSupportResistanceShortHistory(t *testing.T) {
	levels, ok := SupportResistance(closes(10, 12), closes(11))
	if !ok {
		t.Fatal("short but non-empty inputs are enough")
	}
	assertClose(t, "support", levels.Support, 10, 1e-12)
	assertClose(t, "resistance", levels.Resistance, 12, 1e-12)
}

func TestLastClose(t *testing.T) {
	if _, ok := LastClose(nil); ok {
		t.Fatal("LastClose of nothing")
	}
	got, _ := LastClose(closes(1, 2, 7))
	assertClose(t, "last close", got, 7, 0)
}
