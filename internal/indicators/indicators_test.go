package indicators

import (
	"math"
	"testing"

	"github.com/psantana5/freqtrade-ops/pkg/models"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	out := SMA(values, 3)

	if IsValid(out[0]) || IsValid(out[1]) {
		t.Error("SMA should be NaN during warm-up")
	}
	if !almostEqual(out[2], 2, 1e-9) {
		t.Errorf("SMA[2] = %v, want 2", out[2])
	}
	if !almostEqual(out[4], 4, 1e-9) {
		t.Errorf("SMA[4] = %v, want 4", out[4])
	}
}

func TestSMAInsufficientData(t *testing.T) {
	out := SMA([]float64{1, 2}, 5)
	for i, v := range out {
		if IsValid(v) {
			t.Errorf("SMA[%d] should be NaN with insufficient data", i)
		}
	}
}

func TestEMAConstantSeries(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = 42
	}
	out := EMA(values, 12)
	if !almostEqual(out[29], 42, 1e-9) {
		t.Errorf("EMA of constant series = %v, want 42", out[29])
	}
	if IsValid(out[10]) {
		t.Error("EMA should be NaN before the seed period completes")
	}
}

func TestRSIMonotonic(t *testing.T) {
	up := make([]float64, 30)
	down := make([]float64, 30)
	for i := range up {
		up[i] = float64(i)
		down[i] = float64(30 - i)
	}

	rsiUp := RSI(up, 14)
	if !almostEqual(rsiUp[29], 100, 1e-9) {
		t.Errorf("RSI of strictly rising series = %v, want 100", rsiUp[29])
	}

	rsiDown := RSI(down, 14)
	if !almostEqual(rsiDown[29], 0, 1e-9) {
		t.Errorf("RSI of strictly falling series = %v, want 0", rsiDown[29])
	}
}

func TestRSIWarmup(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	out := RSI(values, 14)
	if IsValid(out[13]) {
		t.Error("RSI[13] should still be warming up for period 14")
	}
	if !IsValid(out[14]) {
		t.Error("RSI[14] should be the first valid value for period 14")
	}
}

func TestMACDCrossoverDetectable(t *testing.T) {
	// Downtrend followed by a sharp recovery forces the fast EMA across
	// the slow one, which must show up as a sign change on the MACD line.
	values := make([]float64, 80)
	for i := 0; i < 40; i++ {
		values[i] = 100 - float64(i)
	}
	for i := 40; i < 80; i++ {
		values[i] = 60 + 2*float64(i-40)
	}

	res := MACD(values, 12, 26, 9)
	if !IsValid(res.MACD[79]) || !IsValid(res.Signal[79]) {
		t.Fatal("MACD and signal should be valid at the end of the series")
	}
	if res.MACD[30] >= 0 {
		t.Errorf("MACD during downtrend = %v, want negative", res.MACD[30])
	}
	if res.MACD[79] <= 0 {
		t.Errorf("MACD after recovery = %v, want positive", res.MACD[79])
	}
	if !almostEqual(res.Histogram[79], res.MACD[79]-res.Signal[79], 1e-9) {
		t.Error("histogram must equal MACD minus signal")
	}
}

func TestBollingerConstantSeries(t *testing.T) {
	values := make([]float64, 25)
	for i := range values {
		values[i] = 10
	}
	res := Bollinger(values, 20, 2)
	if !almostEqual(res.Upper[24], 10, 1e-9) || !almostEqual(res.Lower[24], 10, 1e-9) {
		t.Errorf("bands of constant series should collapse onto the mean, got [%v, %v]", res.Lower[24], res.Upper[24])
	}
}

func TestBollingerBandsOrdered(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = 100 + float64(i%7)
	}
	res := Bollinger(values, 20, 2)
	for i := 19; i < 40; i++ {
		if res.Upper[i] < res.Middle[i] || res.Middle[i] < res.Lower[i] {
			t.Fatalf("band ordering violated at %d: %v %v %v", i, res.Lower[i], res.Middle[i], res.Upper[i])
		}
	}
}

func makeCandles(prices []float64) []models.Candle {
	candles := make([]models.Candle, len(prices))
	for i, p := range prices {
		candles[i] = models.Candle{
			Open:   p,
			High:   p + 1,
			Low:    p - 1,
			Close:  p,
			Volume: 1000,
		}
	}
	return candles
}

func TestStochasticExtremes(t *testing.T) {
	// Close pinned at the top of a rising range keeps slow %K high
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	candles := makeCandles(prices)
	for i := range candles {
		candles[i].Close = candles[i].High
	}

	res := Stochastic(candles, 14, 3)
	if !IsValid(res.K[39]) || res.K[39] < 90 {
		t.Errorf("slow %%K with closes at highs = %v, want > 90", res.K[39])
	}
	if !IsValid(res.D[39]) || res.D[39] < 90 {
		t.Errorf("slow %%D with closes at highs = %v, want > 90", res.D[39])
	}
}

func TestWilliamsR(t *testing.T) {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 50
	}
	candles := makeCandles(prices)
	// Last close at the window high -> %R near 0; at the low -> near -100
	candles[19].Close = candles[19].High
	out := WilliamsR(candles, 14)
	if !almostEqual(out[19], 0, 1e-9) {
		t.Errorf("Williams %%R with close at high = %v, want 0", out[19])
	}

	candles[19].Close = candles[19].Low
	out = WilliamsR(candles, 14)
	if !almostEqual(out[19], -100, 1e-9) {
		t.Errorf("Williams %%R with close at low = %v, want -100", out[19])
	}
}

func TestADXTrendingMarket(t *testing.T) {
	// A strong one-directional trend should produce high ADX
	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 100 + 2*float64(i)
	}
	out := ADX(makeCandles(prices), 14)
	if !IsValid(out[59]) {
		t.Fatal("ADX should be valid after 2*period candles")
	}
	if out[59] < 25 {
		t.Errorf("ADX in strong trend = %v, want > 25", out[59])
	}
	if IsValid(out[26]) {
		t.Error("ADX should be warming up before index 2*period-1")
	}
}

func TestCrossovers(t *testing.T) {
	if !CrossedAbove(1, 2, 3, 2) {
		t.Error("expected cross above")
	}
	if CrossedAbove(3, 2, 4, 2) {
		t.Error("no cross when already above")
	}
	if !CrossedBelow(3, 2, 1, 2) {
		t.Error("expected cross below")
	}
	if CrossedAbove(math.NaN(), 2, 3, 2) {
		t.Error("NaN inputs must never report a crossover")
	}
}
