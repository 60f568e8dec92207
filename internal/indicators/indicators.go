// Package indicators implements the technical analysis series used by the
// portfolio monitor. All functions return series aligned with their input;
// positions inside the warm-up window hold NaN and must be checked with
// IsValid before use.
package indicators

import (
	"math"

	"github.com/psantana5/freqtrade-ops/pkg/models"
)

// IsValid reports whether an indicator value is usable (not in warm-up)
func IsValid(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// SMA computes a simple moving average over the given period
func SMA(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA computes an exponential moving average seeded with the SMA of the
// first period values
func EMA(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	var seed float64
	for _, v := range values[:period] {
		seed += v
	}
	prev := seed / float64(period)
	out[period-1] = prev

	k := 2.0 / float64(period+1)
	for i := period; i < len(values); i++ {
		prev = prev + k*(values[i]-prev)
		out[i] = prev
	}
	return out
}

// RSI computes the Relative Strength Index with Wilder smoothing.
// The first valid value appears at index period.
func RSI(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 || len(values) <= period {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		delta := values[i] - values[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss -= delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// MACDResult holds the MACD line, its signal line and the histogram
type MACDResult struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
}

// MACD computes the moving average convergence/divergence (fast, slow,
// signal periods; conventionally 12, 26, 9)
func MACD(values []float64, fast, slow, signal int) MACDResult {
	n := len(values)
	res := MACDResult{
		MACD:      nanSeries(n),
		Signal:    nanSeries(n),
		Histogram: nanSeries(n),
	}
	if fast <= 0 || slow <= fast || n < slow {
		return res
	}

	emaFast := EMA(values, fast)
	emaSlow := EMA(values, slow)
	for i := slow - 1; i < n; i++ {
		res.MACD[i] = emaFast[i] - emaSlow[i]
	}

	// Signal line is an EMA over the valid MACD region only
	valid := res.MACD[slow-1:]
	sig := EMA(valid, signal)
	for i, v := range sig {
		res.Signal[slow-1+i] = v
		if IsValid(v) {
			res.Histogram[slow-1+i] = valid[i] - v
		}
	}
	return res
}

// BollingerResult holds the three Bollinger bands
type BollingerResult struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// Bollinger computes Bollinger bands over the given period with the given
// standard deviation multiplier
func Bollinger(values []float64, period int, mult float64) BollingerResult {
	n := len(values)
	res := BollingerResult{
		Upper:  nanSeries(n),
		Middle: SMA(values, period),
		Lower:  nanSeries(n),
	}
	if period <= 0 || n < period {
		return res
	}

	for i := period - 1; i < n; i++ {
		mean := res.Middle[i]
		var variance float64
		for j := i - period + 1; j <= i; j++ {
			d := values[j] - mean
			variance += d * d
		}
		std := math.Sqrt(variance / float64(period))
		res.Upper[i] = mean + mult*std
		res.Lower[i] = mean - mult*std
	}
	return res
}

// StochasticResult holds the slow %K and %D lines
type StochasticResult struct {
	K []float64
	D []float64
}

// Stochastic computes the slow stochastic oscillator: raw %K over kPeriod,
// smoothed by an SMA of length smooth, with %D an SMA of %K of the same length
func Stochastic(candles []models.Candle, kPeriod, smooth int) StochasticResult {
	n := len(candles)
	raw := nanSeries(n)
	if kPeriod > 0 && n >= kPeriod {
		for i := kPeriod - 1; i < n; i++ {
			hi, lo := windowRange(candles, i-kPeriod+1, i)
			if hi == lo {
				raw[i] = 50
				continue
			}
			raw[i] = 100 * (candles[i].Close - lo) / (hi - lo)
		}
	}
	k := smaSkipNaN(raw, smooth)
	return StochasticResult{K: k, D: smaSkipNaN(k, smooth)}
}

// WilliamsR computes Williams %R over the given period (range -100..0)
func WilliamsR(candles []models.Candle, period int) []float64 {
	n := len(candles)
	out := nanSeries(n)
	if period <= 0 || n < period {
		return out
	}
	for i := period - 1; i < n; i++ {
		hi, lo := windowRange(candles, i-period+1, i)
		if hi == lo {
			out[i] = -50
			continue
		}
		out[i] = -100 * (hi - candles[i].Close) / (hi - lo)
	}
	return out
}

// ADX computes the Average Directional Index with Wilder smoothing.
// The first valid value appears at index 2*period-1.
func ADX(candles []models.Candle, period int) []float64 {
	n := len(candles)
	out := nanSeries(n)
	if period <= 0 || n < 2*period {
		return out
	}

	tr := make([]float64, n)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := 1; i < n; i++ {
		c := candles[i]
		p := candles[i-1]
		tr[i] = math.Max(c.High-c.Low, math.Max(math.Abs(c.High-p.Close), math.Abs(c.Low-p.Close)))
		up := c.High - p.High
		down := p.Low - c.Low
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
	}

	// Wilder-smoothed running sums over the first period
	var trS, plusS, minusS float64
	for i := 1; i <= period; i++ {
		trS += tr[i]
		plusS += plusDM[i]
		minusS += minusDM[i]
	}

	dx := nanSeries(n)
	dx[period] = dxValue(trS, plusS, minusS)
	for i := period + 1; i < n; i++ {
		trS = trS - trS/float64(period) + tr[i]
		plusS = plusS - plusS/float64(period) + plusDM[i]
		minusS = minusS - minusS/float64(period) + minusDM[i]
		dx[i] = dxValue(trS, plusS, minusS)
	}

	// ADX is the Wilder average of DX
	var adxSum float64
	for i := period; i < 2*period; i++ {
		adxSum += dx[i]
	}
	prev := adxSum / float64(period)
	out[2*period-1] = prev
	for i := 2 * period; i < n; i++ {
		prev = (prev*float64(period-1) + dx[i]) / float64(period)
		out[i] = prev
	}
	return out
}

func dxValue(trS, plusS, minusS float64) float64 {
	if trS == 0 {
		return 0
	}
	plusDI := 100 * plusS / trS
	minusDI := 100 * minusS / trS
	sum := plusDI + minusDI
	if sum == 0 {
		return 0
	}
	return 100 * math.Abs(plusDI-minusDI) / sum
}

// CrossedAbove reports whether series a crossed above series b between the
// previous and current observation
func CrossedAbove(prevA, prevB, curA, curB float64) bool {
	if !IsValid(prevA) || !IsValid(prevB) || !IsValid(curA) || !IsValid(curB) {
		return false
	}
	return prevA <= prevB && curA > curB
}

// CrossedBelow reports whether series a crossed below series b between the
// previous and current observation
func CrossedBelow(prevA, prevB, curA, curB float64) bool {
	if !IsValid(prevA) || !IsValid(prevB) || !IsValid(curA) || !IsValid(curB) {
		return false
	}
	return prevA >= prevB && curA < curB
}

func windowRange(candles []models.Candle, from, to int) (hi, lo float64) {
	hi = candles[from].High
	lo = candles[from].Low
	for i := from + 1; i <= to; i++ {
		if candles[i].High > hi {
			hi = candles[i].High
		}
		if candles[i].Low < lo {
			lo = candles[i].Low
		}
	}
	return hi, lo
}

// smaSkipNaN averages over the trailing window, treating any NaN in the
// window as disqualifying
func smaSkipNaN(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		var sum float64
		ok := true
		for j := i - period + 1; j <= i; j++ {
			if !IsValid(values[j]) {
				ok = false
				break
			}
			sum += values[j]
		}
		if ok {
			out[i] = sum / float64(period)
		}
	}
	return out
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
