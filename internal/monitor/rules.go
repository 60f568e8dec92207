package monitor

import (
	"errors"
	"fmt"
	"time"

	"github.com/psantana5/freqtrade-ops/internal/indicators"
	"github.com/psantana5/freqtrade-ops/pkg/models"
)

// Indicator periods, matching the strategy running inside the container
const (
	rsiPeriod       = 14
	macdFast        = 12
	macdSlow        = 26
	macdSignal      = 9
	bbPeriod        = 20
	bbMult          = 2.0
	smaFastPeriod   = 20
	smaSlowPeriod   = 50
	stochPeriod     = 5
	stochSmooth     = 3
	williamsPeriod  = 14
	adxPeriod       = 14
	volumeSMAPeriod = 20

	// minCandles is the history needed before indicators are trustworthy
	minCandles = 50
)

// ErrInsufficientData is returned when a pair has too little history
var ErrInsufficientData = errors.New("not enough candles for indicator calculation")

// Assessment is the outcome of evaluating one pair's candle history
type Assessment struct {
	Pair      string
	Signals   []models.Signal
	Summary   models.IndicatorSummary
	Strength  float64
	Timestamp time.Time
}

// Assess computes all indicators over the pair's history and applies the
// signal rules to the latest candle
func Assess(history *models.CandleHistory, strategyName string, now time.Time) (*Assessment, error) {
	n := history.Len()
	if n < minCandles {
		return nil, fmt.Errorf("%w: %s has %d candles, need %d", ErrInsufficientData, history.Pair, n, minCandles)
	}

	pair := history.Pair
	closes := history.Closes()
	volumes := history.Volumes()
	cur, prev := n-1, n-2

	rsi := indicators.RSI(closes, rsiPeriod)
	macd := indicators.MACD(closes, macdFast, macdSlow, macdSignal)
	bb := indicators.Bollinger(closes, bbPeriod, bbMult)
	sma20 := indicators.SMA(closes, smaFastPeriod)
	sma50 := indicators.SMA(closes, smaSlowPeriod)
	ema12 := indicators.EMA(closes, macdFast)
	ema26 := indicators.EMA(closes, macdSlow)
	stoch := indicators.Stochastic(history.Candles, stochPeriod, stochSmooth)
	williams := indicators.WilliamsR(history.Candles, williamsPeriod)
	adx := indicators.ADX(history.Candles, adxPeriod)
	volSMA := indicators.SMA(volumes, volumeSMAPeriod)

	a := &Assessment{Pair: pair, Timestamp: now}

	// RSI extremes
	if indicators.IsValid(rsi[cur]) {
		switch {
		case rsi[cur] < 30:
			strength := models.StrengthMedium
			if rsi[cur] < 25 {
				strength = models.StrengthHigh
			}
			a.add(models.SignalRSIOversold, fmt.Sprintf("%s RSI oversold: %.2f", pair, rsi[cur]), rsi[cur], strength, strategyName, now)
		case rsi[cur] > 70:
			strength := models.StrengthMedium
			if rsi[cur] > 75 {
				strength = models.StrengthHigh
			}
			a.add(models.SignalRSIOverbought, fmt.Sprintf("%s RSI overbought: %.2f", pair, rsi[cur]), rsi[cur], strength, strategyName, now)
		}
	}

	// Golden cross / death cross on SMA20 vs SMA50
	if indicators.CrossedAbove(sma20[prev], sma50[prev], sma20[cur], sma50[cur]) {
		a.add(models.SignalGoldenCross, fmt.Sprintf("%s Golden Cross: MA20 crossed above MA50", pair),
			map[string]float64{"ma_20": sma20[cur], "ma_50": sma50[cur]}, models.StrengthHigh, strategyName, now)
	} else if indicators.CrossedBelow(sma20[prev], sma50[prev], sma20[cur], sma50[cur]) {
		a.add(models.SignalDeathCross, fmt.Sprintf("%s Death Cross: MA20 crossed below MA50", pair),
			map[string]float64{"ma_20": sma20[cur], "ma_50": sma50[cur]}, models.StrengthHigh, strategyName, now)
	}

	// MACD line vs signal line crossovers
	if indicators.CrossedAbove(macd.MACD[prev], macd.Signal[prev], macd.MACD[cur], macd.Signal[cur]) {
		a.add(models.SignalMACDBullish, fmt.Sprintf("%s MACD bullish crossover", pair),
			map[string]float64{"macd": macd.MACD[cur], "signal": macd.Signal[cur]}, models.StrengthMedium, strategyName, now)
	} else if indicators.CrossedBelow(macd.MACD[prev], macd.Signal[prev], macd.MACD[cur], macd.Signal[cur]) {
		a.add(models.SignalMACDBearish, fmt.Sprintf("%s MACD bearish crossover", pair),
			map[string]float64{"macd": macd.MACD[cur], "signal": macd.Signal[cur]}, models.StrengthMedium, strategyName, now)
	}

	// Volume spike against the 20 candle average
	volume := volumes[cur]
	if indicators.IsValid(volSMA[cur]) && volSMA[cur] > 0 && volume > volSMA[cur]*2 {
		a.add(models.SignalVolumeSpike, fmt.Sprintf("%s Volume spike detected: %.0f vs avg %.0f", pair, volume, volSMA[cur]),
			map[string]float64{"volume": volume, "avg_volume": volSMA[cur]}, models.StrengthMedium, strategyName, now)
	}

	// Bollinger band breakouts
	price := closes[cur]
	if indicators.IsValid(bb.Upper[cur]) && indicators.IsValid(bb.Lower[cur]) {
		if price > bb.Upper[cur] {
			a.add(models.SignalBBUpperBreakout, fmt.Sprintf("%s Price broke above upper Bollinger Band", pair),
				map[string]float64{"price": price, "bb_upper": bb.Upper[cur]}, models.StrengthMedium, strategyName, now)
		} else if price < bb.Lower[cur] {
			a.add(models.SignalBBLowerBreakout, fmt.Sprintf("%s Price broke below lower Bollinger Band", pair),
				map[string]float64{"price": price, "bb_lower": bb.Lower[cur]}, models.StrengthMedium, strategyName, now)
		}
	}

	// Stochastic extremes
	if indicators.IsValid(stoch.K[cur]) && indicators.IsValid(stoch.D[cur]) {
		if stoch.K[cur] < 20 && stoch.D[cur] < 20 {
			a.add(models.SignalStochOversold, fmt.Sprintf("%s Stochastic oversold: K=%.2f, D=%.2f", pair, stoch.K[cur], stoch.D[cur]),
				map[string]float64{"stoch_k": stoch.K[cur], "stoch_d": stoch.D[cur]}, models.StrengthMedium, strategyName, now)
		} else if stoch.K[cur] > 80 && stoch.D[cur] > 80 {
			a.add(models.SignalStochOverbought, fmt.Sprintf("%s Stochastic overbought: K=%.2f, D=%.2f", pair, stoch.K[cur], stoch.D[cur]),
				map[string]float64{"stoch_k": stoch.K[cur], "stoch_d": stoch.D[cur]}, models.StrengthMedium, strategyName, now)
		}
	}

	// Williams %R extremes
	if indicators.IsValid(williams[cur]) {
		if williams[cur] < -80 {
			a.add(models.SignalWilliamsOversold, fmt.Sprintf("%s Williams %%R oversold: %.2f", pair, williams[cur]),
				williams[cur], models.StrengthLow, strategyName, now)
		} else if williams[cur] > -20 {
			a.add(models.SignalWilliamsOverbought, fmt.Sprintf("%s Williams %%R overbought: %.2f", pair, williams[cur]),
				williams[cur], models.StrengthLow, strategyName, now)
		}
	}

	// ADX trend strength
	if indicators.IsValid(adx[cur]) && adx[cur] > 25 {
		a.add(models.SignalStrongTrend, fmt.Sprintf("%s Strong trend detected: ADX=%.2f", pair, adx[cur]),
			adx[cur], models.StrengthLow, strategyName, now)
	}

	a.Summary = models.IndicatorSummary{
		RSI:       valueOr(rsi[cur], 50),
		MACD:      macdStatus(macd.MACD[prev], macd.Signal[prev], macd.MACD[cur], macd.Signal[cur]),
		BBPos:     bbPosition(price, bb.Upper[cur], bb.Lower[cur]),
		SMA20:     optional(sma20[cur]),
		SMA50:     optional(sma50[cur]),
		EMA12:     optional(ema12[cur]),
		EMA26:     optional(ema26[cur]),
		Volume24h: optional(volume),
	}
	a.Strength = signalStrength(rsi[cur], a.Summary.MACD, volume, volSMA[cur], len(a.Signals))

	return a, nil
}

func (a *Assessment) add(typ models.SignalType, message string, value interface{}, strength models.Strength, strategy string, now time.Time) {
	a.Signals = append(a.Signals, models.Signal{
		Timestamp: now,
		Pair:      a.Pair,
		Type:      typ,
		Message:   message,
		Value:     value,
		Strength:  strength,
		Strategy:  strategy,
	})
}

// Snapshot builds the portfolio-wide payload for this assessment
func (a *Assessment) Snapshot(portfolio []string, timeframe string) *models.PortfolioSnapshot {
	coins := make([]string, len(portfolio))
	for i, p := range portfolio {
		coins[i] = models.CoinSymbol(p)
	}
	return &models.PortfolioSnapshot{
		Coin:           models.CoinSymbol(a.Pair),
		Indicators:     a.Summary,
		PortfolioCoins: coins,
		Timestamp:      a.Timestamp.UTC().Format(time.RFC3339),
		SignalStrength: a.Strength,
		Pair:           a.Pair,
		Timeframe:      timeframe,
	}
}

func macdStatus(prevMACD, prevSignal, curMACD, curSignal float64) models.MACDStatus {
	switch {
	case indicators.CrossedAbove(prevMACD, prevSignal, curMACD, curSignal):
		return models.MACDBullishCrossover
	case indicators.CrossedBelow(prevMACD, prevSignal, curMACD, curSignal):
		return models.MACDBearishCrossover
	case indicators.IsValid(curMACD) && indicators.IsValid(curSignal) && curMACD < curSignal:
		return models.MACDBearishDivergence
	default:
		return models.MACDNeutral
	}
}

func bbPosition(price, upper, lower float64) models.BBPosition {
	if !indicators.IsValid(upper) || !indicators.IsValid(lower) {
		return models.BBMiddleBand
	}
	switch {
	// Small tolerance for "at" the band
	case price <= lower*1.001:
		return models.BBLowerBandBounce
	case price >= upper*0.999:
		return models.BBUpperBandBounce
	case price > upper:
		return models.BBUpperBand
	case price < lower:
		return models.BBLowerBand
	default:
		return models.BBMiddleBand
	}
}

func signalStrength(rsi float64, macd models.MACDStatus, volume, volSMA float64, signalCount int) float64 {
	score := 0.5
	if indicators.IsValid(rsi) {
		if rsi < 30 {
			score += 0.2
		} else if rsi > 70 {
			score += 0.1
		}
	}
	switch macd {
	case models.MACDBullishCrossover:
		score += 0.15
	case models.MACDBearishCrossover, models.MACDBearishDivergence:
		score += 0.1
	}
	if indicators.IsValid(volSMA) && volSMA > 0 && volume > volSMA*1.5 {
		score += 0.1
	}
	if signalCount > 2 {
		score += 0.05
	}
	if score > 1 {
		return 1
	}
	if score < 0 {
		return 0
	}
	return score
}

func valueOr(v, fallback float64) float64 {
	if indicators.IsValid(v) {
		return v
	}
	return fallback
}

func optional(v float64) *float64 {
	if !indicators.IsValid(v) {
		return nil
	}
	return &v
}
