package models

import (
	"strings"
	"time"
)

// SignalType identifies the technical analysis condition that fired
type SignalType string

const (
	SignalRSIOversold        SignalType = "rsi_oversold"
	SignalRSIOverbought      SignalType = "rsi_overbought"
	SignalGoldenCross        SignalType = "golden_cross"
	SignalDeathCross         SignalType = "death_cross"
	SignalMACDBullish        SignalType = "macd_bullish"
	SignalMACDBearish        SignalType = "macd_bearish"
	SignalVolumeSpike        SignalType = "volume_spike"
	SignalBBUpperBreakout    SignalType = "bb_upper_breakout"
	SignalBBLowerBreakout    SignalType = "bb_lower_breakout"
	SignalStochOversold      SignalType = "stochastic_oversold"
	SignalStochOverbought    SignalType = "stochastic_overbought"
	SignalWilliamsOversold   SignalType = "williams_oversold"
	SignalWilliamsOverbought SignalType = "williams_overbought"
	SignalStrongTrend        SignalType = "strong_trend"
)

// Strength classifies how actionable a signal is
type Strength string

const (
	StrengthLow    Strength = "low"
	StrengthMedium Strength = "medium"
	StrengthHigh   Strength = "high"
)

// Signal is one detected technical analysis event for a pair
type Signal struct {
	ID        int64       `json:"id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Pair      string      `json:"pair"`
	Type      SignalType  `json:"signal_type"`
	Message   string      `json:"message"`
	Value     interface{} `json:"value"`
	Strength  Strength    `json:"strength"`
	Strategy  string      `json:"strategy"`
}

// MACDStatus describes the MACD line relative to its signal line
type MACDStatus string

const (
	MACDBullishCrossover  MACDStatus = "bullish_crossover"
	MACDBearishCrossover  MACDStatus = "bearish_crossover"
	MACDBearishDivergence MACDStatus = "bearish_divergence"
	MACDNeutral           MACDStatus = "neutral"
)

// BBPosition describes where price sits relative to the Bollinger bands
type BBPosition string

const (
	BBLowerBandBounce BBPosition = "lower_band_bounce"
	BBUpperBandBounce BBPosition = "upper_band_bounce"
	BBUpperBand       BBPosition = "upper_band"
	BBLowerBand       BBPosition = "lower_band"
	BBMiddleBand      BBPosition = "middle_band"
)

// IndicatorSummary is the condensed indicator view shipped with a snapshot.
// Pointer fields are omitted when the indicator has not warmed up yet.
type IndicatorSummary struct {
	RSI       float64    `json:"rsi"`
	MACD      MACDStatus `json:"macd"`
	BBPos     BBPosition `json:"bb_position"`
	SMA20     *float64   `json:"sma_20"`
	SMA50     *float64   `json:"sma_50"`
	EMA12     *float64   `json:"ema_12"`
	EMA26     *float64   `json:"ema_26"`
	Volume24h *float64   `json:"volume_24h"`
}

// PortfolioSnapshot is the portfolio-wide payload delivered to the backend
type PortfolioSnapshot struct {
	Coin           string           `json:"coin"`
	Indicators     IndicatorSummary `json:"indicators"`
	PortfolioCoins []string         `json:"portfolio_coins"`
	Timestamp      string           `json:"timestamp"`
	SignalStrength float64          `json:"signal_strength"`
	Pair           string           `json:"pair"`
	Timeframe      string           `json:"timeframe"`
}

// CoinSymbol extracts the base coin from a trading pair (BTC/USDT -> BTC)
func CoinSymbol(pair string) string {
	if i := strings.Index(pair, "/"); i > 0 {
		return pair[:i]
	}
	return pair
}
