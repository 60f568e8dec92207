package models

import "time"

// Candle is a single OHLCV bar for a trading pair
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// CandleHistory is the ordered candle series for one pair (oldest first)
type CandleHistory struct {
	Pair      string   `json:"pair"`
	Timeframe string   `json:"timeframe"`
	Candles   []Candle `json:"candles"`
}

// Closes returns the close price series in candle order
func (h *CandleHistory) Closes() []float64 {
	out := make([]float64, len(h.Candles))
	for i, c := range h.Candles {
		out[i] = c.Close
	}
	return out
}

// Volumes returns the volume series in candle order
func (h *CandleHistory) Volumes() []float64 {
	out := make([]float64, len(h.Candles))
	for i, c := range h.Candles {
		out[i] = c.Volume
	}
	return out
}

// Len returns the number of candles in the history
func (h *CandleHistory) Len() int {
	return len(h.Candles)
}
