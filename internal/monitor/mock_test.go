package monitor

import (
	"reflect"
	"testing"
	"time"
)

func TestMockGeneratorDeterministic(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	portfolio := []string{"BTC/USDT", "ETH/USDT"}

	a := NewMockGenerator()
	b := NewMockGenerator()
	for i := 0; i < 10; i++ {
		snapA, nameA := a.Snapshot("BTC/USDT", portfolio, "5m", now)
		snapB, nameB := b.Snapshot("BTC/USDT", portfolio, "5m", now)
		if nameA != nameB {
			t.Fatalf("cycle %d: scenario %q vs %q", i, nameA, nameB)
		}
		if !reflect.DeepEqual(snapA, snapB) {
			t.Fatalf("cycle %d: snapshots differ", i)
		}
	}
}

func TestMockGeneratorCyclesScenarios(t *testing.T) {
	g := NewMockGenerator()
	now := time.Now()

	want := []string{
		"bullish_trend", "bearish_trend", "neutral_market",
		"oversold_bounce", "overbought_correction", "bullish_trend",
	}
	for i, name := range want {
		_, got := g.Snapshot("BTC/USDT", nil, "5m", now)
		if got != name {
			t.Errorf("cycle %d: scenario = %q, want %q", i, got, name)
		}
	}
}

func TestMockSnapshotFields(t *testing.T) {
	g := NewMockGenerator()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	snap, name := g.Snapshot("ETH/USDT", []string{"BTC/USDT", "ETH/USDT"}, "5m", now)

	if name != "bullish_trend" {
		t.Errorf("first scenario = %q", name)
	}
	if snap.Coin != "ETH" {
		t.Errorf("coin = %q", snap.Coin)
	}
	if snap.Indicators.RSI < 35 || snap.Indicators.RSI > 45 {
		t.Errorf("RSI = %.2f, want within bullish_trend range [35, 45]", snap.Indicators.RSI)
	}
	if snap.SignalStrength != 0.75 {
		t.Errorf("strength = %v, want 0.75", snap.SignalStrength)
	}
	if snap.Timestamp != "2024-06-01T12:00:00Z" {
		t.Errorf("timestamp = %q", snap.Timestamp)
	}
	if snap.Indicators.SMA20 == nil || *snap.Indicators.SMA20 <= 0 {
		t.Error("SMA20 should be populated")
	}
	if got := snap.PortfolioCoins; len(got) != 2 || got[0] != "BTC" || got[1] != "ETH" {
		t.Errorf("portfolio coins = %v", got)
	}
}
