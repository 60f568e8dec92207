package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/psantana5/freqtrade-ops/internal/config"
	"github.com/psantana5/freqtrade-ops/pkg/models"
)

func testSignal(pair string, typ models.SignalType, ts time.Time) *models.Signal {
	return &models.Signal{
		Timestamp: ts,
		Pair:      pair,
		Type:      typ,
		Message:   string(typ) + " on " + pair,
		Value:     42.5,
		Strength:  models.StrengthMedium,
		Strategy:  "MonitoringStrategy",
	}
}

// exerciseStore runs the shared behaviour contract against any implementation
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	base := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	sigs := []*models.Signal{
		testSignal("BTC/USDT", models.SignalRSIOversold, base),
		testSignal("BTC/USDT", models.SignalVolumeSpike, base.Add(time.Minute)),
		testSignal("ETH/USDT", models.SignalRSIOversold, base.Add(2*time.Minute)),
	}
	for _, sig := range sigs {
		if err := s.SaveSignal(sig); err != nil {
			t.Fatalf("SaveSignal failed: %v", err)
		}
		if sig.ID == 0 {
			t.Error("SaveSignal should assign an ID")
		}
	}

	all, err := s.ListSignals(10, "")
	if err != nil {
		t.Fatalf("ListSignals failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d signals, want 3", len(all))
	}
	if all[0].Pair != "ETH/USDT" {
		t.Errorf("newest signal should come first, got %s %s", all[0].Pair, all[0].Type)
	}

	btc, err := s.ListSignals(10, "BTC/USDT")
	if err != nil {
		t.Fatalf("filtered ListSignals failed: %v", err)
	}
	if len(btc) != 2 {
		t.Errorf("got %d BTC signals, want 2", len(btc))
	}

	limited, err := s.ListSignals(1, "")
	if err != nil {
		t.Fatalf("limited ListSignals failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit not applied: got %d", len(limited))
	}

	counts, err := s.CountByType()
	if err != nil {
		t.Fatalf("CountByType failed: %v", err)
	}
	if counts[models.SignalRSIOversold] != 2 || counts[models.SignalVolumeSpike] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}

	if err := s.HealthCheck(); err != nil {
		t.Errorf("HealthCheck failed: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "signals.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteStoreValueRoundTrip(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "signals.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	sig := testSignal("BTC/USDT", models.SignalGoldenCross, time.Now().UTC())
	sig.Value = map[string]interface{}{"ma_20": 45100.0, "ma_50": 45000.0}
	if err := s.SaveSignal(sig); err != nil {
		t.Fatal(err)
	}

	got, err := s.ListSignals(1, "")
	if err != nil {
		t.Fatal(err)
	}
	value, ok := got[0].Value.(map[string]interface{})
	if !ok {
		t.Fatalf("value did not round trip as object: %T", got[0].Value)
	}
	if value["ma_20"] != 45100.0 {
		t.Errorf("ma_20 = %v, want 45100", value["ma_20"])
	}
}

func TestNewDefaultsToSQLite(t *testing.T) {
	s, err := New(config.StoreConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "x.db")})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer s.Close()
	if _, ok := s.(*SQLiteStore); !ok {
		t.Errorf("expected *SQLiteStore, got %T", s)
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	if _, err := New(config.StoreConfig{Driver: "cassandra"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
