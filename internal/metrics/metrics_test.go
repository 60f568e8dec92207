package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type fakeHealth struct{ err error }

func (f fakeHealth) HealthCheck() error { return f.err }

func TestMetricsEndpoint(t *testing.T) {
	c := NewCollector()
	c.CandlesFetched.Inc()
	c.SignalsDetected.WithLabelValues("BTC/USDT", "rsi_oversold").Inc()

	srv := c.NewServer("127.0.0.1:0", fakeHealth{})
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"ftops_monitor_candles_fetched_total 1",
		`ftops_monitor_signals_detected_total{pair="BTC/USDT",type="rsi_oversold"} 1`,
		"ftops_monitor_uptime_seconds",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestHealthzOK(t *testing.T) {
	c := NewCollector()
	srv := c.NewServer("127.0.0.1:0", fakeHealth{})

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"ok"`) {
		t.Errorf("healthz body = %s", rr.Body.String())
	}
}

func TestHealthzDegraded(t *testing.T) {
	c := NewCollector()
	srv := c.NewServer("127.0.0.1:0", fakeHealth{err: errors.New("db locked")})

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("healthz status = %d, want 503", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "db locked") {
		t.Errorf("healthz body should carry the error: %s", rr.Body.String())
	}
}
