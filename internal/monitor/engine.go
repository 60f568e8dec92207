// Package monitor implements the portfolio monitoring daemon: it polls
// candle history for a fixed set of pairs, evaluates technical analysis
// rules and delivers the resulting signals to the backend webhook.
package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/psantana5/freqtrade-ops/internal/config"
	"github.com/psantana5/freqtrade-ops/internal/logging"
	"github.com/psantana5/freqtrade-ops/internal/metrics"
	"github.com/psantana5/freqtrade-ops/internal/store"
	"github.com/psantana5/freqtrade-ops/pkg/models"
)

const (
	realStrategyName = "MonitoringStrategy"
	mockStrategyName = "MonitoringStrategyMock"

	// Matching the webhook spam guards of the container-side strategy:
	// one signal per pair+type per five minutes, snapshots every five
	// minutes in real mode and every thirty seconds in mock mode.
	signalCooldownInterval       = 5 * time.Minute
	snapshotCooldownInterval     = 5 * time.Minute
	mockSnapshotCooldownInterval = 30 * time.Second

	snapshotCooldownKey = "portfolio_snapshot"
)

// CandleSource provides candle history for a pair
type CandleSource interface {
	PairCandles(ctx context.Context, pair, timeframe string, limit int) (*models.CandleHistory, error)
}

// Sink delivers payloads to the backend
type Sink interface {
	SendSignal(ctx context.Context, sig *models.Signal) error
	SendSnapshot(ctx context.Context, snap *models.PortfolioSnapshot) error
}

// Engine is the monitoring daemon
type Engine struct {
	cfg     config.MonitorConfig
	source  CandleSource
	mock    *MockGenerator
	sink    Sink
	signals store.Store
	metrics *metrics.Collector
	log     *logging.Logger

	signalCooldown   *Cooldown
	snapshotCooldown *Cooldown
}

// New creates a monitoring engine. When cfg.Mock is set the candle source is
// ignored and deterministic mock snapshots are delivered instead.
func New(cfg config.MonitorConfig, source CandleSource, sink Sink, signals store.Store, collector *metrics.Collector, log *logging.Logger) *Engine {
	e := &Engine{
		cfg:              cfg,
		source:           source,
		sink:             sink,
		signals:          signals,
		metrics:          collector,
		log:              log,
		signalCooldown:   NewCooldown(signalCooldownInterval),
		snapshotCooldown: NewCooldown(snapshotCooldownInterval),
	}
	if cfg.Mock {
		e.mock = NewMockGenerator()
		e.snapshotCooldown = NewCooldown(mockSnapshotCooldownInterval)
	}
	return e
}

// Run evaluates the portfolio immediately and then on every interval tick
// until the context is cancelled
func (e *Engine) Run(ctx context.Context) error {
	mode := "real"
	if e.cfg.Mock {
		mode = "mock"
	}
	e.log.Info("Monitor started", map[string]interface{}{
		"mode":      mode,
		"pairs":     len(e.cfg.Pairs),
		"timeframe": e.cfg.Timeframe,
		"interval":  e.cfg.Interval.String(),
	})

	e.EvaluateAll(ctx)

	ticker := time.NewTicker(e.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			e.log.Info("Monitor stopped")
			return ctx.Err()
		case <-ticker.C:
			e.EvaluateAll(ctx)
		}
	}
}

// EvaluateAll runs one evaluation pass over every configured pair
func (e *Engine) EvaluateAll(ctx context.Context) {
	for _, pair := range e.cfg.Pairs {
		if ctx.Err() != nil {
			return
		}
		if e.cfg.Mock {
			e.evaluateMock(ctx, pair)
		} else {
			e.evaluatePair(ctx, pair)
		}
	}
}

func (e *Engine) evaluatePair(ctx context.Context, pair string) {
	history, err := e.source.PairCandles(ctx, pair, e.cfg.Timeframe, e.cfg.CandleLimit)
	if err != nil {
		e.metrics.FetchErrors.Inc()
		e.log.Error("Candle fetch failed", map[string]interface{}{"pair": pair, "error": err.Error()})
		return
	}
	e.metrics.CandlesFetched.Inc()

	assessment, err := Assess(history, realStrategyName, time.Now())
	if err != nil {
		if errors.Is(err, ErrInsufficientData) {
			e.log.Debug("Skipping pair", map[string]interface{}{"pair": pair, "reason": err.Error()})
		} else {
			e.log.Error("Assessment failed", map[string]interface{}{"pair": pair, "error": err.Error()})
		}
		return
	}
	e.metrics.Evaluations.Inc()

	for i := range assessment.Signals {
		e.deliverSignal(ctx, &assessment.Signals[i])
	}
	e.deliverSnapshot(ctx, assessment.Snapshot(e.cfg.Pairs, e.cfg.Timeframe))
}

func (e *Engine) evaluateMock(ctx context.Context, pair string) {
	snapshot, scenario := e.mock.Snapshot(pair, e.cfg.Pairs, e.cfg.Timeframe, time.Now())
	e.metrics.Evaluations.Inc()
	e.log.Info("Mock portfolio signal", map[string]interface{}{
		"coin":     snapshot.Coin,
		"scenario": scenario,
		"rsi":      snapshot.Indicators.RSI,
	})
	e.deliverSnapshot(ctx, snapshot)
}

func (e *Engine) deliverSignal(ctx context.Context, sig *models.Signal) {
	key := sig.Pair + "_" + string(sig.Type)
	if !e.signalCooldown.Ready(key) {
		e.metrics.SignalsSuppressed.WithLabelValues(sig.Pair, string(sig.Type)).Inc()
		return
	}

	e.metrics.SignalsDetected.WithLabelValues(sig.Pair, string(sig.Type)).Inc()

	start := time.Now()
	if err := e.sink.SendSignal(ctx, sig); err != nil {
		e.metrics.WebhooksFailed.Inc()
		e.log.Warn("Signal webhook failed", map[string]interface{}{
			"pair": sig.Pair, "type": string(sig.Type), "error": err.Error(),
		})
		return
	}
	e.metrics.WebhookLatency.Observe(time.Since(start).Seconds())
	e.metrics.WebhooksSent.Inc()

	// Cooldown starts only after a successful delivery
	e.signalCooldown.Mark(key)
	e.log.Info("Signal delivered", map[string]interface{}{
		"pair": sig.Pair, "type": string(sig.Type), "strength": string(sig.Strength),
	})

	if e.signals != nil {
		if err := e.signals.SaveSignal(sig); err != nil {
			e.log.Warn("Failed to persist signal", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (e *Engine) deliverSnapshot(ctx context.Context, snapshot *models.PortfolioSnapshot) {
	if !e.snapshotCooldown.Ready(snapshotCooldownKey) {
		return
	}

	start := time.Now()
	if err := e.sink.SendSnapshot(ctx, snapshot); err != nil {
		e.metrics.WebhooksFailed.Inc()
		e.log.Warn("Snapshot webhook failed", map[string]interface{}{
			"coin": snapshot.Coin, "error": err.Error(),
		})
		return
	}
	e.metrics.WebhookLatency.Observe(time.Since(start).Seconds())
	e.metrics.WebhooksSent.Inc()
	e.snapshotCooldown.Mark(snapshotCooldownKey)
	e.log.Info("Portfolio snapshot delivered", map[string]interface{}{
		"coin": snapshot.Coin, "strength": snapshot.SignalStrength,
	})
}
