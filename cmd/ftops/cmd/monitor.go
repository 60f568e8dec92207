package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/psantana5/freqtrade-ops/internal/freqtrade"
	"github.com/psantana5/freqtrade-ops/internal/metrics"
	"github.com/psantana5/freqtrade-ops/internal/monitor"
	"github.com/psantana5/freqtrade-ops/internal/shutdown"
	"github.com/psantana5/freqtrade-ops/internal/store"
	"github.com/psantana5/freqtrade-ops/internal/webhook"
)

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the portfolio monitoring daemon",
	Long: `Poll candle history from the Freqtrade REST API, evaluate technical
analysis indicators for every configured pair and deliver signals and
portfolio snapshots to the backend webhook. With --mock, deterministic
snapshots are generated instead of reading live candles.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().Bool("mock", false, "generate deterministic mock snapshots instead of live data")
	monitorCmd.Flags().Duration("interval", 0, "evaluation interval (default from config, 60s)")
	monitorCmd.Flags().StringSlice("pairs", nil, "pairs to monitor (default from config)")
	monitorCmd.Flags().String("webhook-url", "", "backend webhook URL")
	monitorCmd.Flags().String("metrics-listen", "", "prometheus metrics listen address, e.g. :9090")

	viper.BindPFlag("monitor.mock", monitorCmd.Flags().Lookup("mock"))
	viper.BindPFlag("monitor.pairs", monitorCmd.Flags().Lookup("pairs"))
	viper.BindPFlag("monitor.webhook_url", monitorCmd.Flags().Lookup("webhook-url"))
	viper.BindPFlag("monitor.metrics_listen", monitorCmd.Flags().Lookup("metrics-listen"))
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if d, _ := cmd.Flags().GetDuration("interval"); d > 0 {
		cfg.Monitor.Interval = d
	}

	log := newLogger(cfg)
	mgr := shutdown.New(15 * time.Second)
	mgr.Register(shutdown.CloseResource(log, "logger"))

	signals, err := store.New(cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open signal store: %w", err)
	}
	mgr.Register(shutdown.CloseResource(signals, "signal store"))

	sender := webhook.NewSender(cfg.Monitor.WebhookURL)
	collector := metrics.NewCollector()

	var source monitor.CandleSource
	if !cfg.Monitor.Mock {
		client := freqtrade.NewClient(cfg.API.URL, cfg.API.Username, cfg.API.Password)
		if err := client.Login(cmd.Context()); err != nil {
			log.Warn("Initial API login failed, will retry on first fetch", map[string]interface{}{"error": err.Error()})
		}
		source = client
	}

	if cfg.Monitor.MetricsListen != "" {
		srv := collector.NewServer(cfg.Monitor.MetricsListen, signals)
		go func() {
			log.Info("Metrics server listening", map[string]interface{}{"addr": cfg.Monitor.MetricsListen})
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("Metrics server failed", map[string]interface{}{"error": err.Error()})
			}
		}()
		mgr.Register(shutdown.StopHTTPServer(srv, "metrics server"))
	}

	engine := monitor.New(cfg.Monitor, source, sender, signals, collector, log)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- engine.Run(ctx) }()

	// Registered last so it runs first on shutdown: the engine must drain
	// before the store and logger close underneath an in-flight pass
	mgr.Register(func(sctx context.Context) error {
		cancel()
		select {
		case err := <-runErr:
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		case <-sctx.Done():
			return sctx.Err()
		}
	})

	mgr.Wait()
	return nil
}
