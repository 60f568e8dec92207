// Package webhook delivers portfolio signal payloads to the backend
// integration endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/psantana5/freqtrade-ops/internal/retry"
	"github.com/psantana5/freqtrade-ops/pkg/models"
)

// Sender posts JSON payloads to a fixed webhook URL
type Sender struct {
	url        string
	httpClient *http.Client
	retryCfg   retry.Config
}

// NewSender creates a sender for the given webhook URL
func NewSender(url string) *Sender {
	return &Sender{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		retryCfg: retry.DefaultConfig(),
	}
}

// SetRetryConfig overrides the default retry behaviour
func (s *Sender) SetRetryConfig(cfg retry.Config) {
	s.retryCfg = cfg
}

// URL returns the configured webhook URL
func (s *Sender) URL() string {
	return s.url
}

// SendSnapshot delivers a portfolio snapshot. Connection-level and 5xx
// failures are retried with backoff; anything else fails immediately.
func (s *Sender) SendSnapshot(ctx context.Context, snapshot *models.PortfolioSnapshot) error {
	return s.send(ctx, snapshot)
}

// SendSignal delivers a single pair signal
func (s *Sender) SendSignal(ctx context.Context, signal *models.Signal) error {
	return s.send(ctx, signal)
}

func (s *Sender) send(ctx context.Context, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	err = s.post(ctx, data)
	if err == nil || !retry.IsRetryable(err) {
		return err
	}
	return retry.Do(ctx, s.retryCfg, func() error {
		return s.post(ctx, data)
	})
}

func (s *Sender) post(ctx context.Context, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
