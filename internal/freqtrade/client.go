// Package freqtrade is a minimal client for the Freqtrade REST API exposed
// by the container the launcher starts. It covers exactly what the monitor
// needs: login, health probe, runtime config and candle history.
package freqtrade

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/psantana5/freqtrade-ops/pkg/models"
)

// Client manages communication with the Freqtrade API server
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
}

// NewClient creates a client for the given API server
func NewClient(baseURL, username, password string) *Client {
	return &Client{
		baseURL:  baseURL,
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Login obtains a JWT access token using basic auth credentials
func (c *Client) Login(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/token/login", bytes.NewReader(nil))
	if err != nil {
		return fmt.Errorf("failed to create login request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach Freqtrade API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("login failed (status %d): %s", resp.StatusCode, string(body))
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to parse login response: %w", err)
	}

	c.mu.Lock()
	c.accessToken = lr.AccessToken
	c.mu.Unlock()
	return nil
}

// get performs an authenticated GET, logging in first if needed and once
// more after a 401 in case the token expired
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	c.mu.Lock()
	token := c.accessToken
	c.mu.Unlock()

	if token == "" {
		if err := c.Login(ctx); err != nil {
			return err
		}
	}

	for attempt := 0; attempt < 2; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		c.mu.Lock()
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
		c.mu.Unlock()

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request to %s failed: %w", path, err)
		}

		if resp.StatusCode == http.StatusUnauthorized && attempt == 0 {
			resp.Body.Close()
			if err := c.Login(ctx); err != nil {
				return err
			}
			continue
		}

		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("API error on %s (status %d): %s", path, resp.StatusCode, string(body))
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to parse response from %s: %w", path, err)
		}
		return nil
	}
	return fmt.Errorf("unauthorized after token refresh on %s", path)
}

// Ping probes the API server. Ping does not require authentication.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/ping", nil)
	if err != nil {
		return fmt.Errorf("failed to create ping request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach Freqtrade API: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping returned status %d", resp.StatusCode)
	}
	return nil
}

// BotConfig is the subset of /show_config the status command displays
type BotConfig struct {
	Version          string `json:"version"`
	Strategy         string `json:"strategy"`
	State            string `json:"state"`
	DryRun           bool   `json:"dry_run"`
	Timeframe        string `json:"timeframe"`
	Exchange         string `json:"exchange"`
	StakeCurrency    string `json:"stake_currency"`
	MaxOpenTrades    int    `json:"max_open_trades"`
	RunMode          string `json:"runmode"`
	BotName          string `json:"bot_name"`
}

// ShowConfig fetches the running bot configuration
func (c *Client) ShowConfig(ctx context.Context) (*BotConfig, error) {
	var cfg BotConfig
	if err := c.get(ctx, "/api/v1/show_config", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type pairCandlesResponse struct {
	Columns []string        `json:"columns"`
	Data    [][]interface{} `json:"data"`
}

// PairCandles fetches up to limit candles for a pair and timeframe,
// oldest first
func (c *Client) PairCandles(ctx context.Context, pair, timeframe string, limit int) (*models.CandleHistory, error) {
	path := fmt.Sprintf("/api/v1/pair_candles?pair=%s&timeframe=%s&limit=%d",
		url.QueryEscape(pair), url.QueryEscape(timeframe), limit)

	var resp pairCandlesResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}

	idx := make(map[string]int, len(resp.Columns))
	for i, col := range resp.Columns {
		idx[col] = i
	}
	for _, col := range []string{"date", "open", "high", "low", "close", "volume"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("pair_candles response missing column %q", col)
		}
	}

	history := &models.CandleHistory{
		Pair:      pair,
		Timeframe: timeframe,
		Candles:   make([]models.Candle, 0, len(resp.Data)),
	}
	for i, row := range resp.Data {
		candle, err := parseCandle(row, idx)
		if err != nil {
			return nil, fmt.Errorf("invalid candle at row %d: %w", i, err)
		}
		history.Candles = append(history.Candles, candle)
	}
	return history, nil
}

func parseCandle(row []interface{}, idx map[string]int) (models.Candle, error) {
	var c models.Candle
	var err error

	for name, i := range idx {
		if i >= len(row) {
			return c, fmt.Errorf("row has %d fields, column %q expects index %d", len(row), name, i)
		}
	}
	if c.Timestamp, err = parseDate(row[idx["date"]]); err != nil {
		return c, err
	}
	fields := []struct {
		name string
		dst  *float64
	}{
		{"open", &c.Open},
		{"high", &c.High},
		{"low", &c.Low},
		{"close", &c.Close},
		{"volume", &c.Volume},
	}
	for _, f := range fields {
		v, ok := toFloat(row[idx[f.name]])
		if !ok {
			return c, fmt.Errorf("column %q is not numeric: %v", f.name, row[idx[f.name]])
		}
		*f.dst = v
	}
	return c, nil
}

// parseDate accepts the formats Freqtrade has shipped over time: RFC3339
// strings, space-separated UTC strings and millisecond epoch numbers
func parseDate(v interface{}) (time.Time, error) {
	switch d := v.(type) {
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05-07:00", "2006-01-02 15:04:05"} {
			if ts, err := time.Parse(layout, d); err == nil {
				return ts, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized date format %q", d)
	case float64:
		return time.UnixMilli(int64(d)).UTC(), nil
	case json.Number:
		ms, err := strconv.ParseInt(d.String(), 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("unrecognized date value %v", d)
		}
		return time.UnixMilli(ms).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("unrecognized date type %T", v)
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
