// Package launcher brings the local Freqtrade deployment up: it prepares the
// log directory, starts the container through docker compose and prints the
// operator-facing status lines. It performs no retries and no recovery;
// failures propagate to the caller's exit code.
package launcher

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/psantana5/freqtrade-ops/internal/compose"
	"github.com/psantana5/freqtrade-ops/internal/logging"
)

// Options configures a launch
type Options struct {
	LogDir      string // created if absent; must not be a regular file
	Service     string // compose service to bring up
	APIEndpoint string // printed for the operator
	APIUsername string
	APIPassword string
	Out         io.Writer
}

// Launcher starts the Freqtrade stack
type Launcher struct {
	runner compose.Runner
	opts   Options
	log    *logging.Logger
}

// New creates a launcher around the given compose runner
func New(runner compose.Runner, opts Options, log *logging.Logger) *Launcher {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Launcher{runner: runner, opts: opts, log: log}
}

// EnsureLogDir creates the log directory if it does not exist. Creation is
// idempotent; a regular file occupying the path is an error.
func (l *Launcher) EnsureLogDir() error {
	info, err := os.Stat(l.opts.LogDir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("log path %s exists and is not a directory", l.opts.LogDir)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat log directory %s: %w", l.opts.LogDir, err)
	}
	if err := os.MkdirAll(l.opts.LogDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory %s: %w", l.opts.LogDir, err)
	}
	return nil
}

// Launch ensures the log directory exists, starts the service detached and
// prints the status lines. The returned code is the compose exit code; the
// directory is always prepared before the container start is attempted.
func (l *Launcher) Launch(ctx context.Context) (int, error) {
	if err := l.EnsureLogDir(); err != nil {
		return 1, err
	}
	l.log.Info("Log directory ready", map[string]interface{}{"path": l.opts.LogDir})

	res := compose.Up(ctx, l.runner, l.opts.Service)
	if res.Code != 0 {
		if res.Err != nil {
			return res.Code, fmt.Errorf("docker compose up failed: %w", res.Err)
		}
		return res.Code, fmt.Errorf("docker compose up exited with code %d", res.Code)
	}

	l.printStatus()
	return 0, nil
}

func (l *Launcher) printStatus() {
	fmt.Fprintf(l.opts.Out, "Freqtrade started in detached mode\n")
	fmt.Fprintf(l.opts.Out, "API server:   %s\n", l.opts.APIEndpoint)
	fmt.Fprintf(l.opts.Out, "API username: %s\n", l.opts.APIUsername)
	fmt.Fprintf(l.opts.Out, "API password: %s\n", l.opts.APIPassword)
	fmt.Fprintf(l.opts.Out, "Logs:         %s\n", l.opts.LogDir)
	fmt.Fprintf(l.opts.Out, "Follow logs with: ftops logs -f\n")
}
