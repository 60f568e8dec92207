package launcher

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/psantana5/freqtrade-ops/internal/compose"
	"github.com/psantana5/freqtrade-ops/internal/logging"
)

// fakeRunner records compose invocations and returns a canned result
type fakeRunner struct {
	calls  [][]string
	result compose.Result
}

func (f *fakeRunner) Run(ctx context.Context, args ...string) compose.Result {
	f.calls = append(f.calls, args)
	return f.result
}

func testLogger() *logging.Logger {
	log := logging.New(logging.ERROR, false)
	log.SetOutput(&bytes.Buffer{})
	return log
}

func newTestLauncher(t *testing.T, runner compose.Runner, logDir string) (*Launcher, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	l := New(runner, Options{
		LogDir:      logDir,
		Service:     "freqtrade",
		APIEndpoint: "http://127.0.0.1:8080",
		APIUsername: "freqtrade",
		APIPassword: "freqtrade",
		Out:         &out,
	}, testLogger())
	return l, &out
}

func TestLaunchCreatesLogDirAndStartsService(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "user_data", "logs")
	runner := &fakeRunner{}
	l, out := newTestLauncher(t, runner, logDir)

	code, err := l.Launch(context.Background())
	if err != nil {
		t.Fatalf("Launch failed: %v", err)
	}
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}

	info, err := os.Stat(logDir)
	if err != nil || !info.IsDir() {
		t.Fatalf("log directory not created: %v", err)
	}

	if len(runner.calls) != 1 {
		t.Fatalf("expected 1 compose call, got %d", len(runner.calls))
	}
	got := strings.Join(runner.calls[0], " ")
	if got != "up -d freqtrade" {
		t.Errorf("compose args = %q, want %q", got, "up -d freqtrade")
	}

	status := out.String()
	for _, want := range []string{"http://127.0.0.1:8080", "freqtrade"} {
		if !strings.Contains(status, want) {
			t.Errorf("status output missing %q:\n%s", want, status)
		}
	}
}

func TestLaunchIsIdempotent(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")
	runner := &fakeRunner{}
	l, _ := newTestLauncher(t, runner, logDir)

	for i := 0; i < 2; i++ {
		if code, err := l.Launch(context.Background()); err != nil || code != 0 {
			t.Fatalf("run %d: code=%d err=%v", i+1, code, err)
		}
	}

	info, err := os.Stat(logDir)
	if err != nil || !info.IsDir() {
		t.Fatalf("log directory missing after second run: %v", err)
	}
}

func TestLaunchFailsBeforeComposeWhenLogPathIsFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs")
	if err := os.WriteFile(logPath, []byte("occupied"), 0644); err != nil {
		t.Fatal(err)
	}

	runner := &fakeRunner{}
	l, _ := newTestLauncher(t, runner, logPath)

	code, err := l.Launch(context.Background())
	if err == nil {
		t.Fatal("expected error when log path is a regular file")
	}
	if code == 0 {
		t.Error("exit code should be non-zero")
	}
	if len(runner.calls) != 0 {
		t.Error("compose must not be invoked when log directory setup fails")
	}
}

func TestLaunchPropagatesComposeExitCode(t *testing.T) {
	runner := &fakeRunner{result: compose.Result{Code: 17}}
	l, _ := newTestLauncher(t, runner, filepath.Join(t.TempDir(), "logs"))

	code, err := l.Launch(context.Background())
	if err == nil {
		t.Fatal("expected error on compose failure")
	}
	if code != 17 {
		t.Errorf("exit code = %d, want 17 (propagated unmodified)", code)
	}
}
