// Package compose wraps docker compose invocations for the Freqtrade stack.
// It is a pass-through: output streams to the caller's terminal and the
// child's exit code is surfaced unmodified.
package compose

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Result carries the exit code and error of a compose invocation
type Result struct {
	Code int
	Err  error
}

// Runner executes docker compose subcommands against a fixed compose file
type Runner interface {
	Run(ctx context.Context, args ...string) Result
}

// DockerRunner runs docker compose as a subprocess
type DockerRunner struct {
	File    string // compose file path, passed literally via -f
	Project string // optional -p project name
	DryRun  bool   // print the command instead of executing it
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewDockerRunner creates a runner for the given compose file
func NewDockerRunner(file string) *DockerRunner {
	return &DockerRunner{
		File:   file,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run executes `docker compose -f FILE [-p PROJECT] ARGS...`
func (r *DockerRunner) Run(ctx context.Context, args ...string) Result {
	all := []string{"compose", "-f", r.File}
	if strings.TrimSpace(r.Project) != "" {
		all = append(all, "-p", r.Project)
	}
	all = append(all, args...)

	if r.DryRun {
		fmt.Fprintln(r.stderr(), "+ docker "+strings.Join(all, " "))
		return Result{}
	}

	cmd := exec.CommandContext(ctx, "docker", all...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.stdout()
	cmd.Stderr = r.stderr()

	err := cmd.Run()
	code := 0
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			code = ee.ExitCode()
		} else if ctx.Err() == context.DeadlineExceeded {
			code = 124
		} else {
			code = 1
		}
	}
	return Result{Code: code, Err: err}
}

func (r *DockerRunner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *DockerRunner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

// Up starts a service in detached mode
func Up(ctx context.Context, r Runner, service string) Result {
	return r.Run(ctx, "up", "-d", service)
}

// Down stops and removes the stack
func Down(ctx context.Context, r Runner) Result {
	return r.Run(ctx, "down")
}

// Restart restarts a service
func Restart(ctx context.Context, r Runner, service string) Result {
	return r.Run(ctx, "restart", service)
}

// Logs tails service logs with any extra arguments appended
func Logs(ctx context.Context, r Runner, extra ...string) Result {
	return r.Run(ctx, append([]string{"logs"}, extra...)...)
}

// PS lists stack containers
func PS(ctx context.Context, r Runner) Result {
	return r.Run(ctx, "ps")
}
