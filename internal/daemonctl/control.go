// Package daemonctl starts, stops, and probes the daemon process on behalf
// of the CLI, using the pid file for signalling and the HTTP API for
// readiness checks.
package daemonctl

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"glossa/internal/api"
	"glossa/internal/config"
	"glossa/internal/daemonrun"
)

// StartState describes the outcome of a start request.
type StartState string

const (
	StartStateStarted        StartState = "started"
	StartStateAlreadyRunning StartState = "already_running"
)

// StartResult captures daemon start orchestration state.
type StartResult struct {
	State    StartState
	Launched bool
}

// Launch starts a detached glossa daemon process.
func Launch(executablePath, configPath string) error {
	if strings.TrimSpace(executablePath) == "" {
		return fmt.Errorf("resolve executable: executable path is empty")
	}

	args := []string{"daemon", "run"}
	if path := strings.TrimSpace(configPath); path != "" {
		args = append(args, "--config", path)
	}

	proc := exec.Command(executablePath, args...)
	if err := proc.Start(); err != nil {
		return fmt.Errorf("launch daemon: %w", err)
	}
	return proc.Process.Release()
}

// WaitForStatus polls the daemon API until it answers or the timeout expires.
func WaitForStatus(ctx context.Context, cfg *config.Config, timeout time.Duration) (*api.DaemonStatus, error) {
	client := NewClient(cfg)
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		status, err := client.Status(ctx)
		if err == nil {
			return status, nil
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("timeout waiting for daemon")
	}
	return nil, fmt.Errorf("daemon failed to start: %w", lastErr)
}

// EnsureStarted launches the daemon if it is not already answering.
func EnsureStarted(ctx context.Context, cfg *config.Config, executablePath, configPath string, waitTimeout time.Duration) (StartResult, error) {
	client := NewClient(cfg)
	if status, err := client.Status(ctx); err == nil && status.Running {
		return StartResult{State: StartStateAlreadyRunning}, nil
	}
	if err := Launch(executablePath, configPath); err != nil {
		return StartResult{}, err
	}
	if _, err := WaitForStatus(ctx, cfg, waitTimeout); err != nil {
		return StartResult{}, err
	}
	return StartResult{State: StartStateStarted, Launched: true}, nil
}

// Stop signals the daemon recorded in the pid file and waits for it to exit.
func Stop(cfg *config.Config, timeout time.Duration) error {
	pid, err := daemonrun.ReadPID(cfg)
	if err != nil {
		return err
	}
	if pid == 0 {
		return fmt.Errorf("no daemon pid file found; is the daemon running?")
	}
	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
		if err == syscall.ESRCH {
			return fmt.Errorf("daemon pid %d is not running (stale pid file)", pid)
		}
		return fmt.Errorf("signal daemon: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if syscall.Kill(pid, 0) != nil {
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	return fmt.Errorf("daemon pid %d did not exit within %s", pid, timeout)
}

// ProcessInfo reports whether a daemon process appears to be running and
// its pid when available.
func ProcessInfo(cfg *config.Config) (bool, int) {
	pid, err := daemonrun.ReadPID(cfg)
	if err != nil || pid == 0 {
		return false, 0
	}
	if syscall.Kill(pid, 0) != nil {
		return false, pid
	}
	return true, pid
}
