// Package daemonrun wires the daemon process runtime: logging, pid file,
// store, blob backend, and signal-driven shutdown. The glossad binary and
// the CLI foreground command both launch through Run.
package daemonrun

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"glossa/internal/blob"
	"glossa/internal/config"
	"glossa/internal/daemon"
	"glossa/internal/deps"
	"glossa/internal/ingest"
	"glossa/internal/logging"
	"glossa/internal/store"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel string
}

// Run starts the glossa daemon runtime loop and blocks until the context
// is cancelled or a termination signal arrives.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	loggerOpts := logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", filepath.Join(cfg.Paths.LogDir, "glossa.log")},
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		loggerOpts.Level = level
	}
	logger, err := logging.New(loggerOpts)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	if missing := deps.MissingRequired(deps.CheckBinaries(deps.ForConfig(cfg))); len(missing) > 0 {
		logger.Warn("required tools missing; uploads in compressed formats will fail",
			logging.String("missing", strings.Join(missing, ", ")),
		)
	}
	for _, dir := range deps.CheckDirectories(cfg) {
		if !dir.Available {
			logger.Warn("directory check failed",
				logging.String("name", dir.Name),
				logging.String("detail", dir.Detail),
			)
		}
	}

	pidPath := filepath.Join(cfg.Paths.LogDir, "glossad.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	catalog, err := store.Open(cfg)
	if err != nil {
		logger.Error("open catalog store", logging.Error(err))
		return err
	}

	blobs, err := blob.New(signalCtx, cfg)
	if err != nil {
		logger.Error("open blob store", logging.Error(err))
		_ = catalog.Close()
		return err
	}

	ingestor := ingest.NewIngestor(cfg, catalog, blobs, logger)
	d, err := daemon.New(cfg, catalog, blobs, ingestor, logger)
	if err != nil {
		_ = catalog.Close()
		_ = blobs.Close()
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		return err
	}

	<-signalCtx.Done()
	logger.Info("glossa daemon shutting down")
	return nil
}

// PIDFilePath returns the location of the daemon pid file for a config.
func PIDFilePath(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.LogDir, "glossad.pid")
}

// ReadPID reads the daemon pid file. Returns 0 when no daemon is recorded.
func ReadPID(cfg *config.Config) (int, error) {
	data, err := os.ReadFile(PIDFilePath(cfg))
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parse pid file: %w", err)
	}
	return pid, nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
