package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"log/slog"

	"github.com/gofrs/flock"

	"glossa/internal/blob"
	"glossa/internal/config"
	"glossa/internal/deps"
	"glossa/internal/ingest"
	"glossa/internal/logging"
	"glossa/internal/store"
)

// Daemon owns the long-running services and enforces single-instance
// execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	blobs    blob.Store
	ingestor *ingest.Ingestor

	lockPath string
	lock     *flock.Flock

	api *apiServer

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running         bool
	PID             int
	DatabasePath    string
	LockFilePath    string
	StorageBackend  string
	RecordingCounts map[store.Status]int
	Dependencies    []deps.Status
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, catalog *store.Store, blobs blob.Store, ingestor *ingest.Ingestor, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || catalog == nil || blobs == nil || ingestor == nil {
		return nil, errors.New("daemon requires config, store, blob store, and ingestor")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "glossad.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    catalog,
		blobs:    blobs,
		ingestor: ingestor,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	srv, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = srv
	return d, nil
}

// Start acquires the daemon lock and launches the API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another glossa daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.api.start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start api server: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("glossa daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop shuts down the API server and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("glossa daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	var errs []error
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if d.blobs != nil {
		if err := d.blobs.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Running reports whether the daemon lifecycle is active.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// APIAddr returns the bound API address, or "" before Start.
func (d *Daemon) APIAddr() string {
	if d.api == nil {
		return ""
	}
	return d.api.addr()
}

// Status reports daemon runtime information.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:        d.running.Load(),
		PID:            os.Getpid(),
		DatabasePath:   d.cfg.DatabasePath(),
		LockFilePath:   d.lockPath,
		StorageBackend: d.cfg.Storage.Backend,
		Dependencies:   deps.CheckBinaries(deps.ForConfig(d.cfg)),
	}
	status.Dependencies = append(status.Dependencies, deps.CheckDirectories(d.cfg)...)
	if counts, err := d.store.CountRecordings(ctx); err == nil {
		status.RecordingCounts = counts
	} else {
		d.logger.Warn("failed to count recordings", logging.Error(err))
	}
	return status
}
