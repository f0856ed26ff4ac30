package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"glossa/internal/api"
	"glossa/internal/blob"
	"glossa/internal/ingest"
	"glossa/internal/logging"
	"glossa/internal/testsupport"
)

func TestDaemonLifecycle(t *testing.T) {
	d, _ := newTestDaemon(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if !d.Running() {
		t.Fatal("daemon not running after Start")
	}
	if err := d.Start(ctx); err == nil {
		t.Fatal("second Start did not fail")
	}
	if d.APIAddr() == "" {
		t.Fatal("no API address after Start")
	}

	d.Stop()
	if d.Running() {
		t.Fatal("daemon still running after Stop")
	}
}

func TestDaemonLockExcludesSecondInstance(t *testing.T) {
	d, cfg := newTestDaemon(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer d.Stop()

	st := testsupport.MustOpenStore(t, cfg)
	blobs, err := blob.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open blob store: %v", err)
	}
	t.Cleanup(func() { _ = blobs.Close() })
	ingestor := ingest.NewIngestor(cfg, st, blobs, logging.NewNop())
	second, err := New(cfg, st, blobs, ingestor, logging.NewNop())
	if err != nil {
		t.Fatalf("New second daemon: %v", err)
	}
	if err := second.Start(ctx); err == nil {
		second.Stop()
		t.Fatal("second instance acquired the lock")
	}
}

func TestDaemonServesStatusOverHTTP(t *testing.T) {
	d, cfg := newTestDaemon(t)
	cfg.Paths.APIToken = "secret"
	// Rebuild the server so the token takes effect.
	srv, err := newAPIServer(cfg, d, logging.NewNop())
	if err != nil {
		t.Fatalf("newAPIServer: %v", err)
	}
	d.api = srv

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer d.Stop()

	client := &http.Client{Timeout: 5 * time.Second}
	url := fmt.Sprintf("http://%s/api/status", d.APIAddr())

	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET without token: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated request = %d", resp.StatusCode)
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer secret")
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("GET with token: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("authenticated request = %d", resp.StatusCode)
	}
	var status api.DaemonStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !status.Running {
		t.Fatal("status does not report running daemon")
	}
}
