package deps_test

import (
	"os"
	"path/filepath"
	"testing"

	"glossa/internal/config"
	"glossa/internal/deps"
)

func TestCheckBinariesResolvesFromPath(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "fakeffmpeg")
	if err := os.WriteFile(binary, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}
	t.Setenv("PATH", dir)

	statuses := deps.CheckBinaries([]deps.Requirement{
		{Name: "FFmpeg", Command: "fakeffmpeg"},
		{Name: "Ghost", Command: "glossa-no-such-binary"},
		{Name: "Blank", Command: "   "},
	})
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if !statuses[0].Available || statuses[0].Command != binary {
		t.Fatalf("expected resolved fakeffmpeg, got %+v", statuses[0])
	}
	if statuses[1].Available || statuses[1].Detail == "" {
		t.Fatalf("expected missing binary detail, got %+v", statuses[1])
	}
	if statuses[2].Available || statuses[2].Detail != "command not configured" {
		t.Fatalf("expected unconfigured detail, got %+v", statuses[2])
	}
}

func TestForConfigUsesConfiguredBinary(t *testing.T) {
	cfg := config.Default()
	cfg.Processing.FFmpegBinary = "ffmpeg7"
	reqs := deps.ForConfig(&cfg)
	if len(reqs) != 1 || reqs[0].Command != "ffmpeg7" {
		t.Fatalf("unexpected requirements: %+v", reqs)
	}
	if reqs[0].Optional {
		t.Fatal("ffmpeg must be required")
	}

	if reqs := deps.ForConfig(nil); len(reqs) != 1 || reqs[0].Command != "ffmpeg" {
		t.Fatalf("nil config should default to ffmpeg: %+v", reqs)
	}
}

func TestMissingRequired(t *testing.T) {
	missing := deps.MissingRequired([]deps.Status{
		{Name: "FFmpeg", Available: false},
		{Name: "Extra", Optional: true, Available: false},
		{Name: "Present", Available: true},
	})
	if len(missing) != 1 || missing[0] != "FFmpeg" {
		t.Fatalf("unexpected missing list: %v", missing)
	}
}

func TestCheckDirectories(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StagingDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Storage.Backend = config.StorageBackendFS
	cfg.Storage.RootDir = filepath.Join(t.TempDir(), "missing")

	statuses := deps.CheckDirectories(&cfg)
	if len(statuses) != 3 {
		t.Fatalf("expected 3 directory checks, got %d", len(statuses))
	}
	for _, status := range statuses[:2] {
		if !status.Available {
			t.Fatalf("expected %s to be writable: %+v", status.Name, status)
		}
	}
	if statuses[2].Available {
		t.Fatalf("nonexistent storage root reported writable: %+v", statuses[2])
	}

	if deps.CheckDirectories(nil) != nil {
		t.Fatal("nil config should produce no checks")
	}
}
