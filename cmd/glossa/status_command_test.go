package main

import (
	"encoding/json"
	"testing"
)

func TestStatusReportsNotRunning(t *testing.T) {
	out, err := runCLI(t, "--config", writeCLIConfig(t), "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Not running")
	requireContains(t, out, "Catalog is empty")
}

func TestStatusJSON(t *testing.T) {
	out, err := runCLI(t, "--config", writeCLIConfig(t), "status", "--json")
	if err != nil {
		t.Fatalf("status --json: %v", err)
	}
	var report statusReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("unmarshal status output: %v\n%s", err, out)
	}
	if report.Running {
		t.Fatal("expected running=false without a daemon")
	}
	if report.Daemon != nil {
		t.Fatal("expected no daemon detail without a daemon")
	}
}
