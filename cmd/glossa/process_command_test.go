package main

import (
	"os"
	"path/filepath"
	"testing"

	"glossa/internal/pipeline"
)

func TestProcessCommandWritesCleanWAV(t *testing.T) {
	configPath := writeCLIConfig(t)
	workDir := t.TempDir()
	input := filepath.Join(workDir, "field.wav")
	writeToneWAV(t, input)
	output := filepath.Join(workDir, "clean.wav")

	out, err := runCLI(t, "--config", configPath, "process", input, output)
	if err != nil {
		t.Fatalf("process: %v\n%s", err, out)
	}
	requireContains(t, out, "Sample rate: 16000 Hz")
	requireContains(t, out, "Duration:")

	if _, err := os.Stat(output); err != nil {
		t.Fatalf("expected clean output at %s: %v", output, err)
	}
	if _, err := os.Stat(pipeline.SidecarPath(output)); err != nil {
		t.Fatalf("expected sidecar next to output: %v", err)
	}
}

func TestProcessCommandRejectsMissingInput(t *testing.T) {
	configPath := writeCLIConfig(t)
	workDir := t.TempDir()

	_, err := runCLI(t, "--config", configPath, "process",
		filepath.Join(workDir, "absent.wav"), filepath.Join(workDir, "clean.wav"))
	if err == nil {
		t.Fatal("expected error for missing input")
	}
}
