package main

import (
	"path/filepath"
	"testing"
)

func TestContributorAddAndList(t *testing.T) {
	configPath := writeCLIConfig(t)

	out, err := runCLI(t, "--config", configPath, "contributor", "add", "Amara Banda", "--location", "Lilongwe")
	if err != nil {
		t.Fatalf("contributor add: %v", err)
	}
	requireContains(t, out, "Added contributor Amara Banda")

	out, err = runCLI(t, "--config", configPath, "contributor", "list")
	if err != nil {
		t.Fatalf("contributor list: %v", err)
	}
	requireContains(t, out, "Amara Banda")
	requireContains(t, out, "Lilongwe")

	out, err = runCLI(t, "--config", configPath, "contributor", "list", "-q", "nobody")
	if err != nil {
		t.Fatalf("contributor list filtered: %v", err)
	}
	requireContains(t, out, "No contributors found")
}

func TestRecordingLifecycleViaCLI(t *testing.T) {
	configPath := writeCLIConfig(t)

	out, err := runCLI(t, "--config", configPath, "contributor", "add", "Amara Banda")
	if err != nil {
		t.Fatalf("contributor add: %v", err)
	}
	contributorID := extractID(t, out, "Added contributor")

	clip := filepath.Join(t.TempDir(), "greeting.wav")
	writeToneWAV(t, clip)

	out, err = runCLI(t, "--config", configPath, "recording", "add", clip,
		"--contributor", contributorID,
		"--title", "Morning greeting",
		"--transcription", "moni mawa",
	)
	if err != nil {
		t.Fatalf("recording add: %v\n%s", err, out)
	}
	requireContains(t, out, "Stored recording")

	out, err = runCLI(t, "--config", configPath, "recording", "list", "-q", "moni")
	if err != nil {
		t.Fatalf("recording list: %v", err)
	}
	requireContains(t, out, "Morning greeting")
	requireContains(t, out, "stored")

	listOut, err := runCLI(t, "--config", configPath, "recording", "list")
	if err != nil {
		t.Fatalf("recording list: %v", err)
	}
	recordingID := firstTableID(t, listOut)

	out, err = runCLI(t, "--config", configPath, "recording", "list", "--json")
	if err != nil {
		t.Fatalf("recording list --json: %v", err)
	}
	requireContains(t, out, `"recordings"`)
	requireContains(t, out, recordingID)

	out, err = runCLI(t, "--config", configPath, "recording", "show", recordingID)
	if err != nil {
		t.Fatalf("recording show: %v", err)
	}
	requireContains(t, out, "Transcription: moni mawa")
	requireContains(t, out, "Sample rate:   16000 Hz")

	out, err = runCLI(t, "--config", configPath, "recording", "remove", recordingID)
	if err != nil {
		t.Fatalf("recording remove: %v", err)
	}
	requireContains(t, out, "Removed recording")

	out, err = runCLI(t, "--config", configPath, "recording", "list")
	if err != nil {
		t.Fatalf("recording list after remove: %v", err)
	}
	requireContains(t, out, "No recordings found")
}

func TestRecordingAddRequiresContributor(t *testing.T) {
	configPath := writeCLIConfig(t)
	clip := filepath.Join(t.TempDir(), "greeting.wav")
	writeToneWAV(t, clip)

	if _, err := runCLI(t, "--config", configPath, "recording", "add", clip); err == nil {
		t.Fatal("recording add without --contributor succeeded")
	}
}
