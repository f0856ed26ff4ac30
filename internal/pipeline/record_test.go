package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSidecarPath(t *testing.T) {
	cases := map[string]string{
		"/data/out/clip.wav":  "/data/out/clip_metadata.json",
		"clip.wav":            "clip_metadata.json",
		"/data/out/noext":     "/data/out/noext_metadata.json",
		"/data/out/a.b.c.wav": "/data/out/a.b.c_metadata.json",
	}
	for in, want := range cases {
		if got := SidecarPath(in); got != want {
			t.Fatalf("SidecarPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteSidecarJSONShape(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "clip.wav")

	original := toneClip(44100, 2.0, 0, 2.0, 0.5, 0)
	final := toneClip(16000, 1.5, 0, 1.5, 0.5, 0)
	record := newRecord("/in/raw.mp3", outputPath, original, final,
		[]string{StepDecode, StepVAD, StepEncode})

	if err := writeSidecar(record, outputPath); err != nil {
		t.Fatalf("writeSidecar returned error: %v", err)
	}

	data, err := os.ReadFile(SidecarPath(outputPath))
	if err != nil {
		t.Fatalf("read sidecar: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal sidecar: %v", err)
	}
	for _, key := range []string{
		"input_file", "output_file", "original_sr", "original_duration_sec",
		"final_sr", "final_duration_sec", "processing_date_utc", "processing_steps",
	} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("sidecar missing key %q", key)
		}
	}
	if decoded["original_sr"].(float64) != 44100 {
		t.Fatalf("unexpected original_sr: %v", decoded["original_sr"])
	}
	if decoded["final_sr"].(float64) != 16000 {
		t.Fatalf("unexpected final_sr: %v", decoded["final_sr"])
	}

	if _, err := time.Parse(time.RFC3339, decoded["processing_date_utc"].(string)); err != nil {
		t.Fatalf("processing_date_utc not RFC3339: %v", err)
	}
}
