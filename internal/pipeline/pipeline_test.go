package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func processOpts(t *testing.T) Options {
	t.Helper()
	return Options{
		TargetSampleRate: 16000,
		WorkDir:          t.TempDir(),
	}
}

func TestProcessToneClipEndToEnd(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "raw.wav")
	outputPath := filepath.Join(dir, "clean", "raw.wav")
	writeClip(t, inputPath, toneClip(16000, 3.0, 0.5, 2.5, 0.5, 0.002))

	proc := NewProcessor(processOpts(t), nil)
	result, err := proc.Process(context.Background(), inputPath, outputPath)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	if result.SampleRate != 16000 {
		t.Fatalf("unexpected sample rate %d", result.SampleRate)
	}
	// The clip holds ~2 s of tone; stitching trims the silent lead and tail.
	if result.DurationSeconds < 1.5 || result.DurationSeconds > 2.5 {
		t.Fatalf("unexpected duration %v", result.DurationSeconds)
	}
	for _, step := range []string{StepDecode, StepVAD, StepStitch, StepNoiseProfile, StepNormalize, StepEncode} {
		if !slices.Contains(result.Steps, step) {
			t.Fatalf("steps %v missing %q", result.Steps, step)
		}
	}
	if slices.Contains(result.Steps, StepResample) {
		t.Fatalf("identity rate must not record a resample step: %v", result.Steps)
	}

	loaded, err := loadWAV(outputPath)
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	if loaded.Rate != 16000 {
		t.Fatalf("output rate %d", loaded.Rate)
	}
	if peak := loaded.Peak(); peak > 0.96 {
		t.Fatalf("output peak %v exceeds target headroom", peak)
	}

	var record ProcessingRecord
	data, err := os.ReadFile(SidecarPath(outputPath))
	if err != nil {
		t.Fatalf("read sidecar: %v", err)
	}
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("parse sidecar: %v", err)
	}
	if record.FinalSampleRate != result.SampleRate {
		t.Fatalf("sidecar rate %d, result %d", record.FinalSampleRate, result.SampleRate)
	}
	if math.Abs(record.FinalDurationSec-result.DurationSeconds) > 1e-9 {
		t.Fatalf("sidecar duration %v, result %v", record.FinalDurationSec, result.DurationSeconds)
	}
	if !slices.Equal(record.ProcessingSteps, result.Steps) {
		t.Fatalf("sidecar steps %v, result %v", record.ProcessingSteps, result.Steps)
	}
	if record.OriginalSampleRate != 16000 || math.Abs(record.OriginalDurationSec-3.0) > 1e-6 {
		t.Fatalf("sidecar original facts wrong: %d Hz, %v s", record.OriginalSampleRate, record.OriginalDurationSec)
	}
}

func TestProcessResamplesToTarget(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "raw.wav")
	outputPath := filepath.Join(dir, "clean.wav")
	writeClip(t, inputPath, toneClip(44100, 2.0, 0, 2.0, 0.5, 0.002))

	opts := processOpts(t)
	proc := NewProcessor(opts, nil)
	result, err := proc.Process(context.Background(), inputPath, outputPath)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if result.SampleRate != opts.TargetSampleRate {
		t.Fatalf("result rate %d, want %d", result.SampleRate, opts.TargetSampleRate)
	}
	if !slices.Contains(result.Steps, StepResample) {
		t.Fatalf("expected resample step in %v", result.Steps)
	}

	loaded, err := loadWAV(outputPath)
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	if loaded.Rate != opts.TargetSampleRate {
		t.Fatalf("output rate %d", loaded.Rate)
	}
}

func TestProcessSilenceKeepsFullDuration(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "silence.wav")
	outputPath := filepath.Join(dir, "clean.wav")
	writeClip(t, inputPath, silentClip(16000, 1.0))

	proc := NewProcessor(processOpts(t), nil)
	result, err := proc.Process(context.Background(), inputPath, outputPath)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if math.Abs(result.DurationSeconds-1.0) > 1e-6 {
		t.Fatalf("silence duration %v, want 1.0", result.DurationSeconds)
	}

	loaded, err := loadWAV(outputPath)
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	if loaded.Peak() != 0 {
		t.Fatalf("silence gained energy: %v", loaded.Peak())
	}
}

func TestProcessIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "raw.wav")
	writeClip(t, inputPath, toneClip(16000, 3.0, 0.5, 2.5, 0.5, 0.002))

	proc := NewProcessor(processOpts(t), nil)
	outA := filepath.Join(dir, "a.wav")
	outB := filepath.Join(dir, "b.wav")
	if _, err := proc.Process(context.Background(), inputPath, outA); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := proc.Process(context.Background(), inputPath, outB); err != nil {
		t.Fatalf("second run: %v", err)
	}

	dataA, err := os.ReadFile(outA)
	if err != nil {
		t.Fatalf("read first output: %v", err)
	}
	dataB, err := os.ReadFile(outB)
	if err != nil {
		t.Fatalf("read second output: %v", err)
	}
	if !bytes.Equal(dataA, dataB) {
		t.Fatal("identical input produced different output bytes")
	}
}

func TestProcessMissingConverterFailsFatally(t *testing.T) {
	dir := t.TempDir()
	opts := processOpts(t)
	opts.FFmpegBinary = "glossa-no-such-binary"

	proc := NewProcessor(opts, nil)
	_, err := proc.Process(context.Background(), filepath.Join(dir, "clip.mp3"), filepath.Join(dir, "out.wav"))
	if err == nil {
		t.Fatal("expected error")
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
}

func TestProcessGatingFailureDegradesGracefully(t *testing.T) {
	original := spectralGateFunc
	spectralGateFunc = func(signal, profile Buffer) (Buffer, error) {
		return Buffer{}, errors.New("forced failure")
	}
	t.Cleanup(func() { spectralGateFunc = original })

	dir := t.TempDir()
	inputPath := filepath.Join(dir, "raw.wav")
	outputPath := filepath.Join(dir, "clean.wav")
	writeClip(t, inputPath, toneClip(16000, 3.0, 0.5, 2.5, 0.5, 0.002))

	proc := NewProcessor(processOpts(t), nil)
	result, err := proc.Process(context.Background(), inputPath, outputPath)
	if err != nil {
		t.Fatalf("Process must not fail on gating errors: %v", err)
	}
	if slices.Contains(result.Steps, StepDenoise) {
		t.Fatalf("degraded run must omit the denoise step: %v", result.Steps)
	}
	if _, err := os.Stat(outputPath); err != nil {
		t.Fatalf("output missing after degraded run: %v", err)
	}
}
