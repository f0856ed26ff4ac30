package pipeline

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
)

func TestDecodeNativeWAVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.wav")
	buf := toneClip(16000, 1.0, 0, 1.0, 0.5, 0)
	writeClip(t, path, buf)

	dec := decoder{workDir: dir}
	loaded, tempPath, err := dec.decode(context.Background(), path)
	if err != nil {
		t.Fatalf("decode returned error: %v", err)
	}
	if tempPath != "" {
		t.Fatalf("native decode must not produce a temp file, got %q", tempPath)
	}
	if loaded.Rate != 16000 {
		t.Fatalf("unexpected rate %d", loaded.Rate)
	}
	if len(loaded.Samples) != len(buf.Samples) {
		t.Fatalf("sample count %d, want %d", len(loaded.Samples), len(buf.Samples))
	}
	// 16-bit quantization bounds the per-sample error.
	for i := range buf.Samples {
		if math.Abs(loaded.Samples[i]-buf.Samples[i]) > 1.0/32767*2 {
			t.Fatalf("sample %d drifted: %v vs %v", i, loaded.Samples[i], buf.Samples[i])
		}
	}
}

func TestDecodeMissingConverterIsDecodeError(t *testing.T) {
	dec := decoder{ffmpegBinary: "glossa-no-such-binary", workDir: t.TempDir()}
	_, _, err := dec.decode(context.Background(), "clip.mp3")
	if err == nil {
		t.Fatal("expected error")
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
}

func TestLoadWAVRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garbage.wav")
	writeGarbage(t, path)

	_, err := loadWAV(path)
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
}
