package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEncodeWAVRemovesPartialOutputOnFailure(t *testing.T) {
	original := encodeFramesFunc
	encodeFramesFunc = func(file *os.File, buf Buffer) error {
		_, _ = file.WriteString("partial")
		return errors.New("forced failure")
	}
	t.Cleanup(func() { encodeFramesFunc = original })

	path := filepath.Join(t.TempDir(), "out", "clean.wav")
	err := encodeWAV(toneClip(16000, 0.1, 0, 0.1, 0.5, 0), path)
	if err == nil {
		t.Fatal("expected encode failure")
	}
	var encErr *EncodeError
	if !errors.As(err, &encErr) {
		t.Fatalf("expected *EncodeError, got %T", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatalf("partial output left behind: %v", statErr)
	}
}

func TestEncodeWAVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clean.wav")
	clip := toneClip(16000, 0.2, 0, 0.2, 0.5, 0)
	if err := encodeWAV(clip, path); err != nil {
		t.Fatalf("encodeWAV: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("empty output file")
	}
}
