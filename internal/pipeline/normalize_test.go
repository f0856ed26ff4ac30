package pipeline

import (
	"math"
	"testing"
)

func TestNormalizePeakScalesToTarget(t *testing.T) {
	buf := toneClip(16000, 1.0, 0, 1.0, 0.25, 0)
	out := normalizePeak(buf, 0.95)
	if math.Abs(out.Peak()-0.95) > 1e-9 {
		t.Fatalf("peak %v, want 0.95", out.Peak())
	}
}

func TestNormalizePeakAttenuatesHotSignal(t *testing.T) {
	buf := Buffer{Samples: []float64{0, 1.8, -0.9}, Rate: 16000}
	out := normalizePeak(buf, 0.95)
	if math.Abs(out.Peak()-0.95) > 1e-9 {
		t.Fatalf("peak %v, want 0.95", out.Peak())
	}
}

func TestNormalizePeakSilencePassesThrough(t *testing.T) {
	buf := silentClip(16000, 0.5)
	out := normalizePeak(buf, 0.95)
	if out.Peak() != 0 {
		t.Fatalf("silence gained energy: %v", out.Peak())
	}
	if len(out.Samples) != len(buf.Samples) {
		t.Fatal("length changed")
	}
}
