package pipeline

import (
	"math"
	"testing"
)

func TestResampleIdentity(t *testing.T) {
	buf := toneClip(16000, 1.0, 0, 1.0, 0.5, 0)
	out, err := resample(buf, 16000)
	if err != nil {
		t.Fatalf("resample returned error: %v", err)
	}
	if len(out.Samples) != len(buf.Samples) || out.Rate != 16000 {
		t.Fatalf("identity resample altered buffer: %d samples at %d Hz", len(out.Samples), out.Rate)
	}
}

func TestResampleHalvesRate(t *testing.T) {
	buf := toneClip(16000, 1.0, 0, 1.0, 0.5, 0)
	out, err := resample(buf, 8000)
	if err != nil {
		t.Fatalf("resample returned error: %v", err)
	}
	if out.Rate != 8000 {
		t.Fatalf("unexpected rate %d", out.Rate)
	}
	if math.Abs(out.Duration()-buf.Duration()) > 0.01 {
		t.Fatalf("duration drifted: %v vs %v", out.Duration(), buf.Duration())
	}
}

func TestResampleRejectsInvalidRate(t *testing.T) {
	if _, err := resample(toneClip(16000, 0.1, 0, 0.1, 0.5, 0), 0); err == nil {
		t.Fatal("expected error for zero rate")
	}
}

func TestResampleEmptyBuffer(t *testing.T) {
	out, err := resample(Buffer{Rate: 44100}, 16000)
	if err != nil {
		t.Fatalf("resample returned error: %v", err)
	}
	if !out.Empty() || out.Rate != 16000 {
		t.Fatalf("unexpected result: %d samples at %d Hz", len(out.Samples), out.Rate)
	}
}
