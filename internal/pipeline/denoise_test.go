package pipeline

import (
	"errors"
	"math"
	"testing"
)

func TestDenoiseAttenuatesStationaryNoise(t *testing.T) {
	const rate = 16000
	// Signal and profile drawn from the same noise process: gating should
	// push most of the energy under the envelope and attenuate it.
	signal := toneClip(rate, 2.0, 0, 0, 0, 0.05)
	profile := Buffer{Samples: signal.Samples[:rate/2], Rate: rate}

	out, ok := denoise(signal, profile)
	if !ok {
		t.Fatal("expected gating to succeed")
	}
	if len(out.Samples) != len(signal.Samples) {
		t.Fatalf("length changed: %d vs %d", len(out.Samples), len(signal.Samples))
	}
	if out.Rate != rate {
		t.Fatalf("rate changed: %d", out.Rate)
	}

	before := rms(signal.Samples)
	after := rms(out.Samples)
	if after >= before*0.8 {
		t.Fatalf("noise not attenuated: before=%v after=%v", before, after)
	}
}

func TestDenoiseKeepsClipEdgesBounded(t *testing.T) {
	const rate = 16000
	signal := toneClip(rate, 2.0, 0, 0, 0, 0.05)
	profile := Buffer{Samples: signal.Samples[:rate/2], Rate: rate}

	out, ok := denoise(signal, profile)
	if !ok {
		t.Fatal("expected gating to succeed")
	}

	// The first and last hop are covered by a single window tail whose
	// overlap-add weight is near zero; normalizing there must never turn
	// quiet noise into clicks louder than the input peak.
	peak := 0.0
	for _, v := range signal.Samples {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	for _, i := range []int{0, 1, stftHopLength - 1, len(out.Samples) - stftHopLength, len(out.Samples) - 1} {
		if a := math.Abs(out.Samples[i]); a > peak {
			t.Fatalf("edge sample %d amplified: |%v| > input peak %v", i, out.Samples[i], peak)
		}
	}
	if edge := rms(out.Samples[:stftHopLength]); edge > rms(signal.Samples)*2 {
		t.Fatalf("leading hop louder than input: edge rms %v vs signal rms %v", edge, rms(signal.Samples))
	}
}

func TestDenoisePreservesLoudTone(t *testing.T) {
	const rate = 16000
	signal := toneClip(rate, 2.0, 0, 2.0, 0.5, 0.002)
	profile := toneClip(rate, 0.5, 0, 0, 0, 0.002)

	out, ok := denoise(signal, profile)
	if !ok {
		t.Fatal("expected gating to succeed")
	}

	before := rms(signal.Samples)
	after := rms(out.Samples)
	if after < before*0.5 {
		t.Fatalf("tone energy lost: before=%v after=%v", before, after)
	}
}

func TestDenoiseFallsBackOnGatingError(t *testing.T) {
	original := spectralGateFunc
	spectralGateFunc = func(signal, profile Buffer) (Buffer, error) {
		return Buffer{}, errors.New("forced failure")
	}
	t.Cleanup(func() { spectralGateFunc = original })

	signal := toneClip(16000, 1.0, 0, 1.0, 0.5, 0.002)
	out, ok := denoise(signal, signal)
	if ok {
		t.Fatal("expected degraded result")
	}
	if len(out.Samples) != len(signal.Samples) {
		t.Fatal("fallback must return the input unchanged")
	}
}

func TestDenoiseEmptyProfileDegrades(t *testing.T) {
	signal := toneClip(16000, 1.0, 0, 1.0, 0.5, 0.002)
	out, ok := denoise(signal, Buffer{Rate: 16000})
	if ok {
		t.Fatal("expected degradation with empty profile")
	}
	if len(out.Samples) != len(signal.Samples) {
		t.Fatal("fallback must return the input unchanged")
	}
}
