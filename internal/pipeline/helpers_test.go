package pipeline

import (
	"math"
	"os"
	"testing"
)

// toneClip builds a buffer of faint background noise with a louder sine
// burst between toneStart and toneEnd seconds. The noise source is a fixed
// linear congruential generator so clips are reproducible across runs.
func toneClip(rate int, totalSeconds, toneStart, toneEnd, toneAmp, noiseAmp float64) Buffer {
	n := int(totalSeconds * float64(rate))
	samples := make([]float64, n)
	seed := uint32(0x9e3779b9)
	for i := range samples {
		seed = seed*1664525 + 1013904223
		noise := (float64(seed)/float64(math.MaxUint32)*2 - 1) * noiseAmp
		t := float64(i) / float64(rate)
		samples[i] = noise
		if t >= toneStart && t < toneEnd {
			samples[i] += toneAmp * math.Sin(2*math.Pi*440*t)
		}
	}
	return Buffer{Samples: samples, Rate: rate}
}

func silentClip(rate int, seconds float64) Buffer {
	return Buffer{Samples: make([]float64, int(seconds*float64(rate))), Rate: rate}
}

func writeClip(t *testing.T, path string, buf Buffer) {
	t.Helper()
	if err := encodeWAV(buf, path); err != nil {
		t.Fatalf("encode test clip: %v", err)
	}
}

func writeGarbage(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("not a riff container"), 0o644); err != nil {
		t.Fatalf("write garbage file: %v", err)
	}
}
