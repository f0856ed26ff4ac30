package pipeline

import "testing"

func TestEstimateNoiseProfilePrefersOpeningWindow(t *testing.T) {
	const rate = 16000
	buf := Buffer{Samples: make([]float64, 2*rate), Rate: rate}
	for i := 0; i < rate/2; i++ {
		buf.Samples[i] = 0.01
	}
	for i := rate / 2; i < len(buf.Samples); i++ {
		buf.Samples[i] = 0.5
	}

	profile := estimateNoiseProfile(buf, 0.5)
	if len(profile.Samples) != rate/2 {
		t.Fatalf("expected %d samples, got %d", rate/2, len(profile.Samples))
	}
	for i, s := range profile.Samples {
		if s != 0.01 {
			t.Fatalf("sample %d not from opening window: %v", i, s)
		}
	}
}

func TestEstimateNoiseProfileShortBufferUsesQuietestFrame(t *testing.T) {
	const rate = 16000
	// 0.4 s clip, shorter than the 0.5 s window: loud opening, quiet tail.
	buf := Buffer{Samples: make([]float64, int(0.4*rate)), Rate: rate}
	for i := range buf.Samples {
		if i < len(buf.Samples)/2 {
			buf.Samples[i] = 0.5
		} else {
			buf.Samples[i] = 0.001
		}
	}

	profile := estimateNoiseProfile(buf, 0.5)
	if profile.Empty() {
		t.Fatal("expected non-empty profile")
	}
	// The window centers on a quiet tail frame, so part of the loud opening
	// falls outside it.
	if len(profile.Samples) >= len(buf.Samples) {
		t.Fatalf("profile not recentered away from loud opening: %d samples", len(profile.Samples))
	}
	if rms(profile.Samples) >= rms(buf.Samples) {
		t.Fatalf("profile louder than whole clip: %v vs %v", rms(profile.Samples), rms(buf.Samples))
	}
}

func TestEstimateNoiseProfileDegenerateInput(t *testing.T) {
	buf := Buffer{Samples: []float64{0.1, 0.2}, Rate: 16000}
	profile := estimateNoiseProfile(buf, 0.5)
	if len(profile.Samples) == 0 {
		t.Fatal("degenerate input must still yield a profile")
	}

	empty := estimateNoiseProfile(Buffer{Rate: 16000}, 0.5)
	if !empty.Empty() {
		t.Fatal("empty buffer should pass through")
	}
}
