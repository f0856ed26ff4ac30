package pipeline

import "testing"

func TestStitchSegmentsConcatenatesInOrder(t *testing.T) {
	const rate = 1000
	buf := Buffer{Samples: make([]float64, 3*rate), Rate: rate}
	for i := range buf.Samples {
		buf.Samples[i] = float64(i)
	}

	out := stitchSegments(buf, []Segment{
		{Start: 0.5, End: 1.0},
		{Start: 2.0, End: 2.5},
	})

	if len(out.Samples) != rate {
		t.Fatalf("expected %d samples, got %d", rate, len(out.Samples))
	}
	if out.Rate != rate {
		t.Fatalf("rate changed: %d", out.Rate)
	}
	if out.Samples[0] != 500 || out.Samples[499] != 999 {
		t.Fatalf("first segment misplaced: %v %v", out.Samples[0], out.Samples[499])
	}
	if out.Samples[500] != 2000 || out.Samples[999] != 2499 {
		t.Fatalf("second segment misplaced: %v %v", out.Samples[500], out.Samples[999])
	}
}

func TestStitchSegmentsEmptyList(t *testing.T) {
	buf := toneClip(16000, 1.0, 0, 1.0, 0.5, 0)
	out := stitchSegments(buf, nil)
	if !out.Empty() {
		t.Fatalf("expected empty buffer, got %d samples", len(out.Samples))
	}
	if out.Rate != buf.Rate {
		t.Fatalf("rate not preserved: %d", out.Rate)
	}
}

func TestStitchSegmentsClipsOutOfRange(t *testing.T) {
	const rate = 1000
	buf := Buffer{Samples: make([]float64, rate), Rate: rate}
	out := stitchSegments(buf, []Segment{{Start: 0.9, End: 5.0}})
	if len(out.Samples) != 100 {
		t.Fatalf("expected clipped slice of 100 samples, got %d", len(out.Samples))
	}
}
