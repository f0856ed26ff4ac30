package pipeline

import (
	"math"
	"testing"
)

func TestDetectSpeechFindsToneBurst(t *testing.T) {
	const rate = 16000
	buf := toneClip(rate, 3.0, 0.5, 2.5, 0.5, 0.002)

	segments := detectSpeech(buf, 40, 0.3)
	if len(segments) != 1 {
		t.Fatalf("expected one segment, got %d: %v", len(segments), segments)
	}

	// Edges land within one analysis frame of the true boundary.
	tolerance := float64(vadFrameLength) / rate
	if math.Abs(segments[0].Start-0.5) > tolerance {
		t.Fatalf("segment start %v too far from 0.5", segments[0].Start)
	}
	if math.Abs(segments[0].End-2.5) > tolerance {
		t.Fatalf("segment end %v too far from 2.5", segments[0].End)
	}
}

func TestDetectSpeechSilenceYieldsNothing(t *testing.T) {
	buf := silentClip(16000, 2.0)
	if segments := detectSpeech(buf, 40, 0.3); len(segments) != 0 {
		t.Fatalf("expected no segments in silence, got %v", segments)
	}
}

func TestDetectSpeechDropsShortBlips(t *testing.T) {
	const rate = 16000
	buf := silentClip(rate, 2.0)
	// 20 ms click well above any threshold but far below the minimum length.
	start := rate
	for i := 0; i < rate/50; i++ {
		buf.Samples[start+i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/rate)
	}

	if segments := detectSpeech(buf, 40, 0.3); len(segments) != 0 {
		t.Fatalf("expected blip to be discarded, got %v", segments)
	}
}

func TestDetectSpeechEmptyBuffer(t *testing.T) {
	if segments := detectSpeech(Buffer{Rate: 16000}, 40, 0.3); segments != nil {
		t.Fatalf("expected nil segments, got %v", segments)
	}
}

func TestDetectSpeechShortBufferSingleFrame(t *testing.T) {
	// Shorter than one analysis frame: the whole clip is a single frame and
	// must still be detectable as speech.
	buf := toneClip(16000, 0.05, 0, 0.05, 0.5, 0)
	segments := detectSpeech(buf, 40, 0.01)
	if len(segments) != 1 {
		t.Fatalf("expected whole-clip segment, got %v", segments)
	}
}
