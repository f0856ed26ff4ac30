package pipeline

import "math"

// Buffer holds mono PCM samples in the nominal range [-1, 1] at a fixed
// sample rate. A zero-length buffer is valid; Rate must be positive.
type Buffer struct {
	Samples []float64
	Rate    int
}

// Duration returns the buffer length in seconds.
func (b Buffer) Duration() float64 {
	if b.Rate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.Rate)
}

// Peak returns the maximum absolute sample value.
func (b Buffer) Peak() float64 {
	peak := 0.0
	for _, s := range b.Samples {
		if abs := math.Abs(s); abs > peak {
			peak = abs
		}
	}
	return peak
}

// Empty reports whether the buffer contains no samples.
func (b Buffer) Empty() bool {
	return len(b.Samples) == 0
}

// Segment is a half-open speech interval [Start, End) in seconds.
type Segment struct {
	Start float64
	End   float64
}

// Seconds returns the segment length.
func (s Segment) Seconds() float64 {
	return s.End - s.Start
}

func rms(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}
