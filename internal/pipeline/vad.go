package pipeline

import "math"

// Analysis frame geometry for energy scanning. 2048/512 gives ~128 ms frames
// with 32 ms hops at 16 kHz, fine enough that segment edges land within one
// frame of the true speech boundary.
const (
	vadFrameLength = 2048
	vadHopLength   = 512
)

// detectSpeech scans the buffer left to right and returns the ordered,
// non-overlapping speech intervals. A frame counts as active when its RMS
// energy sits within topDB decibels of the loudest frame; contiguous active
// frames merge into one candidate, and candidates shorter than minSeconds
// are dropped as transient spikes. An empty result is a valid outcome, not
// an error.
func detectSpeech(buf Buffer, topDB, minSeconds float64) []Segment {
	if buf.Empty() || buf.Rate <= 0 {
		return nil
	}

	energies := frameEnergies(buf.Samples, vadFrameLength, vadHopLength)
	if len(energies) == 0 {
		return nil
	}

	peak := 0.0
	for _, e := range energies {
		if e > peak {
			peak = e
		}
	}
	if peak == 0 {
		return nil
	}

	threshold := peak * math.Pow(10, -topDB/20)

	var segments []Segment
	active := false
	startFrame := 0
	for i, e := range energies {
		if e > threshold {
			if !active {
				active = true
				startFrame = i
			}
			continue
		}
		if active {
			active = false
			segments = appendSegment(segments, buf, startFrame, i, minSeconds)
		}
	}
	if active {
		segments = appendSegment(segments, buf, startFrame, len(energies), minSeconds)
	}
	return segments
}

func appendSegment(segments []Segment, buf Buffer, startFrame, endFrame int, minSeconds float64) []Segment {
	startSample := startFrame * vadHopLength
	endSample := (endFrame-1)*vadHopLength + vadFrameLength
	if endSample > len(buf.Samples) {
		endSample = len(buf.Samples)
	}

	seg := Segment{
		Start: float64(startSample) / float64(buf.Rate),
		End:   float64(endSample) / float64(buf.Rate),
	}
	if seg.Seconds() < minSeconds {
		return segments
	}
	return append(segments, seg)
}

func frameEnergies(samples []float64, frameLength, hopLength int) []float64 {
	if len(samples) == 0 {
		return nil
	}
	if len(samples) < frameLength {
		return []float64{rms(samples)}
	}
	count := 1 + (len(samples)-frameLength)/hopLength
	energies := make([]float64, count)
	for i := 0; i < count; i++ {
		start := i * hopLength
		energies[i] = rms(samples[start : start+frameLength])
	}
	return energies
}
