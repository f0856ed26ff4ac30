package pipeline

// noiseFrameLength is the frame size for the minimum-energy fallback scan.
const noiseFrameLength = 1024

// estimateNoiseProfile extracts a window of the original buffer that likely
// contains only background noise. Recordings typically open with ambient
// room tone before speech, so the first windowSeconds are preferred. When
// the buffer is shorter than that window, the quietest analysis frame is
// located by RMS energy and a window of the target duration is extracted
// centered on it, clipped to the buffer bounds. This estimator never fails;
// in the degenerate case it returns the buffer unchanged.
func estimateNoiseProfile(buf Buffer, windowSeconds float64) Buffer {
	if buf.Empty() || buf.Rate <= 0 {
		return buf
	}

	window := int(windowSeconds * float64(buf.Rate))
	if window <= 0 {
		return buf
	}

	if len(buf.Samples) > window {
		return Buffer{Samples: buf.Samples[:window], Rate: buf.Rate}
	}

	energies := frameEnergies(buf.Samples, noiseFrameLength, noiseFrameLength)
	if len(energies) == 0 {
		return buf
	}

	quietest := 0
	for i, e := range energies {
		if e < energies[quietest] {
			quietest = i
		}
	}

	center := quietest*noiseFrameLength + noiseFrameLength/2
	start := center - window/2
	end := start + window
	if start < 0 {
		start = 0
	}
	if end > len(buf.Samples) {
		end = len(buf.Samples)
	}
	return Buffer{Samples: buf.Samples[start:end], Rate: buf.Rate}
}
