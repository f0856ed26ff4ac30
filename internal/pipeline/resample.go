package pipeline

import (
	"fmt"

	resampler "github.com/tphakala/go-audio-resampler"
)

// resample converts the buffer to targetRate using band-limited polyphase
// interpolation. Matching rates are an identity pass so no resampling
// artifact is introduced.
func resample(buf Buffer, targetRate int) (Buffer, error) {
	if targetRate <= 0 {
		return Buffer{}, fmt.Errorf("invalid target sample rate %d", targetRate)
	}
	if buf.Rate == targetRate {
		return buf, nil
	}
	if buf.Empty() {
		return Buffer{Samples: nil, Rate: targetRate}, nil
	}

	converted, err := resampler.ResampleMono(buf.Samples, float64(buf.Rate), float64(targetRate), resampler.QualityHigh)
	if err != nil {
		return Buffer{}, fmt.Errorf("resample %d -> %d Hz: %w", buf.Rate, targetRate, err)
	}
	return Buffer{Samples: converted, Rate: targetRate}, nil
}
