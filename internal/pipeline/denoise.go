package pipeline

import (
	"errors"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// STFT geometry for spectral gating: 75% overlapping Hann-windowed frames so
// overlap-add reconstruction is artifact-free.
const (
	stftFrameLength = 1024
	stftHopLength   = 256
)

// Gate shape: a bin is attenuated when its magnitude falls under the noise
// envelope (per-bin mean plus noiseGateStdDevs standard deviations measured
// over the profile); gateFloor keeps a residual so gated regions do not ring.
const (
	noiseGateStdDevs = 1.5
	gateFloor        = 0.1
)

// Samples whose accumulated window weight falls under this floor sit in the
// first or last hop of the clip, where a lone Hann tail contributes almost
// nothing; dividing by such a weight amplifies instead of attenuates, so
// those samples pass through unprocessed.
const minOverlapWeight = 1e-3

var errDegenerateInput = errors.New("degenerate input for spectral gating")

// denoise applies noise-profile-guided spectral gating to the signal. The
// gating computation is allowed to fail for any reason; the stage then
// returns the input unchanged and reports that it degraded. Denoising is a
// quality enhancement, not a correctness requirement.
func denoise(signal, profile Buffer) (Buffer, bool) {
	out, err := spectralGateFunc(signal, profile)
	if err != nil {
		return signal, false
	}
	return out, true
}

// gateSpectrum estimates the noise magnitude envelope from the profile and
// subtracts it from the signal's time-frequency representation, then
// reconstructs a time-domain signal of the same length as the input.
func gateSpectrum(signal, profile Buffer) (Buffer, error) {
	if signal.Empty() || profile.Empty() {
		return Buffer{}, errDegenerateInput
	}

	window := hannWindow(stftFrameLength)
	fft := fourier.NewFFT(stftFrameLength)

	noiseMean, noiseStd, err := noiseEnvelope(fft, window, profile.Samples)
	if err != nil {
		return Buffer{}, err
	}

	padded := padToFrames(signal.Samples, stftFrameLength, stftHopLength)
	out := make([]float64, len(padded))
	weight := make([]float64, len(padded))

	frame := make([]float64, stftFrameLength)
	for start := 0; start+stftFrameLength <= len(padded); start += stftHopLength {
		for i := range frame {
			frame[i] = padded[start+i] * window[i]
		}
		spectrum := fft.Coefficients(nil, frame)
		for k, c := range spectrum {
			magnitude := cmplx.Abs(c)
			threshold := noiseMean[k] + noiseGateStdDevs*noiseStd[k]
			gated := magnitude - threshold
			if floor := gateFloor * magnitude; gated < floor {
				gated = floor
			}
			spectrum[k] = cmplx.Rect(gated, cmplx.Phase(c))
		}
		reconstructed := fft.Sequence(nil, spectrum)
		for i, v := range reconstructed {
			// fft.Sequence is unnormalized; scale by the transform length.
			sample := v / float64(stftFrameLength) * window[i]
			out[start+i] += sample
			weight[start+i] += window[i] * window[i]
		}
	}

	result := make([]float64, len(signal.Samples))
	for i := range result {
		if weight[i] >= minOverlapWeight {
			result[i] = out[i] / weight[i]
		} else {
			result[i] = signal.Samples[i]
		}
		if math.IsNaN(result[i]) || math.IsInf(result[i], 0) {
			return Buffer{}, errors.New("non-finite sample after spectral gating")
		}
	}
	return Buffer{Samples: result, Rate: signal.Rate}, nil
}

// noiseEnvelope measures the per-bin magnitude mean and standard deviation
// across all profile frames. Profiles shorter than one frame are zero-padded
// so a single frame always contributes.
func noiseEnvelope(fft *fourier.FFT, window []float64, profile []float64) (mean, std []float64, err error) {
	padded := padToFrames(profile, stftFrameLength, stftHopLength)
	bins := stftFrameLength/2 + 1
	sum := make([]float64, bins)
	sumSq := make([]float64, bins)

	frame := make([]float64, stftFrameLength)
	count := 0
	for start := 0; start+stftFrameLength <= len(padded); start += stftHopLength {
		for i := range frame {
			frame[i] = padded[start+i] * window[i]
		}
		spectrum := fft.Coefficients(nil, frame)
		for k, c := range spectrum {
			magnitude := cmplx.Abs(c)
			sum[k] += magnitude
			sumSq[k] += magnitude * magnitude
		}
		count++
	}
	if count == 0 {
		return nil, nil, errDegenerateInput
	}

	mean = make([]float64, bins)
	std = make([]float64, bins)
	for k := range mean {
		mean[k] = sum[k] / float64(count)
		variance := sumSq[k]/float64(count) - mean[k]*mean[k]
		if variance > 0 {
			std[k] = math.Sqrt(variance)
		}
	}
	return mean, std, nil
}

func hannWindow(length int) []float64 {
	window := make([]float64, length)
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(length-1)))
	}
	return window
}

// padToFrames zero-pads samples so the final STFT frame is complete. At
// least one full frame is always returned.
func padToFrames(samples []float64, frameLength, hopLength int) []float64 {
	if len(samples) <= frameLength {
		padded := make([]float64, frameLength)
		copy(padded, samples)
		return padded
	}
	frames := 1 + (len(samples)-frameLength+hopLength-1)/hopLength
	total := (frames-1)*hopLength + frameLength
	if total == len(samples) {
		return samples
	}
	padded := make([]float64, total)
	copy(padded, samples)
	return padded
}
