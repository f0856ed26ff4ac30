package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"glossa/internal/logging"
)

// Step names recorded in the sidecar, in the order stages run.
const (
	StepDecode       = "decode"
	StepVAD          = "vad"
	StepStitch       = "stitch"
	StepNoiseProfile = "noise_profile"
	StepDenoise      = "denoise"
	StepNormalize    = "normalize"
	StepResample     = "resample"
	StepEncode       = "encode"
)

// Options carries the pipeline tuning knobs. Zero values fall back to the
// defaults below, which match the recording profile the corpus targets.
type Options struct {
	TargetSampleRate   int
	TopDB              float64
	MinSegmentSeconds  float64
	NoiseWindowSeconds float64
	TargetPeak         float64
	DecodeTimeout      time.Duration
	WorkDir            string
	FFmpegBinary       string
}

const (
	DefaultTargetSampleRate   = 16000
	DefaultTopDB              = 40.0
	DefaultMinSegmentSeconds  = 0.3
	DefaultNoiseWindowSeconds = 0.5
	DefaultTargetPeak         = 0.95
	DefaultDecodeTimeout      = 5 * time.Minute
)

func (o Options) withDefaults() Options {
	if o.TargetSampleRate <= 0 {
		o.TargetSampleRate = DefaultTargetSampleRate
	}
	if o.TopDB <= 0 {
		o.TopDB = DefaultTopDB
	}
	if o.MinSegmentSeconds <= 0 {
		o.MinSegmentSeconds = DefaultMinSegmentSeconds
	}
	if o.NoiseWindowSeconds <= 0 {
		o.NoiseWindowSeconds = DefaultNoiseWindowSeconds
	}
	if o.TargetPeak <= 0 {
		o.TargetPeak = DefaultTargetPeak
	}
	if o.DecodeTimeout <= 0 {
		o.DecodeTimeout = DefaultDecodeTimeout
	}
	if o.WorkDir == "" {
		o.WorkDir = os.TempDir()
	}
	return o
}

// Result reports what a successful run produced.
type Result struct {
	DurationSeconds float64
	SampleRate      int
	Steps           []string
}

// Processor runs the audio-preparation pipeline. One Processor may serve
// concurrent calls; each invocation owns its own buffers and uniquely named
// temporary artifacts.
type Processor struct {
	opts   Options
	logger *slog.Logger
}

// NewProcessor builds a Processor with the given options. A nil logger
// silences stage logging.
func NewProcessor(opts Options, logger *slog.Logger) *Processor {
	return &Processor{
		opts:   opts.withDefaults(),
		logger: logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Process decodes inputPath, cleans the waveform, and writes it to
// outputPath as 16-bit PCM mono WAV at the configured target rate, plus a
// sidecar provenance record. Decode and encode failures abort the run;
// every other stage degrades to a pass-through on fault. Temporary decode
// artifacts are removed on every exit path.
func (p *Processor) Process(ctx context.Context, inputPath, outputPath string) (Result, error) {
	absInput, err := filepath.Abs(inputPath)
	if err == nil {
		inputPath = absInput
	}
	absOutput, err := filepath.Abs(outputPath)
	if err == nil {
		outputPath = absOutput
	}

	steps := make([]string, 0, 8)

	dec := decoder{
		ffmpegBinary: p.opts.FFmpegBinary,
		workDir:      p.opts.WorkDir,
		timeout:      p.opts.DecodeTimeout,
	}
	original, tempPath, err := dec.decode(ctx, inputPath)
	if tempPath != "" {
		defer os.Remove(tempPath)
	}
	if err != nil {
		return Result{}, err
	}
	steps = append(steps, StepDecode)
	p.logger.Debug("decoded input",
		logging.String("input", inputPath),
		logging.Int("sample_rate", original.Rate),
		logging.Float64("duration_sec", original.Duration()))

	segments := detectSpeech(original, p.opts.TopDB, p.opts.MinSegmentSeconds)
	steps = append(steps, StepVAD)

	speech := stitchSegments(original, segments)
	steps = append(steps, StepStitch)

	profile := estimateNoiseProfile(original, p.opts.NoiseWindowSeconds)
	steps = append(steps, StepNoiseProfile)

	// When VAD found nothing the stitched buffer is empty; denoise the full
	// original instead. Deliberate fallback, not an error.
	target := speech
	if target.Empty() {
		target = original
	}

	cleaned, denoised := denoise(target, profile)
	if denoised {
		steps = append(steps, StepDenoise)
	} else {
		p.logger.Warn("spectral gating failed, keeping undenoised signal",
			logging.String("input", inputPath))
	}

	cleaned = normalizePeak(cleaned, p.opts.TargetPeak)
	steps = append(steps, StepNormalize)

	resampled, err := resample(cleaned, p.opts.TargetSampleRate)
	if err != nil {
		return Result{}, &EncodeError{Path: outputPath, Err: err}
	}
	if cleaned.Rate != resampled.Rate {
		steps = append(steps, StepResample)
	}

	if err := encodeWAV(resampled, outputPath); err != nil {
		return Result{}, err
	}
	steps = append(steps, StepEncode)

	record := newRecord(inputPath, outputPath, original, resampled, steps)
	if err := writeSidecar(record, outputPath); err != nil {
		// Best-effort only; the run already succeeded.
		p.logger.Warn("sidecar metadata write failed", logging.Error(err))
	}

	p.logger.Info("processed recording",
		logging.String("output", outputPath),
		logging.Int("segments", len(segments)),
		logging.Float64("duration_sec", resampled.Duration()),
		logging.Int("sample_rate", resampled.Rate))

	return Result{
		DurationSeconds: resampled.Duration(),
		SampleRate:      resampled.Rate,
		Steps:           steps,
	}, nil
}
