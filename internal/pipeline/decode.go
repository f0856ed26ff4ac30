package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/wav"
	"github.com/google/uuid"
)

// Container formats the WAV loader can read directly. Anything else goes
// through the external ffmpeg conversion first.
var nativeExtensions = map[string]struct{}{
	".wav":  {},
	".wave": {},
}

// transcodeSampleRate is the fixed intermediate rate for external decodes.
// The final target rate is applied later by the resampler, never here.
const transcodeSampleRate = 44100

// decoder normalizes an arbitrary input file into a mono PCM buffer at its
// native sample rate.
type decoder struct {
	ffmpegBinary string
	workDir      string
	timeout      time.Duration
}

// decode returns the loaded buffer plus the path of any temporary decode
// artifact the caller must remove. The temp path is returned even on error
// so cleanup covers partial conversions.
func (d decoder) decode(ctx context.Context, inputPath string) (Buffer, string, error) {
	ext := strings.ToLower(filepath.Ext(inputPath))
	if _, ok := nativeExtensions[ext]; ok {
		buf, err := loadWAV(inputPath)
		return buf, "", err
	}

	tempPath := filepath.Join(d.workDir, fmt.Sprintf("glossa-decode-%s.wav", uuid.NewString()))
	if err := d.convert(ctx, inputPath, tempPath); err != nil {
		return Buffer{}, tempPath, err
	}
	buf, err := loadWAV(tempPath)
	return buf, tempPath, err
}

// convert runs the external decode with a fixed argument contract: forced
// overwrite, 16-bit PCM, mono, 44100 Hz intermediate.
func (d decoder) convert(ctx context.Context, inputPath, outputPath string) error {
	binary := d.ffmpegBinary
	if binary == "" {
		binary = "ffmpeg"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return &DecodeError{Path: inputPath, Detail: fmt.Sprintf("conversion tool %q not found", binary), Err: err}
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, binary,
		"-y",
		"-i", inputPath,
		"-acodec", "pcm_s16le",
		"-ar", fmt.Sprint(transcodeSampleRate),
		"-ac", "1",
		outputPath,
	)
	var stderr bytes.Buffer
	cmd.Stdout = &stderr
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := tailLines(stderr.String(), 6)
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
			detail = "conversion timed out"
		}
		return &DecodeError{Path: inputPath, Detail: detail, Err: err}
	}
	return nil
}

// loadWAV reads a linear PCM WAV file into a Buffer at the file's native
// sample rate, averaging channels down to mono when the source carries more
// than one.
func loadWAV(path string) (Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return Buffer{}, &DecodeError{Path: path, Err: err}
	}
	defer file.Close()

	dec := wav.NewDecoder(file)
	if !dec.IsValidFile() {
		return Buffer{}, &DecodeError{Path: path, Detail: "not a valid WAV file"}
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return Buffer{}, &DecodeError{Path: path, Detail: "read PCM data", Err: err}
	}
	if pcm.Format == nil || pcm.Format.SampleRate <= 0 {
		return Buffer{}, &DecodeError{Path: path, Detail: "missing sample rate"}
	}

	bitDepth := pcm.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << uint(bitDepth-1))

	channels := pcm.Format.NumChannels
	if channels <= 0 {
		channels = 1
	}
	frames := len(pcm.Data) / channels

	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(pcm.Data[i*channels+c])
		}
		samples[i] = sum / float64(channels) / scale
	}

	return Buffer{Samples: samples, Rate: pcm.Format.SampleRate}, nil
}

func tailLines(text string, n int) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
