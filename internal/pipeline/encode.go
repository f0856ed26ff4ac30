package pipeline

import (
	"math"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// encodeWAV writes the buffer as 16-bit signed PCM mono WAV at outputPath,
// creating parent directories as needed.
func encodeWAV(buf Buffer, outputPath string) error {
	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &EncodeError{Path: outputPath, Err: err}
		}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return &EncodeError{Path: outputPath, Err: err}
	}

	// A failed run must leave no output artifact behind.
	if err := encodeFramesFunc(file, buf); err != nil {
		_ = file.Close()
		_ = os.Remove(outputPath)
		return &EncodeError{Path: outputPath, Err: err}
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(outputPath)
		return &EncodeError{Path: outputPath, Err: err}
	}
	return nil
}

// encodeFrames converts the samples to 16-bit signed PCM and streams them
// through the WAV encoder.
func encodeFrames(file *os.File, buf Buffer) error {
	data := make([]int, len(buf.Samples))
	for i, s := range buf.Samples {
		v := math.Round(s * 32767)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		data[i] = int(v)
	}

	encoder := wav.NewEncoder(file, buf.Rate, 16, 1, 1)
	pcm := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: 1, SampleRate: buf.Rate},
		SourceBitDepth: 16,
	}
	if err := encoder.Write(pcm); err != nil {
		_ = encoder.Close()
		return err
	}
	return encoder.Close()
}
