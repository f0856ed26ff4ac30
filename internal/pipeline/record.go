package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ProcessingRecord is the immutable provenance summary of one pipeline run,
// written as a sidecar JSON document next to the clean output.
type ProcessingRecord struct {
	InputFile           string   `json:"input_file"`
	OutputFile          string   `json:"output_file"`
	OriginalSampleRate  int      `json:"original_sr"`
	OriginalDurationSec float64  `json:"original_duration_sec"`
	FinalSampleRate     int      `json:"final_sr"`
	FinalDurationSec    float64  `json:"final_duration_sec"`
	ProcessingDateUTC   string   `json:"processing_date_utc"`
	ProcessingSteps     []string `json:"processing_steps"`
}

// SidecarPath returns the metadata path for a given output file:
// <output-stem>_metadata.json in the same directory.
func SidecarPath(outputPath string) string {
	ext := filepath.Ext(outputPath)
	return strings.TrimSuffix(outputPath, ext) + "_metadata.json"
}

// writeSidecar persists the record next to the output. The write is
// best-effort: a failure here never fails the run.
func writeSidecar(record ProcessingRecord, outputPath string) error {
	payload, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(SidecarPath(outputPath), payload, 0o644)
}

func newRecord(inputPath, outputPath string, original, final Buffer, steps []string) ProcessingRecord {
	return ProcessingRecord{
		InputFile:           inputPath,
		OutputFile:          outputPath,
		OriginalSampleRate:  original.Rate,
		OriginalDurationSec: original.Duration(),
		FinalSampleRate:     final.Rate,
		FinalDurationSec:    final.Duration(),
		ProcessingDateUTC:   time.Now().UTC().Format(time.RFC3339),
		ProcessingSteps:     steps,
	}
}
