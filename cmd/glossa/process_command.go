package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"glossa/internal/logging"
	"glossa/internal/pipeline"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "process <input> <output>",
		Short: "Run the audio-preparation pipeline on a single file",
		Long: "Decodes the input, trims silence, reduces noise, normalizes the peak, " +
			"and writes 16-bit PCM mono WAV plus a JSON sidecar next to the output. " +
			"The catalog and blob storage are not touched.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger := logging.NewNop()
			if level := strings.TrimSpace(logLevel); level != "" {
				logger, err = logging.New(logging.Options{Level: level, Format: "console"})
				if err != nil {
					return err
				}
			}

			processor := pipeline.NewProcessor(pipeline.Options{
				TargetSampleRate:   cfg.Processing.TargetSampleRate,
				TopDB:              cfg.Processing.TopDB,
				MinSegmentSeconds:  cfg.Processing.MinSegmentSeconds,
				NoiseWindowSeconds: cfg.Processing.NoiseWindowSeconds,
				TargetPeak:         cfg.Processing.TargetPeak,
				DecodeTimeout:      cfg.DecodeTimeout(),
				WorkDir:            cfg.Paths.StagingDir,
				FFmpegBinary:       cfg.FFmpegBinary(),
			}, logger)

			result, err := processor.Process(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %s\n", args[1])
			fmt.Fprintf(out, "Duration:    %s\n", formatDuration(result.DurationSeconds))
			fmt.Fprintf(out, "Sample rate: %d Hz\n", result.SampleRate)
			fmt.Fprintf(out, "Steps:       %s\n", strings.Join(result.Steps, ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "", "Enable stage logging at the given level (debug, info, warn, error)")

	return cmd
}
