package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"glossa/internal/api"
	"glossa/internal/blob"
	"glossa/internal/config"
	"glossa/internal/ingest"
	"glossa/internal/store"
)

func newRecordingCommand(ctx *commandContext) *cobra.Command {
	recordingCmd := &cobra.Command{
		Use:   "recording",
		Short: "Manage recordings",
	}

	recordingCmd.AddCommand(newRecordingAddCommand(ctx))
	recordingCmd.AddCommand(newRecordingListCommand(ctx))
	recordingCmd.AddCommand(newRecordingShowCommand(ctx))
	recordingCmd.AddCommand(newRecordingReprocessCommand(ctx))
	recordingCmd.AddCommand(newRecordingRemoveCommand(ctx))

	return recordingCmd
}

func newRecordingAddCommand(ctx *commandContext) *cobra.Command {
	var contributorID, title, theme, transcription, translation string

	cmd := &cobra.Command{
		Use:   "add <audio-file>",
		Short: "Ingest a local audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(contributorID) == "" {
				return fmt.Errorf("--contributor is required")
			}
			source := args[0]
			f, err := os.Open(source)
			if err != nil {
				return err
			}
			defer f.Close()

			return ctx.withIngestor(cmd.Context(), func(cfg *config.Config, st *store.Store, blobs blob.Store, ingestor *ingest.Ingestor) error {
				recTitle := strings.TrimSpace(title)
				if recTitle == "" {
					base := filepath.Base(source)
					recTitle = strings.TrimSuffix(base, filepath.Ext(base))
				}
				rec, err := ingestor.Ingest(cmd.Context(), ingest.Params{
					ContributorID:         contributorID,
					Title:                 recTitle,
					Theme:                 theme,
					TranscriptionOriginal: transcription,
					TranscriptionEnglish:  translation,
					Filename:              filepath.Base(source),
					Source:                f,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stored recording %s (%.1fs at %d Hz)\n", rec.ID, rec.DurationSec, rec.SampleRate)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&contributorID, "contributor", "", "Contributor ID (required)")
	cmd.Flags().StringVar(&title, "title", "", "Recording title (defaults to the file name)")
	cmd.Flags().StringVar(&theme, "theme", "", "Recording theme")
	cmd.Flags().StringVar(&transcription, "transcription", "", "Transcription in the recorded language")
	cmd.Flags().StringVar(&translation, "translation", "", "English translation")
	return cmd
}

func newRecordingListCommand(ctx *commandContext) *cobra.Command {
	var query, contributorID, status string
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recordings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				filter := store.RecordingFilter{
					Query:         strings.TrimSpace(query),
					ContributorID: strings.TrimSpace(contributorID),
					Limit:         limit,
				}
				if trimmed := strings.TrimSpace(status); trimmed != "" {
					if !store.ValidStatus(store.Status(trimmed)) {
						return fmt.Errorf("unknown status %q", trimmed)
					}
					filter.Status = store.Status(trimmed)
				}
				recordings, err := st.ListRecordings(cmd.Context(), filter)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asJSON {
					return printJSON(out, api.RecordingListResponse{Recordings: api.FromStoreRecordings(recordings)})
				}
				if len(recordings) == 0 {
					fmt.Fprintln(out, "No recordings found.")
					return nil
				}
				rows := make([][]string, 0, len(recordings))
				for _, rec := range recordings {
					rows = append(rows, []string{
						rec.ID,
						rec.Title,
						rec.ContributorName,
						string(rec.Status),
						formatDuration(rec.DurationSec),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Title", "Contributor", "Status", "Duration"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Search transcriptions, themes, and contributor names")
	cmd.Flags().StringVar(&contributorID, "contributor", "", "Filter by contributor ID")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (pending, processing, stored, failed)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable JSON")
	return cmd
}

func newRecordingShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <recording-id>",
		Short: "Show recording details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				rec, err := st.GetRecording(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:            %s\n", rec.ID)
				fmt.Fprintf(out, "Title:         %s\n", rec.Title)
				fmt.Fprintf(out, "Contributor:   %s (%s)\n", rec.ContributorName, rec.ContributorID)
				fmt.Fprintf(out, "Status:        %s\n", rec.Status)
				if rec.ErrorMessage != "" {
					fmt.Fprintf(out, "Error:         %s\n", rec.ErrorMessage)
				}
				if rec.Theme != "" {
					fmt.Fprintf(out, "Theme:         %s\n", rec.Theme)
				}
				if rec.DurationSec > 0 {
					fmt.Fprintf(out, "Duration:      %s\n", formatDuration(rec.DurationSec))
					fmt.Fprintf(out, "Sample rate:   %d Hz\n", rec.SampleRate)
				}
				if len(rec.ProcessingSteps) > 0 {
					fmt.Fprintf(out, "Steps:         %s\n", strings.Join(rec.ProcessingSteps, ", "))
				}
				if rec.TranscriptionOriginal != "" {
					fmt.Fprintf(out, "Transcription: %s\n", rec.TranscriptionOriginal)
				}
				if rec.TranscriptionEnglish != "" {
					fmt.Fprintf(out, "Translation:   %s\n", rec.TranscriptionEnglish)
				}
				if rec.RawKey != "" {
					fmt.Fprintf(out, "Raw object:    %s\n", rec.RawKey)
				}
				if rec.CleanKey != "" {
					fmt.Fprintf(out, "Clean object:  %s\n", rec.CleanKey)
				}
				return nil
			})
		},
	}
}

func newRecordingReprocessCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reprocess <recording-id>",
		Short: "Re-run the pipeline for an archived recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withIngestor(cmd.Context(), func(cfg *config.Config, st *store.Store, blobs blob.Store, ingestor *ingest.Ingestor) error {
				rec, err := ingestor.Reprocess(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reprocessed recording %s (%.1fs at %d Hz)\n", rec.ID, rec.DurationSec, rec.SampleRate)
				return nil
			})
		},
	}
}

func newRecordingRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <recording-id>",
		Short: "Remove a recording and its stored audio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withIngestor(cmd.Context(), func(cfg *config.Config, st *store.Store, blobs blob.Store, ingestor *ingest.Ingestor) error {
				if err := ingestor.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed recording %s\n", args[0])
				return nil
			})
		},
	}
}

func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1fs", seconds)
}
