package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"log/slog"

	"glossa/internal/blob"
	"glossa/internal/config"
	"glossa/internal/fileutil"
	"glossa/internal/logging"
	"glossa/internal/notifications"
	"glossa/internal/pipeline"
	"glossa/internal/services"
	"glossa/internal/store"
)

// Params describes one uploaded recording.
type Params struct {
	ContributorID         string
	Title                 string
	Theme                 string
	TranscriptionOriginal string
	TranscriptionEnglish  string

	// Filename is the name the upload arrived with; its extension selects
	// the raw archive key and content type.
	Filename string
	Source   io.Reader
}

// Ingestor runs the upload-to-stored flow for recordings.
type Ingestor struct {
	cfg       *config.Config
	store     *store.Store
	blobs     blob.Store
	processor *pipeline.Processor
	notifier  notifications.Service
	logger    *slog.Logger
}

// NewIngestor constructs an ingestor using default collaborators derived
// from the configuration.
func NewIngestor(cfg *config.Config, catalog *store.Store, blobs blob.Store, logger *slog.Logger) *Ingestor {
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
	return NewIngestorWithDependencies(cfg, catalog, blobs, processor, notifications.NewService(cfg), logger)
}

// NewIngestorWithDependencies allows injecting collaborators (used in tests).
func NewIngestorWithDependencies(cfg *config.Config, catalog *store.Store, blobs blob.Store, processor *pipeline.Processor, notifier notifications.Service, logger *slog.Logger) *Ingestor {
	return &Ingestor{
		cfg:       cfg,
		store:     catalog,
		blobs:     blobs,
		processor: processor,
		notifier:  notifier,
		logger:    logging.NewComponentLogger(logger, "ingest"),
	}
}

// Ingest stages the upload, archives the raw audio, processes it, and
// stores the cleaned recording. The returned record reflects the final
// catalog state; on processing failure the record is marked failed and the
// error is returned.
func (i *Ingestor) Ingest(ctx context.Context, params Params) (store.Recording, error) {
	if params.Source == nil {
		return store.Recording{}, services.Wrap(services.ErrValidation, "ingest", "validate upload", "upload has no body", nil)
	}
	ext := strings.ToLower(filepath.Ext(params.Filename))
	if ext == "" {
		return store.Recording{}, services.Wrap(services.ErrValidation, "ingest", "validate upload", "upload filename has no extension", nil)
	}

	rec, err := i.store.CreateRecording(ctx, store.Recording{
		ContributorID:         params.ContributorID,
		Title:                 strings.TrimSpace(params.Title),
		Theme:                 strings.TrimSpace(params.Theme),
		TranscriptionOriginal: params.TranscriptionOriginal,
		TranscriptionEnglish:  params.TranscriptionEnglish,
		Status:                store.StatusPending,
	})
	if err != nil {
		return store.Recording{}, err
	}
	ctx = services.WithRecordingID(ctx, rec.ID)
	logger := i.logger.With(logging.String("recording_id", rec.ID))
	logger.Info("upload received",
		logging.String("title", rec.Title),
		logging.String("contributor", rec.ContributorName),
		logging.String("extension", ext),
	)
	if err := i.notifier.NotifyUploadReceived(ctx, rec.Title, rec.ContributorName); err != nil {
		logger.Warn("upload notification failed", logging.Error(err))
	}

	workDir := filepath.Join(i.cfg.Paths.StagingDir, rec.ID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return i.fail(ctx, rec, "create staging directory", err)
	}
	defer i.cleanup(workDir, logger)

	rawPath := filepath.Join(workDir, "raw"+ext)
	size, checksum, err := fileutil.WriteStreamVerified(params.Source, rawPath)
	if err != nil {
		return i.fail(ctx, rec, "stage upload", err)
	}
	logger.Info("upload staged",
		logging.Int64("size_bytes", size),
		logging.String("checksum", checksum),
	)

	rawKey := blob.RawKey(rec.ID, ext)
	if _, err := i.blobs.Put(ctx, rawKey, rawPath, contentTypeFor(ext)); err != nil {
		return i.fail(ctx, rec, "archive raw audio", err)
	}
	rec.RawKey = rawKey
	updated, err := i.store.UpdateRecording(ctx, rec)
	if err != nil {
		return i.fail(ctx, rec, "record raw key", err)
	}
	rec = updated
	if err := i.store.SetRecordingStatus(ctx, rec.ID, store.StatusProcessing, ""); err != nil {
		return i.fail(ctx, rec, "mark processing", err)
	}

	cleanPath := filepath.Join(workDir, "clean.wav")
	result, err := i.processor.Process(ctx, rawPath, cleanPath)
	if err != nil {
		return i.fail(ctx, rec, "process audio", err)
	}

	cleanKey := blob.CleanKey(rec.ID)
	if _, err := i.blobs.Put(ctx, cleanKey, cleanPath, "audio/wav"); err != nil {
		return i.fail(ctx, rec, "store clean audio", err)
	}

	sidecarKey := ""
	sidecarPath := pipeline.SidecarPath(cleanPath)
	if _, statErr := os.Stat(sidecarPath); statErr == nil {
		sidecarKey = blob.SidecarKey(rec.ID)
		if _, err := i.blobs.Put(ctx, sidecarKey, sidecarPath, "application/json"); err != nil {
			logger.Warn("sidecar upload failed", logging.Error(err))
			sidecarKey = ""
		}
	}

	cleanInfo, err := os.Stat(cleanPath)
	if err != nil {
		return i.fail(ctx, rec, "inspect clean audio", err)
	}
	cleanChecksum, err := fileutil.ChecksumFile(cleanPath)
	if err != nil {
		return i.fail(ctx, rec, "checksum clean audio", err)
	}

	rec.CleanKey = cleanKey
	rec.SidecarKey = sidecarKey
	rec.DurationSec = result.DurationSeconds
	rec.SampleRate = result.SampleRate
	rec.SizeBytes = cleanInfo.Size()
	rec.Checksum = cleanChecksum
	rec.ProcessingSteps = result.Steps
	rec.Status = store.StatusStored
	rec.ErrorMessage = ""
	final, err := i.store.UpdateRecording(ctx, rec)
	if err != nil {
		return i.fail(ctx, rec, "finalize catalog record", err)
	}
	rec = final

	logger.Info("recording stored",
		logging.Float64("duration_sec", rec.DurationSec),
		logging.Int("sample_rate", rec.SampleRate),
		logging.String("steps", strings.Join(rec.ProcessingSteps, ",")),
	)
	if err := i.notifier.NotifyRecordingStored(ctx, rec.Title, rec.DurationSec); err != nil {
		logger.Warn("stored notification failed", logging.Error(err))
	}
	return rec, nil
}

// Reprocess reruns the pipeline for an already archived recording. The raw
// object is fetched from the blob store, processed, and the clean artifacts
// replaced.
func (i *Ingestor) Reprocess(ctx context.Context, recordingID string) (store.Recording, error) {
	rec, err := i.store.GetRecording(ctx, recordingID)
	if err != nil {
		return store.Recording{}, err
	}
	if rec.RawKey == "" {
		return store.Recording{}, services.Wrap(services.ErrValidation, "ingest", "reprocess", "recording has no archived raw audio", nil)
	}
	ctx = services.WithRecordingID(ctx, rec.ID)
	logger := i.logger.With(logging.String("recording_id", rec.ID))

	workDir := filepath.Join(i.cfg.Paths.StagingDir, rec.ID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return i.fail(ctx, rec, "create staging directory", err)
	}
	defer i.cleanup(workDir, logger)

	rawPath := filepath.Join(workDir, "raw"+filepath.Ext(rec.RawKey))
	if err := i.fetchRaw(ctx, rec.RawKey, rawPath); err != nil {
		return i.fail(ctx, rec, "fetch raw audio", err)
	}
	if err := i.store.SetRecordingStatus(ctx, rec.ID, store.StatusProcessing, ""); err != nil {
		return i.fail(ctx, rec, "mark processing", err)
	}

	cleanPath := filepath.Join(workDir, "clean.wav")
	result, err := i.processor.Process(ctx, rawPath, cleanPath)
	if err != nil {
		return i.fail(ctx, rec, "process audio", err)
	}

	cleanKey := blob.CleanKey(rec.ID)
	if _, err := i.blobs.Put(ctx, cleanKey, cleanPath, "audio/wav"); err != nil {
		return i.fail(ctx, rec, "store clean audio", err)
	}
	sidecarKey := rec.SidecarKey
	sidecarPath := pipeline.SidecarPath(cleanPath)
	if _, statErr := os.Stat(sidecarPath); statErr == nil {
		sidecarKey = blob.SidecarKey(rec.ID)
		if _, err := i.blobs.Put(ctx, sidecarKey, sidecarPath, "application/json"); err != nil {
			logger.Warn("sidecar upload failed", logging.Error(err))
		}
	}

	cleanInfo, err := os.Stat(cleanPath)
	if err != nil {
		return i.fail(ctx, rec, "inspect clean audio", err)
	}
	cleanChecksum, err := fileutil.ChecksumFile(cleanPath)
	if err != nil {
		return i.fail(ctx, rec, "checksum clean audio", err)
	}

	rec.CleanKey = cleanKey
	rec.SidecarKey = sidecarKey
	rec.DurationSec = result.DurationSeconds
	rec.SampleRate = result.SampleRate
	rec.SizeBytes = cleanInfo.Size()
	rec.Checksum = cleanChecksum
	rec.ProcessingSteps = result.Steps
	rec.Status = store.StatusStored
	rec.ErrorMessage = ""
	final, err := i.store.UpdateRecording(ctx, rec)
	if err != nil {
		return i.fail(ctx, rec, "finalize catalog record", err)
	}
	rec = final
	logger.Info("recording reprocessed", logging.Float64("duration_sec", rec.DurationSec))
	return rec, nil
}

// Delete removes a recording from the catalog together with its stored
// objects. Blob deletions are attempted for every key; the catalog row is
// removed even when an object is already gone.
func (i *Ingestor) Delete(ctx context.Context, recordingID string) error {
	rec, err := i.store.GetRecording(ctx, recordingID)
	if err != nil {
		return err
	}
	for _, key := range []string{rec.RawKey, rec.CleanKey, rec.SidecarKey} {
		if key == "" {
			continue
		}
		if err := i.blobs.Delete(ctx, key); err != nil && !errors.Is(err, blob.ErrNotFound) {
			return services.Wrap(services.ErrTransient, "ingest", "delete object", fmt.Sprintf("delete %s", key), err)
		}
	}
	return i.store.DeleteRecording(ctx, rec.ID)
}

func (i *Ingestor) fetchRaw(ctx context.Context, key, dst string) error {
	r, err := i.blobs.Open(ctx, key)
	if err != nil {
		return err
	}
	defer r.Close()
	if _, _, err := fileutil.WriteStreamVerified(r, dst); err != nil {
		return err
	}
	return nil
}

func (i *Ingestor) fail(ctx context.Context, rec store.Recording, operation string, cause error) (store.Recording, error) {
	logger := i.logger.With(logging.String("recording_id", rec.ID))
	logger.Error("ingest failed", logging.String("operation", operation), logging.Error(cause))
	if err := i.store.SetRecordingStatus(ctx, rec.ID, store.StatusFailed, fmt.Sprintf("%s: %v", operation, cause)); err != nil {
		logger.Warn("failed to mark recording failed", logging.Error(err))
	}
	if err := i.notifier.NotifyError(ctx, cause, fmt.Sprintf("%s (%s)", operation, rec.Title)); err != nil {
		logger.Warn("error notification failed", logging.Error(err))
	}
	rec.Status = store.StatusFailed
	rec.ErrorMessage = fmt.Sprintf("%s: %v", operation, cause)
	return rec, fmt.Errorf("%s: %w", operation, cause)
}

func (i *Ingestor) cleanup(workDir string, logger *slog.Logger) {
	if i.cfg.Storage.KeepOriginalUploads {
		return
	}
	if err := os.RemoveAll(workDir); err != nil {
		logger.Warn("staging cleanup failed", logging.Error(err))
	}
}

func contentTypeFor(ext string) string {
	switch ext {
	case ".wav":
		return "audio/wav"
	case ".ogg", ".oga":
		return "audio/ogg"
	case ".opus":
		return "audio/opus"
	case ".mp3":
		return "audio/mpeg"
	case ".flac":
		return "audio/flac"
	case ".m4a", ".aac":
		return "audio/mp4"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
