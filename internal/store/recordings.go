package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const recordingColumns = `
	r.id, r.contributor_id, c.name, r.title, r.theme,
	r.transcription_original, r.transcription_english,
	r.raw_key, r.clean_key, r.sidecar_key,
	r.duration_sec, r.sample_rate, r.size_bytes, r.checksum,
	r.processing_steps, r.status, r.error_message,
	r.created_at, r.updated_at`

// CreateRecording inserts a new recording row. The contributor must exist;
// the foreign key constraint rejects orphans.
func (s *Store) CreateRecording(ctx context.Context, rec Recording) (Recording, error) {
	if strings.TrimSpace(rec.ContributorID) == "" {
		return Recording{}, errors.New("contributor id is required")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Status == "" {
		rec.Status = StatusPending
	}
	if !ValidStatus(rec.Status) {
		return Recording{}, fmt.Errorf("invalid status %q", rec.Status)
	}
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	steps, err := encodeSteps(rec.ProcessingSteps)
	if err != nil {
		return Recording{}, err
	}

	_, err = s.execWithRetry(ctx, `
		INSERT INTO recordings (
			id, contributor_id, title, theme,
			transcription_original, transcription_english, search_text,
			raw_key, clean_key, sidecar_key,
			duration_sec, sample_rate, size_bytes, checksum,
			processing_steps, status, error_message,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ContributorID, rec.Title, rec.Theme,
		rec.TranscriptionOriginal, rec.TranscriptionEnglish, searchText(rec),
		rec.RawKey, rec.CleanKey, rec.SidecarKey,
		rec.DurationSec, rec.SampleRate, rec.SizeBytes, rec.Checksum,
		steps, string(rec.Status), rec.ErrorMessage,
		formatTime(rec.CreatedAt), formatTime(rec.UpdatedAt))
	if err != nil {
		return Recording{}, fmt.Errorf("insert recording: %w", err)
	}
	return s.GetRecording(ctx, rec.ID)
}

// UpdateRecording rewrites all mutable fields of an existing recording.
func (s *Store) UpdateRecording(ctx context.Context, rec Recording) (Recording, error) {
	if !ValidStatus(rec.Status) {
		return Recording{}, fmt.Errorf("invalid status %q", rec.Status)
	}
	rec.UpdatedAt = time.Now().UTC()

	steps, err := encodeSteps(rec.ProcessingSteps)
	if err != nil {
		return Recording{}, err
	}

	res, err := s.execWithRetry(ctx, `
		UPDATE recordings SET
			title = ?, theme = ?,
			transcription_original = ?, transcription_english = ?, search_text = ?,
			raw_key = ?, clean_key = ?, sidecar_key = ?,
			duration_sec = ?, sample_rate = ?, size_bytes = ?, checksum = ?,
			processing_steps = ?, status = ?, error_message = ?, updated_at = ?
		WHERE id = ?`,
		rec.Title, rec.Theme,
		rec.TranscriptionOriginal, rec.TranscriptionEnglish, searchText(rec),
		rec.RawKey, rec.CleanKey, rec.SidecarKey,
		rec.DurationSec, rec.SampleRate, rec.SizeBytes, rec.Checksum,
		steps, string(rec.Status), rec.ErrorMessage, formatTime(rec.UpdatedAt),
		rec.ID)
	if err != nil {
		return Recording{}, fmt.Errorf("update recording: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Recording{}, fmt.Errorf("update recording: %w", err)
	}
	if affected == 0 {
		return Recording{}, ErrNotFound
	}
	return s.GetRecording(ctx, rec.ID)
}

// SetRecordingStatus transitions a recording's lifecycle status. The error
// message is stored verbatim for failed transitions and cleared otherwise.
func (s *Store) SetRecordingStatus(ctx context.Context, id string, status Status, errorMessage string) error {
	if !ValidStatus(status) {
		return fmt.Errorf("invalid status %q", status)
	}
	if status != StatusFailed {
		errorMessage = ""
	}
	res, err := s.execWithRetry(ctx, `
		UPDATE recordings SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		string(status), errorMessage, formatTime(time.Now().UTC()), id)
	if err != nil {
		return fmt.Errorf("set recording status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set recording status: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetRecording fetches one recording joined with its contributor name.
func (s *Store) GetRecording(ctx context.Context, id string) (Recording, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `
		SELECT `+recordingColumns+`
		FROM recordings r JOIN contributors c ON c.id = r.contributor_id
		WHERE r.id = ?`, id)
	return scanRecording(row)
}

// DeleteRecording removes a recording row.
func (s *Store) DeleteRecording(ctx context.Context, id string) error {
	res, err := s.execWithRetry(ctx, "DELETE FROM recordings WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete recording: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete recording: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListRecordings returns recordings newest first. The filter's Query field
// matches title, theme, both transcriptions, and the contributor name, all
// diacritic-insensitively.
func (s *Store) ListRecordings(ctx context.Context, filter RecordingFilter) ([]Recording, error) {
	ctx = ensureContext(ctx)

	sqlQuery := `
		SELECT ` + recordingColumns + `
		FROM recordings r JOIN contributors c ON c.id = r.contributor_id`
	var (
		clauses []string
		args    []any
	)
	if strings.TrimSpace(filter.Query) != "" {
		clauses = append(clauses, `(r.search_text LIKE ? ESCAPE '\' OR c.name_search LIKE ? ESCAPE '\')`)
		pattern := likePattern(filter.Query)
		args = append(args, pattern, pattern)
	}
	if filter.ContributorID != "" {
		clauses = append(clauses, "r.contributor_id = ?")
		args = append(args, filter.ContributorID)
	}
	if filter.Status != "" {
		if !ValidStatus(filter.Status) {
			return nil, fmt.Errorf("invalid status %q", filter.Status)
		}
		clauses = append(clauses, "r.status = ?")
		args = append(args, string(filter.Status))
	}
	if len(clauses) > 0 {
		sqlQuery += " WHERE " + strings.Join(clauses, " AND ")
	}
	sqlQuery += " ORDER BY r.created_at DESC"
	if filter.Limit > 0 {
		sqlQuery += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			sqlQuery += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}
	defer rows.Close()

	var out []Recording
	for rows.Next() {
		rec, err := scanRecording(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CountRecordings returns per-status totals for status output.
func (s *Store) CountRecordings(ctx context.Context) (map[Status]int, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(1) FROM recordings GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("count recordings: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan counts: %w", err)
		}
		counts[Status(status)] = count
	}
	return counts, rows.Err()
}

func scanRecording(row rowScanner) (Recording, error) {
	var (
		rec                  Recording
		steps, status        string
		createdAt, updatedAt string
	)
	err := row.Scan(
		&rec.ID, &rec.ContributorID, &rec.ContributorName, &rec.Title, &rec.Theme,
		&rec.TranscriptionOriginal, &rec.TranscriptionEnglish,
		&rec.RawKey, &rec.CleanKey, &rec.SidecarKey,
		&rec.DurationSec, &rec.SampleRate, &rec.SizeBytes, &rec.Checksum,
		&steps, &status, &rec.ErrorMessage,
		&createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Recording{}, ErrNotFound
	}
	if err != nil {
		return Recording{}, fmt.Errorf("scan recording: %w", err)
	}
	if err := json.Unmarshal([]byte(steps), &rec.ProcessingSteps); err != nil {
		return Recording{}, fmt.Errorf("decode processing steps: %w", err)
	}
	rec.Status = Status(status)
	rec.CreatedAt = parseTime(createdAt)
	rec.UpdatedAt = parseTime(updatedAt)
	return rec, nil
}

func encodeSteps(steps []string) (string, error) {
	if steps == nil {
		steps = []string{}
	}
	encoded, err := json.Marshal(steps)
	if err != nil {
		return "", fmt.Errorf("encode processing steps: %w", err)
	}
	return string(encoded), nil
}
