package api

import (
	"time"

	"glossa/internal/store"
)

// FromStoreContributor converts a catalog row to its transport shape.
func FromStoreContributor(c store.Contributor) Contributor {
	return Contributor{
		ID:        c.ID,
		Name:      c.Name,
		AgeRange:  c.AgeRange,
		Gender:    c.Gender,
		Location:  c.Location,
		CreatedAt: formatTimestamp(c.CreatedAt),
		UpdatedAt: formatTimestamp(c.UpdatedAt),
	}
}

// FromStoreRecording converts a catalog row to its transport shape.
func FromStoreRecording(r store.Recording) Recording {
	return Recording{
		ID:                    r.ID,
		ContributorID:         r.ContributorID,
		ContributorName:       r.ContributorName,
		Title:                 r.Title,
		Theme:                 r.Theme,
		TranscriptionOriginal: r.TranscriptionOriginal,
		TranscriptionEnglish:  r.TranscriptionEnglish,
		Status:                string(r.Status),
		ErrorMessage:          r.ErrorMessage,
		DurationSec:           r.DurationSec,
		SampleRate:            r.SampleRate,
		SizeBytes:             r.SizeBytes,
		Checksum:              r.Checksum,
		ProcessingSteps:       r.ProcessingSteps,
		RawKey:                r.RawKey,
		CleanKey:              r.CleanKey,
		SidecarKey:            r.SidecarKey,
		CreatedAt:             formatTimestamp(r.CreatedAt),
		UpdatedAt:             formatTimestamp(r.UpdatedAt),
	}
}

// FromStoreRecordings converts a slice of catalog rows.
func FromStoreRecordings(rows []store.Recording) []Recording {
	if len(rows) == 0 {
		return nil
	}
	out := make([]Recording, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromStoreRecording(row))
	}
	return out
}

// FromStoreContributors converts a slice of catalog rows.
func FromStoreContributors(rows []store.Contributor) []Contributor {
	if len(rows) == 0 {
		return nil
	}
	out := make([]Contributor, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromStoreContributor(row))
	}
	return out
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
