package api_test

import (
	"testing"
	"time"

	"glossa/internal/api"
	"glossa/internal/store"
)

func TestFromStoreRecording(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	row := store.Recording{
		ID:                    "rec-1",
		ContributorID:         "con-1",
		ContributorName:       "Amara Banda",
		Title:                 "Morning greeting",
		Theme:                 "greetings",
		TranscriptionOriginal: "moni mawa",
		TranscriptionEnglish:  "good morning",
		Status:                store.StatusStored,
		DurationSec:           2.5,
		SampleRate:            16000,
		SizeBytes:             80044,
		Checksum:              "abc123",
		ProcessingSteps:       []string{"decode", "vad", "encode"},
		RawKey:                "recordings/raw/rec-1_raw.wav",
		CleanKey:              "recordings/clean/rec-1_clean.wav",
		CreatedAt:             created,
		UpdatedAt:             created,
	}

	dto := api.FromStoreRecording(row)
	if dto.ID != "rec-1" || dto.ContributorName != "Amara Banda" {
		t.Fatalf("identity fields lost: %+v", dto)
	}
	if dto.Status != "stored" {
		t.Fatalf("status = %q", dto.Status)
	}
	if dto.CreatedAt != "2026-03-14T09:26:53.000Z" {
		t.Fatalf("created at = %q", dto.CreatedAt)
	}
	if len(dto.ProcessingSteps) != 3 {
		t.Fatalf("steps = %v", dto.ProcessingSteps)
	}
}

func TestFromStoreRecordingZeroTimes(t *testing.T) {
	dto := api.FromStoreRecording(store.Recording{ID: "rec-2", Status: store.StatusPending})
	if dto.CreatedAt != "" || dto.UpdatedAt != "" {
		t.Fatalf("zero times rendered: %q %q", dto.CreatedAt, dto.UpdatedAt)
	}
}

func TestFromStoreContributors(t *testing.T) {
	if got := api.FromStoreContributors(nil); got != nil {
		t.Fatalf("empty input produced %v", got)
	}
	rows := []store.Contributor{{ID: "a", Name: "Amara"}, {ID: "b", Name: "Chikondi"}}
	got := api.FromStoreContributors(rows)
	if len(got) != 2 || got[1].Name != "Chikondi" {
		t.Fatalf("conversion lost rows: %v", got)
	}
}
