package store

import "time"

// Status represents the lifecycle of a recording.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusStored     Status = "stored"
	StatusFailed     Status = "failed"
)

var statusSet = map[Status]struct{}{
	StatusPending:    {},
	StatusProcessing: {},
	StatusStored:     {},
	StatusFailed:     {},
}

// ValidStatus reports whether s is a known lifecycle status.
func ValidStatus(s Status) bool {
	_, ok := statusSet[s]
	return ok
}

// Contributor is a speaker who submitted recordings.
type Contributor struct {
	ID        string
	Name      string
	AgeRange  string
	Gender    string
	Location  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Recording is one catalogued submission. The raw, clean, and sidecar keys
// address objects in the blob store; they are empty until the corresponding
// upload completes.
type Recording struct {
	ID                    string
	ContributorID         string
	ContributorName       string
	Title                 string
	Theme                 string
	TranscriptionOriginal string
	TranscriptionEnglish  string
	RawKey                string
	CleanKey              string
	SidecarKey            string
	DurationSec           float64
	SampleRate            int
	SizeBytes             int64
	Checksum              string
	ProcessingSteps       []string
	Status                Status
	ErrorMessage          string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// RecordingFilter narrows List queries. Zero values mean "no constraint".
type RecordingFilter struct {
	Query         string
	ContributorID string
	Status        Status
	Limit         int
	Offset        int
}
