package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Contributor describes a speaker in a transport-friendly format.
type Contributor struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AgeRange  string `json:"ageRange,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Location  string `json:"location,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Recording describes a catalogued recording in a transport-friendly format.
type Recording struct {
	ID                    string   `json:"id"`
	ContributorID         string   `json:"contributorId"`
	ContributorName       string   `json:"contributorName,omitempty"`
	Title                 string   `json:"title"`
	Theme                 string   `json:"theme,omitempty"`
	TranscriptionOriginal string   `json:"transcriptionOriginal,omitempty"`
	TranscriptionEnglish  string   `json:"transcriptionEnglish,omitempty"`
	Status                string   `json:"status"`
	ErrorMessage          string   `json:"errorMessage,omitempty"`
	DurationSec           float64  `json:"durationSec,omitempty"`
	SampleRate            int      `json:"sampleRate,omitempty"`
	SizeBytes             int64    `json:"sizeBytes,omitempty"`
	Checksum              string   `json:"checksum,omitempty"`
	ProcessingSteps       []string `json:"processingSteps,omitempty"`
	RawKey                string   `json:"rawKey,omitempty"`
	CleanKey              string   `json:"cleanKey,omitempty"`
	SidecarKey            string   `json:"sidecarKey,omitempty"`
	CreatedAt             string   `json:"createdAt,omitempty"`
	UpdatedAt             string   `json:"updatedAt,omitempty"`
}

// StreamLinks carries resolved playback URLs for one recording.
type StreamLinks struct {
	RecordingID string `json:"recordingId"`
	RawURL      string `json:"rawUrl,omitempty"`
	CleanURL    string `json:"cleanUrl,omitempty"`
	SidecarURL  string `json:"sidecarUrl,omitempty"`
}

// DependencyStatus captures availability of an external dependency.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running         bool               `json:"running"`
	PID             int                `json:"pid"`
	DatabasePath    string             `json:"databasePath"`
	LockFilePath    string             `json:"lockFilePath"`
	StorageBackend  string             `json:"storageBackend"`
	RecordingCounts map[string]int     `json:"recordingCounts"`
	Dependencies    []DependencyStatus `json:"dependencies"`
}

// RecordingListResponse wraps a collection of recordings.
type RecordingListResponse struct {
	Recordings []Recording `json:"recordings"`
}

// RecordingResponse wraps a single recording.
type RecordingResponse struct {
	Recording Recording `json:"recording"`
}

// ContributorListResponse wraps a collection of contributors.
type ContributorListResponse struct {
	Contributors []Contributor `json:"contributors"`
}

// ContributorResponse wraps a single contributor.
type ContributorResponse struct {
	Contributor Contributor `json:"contributor"`
}
