// Package deps reports the availability of external binaries Glossa shells
// out to, for status output and daemon preflight.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"glossa/internal/config"
)

// Requirement defines an external dependency Glossa relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// ForConfig returns the requirements implied by the configuration. FFmpeg is
// mandatory: every non-WAV upload goes through it.
func ForConfig(cfg *config.Config) []Requirement {
	binary := "ffmpeg"
	if cfg != nil {
		binary = cfg.FFmpegBinary()
	}
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     binary,
			Description: "Decodes compressed uploads to PCM",
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Command = resolved
		status.Available = true
		results = append(results, status)
	}
	return results
}

// CheckDirectories reports whether the directories Glossa writes to are
// writable by the current process. Directories that do not exist yet are
// reported as unavailable; EnsureDirectories creates them during startup.
func CheckDirectories(cfg *config.Config) []Status {
	if cfg == nil {
		return nil
	}
	checks := []struct {
		name string
		path string
	}{
		{"Staging directory", cfg.Paths.StagingDir},
		{"Log directory", cfg.Paths.LogDir},
	}
	if cfg.Storage.Backend == config.StorageBackendFS {
		checks = append(checks, struct {
			name string
			path string
		}{"Storage root", cfg.Storage.RootDir})
	}
	results := make([]Status, 0, len(checks))
	for _, check := range checks {
		path := strings.TrimSpace(check.path)
		status := Status{
			Name:        check.name,
			Command:     path,
			Description: "Writable directory",
		}
		if path == "" {
			status.Detail = "path not configured"
			results = append(results, status)
			continue
		}
		if err := unix.Access(path, unix.W_OK); err != nil {
			status.Detail = fmt.Sprintf("not writable: %v", err)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the names of required dependencies that are not
// available.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, status := range statuses {
		if !status.Optional && !status.Available {
			missing = append(missing, status.Name)
		}
	}
	return missing
}
