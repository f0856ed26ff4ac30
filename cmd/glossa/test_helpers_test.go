package main

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeCLIConfig lays out a config file with every path under a temp dir so
// commands run hermetically.
func writeCLIConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	content := fmt.Sprintf(`[paths]
staging_dir = %q
log_dir = %q
api_bind = "127.0.0.1:0"

[storage]
backend = "fs"
root_dir = %q
`,
		filepath.Join(base, "staging"),
		filepath.Join(base, "logs"),
		filepath.Join(base, "recordings"),
	)
	configPath := filepath.Join(base, "config.toml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("output %q does not contain %q", output, want)
	}
}

// writeToneWAV renders a short clip with a tone burst suitable for the
// ingest pipeline.
func writeToneWAV(t *testing.T, path string) {
	t.Helper()
	rate := 16000
	n := rate * 2
	data := make([]int, n)
	for i := range data {
		tSec := float64(i) / float64(rate)
		if tSec >= 0.4 && tSec < 1.6 {
			data[i] = int(math.Round(0.5 * math.Sin(2*math.Pi*440*tSec) * 32767))
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create clip: %v", err)
	}
	enc := wav.NewEncoder(f, rate, 16, 1, 1)
	if err := enc.Write(&audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		SourceBitDepth: 16,
	}); err != nil {
		t.Fatalf("encode clip: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close clip: %v", err)
	}
}

// extractID pulls the parenthesized or trailing UUID-ish token from command
// output lines like "Added contributor Amara (abc-123)".
func extractID(t *testing.T, output, prefix string) string {
	t.Helper()
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, prefix) {
			continue
		}
		if open := strings.LastIndex(line, "("); open >= 0 {
			if close := strings.LastIndex(line, ")"); close > open {
				return line[open+1 : close]
			}
		}
		fields := strings.Fields(line)
		if len(fields) > 0 {
			return fields[len(fields)-1]
		}
	}
	t.Fatalf("no id found in output: %q", output)
	return ""
}

// firstTableID returns the first data cell of a rendered table.
func firstTableID(t *testing.T, output string) string {
	t.Helper()
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "│") {
			continue
		}
		cells := strings.Split(line, "│")
		if len(cells) < 2 {
			continue
		}
		cell := strings.TrimSpace(cells[1])
		if cell == "" || cell == "ID" {
			continue
		}
		return cell
	}
	t.Fatalf("no table rows in output: %q", output)
	return ""
}
