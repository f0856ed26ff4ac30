package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"glossa/internal/config"
)

const userAgent = "Glossa-Go/0.1.0"

// Service defines the notification surface exposed to the ingest flow.
type Service interface {
	NotifyUploadReceived(ctx context.Context, title, contributorName string) error
	NotifyRecordingStored(ctx context.Context, title string, durationSec float64) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:     topic,
		client:       &http.Client{Timeout: timeout},
		ingestEvents: cfg.Notifications.Ingest,
		errorEvents:  cfg.Notifications.Errors,
		dedupWindow:  time.Duration(cfg.Notifications.DedupWindowSeconds) * time.Second,
		recent:       map[string]time.Time{},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string

	// dedupExempt marks notifications the user requested explicitly, which
	// must go out even when an identical one was just sent.
	dedupExempt bool
}

type ntfyService struct {
	endpoint     string
	client       *http.Client
	ingestEvents bool
	errorEvents  bool
	dedupWindow  time.Duration

	mu     sync.Mutex
	recent map[string]time.Time
}

func (n *ntfyService) NotifyUploadReceived(ctx context.Context, title, contributorName string) error {
	if !n.ingestEvents {
		return nil
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = "untitled"
	}
	message := fmt.Sprintf("Upload received: %s", title)
	if contributorName = strings.TrimSpace(contributorName); contributorName != "" {
		message = fmt.Sprintf("%s (from %s)", message, contributorName)
	}
	data := payload{
		title:   "Glossa - Upload Received",
		message: message,
		tags:    []string{"glossa", "upload", "received"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRecordingStored(ctx context.Context, title string, durationSec float64) error {
	if !n.ingestEvents {
		return nil
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = "untitled"
	}
	data := payload{
		title:    "Glossa - Recording Stored",
		message:  fmt.Sprintf("Processed and stored: %s (%.1fs)", title, durationSec),
		tags:     []string{"glossa", "ingest", "completed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errorEvents {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Glossa - Error",
		message:  builder.String(),
		tags:     []string{"glossa", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:       "Glossa - Test",
		message:     "Notification system test",
		tags:        []string{"glossa", "test"},
		priority:    "low",
		dedupExempt: true,
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}
	if !data.dedupExempt && n.suppressed(data) {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// suppressed reports whether an identical notification already went out
// inside the dedup window, recording this one otherwise. Stale entries are
// pruned on each call.
func (n *ntfyService) suppressed(data payload) bool {
	if n.dedupWindow <= 0 {
		return false
	}
	key := data.title + "\x00" + data.message
	now := time.Now()

	n.mu.Lock()
	defer n.mu.Unlock()
	if last, ok := n.recent[key]; ok && now.Sub(last) < n.dedupWindow {
		return true
	}
	for k, at := range n.recent {
		if now.Sub(at) >= n.dedupWindow {
			delete(n.recent, k)
		}
	}
	n.recent[key] = now
	return false
}

type noopService struct{}

func (noopService) NotifyUploadReceived(context.Context, string, string) error   { return nil }
func (noopService) NotifyRecordingStored(context.Context, string, float64) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error             { return nil }
func (noopService) TestNotification(context.Context) error                       { return nil }
