package services_test

import (
	"errors"
	"strings"
	"testing"

	"glossa/internal/services"
)

func TestWrapTagsMarkerAndDetail(t *testing.T) {
	base := errors.New("disk full")
	err := services.Wrap(services.ErrExternalTool, "ingest", "store blob", "writing object", base)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatal("marker lost")
	}
	if !errors.Is(err, base) {
		t.Fatal("cause lost")
	}
	for _, part := range []string{"ingest", "store blob", "writing object", "disk full"} {
		if !strings.Contains(err.Error(), part) {
			t.Fatalf("message %q missing %q", err.Error(), part)
		}
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "ingest", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatal("expected transient marker")
	}
}

func TestIsPermanent(t *testing.T) {
	if !services.IsPermanent(services.Wrap(services.ErrValidation, "api", "upload", "no file", nil)) {
		t.Fatal("validation should be permanent")
	}
	if services.IsPermanent(services.Wrap(services.ErrTransient, "api", "upload", "retry", nil)) {
		t.Fatal("transient should not be permanent")
	}
}
