package services_test

import (
	"context"
	"testing"

	"glossa/internal/services"
)

func TestRecordingIDRoundTrip(t *testing.T) {
	ctx := services.WithRecordingID(context.Background(), "9e2f7c2a-8f63-4c41-9a6d-5f0c2b9d1e77")
	id, ok := services.RecordingIDFromContext(ctx)
	if !ok || id != "9e2f7c2a-8f63-4c41-9a6d-5f0c2b9d1e77" {
		t.Fatalf("got %q %v", id, ok)
	}
	if _, ok := services.RecordingIDFromContext(context.Background()); ok {
		t.Fatal("empty context should not carry an id")
	}
	if same := services.WithRecordingID(ctx, ""); same != ctx {
		t.Fatal("empty id must not allocate a new context")
	}
}

func TestOperationAndRequestID(t *testing.T) {
	ctx := services.WithOperation(context.Background(), "upload")
	ctx = services.WithRequestID(ctx, "req-7")

	if op, ok := services.OperationFromContext(ctx); !ok || op != "upload" {
		t.Fatalf("operation round trip failed: %q %v", op, ok)
	}
	if id, ok := services.RequestIDFromContext(ctx); !ok || id != "req-7" {
		t.Fatalf("request id round trip failed: %q %v", id, ok)
	}

	if same := services.WithOperation(ctx, ""); same != ctx {
		t.Fatal("empty operation must not allocate a new context")
	}
}
