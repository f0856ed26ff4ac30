package testsupport

import (
	"context"
	"testing"

	"glossa/internal/config"
	"glossa/internal/store"
)

// MustOpenStore opens a catalog store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewContributor creates a contributor row for tests.
func NewContributor(t testing.TB, st *store.Store, name string) store.Contributor {
	t.Helper()

	c, err := st.CreateContributor(context.Background(), store.Contributor{Name: name})
	if err != nil {
		t.Fatalf("store.CreateContributor: %v", err)
	}
	return c
}

// NewRecording creates a pending recording row for tests.
func NewRecording(t testing.TB, st *store.Store, contributorID, title string) store.Recording {
	t.Helper()

	rec, err := st.CreateRecording(context.Background(), store.Recording{
		ContributorID: contributorID,
		Title:         title,
	})
	if err != nil {
		t.Fatalf("store.CreateRecording: %v", err)
	}
	return rec
}
