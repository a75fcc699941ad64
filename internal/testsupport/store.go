package testsupport

import (
	"context"
	"testing"

	"ohmg/internal/config"
	"ohmg/internal/stubserver"
	"ohmg/internal/volume"
)

// MustOpenStore opens a stub store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *stubserver.Store {
	t.Helper()

	store, err := stubserver.OpenStore(cfg.Stub.DatabasePath)
	if err != nil {
		t.Fatalf("stubserver.OpenStore: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewVolume creates a stored volume for tests.
func NewVolume(t testing.TB, store *stubserver.Store, identifier string, sheetTotal int) {
	t.Helper()

	err := store.CreateVolume(context.Background(), stubserver.VolumeRecord{
		Identifier: identifier,
		Title:      identifier,
		SheetTotal: sheetTotal,
	})
	if err != nil {
		t.Fatalf("store.CreateVolume: %v", err)
	}
}

// NewStoredDocument inserts a sheet for tests and returns its id.
func NewStoredDocument(t testing.TB, store *stubserver.Store, volumeID string, page int, status volume.DocStatus) int64 {
	t.Helper()

	id, err := store.InsertDocument(context.Background(), stubserver.DocumentRecord{
		VolumeID: volumeID,
		PageNo:   page,
		Title:    volumeID,
		Status:   status,
	})
	if err != nil {
		t.Fatalf("store.InsertDocument: %v", err)
	}
	return id
}
