package registry

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func testRecord(path string) Record {
	return Record{
		Path:         path,
		ArchiveType:  7,
		PlatformKey:  []byte("unit-test"),
		EntryCount:   3,
		LastWrite:    time.Unix(1700000000, 0).UTC(),
		RegisteredAt: time.Unix(1700000100, 0).UTC(),
	}
}

func runRegistryConformance(t *testing.T, reg Registry) {
	t.Helper()
	ctx := context.Background()

	if _, err := reg.Get(ctx, "/does/not/exist.pak"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for unregistered path, got %v", err)
	}

	rec := testRecord("/tmp/archives/shader.pak")
	if err := reg.Put(ctx, rec); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := reg.Get(ctx, rec.Path)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Path != rec.Path || got.ArchiveType != rec.ArchiveType || got.EntryCount != rec.EntryCount {
		t.Fatalf("Get returned %+v, want %+v", got, rec)
	}

	updated := rec
	updated.EntryCount = 4
	if err := reg.Put(ctx, updated); err != nil {
		t.Fatalf("Put (update) failed: %v", err)
	}
	got, err = reg.Get(ctx, rec.Path)
	if err != nil {
		t.Fatalf("Get after update failed: %v", err)
	}
	if got.EntryCount != 4 {
		t.Fatalf("expected EntryCount 4 after update, got %d", got.EntryCount)
	}

	second := testRecord("/tmp/archives/pipeline.pak")
	if err := reg.Put(ctx, second); err != nil {
		t.Fatalf("Put (second) failed: %v", err)
	}

	list, err := reg.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 records, got %d", len(list))
	}
	// List is ordered by path.
	if list[0].Path != "/tmp/archives/pipeline.pak" || list[1].Path != "/tmp/archives/shader.pak" {
		t.Fatalf("unexpected list order: %+v", list)
	}

	if err := reg.Remove(ctx, rec.Path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := reg.Get(ctx, rec.Path); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after Remove, got %v", err)
	}
}

func TestMemoryRegistry_Conformance(t *testing.T) {
	runRegistryConformance(t, NewMemory())
}

func TestBadgerRegistry_Conformance(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "registry")

	reg, err := NewBadger(dir)
	if err != nil {
		t.Fatalf("NewBadger failed: %v", err)
	}
	defer reg.Close()

	runRegistryConformance(t, reg)
}
