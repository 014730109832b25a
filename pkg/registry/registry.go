// Package registry maintains a local catalogue of archives a build
// pipeline has produced or consumed: path, platform key, archive type,
// entry count, and last-write time. It does not index into an archive's
// entries — it only tracks which archive files exist and their coarse
// metadata, so a fleet operator can answer "which archives exist and how
// big are they" without reopening every file.
package registry

import (
	"context"
	"fmt"
	"time"
)

// Record describes one archive known to the registry.
type Record struct {
	Path        string
	ArchiveType uint32
	PlatformKey []byte
	EntryCount  uint32
	LastWrite   time.Time
	RegisteredAt time.Time
}

// ErrNotFound is returned when a record is looked up by a path that is
// not registered.
var ErrNotFound = fmt.Errorf("registry: record not found")

// Registry catalogues known archives by path.
type Registry interface {
	// Put inserts or replaces the record for rec.Path.
	Put(ctx context.Context, rec Record) error

	// Get retrieves the record for path. Returns ErrNotFound if absent.
	Get(ctx context.Context, path string) (Record, error)

	// Remove deletes the record for path, if present.
	Remove(ctx context.Context, path string) error

	// List returns every registered record, ordered by path.
	List(ctx context.Context) ([]Record, error)

	// Close releases any resources held by the registry.
	Close() error
}
