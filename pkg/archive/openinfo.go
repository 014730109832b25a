package archive

import (
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Allocator is the narrow buffer-allocation interface the archive borrows
// for the lifetime of an open handle. Callers may supply their own arena;
// DefaultAllocator wraps pkg/bufpool for the common case.
type Allocator interface {
	Alloc(n int) []byte
	Free(buf []byte)
}

// PlatformKey is an opaque provenance identity stamped into the header.
// The archive core has no identity semantics of its own; it only compares
// bytes.
type PlatformKey []byte

var validate = validator.New()

// OpenInfo configures Open, Create, and Delete.
type OpenInfo struct {
	// FilePath and FileName are composed as "{FilePath}/{FileName}".
	FilePath string `validate:"required"`
	FileName string `validate:"required"`

	AllowWriteAccess bool
	AllowCreateFile  bool

	UseBufferedReadMemory bool
	// MaxReadBufferMem is the page cache's memory budget in bytes. Required
	// when UseBufferedReadMemory is set.
	MaxReadBufferMem uint64 `validate:"required_if=UseBufferedReadMemory true"`

	UseStrictVersionControl bool

	// ArchiveType is a caller-chosen classifier; 0 means "any" on open.
	ArchiveType uint32

	// PlatformKey is optional; longer-than-field keys are silently
	// truncated (see DESIGN.md).
	PlatformKey PlatformKey

	// Allocator is optional; DefaultAllocator() is used when nil.
	Allocator Allocator
}

// Validate rejects a malformed OpenInfo before any filesystem call is made.
func (o *OpenInfo) Validate() error {
	return validate.Struct(o)
}

// path returns the composed file path.
func (o *OpenInfo) path() string {
	return filepath.Join(o.FilePath, o.FileName)
}

func (o *OpenInfo) allocator() Allocator {
	if o.Allocator != nil {
		return o.Allocator
	}
	return DefaultAllocator()
}
