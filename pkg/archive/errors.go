package archive

import "errors"

// Archive errors. Callers distinguish failure kinds with errors.Is against
// these sentinels rather than inspecting error strings.
var (
	// ErrAlreadyExists is returned by Create when the target path already exists.
	ErrAlreadyExists = errors.New("archive: file already exists")

	// ErrUnavailable is returned when the file or its exclusive lock cannot be obtained.
	ErrUnavailable = errors.New("archive: file or lock unavailable")

	// ErrIncompatibleLibrary is returned when header validation fails on open.
	ErrIncompatibleLibrary = errors.New("archive: incompatible header")

	// ErrCorrupt is returned on footer validation failure or payload CRC mismatch.
	ErrCorrupt = errors.New("archive: corrupt archive data")

	// ErrInvalidValue is returned for out-of-range or otherwise invalid arguments.
	ErrInvalidValue = errors.New("archive: invalid value")

	// ErrInvalidPointer is returned when a required output argument is nil.
	ErrInvalidPointer = errors.New("archive: invalid pointer")

	// ErrNotReady signals that a page cache read cannot be satisfied without a
	// retry. RefreshFile has no retry loop and no operation in this package
	// currently returns it.
	ErrNotReady = errors.New("archive: not ready")

	// ErrUnsupported is returned when an operation requires a capability the
	// archive was not opened with, such as Write on a read-only handle.
	ErrUnsupported = errors.New("archive: unsupported operation")

	// ErrOutOfMemory is returned when the append buffer cannot be allocated.
	ErrOutOfMemory = errors.New("archive: out of memory")

	// ErrInitializationFailed is a catch-all for post-open setup failures.
	ErrInitializationFailed = errors.New("archive: initialization failed")

	// errEOF signals that an entry walk reached the footer legitimately.
	// It never escapes this package.
	errEOF = errors.New("archive: entry walk reached footer")
)
