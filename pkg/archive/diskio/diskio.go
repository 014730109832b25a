// Package diskio provides the archive's positional I/O adapter: direct
// pread/pwrite against a file descriptor plus exclusive advisory locking.
//
// os.File's Read/Write share a single seek offset across all callers of the
// same *os.File, which is unsafe once page-cache reloads and direct reads
// can interleave. golang.org/x/sys/unix.Pread/Pwrite operate purely on an
// explicit offset and never touch that shared cursor.
package diskio

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// File is a positional-I/O handle over an open file descriptor.
type File struct {
	f *os.File
}

// Open wraps an already-opened *os.File for positional I/O.
func Open(f *os.File) *File {
	return &File{f: f}
}

// Fd returns the underlying OS file descriptor.
func (d *File) Fd() uintptr {
	return d.f.Fd()
}

// OSFile returns the underlying *os.File, e.g. for Stat or Close.
func (d *File) OSFile() *os.File {
	return d.f
}

// ReadAt performs a single bounded positional read starting at offset.
// A short read where the requested length exceeds the available file size
// returns only what is available; the returned slice length may be less
// than requested without that being an error.
func (d *File) ReadAt(offset int64, length int) ([]byte, error) {
	buf := make([]byte, length)
	n, err := unix.Pread(int(d.f.Fd()), buf, offset)
	if err != nil && !errors.Is(err, unix.EINTR) {
		return nil, fmt.Errorf("pread at %d: %w", offset, err)
	}
	return buf[:n], nil
}

// WriteAt performs a single bounded positional write starting at offset.
func (d *File) WriteAt(offset int64, data []byte) error {
	n, err := unix.Pwrite(int(d.f.Fd()), data, offset)
	if err != nil {
		return fmt.Errorf("pwrite at %d: %w", offset, err)
	}
	if n != len(data) {
		return fmt.Errorf("pwrite at %d: short write (%d of %d bytes)", offset, n, len(data))
	}
	return nil
}

// Size returns the current on-disk file size.
func (d *File) Size() (int64, error) {
	fi, err := d.f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat: %w", err)
	}
	return fi.Size(), nil
}

// Close releases the file handle, implicitly dropping any flock held on it.
func (d *File) Close() error {
	return d.f.Close()
}

// ErrLockUnavailable is returned by TryLockExclusive when another holder
// already has the file locked.
var ErrLockUnavailable = errors.New("diskio: exclusive lock unavailable")

// TryLockExclusive acquires a non-blocking exclusive advisory lock on f.
// Returns an error wrapping ErrLockUnavailable, with the underlying errno in
// its message, if the lock is already held elsewhere.
func TryLockExclusive(f *os.File) error {
	err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err == nil {
		return nil
	}
	if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) {
		return fmt.Errorf("%w: %v", ErrLockUnavailable, err)
	}
	return fmt.Errorf("flock: %w", err)
}

// Unlock releases an advisory lock acquired with TryLockExclusive. Normally
// unnecessary since closing the descriptor releases the lock, but exposed
// for callers that need to downgrade explicitly before closing.
func Unlock(f *os.File) error {
	if err := unix.Flock(int(f.Fd()), unix.LOCK_UN); err != nil {
		return fmt.Errorf("funlock: %w", err)
	}
	return nil
}
