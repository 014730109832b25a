package archive

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writableInfo(dir string) *OpenInfo {
	return &OpenInfo{
		FilePath:         dir,
		FileName:         "shaders.pak",
		AllowWriteAccess: true,
		AllowCreateFile:  true,
		ArchiveType:      7,
	}
}

func TestCreate_LayoutsHeaderAndFooter(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	info := &OpenInfo{FilePath: dir, FileName: "shaders.pak", ArchiveType: 7}
	require.NoError(t, Create(ctx, info))

	path := filepath.Join(dir, "shaders.pak")
	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(HeaderSize+FooterSize), fi.Size())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var h Header
	require.NoError(t, h.Decode(raw[:HeaderSize]))
	assert.Equal(t, magicArchive, string(h.ArchiveMarker[:]))
	assert.Equal(t, CurrentMajorVersion, h.MajorVersion)
	assert.Equal(t, uint32(HeaderSize), h.FirstBlock)
	assert.Equal(t, uint32(7), h.ArchiveType)

	var f Footer
	require.NoError(t, f.Decode(raw[HeaderSize:]))
	assert.Equal(t, uint32(0), f.EntryCount)
	assert.Equal(t, h.ArchiveMarker, f.ArchiveMarker)
}

func TestCreate_RejectsExistingFile(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	info := &OpenInfo{FilePath: dir, FileName: "shaders.pak"}

	require.NoError(t, Create(ctx, info))
	err := Create(ctx, info)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestOpen_RejectsMissingFileWithoutAllowCreate(t *testing.T) {
	dir := t.TempDir()
	info := &OpenInfo{FilePath: dir, FileName: "missing.pak"}

	_, err := Open(context.Background(), info)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestOpen_CreatesWhenAllowCreateFileSet(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	info := writableInfo(dir)

	a, err := Open(ctx, info)
	require.NoError(t, err)
	defer a.Destroy()

	assert.Equal(t, 0, a.GetEntryCount())
}

func TestWriteThenRead_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	a, err := Open(ctx, writableInfo(dir))
	require.NoError(t, err)
	defer a.Destroy()

	payload := []byte("compiled vertex shader bytecode")
	var meta [MetadataSize]byte
	copy(meta[:], []byte{1, 2, 3, 4})

	entry, err := a.Write(ctx, meta, payload)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), entry.OrdinalID)
	assert.Equal(t, uint32(len(payload)), entry.DataSize)

	out := make([]byte, entry.DataSize)
	require.NoError(t, a.Read(ctx, entry, out))
	assert.True(t, bytes.Equal(payload, out))
}

func TestWrite_OrdinalsAreMonotonic(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	a, err := Open(ctx, writableInfo(dir))
	require.NoError(t, err)
	defer a.Destroy()

	var meta [MetadataSize]byte
	for i := 0; i < 5; i++ {
		entry, err := a.Write(ctx, meta, []byte{byte(i)})
		require.NoError(t, err)
		assert.Equal(t, uint32(i), entry.OrdinalID)
	}
	assert.Equal(t, 5, a.GetEntryCount())
}

func TestWrite_RejectedOnReadOnlyHandle(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	require.NoError(t, Create(ctx, &OpenInfo{FilePath: dir, FileName: "shaders.pak"}))

	a, err := Open(ctx, &OpenInfo{FilePath: dir, FileName: "shaders.pak"})
	require.NoError(t, err)
	defer a.Destroy()

	var meta [MetadataSize]byte
	_, err = a.Write(ctx, meta, []byte("data"))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestRead_DetectsPayloadCorruption(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	a, err := Open(ctx, writableInfo(dir))
	require.NoError(t, err)

	var meta [MetadataSize]byte
	entry, err := a.Write(ctx, meta, []byte("good data"))
	require.NoError(t, err)
	require.NoError(t, a.Destroy())

	path := filepath.Join(dir, "shaders.pak")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[int(entry.DataPosition)] ^= 0xFF
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	a2, err := Open(ctx, &OpenInfo{FilePath: dir, FileName: "shaders.pak", AllowWriteAccess: true})
	require.NoError(t, err)
	defer a2.Destroy()

	out := make([]byte, entry.DataSize)
	err = a2.Read(ctx, entry, out)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestCloseReopen_PreservesEntryTable(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	a, err := Open(ctx, writableInfo(dir))
	require.NoError(t, err)

	var meta [MetadataSize]byte
	for i := 0; i < 3; i++ {
		_, err := a.Write(ctx, meta, []byte{byte(i), byte(i), byte(i)})
		require.NoError(t, err)
	}
	require.NoError(t, a.Destroy())

	reopened, err := Open(ctx, &OpenInfo{FilePath: dir, FileName: "shaders.pak", AllowWriteAccess: true})
	require.NoError(t, err)
	defer reopened.Destroy()

	assert.Equal(t, 3, reopened.GetEntryCount())
	entries := make([]EntryHeader, 3)
	n, err := reopened.FillEntryHeaderTable(ctx, entries, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	for i, e := range entries {
		assert.Equal(t, uint32(i), e.OrdinalID)
	}
}

func TestOpen_RejectsIncompatibleMajorVersion(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	require.NoError(t, Create(ctx, &OpenInfo{FilePath: dir, FileName: "shaders.pak"}))

	path := filepath.Join(dir, "shaders.pak")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var h Header
	require.NoError(t, h.Decode(raw[:HeaderSize]))
	h.MajorVersion = CurrentMajorVersion + 1
	h.Encode(raw[:HeaderSize])
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	_, err = Open(ctx, &OpenInfo{FilePath: dir, FileName: "shaders.pak"})
	assert.ErrorIs(t, err, ErrIncompatibleLibrary)
}

func TestOpen_RejectsPlatformKeyMismatch(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	require.NoError(t, Create(ctx, &OpenInfo{
		FilePath:    dir,
		FileName:    "shaders.pak",
		PlatformKey: []byte("platformA123"),
	}))

	_, err := Open(ctx, &OpenInfo{
		FilePath:    dir,
		FileName:    "shaders.pak",
		PlatformKey: []byte("platformB123"),
	})
	assert.ErrorIs(t, err, ErrIncompatibleLibrary)
}

func TestOpen_RejectsArchiveTypeMismatch(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	require.NoError(t, Create(ctx, &OpenInfo{FilePath: dir, FileName: "shaders.pak", ArchiveType: 7}))

	_, err := Open(ctx, &OpenInfo{FilePath: dir, FileName: "shaders.pak", ArchiveType: 9})
	assert.ErrorIs(t, err, ErrIncompatibleLibrary)
}

func TestOpen_ExclusiveLockPreventsSecondWriter(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	info := writableInfo(dir)

	first, err := Open(ctx, info)
	require.NoError(t, err)
	defer first.Destroy()

	_, err = Open(ctx, &OpenInfo{FilePath: dir, FileName: "shaders.pak", AllowWriteAccess: true})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestBufferedReadsAreTransparent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	info := writableInfo(dir)
	info.UseBufferedReadMemory = true
	info.MaxReadBufferMem = 1 << 20

	a, err := Open(ctx, info)
	require.NoError(t, err)
	defer a.Destroy()

	payload := bytes.Repeat([]byte{0xAB}, 4096)
	var meta [MetadataSize]byte
	entry, err := a.Write(ctx, meta, payload)
	require.NoError(t, err)

	out := make([]byte, entry.DataSize)
	require.NoError(t, a.Read(ctx, entry, out))
	assert.True(t, bytes.Equal(payload, out))

	// Second read should be a cache hit but produce identical bytes.
	out2 := make([]byte, entry.DataSize)
	require.NoError(t, a.Read(ctx, entry, out2))
	assert.True(t, bytes.Equal(payload, out2))
}

func TestDelete_RemovesFileAndIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	info := &OpenInfo{FilePath: dir, FileName: "shaders.pak"}
	require.NoError(t, Create(ctx, info))

	require.NoError(t, Delete(ctx, info))
	_, err := os.Stat(filepath.Join(dir, "shaders.pak"))
	assert.True(t, os.IsNotExist(err))

	// Deleting again is a no-op, not an error.
	assert.NoError(t, Delete(ctx, info))
}

func TestFootprint_ReturnsConstant(t *testing.T) {
	assert.Equal(t, archiveFootprint, Footprint(nil))
}
