// Package archive implements the append-only, single-writer pipeline
// archive file: a binary container of opaque entries (shader/pipeline
// artifacts) with a header, a footer rewritten on every append, and an
// in-memory entry table rebuilt at open time.
//
// File layout (little-endian, no padding between records):
//
//	Header || Entry0Header || Entry0Data || Entry1Header || Entry1Data || ... || Footer
//
//	Header (36 bytes):
//	  - archiveMarker: 8 bytes, fixed magic
//	  - majorVersion:  uint32, incompatible layout generation
//	  - minorVersion:  uint32, compatible extension
//	  - firstBlock:    uint32, byte offset of the first entry header
//	  - archiveType:   uint32, caller-chosen classifier
//	  - platformKey:   12 bytes, left-aligned zero-padded provenance identity
//
//	EntryHeader (40 bytes):
//	  - entryMarker:   8 bytes, fixed magic
//	  - ordinalId:     uint32, 0-based index in append order
//	  - metadata:      8 bytes, opaque to the archive
//	  - nextBlock:     uint32, offset of the next entry header (or footer)
//	  - dataPosition:  uint32, offset of this entry's payload
//	  - dataSize:      uint32, payload length in bytes
//	  - dataCrc64:     uint64, MetroHash64 of the payload with seed 0
//
//	Footer (28 bytes):
//	  - footerMarker:  8 bytes, fixed magic
//	  - entryCount:    uint32, number of entries preceding the footer
//	  - lastWriteTimestamp: uint64, 100-ns ticks since 1601-01-01 UTC
//	  - archiveMarker: 8 bytes, must equal the header's
package archive

import (
	"encoding/binary"
	"fmt"
)

// Fixed record sizes. Every field width below is normative.
const (
	PlatformKeySize  = 12
	MetadataSize     = 8
	HeaderSize       = 8 + 4 + 4 + 4 + 4 + PlatformKeySize // 36
	EntryHeaderSize  = 8 + 4 + MetadataSize + 4 + 4 + 4 + 8 // 40
	FooterSize       = 8 + 4 + 8 + 8                        // 28
	maxEntryCount    = int64(1)<<31 - 1                     // INT32_MAX
)

// Magic markers, each exactly 8 bytes.
const (
	magicArchive = "PIPEARCH"
	magicEntry   = "PAENTHDR"
	magicFooter  = "PAFOOTER"
)

// CurrentMajorVersion and CurrentMinorVersion identify the layout this
// package reads and writes.
const (
	CurrentMajorVersion uint32 = 1
	CurrentMinorVersion uint32 = 0
)

// Header is the fixed-width record at offset 0 of every archive file.
// It is immutable once the archive is created.
type Header struct {
	ArchiveMarker [8]byte
	MajorVersion  uint32
	MinorVersion  uint32
	FirstBlock    uint32
	ArchiveType   uint32
	PlatformKey   [PlatformKeySize]byte
}

// newHeader builds a header for a freshly created archive. platformKey
// longer than PlatformKeySize is silently truncated, matching the original
// implementation's fixed-width embedding (see DESIGN.md on the platform-key
// open question).
func newHeader(archiveType uint32, platformKey []byte) Header {
	h := Header{
		MajorVersion: CurrentMajorVersion,
		MinorVersion: CurrentMinorVersion,
		FirstBlock:   HeaderSize,
		ArchiveType:  archiveType,
	}
	copy(h.ArchiveMarker[:], magicArchive)
	copy(h.PlatformKey[:], platformKey)
	return h
}

// Encode writes the header into buf, which must be at least HeaderSize bytes.
func (h *Header) Encode(buf []byte) {
	_ = buf[:HeaderSize]
	copy(buf[0:8], h.ArchiveMarker[:])
	binary.LittleEndian.PutUint32(buf[8:12], h.MajorVersion)
	binary.LittleEndian.PutUint32(buf[12:16], h.MinorVersion)
	binary.LittleEndian.PutUint32(buf[16:20], h.FirstBlock)
	binary.LittleEndian.PutUint32(buf[20:24], h.ArchiveType)
	copy(buf[24:24+PlatformKeySize], h.PlatformKey[:])
}

// Decode reads a header out of buf, which must be at least HeaderSize bytes.
func (h *Header) Decode(buf []byte) error {
	if len(buf) < HeaderSize {
		return fmt.Errorf("%w: short header buffer (%d bytes)", ErrCorrupt, len(buf))
	}
	copy(h.ArchiveMarker[:], buf[0:8])
	h.MajorVersion = binary.LittleEndian.Uint32(buf[8:12])
	h.MinorVersion = binary.LittleEndian.Uint32(buf[12:16])
	h.FirstBlock = binary.LittleEndian.Uint32(buf[16:20])
	h.ArchiveType = binary.LittleEndian.Uint32(buf[20:24])
	copy(h.PlatformKey[:], buf[24:24+PlatformKeySize])
	return nil
}

// EntryHeader describes one appended entry: its ordinal, opaque metadata,
// and the position/size/checksum of its payload.
type EntryHeader struct {
	EntryMarker  [8]byte
	OrdinalID    uint32
	Metadata     [MetadataSize]byte
	NextBlock    uint32
	DataPosition uint32
	DataSize     uint32
	DataCrc64    uint64
}

// Encode writes the entry header into buf, which must be at least EntryHeaderSize bytes.
func (e *EntryHeader) Encode(buf []byte) {
	_ = buf[:EntryHeaderSize]
	copy(buf[0:8], e.EntryMarker[:])
	binary.LittleEndian.PutUint32(buf[8:12], e.OrdinalID)
	copy(buf[12:12+MetadataSize], e.Metadata[:])
	off := 12 + MetadataSize
	binary.LittleEndian.PutUint32(buf[off:off+4], e.NextBlock)
	binary.LittleEndian.PutUint32(buf[off+4:off+8], e.DataPosition)
	binary.LittleEndian.PutUint32(buf[off+8:off+12], e.DataSize)
	binary.LittleEndian.PutUint64(buf[off+12:off+20], e.DataCrc64)
}

// Decode reads an entry header out of buf, which must be at least EntryHeaderSize bytes.
func (e *EntryHeader) Decode(buf []byte) error {
	if len(buf) < EntryHeaderSize {
		return fmt.Errorf("%w: short entry header buffer (%d bytes)", ErrCorrupt, len(buf))
	}
	copy(e.EntryMarker[:], buf[0:8])
	e.OrdinalID = binary.LittleEndian.Uint32(buf[8:12])
	copy(e.Metadata[:], buf[12:12+MetadataSize])
	off := 12 + MetadataSize
	e.NextBlock = binary.LittleEndian.Uint32(buf[off : off+4])
	e.DataPosition = binary.LittleEndian.Uint32(buf[off+4 : off+8])
	e.DataSize = binary.LittleEndian.Uint32(buf[off+8 : off+12])
	e.DataCrc64 = binary.LittleEndian.Uint64(buf[off+12 : off+20])
	return nil
}

// Footer is the trailing record recording entry count and last-write time.
// It is rewritten on every append and always resides at end-of-file.
type Footer struct {
	FooterMarker        [8]byte
	EntryCount          uint32
	LastWriteTimestamp  uint64
	ArchiveMarker       [8]byte
}

// Encode writes the footer into buf, which must be at least FooterSize bytes.
func (f *Footer) Encode(buf []byte) {
	_ = buf[:FooterSize]
	copy(buf[0:8], f.FooterMarker[:])
	binary.LittleEndian.PutUint32(buf[8:12], f.EntryCount)
	binary.LittleEndian.PutUint64(buf[12:20], f.LastWriteTimestamp)
	copy(buf[20:28], f.ArchiveMarker[:])
}

// Decode reads a footer out of buf, which must be at least FooterSize bytes.
func (f *Footer) Decode(buf []byte) error {
	if len(buf) < FooterSize {
		return fmt.Errorf("%w: short footer buffer (%d bytes)", ErrCorrupt, len(buf))
	}
	copy(f.FooterMarker[:], buf[0:8])
	f.EntryCount = binary.LittleEndian.Uint32(buf[8:12])
	f.LastWriteTimestamp = binary.LittleEndian.Uint64(buf[12:20])
	copy(f.ArchiveMarker[:], buf[20:28])
	return nil
}

// validate checks footer magics, entry count bound, and timestamp range.
func (f *Footer) validate(headerMarker [8]byte) error {
	if string(f.FooterMarker[:]) != magicFooter {
		return fmt.Errorf("%w: bad footer marker", ErrCorrupt)
	}
	if f.ArchiveMarker != headerMarker {
		return fmt.Errorf("%w: footer archive marker mismatch", ErrCorrupt)
	}
	if int64(f.EntryCount) > maxEntryCount {
		return fmt.Errorf("%w: entry count exceeds bound", ErrCorrupt)
	}
	if f.LastWriteTimestamp < EarliestValidTime() || f.LastWriteTimestamp > NowInFileTime() {
		return fmt.Errorf("%w: footer timestamp out of range", ErrCorrupt)
	}
	return nil
}

func newFooter(headerMarker [8]byte, entryCount uint32) Footer {
	f := Footer{
		EntryCount:         entryCount,
		LastWriteTimestamp: NowInFileTime(),
		ArchiveMarker:      headerMarker,
	}
	copy(f.FooterMarker[:], magicFooter)
	return f
}
