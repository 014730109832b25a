package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeader_EncodeDecodeRoundTrip(t *testing.T) {
	h := newHeader(42, []byte("abcXYZ"))
	buf := make([]byte, HeaderSize)
	h.Encode(buf)

	var decoded Header
	require.NoError(t, decoded.Decode(buf))
	assert.Equal(t, h, decoded)
}

func TestHeader_Decode_RejectsShortBuffer(t *testing.T) {
	var h Header
	err := h.Decode(make([]byte, HeaderSize-1))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestEntryHeader_EncodeDecodeRoundTrip(t *testing.T) {
	e := EntryHeader{
		OrdinalID:    3,
		NextBlock:    1000,
		DataPosition: 900,
		DataSize:     100,
		DataCrc64:    0xDEADBEEFCAFEBABE,
	}
	copy(e.EntryMarker[:], magicEntry)
	copy(e.Metadata[:], []byte{1, 2, 3, 4, 5, 6, 7, 8})

	buf := make([]byte, EntryHeaderSize)
	e.Encode(buf)

	var decoded EntryHeader
	require.NoError(t, decoded.Decode(buf))
	assert.Equal(t, e, decoded)
}

func TestEntryHeader_Decode_RejectsShortBuffer(t *testing.T) {
	var e EntryHeader
	err := e.Decode(make([]byte, EntryHeaderSize-1))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestFooter_EncodeDecodeRoundTrip(t *testing.T) {
	var marker [8]byte
	copy(marker[:], magicArchive)
	f := newFooter(marker, 7)

	buf := make([]byte, FooterSize)
	f.Encode(buf)

	var decoded Footer
	require.NoError(t, decoded.Decode(buf))
	assert.Equal(t, f, decoded)
}

func TestFooter_Validate_RejectsBadMarker(t *testing.T) {
	var marker [8]byte
	copy(marker[:], magicArchive)
	f := newFooter(marker, 0)
	copy(f.FooterMarker[:], "GARBAGE!")

	err := f.validate(marker)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestFooter_Validate_RejectsArchiveMarkerMismatch(t *testing.T) {
	var marker [8]byte
	copy(marker[:], magicArchive)
	f := newFooter(marker, 0)

	var other [8]byte
	copy(other[:], "WRONGMRK")
	err := f.validate(other)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestFooter_Validate_RejectsTimestampBeforeEarliestValid(t *testing.T) {
	var marker [8]byte
	copy(marker[:], magicArchive)
	f := newFooter(marker, 0)
	f.LastWriteTimestamp = EarliestValidTime() - 1

	err := f.validate(marker)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestFooter_Validate_RejectsEntryCountOverflow(t *testing.T) {
	var marker [8]byte
	copy(marker[:], magicArchive)
	f := newFooter(marker, 0)
	f.EntryCount = 1<<31 + 1

	err := f.validate(marker)
	assert.ErrorIs(t, err, ErrCorrupt)
}
