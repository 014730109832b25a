package metrohash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash64_EmptyInput(t *testing.T) {
	h := Hash64(nil, 0)
	assert.NotZero(t, h, "empty-input digest should be a deterministic non-trivial value, not zero")
}

func TestHash64_Deterministic(t *testing.T) {
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	a := Hash64(data, 0)
	b := Hash64(data, 0)
	require.Equal(t, a, b)
}

func TestHash64_SeedChangesDigest(t *testing.T) {
	data := []byte("pipeline artifact payload")
	assert.NotEqual(t, Hash64(data, 0), Hash64(data, 1))
}

func TestHash64_SingleBitFlipChangesDigest(t *testing.T) {
	data := make([]byte, 64)
	for i := range data {
		data[i] = byte(i)
	}
	original := Hash64(data, 0)

	flipped := make([]byte, len(data))
	copy(flipped, data)
	flipped[17] ^= 0x01

	assert.NotEqual(t, original, Hash64(flipped, 0))
}

func TestHash64_AllLengthBuckets(t *testing.T) {
	// Exercise every branch of the algorithm: <4, <8, <16, <32, >=32 bytes.
	for _, n := range []int{0, 1, 3, 4, 7, 8, 15, 16, 31, 32, 63, 100} {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(i * 7)
		}
		h1 := Hash64(data, 0)
		h2 := Hash64(data, 0)
		assert.Equal(t, h1, h2, "length %d should hash deterministically", n)
	}
}
