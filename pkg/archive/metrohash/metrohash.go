// Package metrohash implements MetroHash64 v1, the checksum algorithm the
// archive format uses to verify entry payloads. No module in the retrieved
// dependency corpus vendors MetroHash (see DESIGN.md), so it is reproduced
// here directly from the published reference algorithm rather than
// approximated with a different hash family.
package metrohash

import "encoding/binary"

const (
	k0 uint64 = 0xC83A91E1
	k1 uint64 = 0x8648DBDB
	k2 uint64 = 0x7BDEC03B
	k3 uint64 = 0x2F5870A5
)

func rotateRight(v uint64, n uint) uint64 {
	return (v >> n) | (v << (64 - n))
}

// Hash64 returns the MetroHash64 v1 digest of buf using the given seed.
func Hash64(buf []byte, seed uint64) uint64 {
	length := uint64(len(buf))
	hash := (seed+k2)*k0 + length

	ptr := buf

	if length >= 32 {
		v0, v1, v2, v3 := hash, hash, hash, hash

		for len(ptr) >= 32 {
			v0 += binary.LittleEndian.Uint64(ptr[0:8]) * k0
			v0 = rotateRight(v0, 29) + v2
			v1 += binary.LittleEndian.Uint64(ptr[8:16]) * k1
			v1 = rotateRight(v1, 29) + v3
			v2 += binary.LittleEndian.Uint64(ptr[16:24]) * k2
			v2 = rotateRight(v2, 29) + v0
			v3 += binary.LittleEndian.Uint64(ptr[24:32]) * k3
			v3 = rotateRight(v3, 29) + v1
			ptr = ptr[32:]
		}

		v2 ^= rotateRight((v0+v3)*k0+v1, 37) * k1
		v3 ^= rotateRight((v1+v2)*k1+v0, 37) * k0
		v0 ^= rotateRight((v0+v2)*k0+v3, 37) * k1
		v1 ^= rotateRight((v1+v3)*k1+v2, 37) * k0
		hash += v0 ^ v1
	}

	if len(ptr) >= 16 {
		v0 := hash + binary.LittleEndian.Uint64(ptr[0:8])*k2
		v0 = rotateRight(v0, 29) * k3
		v1 := hash + binary.LittleEndian.Uint64(ptr[8:16])*k2
		v1 = rotateRight(v1, 29) * k3
		v0 ^= rotateRight(v0*k0, 21) + v1
		v1 ^= rotateRight(v1*k3, 21) + v0
		hash += v1
		ptr = ptr[16:]
	}

	if len(ptr) >= 8 {
		hash += binary.LittleEndian.Uint64(ptr[0:8]) * k3
		hash ^= rotateRight(hash, 55) * k1
		ptr = ptr[8:]
	}

	if len(ptr) >= 4 {
		hash += uint64(binary.LittleEndian.Uint32(ptr[0:4])) * k3
		hash ^= rotateRight(hash, 26) * k1
		ptr = ptr[4:]
	}

	if len(ptr) >= 2 {
		hash += uint64(binary.LittleEndian.Uint16(ptr[0:2])) * k3
		hash ^= rotateRight(hash, 48) * k1
		ptr = ptr[2:]
	}

	if len(ptr) >= 1 {
		hash += uint64(ptr[0]) * k3
		hash ^= rotateRight(hash, 37) * k1
	}

	hash ^= rotateRight(hash, 33)
	hash *= k0
	hash ^= rotateRight(hash, 29)
	hash *= k3
	hash ^= rotateRight(hash, 32)

	return hash
}
