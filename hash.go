package indexmap

import (
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

// HashFunc computes the hash of a key. Equal keys must produce equal hashes.
type HashFunc[K comparable] func(K) uint64

// MakeDefaultHashFunc returns a seeded maphash-based hash function, which
// works for any comparable key.
func MakeDefaultHashFunc[K comparable](seed maphash.Seed) HashFunc[K] {
	return func(k K) uint64 {
		return maphash.Comparable(seed, k)
	}
}

// MakeStringHashFunc returns an unseeded xxhash function for string keys.
// It is deterministic across processes, which makes bucket placement
// reproducible, but offers no protection against crafted collisions.
func MakeStringHashFunc[K ~string]() HashFunc[K] {
	return func(k K) uint64 {
		return xxhash.Sum64String(string(k))
	}
}

// HashSplit splits a hash into the probe start (h1) and the 7-bit
// fingerprint stored in the control byte (h2).
func HashSplit(hash uint64) (uintptr, uint8) {
	h1 := uintptr(hash >> 7)
	h2 := uint8(hash & 0x7F)

	return h1, h2
}
