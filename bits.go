package indexmap

import (
	"math/bits"
	"unsafe"
)

const (
	bitsetLSB = 0x0101010101010101
	bitsetMSB = 0x8080808080808080
)

// bitset is a set of slots within a group, one byte per slot. A byte is 0x80
// when the slot is in the set and 0x00 otherwise, so a whole group is matched
// with a handful of word operations.
type bitset uint64

// first returns the index of the first slot in the set, or groupSize if the
// set is empty.
func (b bitset) first() uintptr {
	return uintptr(bits.TrailingZeros64(uint64(b)) >> 3)
}

// removeFirst drops the first slot from the set.
func (b bitset) removeFirst() bitset {
	return b & ^(bitset(slotEmpty) << (bits.TrailingZeros64(uint64(b)) & ^7))
}

// loadCtrls reads all control bytes of a group as a single word.
func loadCtrls[I comparable](g *group[I]) uint64 {
	return *(*uint64)(unsafe.Pointer(&g.ctrls))
}

func storeCtrls[I comparable](g *group[I], ctrl uint64) {
	*(*uint64)(unsafe.Pointer(&g.ctrls)) = ctrl
}

// matchH2 may report false positives for bytes next to a real match; callers
// always confirm a candidate against the entry's key.
//
//go:inline
func matchH2(ctrl uint64, h2 uint8) bitset {
	v := ctrl ^ (bitsetLSB * uint64(h2))
	return bitset(((v - bitsetLSB) &^ v) & bitsetMSB)
}

// matchEmpty: MSB set and bit 1 clear.
// (0x80 is 10000000, bit 1 is 0. 0xFE is 11111110, bit 1 is 1)
//
//go:inline
func matchEmpty(ctrl uint64) bitset {
	return bitset((ctrl &^ (ctrl << 6)) & bitsetMSB)
}

// matchEmptyOrDeleted: MSB set. Full slots store a 7-bit h2.
//
//go:inline
func matchEmptyOrDeleted(ctrl uint64) bitset {
	return bitset(ctrl & bitsetMSB)
}

// matchFull: MSB clear.
//
//go:inline
func matchFull(ctrl uint64) bitset {
	return bitset(^ctrl & bitsetMSB)
}

// invertCtrls prepares a group for in-place compaction:
// Full (0x00-0x7F) -> Deleted (0xFE)
// Deleted (0xFE) -> Empty (0x80)
// Empty (0x80) -> Empty (0x80)
//
//go:inline
func invertCtrls(ctrl uint64) uint64 {
	isFull := ^ctrl & bitsetMSB

	// Spread 0x80 -> 0xFE for full slots (set bits 7-1, leave bit 0 clear)
	fullResult := isFull | (isFull >> 1) | (isFull >> 2) | (isFull >> 3) |
		(isFull >> 4) | (isFull >> 5) | (isFull >> 6)

	// Empty and Deleted both keep just the MSB.
	highBits := ctrl & bitsetMSB

	return fullResult | highBits
}
