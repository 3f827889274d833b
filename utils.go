package indexmap

import (
	"math/bits"
	"unsafe"
)

// Returns the next power of 2 for the given value `v`.
func NextPowerOf2(v uint64) uint64 {
	return uint64(1) << min(bits.Len64(v-1), 63)
}

// slotsFor returns the number of bucket slots needed to hold n entries
// without crossing the 7/8 load factor.
func slotsFor(n int) int {
	slots := (uint64(n)*8 + 6) / 7

	return int(NextPowerOf2(max(slots, groupSize)))
}

// Estimates how many entries of a container keyed by K, holding V and
// indexed by I fit in the given memory size in bytes. Both the entries slice
// and the bucket table are accounted for, so narrower index types yield a
// larger estimate.
func CapacityFromSize[K comparable, V any, I Indexable[I]](size uintptr) int {
	sizeOfEntry := unsafe.Sizeof(entry[K, V]{})
	// One group serves 7 entries at the 7/8 load factor.
	sizeOfGroupShare := unsafe.Sizeof(group[I]{}) / 7

	n := int(size / (sizeOfEntry + sizeOfGroupShare))

	return min(n, maxLen[I]())
}
