package indexmap

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Indexable is the capability a position type must provide to be used as
// the positional index of a Map or a Set.
//
// FromCount is called on the zero value of I and must not depend on the
// receiver. It converts a raw position into I and fails when n is larger than
// the maximum value the type can represent. ToCount converts the index back
// to a raw position. It must succeed for every value returned by FromCount;
// a false result is reserved for sentinel values that do not denote a slot.
//
// The maximum representable index bounds the container: a type whose maximum
// is MAX holds at most MAX+1 entries.
type Indexable[I any] interface {
	comparable

	FromCount(n int) (I, bool)
	ToCount() (int, bool)
}

// Index is the platform-sized position type.
type Index uint

// Index32 caps a container at 1<<32 entries.
type Index32 uint32

// Index16 caps a container at 65536 entries.
type Index16 uint16

// Index8 caps a container at 256 entries.
type Index8 uint8

func (Index) FromCount(n int) (Index, bool) {
	return narrow[Index](n)
}

func (i Index) ToCount() (int, bool) {
	return widen(i)
}

func (Index32) FromCount(n int) (Index32, bool) {
	return narrow[Index32](n)
}

func (i Index32) ToCount() (int, bool) {
	return widen(i)
}

func (Index16) FromCount(n int) (Index16, bool) {
	return narrow[Index16](n)
}

func (i Index16) ToCount() (int, bool) {
	return widen(i)
}

func (Index8) FromCount(n int) (Index8, bool) {
	return narrow[Index8](n)
}

func (i Index8) ToCount() (int, bool) {
	return widen(i)
}

// narrow converts n into U, failing instead of truncating.
func narrow[U constraints.Unsigned](n int) (U, bool) {
	if n < 0 || uint64(n) > uint64(^U(0)) {
		return 0, false
	}

	return U(n), true
}

func widen[U constraints.Unsigned](u U) (int, bool) {
	if uint64(u) > math.MaxInt {
		return 0, false
	}

	return int(u), true
}

// fromCount converts n into I using the zero value of I.
func fromCount[I Indexable[I]](n int) (I, bool) {
	var zero I
	return zero.FromCount(n)
}

// maxLen returns the number of entries a container indexed by I can hold,
// saturating at math.MaxInt.
func maxLen[I Indexable[I]]() int {
	if _, ok := fromCount[I](math.MaxInt); ok {
		return math.MaxInt
	}

	if _, ok := fromCount[I](0); !ok {
		return 0
	}

	// Binary search for the largest representable count. MaxInt is ruled
	// out above, so hi-lo+1 cannot overflow.
	lo, hi := 0, math.MaxInt-1
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		if _, ok := fromCount[I](mid); ok {
			lo = mid
		} else {
			hi = mid - 1
		}
	}

	return lo + 1
}
