package indexmap

import (
	"fmt"
	"iter"
	"strings"
)

// Map is a hash map that remembers insertion order. Entries are stored in a
// dense slice and addressed either by key, through a swiss-table bucket
// table, or by position of type I.
//
// The position type bounds the size of the map: a map indexed by Index16
// never holds more than 65536 entries, and its bucket table spends 2 bytes
// per slot instead of 8. Insertion past that bound fails with
// ErrCapacityExceeded instead of wrapping.
//
// Delete and Remove use shift-remove semantics: the order of the remaining
// entries is preserved at O(n) cost. SwapRemove and SwapRemoveIndex are the
// O(1) alternatives that move the last entry into the hole.
//
// A Map is not safe for concurrent use.
type Map[K comparable, V any, I Indexable[I]] struct {
	core[K, V, I]
}

// Returns a new instance of the map with room for capacity entries.
func New[K comparable, V any, I Indexable[I]](capacity int, opts ...Option[K]) *Map[K, V, I] {
	var m Map[K, V, I]
	m.init(capacity, opts...)

	return &m
}

// MapFromSeq builds a map from seq in iteration order. A key seen again
// updates the value at the position of its first occurrence.
func MapFromSeq[K comparable, V any, I Indexable[I]](seq iter.Seq2[K, V], opts ...Option[K]) (*Map[K, V, I], error) {
	m := New[K, V, I](0, opts...)
	for k, v := range seq {
		if err := m.Set(k, v); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Map[K, V, I]) Len() int {
	return len(m.entries)
}

// MaxLen returns the largest number of entries the index type allows.
func (m *Map[K, V, I]) MaxLen() int {
	return m.maxLen
}

func (m *Map[K, V, I]) Get(key K) (V, bool) {
	if i, ok := m.indexOf(key); ok {
		return m.entries[i].value, true
	}

	var zero V
	return zero, false
}

// GetPtr returns a pointer to the value stored for key. The pointer is
// invalidated by any insertion or removal.
func (m *Map[K, V, I]) GetPtr(key K) (*V, bool) {
	if i, ok := m.indexOf(key); ok {
		return &m.entries[i].value, true
	}

	return nil, false
}

func (m *Map[K, V, I]) GetFull(key K) (I, K, V, bool) {
	if i, ok := m.indexOf(key); ok {
		e := &m.entries[i]
		return m.position(i), e.key, e.value, true
	}

	var (
		pos I
		k   K
		v   V
	)

	return pos, k, v, false
}

func (m *Map[K, V, I]) Contains(key K) bool {
	_, ok := m.indexOf(key)
	return ok
}

// IndexOf returns the position of key.
func (m *Map[K, V, I]) IndexOf(key K) (I, bool) {
	if i, ok := m.indexOf(key); ok {
		return m.position(i), true
	}

	var pos I
	return pos, false
}

// MustGet returns the value stored for key and panics with ErrKeyNotFound if
// there is none.
func (m *Map[K, V, I]) MustGet(key K) V {
	i, ok := m.indexOf(key)
	if !ok {
		panic(fmt.Errorf("%w: %v", ErrKeyNotFound, key))
	}

	return m.entries[i].value
}

// GetIndex returns the entry at pos, or false when pos is out of bounds.
func (m *Map[K, V, I]) GetIndex(pos I) (K, V, bool) {
	if i, ok := m.lookup(pos); ok {
		return m.entries[i].key, m.entries[i].value, true
	}

	var (
		k K
		v V
	)

	return k, v, false
}

// GetIndexPtr returns a pointer to the value at pos. Keys cannot be changed
// in place.
func (m *Map[K, V, I]) GetIndexPtr(pos I) (*V, bool) {
	if i, ok := m.lookup(pos); ok {
		return &m.entries[i].value, true
	}

	return nil, false
}

// At returns the value at pos and panics with ErrOutOfBounds if there is
// none, like indexing a slice.
func (m *Map[K, V, I]) At(pos I) V {
	i, ok := m.lookup(pos)
	if !ok {
		panic(fmt.Errorf("%w: position %v, len %d", ErrOutOfBounds, pos, len(m.entries)))
	}

	return m.entries[i].value
}

// AtPtr is At returning a pointer to the value.
func (m *Map[K, V, I]) AtPtr(pos I) *V {
	i, ok := m.lookup(pos)
	if !ok {
		panic(fmt.Errorf("%w: position %v, len %d", ErrOutOfBounds, pos, len(m.entries)))
	}

	return &m.entries[i].value
}

func (m *Map[K, V, I]) First() (K, V, bool) {
	if len(m.entries) == 0 {
		var (
			k K
			v V
		)

		return k, v, false
	}

	e := &m.entries[0]
	return e.key, e.value, true
}

func (m *Map[K, V, I]) Last() (K, V, bool) {
	if len(m.entries) == 0 {
		var (
			k K
			v V
		)

		return k, v, false
	}

	e := &m.entries[len(m.entries)-1]
	return e.key, e.value, true
}

// Puts a key in the map, overwriting the value of an existing key in place.
func (m *Map[K, V, I]) Set(key K, value V) error {
	_, _, _, err := m.insertFull(key, value)
	return err
}

// Insert puts a key in the map and returns the value it replaced, if any.
// New keys are appended. Existing keys keep their position.
func (m *Map[K, V, I]) Insert(key K, value V) (V, bool, error) {
	_, old, replaced, err := m.insertFull(key, value)
	return old, replaced, err
}

// InsertFull is Insert that also reports the position of the entry.
func (m *Map[K, V, I]) InsertFull(key K, value V) (I, V, bool, error) {
	i, old, replaced, err := m.insertFull(key, value)
	if err != nil {
		var pos I
		return pos, old, false, err
	}

	return m.position(i), old, replaced, nil
}

// Reserve makes room for additional entries, failing if the total would not
// fit the index type.
func (m *Map[K, V, I]) Reserve(additional int) error {
	return m.reserve(additional)
}

// Delete shift-removes key and reports whether it was present.
func (m *Map[K, V, I]) Delete(key K) bool {
	_, ok := m.ShiftRemove(key)
	return ok
}

// Remove is ShiftRemove.
func (m *Map[K, V, I]) Remove(key K) (V, bool) {
	return m.ShiftRemove(key)
}

// ShiftRemove removes key and shifts all following entries down by one
// position, preserving their order.
func (m *Map[K, V, I]) ShiftRemove(key K) (V, bool) {
	if i, ok := m.indexOf(key); ok {
		return m.shiftRemoveAt(i).value, true
	}

	var zero V
	return zero, false
}

// SwapRemove removes key and moves the last entry into its position.
func (m *Map[K, V, I]) SwapRemove(key K) (V, bool) {
	if i, ok := m.indexOf(key); ok {
		return m.swapRemoveAt(i).value, true
	}

	var zero V
	return zero, false
}

func (m *Map[K, V, I]) ShiftRemoveIndex(pos I) (K, V, bool) {
	if i, ok := m.lookup(pos); ok {
		e := m.shiftRemoveAt(i)
		return e.key, e.value, true
	}

	var (
		k K
		v V
	)

	return k, v, false
}

func (m *Map[K, V, I]) SwapRemoveIndex(pos I) (K, V, bool) {
	if i, ok := m.lookup(pos); ok {
		e := m.swapRemoveAt(i)
		return e.key, e.value, true
	}

	var (
		k K
		v V
	)

	return k, v, false
}

// Pop removes the last entry.
func (m *Map[K, V, I]) Pop() (K, V, bool) {
	if len(m.entries) == 0 {
		var (
			k K
			v V
		)

		return k, v, false
	}

	e := m.swapRemoveAt(len(m.entries) - 1)
	return e.key, e.value, true
}

// Truncate keeps the first n entries and drops the rest.
func (m *Map[K, V, I]) Truncate(n int) {
	m.truncate(n)
}

// Retain keeps only the entries for which keep returns true, in order.
func (m *Map[K, V, I]) Retain(keep func(K, V) bool) {
	m.retain(keep)
}

// SwapIndices swaps the entries at positions a and b.
func (m *Map[K, V, I]) SwapIndices(a, b I) bool {
	i, ok := m.lookup(a)
	if !ok {
		return false
	}

	j, ok := m.lookup(b)
	if !ok {
		return false
	}

	m.swapIndices(i, j)

	return true
}

// SortFunc stably reorders the entries by cmp.
func (m *Map[K, V, I]) SortFunc(cmp func(k1 K, v1 V, k2 K, v2 V) int) {
	m.sortFunc(func(a, b *entry[K, V]) int {
		return cmp(a.key, a.value, b.key, b.value)
	})
}

// Reset removes all entries but keeps the allocated memory.
func (m *Map[K, V, I]) Reset() {
	m.reset()
}

// Compact drops the tombstones removals leave in the bucket table.
func (m *Map[K, V, I]) Compact() {
	m.indices.compact(m.hashAt)
}

func (m *Map[K, V, I]) Clone() *Map[K, V, I] {
	return &Map[K, V, I]{core: m.clone()}
}

func (m *Map[K, V, I]) Stats() Stats {
	return m.stats()
}

// All iterates over the entries in positional order.
func (m *Map[K, V, I]) All() iter.Seq2[K, V] {
	return m.all()
}

func (m *Map[K, V, I]) Keys() iter.Seq[K] {
	return m.keys()
}

func (m *Map[K, V, I]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for i := range m.entries {
			if !yield(m.entries[i].value) {
				return
			}
		}
	}
}

func (m *Map[K, V, I]) String() string {
	var sb strings.Builder

	sb.WriteByte('{')
	for i := range m.entries {
		if i > 0 {
			sb.WriteString(", ")
		}

		fmt.Fprintf(&sb, "%v: %v", m.entries[i].key, m.entries[i].value)
	}
	sb.WriteByte('}')

	return sb.String()
}
