package indexmap

import (
	"fmt"
	"iter"
	"strings"
)

// Set is the Map with values elided: an insertion-ordered set addressed by
// key or by position of type I. It shares Map's bucket table, capacity bound
// and removal semantics.
type Set[K comparable, I Indexable[I]] struct {
	core[K, struct{}, I]
}

func NewSet[K comparable, I Indexable[I]](capacity int, opts ...Option[K]) *Set[K, I] {
	var s Set[K, I]
	s.init(capacity, opts...)

	return &s
}

// SetFromSeq builds a set from seq, keeping the first occurrence of every
// key.
func SetFromSeq[K comparable, I Indexable[I]](seq iter.Seq[K], opts ...Option[K]) (*Set[K, I], error) {
	s := NewSet[K, I](0, opts...)
	for k := range seq {
		if _, err := s.Insert(k); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Set[K, I]) Len() int {
	return len(s.entries)
}

func (s *Set[K, I]) MaxLen() int {
	return s.maxLen
}

func (s *Set[K, I]) Contains(key K) bool {
	_, ok := s.indexOf(key)
	return ok
}

// Get returns the stored key equal to key.
func (s *Set[K, I]) Get(key K) (K, bool) {
	if i, ok := s.indexOf(key); ok {
		return s.entries[i].key, true
	}

	var k K
	return k, false
}

func (s *Set[K, I]) GetFull(key K) (I, K, bool) {
	if i, ok := s.indexOf(key); ok {
		return s.position(i), s.entries[i].key, true
	}

	var (
		pos I
		k   K
	)

	return pos, k, false
}

func (s *Set[K, I]) IndexOf(key K) (I, bool) {
	if i, ok := s.indexOf(key); ok {
		return s.position(i), true
	}

	var pos I
	return pos, false
}

// Insert adds key and reports whether it was new.
func (s *Set[K, I]) Insert(key K) (bool, error) {
	_, _, replaced, err := s.insertFull(key, struct{}{})
	if err != nil {
		return false, err
	}

	return !replaced, nil
}

// InsertFull adds key and returns its position and whether it was new.
func (s *Set[K, I]) InsertFull(key K) (I, bool, error) {
	i, _, replaced, err := s.insertFull(key, struct{}{})
	if err != nil {
		var pos I
		return pos, false, err
	}

	return s.position(i), !replaced, nil
}

func (s *Set[K, I]) Reserve(additional int) error {
	return s.reserve(additional)
}

// GetIndex returns the key at pos, or false when pos is out of bounds.
func (s *Set[K, I]) GetIndex(pos I) (K, bool) {
	if i, ok := s.lookup(pos); ok {
		return s.entries[i].key, true
	}

	var k K
	return k, false
}

// At returns the key at pos and panics with ErrOutOfBounds if there is none.
func (s *Set[K, I]) At(pos I) K {
	i, ok := s.lookup(pos)
	if !ok {
		panic(fmt.Errorf("%w: position %v, len %d", ErrOutOfBounds, pos, len(s.entries)))
	}

	return s.entries[i].key
}

func (s *Set[K, I]) First() (K, bool) {
	if len(s.entries) == 0 {
		var k K
		return k, false
	}

	return s.entries[0].key, true
}

func (s *Set[K, I]) Last() (K, bool) {
	if len(s.entries) == 0 {
		var k K
		return k, false
	}

	return s.entries[len(s.entries)-1].key, true
}

// Delete shift-removes key and reports whether it was present.
func (s *Set[K, I]) Delete(key K) bool {
	return s.ShiftRemove(key)
}

func (s *Set[K, I]) ShiftRemove(key K) bool {
	i, ok := s.indexOf(key)
	if ok {
		s.shiftRemoveAt(i)
	}

	return ok
}

func (s *Set[K, I]) SwapRemove(key K) bool {
	i, ok := s.indexOf(key)
	if ok {
		s.swapRemoveAt(i)
	}

	return ok
}

func (s *Set[K, I]) ShiftRemoveIndex(pos I) (K, bool) {
	if i, ok := s.lookup(pos); ok {
		return s.shiftRemoveAt(i).key, true
	}

	var k K
	return k, false
}

func (s *Set[K, I]) SwapRemoveIndex(pos I) (K, bool) {
	if i, ok := s.lookup(pos); ok {
		return s.swapRemoveAt(i).key, true
	}

	var k K
	return k, false
}

func (s *Set[K, I]) Pop() (K, bool) {
	if len(s.entries) == 0 {
		var k K
		return k, false
	}

	return s.swapRemoveAt(len(s.entries) - 1).key, true
}

func (s *Set[K, I]) Truncate(n int) {
	s.truncate(n)
}

func (s *Set[K, I]) Retain(keep func(K) bool) {
	s.retain(func(k K, _ struct{}) bool {
		return keep(k)
	})
}

func (s *Set[K, I]) SwapIndices(a, b I) bool {
	i, ok := s.lookup(a)
	if !ok {
		return false
	}

	j, ok := s.lookup(b)
	if !ok {
		return false
	}

	s.swapIndices(i, j)

	return true
}

func (s *Set[K, I]) SortFunc(cmp func(a, b K) int) {
	s.sortFunc(func(a, b *entry[K, struct{}]) int {
		return cmp(a.key, b.key)
	})
}

func (s *Set[K, I]) Reset() {
	s.reset()
}

func (s *Set[K, I]) Compact() {
	s.indices.compact(s.hashAt)
}

func (s *Set[K, I]) Clone() *Set[K, I] {
	return &Set[K, I]{core: s.clone()}
}

func (s *Set[K, I]) Stats() Stats {
	return s.stats()
}

// All iterates over the keys in positional order.
func (s *Set[K, I]) All() iter.Seq[K] {
	return s.keys()
}

// Positions iterates over the keys together with their positions.
func (s *Set[K, I]) Positions() iter.Seq2[I, K] {
	return func(yield func(I, K) bool) {
		for i := range s.entries {
			if !yield(s.position(i), s.entries[i].key) {
				return
			}
		}
	}
}

func (s *Set[K, I]) String() string {
	var sb strings.Builder

	sb.WriteByte('{')
	for i := range s.entries {
		if i > 0 {
			sb.WriteString(", ")
		}

		fmt.Fprintf(&sb, "%v", s.entries[i].key)
	}
	sb.WriteByte('}')

	return sb.String()
}
