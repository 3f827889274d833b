package indexmap

import (
	"fmt"
	"hash/maphash"
	"iter"
	"math"
	"slices"
	"unsafe"
)

// maxAlloc bounds the bytes a single container may ask the allocator for,
// mirroring the runtime's own limit on 64-bit platforms.
const maxAlloc = min(math.MaxInt, 1<<47)

type entry[K comparable, V any] struct {
	// Cached so the bucket table can be rebuilt without rehashing keys.
	hash  uint64
	key   K
	value V
}

// core is shared by Map and Set. It owns the dense entries slice and the
// bucket table, and every mutation keeps the two consistent: each position
// in [0, len(entries)) has exactly one slot in the table and nothing else.
type core[K comparable, V any, I Indexable[I]] struct {
	entries []entry[K, V]
	indices table[I]

	hashFunc HashFunc[K]
	maxLen   int
}

func (c *core[K, V, I]) init(capacity int, opts ...Option[K]) {
	o := options[K]{capacity: capacity}
	for _, opt := range opts {
		opt(&o)
	}

	c.hashFunc = o.hashFunc
	if c.hashFunc == nil {
		c.hashFunc = MakeDefaultHashFunc[K](maphash.MakeSeed())
	}

	c.maxLen = maxLen[I]()

	// Like make(map) a hint that cannot be allocated is ignored.
	capacity = max(o.capacity, 0)
	if capacity > allocLen[K, V, I]() {
		capacity = 0
	}
	capacity = min(capacity, c.maxLen)
	c.entries = make([]entry[K, V], 0, capacity)
	c.indices.init(slotsFor(capacity))
}

// allocLen returns the number of entries whose slice and bucket table fit
// in maxAlloc bytes.
func allocLen[K comparable, V any, I Indexable[I]]() int {
	perEntry := unsafe.Sizeof(entry[K, V]{}) + unsafe.Sizeof(group[I]{})/7 + 1
	return int(uintptr(maxAlloc) / perEntry)
}

// position converts an in-range count into I. Counts below len(entries)
// always fit, since insertion refuses anything that does not.
func (c *core[K, V, I]) position(i int) I {
	pos, ok := fromCount[I](i)
	if !ok {
		panic(fmt.Errorf("%w: %d", ErrCapacityExceeded, i))
	}

	return pos
}

// count converts a stored position back into an int.
func (c *core[K, V, I]) count(pos I) int {
	i, ok := pos.ToCount()
	if !ok {
		panic(fmt.Errorf("%w: %v", ErrInvalidIndex, pos))
	}

	return i
}

// lookup resolves a caller-supplied position, rejecting sentinels and
// anything at or past the end.
func (c *core[K, V, I]) lookup(pos I) (int, bool) {
	i, ok := pos.ToCount()
	if !ok || i < 0 || i >= len(c.entries) {
		return 0, false
	}

	return i, true
}

func (c *core[K, V, I]) find(hash uint64, key K) (*group[I], uintptr, bool) {
	return c.indices.find(hash, func(pos I) bool {
		i, ok := pos.ToCount()
		return ok && i < len(c.entries) && c.entries[i].key == key
	})
}

func (c *core[K, V, I]) indexOf(key K) (int, bool) {
	g, idx, ok := c.find(c.hashFunc(key), key)
	if !ok {
		return 0, false
	}

	return c.count(g.slots[idx]), true
}

func (c *core[K, V, I]) hashAt(pos I) uint64 {
	return c.entries[c.count(pos)].hash
}

// insertFull appends key or, when it is already present, overwrites its
// value in place. It returns the entry's position, the previous value and
// whether one was replaced.
func (c *core[K, V, I]) insertFull(key K, value V) (int, V, bool, error) {
	var zero V

	hash := c.hashFunc(key)
	if g, idx, ok := c.find(hash, key); ok {
		i := c.count(g.slots[idx])
		old := c.entries[i].value
		c.entries[i].value = value

		return i, old, true, nil
	}

	i := len(c.entries)
	pos, ok := fromCount[I](i)
	if !ok {
		return i, zero, false, fmt.Errorf("%w: position %d does not fit the index type (max len %d)",
			ErrCapacityExceeded, i, c.maxLen)
	}

	if c.indices.full() {
		c.grow()
	}

	c.indices.insert(hash, pos)
	c.entries = append(c.entries, entry[K, V]{hash: hash, key: key, value: value})

	return i, zero, false, nil
}

// grow makes room for one more slot. It compacts in place when at least a
// third of the table is recoverable tombstones, and doubles it otherwise.
func (c *core[K, V, I]) grow() {
	t := &c.indices
	if t.capacity > groupSize && t.tombstones >= t.capacity/3 {
		t.compact(c.hashAt)
		return
	}

	c.rebuild(int(t.capacity * 2))
}

// rebuild reallocates the bucket table with the given number of slots and
// re-registers every entry.
func (c *core[K, V, I]) rebuild(slots int) {
	c.indices.init(slots)
	for i := range c.entries {
		c.indices.insert(c.entries[i].hash, c.position(i))
	}
}

func (c *core[K, V, I]) reserve(additional int) error {
	if additional <= 0 {
		return nil
	}

	n := len(c.entries)
	if additional > c.maxLen-n {
		return fmt.Errorf("%w: cannot reserve %d more entries, %d of %d used",
			ErrCapacityExceeded, additional, n, c.maxLen)
	}

	if limit := allocLen[K, V, I](); additional > limit-n {
		return fmt.Errorf("%w: cannot allocate %d more entries, %d used, allocation limit %d",
			ErrCapacityExceeded, additional, n, limit)
	}

	c.entries = slices.Grow(c.entries, additional)

	t := &c.indices
	if t.size+t.tombstones+uintptr(additional) > t.capacityEffective {
		c.rebuild(slotsFor(n + additional))
	}

	return nil
}

func (c *core[K, V, I]) eraseAt(i int) {
	g, idx := c.indices.findPos(c.entries[i].hash, c.position(i))
	c.indices.erase(g, idx)
}

// shiftRemoveAt removes the entry at i and moves every following entry one
// position down.
func (c *core[K, V, I]) shiftRemoveAt(i int) entry[K, V] {
	e := c.entries[i]
	c.eraseAt(i)

	if tail := len(c.entries) - i - 1; tail > int(c.indices.capacity)/4 {
		// Cheaper to sweep the whole table once than to probe per entry.
		c.indices.rewrite(func(pos I) (I, bool) {
			if n := c.count(pos); n > i {
				return c.position(n - 1), true
			}

			return pos, true
		})
	} else {
		// Ascending order keeps every position unique at each step.
		for j := i + 1; j < len(c.entries); j++ {
			c.indices.replace(c.entries[j].hash, c.position(j), c.position(j-1))
		}
	}

	c.entries = slices.Delete(c.entries, i, i+1)

	return e
}

// swapRemoveAt removes the entry at i and moves the last entry into its
// place.
func (c *core[K, V, I]) swapRemoveAt(i int) entry[K, V] {
	e := c.entries[i]
	c.eraseAt(i)

	last := len(c.entries) - 1
	if i != last {
		c.indices.replace(c.entries[last].hash, c.position(last), c.position(i))
		c.entries[i] = c.entries[last]
	}

	c.entries[last] = entry[K, V]{}
	c.entries = c.entries[:last]

	return e
}

func (c *core[K, V, I]) swapIndices(a, b int) {
	if a == b {
		return
	}

	// Locate both slots before touching either, their probe chains may overlap.
	ga, ia := c.indices.findPos(c.entries[a].hash, c.position(a))
	gb, ib := c.indices.findPos(c.entries[b].hash, c.position(b))

	ga.slots[ia], gb.slots[ib] = gb.slots[ib], ga.slots[ia]
	c.entries[a], c.entries[b] = c.entries[b], c.entries[a]
}

func (c *core[K, V, I]) truncate(n int) {
	if n < 0 {
		n = 0
	}

	if n >= len(c.entries) {
		return
	}

	if len(c.entries)-n > int(c.indices.capacity)/4 {
		c.indices.rewrite(func(pos I) (I, bool) {
			return pos, c.count(pos) < n
		})
	} else {
		for i := n; i < len(c.entries); i++ {
			c.eraseAt(i)
		}
	}

	clear(c.entries[n:])
	c.entries = c.entries[:n]
}

func (c *core[K, V, I]) retain(keep func(K, V) bool) {
	n := len(c.entries)
	c.entries = slices.DeleteFunc(c.entries, func(e entry[K, V]) bool {
		return !keep(e.key, e.value)
	})

	if len(c.entries) != n {
		c.rebuild(int(c.indices.capacity))
	}
}

func (c *core[K, V, I]) sortFunc(cmp func(a, b *entry[K, V]) int) {
	slices.SortStableFunc(c.entries, func(a, b entry[K, V]) int {
		return cmp(&a, &b)
	})

	c.rebuild(int(c.indices.capacity))
}

func (c *core[K, V, I]) reset() {
	clear(c.entries)
	c.entries = c.entries[:0]
	c.indices.Reset()
}

func (c *core[K, V, I]) clone() core[K, V, I] {
	cc := *c
	cc.entries = slices.Clone(c.entries)
	cc.indices.groups = slices.Clone(c.indices.groups)

	return cc
}

func (c *core[K, V, I]) stats() Stats {
	s := c.indices.stats()
	s.MaxLen = c.maxLen

	return s
}

func (c *core[K, V, I]) all() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i := range c.entries {
			if !yield(c.entries[i].key, c.entries[i].value) {
				return
			}
		}
	}
}

func (c *core[K, V, I]) keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for i := range c.entries {
			if !yield(c.entries[i].key) {
				return
			}
		}
	}
}
