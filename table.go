package indexmap

import "fmt"

// table is the bucket table: a swiss table mapping hashes to positions in the
// entries slice. It never stores keys, so it cannot compare them itself;
// lookups take an eq callback that resolves a candidate position.
type table[I comparable] struct {
	groups []group[I]

	capacity          uintptr
	numGroupsMask     uintptr
	capacityEffective uintptr
	size              uintptr
	tombstones        uintptr
}

func (t *table[I]) init(capacity int) {
	normalizedCapacity := uintptr(NextPowerOf2(uint64(max(capacity, groupSize))))
	// Number of groups required
	numGroups := normalizedCapacity / groupSize

	t.groups = make([]group[I], numGroups)
	t.capacity = normalizedCapacity
	t.numGroupsMask = numGroups - 1
	t.capacityEffective = normalizedCapacity * 7 / 8

	t.Reset()
}

// full reports whether the next insert has to compact or resize first.
func (t *table[I]) full() bool {
	return t.size+t.tombstones >= t.capacityEffective
}

func (t *table[I]) find(hash uint64, eq func(I) bool) (*group[I], uintptr, bool) {
	h1, h2 := HashSplit(hash)
	mask := t.numGroupsMask
	start := (h1 / groupSize) & mask

	for p, offset := uintptr(0), start; p <= mask; p++ {
		g := &t.groups[offset]
		ctrl := loadCtrls(g)

		// SIMD-like match
		matches := matchH2(ctrl, h2)
		for matches != 0 {
			idx := matches.first()
			if eq(g.slots[idx]) {
				return g, idx, true
			}

			matches = matches.removeFirst()
		}

		// Termination
		if matchEmpty(ctrl) != 0 {
			return nil, 0, false
		}

		// Quadratic probe math
		offset = (start + (p+1)*(p+2)/2) & mask
	}

	return nil, 0, false
}

// findPos returns the slot holding pos. The slot must exist.
func (t *table[I]) findPos(hash uint64, pos I) (*group[I], uintptr) {
	g, idx, ok := t.find(hash, func(p I) bool { return p == pos })
	if !ok {
		panic(fmt.Sprintf("indexmap: position %v missing from bucket table", pos))
	}

	return g, idx
}

// insert places pos in the first free slot of its probe sequence. The caller
// guarantees the key is absent and that the table is not full.
func (t *table[I]) insert(hash uint64, pos I) {
	h1, h2 := HashSplit(hash)
	mask := t.numGroupsMask
	start := (h1 / groupSize) & mask

	for p, offset := uintptr(0), start; p <= mask; p++ {
		g := &t.groups[offset]

		matchMask := matchEmptyOrDeleted(loadCtrls(g))
		if matchMask != 0 {
			idx := matchMask.first()
			if g.ctrls[idx] == slotDeleted {
				t.tombstones--
			}

			g.ctrls[idx] = h2
			g.slots[idx] = pos
			t.size++

			return
		}

		offset = (start + (p+1)*(p+2)/2) & mask
	}

	panic("indexmap: no free slot in bucket table")
}

func (t *table[I]) erase(g *group[I], idx uintptr) {
	// Mark as Deleted (0xFE) to preserve the probe chain
	g.ctrls[idx] = slotDeleted
	t.size--
	t.tombstones++
}

// replace rewrites the slot holding old to hold pos instead.
func (t *table[I]) replace(hash uint64, old, pos I) {
	g, idx := t.findPos(hash, old)
	g.slots[idx] = pos
}

// rewrite visits every full slot. fn returns the new position and whether
// the slot stays; slots it drops are turned into tombstones.
func (t *table[I]) rewrite(fn func(I) (I, bool)) {
	for i := range t.groups {
		g := &t.groups[i]

		full := matchFull(loadCtrls(g))
		for full != 0 {
			idx := full.first()

			if pos, keep := fn(g.slots[idx]); keep {
				g.slots[idx] = pos
			} else {
				t.erase(g, idx)
			}

			full = full.removeFirst()
		}
	}
}

func (t *table[I]) Reset() {
	for i := range t.groups {
		copy(t.groups[i].ctrls[:], emptyCtrls[:])
	}

	t.size = 0
	t.tombstones = 0
}

// compact drops all tombstones in place. hashOf resolves the hash of the
// entry a position points at.
func (t *table[I]) compact(hashOf func(I) uint64) {
	// We want to drop all of the deletes in place. We first walk over the
	// control bytes and mark every DELETED slot as EMPTY and every FULL slot
	// as DELETED. Marking the DELETED slots as EMPTY has effectively dropped
	// the tombstones, but we fouled up the probe invariant. Marking the FULL
	// slots as DELETED gives us a marker to locate the previously FULL slots.
	for i := range t.groups {
		g := &t.groups[i]
		storeCtrls(g, invertCtrls(loadCtrls(g)))
	}

	for gi := range t.groups {
		g := &t.groups[gi]

		for j := uintptr(0); j < groupSize; {
			// Only process slots we marked as Deleted (which were originally Full)
			if g.ctrls[j] != slotDeleted {
				j++
				continue
			}

			var (
				pos    = g.slots[j]
				h1, h2 = HashSplit(hashOf(pos))
				start  = (h1 / groupSize) & t.numGroupsMask

				targetGroup *group[I]
				targetSlot  uintptr
			)

			for p, offset := uintptr(0), start; ; p++ {
				tg := &t.groups[offset]
				m := matchEmptyOrDeleted(loadCtrls(tg))
				if m != 0 {
					targetGroup = tg
					targetSlot = m.first()
					break
				}

				offset = (start + (p+1)*(p+2)/2) & t.numGroupsMask
			}

			switch {
			case targetGroup == g && targetSlot == j:
				// Already in the first free slot of its probe sequence.
				g.ctrls[j] = h2
				j++
			case targetGroup.ctrls[targetSlot] == slotEmpty:
				targetGroup.ctrls[targetSlot] = h2
				targetGroup.slots[targetSlot] = pos
				g.ctrls[j] = slotEmpty
				j++
			default:
				// The target still holds an unprocessed position: swap it in
				// here and process slot j again.
				targetGroup.ctrls[targetSlot] = h2
				g.slots[j], targetGroup.slots[targetSlot] = targetGroup.slots[targetSlot], pos
			}
		}
	}

	t.tombstones = 0
}
