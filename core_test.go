package indexmap

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

// requireConsistent checks that the bucket table and the entries slice
// describe the same mapping.
func requireConsistent[K comparable, V any, I Indexable[I]](t *testing.T, c *core[K, V, I]) {
	t.Helper()

	require.Equal(t, len(c.entries), int(c.indices.size), "bucket table size")

	seen := make([]bool, len(c.entries))
	tombstones := 0

	for gi := range c.indices.groups {
		g := &c.indices.groups[gi]
		for j := range groupSize {
			switch ctrl := g.ctrls[j]; ctrl {
			case slotEmpty:
			case slotDeleted:
				tombstones++
			default:
				n := c.count(g.slots[j])
				require.Less(t, n, len(c.entries), "stale position in group %d slot %d", gi, j)
				require.False(t, seen[n], "position %d registered twice", n)
				seen[n] = true

				_, h2 := HashSplit(c.entries[n].hash)
				require.Equal(t, h2, ctrl, "control byte of position %d", n)
			}
		}
	}

	require.Equal(t, tombstones, int(c.indices.tombstones), "tombstone count")

	for i := range c.entries {
		n, ok := c.indexOf(c.entries[i].key)
		require.True(t, ok, "key at position %d unreachable", i)
		require.Equal(t, i, n)
	}
}

func requirePanicsIs(t *testing.T, target error, f func()) {
	t.Helper()

	defer func() {
		t.Helper()

		r := recover()
		require.NotNil(t, r, "expected a panic")

		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		require.True(t, errors.Is(err, target), "panic %v is not %v", err, target)
	}()

	f()
}

type model struct {
	keys   []int
	values map[int]int
}

func (m *model) indexOf(k int) int {
	return slices.Index(m.keys, k)
}

func (m *model) shiftRemove(i int) {
	delete(m.values, m.keys[i])
	m.keys = slices.Delete(m.keys, i, i+1)
}

func (m *model) swapRemove(i int) {
	delete(m.values, m.keys[i])

	last := len(m.keys) - 1
	m.keys[i] = m.keys[last]
	m.keys = m.keys[:last]
}

func TestCore_Model(t *testing.T) {
	hashFuncs := map[string]HashFunc[int]{
		"default": nil,
		// Few distinct hashes: long probe chains and shared h2 bytes.
		"collisions": func(k int) uint64 { return uint64(k%5) << 5 },
	}

	for name, hashFunc := range hashFuncs {
		t.Run(name, func(t *testing.T) {
			var opts []Option[int]
			if hashFunc != nil {
				opts = append(opts, WithHashFunc(hashFunc))
			}

			rnd := rand.New(rand.NewSource(42))
			m := New[int, int, Index16](0, opts...)
			ref := &model{values: make(map[int]int)}

			for step := range 5000 {
				k := rnd.Intn(300)

				switch op := rnd.Intn(10); {
				case op < 5:
					v := rnd.Int()
					old, replaced, err := m.Insert(k, v)
					require.NoError(t, err)

					prev, existed := ref.values[k]
					require.Equal(t, existed, replaced)
					if existed {
						require.Equal(t, prev, old)
					} else {
						ref.keys = append(ref.keys, k)
					}
					ref.values[k] = v
				case op == 5:
					_, ok := m.ShiftRemove(k)
					i := ref.indexOf(k)
					require.Equal(t, i >= 0, ok)
					if i >= 0 {
						ref.shiftRemove(i)
					}
				case op == 6:
					_, ok := m.SwapRemove(k)
					i := ref.indexOf(k)
					require.Equal(t, i >= 0, ok)
					if i >= 0 {
						ref.swapRemove(i)
					}
				case op == 7 && len(ref.keys) > 0:
					i := rnd.Intn(len(ref.keys))
					key, _, ok := m.ShiftRemoveIndex(Index16(i))
					require.True(t, ok)
					require.Equal(t, ref.keys[i], key)
					ref.shiftRemove(i)
				case op == 8 && len(ref.keys) > 1:
					a, b := rnd.Intn(len(ref.keys)), rnd.Intn(len(ref.keys))
					require.True(t, m.SwapIndices(Index16(a), Index16(b)))
					ref.keys[a], ref.keys[b] = ref.keys[b], ref.keys[a]
				case op == 9 && step%7 == 0:
					m.Compact()
				}

				if step%100 == 0 {
					requireConsistent(t, &m.core)
				}
			}

			requireConsistent(t, &m.core)
			require.Equal(t, ref.keys, slices.Collect(m.Keys()))

			for k, v := range ref.values {
				got, ok := m.Get(k)
				require.True(t, ok)
				require.Equal(t, v, got)
			}
		})
	}
}

func TestCore_ShiftRemove_Bulk(t *testing.T) {
	// Removing near the front of a big map goes through the table sweep.
	m := New[int, int, Index16](0)
	for i := range 1000 {
		require.NoError(t, m.Set(i, i))
	}

	for i := range 10 {
		v, ok := m.ShiftRemove(i)
		require.True(t, ok)
		require.Equal(t, i, v)
	}

	requireConsistent(t, &m.core)

	k, _, ok := m.First()
	require.True(t, ok)
	require.Equal(t, 10, k)
}

func TestCore_Truncate(t *testing.T) {
	for _, n := range []int{990, 500, 10, 0} {
		m := New[int, int, Index16](0)
		for i := range 1000 {
			require.NoError(t, m.Set(i, i))
		}

		m.Truncate(n)

		require.Equal(t, n, m.Len())
		requireConsistent(t, &m.core)
		require.False(t, m.Contains(n))

		if n > 0 {
			require.True(t, m.Contains(n-1))
		}
	}
}

func TestCore_Grow(t *testing.T) {
	m := New[int, struct{}, Index16](0)
	require.Equal(t, groupSize, m.Stats().Capacity)

	for i := range 10_000 {
		require.NoError(t, m.Set(i, struct{}{}))
	}

	stats := m.Stats()
	require.Equal(t, 10_000, stats.Size)
	require.Equal(t, 16384, stats.Capacity)
	require.Zero(t, stats.Tombstones)

	requireConsistent(t, &m.core)
}

func TestCore_Grow_CompactsTombstones(t *testing.T) {
	m := New[int, int, Index16](64)
	capacity := m.Stats().Capacity

	// Churn at a steady size: the table must recycle tombstones instead of
	// growing without bound.
	for i := range 10_000 {
		require.NoError(t, m.Set(i, i))

		if i >= 20 {
			_, ok := m.SwapRemove(i - 20)
			require.True(t, ok)
		}
	}

	require.Equal(t, 20, m.Len())
	require.Equal(t, capacity, m.Stats().Capacity)

	requireConsistent(t, &m.core)
}
