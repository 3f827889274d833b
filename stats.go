package indexmap

type Stats struct {
	Size                    int
	MaxLen                  int
	Capacity                int
	EffectiveCapacity       int
	Tombstones              int
	TombstonesCapacityRatio float32
	TombstonesSizeRatio     float32
}

func (t *table[I]) stats() Stats {
	s := Stats{
		Size:              int(t.size),
		Capacity:          int(t.capacity),
		EffectiveCapacity: int(t.capacityEffective),
		Tombstones:        int(t.tombstones),
	}

	if t.capacity > 0 {
		s.TombstonesCapacityRatio = float32(t.tombstones) / float32(t.capacity)
	}

	if t.size > 0 {
		s.TombstonesSizeRatio = float32(t.tombstones) / float32(t.size)
	}

	return s
}
