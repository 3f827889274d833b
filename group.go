package indexmap

const (
	groupSize = 8

	slotEmpty   = 0x80
	slotDeleted = 0xFE
)

var emptyCtrls = [groupSize]uint8{
	slotEmpty,
	slotEmpty,
	slotEmpty,
	slotEmpty,

	slotEmpty,
	slotEmpty,
	slotEmpty,
	slotEmpty,
}

type group[I comparable] struct {
	// 8 bytes of metadata (h2 or control states)
	// This fits perfectly in a single uint64 load
	ctrls [groupSize]uint8

	// 8 positions into the entries slice stored after the metadata.
	// Keys are not stored here, so the group size only depends on the
	// index type: with Index16 a whole group is 24 bytes.
	slots [groupSize]I
}
