package indexmap

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextPowerOf2(t *testing.T) {
	tests := []struct {
		input uint64
		want  uint64
	}{
		{1, 1},
		{2, 2},
		{3, 4},
		{8, 8},
		{9, 16},
		{1000, 1024},
		{1 << 40, 1 << 40},
		{1<<40 + 1, 1 << 41},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, NextPowerOf2(tt.input), "NextPowerOf2(%d)", tt.input)
	}
}

func TestSlotsFor(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 8},
		{7, 8},
		{8, 16},
		{14, 16},
		{15, 32},
		{21, 32},
		{28, 32},
		{29, 64},
	}

	for _, tt := range tests {
		got := slotsFor(tt.n)
		require.Equal(t, tt.want, got, "slotsFor(%d)", tt.n)
		require.GreaterOrEqual(t, got*7/8, tt.n)
	}
}

func TestCapacityFromSize(t *testing.T) {
	t.Run("int,int,Index", func(t *testing.T) {
		perEntry := unsafe.Sizeof(entry[int, int]{}) + unsafe.Sizeof(group[Index]{})/7

		tests := []struct {
			name string
			size uintptr
			want int
		}{
			{"zero", 0, 0},
			{"less than one entry", perEntry - 1, 0},
			{"exactly one entry", perEntry, 1},
			{"ten entries", perEntry * 10, 10},
			{"1MB", 1024 * 1024, int(1024 * 1024 / perEntry)},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got := CapacityFromSize[int, int, Index](tt.size)
				require.Equal(t, tt.want, got)
			})
		}
	})

	t.Run("narrow index fits more", func(t *testing.T) {
		const size = 1 << 20

		wide := CapacityFromSize[int, int, Index](size)
		narrow := CapacityFromSize[int, int, Index16](size)

		assert.Greater(t, narrow, wide)
	})

	t.Run("capped by index type", func(t *testing.T) {
		got := CapacityFromSize[int, struct{}, Index8](1 << 30)
		require.Equal(t, 256, got)
	})
}
