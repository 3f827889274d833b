package indexmap

import (
	"hash/maphash"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/require"
)

func TestMakeDefaultHash(t *testing.T) {
	v := "foo"
	s := maphash.MakeSeed()

	h1 := MakeDefaultHashFunc[string](s)(v)
	h2 := maphash.Comparable(s, v)

	require.Equal(t, h2, h1)
}

func TestMakeStringHash(t *testing.T) {
	type name string

	f := MakeStringHashFunc[name]()

	require.Equal(t, xxhash.Sum64String("foo"), f("foo"))
	require.Equal(t, f("bar"), MakeStringHashFunc[name]()("bar"))
}

func TestHashSplit(t *testing.T) {
	tests := []struct {
		name   string
		input  uint64
		wantH1 uintptr
		wantH2 uint8
	}{
		{
			name:   "Zero value",
			input:  0,
			wantH1: 0,
			wantH2: 0,
		},
		{
			name:   "Max H2 (7 bits)",
			input:  0x7F,
			wantH1: 0,
			wantH2: 0x7F,
		},
		{
			name:   "First bit of H1",
			input:  1 << 7,
			wantH1: 1,
			wantH2: 0,
		},
		{
			name:   "Random pattern",
			input:  0xABCD1234567890EF,
			wantH1: uintptr(uint64(0xABCD1234567890EF) >> 7),
			wantH2: 0xEF & 0x7F,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h1, h2 := HashSplit(tt.input)

			require.Equal(t, tt.wantH1, h1)
			require.Equal(t, tt.wantH2, h2)
		})
	}
}
