package bitarray

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_InvalidCapacity(t *testing.T) {
	for _, n := range []int{0, -1, -64} {
		a, err := New(n)
		require.ErrorIs(t, err, ErrInvalidCapacity, "New(%d)", n)
		require.Nil(t, a)
	}
}

func TestNew_ByteLength(t *testing.T) {
	tests := []struct {
		numBits   int
		wantBytes int
	}{
		{1, 1},
		{7, 1},
		{8, 1},
		{9, 2},
		{16, 2},
		{17, 3},
		{128, 16},
		{129, 17},
	}

	for _, tt := range tests {
		a, err := New(tt.numBits)
		require.NoError(t, err)
		require.Equal(t, tt.numBits, a.Len())
		require.Len(t, a.Bytes(), tt.wantBytes, "New(%d)", tt.numBits)
		for _, b := range a.Bytes() {
			require.Zero(t, b)
		}
	}
}

func TestSet_SingleBitPerByte(t *testing.T) {
	for byteIdx := 0; byteIdx < 3; byteIdx++ {
		want := byte(1)
		for bit := 0; bit < 8; bit++ {
			i := byteIdx*8 + bit
			a, err := New(i + 1)
			require.NoError(t, err)
			require.Len(t, a.Bytes(), byteIdx+1)

			a.Set(i, true)
			for j, b := range a.Bytes() {
				if j == byteIdx {
					require.Equal(t, want, b, "bit %d", i)
				} else {
					require.Zero(t, b, "bit %d leaked into byte %d", i, j)
				}
			}
			require.True(t, a.Get(i))

			a.Set(i, false)
			for _, b := range a.Bytes() {
				require.Zero(t, b)
			}
			require.False(t, a.Get(i))
			want <<= 1
		}
	}
}

func TestSet_MultipleBits(t *testing.T) {
	a, err := New(16)
	require.NoError(t, err)

	a.Set(0, true)
	a.Set(3, true)
	a.Set(7, true)
	a.Set(8, true)
	a.Set(15, true)
	require.Equal(t, []byte{0x89, 0x81}, a.Bytes())

	a.Set(3, false)
	a.Set(15, false)
	require.Equal(t, []byte{0x81, 0x01}, a.Bytes())

	// Setting an already set bit is idempotent.
	a.Set(0, true)
	require.Equal(t, []byte{0x81, 0x01}, a.Bytes())
}

func TestSet_OutOfRangeIgnored(t *testing.T) {
	a, err := New(10)
	require.NoError(t, err)

	require.NotPanics(t, func() {
		a.Set(-1, true)
		a.Set(10, true)
		a.Set(16, true)
		a.Set(1<<20, true)
	})
	require.Equal(t, []byte{0, 0}, a.Bytes())
	require.False(t, a.Get(10))
	require.False(t, a.Get(-1))
}

func TestBytes_IsView(t *testing.T) {
	a, err := New(8)
	require.NoError(t, err)

	view := a.Bytes()
	a.Set(1, true)
	require.Equal(t, byte(0x02), view[0])
	require.Same(t, &view[0], &a.Bytes()[0])
}
