package jit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritableCapacity(t *testing.T) {
	w := New(1)
	assert.GreaterOrEqual(t, w.Cap(), MinSize)
	assert.Zero(t, w.Len())
}

func TestWritableOverflow(t *testing.T) {
	w := New(1)
	for i := 0; i < w.Cap(); i++ {
		require.NoError(t, w.WriteByte(0))
	}
	err := w.WriteByte(0)
	require.Error(t, err)
	var tooLarge ErrTooLarge
	require.ErrorAs(t, err, &tooLarge)
}

func TestWritableBytes(t *testing.T) {
	w := New(MinSize)
	for _, b := range []byte{0x40, 0x05, 0x80, 0xd2} {
		require.NoError(t, w.WriteByte(b))
	}
	assert.Equal(t, []byte{0x40, 0x05, 0x80, 0xd2}, w.Bytes())
	assert.Equal(t, 4, w.Len())
}

func TestSealPreservesBytes(t *testing.T) {
	w := New(MinSize)
	want := []byte{0x40, 0x05, 0x80, 0xd2, 0x30, 0x00, 0x80, 0xd2, 0x01, 0x10, 0x00, 0xd4}
	for _, b := range want {
		require.NoError(t, w.WriteByte(b))
	}
	exec, err := w.Seal()
	require.NoError(t, err)
	defer exec.Close()
	require.GreaterOrEqual(t, exec.Len(), len(want))
	assert.Equal(t, want, exec.mem[:len(want)])
}
