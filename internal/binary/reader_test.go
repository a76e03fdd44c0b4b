package binary

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReader(data []byte) *SafeReader {
	return NewSafeReader(bytes.NewReader(data), int64(len(data)), "test.bin")
}

func TestSafeReader_ReadAt(t *testing.T) {
	sr := newTestReader([]byte{0x01, 0x02, 0x03, 0x04})

	buf := make([]byte, 2)
	require.NoError(t, sr.ReadAt(buf, 1, "middle"))
	assert.Equal(t, []byte{0x02, 0x03}, buf)
	assert.Equal(t, int64(4), sr.Size())
	assert.Equal(t, "test.bin", sr.Path())
}

func TestSafeReader_OutOfBounds(t *testing.T) {
	sr := newTestReader([]byte{0x01, 0x02, 0x03, 0x04})

	tests := []struct {
		name string
		off  int64
		n    int
	}{
		{"past end", 10, 2},
		{"negative", -1, 1},
		{"straddles end", 3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sr.ReadAt(make([]byte, tt.n), tt.off, "frame header")
			var oob *OutOfBoundsError
			require.True(t, errors.As(err, &oob), "got %v", err)
			assert.Equal(t, tt.off, oob.Offset)
			assert.Contains(t, err.Error(), "test.bin")
			assert.Contains(t, err.Error(), "frame header")
		})
	}
}

func TestSafeReader_ReadBytesHugeLength(t *testing.T) {
	sr := newTestReader([]byte{0x01, 0x02, 0x03, 0x04})

	_, err := sr.ReadBytes(2, 1<<30, "comment")
	var oob *OutOfBoundsError
	require.ErrorAs(t, err, &oob)
	assert.Equal(t, 1<<30, oob.Length)
}

func TestReadEndian(t *testing.T) {
	sr := newTestReader([]byte{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0})

	u8, err := Read[uint8](sr, 0, "u8")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x12), u8)

	be16, err := ReadBE[uint16](sr, 0, "be16")
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), be16)

	le16, err := ReadLE[uint16](sr, 0, "le16")
	require.NoError(t, err)
	assert.Equal(t, uint16(0x3412), le16)

	be32, err := Read[uint32](sr, 4, "be32")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x9ABCDEF0), be32)

	le32, err := ReadLE[uint32](sr, 0, "le32")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x78563412), le32)

	be64, err := ReadEndian[uint64](sr, 0, "be64", BigEndian)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x123456789ABCDEF0), be64)

	_, err = ReadLE[uint64](sr, 1, "le64")
	assert.Error(t, err)
}

func TestReader_Sequential(t *testing.T) {
	// RIFF-style little-endian chunk header followed by a big-endian IFF one.
	data := []byte("fmt \x10\x00\x00\x00COMM\x00\x00\x00\x12")
	sr := newTestReader(data)

	le := NewLEReader(sr, 0)
	id, err := le.ReadString(4, "chunk id")
	require.NoError(t, err)
	size, err := ReadValue[uint32](le, "chunk size")
	require.NoError(t, err)
	assert.Equal(t, "fmt ", id)
	assert.Equal(t, uint32(16), size)
	assert.Equal(t, int64(8), le.Offset())

	be := NewReader(sr, le.Offset())
	be.Skip(4)
	size, err = ReadValue[uint32](be, "chunk size")
	require.NoError(t, err)
	assert.Equal(t, uint32(18), size)
	assert.Equal(t, int64(16), be.Offset())

	_, err = be.ReadBytes(1, "past end")
	assert.Error(t, err)
	assert.Equal(t, int64(16), be.Offset(), "failed reads must not advance")
}

func TestChainReader(t *testing.T) {
	sr := newTestReader([]byte{0x00, 0x01, 'a', 'b', 0xFF})

	cr := NewChainReader(NewReader(sr, 0))
	n := ReadChained[uint16](cr, "count")
	s := cr.String(2, "name")
	b := cr.Bytes(1, "flag")
	require.NoError(t, cr.Error())
	assert.Equal(t, uint16(1), n)
	assert.Equal(t, "ab", s)
	assert.Equal(t, []byte{0xFF}, b)

	// The first failure sticks and later reads return zero values.
	_ = ReadChained[uint32](cr, "overflow")
	assert.Error(t, cr.Error())
	assert.Empty(t, cr.String(1, "after"))
	assert.Nil(t, cr.Bytes(1, "after"))
	assert.Zero(t, ReadChained[uint8](cr, "after"))
}

func BenchmarkReadLE_Uint32(b *testing.B) {
	sr := newTestReader([]byte{0x01, 0x02, 0x03, 0x04})
	for b.Loop() {
		_, _ = ReadLE[uint32](sr, 0, "bench")
	}
}
