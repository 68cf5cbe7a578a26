package pnts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecopia-map/cesium_loader/internal/failure"
)

func TestCursor_LittleEndian(t *testing.T) {
	buf := []byte{
		0x2a,
		0x34, 0x12,
		0x78, 0x56, 0x34, 0x12,
		0x00, 0x00, 0xc0, 0x3f, // 1.5
		'p', 'n', 't', 's',
	}
	c := NewCursor(buf)

	u8, err := c.ReadUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x2a), u8)

	u16, err := c.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16)

	u32, err := c.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), u32)

	f, err := c.ReadFloat32()
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), f)

	s, err := c.ReadASCII(4)
	require.NoError(t, err)
	assert.Equal(t, "pnts", s)

	assert.Equal(t, len(buf), c.Offset())
	assert.Equal(t, 0, c.Remaining())
}

func TestCursor_OutOfBoundsDoesNotAdvance(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3})

	require.NoError(t, c.Skip(1))

	_, err := c.ReadUint32()
	assert.ErrorIs(t, err, failure.ErrOutOfBounds)
	assert.Equal(t, 1, c.Offset())

	_, err = c.ReadBytes(-1)
	assert.ErrorIs(t, err, failure.ErrOutOfBounds)
	assert.Equal(t, 1, c.Offset())

	u16, err := c.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0302), u16)

	_, err = c.ReadUint8()
	assert.ErrorIs(t, err, failure.ErrOutOfBounds)
}

func TestCursor_ReadBytesCopies(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	c := NewCursor(buf)

	b, err := c.ReadBytes(2)
	require.NoError(t, err)
	b[0] = 9

	assert.Equal(t, byte(1), buf[0])
	assert.Equal(t, 2, c.Remaining())
}
