package pnts

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ecopia-map/cesium_loader/internal/failure"
)

// Cursor is a position tracking little-endian reader over an immutable byte buffer.
// A failed read leaves the offset untouched.
type Cursor struct {
	buf    []byte
	offset int
}

func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

func (c *Cursor) Offset() int {
	return c.offset
}

func (c *Cursor) Remaining() int {
	return len(c.buf) - c.offset
}

// take validates and consumes the next n bytes
func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, fmt.Errorf("read %d bytes at offset %d of %d: %w", n, c.offset, len(c.buf), failure.ErrOutOfBounds)
	}
	b := c.buf[c.offset : c.offset+n]
	c.offset += n
	return b, nil
}

func (c *Cursor) ReadUint8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) ReadUint16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *Cursor) ReadFloat32() (float32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

// ReadBytes returns a copy of the next n bytes
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	b, err := c.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

func (c *Cursor) ReadASCII(n int) (string, error) {
	b, err := c.take(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (c *Cursor) Skip(n int) error {
	_, err := c.take(n)
	return err
}
