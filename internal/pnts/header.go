package pnts

import (
	"fmt"

	"github.com/ecopia-map/cesium_loader/internal/failure"
)

const (
	Magic      = "pnts"
	Version    = 1
	HeaderSize = 28
)

// Fixed 28 byte header at the start of every pnts payload
type Header struct {
	Magic                        string `json:"magic"`
	Version                      uint32 `json:"version"`
	ByteLength                   uint32 `json:"byteLength"`
	FeatureTableJSONByteLength   uint32 `json:"featureTableJSONByteLength"`
	FeatureTableBinaryByteLength uint32 `json:"featureTableBinaryByteLength"`
	BatchTableJSONByteLength     uint32 `json:"batchTableJSONByteLength"`
	BatchTableBinaryByteLength   uint32 `json:"batchTableBinaryByteLength"`
}

// ReadHeader reads the header fields in order. The magic is checked before
// anything else so a foreign file is rejected after its first four bytes.
func ReadHeader(c *Cursor) (*Header, error) {
	magic, err := c.ReadASCII(len(Magic))
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, fmt.Errorf("%w: %q", failure.ErrInvalidMagic, magic)
	}

	header := &Header{Magic: magic}
	fields := []*uint32{
		&header.Version,
		&header.ByteLength,
		&header.FeatureTableJSONByteLength,
		&header.FeatureTableBinaryByteLength,
		&header.BatchTableJSONByteLength,
		&header.BatchTableBinaryByteLength,
	}
	for _, field := range fields {
		if *field, err = c.ReadUint32(); err != nil {
			return nil, err
		}
	}

	return header, nil
}
