package pnts

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/ecopia-map/cesium_loader/internal/data"
	"github.com/ecopia-map/cesium_loader/internal/failure"
)

const colorSize = 3 // r,g,b uint8

// DecodeFile reads and decodes the pnts payload at path
func DecodeFile(path string) (*data.PointBatch, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", failure.ErrNotFound, path)
		}
		return nil, err
	}

	batch, err := Decode(buf)
	if err != nil {
		return nil, err
	}
	batch.Source = path

	return batch, nil
}

// Decode turns a complete pnts payload into a PointBatch. It either returns
// every point of the payload or an error, never a partial batch.
func Decode(buf []byte) (*data.PointBatch, error) {
	cursor := NewCursor(buf)

	header, err := ReadHeader(cursor)
	if err != nil {
		return nil, err
	}
	if int(header.ByteLength) != len(buf) {
		glog.V(2).Infof("pnts header byteLength %d differs from buffer size %d", header.ByteLength, len(buf))
	}

	rawFeatureTable, err := cursor.ReadBytes(int(header.FeatureTableJSONByteLength))
	if err != nil {
		return nil, err
	}
	featureTable, err := ParseFeatureTable(rawFeatureTable)
	if err != nil {
		return nil, err
	}

	encoding, err := ClassifyEncoding(featureTable)
	if err != nil {
		return nil, err
	}
	if encoding != EncodingFloat {
		return nil, fmt.Errorf("%w: %s positions", failure.ErrUnsupportedEncoding, encoding)
	}

	numPoints := int(featureTable.PointsLength)
	bodySize := uint64(featureTable.PointsLength) * (pointComponents*floatComponentSize + colorSize)
	if bodySize > uint64(cursor.Remaining()) {
		return nil, fmt.Errorf("%d points need %d body bytes, %d left: %w", numPoints, bodySize, cursor.Remaining(), failure.ErrOutOfBounds)
	}

	batch := data.NewPointBatch("", numPoints)
	batch.RTCCenter = featureTable.RTCCenter

	// positions block fully precedes colors block
	for i := 0; i < numPoints; i++ {
		p := &batch.Points[i]
		if p.X, err = cursor.ReadFloat32(); err != nil {
			return nil, err
		}
		if p.Y, err = cursor.ReadFloat32(); err != nil {
			return nil, err
		}
		if p.Z, err = cursor.ReadFloat32(); err != nil {
			return nil, err
		}
	}
	for i := 0; i < numPoints; i++ {
		p := &batch.Points[i]
		if p.R, err = cursor.ReadUint8(); err != nil {
			return nil, err
		}
		if p.G, err = cursor.ReadUint8(); err != nil {
			return nil, err
		}
		if p.B, err = cursor.ReadUint8(); err != nil {
			return nil, err
		}
	}

	return batch, nil
}

// Inspect decodes only the header and feature table of a payload
func Inspect(buf []byte) (*Header, *FeatureTable, error) {
	cursor := NewCursor(buf)

	header, err := ReadHeader(cursor)
	if err != nil {
		return nil, nil, err
	}
	rawFeatureTable, err := cursor.ReadBytes(int(header.FeatureTableJSONByteLength))
	if err != nil {
		return header, nil, err
	}
	featureTable, err := ParseFeatureTable(rawFeatureTable)
	if err != nil {
		return header, nil, err
	}

	return header, featureTable, nil
}
