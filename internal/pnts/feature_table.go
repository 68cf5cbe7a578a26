package pnts

import (
	"encoding/json"
	"fmt"

	"github.com/ecopia-map/cesium_loader/internal/failure"
)

const (
	pointComponents    = 3
	floatComponentSize = 4 // float32
	quantComponentSize = 2 // uint16
)

type BinaryBodyReference struct {
	ByteOffset uint32 `json:"byteOffset"`
}

// The feature table JSON embedded in a pnts payload. Only the fields needed to
// locate positions and colors are interpreted.
type FeatureTable struct {
	PointsLength          uint32               `json:"POINTS_LENGTH"`
	RGB                   BinaryBodyReference  `json:"RGB"`
	Position              *BinaryBodyReference `json:"POSITION,omitempty"`
	PositionQuantized     *BinaryBodyReference `json:"POSITION_QUANTIZED,omitempty"`
	RTCCenter             []float64            `json:"RTC_CENTER,omitempty"`
	QuantizedVolumeOffset []float64            `json:"QUANTIZED_VOLUME_OFFSET,omitempty"`
	QuantizedVolumeScale  []float64            `json:"QUANTIZED_VOLUME_SCALE,omitempty"`
}

func ParseFeatureTable(raw []byte) (*FeatureTable, error) {
	var ft FeatureTable
	if err := json.Unmarshal(raw, &ft); err != nil {
		return nil, fmt.Errorf("%w: feature table: %v", failure.ErrMalformedJSON, err)
	}
	return &ft, nil
}

type PositionEncoding int

const (
	EncodingFloat     PositionEncoding = iota // float32 x,y,z
	EncodingQuantized                         // uint16 x,y,z, needs a quantized volume
)

func (e PositionEncoding) String() string {
	switch e {
	case EncodingFloat:
		return "float32"
	case EncodingQuantized:
		return "quantized-uint16"
	}
	return "unknown"
}

// ComponentSize returns the byte width of one position component
func (e PositionEncoding) ComponentSize() int {
	if e == EncodingQuantized {
		return quantComponentSize
	}
	return floatComponentSize
}

// ClassifyEncoding derives the position encoding from the RGB byte offset, which
// must equal the size of the positions block. Float is tested first.
func ClassifyEncoding(ft *FeatureTable) (PositionEncoding, error) {
	points := uint64(ft.PointsLength)
	rgb := uint64(ft.RGB.ByteOffset)

	switch {
	case points*pointComponents*floatComponentSize == rgb:
		return EncodingFloat, nil
	case points*pointComponents*quantComponentSize == rgb:
		return EncodingQuantized, nil
	}
	return 0, fmt.Errorf("%w: %d points with rgb byte offset %d", failure.ErrUnknownPointEncoding, ft.PointsLength, ft.RGB.ByteOffset)
}
