package pnts

import (
	"encoding/json"
	"strings"

	"github.com/ecopia-map/cesium_loader/internal/data"
	"github.com/ecopia-map/cesium_loader/tools"
)

// header plus feature table JSON must end on an 8 byte boundary
const featureTableAlignment = 8

// Encode writes a batch as a float encoded pnts payload: header, feature table
// JSON padded with spaces, positions array, colors array. No batch table.
func Encode(batch *data.PointBatch) []byte {
	numPoints := batch.Len()

	featureTableBytes := generateFeatureTable(numPoints, batch.RTCCenter)
	positionBytes, colorBytes := generateBody(batch)

	byteLength := HeaderSize + len(featureTableBytes) + len(positionBytes) + len(colorBytes)

	outputByte := make([]byte, 0, byteLength)
	outputByte = append(outputByte, []byte(Magic)...)
	outputByte = append(outputByte, tools.ConvertIntToByteArray(Version)...)
	outputByte = append(outputByte, tools.ConvertIntToByteArray(byteLength)...)
	// feature table json and binary lengths
	outputByte = append(outputByte, tools.ConvertIntToByteArray(len(featureTableBytes))...)
	outputByte = append(outputByte, tools.ConvertIntToByteArray(len(positionBytes)+len(colorBytes))...)
	// batch table json and binary lengths
	outputByte = append(outputByte, tools.ConvertIntToByteArray(0)...)
	outputByte = append(outputByte, tools.ConvertIntToByteArray(0)...)
	outputByte = append(outputByte, featureTableBytes...)
	outputByte = append(outputByte, positionBytes...)
	outputByte = append(outputByte, colorBytes...)

	return outputByte
}

// Generates the json representation of the feature table, padded with trailing spaces
func generateFeatureTable(numPoints int, rtcCenter []float64) []byte {
	ft := FeatureTable{
		PointsLength: uint32(numPoints),
		RGB:          BinaryBodyReference{ByteOffset: uint32(numPoints * pointComponents * floatComponentSize)},
		Position:     &BinaryBodyReference{ByteOffset: 0},
		RTCCenter:    rtcCenter,
	}
	// a struct of plain numbers always marshals
	raw, _ := json.Marshal(ft)

	if paddingSize := (HeaderSize + len(raw)) % featureTableAlignment; paddingSize != 0 {
		raw = append(raw, strings.Repeat(" ", featureTableAlignment-paddingSize)...)
	}
	return raw
}

func generateBody(batch *data.PointBatch) ([]byte, []byte) {
	coords := make([]float32, 0, batch.Len()*pointComponents)
	colors := make([]byte, 0, batch.Len()*colorSize)
	for _, p := range batch.Points {
		coords = append(coords, p.X, p.Y, p.Z)
		colors = append(colors, p.R, p.G, p.B)
	}
	return tools.ConvertFloat32ToByteArray(coords), colors
}
