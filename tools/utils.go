package tools

import (
	"encoding/binary"
	"encoding/json"
	"math"
)

func FmtJSONString(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "marshal data fail"
	}
	return string(data)
}

// Converts an integer to a 4 byte little endian unsigned representation
func ConvertIntToByteArray(value int) []byte {
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, uint32(value))
	return out
}

// Converts a float32 slice to its little endian IEEE-754 byte representation
func ConvertFloat32ToByteArray(values []float32) []byte {
	out := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}
