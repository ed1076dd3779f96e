package sqlite

import (
	"encoding/binary"
	"fmt"
	"math"
)

const float32Size = 4

// encodeVector packs v as little-endian float32s.
func encodeVector(v []float32) []byte {
	if len(v) == 0 {
		return nil
	}
	buf := make([]byte, len(v)*float32Size)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*float32Size:], math.Float32bits(f))
	}
	return buf
}

// decodeVector reverses encodeVector.
func decodeVector(blob []byte) ([]float32, error) {
	if len(blob)%float32Size != 0 {
		return nil, fmt.Errorf("vector blob of %d bytes is not a float32 array", len(blob))
	}
	if len(blob) == 0 {
		return nil, nil
	}
	v := make([]float32, len(blob)/float32Size)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*float32Size:]))
	}
	return v, nil
}
