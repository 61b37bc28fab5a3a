package stream

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/san-kum/partsim/internal/dynamo"
)

const headerSize = 12

// Encode packs a frame as little endian
// uint64 version | uint32 count | count*3 float32.
func Encode(f dynamo.Frame) []byte {
	n := f.Count()
	buf := make([]byte, headerSize+n*12)
	binary.LittleEndian.PutUint64(buf[0:], f.Version)
	binary.LittleEndian.PutUint32(buf[8:], uint32(n))
	for i, v := range f.Positions[:n*3] {
		binary.LittleEndian.PutUint32(buf[headerSize+i*4:], math.Float32bits(v))
	}
	return buf
}

func Decode(buf []byte) (dynamo.Frame, error) {
	if len(buf) < headerSize {
		return dynamo.Frame{}, fmt.Errorf("decode frame: %d bytes, want at least %d", len(buf), headerSize)
	}
	version := binary.LittleEndian.Uint64(buf[0:])
	n := int(binary.LittleEndian.Uint32(buf[8:]))
	if len(buf) != headerSize+n*12 {
		return dynamo.Frame{}, fmt.Errorf("decode frame: %d particles need %d bytes, got %d", n, headerSize+n*12, len(buf))
	}

	pos := make([]float32, n*3)
	for i := range pos {
		pos[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[headerSize+i*4:]))
	}
	return dynamo.Frame{Version: version, Positions: pos}, nil
}
