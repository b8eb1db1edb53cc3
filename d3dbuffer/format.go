// Package d3dbuffer implements a decoder and encoder for the data3d buffer
// format.
//
// A buffer file consists of a 16-byte header, a structure section holding
// the node tree as UTF-16 JSON text, and a payload section holding the mesh
// arrays as one contiguous little-endian float32 array. Meshes refer to the
// payload with offset and length keys counted in elements.
package d3dbuffer

import (
	"encoding/binary"
	"math"

	"golang.org/x/text/encoding/unicode"
)

// format is the raw content of a buffer file.
type format struct {
	Header Header
	// Structure is the structure section converted to UTF-8.
	Structure []byte
	Payload   []float32
}

// encodeStructure converts JSON text to UTF-16LE. The text is padded with a
// space to an even number of code units, so that the payload that follows is
// aligned to 4 bytes. Padding only odd byte lengths would never apply, since
// UTF-16 text always has an even byte length.
func encodeStructure(text []byte) ([]byte, error) {
	b, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes(text)
	if err != nil {
		return nil, err
	}
	if len(b)%4 != 0 {
		b = append(b, ' ', 0)
	}
	return b, nil
}

// decodeStructure converts UTF-16 text to UTF-8. A byte order mark is
// honored if present; little-endian is assumed otherwise.
func decodeStructure(b []byte) ([]byte, error) {
	return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder().Bytes(b)
}

func encodePayload(a []float32) []byte {
	b := make([]byte, len(a)*4)
	for i, f := range a {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	return b
}

func decodePayload(b []byte) []float32 {
	a := make([]float32, len(b)/4)
	for i := range a {
		a[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return a
}
