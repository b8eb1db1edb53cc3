// Package lz4x frames whole data3d files with LZ4 compression for transport.
//
// A frame has a 16-byte header followed by the data:
//
//	Signature          [4]byte  "D3LZ"
//	CompressedLength   uint32   0 when the data is stored uncompressed
//	DecompressedLength uint32
//	Reserved           uint32
//
// Numbers are little-endian. The data is an LZ4 block without its length
// prefix, or the raw file when CompressedLength is 0.
package lz4x

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/anaminus/parse"
	"github.com/bkaradzic/go-lz4"
)

// Signature begins every frame.
const Signature = "D3LZ"

// HeaderLength is the length of the frame header in bytes.
const HeaderLength = 16

// MaxLength is the largest decompressed length accepted by Decompress.
const MaxLength = 1 << 30

var (
	ErrSignature = errors.New("lz4x: missing frame signature")
	ErrTooLarge  = errors.New("lz4x: decompressed length too large")
)

// LengthError indicates that the data of a frame does not have the length
// stated in its header.
type LengthError struct {
	Field string
	Got   int
	Want  int
}

func (err LengthError) Error() string {
	return fmt.Sprintf("lz4x: %s length is %d, expected %d", err.Field, err.Got, err.Want)
}

type header struct {
	signature          [4]byte
	compressedLength   uint32
	decompressedLength uint32
	reserved           uint32
}

func (h *header) ReadFrom(r io.Reader) (n int64, err error) {
	fr := parse.NewBinaryReader(r)
	if fr.Bytes(h.signature[:]) {
		return fr.End()
	}
	if fr.Number(&h.compressedLength) {
		return fr.End()
	}
	if fr.Number(&h.decompressedLength) {
		return fr.End()
	}
	if fr.Number(&h.reserved) {
		return fr.End()
	}
	return fr.End()
}

func (h header) WriteTo(w io.Writer) (n int64, err error) {
	fw := parse.NewBinaryWriter(w)
	if fw.Bytes(h.signature[:]) {
		return fw.End()
	}
	if fw.Number(h.compressedLength) {
		return fw.End()
	}
	if fw.Number(h.decompressedLength) {
		return fw.End()
	}
	if fw.Number(h.reserved) {
		return fw.End()
	}
	return fw.End()
}

// IsFramed returns whether b begins with the frame signature.
func IsFramed(b []byte) bool {
	return len(b) >= len(Signature) && string(b[:len(Signature)]) == Signature
}

// Compress returns src in a frame. When compression does not reduce the
// size, src is stored uncompressed.
func Compress(src []byte) ([]byte, error) {
	if len(src) > MaxLength {
		return nil, ErrTooLarge
	}
	h := header{decompressedLength: uint32(len(src))}
	copy(h.signature[:], Signature)

	data := src
	if len(src) > 0 {
		block, err := lz4.Encode(nil, src)
		if err != nil {
			return nil, fmt.Errorf("lz4x: %w", err)
		}
		// lz4 prepends the decompressed length, which the header already
		// carries.
		if binary.LittleEndian.Uint32(block[:4]) != uint32(len(src)) {
			return nil, LengthError{Field: "encoded", Got: int(binary.LittleEndian.Uint32(block[:4])), Want: len(src)}
		}
		if block = block[4:]; len(block) < len(src) {
			h.compressedLength = uint32(len(block))
			data = block
		}
	}

	var buf bytes.Buffer
	buf.Grow(HeaderLength + len(data))
	if _, err := h.WriteTo(&buf); err != nil {
		return nil, err
	}
	buf.Write(data)
	return buf.Bytes(), nil
}

// Decompress returns the file held by the frame b.
func Decompress(b []byte) ([]byte, error) {
	if len(b) < HeaderLength {
		return nil, LengthError{Field: "frame", Got: len(b), Want: HeaderLength}
	}
	var h header
	if _, err := h.ReadFrom(bytes.NewReader(b[:HeaderLength])); err != nil {
		return nil, err
	}
	if string(h.signature[:]) != Signature {
		return nil, ErrSignature
	}
	if h.decompressedLength > MaxLength {
		return nil, ErrTooLarge
	}
	data := b[HeaderLength:]

	// If compressed length is 0, then the data is not compressed.
	if h.compressedLength == 0 {
		if len(data) != int(h.decompressedLength) {
			return nil, LengthError{Field: "stored", Got: len(data), Want: int(h.decompressedLength)}
		}
		return append([]byte(nil), data...), nil
	}
	if len(data) != int(h.compressedLength) {
		return nil, LengthError{Field: "compressed", Got: len(data), Want: int(h.compressedLength)}
	}

	// Prepare compressed data for reading by lz4, which requires the
	// decompressed length before the compressed data.
	block := make([]byte, len(data)+4)
	binary.LittleEndian.PutUint32(block, h.decompressedLength)
	copy(block[4:], data)

	out, err := lz4.Decode(make([]byte, h.decompressedLength), block)
	if err != nil {
		return nil, fmt.Errorf("lz4x: %w", err)
	}
	if len(out) != int(h.decompressedLength) {
		return nil, LengthError{Field: "decompressed", Got: len(out), Want: int(h.decompressedLength)}
	}
	return out, nil
}
