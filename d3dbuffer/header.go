package d3dbuffer

import (
	"bytes"
	"io"

	"github.com/anaminus/parse"
	"github.com/data3d-io/data3d/errors"
)

const (
	// HeaderLength is the length of the file header in bytes.
	HeaderLength = 16

	// Magic is the magic number of the file, stored little-endian like the
	// other header fields, so that a file begins with the bytes "D3DA".
	Magic uint32 = 0x41443344

	// Version is the format version written by the encoder.
	Version = 1
)

// Header is the fixed header at the start of a buffer file.
type Header struct {
	Magic           uint32
	Version         int32
	StructureLength int32
	PayloadLength   int32
}

// NewHeader returns a header with the current magic number.
func NewHeader(version, structureLength, payloadLength int) Header {
	return Header{
		Magic:           Magic,
		Version:         int32(version),
		StructureLength: int32(structureLength),
		PayloadLength:   int32(payloadLength),
	}
}

// FileLength returns the length of the file described by the header.
func (h Header) FileLength() int64 {
	return HeaderLength + int64(h.StructureLength) + int64(h.PayloadLength)
}

// ReadFrom decodes the header from r.
func (h *Header) ReadFrom(r io.Reader) (n int64, err error) {
	fr := parse.NewBinaryReader(r)
	if fr.Number(&h.Magic) {
		return fr.End()
	}
	if fr.Number(&h.Version) {
		return fr.End()
	}
	if fr.Number(&h.StructureLength) {
		return fr.End()
	}
	if fr.Number(&h.PayloadLength) {
		return fr.End()
	}
	return fr.End()
}

// WriteTo encodes the header to w.
func (h Header) WriteTo(w io.Writer) (n int64, err error) {
	fw := parse.NewBinaryWriter(w)
	if fw.Number(h.Magic) {
		return fw.End()
	}
	if fw.Number(h.Version) {
		return fw.End()
	}
	if fw.Number(h.StructureLength) {
		return fw.End()
	}
	if fw.Number(h.PayloadLength) {
		return fw.End()
	}
	return fw.End()
}

// EncodeHeader returns the encoded header of a file with the given version
// and section lengths.
func EncodeHeader(version, structureLength, payloadLength int) [HeaderLength]byte {
	var buf bytes.Buffer
	buf.Grow(HeaderLength)
	NewHeader(version, structureLength, payloadLength).WriteTo(&buf)
	var b [HeaderLength]byte
	copy(b[:], buf.Bytes())
	return b
}

// DecodeHeader decodes a header from the start of b. It fails only when b is
// too short; use Check to validate the content.
func DecodeHeader(b []byte) (h Header, err error) {
	if len(b) < HeaderLength {
		return h, DataError{Offset: int64(len(b)), Cause: ErrShortHeader}
	}
	if _, err := h.ReadFrom(bytes.NewReader(b[:HeaderLength])); err != nil {
		return h, DataError{Offset: 0, Cause: err}
	}
	return h, nil
}

// Check validates the header against the total length of the file. An
// unexpected magic number or version is returned as a warning. Lengths that
// do not add up to total are returned as a LengthMismatchError.
func (h Header) Check(total int64) (warn, err error) {
	var warns errors.Errors
	if h.Magic != Magic {
		warns = append(warns, HeaderError{Field: "magic number", Got: int64(h.Magic), Want: int64(Magic)})
	}
	if h.Version != Version {
		warns = append(warns, HeaderError{Field: "version", Got: int64(h.Version), Want: Version})
	}
	if h.StructureLength < 0 || h.PayloadLength < 0 || h.FileLength() != total || h.PayloadLength%4 != 0 {
		return warns.Return(), LengthMismatchError{Header: h, Actual: total}
	}
	return warns.Return(), nil
}
