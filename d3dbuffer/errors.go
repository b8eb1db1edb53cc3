package d3dbuffer

import (
	"errors"
	"fmt"
)

var (
	// Indicates a file too short to hold a header.
	ErrShortHeader = errors.New("file is shorter than the header")
	// Indicates a structure section that is not a JSON object.
	ErrStructureType = errors.New("structure is not an object")
)

// HeaderError indicates an unexpected magic number or version. It is returned
// as a warning; the file is still decoded.
type HeaderError struct {
	Field string
	Got   int64
	Want  int64
}

func (err HeaderError) Error() string {
	if err.Field == "version" {
		return fmt.Sprintf("header: unexpected version %d (expected %d)", err.Got, err.Want)
	}
	return fmt.Sprintf("header: unexpected %s 0x%08X (expected 0x%08X)", err.Field, err.Got, err.Want)
}

// LengthMismatchError indicates that the lengths in the header do not
// describe the file. Decoding stops.
type LengthMismatchError struct {
	Header Header
	Actual int64
}

func (err LengthMismatchError) Error() string {
	h := err.Header
	if h.StructureLength < 0 || h.PayloadLength < 0 {
		return fmt.Sprintf("negative section length (structure %d, payload %d)", h.StructureLength, h.PayloadLength)
	}
	if want := h.FileLength(); want != err.Actual {
		return fmt.Sprintf("file length %d does not match header (%d + %d + %d = %d)",
			err.Actual, HeaderLength, h.StructureLength, h.PayloadLength, want)
	}
	return fmt.Sprintf("payload length %d is not a whole number of float32 values", h.PayloadLength)
}

// DataError wraps an error that occurred at a byte offset of the file.
type DataError struct {
	Offset int64
	Cause  error
}

func (err DataError) Error() string {
	return fmt.Sprintf("data error at offset %d: %s", err.Offset, err.Cause)
}

func (err DataError) Unwrap() error {
	return err.Cause
}

// StructureError wraps an error that occurred while parsing the structure
// section.
type StructureError struct {
	Cause error
}

func (err StructureError) Error() string {
	return "decoding structure: " + err.Cause.Error()
}

func (err StructureError) Unwrap() error {
	return err.Cause
}
