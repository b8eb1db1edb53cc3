package data3d

import (
	"fmt"
)

// MissingKeyError indicates that a required key is absent, or does not hold
// a value of the required type.
type MissingKeyError struct {
	Path string
	Key  string
}

func (err *MissingKeyError) Error() string {
	if err.Path == "" {
		return fmt.Sprintf("missing key %q", err.Key)
	}
	return fmt.Sprintf("%s: missing key %q", err.Path, err.Key)
}

// ReferenceError indicates a reference to a mesh or material name that does
// not exist. It is a warning when decoding, and fatal when encoding.
type ReferenceError struct {
	Path string
	// Kind is "mesh" or "material".
	Kind string
	Name string
	// Mesh is the mesh holding the reference, if any.
	Mesh string
}

func (err *ReferenceError) Error() string {
	if err.Mesh != "" {
		return fmt.Sprintf("%s: mesh %q refers to missing %s %q", err.Path, err.Mesh, err.Kind, err.Name)
	}
	return fmt.Sprintf("%s: key list refers to missing %s %q", err.Path, err.Kind, err.Name)
}

// PayloadRangeError indicates that a mesh array points outside of the
// payload.
type PayloadRangeError struct {
	Path   string
	Key    string
	Offset int64
	Length int64
	Size   int
}

func (err *PayloadRangeError) Error() string {
	return fmt.Sprintf("%s: %s range [%d:+%d] is outside of payload of %d elements",
		err.Path, err.Key, err.Offset, err.Length, err.Size)
}

// MeshError indicates a mesh with inconsistent arrays.
type MeshError struct {
	Path  string
	Mesh  string
	Cause error
}

func (err *MeshError) Error() string {
	return fmt.Sprintf("%s: mesh %q: %s", err.Path, err.Mesh, err.Cause)
}

func (err *MeshError) Unwrap() error {
	return err.Cause
}

// ValueError indicates an optional value of the wrong type, which was
// replaced by a default.
type ValueError struct {
	Path string
	Key  string
	Want string
}

func (err *ValueError) Error() string {
	return fmt.Sprintf("%s: %s is not %s", err.Path, err.Key, err.Want)
}

// DuplicateIDError indicates a node ID that is used more than once.
type DuplicateIDError struct {
	Path string
	ID   string
}

func (err *DuplicateIDError) Error() string {
	return fmt.Sprintf("%s: duplicate node ID %q", err.Path, err.ID)
}

// VersionError indicates a document version that is not supported.
type VersionError struct {
	Version string
	Cause   error
}

func (err *VersionError) Error() string {
	if err.Cause != nil {
		return fmt.Sprintf("unsupported version %q: %s", err.Version, err.Cause)
	}
	return fmt.Sprintf("unsupported version %q", err.Version)
}

func (err *VersionError) Unwrap() error {
	return err.Cause
}

// FileNotFoundError indicates that a file to be decoded does not exist. It
// matches fs.ErrNotExist.
type FileNotFoundError struct {
	Path  string
	Cause error
}

func (err *FileNotFoundError) Error() string {
	return "file not found: " + err.Path
}

func (err *FileNotFoundError) Unwrap() error {
	return err.Cause
}
