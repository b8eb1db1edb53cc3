// Package d3djson implements a decoder and encoder for the data3d JSON
// format, where mesh arrays are stored inline in the node tree.
package d3djson

import (
	"bytes"
	"io"

	"github.com/data3d-io/data3d"
	"github.com/data3d-io/data3d/errors"
	"github.com/data3d-io/data3d/internal/fsutil"
	"github.com/data3d-io/data3d/material"
	"github.com/data3d-io/data3d/numjson"
)

// Indicates a document whose top-level value is not an object.
var ErrDocumentType = errors.New("document is not an object")

var bom = []byte{0xEF, 0xBB, 0xBF}

// Decoder decodes a JSON file into a data3d.Document.
type Decoder struct {
	// Options is passed to data3d.Unmarshal. The Payload field is ignored.
	Options data3d.Options
}

// Decode reads the entire content of r and decodes it.
func (d Decoder) Decode(r io.Reader) (doc *data3d.Document, warn, err error) {
	if r == nil {
		return nil, nil, errors.New("nil reader")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	return d.Unmarshal(b)
}

// DecodeFile decodes the file at path.
func (d Decoder) DecodeFile(path string) (doc *data3d.Document, warn, err error) {
	b, err := fsutil.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return d.Unmarshal(b)
}

// Unmarshal decodes JSON text. A leading UTF-8 byte order mark is skipped.
func (d Decoder) Unmarshal(b []byte) (doc *data3d.Document, warn, err error) {
	tree, err := numjson.Unmarshal(bytes.TrimPrefix(b, bom))
	if err != nil {
		return nil, nil, err
	}
	obj, ok := tree.(*numjson.Object)
	if !ok {
		return nil, nil, ErrDocumentType
	}
	opts := d.Options
	opts.Payload = nil
	doc, warn, err = data3d.Unmarshal(obj, opts)
	if err != nil {
		return nil, warn, err
	}
	warn = errors.Union(warn, material.ValidateDocument(doc))
	return doc, warn, nil
}

// Encoder encodes a data3d.Document as JSON.
type Encoder struct {
	// Options is passed to data3d.Marshal. The Payload field is ignored.
	Options data3d.Options

	// Indent is the number of spaces per nesting level. Zero uses
	// numjson.DefaultIndent.
	Indent int
}

// Marshal returns the encoded document, terminated by a newline.
func (e Encoder) Marshal(doc *data3d.Document) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("nil document")
	}
	opts := e.Options
	opts.Payload = nil
	tree, err := data3d.Marshal(doc, opts)
	if err != nil {
		return nil, err
	}
	indent := e.Indent
	if indent == 0 {
		indent = numjson.DefaultIndent
	}
	b, err := numjson.MarshalIndent(tree, indent)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// Encode encodes doc and writes it to w with a single call to Write. Nothing
// is written if encoding fails.
func (e Encoder) Encode(w io.Writer, doc *data3d.Document) error {
	if w == nil {
		return errors.New("nil writer")
	}
	b, err := e.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// EncodeFile encodes doc to the file at path. The file is replaced only if
// encoding succeeds.
func (e Encoder) EncodeFile(path string, doc *data3d.Document) error {
	b, err := e.Marshal(doc)
	if err != nil {
		return err
	}
	return fsutil.WriteFile(path, b, 0o644)
}
