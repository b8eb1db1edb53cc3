package d3dbuffer

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/data3d-io/data3d"
	"github.com/data3d-io/data3d/errors"
	"github.com/data3d-io/data3d/internal/fsutil"
	"github.com/data3d-io/data3d/numjson"
)

// Encoder encodes a data3d.Document into the buffer format.
type Encoder struct {
	// Options is passed to data3d.Marshal. The Payload and InheritMaterials
	// fields are set by the encoder.
	Options data3d.Options

	// Indent is the number of spaces per nesting level of the structure
	// text. Zero uses numjson.DefaultIndent.
	Indent int
}

// Marshal returns the encoded file. The document is not modified.
func (e Encoder) Marshal(doc *data3d.Document) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("nil document")
	}

	var payload data3d.Payload
	opts := e.Options
	opts.Payload = &payload
	opts.InheritMaterials = true
	tree, err := data3d.Marshal(doc, opts)
	if err != nil {
		return nil, err
	}
	indent := e.Indent
	if indent == 0 {
		indent = numjson.DefaultIndent
	}
	text, err := numjson.MarshalIndent(tree, indent)
	if err != nil {
		return nil, err
	}
	structure, err := encodeStructure(text)
	if err != nil {
		return nil, err
	}
	if len(structure) > math.MaxInt32 || payload.Len() > math.MaxInt32/4 {
		return nil, fmt.Errorf("document too large (structure %d bytes, payload %d elements)", len(structure), payload.Len())
	}

	var buf bytes.Buffer
	buf.Grow(HeaderLength + len(structure) + payload.Len()*4)
	NewHeader(Version, len(structure), payload.Len()*4).WriteTo(&buf)
	buf.Write(structure)
	buf.Write(encodePayload(payload.Floats()))

	opts.Log().Debug("encoded buffer",
		"structure", len(structure),
		"payload", payload.Len(),
	)
	return buf.Bytes(), nil
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
