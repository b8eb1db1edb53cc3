package d3dbuffer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/data3d-io/data3d"
	"github.com/data3d-io/data3d/errors"
	"github.com/data3d-io/data3d/internal/fsutil"
	"github.com/data3d-io/data3d/material"
	"github.com/data3d-io/data3d/numjson"
)

// Indicates a structure section with an odd number of bytes. The last byte is
// ignored.
var ErrOddStructure = errors.New("structure length is not a whole number of UTF-16 code units")

// Decoder decodes a buffer file into a data3d.Document.
type Decoder struct {
	// Options is passed to data3d.Unmarshal. The Payload and
	// InheritMaterials fields are set by the decoder.
	Options data3d.Options
}

// Decode reads the entire content of r and decodes it.
//
// Warnings, such as an unexpected magic number, are returned as warn, and do
// not stop decoding. When err is not nil, no document is returned.
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

// Unmarshal decodes the content of a buffer file.
func (d Decoder) Unmarshal(b []byte) (doc *data3d.Document, warn, err error) {
	f, warn, err := decode(b)
	if err != nil {
		return nil, warn, err
	}

	tree, err := numjson.Unmarshal(f.Structure)
	if err != nil {
		return nil, warn, StructureError{Cause: err}
	}
	obj, ok := tree.(*numjson.Object)
	if !ok {
		return nil, warn, StructureError{Cause: ErrStructureType}
	}

	opts := d.Options
	opts.Payload = data3d.NewPayload(f.Payload)
	opts.InheritMaterials = true
	doc, w, err := data3d.Unmarshal(obj, opts)
	warn = errors.Union(warn, w)
	if err != nil {
		return nil, warn, err
	}
	warn = errors.Union(warn, material.ValidateDocument(doc))
	return doc, warn, nil
}

// decode splits a file into its sections.
func decode(b []byte) (f *format, warn, err error) {
	f = &format{}
	if f.Header, err = DecodeHeader(b); err != nil {
		return nil, nil, err
	}
	if warn, err = f.Header.Check(int64(len(b))); err != nil {
		return nil, warn, err
	}

	end := HeaderLength + int(f.Header.StructureLength)
	s := b[HeaderLength:end]
	if len(s)%2 != 0 {
		warn = errors.Union(warn, DataError{Offset: int64(end - 1), Cause: ErrOddStructure})
		s = s[:len(s)-1]
	}
	if f.Structure, err = decodeStructure(s); err != nil {
		return nil, warn, DataError{Offset: HeaderLength, Cause: err}
	}
	f.Payload = decodePayload(b[end:])
	return f, warn, nil
}

////////////////////////////////////////////////////////////////

// Dump writes to w a readable representation of the buffer file decoded from
// r: the header, the structure text, and the payload ranges of each mesh.
func (d Decoder) Dump(w io.Writer, r io.Reader) (warn, err error) {
	if r == nil {
		return nil, errors.New("nil reader")
	}
	if w == nil {
		return nil, errors.New("nil writer")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	bw := bufio.NewWriter(w)
	defer bw.Flush()

	h, err := DecodeHeader(b)
	if err != nil {
		return nil, err
	}
	dumpHeader(bw, h, int64(len(b)))

	f, warn, err := decode(b)
	if err != nil {
		fmt.Fprintf(bw, "\nError: %s\n", err)
		return warn, err
	}

	fmt.Fprintf(bw, "\nStructure: (len:%d) {", len(f.Structure))
	for _, line := range strings.Split(strings.TrimRight(string(f.Structure), " "), "\n") {
		dumpNewline(bw, 1)
		bw.WriteString(line)
	}
	dumpNewline(bw, 0)
	bw.WriteByte('}')

	tree, err := numjson.Unmarshal(f.Structure)
	if err != nil {
		fmt.Fprintf(bw, "\nError: %s\n", err)
		return warn, StructureError{Cause: err}
	}
	obj, _ := tree.(*numjson.Object)
	root, ok := obj.Get(data3d.KeyData3d)
	if !ok {
		bw.WriteByte('\n')
		return warn, nil
	}
	fmt.Fprintf(bw, "\nPayload: (count:%d) {", len(f.Payload))
	if root, ok := root.(*numjson.Object); ok {
		dumpNode(bw, root, data3d.KeyData3d, len(f.Payload))
	}
	dumpNewline(bw, 0)
	bw.WriteString("}\n")
	return warn, nil
}

func dumpHeader(w *bufio.Writer, h Header, total int64) {
	var sig [4]byte
	for i := range sig {
		sig[i] = byte(h.Magic >> (8 * i))
	}
	w.WriteString("Magic: ")
	for _, c := range sig {
		if unicode.IsPrint(rune(c)) {
			w.WriteByte(c)
		} else {
			w.WriteByte('.')
		}
	}
	fmt.Fprintf(w, " (% X)", sig)
	if h.Magic != Magic {
		w.WriteString(" (unexpected)")
	}
	fmt.Fprintf(w, "\nVersion: %d", h.Version)
	fmt.Fprintf(w, "\nStructureLength: %d", h.StructureLength)
	fmt.Fprintf(w, "\nPayloadLength: %d", h.PayloadLength)
	fmt.Fprintf(w, "\nFileLength: %d", total)
	if h.FileLength() != total {
		fmt.Fprintf(w, " (header describes %d)", h.FileLength())
	}
}

func dumpNode(w *bufio.Writer, node *numjson.Object, path string, size int) {
	if v, ok := node.Get(data3d.KeyMeshes); ok {
		meshes, _ := v.(*numjson.Object)
		meshes.Range(func(name string, v any) bool {
			mesh, ok := v.(*numjson.Object)
			if !ok {
				return true
			}
			dumpNewline(w, 1)
			fmt.Fprintf(w, "%s/%s/%s {", path, data3d.KeyMeshes, name)
			for _, key := range data3d.MeshArrayKeys {
				ov, hasOff := mesh.Get(data3d.OffsetKey(key))
				lv, hasLen := mesh.Get(data3d.LengthKey(key))
				if !hasOff && !hasLen {
					continue
				}
				off, _ := numjson.Int(ov)
				n, _ := numjson.Int(lv)
				dumpNewline(w, 2)
				fmt.Fprintf(w, "%s: [%d:+%d]", key, off, n)
				if off < 0 || n < 0 || off+n > int64(size) {
					w.WriteString(" (out of range)")
				}
			}
			dumpNewline(w, 1)
			w.WriteByte('}')
			return true
		})
	}
	if v, ok := node.Get(data3d.KeyChildren); ok {
		children, _ := v.([]any)
		for i, c := range children {
			if c, ok := c.(*numjson.Object); ok {
				dumpNode(w, c, fmt.Sprintf("%s/%s/%d", path, data3d.KeyChildren, i), size)
			}
		}
	}
}

func dumpNewline(w *bufio.Writer, indent int) {
	w.WriteByte('\n')
	for i := 0; i < indent; i++ {
		w.WriteByte('\t')
	}
}
