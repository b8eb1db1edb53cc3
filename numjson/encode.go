package numjson

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"reflect"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

// DefaultIndent is the number of spaces per nesting level used by Marshal.
const DefaultIndent = 4

// Marshal returns the JSON encoding of v, indented by DefaultIndent.
func Marshal(v any) ([]byte, error) {
	return MarshalIndent(v, DefaultIndent)
}

// MarshalIndent returns the JSON encoding of v. Nothing is returned unless
// the entire value could be encoded.
func MarshalIndent(v any, indent int) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, v, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write streams the JSON encoding of v to w. On error, a part of the encoding
// may already have been written.
func Write(w io.Writer, v any, indent int) error {
	e := &encoder{Writer: bufio.NewWriter(w), indent: indent}
	e.value(v, 0)
	e.flush()
	return e.err
}

type encoder struct {
	*bufio.Writer
	indent  int
	scratch []byte
	err     error
}

func (e *encoder) write(p []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.Write(p)
}

func (e *encoder) writeByte(b byte) {
	if e.err != nil {
		return
	}
	e.err = e.WriteByte(b)
}

func (e *encoder) writeString(s string) {
	if e.err != nil {
		return
	}
	_, e.err = e.WriteString(s)
}

func (e *encoder) flush() {
	if e.err != nil {
		return
	}
	e.err = e.Flush()
}

func (e *encoder) newline(depth int) {
	e.writeByte('\n')
	for i := depth * e.indent; i > 0; i-- {
		e.writeByte(' ')
	}
}

func (e *encoder) value(v any, depth int) {
	if e.err != nil {
		return
	}
	switch v := v.(type) {
	case *Object:
		e.object(v, depth)
	case []any:
		e.writeByte('[')
		for i, v := range v {
			if i > 0 {
				e.writeByte(',')
			}
			e.value(v, depth)
		}
		e.writeByte(']')
	case []float32:
		e.writeByte('[')
		for i, f := range v {
			if i > 0 {
				e.writeByte(',')
			}
			e.float(float64(f))
		}
		e.writeByte(']')
	case []float64:
		e.writeByte('[')
		for i, f := range v {
			if i > 0 {
				e.writeByte(',')
			}
			e.float(f)
		}
		e.writeByte(']')
	case []int:
		e.writeByte('[')
		for i, n := range v {
			if i > 0 {
				e.writeByte(',')
			}
			e.int(int64(n))
		}
		e.writeByte(']')
	case []int32:
		e.writeByte('[')
		for i, n := range v {
			if i > 0 {
				e.writeByte(',')
			}
			e.int(int64(n))
		}
		e.writeByte(']')
	case []int64:
		e.writeByte('[')
		for i, n := range v {
			if i > 0 {
				e.writeByte(',')
			}
			e.int(n)
		}
		e.writeByte(']')
	case []string:
		e.writeByte('[')
		for i, s := range v {
			if i > 0 {
				e.writeByte(',')
			}
			e.string(s)
		}
		e.writeByte(']')
	case []bool:
		e.writeByte('[')
		for i, b := range v {
			if i > 0 {
				e.writeByte(',')
			}
			e.bool(b)
		}
		e.writeByte(']')
	case string:
		e.string(v)
	case bool:
		e.bool(v)
	case int:
		e.int(int64(v))
	case int8:
		e.int(int64(v))
	case int16:
		e.int(int64(v))
	case int32:
		e.int(int64(v))
	case int64:
		e.int(v)
	case uint:
		e.uint(uint64(v))
	case uint8:
		e.uint(uint64(v))
	case uint16:
		e.uint(uint64(v))
	case uint32:
		e.uint(uint64(v))
	case uint64:
		e.uint(v)
	case float32:
		e.float(float64(v))
	case float64:
		e.float(v)
	default:
		e.err = &UnsupportedTypeError{Type: reflect.TypeOf(v)}
	}
}

func (e *encoder) object(obj *Object, depth int) {
	if obj.Len() == 0 {
		e.writeString("{}")
		return
	}
	e.writeByte('{')
	for i, key := range obj.keys {
		if i > 0 {
			e.writeByte(',')
		}
		e.newline(depth + 1)
		e.string(key)
		e.writeString(": ")
		e.value(obj.values[key], depth+1)
	}
	e.newline(depth)
	e.writeByte('}')
}

func (e *encoder) bool(b bool) {
	if b {
		e.writeString("true")
	} else {
		e.writeString("false")
	}
}

func (e *encoder) int(n int64) {
	e.scratch = strconv.AppendInt(e.scratch[:0], n, 10)
	e.write(e.scratch)
}

func (e *encoder) uint(n uint64) {
	e.scratch = strconv.AppendUint(e.scratch[:0], n, 10)
	e.write(e.scratch)
}

func (e *encoder) float(f float64) {
	if e.err != nil {
		return
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		e.err = &UnsupportedValueError{Value: f}
		return
	}
	e.scratch = AppendFloat(e.scratch[:0], f)
	e.write(e.scratch)
}

// AppendFloat appends the data3d text form of f to b: up to five significant
// digits, or five fixed decimals where that would need an exponent.
func AppendFloat(b []byte, f float64) []byte {
	n := len(b)
	b = strconv.AppendFloat(b, f, 'g', 5, 64)
	if bytes.IndexByte(b[n:], 'e') >= 0 {
		b = strconv.AppendFloat(b[:n], f, 'f', 5, 64)
	}
	return b
}

const hex = "0123456789abcdef"

func (e *encoder) string(s string) {
	e.writeByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch c {
			case '"':
				e.writeString(`\"`)
			case '\\':
				e.writeString(`\\`)
			case '\b':
				e.writeString(`\b`)
			case '\f':
				e.writeString(`\f`)
			case '\n':
				e.writeString(`\n`)
			case '\r':
				e.writeString(`\r`)
			case '\t':
				e.writeString(`\t`)
			default:
				if c < 0x20 {
					e.escapeUnit(uint16(c))
				} else {
					e.writeByte(c)
				}
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r >= 0x10000 {
			r1, r2 := utf16.EncodeRune(r)
			e.escapeUnit(uint16(r1))
			e.escapeUnit(uint16(r2))
		} else {
			e.escapeUnit(uint16(r))
		}
		i += size
	}
	e.writeByte('"')
}

func (e *encoder) escapeUnit(u uint16) {
	e.scratch = append(e.scratch[:0], '\\', 'u',
		hex[u>>12&0xf],
		hex[u>>8&0xf],
		hex[u>>4&0xf],
		hex[u&0xf],
	)
	e.write(e.scratch)
}
