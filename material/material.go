// Package material implements the identity of data3d materials, along with
// the semantics the host applies to their attributes.
//
// Two materials are identical when every attribute in CompareKeys has the
// same value in both, or is absent from both. Other attributes, such as the
// emission coefficient and the baking flags, do not take part.
package material

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sort"
	"strconv"

	"github.com/data3d-io/data3d"
	"github.com/data3d-io/data3d/numjson"
	"golang.org/x/crypto/blake2b"
)

// CompareKeys is the ordered list of attributes that make up the identity of
// a material.
var CompareKeys = compareKeys()

func compareKeys() []string {
	keys := []string{
		data3d.KeyColorDiffuse,
		data3d.KeyColorSpecular,
		data3d.KeySpecularCoef,
		data3d.KeyOpacity,
	}
	for _, slot := range data3d.MapKeys {
		for _, suffix := range data3d.MapSuffixes {
			keys = append(keys, slot+suffix)
		}
	}
	return append(keys,
		data3d.KeyCastRealTimeShadows,
		data3d.KeyReceiveRealTimeShadows,
	)
}

// HashKey is the digest of the identity of a material.
type HashKey [blake2b.Size256]byte

// String returns the key in hexadecimal.
func (k HashKey) String() string {
	return hex.EncodeToString(k[:])
}

// Short returns the first 8 hexadecimal digits of the key.
func (k HashKey) Short() string {
	return hex.EncodeToString(k[:4])
}

// Key returns the digest of the identity of m.
func Key(m data3d.Material) HashKey {
	return blake2b.Sum256(canonical(m))
}

// Equal returns whether a and b are identical. Unlike comparing keys, Equal
// cannot be fooled by a collision.
func Equal(a, b data3d.Material) bool {
	return bytes.Equal(canonical(a), canonical(b))
}

// Value tags of the canonical encoding.
const (
	tagNull   = 'z'
	tagBool   = 'b'
	tagNumber = 'n'
	tagString = 's'
	tagList   = 'l'
	tagObject = 'o'
)

// canonical encodes the present compared attributes of m. Numbers are
// encoded as float64 regardless of how they were written, so 1 and 1.0 are
// the same value.
func canonical(m data3d.Material) []byte {
	var b []byte
	for _, key := range CompareKeys {
		v, ok := m.Get(key)
		if !ok {
			continue
		}
		b = appendString(b, key)
		b = appendValue(b, v)
	}
	return b
}

func appendString(b []byte, s string) []byte {
	b = binary.LittleEndian.AppendUint32(b, uint32(len(s)))
	return append(b, s...)
}

func appendNumber(b []byte, f float64) []byte {
	if f == 0 {
		// Negative zero equals zero.
		f = 0
	}
	b = append(b, tagNumber)
	return binary.LittleEndian.AppendUint64(b, math.Float64bits(f))
}

func appendValue(b []byte, v any) []byte {
	if f, ok := numjson.Float(v); ok {
		return appendNumber(b, f)
	}
	switch v := v.(type) {
	case nil:
		return append(b, tagNull)
	case bool:
		if v {
			return append(b, tagBool, 1)
		}
		return append(b, tagBool, 0)
	case string:
		b = append(b, tagString)
		return appendString(b, v)
	case *numjson.Object:
		// Objects do not appear in well-formed materials; compare them by
		// sorted content.
		b = append(b, tagObject)
		keys := v.Keys()
		sort.Strings(keys)
		b = binary.LittleEndian.AppendUint32(b, uint32(len(keys)))
		for _, k := range keys {
			e, _ := v.Get(k)
			b = appendString(b, k)
			b = appendValue(b, e)
		}
		return b
	case []any:
		b = append(b, tagList)
		b = binary.LittleEndian.AppendUint32(b, uint32(len(v)))
		for _, e := range v {
			b = appendValue(b, e)
		}
		return b
	case []string:
		b = append(b, tagList)
		b = binary.LittleEndian.AppendUint32(b, uint32(len(v)))
		for _, e := range v {
			b = append(b, tagString)
			b = appendString(b, e)
		}
		return b
	case []bool:
		b = append(b, tagList)
		b = binary.LittleEndian.AppendUint32(b, uint32(len(v)))
		for _, e := range v {
			b = appendValue(b, e)
		}
		return b
	}
	if a, ok := numjson.Floats64(v); ok {
		b = append(b, tagList)
		b = binary.LittleEndian.AppendUint32(b, uint32(len(a)))
		for _, f := range a {
			b = appendNumber(b, f)
		}
		return b
	}
	// Unknown types cannot be produced by the decoders. Encode them through
	// their JSON text so that they at least compare by content.
	text, _ := numjson.Marshal(v)
	b = append(b, tagObject)
	return appendString(b, string(text))
}

////////////////////////////////////////////////////////////////

// Table deduplicates materials within a single export. A Table must not be
// shared between concurrent exports.
type Table struct {
	buckets map[HashKey][]int
	names   map[string]int
	mats    []data3d.Material
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		buckets: map[HashKey][]int{},
		names:   map[string]int{},
	}
}

// Add adds m to the table. If an identical material was already added, its
// name is returned and dup is true. Otherwise m is added, and the name it was
// added under is returned. This is the name of m, unless another material
// already has that name, in which case the short key of m is appended.
func (t *Table) Add(m data3d.Material) (name string, dup bool) {
	key := Key(m)
	for _, i := range t.buckets[key] {
		if Equal(t.mats[i], m) {
			return t.mats[i].Name, true
		}
	}

	m = m.Copy()
	if _, ok := t.names[m.Name]; ok {
		base := m.Name + "-" + key.Short()
		m.Name = base
		for n := 2; ; n++ {
			if _, ok := t.names[m.Name]; !ok {
				break
			}
			m.Name = base + "-" + strconv.Itoa(n)
		}
	}
	i := len(t.mats)
	t.mats = append(t.mats, m)
	t.names[m.Name] = i
	t.buckets[key] = append(t.buckets[key], i)
	return m.Name, false
}

// Get returns the material added under name.
func (t *Table) Get(name string) (data3d.Material, bool) {
	i, ok := t.names[name]
	if !ok {
		return data3d.Material{}, false
	}
	return t.mats[i].Copy(), true
}

// Len returns the number of unique materials.
func (t *Table) Len() int {
	return len(t.mats)
}

// Materials returns copies of the unique materials in the order they were
// added.
func (t *Table) Materials() []data3d.Material {
	mats := make([]data3d.Material, len(t.mats))
	for i, m := range t.mats {
		mats[i] = m.Copy()
	}
	return mats
}
