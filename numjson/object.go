// Package numjson reads and writes the JSON dialect used by data3d files.
//
// Objects keep their key order. Arrays are written on a single line with no
// spaces, which keeps large numeric arrays compact, and floats are written
// with at most five significant digits and never in exponent notation.
package numjson

// Object is a JSON object that remembers the order in which keys were set.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty Object. Pairs are set in the order given, and
// must alternate between a string key and a value.
func NewObject(pairs ...any) *Object {
	obj := &Object{values: make(map[string]any, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		obj.Set(pairs[i].(string), pairs[i+1])
	}
	return obj
}

// Len returns the number of keys in the object.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns a copy of the keys of the object, in order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Get returns the value of key.
func (o *Object) Get(key string) (value any, ok bool) {
	if o == nil {
		return nil, false
	}
	value, ok = o.values[key]
	return value, ok
}

// Has returns whether key is set.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set sets key to value. A key that is already set keeps its position.
func (o *Object) Set(key string, value any) {
	if o.values == nil {
		o.values = map[string]any{}
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Delete removes key from the object.
func (o *Object) Delete(key string) {
	if o == nil {
		return
	}
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Range calls fn for each pair in order, stopping when fn returns false.
func (o *Object) Range(fn func(key string, value any) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !fn(k, o.values[k]) {
			return
		}
	}
}

// Clone returns a deep copy of the object.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	c := &Object{
		keys:   make([]string, len(o.keys)),
		values: make(map[string]any, len(o.values)),
	}
	copy(c.keys, o.keys)
	for k, v := range o.values {
		c.values[k] = Clone(v)
	}
	return c
}

// DropNulls removes null members from the objects in v and null elements from
// its arrays, recursively. Objects are modified in place. It returns the
// result, which is nil when v itself is null.
func DropNulls(v any) any {
	switch v := v.(type) {
	case *Object:
		if v == nil {
			return v
		}
		for _, k := range v.Keys() {
			if e := v.values[k]; e == nil {
				v.Delete(k)
			} else {
				v.values[k] = DropNulls(e)
			}
		}
		return v
	case []any:
		out := v[:0]
		for _, e := range v {
			if e != nil {
				out = append(out, DropNulls(e))
			}
		}
		return out
	}
	return v
}

// Clone returns a deep copy of a JSON value. Scalars are returned as is.
func Clone(v any) any {
	switch v := v.(type) {
	case *Object:
		return v.Clone()
	case []any:
		c := make([]any, len(v))
		for i, e := range v {
			c[i] = Clone(e)
		}
		return c
	case []float32:
		return append([]float32(nil), v...)
	case []float64:
		return append([]float64(nil), v...)
	case []int:
		return append([]int(nil), v...)
	case []int32:
		return append([]int32(nil), v...)
	case []int64:
		return append([]int64(nil), v...)
	case []string:
		return append([]string(nil), v...)
	case []bool:
		return append([]bool(nil), v...)
	}
	return v
}
