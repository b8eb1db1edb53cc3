package declare

import (
	"github.com/data3d-io/data3d/numjson"
)

// Value returns the structure value of the given declaration values, as
// stored in a node, mesh, or material. It is used by Attr and Meta.
//
// The values are interpreted as follows:
//
//	No values:
//	    null. A null value leaves the key unset.
//
//	A single string or []byte:
//	    A string.
//
//	A single bool:
//	    A bool.
//
//	A single number:
//	    A float64. Any number type except for complex numbers may be given.
//
//	A single slice of numbers:
//	    A []float64, copied from the slice.
//
//	A single *numjson.Object, []any or []string:
//	    The value itself.
//
//	2 or more numbers:
//	    A []float64, such as a color or a vector.
//
// Other values produce null.
func Value(value ...any) any {
	return attrValue(value)
}

func attrValue(v []any) any {
	switch len(v) {
	case 0:
		return nil
	case 1:
		switch x := v[0].(type) {
		case string:
			return x
		case []byte:
			return string(x)
		case bool:
			return x
		case *numjson.Object:
			return x
		case []any:
			return x
		case []string:
			return x
		}
		if isNumber(v[0]) {
			return normFloat64(v[0])
		}
		if f, ok := numjson.Floats64(v[0]); ok {
			return append([]float64(nil), f...)
		}
		return nil
	}
	f := make([]float64, len(v))
	for i, x := range v {
		f[i] = normFloat64(x)
	}
	return f
}

// text returns the value of a string declaration.
func text(v []any) string {
	if len(v) == 0 {
		return ""
	}
	switch x := v[0].(type) {
	case string:
		return x
	case []byte:
		return string(x)
	}
	return ""
}

// floats32 returns the value of a mesh array declaration: either a single
// slice of numbers, or a series of numbers.
func floats32(v []any) []float32 {
	if len(v) == 1 && !isNumber(v[0]) {
		f, _ := numjson.Floats32(v[0])
		return append([]float32{}, f...)
	}
	f := make([]float32, len(v))
	for i, x := range v {
		f[i] = normFloat32(x)
	}
	return f
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, uint, uint8, uint16, uint32, uint64,
		int8, int16, int32, int64, float32, float64:
		return true
	}
	return false
}

func normFloat32(v any) float32 {
	return float32(normFloat64(v))
}

func normFloat64(v any) float64 {
	switch v := v.(type) {
	case int:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case float32:
		return float64(v)
	case float64:
		return v
	}

	return 0
}

// setValue sets key of *obj to v, allocating the object when needed. A null v
// leaves the object untouched.
func setValue(obj **numjson.Object, key string, v any) {
	if v == nil {
		return
	}
	if *obj == nil {
		*obj = numjson.NewObject()
	}
	(*obj).Set(key, v)
}
