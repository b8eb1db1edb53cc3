package numjson

// Float returns v as a float64 when v is any numeric value.
func Float(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}

// Int returns v as an int64 when v is an integer, or a float with no
// fractional part.
func Int(v any) (int64, bool) {
	switch v := v.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case uint32:
		return int64(v), true
	case float64:
		if n := int64(v); float64(n) == v {
			return n, true
		}
	case float32:
		if n := int64(v); float32(n) == v {
			return n, true
		}
	}
	return 0, false
}

// Floats64 returns v as a slice of float64 when v is an array of numbers.
func Floats64(v any) ([]float64, bool) {
	switch v := v.(type) {
	case []float64:
		return v, true
	case []float32:
		s := make([]float64, len(v))
		for i, f := range v {
			s[i] = float64(f)
		}
		return s, true
	case []any:
		s := make([]float64, len(v))
		for i, e := range v {
			f, ok := Float(e)
			if !ok {
				return nil, false
			}
			s[i] = f
		}
		return s, true
	case []int:
		s := make([]float64, len(v))
		for i, n := range v {
			s[i] = float64(n)
		}
		return s, true
	case []int64:
		s := make([]float64, len(v))
		for i, n := range v {
			s[i] = float64(n)
		}
		return s, true
	}
	return nil, false
}

// Floats32 is like Floats64, narrowing each element to float32.
func Floats32(v any) ([]float32, bool) {
	if s, ok := v.([]float32); ok {
		return s, true
	}
	f, ok := Floats64(v)
	if !ok {
		return nil, false
	}
	s := make([]float32, len(f))
	for i, f := range f {
		s[i] = float32(f)
	}
	return s, true
}

// Strings returns v as a slice of strings when v is an array of strings.
func Strings(v any) ([]string, bool) {
	switch v := v.(type) {
	case []string:
		return v, true
	case []any:
		s := make([]string, len(v))
		for i, e := range v {
			str, ok := e.(string)
			if !ok {
				return nil, false
			}
			s[i] = str
		}
		return s, true
	}
	return nil, false
}
