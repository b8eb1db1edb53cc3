package numjson

import (
	"fmt"
	"reflect"
)

// UnsupportedTypeError is returned when a value cannot be written as JSON.
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (err *UnsupportedTypeError) Error() string {
	if err.Type == nil {
		return "numjson: unsupported type: nil"
	}
	return "numjson: unsupported type: " + err.Type.String()
}

// UnsupportedValueError is returned for float values that have no JSON
// representation.
type UnsupportedValueError struct {
	Value float64
}

func (err *UnsupportedValueError) Error() string {
	return fmt.Sprintf("numjson: unsupported value: %v", err.Value)
}

// SyntaxError is returned when the input is not valid JSON.
type SyntaxError struct {
	Offset int
	Msg    string
	Cause  error
}

func (err *SyntaxError) Error() string {
	return fmt.Sprintf("numjson: syntax error at offset %d: %s", err.Offset, err.Msg)
}

func (err *SyntaxError) Unwrap() error {
	return err.Cause
}
