package material

import (
	"fmt"

	"github.com/data3d-io/data3d"
	"github.com/data3d-io/data3d/errors"
)

// UnsupportedTextureFormatError indicates a texture label that does not name
// a map slot. The texture is skipped.
type UnsupportedTextureFormatError struct {
	Label string
}

func (err *UnsupportedTextureFormatError) Error() string {
	return fmt.Sprintf("texture type not supported: %q", err.Label)
}

// AttributeError indicates a material attribute with an unusable value.
type AttributeError struct {
	Path     string
	Material string
	Key      string
	Value    any
	Problem  string
}

func (err *AttributeError) Error() string {
	s := fmt.Sprintf("material %q: %s: %s (got %v)", err.Material, err.Key, err.Problem, err.Value)
	if err.Path != "" {
		s = err.Path + ": " + s
	}
	return s
}

// Validate checks the attributes of m that have a meaning to hosts. All
// problems are returned.
func Validate(m data3d.Material) error {
	var errs errors.Errors
	bad := func(key string, v any, problem string) {
		errs = append(errs, &AttributeError{Material: m.Name, Key: key, Value: v, Problem: problem})
	}

	if v, ok := m.Get(data3d.KeyOpacity); ok {
		if f, ok := m.Float(data3d.KeyOpacity); !ok {
			bad(data3d.KeyOpacity, v, "not a number")
		} else if f < 0 || f > 1 {
			bad(data3d.KeyOpacity, v, "outside [0, 1]")
		}
	}
	for _, key := range []string{data3d.KeyColorDiffuse, data3d.KeyColorSpecular} {
		v, ok := m.Get(key)
		if !ok {
			continue
		}
		if c, ok := m.Floats(key); !ok || len(c) < 3 || len(c) > 4 {
			bad(key, v, "not a color")
		}
	}
	for _, key := range []string{data3d.KeySpecularCoef, data3d.KeyLightEmissionCoef} {
		if v, ok := m.Get(key); ok {
			if _, ok := m.Float(key); !ok {
				bad(key, v, "not a number")
			}
		}
	}
	for _, key := range TextureKeys {
		if v, ok := m.Get(key); ok {
			if _, ok := v.(string); !ok {
				bad(key, v, "not a texture path")
			}
		}
	}
	for _, key := range []string{
		data3d.KeyCastRealTimeShadows,
		data3d.KeyReceiveRealTimeShadows,
		data3d.KeyAddLightmap,
		data3d.KeyUseInBaking,
		data3d.KeyHideAfterBaking,
	} {
		if v, ok := m.Get(key); ok {
			if _, ok := v.(bool); !ok {
				bad(key, v, "not a boolean")
			}
		}
	}
	return errs.Return()
}

// ValidateDocument validates every material of doc. Problems are meant to be
// reported as warnings.
func ValidateDocument(doc *data3d.Document) error {
	var errs errors.Errors
	doc.Walk(func(ref data3d.Ref, _ int) bool {
		for _, m := range doc.Node(ref).Materials {
			err := Validate(m)
			if err == nil {
				continue
			}
			path := doc.Path(ref)
			for _, err := range err.(errors.Errors) {
				if err, ok := err.(*AttributeError); ok {
					err.Path = path
				}
				errs = append(errs, err)
			}
		}
		return true
	})
	return errs.Return()
}
