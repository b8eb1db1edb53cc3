package material

import (
	"path"
	"strconv"
	"strings"

	"github.com/data3d-io/data3d"
)

// DefaultName is the name of the material assigned to meshes that have none.
const DefaultName = "default"

// Default returns the material assigned to meshes that have none.
func Default() data3d.Material {
	return data3d.NewMaterial(DefaultName,
		data3d.KeyColorDiffuse, []float64{0.85, 0.85, 0.85},
		data3d.KeyColorSpecular, []float64{0.25, 0.25, 0.25},
	)
}

// Slot is a texture map slot.
type Slot int

const (
	Diffuse Slot = iota
	Specular
	Normal
	Alpha
	Light
)

// Slots lists every slot.
var Slots = [...]Slot{Diffuse, Specular, Normal, Alpha, Light}

// Key returns the attribute key of the hi-res texture of the slot.
func (s Slot) Key() string {
	if s < 0 || int(s) >= len(data3d.MapKeys) {
		return ""
	}
	return data3d.MapKeys[s]
}

// Keys returns the attribute keys of each texture variant of the slot, in
// the order hi-res, source, preview.
func (s Slot) Keys() [len(data3d.MapSuffixes)]string {
	var keys [len(data3d.MapSuffixes)]string
	for i, suffix := range data3d.MapSuffixes {
		keys[i] = s.Key() + suffix
	}
	return keys
}

func (s Slot) String() string {
	if k := s.Key(); k != "" {
		return k
	}
	return "Slot(" + strconv.Itoa(int(s)) + ")"
}

// ParseSlot returns the slot named by a texture label, which is the
// attribute key of the slot.
func ParseSlot(label string) (Slot, error) {
	for _, s := range Slots {
		if s.Key() == label {
			return s, nil
		}
	}
	return 0, &UnsupportedTextureFormatError{Label: label}
}

// TextureKeys lists every texture attribute key.
var TextureKeys = textureKeys()

func textureKeys() []string {
	keys := make([]string, 0, len(Slots)*len(data3d.MapSuffixes))
	for _, s := range Slots {
		k := s.Keys()
		keys = append(keys, k[:]...)
	}
	return keys
}

// IsTextureKey returns whether key is a texture attribute.
func IsTextureKey(key string) bool {
	for _, k := range TextureKeys {
		if k == key {
			return true
		}
	}
	return false
}

// ReferenceMaps returns, for each slot, the texture of the best quality that
// can be loaded. For each slot, the first non-empty path among the source,
// hi-res and preview variants is chosen, skipping DDS files.
func ReferenceMaps(m data3d.Material) map[Slot]string {
	refs := map[Slot]string{}
	for _, s := range Slots {
		for _, key := range []string{
			s.Key() + data3d.SuffixSource,
			s.Key() + data3d.SuffixHiRes,
			s.Key() + data3d.SuffixPreview,
		} {
			p, _ := m.Text(key)
			if p == "" || strings.HasSuffix(p, ".dds") {
				continue
			}
			refs[s] = p
			break
		}
	}
	return refs
}

// NormalizeTexturePaths returns a copy of m in which every texture path
// begins with a slash.
func NormalizeTexturePaths(m data3d.Material) data3d.Material {
	m = m.Copy()
	for _, key := range TextureKeys {
		p, ok := m.Text(key)
		if !ok || strings.HasPrefix(p, "/") {
			continue
		}
		m.Set(key, "/"+p)
	}
	return m
}

// TexturePath returns the path stored for a texture file exported to dir.
func TexturePath(dir, file string) string {
	if dir == "" {
		return file
	}
	return path.Join(dir, file)
}

////////////////////////////////////////////////////////////////

// BakeType is the treatment of a material by the lightmap baker.
type BakeType int

const (
	NoBake BakeType = iota
	EmissionBake
	Bake
)

func (t BakeType) String() string {
	switch t {
	case NoBake:
		return "NOBAKE"
	case EmissionBake:
		return "EMISSION"
	case Bake:
		return "BAKE"
	}
	return "BakeType(" + strconv.Itoa(int(t)) + ")"
}

// BakeInfo describes how a material takes part in lightmap baking.
type BakeInfo struct {
	Type            BakeType
	AddLightmap     bool
	UseInBaking     bool
	HideAfterBaking bool
}

// BakeOf returns the baking treatment of m. Absent flags default to adding a
// lightmap, using the material in baking, and keeping it afterwards.
func BakeOf(m data3d.Material) BakeInfo {
	addLightmap := boolOr(m, data3d.KeyAddLightmap, true)
	useInBaking := boolOr(m, data3d.KeyUseInBaking, true)
	hide := boolOr(m, data3d.KeyHideAfterBaking, false)
	emission, _ := m.Float(data3d.KeyLightEmissionCoef)

	switch {
	case !useInBaking || hide:
		return BakeInfo{Type: NoBake, UseInBaking: useInBaking, HideAfterBaking: hide}
	case emission > 0:
		return BakeInfo{Type: EmissionBake, UseInBaking: true, HideAfterBaking: hide}
	case addLightmap:
		return BakeInfo{Type: Bake, AddLightmap: true, UseInBaking: true}
	}
	return BakeInfo{Type: NoBake, UseInBaking: useInBaking, HideAfterBaking: hide}
}

func boolOr(m data3d.Material, key string, def bool) bool {
	if b, ok := m.Bool(key); ok {
		return b
	}
	return def
}

////////////////////////////////////////////////////////////////

// Kind is the shading model a host uses for a material.
type Kind int

const (
	Basic Kind = iota
	Emission
	Transparency
)

func (k Kind) String() string {
	switch k {
	case Basic:
		return "basic"
	case Emission:
		return "emission"
	case Transparency:
		return "transparency"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Classify returns the shading model of m. Emission takes precedence over
// transparency.
func Classify(m data3d.Material) Kind {
	if e, _ := m.Float(data3d.KeyLightEmissionCoef); e > 0 {
		return Emission
	}
	opacity, ok := m.Float(data3d.KeyOpacity)
	if !ok {
		opacity = 1
	}
	if m.Has(data3d.KeyMapAlpha) || opacity < 1 {
		return Transparency
	}
	return Basic
}

// MaxCoef is the upper bound of the specular and emission coefficients given
// to a shader.
const MaxCoef = 100

// Inputs are the numeric shader inputs derived from a material.
type Inputs struct {
	Kind          Kind
	ColorDiffuse  [4]float64
	ColorSpecular [4]float64
	SpecularCoef  float64
	EmissionCoef  float64
	Opacity       float64
	// UVScale scales the texture coordinates of every map except the
	// lightmap.
	UVScale [3]float64
	Maps    map[Slot]string
	// UVLightmap reports whether the lightmap is sampled through the second
	// UV channel.
	UVLightmap bool
}

// ShaderInputs returns the shader inputs of m. Colors are extended with an
// alpha of 1, and coefficients are clamped to [0, MaxCoef].
func ShaderInputs(m data3d.Material) Inputs {
	in := Inputs{
		Kind:          Classify(m),
		ColorDiffuse:  [4]float64{1, 1, 1, 1},
		ColorSpecular: [4]float64{1, 1, 1, 1},
		Opacity:       1,
		UVScale:       [3]float64{1, 1, 1},
		Maps:          ReferenceMaps(m),
	}
	if c, ok := m.Floats(data3d.KeyColorDiffuse); ok {
		in.ColorDiffuse = rgba(c)
	}
	if c, ok := m.Floats(data3d.KeyColorSpecular); ok {
		in.ColorSpecular = rgba(c)
	}
	if f, ok := m.Float(data3d.KeySpecularCoef); ok {
		in.SpecularCoef = clamp(f)
	}
	if f, ok := m.Float(data3d.KeyLightEmissionCoef); ok {
		in.EmissionCoef = clamp(f)
	}
	if f, ok := m.Float(data3d.KeyOpacity); ok {
		in.Opacity = f
	}
	if s, ok := m.Floats(data3d.KeySize); ok && len(s) >= 2 {
		in.UVScale = [3]float64{s[0], s[1], 1}
	}
	_, in.UVLightmap = in.Maps[Light]
	return in
}

func rgba(c []float64) [4]float64 {
	v := [4]float64{1, 1, 1, 1}
	copy(v[:], c)
	return v
}

func clamp(f float64) float64 {
	return min(max(f, 0), MaxCoef)
}
