package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/data3d-io/data3d"
	"github.com/data3d-io/data3d/numjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareKeys(t *testing.T) {
	assert.Len(t, CompareKeys, 4+15+2)
	assert.Equal(t, data3d.KeyColorDiffuse, CompareKeys[0])
	assert.Contains(t, CompareKeys, "mapLightPreview")
	assert.NotContains(t, CompareKeys, data3d.KeyLightEmissionCoef)
	assert.NotContains(t, CompareKeys, data3d.KeyAddLightmap)
}

func TestKeyDeterminism(t *testing.T) {
	a := data3d.NewMaterial("a", data3d.KeyColorDiffuse, []float64{1, 0, 0}, data3d.KeyOpacity, 0.5)
	b := data3d.NewMaterial("b", data3d.KeyOpacity, 0.5, data3d.KeyColorDiffuse, []any{int64(1), 0.0, int64(0)})
	assert.Equal(t, Key(a), Key(b), "order, name and number representation must not matter")
	assert.True(t, Equal(a, b))
	assert.Len(t, Key(a).String(), 64)
	assert.Equal(t, Key(a).String()[:8], Key(a).Short())

	// Attributes outside the list do not matter.
	c := a.Copy()
	c.Set(data3d.KeyLightEmissionCoef, 3.0)
	c.Set(data3d.KeyUseInBaking, false)
	c.Set("custom", "x")
	assert.Equal(t, Key(a), Key(c))
	assert.True(t, Equal(a, c))

	// A differing diffuse color does.
	d := a.Copy()
	d.Set(data3d.KeyColorDiffuse, []float64{1, 0, 0.001})
	assert.NotEqual(t, Key(a), Key(d))
	assert.False(t, Equal(a, d))

	// So does the absence of an attribute.
	e := data3d.NewMaterial("e", data3d.KeyColorDiffuse, []float64{1, 0, 0})
	assert.NotEqual(t, Key(a), Key(e))

	// Negative zero equals zero.
	z1 := data3d.NewMaterial("z", data3d.KeySpecularCoef, 0.0)
	z2 := data3d.NewMaterial("z", data3d.KeySpecularCoef, math.Copysign(0, -1))
	assert.Equal(t, Key(z1), Key(z2))
}

// Key equality implies equality of the compared attributes, over random
// materials drawn from a small value space so that equal pairs occur.
func TestKeyRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	values := []any{0.5, 1.0, []float64{1, 1, 1}}
	keys := append(CompareKeys[:3:3], data3d.KeyLightEmissionCoef, data3d.KeyHideAfterBaking)
	random := func() data3d.Material {
		m := data3d.NewMaterial("m")
		for _, k := range keys {
			if rng.Intn(4) > 0 {
				m.Set(k, values[rng.Intn(len(values))])
			}
		}
		return m
	}
	project := func(m data3d.Material) string {
		obj := numjson.NewObject()
		for _, k := range CompareKeys {
			if v, ok := m.Get(k); ok {
				obj.Set(k, v)
			}
		}
		b, err := numjson.Marshal(obj)
		require.NoError(t, err)
		return string(b)
	}

	mats := make([]data3d.Material, 200)
	projs := make([]string, len(mats))
	hashes := make([]HashKey, len(mats))
	for i := range mats {
		mats[i] = random()
		projs[i] = project(mats[i])
		hashes[i] = Key(mats[i])
	}
	equal := 0
	for i := range mats {
		for j := i + 1; j < len(mats); j++ {
			same := projs[i] == projs[j]
			if same {
				equal++
			}
			if same != (hashes[i] == hashes[j]) {
				t.Errorf("materials %d and %d: equal projections %t, equal keys %t", i, j, same, !same)
			}
		}
	}
	assert.NotZero(t, equal, "no equal pairs were generated")
}

func TestTable(t *testing.T) {
	table := NewTable()
	red := data3d.NewMaterial("red", data3d.KeyColorDiffuse, []float64{1, 0, 0})
	crimson := data3d.NewMaterial("crimson", data3d.KeyColorDiffuse, []float64{1, 0, 0})
	blue := data3d.NewMaterial("blue", data3d.KeyColorDiffuse, []float64{0, 0, 1})
	otherRed := data3d.NewMaterial("red", data3d.KeyColorDiffuse, []float64{0.9, 0, 0})

	name, dup := table.Add(red)
	assert.Equal(t, "red", name)
	assert.False(t, dup)

	name, dup = table.Add(crimson)
	assert.Equal(t, "red", name)
	assert.True(t, dup)

	name, dup = table.Add(blue)
	assert.Equal(t, "blue", name)
	assert.False(t, dup)

	name, dup = table.Add(otherRed)
	assert.False(t, dup)
	assert.Equal(t, "red-"+Key(otherRed).Short(), name)

	assert.Equal(t, 3, table.Len())
	mats := table.Materials()
	require.Len(t, mats, 3)
	assert.Equal(t, "red", mats[0].Name)
	assert.Equal(t, "blue", mats[1].Name)
	assert.Equal(t, name, mats[2].Name)

	got, ok := table.Get("blue")
	require.True(t, ok)
	assert.True(t, Equal(blue, got))
}

// A table confirms hash matches with Equal, so materials sharing a bucket are
// never merged unless equal.
func TestTableBucketCollision(t *testing.T) {
	table := NewTable()
	a := data3d.NewMaterial("a", data3d.KeyOpacity, 0.5)
	b := data3d.NewMaterial("b", data3d.KeyOpacity, 0.25)
	table.Add(a)
	// Force b into the bucket of a.
	table.buckets[Key(b)] = table.buckets[Key(a)]
	name, dup := table.Add(b)
	assert.False(t, dup)
	assert.Equal(t, "b", name)
	assert.Equal(t, 2, table.Len())
}

func TestDefault(t *testing.T) {
	m := Default()
	assert.Equal(t, DefaultName, m.Name)
	c, ok := m.Floats(data3d.KeyColorDiffuse)
	require.True(t, ok)
	assert.Equal(t, []float64{0.85, 0.85, 0.85}, c)
	assert.Equal(t, Basic, Classify(m))
	assert.NoError(t, Validate(m))
}

func TestParseSlot(t *testing.T) {
	s, err := ParseSlot("mapNormal")
	require.NoError(t, err)
	assert.Equal(t, Normal, s)
	assert.Equal(t, "mapNormal", s.String())

	_, err = ParseSlot("mapBump")
	var formatErr *UnsupportedTextureFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "mapBump", formatErr.Label)
}

func TestReferenceMaps(t *testing.T) {
	m := data3d.NewMaterial("m",
		"mapDiffuse", "diffuse.jpg",
		"mapDiffuseSource", "diffuse-source.png",
		"mapNormal", "normal.dds",
		"mapNormalPreview", "normal-preview.jpg",
		"mapSpecularSource", "specular.dds",
		"mapAlphaSource", "",
	)
	refs := ReferenceMaps(m)
	assert.Equal(t, map[Slot]string{
		Diffuse: "diffuse-source.png",
		Normal:  "normal-preview.jpg",
	}, refs)
}

func TestNormalizeTexturePaths(t *testing.T) {
	m := data3d.NewMaterial("m", "mapDiffuse", "tex/a.png", "mapLightSource", "/b.png", data3d.KeyOpacity, 1.0)
	n := NormalizeTexturePaths(m)
	p, _ := n.Text("mapDiffuse")
	assert.Equal(t, "/tex/a.png", p)
	p, _ = n.Text("mapLightSource")
	assert.Equal(t, "/b.png", p)
	p, _ = m.Text("mapDiffuse")
	assert.Equal(t, "tex/a.png", p, "input material was modified")
	assert.Equal(t, "textures/a.png", TexturePath("textures", "a.png"))
	assert.Equal(t, "a.png", TexturePath("", "a.png"))
}

func TestBakeOf(t *testing.T) {
	tests := []struct {
		name  string
		attrs []any
		want  BakeInfo
	}{
		{"defaults", nil, BakeInfo{Type: Bake, AddLightmap: true, UseInBaking: true}},
		{"not used", []any{data3d.KeyUseInBaking, false}, BakeInfo{Type: NoBake}},
		{"hidden", []any{data3d.KeyHideAfterBaking, true, data3d.KeyLightEmissionCoef, 2.0}, BakeInfo{Type: NoBake, UseInBaking: true, HideAfterBaking: true}},
		{"emission", []any{data3d.KeyLightEmissionCoef, 2.0, data3d.KeyAddLightmap, true}, BakeInfo{Type: EmissionBake, UseInBaking: true}},
		{"no lightmap", []any{data3d.KeyAddLightmap, false}, BakeInfo{Type: NoBake, UseInBaking: true}},
	}
	for _, test := range tests {
		got := BakeOf(data3d.NewMaterial("m", test.attrs...))
		assert.Equal(t, test.want, got, test.name)
	}
	assert.Equal(t, "EMISSION", EmissionBake.String())
}

func TestClassify(t *testing.T) {
	assert.Equal(t, Emission, Classify(data3d.NewMaterial("m", data3d.KeyLightEmissionCoef, 1.0, data3d.KeyOpacity, 0.5)))
	assert.Equal(t, Transparency, Classify(data3d.NewMaterial("m", data3d.KeyOpacity, 0.5)))
	assert.Equal(t, Transparency, Classify(data3d.NewMaterial("m", data3d.KeyMapAlpha, "a.png")))
	assert.Equal(t, Basic, Classify(data3d.NewMaterial("m", data3d.KeyOpacity, int64(1))))
}

func TestShaderInputs(t *testing.T) {
	in := ShaderInputs(data3d.NewMaterial("m",
		data3d.KeyColorDiffuse, []any{0.5, 0.5, int64(0)},
		data3d.KeySpecularCoef, 250.0,
		data3d.KeyLightEmissionCoef, -1.0,
		data3d.KeySize, []float64{2, 3},
		data3d.KeyMapLight, "light.png",
	))
	assert.Equal(t, [4]float64{0.5, 0.5, 0, 1}, in.ColorDiffuse)
	assert.Equal(t, [4]float64{1, 1, 1, 1}, in.ColorSpecular)
	assert.Equal(t, float64(MaxCoef), in.SpecularCoef)
	assert.Equal(t, 0.0, in.EmissionCoef)
	assert.Equal(t, 1.0, in.Opacity)
	assert.Equal(t, [3]float64{2, 3, 1}, in.UVScale)
	assert.True(t, in.UVLightmap)
	assert.Equal(t, Basic, in.Kind)
}

func TestValidate(t *testing.T) {
	m := data3d.NewMaterial("bad",
		data3d.KeyOpacity, 1.5,
		data3d.KeyColorDiffuse, []any{1.0, "x", 0.0},
		data3d.KeyMapDiffuse, 3.0,
		data3d.KeyCastRealTimeShadows, "yes",
	)
	err := Validate(m)
	require.Error(t, err)
	var keys []string
	for _, err := range err.(interface{ Unwrap() []error }).Unwrap() {
		var attrErr *AttributeError
		require.ErrorAs(t, err, &attrErr)
		keys = append(keys, attrErr.Key)
	}
	assert.Equal(t, []string{
		data3d.KeyOpacity,
		data3d.KeyColorDiffuse,
		data3d.KeyMapDiffuse,
		data3d.KeyCastRealTimeShadows,
	}, keys)

	doc := data3d.NewDocument()
	child := doc.AddNode(doc.Root())
	doc.Node(child).SetMaterial(m)
	doc.Node(doc.Root()).SetMaterial(Default())
	err = ValidateDocument(doc)
	var attrErr *AttributeError
	require.ErrorAs(t, err, &attrErr)
	assert.Equal(t, "data3d/children/0", attrErr.Path)
	assert.Contains(t, attrErr.Error(), `data3d/children/0: material "bad": opacity`)
}
