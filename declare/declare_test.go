package declare_test

import (
	"fmt"
	"testing"

	"github.com/data3d-io/data3d"
	. "github.com/data3d-io/data3d/declare"
	"github.com/data3d-io/data3d/numjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Example() {
	doc := Document(
		Meta("version", "1"),
		Meta("exporter", "example"),
		Node("room",
			Material("floor",
				Attr("colorDiffuse", 0.8, 0.7, 0.6),
				Attr("mapDiffuse", "floor.jpg"),
			),
			Node("table", Position(1, 0, 2), Rotation(0, 90, 0),
				Mesh("top", "floor",
					Attr("positions", 0, 0, 0, 1, 0, 0, 0, 0, 1),
					Attr("normals", 0, 1, 0, 0, 1, 0, 0, 1, 0),
				),
			),
		),
	).Declare()
	table := doc.Node(doc.Children(doc.Root())[0])
	fmt.Println(doc.Meta.Version, doc.Node(doc.Root()).ID, table.ID, table.Position, table.Mesh("top").FaceCount())
	// Output: 1 room table [1 0 2] 1
}

func TestDeclareRoot(t *testing.T) {
	doc := Document(
		Meta("version", "1"),
		Meta("timestamp", []byte("2024-05-01T12:00:00Z")),
		Meta("generator", "test"),
		Meta("exporter", "a"),
		Meta("exporter", "b"),
		Node("a"),
		Node("b"),
	).Declare()

	assert.Equal(t, "1", doc.Meta.Version)
	assert.Equal(t, "b", doc.Meta.Exporter)
	assert.Equal(t, "2024-05-01T12:00:00Z", doc.Meta.Timestamp)
	v, _ := doc.Meta.Extra.Get("generator")
	assert.Equal(t, "test", v)

	// Several top-level nodes are children of an empty root.
	assert.Equal(t, 3, doc.Len())
	assert.Empty(t, doc.Node(doc.Root()).ID)
	children := doc.Children(doc.Root())
	require.Len(t, children, 2)
	assert.Equal(t, "a", doc.Node(children[0]).ID)
	assert.Equal(t, "b", doc.Node(children[1]).ID)

	assert.Equal(t, 1, Document().Declare().Len())
}

func TestDeclareNode(t *testing.T) {
	doc := Node("root", ListKeys, Radians,
		Rotation(0, 0, 45),
		Attr("custom", int8(3)),
		Node("child1", Node("grandchild")),
		Node("child2", Position(float32(1.5), uint(2), int64(-3))),
	).Declare()

	root := doc.Node(doc.Root())
	assert.True(t, root.ListKeys)
	assert.Equal(t, data3d.Radians, root.RotationUnit)
	assert.Equal(t, [3]float64{0, 0, 45}, root.Rotation)
	v, _ := root.Extra.Get("custom")
	assert.Equal(t, 3.0, v)

	assert.Equal(t, 4, doc.Len())
	refs := doc.Nodes()
	ids := make([]string, len(refs))
	for i, ref := range refs {
		ids[i] = doc.Node(ref).ID
	}
	assert.ElementsMatch(t, []string{"root", "child1", "grandchild", "child2"}, ids)

	child2 := doc.Node(doc.FindNode("child2"))
	assert.Equal(t, [3]float64{1.5, 2, -3}, child2.Position)
	assert.Equal(t, doc.FindNode("child1"), doc.Parent(doc.FindNode("grandchild")))
}

func TestDeclareMesh(t *testing.T) {
	m := Mesh("m", "mat",
		Attr("positions", []float64{0, 0, 0, 1, 0, 0, 0, 1, 0}),
		Attr("normals", 0, 0, 1, 0, 0, 1, 0, 0, 1),
		Attr("uvs", []float32{0, 0, 1, 0, 0, 1}),
		Attr("smooth", true),
		Position(0, 1, 0),
	).Declare()

	assert.Equal(t, "m", m.Name)
	assert.Equal(t, "mat", m.Material)
	assert.Equal(t, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, m.Positions)
	assert.Equal(t, []float32{0, 0, 1, 0, 0, 1, 0, 0, 1}, m.Normals)
	assert.Equal(t, []float32{0, 0, 1, 0, 0, 1}, m.UVs)
	assert.Nil(t, m.UVsLightmap)
	assert.True(t, m.HasTransform)
	assert.Equal(t, [3]float64{0, 1, 0}, m.Position)
	v, _ := m.Extra.Get("smooth")
	assert.Equal(t, true, v)
	assert.NoError(t, m.Validate())

	bare := Mesh("bare", "").Declare()
	assert.False(t, bare.HasTransform)
	assert.Nil(t, bare.Extra)
}

func TestDeclareMaterial(t *testing.T) {
	m := Material("glass",
		Attr("colorDiffuse", 1, 1, 1),
		Attr("opacity", 0.5),
		Attr("mapDiffuse", "glass.png"),
		Attr("useInBaking", false),
		Attr("size", []int{2, 2}),
	).Declare()

	assert.Equal(t, "glass", m.Name)
	c, ok := m.Floats("colorDiffuse")
	require.True(t, ok)
	assert.Equal(t, []float64{1, 1, 1}, c)
	o, _ := m.Float("opacity")
	assert.Equal(t, 0.5, o)
	p, _ := m.Text("mapDiffuse")
	assert.Equal(t, "glass.png", p)
	b, ok := m.Bool("useInBaking")
	assert.True(t, ok)
	assert.False(t, b)
	s, _ := m.Floats("size")
	assert.Equal(t, []float64{2, 2}, s)
	assert.Equal(t, []string{"colorDiffuse", "opacity", "mapDiffuse", "useInBaking", "size"}, m.Attributes.Keys())
}

func TestValue(t *testing.T) {
	obj := numjson.NewObject("a", 1.0)
	for _, tt := range []struct {
		in   []any
		want any
	}{
		{nil, nil},
		{[]any{"s"}, "s"},
		{[]any{[]byte("b")}, "b"},
		{[]any{true}, true},
		{[]any{uint16(7)}, 7.0},
		{[]any{1, 2.5}, []float64{1, 2.5}},
		{[]any{[]int64{1, 2}}, []float64{1, 2}},
		{[]any{[]string{"x"}}, []string{"x"}},
		{[]any{obj}, obj},
		{[]any{struct{}{}}, nil},
	} {
		assert.Equal(t, tt.want, Value(tt.in...), "%v", tt.in)
	}
}

func TestDeclareNullAttr(t *testing.T) {
	m := Material("m", Attr("opacity"), Attr("bad", struct{}{}), Attr("size", 2)).Declare()
	assert.Equal(t, []string{"size"}, m.Attributes.Keys())

	doc := Document(Node("root", Attr("custom"), Mesh("tri", "", Attr("scale")))).Declare()
	root := doc.Node(doc.Root())
	assert.Zero(t, root.Extra.Len())
	require.NotNil(t, root.Mesh("tri"))
	assert.Zero(t, root.Mesh("tri").Extra.Len())
}

func TestDeclareEncodes(t *testing.T) {
	doc := Document(
		Meta("version", "1"),
		Node("root",
			Material("m", Attr("colorDiffuse", 0.5, 0.5, 0.5)),
			Mesh("tri", "m",
				Attr("positions", 0, 0, 0, 1, 0, 0, 0, 1, 0),
				Attr("normals", 0, 0, 1, 0, 0, 1, 0, 0, 1),
			),
		),
	).Declare()

	tree, err := data3d.Marshal(doc, data3d.Options{})
	require.NoError(t, err)
	back, warn, err := data3d.Unmarshal(tree, data3d.Options{})
	require.NoError(t, err)
	require.NoError(t, warn)
	root := back.Node(back.Root())
	assert.Equal(t, "root", root.ID)
	assert.Equal(t, []string{"tri"}, root.MeshNames())
	assert.Equal(t, []string{"m"}, root.MaterialNames())
}
