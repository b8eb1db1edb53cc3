// The declare package is used to generate data3d documents in a declarative
// style.
//
// Most items have a Declare method, which returns a new data3d structure
// corresponding to the declared item.
//
// The easiest way to use this package is to import it directly into the
// current package:
//
//	import . "github.com/data3d-io/data3d/declare"
//
// This allows the package's identifiers to be used directly without a
// qualifier.
package declare

import (
	"github.com/data3d-io/data3d"
)

// primary is implemented by declarations that can be directly within a Root
// declaration.
type primary interface {
	primary()
}

// Root declares a data3d.Document. It is a list that contains Node and Meta
// declarations.
type Root []primary

// Document returns a Root containing the given declarations.
func Document(decls ...primary) Root {
	return Root(decls)
}

// Declare evaluates the Root declaration, generating the node tree, meshes,
// materials, and metadata of a document.
//
// A single Node declaration becomes the root node of the document. When
// there are several, or none, the root node is empty and each Node
// declaration becomes a child of it.
//
// Elements are evaluated in order; if two metadata declarations have the same
// key, the latter takes precedence. The same applies to meshes and materials
// of a node that share a name.
func (droot Root) Declare() *data3d.Document {
	var nodes []node
	doc := data3d.NewDocument()
	for _, p := range droot {
		switch p := p.(type) {
		case node:
			nodes = append(nodes, p)
		case meta:
			setMeta(&doc.Meta, p)
		}
	}
	if len(nodes) == 1 {
		build(doc, doc.Root(), nodes[0])
		return doc
	}
	for _, dnode := range nodes {
		build(doc, doc.AddNode(doc.Root()), dnode)
	}
	return doc
}

// meta represents the declaration of a meta key.
type meta struct {
	key   string
	value []any
}

func (meta) primary() {}

// Meta declares a key-value pair of the document's meta section. The
// version, exporter, and timestamp keys set the corresponding fields of
// data3d.Meta; other keys are kept in Meta.Extra.
func Meta(key string, value ...any) meta {
	return meta{key: key, value: value}
}

func setMeta(m *data3d.Meta, d meta) {
	switch d.key {
	case data3d.KeyVersion:
		m.Version = text(d.value)
	case data3d.KeyExporter:
		m.Exporter = text(d.value)
	case data3d.KeyTimestamp:
		m.Timestamp = text(d.value)
	default:
		setValue(&m.Extra, d.key, attrValue(d.value))
	}
}

// element is implemented by declarations that can be within a Node
// declaration.
type element interface {
	element()
}

// node represents the declaration of a data3d.Node.
type node struct {
	id        string
	position  *position
	rotation  *rotation
	unit      data3d.Unit
	listKeys  bool
	meshes    []mesh
	materials []material
	extra     []attr
	children  []node
}

func (node) primary() {}
func (node) element() {}

// Node declares a data3d.Node with the given ID. An element can be a
// Position or Rotation declaration, which defines the transform of the node,
// or a Mesh or Material declaration. An element can also be another Node
// declaration, which becomes a child of the node.
//
// Attr declarations set unrecognized keys of the node. The Radians and
// ListKeys declarations select how the node is written.
func Node(id string, elements ...element) node {
	n := node{id: id}
	for _, e := range elements {
		switch e := e.(type) {
		case position:
			n.position = &e
		case rotation:
			n.rotation = &e
		case unitDecl:
			n.unit = data3d.Unit(e)
		case listKeys:
			n.listKeys = true
		case mesh:
			n.meshes = append(n.meshes, e)
		case material:
			n.materials = append(n.materials, e)
		case attr:
			n.extra = append(n.extra, e)
		case node:
			n.children = append(n.children, e)
		}
	}
	return n
}

// Declare evaluates the Node declaration, returning a document whose root
// is the declared node.
func (dnode node) Declare() *data3d.Document {
	return Root{dnode}.Declare()
}

// build recursively resolves node declarations into ref.
func build(doc *data3d.Document, ref data3d.Ref, dnode node) {
	n := doc.Node(ref)
	n.ID = dnode.id
	if dnode.position != nil {
		n.Position = [3]float64(*dnode.position)
	}
	if dnode.rotation != nil {
		n.Rotation = [3]float64(*dnode.rotation)
	}
	n.RotationUnit = dnode.unit
	n.ListKeys = dnode.listKeys
	for _, dmesh := range dnode.meshes {
		n.SetMesh(dmesh.Declare())
	}
	for _, dmat := range dnode.materials {
		n.SetMaterial(dmat.Declare())
	}
	for _, a := range dnode.extra {
		setValue(&n.Extra, a.key, a.Declare())
	}
	// Adding children may move the node; n is not used past this point.
	for _, dchild := range dnode.children {
		build(doc, doc.AddNode(ref), dchild)
	}
}

// meshElement is implemented by declarations that can be within a Mesh
// declaration.
type meshElement interface {
	meshElement()
}

// mesh represents the declaration of a data3d.Mesh.
type mesh struct {
	name     string
	material string
	position *position
	rotation *rotation
	unit     data3d.Unit
	attrs    []attr
}

func (mesh) element() {}

// Mesh declares a data3d.Mesh with a name and a material name, which may be
// empty. The elements may be Attr declarations, which set the arrays of the
// mesh when the key is one of positions, normals, uvs or uvsLightmap, and
// unrecognized keys otherwise. A Position or Rotation declaration sets the
// local transform of the mesh.
func Mesh(name, material string, elements ...meshElement) mesh {
	m := mesh{name: name, material: material}
	for _, e := range elements {
		switch e := e.(type) {
		case position:
			m.position = &e
		case rotation:
			m.rotation = &e
		case unitDecl:
			m.unit = data3d.Unit(e)
		case attr:
			m.attrs = append(m.attrs, e)
		}
	}
	return m
}

// Declare evaluates the Mesh declaration.
func (dmesh mesh) Declare() data3d.Mesh {
	m := data3d.Mesh{
		Name:         dmesh.name,
		Material:     dmesh.material,
		RotationUnit: dmesh.unit,
	}
	if dmesh.position != nil {
		m.Position = [3]float64(*dmesh.position)
		m.HasTransform = true
	}
	if dmesh.rotation != nil {
		m.Rotation = [3]float64(*dmesh.rotation)
		m.HasTransform = true
	}
	for _, a := range dmesh.attrs {
		switch a.key {
		case data3d.KeyPositions, data3d.KeyNormals, data3d.KeyUVs, data3d.KeyUVsLightmap:
			m.SetArray(a.key, floats32(a.value))
		default:
			setValue(&m.Extra, a.key, a.Declare())
		}
	}
	return m
}

// material represents the declaration of a data3d.Material.
type material struct {
	name  string
	attrs []attr
}

func (material) element() {}

// Material declares a data3d.Material with a name and a list of attributes.
func Material(name string, attrs ...attr) material {
	return material{name: name, attrs: attrs}
}

// Declare evaluates the Material declaration.
func (dmat material) Declare() data3d.Material {
	m := data3d.NewMaterial(dmat.name)
	for _, a := range dmat.attrs {
		setValue(&m.Attributes, a.key, a.Declare())
	}
	return m
}

type attr struct {
	key   string
	value []any
}

func (attr) element()     {}
func (attr) meshElement() {}

// Attr declares a key of a node, mesh, or material. See Value for how the
// value is interpreted.
func Attr(key string, value ...any) attr {
	return attr{key: key, value: value}
}

// Declare evaluates the Attr declaration. Since the attribute does not
// belong to any item, the key is ignored, and only the value is generated.
func (a attr) Declare() any {
	return attrValue(a.value)
}

type position [3]float64

func (position) element()     {}
func (position) meshElement() {}

// Position declares the position of a node or mesh. Any number type may be
// given for each component.
func Position(x, y, z any) position {
	return position{normFloat64(x), normFloat64(y), normFloat64(z)}
}

type rotation [3]float64

func (rotation) element()     {}
func (rotation) meshElement() {}

// Rotation declares the rotation of a node or mesh, as Euler angles in
// degrees.
func Rotation(x, y, z any) rotation {
	return rotation{normFloat64(x), normFloat64(y), normFloat64(z)}
}

type unitDecl data3d.Unit

func (unitDecl) element()     {}
func (unitDecl) meshElement() {}

// Radians declares that the rotation of a node or mesh is written in
// radians. The value given to Rotation is still in degrees.
const Radians = unitDecl(data3d.Radians)

type listKeys struct{}

func (listKeys) element() {}

// ListKeys declares that the meshKeys and materialKeys lists of a node are
// written.
var ListKeys listKeys
