package data3d

import (
	"github.com/data3d-io/data3d/numjson"
	"github.com/go-gl/mathgl/mgl64"
)

// Unit is the angle unit of a rotation, which also selects the key the
// rotation is written under.
type Unit uint8

const (
	Degrees Unit = iota // rotDeg
	Radians             // rotRad
)

// Key returns the structure key of rotations in the unit.
func (u Unit) Key() string {
	if u == Radians {
		return KeyRotRad
	}
	return KeyRotDeg
}

func (u Unit) String() string {
	if u == Radians {
		return "radians"
	}
	return "degrees"
}

// toUnit converts a rotation in degrees to u.
func (u Unit) toUnit(deg [3]float64) [3]float64 {
	if u == Radians {
		return [3]float64{mgl64.DegToRad(deg[0]), mgl64.DegToRad(deg[1]), mgl64.DegToRad(deg[2])}
	}
	return deg
}

// fromUnit converts a rotation in u to degrees.
func (u Unit) fromUnit(rot [3]float64) [3]float64 {
	if u == Radians {
		return [3]float64{mgl64.RadToDeg(rot[0]), mgl64.RadToDeg(rot[1]), mgl64.RadToDeg(rot[2])}
	}
	return rot
}

// Node is a scene node of a Document.
type Node struct {
	// ID identifies the node within the document.
	ID string

	Position [3]float64

	// Rotation holds Euler angles in degrees, whatever the value of
	// RotationUnit.
	Rotation [3]float64

	// RotationUnit is the unit the rotation is stored as in files.
	RotationUnit Unit

	// Meshes and Materials are ordered by name of first insertion.
	Meshes    []Mesh
	Materials []Material

	// ListKeys indicates whether meshKeys and materialKeys are written.
	ListKeys bool

	// Extra holds unrecognized node keys.
	Extra *numjson.Object

	parent   Ref
	children []Ref
}

// RotationRadians returns the rotation of the node in radians.
func (n *Node) RotationRadians() [3]float64 {
	return Radians.toUnit(n.Rotation)
}

// Mesh returns the mesh with the given name, or nil.
func (n *Node) Mesh(name string) *Mesh {
	for i := range n.Meshes {
		if n.Meshes[i].Name == name {
			return &n.Meshes[i]
		}
	}
	return nil
}

// SetMesh adds m to the node, replacing a mesh of the same name.
func (n *Node) SetMesh(m Mesh) {
	if old := n.Mesh(m.Name); old != nil {
		*old = m
		return
	}
	n.Meshes = append(n.Meshes, m)
}

// Material returns the material with the given name, or nil.
func (n *Node) Material(name string) *Material {
	for i := range n.Materials {
		if n.Materials[i].Name == name {
			return &n.Materials[i]
		}
	}
	return nil
}

// SetMaterial adds m to the node, replacing a material of the same name.
func (n *Node) SetMaterial(m Material) {
	if old := n.Material(m.Name); old != nil {
		*old = m
		return
	}
	n.Materials = append(n.Materials, m)
}

// MeshNames returns the names of the meshes of the node, in order.
func (n *Node) MeshNames() []string {
	names := make([]string, len(n.Meshes))
	for i, m := range n.Meshes {
		names[i] = m.Name
	}
	return names
}

// MaterialNames returns the names of the materials of the node, in order.
func (n *Node) MaterialNames() []string {
	names := make([]string, len(n.Materials))
	for i, m := range n.Materials {
		names[i] = m.Name
	}
	return names
}

func (n *Node) copy() Node {
	c := *n
	if n.Meshes != nil {
		c.Meshes = make([]Mesh, len(n.Meshes))
		for i := range n.Meshes {
			c.Meshes[i] = n.Meshes[i].Copy()
		}
	}
	if n.Materials != nil {
		c.Materials = make([]Material, len(n.Materials))
		for i := range n.Materials {
			c.Materials[i] = n.Materials[i].Copy()
		}
	}
	c.Extra = n.Extra.Clone()
	c.children = append([]Ref(nil), n.children...)
	return c
}

////////////////////////////////////////////////////////////////

// Material is a named set of material attributes. The codec does not
// interpret attributes; see the material package for their meaning.
type Material struct {
	Name       string
	Attributes *numjson.Object
}

// NewMaterial returns a material with the given attribute pairs, which
// alternate between key and value.
func NewMaterial(name string, pairs ...any) Material {
	return Material{Name: name, Attributes: numjson.NewObject(pairs...)}
}

// Get returns the value of an attribute.
func (m Material) Get(key string) (any, bool) {
	return m.Attributes.Get(key)
}

// Has returns whether an attribute is set.
func (m Material) Has(key string) bool {
	return m.Attributes.Has(key)
}

// Float returns a numeric attribute.
func (m Material) Float(key string) (float64, bool) {
	v, ok := m.Attributes.Get(key)
	if !ok {
		return 0, false
	}
	return numjson.Float(v)
}

// Floats returns a numeric list attribute.
func (m Material) Floats(key string) ([]float64, bool) {
	v, ok := m.Attributes.Get(key)
	if !ok {
		return nil, false
	}
	return numjson.Floats64(v)
}

// Text returns a string attribute.
func (m Material) Text(key string) (string, bool) {
	v, ok := m.Attributes.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Bool returns a boolean attribute.
func (m Material) Bool(key string) (bool, bool) {
	v, ok := m.Attributes.Get(key)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Set sets an attribute.
func (m *Material) Set(key string, value any) {
	if m.Attributes == nil {
		m.Attributes = numjson.NewObject()
	}
	m.Attributes.Set(key, value)
}

// Copy returns a deep copy of the material.
func (m Material) Copy() Material {
	return Material{Name: m.Name, Attributes: m.Attributes.Clone()}
}
