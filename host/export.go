// Package host connects data3d documents to the scene graph of a host
// application. The host describes its scene with Scene and Object, and
// receives decoded documents as a flat list of Instance values.
package host

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/data3d-io/data3d"
	"github.com/data3d-io/data3d/material"
	"github.com/data3d-io/data3d/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

// Scene is the part of a host scene being exported.
type Scene struct {
	Objects []Object
}

// Object is a host object. Rotation is in degrees, applied in XYZ order.
type Object struct {
	Name     string
	Position [3]float64
	Rotation [3]float64
	// Mesh holds the triangles of the object. Its name names the meshes of
	// the document. Objects with no triangles produce no mesh.
	Mesh mesh.Source
	// MaterialSlots names the material of each material index used by the
	// triangles of Mesh.
	MaterialSlots []string
	Children      []Object
}

// MaterialSource maps host material names to their attributes.
type MaterialSource map[string]data3d.Material

// Mode selects the shape of an exported document.
type Mode int

const (
	// Hierarchical produces one node per object, each holding its own
	// meshes and materials. It is used for the JSON format.
	Hierarchical Mode = iota
	// Flattened produces a single node holding every mesh, transformed to
	// world space, and every material. It is used for the buffer format.
	Flattened
)

func (m Mode) String() string {
	switch m {
	case Hierarchical:
		return "hierarchical"
	case Flattened:
		return "flattened"
	}
	return "Mode(" + strconv.Itoa(int(m)) + ")"
}

// Exporter builds documents from host scenes. An Exporter holds no state
// between calls.
type Exporter struct {
	Mode Mode
	// TextureDir is prepended to the texture paths of exported materials.
	TextureDir string
	// Exporter is written to the meta section.
	Exporter string
	// Now returns the export timestamp. Nil uses time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// export holds the state of a single Export call.
type export struct {
	opts      Exporter
	log       *slog.Logger
	doc       *data3d.Document
	source    MaterialSource
	table     *material.Table
	names     map[string]string
	meshNames map[string]int
}

// Export returns a document holding the objects of scene. Materials
// referenced by material slots are looked up in materials; identical
// materials are merged under the first name seen.
func (e Exporter) Export(scene Scene, materials MaterialSource) (*data3d.Document, error) {
	x := &export{
		opts:      e,
		log:       e.Logger,
		doc:       data3d.NewDocument(),
		source:    materials,
		table:     material.NewTable(),
		names:     map[string]string{},
		meshNames: map[string]int{},
	}
	if x.log == nil {
		x.log = slog.New(slog.DiscardHandler)
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	x.doc.Meta = data3d.Meta{
		Version:   data3d.FormatVersion,
		Exporter:  e.Exporter,
		Timestamp: now().UTC().Format(time.RFC3339),
	}
	root := x.doc.Node(x.doc.Root())
	root.ID = data3d.GenerateNodeID()

	switch e.Mode {
	case Hierarchical:
		for i := range scene.Objects {
			x.hierarchical(x.doc.Root(), &scene.Objects[i])
		}
	case Flattened:
		for i := range scene.Objects {
			x.flattened(mgl32.Ident4(), &scene.Objects[i])
		}
		root := x.doc.Node(x.doc.Root())
		for _, m := range x.table.Materials() {
			root.SetMaterial(m)
		}
	default:
		return nil, fmt.Errorf("unknown export mode %d", e.Mode)
	}

	x.log.Info("exported scene",
		slog.String("mode", e.Mode.String()),
		slog.Int("nodes", x.doc.Len()),
		slog.Int("materials", x.table.Len()),
	)
	return x.doc, nil
}

// material returns the name under which the host material is exported.
func (x *export) material(name string) string {
	if n, ok := x.names[name]; ok {
		return n
	}
	m, ok := x.source[name]
	if !ok && name == material.DefaultName {
		m = material.Default()
	} else if !ok {
		x.log.Warn("material not found, using default", slog.String("material", name))
		m = material.Default()
	}
	m = m.Copy()
	m.Name = name
	if x.opts.TextureDir != "" {
		for _, key := range material.TextureKeys {
			if p, ok := m.Text(key); ok && p != "" {
				m.Set(key, material.TexturePath(x.opts.TextureDir, p))
			}
		}
	}
	n, dup := x.table.Add(m)
	if dup {
		x.log.Debug("merged identical material", slog.String("material", name), slog.String("into", n))
	}
	x.names[name] = n
	return n
}

// meshes splits the mesh of obj by material.
func (x *export) meshes(obj *Object) []data3d.Mesh {
	if len(obj.Mesh.Triangles) == 0 {
		return nil
	}
	src := obj.Mesh
	if src.Name == "" {
		src.Name = obj.Name
	}
	meshes, info := mesh.Split(src, obj.MaterialSlots)
	if info.Dropped > 0 {
		x.log.Warn("triangles with unknown material slot dropped",
			slog.String("mesh", src.Name),
			slog.Int("triangles", info.Dropped),
		)
	}
	if info.LightmapOutOfRange {
		x.log.Info("lightmap UVs outside [0, 1]", slog.String("mesh", src.Name))
	}
	for i := range meshes {
		if meshes[i].Material != "" {
			meshes[i].Material = x.material(meshes[i].Material)
		}
	}
	return meshes
}

func (x *export) hierarchical(parent data3d.Ref, obj *Object) {
	ref := x.doc.AddNode(parent)
	node := x.doc.Node(ref)
	node.ID = data3d.GenerateNodeID()
	node.Position = obj.Position
	node.Rotation = obj.Rotation
	for _, m := range x.meshes(obj) {
		node.SetMesh(m)
		if m.Material == "" || node.Material(m.Material) != nil {
			continue
		}
		mat, _ := x.table.Get(m.Material)
		node.SetMaterial(mat)
	}
	node.ListKeys = len(node.Materials) > 0
	for i := range obj.Children {
		x.hierarchical(ref, &obj.Children[i])
	}
}

// flattened adds the meshes of obj and its descendants to the root node,
// transformed by the world matrix of each object.
func (x *export) flattened(parent mgl32.Mat4, obj *Object) {
	world := parent.Mul4(localMatrix(obj.Position, obj.Rotation))
	root := x.doc.Node(x.doc.Root())
	for _, m := range x.meshes(obj) {
		transform(&m, world)
		if m.Material == "" {
			m.Material = x.material(material.DefaultName)
		}
		m.Name = x.uniqueMeshName(m.Name)
		root.SetMesh(m)
	}
	for i := range obj.Children {
		x.flattened(world, &obj.Children[i])
	}
}

func (x *export) uniqueMeshName(name string) string {
	n := x.meshNames[name]
	x.meshNames[name] = n + 1
	if n == 0 {
		return name
	}
	unique := name + "-" + strconv.Itoa(n+1)
	x.log.Warn("duplicate mesh name", slog.String("mesh", name), slog.String("renamed", unique))
	return x.uniqueMeshName(unique)
}

func localMatrix(pos, rot [3]float64) mgl32.Mat4 {
	q := mgl32.AnglesToQuat(
		mgl32.DegToRad(float32(rot[0])),
		mgl32.DegToRad(float32(rot[1])),
		mgl32.DegToRad(float32(rot[2])),
		mgl32.XYZ,
	)
	return mgl32.Translate3D(float32(pos[0]), float32(pos[1]), float32(pos[2])).Mul4(q.Mat4())
}

// transform applies a rigid transform to the positions and normals of m.
func transform(m *data3d.Mesh, world mgl32.Mat4) {
	if world == mgl32.Ident4() {
		return
	}
	for i := 0; i+3 <= len(m.Positions); i += 3 {
		p := mgl32.TransformCoordinate(mgl32.Vec3{m.Positions[i], m.Positions[i+1], m.Positions[i+2]}, world)
		copy(m.Positions[i:i+3], p[:])
	}
	for i := 0; i+3 <= len(m.Normals); i += 3 {
		n := mgl32.TransformNormal(mgl32.Vec3{m.Normals[i], m.Normals[i+1], m.Normals[i+2]}, world)
		if n.Len() > 0 {
			n = n.Normalize()
		}
		copy(m.Normals[i:i+3], n[:])
	}
}
