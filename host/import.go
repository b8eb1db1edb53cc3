package host

import (
	"log/slog"

	"github.com/data3d-io/data3d"
	"github.com/data3d-io/data3d/errors"
	"github.com/data3d-io/data3d/material"
	"github.com/data3d-io/data3d/mesh"
)

// Instance is a node of a decoded document, in the shape consumed by a host
// scene-graph builder.
type Instance struct {
	ID string
	// Parent is the index of the parent instance, or -1 for the root.
	Parent   int
	Position [3]float64
	// Rotation is in degrees.
	Rotation [3]float64
	Meshes   []MeshInstance
}

// MeshInstance is a mesh of a decoded document, with its resolved material.
type MeshInstance struct {
	Name      string
	Faces     mesh.FaceList
	Triangles []mesh.Triangle
	HasUV     bool
	// HasUVLightmap reports whether the mesh has lightmap coordinates.
	HasUVLightmap bool
	// Material is nil when the mesh has no material, or when its material
	// could not be found. Texture paths begin with a slash.
	Material *data3d.Material
	Shader   material.Inputs
	Bake     material.BakeInfo
}

// Importer converts documents into instances.
type Importer struct {
	Logger *slog.Logger
}

// Import returns the nodes of doc in pre-order. Meshes that cannot be
// expanded, and material references that cannot be resolved, are skipped
// and reported in warn. Materials are looked up on the node of the mesh,
// then on its ancestors.
func (im Importer) Import(doc *data3d.Document) (instances []Instance, warn error) {
	log := im.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	var warns errors.Errors
	index := map[data3d.Ref]int{}
	doc.Walk(func(ref data3d.Ref, _ int) bool {
		node := doc.Node(ref)
		inst := Instance{
			ID:       node.ID,
			Parent:   -1,
			Position: node.Position,
			Rotation: node.Rotation,
		}
		if p := doc.Parent(ref); p != data3d.NoRef {
			inst.Parent = index[p]
		}
		for i := range node.Meshes {
			m := &node.Meshes[i]
			faces, err := mesh.Expand(m)
			if err != nil {
				warns = append(warns, &data3d.MeshError{Path: doc.Path(ref), Mesh: m.Name, Cause: err})
				continue
			}
			mi := MeshInstance{
				Name:          m.Name,
				Faces:         faces,
				Triangles:     mesh.Gather(m, faces),
				HasUV:         m.UVs != nil,
				HasUVLightmap: m.UVsLightmap != nil,
			}
			if m.Material != "" {
				if mat, _ := doc.ResolveMaterial(ref, m.Material, true); mat != nil {
					normalized := material.NormalizeTexturePaths(*mat)
					mi.Material = &normalized
					mi.Shader = material.ShaderInputs(normalized)
					mi.Bake = material.BakeOf(normalized)
				} else {
					warns = append(warns, &data3d.ReferenceError{
						Path: doc.Path(ref),
						Kind: "material",
						Name: m.Material,
						Mesh: m.Name,
					})
				}
			}
			inst.Meshes = append(inst.Meshes, mi)
		}
		index[ref] = len(instances)
		instances = append(instances, inst)
		return true
	})
	for _, w := range warns {
		log.Debug("import", slog.String("warning", w.Error()))
	}
	log.Info("imported document", slog.Int("nodes", len(instances)), slog.Int("warnings", len(warns)))
	return instances, warns.Return()
}
