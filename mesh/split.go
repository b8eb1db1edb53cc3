package mesh

import (
	"github.com/data3d-io/data3d"
)

// SplitInfo reports problems found while splitting a mesh. Neither stops
// the export.
type SplitInfo struct {
	// Dropped is the number of triangles whose material index does not
	// refer to a slot.
	Dropped int
	// LightmapOutOfRange reports whether a lightmap UV lies outside
	// [0, 1].
	LightmapOutOfRange bool
}

// Split returns one mesh per material of src that is used by at least one
// triangle, in slot order. Each mesh is named "{name}-{material}" and refers
// to its material.
//
// Slots holding the same material share one mesh. Triangles in a slot with
// an empty name are collected into a mesh named after src, with no material.
// When materials is empty, all triangles form that mesh.
func Split(src Source, materials []string) ([]data3d.Mesh, SplitInfo) {
	var info SplitInfo
	if src.HasUVLightmap {
		for _, tri := range src.Triangles {
			for _, v := range tri.Vertices {
				if v.UVLightmap[0] < 0 || v.UVLightmap[0] > 1 || v.UVLightmap[1] < 0 || v.UVLightmap[1] > 1 {
					info.LightmapOutOfRange = true
				}
			}
		}
	}

	if len(materials) == 0 {
		return []data3d.Mesh{Flatten(src.Name, src.Triangles, src.HasUV, src.HasUVLightmap)}, info
	}

	// Group slots by material name, keeping the order of first appearance.
	group := make([]int, len(materials))
	var names []string
	index := map[string]int{}
	for i, name := range materials {
		g, ok := index[name]
		if !ok {
			g = len(names)
			index[name] = g
			names = append(names, name)
		}
		group[i] = g
	}

	tris := make([][]Triangle, len(names))
	for _, tri := range src.Triangles {
		if tri.Material < 0 || tri.Material >= len(materials) {
			info.Dropped++
			continue
		}
		g := group[tri.Material]
		tris[g] = append(tris[g], tri)
	}

	var meshes []data3d.Mesh
	for g, name := range names {
		if len(tris[g]) == 0 {
			continue
		}
		meshName := src.Name
		if name != "" {
			meshName = src.Name + "-" + name
		}
		m := Flatten(meshName, tris[g], src.HasUV, src.HasUVLightmap)
		m.Material = name
		meshes = append(meshes, m)
	}
	return meshes, info
}
