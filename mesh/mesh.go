// Package mesh converts between data3d mesh arrays and the triangles of a
// host scene.
//
// Mesh arrays hold one record per face corner: vertices are never shared
// between faces. Decoding is therefore a pass-through, where the indices of
// a face are the positions of its corners in the arrays. Encoding
// concatenates the corners of each host triangle in order.
package mesh

import (
	"github.com/data3d-io/data3d"
	"github.com/go-gl/mathgl/mgl32"
)

// Tuple holds the vertex indices of the corners of a face in one array.
type Tuple []int

// Face holds the index tuples of a triangle. Each index refers to a vertex,
// which occupies 3 elements of the positions and normals arrays, and 2
// elements of the UV arrays. The UV tuples are empty when the mesh has no
// such channel.
type Face struct {
	Position   Tuple
	Normal     Tuple
	UV         Tuple
	UVLightmap Tuple
}

// FaceList is the list of faces of a mesh.
type FaceList []Face

// Expand returns the faces of m.
func Expand(m *data3d.Mesh) (FaceList, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	faces := make(FaceList, m.FaceCount())
	for i := range faces {
		t := Tuple{3 * i, 3*i + 1, 3*i + 2}
		f := Face{Position: t, Normal: t, UV: Tuple{}, UVLightmap: Tuple{}}
		if m.UVs != nil {
			f.UV = t
		}
		if m.UVsLightmap != nil {
			f.UVLightmap = t
		}
		faces[i] = f
	}
	return faces, nil
}

// Vertex is a face corner of a host triangle.
type Vertex struct {
	Position   mgl32.Vec3
	Normal     mgl32.Vec3
	UV         mgl32.Vec2
	UVLightmap mgl32.Vec2
}

// Triangle is a host triangle, with the index of its material slot.
type Triangle struct {
	Vertices [3]Vertex
	Material int
}

// Source is a host mesh, in the shape given to the exporter.
type Source struct {
	Name      string
	Triangles []Triangle
	// HasUV and HasUVLightmap report whether the host mesh has each UV
	// channel. When false, the UV fields of its vertices are ignored.
	HasUV         bool
	HasUVLightmap bool
}

// Flatten returns a mesh holding the corners of tris in order.
func Flatten(name string, tris []Triangle, hasUV, hasUVLightmap bool) data3d.Mesh {
	n := len(tris) * 3
	m := data3d.Mesh{
		Name:      name,
		Positions: make([]float32, 0, n*3),
		Normals:   make([]float32, 0, n*3),
	}
	if hasUV {
		m.UVs = make([]float32, 0, n*2)
	}
	if hasUVLightmap {
		m.UVsLightmap = make([]float32, 0, n*2)
	}
	for _, tri := range tris {
		for _, v := range tri.Vertices {
			m.Positions = append(m.Positions, v.Position[:]...)
			m.Normals = append(m.Normals, v.Normal[:]...)
			if hasUV {
				m.UVs = append(m.UVs, v.UV[:]...)
			}
			if hasUVLightmap {
				m.UVsLightmap = append(m.UVsLightmap, v.UVLightmap[:]...)
			}
		}
	}
	return m
}

// Gather returns the triangles of faces, reading corners from m. It is the
// inverse of Flatten. The material index of each triangle is zero.
func Gather(m *data3d.Mesh, faces FaceList) []Triangle {
	tris := make([]Triangle, len(faces))
	for i, f := range faces {
		tri := &tris[i]
		for c := 0; c < 3; c++ {
			v := &tri.Vertices[c]
			if c < len(f.Position) {
				v.Position = vec3(m.Positions, f.Position[c])
			}
			if c < len(f.Normal) {
				v.Normal = vec3(m.Normals, f.Normal[c])
			}
			if c < len(f.UV) {
				v.UV = vec2(m.UVs, f.UV[c])
			}
			if c < len(f.UVLightmap) {
				v.UVLightmap = vec2(m.UVsLightmap, f.UVLightmap[c])
			}
		}
	}
	return tris
}

func vec3(a []float32, i int) mgl32.Vec3 {
	if i < 0 || 3*i+3 > len(a) {
		return mgl32.Vec3{}
	}
	return mgl32.Vec3{a[3*i], a[3*i+1], a[3*i+2]}
}

func vec2(a []float32, i int) mgl32.Vec2 {
	if i < 0 || 2*i+2 > len(a) {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{a[2*i], a[2*i+1]}
}

// Bounds returns the axis-aligned bounding box of the positions of m. Both
// corners are zero when m has no vertices.
func Bounds(m *data3d.Mesh) (lo, hi mgl32.Vec3) {
	if len(m.Positions) < 3 {
		return lo, hi
	}
	lo = vec3(m.Positions, 0)
	hi = lo
	for i := 1; i < len(m.Positions)/3; i++ {
		p := vec3(m.Positions, i)
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], p[k])
			hi[k] = max(hi[k], p[k])
		}
	}
	return lo, hi
}
