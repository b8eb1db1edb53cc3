package data3d

import (
	"errors"
	"fmt"

	"github.com/data3d-io/data3d/numjson"
)

var (
	ErrPositionsLength = errors.New("positions length is not a whole number of triangles")
	ErrNormalsLength   = errors.New("normals length does not match positions")
	ErrUVsLength       = errors.New("uvs length does not match vertex count")
	ErrLightmapLength  = errors.New("uvsLightmap length does not match vertex count")
)

// Mesh is a triangle mesh. Arrays are stored per face vertex: every three
// vertices form a triangle, and vertices are not shared between triangles.
type Mesh struct {
	Name string

	// Material is the name of the material of the mesh. It refers to a
	// material of the node holding the mesh or, for flattened documents, of
	// an ancestor.
	Material string

	// Positions and Normals hold three components per vertex. UVs and
	// UVsLightmap hold two components per vertex, and are nil when absent.
	Positions   []float32
	Normals     []float32
	UVs         []float32
	UVsLightmap []float32

	// Position and Rotation offset the mesh locally. Rotation is in degrees.
	Position     [3]float64
	Rotation     [3]float64
	RotationUnit Unit

	// HasTransform indicates whether Position and Rotation are written even
	// when zero.
	HasTransform bool

	// Extra holds unrecognized mesh keys.
	Extra *numjson.Object
}

// VertexCount returns the number of vertices of the mesh.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// FaceCount returns the number of triangles of the mesh.
func (m *Mesh) FaceCount() int {
	return len(m.Positions) / 9
}

// Array returns the array of the mesh that has the given key, which is one of
// MeshArrayKeys.
func (m *Mesh) Array(key string) []float32 {
	switch key {
	case KeyPositions:
		return m.Positions
	case KeyNormals:
		return m.Normals
	case KeyUVs:
		return m.UVs
	case KeyUVsLightmap:
		return m.UVsLightmap
	}
	return nil
}

// SetArray sets the array of the mesh that has the given key.
func (m *Mesh) SetArray(key string, a []float32) {
	switch key {
	case KeyPositions:
		m.Positions = a
	case KeyNormals:
		m.Normals = a
	case KeyUVs:
		m.UVs = a
	case KeyUVsLightmap:
		m.UVsLightmap = a
	}
}

// Validate checks that the arrays of the mesh have consistent lengths.
func (m *Mesh) Validate() error {
	n := len(m.Positions)
	if n%9 != 0 {
		return fmt.Errorf("%w: %d", ErrPositionsLength, n)
	}
	if len(m.Normals) != n {
		return fmt.Errorf("%w: %d normals for %d positions", ErrNormalsLength, len(m.Normals), n)
	}
	if m.UVs != nil && len(m.UVs) != n/3*2 {
		return fmt.Errorf("%w: %d uvs for %d vertices", ErrUVsLength, len(m.UVs), n/3)
	}
	if m.UVsLightmap != nil && len(m.UVsLightmap) != n/3*2 {
		return fmt.Errorf("%w: %d uvsLightmap for %d vertices", ErrLightmapLength, len(m.UVsLightmap), n/3)
	}
	return nil
}

// Copy returns a deep copy of the mesh.
func (m Mesh) Copy() Mesh {
	c := m
	c.Positions = cloneFloats(m.Positions)
	c.Normals = cloneFloats(m.Normals)
	c.UVs = cloneFloats(m.UVs)
	c.UVsLightmap = cloneFloats(m.UVsLightmap)
	c.Extra = m.Extra.Clone()
	return c
}

func cloneFloats(a []float32) []float32 {
	if a == nil {
		return nil
	}
	return append(make([]float32, 0, len(a)), a...)
}
