package mesh

import (
	"fmt"

	"github.com/data3d-io/data3d"
)

// Layout describes an interleaved vertex stream. Offsets are counted in
// float32 elements from the start of a vertex, and are -1 for absent
// attributes.
type Layout struct {
	Stride     int
	Position   int
	Normal     int
	UV         int
	UVLightmap int
}

// LayoutOf returns the layout of the interleaved stream of m: position,
// normal, then the UV channels that m has.
func LayoutOf(m *data3d.Mesh) Layout {
	l := Layout{Position: 0, Normal: 3, UV: -1, UVLightmap: -1, Stride: 6}
	if m.UVs != nil {
		l.UV = l.Stride
		l.Stride += 2
	}
	if m.UVsLightmap != nil {
		l.UVLightmap = l.Stride
		l.Stride += 2
	}
	return l
}

// Interleave returns the arrays of m as a single vertex stream, as consumed
// by renderers.
func Interleave(m *data3d.Mesh) ([]float32, Layout) {
	l := LayoutOf(m)
	n := m.VertexCount()
	stream := make([]float32, n*l.Stride)
	for i := 0; i < n; i++ {
		v := stream[i*l.Stride:]
		copy(v[l.Position:l.Position+3], m.Positions[3*i:])
		if 3*i+3 <= len(m.Normals) {
			copy(v[l.Normal:l.Normal+3], m.Normals[3*i:])
		}
		if l.UV >= 0 && 2*i+2 <= len(m.UVs) {
			copy(v[l.UV:l.UV+2], m.UVs[2*i:])
		}
		if l.UVLightmap >= 0 && 2*i+2 <= len(m.UVsLightmap) {
			copy(v[l.UVLightmap:l.UVLightmap+2], m.UVsLightmap[2*i:])
		}
	}
	return stream, l
}

// Deinterleave splits a vertex stream back into the arrays of a mesh.
func Deinterleave(stream []float32, l Layout, name string) (data3d.Mesh, error) {
	if l.Stride <= 0 || l.Position < 0 || l.Position+3 > l.Stride || l.Normal < 0 || l.Normal+3 > l.Stride {
		return data3d.Mesh{}, fmt.Errorf("invalid layout %+v", l)
	}
	if (l.UV >= 0 && l.UV+2 > l.Stride) || (l.UVLightmap >= 0 && l.UVLightmap+2 > l.Stride) {
		return data3d.Mesh{}, fmt.Errorf("invalid layout %+v", l)
	}
	if len(stream)%l.Stride != 0 {
		return data3d.Mesh{}, fmt.Errorf("stream length %d is not a multiple of stride %d", len(stream), l.Stride)
	}
	n := len(stream) / l.Stride
	m := data3d.Mesh{
		Name:      name,
		Positions: make([]float32, 0, n*3),
		Normals:   make([]float32, 0, n*3),
	}
	if l.UV >= 0 {
		m.UVs = make([]float32, 0, n*2)
	}
	if l.UVLightmap >= 0 {
		m.UVsLightmap = make([]float32, 0, n*2)
	}
	for i := 0; i < n; i++ {
		v := stream[i*l.Stride : (i+1)*l.Stride]
		m.Positions = append(m.Positions, v[l.Position:l.Position+3]...)
		m.Normals = append(m.Normals, v[l.Normal:l.Normal+3]...)
		if l.UV >= 0 {
			m.UVs = append(m.UVs, v[l.UV:l.UV+2]...)
		}
		if l.UVLightmap >= 0 {
			m.UVsLightmap = append(m.UVsLightmap, v[l.UVLightmap:l.UVLightmap+2]...)
		}
	}
	return m, nil
}
