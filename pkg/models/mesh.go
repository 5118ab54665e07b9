// Package models provides mesh loading and the vertex layout the lighting
// pipeline consumes.
package models

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
	"github.com/taigrr/teapot/pkg/affine3d"
)

// VertexStride is the size in bytes of one interleaved vertex produced by
// Mesh.VertexBytes: a float3 position followed by a float3 normal.
const VertexStride = 24

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Indices  []uint32 // Three per triangle, counter-clockwise when front facing

	// Bounding box (calculated on load)
	BoundsMin affine3d.Vector4
	BoundsMax affine3d.Vector4
}

// MeshVertex holds the attributes the lighting pipeline reads.
type MeshVertex struct {
	Position affine3d.Vector4 // W = 1
	Normal   affine3d.Vector4 // W = 0
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, 0),
		Indices:  make([]uint32, 0),
	}
}

// AddTriangle appends a triangle by vertex index.
func (m *Mesh) AddTriangle(a, b, c uint32) {
	m.Indices = append(m.Indices, a, b, c)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = affine3d.Vector4{}, affine3d.Vector4{}
		return
	}

	lo := m.Vertices[0].Position
	hi := lo
	for _, v := range m.Vertices[1:] {
		p := v.Position
		lo = affine3d.Point(math32.Min(lo.X, p.X), math32.Min(lo.Y, p.Y), math32.Min(lo.Z, p.Z))
		hi = affine3d.Point(math32.Max(hi.X, p.X), math32.Max(hi.Y, p.Y), math32.Max(hi.Z, p.Z))
	}
	m.BoundsMin, m.BoundsMax = lo, hi
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() affine3d.Vector4 {
	c := m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
	c.W = 1
	return c
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() affine3d.Vector4 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// CalculateSmoothNormals computes area-weighted averaged vertex normals.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = affine3d.Vector4{}
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		p0 := m.Vertices[a].Position
		p1 := m.Vertices[b].Position
		p2 := m.Vertices[c].Position

		// Not normalized, so larger faces weigh more.
		n := p1.Sub(p0).Cross3(p2.Sub(p0))

		m.Vertices[a].Normal = m.Vertices[a].Normal.Add(n)
		m.Vertices[b].Normal = m.Vertices[b].Normal.Add(n)
		m.Vertices[c].Normal = m.Vertices[c].Normal.Add(n)
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize3()
	}
}

// Transform applies a row-vector transform to positions and normals.
// Normals only receive the upper 3x3 part and are renormalized, which is
// exact for rotations and uniform scales.
func (m *Mesh) Transform(mat affine3d.Matrix4x4) {
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position = v.Position.MulMatrix(mat).PerspectiveDivide()
		n := v.Normal
		n.W = 0
		v.Normal = n.MulMatrix(mat).Normalize3()
		v.Normal.W = 0
	}
	m.CalculateBounds()
}

// Normalize centers the mesh on the origin and scales it uniformly so its
// largest dimension equals size.
func (m *Mesh) Normalize(size float32) {
	m.CalculateBounds()
	dims := m.Size()
	maxDim := math32.Max(dims.X, math32.Max(dims.Y, dims.Z))
	if maxDim <= 0 {
		return
	}

	c := m.Center()
	s := size / maxDim
	m.Transform(affine3d.Translation(-c.X, -c.Y, -c.Z).Mul(affine3d.Scaling(s, s, s)))
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]MeshVertex, len(m.Vertices)),
		Indices:   make([]uint32, len(m.Indices)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Indices, m.Indices)
	return clone
}

// VertexBytes packs the vertices into the interleaved layout the lighting
// pipeline's vertex descriptor expects: position float3 at offset 0,
// normal float3 at offset 12, stride VertexStride, little-endian.
func (m *Mesh) VertexBytes() []byte {
	buf := make([]byte, len(m.Vertices)*VertexStride)
	for i, v := range m.Vertices {
		off := i * VertexStride
		for j, f := range [6]float32{
			v.Position.X, v.Position.Y, v.Position.Z,
			v.Normal.X, v.Normal.Y, v.Normal.Z,
		} {
			binary.LittleEndian.PutUint32(buf[off+j*4:], math.Float32bits(f))
		}
	}
	return buf
}

// hasNormals reports whether any vertex carries a usable normal.
func (m *Mesh) hasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal.Len3() > 0.001 {
			return true
		}
	}
	return false
}
