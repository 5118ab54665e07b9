package models

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/taigrr/teapot/pkg/affine3d"
)

// NewSphere builds a unit-radius UV sphere. It stands in for the teapot when
// no model file is given.
func NewSphere(rings, segments int) *Mesh {
	rings = max(rings, 2)
	segments = max(segments, 3)

	mesh := NewMesh("sphere")
	for i := 0; i <= rings; i++ {
		theta := float32(i) * math.Pi / float32(rings)
		st, ct := math32.Sincos(theta)
		for j := 0; j <= segments; j++ {
			phi := float32(j) * 2 * math.Pi / float32(segments)
			sp, cp := math32.Sincos(phi)
			n := affine3d.Direction(st*cp, ct, st*sp)
			mesh.Vertices = append(mesh.Vertices, MeshVertex{
				Position: affine3d.Point(n.X, n.Y, n.Z),
				Normal:   n,
			})
		}
	}

	stride := uint32(segments + 1)
	for i := range uint32(rings) {
		for j := range uint32(segments) {
			a := i*stride + j
			b := a + stride
			mesh.addOutwardTriangle(a, b, a+1)
			mesh.addOutwardTriangle(a+1, b, b+1)
		}
	}

	mesh.CalculateBounds()
	return mesh
}

// addOutwardTriangle appends a triangle of a mesh centered on the origin,
// flipping it if needed so it winds counter-clockwise seen from outside.
// Degenerate triangles at the poles are dropped.
func (m *Mesh) addOutwardTriangle(a, b, c uint32) {
	p0 := m.Vertices[a].Position
	p1 := m.Vertices[b].Position
	p2 := m.Vertices[c].Position

	n := p1.Sub(p0).Cross3(p2.Sub(p0))
	if n.Len3() < 1e-6 {
		return
	}
	if n.Dot3(p0.Add(p1).Add(p2)) < 0 {
		b, c = c, b
	}
	m.AddTriangle(a, b, c)
}
