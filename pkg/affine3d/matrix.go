package affine3d

import (
	"math"

	"github.com/chewxy/math32"
)

// Matrix4x4 is a 4x4 matrix stored as four row vectors.
//
// Points are row vectors multiplied on the left:
//
//	p' = p.X*X + p.Y*Y + p.Z*Z + p.W*W
//
// which is the same memory a column-major shader reads as columns X..W.
//
// The zero value is the zero matrix, not the identity. Use NewMatrix4x4.
type Matrix4x4 struct {
	X, Y, Z, W Vector4
}

// NewMatrix4x4 returns the identity matrix.
func NewMatrix4x4() Matrix4x4 {
	return Matrix4x4{
		X: Vector4{1, 0, 0, 0},
		Y: Vector4{0, 1, 0, 0},
		Z: Vector4{0, 0, 1, 0},
		W: Vector4{0, 0, 0, 1},
	}
}

// Identity returns the identity matrix.
func Identity() Matrix4x4 {
	return NewMatrix4x4()
}

// DegreesToRadians converts an angle in degrees to radians.
func DegreesToRadians(deg float32) float32 {
	return deg * float32(math.Pi/180.0)
}

// RotationAboutAxis returns the rotation of angle radians about axis.
//
// The xyz part of axis must be a unit vector; it is not normalised, and a
// non-unit axis produces a scaling or skewing matrix. axis.W is ignored.
func RotationAboutAxis(axis Vector4, angle float32) Matrix4x4 {
	c := math32.Cos(angle)
	s := math32.Sin(angle)
	t := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z

	return Matrix4x4{
		X: Vector4{x*x + (1-x*x)*c, x*y*t - z*s, x*z*t + y*s, 0},
		Y: Vector4{x*y*t + z*s, y*y + (1-y*y)*c, y*z*t - x*s, 0},
		Z: Vector4{x*z*t - y*s, y*z*t + x*s, z*z + (1-z*z)*c, 0},
		W: Vector4{0, 0, 0, 1},
	}
}

// PerspectiveProjection returns a perspective projection.
// aspect is width/height, fieldOfViewY is the vertical field of view in
// degrees and near/far are the positive clip distances.
//
// Only five cells differ from the identity; W.W stays 1. Inputs are not
// checked: aspect 0 yields an infinite X.X and fieldOfViewY >= 180 yields a
// degenerate Y.Y.
func PerspectiveProjection(aspect, fieldOfViewY, near, far float32) Matrix4x4 {
	fovRadians := DegreesToRadians(fieldOfViewY)

	yScale := 1 / math32.Tan(fovRadians*0.5)
	xScale := yScale / aspect
	zRange := far - near
	zScale := -(far + near) / zRange
	wzScale := -2 * far * near / zRange

	m := NewMatrix4x4()
	m.X.X = xScale
	m.Y.Y = yScale
	m.Z.Z = zScale
	m.Z.W = -1
	m.W.Z = wzScale
	return m
}

// Translation returns a matrix that moves row-vector points by (x, y, z).
func Translation(x, y, z float32) Matrix4x4 {
	m := NewMatrix4x4()
	m.W = Vector4{x, y, z, 1}
	return m
}

// Scaling returns a non-uniform scaling matrix.
func Scaling(x, y, z float32) Matrix4x4 {
	m := NewMatrix4x4()
	m.X.X = x
	m.Y.Y = y
	m.Z.Z = z
	return m
}

// Row returns row i (0..3). It panics for any other index.
func (m Matrix4x4) Row(i int) Vector4 {
	switch i {
	case 0:
		return m.X
	case 1:
		return m.Y
	case 2:
		return m.Z
	case 3:
		return m.W
	}
	panic("affine3d: row index out of range")
}

// At returns the cell at (row, col).
func (m Matrix4x4) At(row, col int) float32 {
	r := m.Row(row)
	switch col {
	case 0:
		return r.X
	case 1:
		return r.Y
	case 2:
		return r.Z
	case 3:
		return r.W
	}
	panic("affine3d: column index out of range")
}

// Mul returns the product a*b. Under the row-vector convention the result
// applies a first, then b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Matrix4x4) Mul(b Matrix4x4) Matrix4x4 {
	return Matrix4x4{
		X: a.X.MulMatrix(b),
		Y: a.Y.MulMatrix(b),
		Z: a.Z.MulMatrix(b),
		W: a.W.MulMatrix(b),
	}
}

// MulMatrix returns the row vector v times m.
func (v Vector4) MulMatrix(m Matrix4x4) Vector4 {
	return Vector4{
		v.X*m.X.X + v.Y*m.Y.X + v.Z*m.Z.X + v.W*m.W.X,
		v.X*m.X.Y + v.Y*m.Y.Y + v.Z*m.Z.Y + v.W*m.W.Y,
		v.X*m.X.Z + v.Y*m.Y.Z + v.Z*m.Z.Z + v.W*m.W.Z,
		v.X*m.X.W + v.Y*m.Y.W + v.Z*m.Z.W + v.W*m.W.W,
	}
}

// Transpose returns the transposed matrix.
func (m Matrix4x4) Transpose() Matrix4x4 {
	return Matrix4x4{
		X: Vector4{m.X.X, m.Y.X, m.Z.X, m.W.X},
		Y: Vector4{m.X.Y, m.Y.Y, m.Z.Y, m.W.Y},
		Z: Vector4{m.X.Z, m.Y.Z, m.Z.Z, m.W.Z},
		W: Vector4{m.X.W, m.Y.W, m.Z.W, m.W.W},
	}
}

// ApproxEqual reports whether every cell of a and b differs by at most eps.
//
//nolint:st1016 // a,b naming convention is clearer for comparisons
func (a Matrix4x4) ApproxEqual(b Matrix4x4, eps float32) bool {
	for row := range 4 {
		for col := range 4 {
			if math32.Abs(a.At(row, col)-b.At(row, col)) > eps {
				return false
			}
		}
	}
	return true
}
