// Package affine3d provides the small 4x4 matrix and vector types that feed
// the uniform block of the teapot renderer.
//
// All types are plain float32 value structs. Their field order is the layout
// the renderer reads, so fields must not be reordered.
package affine3d

import "github.com/chewxy/math32"

// Vector4 is a homogeneous coordinate, an RGBA colour or a light position.
type Vector4 struct {
	X, Y, Z, W float32
}

// V4 creates a new Vector4.
func V4(x, y, z, w float32) Vector4 {
	return Vector4{x, y, z, w}
}

// Point returns the homogeneous point (x, y, z, 1).
func Point(x, y, z float32) Vector4 {
	return Vector4{x, y, z, 1}
}

// Direction returns the homogeneous direction (x, y, z, 0).
func Direction(x, y, z float32) Vector4 {
	return Vector4{x, y, z, 0}
}

// Add returns the component-wise sum.
//
//nolint:st1016 // a+b naming convention is clearer for vector operations
func (a Vector4) Add(b Vector4) Vector4 {
	return Vector4{a.X + b.X, a.Y + b.Y, a.Z + b.Z, a.W + b.W}
}

// Sub returns the component-wise difference.
//
//nolint:st1016 // a-b naming convention is clearer for vector operations
func (a Vector4) Sub(b Vector4) Vector4 {
	return Vector4{a.X - b.X, a.Y - b.Y, a.Z - b.Z, a.W - b.W}
}

// Scale returns v * s.
func (v Vector4) Scale(s float32) Vector4 {
	return Vector4{v.X * s, v.Y * s, v.Z * s, v.W * s}
}

// Dot returns the four-component dot product.
//
//nolint:st1016 // a·b naming convention is clearer for vector operations
func (a Vector4) Dot(b Vector4) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
}

// Dot3 returns the dot product of the xyz parts, ignoring W.
//
//nolint:st1016 // a·b naming convention is clearer for vector operations
func (a Vector4) Dot3(b Vector4) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross3 returns the cross product of the xyz parts as a direction.
//
//nolint:st1016 // a×b naming convention is clearer for vector operations
func (a Vector4) Cross3(b Vector4) Vector4 {
	return Vector4{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
		0,
	}
}

// Len3 returns the length of the xyz part.
func (v Vector4) Len3() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize3 scales the xyz part to unit length and keeps W.
// The zero vector is returned unchanged.
func (v Vector4) Normalize3() Vector4 {
	l := v.Len3()
	if l == 0 {
		return v
	}
	return Vector4{v.X / l, v.Y / l, v.Z / l, v.W}
}

// PerspectiveDivide divides xyz by W. A zero W leaves xyz untouched.
func (v Vector4) PerspectiveDivide() Vector4 {
	if v.W == 0 {
		return v
	}
	return Vector4{v.X / v.W, v.Y / v.W, v.Z / v.W, 1}
}

// XYZ drops W and returns the rest as an RGB-style triple.
func (v Vector4) XYZ() Vector3 {
	return Vector3{v.X, v.Y, v.Z}
}

// ColorRGBA reinterprets the vector as a colour.
func (v Vector4) ColorRGBA() ColorRGBA {
	return ColorRGBA{v.X, v.Y, v.Z, v.W}
}

// Vector3 is an RGB colour or a reflectivity / intensity triple.
type Vector3 struct {
	R, G, B float32
}

// V3 creates a new Vector3.
func V3(r, g, b float32) Vector3 {
	return Vector3{r, g, b}
}

// Mul returns the component-wise product.
//
//nolint:st1016 // a*b naming convention is clearer for vector operations
func (a Vector3) Mul(b Vector3) Vector3 {
	return Vector3{a.R * b.R, a.G * b.G, a.B * b.B}
}

// Scale returns v * s.
func (v Vector3) Scale(s float32) Vector3 {
	return Vector3{v.R * s, v.G * s, v.B * s}
}

// Add returns the component-wise sum.
//
//nolint:st1016 // a+b naming convention is clearer for vector operations
func (a Vector3) Add(b Vector3) Vector3 {
	return Vector3{a.R + b.R, a.G + b.G, a.B + b.B}
}

// ColorRGBA is an RGBA colour with components in [0, 1].
type ColorRGBA struct {
	R, G, B, A float32
}

// RGBA creates a new ColorRGBA.
func RGBA(r, g, b, a float32) ColorRGBA {
	return ColorRGBA{r, g, b, a}
}

// Vector4 reinterprets the colour as a vector.
func (c ColorRGBA) Vector4() Vector4 {
	return Vector4{c.R, c.G, c.B, c.A}
}

// TexCoords is a UV texture coordinate pair.
type TexCoords struct {
	U, V float32
}

// ColoredVertex is a clip-space position with a per-vertex colour.
type ColoredVertex struct {
	Position Vector4
	Color    ColorRGBA
}

// Vertex is a position, a normal and a texture coordinate.
type Vertex struct {
	Position  Vector4
	Normal    Vector4
	TexCoords TexCoords
}
