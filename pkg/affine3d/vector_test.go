package affine3d

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVector4Basics(t *testing.T) {
	a := V4(1, 2, 3, 4)
	b := V4(4, 3, 2, 1)

	assert.Equal(t, V4(5, 5, 5, 5), a.Add(b))
	assert.Equal(t, V4(-3, -1, 1, 3), a.Sub(b))
	assert.Equal(t, V4(2, 4, 6, 8), a.Scale(2))
	assert.Equal(t, float32(20), a.Dot(b))
	assert.Equal(t, float32(16), a.Dot3(b))
}

func TestVector4Cross3(t *testing.T) {
	x := Direction(1, 0, 0)
	y := Direction(0, 1, 0)
	assert.Equal(t, Direction(0, 0, 1), x.Cross3(y))
	assert.Equal(t, Direction(0, 0, -1), y.Cross3(x))
}

func TestVector4Normalize3(t *testing.T) {
	n := Point(3, 0, 4).Normalize3()
	assert.InDelta(t, 0.6, n.X, tol)
	assert.InDelta(t, 0.8, n.Z, tol)
	assert.Equal(t, float32(1), n.W)

	assert.Equal(t, Vector4{}, Vector4{}.Normalize3())
}

func TestVector4PerspectiveDivide(t *testing.T) {
	assert.Equal(t, V4(1, 2, 3, 1), V4(2, 4, 6, 2).PerspectiveDivide())
	assert.Equal(t, V4(2, 4, 6, 0), V4(2, 4, 6, 0).PerspectiveDivide())
}

func TestVector3AndColors(t *testing.T) {
	assert.Equal(t, V3(2, 6, 12), V3(1, 2, 3).Mul(V3(2, 3, 4)))
	assert.Equal(t, V3(0.5, 1, 1.5), V3(1, 2, 3).Scale(0.5))
	assert.Equal(t, V3(1, 1, 1), V3(0.5, 0, 1).Add(V3(0.5, 1, 0)))

	c := RGBA(0.1, 0.2, 0.3, 1)
	assert.Equal(t, c, c.Vector4().ColorRGBA())
	assert.Equal(t, V3(0.1, 0.2, 0.3), c.Vector4().XYZ())
}

func TestDegreesToRadians(t *testing.T) {
	assert.InDelta(t, 3.14159265, DegreesToRadians(180), tol)
	assert.InDelta(t, 1.57079633, DegreesToRadians(90), tol)
	assert.Equal(t, float32(0), DegreesToRadians(0))
}
