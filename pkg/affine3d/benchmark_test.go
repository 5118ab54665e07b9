package affine3d

import (
	"testing"
)

func BenchmarkRotationAboutAxis(b *testing.B) {
	axis := Direction(0, -1, 0)

	for b.Loop() {
		_ = RotationAboutAxis(axis, 0.5)
	}
}

func BenchmarkPerspectiveProjection(b *testing.B) {
	for b.Loop() {
		_ = PerspectiveProjection(1.333, 60, 0.1, 100)
	}
}

func BenchmarkMatrixMul(b *testing.B) {
	m1 := RotationAboutAxis(Direction(0, 1, 0), 0.5)
	m2 := PerspectiveProjection(1.333, 60, 0.1, 100)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMulMatrix(b *testing.B) {
	m := RotationAboutAxis(Direction(0, 1, 0), 0.5).Mul(PerspectiveProjection(1.333, 60, 0.1, 100))
	v := Point(1, 2, 3)

	for b.Loop() {
		_ = v.MulMatrix(m)
	}
}

func BenchmarkUniformsPut(b *testing.B) {
	u := teapotUniforms()
	buf := make([]byte, UniformsSize)

	for b.Loop() {
		_ = u.Put(buf)
	}
}
