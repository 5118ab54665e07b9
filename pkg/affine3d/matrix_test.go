package affine3d

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

const tol = 1e-6

func assertMatrixInDelta(t *testing.T, want, got Matrix4x4, delta float64) {
	t.Helper()
	for row := range 4 {
		for col := range 4 {
			assert.InDeltaf(t, want.At(row, col), got.At(row, col), delta, "cell (%d,%d)", row, col)
		}
	}
}

func TestNewMatrix4x4IsIdentity(t *testing.T) {
	m := NewMatrix4x4()
	for row := range 4 {
		for col := range 4 {
			want := float32(0)
			if row == col {
				want = 1
			}
			assert.Equalf(t, want, m.At(row, col), "cell (%d,%d)", row, col)
		}
	}
	assert.Equal(t, m, Identity())
}

func TestRotationAboutAxisZeroAngle(t *testing.T) {
	axes := []struct {
		name string
		axis Vector4
	}{
		{"x", Direction(1, 0, 0)},
		{"y", Direction(0, 1, 0)},
		{"z", Direction(0, 0, 1)},
		{"non-unit", Direction(2, -3, 0.5)},
	}

	for _, tc := range axes {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, Identity(), RotationAboutAxis(tc.axis, 0))
		})
	}

	t.Run("diagonal", func(t *testing.T) {
		assertMatrixInDelta(t, Identity(), RotationAboutAxis(Direction(1, 1, 1).Normalize3(), 0), tol)
	})
}

func TestRotationAboutAxisHalfTurnY(t *testing.T) {
	m := RotationAboutAxis(Direction(0, 1, 0), math.Pi)
	p := Point(1, 0, 0).MulMatrix(m)

	assert.InDelta(t, -1, p.X, tol)
	assert.InDelta(t, 0, p.Y, tol)
	assert.InDelta(t, 0, p.Z, tol)
	assert.InDelta(t, 1, p.W, tol)

	// A half turn about Y also negates Z and leaves Y alone.
	q := Point(0, 2, 3).MulMatrix(m)
	assert.InDelta(t, 0, q.X, tol)
	assert.InDelta(t, 2, q.Y, tol)
	assert.InDelta(t, -3, q.Z, 1e-5)
}

func TestRotationAboutAxisInverse(t *testing.T) {
	axis := Direction(0, 0, 1)
	const theta = math.Pi / 4

	product := RotationAboutAxis(axis, theta).Mul(RotationAboutAxis(axis, -theta))
	assert.True(t, product.ApproxEqual(Identity(), tol), "got %+v", product)
}

func TestRotationAboutAxisQuarterTurnZRowVector(t *testing.T) {
	// Row vectors rotate the opposite way to column vectors.
	m := RotationAboutAxis(Direction(0, 0, 1), math.Pi/2)
	p := Point(1, 0, 0).MulMatrix(m)
	assert.InDelta(t, 0, p.X, tol)
	assert.InDelta(t, -1, p.Y, tol)

	back := Point(1, 0, 0).MulMatrix(m.Transpose())
	assert.InDelta(t, 1, back.Y, tol)
}

func TestRotationAboutAxisMatchesMathGL(t *testing.T) {
	tests := []struct {
		axis  Vector4
		angle float32
	}{
		{Direction(1, 0, 0), 0.3},
		{Direction(0, 1, 0), -1.2},
		{Direction(0, 0, 1), 2.5},
		{Direction(1, 2, 3).Normalize3(), 0.7},
		{Direction(-0.5, 0.5, 0.7071068), 4},
	}

	for _, tc := range tests {
		got := RotationAboutAxis(tc.axis, tc.angle)
		want := mgl32.HomogRotate3D(tc.angle, mgl32.Vec3{tc.axis.X, tc.axis.Y, tc.axis.Z})
		for row := range 4 {
			for col := range 4 {
				assert.InDeltaf(t, want.At(row, col), got.At(row, col), 1e-5,
					"axis %v angle %v cell (%d,%d)", tc.axis, tc.angle, row, col)
			}
		}
	}
}

func TestRotationAboutAxisNonUnitAxisScales(t *testing.T) {
	m := RotationAboutAxis(Direction(2, 0, 0), math.Pi/2)
	// ax*ax + (1-ax*ax)*cos(pi/2) = 4
	assert.InDelta(t, 4, m.X.X, 1e-5)
	assert.InDelta(t, 0, m.Y.Y, 1e-5)
}

func TestRotationIgnoresAxisW(t *testing.T) {
	a := RotationAboutAxis(V4(0, 1, 0, 0), 1)
	b := RotationAboutAxis(V4(0, 1, 0, 42), 1)
	assert.Equal(t, a, b)
}

func TestPerspectiveProjectionKnownValues(t *testing.T) {
	m := PerspectiveProjection(1, 90, 1, 100)

	assert.InDelta(t, 1, m.X.X, tol)
	assert.InDelta(t, 1, m.Y.Y, tol)
	assert.InDelta(t, -101.0/99.0, m.Z.Z, tol)
	assert.Equal(t, float32(-1), m.Z.W)
	assert.InDelta(t, -200.0/99.0, m.W.Z, tol)

	// Every other cell keeps its identity value.
	want := Identity()
	want.X.X, want.Y.Y, want.Z.Z, want.Z.W, want.W.Z = m.X.X, m.Y.Y, m.Z.Z, m.Z.W, m.W.Z
	assert.Equal(t, want, m)
	assert.Equal(t, float32(1), m.W.W)
}

func TestPerspectiveProjectionProperties(t *testing.T) {
	tests := []struct {
		aspect, fov, near, far float32
	}{
		{1, 60, 0.1, 100},
		{16.0 / 9.0, 45, 0.5, 50},
		{0.75, 120, 1, 2},
		{3, 10, 0.01, 1000},
		{0.5, 179, 2, 3},
	}

	for _, tc := range tests {
		m := PerspectiveProjection(tc.aspect, tc.fov, tc.near, tc.far)
		assert.Equal(t, float32(-1), m.Z.W)
		assert.InEpsilon(t, m.Y.Y, m.X.X*tc.aspect, 1e-6)
		assert.Greater(t, m.Y.Y, float32(0))
	}
}

func TestPerspectiveProjectionPowerOfTwoAspectIsExact(t *testing.T) {
	for _, aspect := range []float32{0.25, 0.5, 1, 2, 4, 8} {
		m := PerspectiveProjection(aspect, 60, 0.1, 100)
		assert.Equal(t, m.Y.Y, m.X.X*aspect, "aspect %v", aspect)
	}
}

func TestPerspectiveProjectionZeroAspectIsInfinite(t *testing.T) {
	m := PerspectiveProjection(0, 60, 0.1, 100)
	assert.True(t, math.IsInf(float64(m.X.X), 1), "X.X = %v", m.X.X)
	assert.False(t, math.IsInf(float64(m.Y.Y), 0))
}

func TestPerspectiveProjectionDegenerateFieldOfView(t *testing.T) {
	// 180 degrees puts tan at its pole, so yScale collapses toward zero.
	m := PerspectiveProjection(1, 180, 0.1, 100)
	assert.Less(t, math.Abs(float64(m.Y.Y)), 1e-3)

	// Past 180 the tangent is negative and so is yScale.
	m = PerspectiveProjection(1, 270, 0.1, 100)
	assert.InDelta(t, -1, m.Y.Y, 1e-5)
}

func TestPerspectiveProjectionMapsClipPlanes(t *testing.T) {
	const near, far = 1, 10
	m := PerspectiveProjection(1, 90, near, far)

	// W.W stays 1, so depth is mapped through Z.z/Z.w/W.z with a +1 in w.
	p := Point(0, 0, -near).MulMatrix(m)
	assert.InDelta(t, near+1, p.W, tol)
	assert.InDelta(t, -1, p.Z, 1e-5)
}

func TestMatrixMulAssociatesWithVector(t *testing.T) {
	a := RotationAboutAxis(Direction(0, 1, 0), 0.4)
	b := Translation(1, 2, 3)
	p := Point(0.5, -1, 2)

	viaProduct := p.MulMatrix(a.Mul(b))
	stepwise := p.MulMatrix(a).MulMatrix(b)
	for _, pair := range [][2]float32{
		{viaProduct.X, stepwise.X},
		{viaProduct.Y, stepwise.Y},
		{viaProduct.Z, stepwise.Z},
		{viaProduct.W, stepwise.W},
	} {
		assert.InDelta(t, pair[0], pair[1], 1e-5)
	}
}

func TestTranslationAndScaling(t *testing.T) {
	p := Point(1, 1, 1).MulMatrix(Scaling(2, 3, 4)).MulMatrix(Translation(1, 0, -1))
	assert.Equal(t, Point(3, 3, 3), p)

	// Directions ignore translation.
	d := Direction(1, 0, 0).MulMatrix(Translation(5, 5, 5))
	assert.Equal(t, Direction(1, 0, 0), d)
}

func TestTransposeTwiceIsIdentity(t *testing.T) {
	m := PerspectiveProjection(1.5, 70, 0.1, 50).Mul(RotationAboutAxis(Direction(1, 0, 0), 1))
	assert.Equal(t, m, m.Transpose().Transpose())
	assert.Equal(t, m.At(2, 3), m.Transpose().At(3, 2))
}

func TestRowOutOfRangePanics(t *testing.T) {
	assert.Panics(t, func() { Identity().Row(4) })
	assert.Panics(t, func() { Identity().At(0, -1) })
}

func TestConcurrentConstruction(t *testing.T) {
	want := RotationAboutAxis(Direction(0, -1, 0), 0.5).Mul(PerspectiveProjection(1.3, 60, 0.1, 100))

	var g errgroup.Group
	results := make([]Matrix4x4, 16)
	for i := range results {
		g.Go(func() error {
			results[i] = RotationAboutAxis(Direction(0, -1, 0), 0.5).Mul(PerspectiveProjection(1.3, 60, 0.1, 100))
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for _, got := range results {
		assertMatrixInDelta(t, want, got, 0)
	}
}
