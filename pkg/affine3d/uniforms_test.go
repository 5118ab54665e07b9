package affine3d

import (
	"encoding/binary"
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func teapotUniforms() Uniforms {
	return Uniforms{
		LightPosition:  V4(5, 5, 2, 1),
		Color:          V4(0.7, 0.47, 0.18, 1),
		Reflectivity:   V3(1, 1, 1),
		LightIntensity: V3(2, 2, 2),
		Projection:     PerspectiveProjection(1.5, 60, 0.1, 100),
		ModelView:      RotationAboutAxis(Direction(0, -1, 0), 0.25),
	}
}

func floatAt(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func TestUniformsSizeMatchesMemoryLayout(t *testing.T) {
	assert.Equal(t, UniformsSize, int(unsafe.Sizeof(Uniforms{})))
	assert.Equal(t, UniformsSize, binary.Size(Uniforms{}))
}

func TestUniformsFieldOffsets(t *testing.T) {
	u := teapotUniforms()
	buf, err := u.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, buf, UniformsSize)

	tests := []struct {
		name   string
		offset int
		want   float32
	}{
		{"light.x", 0, 5},
		{"light.w", 12, 1},
		{"color.r", 16, 0.7},
		{"color.b", 24, 0.18},
		{"reflectivity.r", 32, 1},
		{"reflectivity pad", 44, 0},
		{"intensity.r", 48, 2},
		{"intensity.b", 56, 2},
		{"intensity pad", 60, 0},
		{"projection.X.X", 64, u.Projection.X.X},
		{"projection.Z.W", 64 + 11*4, -1},
		{"projection.W.Z", 64 + 14*4, u.Projection.W.Z},
		{"modelView.X.Z", 128 + 2*4, u.ModelView.X.Z},
		{"modelView.W.W", 128 + 15*4, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, floatAt(buf, tc.offset))
		})
	}
}

func TestUniformsRoundTripThroughBuffer(t *testing.T) {
	u := teapotUniforms()
	buf := make([]byte, UniformsSize+32)
	require.NoError(t, u.Put(buf))

	var got Uniforms
	require.NoError(t, got.UnmarshalBinary(buf))
	assert.Equal(t, u, got)
}

func TestUniformsShortBuffer(t *testing.T) {
	u := teapotUniforms()
	assert.ErrorIs(t, u.Put(make([]byte, UniformsSize-1)), ErrShortBuffer)

	var got Uniforms
	assert.ErrorIs(t, got.UnmarshalBinary(nil), ErrShortBuffer)
}
