package models

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/teapot/pkg/affine3d"
)

const quadOBJ = `# unit quad in the XY plane
v -1 -1 0
v  1 -1 0
v  1  1 0
v -1  1 0
vn 0 0 1
f 1//1 2//1 3//1 4//1
`

func TestParseOBJQuadFan(t *testing.T) {
	mesh, err := ParseOBJ(strings.NewReader(quadOBJ))
	require.NoError(t, err)

	assert.Equal(t, 4, mesh.VertexCount())
	assert.Equal(t, 2, mesh.TriangleCount())
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, mesh.Indices)
	for _, v := range mesh.Vertices {
		assert.Equal(t, affine3d.Direction(0, 0, 1), v.Normal)
	}
	assert.Equal(t, affine3d.Point(-1, -1, 0), mesh.BoundsMin)
	assert.Equal(t, affine3d.Point(1, 1, 0), mesh.BoundsMax)
}

func TestParseOBJComputesNormals(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	mesh, err := ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)

	for _, v := range mesh.Vertices {
		assert.InDelta(t, 1, v.Normal.Z, 1e-6)
	}
}

func TestParseOBJNegativeAndTexturedIndices(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nvn 0 0 1\nf -3/1/1 -2/1/1 -1/1/1\n"
	mesh, err := ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2}, mesh.Indices)
}

func TestParseOBJSharesVertices(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nv 1 1 0\nf 1 2 3\nf 2 4 3\n"
	mesh, err := ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 4, mesh.VertexCount())
	assert.Equal(t, 2, mesh.TriangleCount())
}

func TestParseOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad float", "v 0 x 0\n"},
		{"short vertex", "v 0 0\n"},
		{"index out of range", "v 0 0 0\nf 1 2 3\n"},
		{"two corner face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
		{"bad normal ref", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1//4 2 3\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tc.src))
			assert.Error(t, err)
		})
	}
}

func TestLoadOBJFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.obj")
	require.NoError(t, os.WriteFile(path, []byte(quadOBJ), 0o644))

	mesh, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "quad.obj", mesh.Name)
	assert.Equal(t, 2, mesh.TriangleCount())
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load("teapot.stl")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}
