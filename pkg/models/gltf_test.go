package models

import (
	"fmt"
	"math"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/teapot/pkg/affine3d"
)

func TestLoadGLTFInvalidPath(t *testing.T) {
	_, err := LoadGLTF("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if loader == nil {
		t.Error("NewGLTFLoader returned nil")
		return
	}
	if !loader.CalculateNormals {
		t.Error("CalculateNormals should default to true")
	}
}

// writeQuadGLB saves a two-triangle quad, optionally with normals.
func writeQuadGLB(t *testing.T, withNormals bool) string {
	t.Helper()

	doc := gltf.NewDocument()
	attrs := map[string]int{
		gltf.POSITION: modeler.WritePosition(doc, [][3]float32{
			{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0},
		}),
	}
	if withNormals {
		attrs[gltf.NORMAL] = modeler.WriteNormal(doc, [][3]float32{
			{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1},
		})
	}
	indices := modeler.WriteIndices(doc, []uint16{0, 1, 2, 0, 2, 3})
	doc.Meshes = []*gltf.Mesh{{
		Name: "quad",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(indices),
			Attributes: attrs,
		}},
	}}

	path := filepath.Join(t.TempDir(), "quad.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	return path
}

func TestLoadGLTFQuad(t *testing.T) {
	for _, withNormals := range []bool{true, false} {
		t.Run(fmt.Sprintf("normals=%v", withNormals), func(t *testing.T) {
			mesh, err := Load(writeQuadGLB(t, withNormals))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}

			if mesh.VertexCount() != 4 || mesh.TriangleCount() != 2 {
				t.Fatalf("got %d vertices, %d triangles; want 4, 2", mesh.VertexCount(), mesh.TriangleCount())
			}
			if mesh.Name != "quad.glb" {
				t.Errorf("Name = %q", mesh.Name)
			}
			for i, v := range mesh.Vertices {
				if math.Abs(float64(v.Normal.Z-1)) > 1e-5 {
					t.Errorf("vertex %d normal = %v, want +Z", i, v.Normal)
				}
			}
			if mesh.BoundsMin != affine3d.Point(-1, -1, 0) || mesh.BoundsMax != affine3d.Point(1, 1, 0) {
				t.Errorf("bounds = %v..%v", mesh.BoundsMin, mesh.BoundsMax)
			}
		})
	}
}
