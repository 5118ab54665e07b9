package scene

import (
	"github.com/taigrr/teapot/pkg/affine3d"
	"github.com/taigrr/teapot/pkg/render"
)

// HelloTriangle draws one white triangle on magenta.
type HelloTriangle struct {
	passState
	vertices *render.Buffer
	pipeline *render.Pipeline
}

// NewHelloTriangle creates the triangle scene.
func NewHelloTriangle() *HelloTriangle {
	return &HelloTriangle{
		vertices: render.NewBufferWithFloats("vertices", []float32{
			0.0, 0.5, 0.0,
			-1.0, -0.5, 0.0,
			1.0, -0.5, 0.0,
		}),
		pipeline: &render.Pipeline{
			Label:            "basic",
			VertexFunction:   render.BasicVertex,
			FragmentFunction: render.PassThroughFragment,
		},
	}
}

func (s *HelloTriangle) Name() string { return "triangle" }
func (s *HelloTriangle) Setup(float32) error { return nil }
func (s *HelloTriangle) Update(float64) {}
func (s *HelloTriangle) Impulse(float64) {}
func (s *HelloTriangle) Reset() {}

func (s *HelloTriangle) Encode(r *render.Rasterizer) error {
	enc := r.Begin("hello triangle", affine3d.RGBA(1, 0, 1, 1))
	s.apply(enc, s.pipeline)
	if err := enc.SetVertexBuffer(s.vertices, 0); err != nil {
		return err
	}
	return enc.DrawPrimitives(0, 3)
}
