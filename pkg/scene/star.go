package scene

import (
	"encoding/binary"
	"math"

	"github.com/taigrr/teapot/pkg/affine3d"
	"github.com/taigrr/teapot/pkg/render"
)

const (
	starPoints      = 5
	starOuterRadius = 0.8
	starInnerRadius = 0.35
)

// Star draws a five-point star as a fan of per-vertex colored triangles.
// The star turns about the view axis; positions are rewritten in place
// every frame.
type Star struct {
	passState
	outline   []affine3d.ColoredVertex // Triangle list in model space
	positions *render.Buffer
	colors    *render.Buffer
	pipeline  *render.Pipeline
	aspect    float32
	spin      spinner
}

// NewStar creates the star scene.
func NewStar(cfg Config) *Star {
	outline := starTriangles()
	s := &Star{
		outline:   outline,
		positions: render.NewBuffer("vertices", len(outline)*16),
		pipeline: &render.Pipeline{
			Label:            "pass through",
			VertexFunction:   render.PassThroughVertex,
			FragmentFunction: render.PassThroughFragment,
		},
		aspect: 1,
		spin:   newSpinner(cfg.FPS, cfg.Spin),
	}

	colors := make([]float32, 0, len(outline)*4)
	for _, v := range outline {
		colors = append(colors, v.Color.R, v.Color.G, v.Color.B, v.Color.A)
	}
	s.colors = render.NewBufferWithFloats("colors", colors)
	s.writePositions()
	return s
}

// starTriangles builds the star as a fan around the origin, counter-clockwise.
func starTriangles() []affine3d.ColoredVertex {
	center := affine3d.ColoredVertex{
		Position: affine3d.Point(0, 0, 0),
		Color:    affine3d.RGBA(1, 1, 1, 1),
	}
	rim := make([]affine3d.ColoredVertex, 2*starPoints)
	for i := range rim {
		angle := float64(i)*math.Pi/starPoints + math.Pi/2
		radius, c := float32(starOuterRadius), affine3d.RGBA(1, 0.8, 0, 1)
		if i%2 == 1 {
			radius, c = starInnerRadius, affine3d.RGBA(1, 0.2, 0.1, 1)
		}
		rim[i] = affine3d.ColoredVertex{
			Position: affine3d.Point(radius*float32(math.Cos(angle)), radius*float32(math.Sin(angle)), 0),
			Color:    c,
		}
	}

	tris := make([]affine3d.ColoredVertex, 0, 3*len(rim))
	for i := range rim {
		tris = append(tris, center, rim[i], rim[(i+1)%len(rim)])
	}
	return tris
}

func (s *Star) Name() string { return "star" }

// Setup keeps the star round on non-square targets.
func (s *Star) Setup(aspect float32) error {
	if aspect > 0 {
		s.aspect = aspect
	}
	s.writePositions()
	return nil
}

func (s *Star) Update(dt float64) {
	s.spin.Update(dt)
	s.writePositions()
}

func (s *Star) Impulse(v float64) { s.spin.Impulse(v) }

func (s *Star) Reset() {
	s.spin.Reset()
	s.writePositions()
}

// VertexCount returns the number of vertices drawn per frame.
func (s *Star) VertexCount() int { return len(s.outline) }

func (s *Star) Encode(r *render.Rasterizer) error {
	enc := r.Begin("star", affine3d.RGBA(0, 0, 0, 1))
	s.apply(enc, s.pipeline)
	if err := enc.SetVertexBuffer(s.positions, 0); err != nil {
		return err
	}
	if err := enc.SetVertexBuffer(s.colors, 1); err != nil {
		return err
	}
	return enc.DrawPrimitives(0, len(s.outline))
}

func (s *Star) writePositions() {
	rot := affine3d.RotationAboutAxis(affine3d.Direction(0, 0, 1), float32(s.spin.Angle))
	fit := affine3d.Scaling(1/max(s.aspect, 1), min(s.aspect, 1), 1)
	m := rot.Mul(fit)

	buf := s.positions.Contents()
	for i, v := range s.outline {
		p := v.Position.MulMatrix(m)
		for j, f := range [4]float32{p.X, p.Y, p.Z, p.W} {
			binary.LittleEndian.PutUint32(buf[i*16+j*4:], math.Float32bits(f))
		}
	}
}
