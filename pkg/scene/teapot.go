package scene

import (
	"fmt"

	"github.com/taigrr/teapot/pkg/affine3d"
	"github.com/taigrr/teapot/pkg/models"
	"github.com/taigrr/teapot/pkg/render"
)

// SpinAxis is the axis the teapot turns about.
var SpinAxis = affine3d.Direction(0, -1, 0)

// Teapot draws a diffusely lit mesh turning about SpinAxis.
type Teapot struct {
	passState
	cfg  Config
	mesh *models.Mesh

	uniforms   affine3d.Uniforms
	vertices   *render.Buffer
	uniformBuf *render.Buffer
	pipeline   *render.Pipeline
	spin       spinner
}

// NewTeapot creates the lighting scene. mesh is copied and scaled to fit a
// two unit cube at the origin.
func NewTeapot(mesh *models.Mesh, cfg Config) *Teapot {
	m := mesh.Clone()
	m.Normalize(2)

	t := &Teapot{
		cfg:        cfg,
		mesh:       m,
		vertices:   render.NewBufferWithBytes(m.Name, m.VertexBytes()),
		uniformBuf: render.NewBuffer("uniforms", affine3d.UniformsSize),
		pipeline: &render.Pipeline{
			Label:            "lighting",
			VertexFunction:   render.LightingVertex,
			FragmentFunction: render.PassThroughFragment,
			VertexDescriptor: &render.VertexDescriptor{
				Attributes: []render.VertexAttribute{
					{Offset: 0, Format: render.FormatFloat3},  // Position
					{Offset: 12, Format: render.FormatFloat3}, // Normal
				},
				Stride: models.VertexStride,
			},
			DepthTest: true,
		},
		spin: newSpinner(cfg.FPS, cfg.Spin),
	}
	t.uniforms = affine3d.Uniforms{
		LightPosition:  cfg.lightPosition(),
		Color:          cfg.color(),
		Reflectivity:   cfg.reflectivity(),
		LightIntensity: cfg.lightIntensity(),
		Projection:     affine3d.NewMatrix4x4(),
	}
	t.updateModelView()
	return t
}

func (t *Teapot) Name() string { return "teapot" }

// Mesh returns the normalized mesh being drawn.
func (t *Teapot) Mesh() *models.Mesh { return t.mesh }

// Uniforms returns the uniform block used by the next Encode.
func (t *Teapot) Uniforms() affine3d.Uniforms { return t.uniforms }

func (t *Teapot) Setup(aspect float32) error {
	t.uniforms.Projection = affine3d.PerspectiveProjection(aspect, t.cfg.FieldOfView, t.cfg.Near, t.cfg.Far)
	return t.uniforms.Put(t.uniformBuf.Contents())
}

func (t *Teapot) Update(dt float64) {
	t.spin.Update(dt)
	t.updateModelView()
}

func (t *Teapot) Impulse(v float64) { t.spin.Impulse(v) }

func (t *Teapot) Reset() {
	t.spin.Reset()
	t.updateModelView()
}

func (t *Teapot) Encode(r *render.Rasterizer) error {
	if err := t.uniforms.Put(t.uniformBuf.Contents()); err != nil {
		return fmt.Errorf("pack uniforms: %w", err)
	}

	enc := r.Begin("draw teapot", t.cfg.clearColor())
	enc.SetCullMode(render.CullBack)
	t.apply(enc, t.pipeline)
	if err := enc.SetVertexBuffer(t.vertices, 0); err != nil {
		return err
	}
	if err := enc.SetVertexBuffer(t.uniformBuf, 1); err != nil {
		return err
	}
	return enc.DrawIndexedPrimitives(t.mesh.Indices)
}

// updateModelView rotates about SpinAxis and then pushes the model away from
// the eye.
func (t *Teapot) updateModelView() {
	rot := affine3d.RotationAboutAxis(SpinAxis, float32(t.spin.Angle))
	t.uniforms.ModelView = rot.Mul(affine3d.Translation(0, 0, -t.cfg.Distance))
}
