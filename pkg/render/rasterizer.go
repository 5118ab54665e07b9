package render

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/taigrr/teapot/pkg/affine3d"
)

// ErrNoPipeline is returned when drawing before SetPipeline.
var ErrNoPipeline = errors.New("no render pipeline set")

// minClipW is the smallest clip W a drawn vertex may have. Triangles
// touching the plane behind it are dropped rather than clipped.
const minClipW = 1e-5

// Rasterizer owns the depth buffer for one framebuffer size.
type Rasterizer struct {
	fb    *Framebuffer
	depth []float32 // Row-major, cleared to +Inf

	Stats Stats
}

// Stats counts primitives for logging and tests.
type Stats struct {
	Triangles int // Submitted
	Culled    int // Back/front face culled or degenerate
	Clipped   int // Rejected against the clip volume
	Drawn     int
}

// NewRasterizer creates a rasterizer drawing into fb.
func NewRasterizer(fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{}
	r.SetTarget(fb)
	return r
}

// SetTarget switches the framebuffer, reallocating the depth buffer if the
// size changed.
func (r *Rasterizer) SetTarget(fb *Framebuffer) {
	r.fb = fb
	if n := fb.Width * fb.Height; len(r.depth) != n {
		r.depth = make([]float32, n)
	}
}

// ClearDepth resets the depth buffer (call before each frame).
func (r *Rasterizer) ClearDepth() {
	n := len(r.depth)
	if n == 0 {
		return
	}
	r.depth[0] = math32.Inf(1)
	for i := 1; i < n; i *= 2 {
		copy(r.depth[i:], r.depth[:i])
	}
}

// Encoder records draw state for one render pass, like a command encoder.
type Encoder struct {
	r        *Rasterizer
	pipeline *Pipeline
	buffers  [MaxBufferSlots]*Buffer
	cull     CullMode
	fill     FillMode
	label    string

	uniforms map[*Buffer]affine3d.Uniforms // Per draw, see VertexInput.Uniforms
}

// Begin starts a render pass: the target is cleared to clear and the depth
// buffer is reset.
func (r *Rasterizer) Begin(label string, clear affine3d.ColorRGBA) *Encoder {
	r.fb.Clear(ToRGBA(clear))
	r.ClearDepth()
	r.Stats = Stats{}
	return &Encoder{r: r, label: label, uniforms: make(map[*Buffer]affine3d.Uniforms)}
}

// Label returns the pass label.
func (e *Encoder) Label() string { return e.label }

// SetPipeline selects the pipeline used by later draws.
func (e *Encoder) SetPipeline(p *Pipeline) { e.pipeline = p }

// SetVertexBuffer binds b to slot index.
func (e *Encoder) SetVertexBuffer(b *Buffer, index int) error {
	if index < 0 || index >= MaxBufferSlots {
		return fmt.Errorf("vertex buffer index %d out of range", index)
	}
	e.buffers[index] = b
	return nil
}

// SetCullMode selects face culling.
func (e *Encoder) SetCullMode(m CullMode) { e.cull = m }

// SetFillMode selects solid or wireframe rasterization.
func (e *Encoder) SetFillMode(m FillMode) { e.fill = m }

// DrawPrimitives draws count vertices starting at start as a triangle list.
func (e *Encoder) DrawPrimitives(start, count int) error {
	if e.pipeline == nil {
		return ErrNoPipeline
	}
	clear(e.uniforms)
	cache := make(map[int]ClipVertex, count)
	for i := start; i+2 < start+count; i += 3 {
		if err := e.drawTriangle(cache, i, i+1, i+2); err != nil {
			return err
		}
	}
	return nil
}

// DrawIndexedPrimitives draws a triangle list through an index buffer.
// Shared vertices run the vertex function once.
func (e *Encoder) DrawIndexedPrimitives(indices []uint32) error {
	if e.pipeline == nil {
		return ErrNoPipeline
	}
	clear(e.uniforms)
	cache := make(map[int]ClipVertex)
	for i := 0; i+2 < len(indices); i += 3 {
		if err := e.drawTriangle(cache, int(indices[i]), int(indices[i+1]), int(indices[i+2])); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) vertex(cache map[int]ClipVertex, id int) (ClipVertex, error) {
	if v, ok := cache[id]; ok {
		return v, nil
	}
	v, err := e.pipeline.VertexFunction(VertexInput{
		VertexID:   id,
		Buffers:    &e.buffers,
		Descriptor: e.pipeline.VertexDescriptor,
		uniforms:   e.uniforms,
	})
	if err != nil {
		return ClipVertex{}, fmt.Errorf("%s: vertex %d: %w", e.pipeline.Label, id, err)
	}
	cache[id] = v
	return v, nil
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y  float32 // Screen coordinates
	Z     float32 // NDC depth
	InvW  float32 // 1/w for perspective-correct interpolation
	Color affine3d.ColorRGBA
}

func (e *Encoder) drawTriangle(cache map[int]ClipVertex, i0, i1, i2 int) error {
	var clip [3]ClipVertex
	for k, id := range [3]int{i0, i1, i2} {
		v, err := e.vertex(cache, id)
		if err != nil {
			return err
		}
		clip[k] = v
	}

	r := e.r
	r.Stats.Triangles++

	if outsideClipVolume(clip) {
		r.Stats.Clipped++
		return nil
	}

	var sv [3]screenVertex
	var ndc [3]affine3d.Vector4
	width, height := float32(r.fb.Width), float32(r.fb.Height)
	for k, v := range clip {
		ndc[k] = v.Position.PerspectiveDivide()
		sv[k] = screenVertex{
			X:     (ndc[k].X + 1) * 0.5 * width,
			Y:     (1 - ndc[k].Y) * 0.5 * height, // Y flipped
			Z:     ndc[k].Z,
			InvW:  1 / v.Position.W,
			Color: v.Color,
		}
	}

	// Signed area in NDC: positive is counter-clockwise (front facing)
	area := (ndc[1].X-ndc[0].X)*(ndc[2].Y-ndc[0].Y) - (ndc[2].X-ndc[0].X)*(ndc[1].Y-ndc[0].Y)
	if area == 0 || (e.cull == CullBack && area < 0) || (e.cull == CullFront && area > 0) {
		r.Stats.Culled++
		return nil
	}
	r.Stats.Drawn++

	if e.fill == FillLines {
		c := ToRGBA(e.pipeline.FragmentFunction(Fragment{Color: sv[0].Color}))
		for k := range 3 {
			a, b := sv[k], sv[(k+1)%3]
			r.fb.DrawLine(int(a.X), int(a.Y), int(b.X), int(b.Y), c)
		}
		return nil
	}

	e.fillTriangle(sv)
	return nil
}

// outsideClipVolume reports whether the triangle touches w <= 0, has a
// non-finite coordinate or lies entirely outside one of the six clip planes.
func outsideClipVolume(v [3]ClipVertex) bool {
	var outside [6]int
	for _, cv := range v {
		p := cv.Position
		if !(p.W > minClipW) || !finite(p.X) || !finite(p.Y) || !finite(p.Z) || math32.IsInf(p.W, 0) {
			return true
		}
		if p.X < -p.W {
			outside[0]++
		}
		if p.X > p.W {
			outside[1]++
		}
		if p.Y < -p.W {
			outside[2]++
		}
		if p.Y > p.W {
			outside[3]++
		}
		if p.Z < -p.W {
			outside[4]++
		}
		if p.Z > p.W {
			outside[5]++
		}
	}
	for _, n := range outside {
		if n == 3 {
			return true
		}
	}
	return false
}

// finite reports whether f is neither NaN nor infinite.
func finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

func (e *Encoder) fillTriangle(sv [3]screenVertex) {
	r := e.r
	fb := r.fb
	if fb.Width == 0 || fb.Height == 0 {
		return
	}

	minX := int(math32.Max(0, math32.Floor(min(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math32.Min(float32(fb.Width-1), math32.Ceil(max(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math32.Max(0, math32.Floor(min(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math32.Min(float32(fb.Height-1), math32.Ceil(max(sv[0].Y, sv[1].Y, sv[2].Y))))

	frag := e.pipeline.FragmentFunction
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float32(x)+0.5, float32(y)+0.5

			bc := barycentric(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y, sv[2].X, sv[2].Y, px, py)
			if !covered(bc) {
				continue
			}

			z := bc[0]*sv[0].Z + bc[1]*sv[1].Z + bc[2]*sv[2].Z
			idx := y*fb.Width + x
			if e.pipeline.DepthTest {
				if z >= r.depth[idx] {
					continue
				}
				r.depth[idx] = z
			}

			// Perspective-correct color: interpolate c/w and 1/w
			w0, w1, w2 := bc[0]*sv[0].InvW, bc[1]*sv[1].InvW, bc[2]*sv[2].InvW
			oneOverW := w0 + w1 + w2
			if oneOverW == 0 {
				continue
			}
			c := interpolateColor3(sv[0].Color, sv[1].Color, sv[2].Color, [3]float32{w0, w1, w2})
			c = affine3d.RGBA(c.R/oneOverW, c.G/oneOverW, c.B/oneOverW, c.A/oneOverW)

			fb.Pixels[idx] = ToRGBA(frag(Fragment{X: x, Y: y, Depth: z, Color: c}))
		}
	}
}

// barycentric calculates barycentric coordinates for point (px, py) in a
// triangle. A degenerate triangle yields NaNs; see covered.
func barycentric(x0, y0, x1, y1, x2, y2, px, py float32) [3]float32 {
	v0x, v0y := x2-x0, y2-y0
	v1x, v1y := x1-x0, y1-y0
	v2x, v2y := px-x0, py-y0

	dot00 := v0x*v0x + v0y*v0y
	dot01 := v0x*v1x + v0y*v1y
	dot02 := v0x*v2x + v0y*v2y
	dot11 := v1x*v1x + v1y*v1y
	dot12 := v1x*v2x + v1y*v2y

	invDenom := 1 / (dot00*dot11 - dot01*dot01)
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	return [3]float32{1 - u - v, v, u}
}

// covered reports whether barycentric coordinates lie inside the triangle.
// NaN coordinates are never covered.
func covered(bc [3]float32) bool {
	return bc[0] >= 0 && bc[1] >= 0 && bc[2] >= 0
}

// interpolateColor3 blends three colors with the given weights.
func interpolateColor3(c0, c1, c2 affine3d.ColorRGBA, w [3]float32) affine3d.ColorRGBA {
	return affine3d.RGBA(
		c0.R*w[0]+c1.R*w[1]+c2.R*w[2],
		c0.G*w[0]+c1.G*w[1]+c2.G*w[2],
		c0.B*w[0]+c1.B*w[1]+c2.B*w[2],
		c0.A*w[0]+c1.A*w[1]+c2.A*w[2],
	)
}
