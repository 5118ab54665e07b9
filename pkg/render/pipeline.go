package render

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/taigrr/teapot/pkg/affine3d"
)

// MaxBufferSlots is the number of vertex buffer bindings an encoder offers.
const MaxBufferSlots = 4

// ErrUnboundBuffer is returned by vertex functions reading an empty slot.
var ErrUnboundBuffer = errors.New("vertex buffer not bound")

// CullMode selects which triangle faces are discarded.
type CullMode int

const (
	CullNone  CullMode = iota // Draw both sides
	CullBack                  // Discard clockwise triangles
	CullFront                 // Discard counter-clockwise triangles
)

// FillMode selects how triangles are rasterized.
type FillMode int

const (
	FillSolid FillMode = iota
	FillLines          // Edges only (x-ray)
)

// VertexFormat is the type of one vertex attribute.
type VertexFormat int

const (
	FormatFloat3 VertexFormat = iota
	FormatFloat4
)

// VertexAttribute locates one attribute inside an interleaved vertex.
type VertexAttribute struct {
	Offset int
	Format VertexFormat
}

// VertexDescriptor describes the layout of the vertex buffer in slot 0.
type VertexDescriptor struct {
	Attributes []VertexAttribute
	Stride     int
}

// VertexInput is what a vertex function sees for one vertex.
type VertexInput struct {
	VertexID   int
	Buffers    *[MaxBufferSlots]*Buffer
	Descriptor *VertexDescriptor

	uniforms map[*Buffer]affine3d.Uniforms // Decoded blocks, valid for one draw
}

// Buffer returns the buffer bound at slot.
func (in VertexInput) Buffer(slot int) (*Buffer, error) {
	if slot < 0 || slot >= MaxBufferSlots || in.Buffers[slot] == nil {
		return nil, fmt.Errorf("slot %d: %w", slot, ErrUnboundBuffer)
	}
	return in.Buffers[slot], nil
}

// Uniforms decodes the uniform block bound at slot. Within one draw call
// each buffer is decoded once; later changes to its contents are seen by
// the next draw.
func (in VertexInput) Uniforms(slot int) (affine3d.Uniforms, error) {
	buf, err := in.Buffer(slot)
	if err != nil {
		return affine3d.Uniforms{}, err
	}
	if u, ok := in.uniforms[buf]; ok {
		return u, nil
	}

	var u affine3d.Uniforms
	if err := u.UnmarshalBinary(buf.Contents()); err != nil {
		return u, fmt.Errorf("%s: %w", buf.Label(), err)
	}
	if in.uniforms != nil {
		in.uniforms[buf] = u
	}
	return u, nil
}

// Attribute reads attribute i of this vertex from slot 0 using the
// descriptor. Float3 attributes are widened with W = 1.
func (in VertexInput) Attribute(i int) (affine3d.Vector4, error) {
	if in.Descriptor == nil || i < 0 || i >= len(in.Descriptor.Attributes) {
		return affine3d.Vector4{}, fmt.Errorf("attribute %d not described", i)
	}
	buf, err := in.Buffer(0)
	if err != nil {
		return affine3d.Vector4{}, err
	}

	attr := in.Descriptor.Attributes[i]
	off := in.VertexID*in.Descriptor.Stride + attr.Offset
	if attr.Format == FormatFloat4 {
		return buf.Float4At(off)
	}
	return buf.Float3At(off, 1)
}

// ClipVertex is the output of a vertex function.
type ClipVertex struct {
	Position affine3d.Vector4 // Clip space
	Color    affine3d.ColorRGBA
}

// Fragment is the input of a fragment function.
type Fragment struct {
	X, Y  int
	Depth float32
	Color affine3d.ColorRGBA // Perspective-correct interpolated vertex color
}

// VertexFunc transforms one vertex.
type VertexFunc func(in VertexInput) (ClipVertex, error)

// FragmentFunc shades one covered pixel.
type FragmentFunc func(f Fragment) affine3d.ColorRGBA

// Pipeline is fixed render state built once per demo.
type Pipeline struct {
	Label            string
	VertexFunction   VertexFunc
	FragmentFunction FragmentFunc
	VertexDescriptor *VertexDescriptor
	DepthTest        bool
}

// BasicVertex reads tightly packed float3 positions from slot 0 and emits
// them unchanged as clip coordinates.
func BasicVertex(in VertexInput) (ClipVertex, error) {
	buf, err := in.Buffer(0)
	if err != nil {
		return ClipVertex{}, err
	}
	pos, err := buf.Float3At(in.VertexID*12, 1)
	if err != nil {
		return ClipVertex{}, err
	}
	return ClipVertex{Position: pos, Color: affine3d.RGBA(1, 1, 1, 1)}, nil
}

// PassThroughVertex reads float4 positions from slot 0 and float4 colors
// from slot 1.
func PassThroughVertex(in VertexInput) (ClipVertex, error) {
	positions, err := in.Buffer(0)
	if err != nil {
		return ClipVertex{}, err
	}
	colors, err := in.Buffer(1)
	if err != nil {
		return ClipVertex{}, err
	}

	pos, err := positions.Float4At(in.VertexID * 16)
	if err != nil {
		return ClipVertex{}, err
	}
	c, err := colors.Float4At(in.VertexID * 16)
	if err != nil {
		return ClipVertex{}, err
	}
	return ClipVertex{Position: pos, Color: c.ColorRGBA()}, nil
}

// LightingVertex is the diffuse lighting stage of the teapot demo.
// Slot 0 holds positions (attribute 0) and normals (attribute 1); slot 1
// holds an affine3d.Uniforms block.
//
// The light is evaluated in eye space:
//
//	s = normalize(light - eyePosition)
//	rgb = intensity * reflectivity * color * max(dot(s, eyeNormal), 0)
func LightingVertex(in VertexInput) (ClipVertex, error) {
	u, err := in.Uniforms(1)
	if err != nil {
		return ClipVertex{}, err
	}

	pos, err := in.Attribute(0)
	if err != nil {
		return ClipVertex{}, err
	}
	normal, err := in.Attribute(1)
	if err != nil {
		return ClipVertex{}, err
	}
	normal.W = 0

	eyePos := pos.MulMatrix(u.ModelView)
	eyeNormal := normal.MulMatrix(u.ModelView).Normalize3()
	s := u.LightPosition.Sub(eyePos).Normalize3()
	diffuse := math32.Max(s.Dot3(eyeNormal), 0)

	rgb := u.LightIntensity.Mul(u.Reflectivity).Mul(u.Color.XYZ()).Scale(diffuse)
	return ClipVertex{
		Position: eyePos.MulMatrix(u.Projection),
		Color:    affine3d.RGBA(rgb.R, rgb.G, rgb.B, u.Color.W),
	}, nil
}

// PassThroughFragment returns the interpolated vertex color.
func PassThroughFragment(f Fragment) affine3d.ColorRGBA {
	return f.Color
}

// SolidFragment returns a fragment function that ignores its input.
func SolidFragment(c affine3d.ColorRGBA) FragmentFunc {
	return func(Fragment) affine3d.ColorRGBA { return c }
}
