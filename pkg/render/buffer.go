package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/teapot/pkg/affine3d"
)

// ErrOutOfBounds is returned when a read runs past the end of a Buffer.
var ErrOutOfBounds = errors.New("buffer read out of bounds")

// Buffer is a labelled block of bytes shared between the CPU side of a demo
// and the pipeline's vertex functions. Floats are little-endian.
type Buffer struct {
	label string
	data  []byte
}

// NewBuffer allocates a zeroed buffer of length bytes.
func NewBuffer(label string, length int) *Buffer {
	return &Buffer{label: label, data: make([]byte, length)}
}

// NewBufferWithBytes copies b into a new buffer.
func NewBufferWithBytes(label string, b []byte) *Buffer {
	data := make([]byte, len(b))
	copy(data, b)
	return &Buffer{label: label, data: data}
}

// NewBufferWithFloats packs fs into a new buffer.
func NewBufferWithFloats(label string, fs []float32) *Buffer {
	data := make([]byte, len(fs)*4)
	for i, f := range fs {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(f))
	}
	return &Buffer{label: label, data: data}
}

// Label returns the debug label.
func (b *Buffer) Label() string { return b.label }

// Len returns the size in bytes.
func (b *Buffer) Len() int { return len(b.data) }

// Contents returns the backing bytes. Writes are visible to later draws.
func (b *Buffer) Contents() []byte { return b.data }

// Float32At reads one float at byte offset off.
func (b *Buffer) Float32At(off int) (float32, error) {
	if off < 0 || off+4 > len(b.data) {
		return 0, fmt.Errorf("%s: offset %d: %w", b.label, off, ErrOutOfBounds)
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b.data[off:])), nil
}

// Float3At reads three floats at off and returns them with W = w.
func (b *Buffer) Float3At(off int, w float32) (affine3d.Vector4, error) {
	if off < 0 || off+12 > len(b.data) {
		return affine3d.Vector4{}, fmt.Errorf("%s: float3 at %d: %w", b.label, off, ErrOutOfBounds)
	}
	return affine3d.Vector4{
		X: math.Float32frombits(binary.LittleEndian.Uint32(b.data[off:])),
		Y: math.Float32frombits(binary.LittleEndian.Uint32(b.data[off+4:])),
		Z: math.Float32frombits(binary.LittleEndian.Uint32(b.data[off+8:])),
		W: w,
	}, nil
}

// Float4At reads four floats at off.
func (b *Buffer) Float4At(off int) (affine3d.Vector4, error) {
	v, err := b.Float3At(off, 0)
	if err != nil {
		return v, err
	}
	v.W, err = b.Float32At(off + 12)
	return v, err
}
