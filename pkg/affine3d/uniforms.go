package affine3d

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// UniformsSize is the packed size of Uniforms in bytes.
const UniformsSize = 192

// ErrShortBuffer is returned when a buffer is too small to hold Uniforms.
var ErrShortBuffer = errors.New("affine3d: buffer too small for uniforms")

// Uniforms is the per-frame constant block read by the lighting pipeline.
//
// Layout (little-endian float32):
//
//	  0 LightPosition   16 bytes
//	 16 Color           16 bytes
//	 32 Reflectivity    12 bytes + 4 padding
//	 48 LightIntensity  12 bytes + 4 padding
//	 64 Projection      64 bytes
//	128 ModelView       64 bytes
type Uniforms struct {
	LightPosition  Vector4
	Color          Vector4
	Reflectivity   Vector3
	_              float32
	LightIntensity Vector3
	_              float32
	Projection     Matrix4x4
	ModelView      Matrix4x4
}

// MarshalBinary packs u into a new UniformsSize byte slice.
func (u Uniforms) MarshalBinary() ([]byte, error) {
	buf := make([]byte, UniformsSize)
	if err := u.Put(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Put packs u into the start of buf.
func (u Uniforms) Put(buf []byte) error {
	if len(buf) < UniformsSize {
		return fmt.Errorf("%w: have %d bytes", ErrShortBuffer, len(buf))
	}
	if _, err := binary.Encode(buf, binary.LittleEndian, &u); err != nil {
		return fmt.Errorf("encode uniforms: %w", err)
	}
	return nil
}

// UnmarshalBinary unpacks the first UniformsSize bytes of buf into u.
func (u *Uniforms) UnmarshalBinary(buf []byte) error {
	if len(buf) < UniformsSize {
		return fmt.Errorf("%w: have %d bytes", ErrShortBuffer, len(buf))
	}
	if _, err := binary.Decode(buf[:UniformsSize], binary.LittleEndian, u); err != nil {
		return fmt.Errorf("decode uniforms: %w", err)
	}
	return nil
}
