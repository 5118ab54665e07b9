package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/teapot/pkg/affine3d"
)

// LoadOBJ loads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

// objKey identifies a unique position/normal pair referenced by a face.
type objKey struct {
	pos, normal int
}

// ParseOBJ reads OBJ geometry from r. Only v, vn and f statements are used;
// polygons are triangulated as fans. Missing normals are computed.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	var (
		positions []affine3d.Vector4
		normals   []affine3d.Vector4
		mesh      = NewMesh("")
		seen      = make(map[objKey]uint32)
	)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			p, err := parseFloats(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			positions = append(positions, affine3d.Point(p[0], p[1], p[2]))
		case "vn":
			n, err := parseFloats(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			normals = append(normals, affine3d.Direction(n[0], n[1], n[2]))
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			corners := make([]uint32, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				key, err := parseFaceRef(ref, len(positions), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				idx, ok := seen[key]
				if !ok {
					v := MeshVertex{Position: positions[key.pos]}
					if key.normal >= 0 {
						v.Normal = normals[key.normal]
					}
					idx = uint32(len(mesh.Vertices))
					mesh.Vertices = append(mesh.Vertices, v)
					seen[key] = idx
				}
				corners = append(corners, idx)
			}
			for i := 1; i+1 < len(corners); i++ {
				mesh.AddTriangle(corners[0], corners[i], corners[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	if !mesh.hasNormals() {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// parseFloats parses the first three fields as float32 values.
func parseFloats(fields []string) ([3]float32, error) {
	var out [3]float32
	if len(fields) < 3 {
		return out, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	for i := range 3 {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return out, fmt.Errorf("component %d: %w", i, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseFaceRef parses "v", "v/vt", "v//vn" or "v/vt/vn" into zero-based
// indices. Negative OBJ indices count back from the end. A missing normal
// is reported as -1.
func parseFaceRef(ref string, numPos, numNormals int) (objKey, error) {
	parts := strings.Split(ref, "/")
	pos, err := resolveIndex(parts[0], numPos)
	if err != nil {
		return objKey{}, fmt.Errorf("vertex %q: %w", ref, err)
	}

	key := objKey{pos: pos, normal: -1}
	if len(parts) == 3 && parts[2] != "" {
		key.normal, err = resolveIndex(parts[2], numNormals)
		if err != nil {
			return objKey{}, fmt.Errorf("normal %q: %w", ref, err)
		}
	}
	return key, nil
}

func resolveIndex(s string, count int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case n > 0 && n <= count:
		return n - 1, nil
	case n < 0 && -n <= count:
		return count + n, nil
	}
	return 0, fmt.Errorf("index %d out of range (have %d)", n, count)
}
