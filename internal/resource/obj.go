package resource

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs-engine/engine/internal/mathx"
)

// LoadOBJ parses a Wavefront OBJ file into a mesh. Supported statements:
// v, vt, vn and f (with fan triangulation for polygons). Faces may index
// position-only (v), v/vt, v//vn or v/vt/vn; negative indices count from the
// end per the format. Material and group statements are ignored.
func LoadOBJ(name, path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %s: %w", path, err)
	}
	defer f.Close()

	var (
		positions []mathx.Vec3
		texcoords []mathx.Vec3
		normals   []mathx.Vec3
	)

	mesh := NewMesh(name)
	mesh.Meta().FilePath = path

	// Corners with identical v/vt/vn triples share one vertex.
	corners := make(map[string]uint32)
	var verts []Vertex
	var inds []uint32
	hadNormals := false

	resolveCorner := func(spec string) (uint32, error) {
		if idx, ok := corners[spec]; ok {
			return idx, nil
		}

		parts := strings.Split(spec, "/")
		var v Vertex
		v.Color = mathx.One

		pi, err := objIndex(parts[0], len(positions))
		if err != nil {
			return 0, fmt.Errorf("face corner %q: %w", spec, err)
		}
		v.Position = positions[pi]

		if len(parts) > 1 && parts[1] != "" {
			ti, err := objIndex(parts[1], len(texcoords))
			if err != nil {
				return 0, fmt.Errorf("face corner %q: %w", spec, err)
			}
			v.TexCoord = texcoords[ti]
		}
		if len(parts) > 2 && parts[2] != "" {
			ni, err := objIndex(parts[2], len(normals))
			if err != nil {
				return 0, fmt.Errorf("face corner %q: %w", spec, err)
			}
			v.Normal = normals[ni]
			hadNormals = true
		}

		idx := uint32(len(verts))
		verts = append(verts, v)
		corners[spec] = idx
		return idx, nil
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
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
			p, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
			}
			positions = append(positions, p)
		case "vt":
			t, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
			}
			texcoords = append(texcoords, t)
		case "vn":
			n, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
			}
			normals = append(normals, n)
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%s:%d: face needs at least 3 corners", path, lineNo)
			}
			first, err := resolveCorner(fields[1])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
			}
			prev, err := resolveCorner(fields[2])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
			}
			for _, spec := range fields[3:] {
				cur, err := resolveCorner(spec)
				if err != nil {
					return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
				}
				inds = append(inds, first, prev, cur)
				prev = cur
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj %s: %w", path, err)
	}
	if len(verts) == 0 {
		return nil, fmt.Errorf("obj %s: no face data", path)
	}

	mesh.SetVertices(verts)
	mesh.SetIndices(inds)
	if !hadNormals {
		mesh.CalculateNormals()
	}
	return mesh, nil
}

// objIndex converts a 1-based (or negative, from-the-end) OBJ index into a
// 0-based slice index.
func objIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad index %q", s)
	}
	if i < 0 {
		i = n + i
	} else {
		i--
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("index %q out of range (%d elements)", s, n)
	}
	return i, nil
}

func parseVec3(fields []string) (mathx.Vec3, error) {
	var out [3]float32
	if len(fields) < 2 {
		return mathx.Zero, fmt.Errorf("expected at least 2 components, got %d", len(fields))
	}
	for i := 0; i < len(fields) && i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return mathx.Zero, fmt.Errorf("bad component %q", fields[i])
		}
		out[i] = float32(f)
	}
	return mathx.New(out[0], out[1], out[2]), nil
}
