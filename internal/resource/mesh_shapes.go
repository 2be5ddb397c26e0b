package resource

import (
	"math"

	"github.com/rs-engine/engine/internal/mathx"
)

// NewCubeMesh builds an axis-aligned cube centered at the origin with the
// given edge length. Each face has its own four vertices so normals stay
// hard.
func NewCubeMesh(name string, size float32) *Mesh {
	h := size / 2

	type face struct {
		normal mathx.Vec3
		corner [4]mathx.Vec3
	}
	faces := []face{
		{mathx.New(0, 0, 1), [4]mathx.Vec3{mathx.New(-h, -h, h), mathx.New(h, -h, h), mathx.New(h, h, h), mathx.New(-h, h, h)}},      // front
		{mathx.New(0, 0, -1), [4]mathx.Vec3{mathx.New(h, -h, -h), mathx.New(-h, -h, -h), mathx.New(-h, h, -h), mathx.New(h, h, -h)}}, // back
		{mathx.New(-1, 0, 0), [4]mathx.Vec3{mathx.New(-h, -h, -h), mathx.New(-h, -h, h), mathx.New(-h, h, h), mathx.New(-h, h, -h)}}, // left
		{mathx.New(1, 0, 0), [4]mathx.Vec3{mathx.New(h, -h, h), mathx.New(h, -h, -h), mathx.New(h, h, -h), mathx.New(h, h, h)}},      // right
		{mathx.New(0, 1, 0), [4]mathx.Vec3{mathx.New(-h, h, h), mathx.New(h, h, h), mathx.New(h, h, -h), mathx.New(-h, h, -h)}},      // top
		{mathx.New(0, -1, 0), [4]mathx.Vec3{mathx.New(-h, -h, -h), mathx.New(h, -h, -h), mathx.New(h, -h, h), mathx.New(-h, -h, h)}}, // bottom
	}
	uvs := [4]mathx.Vec3{mathx.New(0, 0, 0), mathx.New(1, 0, 0), mathx.New(1, 1, 0), mathx.New(0, 1, 0)}

	m := NewMesh(name)
	verts := make([]Vertex, 0, 24)
	inds := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(verts))
		for i, p := range f.corner {
			verts = append(verts, Vertex{
				Position: p,
				Normal:   f.normal,
				TexCoord: uvs[i],
				Color:    mathx.One,
			})
		}
		inds = append(inds, base, base+1, base+2, base, base+2, base+3)
	}
	m.SetVertices(verts)
	m.SetIndices(inds)
	return m
}

// NewSphereMesh builds a UV sphere with the given radius. segments controls
// both ring and slice counts; values below 3 are raised to 3.
func NewSphereMesh(name string, radius float32, segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}

	m := NewMesh(name)
	verts := make([]Vertex, 0, (segments+1)*(segments+1))
	for ring := 0; ring <= segments; ring++ {
		phi := math.Pi * float64(ring) / float64(segments)
		for slice := 0; slice <= segments; slice++ {
			theta := 2 * math.Pi * float64(slice) / float64(segments)

			n := mathx.New(
				float32(math.Sin(phi)*math.Cos(theta)),
				float32(math.Cos(phi)),
				float32(math.Sin(phi)*math.Sin(theta)),
			)
			verts = append(verts, Vertex{
				Position: n.Scale(radius),
				Normal:   n,
				TexCoord: mathx.New(
					float32(slice)/float32(segments),
					float32(ring)/float32(segments),
					0,
				),
				Color: mathx.One,
			})
		}
	}

	inds := make([]uint32, 0, segments*segments*6)
	stride := uint32(segments + 1)
	for ring := 0; ring < segments; ring++ {
		for slice := 0; slice < segments; slice++ {
			a := uint32(ring)*stride + uint32(slice)
			b := a + stride
			inds = append(inds, a, b, a+1, a+1, b, b+1)
		}
	}

	m.SetVertices(verts)
	m.SetIndices(inds)
	return m
}

// NewPlaneMesh builds a single quad in the XZ plane, centered at the origin,
// facing +Y.
func NewPlaneMesh(name string, width, height float32) *Mesh {
	hw, hh := width/2, height/2
	up := mathx.New(0, 1, 0)

	m := NewMesh(name)
	m.SetVertices([]Vertex{
		{Position: mathx.New(-hw, 0, -hh), Normal: up, TexCoord: mathx.New(0, 0, 0), Color: mathx.One},
		{Position: mathx.New(hw, 0, -hh), Normal: up, TexCoord: mathx.New(1, 0, 0), Color: mathx.One},
		{Position: mathx.New(hw, 0, hh), Normal: up, TexCoord: mathx.New(1, 1, 0), Color: mathx.One},
		{Position: mathx.New(-hw, 0, hh), Normal: up, TexCoord: mathx.New(0, 1, 0), Color: mathx.One},
	})
	m.SetIndices([]uint32{0, 2, 1, 0, 3, 2})
	return m
}
