package resource

import (
	"fmt"
	"unsafe"

	"github.com/rs-engine/engine/internal/gpu"
	"github.com/rs-engine/engine/internal/mathx"
)

// Vertex is the interleaved per-vertex layout shared by all meshes.
// TexCoord keeps three components for layout uniformity; only X and Y are
// sampled.
type Vertex struct {
	Position mathx.Vec3
	Normal   mathx.Vec3
	TexCoord mathx.Vec3
	Color    mathx.Vec3
}

const vertexStride = uint64(unsafe.Sizeof(Vertex{}))

// Mesh is vertex and index data plus optional GPU-side buffers. CPU data
// persists across any number of GPU create/release cycles.
type Mesh struct {
	meta Metadata

	vertices []Vertex
	indices  []uint32

	vertexBuffer gpu.Buffer
	indexBuffer  gpu.Buffer
}

// NewMesh creates an empty mesh with the given name.
func NewMesh(name string) *Mesh {
	return &Mesh{
		meta: Metadata{Name: name, Type: TypeMesh, State: StateLoaded},
	}
}

func (m *Mesh) Meta() *Metadata { return &m.meta }

// Load is a no-op for procedural meshes; file-backed meshes arrive through
// LoadOBJ which builds them already loaded.
func (m *Mesh) Load() error {
	m.meta.State = StateLoaded
	return nil
}

func (m *Mesh) Unload() {
	m.ReleaseGPUResources()
	m.vertices = nil
	m.indices = nil
	m.meta.MemorySize = 0
	m.meta.State = StateUnloaded
}

func (m *Mesh) Vertices() []Vertex { return m.vertices }
func (m *Mesh) Indices() []uint32  { return m.indices }

func (m *Mesh) VertexCount() int { return len(m.vertices) }
func (m *Mesh) IndexCount() int  { return len(m.indices) }

// TriangleCount reports the number of indexed triangles.
func (m *Mesh) TriangleCount() int { return len(m.indices) / 3 }

func (m *Mesh) SetVertices(verts []Vertex) {
	m.vertices = verts
	m.recomputeSize()
}

func (m *Mesh) SetIndices(inds []uint32) {
	m.indices = inds
	m.recomputeSize()
}

func (m *Mesh) AddVertex(v Vertex) {
	m.vertices = append(m.vertices, v)
	m.recomputeSize()
}

// AddTriangle appends one indexed triangle.
func (m *Mesh) AddTriangle(i0, i1, i2 uint32) {
	m.indices = append(m.indices, i0, i1, i2)
	m.recomputeSize()
}

func (m *Mesh) recomputeSize() {
	m.meta.MemorySize = uint64(len(m.vertices))*vertexStride + uint64(len(m.indices))*4
}

// Bounds returns the axis-aligned bounding box of the vertex positions.
// An empty mesh reports a degenerate box at the origin.
func (m *Mesh) Bounds() (min, max mathx.Vec3) {
	if len(m.vertices) == 0 {
		return mathx.Zero, mathx.Zero
	}
	min = m.vertices[0].Position
	max = min
	for _, v := range m.vertices[1:] {
		min = mathx.Min(min, v.Position)
		max = mathx.Max(max, v.Position)
	}
	return min, max
}

// CalculateNormals rebuilds per-vertex normals by averaging the face normals
// of every triangle touching each vertex.
func (m *Mesh) CalculateNormals() {
	for i := range m.vertices {
		m.vertices[i].Normal = mathx.Zero
	}
	for i := 0; i+2 < len(m.indices); i += 3 {
		i0, i1, i2 := m.indices[i], m.indices[i+1], m.indices[i+2]
		a := m.vertices[i0].Position
		b := m.vertices[i1].Position
		c := m.vertices[i2].Position
		n := b.Sub(a).Cross(c.Sub(a))
		m.vertices[i0].Normal = m.vertices[i0].Normal.Add(n)
		m.vertices[i1].Normal = m.vertices[i1].Normal.Add(n)
		m.vertices[i2].Normal = m.vertices[i2].Normal.Add(n)
	}
	for i := range m.vertices {
		m.vertices[i].Normal = m.vertices[i].Normal.Normalized()
	}
}

// CreateGPUResources uploads vertex and index buffers. Existing buffers are
// released first so the call is safe to repeat.
func (m *Mesh) CreateGPUResources(dev gpu.Device) error {
	if len(m.vertices) == 0 {
		return fmt.Errorf("mesh %s: no vertex data", m.meta.Name)
	}
	m.ReleaseGPUResources()

	vb, err := dev.CreateBuffer(m.meta.Name+"/vertices",
		uint64(len(m.vertices))*vertexStride, gpu.BufferUsageVertex)
	if err != nil {
		return fmt.Errorf("mesh %s: %w", m.meta.Name, err)
	}

	var ib gpu.Buffer
	if len(m.indices) > 0 {
		ib, err = dev.CreateBuffer(m.meta.Name+"/indices",
			uint64(len(m.indices))*4, gpu.BufferUsageIndex)
		if err != nil {
			vb.Release()
			return fmt.Errorf("mesh %s: %w", m.meta.Name, err)
		}
	}

	m.vertexBuffer = vb
	m.indexBuffer = ib
	return nil
}

func (m *Mesh) ReleaseGPUResources() {
	if m.vertexBuffer != nil {
		m.vertexBuffer.Release()
		m.vertexBuffer = nil
	}
	if m.indexBuffer != nil {
		m.indexBuffer.Release()
		m.indexBuffer = nil
	}
}

func (m *Mesh) HasGPUResources() bool { return m.vertexBuffer != nil }

func (m *Mesh) VertexBuffer() gpu.Buffer { return m.vertexBuffer }
func (m *Mesh) IndexBuffer() gpu.Buffer  { return m.indexBuffer }
