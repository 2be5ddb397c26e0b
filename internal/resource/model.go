package resource

import (
	"fmt"

	"github.com/rs-engine/engine/internal/gpu"
	"github.com/rs-engine/engine/internal/mathx"
)

// Transform positions a model instance in the world.
type Transform struct {
	Position mathx.Vec3
	Rotation mathx.Vec3 // Euler angles, radians
	Scale    mathx.Vec3
}

// NewTransform returns the identity transform.
func NewTransform() Transform {
	return Transform{Scale: mathx.One}
}

// Model aggregates meshes by shared reference: many models may point at the
// same mesh, and the registry remains the mesh owner. Model MemorySize
// therefore counts only the model's own bookkeeping, not the meshes.
type Model struct {
	meta Metadata

	meshes    []*Mesh
	transform Transform

	boundsMin   mathx.Vec3
	boundsMax   mathx.Vec3
	boundsDirty bool
}

func NewModel(name string) *Model {
	return &Model{
		meta:        Metadata{Name: name, Type: TypeModel, State: StateLoaded},
		transform:   NewTransform(),
		boundsDirty: true,
	}
}

func (m *Model) Meta() *Metadata { return &m.meta }

func (m *Model) Load() error {
	m.meta.State = StateLoaded
	return nil
}

// Unload drops the mesh references and this model's GPU state. The meshes
// themselves stay alive in the registry for any other model referencing
// them.
func (m *Model) Unload() {
	m.meshes = nil
	m.boundsDirty = true
	m.meta.State = StateUnloaded
}

func (m *Model) AddMesh(mesh *Mesh) {
	if mesh == nil {
		return
	}
	m.meshes = append(m.meshes, mesh)
	m.boundsDirty = true
}

func (m *Model) RemoveMesh(index int) {
	if index < 0 || index >= len(m.meshes) {
		return
	}
	m.meshes = append(m.meshes[:index], m.meshes[index+1:]...)
	m.boundsDirty = true
}

func (m *Model) MeshCount() int { return len(m.meshes) }

func (m *Model) Mesh(index int) *Mesh {
	if index < 0 || index >= len(m.meshes) {
		return nil
	}
	return m.meshes[index]
}

func (m *Model) Meshes() []*Mesh { return m.meshes }

func (m *Model) Transform() *Transform { return &m.transform }

func (m *Model) SetPosition(p mathx.Vec3) { m.transform.Position = p }
func (m *Model) SetRotation(r mathx.Vec3) { m.transform.Rotation = r }
func (m *Model) SetScale(s mathx.Vec3)    { m.transform.Scale = s }

// Bounds returns the union of the mesh bounding boxes, cached until the mesh
// set changes. Transform is not applied; these are local-space bounds.
func (m *Model) Bounds() (min, max mathx.Vec3) {
	if m.boundsDirty {
		if len(m.meshes) == 0 {
			m.boundsMin, m.boundsMax = mathx.Zero, mathx.Zero
		} else {
			m.boundsMin, m.boundsMax = m.meshes[0].Bounds()
			for _, mesh := range m.meshes[1:] {
				lo, hi := mesh.Bounds()
				m.boundsMin = mathx.Min(m.boundsMin, lo)
				m.boundsMax = mathx.Max(m.boundsMax, hi)
			}
		}
		m.boundsDirty = false
	}
	return m.boundsMin, m.boundsMax
}

// CreateGPUResources uploads every referenced mesh that does not already
// have device-side buffers.
func (m *Model) CreateGPUResources(dev gpu.Device) error {
	for _, mesh := range m.meshes {
		if mesh.HasGPUResources() {
			continue
		}
		if err := mesh.CreateGPUResources(dev); err != nil {
			return fmt.Errorf("model %s: %w", m.meta.Name, err)
		}
	}
	return nil
}

// ReleaseGPUResources drops device buffers on every referenced mesh. Shared
// meshes lose their buffers for all referencing models; callers releasing a
// single model out of a scene should release at mesh granularity instead.
func (m *Model) ReleaseGPUResources() {
	for _, mesh := range m.meshes {
		mesh.ReleaseGPUResources()
	}
}

func (m *Model) HasGPUResources() bool {
	if len(m.meshes) == 0 {
		return false
	}
	for _, mesh := range m.meshes {
		if !mesh.HasGPUResources() {
			return false
		}
	}
	return true
}
