// Package resource owns all shared engine assets (meshes, models, textures)
// behind opaque handles. The Registry is the sole authoritative store; name
// and path indices only ever hold handles, never a second owning reference.
package resource

import "github.com/rs-engine/engine/internal/gpu"

// Handle is an opaque resource identifier. Zero is the invalid sentinel;
// every other value is unique for the lifetime of one Registry and is never
// reused, even after removal.
type Handle uint64

// InvalidHandle is the reserved "no resource" value.
const InvalidHandle Handle = 0

func (h Handle) Valid() bool { return h != InvalidHandle }

// Type tags the concrete resource variant.
type Type int

const (
	TypeUnknown Type = iota
	TypeModel
	TypeMesh
	TypeTexture
	TypeShader
	TypeMaterial
)

func (t Type) String() string {
	switch t {
	case TypeModel:
		return "model"
	case TypeMesh:
		return "mesh"
	case TypeTexture:
		return "texture"
	case TypeShader:
		return "shader"
	case TypeMaterial:
		return "material"
	default:
		return "unknown"
	}
}

// State is the loading state of a resource.
type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Metadata is the bookkeeping common to every resource. The registry stamps
// Handle and Name during registration.
type Metadata struct {
	Handle     Handle
	Name       string
	FilePath   string
	Type       Type
	State      State
	MemorySize uint64 // CPU-side bytes
}

func (m *Metadata) IsLoaded() bool { return m.State == StateLoaded }

// Resource is the capability contract of every asset variant.
type Resource interface {
	// Meta exposes the shared metadata for registry bookkeeping.
	Meta() *Metadata

	// Load populates CPU-side data (from FilePath, where applicable).
	Load() error

	// Unload releases CPU-side data and any GPU-side allocations.
	Unload()

	// CreateGPUResources builds device-side allocations from CPU data.
	// Recreating over existing allocations releases them first.
	CreateGPUResources(dev gpu.Device) error

	// ReleaseGPUResources drops device-side allocations, keeping CPU data.
	ReleaseGPUResources()

	// HasGPUResources reports whether device-side allocations exist.
	HasGPUResources() bool
}
