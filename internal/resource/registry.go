package resource

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rs-engine/engine/internal/core/event"
	"github.com/rs-engine/engine/internal/gpu"
)

// Registry is the owning store of every engine resource. One map owns the
// resources, keyed by handle; the name and path indices hold handles only.
// All registration flows through register/unregister so the three indices
// cannot drift apart. Single-threaded, single-writer by construction.
type Registry struct {
	log *zap.Logger
	bus *event.Bus // optional; nil means no notifications

	device gpu.Device // nil until Bind

	resources map[Handle]Resource
	byName    map[string]Handle
	byPath    map[string]Handle

	nextHandle Handle

	totalMemory uint64
	gpuMemory   uint64
}

func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		log:        log,
		resources:  make(map[Handle]Resource),
		byName:     make(map[string]Handle),
		byPath:     make(map[string]Handle),
		nextHandle: 1,
	}
}

// SetEvents attaches an event bus; registration and removal then emit
// ResourceLoaded / ResourceRemoved.
func (r *Registry) SetEvents(bus *event.Bus) { r.bus = bus }

// Bind attaches the GPU device. Resources registered while a device is bound
// get their GPU allocations created immediately.
func (r *Registry) Bind(dev gpu.Device) {
	r.device = dev
	if dev != nil {
		r.log.Info("registry bound to device", zap.String("device", dev.Name()))
	}
}

// Unbind detaches the device. Existing GPU allocations are not released;
// use ReleaseAllGPUResources first if the device is going away.
func (r *Registry) Unbind() { r.device = nil }

func (r *Registry) Device() gpu.Device { return r.device }

// generateHandle returns the next handle. Monotonically increasing from 1,
// never reused; only ClearAll resets the counter.
func (r *Registry) generateHandle() Handle {
	h := r.nextHandle
	r.nextHandle++
	return h
}

// register is the single choke point inserting a resource into the indices.
// The secondary indices are written only for non-empty keys.
func (r *Registry) register(res Resource, h Handle) {
	meta := res.Meta()
	r.resources[h] = res
	if meta.Name != "" {
		r.byName[meta.Name] = h
	}
	if meta.FilePath != "" {
		r.byPath[meta.FilePath] = h
	}
	if r.bus != nil {
		event.Emit(r.bus, event.ResourceLoaded{
			Handle: uint64(h),
			Name:   meta.Name,
			Type:   meta.Type.String(),
		})
	}
}

// unregister removes the secondary index entries, but only while they still
// point at this exact handle; a name or path overwritten by a later
// registration is left alone. The handle entry itself stays until the caller
// deletes it.
func (r *Registry) unregister(h Handle) {
	res, ok := r.resources[h]
	if !ok {
		return
	}
	meta := res.Meta()
	if idx, ok := r.byName[meta.Name]; ok && idx == h {
		delete(r.byName, meta.Name)
	}
	if idx, ok := r.byPath[meta.FilePath]; ok && idx == h {
		delete(r.byPath, meta.FilePath)
	}
}

// ── Models ────────────────────────────────────────────────────────

// LoadModel loads a model file (Wavefront OBJ). Loading the same path twice
// returns the first handle unchanged. On failure the returned handle is
// invalid and nothing is registered.
func (r *Registry) LoadModel(name, filepath string) (Handle, error) {
	if h, ok := r.byPath[filepath]; ok {
		r.log.Info("model already loaded",
			zap.String("name", name), zap.String("path", filepath))
		return h, nil
	}

	// The derived name must not collide with an existing mesh: on collision
	// CreateMesh would keep the old mesh and the model would reference
	// geometry the registry does not own.
	meshName := name + "/mesh"
	if _, taken := r.byName[meshName]; taken {
		meshName = fmt.Sprintf("%s/mesh#%d", name, r.nextHandle)
	}

	mesh, err := LoadOBJ(meshName, filepath)
	if err != nil {
		r.log.Error("model load failed",
			zap.String("path", filepath), zap.Error(err))
		return InvalidHandle, fmt.Errorf("load model %s: %w", filepath, err)
	}
	// The loaded mesh is registered in its own right so shared-mesh
	// aggregation and memory accounting see it; the path index belongs to
	// the model.
	mesh.Meta().FilePath = ""
	r.CreateMesh(meshName, mesh)

	model := NewModel(name)
	model.Meta().FilePath = filepath
	model.AddMesh(mesh)

	h := r.generateHandle()
	model.Meta().Handle = h
	r.register(model, h)

	if r.device != nil {
		if err := model.CreateGPUResources(r.device); err != nil {
			r.log.Warn("model GPU resource creation failed",
				zap.String("name", name), zap.Error(err))
		}
	}

	r.updateMemoryStats()
	r.log.Info("model loaded",
		zap.String("name", name),
		zap.String("path", filepath),
		zap.Uint64("handle", uint64(h)))
	return h, nil
}

// CreateModel registers a built model. A name collision returns the existing
// handle and discards the supplied model.
func (r *Registry) CreateModel(name string, model *Model) Handle {
	if model == nil {
		return InvalidHandle
	}
	return r.create(name, model)
}

func (r *Registry) GetModel(h Handle) (*Model, bool) {
	res, ok := r.resources[h]
	if !ok {
		return nil, false
	}
	m, ok := res.(*Model)
	return m, ok
}

func (r *Registry) GetModelNamed(name string) (*Model, bool) {
	h, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.GetModel(h)
}

// ── Meshes ────────────────────────────────────────────────────────

// CreateMesh registers a mesh. A name collision returns the existing handle
// and discards the supplied mesh.
func (r *Registry) CreateMesh(name string, mesh *Mesh) Handle {
	if mesh == nil {
		return InvalidHandle
	}
	return r.create(name, mesh)
}

// CreateCubeMesh builds and registers a procedural cube.
func (r *Registry) CreateCubeMesh(name string, size float32) Handle {
	if h, ok := r.byName[name]; ok {
		r.warnDuplicate(name, h)
		return h
	}
	return r.create(name, NewCubeMesh(name, size))
}

// CreateSphereMesh builds and registers a procedural UV sphere.
func (r *Registry) CreateSphereMesh(name string, radius float32, segments int) Handle {
	if h, ok := r.byName[name]; ok {
		r.warnDuplicate(name, h)
		return h
	}
	return r.create(name, NewSphereMesh(name, radius, segments))
}

// CreatePlaneMesh builds and registers a procedural plane.
func (r *Registry) CreatePlaneMesh(name string, width, height float32) Handle {
	if h, ok := r.byName[name]; ok {
		r.warnDuplicate(name, h)
		return h
	}
	return r.create(name, NewPlaneMesh(name, width, height))
}

func (r *Registry) GetMesh(h Handle) (*Mesh, bool) {
	res, ok := r.resources[h]
	if !ok {
		return nil, false
	}
	m, ok := res.(*Mesh)
	return m, ok
}

func (r *Registry) GetMeshNamed(name string) (*Mesh, bool) {
	h, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.GetMesh(h)
}

// ── Textures ──────────────────────────────────────────────────────

// LoadTexture loads a texture file (PNG or JPEG). Loading the same path
// twice returns the first handle unchanged, regardless of the name passed.
// On failure the returned handle is invalid and nothing is registered.
func (r *Registry) LoadTexture(name, filepath string) (Handle, error) {
	if h, ok := r.byPath[filepath]; ok {
		r.log.Info("texture already loaded",
			zap.String("name", name), zap.String("path", filepath))
		return h, nil
	}

	tex := NewTexture(name)
	tex.Meta().FilePath = filepath
	if err := tex.Load(); err != nil {
		r.log.Error("texture load failed",
			zap.String("path", filepath), zap.Error(err))
		return InvalidHandle, fmt.Errorf("load texture %s: %w", filepath, err)
	}

	h := r.generateHandle()
	tex.Meta().Handle = h
	r.register(tex, h)

	if r.device != nil {
		if err := tex.CreateGPUResources(r.device); err != nil {
			r.log.Warn("texture GPU resource creation failed",
				zap.String("name", name), zap.Error(err))
		}
	}

	r.updateMemoryStats()
	r.log.Info("texture loaded",
		zap.String("name", name),
		zap.String("path", filepath),
		zap.Uint64("handle", uint64(h)))
	return h, nil
}

// CreateTexture registers a built texture. A name collision returns the
// existing handle and discards the supplied texture.
func (r *Registry) CreateTexture(name string, tex *Texture) Handle {
	if tex == nil {
		return InvalidHandle
	}
	return r.create(name, tex)
}

// CreateSolidColorTexture builds and registers a 1x1 color texture.
func (r *Registry) CreateSolidColorTexture(name string, red, green, blue, alpha uint8) Handle {
	if h, ok := r.byName[name]; ok {
		r.warnDuplicate(name, h)
		return h
	}
	return r.create(name, NewSolidColorTexture(name, red, green, blue, alpha))
}

// CreateCheckerboardTexture builds and registers a checkerboard texture.
func (r *Registry) CreateCheckerboardTexture(name string, size, checkSize uint32) Handle {
	if h, ok := r.byName[name]; ok {
		r.warnDuplicate(name, h)
		return h
	}
	return r.create(name, NewCheckerboardTexture(name, size, checkSize))
}

func (r *Registry) GetTexture(h Handle) (*Texture, bool) {
	res, ok := r.resources[h]
	if !ok {
		return nil, false
	}
	t, ok := res.(*Texture)
	return t, ok
}

func (r *Registry) GetTextureNamed(name string) (*Texture, bool) {
	h, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.GetTexture(h)
}

// ── Shared create path ────────────────────────────────────────────

// create implements name-keyed creation: on collision the existing handle is
// returned and the supplied object is NOT installed.
func (r *Registry) create(name string, res Resource) Handle {
	if h, ok := r.byName[name]; ok {
		r.warnDuplicate(name, h)
		return h
	}

	h := r.generateHandle()
	meta := res.Meta()
	meta.Handle = h
	meta.Name = name
	r.register(res, h)

	if r.device != nil {
		if err := res.CreateGPUResources(r.device); err != nil {
			r.log.Warn("GPU resource creation failed",
				zap.String("name", name),
				zap.String("type", meta.Type.String()),
				zap.Error(err))
		}
	}

	r.updateMemoryStats()
	r.log.Debug("resource created",
		zap.String("name", name),
		zap.String("type", meta.Type.String()),
		zap.Uint64("handle", uint64(h)))
	return h
}

func (r *Registry) warnDuplicate(name string, existing Handle) {
	r.log.Warn("resource name already in use, returning existing handle",
		zap.String("name", name),
		zap.Uint64("handle", uint64(existing)))
}

// ── Generic access ────────────────────────────────────────────────

// Get returns any resource by handle.
func (r *Registry) Get(h Handle) (Resource, bool) {
	res, ok := r.resources[h]
	return res, ok
}

// GetNamed returns any resource by name.
func (r *Registry) GetNamed(name string) (Resource, bool) {
	h, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.Get(h)
}

func (r *Registry) HasResource(h Handle) bool {
	_, ok := r.resources[h]
	return ok
}

func (r *Registry) HasName(name string) bool {
	_, ok := r.byName[name]
	return ok
}

func (r *Registry) HasPath(path string) bool {
	_, ok := r.byPath[path]
	return ok
}

// Each visits every registered resource. Iteration order is unspecified.
// The callback must not mutate the registry.
func (r *Registry) Each(fn func(Handle, Resource)) {
	for h, res := range r.resources {
		fn(h, res)
	}
}

// Remove unregisters the resource, unloads it (CPU and GPU side) and drops
// ownership. Unknown handles are ignored.
func (r *Registry) Remove(h Handle) {
	res, ok := r.resources[h]
	if !ok {
		return
	}
	meta := res.Meta()
	name := meta.Name

	r.unregister(h)
	res.Unload()
	delete(r.resources, h)
	r.updateMemoryStats()

	if r.bus != nil {
		event.Emit(r.bus, event.ResourceRemoved{Handle: uint64(h), Name: name})
	}
	r.log.Info("resource removed",
		zap.Uint64("handle", uint64(h)), zap.String("name", name))
}

// RemoveNamed removes the resource the name index points at.
func (r *Registry) RemoveNamed(name string) {
	if h, ok := r.byName[name]; ok {
		r.Remove(h)
	}
}

// ClearAll unloads every resource, clears all indices, resets the handle
// counter and zeroes the statistics. Handles issued before the call become
// invalid and indistinguishable from never having existed.
func (r *Registry) ClearAll() {
	r.log.Info("clearing all resources", zap.Int("count", len(r.resources)))

	for _, res := range r.resources {
		res.Unload()
	}
	r.resources = make(map[Handle]Resource)
	r.byName = make(map[string]Handle)
	r.byPath = make(map[string]Handle)
	r.nextHandle = 1
	r.totalMemory = 0
	r.gpuMemory = 0
}

// ── GPU resource management ───────────────────────────────────────

// CreateGPUResources builds device-side allocations for one resource.
func (r *Registry) CreateGPUResources(h Handle) error {
	if r.device == nil {
		return fmt.Errorf("create GPU resources: no device bound")
	}
	res, ok := r.resources[h]
	if !ok {
		return fmt.Errorf("create GPU resources: unknown handle %d", h)
	}
	if err := res.CreateGPUResources(r.device); err != nil {
		return err
	}
	r.updateMemoryStats()
	return nil
}

// ReleaseGPUResources drops device-side allocations for one resource,
// keeping CPU data.
func (r *Registry) ReleaseGPUResources(h Handle) {
	if res, ok := r.resources[h]; ok {
		res.ReleaseGPUResources()
		r.updateMemoryStats()
	}
}

// CreateAllGPUResources attempts GPU creation on every registered resource
// independently. Best-effort: failures are tallied, not fatal.
func (r *Registry) CreateAllGPUResources() (created, failed int) {
	if r.device == nil {
		r.log.Error("cannot create GPU resources: no device bound")
		return 0, len(r.resources)
	}
	for h, res := range r.resources {
		if err := res.CreateGPUResources(r.device); err != nil {
			failed++
			r.log.Warn("GPU resource creation failed",
				zap.Uint64("handle", uint64(h)), zap.Error(err))
			continue
		}
		created++
	}
	r.updateMemoryStats()
	r.log.Info("bulk GPU resource creation finished",
		zap.Int("created", created), zap.Int("failed", failed))
	return created, failed
}

// ReleaseAllGPUResources drops device-side allocations on every resource,
// keeping CPU data.
func (r *Registry) ReleaseAllGPUResources() {
	for _, res := range r.resources {
		res.ReleaseGPUResources()
	}
	r.updateMemoryStats()
	r.log.Info("all GPU resources released")
}

// ── Statistics ────────────────────────────────────────────────────

func (r *Registry) Count() int { return len(r.resources) }

func (r *Registry) TotalMemoryUsed() uint64 { return r.totalMemory }

// GPUMemoryUsed is an estimate: the CPU-side size of every mesh and texture
// currently holding device allocations.
func (r *Registry) GPUMemoryUsed() uint64 { return r.gpuMemory }

// updateMemoryStats rescans every registered resource. O(n) per mutation;
// fine for the asset counts this engine targets.
func (r *Registry) updateMemoryStats() {
	var total, gpuUsed uint64
	for _, res := range r.resources {
		meta := res.Meta()
		total += meta.MemorySize
		switch meta.Type {
		case TypeMesh, TypeTexture:
			if res.HasGPUResources() {
				gpuUsed += meta.MemorySize
			}
		}
	}
	r.totalMemory = total
	r.gpuMemory = gpuUsed
}

// LogStatistics writes a summary of the registry contents to the log.
func (r *Registry) LogStatistics() {
	counts := make(map[Type]int)
	for _, res := range r.resources {
		counts[res.Meta().Type]++
	}
	r.log.Info("resource statistics",
		zap.Int("total", len(r.resources)),
		zap.Int("models", counts[TypeModel]),
		zap.Int("meshes", counts[TypeMesh]),
		zap.Int("textures", counts[TypeTexture]),
		zap.Uint64("cpu_bytes", r.totalMemory),
		zap.Uint64("gpu_bytes", r.gpuMemory))
}
