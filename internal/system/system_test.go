package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rs-engine/engine/internal/config"
	"github.com/rs-engine/engine/internal/core/clock"
	"github.com/rs-engine/engine/internal/core/engine"
	"github.com/rs-engine/engine/internal/gpu"
	"github.com/rs-engine/engine/internal/resource"
)

func resourceModel(name string, meshes ...*resource.Mesh) *resource.Model {
	m := resource.NewModel(name)
	for _, mesh := range meshes {
		m.AddMesh(mesh)
	}
	return m
}

type fakeTime struct {
	now time.Time
}

func newFakeTime() *fakeTime {
	return &fakeTime{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeTime) Now() time.Time          { return f.now }
func (f *fakeTime) Advance(d time.Duration) { f.now = f.now.Add(d) }

// bootBaseline starts a full engine on the baseline set with a headless
// device and a manually driven clock.
func bootBaseline(t *testing.T, cfg *config.Config, poll PollFunc) (*engine.Engine, *fakeTime) {
	t.Helper()
	if cfg == nil {
		cfg = config.Defaults()
	}
	ft := newFakeTime()
	dev := gpu.NewHeadless(nil)

	e := engine.New(zap.NewNop(),
		engine.WithClock(clock.NewWithSource(ft.Now)),
		engine.WithBaseline(Baseline(dev, cfg, poll, zap.NewNop())))

	if err := e.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(e.Shutdown)
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return e, ft
}

func frame(e *engine.Engine, ft *fakeTime, d time.Duration) {
	ft.Advance(d)
	e.Update()
}

func TestBaselineBoot(t *testing.T) {
	e, ft := bootBaseline(t, nil, nil)

	if e.SystemCount() != 5 {
		t.Errorf("SystemCount = %d, want 5 with scripting disabled", e.SystemCount())
	}
	if _, ok := engine.Lookup[*Application](e); !ok {
		t.Error("application system missing")
	}
	res, ok := engine.Lookup[*Resources](e)
	if !ok || res.Registry() == nil {
		t.Fatal("resource system missing or registry not built")
	}
	if res.Registry().Device() == nil {
		t.Error("registry not bound to the application device")
	}

	frame(e, ft, 20*time.Millisecond)

	render, _ := engine.Lookup[*Render](e)
	if render.Frames() != 1 {
		t.Errorf("render frames = %d, want 1", render.Frames())
	}
	physics, _ := engine.Lookup[*Physics](e)
	if physics.FixedSteps() != 1 {
		t.Errorf("fixed steps = %d, want 1 for a 20ms frame", physics.FixedSteps())
	}
}

func TestBaselineIncludesScriptWhenEnabled(t *testing.T) {
	cfg := config.Defaults()
	cfg.Scripting.Enabled = true
	cfg.Scripting.Dir = filepath.Join(t.TempDir(), "empty")

	e, _ := bootBaseline(t, cfg, nil)
	if e.SystemCount() != 6 {
		t.Errorf("SystemCount = %d, want 6 with scripting", e.SystemCount())
	}
	if _, ok := engine.Lookup[*Script](e); !ok {
		t.Error("script system missing")
	}
}

func TestApplicationRequiresDevice(t *testing.T) {
	e := engine.New(zap.NewNop())
	e.Add(NewApplication(nil, config.Defaults().Window, nil))

	if err := e.Initialize(); err == nil {
		t.Error("Initialize should fail without a GPU device")
	}
}

func TestResourcesRequireApplication(t *testing.T) {
	e := engine.New(zap.NewNop())
	e.Add(NewResources("", nil))

	if err := e.Initialize(); err == nil {
		t.Error("Initialize should fail without the application system")
	}
}

func TestManifestPreloadOnStart(t *testing.T) {
	manifest := filepath.Join(t.TempDir(), "manifest.yaml")
	data := `
meshes:
  - name: ground
    shape: plane
    width: 8
    height: 8
`
	if err := os.WriteFile(manifest, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Defaults()
	cfg.Resources.Manifest = manifest

	e, _ := bootBaseline(t, cfg, nil)
	res, _ := engine.Lookup[*Resources](e)
	if _, ok := res.Registry().GetMeshNamed("ground"); !ok {
		t.Error("manifest mesh not preloaded")
	}
}

func TestInputQuitRequestsClose(t *testing.T) {
	quit := false
	e, ft := bootBaseline(t, nil, func() bool { return quit })

	frame(e, ft, time.Millisecond)
	if e.ShouldClose() {
		t.Fatal("close requested while poll reports no quit")
	}

	quit = true
	frame(e, ft, time.Millisecond) // poll fires, event queued
	frame(e, ft, time.Millisecond) // event delivered
	if !e.ShouldClose() {
		t.Error("quit from input never reached the engine")
	}
}

func TestPhysicsIntegratesGravity(t *testing.T) {
	e, ft := bootBaseline(t, nil, nil)

	res, _ := engine.Lookup[*Resources](e)
	reg := res.Registry()
	reg.CreateCubeMesh("box", 1)
	mesh, _ := reg.GetMeshNamed("box")

	model := resourceModel("crate", mesh)
	h := reg.CreateModel("crate", model)

	physics, _ := engine.Lookup[*Physics](e)
	physics.MarkDynamic(h)

	for i := 0; i < 10; i++ {
		frame(e, ft, 20*time.Millisecond)
	}

	got, _ := reg.GetModel(h)
	if got.Transform().Position.Y >= 0 {
		t.Errorf("dynamic model did not fall: y = %v", got.Transform().Position.Y)
	}
	if physics.FixedSteps() == 0 {
		t.Fatal("no fixed steps ran")
	}
	wantSim := float64(physics.FixedSteps()) * e.Clock().FixedTimeStep()
	if diff := physics.SimTime() - wantSim; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("SimTime = %v, want %v", physics.SimTime(), wantSim)
	}
}

func TestPhysicsDropsRemovedModels(t *testing.T) {
	e, ft := bootBaseline(t, nil, nil)

	res, _ := engine.Lookup[*Resources](e)
	reg := res.Registry()
	reg.CreateCubeMesh("box", 1)
	mesh, _ := reg.GetMeshNamed("box")
	h := reg.CreateModel("crate", resourceModel("crate", mesh))

	physics, _ := engine.Lookup[*Physics](e)
	physics.MarkDynamic(h)

	reg.Remove(h)
	frame(e, ft, 20*time.Millisecond) // must not panic on the stale handle
}

func TestRenderCountsModelMeshes(t *testing.T) {
	e, ft := bootBaseline(t, nil, nil)

	res, _ := engine.Lookup[*Resources](e)
	reg := res.Registry()
	reg.CreateCubeMesh("box", 1)
	reg.CreateSphereMesh("ball", 1, 8)
	boxMesh, _ := reg.GetMeshNamed("box")
	ballMesh, _ := reg.GetMeshNamed("ball")

	model := resourceModel("scene", boxMesh)
	model.AddMesh(ballMesh)
	reg.CreateModel("scene", model)

	frame(e, ft, time.Millisecond)

	render, _ := engine.Lookup[*Render](e)
	if render.LastDrawCount() != 2 {
		t.Errorf("LastDrawCount = %d, want the model's 2 meshes", render.LastDrawCount())
	}
	if !model.HasGPUResources() {
		t.Error("render did not keep the model GPU-resident")
	}
}

func TestScriptSystemDrivesScene(t *testing.T) {
	dir := t.TempDir()
	script := `
function on_start()
  engine.create_cube("spawned", 1)
end
`
	if err := os.WriteFile(filepath.Join(dir, "scene.lua"), []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Defaults()
	cfg.Scripting.Enabled = true
	cfg.Scripting.Dir = dir

	e, _ := bootBaseline(t, cfg, nil)
	res, _ := engine.Lookup[*Resources](e)
	if _, ok := res.Registry().GetMeshNamed("spawned"); !ok {
		t.Error("on_start script did not create the mesh")
	}
}
