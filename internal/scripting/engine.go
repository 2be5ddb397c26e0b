// Package scripting embeds a Lua VM for scene setup and per-frame hooks.
// Scripts drive the resource registry through a small `engine` API table;
// script errors are logged and absorbed, never fatal to the frame loop.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/rs-engine/engine/internal/resource"
)

// SceneAPI is what scripts may reach beyond the registry. TotalTime feeds
// engine.total_time; Close lets a script request shutdown.
type SceneAPI struct {
	Registry  *resource.Registry
	TotalTime func() float64
	Close     func(reason string)
}

// Engine wraps a single gopher-lua VM. Single-goroutine access only (the
// frame loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
	api SceneAPI
}

// New creates a Lua engine, installs the scene API and loads every .lua
// file in the given directory. A missing directory is not an error; the
// hooks simply never fire.
func New(scriptsDir string, api SceneAPI, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log, api: api}
	e.installAPI()

	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// Close shuts the VM down.
func (e *Engine) Close() {
	e.vm.Close()
}

// loadDir loads all .lua files in a directory, in name order.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// installAPI registers the global `engine` table backing the scene API.
func (e *Engine) installAPI() {
	t := e.vm.NewTable()

	e.vm.SetFuncs(t, map[string]lua.LGFunction{
		"create_cube": func(L *lua.LState) int {
			name := L.CheckString(1)
			size := float32(L.OptNumber(2, 1))
			h := e.api.Registry.CreateCubeMesh(name, size)
			L.Push(lua.LNumber(h))
			return 1
		},
		"create_sphere": func(L *lua.LState) int {
			name := L.CheckString(1)
			radius := float32(L.OptNumber(2, 1))
			segments := int(L.OptInt(3, 32))
			h := e.api.Registry.CreateSphereMesh(name, radius, segments)
			L.Push(lua.LNumber(h))
			return 1
		},
		"create_plane": func(L *lua.LState) int {
			name := L.CheckString(1)
			w := float32(L.OptNumber(2, 1))
			ht := float32(L.OptNumber(3, 1))
			h := e.api.Registry.CreatePlaneMesh(name, w, ht)
			L.Push(lua.LNumber(h))
			return 1
		},
		"checker_texture": func(L *lua.LState) int {
			name := L.CheckString(1)
			size := uint32(L.OptInt(2, 256))
			check := uint32(L.OptInt(3, 32))
			h := e.api.Registry.CreateCheckerboardTexture(name, size, check)
			L.Push(lua.LNumber(h))
			return 1
		},
		"load_texture": func(L *lua.LState) int {
			name := L.CheckString(1)
			path := L.CheckString(2)
			h, err := e.api.Registry.LoadTexture(name, path)
			if err != nil {
				L.Push(lua.LNumber(resource.InvalidHandle))
				L.Push(lua.LString(err.Error()))
				return 2
			}
			L.Push(lua.LNumber(h))
			return 1
		},
		"has_resource": func(L *lua.LState) int {
			name := L.CheckString(1)
			L.Push(lua.LBool(e.api.Registry.HasName(name)))
			return 1
		},
		"remove_resource": func(L *lua.LState) int {
			name := L.CheckString(1)
			e.api.Registry.RemoveNamed(name)
			return 0
		},
		"resource_count": func(L *lua.LState) int {
			L.Push(lua.LNumber(e.api.Registry.Count()))
			return 1
		},
		"total_time": func(L *lua.LState) int {
			var t float64
			if e.api.TotalTime != nil {
				t = e.api.TotalTime()
			}
			L.Push(lua.LNumber(t))
			return 1
		},
		"close": func(L *lua.LState) int {
			reason := L.OptString(1, "script")
			if e.api.Close != nil {
				e.api.Close(reason)
			}
			return 0
		},
		"log": func(L *lua.LState) int {
			e.log.Info("script", zap.String("msg", L.CheckString(1)))
			return 0
		},
	})

	e.vm.SetGlobal("engine", t)
}

// CallOnStart invokes the optional global on_start() hook.
func (e *Engine) CallOnStart() {
	e.callHook("on_start")
}

// CallOnUpdate invokes the optional global on_update(dt) hook.
func (e *Engine) CallOnUpdate(dt float64) {
	e.callHook("on_update", lua.LNumber(dt))
}

func (e *Engine) callHook(name string, args ...lua.LValue) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...); err != nil {
		e.log.Error("lua hook failed",
			zap.String("hook", name), zap.Error(err))
	}
}

// DoString runs a chunk of Lua against the VM. Used by tests and tools.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}
