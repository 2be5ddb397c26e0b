package resource

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Manifest describes a set of assets to preload into a registry.
type Manifest struct {
	Meshes   []MeshEntry    `yaml:"meshes"`
	Textures []TextureEntry `yaml:"textures"`
	Models   []ModelEntry   `yaml:"models"`
}

// MeshEntry declares a procedural mesh.
type MeshEntry struct {
	Name     string  `yaml:"name"`
	Shape    string  `yaml:"shape"` // cube, sphere, plane
	Size     float32 `yaml:"size"`
	Radius   float32 `yaml:"radius"`
	Segments int     `yaml:"segments"`
	Width    float32 `yaml:"width"`
	Height   float32 `yaml:"height"`
}

// TextureEntry declares a file-backed or procedural texture.
type TextureEntry struct {
	Name  string  `yaml:"name"`
	File  string  `yaml:"file"`  // set for file-backed textures
	Kind  string  `yaml:"kind"`  // "solid" or "checker" for procedural ones
	RGBA  []uint8 `yaml:"rgba"`  // solid color, 4 components
	Size  uint32  `yaml:"size"`  // checker texture size
	Check uint32  `yaml:"check"` // checker square size
}

// ModelEntry declares a model, either file-backed or aggregating named
// meshes declared earlier in the manifest.
type ModelEntry struct {
	Name   string   `yaml:"name"`
	File   string   `yaml:"file"`
	Meshes []string `yaml:"meshes"`
}

// LoadManifest parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// Apply loads every manifest entry into the registry. Best-effort: entries
// fail independently and the failure count is returned alongside the number
// of resources that made it in.
func (m *Manifest) Apply(r *Registry, log *zap.Logger) (loaded, failed int) {
	if log == nil {
		log = zap.NewNop()
	}

	for _, e := range m.Meshes {
		var h Handle
		switch e.Shape {
		case "cube":
			size := e.Size
			if size == 0 {
				size = 1
			}
			h = r.CreateCubeMesh(e.Name, size)
		case "sphere":
			radius := e.Radius
			if radius == 0 {
				radius = 1
			}
			segments := e.Segments
			if segments == 0 {
				segments = 32
			}
			h = r.CreateSphereMesh(e.Name, radius, segments)
		case "plane":
			w, ht := e.Width, e.Height
			if w == 0 {
				w = 1
			}
			if ht == 0 {
				ht = 1
			}
			h = r.CreatePlaneMesh(e.Name, w, ht)
		default:
			log.Warn("unknown mesh shape in manifest",
				zap.String("name", e.Name), zap.String("shape", e.Shape))
			failed++
			continue
		}
		if h.Valid() {
			loaded++
		} else {
			failed++
		}
	}

	for _, e := range m.Textures {
		switch {
		case e.File != "":
			if _, err := r.LoadTexture(e.Name, e.File); err != nil {
				log.Warn("manifest texture load failed",
					zap.String("name", e.Name), zap.Error(err))
				failed++
				continue
			}
			loaded++
		case e.Kind == "solid":
			rgba := [4]uint8{255, 255, 255, 255}
			copy(rgba[:], e.RGBA)
			if r.CreateSolidColorTexture(e.Name, rgba[0], rgba[1], rgba[2], rgba[3]).Valid() {
				loaded++
			} else {
				failed++
			}
		case e.Kind == "checker":
			if r.CreateCheckerboardTexture(e.Name, e.Size, e.Check).Valid() {
				loaded++
			} else {
				failed++
			}
		default:
			log.Warn("manifest texture entry has neither file nor kind",
				zap.String("name", e.Name))
			failed++
		}
	}

	for _, e := range m.Models {
		if e.File != "" {
			if _, err := r.LoadModel(e.Name, e.File); err != nil {
				log.Warn("manifest model load failed",
					zap.String("name", e.Name), zap.Error(err))
				failed++
				continue
			}
			loaded++
			continue
		}

		model := NewModel(e.Name)
		missing := false
		for _, meshName := range e.Meshes {
			mesh, ok := r.GetMeshNamed(meshName)
			if !ok {
				log.Warn("manifest model references unknown mesh",
					zap.String("model", e.Name), zap.String("mesh", meshName))
				missing = true
				break
			}
			model.AddMesh(mesh)
		}
		if missing {
			failed++
			continue
		}
		if r.CreateModel(e.Name, model).Valid() {
			loaded++
		} else {
			failed++
		}
	}

	return loaded, failed
}
