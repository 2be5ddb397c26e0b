package resource

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // registered decoders for LoadFromFile
	_ "image/png"
	"os"

	"github.com/rs-engine/engine/internal/gpu"
)

// Texture is RGBA8 pixel data plus an optional GPU-side texture.
type Texture struct {
	meta Metadata

	width  uint32
	height uint32
	pixels []byte // width*height*4, row-major RGBA

	gpuTexture gpu.Texture
}

func NewTexture(name string) *Texture {
	return &Texture{
		meta: Metadata{Name: name, Type: TypeTexture},
	}
}

func (t *Texture) Meta() *Metadata { return &t.meta }

func (t *Texture) Width() uint32  { return t.width }
func (t *Texture) Height() uint32 { return t.height }
func (t *Texture) Pixels() []byte { return t.pixels }

// Load decodes the file at FilePath. PNG and JPEG are supported.
func (t *Texture) Load() error {
	if t.meta.FilePath == "" {
		return fmt.Errorf("texture %s: no file path", t.meta.Name)
	}
	t.meta.State = StateLoading

	f, err := os.Open(t.meta.FilePath)
	if err != nil {
		t.meta.State = StateFailed
		return fmt.Errorf("open texture %s: %w", t.meta.FilePath, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		t.meta.State = StateFailed
		return fmt.Errorf("decode texture %s: %w", t.meta.FilePath, err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	t.setPixels(uint32(bounds.Dx()), uint32(bounds.Dy()), rgba.Pix)
	return nil
}

func (t *Texture) Unload() {
	t.ReleaseGPUResources()
	t.pixels = nil
	t.width = 0
	t.height = 0
	t.meta.MemorySize = 0
	t.meta.State = StateUnloaded
}

func (t *Texture) setPixels(w, h uint32, pix []byte) {
	t.width = w
	t.height = h
	t.pixels = pix
	t.meta.MemorySize = uint64(len(pix))
	t.meta.State = StateLoaded
}

func (t *Texture) CreateGPUResources(dev gpu.Device) error {
	if len(t.pixels) == 0 {
		return fmt.Errorf("texture %s: no pixel data", t.meta.Name)
	}
	t.ReleaseGPUResources()

	tex, err := dev.CreateTexture(t.meta.Name, t.width, t.height, gpu.TextureFormatRGBA8)
	if err != nil {
		return fmt.Errorf("texture %s: %w", t.meta.Name, err)
	}
	t.gpuTexture = tex
	return nil
}

func (t *Texture) ReleaseGPUResources() {
	if t.gpuTexture != nil {
		t.gpuTexture.Release()
		t.gpuTexture = nil
	}
}

func (t *Texture) HasGPUResources() bool { return t.gpuTexture != nil }

func (t *Texture) GPUTexture() gpu.Texture { return t.gpuTexture }

// NewSolidColorTexture builds a 1x1 texture of the given color.
func NewSolidColorTexture(name string, r, g, b, a uint8) *Texture {
	t := NewTexture(name)
	t.setPixels(1, 1, []byte{r, g, b, a})
	return t
}

// NewCheckerboardTexture builds a size x size texture of alternating black
// and white squares, checkSize pixels each.
func NewCheckerboardTexture(name string, size, checkSize uint32) *Texture {
	if size == 0 {
		size = 256
	}
	if checkSize == 0 {
		checkSize = 32
	}

	pix := make([]byte, size*size*4)
	for y := uint32(0); y < size; y++ {
		for x := uint32(0); x < size; x++ {
			var v byte = 255
			if ((x/checkSize)+(y/checkSize))%2 == 1 {
				v = 0
			}
			i := (y*size + x) * 4
			pix[i] = v
			pix[i+1] = v
			pix[i+2] = v
			pix[i+3] = 255
		}
	}

	t := NewTexture(name)
	t.setPixels(size, size, pix)
	return t
}
