// Package gpu defines the opaque device contract the engine core talks to.
// The core never inspects a device beyond this interface; native backends
// (Dawn, WebGPU) live outside this module and plug in through it.
package gpu

// BufferUsage describes what a buffer is bound as.
type BufferUsage int

const (
	BufferUsageVertex BufferUsage = iota
	BufferUsageIndex
	BufferUsageUniform
)

func (u BufferUsage) String() string {
	switch u {
	case BufferUsageVertex:
		return "vertex"
	case BufferUsageIndex:
		return "index"
	case BufferUsageUniform:
		return "uniform"
	default:
		return "unknown"
	}
}

// TextureFormat is the pixel layout of a device texture.
type TextureFormat int

const (
	TextureFormatRGBA8 TextureFormat = iota
	TextureFormatBGRA8
)

// Buffer is a device-side buffer allocation.
type Buffer interface {
	Size() uint64
	Release()
}

// Texture is a device-side texture allocation.
type Texture interface {
	Width() uint32
	Height() uint32
	Size() uint64
	Release()
}

// Device creates GPU-side allocations from CPU-side resource data.
type Device interface {
	Name() string
	CreateBuffer(label string, size uint64, usage BufferUsage) (Buffer, error)
	CreateTexture(label string, width, height uint32, format TextureFormat) (Texture, error)
}
