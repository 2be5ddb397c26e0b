package gpu

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Headless is a Device that performs no real allocation. It tracks
// outstanding allocations and byte totals so the registry's GPU accounting
// and best-effort bulk paths can run (and be tested) without a native
// backend. Not safe for concurrent use; the engine core is single-threaded.
type Headless struct {
	log *zap.Logger

	allocated uint64
	buffers   int
	textures  int

	failNext   int
	failLabels map[string]bool
}

func NewHeadless(log *zap.Logger) *Headless {
	if log == nil {
		log = zap.NewNop()
	}
	return &Headless{
		log:        log,
		failLabels: make(map[string]bool),
	}
}

func (d *Headless) Name() string { return "headless" }

// AllocatedBytes reports the total bytes of live allocations.
func (d *Headless) AllocatedBytes() uint64 { return d.allocated }

// LiveAllocations reports the number of live buffers and textures.
func (d *Headless) LiveAllocations() (buffers, textures int) {
	return d.buffers, d.textures
}

// FailNext makes the next n creation calls fail. Used to exercise the
// registry's best-effort bulk operations.
func (d *Headless) FailNext(n int) { d.failNext = n }

// FailLabel makes every creation call with the given label fail.
func (d *Headless) FailLabel(label string) { d.failLabels[label] = true }

var errInjectedFailure = errors.New("injected device failure")

func (d *Headless) shouldFail(label string) bool {
	if d.failLabels[label] {
		return true
	}
	if d.failNext > 0 {
		d.failNext--
		return true
	}
	return false
}

func (d *Headless) CreateBuffer(label string, size uint64, usage BufferUsage) (Buffer, error) {
	if d.shouldFail(label) {
		return nil, fmt.Errorf("create buffer %q: %w", label, errInjectedFailure)
	}
	if size == 0 {
		return nil, fmt.Errorf("create buffer %q: zero size", label)
	}
	d.allocated += size
	d.buffers++
	d.log.Debug("buffer created",
		zap.String("label", label),
		zap.Uint64("size", size),
		zap.String("usage", usage.String()))
	return &headlessBuffer{dev: d, size: size}, nil
}

func (d *Headless) CreateTexture(label string, width, height uint32, format TextureFormat) (Texture, error) {
	if d.shouldFail(label) {
		return nil, fmt.Errorf("create texture %q: %w", label, errInjectedFailure)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("create texture %q: zero dimension", label)
	}
	size := uint64(width) * uint64(height) * 4
	d.allocated += size
	d.textures++
	return &headlessTexture{dev: d, w: width, h: height, size: size}, nil
}

type headlessBuffer struct {
	dev      *Headless
	size     uint64
	released bool
}

func (b *headlessBuffer) Size() uint64 { return b.size }

func (b *headlessBuffer) Release() {
	if b.released {
		return
	}
	b.released = true
	b.dev.allocated -= b.size
	b.dev.buffers--
}

type headlessTexture struct {
	dev      *Headless
	w, h     uint32
	size     uint64
	released bool
}

func (t *headlessTexture) Width() uint32  { return t.w }
func (t *headlessTexture) Height() uint32 { return t.h }
func (t *headlessTexture) Size() uint64   { return t.size }

func (t *headlessTexture) Release() {
	if t.released {
		return
	}
	t.released = true
	t.dev.allocated -= t.size
	t.dev.textures--
}
