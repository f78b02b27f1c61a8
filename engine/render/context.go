// Package render provides the process-wide rendering context: the GPU-backed
// resource factory and frame lifecycle used by the sprite renderer. The
// Context interface abstracts the GPU API behind a backend so that loaders
// and tests do not depend on a live device.
package render

import (
	"github.com/tlmoroso/sprite-render-test/common"
	"github.com/tlmoroso/sprite-render-test/engine/window"
)

// SpriteInstance is one textured quad to draw. Position is the quad center in
// screen pixels, Scale is the quad size in pixels, Rotation is radians
// counter-clockwise, Depth orders overlapping sprites (smaller draws on top).
type SpriteInstance struct {
	Position [2]float32
	Scale    [2]float32
	Rotation float32
	Depth    float32
}

// context is the implementation of the Context interface.
type context struct {
	backendType ContextBackendType
	backend     ContextBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingClearColor    *[4]float64
}

// Context defines the interface for the rendering context.
//
// It owns the GPU device, surface, and sprite pipeline, and is the only
// component allowed to construct GPU-backed resources. All loading-phase
// mutation goes through a SharedContext handle with exclusive acquisition.
type Context interface {
	// CreateTexture uploads RGBA staging data to a new GPU texture.
	//
	// Parameters:
	//   - label: a debug label for the texture
	//   - staging: the CPU-side pixel data to upload
	//
	// Returns:
	//   - Texture: the GPU-backed texture
	//   - error: error if GPU resource creation fails
	CreateTexture(label string, staging common.TextureStagingData) (Texture, error)

	// CreateSampler creates a GPU sampler from staging configuration.
	// Zero-valued fields fall back to linear filtering and repeat addressing.
	//
	// Parameters:
	//   - label: a debug label for the sampler
	//   - staging: the sampler configuration
	//
	// Returns:
	//   - Sampler: the GPU-backed sampler
	//   - error: error if GPU resource creation fails
	CreateSampler(label string, staging common.SamplerStagingData) (Sampler, error)

	// Resize reconfigures the surface for a new window size.
	//
	// Parameters:
	//   - width: the new surface width in pixels
	//   - height: the new surface height in pixels
	Resize(width, height int)

	// SurfaceSize returns the current surface dimensions in pixels.
	//
	// Returns:
	//   - int: surface width
	//   - int: surface height
	SurfaceSize() (int, int)

	// BeginFrame acquires the next swapchain image and opens the frame's
	// render pass. Returns an error if the previous frame was not presented.
	//
	// Returns:
	//   - error: error if the surface image cannot be acquired
	BeginFrame() error

	// DrawSprites records draw calls for a batch of instances sharing one
	// texture. Must be called between BeginFrame and EndFrame.
	//
	// Parameters:
	//   - tex: the texture sampled by every instance in the batch
	//   - instances: the quads to draw
	//
	// Returns:
	//   - error: error if the batch cannot be recorded
	DrawSprites(tex Texture, instances []SpriteInstance) error

	// EndFrame closes the render pass and submits the frame's command buffer.
	EndFrame()

	// Present presents the rendered frame to the display surface.
	Present()

	// Release frees all GPU resources owned by the context.
	Release()
}

var _ Context = &context{}

// NewContext creates a rendering Context bound to the given window's surface.
// The surface descriptor is platform-specific and obtained from the window.
//
// Parameters:
//   - backendType: the GPU backend to use (e.g., BackendTypeWGPU)
//   - win: the window providing the render surface
//   - options: functional options for context configuration
//
// Returns:
//   - Context: the newly created rendering context
func NewContext(backendType ContextBackendType, win window.Window, options ...ContextBuilderOption) Context {
	c := &context{
		backendType: backendType,
	}

	for _, option := range options {
		option(c)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		c.backend = newWGPUContextBackend(win.SurfaceDescriptor(), c.forceFallbackAdapter)
	}

	if c.pendingPresentMode != nil {
		c.backend.SetPresentMode(*c.pendingPresentMode)
	}
	if c.pendingClearColor != nil {
		c.backend.SetClearColor(*c.pendingClearColor)
	}

	c.backend.ConfigureSurface(win.Width(), win.Height())
	return c
}

func (c *context) CreateTexture(label string, staging common.TextureStagingData) (Texture, error) {
	return c.backend.CreateTexture(label, staging)
}

func (c *context) CreateSampler(label string, staging common.SamplerStagingData) (Sampler, error) {
	return c.backend.CreateSampler(label, staging)
}

func (c *context) Resize(width, height int) {
	c.backend.ConfigureSurface(width, height)
}

func (c *context) SurfaceSize() (int, int) {
	return c.backend.SurfaceSize()
}

func (c *context) BeginFrame() error {
	return c.backend.BeginFrame()
}

func (c *context) DrawSprites(tex Texture, instances []SpriteInstance) error {
	return c.backend.DrawSprites(tex, instances)
}

func (c *context) EndFrame() {
	c.backend.EndFrame()
}

func (c *context) Present() {
	c.backend.Present()
}

func (c *context) Release() {
	c.backend.Release()
}
