package render

import (
	"github.com/tlmoroso/sprite-render-test/common"
)

// ContextBackendType identifies the GPU backend implementation used by the Context.
type ContextBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU ContextBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// ContextBackend is the GPU API facing side of the Context. One implementation
// exists per supported GPU API; the Context delegates all GPU work to it.
type ContextBackend interface {
	// ConfigureSurface (re)configures the swapchain surface and depth texture
	// for the given size.
	ConfigureSurface(width, height int)

	// SurfaceSize returns the configured surface dimensions in pixels.
	SurfaceSize() (int, int)

	// SetPresentMode selects the surface present mode. Takes effect on the
	// next ConfigureSurface call.
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color the frame is cleared to in BeginFrame.
	SetClearColor(rgba [4]float64)

	// CreateTexture uploads staging data to a new GPU texture.
	CreateTexture(label string, staging common.TextureStagingData) (Texture, error)

	// CreateSampler creates a GPU sampler from staging configuration.
	CreateSampler(label string, staging common.SamplerStagingData) (Sampler, error)

	// BeginFrame acquires the swapchain image and opens the render pass.
	BeginFrame() error

	// DrawSprites records an instanced quad draw for one texture.
	DrawSprites(tex Texture, instances []SpriteInstance) error

	// EndFrame closes the render pass and submits the command buffer.
	EndFrame()

	// Present presents the acquired surface image.
	Present()

	// Release frees all GPU resources owned by the backend.
	Release()
}
