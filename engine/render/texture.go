package render

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Texture is a GPU-backed 2D texture usable by the sprite pipeline.
type Texture interface {
	// Label returns the debug label the texture was created with.
	Label() string

	// Size returns the texture dimensions in pixels.
	//
	// Returns:
	//   - uint32: width in pixels
	//   - uint32: height in pixels
	Size() (uint32, uint32)

	// Release frees the GPU resources backing the texture.
	Release()
}

// Sampler is a GPU-backed texture sampler.
type Sampler interface {
	// Label returns the debug label the sampler was created with.
	Label() string

	// Release frees the GPU resources backing the sampler.
	Release()
}

// wgpuTexture is the WGPU implementation of Texture. The bind group pairing
// the texture view with the sprite sampler is created lazily on first draw.
type wgpuTexture struct {
	label  string
	width  uint32
	height uint32

	texture *wgpu.Texture
	view    *wgpu.TextureView

	bindGroup *wgpu.BindGroup
}

var _ Texture = &wgpuTexture{}

func (t *wgpuTexture) Label() string {
	return t.label
}

func (t *wgpuTexture) Size() (uint32, uint32) {
	return t.width, t.height
}

func (t *wgpuTexture) Release() {
	if t.bindGroup != nil {
		t.bindGroup.Release()
		t.bindGroup = nil
	}
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

// wgpuSampler is the WGPU implementation of Sampler.
type wgpuSampler struct {
	label   string
	sampler *wgpu.Sampler
}

var _ Sampler = &wgpuSampler{}

func (s *wgpuSampler) Label() string {
	return s.label
}

func (s *wgpuSampler) Release() {
	if s.sampler != nil {
		s.sampler.Release()
		s.sampler = nil
	}
}
