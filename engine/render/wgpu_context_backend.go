package render

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/tlmoroso/sprite-render-test/common"
)

// spriteShaderSource is the WGSL source for the sprite pipeline. Instances are
// unit quads transformed by per-instance position/scale/rotation in screen
// pixels; the globals uniform carries the surface size for the NDC mapping.
const spriteShaderSource = `
struct Globals {
    screen_size: vec2<f32>,
    _pad: vec2<f32>,
};

@group(0) @binding(0) var<uniform> globals: Globals;
@group(1) @binding(0) var sprite_texture: texture_2d<f32>;
@group(1) @binding(1) var sprite_sampler: sampler;

struct VertexIn {
    @location(0) pos: vec2<f32>,
    @location(1) uv: vec2<f32>,
    @location(2) i_translate: vec2<f32>,
    @location(3) i_scale: vec2<f32>,
    @location(4) i_rotation: f32,
    @location(5) i_depth: f32,
};

struct VertexOut {
    @builtin(position) pos: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

@vertex
fn vs_main(in: VertexIn) -> VertexOut {
    let c = cos(in.i_rotation);
    let s = sin(in.i_rotation);
    let local = in.pos * in.i_scale;
    let world = vec2<f32>(local.x * c - local.y * s, local.x * s + local.y * c) + in.i_translate;
    let ndc = vec2<f32>(
        world.x / globals.screen_size.x * 2.0 - 1.0,
        1.0 - world.y / globals.screen_size.y * 2.0,
    );

    var out: VertexOut;
    out.pos = vec4<f32>(ndc, in.i_depth, 1.0);
    out.uv = in.uv;
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    return textureSample(sprite_texture, sprite_sampler, in.uv);
}
`

// quadVertexData is a unit quad centered at the origin: two triangles of
// interleaved position (x, y) and uv (u, v) float32 attributes.
var quadVertexData = []float32{
	-0.5, -0.5, 0.0, 1.0,
	0.5, -0.5, 1.0, 1.0,
	0.5, 0.5, 1.0, 0.0,
	-0.5, -0.5, 0.0, 1.0,
	0.5, 0.5, 1.0, 0.0,
	-0.5, 0.5, 0.0, 0.0,
}

const (
	quadVertexCount     = 6
	spriteInstanceBytes = 6 * 4 // translate(2) + scale(2) + rotation + depth, float32 each
)

// wgpuContextBackend implements ContextBackend on the cogentcore WebGPU bindings.
type wgpuContextBackend struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat *wgpu.TextureFormat
	surfaceWidth  int
	surfaceHeight int
	presentMode   wgpu.PresentMode
	clearColor    wgpu.Color

	depthTextureView *wgpu.TextureView

	// Sprite pipeline resources, created once during ConfigureSurface.
	spritePipeline     *wgpu.RenderPipeline
	globalsBuffer      *wgpu.Buffer
	globalsBindGroup   *wgpu.BindGroup
	textureLayout      *wgpu.BindGroupLayout
	defaultSampler     *wgpu.Sampler
	quadVertexBuffer   *wgpu.Buffer
	renderPassDesc     *wgpu.RenderPassDescriptor
	frameEncoder       *wgpu.CommandEncoder
	framePass          *wgpu.RenderPassEncoder
	frameSurface       *wgpu.Texture
	frameView          *wgpu.TextureView
	frameInstanceBufs  []*wgpu.Buffer
	released           bool
}

var _ ContextBackend = &wgpuContextBackend{}

// newWGPUContextBackend creates the WGPU instance, surface, adapter, device,
// and queue. Panics on failure: a process without a usable GPU device cannot
// proceed past bootstrap.
func newWGPUContextBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool) *wgpuContextBackend {
	runtime.LockOSThread()

	b := &wgpuContextBackend{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		clearColor:  wgpu.Color{R: 0.0, G: 0.0, B: 0.0, A: 1.0},
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	adapter, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		panic(err)
	}
	b.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Sprite Device",
	})
	if err != nil {
		panic(err)
	}
	b.device = device
	b.queue = device.GetQueue()

	return b
}

func (b *wgpuContextBackend) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]
	b.surfaceWidth = width
	b.surfaceHeight = height

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	b.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	b.renderPassDesc = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       nil, // set per-frame to the swapchain view
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: b.clearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}

	if b.spritePipeline == nil {
		if err := b.initSpritePipeline(); err != nil {
			panic(err)
		}
	}
	b.writeGlobals()
}

func (b *wgpuContextBackend) SurfaceSize() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surfaceWidth, b.surfaceHeight
}

func (b *wgpuContextBackend) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	case PresentModeUncapped:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeImmediate
	}
}

func (b *wgpuContextBackend) SetClearColor(rgba [4]float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearColor = wgpu.Color{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}
}

// initSpritePipeline compiles the sprite shader and creates the pipeline,
// globals uniform, default sampler, and quad vertex buffer. Called once, with
// b.mu held, after the first surface configuration.
func (b *wgpuContextBackend) initSpritePipeline() error {
	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Sprite Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: spriteShaderSource,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to compile sprite shader: %w", err)
	}

	globalsLayout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Sprite Globals Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: 16,
				},
			},
		},
	})
	if err != nil {
		return err
	}

	b.textureLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Sprite Texture Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return err
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Sprite Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{globalsLayout, b.textureLayout},
	})
	if err != nil {
		return err
	}

	b.spritePipeline, err = b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Sprite Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: 4 * 4,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
					},
				},
				{
					ArrayStride: spriteInstanceBytes,
					StepMode:    wgpu.VertexStepModeInstance,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 2},
						{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 3},
						{Format: wgpu.VertexFormatFloat32, Offset: 16, ShaderLocation: 4},
						{Format: wgpu.VertexFormatFloat32, Offset: 20, ShaderLocation: 5},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format: *b.surfaceFormat,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
							Operation: wgpu.BlendOperationAdd,
						},
						Alpha: wgpu.BlendComponent{
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
							Operation: wgpu.BlendOperationAdd,
						},
					},
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLessEqual,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return err
	}

	b.globalsBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Sprite Globals Buffer",
		Size:  16,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}

	b.globalsBindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Sprite Globals Bind Group",
		Layout: globalsLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  b.globalsBuffer,
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		return err
	}

	b.defaultSampler, err = b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Sprite Default Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return err
	}

	vertexBytes := common.SliceToBytes(quadVertexData)
	b.quadVertexBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Sprite Quad Vertex Buffer",
		Size:  uint64(len(vertexBytes)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	b.queue.WriteBuffer(b.quadVertexBuffer, 0, vertexBytes)

	return nil
}

// writeGlobals uploads the current surface size to the globals uniform.
// Called with b.mu held.
func (b *wgpuContextBackend) writeGlobals() {
	if b.globalsBuffer == nil {
		return
	}
	b.queue.WriteBuffer(b.globalsBuffer, 0, common.SliceToBytes([]float32{
		float32(b.surfaceWidth), float32(b.surfaceHeight), 0, 0,
	}))
}

func (b *wgpuContextBackend) CreateTexture(label string, staging common.TextureStagingData) (Texture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if staging.Width == 0 || staging.Height == 0 {
		return nil, fmt.Errorf("texture %q has zero dimension (%dx%d)", label, staging.Width, staging.Height)
	}
	if uint32(len(staging.Pixels)) != staging.Width*staging.Height*4 {
		return nil, fmt.Errorf("texture %q pixel data length %d does not match %dx%d RGBA", label, len(staging.Pixels), staging.Width, staging.Height)
	}

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label,
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              staging.Width,
			Height:             staging.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		staging.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  staging.Width * 4,
			RowsPerImage: staging.Height,
		},
		&wgpu.Extent3D{
			Width:              staging.Width,
			Height:             staging.Height,
			DepthOrArrayLayers: 1,
		},
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}

	return &wgpuTexture{
		label:   label,
		width:   staging.Width,
		height:  staging.Height,
		texture: tex,
		view:    view,
	}, nil
}

func (b *wgpuContextBackend) CreateSampler(label string, staging common.SamplerStagingData) (Sampler, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  common.Coalesce(staging.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(staging.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(staging.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(staging.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(staging.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(staging.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   common.Coalesce(staging.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(staging.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(staging.MaxAnisotropy, 1),
	})
	if err != nil {
		return nil, err
	}

	return &wgpuSampler{label: label, sampler: samp}, nil
}

func (b *wgpuContextBackend) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Defensive: if a previous frame's surface texture is still held, avoid
	// attempting to acquire another one.
	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	b.renderPassDesc.ColorAttachments[0].View = view
	b.renderPassDesc.ColorAttachments[0].ClearValue = b.clearColor
	pass := encoder.BeginRenderPass(b.renderPassDesc)

	pass.SetPipeline(b.spritePipeline)
	pass.SetBindGroup(0, b.globalsBindGroup, nil)
	pass.SetVertexBuffer(0, b.quadVertexBuffer, 0, wgpu.WholeSize)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view

	return nil
}

func (b *wgpuContextBackend) DrawSprites(tex Texture, instances []SpriteInstance) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return fmt.Errorf("DrawSprites called outside BeginFrame/EndFrame")
	}
	if len(instances) == 0 {
		return nil
	}

	wt, ok := tex.(*wgpuTexture)
	if !ok {
		return fmt.Errorf("texture %q was not created by this backend", tex.Label())
	}

	if wt.bindGroup == nil {
		bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  wt.label + " Bind Group",
			Layout: b.textureLayout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, TextureView: wt.view},
				{Binding: 1, Sampler: b.defaultSampler},
			},
		})
		if err != nil {
			return fmt.Errorf("failed to create bind group for texture %q: %w", wt.label, err)
		}
		wt.bindGroup = bg
	}

	data := make([]float32, 0, len(instances)*6)
	for _, inst := range instances {
		data = append(data,
			inst.Position[0], inst.Position[1],
			inst.Scale[0], inst.Scale[1],
			inst.Rotation, inst.Depth,
		)
	}
	instanceBytes := common.SliceToBytes(data)

	// A transient instance buffer per batch; released after the frame is
	// submitted. Sprite counts are small enough that reuse is not worth the
	// bookkeeping.
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: wt.label + " Instance Buffer",
		Size:  uint64(len(instanceBytes)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	b.queue.WriteBuffer(buf, 0, instanceBytes)
	b.frameInstanceBufs = append(b.frameInstanceBufs, buf)

	b.framePass.SetBindGroup(1, wt.bindGroup, nil)
	b.framePass.SetVertexBuffer(1, buf, 0, wgpu.WholeSize)
	b.framePass.Draw(quadVertexCount, uint32(len(instances)), 0, 0)

	return nil
}

func (b *wgpuContextBackend) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}

	b.framePass.End()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err == nil {
		b.queue.Submit(commandBuffer)
		commandBuffer.Release()
	}

	b.frameEncoder.Release()
	b.frameEncoder = nil
	b.framePass = nil

	for _, buf := range b.frameInstanceBufs {
		buf.Release()
	}
	b.frameInstanceBufs = b.frameInstanceBufs[:0]
}

func (b *wgpuContextBackend) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuContextBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return
	}
	b.released = true

	if b.quadVertexBuffer != nil {
		b.quadVertexBuffer.Release()
	}
	if b.defaultSampler != nil {
		b.defaultSampler.Release()
	}
	if b.globalsBindGroup != nil {
		b.globalsBindGroup.Release()
	}
	if b.globalsBuffer != nil {
		b.globalsBuffer.Release()
	}
	if b.spritePipeline != nil {
		b.spritePipeline.Release()
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
	}
	if b.queue != nil {
		b.queue.Release()
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.surface != nil {
		b.surface.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
}
