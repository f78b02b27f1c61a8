package graphics

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tlmoroso/sprite-render-test/common"
	"github.com/tlmoroso/sprite-render-test/engine/descriptor"
	"github.com/tlmoroso/sprite-render-test/engine/ecs"
	"github.com/tlmoroso/sprite-render-test/engine/loading"
	"github.com/tlmoroso/sprite-render-test/engine/render"
)

// fakeTexture implements render.Texture without a GPU.
type fakeTexture struct {
	label         string
	width, height uint32
}

func (t *fakeTexture) Label() string          { return t.label }
func (t *fakeTexture) Size() (uint32, uint32) { return t.width, t.height }
func (t *fakeTexture) Release()               {}

// fakeContext implements render.Context without a GPU, recording texture
// creations and sprite draw submissions.
type fakeContext struct {
	created []string
	draws   map[render.Texture][]render.SpriteInstance
}

func newFakeContext() *fakeContext {
	return &fakeContext{draws: make(map[render.Texture][]render.SpriteInstance)}
}

func (c *fakeContext) CreateTexture(label string, staging common.TextureStagingData) (render.Texture, error) {
	c.created = append(c.created, label)
	return &fakeTexture{label: label, width: staging.Width, height: staging.Height}, nil
}

func (c *fakeContext) CreateSampler(label string, staging common.SamplerStagingData) (render.Sampler, error) {
	return nil, fmt.Errorf("not supported in fake context")
}

func (c *fakeContext) Resize(width, height int) {}
func (c *fakeContext) SurfaceSize() (int, int)  { return 640, 480 }
func (c *fakeContext) BeginFrame() error        { return nil }
func (c *fakeContext) EndFrame()                {}
func (c *fakeContext) Present()                 {}
func (c *fakeContext) Release()                 {}

func (c *fakeContext) DrawSprites(tex render.Texture, instances []render.SpriteInstance) error {
	c.draws[tex] = append(c.draws[tex], instances...)
	return nil
}

var _ render.Context = &fakeContext{}

func graphicsHandles(ctx render.Context) loading.Handles {
	w := ecs.NewWorld()
	ecs.Register[Texture](w)
	ecs.Register[Transform](w)
	return loading.Handles{
		World:   ecs.NewSharedWorld(w),
		Context: render.NewSharedContext(ctx),
	}
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestTransformLoader_AttachesComponent(t *testing.T) {
	t.Parallel()

	d := descriptor.Descriptor{
		TypeID: TransformTypeID,
		Data:   []byte(`{"position": [3, 4], "scale": [2, 2], "rotation": 1.5, "depth": 5}`),
	}

	h := graphicsHandles(newFakeContext())
	var entity ecs.Entity
	require.NoError(t, h.World.Write(func(w *ecs.World) error {
		entity = w.CreateEntity()
		return nil
	}))

	require.NoError(t, NewTransformLoader(d).LoadComponent(h, entity))

	require.NoError(t, h.World.Read(func(w *ecs.World) error {
		tr, ok := ecs.Get[Transform](w, entity)
		require.True(t, ok)
		require.Equal(t, [2]float32{3, 4}, tr.Position)
		require.Equal(t, [2]float32{2, 2}, tr.Scale)
		require.InDelta(t, 1.5, tr.Rotation, 1e-6)
		require.InDelta(t, 5, tr.Depth, 1e-6)
		return nil
	}))
}

func TestTransformLoader_DefaultsToUnitScale(t *testing.T) {
	t.Parallel()

	d := descriptor.Descriptor{TypeID: TransformTypeID, Data: []byte(`{"position": [1, 1]}`)}

	h := graphicsHandles(newFakeContext())
	var entity ecs.Entity
	require.NoError(t, h.World.Write(func(w *ecs.World) error {
		entity = w.CreateEntity()
		return nil
	}))

	require.NoError(t, NewTransformLoader(d).LoadComponent(h, entity))

	require.NoError(t, h.World.Read(func(w *ecs.World) error {
		tr, _ := ecs.Get[Transform](w, entity)
		require.Equal(t, [2]float32{1, 1}, tr.Scale)
		return nil
	}))
}

func TestTextureLoader_ResolvesThroughDict(t *testing.T) {
	t.Parallel()

	h := graphicsHandles(newFakeContext())
	handle := &fakeTexture{label: "player", width: 8, height: 8}

	var entity ecs.Entity
	require.NoError(t, h.World.Write(func(w *ecs.World) error {
		ecs.SetResource(w, &TextureDict{textures: map[string]render.Texture{"player": handle}})
		entity = w.CreateEntity()
		return nil
	}))

	d := descriptor.Descriptor{TypeID: TextureTypeID, Data: []byte(`{"name": "player"}`)}
	require.NoError(t, NewTextureLoader(d).LoadComponent(h, entity))

	require.NoError(t, h.World.Read(func(w *ecs.World) error {
		tex, ok := ecs.Get[Texture](w, entity)
		require.True(t, ok)
		require.Equal(t, "player", tex.Name)
		require.Same(t, handle, tex.Handle)
		return nil
	}))
}

func TestTextureLoader_UnknownNameFails(t *testing.T) {
	t.Parallel()

	h := graphicsHandles(newFakeContext())
	var entity ecs.Entity
	require.NoError(t, h.World.Write(func(w *ecs.World) error {
		ecs.SetResource(w, &TextureDict{textures: map[string]render.Texture{}})
		entity = w.CreateEntity()
		return nil
	}))

	d := descriptor.Descriptor{TypeID: TextureTypeID, Data: []byte(`{"name": "ghost"}`)}
	err := NewTextureLoader(d).LoadComponent(h, entity)
	require.ErrorContains(t, err, "ghost")
}

func TestTextureLoader_MissingDictFails(t *testing.T) {
	t.Parallel()

	h := graphicsHandles(newFakeContext())
	var entity ecs.Entity
	require.NoError(t, h.World.Write(func(w *ecs.World) error {
		entity = w.CreateEntity()
		return nil
	}))

	d := descriptor.Descriptor{TypeID: TextureTypeID, Data: []byte(`{"name": "player"}`)}
	err := NewTextureLoader(d).LoadComponent(h, entity)
	require.ErrorContains(t, err, "no texture dictionary")
}

func TestTextureDictLoader_LoadsAndUploadsAllTextures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bgPath := writePNG(t, dir, "bg.png", 16, 8)
	playerPath := writePNG(t, dir, "player.png", 4, 4)

	dictPath := filepath.Join(dir, "texture_dict.json")
	require.NoError(t, os.WriteFile(dictPath, []byte(fmt.Sprintf(
		`{"load_type_id": "texture_dict", "data": {"textures": {"background": %q, "player": %q}}}`,
		bgPath, playerPath)), 0o644))

	ctx := newFakeContext()
	dict, err := NewTextureDictLoader(dictPath, WithDecodeWorkers(2)).Load().Execute(graphicsHandles(ctx))
	require.NoError(t, err)

	require.Equal(t, 2, dict.Len())
	require.Equal(t, []string{"background", "player"}, dict.Names())
	// Uploads happen in sorted name order under one context acquisition.
	require.Equal(t, []string{"background", "player"}, ctx.created)

	bg, ok := dict.Lookup("background")
	require.True(t, ok)
	w, h := bg.Size()
	require.Equal(t, uint32(16), w)
	require.Equal(t, uint32(8), h)

	_, ok = dict.Lookup("ghost")
	require.False(t, ok)
}

func TestTextureDictLoader_ResamplesDeclaredSizes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	iconPath := writePNG(t, dir, "icon.png", 16, 16)
	logoPath := writePNG(t, dir, "logo.png", 8, 8)

	dictPath := filepath.Join(dir, "texture_dict.json")
	require.NoError(t, os.WriteFile(dictPath, []byte(fmt.Sprintf(
		`{"load_type_id": "texture_dict", "data": {"textures": {"icon": %q, "logo": %q}, "sizes": {"icon": [32, 64]}}}`,
		iconPath, logoPath)), 0o644))

	dict, err := NewTextureDictLoader(dictPath).Load().Execute(graphicsHandles(newFakeContext()))
	require.NoError(t, err)

	icon, ok := dict.Lookup("icon")
	require.True(t, ok)
	w, h := icon.Size()
	require.Equal(t, uint32(32), w)
	require.Equal(t, uint32(64), h)

	// Names without a size entry keep their source dimensions.
	logo, ok := dict.Lookup("logo")
	require.True(t, ok)
	w, h = logo.Size()
	require.Equal(t, uint32(8), w)
	require.Equal(t, uint32(8), h)
}

func TestTextureDictLoader_MissingImageFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dictPath := filepath.Join(dir, "texture_dict.json")
	require.NoError(t, os.WriteFile(dictPath, []byte(
		`{"load_type_id": "texture_dict", "data": {"textures": {"ghost": "nope.png"}}}`), 0o644))

	ctx := newFakeContext()
	_, err := NewTextureDictLoader(dictPath).Load().Execute(graphicsHandles(ctx))
	require.ErrorContains(t, err, "ghost")
	require.Empty(t, ctx.created, "no uploads after a decode failure")
}

func TestTextureDictLoader_WrongKindFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dictPath := filepath.Join(dir, "dict.json")
	require.NoError(t, os.WriteFile(dictPath, []byte(
		`{"load_type_id": "entity", "data": {}}`), 0o644))

	_, err := NewTextureDictLoader(dictPath).Load().Execute(graphicsHandles(newFakeContext()))
	var dispatchErr *descriptor.DispatchError
	require.ErrorAs(t, err, &dispatchErr)
}

func TestSpriteRenderer_BatchesByTexture(t *testing.T) {
	t.Parallel()

	h := graphicsHandles(newFakeContext())
	texA := &fakeTexture{label: "a"}
	texB := &fakeTexture{label: "b"}

	require.NoError(t, h.World.Write(func(w *ecs.World) error {
		for i := 0; i < 3; i++ {
			e := w.CreateEntity()
			require.NoError(t, ecs.Add(w, e, Texture{Name: "a", Handle: texA}))
			require.NoError(t, ecs.Add(w, e, Transform{Position: [2]float32{float32(i), 0}, Scale: [2]float32{1, 1}}))
		}
		e := w.CreateEntity()
		require.NoError(t, ecs.Add(w, e, Texture{Name: "b", Handle: texB}))
		require.NoError(t, ecs.Add(w, e, Transform{Scale: [2]float32{2, 2}, Depth: 3}))

		// Entities missing either component are not drawn.
		partial := w.CreateEntity()
		require.NoError(t, ecs.Add(w, partial, Transform{}))
		return nil
	}))

	ctx := newFakeContext()
	renderer := NewSpriteRenderer()

	require.NoError(t, h.World.Read(func(w *ecs.World) error {
		return renderer.Render(w, ctx)
	}))

	require.Len(t, ctx.draws[texA], 3)
	require.Len(t, ctx.draws[texB], 1)
	require.Equal(t, [2]float32{2, 2}, ctx.draws[texB][0].Scale)
	require.InDelta(t, 3, ctx.draws[texB][0].Depth, 1e-6)
}

func TestSpriteRenderer_ReusableAcrossFrames(t *testing.T) {
	t.Parallel()

	h := graphicsHandles(newFakeContext())
	tex := &fakeTexture{label: "a"}

	require.NoError(t, h.World.Write(func(w *ecs.World) error {
		e := w.CreateEntity()
		require.NoError(t, ecs.Add(w, e, Texture{Name: "a", Handle: tex}))
		require.NoError(t, ecs.Add(w, e, Transform{Scale: [2]float32{1, 1}}))
		return nil
	}))

	renderer := NewSpriteRenderer()
	for frame := 0; frame < 3; frame++ {
		ctx := newFakeContext()
		require.NoError(t, h.World.Read(func(w *ecs.World) error {
			return renderer.Render(w, ctx)
		}))
		require.Len(t, ctx.draws[tex], 1, "batches must reset between frames")
	}
}
