package graphics

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"go.uber.org/zap"

	"github.com/tlmoroso/sprite-render-test/common"
	"github.com/tlmoroso/sprite-render-test/engine/descriptor"
	"github.com/tlmoroso/sprite-render-test/engine/loading"
	"github.com/tlmoroso/sprite-render-test/engine/render"
)

// TextureDictTypeID is the kind string of a texture dictionary descriptor.
const TextureDictTypeID = "texture_dict"

// TextureDict maps texture names to GPU texture handles. It is installed in
// the world as a resource after loading so component loaders can resolve
// textures by name.
type TextureDict struct {
	textures map[string]render.Texture
}

// Lookup returns the texture handle for a name.
//
// Parameters:
//   - name: the dictionary key
//
// Returns:
//   - render.Texture: the GPU texture handle
//   - bool: false if the name is not in the dictionary
func (d *TextureDict) Lookup(name string) (render.Texture, bool) {
	t, ok := d.textures[name]
	return t, ok
}

// Len returns the number of textures in the dictionary.
func (d *TextureDict) Len() int {
	return len(d.textures)
}

// Names returns the texture names in sorted order.
func (d *TextureDict) Names() []string {
	names := make([]string, 0, len(d.textures))
	for name := range d.textures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// textureDictDescriptor is the on-disk content of a texture dictionary
// descriptor: texture name to image file path, plus optional per-name sizes.
type textureDictDescriptor struct {
	Textures map[string]string `json:"textures"`

	// Sizes declares explicit [width, height] dimensions per texture name.
	// A listed image is resampled to its declared size before upload; names
	// without an entry upload at their source dimensions.
	Sizes map[string][2]uint32 `json:"sizes"`
}

// TextureDictLoader loads every image named by a texture dictionary
// descriptor and uploads them to the GPU.
type TextureDictLoader struct {
	path          string
	decodeWorkers int
}

// NewTextureDictLoader creates a dictionary loader for the given descriptor
// file.
//
// Parameters:
//   - path: the texture dictionary descriptor file path
//   - options: functional options for loader configuration
//
// Returns:
//   - *TextureDictLoader: the newly created loader
func NewTextureDictLoader(path string, options ...TextureDictLoaderBuilderOption) *TextureDictLoader {
	l := &TextureDictLoader{
		path:          path,
		decodeWorkers: max(runtime.NumCPU()-1, 1),
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// Load returns the task that reads the dictionary descriptor, decodes every
// listed image, uploads each to the GPU, and resolves to the populated
// dictionary.
//
// Image decoding is CPU-bound and touches no shared state, so it fans out
// across a worker pool; a WaitGroup provides the barrier since pool.Wait()
// blocks until workers idle-exit. GPU uploads then run sequentially under one
// context acquisition. Task scheduling as observed by other tasks stays
// sequential; the parallelism is internal to this leaf.
//
// Returns:
//   - loading.DrawTask[*TextureDict]: the dictionary construction task
func (l *TextureDictLoader) Load() loading.DrawTask[*TextureDict] {
	return loading.NewDrawTask(func(h loading.Handles) (*TextureDict, error) {
		d, err := descriptor.FromFile(l.path)
		if err != nil {
			return nil, err
		}
		if d.TypeID != TextureDictTypeID {
			return nil, &descriptor.DispatchError{TypeID: d.TypeID, Source: l.path}
		}

		td, err := descriptor.Decode[textureDictDescriptor](d)
		if err != nil {
			return nil, &descriptor.ContentError{Path: l.path, Err: err}
		}

		names := make([]string, 0, len(td.Textures))
		for name := range td.Textures {
			names = append(names, name)
		}
		sort.Strings(names)

		zap.L().Info("loading texture dictionary",
			zap.String("path", l.path),
			zap.Int("textures", len(names)),
			zap.Int("decode_workers", l.decodeWorkers))

		staged := make([]common.TextureStagingData, len(names))
		errs := make([]error, len(names))

		pool := worker.NewDynamicWorkerPool(l.decodeWorkers, 256, 1*time.Second)
		var wg sync.WaitGroup
		for i, name := range names {
			wg.Add(1)
			idx := i
			imagePath := td.Textures[name]
			size, resize := td.Sizes[name]
			pool.SubmitTask(worker.Task{
				ID: idx,
				Do: func() (any, error) {
					defer wg.Done()
					staged[idx], errs[idx] = common.DecodeImageFile(imagePath)
					if errs[idx] == nil && resize {
						staged[idx] = common.ScaleRGBA(staged[idx], size[0], size[1])
					}
					return nil, nil
				},
			})
		}
		wg.Wait()

		for i, name := range names {
			if errs[i] != nil {
				return nil, fmt.Errorf("failed to decode texture %q: %w", name, errs[i])
			}
		}

		dict := &TextureDict{textures: make(map[string]render.Texture, len(names))}
		if err := h.Context.TryWrite(func(ctx render.Context) error {
			for i, name := range names {
				tex, err := ctx.CreateTexture(name, staged[i])
				if err != nil {
					return fmt.Errorf("failed to upload texture %q: %w", name, err)
				}
				dict.textures[name] = tex
			}
			return nil
		}); err != nil {
			return nil, err
		}

		return dict, nil
	})
}
