package graphics

import (
	"fmt"

	"github.com/tlmoroso/sprite-render-test/engine/descriptor"
	"github.com/tlmoroso/sprite-render-test/engine/ecs"
	"github.com/tlmoroso/sprite-render-test/engine/loading"
	"github.com/tlmoroso/sprite-render-test/engine/render"
)

// TextureTypeID is the kind string of a texture component descriptor.
const TextureTypeID = "texture"

// Texture is the sprite's image component: a name resolved through the
// world's TextureDict and the GPU handle it resolved to.
type Texture struct {
	// Name is the dictionary key the texture was resolved by.
	Name string

	// Handle is the GPU texture the renderer binds when drawing the sprite.
	Handle render.Texture
}

// textureDescriptor is the on-disk content of a texture component descriptor.
type textureDescriptor struct {
	Name string `json:"name"`
}

// TextureLoader builds a Texture component by resolving a name against the
// TextureDict resource previously installed in the shared world. The dict must
// already be present when this loader runs, which is what sequencing the dict
// load before the scene stack load guarantees.
type TextureLoader struct {
	d descriptor.Descriptor
}

var _ descriptor.ComponentLoader = &TextureLoader{}

// NewTextureLoader creates a loader for one texture descriptor.
//
// Parameters:
//   - d: the component descriptor, with TypeID "texture"
//
// Returns:
//   - *TextureLoader: the newly created loader
func NewTextureLoader(d descriptor.Descriptor) *TextureLoader {
	return &TextureLoader{d: d}
}

// LoadComponent resolves the texture name through the world's TextureDict and
// attaches the resulting component to the entity.
//
// Parameters:
//   - h: the shared resource handles
//   - e: the entity receiving the component
//
// Returns:
//   - error: error if the dict is absent, the name is unknown, or the world cannot be acquired
func (l *TextureLoader) LoadComponent(h loading.Handles, e ecs.Entity) error {
	td, err := descriptor.Decode[textureDescriptor](l.d)
	if err != nil {
		return err
	}
	if td.Name == "" {
		return fmt.Errorf("texture descriptor is missing a name")
	}

	return h.World.TryWrite(func(w *ecs.World) error {
		dict, ok := ecs.Resource[*TextureDict](w)
		if !ok {
			return fmt.Errorf("failed to resolve texture %q: no texture dictionary in world", td.Name)
		}
		handle, ok := dict.Lookup(td.Name)
		if !ok {
			return fmt.Errorf("failed to resolve texture %q: not in dictionary", td.Name)
		}
		return ecs.Add(w, e, Texture{Name: td.Name, Handle: handle})
	})
}
