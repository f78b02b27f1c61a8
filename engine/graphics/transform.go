// Package graphics provides the 2D sprite components (Transform, Texture),
// their descriptor-driven component loaders, the named texture dictionary
// shared through the world, and the renderer that batches sprite instances to
// the rendering context.
package graphics

import (
	"github.com/tlmoroso/sprite-render-test/engine/descriptor"
	"github.com/tlmoroso/sprite-render-test/engine/ecs"
	"github.com/tlmoroso/sprite-render-test/engine/loading"
)

// TransformTypeID is the kind string of a transform component descriptor.
const TransformTypeID = "transform"

// Transform places a sprite in the scene. Its fields feed the renderer's
// sprite instances verbatim, so they share the pixel coordinate space of
// render.SpriteInstance: the origin is the top-left corner of the window and
// y grows downward.
type Transform struct {
	// Position is the sprite center in screen pixels.
	Position [2]float32 `json:"position"`

	// Scale is the on-screen sprite size in pixels per axis.
	Scale [2]float32 `json:"scale"`

	// Rotation is the counter-clockwise rotation in radians.
	Rotation float32 `json:"rotation"`

	// Depth orders sprites front-to-back within [0, 1]; smaller values draw
	// in front. Values outside the range are clipped.
	Depth float32 `json:"depth"`
}

// TransformLoader builds a Transform component from descriptor content.
type TransformLoader struct {
	d descriptor.Descriptor
}

var _ descriptor.ComponentLoader = &TransformLoader{}

// NewTransformLoader creates a loader for one transform descriptor.
//
// Parameters:
//   - d: the component descriptor, with TypeID "transform"
//
// Returns:
//   - *TransformLoader: the newly created loader
func NewTransformLoader(d descriptor.Descriptor) *TransformLoader {
	return &TransformLoader{d: d}
}

// LoadComponent decodes the transform and attaches it to the entity. A
// descriptor that omits scale gets the unit scale rather than a zero-sized
// sprite.
//
// Parameters:
//   - h: the shared resource handles
//   - e: the entity receiving the component
//
// Returns:
//   - error: error if decoding fails or the world cannot be acquired
func (l *TransformLoader) LoadComponent(h loading.Handles, e ecs.Entity) error {
	t, err := descriptor.Decode[Transform](l.d)
	if err != nil {
		return err
	}
	if t.Scale == ([2]float32{}) {
		t.Scale = [2]float32{1, 1}
	}

	return h.World.TryWrite(func(w *ecs.World) error {
		return ecs.Add(w, e, t)
	})
}
