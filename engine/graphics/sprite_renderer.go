package graphics

import (
	"github.com/tlmoroso/sprite-render-test/engine/ecs"
	"github.com/tlmoroso/sprite-render-test/engine/render"
)

// SpriteRenderer draws every entity carrying both a Texture and a Transform.
// Instances sharing a texture are batched into one instanced draw; the depth
// buffer orders sprites across batches, so batch submission order does not
// matter.
type SpriteRenderer struct {
	// batches is reused across frames to avoid per-frame map allocation.
	batches map[render.Texture][]render.SpriteInstance
}

// NewSpriteRenderer creates a sprite renderer.
//
// Returns:
//   - *SpriteRenderer: the newly created renderer
func NewSpriteRenderer() *SpriteRenderer {
	return &SpriteRenderer{
		batches: make(map[render.Texture][]render.SpriteInstance),
	}
}

// Render batches all sprite entities by texture and submits each batch to the
// context. The caller must hold the context inside an open frame.
//
// Parameters:
//   - w: the simulation world
//   - ctx: the rendering context, between BeginFrame and EndFrame
//
// Returns:
//   - error: the first draw submission error
func (r *SpriteRenderer) Render(w *ecs.World, ctx render.Context) error {
	for tex := range r.batches {
		r.batches[tex] = r.batches[tex][:0]
	}

	ecs.Each2(w, func(_ ecs.Entity, tex Texture, t Transform) {
		r.batches[tex.Handle] = append(r.batches[tex.Handle], render.SpriteInstance{
			Position: t.Position,
			Scale:    t.Scale,
			Rotation: t.Rotation,
			Depth:    t.Depth,
		})
	})

	for tex, instances := range r.batches {
		if len(instances) == 0 {
			continue
		}
		if err := ctx.DrawSprites(tex, instances); err != nil {
			return err
		}
	}
	return nil
}
