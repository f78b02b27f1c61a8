package descriptor

import (
	"github.com/tlmoroso/sprite-render-test/engine/ecs"
	"github.com/tlmoroso/sprite-render-test/engine/loading"
)

// EntityTypeID is the kind string of an entity descriptor file.
const EntityTypeID = "entity"

// EntityDescriptor is the content of an entity descriptor file: the list of
// component descriptors the entity is assembled from.
type EntityDescriptor struct {
	// Components declares the entity's components, each as a tagged envelope
	// dispatched through a Mux.
	Components []Descriptor `json:"components"`
}

// ComponentLoader constructs one component from descriptor content and writes
// it onto an entity in the shared world. Implementations acquire the world
// (and, if constructing GPU resources, the context) for the minimal scope
// needed and must not execute another task while holding either lock.
type ComponentLoader interface {
	// LoadComponent builds the component and attaches it to the entity.
	//
	// Parameters:
	//   - h: the shared resource handles
	//   - e: the entity receiving the component
	//
	// Returns:
	//   - error: error if construction or attachment fails
	LoadComponent(h loading.Handles, e ecs.Entity) error
}

// Mux resolves a component descriptor's kind string to the loader responsible
// for it. Consumers supply one Mux per scene type, populated at startup; an
// unrecognized kind must return a *DispatchError, never a silent default.
type Mux func(d Descriptor) (ComponentLoader, error)

// LoadEntities returns a task that, for each entity descriptor path, creates
// an entity in the shared world and constructs its components by dispatching
// each component descriptor through mux.
//
// The batch is best-effort: a failure aborts the batch with the first error,
// but entities committed earlier in the same batch remain in the world.
// Wrap the result with further combinators if stronger guarantees are needed.
//
// Parameters:
//   - paths: entity descriptor file paths, processed in order
//   - mux: the component kind dispatch function
//
// Returns:
//   - loading.DrawTask[[]ecs.Entity]: task resolving to the created entities in path order
func LoadEntities(paths []string, mux Mux) loading.DrawTask[[]ecs.Entity] {
	return loading.NewDrawTask(func(h loading.Handles) ([]ecs.Entity, error) {
		entities := make([]ecs.Entity, 0, len(paths))

		for _, path := range paths {
			d, err := FromFile(path)
			if err != nil {
				return nil, err
			}
			if d.TypeID != EntityTypeID {
				return nil, &DispatchError{TypeID: d.TypeID, Source: path}
			}

			ed, err := Decode[EntityDescriptor](d)
			if err != nil {
				return nil, &ContentError{Path: path, Err: err}
			}

			// Resolve every component loader before touching the world so an
			// unknown kind fails the descriptor without registering a partial
			// entity.
			loaders := make([]ComponentLoader, len(ed.Components))
			for i, cd := range ed.Components {
				loader, err := mux(cd)
				if err != nil {
					return nil, err
				}
				loaders[i] = loader
			}

			var entity ecs.Entity
			if err := h.World.TryWrite(func(w *ecs.World) error {
				entity = w.CreateEntity()
				return nil
			}); err != nil {
				return nil, err
			}

			for _, loader := range loaders {
				if err := loader.LoadComponent(h, entity); err != nil {
					return nil, err
				}
			}

			entities = append(entities, entity)
		}

		return entities, nil
	})
}
