package descriptor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tlmoroso/sprite-render-test/engine/ecs"
	"github.com/tlmoroso/sprite-render-test/engine/loading"
)

// recordingLoader is a ComponentLoader that records which entity it was
// invoked for.
type recordingLoader struct {
	kind  string
	calls *[]loadedComponent
}

type loadedComponent struct {
	kind   string
	entity ecs.Entity
}

func (l *recordingLoader) LoadComponent(_ loading.Handles, e ecs.Entity) error {
	*l.calls = append(*l.calls, loadedComponent{kind: l.kind, entity: e})
	return nil
}

func recordingMux(calls *[]loadedComponent) Mux {
	return func(d Descriptor) (ComponentLoader, error) {
		switch d.TypeID {
		case "texture", "transform":
			return &recordingLoader{kind: d.TypeID, calls: calls}, nil
		default:
			return nil, &DispatchError{TypeID: d.TypeID, Source: "entity component"}
		}
	}
}

func entityHandles() loading.Handles {
	return loading.Handles{World: ecs.NewSharedWorld(ecs.NewWorld())}
}

const transformOnlyEntity = `{
  "load_type_id": "entity",
  "data": {
    "components": [
      {"load_type_id": "transform", "data": {"position": [1, 2]}}
    ]
  }
}`

const texturedEntity = `{
  "load_type_id": "entity",
  "data": {
    "components": [
      {"load_type_id": "texture", "data": {"name": "player"}},
      {"load_type_id": "transform", "data": {"position": [3, 4]}}
    ]
  }
}`

const unknownKindEntity = `{
  "load_type_id": "entity",
  "data": {
    "components": [
      {"load_type_id": "unknown_kind", "data": {}}
    ]
  }
}`

func TestLoadEntities_CreatesEntitiesWithComponents(t *testing.T) {
	t.Parallel()

	pathA := writeFile(t, "a.json", transformOnlyEntity)
	pathB := writeFile(t, "b.json", texturedEntity)

	var calls []loadedComponent
	h := entityHandles()

	entities, err := LoadEntities([]string{pathA, pathB}, recordingMux(&calls)).Execute(h)
	require.NoError(t, err)
	require.Len(t, entities, 2)

	// Entity A got only a transform; entity B got texture then transform, in
	// descriptor order.
	require.Equal(t, []loadedComponent{
		{kind: "transform", entity: entities[0]},
		{kind: "texture", entity: entities[1]},
		{kind: "transform", entity: entities[1]},
	}, calls)

	require.NoError(t, h.World.Read(func(w *ecs.World) error {
		require.Equal(t, 2, w.EntityCount())
		require.True(t, w.Alive(entities[0]))
		require.True(t, w.Alive(entities[1]))
		return nil
	}))
}

func TestLoadEntities_UnknownKindFailsWithoutPartialEntity(t *testing.T) {
	t.Parallel()

	pathA := writeFile(t, "a.json", transformOnlyEntity)
	pathB := writeFile(t, "b.json", texturedEntity)
	pathBad := writeFile(t, "bad.json", unknownKindEntity)

	var calls []loadedComponent
	h := entityHandles()

	_, err := LoadEntities([]string{pathA, pathB, pathBad}, recordingMux(&calls)).Execute(h)

	var dispatchErr *DispatchError
	require.ErrorAs(t, err, &dispatchErr)
	require.Equal(t, "unknown_kind", dispatchErr.TypeID)

	// Earlier entities in the batch stay committed; the failed descriptor
	// registers no entity at all.
	require.NoError(t, h.World.Read(func(w *ecs.World) error {
		require.Equal(t, 2, w.EntityCount())
		return nil
	}))
}

func TestLoadEntities_NonEntityDescriptorFails(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "tex.json", `{"load_type_id": "texture", "data": {}}`)

	var calls []loadedComponent
	_, err := LoadEntities([]string{path}, recordingMux(&calls)).Execute(entityHandles())

	var dispatchErr *DispatchError
	require.ErrorAs(t, err, &dispatchErr)
	require.Equal(t, "texture", dispatchErr.TypeID)
}

func TestLoadEntities_UnreadableFileFails(t *testing.T) {
	t.Parallel()

	var calls []loadedComponent
	_, err := LoadEntities([]string{"does/not/exist.json"}, recordingMux(&calls)).Execute(entityHandles())

	var contentErr *ContentError
	require.ErrorAs(t, err, &contentErr)
}

func TestLoadEntities_EmptyBatch(t *testing.T) {
	t.Parallel()

	var calls []loadedComponent
	entities, err := LoadEntities(nil, recordingMux(&calls)).Execute(entityHandles())
	require.NoError(t, err)
	require.Empty(t, entities)
	require.Empty(t, calls)
}
