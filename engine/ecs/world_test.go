package ecs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type position struct{ x, y float32 }
type velocity struct{ dx, dy float32 }

func TestWorld_EntityLifecycle(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	require.Equal(t, 0, w.EntityCount())

	a := w.CreateEntity()
	b := w.CreateEntity()
	require.NotEqual(t, a, b)
	require.True(t, w.Alive(a))
	require.Equal(t, 2, w.EntityCount())

	w.DeleteEntity(a)
	require.False(t, w.Alive(a))
	require.True(t, w.Alive(b))
	require.Equal(t, 1, w.EntityCount())

	// IDs are never reused, even after deletion.
	c := w.CreateEntity()
	require.NotEqual(t, a, c)
	require.NotEqual(t, b, c)
}

func TestWorld_AddRequiresRegistration(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	e := w.CreateEntity()

	err := Add(w, e, position{1, 2})
	require.Error(t, err, "unregistered component type must be rejected")

	Register[position](w)
	require.NoError(t, Add(w, e, position{1, 2}))

	got, ok := Get[position](w, e)
	require.True(t, ok)
	require.Equal(t, position{1, 2}, got)
}

func TestWorld_AddToDeadEntityFails(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	Register[position](w)
	e := w.CreateEntity()
	w.DeleteEntity(e)

	require.Error(t, Add(w, e, position{}))
}

func TestWorld_AddReplacesExisting(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	Register[position](w)
	e := w.CreateEntity()

	require.NoError(t, Add(w, e, position{1, 1}))
	require.NoError(t, Add(w, e, position{2, 2}))

	got, _ := Get[position](w, e)
	require.Equal(t, position{2, 2}, got)
}

func TestWorld_RemoveAndDeleteDropComponents(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	Register[position](w)
	e := w.CreateEntity()
	require.NoError(t, Add(w, e, position{1, 1}))

	Remove[position](w, e)
	_, ok := Get[position](w, e)
	require.False(t, ok)

	require.NoError(t, Add(w, e, position{1, 1}))
	w.DeleteEntity(e)
	_, ok = Get[position](w, e)
	require.False(t, ok)
}

func TestWorld_Each2JoinsBothComponents(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	Register[position](w)
	Register[velocity](w)

	both := w.CreateEntity()
	require.NoError(t, Add(w, both, position{1, 0}))
	require.NoError(t, Add(w, both, velocity{0, 1}))

	posOnly := w.CreateEntity()
	require.NoError(t, Add(w, posOnly, position{5, 5}))

	seen := map[Entity]velocity{}
	Each2(w, func(e Entity, p position, v velocity) {
		seen[e] = v
	})

	require.Len(t, seen, 1)
	require.Equal(t, velocity{0, 1}, seen[both])
}

func TestWorld_Resources(t *testing.T) {
	t.Parallel()

	w := NewWorld()

	_, ok := Resource[string](w)
	require.False(t, ok)

	SetResource(w, "first")
	SetResource(w, "second")

	got, ok := Resource[string](w)
	require.True(t, ok)
	require.Equal(t, "second", got)
}
