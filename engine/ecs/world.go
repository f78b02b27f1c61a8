// Package ecs provides the simulation state container: a minimal entity
// component store with typed resources. Components and resources are accessed
// through package-level generic functions since Go methods cannot introduce
// type parameters.
package ecs

import (
	"fmt"
	"reflect"
)

// Entity identifies a simulation object. Entity IDs are never reused within
// the lifetime of a World.
type Entity uint64

// World holds all entities, their components, and typed global resources.
// A World is not safe for concurrent use on its own; wrap it in a SharedWorld
// and access it through scoped Read/Write calls.
type World struct {
	nextEntity Entity
	entities   map[Entity]struct{}
	registered map[reflect.Type]struct{}
	components map[reflect.Type]map[Entity]any
	resources  map[reflect.Type]any
}

// NewWorld creates an empty World.
//
// Returns:
//   - *World: the newly created world
func NewWorld() *World {
	return &World{
		nextEntity: 1,
		entities:   make(map[Entity]struct{}),
		registered: make(map[reflect.Type]struct{}),
		components: make(map[reflect.Type]map[Entity]any),
		resources:  make(map[reflect.Type]any),
	}
}

// CreateEntity allocates a new entity with no components.
//
// Returns:
//   - Entity: the newly allocated entity ID
func (w *World) CreateEntity() Entity {
	e := w.nextEntity
	w.nextEntity++
	w.entities[e] = struct{}{}
	return e
}

// DeleteEntity removes an entity and all of its components.
//
// Parameters:
//   - e: the entity to remove
func (w *World) DeleteEntity(e Entity) {
	delete(w.entities, e)
	for _, store := range w.components {
		delete(store, e)
	}
}

// Alive reports whether the entity exists in the world.
//
// Parameters:
//   - e: the entity to check
//
// Returns:
//   - bool: true if the entity has been created and not deleted
func (w *World) Alive(e Entity) bool {
	_, ok := w.entities[e]
	return ok
}

// EntityCount returns the number of live entities.
//
// Returns:
//   - int: the live entity count
func (w *World) EntityCount() int {
	return len(w.entities)
}

// Register declares a component type so it can be attached to entities.
// Attaching an unregistered component type is an error; registration happens
// once during bootstrap, before any loading begins.
//
// Parameters:
//   - w: the world to register the component type on
func Register[T any](w *World) {
	t := reflect.TypeFor[T]()
	w.registered[t] = struct{}{}
	if _, ok := w.components[t]; !ok {
		w.components[t] = make(map[Entity]any)
	}
}

// Add attaches a component to an entity, replacing any existing component of
// the same type.
//
// Parameters:
//   - w: the world holding the entity
//   - e: the target entity
//   - c: the component value
//
// Returns:
//   - error: error if the component type is unregistered or the entity does not exist
func Add[T any](w *World, e Entity, c T) error {
	t := reflect.TypeFor[T]()
	if _, ok := w.registered[t]; !ok {
		return fmt.Errorf("component type %s is not registered", t)
	}
	if !w.Alive(e) {
		return fmt.Errorf("entity %d does not exist", e)
	}
	w.components[t][e] = c
	return nil
}

// Get retrieves a component attached to an entity.
//
// Parameters:
//   - w: the world holding the entity
//   - e: the target entity
//
// Returns:
//   - T: the component value, or the zero value if absent
//   - bool: true if the component was present
func Get[T any](w *World, e Entity) (T, bool) {
	t := reflect.TypeFor[T]()
	c, ok := w.components[t][e]
	if !ok {
		var zero T
		return zero, false
	}
	return c.(T), true
}

// Remove detaches a component from an entity. Removing an absent component is a no-op.
//
// Parameters:
//   - w: the world holding the entity
//   - e: the target entity
func Remove[T any](w *World, e Entity) {
	delete(w.components[reflect.TypeFor[T]()], e)
}

// Each2 iterates all entities carrying both component types, in unspecified
// order, invoking fn for each. Used by renderers to join drawable components.
//
// Parameters:
//   - w: the world to iterate
//   - fn: callback receiving the entity and both component values
func Each2[A, B any](w *World, fn func(Entity, A, B)) {
	ta := reflect.TypeFor[A]()
	tb := reflect.TypeFor[B]()
	for e, a := range w.components[ta] {
		b, ok := w.components[tb][e]
		if !ok {
			continue
		}
		fn(e, a.(A), b.(B))
	}
}

// SetResource stores a typed global resource, replacing any existing resource
// of the same type. Resources hold world-wide singletons such as the texture
// dictionary.
//
// Parameters:
//   - w: the world to store the resource on
//   - r: the resource value
func SetResource[T any](w *World, r T) {
	w.resources[reflect.TypeFor[T]()] = r
}

// Resource retrieves a typed global resource.
//
// Parameters:
//   - w: the world holding the resource
//
// Returns:
//   - T: the resource value, or the zero value if absent
//   - bool: true if the resource was present
func Resource[T any](w *World) (T, bool) {
	r, ok := w.resources[reflect.TypeFor[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	return r.(T), true
}
