// Package scene defines the Scene contract consumed by the per-frame loop,
// the scene Stack the loop drives, and the loaders that assemble a Stack from
// descriptor files during the load phase.
package scene

import (
	"github.com/tlmoroso/sprite-render-test/engine/ecs"
	"github.com/tlmoroso/sprite-render-test/engine/input"
	"github.com/tlmoroso/sprite-render-test/engine/loading"
	"github.com/tlmoroso/sprite-render-test/engine/render"
)

// Scene is one screen of the game: a level, a menu, a loading screen. The
// engine calls Update and Interact each tick and Draw each render frame, all
// under the appropriate shared-handle locks, so implementations receive plain
// references and must not stash them.
type Scene interface {
	// Name returns the scene's identifier, used for logging.
	Name() string

	// Update advances the scene's simulation state by one tick and returns
	// the transition the stack should apply.
	//
	// Parameters:
	//   - w: the simulation world
	//
	// Returns:
	//   - Transition: the stack transition to apply (usually None)
	//   - error: error if the update fails
	Update(w *ecs.World) (Transition, error)

	// Draw renders the scene.
	//
	// Parameters:
	//   - w: the simulation world
	//   - ctx: the rendering context, inside an open frame
	//
	// Returns:
	//   - error: error if rendering fails
	Draw(w *ecs.World, ctx render.Context) error

	// Interact delivers the current tick's input snapshot.
	//
	// Parameters:
	//   - w: the simulation world
	//   - in: the input snapshot for this tick
	//
	// Returns:
	//   - error: error if input handling fails
	Interact(w *ecs.World, in *input.State) error

	// IsFinished reports whether the scene has run to completion and should
	// be popped from the stack.
	//
	// Parameters:
	//   - w: the simulation world
	//
	// Returns:
	//   - bool: true if the scene is finished
	//   - error: error if the check fails
	IsFinished(w *ecs.World) (bool, error)
}

// TransitionKind discriminates the stack operations a scene can request.
type TransitionKind int

const (
	// TransitionNone leaves the stack unchanged.
	TransitionNone TransitionKind = iota

	// TransitionPush pushes a new scene on top of the current one.
	TransitionPush

	// TransitionPop removes the current scene.
	TransitionPop

	// TransitionSwap replaces the current scene with a new one.
	TransitionSwap

	// TransitionClear empties the stack, ending the game loop.
	TransitionClear
)

// Transition is a scene's requested stack operation, returned from Update.
type Transition struct {
	kind  TransitionKind
	scene Scene
}

// Kind returns the transition's operation.
func (t Transition) Kind() TransitionKind {
	return t.kind
}

// Scene returns the payload scene for Push and Swap transitions, nil otherwise.
func (t Transition) Scene() Scene {
	return t.scene
}

// None returns a transition that leaves the stack unchanged.
func None() Transition {
	return Transition{kind: TransitionNone}
}

// Push returns a transition that pushes s on top of the stack.
func Push(s Scene) Transition {
	return Transition{kind: TransitionPush, scene: s}
}

// Pop returns a transition that removes the top scene.
func Pop() Transition {
	return Transition{kind: TransitionPop}
}

// Swap returns a transition that replaces the top scene with s.
func Swap(s Scene) Transition {
	return Transition{kind: TransitionSwap, scene: s}
}

// Clear returns a transition that empties the stack.
func Clear() Transition {
	return Transition{kind: TransitionClear}
}

// SceneLoader constructs one Scene as a load task. Implementations may read
// descriptor files, load entities, and build GPU resources; the stack loader
// executes the returned task against the shared handles.
type SceneLoader interface {
	// LoadScene returns the task that builds the scene.
	//
	// Returns:
	//   - loading.DrawTask[Scene]: the scene construction task
	LoadScene() loading.DrawTask[Scene]
}
