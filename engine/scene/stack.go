package scene

import (
	"errors"

	"go.uber.org/zap"

	"github.com/tlmoroso/sprite-render-test/engine/descriptor"
	"github.com/tlmoroso/sprite-render-test/engine/ecs"
	"github.com/tlmoroso/sprite-render-test/engine/input"
	"github.com/tlmoroso/sprite-render-test/engine/loading"
	"github.com/tlmoroso/sprite-render-test/engine/render"
)

// StackTypeID is the kind string of a scene stack descriptor file.
const StackTypeID = "scene_stack"

// ErrStackEmpty is returned when Update, Draw, or Interact is called on an
// empty stack. The engine treats an empty stack as the quit condition and
// should not reach these calls.
var ErrStackEmpty = errors.New("scene: stack is empty")

// Stack is a last-in-first-out pile of scenes. The top scene receives updates
// and input; all scenes draw bottom-up so lower scenes (a paused level under a
// menu, say) stay visible.
type Stack struct {
	scenes []Scene
}

// NewStack creates a stack with the given scenes, bottom first.
//
// Parameters:
//   - scenes: initial scenes, pushed in argument order
//
// Returns:
//   - *Stack: the newly created stack
func NewStack(scenes ...Scene) *Stack {
	return &Stack{scenes: scenes}
}

// Push adds a scene on top of the stack.
func (s *Stack) Push(scene Scene) {
	s.scenes = append(s.scenes, scene)
}

// Pop removes and returns the top scene, or nil if the stack is empty.
func (s *Stack) Pop() Scene {
	if len(s.scenes) == 0 {
		return nil
	}
	top := s.scenes[len(s.scenes)-1]
	s.scenes = s.scenes[:len(s.scenes)-1]
	return top
}

// Top returns the top scene without removing it, or nil if the stack is empty.
func (s *Stack) Top() Scene {
	if len(s.scenes) == 0 {
		return nil
	}
	return s.scenes[len(s.scenes)-1]
}

// Len returns the number of scenes on the stack.
func (s *Stack) Len() int {
	return len(s.scenes)
}

// Empty reports whether the stack holds no scenes.
func (s *Stack) Empty() bool {
	return len(s.scenes) == 0
}

// Update ticks the top scene and applies the transition it requested. A scene
// that reports finished is popped and its transition is discarded, so a stale
// transition never pops or covers the scene underneath. Only the top scene
// updates; scenes below are paused.
//
// Parameters:
//   - w: the simulation world
//
// Returns:
//   - error: ErrStackEmpty if no scene is on the stack, or the scene's error
func (s *Stack) Update(w *ecs.World) error {
	top := s.Top()
	if top == nil {
		return ErrStackEmpty
	}

	transition, err := top.Update(w)
	if err != nil {
		return err
	}

	finished, err := top.IsFinished(w)
	if err != nil {
		return err
	}
	if finished {
		zap.L().Debug("scene finished, popping", zap.String("scene", top.Name()))
		s.Pop()
		return nil
	}

	switch transition.Kind() {
	case TransitionNone:
	case TransitionPush:
		s.Push(transition.Scene())
	case TransitionPop:
		s.Pop()
	case TransitionSwap:
		s.Pop()
		s.Push(transition.Scene())
	case TransitionClear:
		s.scenes = s.scenes[:0]
	}
	return nil
}

// Draw renders every scene bottom-up so the top scene draws last.
//
// Parameters:
//   - w: the simulation world
//   - ctx: the rendering context, inside an open frame
//
// Returns:
//   - error: ErrStackEmpty if no scene is on the stack, or the first scene error
func (s *Stack) Draw(w *ecs.World, ctx render.Context) error {
	if len(s.scenes) == 0 {
		return ErrStackEmpty
	}
	for _, scene := range s.scenes {
		if err := scene.Draw(w, ctx); err != nil {
			return err
		}
	}
	return nil
}

// Interact delivers the tick's input snapshot to the top scene only.
//
// Parameters:
//   - w: the simulation world
//   - in: the input snapshot
//
// Returns:
//   - error: ErrStackEmpty if no scene is on the stack, or the scene's error
func (s *Stack) Interact(w *ecs.World, in *input.State) error {
	top := s.Top()
	if top == nil {
		return ErrStackEmpty
	}
	return top.Interact(w, in)
}

// StackDescriptor is the content of a scene stack descriptor file.
type StackDescriptor struct {
	// ScenePaths lists the scene descriptor files, bottom of the stack first.
	ScenePaths []string `json:"scene_paths"`
}

// Factory resolves a scene descriptor's kind string to the loader that builds
// that scene type. An unrecognized kind must return a *descriptor.DispatchError.
type Factory func(d descriptor.Descriptor) (SceneLoader, error)

// StackLoader assembles a scene Stack from a stack descriptor file, building
// each listed scene through a Factory.
type StackLoader struct {
	path    string
	factory Factory
}

// NewStackLoader creates a stack loader for the given descriptor file.
//
// Parameters:
//   - path: the scene stack descriptor file path
//   - factory: the scene kind dispatch function
//
// Returns:
//   - *StackLoader: the newly created loader
func NewStackLoader(path string, factory Factory) *StackLoader {
	return &StackLoader{path: path, factory: factory}
}

// Load returns the task that reads the stack descriptor, builds each scene in
// listed order, and returns the populated stack. Scene construction tasks run
// one after another against the same shared handles, so a scene may rely on
// the shared-state effects of the scenes listed before it.
//
// Returns:
//   - loading.DrawTask[*Stack]: the stack construction task
func (l *StackLoader) Load() loading.DrawTask[*Stack] {
	return loading.NewDrawTask(func(h loading.Handles) (*Stack, error) {
		d, err := descriptor.FromFile(l.path)
		if err != nil {
			return nil, err
		}
		if d.TypeID != StackTypeID {
			return nil, &descriptor.DispatchError{TypeID: d.TypeID, Source: l.path}
		}

		sd, err := descriptor.Decode[StackDescriptor](d)
		if err != nil {
			return nil, &descriptor.ContentError{Path: l.path, Err: err}
		}

		zap.L().Info("loading scene stack",
			zap.String("path", l.path),
			zap.Int("scenes", len(sd.ScenePaths)))

		stack := NewStack()
		for _, path := range sd.ScenePaths {
			sceneDesc, err := descriptor.FromFile(path)
			if err != nil {
				return nil, err
			}

			loader, err := l.factory(sceneDesc)
			if err != nil {
				return nil, err
			}

			scene, err := loader.LoadScene().Execute(h)
			if err != nil {
				return nil, err
			}

			zap.L().Debug("scene loaded", zap.String("scene", scene.Name()), zap.String("path", path))
			stack.Push(scene)
		}
		return stack, nil
	})
}
