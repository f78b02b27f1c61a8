// Package loading provides the declarative task-composition core of the
// engine. Loading work is expressed as single-use Tasks that can be combined
// with Map, Join, Sequence, and Serialize into a composition tree built
// eagerly during bootstrap and executed exactly once against the shared
// simulation-state and rendering-context handles.
//
// Scheduling is single-threaded, synchronous, and depth-first: each task runs
// to completion before the next begins, in left-to-right composition order.
// All combinators short-circuit — the first error anywhere in the tree aborts
// every subsequent step and is returned unchanged to the outermost caller.
// A failed composed task may leave shared state partially populated; callers
// must treat a failed load as fatal to the load as a whole.
package loading

import (
	"errors"
	"sync/atomic"
)

// ErrTaskConsumed is returned by Execute when a task has already been
// executed. Tasks are single-use plans: executing a composed task twice would
// replay its side effects (e.g., double-inserting resources into the world),
// so a second invocation fails fast instead.
var ErrTaskConsumed = errors.New("loading: task already executed")

// ErrTaskEmpty is returned by Execute on a zero-valued Task that was never
// constructed with NewTask.
var ErrTaskEmpty = errors.New("loading: task has no step")

// Task is a single composable unit of loading work: a step from an input to a
// result or error. A Task owns nothing beyond its step closure and is
// immutable once constructed; combinators take tasks by value and return new
// ones. Each Task may be executed exactly once.
type Task[I, O any] struct {
	step func(I) (O, error)
	done *atomic.Bool
}

// NewTask wraps a step function in a Task.
//
// Parameters:
//   - step: the work to perform when the task is executed
//
// Returns:
//   - Task[I, O]: the newly created task
func NewTask[I, O any](step func(I) (O, error)) Task[I, O] {
	return Task[I, O]{
		step: step,
		done: &atomic.Bool{},
	}
}

// Execute invokes the task's step exactly once, forwarding any error from the
// step unchanged. A second call returns ErrTaskConsumed without invoking the
// step.
//
// Parameters:
//   - input: the step input (for a DrawTask, the pair of shared handles)
//
// Returns:
//   - O: the step's output on success
//   - error: the step's error verbatim, ErrTaskConsumed on re-execution, or ErrTaskEmpty for a zero Task
func (t Task[I, O]) Execute(input I) (O, error) {
	var zero O
	if t.step == nil {
		return zero, ErrTaskEmpty
	}
	if !t.done.CompareAndSwap(false, true) {
		return zero, ErrTaskConsumed
	}
	return t.step(input)
}
