package loading

import (
	"github.com/tlmoroso/sprite-render-test/engine/ecs"
	"github.com/tlmoroso/sprite-render-test/engine/render"
)

// Handles is the pair of process-wide shared resource handles every DrawTask
// executes against: the simulation-state container and the rendering context.
// Both are lock-guarded; mutation requires exclusive, scoped acquisition. The
// locking discipline is acquire, mutate, release — never hold either lock
// across the execution of another task.
type Handles struct {
	World   *ecs.SharedWorld
	Context *render.SharedContext
}

// DrawTask is a Task whose input is fixed to the shared handle pair. Every
// loader in the system ultimately produces a DrawTask, so composition is
// uniform regardless of what is being loaded. Resolving a DrawTask either
// fully succeeds with a usable value or fails with a single terminal error;
// there is no partial observable result.
type DrawTask[O any] = Task[Handles, O]

// NewDrawTask wraps a step taking the shared handles in a DrawTask.
//
// Parameters:
//   - step: the work to perform against the shared handles
//
// Returns:
//   - DrawTask[O]: the newly created task
func NewDrawTask[O any](step func(Handles) (O, error)) DrawTask[O] {
	return NewTask(step)
}
