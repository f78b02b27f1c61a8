package loading

// Combinators build new DrawTasks from existing ones. They are free generic
// functions rather than methods because Go methods cannot introduce new type
// parameters. All combinators preserve depth-first, left-to-right evaluation
// order and short-circuit on the first error, which is returned unchanged.

// Map returns a task that executes t, then — only on success — invokes f with
// t's output and the live shared handles. f itself may fail (e.g., acquiring
// a lock and inserting into the world); either failure short-circuits and is
// returned verbatim. f is never invoked if t failed.
//
// Parameters:
//   - t: the task whose output is transformed
//   - f: the transform, with access to the shared handles
//
// Returns:
//   - DrawTask[B]: the composed task
func Map[A, B any](t DrawTask[A], f func(A, Handles) (B, error)) DrawTask[B] {
	return NewDrawTask(func(h Handles) (B, error) {
		a, err := t.Execute(h)
		if err != nil {
			var zero B
			return zero, err
		}
		return f(a, h)
	})
}

// Join returns a task that executes first, then second, and combines their
// outputs. The two loads are logically independent but are still scheduled
// sequentially on one thread, which removes data races on the shared handles
// without per-task locking. If first fails, second is never executed; combine
// only runs when both succeeded, receiving outputs in composition order.
//
// Parameters:
//   - first: the task executed first
//   - second: the task executed second
//   - combine: merges the two outputs into one downstream value
//
// Returns:
//   - DrawTask[C]: the composed task
func Join[A, B, C any](first DrawTask[A], second DrawTask[B], combine func(A, B) (C, error)) DrawTask[C] {
	return NewDrawTask(func(h Handles) (C, error) {
		var zero C
		a, err := first.Execute(h)
		if err != nil {
			return zero, err
		}
		b, err := second.Execute(h)
		if err != nil {
			return zero, err
		}
		return combine(a, b)
	})
}

// Sequence returns a task that executes first fully — including all of its
// side effects on shared state — discards its output, then executes second
// and returns second's output. Use it to express "load A, and only after A
// has committed its effects, load B": e.g., installing a texture dictionary
// into the world before constructing a scene stack that resolves textures by
// name. To fold first's output into the result instead of discarding it, use
// Join. If first fails, second is never executed.
//
// Parameters:
//   - first: the task whose effects must be visible before second runs
//   - second: the task executed after first completes
//
// Returns:
//   - DrawTask[B]: the composed task
func Sequence[A, B any](first DrawTask[A], second DrawTask[B]) DrawTask[B] {
	return NewDrawTask(func(h Handles) (B, error) {
		if _, err := first.Execute(h); err != nil {
			var zero B
			return zero, err
		}
		return second.Execute(h)
	})
}

// Payload pairs a predecessor task's output with the live shared handles. It
// is the input type of a Serialize step.
type Payload[A any] struct {
	Value   A
	Handles Handles
}

// Serialize returns a task that executes first, then invokes step — itself a
// full Task — with first's output paired with the live shared handles. Unlike
// a Map transform, the step may internally acquire locks, perform further
// loads, and fail independently. The step observes the handles as they are
// after all of first's shared-state writes, not a copy frozen earlier. This is
// the building block for "load X, then use X plus exclusive access to shared
// state to load Y" — e.g., chaining entity construction after descriptor
// deserialization. If first fails, step is never executed.
//
// Parameters:
//   - first: the task producing the step's input value
//   - step: the dependent task, receiving first's output and the shared handles
//
// Returns:
//   - DrawTask[B]: the composed task
func Serialize[A, B any](first DrawTask[A], step Task[Payload[A], B]) DrawTask[B] {
	return NewDrawTask(func(h Handles) (B, error) {
		a, err := first.Execute(h)
		if err != nil {
			var zero B
			return zero, err
		}
		return step.Execute(Payload[A]{Value: a, Handles: h})
	})
}
