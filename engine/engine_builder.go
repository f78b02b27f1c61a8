package engine

import (
	"time"

	"github.com/tlmoroso/sprite-render-test/engine/ecs"
	"github.com/tlmoroso/sprite-render-test/engine/render"
	"github.com/tlmoroso/sprite-render-test/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the
// engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the simulation tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Duration(float64(time.Second) / fps)
	}
}

// WithWindow sets a custom configured window for the engine to use rather
// than allowing the engine to create and manage one internally.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithSharedWorld sets a pre-populated shared world instead of the empty one
// the engine creates by default.
//
// Parameters:
//   - sw: the shared world handle
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSharedWorld(sw *ecs.SharedWorld) EngineBuilderOption {
	return func(e *engine) {
		e.handles.World = sw
	}
}

// WithSharedContext sets a pre-configured shared rendering context instead of
// the default one the engine creates from its window.
//
// Parameters:
//   - sc: the shared context handle
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSharedContext(sc *render.SharedContext) EngineBuilderOption {
	return func(e *engine) {
		e.handles.Context = sc
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per
// second. Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}
