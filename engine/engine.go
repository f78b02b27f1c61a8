// Package engine coordinates the load phase and the game loop: it owns the
// shared world and rendering context handles, executes the game's load task
// exactly once at startup, then drives the scene stack from tick and render
// goroutines until the stack empties or the window closes.
package engine

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tlmoroso/sprite-render-test/engine/config"
	"github.com/tlmoroso/sprite-render-test/engine/ecs"
	"github.com/tlmoroso/sprite-render-test/engine/input"
	"github.com/tlmoroso/sprite-render-test/engine/loading"
	"github.com/tlmoroso/sprite-render-test/engine/profiler"
	"github.com/tlmoroso/sprite-render-test/engine/render"
	"github.com/tlmoroso/sprite-render-test/engine/scene"
	"github.com/tlmoroso/sprite-render-test/engine/window"
)

// Game is the application's contract with the engine. The engine calls
// RegisterComponents before loading, then executes the Load task once against
// the shared handles; the resulting stack drives the game loop.
type Game interface {
	// RegisterComponents declares every component type the game attaches to
	// entities. Called once, before Load.
	//
	// Parameters:
	//   - w: the simulation world, held exclusively during registration
	RegisterComponents(w *ecs.World)

	// Load returns the startup load task. The engine executes it exactly
	// once; a failure aborts startup.
	//
	// Returns:
	//   - loading.DrawTask[*scene.Stack]: the task producing the initial scene stack
	Load() loading.DrawTask[*scene.Stack]
}

// engine implements the Engine interface.
// Coordinates tick, render, and window threads.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	game    Game
	window  window.Window
	handles loading.Handles
	input   *input.Multi

	// stackMu guards stack between the tick and render goroutines.
	stackMu sync.Mutex
	stack   *scene.Stack

	tickProfiler     *profiler.Profiler
	renderProfiler   *profiler.Profiler
	profilingEnabled bool

	engineTickRate   time.Duration
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point: it orchestrates the load phase, the tick
// and render loops, and window management.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Handles returns the shared resource handles load tasks execute against.
	//
	// Returns:
	//   - loading.Handles: the world and context handles
	Handles() loading.Handles

	// SetTickRate sets the simulation tick rate in ticks per second.
	// The change takes effect immediately if the engine is running.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// Run executes the game's load task, then starts the game loop. Blocks
	// until the window closes or the scene stack empties.
	//
	// Returns:
	//   - error: error if the load phase fails
	Run() error

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine for the given game with the provided
// options. If no window or context is supplied, defaults are created. The
// game's components are registered immediately.
//
// Parameters:
//   - game: the application implementing the Game contract
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(game Game, options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		game:            game,
		input:           input.NewMulti(),
		tickProfiler:    profiler.NewProfiler("tick", time.Second),
		renderProfiler:  profiler.NewProfiler("render", time.Second),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window == nil {
		e.window = window.NewWindow()
	}
	if e.handles.World == nil {
		e.handles.World = ecs.NewSharedWorld(ecs.NewWorld())
	}
	if e.handles.Context == nil {
		e.handles.Context = render.NewSharedContext(
			render.NewContext(render.BackendTypeWGPU, e.window))
	}

	_ = e.handles.World.Write(func(w *ecs.World) error {
		e.game.RegisterComponents(w)
		return nil
	})

	e.window.SetResizeCallback(func(width, height int) {
		_ = e.handles.Context.Write(func(ctx render.Context) error {
			ctx.Resize(width, height)
			return nil
		})
	})
	e.window.SetKeyDownCallback(e.input.KeyDown)
	e.window.SetKeyUpCallback(e.input.KeyUp)
	e.window.SetMouseMoveCallback(e.input.MouseMove)
	e.window.SetScrollCallback(e.input.Scroll)

	return e
}

// NewEngineFromConfig creates an Engine whose window, context, and loop
// settings come from the application configuration.
//
// Parameters:
//   - cfg: the loaded application configuration
//   - game: the application implementing the Game contract
//
// Returns:
//   - Engine: the newly created engine
func NewEngineFromConfig(cfg *config.Config, game Game) Engine {
	win := window.NewWindow(
		window.WithTitle(cfg.Title()),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
		window.WithResizable(cfg.Window.Resizable),
	)

	presentMode := render.PresentModeVSync
	if !cfg.Window.VSync {
		presentMode = render.PresentModeUncapped
	}
	shared := render.NewSharedContext(
		render.NewContext(render.BackendTypeWGPU, win, render.WithPresentMode(presentMode)))

	return NewEngine(game,
		WithWindow(win),
		WithSharedContext(shared),
		WithTickRate(float64(cfg.Engine.TickRate)),
		WithRenderFrameLimit(float64(cfg.Engine.FrameLimit)),
		WithProfiling(cfg.Engine.Profiling),
	)
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Handles() loading.Handles {
	return e.handles
}

func (e *engine) Run() error {
	zap.L().Info("starting load phase")
	start := time.Now()

	stack, err := e.game.Load().Execute(e.handles)
	if err != nil {
		return fmt.Errorf("load phase failed: %w", err)
	}
	if stack == nil || stack.Empty() {
		return fmt.Errorf("load phase produced an empty scene stack")
	}
	e.stack = stack

	zap.L().Info("load phase complete",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("scenes", stack.Len()))

	e.running = true
	e.handle()
	e.window.ProcessMessages()
	e.signalQuit()
	e.wg.Wait()

	_ = e.handles.Context.Write(func(ctx render.Context) error {
		ctx.Release()
		return nil
	})
	return nil
}

// Quit signals all engine goroutines to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running = false
		close(e.quitChannel)
	})
}

// handle launches the tick, render, and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(3)
	go e.handleTick()
	go e.handleRender()
	go e.handleQuit()
}

// handleTick runs the fixed-rate simulation loop in its own goroutine.
// Each tick it snapshots input, delivers it to the top scene, and updates the
// stack, all inside one world acquisition. Listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed or the stack
// empties.
func (e *engine) handleTick() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			if err := e.tick(); err != nil {
				zap.L().Error("tick failed", zap.Error(err))
				e.signalQuit()
				return
			}
			if e.profilingEnabled {
				e.tickProfiler.Tick()
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

func (e *engine) tick() error {
	snapshot := e.input.Snapshot()

	e.stackMu.Lock()
	defer e.stackMu.Unlock()

	if e.stack.Empty() {
		e.signalQuit()
		return nil
	}

	err := e.handles.World.Write(func(w *ecs.World) error {
		if err := e.stack.Interact(w, snapshot); err != nil {
			return err
		}
		return e.stack.Update(w)
	})
	if err != nil {
		return err
	}

	if e.stack.Empty() {
		zap.L().Info("scene stack empty, quitting")
		e.signalQuit()
	}
	return nil
}

// handleRender runs the frame-limited render loop in its own goroutine.
// The engine owns the frame lifecycle: BeginFrame once, draw the stack
// bottom-up, EndFrame + Present once. Recovers from panics to avoid crashing
// the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("render goroutine recovered from panic", zap.Any("panic", r))
			e.signalQuit()
		}
	}()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			frameStart := time.Now()

			if err := e.renderFrame(); err != nil {
				zap.L().Error("render frame failed", zap.Error(err))
				e.signalQuit()
				return
			}

			if e.profilingEnabled {
				e.renderProfiler.Tick()
			}

			// Frame rate limiting
			if e.renderFrameLimit > 0 {
				if remaining := e.renderFrameLimit - time.Since(frameStart); remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

func (e *engine) renderFrame() error {
	e.stackMu.Lock()
	defer e.stackMu.Unlock()

	if e.stack.Empty() {
		return nil
	}

	return e.handles.World.Read(func(w *ecs.World) error {
		return e.handles.Context.Write(func(ctx render.Context) error {
			if err := ctx.BeginFrame(); err != nil {
				// Surface not ready (e.g., mid-resize); skip the frame.
				return nil
			}
			err := e.stack.Draw(w, ctx)
			ctx.EndFrame()
			ctx.Present()
			return err
		})
	})
}

// handleQuit blocks until the quit channel is closed, then closes the window
// so ProcessMessages returns.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
	if e.window.IsRunning() {
		_ = e.window.Close()
	}
}

// SetTickRate sets the simulation tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	if e.running {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}
