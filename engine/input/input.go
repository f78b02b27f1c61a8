// Package input aggregates keyboard and mouse events delivered by window
// callbacks and exposes them to scenes as immutable per-tick snapshots.
package input

import (
	"sync"
)

// State is an immutable snapshot of input taken once per engine tick.
// Scenes receive it in Interact and must not retain it across ticks.
type State struct {
	// Keys holds the set of key codes currently held down.
	Keys map[uint32]bool

	// Pressed holds key codes newly pressed since the previous snapshot, in
	// arrival order.
	Pressed []uint32

	// MouseX and MouseY are the cursor position in window pixels.
	MouseX, MouseY int32

	// Scroll is the accumulated scroll delta since the previous snapshot.
	Scroll float32
}

// IsKeyDown reports whether the key is currently held.
//
// Parameters:
//   - code: the virtual key code
//
// Returns:
//   - bool: true if the key is held down
func (s *State) IsKeyDown(code uint32) bool {
	return s.Keys[code]
}

// WasPressed reports whether the key was newly pressed since the previous
// snapshot.
//
// Parameters:
//   - code: the virtual key code
//
// Returns:
//   - bool: true if the key was pressed this tick
func (s *State) WasPressed(code uint32) bool {
	for _, c := range s.Pressed {
		if c == code {
			return true
		}
	}
	return false
}

// Multi collects events from multiple input sources (keyboard, mouse, scroll
// wheel) behind one mutex. Window callbacks feed it from the message loop
// thread; the engine tick goroutine drains it via Snapshot.
type Multi struct {
	mu sync.Mutex

	keys    map[uint32]bool
	pressed []uint32
	mouseX  int32
	mouseY  int32
	scroll  float32
}

// NewMulti creates an empty input aggregator.
//
// Returns:
//   - *Multi: the newly created aggregator
func NewMulti() *Multi {
	return &Multi{
		keys: make(map[uint32]bool),
	}
}

// KeyDown records a key press.
//
// Parameters:
//   - code: the virtual key code
func (m *Multi) KeyDown(code uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.keys[code] {
		m.pressed = append(m.pressed, code)
	}
	m.keys[code] = true
}

// KeyUp records a key release.
//
// Parameters:
//   - code: the virtual key code
func (m *Multi) KeyUp(code uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, code)
}

// MouseMove records the cursor position.
//
// Parameters:
//   - x, y: the cursor position in window pixels
func (m *Multi) MouseMove(x, y int32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mouseX, m.mouseY = x, y
}

// Scroll accumulates a scroll wheel delta.
//
// Parameters:
//   - delta: the scroll delta (positive = up)
func (m *Multi) Scroll(delta float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scroll += delta
}

// Snapshot returns the current input state and resets the per-tick
// accumulators (pressed keys, scroll delta). Held-key state persists across
// snapshots.
//
// Returns:
//   - *State: an immutable copy of the input state
func (m *Multi) Snapshot() *State {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make(map[uint32]bool, len(m.keys))
	for k, v := range m.keys {
		keys[k] = v
	}
	pressed := m.pressed
	m.pressed = nil

	scroll := m.scroll
	m.scroll = 0

	return &State{
		Keys:    keys,
		Pressed: pressed,
		MouseX:  m.mouseX,
		MouseY:  m.mouseY,
		Scroll:  scroll,
	}
}
