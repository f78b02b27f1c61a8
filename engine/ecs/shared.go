package ecs

import (
	"errors"
	"sync"
)

// ErrWorldContended is returned by TryWrite when the world lock could not be
// acquired immediately. Load-time contention is not expected; callers treat
// this as fatal.
var ErrWorldContended = errors.New("ecs: world lock contended")

// SharedWorld is a lock-guarded handle to a World. Multiple holders share one
// handle; mutation requires exclusive acquisition through Write or TryWrite.
// Locks are scoped to the callback and released on every exit path. Callers
// must not execute another load task from inside the callback, as that task
// may need the same lock.
type SharedWorld struct {
	mu    sync.RWMutex
	world *World
}

// NewSharedWorld wraps a World in a shared handle.
//
// Parameters:
//   - w: the world to guard
//
// Returns:
//   - *SharedWorld: the shared handle
func NewSharedWorld(w *World) *SharedWorld {
	return &SharedWorld{world: w}
}

// Read acquires the lock shared and invokes fn with the world. The lock is
// held only for the duration of fn.
//
// Parameters:
//   - fn: callback receiving the guarded world
//
// Returns:
//   - error: the error returned by fn, unchanged
func (s *SharedWorld) Read(fn func(*World) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.world)
}

// Write acquires the lock exclusively and invokes fn with the world. The lock
// is held only for the duration of fn.
//
// Parameters:
//   - fn: callback receiving the guarded world
//
// Returns:
//   - error: the error returned by fn, unchanged
func (s *SharedWorld) Write(fn func(*World) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.world)
}

// TryWrite is Write with fail-fast acquisition: if the lock is held by anyone
// else it returns ErrWorldContended instead of blocking. Loaders use this
// during the load phase, where contention indicates a composition bug rather
// than a transient condition.
//
// Parameters:
//   - fn: callback receiving the guarded world
//
// Returns:
//   - error: ErrWorldContended if the lock was unavailable, otherwise the error returned by fn
func (s *SharedWorld) TryWrite(fn func(*World) error) error {
	if !s.mu.TryLock() {
		return ErrWorldContended
	}
	defer s.mu.Unlock()
	return fn(s.world)
}
