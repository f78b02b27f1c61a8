package render

import (
	"errors"
	"sync"
)

// ErrContextContended is returned by TryWrite when the context lock could not
// be acquired immediately. Load-time contention is not expected; callers treat
// this as fatal.
var ErrContextContended = errors.New("render: context lock contended")

// SharedContext is a lock-guarded handle to a Context, mirroring
// ecs.SharedWorld. GPU resource construction requires exclusive acquisition;
// locks are scoped to the callback and released on every exit path. Callers
// must not execute another load task from inside the callback.
type SharedContext struct {
	mu  sync.RWMutex
	ctx Context
}

// NewSharedContext wraps a Context in a shared handle.
//
// Parameters:
//   - ctx: the context to guard
//
// Returns:
//   - *SharedContext: the shared handle
func NewSharedContext(ctx Context) *SharedContext {
	return &SharedContext{ctx: ctx}
}

// Read acquires the lock shared and invokes fn with the context.
//
// Parameters:
//   - fn: callback receiving the guarded context
//
// Returns:
//   - error: the error returned by fn, unchanged
func (s *SharedContext) Read(fn func(Context) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.ctx)
}

// Write acquires the lock exclusively and invokes fn with the context.
//
// Parameters:
//   - fn: callback receiving the guarded context
//
// Returns:
//   - error: the error returned by fn, unchanged
func (s *SharedContext) Write(fn func(Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.ctx)
}

// TryWrite is Write with fail-fast acquisition: if the lock is held by anyone
// else it returns ErrContextContended instead of blocking.
//
// Parameters:
//   - fn: callback receiving the guarded context
//
// Returns:
//   - error: ErrContextContended if the lock was unavailable, otherwise the error returned by fn
func (s *SharedContext) TryWrite(fn func(Context) error) error {
	if !s.mu.TryLock() {
		return ErrContextContended
	}
	defer s.mu.Unlock()
	return fn(s.ctx)
}
