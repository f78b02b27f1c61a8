package ecs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSharedWorld_WriteThenRead(t *testing.T) {
	t.Parallel()

	sw := NewSharedWorld(NewWorld())

	var created Entity
	require.NoError(t, sw.Write(func(w *World) error {
		created = w.CreateEntity()
		return nil
	}))

	require.NoError(t, sw.Read(func(w *World) error {
		require.True(t, w.Alive(created))
		return nil
	}))
}

func TestSharedWorld_CallbackErrorsPassThrough(t *testing.T) {
	t.Parallel()

	sw := NewSharedWorld(NewWorld())
	boom := errors.New("boom")

	require.Same(t, boom, sw.Write(func(*World) error { return boom }))
	require.Same(t, boom, sw.Read(func(*World) error { return boom }))
	require.Same(t, boom, sw.TryWrite(func(*World) error { return boom }))
}

func TestSharedWorld_TryWriteContended(t *testing.T) {
	t.Parallel()

	sw := NewSharedWorld(NewWorld())

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = sw.Write(func(*World) error {
			close(locked)
			<-release
			return nil
		})
	}()

	<-locked
	err := sw.TryWrite(func(*World) error { return nil })
	require.ErrorIs(t, err, ErrWorldContended)

	close(release)
	<-done

	// Once the writer releases, TryWrite succeeds.
	require.NoError(t, sw.TryWrite(func(*World) error { return nil }))
}
