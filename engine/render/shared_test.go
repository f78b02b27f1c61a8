package render

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSharedContext_CallbackErrorsPassThrough(t *testing.T) {
	t.Parallel()

	sc := NewSharedContext(nil)
	boom := errors.New("boom")

	require.Same(t, boom, sc.Write(func(Context) error { return boom }))
	require.Same(t, boom, sc.Read(func(Context) error { return boom }))
	require.Same(t, boom, sc.TryWrite(func(Context) error { return boom }))
}

func TestSharedContext_TryWriteContended(t *testing.T) {
	t.Parallel()

	sc := NewSharedContext(nil)

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = sc.Write(func(Context) error {
			close(locked)
			<-release
			return nil
		})
	}()

	<-locked
	err := sc.TryWrite(func(Context) error { return nil })
	require.ErrorIs(t, err, ErrContextContended)

	close(release)
	<-done

	require.NoError(t, sc.TryWrite(func(Context) error { return nil }))
}
