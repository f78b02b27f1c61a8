package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWithTickRate_FractionalRates(t *testing.T) {
	t.Parallel()

	e := &engine{}
	WithTickRate(2.5)(e)
	require.Equal(t, 400*time.Millisecond, e.engineTickRate)

	WithTickRate(0.5)(e)
	require.Equal(t, 2*time.Second, e.engineTickRate)

	WithTickRate(0)(e)
	require.Equal(t, time.Second/60, e.engineTickRate, "non-positive rates fall back to 60Hz")
}

func TestWithRenderFrameLimit_FractionalRates(t *testing.T) {
	t.Parallel()

	e := &engine{}
	WithRenderFrameLimit(2.5)(e)
	require.Equal(t, 400*time.Millisecond, e.renderFrameLimit)

	WithRenderFrameLimit(0)(e)
	require.Zero(t, e.renderFrameLimit, "zero uncaps the render loop")
}

func TestSetTickRate_FractionalRateBeforeRun(t *testing.T) {
	t.Parallel()

	e := &engine{tickRateChannel: make(chan time.Duration, 1)}
	e.SetTickRate(2.5)
	require.Equal(t, 400*time.Millisecond, e.engineTickRate)
}
