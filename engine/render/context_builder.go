package render

// ContextBuilderOption is a functional option for configuring a Context.
// Use the With* functions to create options.
type ContextBuilderOption func(c *context)

// WithPresentMode sets the surface present mode.
//
// Parameters:
//   - mode: the present mode (vsync or uncapped)
//
// Returns:
//   - ContextBuilderOption: option function to apply
func WithPresentMode(mode PresentMode) ContextBuilderOption {
	return func(c *context) {
		c.pendingPresentMode = &mode
	}
}

// WithForceFallbackAdapter forces selection of a software/fallback GPU
// adapter. Useful for environments without a hardware GPU.
//
// Parameters:
//   - force: true to force the fallback adapter
//
// Returns:
//   - ContextBuilderOption: option function to apply
func WithForceFallbackAdapter(force bool) ContextBuilderOption {
	return func(c *context) {
		c.forceFallbackAdapter = force
	}
}

// WithClearColor sets the color the frame is cleared to at the start of each
// frame. Defaults to opaque black.
//
// Parameters:
//   - r, g, b, a: color channels in the [0, 1] range
//
// Returns:
//   - ContextBuilderOption: option function to apply
func WithClearColor(r, g, b, a float64) ContextBuilderOption {
	return func(c *context) {
		c.pendingClearColor = &[4]float64{r, g, b, a}
	}
}
