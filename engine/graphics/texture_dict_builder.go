package graphics

// TextureDictLoaderBuilderOption is a functional option for configuring a
// TextureDictLoader.
type TextureDictLoaderBuilderOption func(l *TextureDictLoader)

// WithDecodeWorkers sets the number of image decode workers.
//
// Parameters:
//   - n: worker count, ignored unless positive
//
// Returns:
//   - TextureDictLoaderBuilderOption: the option to apply
func WithDecodeWorkers(n int) TextureDictLoaderBuilderOption {
	return func(l *TextureDictLoader) {
		if n > 0 {
			l.decodeWorkers = n
		}
	}
}
