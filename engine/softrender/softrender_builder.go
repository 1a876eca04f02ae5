package softrender

// RasterizerOption is a functional option for configuring a Rasterizer.
// Use the With* functions to create options.
type RasterizerOption func(r *rasterizer)

// WithWorkers sets the number of worker goroutines used to rasterize bands in
// parallel. Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - RasterizerOption: option function to apply
func WithWorkers(n int) RasterizerOption {
	return func(r *rasterizer) {
		if n < 1 {
			n = 1
		}
		r.workers = n
	}
}
