package raster

import "runtime"

// Options carries the knobs shared by the pixel algorithms.
type Options struct {
	Workers int
	Border  Border
}

type Option func(*Options)

// WithWorkers bounds the number of goroutines splitting output rows.
// Values below 1 mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *Options) {
		o.Workers = n
	}
}

func WithBorder(b Border) Option {
	return func(o *Options) {
		o.Border = b
	}
}

// ResolveOptions applies opts over the defaults.
func ResolveOptions(opts ...Option) Options {
	o := Options{
		Workers: runtime.GOMAXPROCS(0),
		Border:  BorderSymmetric,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.Workers < 1 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	return o
}
