package filters

import (
	"context"
	"fmt"

	"grayscope/internal/logger"
	"grayscope/internal/opencv/safe"
	"grayscope/internal/processing/spatial"
)

// Filter is one entry of the processing menu. Apply never modifies input
// and returns a new Mat owned by the caller.
type Filter interface {
	Name() string
	Label() string
	Apply(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error)
}

// Registry holds the menu in display order.
type Registry struct {
	filters []Filter
	byName  map[string]Filter
}

// NewRegistry returns the full menu of the workbench.
func NewRegistry(log logger.Logger) *Registry {
	runner := spatial.NewRunner(log)
	return NewRegistryOf(
		NewEnhanceFilter(),
		NewEdgeDetectFilter(),
		NewThresholdFilter(),
		NewGrayEnhanceFilter(),
		NewLaplacianSharpenFilter(),
		NewCustomGaussianFilter(runner),
		NewLocalHistogramFilter(runner),
	)
}

func NewRegistryOf(filters ...Filter) *Registry {
	r := &Registry{byName: make(map[string]Filter, len(filters))}
	for _, f := range filters {
		r.filters = append(r.filters, f)
		r.byName[f.Name()] = f
	}
	return r
}

func (r *Registry) Get(name string) (Filter, error) {
	f, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown filter %q", name)
	}
	return f, nil
}

// List returns the filters in menu order.
func (r *Registry) List() []Filter {
	out := make([]Filter, len(r.filters))
	copy(out, r.filters)
	return out
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
