package pagination

import (
	"context"

	"github.com/invopdf/invopdf/internal/layout"
	"github.com/invopdf/invopdf/internal/overflow"
	"github.com/invopdf/invopdf/pkg/model"
)

// Options represents options for the pagination engine
type Options struct {
	// Tolerance is the measurement slack in pixels before content counts
	// as overflowing
	Tolerance float64
}

// Engine bundles a renderer and oracle into a ready-to-use paginator
type Engine struct {
	options  Options
	renderer *layout.Renderer
}

// NewEngine creates a pagination engine with default options
func NewEngine(renderer *layout.Renderer) *Engine {
	return &Engine{
		options:  Options{Tolerance: overflow.DefaultTolerance},
		renderer: renderer,
	}
}

// SetOptions sets the options for the pagination engine
func (e *Engine) SetOptions(options Options) {
	e.options = options
}

// Paginate partitions the record's items into page descriptors
func (e *Engine) Paginate(ctx context.Context, tpl *model.Template, inv *model.Invoice) ([]model.PageDescriptor, error) {
	oracle := overflow.NewOracle()
	if e.options.Tolerance > 0 {
		oracle.Tolerance = e.options.Tolerance
	}

	paginator := NewPaginator(&RenderMeasurer{
		Renderer: e.renderer,
		Oracle:   oracle,
	})
	return paginator.Paginate(ctx, tpl, inv)
}
