// Package overflow measures rendered pages against their declared bounds.
// It answers the two questions the paginator needs: does anything on this
// page exceed its box or the canvas, and how many leading item rows fit
// inside the items table.
package overflow

import (
	"math"

	"github.com/invopdf/invopdf/internal/layout"
	"github.com/invopdf/invopdf/pkg/model"
)

// DefaultTolerance absorbs sub-pixel layout rounding, mirroring the
// measurement tolerance of the on-screen preview.
const DefaultTolerance = 1.5

// Oracle reports overflow conditions on rendered pages
type Oracle struct {
	Tolerance float64
}

// NewOracle creates an oracle with the default measurement tolerance
func NewOracle() *Oracle {
	return &Oracle{Tolerance: DefaultTolerance}
}

// HasOverflow reports whether any element's content exceeds its box in either
// axis, or the aggregate content of the page exceeds the canvas
func (o *Oracle) HasOverflow(page *layout.Page) bool {
	if page == nil {
		return false
	}
	for _, box := range page.Boxes {
		if box.ContentHeight-box.Height > o.Tolerance {
			return true
		}
		if box.ContentWidth-box.Width > o.Tolerance {
			return true
		}

		bottom := box.Y + math.Max(box.Height, box.ContentHeight)
		right := box.X + math.Max(box.Width, box.ContentWidth)
		if bottom-page.Height > o.Tolerance || right-page.Width > o.Tolerance {
			return true
		}
	}
	return false
}

// FitCount returns how many leading item rows fit inside the items table box
// without the cumulative height of header and rows exceeding it. The second
// return value is false when the page has no measurable items table.
func (o *Oracle) FitCount(page *layout.Page) (int, bool) {
	if page == nil {
		return 0, false
	}
	box := page.Find(model.ElementItemsTable)
	if box == nil || box.Table == nil {
		return 0, false
	}

	used := box.Table.HeaderHeight
	fits := 0
	for _, row := range box.Table.Rows {
		used += row.Height
		if used-box.Height > o.Tolerance {
			break
		}
		fits++
	}
	return fits, true
}
