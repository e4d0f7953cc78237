package layout

import (
	"github.com/invopdf/invopdf/internal/text"
	"github.com/invopdf/invopdf/pkg/model"
)

// Padding applied inside text-like element boxes, matching the on-screen preview
const (
	TextPadding = 5.0
	CellPadding = 8.0
)

// PageConfig selects what a rendered page contains: the item subset for the
// items table, its display numbering offset, and whether the optional
// totals/remarks blocks are suppressed.
type PageConfig struct {
	Items       []model.LineItem
	StartIndex  int
	HideTotals  bool
	HideRemarks bool
}

// Page is one concrete, measurable rendered page
type Page struct {
	Width  float64
	Height float64
	Boxes  []*ElementBox
}

// ElementBox is one template element realized on a page: its declared box,
// the natural extent of its laid-out content (which may exceed the box), and
// the line/table layout needed to draw it.
type ElementBox struct {
	Element model.Element

	X      float64
	Y      float64
	Width  float64
	Height float64

	ContentWidth  float64
	ContentHeight float64

	Lines []Line
	Table *TableLayout
}

// Run is a measured fragment of a visual line with a uniform style
type Run struct {
	Text      string
	Style     text.Style
	Underline bool
	Width     float64
}

// Line is one visual line after wrapping
type Line struct {
	Runs    []Run
	Width   float64
	Align   string
	Advance float64 // vertical space the line occupies
	Ascent  float64 // baseline offset from the line top
}

// Table column roles, in order: display number, description, unit price,
// quantity, line total.
const TableColumns = 5

// TableHeaderLabels are the fixed header captions of the items table
var TableHeaderLabels = [TableColumns]string{
	"No.", "Item Description", "Unit Price (RM)", "Quantity", "Total (RM)",
}

// TableAlignments gives the horizontal alignment per column
var TableAlignments = [TableColumns]string{"left", "left", "right", "center", "right"}

// TableLayout is a fully measured items table: resolved column widths, the
// header row, and one measured row per item.
type TableLayout struct {
	FontSize     float64
	Columns      [TableColumns]float64
	HeaderHeight float64
	Header       [TableColumns]Line
	Rows         []TableRow
}

// TableRow is one measured item row
type TableRow struct {
	Display int // continuous display number
	Height  float64
	Cells   [TableColumns][]Line
}

// Find returns the first box whose element has the given type, or nil
func (p *Page) Find(kind model.ElementType) *ElementBox {
	for _, b := range p.Boxes {
		if b.Element.Type == kind {
			return b
		}
	}
	return nil
}
