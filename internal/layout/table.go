package layout

import (
	"strconv"

	"github.com/invopdf/invopdf/internal/placeholder"
	"github.com/invopdf/invopdf/internal/text"
	"github.com/invopdf/invopdf/pkg/model"
)

// Fixed column widths of the items table in pixels; the description column
// takes whatever remains of the element width.
const (
	numberColumnWidth   = 40.0
	priceColumnWidth    = 120.0
	quantityColumnWidth = 80.0
	totalColumnWidth    = 120.0
)

// Row text uses the preview's fixed table line height regardless of the
// element's own line-height setting.
const tableLineHeight = 1.4

// layoutTable measures the items table: fixed-width numeric columns, a
// flexible description column, 8px cell padding, and rows as tall as their
// tallest wrapped cell.
func (r *Renderer) layoutTable(element *model.Element, items []model.LineItem, startIndex int) *TableLayout {
	fontSize := element.EffectiveFontSize()

	descWidth := element.Width - numberColumnWidth - priceColumnWidth - quantityColumnWidth - totalColumnWidth
	if descWidth < 0 {
		descWidth = 0
	}

	table := &TableLayout{
		FontSize: fontSize,
		Columns: [TableColumns]float64{
			numberColumnWidth, descWidth, priceColumnWidth, quantityColumnWidth, totalColumnWidth,
		},
	}

	headerStyle := text.Style{Bold: true, Size: fontSize}
	for col, label := range TableHeaderLabels {
		table.Header[col] = r.tableLine(label, headerStyle, TableAlignments[col])
	}
	table.HeaderHeight = 2*CellPadding + fontSize*tableLineHeight

	cellStyle := text.Style{Size: fontSize}
	for i, item := range items {
		row := TableRow{Display: startIndex + i + 1}

		row.Cells[0] = []Line{r.tableLine(strconv.Itoa(row.Display), cellStyle, TableAlignments[0])}
		row.Cells[1] = r.descriptionLines(item.Description, element, cellStyle, descWidth)
		row.Cells[2] = []Line{r.tableLine(placeholder.Currency(item.UnitPrice), cellStyle, TableAlignments[2])}
		row.Cells[3] = []Line{r.tableLine(strconv.Itoa(item.Quantity), cellStyle, TableAlignments[3])}
		row.Cells[4] = []Line{r.tableLine(placeholder.Currency(item.Total), cellStyle, TableAlignments[4])}

		maxLines := 1
		for _, cell := range row.Cells {
			if len(cell) > maxLines {
				maxLines = len(cell)
			}
		}
		row.Height = 2*CellPadding + float64(maxLines)*fontSize*tableLineHeight
		table.Rows = append(table.Rows, row)
	}
	return table
}

// descriptionLines wraps an item description inside the description column,
// preserving embedded line breaks
func (r *Renderer) descriptionLines(description string, element *model.Element, style text.Style, columnWidth float64) []Line {
	inner := columnWidth - 2*CellPadding
	if inner < 0 {
		inner = 0
	}

	cell := *element
	cell.LineHeight = tableLineHeight
	cell.FontWeight = ""
	cell.FontStyle = ""
	cell.TextDecoration = ""
	return r.wrapPlain(description, &cell, style, TableAlignments[1], inner)
}

// tableLine lays out a single unwrapped cell line
func (r *Renderer) tableLine(content string, style text.Style, align string) Line {
	width := r.measurer.Width(content, style)
	return Line{
		Runs:    []Run{{Text: content, Style: style, Width: width}},
		Width:   width,
		Align:   align,
		Advance: style.Size * tableLineHeight,
		Ascent:  r.measurer.Ascent(style),
	}
}
