// Package layout renders a template and a document record into a concrete,
// measurable page: every element realized at its fixed coordinates with the
// natural extent of its content, ready for overflow measurement and
// rasterization. Elements never reflow against each other; only content
// within a box (wrapped text, table rows) can exceed its own bounds.
package layout

import (
	"github.com/invopdf/invopdf/internal/placeholder"
	"github.com/invopdf/invopdf/internal/text"
	"github.com/invopdf/invopdf/pkg/model"
)

// Renderer lays out pages for a fixed-size canvas
type Renderer struct {
	measurer *text.Measurer
}

// NewRenderer creates a page renderer with freshly loaded font metrics
func NewRenderer() (*Renderer, error) {
	measurer, err := text.NewMeasurer()
	if err != nil {
		return nil, err
	}
	return &Renderer{measurer: measurer}, nil
}

// Measurer exposes the renderer's font measurer so the rasterizer can share
// its face cache
func (r *Renderer) Measurer() *text.Measurer {
	return r.measurer
}

// Render lays out one page of the document. The template and record are read
// only; suppressed totals/remarks blocks are omitted from the result entirely,
// freeing their space for overflow purposes.
func (r *Renderer) Render(tpl *model.Template, inv *model.Invoice, cfg PageConfig) *Page {
	page := &Page{Width: model.CanvasWidth, Height: model.CanvasHeight}
	if tpl == nil {
		return page
	}

	for i := range tpl.Elements {
		element := &tpl.Elements[i]
		if cfg.HideTotals && element.Type == model.ElementTotalsBlock {
			continue
		}
		if cfg.HideRemarks && element.Type == model.ElementRemarksBlock {
			continue
		}
		page.Boxes = append(page.Boxes, r.renderElement(element, inv, cfg))
	}
	return page
}

func (r *Renderer) renderElement(element *model.Element, inv *model.Invoice, cfg PageConfig) *ElementBox {
	box := &ElementBox{
		Element: *element,
		X:       element.X,
		Y:       element.Y,
		Width:   element.Width,
		Height:  element.Height,
	}

	switch element.Type {
	case model.ElementText, model.ElementRemarksBlock:
		r.layoutRichText(box, element, inv)
	case model.ElementCustomerBlock:
		r.layoutCustomerBlock(box, element, inv)
	case model.ElementInvoiceInfo:
		r.layoutInvoiceInfo(box, element, inv)
	case model.ElementItemsTable:
		r.layoutItemsTable(box, element, cfg)
	case model.ElementTotalsBlock:
		r.layoutTotalsBlock(box, element, inv)
	case model.ElementImage:
		// Images are scaled to fit their box preserving aspect ratio, so
		// their extent never exceeds the declared geometry
		box.ContentWidth = element.Width
		box.ContentHeight = element.Height
	case model.ElementLine:
		box.ContentWidth = element.Width
		box.ContentHeight = element.EffectiveThickness()
	}
	return box
}

// layoutRichText resolves placeholders and flows the element's marked-up
// content inside the box
func (r *Renderer) layoutRichText(box *ElementBox, element *model.Element, inv *model.Invoice) {
	content := element.Content
	if content == "" {
		// The template builder shows stand-in captions for empty blocks
		if element.Type == model.ElementText {
			content = "Text"
		} else {
			content = "Remarks"
		}
	}
	resolved := placeholder.Resolve(content, inv)

	rich, err := model.ParseRichText(resolved)
	if err != nil {
		// Treat unparseable markup as plain text rather than failing the probe
		style := elementStyle(element)
		box.Lines = r.wrapPlain(resolved, element, style, "left", innerWidth(element))
		finishTextBox(box)
		return
	}

	for _, paragraph := range rich.Paragraphs {
		box.Lines = append(box.Lines, r.wrapRuns(paragraph.Runs(), element, paragraph.Align, innerWidth(element))...)
	}
	finishTextBox(box)
}

// layoutCustomerBlock lays out the fixed bill-to block
func (r *Renderer) layoutCustomerBlock(box *ElementBox, element *model.Element, inv *model.Invoice) {
	style := elementStyle(element)
	bold := style
	bold.Bold = true
	width := innerWidth(element)

	box.Lines = append(box.Lines, r.wrapPlain("Bill To:", element, bold, "left", width)...)
	box.Lines = append(box.Lines, r.wrapPlain(inv.CompanyName, element, bold, "left", width)...)
	box.Lines = append(box.Lines, r.wrapPlain(inv.Address, element, style, "left", width)...)
	box.Lines = append(box.Lines, r.emptyLine(style, "left", element.EffectiveLineHeight()))
	box.Lines = append(box.Lines, r.wrapPlain("Attn: "+inv.Attention, element, style, "left", width)...)
	box.Lines = append(box.Lines, r.wrapPlain("Tel: "+inv.Telephone, element, style, "left", width)...)
	finishTextBox(box)
}

// layoutInvoiceInfo lays out the fixed document number / date block
func (r *Renderer) layoutInvoiceInfo(box *ElementBox, element *model.Element, inv *model.Invoice) {
	width := innerWidth(element)
	rows := [][]model.Run{
		{
			{Text: "Invoice No.:", Style: model.SpanStyle{Bold: true}},
			{Text: " " + inv.InvoiceNumber},
		},
		{
			{Text: "Date:", Style: model.SpanStyle{Bold: true}},
			{Text: " " + placeholder.Date(inv.InvoiceDate)},
		},
	}
	for _, runs := range rows {
		box.Lines = append(box.Lines, r.wrapRuns(runs, element, "left", width)...)
	}
	finishTextBox(box)
}

// layoutTotalsBlock lays out the document total, right aligned and four pixels
// larger than the element's font size
func (r *Renderer) layoutTotalsBlock(box *ElementBox, element *model.Element, inv *model.Invoice) {
	runs := []model.Run{{
		Text: "Total: " + placeholder.Currency(inv.Total),
		Style: model.SpanStyle{
			Bold:     true,
			FontSize: element.EffectiveFontSize() + 4,
		},
	}}
	box.Lines = r.wrapRuns(runs, element, "right", innerWidth(element))
	finishTextBox(box)
}

// layoutItemsTable measures the header row and one row per configured item
func (r *Renderer) layoutItemsTable(box *ElementBox, element *model.Element, cfg PageConfig) {
	box.Table = r.layoutTable(element, cfg.Items, cfg.StartIndex)

	box.ContentWidth = element.Width
	box.ContentHeight = box.Table.HeaderHeight
	for _, row := range box.Table.Rows {
		box.ContentHeight += row.Height
	}
}

// innerWidth is the horizontal space available to text inside a padded box
func innerWidth(element *model.Element) float64 {
	w := element.Width - 2*TextPadding
	if w < 0 {
		w = 0
	}
	return w
}

// finishTextBox derives the content extent from the laid-out lines
func finishTextBox(box *ElementBox) {
	height := 0.0
	width := 0.0
	for _, line := range box.Lines {
		height += line.Advance
		if line.Width > width {
			width = line.Width
		}
	}
	box.ContentHeight = height + 2*TextPadding
	box.ContentWidth = width + 2*TextPadding
}
