// Package preview produces the on-screen HTML rendition of a page and can
// capture it in a headless browser. The markup mirrors the document viewer's
// preview exactly, so a captured bitmap is pixel-identical to what the user
// sees before exporting.
package preview

import (
	"bytes"
	"fmt"
	"html"
	htmltemplate "html/template"
	"strings"

	"github.com/invopdf/invopdf/internal/layout"
	"github.com/invopdf/invopdf/internal/placeholder"
	"github.com/invopdf/invopdf/pkg/model"
)

const pageHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <style>
    * { box-sizing: border-box; }
    body { margin: 0; background: #ffffff; font-family: Arial, Helvetica, sans-serif; }
    .invoice-preview-canvas {
      width: {{.Width}}px;
      height: {{.Height}}px;
      position: relative;
      background: white;
      overflow: hidden;
    }
    .invoice-preview-canvas table { border-collapse: collapse; border: none; width: 100%; }
    .invoice-preview-canvas th, .invoice-preview-canvas td { border: none; background: transparent; }
  </style>
</head>
<body>
  <div class="invoice-preview-canvas">
  {{- range .Elements}}
    <div data-element-id="{{.ID}}" data-element-type="{{.Type}}" style="{{.Style}}">{{.HTML}}</div>
  {{- end}}
  </div>
</body>
</html>`

var pageTemplate = htmltemplate.Must(htmltemplate.New("page").Parse(pageHTMLTemplate))

type pageView struct {
	Width    float64
	Height   float64
	Elements []elementView
}

type elementView struct {
	ID    string
	Type  model.ElementType
	Style htmltemplate.CSS
	HTML  htmltemplate.HTML
}

// RenderHTML renders one page of the document as a standalone HTML document
func RenderHTML(tpl *model.Template, inv *model.Invoice, cfg layout.PageConfig) (string, error) {
	view := pageView{Width: model.CanvasWidth, Height: model.CanvasHeight}

	if tpl == nil {
		tpl = &model.Template{}
	}
	for i := range tpl.Elements {
		element := &tpl.Elements[i]
		if cfg.HideTotals && element.Type == model.ElementTotalsBlock {
			continue
		}
		if cfg.HideRemarks && element.Type == model.ElementRemarksBlock {
			continue
		}
		view.Elements = append(view.Elements, elementView{
			ID:    element.ID,
			Type:  element.Type,
			Style: htmltemplate.CSS(wrapperStyle(element)),
			HTML:  htmltemplate.HTML(elementHTML(element, inv, cfg)),
		})
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to render preview HTML: %w", err)
	}
	return buf.String(), nil
}

// wrapperStyle positions an element absolutely at its template geometry
func wrapperStyle(element *model.Element) string {
	padding := "5px"
	switch element.Type {
	case model.ElementImage, model.ElementLine, model.ElementItemsTable:
		padding = "0"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "position:absolute;left:%gpx;top:%gpx;width:%gpx;height:%gpx;",
		element.X, element.Y, element.Width, element.Height)
	fmt.Fprintf(&b, "font-size:%gpx;line-height:%g;padding:%s;overflow:hidden;",
		element.EffectiveFontSize(), element.EffectiveLineHeight(), padding)
	if element.FontWeight != "" {
		fmt.Fprintf(&b, "font-weight:%s;", element.FontWeight)
	}
	if element.FontStyle != "" {
		fmt.Fprintf(&b, "font-style:%s;", element.FontStyle)
	}
	if element.TextDecoration != "" {
		fmt.Fprintf(&b, "text-decoration:%s;", element.TextDecoration)
	}
	if element.Color != "" {
		fmt.Fprintf(&b, "color:%s;", element.Color)
	}
	return b.String()
}

// elementHTML produces the inner markup of one element, mirroring the
// document viewer's rendering of each type
func elementHTML(element *model.Element, inv *model.Invoice, cfg layout.PageConfig) string {
	switch element.Type {
	case model.ElementText, model.ElementRemarksBlock:
		content := element.Content
		if content == "" {
			if element.Type == model.ElementText {
				content = "Text"
			} else {
				content = "Remarks"
			}
		}
		// Free-text content is author markup and is inserted as-is
		return placeholder.Resolve(content, inv)

	case model.ElementCustomerBlock:
		return fmt.Sprintf(
			"<div><strong>Bill To:</strong><br /><strong>%s</strong><br />%s<br /><br />Attn: %s<br />Tel: %s</div>",
			html.EscapeString(inv.CompanyName),
			strings.ReplaceAll(html.EscapeString(inv.Address), "\n", "<br />"),
			html.EscapeString(inv.Attention),
			html.EscapeString(inv.Telephone),
		)

	case model.ElementInvoiceInfo:
		return fmt.Sprintf(
			"<div><strong>Invoice No.:</strong> %s<br /><strong>Date:</strong> %s</div>",
			html.EscapeString(inv.InvoiceNumber),
			html.EscapeString(placeholder.Date(inv.InvoiceDate)),
		)

	case model.ElementItemsTable:
		return itemsTableHTML(element, cfg)

	case model.ElementTotalsBlock:
		return fmt.Sprintf(
			`<div style="text-align:right"><strong style="font-size:%gpx">Total: %s</strong></div>`,
			element.EffectiveFontSize()+4,
			html.EscapeString(placeholder.Currency(inv.Total)),
		)

	case model.ElementImage:
		if element.Src == "" {
			return ""
		}
		return fmt.Sprintf(
			`<img src="%s" alt="Invoice" style="width:100%%;height:100%%;object-fit:contain" />`,
			html.EscapeString(element.Src),
		)

	case model.ElementLine:
		color := element.Color
		if color == "" {
			color = "#000"
		}
		return fmt.Sprintf(
			`<div style="border-bottom:%gpx solid %s;height:0;width:100%%"></div>`,
			element.EffectiveThickness(), color,
		)
	}
	return ""
}

// itemsTableHTML renders the items table with the preview's fixed column
// widths and cell styling
func itemsTableHTML(element *model.Element, cfg layout.PageConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<table class="invoice-page-items-table" style="font-size:%gpx">`, element.EffectiveFontSize())
	b.WriteString(`<thead><tr>` +
		`<th style="padding:8px;text-align:left;font-weight:bold;width:40px">No.</th>` +
		`<th style="padding:8px;text-align:left;font-weight:bold">Item Description</th>` +
		`<th style="padding:8px;text-align:right;font-weight:bold;width:120px">Unit Price (RM)</th>` +
		`<th style="padding:8px;text-align:center;font-weight:bold;width:80px">Quantity</th>` +
		`<th style="padding:8px;text-align:right;font-weight:bold;width:120px">Total (RM)</th>` +
		`</tr></thead><tbody>`)

	for i, item := range cfg.Items {
		fmt.Fprintf(&b, `<tr><td style="padding:8px;text-align:left;vertical-align:top">%d</td>`,
			cfg.StartIndex+i+1)
		fmt.Fprintf(&b, `<td style="padding:8px;text-align:left;vertical-align:top;white-space:pre-wrap;word-wrap:break-word;line-height:1.4">%s</td>`,
			html.EscapeString(item.Description))
		fmt.Fprintf(&b, `<td style="padding:8px;text-align:right;vertical-align:top">%s</td>`,
			html.EscapeString(placeholder.Currency(item.UnitPrice)))
		fmt.Fprintf(&b, `<td style="padding:8px;text-align:center;vertical-align:top">%d</td>`,
			item.Quantity)
		fmt.Fprintf(&b, `<td style="padding:8px;text-align:right;vertical-align:top">%s</td></tr>`,
			html.EscapeString(placeholder.Currency(item.Total)))
	}
	b.WriteString(`</tbody></table>`)
	return b.String()
}
