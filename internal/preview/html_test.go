package preview

import (
	"strings"
	"testing"

	"github.com/invopdf/invopdf/internal/layout"
	"github.com/invopdf/invopdf/pkg/model"
)

func previewTemplate() *model.Template {
	return &model.Template{Elements: []model.Element{
		{ID: "heading", Type: model.ElementText, X: 40, Y: 40, Width: 300, Height: 40, Content: "<strong>INVOICE</strong>", FontSize: 28},
		{ID: "customer", Type: model.ElementCustomerBlock, X: 40, Y: 120, Width: 320, Height: 140},
		{ID: "info", Type: model.ElementInvoiceInfo, X: 520, Y: 40, Width: 230, Height: 60},
		{ID: "items", Type: model.ElementItemsTable, X: 40, Y: 300, Width: 714, Height: 600},
		{ID: "totals", Type: model.ElementTotalsBlock, X: 434, Y: 920, Width: 320, Height: 50},
		{ID: "remarks", Type: model.ElementRemarksBlock, X: 40, Y: 990, Width: 500, Height: 80, Content: "Thanks"},
	}}
}

func previewInvoice() *model.Invoice {
	return &model.Invoice{
		CompanyName:   "Tan & Sons <Hardware>",
		Address:       "5 Jalan Besar\n81100 Johor Bahru",
		InvoiceNumber: "INV-7",
		InvoiceDate:   "2026-03-02",
		Total:         920,
		Items: []model.LineItem{
			{Description: "Steel hinge", UnitPrice: 4.6, Quantity: 200, Total: 920},
		},
	}
}

func TestRenderHTML(t *testing.T) {
	out, err := RenderHTML(previewTemplate(), previewInvoice(), layout.PageConfig{
		Items: previewInvoice().Items,
	})
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}

	for _, want := range []string{
		`class="invoice-preview-canvas"`,
		"width: 794px",
		"height: 1123px",
		"<strong>INVOICE</strong>",
		"Bill To:",
		"Tan &amp; Sons &lt;Hardware&gt;",
		"5 Jalan Besar<br />81100 Johor Bahru",
		"Item Description",
		"Unit Price (RM)",
		"RM 4.60",
		"Total: RM 920.00",
		"02/03/2026",
		`data-element-id="items"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("preview HTML missing %q", want)
		}
	}
}

func TestRenderHTMLHidesSuppressedBlocks(t *testing.T) {
	inv := previewInvoice()
	out, err := RenderHTML(previewTemplate(), inv, layout.PageConfig{
		Items:       inv.Items,
		HideTotals:  true,
		HideRemarks: true,
	})
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if strings.Contains(out, "Total: RM") {
		t.Error("suppressed totals block still present")
	}
	if strings.Contains(out, `data-element-id="remarks"`) {
		t.Error("suppressed remarks block still present")
	}
}

func TestRenderHTMLNumbersRowsFromStartIndex(t *testing.T) {
	inv := previewInvoice()
	out, err := RenderHTML(previewTemplate(), inv, layout.PageConfig{
		Items:      inv.Items,
		StartIndex: 7,
	})
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.Contains(out, `vertical-align:top">8</td>`) {
		t.Error("row number should continue from the start index")
	}
}

func TestRenderHTMLNilTemplate(t *testing.T) {
	out, err := RenderHTML(nil, previewInvoice(), layout.PageConfig{})
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.Contains(out, "invoice-preview-canvas") {
		t.Error("nil template should still render an empty page canvas")
	}
	if strings.Contains(out, "data-element-id") {
		t.Error("nil template rendered elements")
	}
}
