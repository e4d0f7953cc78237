package api

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"
	"testing"

	"github.com/invopdf/invopdf/internal/render/raster"
	"github.com/invopdf/invopdf/pkg/model"
)

func exportTemplate() *model.Template {
	return &model.Template{Elements: []model.Element{
		{ID: "heading", Type: model.ElementText, X: 40, Y: 40, Width: 400, Height: 60, Content: "<strong>INVOICE</strong>", FontSize: 28},
		{ID: "info", Type: model.ElementInvoiceInfo, X: 520, Y: 40, Width: 234, Height: 64},
		{ID: "customer", Type: model.ElementCustomerBlock, X: 40, Y: 110, Width: 340, Height: 190},
		{ID: "items", Type: model.ElementItemsTable, X: 40, Y: 290, Width: 714, Height: 640},
		{ID: "totals", Type: model.ElementTotalsBlock, X: 434, Y: 950, Width: 320, Height: 48},
	}}
}

func exportInvoice(itemCount int) *model.Invoice {
	inv := &model.Invoice{
		CompanyName:   "Acme Trading Sdn Bhd",
		Address:       "12 Jalan Ampang\n50450 Kuala Lumpur",
		InvoiceNumber: "INV-2026-0042",
		InvoiceDate:   "2026-08-14",
	}
	for i := 1; i <= itemCount; i++ {
		inv.Items = append(inv.Items, model.LineItem{
			Description: fmt.Sprintf("Line item %d", i),
			UnitPrice:   12.5,
			Quantity:    2,
			Total:       25,
		})
		inv.Total += 25
	}
	return inv
}

func TestPaginateShortInvoice(t *testing.T) {
	exporter, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	pages, err := exporter.Paginate(context.Background(), exportTemplate(), exportInvoice(3))
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("short invoice paginated to %d pages, want 1", len(pages))
	}
	if pages[0].HideTotals || pages[0].HideRemarks {
		t.Error("single page must show totals and remarks")
	}
}

func TestPaginateLongInvoice(t *testing.T) {
	exporter, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	inv := exportInvoice(60)
	pages, err := exporter.Paginate(context.Background(), exportTemplate(), inv)
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if len(pages) < 2 {
		t.Fatalf("60 items paginated to %d pages, want several", len(pages))
	}

	count := 0
	for i, page := range pages {
		if page.StartIndex != count {
			t.Errorf("page %d start index %d, want %d", i, page.StartIndex, count)
		}
		count += len(page.Items)
	}
	if count != len(inv.Items) {
		t.Errorf("pages carry %d items, want %d", count, len(inv.Items))
	}

	last := pages[len(pages)-1]
	if last.HideTotals || last.HideRemarks {
		t.Error("final page must show totals and remarks")
	}
	for i := 0; i < len(pages)-1; i++ {
		if !pages[i].HideTotals {
			t.Errorf("intermediate page %d shows totals", i)
		}
	}
}

func TestExportProducesPDF(t *testing.T) {
	exporter, err := NewWithOptions(Options{Scale: 1, Title: "Test"})
	if err != nil {
		t.Fatalf("NewWithOptions: %v", err)
	}

	var buf bytes.Buffer
	if err := exporter.Export(context.Background(), exportTemplate(), exportInvoice(2), &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Error("export output is not a PDF")
	}
}

func TestExportBytes(t *testing.T) {
	exporter, err := NewWithOptions(Options{Scale: 1})
	if err != nil {
		t.Fatalf("NewWithOptions: %v", err)
	}
	out, err := exporter.ExportBytes(context.Background(), exportTemplate(), exportInvoice(1))
	if err != nil {
		t.Fatalf("ExportBytes: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("empty PDF output")
	}
}

func TestExportCancelled(t *testing.T) {
	exporter, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	if err := exporter.Export(ctx, exportTemplate(), exportInvoice(2), &buf); err == nil {
		t.Fatal("want error for cancelled context")
	}
}

func TestRenderPagesReusesPreviewImage(t *testing.T) {
	captured := image.NewRGBA(image.Rect(0, 0, 4, 4))
	exporter, err := NewWithOptions(Options{Scale: 1, PreviewImage: captured})
	if err != nil {
		t.Fatalf("NewWithOptions: %v", err)
	}

	pages, err := exporter.RenderPages(context.Background(), exportTemplate(), exportInvoice(2))
	if err != nil {
		t.Fatalf("RenderPages: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(pages))
	}
	if pages[0] != image.Image(captured) {
		t.Error("single fitting page did not reuse the captured preview image")
	}
}

func TestRenderPagesIgnoresPreviewImageForMultiPage(t *testing.T) {
	captured := image.NewRGBA(image.Rect(0, 0, 4, 4))
	exporter, err := NewWithOptions(Options{Scale: 1, PreviewImage: captured})
	if err != nil {
		t.Fatalf("NewWithOptions: %v", err)
	}

	pages, err := exporter.RenderPages(context.Background(), exportTemplate(), exportInvoice(60))
	if err != nil {
		t.Fatalf("RenderPages: %v", err)
	}
	if len(pages) < 2 {
		t.Fatalf("got %d pages, want several", len(pages))
	}
	for i, page := range pages {
		if page == image.Image(captured) {
			t.Errorf("page %d reused the preview image on a multi-page document", i)
		}
	}
}

func TestRenderPagesIgnoresPreviewImageOnOverflow(t *testing.T) {
	captured := image.NewRGBA(image.Rect(0, 0, 4, 4))
	exporter, err := NewWithOptions(Options{Scale: 1, PreviewImage: captured})
	if err != nil {
		t.Fatalf("NewWithOptions: %v", err)
	}

	// Four wrapped lines in a 20px box overflow the element.
	tpl := &model.Template{Elements: []model.Element{
		{ID: "note", Type: model.ElementText, X: 40, Y: 40, Width: 400, Height: 20,
			Content: "One\nTwo\nThree\nFour"},
	}}
	pages, err := exporter.RenderPages(context.Background(), tpl, exportInvoice(0))
	if err != nil {
		t.Fatalf("RenderPages: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(pages))
	}
	if pages[0] == image.Image(captured) {
		t.Error("overflowing page reused the preview image")
	}
	if got := pages[0].Bounds().Dx(); got != int(model.CanvasWidth) {
		t.Errorf("rendered page width %d, want %d", got, int(model.CanvasWidth))
	}
}

func TestScaleFallbackMatchesRasterizer(t *testing.T) {
	exporter, err := NewWithOptions(Options{})
	if err != nil {
		t.Fatalf("NewWithOptions: %v", err)
	}
	if got := exporter.scale(); got != raster.DefaultScale {
		t.Errorf("unset scale resolves to %g, want %g", got, raster.DefaultScale)
	}

	exporter, err = NewWithOptions(Options{Scale: 3})
	if err != nil {
		t.Fatalf("NewWithOptions: %v", err)
	}
	if got := exporter.scale(); got != 3 {
		t.Errorf("scale 3 resolves to %g", got)
	}
}

func TestPreviewHTML(t *testing.T) {
	exporter, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	inv := exportInvoice(2)
	out, err := exporter.PreviewHTML(exportTemplate(), inv, model.PageDescriptor{Items: inv.Items})
	if err != nil {
		t.Fatalf("PreviewHTML: %v", err)
	}
	if !strings.Contains(out, "invoice-preview-canvas") {
		t.Error("preview HTML missing page canvas")
	}
	if !strings.Contains(out, "INV-2026-0042") {
		t.Error("preview HTML missing invoice number")
	}
}
