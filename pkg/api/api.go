// Package api is the public entry point for turning an invoice template and
// record into paginated page images and a final PDF document.
package api

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/invopdf/invopdf/internal/layout"
	"github.com/invopdf/invopdf/internal/overflow"
	"github.com/invopdf/invopdf/internal/pagination"
	"github.com/invopdf/invopdf/internal/preview"
	"github.com/invopdf/invopdf/internal/render/pdf"
	"github.com/invopdf/invopdf/internal/render/raster"
	"github.com/invopdf/invopdf/internal/res"
	"github.com/invopdf/invopdf/pkg/model"
)

// Exporter is the main API for paginating and exporting invoices
type Exporter struct {
	options  Options
	renderer *layout.Renderer
	loader   *res.Loader
	log      *logrus.Entry
}

// New creates a new invoice exporter with default options
func New() (*Exporter, error) {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a new invoice exporter with the specified options
func NewWithOptions(options Options) (*Exporter, error) {
	renderer, err := layout.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize layout renderer: %w", err)
	}

	if options.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	loader := res.NewLoader("")
	for _, path := range options.ResourcePaths {
		loader.AddSearchPath(path)
	}

	return &Exporter{
		options:  options,
		renderer: renderer,
		loader:   loader,
		log:      logrus.WithField("component", "export"),
	}, nil
}

// Paginate partitions the invoice's line items into page descriptors without
// rendering any output
func (e *Exporter) Paginate(ctx context.Context, tpl *model.Template, inv *model.Invoice) ([]model.PageDescriptor, error) {
	engine := pagination.NewEngine(e.renderer)
	if e.options.Tolerance > 0 {
		engine.SetOptions(pagination.Options{Tolerance: e.options.Tolerance})
	}
	return engine.Paginate(ctx, tpl, inv)
}

// RenderPages paginates the invoice and renders each page to a bitmap
func (e *Exporter) RenderPages(ctx context.Context, tpl *model.Template, inv *model.Invoice) ([]image.Image, error) {
	descriptors, err := e.Paginate(ctx, tpl, inv)
	if err != nil {
		return nil, err
	}
	e.log.WithField("pages", len(descriptors)).Debug("pagination complete")

	// A single-page document whose page does not overflow can reuse an
	// already-captured preview bitmap instead of rendering again.
	if e.options.PreviewImage != nil && len(descriptors) == 1 {
		page := e.renderer.Render(tpl, inv, pageConfig(descriptors[0]))
		oracle := overflow.NewOracle()
		if e.options.Tolerance > 0 {
			oracle.Tolerance = e.options.Tolerance
		}
		if !oracle.HasOverflow(page) {
			e.log.Debug("reusing captured preview image")
			return []image.Image{e.options.PreviewImage}, nil
		}
	}

	pages := make([]image.Image, 0, len(descriptors))
	for i, descriptor := range descriptors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var img image.Image
		if e.options.UseBrowserCapture {
			img, err = e.capturePage(ctx, tpl, inv, descriptor)
		} else {
			img, err = e.rasterizePage(tpl, inv, descriptor)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", i+1, err)
		}
		pages = append(pages, img)
	}
	return pages, nil
}

// Export paginates the invoice, renders each page and writes the assembled
// PDF to the specified writer
func (e *Exporter) Export(ctx context.Context, tpl *model.Template, inv *model.Invoice, output io.Writer) error {
	pages, err := e.RenderPages(ctx, tpl, inv)
	if err != nil {
		return err
	}

	renderer := pdf.NewRenderer()
	renderOptions := pdf.RenderOptions{
		Title:    e.options.Title,
		Author:   e.options.Author,
		Subject:  e.options.Subject,
		Keywords: e.options.Keywords,
		Creator:  "InvoPDF",
		Producer: "InvoPDF",
	}
	if err := renderer.Render(pages, output, renderOptions); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return nil
}

// ExportToFile paginates the invoice and writes the assembled PDF to the
// specified file
func (e *Exporter) ExportToFile(ctx context.Context, tpl *model.Template, inv *model.Invoice, outputPath string) error {
	if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	return e.Export(ctx, tpl, inv, file)
}

// ExportBytes paginates the invoice and returns the assembled PDF bytes
func (e *Exporter) ExportBytes(ctx context.Context, tpl *model.Template, inv *model.Invoice) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Export(ctx, tpl, inv, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PreviewHTML renders one page of the invoice as a standalone HTML document,
// matching what the browser capture path screenshots
func (e *Exporter) PreviewHTML(tpl *model.Template, inv *model.Invoice, descriptor model.PageDescriptor) (string, error) {
	return preview.RenderHTML(tpl, inv, pageConfig(descriptor))
}

// scale is the effective supersampling factor, shared by both export
// backends so they agree when no scale is configured
func (e *Exporter) scale() float64 {
	if e.options.Scale > 0 {
		return e.options.Scale
	}
	return raster.DefaultScale
}

// rasterizePage draws one page with the built-in rasterizer
func (e *Exporter) rasterizePage(tpl *model.Template, inv *model.Invoice, descriptor model.PageDescriptor) (image.Image, error) {
	page := e.renderer.Render(tpl, inv, pageConfig(descriptor))
	rasterizer := raster.NewRasterizer(e.renderer.Measurer(), e.loader)
	rasterizer.Scale = e.scale()
	return rasterizer.Rasterize(page)
}

// capturePage screenshots one page in a headless browser
func (e *Exporter) capturePage(ctx context.Context, tpl *model.Template, inv *model.Invoice, descriptor model.PageDescriptor) (image.Image, error) {
	pageHTML, err := preview.RenderHTML(tpl, inv, pageConfig(descriptor))
	if err != nil {
		return nil, err
	}
	capturer := &preview.Capturer{Scale: e.scale()}
	return capturer.Capture(ctx, pageHTML)
}

func pageConfig(descriptor model.PageDescriptor) layout.PageConfig {
	return layout.PageConfig{
		Items:       descriptor.Items,
		StartIndex:  descriptor.StartIndex,
		HideTotals:  descriptor.HideTotals,
		HideRemarks: descriptor.HideRemarks,
	}
}

// WithOptions returns a new exporter with the specified options
func (e *Exporter) WithOptions(options Options) (*Exporter, error) {
	return NewWithOptions(options)
}

// WithOption returns a new exporter with the specified option set
func (e *Exporter) WithOption(option Option) (*Exporter, error) {
	newOptions := e.options
	option(&newOptions)
	return NewWithOptions(newOptions)
}

// AddResourcePath adds a path to search for template images
func (e *Exporter) AddResourcePath(path string) *Exporter {
	e.options.ResourcePaths = append(e.options.ResourcePaths, path)
	e.loader.AddSearchPath(path)
	return e
}
