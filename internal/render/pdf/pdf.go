// Package pdf assembles rasterized pages into a PDF document: one full-bleed
// image per physical A4 page.
package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"codeberg.org/go-pdf/fpdf"
)

// Physical page size of the exported document in millimeters (A4)
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
)

// RenderOptions contains document metadata for the assembled PDF
type RenderOptions struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string
}

// Renderer writes page images into a PDF
type Renderer struct{}

// NewRenderer creates a new PDF renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render writes the page images to w as a portrait A4 PDF, each image placed
// full bleed on its own page
func (r *Renderer) Render(pages []image.Image, w io.Writer, options RenderOptions) error {
	if len(pages) == 0 {
		return fmt.Errorf("no pages to render")
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(options.Title, true)
	doc.SetAuthor(options.Author, true)
	doc.SetSubject(options.Subject, true)
	doc.SetKeywords(options.Keywords, true)
	doc.SetCreator(options.Creator, true)
	doc.SetProducer(options.Producer, true)
	doc.SetAutoPageBreak(false, 0)

	for i, page := range pages {
		var buf bytes.Buffer
		if err := png.Encode(&buf, page); err != nil {
			return fmt.Errorf("failed to encode page %d: %w", i+1, err)
		}

		name := fmt.Sprintf("page-%d", i+1)
		imageOptions := fpdf.ImageOptions{ImageType: "PNG"}
		doc.RegisterImageOptionsReader(name, imageOptions, &buf)

		doc.AddPage()
		doc.ImageOptions(name, 0, 0, PageWidthMM, PageHeightMM, false, imageOptions, 0, "")
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return nil
}

// RenderToFile writes the assembled PDF to the given path, creating the
// output directory when missing
func (r *Renderer) RenderToFile(pages []image.Image, outputPath string, options RenderOptions) error {
	outputDir := filepath.Dir(outputPath)
	if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	return r.Render(pages, file, options)
}
