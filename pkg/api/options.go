package api

import (
	"image"

	"github.com/invopdf/invopdf/internal/overflow"
	"github.com/invopdf/invopdf/internal/render/raster"
)

// Options represents configuration options for the invoice exporter
type Options struct {
	// Scale is the supersampling factor applied to the page canvas when
	// rasterizing. 2 doubles the bitmap resolution for print quality.
	Scale float64

	// Tolerance is the measurement slack in pixels before content counts
	// as overflowing its element box
	Tolerance float64

	// Debug enables verbose pagination logging
	Debug bool

	// UseBrowserCapture renders pages in a headless browser instead of the
	// built-in rasterizer. Requires a Chrome or Chromium binary on the host.
	UseBrowserCapture bool

	// PreviewImage, when set, is an already-captured bitmap of the on-screen
	// preview. If pagination yields a single page and that page does not
	// overflow, the exporter reuses this image verbatim instead of rendering
	// the page again.
	PreviewImage image.Image

	// Resource paths searched for local template images
	ResourcePaths []string

	// Document metadata
	Title    string
	Author   string
	Subject  string
	Keywords string
}

// Option is a function that modifies Options
type Option func(*Options)

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		Scale:     raster.DefaultScale,
		Tolerance: overflow.DefaultTolerance,

		Debug:             false,
		UseBrowserCapture: false,

		ResourcePaths: []string{},

		Title:    "",
		Author:   "",
		Subject:  "",
		Keywords: "",
	}
}

// WithScale sets the rasterization supersampling factor
func WithScale(scale float64) Option {
	return func(o *Options) {
		o.Scale = scale
	}
}

// WithTolerance sets the overflow measurement tolerance in pixels
func WithTolerance(tolerance float64) Option {
	return func(o *Options) {
		o.Tolerance = tolerance
	}
}

// WithDebug sets the debug mode
func WithDebug(debug bool) Option {
	return func(o *Options) {
		o.Debug = debug
	}
}

// WithBrowserCapture renders pages with a headless browser
func WithBrowserCapture(enabled bool) Option {
	return func(o *Options) {
		o.UseBrowserCapture = enabled
	}
}

// WithPreviewImage hands the exporter an already-captured preview bitmap to
// reuse for single-page documents
func WithPreviewImage(img image.Image) Option {
	return func(o *Options) {
		o.PreviewImage = img
	}
}

// WithResourcePath adds a path to search for template images
func WithResourcePath(path string) Option {
	return func(o *Options) {
		o.ResourcePaths = append(o.ResourcePaths, path)
	}
}

// WithTitle sets the document title
func WithTitle(title string) Option {
	return func(o *Options) {
		o.Title = title
	}
}

// WithAuthor sets the document author
func WithAuthor(author string) Option {
	return func(o *Options) {
		o.Author = author
	}
}

// WithSubject sets the document subject
func WithSubject(subject string) Option {
	return func(o *Options) {
		o.Subject = subject
	}
}

// WithKeywords sets the document keywords
func WithKeywords(keywords string) Option {
	return func(o *Options) {
		o.Keywords = keywords
	}
}
