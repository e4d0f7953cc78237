package invopdf

import (
	"github.com/invopdf/invopdf/pkg/api"
	"github.com/invopdf/invopdf/pkg/model"
)

type Exporter = api.Exporter
type Options = api.Options
type Option = api.Option

type Template = model.Template
type Element = model.Element
type ElementType = model.ElementType
type Invoice = model.Invoice
type LineItem = model.LineItem
type PageDescriptor = model.PageDescriptor

func New() (*Exporter, error)                           { return api.New() }
func NewWithOptions(options Options) (*Exporter, error) { return api.NewWithOptions(options) }
func DefaultOptions() Options                           { return api.DefaultOptions() }

var (
	WithScale          = api.WithScale
	WithTolerance      = api.WithTolerance
	WithDebug          = api.WithDebug
	WithBrowserCapture = api.WithBrowserCapture
	WithPreviewImage   = api.WithPreviewImage
	WithResourcePath   = api.WithResourcePath
	WithTitle          = api.WithTitle
	WithAuthor         = api.WithAuthor
	WithSubject        = api.WithSubject
	WithKeywords       = api.WithKeywords

	ParseTemplate       = model.ParseTemplate
	ParseTemplateString = model.ParseTemplateString
	ParseInvoice        = model.ParseInvoice
	ParseInvoiceString  = model.ParseInvoiceString
)

const (
	CanvasWidth  = model.CanvasWidth
	CanvasHeight = model.CanvasHeight
)
