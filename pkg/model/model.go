package model

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Canvas dimensions for a single document page: A4 at 96 DPI.
// These are global constants, not configurable per template.
const (
	CanvasWidth  = 794.0
	CanvasHeight = 1123.0
)

// ElementType identifies the visual purpose of a template element
type ElementType string

const (
	// ElementText is a free-text block, may contain placeholder tokens and inline markup
	ElementText ElementType = "text"
	// ElementCustomerBlock is the fixed bill-to block filled from the document record
	ElementCustomerBlock ElementType = "customerBlock"
	// ElementInvoiceInfo is the fixed document number / date block
	ElementInvoiceInfo ElementType = "invoiceInfo"
	// ElementItemsTable is the line-item table, the only element pagination splits across pages
	ElementItemsTable ElementType = "itemsTable"
	// ElementTotalsBlock shows the document total, suppressible per page
	ElementTotalsBlock ElementType = "totalsBlock"
	// ElementRemarksBlock is a free-text remarks area, suppressible per page
	ElementRemarksBlock ElementType = "remarksBlock"
	// ElementImage renders an image resource scaled to fit its box
	ElementImage ElementType = "image"
	// ElementLine is a horizontal rule
	ElementLine ElementType = "line"
)

// Element represents one positioned, typed visual block within a template.
// Geometry is in pixels with a top-left origin. The engine consumes elements
// read-only; they are created and edited by the template builder.
type Element struct {
	ID     string      `json:"id"`
	Type   ElementType `json:"type"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`

	// Style and content fields, meaningful per type
	FontSize       float64 `json:"fontSize,omitempty"`
	FontWeight     string  `json:"fontWeight,omitempty"`
	FontStyle      string  `json:"fontStyle,omitempty"`
	TextDecoration string  `json:"textDecoration,omitempty"`
	Color          string  `json:"color,omitempty"`
	LineHeight     float64 `json:"lineHeight,omitempty"`
	Content        string  `json:"content,omitempty"`
	Src            string  `json:"src,omitempty"`
	Thickness      float64 `json:"thickness,omitempty"`
}

// EffectiveFontSize returns the element font size, falling back to 16px
func (e *Element) EffectiveFontSize() float64 {
	if e.FontSize > 0 {
		return e.FontSize
	}
	return 16
}

// EffectiveLineHeight returns the element line height multiplier, falling back to 1.4
func (e *Element) EffectiveLineHeight() float64 {
	if e.LineHeight > 0 {
		return e.LineHeight
	}
	return 1.4
}

// EffectiveThickness returns the rule thickness for line elements, falling back to 2px
func (e *Element) EffectiveThickness() float64 {
	if e.Thickness > 0 {
		return e.Thickness
	}
	return 2
}

// Bold reports whether the element's base font weight is bold
func (e *Element) Bold() bool {
	return strings.EqualFold(e.FontWeight, "bold") || e.FontWeight == "700" || e.FontWeight == "800" || e.FontWeight == "900"
}

// Italic reports whether the element's base font style is italic
func (e *Element) Italic() bool {
	return strings.EqualFold(e.FontStyle, "italic") || strings.EqualFold(e.FontStyle, "oblique")
}

// Underline reports whether the element's base text decoration is underline
func (e *Element) Underline() bool {
	return strings.Contains(strings.ToLower(e.TextDecoration), "underline")
}

// Template is an ordered collection of elements defining a document's visual
// layout on the fixed A4 canvas. Immutable input to the engine.
type Template struct {
	Elements []Element `json:"elements"`
}

// HasElement reports whether the template contains at least one element of the given type
func (t *Template) HasElement(kind ElementType) bool {
	return t.FindFirst(kind) != nil
}

// FindFirst returns the first element of the given type, or nil
func (t *Template) FindFirst(kind ElementType) *Element {
	if t == nil {
		return nil
	}
	for i := range t.Elements {
		if t.Elements[i].Type == kind {
			return &t.Elements[i]
		}
	}
	return nil
}

// LineItem is one billable row of an invoice or quotation. The description may
// contain embedded line breaks; Total is computed upstream and trusted here.
type LineItem struct {
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	Total       float64 `json:"total"`
}

// Invoice is the document record bound into a template at render time. It is
// shared by invoices and quotations and never mutated by the engine.
type Invoice struct {
	CompanyName   string     `json:"company_name"`
	Address       string     `json:"address"`
	Attention     string     `json:"attention"`
	Telephone     string     `json:"telephone"`
	InvoiceNumber string     `json:"invoice_number"`
	InvoiceDate   string     `json:"invoice_date"`
	Subtotal      float64    `json:"subtotal"`
	Total         float64    `json:"total"`
	Items         []LineItem `json:"items"`
}

// PageDescriptor is the pagination output unit: which items belong on one
// physical page, at what starting display offset, and whether the optional
// totals/remarks blocks are suppressed on that page.
type PageDescriptor struct {
	Items       []LineItem `json:"items"`
	StartIndex  int        `json:"startIndex"`
	HideTotals  bool       `json:"hideTotals"`
	HideRemarks bool       `json:"hideRemarks"`
}

// ParseTemplate decodes a template from its JSON wire shape
func ParseTemplate(r io.Reader) (*Template, error) {
	var t Template
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("failed to parse template JSON: %w", err)
	}
	return &t, nil
}

// ParseTemplateString decodes a template from a JSON string
func ParseTemplateString(content string) (*Template, error) {
	return ParseTemplate(strings.NewReader(content))
}

// ParseInvoice decodes a document record from its JSON wire shape
func ParseInvoice(r io.Reader) (*Invoice, error) {
	var inv Invoice
	if err := json.NewDecoder(r).Decode(&inv); err != nil {
		return nil, fmt.Errorf("failed to parse invoice JSON: %w", err)
	}
	return &inv, nil
}

// ParseInvoiceString decodes a document record from a JSON string
func ParseInvoiceString(content string) (*Invoice, error) {
	return ParseInvoice(strings.NewReader(content))
}
