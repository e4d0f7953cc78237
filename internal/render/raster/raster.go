// Package raster turns rendered pages into fixed-size bitmaps. Each page is
// drawn at the canvas dimensions multiplied by a supersampling factor so the
// exported PDF keeps print quality, with text drawn from the same font faces
// the layout engine measured with.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/invopdf/invopdf/internal/layout"
	"github.com/invopdf/invopdf/internal/res"
	"github.com/invopdf/invopdf/internal/text"
	"github.com/invopdf/invopdf/pkg/model"
)

// DefaultScale is the supersampling factor applied to the canvas size
const DefaultScale = 2.0

// Rasterizer draws rendered pages into RGBA bitmaps
type Rasterizer struct {
	Scale    float64
	measurer *text.Measurer
	loader   *res.Loader
}

// NewRasterizer creates a rasterizer drawing at the default 2x supersampling
// scale. The measurer should be the one the pages were laid out with so glyph
// positions match the measured extents.
func NewRasterizer(measurer *text.Measurer, loader *res.Loader) *Rasterizer {
	return &Rasterizer{
		Scale:    DefaultScale,
		measurer: measurer,
		loader:   loader,
	}
}

// Rasterize draws one rendered page into a bitmap sized canvas × scale.
// A failing image element is a hard error; pagination guarantees are not
// worth a silently incomplete export.
func (r *Rasterizer) Rasterize(page *layout.Page) (*image.RGBA, error) {
	scale := r.Scale
	if scale <= 0 {
		scale = DefaultScale
	}

	bounds := image.Rect(0, 0, int(math.Round(page.Width*scale)), int(math.Round(page.Height*scale)))
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)

	for _, box := range page.Boxes {
		if err := r.drawBox(dst, box, scale); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

func (r *Rasterizer) drawBox(dst *image.RGBA, box *layout.ElementBox, scale float64) error {
	switch box.Element.Type {
	case model.ElementLine:
		r.drawRule(dst, box, scale)
		return nil
	case model.ElementImage:
		return r.drawImage(dst, box, scale)
	case model.ElementItemsTable:
		r.drawTable(dst, box, scale)
		return nil
	default:
		r.drawLines(dst, box, scale)
		return nil
	}
}

// drawLines draws a text-like box's visual lines with the element's padding
func (r *Rasterizer) drawLines(dst *image.RGBA, box *layout.ElementBox, scale float64) {
	ink := parseColor(box.Element.Color)
	innerX := box.X + layout.TextPadding
	innerWidth := box.Width - 2*layout.TextPadding
	y := box.Y + layout.TextPadding

	for _, line := range box.Lines {
		r.drawLine(dst, line, innerX, y, innerWidth, ink, scale)
		y += line.Advance
	}
}

// drawLine draws one visual line, aligning it within the given inner width
func (r *Rasterizer) drawLine(dst *image.RGBA, line layout.Line, x, y, width float64, ink color.Color, scale float64) {
	switch line.Align {
	case "center":
		x += (width - line.Width) / 2
	case "right":
		x += width - line.Width
	}

	baseline := y + line.Ascent
	for _, run := range line.Runs {
		face, err := r.measurer.Face(scaled(run.Style, scale))
		if err != nil {
			continue
		}
		drawer := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(ink),
			Face: face,
			Dot: fixed.Point26_6{
				X: floatToFixed(x * scale),
				Y: floatToFixed(baseline * scale),
			},
		}
		drawer.DrawString(run.Text)

		if run.Underline {
			underlineY := int(math.Round((baseline + 2) * scale))
			fillRect(dst, image.Rect(
				int(math.Round(x*scale)), underlineY,
				int(math.Round((x+run.Width)*scale)), underlineY+int(math.Max(1, scale)),
			), ink)
		}
		x += run.Width
	}
}

// drawTable draws the measured header and item rows with per-column alignment
func (r *Rasterizer) drawTable(dst *image.RGBA, box *layout.ElementBox, scale float64) {
	if box.Table == nil {
		return
	}
	ink := parseColor(box.Element.Color)

	colX := make([]float64, layout.TableColumns)
	x := box.X
	for col, width := range box.Table.Columns {
		colX[col] = x
		x += width
	}

	y := box.Y
	for col, line := range box.Table.Header {
		r.drawCell(dst, []layout.Line{line}, colX[col], y, box.Table.Columns[col], ink, scale)
	}
	y += box.Table.HeaderHeight

	for _, row := range box.Table.Rows {
		for col, cell := range row.Cells {
			r.drawCell(dst, cell, colX[col], y, box.Table.Columns[col], ink, scale)
		}
		y += row.Height
	}
}

// drawCell draws a cell's lines inside its padded column box
func (r *Rasterizer) drawCell(dst *image.RGBA, lines []layout.Line, x, y, columnWidth float64, ink color.Color, scale float64) {
	innerX := x + layout.CellPadding
	innerWidth := columnWidth - 2*layout.CellPadding
	lineY := y + layout.CellPadding
	for _, line := range lines {
		r.drawLine(dst, line, innerX, lineY, innerWidth, ink, scale)
		lineY += line.Advance
	}
}

// drawRule draws a horizontal rule spanning the box width
func (r *Rasterizer) drawRule(dst *image.RGBA, box *layout.ElementBox, scale float64) {
	ink := parseColor(box.Element.Color)
	thickness := box.Element.EffectiveThickness()
	fillRect(dst, image.Rect(
		int(math.Round(box.X*scale)),
		int(math.Round(box.Y*scale)),
		int(math.Round((box.X+box.Width)*scale)),
		int(math.Round((box.Y+thickness)*scale)),
	), ink)
}

// drawImage loads, decodes and scales the element's image to fit its box,
// preserving aspect ratio and centering the result
func (r *Rasterizer) drawImage(dst *image.RGBA, box *layout.ElementBox, scale float64) error {
	src := box.Element.Src
	if src == "" {
		return nil
	}

	resource, err := r.loader.LoadImage(src)
	if err != nil {
		return fmt.Errorf("failed to load image %q: %w", src, err)
	}

	boxW := int(math.Round(box.Width * scale))
	boxH := int(math.Round(box.Height * scale))
	if boxW <= 0 || boxH <= 0 {
		return nil
	}

	var img image.Image
	if resource.IsSVG() {
		img, err = rasterizeSVG(resource, boxW, boxH)
	} else {
		img, _, err = image.Decode(resource.GetReader())
	}
	if err != nil {
		return fmt.Errorf("failed to decode image %q: %w", src, err)
	}

	srcBounds := img.Bounds()
	if srcBounds.Dx() == 0 || srcBounds.Dy() == 0 {
		return nil
	}

	// Contain fit: scale down to the limiting axis, center the remainder
	ratio := math.Min(float64(boxW)/float64(srcBounds.Dx()), float64(boxH)/float64(srcBounds.Dy()))
	fitW := int(math.Round(float64(srcBounds.Dx()) * ratio))
	fitH := int(math.Round(float64(srcBounds.Dy()) * ratio))

	originX := int(math.Round(box.X*scale)) + (boxW-fitW)/2
	originY := int(math.Round(box.Y*scale)) + (boxH-fitH)/2
	target := image.Rect(originX, originY, originX+fitW, originY+fitH)

	draw.ApproxBiLinear.Scale(dst, target, img, srcBounds, draw.Over, nil)
	return nil
}

// rasterizeSVG renders SVG markup into a bitmap at the target box size
func rasterizeSVG(resource *res.Resource, width, height int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(resource.GetReader())
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1)
	return img, nil
}

// scaled adjusts a text style's size for the supersampling factor
func scaled(style text.Style, scale float64) text.Style {
	style.Size *= scale
	return style
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

func fillRect(dst *image.RGBA, rect image.Rectangle, ink color.Color) {
	draw.Draw(dst, rect, image.NewUniform(ink), image.Point{}, draw.Over)
}

// parseColor parses a #rgb/#rrggbb color, defaulting to black
func parseColor(value string) color.Color {
	if len(value) == 4 && value[0] == '#' {
		r := hexNibble(value[1])
		g := hexNibble(value[2])
		b := hexNibble(value[3])
		return color.RGBA{R: r*16 + r, G: g*16 + g, B: b*16 + b, A: 255}
	}
	if len(value) == 7 && value[0] == '#' {
		return color.RGBA{
			R: hexNibble(value[1])*16 + hexNibble(value[2]),
			G: hexNibble(value[3])*16 + hexNibble(value[4]),
			B: hexNibble(value[5])*16 + hexNibble(value[6]),
			A: 255,
		}
	}
	return color.Black
}

func hexNibble(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}
