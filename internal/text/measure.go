// Package text provides font-metric text measurement for the page renderer.
// Widths come from real glyph advances of the embedded Go fonts rather than
// per-character approximations, so measured extents match rasterized output.
package text

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Style selects a font face: weight, slant and pixel size
type Style struct {
	Bold   bool
	Italic bool
	Size   float64
}

type faceKey struct {
	bold   bool
	italic bool
	size   float64
}

// Measurer measures and supplies font faces for styled text. Faces are cached
// per style; a Measurer is not safe for concurrent use, matching the strictly
// sequential probe model of the pagination engine.
type Measurer struct {
	mu    sync.Mutex
	fonts map[[2]bool]*opentype.Font
	faces map[faceKey]font.Face
}

// NewMeasurer parses the four embedded font variants and returns a ready measurer
func NewMeasurer() (*Measurer, error) {
	m := &Measurer{
		fonts: make(map[[2]bool]*opentype.Font, 4),
		faces: make(map[faceKey]font.Face),
	}

	sources := map[[2]bool][]byte{
		{false, false}: goregular.TTF,
		{true, false}:  gobold.TTF,
		{false, true}:  goitalic.TTF,
		{true, true}:   gobolditalic.TTF,
	}
	for variant, ttf := range sources {
		parsed, err := opentype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("failed to parse embedded font: %w", err)
		}
		m.fonts[variant] = parsed
	}
	return m, nil
}

// Face returns a cached face for the style. Size is interpreted in pixels.
func (m *Measurer) Face(style Style) (font.Face, error) {
	if style.Size <= 0 {
		style.Size = 16
	}
	key := faceKey{bold: style.Bold, italic: style.Italic, size: style.Size}

	m.mu.Lock()
	defer m.mu.Unlock()
	if face, ok := m.faces[key]; ok {
		return face, nil
	}

	// DPI 72 makes the face size equal to the pixel size
	face, err := opentype.NewFace(m.fonts[[2]bool{style.Bold, style.Italic}], &opentype.FaceOptions{
		Size:    style.Size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	m.faces[key] = face
	return face, nil
}

// Width returns the advance width of s in pixels for the given style
func (m *Measurer) Width(s string, style Style) float64 {
	face, err := m.Face(style)
	if err != nil {
		// Degrade to a coarse estimate so measurement stays conclusive
		return float64(len(s)) * style.Size * 0.5
	}
	return fixedToFloat(font.MeasureString(face, s))
}

// Ascent returns the face ascent in pixels for the given style
func (m *Measurer) Ascent(style Style) float64 {
	face, err := m.Face(style)
	if err != nil {
		return style.Size * 0.8
	}
	return fixedToFloat(face.Metrics().Ascent)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
