package layout

import (
	"strings"

	"github.com/invopdf/invopdf/internal/text"
	"github.com/invopdf/invopdf/pkg/model"
)

// styledWord is a measured word with its resolved style, the unit of wrapping
type styledWord struct {
	text      string
	style     text.Style
	underline bool
	width     float64
}

// wrapRuns breaks a sequence of styled runs into visual lines no wider than
// maxWidth. Whitespace collapses to single spaces; a word wider than the line
// is placed alone and allowed to exceed maxWidth so the overflow oracle can
// see it.
func (r *Renderer) wrapRuns(runs []model.Run, element *model.Element, align string, maxWidth float64) []Line {
	base := elementStyle(element)
	lineHeight := element.EffectiveLineHeight()

	var words []styledWord
	for _, run := range runs {
		style := base
		if run.Style.Bold {
			style.Bold = true
		}
		if run.Style.Italic {
			style.Italic = true
		}
		if run.Style.FontSize > 0 {
			style.Size = run.Style.FontSize
		}
		underline := element.Underline() || run.Style.Underline
		for _, w := range strings.Fields(run.Text) {
			words = append(words, styledWord{
				text:      w,
				style:     style,
				underline: underline,
				width:     r.measurer.Width(w, style),
			})
		}
	}

	if len(words) == 0 {
		// An empty paragraph still occupies one line of vertical space
		return []Line{r.emptyLine(base, align, lineHeight)}
	}

	var lines []Line
	var current []styledWord
	currentWidth := 0.0

	flush := func() {
		if len(current) == 0 {
			return
		}
		lines = append(lines, r.assembleLine(current, align, lineHeight))
		current = nil
		currentWidth = 0
	}

	for _, word := range words {
		spaceWidth := 0.0
		if len(current) > 0 {
			spaceWidth = r.measurer.Width(" ", word.style)
		}
		if len(current) > 0 && currentWidth+spaceWidth+word.width > maxWidth {
			flush()
			spaceWidth = 0
		}
		current = append(current, word)
		currentWidth += spaceWidth + word.width
	}
	flush()

	return lines
}

// wrapPlain wraps a single-style string, preserving embedded line breaks
func (r *Renderer) wrapPlain(s string, element *model.Element, style text.Style, align string, maxWidth float64) []Line {
	lineHeight := element.EffectiveLineHeight()
	var lines []Line
	for _, part := range strings.Split(s, "\n") {
		runs := []model.Run{{Text: part, Style: model.SpanStyle{
			Bold:     style.Bold,
			Italic:   style.Italic,
			FontSize: style.Size,
		}}}
		wrapped := r.wrapRuns(runs, element, align, maxWidth)
		if len(wrapped) == 0 {
			wrapped = []Line{r.emptyLine(style, align, lineHeight)}
		}
		lines = append(lines, wrapped...)
	}
	return lines
}

// assembleLine joins consecutive words of identical style into runs and
// computes the line's metrics
func (r *Renderer) assembleLine(words []styledWord, align string, lineHeight float64) Line {
	line := Line{Align: align}
	maxSize := 0.0
	maxAscent := 0.0

	var runText strings.Builder
	var runStyle text.Style
	var runUnderline bool

	flushRun := func() {
		if runText.Len() == 0 {
			return
		}
		s := runText.String()
		line.Runs = append(line.Runs, Run{
			Text:      s,
			Style:     runStyle,
			Underline: runUnderline,
			Width:     r.measurer.Width(s, runStyle),
		})
		runText.Reset()
	}

	for i, word := range words {
		if i == 0 || word.style != runStyle || word.underline != runUnderline {
			flushRun()
			runStyle = word.style
			runUnderline = word.underline
			if i > 0 {
				runText.WriteString(" ")
			}
		} else {
			runText.WriteString(" ")
		}
		runText.WriteString(word.text)
		if word.style.Size > maxSize {
			maxSize = word.style.Size
		}
		if ascent := r.measurer.Ascent(word.style); ascent > maxAscent {
			maxAscent = ascent
		}
	}
	flushRun()

	for _, run := range line.Runs {
		line.Width += run.Width
	}
	line.Advance = maxSize * lineHeight
	line.Ascent = maxAscent
	return line
}

// emptyLine reserves vertical space for a paragraph with no visible words
func (r *Renderer) emptyLine(style text.Style, align string, lineHeight float64) Line {
	return Line{
		Align:   align,
		Advance: style.Size * lineHeight,
		Ascent:  r.measurer.Ascent(style),
	}
}

// elementStyle derives the base text style from an element's font fields
func elementStyle(element *model.Element) text.Style {
	return text.Style{
		Bold:   element.Bold(),
		Italic: element.Italic(),
		Size:   element.EffectiveFontSize(),
	}
}
