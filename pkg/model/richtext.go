package model

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// SpanStyle carries the inline formatting of a styled run. A zero FontSize
// inherits the enclosing element's size.
type SpanStyle struct {
	Bold      bool
	Italic    bool
	Underline bool
	FontSize  float64
}

// Span is one node of the styled text tree: either a plain run (Text set,
// no children) or a styled run wrapping child runs.
type Span struct {
	Text     string
	Style    SpanStyle
	Children []*Span
}

// Run is a flattened leaf of the span tree with its resolved style
type Run struct {
	Text  string
	Style SpanStyle
}

// Paragraph is one logical line of rich text before wrapping, with its
// horizontal alignment ("left", "center" or "right").
type Paragraph struct {
	Align string
	Spans []*Span
}

// Runs flattens the paragraph's span tree into leaf runs in document order
func (p *Paragraph) Runs() []Run {
	var runs []Run
	for _, s := range p.Spans {
		flattenSpan(s, SpanStyle{}, &runs)
	}
	return runs
}

// Text returns the paragraph's plain text with formatting stripped
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs() {
		b.WriteString(r.Text)
	}
	return b.String()
}

// RichText is the parsed form of a free-text element's content: a sequence of
// logical paragraphs, each a tree of styled spans.
type RichText struct {
	Paragraphs []Paragraph
}

func flattenSpan(s *Span, inherited SpanStyle, out *[]Run) {
	style := inherited
	if s.Style.Bold {
		style.Bold = true
	}
	if s.Style.Italic {
		style.Italic = true
	}
	if s.Style.Underline {
		style.Underline = true
	}
	if s.Style.FontSize > 0 {
		style.FontSize = s.Style.FontSize
	}
	if s.Text != "" {
		*out = append(*out, Run{Text: s.Text, Style: style})
	}
	for _, child := range s.Children {
		flattenSpan(child, style, out)
	}
}

// ParseRichText parses a free-text element's content into paragraphs of
// styled spans. Recognized inline markup: b/strong, i/em, u, span with an
// inline font-size, br for line breaks, and div/p block wrappers carrying an
// optional text-align. Anything else contributes its text content unstyled.
// Plain text without markup parses to one paragraph per newline.
func ParseRichText(content string) (*RichText, error) {
	container := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(content), container)
	if err != nil {
		return nil, err
	}

	b := &richTextBuilder{}
	for _, n := range nodes {
		b.walk(n, SpanStyle{})
	}
	b.closeParagraph()

	rt := &RichText{Paragraphs: b.paragraphs}
	if len(rt.Paragraphs) == 0 {
		rt.Paragraphs = []Paragraph{{Align: "left"}}
	}
	return rt, nil
}

type richTextBuilder struct {
	paragraphs []Paragraph
	current    []*Span
	align      string
	open       bool
}

func (b *richTextBuilder) closeParagraph() {
	if !b.open {
		return
	}
	align := b.align
	if align == "" {
		align = "left"
	}
	b.paragraphs = append(b.paragraphs, Paragraph{Align: align, Spans: b.current})
	b.current = nil
	b.open = false
}

func (b *richTextBuilder) appendSpan(s *Span) {
	b.current = append(b.current, s)
	b.open = true
}

// walk descends the parsed fragment accumulating spans, closing the current
// paragraph at block boundaries and explicit breaks
func (b *richTextBuilder) walk(n *html.Node, style SpanStyle) {
	switch n.Type {
	case html.TextNode:
		for i, part := range strings.Split(n.Data, "\n") {
			if i > 0 {
				b.closeParagraph()
			}
			if part == "" {
				continue
			}
			b.appendSpan(&Span{Text: part, Style: style})
		}
		return
	case html.ElementNode:
	default:
		return
	}

	childStyle := style
	blockLevel := false

	switch n.DataAtom {
	case atom.Br:
		b.closeParagraph()
		b.open = true // a trailing <br> still produces an empty line
		return
	case atom.B, atom.Strong:
		childStyle.Bold = true
	case atom.I, atom.Em:
		childStyle.Italic = true
	case atom.U:
		childStyle.Underline = true
	case atom.Span, atom.Font:
		if size := inlineFontSize(n); size > 0 {
			childStyle.FontSize = size
		}
	case atom.Div, atom.P:
		blockLevel = true
	}

	if blockLevel {
		b.closeParagraph()
		if align := inlineTextAlign(n); align != "" {
			b.align = align
		} else {
			b.align = ""
		}
		b.open = true // empty blocks keep their line
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.walk(c, childStyle)
	}

	if blockLevel {
		b.closeParagraph()
		b.align = ""
	}
}

// inlineFontSize extracts a pixel font-size from a style attribute
func inlineFontSize(n *html.Node) float64 {
	for _, prop := range styleProperties(n) {
		if prop.name != "font-size" {
			continue
		}
		value := strings.TrimSuffix(prop.value, "px")
		if size, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil && size > 0 {
			return size
		}
	}
	return 0
}

// inlineTextAlign extracts a text-align value from a style attribute
func inlineTextAlign(n *html.Node) string {
	for _, prop := range styleProperties(n) {
		if prop.name != "text-align" {
			continue
		}
		switch prop.value {
		case "left", "center", "right":
			return prop.value
		}
	}
	return ""
}

type styleProperty struct {
	name  string
	value string
}

func styleProperties(n *html.Node) []styleProperty {
	var props []styleProperty
	for _, attr := range n.Attr {
		if !strings.EqualFold(attr.Key, "style") {
			continue
		}
		for _, decl := range strings.Split(attr.Val, ";") {
			name, value, ok := strings.Cut(decl, ":")
			if !ok {
				continue
			}
			props = append(props, styleProperty{
				name:  strings.ToLower(strings.TrimSpace(name)),
				value: strings.ToLower(strings.TrimSpace(value)),
			})
		}
	}
	return props
}
